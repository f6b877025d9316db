package naturalroute

import (
	"encoding/binary"

	"github.com/hakorune/hakonyans/bytestream"
	"github.com/hakorune/hakonyans/tilelz"
)

// ModeRich and ModeChainLZ share the same wrapper framing; they differ
// only in which TileLZ strategy compresses the residual stream.
const (
	ModeRich   = 1
	ModeChainLZ = 2
)

const (
	predModeRaw = iota
	predModeRANS
)

// packPredictorStream picks raw or rANS for the row predictor-id
// stream, whichever is smaller.
func packPredictorStream(rowIDs []byte) (mode byte, payload []byte) {
	payload = rowIDs
	mode = predModeRaw
	if rans := bytestream.EncodeByteStream(rowIDs); len(rans) > 0 && len(rans) < len(payload) {
		payload, mode = rans, predModeRANS
	}
	return mode, payload
}

func unpackPredictorStream(mode byte, payload []byte, count int) []byte {
	switch mode {
	case predModeRANS:
		out := bytestream.DecodeByteStream(payload)
		if len(out) != count {
			return make([]byte, count)
		}
		return out
	default:
		if len(payload) < count {
			return make([]byte, count)
		}
		return append([]byte(nil), payload[:count]...)
	}
}

// buildMode1OrMode2Payload shares framing between ModeRich and
// ModeChainLZ; compress is the TileLZ pass applied to the residual
// stream (compressMode1's greedy pass for mode 1, compressMode2's lazy-1
// pass with its optimal-parse probe for mode 2; both use the same
// 16-bit window).
func buildMode1OrMode2Payload(padded []int16, padW, padH int, outMode byte, compress func([]byte) []byte) []byte {
	pixelCount := padW * padH
	rowIDs := buildRowIDs(padded, padW, padH, numRichPredictors)
	residuals := residualsForRowIDs(padded, padW, padH, rowIDs)
	_, residualBytes := splitResidualBytes(residuals)

	predMode, predPayload := packPredictorStream(rowIDs)

	lz := compress(residualBytes)
	if len(lz) == 0 {
		return nil
	}
	residPayload := bytestream.EncodeByteStreamSharedLZ(lz)
	if len(residPayload) == 0 {
		return nil
	}

	out := make([]byte, 0, 27+len(predPayload)+len(residPayload))
	out = append(out, WrapperMagicNaturalRow, outMode)
	out = appendU32(out, uint32(pixelCount))
	out = appendU32(out, uint32(padH))
	out = appendU32(out, uint32(len(residualBytes)))
	out = appendU32(out, uint32(len(residPayload)))
	out = append(out, predMode)
	out = appendU32(out, uint32(padH))
	out = appendU32(out, uint32(len(predPayload)))
	out = append(out, predPayload...)
	out = append(out, residPayload...)
	return out
}

func decodeMode1OrMode2Payload(frame []byte, padW, padH int) []int16 {
	zeros := make([]int16, padW*padH)
	if len(frame) < 27 {
		return zeros
	}
	pixelCount := binary.LittleEndian.Uint32(frame[2:6])
	predCount := binary.LittleEndian.Uint32(frame[6:10])
	residRawCount := binary.LittleEndian.Uint32(frame[10:14])
	residPayloadSize := binary.LittleEndian.Uint32(frame[14:18])

	expectedPixels := uint32(padW * padH)
	if pixelCount != expectedPixels || predCount != uint32(padH) || residRawCount != expectedPixels*2 {
		return zeros
	}

	predMode := frame[18]
	predRawCount := binary.LittleEndian.Uint32(frame[19:23])
	predPayloadSize := binary.LittleEndian.Uint32(frame[23:27])
	if predRawCount != predCount {
		return zeros
	}

	predOff := 27
	if predOff > len(frame) || int(predPayloadSize) > len(frame)-predOff {
		return zeros
	}
	rowIDs := unpackPredictorStream(predMode, frame[predOff:predOff+int(predPayloadSize)], int(predCount))

	residOff := predOff + int(predPayloadSize)
	if residOff > len(frame) || int(residPayloadSize) > len(frame)-residOff {
		return zeros
	}
	lz := bytestream.DecodeByteStreamSharedLZ(frame[residOff : residOff+int(residPayloadSize)])
	residualBytes := tilelz.Decompress(lz, int(residRawCount))
	if len(residualBytes) != int(residRawCount) {
		return zeros
	}
	residuals := joinResidualBytes(nil, residualBytes)
	return reconstructForRowIDs(residuals, padW, padH, rowIDs)
}
