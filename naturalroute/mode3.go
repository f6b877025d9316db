package naturalroute

import (
	"encoding/binary"

	"github.com/hakorune/hakonyans/bytestream"
	"github.com/hakorune/hakonyans/rowfilter"
)

// ModeTwoContext splits residuals into a "flat" and an "edge" bucket by
// a local gradient test and entropy-codes each with its own
// data-adaptive rANS stream, rather than compressing one combined
// stream with TileLZ.
const ModeTwoContext = 3

const gradFlatThreshold = 16

// buildMode3Payload reuses the row predictor ids chosen for the rich
// set (mode 1) so mode 1 and mode 3 see identical per-row predictors,
// as the wire format intends.
func buildMode3Payload(padded []int16, padW, padH int, rowIDs []byte) []byte {
	pixelCount := padW * padH
	var flatBytes, edgeBytes []byte

	for y := 0; y < padH; y++ {
		id := rowIDs[y]
		for x := 0; x < padW; x++ {
			cur := int32(padded[y*padW+x])
			a, b, c := neighbors(padded, padW, x, y)
			resid := int16(cur - predict(id, a, b, c))
			u := rowfilter.ZigZagEncode16(resid)

			grad := abs32(a - c)
			if g2 := abs32(b - c); g2 > grad {
				grad = g2
			}
			if grad < gradFlatThreshold {
				flatBytes = append(flatBytes, byte(u), byte(u>>8))
			} else {
				edgeBytes = append(edgeBytes, byte(u), byte(u>>8))
			}
		}
	}

	flatPayload := bytestream.EncodeByteStream(flatBytes)
	edgePayload := bytestream.EncodeByteStream(edgeBytes)

	predMode, predPayload := packPredictorStream(rowIDs)

	out := make([]byte, 0, 27+len(predPayload)+len(flatPayload)+len(edgePayload))
	out = append(out, WrapperMagicNaturalRow, ModeTwoContext)
	out = appendU32(out, uint32(pixelCount))
	out = appendU32(out, uint32(padH))
	out = appendU32(out, uint32(len(flatPayload)))
	out = appendU32(out, uint32(len(edgePayload)))
	out = append(out, predMode)
	out = appendU32(out, uint32(padH))
	out = appendU32(out, uint32(len(predPayload)))
	out = append(out, predPayload...)
	out = append(out, flatPayload...)
	out = append(out, edgePayload...)
	return out
}

func decodeMode3Payload(frame []byte, padW, padH int) []int16 {
	zeros := make([]int16, padW*padH)
	if len(frame) < 27 {
		return zeros
	}
	pixelCount := binary.LittleEndian.Uint32(frame[2:6])
	predCount := binary.LittleEndian.Uint32(frame[6:10])
	flatPayloadSize := binary.LittleEndian.Uint32(frame[10:14])
	edgePayloadSize := binary.LittleEndian.Uint32(frame[14:18])

	expectedPixels := uint32(padW * padH)
	if pixelCount != expectedPixels || predCount != uint32(padH) {
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

	flatOff := predOff + int(predPayloadSize)
	if flatOff > len(frame) || int(flatPayloadSize) > len(frame)-flatOff {
		return zeros
	}
	edgeOff := flatOff + int(flatPayloadSize)
	if edgeOff > len(frame) || int(edgePayloadSize) > len(frame)-edgeOff {
		return zeros
	}

	flatBytes := bytestream.DecodeByteStream(frame[flatOff:edgeOff])
	edgeBytes := bytestream.DecodeByteStream(frame[edgeOff : edgeOff+int(edgePayloadSize)])

	out := make([]int16, padW*padH)
	fi, ei := 0, 0
	for y := 0; y < padH; y++ {
		id := rowIDs[y]
		for x := 0; x < padW; x++ {
			a, b, c := neighbors(out, padW, x, y)
			grad := abs32(a - c)
			if g2 := abs32(b - c); g2 > grad {
				grad = g2
			}

			var u uint16
			if grad < gradFlatThreshold {
				if fi+1 < len(flatBytes) {
					u = uint16(flatBytes[fi]) | uint16(flatBytes[fi+1])<<8
				}
				fi += 2
			} else {
				if ei+1 < len(edgeBytes) {
					u = uint16(edgeBytes[ei]) | uint16(edgeBytes[ei+1])<<8
				}
				ei += 2
			}
			resid := rowfilter.ZigZagDecode16(u)
			out[y*padW+x] = int16(predict(id, a, b, c) + int32(resid))
		}
	}
	return out
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
