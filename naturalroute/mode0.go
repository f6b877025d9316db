package naturalroute

import (
	"encoding/binary"

	"github.com/hakorune/hakonyans/bytestream"
	"github.com/hakorune/hakonyans/rowfilter"
	"github.com/hakorune/hakonyans/tilelz"
)

// ModeBasic is the cheapest natural-row sub-mode: one of
// Left/Up/Average per row, residuals compressed TileLZ then
// shared-CDF rANS.
const ModeBasic = 0

// buildMode0Payload encodes the plane with the 3-predictor row set.
// Frame: [magic][mode=0][pixel_count u32][pred_count u32][resid_raw_count
// u32][resid_payload_size u32][pred_ids][payload].
func buildMode0Payload(padded []int16, padW, padH int) []byte {
	pixelCount := padW * padH
	rowIDs := buildRowIDs(padded, padW, padH, numBasicPredictors)
	residuals := residualsForRowIDs(padded, padW, padH, rowIDs)
	_, lo := splitResidualBytes(residuals)

	lz := tilelz.Compress(lo, tilelz.DefaultOptions())
	if len(lz) == 0 {
		return nil
	}
	payload := bytestream.EncodeByteStreamSharedLZ(lz)
	if len(payload) == 0 {
		return nil
	}

	out := make([]byte, 0, 18+len(rowIDs)+len(payload))
	out = append(out, WrapperMagicNaturalRow, ModeBasic)
	out = appendU32(out, uint32(pixelCount))
	out = appendU32(out, uint32(padH))
	out = appendU32(out, uint32(len(lo)))
	out = appendU32(out, uint32(len(payload)))
	out = append(out, rowIDs...)
	out = append(out, payload...)
	return out
}

func decodeMode0Payload(frame []byte, padW, padH int) []int16 {
	zeros := make([]int16, padW*padH)
	if len(frame) < 18 {
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

	predOff := 18
	residOff := predOff + int(predCount)
	if residOff > len(frame) || int(residPayloadSize) > len(frame)-residOff {
		return zeros
	}
	rowIDs := append([]byte(nil), frame[predOff:residOff]...)

	lz := bytestream.DecodeByteStreamSharedLZ(frame[residOff : residOff+int(residPayloadSize)])
	lo := tilelz.Decompress(lz, int(residRawCount))
	if len(lo) != int(residRawCount) {
		return zeros
	}
	residuals := joinResidualBytes(nil, lo)
	return reconstructForRowIDs(residuals, padW, padH, rowIDs)
}

func appendU32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

// splitResidualBytes zigzag-encodes each residual into a 2-byte
// little-endian stream, matching the natural-row wire format (not the
// lo/hi plane split used by the legacy tile route).
func splitResidualBytes(residuals []int16) (zz []uint16, packed []byte) {
	zz = make([]uint16, len(residuals))
	packed = make([]byte, len(residuals)*2)
	for i, v := range residuals {
		u := rowfilter.ZigZagEncode16(v)
		zz[i] = u
		packed[i*2] = byte(u)
		packed[i*2+1] = byte(u >> 8)
	}
	return zz, packed
}

func joinResidualBytes(_ []uint16, packed []byte) []int16 {
	n := len(packed) / 2
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		u := uint16(packed[i*2]) | uint16(packed[i*2+1])<<8
		out[i] = rowfilter.ZigZagDecode16(u)
	}
	return out
}
