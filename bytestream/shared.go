package bytestream

import (
	"encoding/binary"
	"sync"

	"github.com/hakorune/hakonyans/entropycore"
)

// sharedCDF is a fixed, static frequency distribution tuned for
// TileLZ token streams: tag bytes (0, 1) and small length/distance
// bytes dominate, so they get outsized frequency mass; the rest of the
// alphabet gets a flat baseline so no byte value is ever unencodable.
var (
	sharedCDFOnce  sync.Once
	sharedCDFTable *entropycore.CDF
)

func buildSharedFreq() []uint32 {
	raw := make([]uint32, 256)
	for i := range raw {
		raw[i] = 1
	}
	raw[0] += 1024 // LITRUN tag
	raw[1] += 768  // MATCH tag
	for i := 2; i <= 16; i++ {
		raw[i] += 192
	}
	for i := 17; i <= 63; i++ {
		raw[i] += 64
	}
	for i := 64; i <= 127; i++ {
		raw[i] += 24
	}
	for i := 128; i <= 255; i++ {
		raw[i] += 8
	}
	for i := 0; i < 8; i++ {
		raw[i] += 128
	}
	return raw
}

func sharedCDF() *entropycore.CDF {
	sharedCDFOnce.Do(func() {
		sharedCDFTable = entropycore.BuildFromFreq(buildSharedFreq())
	})
	return sharedCDFTable
}

// EncodeByteStreamSharedLZ encodes data against the fixed shared CDF
// and frames it as [u32 count][u32 rans_size][rans bytes], skipping the
// per-call frequency table that EncodeByteStream pays for.
func EncodeByteStreamSharedLZ(data []byte) []byte {
	cdf := sharedCDF()
	enc := entropycore.NewFlatEncoder()
	for _, b := range data {
		enc.EncodeSymbol(cdf, int(b))
	}
	ransBytes := enc.Finish()

	out := make([]byte, 8+len(ransBytes))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(ransBytes)))
	copy(out[8:], ransBytes)
	return out
}

// DecodeByteStreamSharedLZ is the inverse of EncodeByteStreamSharedLZ.
func DecodeByteStreamSharedLZ(frame []byte) []byte {
	if len(frame) < 8 {
		return nil
	}
	count := binary.LittleEndian.Uint32(frame[0:])
	ransSize := binary.LittleEndian.Uint32(frame[4:])
	if uint64(8)+uint64(ransSize) > uint64(len(frame)) {
		return make([]byte, count)
	}
	ransBytes := frame[8 : 8+int(ransSize)]

	cdf := sharedCDF()
	dec := entropycore.NewFlatDecoder(ransBytes)
	out := make([]byte, count)
	for i := range out {
		out[i] = byte(dec.DecodeSymbol(cdf))
	}
	return out
}
