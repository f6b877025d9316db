// Package bytestream wraps entropycore's flat interleaved rANS into the
// two byte-stream codec variants used throughout the pipeline: a
// data-adaptive codec that builds a fresh histogram per call, and a
// shared-CDF codec for payloads (mostly TileLZ token streams) that
// would otherwise pay per-tile CDF overhead for little gain.
package bytestream

import (
	"encoding/binary"

	"github.com/hakorune/hakonyans/entropycore"
)

// freqTableBytes is the framed size of the 256-symbol frequency table
// (u32 per symbol).
const freqTableBytes = 256 * 4

// EncodeByteStream builds a histogram over data's 256 byte values,
// encodes it through the flat interleaved rANS, and frames the result
// as [u32 cdf_size=1024][freq table][u32 count][u32 rans_size][rans bytes].
func EncodeByteStream(data []byte) []byte {
	raw := make([]uint32, 256)
	for _, b := range data {
		raw[b]++
	}
	cdf := entropycore.BuildFromFreq(raw)

	enc := entropycore.NewFlatEncoder()
	for _, b := range data {
		enc.EncodeSymbol(cdf, int(b))
	}
	ransBytes := enc.Finish()

	out := make([]byte, 4+freqTableBytes+4+4+len(ransBytes))
	binary.LittleEndian.PutUint32(out[0:], freqTableBytes)
	for i, f := range cdf.Freq {
		binary.LittleEndian.PutUint32(out[4+i*4:], f)
	}
	off := 4 + freqTableBytes
	binary.LittleEndian.PutUint32(out[off:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[off+4:], uint32(len(ransBytes)))
	copy(out[off+8:], ransBytes)
	return out
}

// DecodeByteStream is the inverse of EncodeByteStream. A frame too
// short to hold its header, frequency table and counts, or whose table
// size is not 1024, yields nil; a frame whose rANS body is truncated
// yields a zero-filled buffer of the declared count, matching the
// leaf-decoder corruption policy of §7.
func DecodeByteStream(frame []byte) []byte {
	if len(frame) < 4 {
		return nil
	}
	cdfSize := binary.LittleEndian.Uint32(frame[0:])
	if cdfSize != freqTableBytes || len(frame) < 4+freqTableBytes+8 {
		return nil
	}
	raw := make([]uint32, 256)
	for i := range raw {
		raw[i] = binary.LittleEndian.Uint32(frame[4+i*4:])
	}
	cdf := rebuildFromScaledFreq(raw)

	off := 4 + freqTableBytes
	count := binary.LittleEndian.Uint32(frame[off:])
	ransSize := binary.LittleEndian.Uint32(frame[off+4:])
	body := off + 8
	if uint64(body)+uint64(ransSize) > uint64(len(frame)) {
		return make([]byte, count)
	}
	ransBytes := frame[body : body+int(ransSize)]

	dec := entropycore.NewFlatDecoder(ransBytes)
	out := make([]byte, count)
	for i := range out {
		out[i] = byte(dec.DecodeSymbol(cdf))
	}
	return out
}

// rebuildFromScaledFreq reconstructs a CDF directly from already-scaled
// per-symbol frequencies (the frame stores final freq[], not raw
// counts), so the decoder builds identical cdf offsets without
// re-running the Laplace/rescale pass.
func rebuildFromScaledFreq(freq []uint32) *entropycore.CDF {
	cdf := make([]uint32, len(freq)+1)
	for i, f := range freq {
		cdf[i+1] = cdf[i] + f
	}
	return &entropycore.CDF{Freq: freq, Cdf: cdf}
}
