package screenroute

import (
	"sort"

	"github.com/hakorune/hakonyans/bytestream"
	"github.com/hakorune/hakonyans/tilelz"
)

// MagicScreenIndexed tags the screen-indexed tile.
const MagicScreenIndexed = 0xAC

// MaxPaletteColors is the hard cap on distinct values a screen-indexed
// plane may have; planes with more are rejected back to the caller,
// which should fall back to another route.
const MaxPaletteColors = 64

const (
	screenModeRaw = iota
	screenModeRANS
	screenModeLZ
)

// BuildFailReason explains why EncodeScreenIndexed declined to build a
// tile, so callers can decide whether to retry with a different route.
type BuildFailReason int

const (
	FailNone BuildFailReason = iota
	FailTooManyUnique
	FailEmptyHistogram
	FailInternal
)

func bitsForSymbolCount(count int) int {
	if count <= 1 {
		return 0
	}
	bits := 0
	for v := 1; v < count; v <<= 1 {
		bits++
	}
	return bits
}

func packIndexBits(indices []byte, bits int) []byte {
	if bits <= 0 || len(indices) == 0 {
		return nil
	}
	out := make([]byte, 0, (len(indices)*bits+7)/8)
	var acc uint64
	accBits := 0
	mask := uint32(1)<<uint(bits) - 1
	for _, idx := range indices {
		acc |= uint64(uint32(idx)&mask) << uint(accBits)
		accBits += bits
		for accBits >= 8 {
			out = append(out, byte(acc&0xFF))
			acc >>= 8
			accBits -= 8
		}
	}
	if accBits > 0 {
		out = append(out, byte(acc&0xFF))
	}
	return out
}

func unpackIndexBits(packed []byte, bits, count int) []byte {
	out := make([]byte, count)
	if bits <= 0 {
		return out
	}
	var acc uint64
	accBits := 0
	pos := 0
	mask := uint32(1)<<uint(bits) - 1
	for i := 0; i < count; i++ {
		for accBits < bits && pos < len(packed) {
			acc |= uint64(packed[pos]) << uint(accBits)
			accBits += 8
			pos++
		}
		out[i] = byte(uint32(acc) & mask)
		acc >>= uint(bits)
		accBits -= bits
	}
	return out
}

// EncodeScreenIndexed builds the palette-indexed tile for a width*height
// plane padded to 8x8 multiples, replicating the last row/column to fill
// the pad. It fails (returning nil, reason) when the plane has more than
// MaxPaletteColors distinct values.
func EncodeScreenIndexed(plane []int16, width, height int) ([]byte, BuildFailReason) {
	if len(plane) == 0 || width == 0 || height == 0 {
		return nil, FailInternal
	}
	padW := ((width + 7) / 8) * 8
	padH := ((height + 7) / 8) * 8
	pixelCount := padW * padH

	freq := make(map[int16]uint32, 128)
	for y := 0; y < padH; y++ {
		sy := min(y, height-1)
		for x := 0; x < padW; x++ {
			sx := min(x, width-1)
			v := plane[sy*width+sx]
			freq[v]++
			if len(freq) > MaxPaletteColors {
				return nil, FailTooManyUnique
			}
		}
	}
	if len(freq) == 0 {
		return nil, FailEmptyHistogram
	}

	type kv struct {
		val   int16
		count uint32
	}
	pairs := make([]kv, 0, len(freq))
	for v, c := range freq {
		pairs = append(pairs, kv{v, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].val < pairs[j].val
	})

	palette := make([]int16, len(pairs))
	valToIdx := make(map[int16]byte, len(pairs))
	for i, p := range pairs {
		palette[i] = p.val
		valToIdx[p.val] = byte(i)
	}

	bitsPerIndex := bitsForSymbolCount(len(palette))
	indices := make([]byte, 0, pixelCount)
	for y := 0; y < padH; y++ {
		sy := min(y, height-1)
		for x := 0; x < padW; x++ {
			sx := min(x, width-1)
			indices = append(indices, valToIdx[plane[sy*width+sx]])
		}
	}

	packed := packIndexBits(indices, bitsPerIndex)
	payload := packed
	mode := byte(screenModeRaw)

	if len(packed) > 0 {
		if rans := bytestream.EncodeByteStream(packed); len(rans) > 0 && len(rans) < len(payload) {
			payload, mode = rans, screenModeRANS
		}
		if lz := tilelz.Compress(packed, tilelz.DefaultOptions()); len(lz) > 0 && len(lz) < len(payload) {
			payload, mode = lz, screenModeLZ
		}
	}

	out := make([]byte, 0, 14+len(palette)*2+len(payload))
	out = append(out, MagicScreenIndexed, mode, byte(bitsPerIndex), 0)
	pcount := uint16(len(palette))
	out = append(out, byte(pcount), byte(pcount>>8))
	pc := uint32(pixelCount)
	out = append(out, byte(pc), byte(pc>>8), byte(pc>>16), byte(pc>>24))
	rawPackedSize := uint32(len(packed))
	out = append(out, byte(rawPackedSize), byte(rawPackedSize>>8), byte(rawPackedSize>>16), byte(rawPackedSize>>24))
	for _, v := range palette {
		uv := uint16(v)
		out = append(out, byte(uv), byte(uv>>8))
	}
	out = append(out, payload...)
	return out, FailNone
}

// DecodeScreenIndexed reverses EncodeScreenIndexed. width and height are
// the logical plane dimensions the caller originally passed to encode;
// the frame only carries the padded pixel count, so the pad geometry is
// recomputed from them rather than stored twice.
func DecodeScreenIndexed(frame []byte, width, height int) (plane []int16, ok bool) {
	if len(frame) < 14 || frame[0] != MagicScreenIndexed || width == 0 || height == 0 {
		return nil, false
	}
	mode := frame[1]
	bitsPerIndex := int(frame[2])
	pcount := int(frame[4]) | int(frame[5])<<8
	pixelCount := int(frame[6]) | int(frame[7])<<8 | int(frame[8])<<16 | int(frame[9])<<24
	rawPackedSize := int(frame[10]) | int(frame[11])<<8 | int(frame[12])<<16 | int(frame[13])<<24

	off := 14
	if off+pcount*2 > len(frame) {
		return nil, false
	}
	palette := make([]int16, pcount)
	for i := 0; i < pcount; i++ {
		palette[i] = int16(uint16(frame[off]) | uint16(frame[off+1])<<8)
		off += 2
	}
	payload := frame[off:]

	var packed []byte
	switch mode {
	case screenModeRANS:
		packed = bytestream.DecodeByteStream(payload)
	case screenModeLZ:
		packed = tilelz.Decompress(payload, rawPackedSize)
	default:
		packed = payload
	}

	padW := ((width + 7) / 8) * 8
	padH := ((height + 7) / 8) * 8
	if padW*padH != pixelCount {
		return nil, false
	}

	indices := unpackIndexBits(packed, bitsPerIndex, pixelCount)
	padded := make([]int16, pixelCount)
	for i, idx := range indices {
		if int(idx) < len(palette) {
			padded[i] = palette[idx]
		}
	}

	out := make([]int16, width*height)
	for y := 0; y < height; y++ {
		copy(out[y*width:(y+1)*width], padded[y*padW:y*padW+width])
	}
	return out, true
}
