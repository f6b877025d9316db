package blockmode

import (
	"bytes"
	"sort"

	"github.com/icza/bitio"
)

// MagicPalette tags the palette sub-stream per the container's wrapper
// magic-byte table.
const MagicPalette = 0xA7

// MaxPaletteColors is the largest palette size this package represents;
// profiles further restrict it (UI/ANIME 8, PHOTO 2).
const MaxPaletteColors = 8

// Palette is the small per-block color table used by the PALETTE block
// mode: up to MaxPaletteColors int16 residual values, biased by +128 so
// they fit a byte.
type Palette struct {
	Size   int
	Colors [MaxPaletteColors]byte
}

// ExtractPalette builds the palette for an 8x8 (64-sample) block, sorted
// by descending frequency. It returns a zero-size palette when the block
// uses more than maxColors distinct values.
func ExtractPalette(block [64]int16, maxColors int) Palette {
	counts := make(map[int16]int, 16)
	for _, v := range block {
		counts[v]++
	}
	if len(counts) > maxColors {
		return Palette{}
	}

	type kv struct {
		val   int16
		count int
	}
	sorted := make([]kv, 0, len(counts))
	for v, c := range counts {
		sorted = append(sorted, kv{v, c})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].count > sorted[j].count })

	var p Palette
	p.Size = len(sorted)
	for i, e := range sorted {
		p.Colors[i] = byte(int32(e.val) + 128)
	}
	return p
}

// MapIndices maps each of the block's 64 samples to its palette index.
func MapIndices(block [64]int16, p Palette) [64]byte {
	var idx [64]byte
	for i, v := range block {
		val := byte(int32(v) + 128)
		best := 0
		minDist := 1 << 30
		for k := 0; k < p.Size; k++ {
			if p.Colors[k] == val {
				best = k
				break
			}
			d := int(p.Colors[k]) - int(val)
			if d < 0 {
				d = -d
			}
			if d < minDist {
				minDist, best = d, k
			}
		}
		idx[i] = byte(best)
	}
	return idx
}

// ReconstructPaletteBlock fills the 8x8 block at (curX,curY) from a
// decoded palette and index array.
func ReconstructPaletteBlock(padded []int16, padW, curX, curY int, p Palette, idx [64]byte) {
	for i := 0; i < 64; i++ {
		y, x := i/8, i%8
		v := int32(p.Colors[idx[i]]) - 128
		padded[(curY+y)*padW+curX+x] = int16(v)
	}
}

func bitsForPaletteSize(size int) uint64 {
	switch {
	case size <= 1:
		return 0
	case size <= 2:
		return 1
	case size <= 4:
		return 2
	default:
		return 3
	}
}

// EncodePaletteStream serializes every block's palette and index array
// using icza/bitio for the sub-byte index packing (1/2/3 bits per pixel
// depending on palette size), then frames it with the shared wrapper.
func EncodePaletteStream(palettes []Palette, indices [][64]byte) []byte {
	if len(palettes) == 0 {
		return nil
	}

	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)

	var prev Palette
	for i, p := range palettes {
		usePrev := p.Size > 0 && p == prev
		head := byte((p.Size - 1) & 0x07)
		if usePrev {
			head |= 0x80
		}
		bw.WriteByte(head)
		if !usePrev {
			for k := 0; k < p.Size; k++ {
				bw.WriteByte(p.Colors[k])
			}
			prev = p
		}
		if p.Size <= 1 {
			continue
		}
		bits := bitsForPaletteSize(p.Size)
		for _, v := range indices[i] {
			bw.WriteBits(uint64(v), uint8(bits))
		}
	}
	bw.Close()

	return wrap(MagicPalette, buf.Bytes())
}

// DecodePaletteStream reverses EncodePaletteStream for numBlocks blocks.
func DecodePaletteStream(frame []byte, numBlocks int) ([]Palette, [][64]byte) {
	palettes := make([]Palette, 0, numBlocks)
	indices := make([][64]byte, 0, numBlocks)
	if len(frame) == 0 || numBlocks <= 0 {
		return palettes, indices
	}

	raw := unwrap(MagicPalette, frame, len(frame))
	br := bitio.NewReader(bytes.NewReader(raw))

	var prev Palette
	for i := 0; i < numBlocks; i++ {
		head, err := br.ReadByte()
		if err != nil {
			break
		}
		usePrev := head&0x80 != 0
		size := int(head&0x07) + 1

		var p Palette
		p.Size = size
		if usePrev {
			p = prev
		} else {
			for k := 0; k < size; k++ {
				b, err := br.ReadByte()
				if err != nil {
					break
				}
				p.Colors[k] = b
			}
			prev = p
		}
		palettes = append(palettes, p)

		var idx [64]byte
		if p.Size > 1 {
			bits := bitsForPaletteSize(p.Size)
			for k := 0; k < 64; k++ {
				v, err := br.ReadBits(uint8(bits))
				if err != nil {
					break
				}
				idx[k] = byte(v)
			}
		}
		indices = append(indices, idx)
	}
	return palettes, indices
}
