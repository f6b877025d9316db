// Package legacytile assembles the block-mode competition, row filters,
// and filter_lo/filter_hi wrappers into the legacy tile's 32-byte header
// plus sub-stream payloads. This is the fallback route a plane encoder
// falls back to whenever neither the screen-indexed nor natural-row
// route wins the competition outright.
package legacytile

import (
	"encoding/binary"

	"github.com/hakorune/hakonyans/blockmode"
	"github.com/hakorune/hakonyans/rowfilter"
)

// HeaderSize is the fixed width of the legacy tile's sub-stream length
// table (seven stream sizes plus the filter pixel count), preceding the
// seven variable-length payloads it addresses.
const HeaderSize = 32

// Tile is a fully built legacy tile, ready to be concatenated into the
// 32-byte-header-plus-payloads wire form.
type Tile struct {
	FilterIDs   []byte
	FilterLo    []byte
	FilterHi    []byte
	PixelCount  uint32
	BlockTypes  []byte
	Palette     []byte
	Copy        []byte
	Tile4       []byte
	NumXBlocks  int
	NumYBlocks  int
	Width       int
	Height      int
}

// Encode runs the block-mode competition and row filters over a padded
// (multiple-of-8) width*height int16 plane and assembles the legacy
// tile. profileID selects the palette/filter bounds per the profile
// package's UI/ANIME/PHOTO classification.
func Encode(padded []int16, width, height int, profileID int) Tile {
	padW := uint32((width + 7) / 8 * 8)
	padH := uint32((height + 7) / 8 * 8)

	cls := blockmode.ClassifyBlocks(padded, padW, padH, profileID)

	maxFilter := byte(rowfilter.MaxFilterBasic)
	if profileID == blockmode.ProfilePhoto {
		maxFilter = rowfilter.MaxFilterPhoto
	}

	active := dctActiveRows(cls.BlockTypes, int(padW), int(padH))
	filterIDs, residuals := rowfilter.FilterRows(padded, int(padW), int(padH), active, maxFilter)

	lo, hi := rowfilter.ZigZagSplit(residuals)
	rowLens := make([]int, int(padH))
	for y := range rowLens {
		if active == nil || active[y] {
			rowLens[y] = int(padW)
		}
	}

	t := Tile{
		FilterIDs:  rowfilter.EncodeFilterIDs(filterIDs),
		FilterLo:   rowfilter.EncodeFilterLo(lo, filterIDs, rowLens, int(padW)),
		FilterHi:   rowfilter.EncodeFilterHi(hi),
		PixelCount: uint32(len(lo)),
		BlockTypes: blockmode.EncodeBlockTypes(cls.BlockTypes),
		Palette:    blockmode.EncodePaletteStream(cls.Palettes, cls.PaletteIndices),
		Copy:       blockmode.EncodeCopyStream(cls.CopyOps),
		Tile4:      blockmode.EncodeTile4Stream(cls.Tile4Results),
		NumXBlocks: int(padW / 8),
		NumYBlocks: int(padH / 8),
		Width:      width,
		Height:     height,
	}
	return t
}

// Marshal lays the tile out as the fixed 32-byte length header followed
// by each sub-stream in order: filter_ids, filter_lo, filter_hi,
// block_types, palette, copy, tile4.
func (t Tile) Marshal() []byte {
	streams := [][]byte{t.FilterIDs, t.FilterLo, t.FilterHi, t.BlockTypes, t.Palette, t.Copy, t.Tile4}
	total := HeaderSize
	for _, s := range streams {
		total += len(s)
	}
	out := make([]byte, total)
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(t.FilterIDs)))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(t.FilterLo)))
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(t.FilterHi)))
	binary.LittleEndian.PutUint32(out[12:16], t.PixelCount)
	binary.LittleEndian.PutUint32(out[16:20], uint32(len(t.BlockTypes)))
	binary.LittleEndian.PutUint32(out[20:24], uint32(len(t.Palette)))
	binary.LittleEndian.PutUint32(out[24:28], uint32(len(t.Copy)))
	binary.LittleEndian.PutUint32(out[28:32], uint32(len(t.Tile4)))

	pos := HeaderSize
	for _, s := range streams {
		copy(out[pos:], s)
		pos += len(s)
	}
	return out
}

// Unmarshal parses the 32-byte header and slices out each sub-stream;
// it does not decode the payloads, since that requires the block-type
// grid (produced by Decode) to know how many palette/copy/tile4
// entries to expect.
func Unmarshal(buf []byte, numXBlocks, numYBlocks int) (Tile, error) {
	t := Tile{NumXBlocks: numXBlocks, NumYBlocks: numYBlocks}
	if len(buf) < HeaderSize {
		return t, errShortTile
	}
	filterIDsSz := binary.LittleEndian.Uint32(buf[0:4])
	filterLoSz := binary.LittleEndian.Uint32(buf[4:8])
	filterHiSz := binary.LittleEndian.Uint32(buf[8:12])
	t.PixelCount = binary.LittleEndian.Uint32(buf[12:16])
	blockTypesSz := binary.LittleEndian.Uint32(buf[16:20])
	paletteSz := binary.LittleEndian.Uint32(buf[20:24])
	copySz := binary.LittleEndian.Uint32(buf[24:28])
	tile4Sz := binary.LittleEndian.Uint32(buf[28:32])

	pos := HeaderSize
	take := func(n uint32) ([]byte, bool) {
		end := pos + int(n)
		if end > len(buf) {
			return nil, false
		}
		s := buf[pos:end]
		pos = end
		return s, true
	}

	var ok bool
	if t.FilterIDs, ok = take(filterIDsSz); !ok {
		return t, errShortTile
	}
	if t.FilterLo, ok = take(filterLoSz); !ok {
		return t, errShortTile
	}
	if t.FilterHi, ok = take(filterHiSz); !ok {
		return t, errShortTile
	}
	if t.BlockTypes, ok = take(blockTypesSz); !ok {
		return t, errShortTile
	}
	if t.Palette, ok = take(paletteSz); !ok {
		return t, errShortTile
	}
	if t.Copy, ok = take(copySz); !ok {
		return t, errShortTile
	}
	if t.Tile4, ok = take(tile4Sz); !ok {
		return t, errShortTile
	}
	return t, nil
}

// Decode rebuilds the padded int16 plane this tile encodes. padW/padH
// must match the padded dimensions Encode used.
//
// Reconstruction proceeds in block-raster order (row-band by row-band,
// left to right within a band) rather than unfiltering every active row
// across the full plane up front: a DCT block's row-filter prediction
// can have a COPY/PALETTE/TILE_MATCH4 block as its left or upper causal
// neighbor, and that neighbor must already hold its final value before
// the filter predicts from it. Block-raster order guarantees every
// causal neighbor (left, up, upper-left) was already finalized, whether
// it came from a direct block fill or from this same per-row filter
// pass over an earlier column.
func Decode(t Tile, padW, padH int) []int16 {
	numBlocks := (padW / 8) * (padH / 8)
	blockTypes := blockmode.DecodeBlockTypes(t.BlockTypes, numBlocks)

	palettes, indices := blockmode.DecodePaletteStream(t.Palette, countType(blockTypes, blockmode.BlockPalette))
	copyOps := blockmode.DecodeCopyStream(t.Copy, countType(blockTypes, blockmode.BlockCopy))
	tile4 := blockmode.DecodeTile4Stream(t.Tile4, countType(blockTypes, blockmode.BlockTileMatch4))

	active := dctActiveRows(blockTypes, padW, padH)
	rowLens := make([]int, padH)
	for y := range rowLens {
		if active[y] {
			rowLens[y] = padW
		}
	}

	filterIDs := rowfilter.DecodeFilterIDs(t.FilterIDs, padH)
	lo := rowfilter.DecodeFilterLo(t.FilterLo, filterIDs, rowLens, int(t.PixelCount), padW)
	hi := rowfilter.DecodeFilterHi(t.FilterHi, int(t.PixelCount))
	residuals := rowfilter.ZigZagJoin(lo, hi)

	plane := make([]int16, padW*padH)
	nx := padW / 8
	paletteIdx, copyIdx, tile4Idx := 0, 0, 0
	for by := 0; by < padH/8; by++ {
		for bx := 0; bx < nx; bx++ {
			i := by*nx + bx
			curX, curY := bx*8, by*8
			switch blockTypes[i] {
			case blockmode.BlockPalette:
				blockmode.ReconstructPaletteBlock(plane, padW, curX, curY, palettes[paletteIdx], indices[paletteIdx])
				paletteIdx++
			case blockmode.BlockCopy:
				blockmode.ReconstructCopyBlock(plane, padW, curX, curY, copyOps[copyIdx])
				copyIdx++
			case blockmode.BlockTileMatch4:
				blockmode.ReconstructTile4Quadrants(plane, padW, curX, curY, tile4[tile4Idx])
				tile4Idx++
			default: // BlockDCT
				for y := curY; y < curY+8; y++ {
					ftype := filterIDs[y]
					for x := curX; x < curX+8; x++ {
						var a, b, c int32
						if x > 0 {
							a = int32(plane[y*padW+x-1])
						}
						if y > 0 {
							b = int32(plane[(y-1)*padW+x])
							if x > 0 {
								c = int32(plane[(y-1)*padW+x-1])
							}
						}
						pred := rowfilter.Predict(ftype, a, b, c)
						plane[y*padW+x] = int16(int32(residuals[y*padW+x]) + pred)
					}
				}
			}
		}
	}
	return plane
}

func countType(types []blockmode.BlockType, want blockmode.BlockType) int {
	n := 0
	for _, t := range types {
		if t == want {
			n++
		}
	}
	return n
}

// dctActiveRows marks rows that contain at least one DCT-class block,
// since only those rows carry row-filter residuals; palette/copy/tile4
// blocks reconstruct their pixels directly and never touch filter_lo.
func dctActiveRows(types []blockmode.BlockType, padW, padH int) []bool {
	nx := padW / 8
	ny := padH / 8
	active := make([]bool, padH)
	for i, t := range types {
		if t != blockmode.BlockDCT {
			continue
		}
		by := i / nx
		for y := by * 8; y < by*8+8 && y < padH; y++ {
			active[y] = true
		}
	}
	_ = ny
	return active
}
