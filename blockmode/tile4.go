package blockmode

// MagicTile4 tags the tile4 sub-stream.
const MagicTile4 = 0xA9

// Tile4Result holds one 16-candidate index per 4x4 quadrant of an 8x8
// block (top-left, top-right, bottom-left, bottom-right).
type Tile4Result struct {
	Indices [4]byte
}

// tile4Candidates are the causal displacements each 4x4 quadrant may
// match against.
var tile4Candidates = []CopyOffset{
	{-4, 0}, {0, -4}, {-4, -4}, {4, -4},
	{-8, 0}, {0, -8}, {-8, -8}, {8, -8},
	{-12, 0}, {0, -12}, {-12, -4}, {-4, -12},
	{-16, 0}, {0, -16}, {-16, -4}, {-4, -16},
}

// FindTile4Match tries to match all four 4x4 quadrants of the block at
// (curX, curY) against tile4Candidates; it only succeeds when every
// quadrant finds a match.
func FindTile4Match(padded []int16, padW, padH, curX, curY int) (Tile4Result, bool) {
	var res Tile4Result
	for q := 0; q < 4; q++ {
		qx := curX + (q%2)*4
		qy := curY + (q/2)*4

		found := false
		for idx, cand := range tile4Candidates {
			srcX := qx + int(cand.DX)
			srcY := qy + int(cand.DY)
			if srcX < 0 || srcY < 0 || srcX+3 >= padW || srcY+3 >= padH {
				continue
			}
			if !(srcY < qy || (srcY == qy && srcX < qx)) {
				continue
			}
			if blockEqual(padded, padW, qx, qy, srcX, srcY, 4) {
				res.Indices[q] = byte(idx)
				found = true
				break
			}
		}
		if !found {
			return Tile4Result{}, false
		}
	}
	return res, true
}

// ReconstructTile4Quadrants applies a decoded Tile4Result to fill the
// current 8x8 block's pixels from already-reconstructed causal data.
func ReconstructTile4Quadrants(padded []int16, padW, curX, curY int, res Tile4Result) {
	for q := 0; q < 4; q++ {
		qx := curX + (q%2)*4
		qy := curY + (q/2)*4
		cand := tile4Candidates[res.Indices[q]]
		srcX := qx + int(cand.DX)
		srcY := qy + int(cand.DY)
		for y := 0; y < 4; y++ {
			dst := padded[(qy+y)*padW+qx : (qy+y)*padW+qx+4]
			src := padded[(srcY+y)*padW+srcX : (srcY+y)*padW+srcX+4]
			copy(dst, src)
		}
	}
}

// serializeTile4Raw packs each result's four 4-bit indices into two
// bytes: [idx1<<4|idx0][idx3<<4|idx2].
func serializeTile4Raw(results []Tile4Result) []byte {
	out := make([]byte, 0, len(results)*2)
	for _, r := range results {
		out = append(out, (r.Indices[1]<<4)|(r.Indices[0]&0x0F))
		out = append(out, (r.Indices[3]<<4)|(r.Indices[2]&0x0F))
	}
	return out
}

func deserializeTile4Raw(raw []byte, numBlocks int) []Tile4Result {
	out := make([]Tile4Result, 0, numBlocks)
	for i := 0; i < numBlocks && (i*2+1) < len(raw); i++ {
		b0, b1 := raw[i*2], raw[i*2+1]
		out = append(out, Tile4Result{Indices: [4]byte{b0 & 0x0F, b0 >> 4, b1 & 0x0F, b1 >> 4}})
	}
	return out
}

// EncodeTile4Stream serializes and wraps the tile4 results of every
// TILE_MATCH4 block.
func EncodeTile4Stream(results []Tile4Result) []byte {
	if len(results) == 0 {
		return nil
	}
	return wrap(MagicTile4, serializeTile4Raw(results))
}

// DecodeTile4Stream reverses EncodeTile4Stream for numBlocks entries.
func DecodeTile4Stream(frame []byte, numBlocks int) []Tile4Result {
	if len(frame) == 0 || numBlocks <= 0 {
		return nil
	}
	raw := unwrap(MagicTile4, frame, numBlocks*2)
	return deserializeTile4Raw(raw, numBlocks)
}
