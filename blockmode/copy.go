package blockmode

// MagicCopy tags the copy sub-stream.
const MagicCopy = 0xA8

// CopyOffset is a causal pixel displacement a COPY block references.
type CopyOffset struct{ DX, DY int16 }

// copyCandidates are the only displacements the lossless COPY mode is
// allowed to reference; all are causal (strictly before the current
// block in raster order) for any block position.
var copyCandidates = []CopyOffset{
	{-8, 0}, {0, -8}, {-8, -8}, {8, -8},
}

// FindCopyMatch returns the first candidate displacement whose 8x8
// block is byte-identical to the current block, or ok=false if none
// qualifies (including when bx==0 && by==0, which has no causal blocks
// at all).
func FindCopyMatch(padded []int16, padW, padH, curX, curY int) (CopyOffset, bool) {
	if curX == 0 && curY == 0 {
		return CopyOffset{}, false
	}
	for _, cand := range copyCandidates {
		srcX := curX + int(cand.DX)
		srcY := curY + int(cand.DY)
		if srcX < 0 || srcY < 0 || srcX+7 >= padW || srcY+7 >= padH {
			continue
		}
		if !(srcY < curY || (srcY == curY && srcX < curX)) {
			continue
		}
		if blockEqual(padded, padW, curX, curY, srcX, srcY, 8) {
			return cand, true
		}
	}
	return CopyOffset{}, false
}

// ReconstructCopyBlock fills the 8x8 block at (curX,curY) from the
// already-reconstructed block at the given causal displacement.
func ReconstructCopyBlock(padded []int16, padW, curX, curY int, off CopyOffset) {
	srcX := curX + int(off.DX)
	srcY := curY + int(off.DY)
	for y := 0; y < 8; y++ {
		dst := padded[(curY+y)*padW+curX : (curY+y)*padW+curX+8]
		src := padded[(srcY+y)*padW+srcX : (srcY+y)*padW+srcX+8]
		copy(dst, src)
	}
}

func blockEqual(padded []int16, padW, ax, ay, bx, by, size int) bool {
	for y := 0; y < size; y++ {
		arow := padded[(ay+y)*padW+ax : (ay+y)*padW+ax+size]
		brow := padded[(by+y)*padW+bx : (by+y)*padW+bx+size]
		for x := 0; x < size; x++ {
			if arow[x] != brow[x] {
				return false
			}
		}
	}
	return true
}

// EncodeCopyStream serializes each COPY block's displacement as raw
// little-endian int16 pairs, then runs it through the shared wrapper.
func EncodeCopyStream(ops []CopyOffset) []byte {
	if len(ops) == 0 {
		return nil
	}
	raw := make([]byte, 0, len(ops)*4)
	for _, o := range ops {
		ux, uy := uint16(o.DX), uint16(o.DY)
		raw = append(raw, byte(ux), byte(ux>>8), byte(uy), byte(uy>>8))
	}
	return wrap(MagicCopy, raw)
}

// DecodeCopyStream reverses EncodeCopyStream for numBlocks entries.
func DecodeCopyStream(frame []byte, numBlocks int) []CopyOffset {
	if len(frame) == 0 || numBlocks <= 0 {
		return nil
	}
	raw := unwrap(MagicCopy, frame, numBlocks*4)
	out := make([]CopyOffset, 0, numBlocks)
	for i := 0; i < numBlocks && (i+1)*4 <= len(raw); i++ {
		pos := i * 4
		dx := int16(uint16(raw[pos]) | uint16(raw[pos+1])<<8)
		dy := int16(uint16(raw[pos+2]) | uint16(raw[pos+3])<<8)
		out = append(out, CopyOffset{dx, dy})
	}
	return out
}
