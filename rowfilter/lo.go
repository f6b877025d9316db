package rowfilter

import (
	"encoding/binary"

	"github.com/hakorune/hakonyans/bytestream"
	"github.com/hakorune/hakonyans/tilelz"
)

// WrapperMagicFilterLo tags the filter_lo coded-form header.
const WrapperMagicFilterLo = 0xA5

const (
	loModeDelta     = 1
	loModeLZ        = 2
	loModeRowPred   = 3
	loModeCtxSplit  = 4
	loModeLZShared  = 5
	ctxSplitStreams = 6
)

// gainVsRaw is the multiplicative gate a coded candidate must beat
// against the current best (the raw baseline at first) before it is
// allowed to win selection.
const gainVsRaw = 0.995

// EncodeFilterLo picks the smallest of the coded forms (delta, TileLZ,
// row-predictor, per-filter-context split, shared-CDF TileLZ), each
// subject to the gainVsRaw gate, and frames a coded winner as
// [magic][mode][raw_count u32][payload]; when no coded form passes, the
// raw adaptive-rANS stream is returned without that frame. lo is the full raster-order
// padW*padH plane; rowLens[y] is either width (row y carries row-filter
// residuals) or 0 (row y belongs to a PALETTE/COPY/TILE_MATCH4 band and
// its bytes in lo are unused padding) — modes 3/4 need width to find
// each active row's true raster offset y*width rather than assuming
// active rows are packed contiguously.
func EncodeFilterLo(lo []byte, filterIDs []byte, rowLens []int, width int) []byte {
	raw := bytestream.EncodeByteStream(lo)
	best := wrapLo(0, lo, raw)

	if delta := encodeDelta(lo); len(delta) > 0 {
		if cand := wrapLo(loModeDelta, lo, delta); float64(len(cand)) < float64(len(best))*gainVsRaw {
			best = cand
		}
	}
	if lz := tilelz.Compress(lo, tilelz.DefaultOptions()); len(lz) > 0 {
		if cand := wrapLo(loModeLZ, lo, bytestream.EncodeByteStream(lz)); float64(len(cand)) < float64(len(best))*gainVsRaw {
			best = cand
		}
		if cand := wrapLo(loModeLZShared, lo, bytestream.EncodeByteStreamSharedLZ(lz)); float64(len(cand)) < float64(len(best))*gainVsRaw {
			best = cand
		}
	}
	if rowLens != nil {
		if pred := encodeRowPredictor(lo, rowLens, width); pred != nil {
			if cand := wrapLo(loModeRowPred, lo, pred); float64(len(cand)) < float64(len(best))*gainVsRaw {
				best = cand
			}
		}
	}
	if filterIDs != nil && rowLens != nil {
		if ctx := encodeCtxSplit(lo, filterIDs, rowLens, width); ctx != nil {
			if cand := wrapLo(loModeCtxSplit, lo, ctx); float64(len(cand)) < float64(len(best))*gainVsRaw {
				best = cand
			}
		}
	}
	return best
}

func wrapLo(mode byte, lo, payload []byte) []byte {
	if mode == 0 {
		return payload // raw data_stream framing already self-describing; no extra magic needed
	}
	out := make([]byte, 6+len(payload))
	out[0] = WrapperMagicFilterLo
	out[1] = mode
	binary.LittleEndian.PutUint32(out[2:], uint32(len(lo)))
	copy(out[6:], payload)
	return out
}

// DecodeFilterLo reverses EncodeFilterLo. rawCount is the expected
// filter_lo byte count (filter_pixel_count); width must match the
// width passed to EncodeFilterLo.
func DecodeFilterLo(frame []byte, filterIDs []byte, rowLens []int, rawCount int, width int) []byte {
	if len(frame) == 0 {
		return make([]byte, rawCount)
	}
	if len(frame) < 6 || frame[0] != WrapperMagicFilterLo {
		out := bytestream.DecodeByteStream(frame)
		return padTo(out, rawCount)
	}

	mode := frame[1]
	raw := binary.LittleEndian.Uint32(frame[2:])
	payload := frame[6:]

	var out []byte
	switch mode {
	case loModeDelta:
		out = decodeDelta(bytestream.DecodeByteStream(payload), int(raw))
	case loModeLZ:
		out = tilelz.Decompress(bytestream.DecodeByteStream(payload), int(raw))
	case loModeLZShared:
		lzBytes := bytestream.DecodeByteStreamSharedLZ(payload)
		out = tilelz.Decompress(lzBytes, int(raw))
	case loModeRowPred:
		out = decodeRowPredictor(payload, rowLens, int(raw), width)
	case loModeCtxSplit:
		out = decodeCtxSplit(payload, filterIDs, rowLens, int(raw), width)
	default:
		out = make([]byte, raw)
	}
	return padTo(out, rawCount)
}

func padTo(b []byte, n int) []byte {
	if len(b) >= n {
		return b[:n]
	}
	padded := make([]byte, n)
	copy(padded, b)
	return padded
}

func encodeDelta(lo []byte) []byte {
	if len(lo) == 0 {
		return nil
	}
	delta := make([]byte, len(lo))
	delta[0] = lo[0]
	for i := 1; i < len(lo); i++ {
		delta[i] = lo[i] - lo[i-1]
	}
	return bytestream.EncodeByteStream(delta)
}

func decodeDelta(delta []byte, rawCount int) []byte {
	out := make([]byte, rawCount)
	if len(delta) == 0 {
		return out
	}
	out[0] = delta[0]
	for i := 1; i < rawCount && i < len(delta); i++ {
		out[i] = out[i-1] + delta[i]
	}
	return out
}

// Row-predictor ids for mode 3: NONE copies the residual through
// unchanged, SUB/UP/AVG reference the causal byte neighbors within the
// lo plane itself (left byte, same offset in the previous active row,
// and their average).
const (
	rowPredNone = 0
	rowPredSub  = 1
	rowPredUp   = 2
	rowPredAvg  = 3
)

func encodeRowPredictor(lo []byte, rowLens []int, width int) []byte {
	preds := make([]byte, 0, len(rowLens))
	resid := make([]byte, 0, len(lo))

	prevStart, prevLen := -1, 0
	for y, length := range rowLens {
		if length <= 0 {
			continue
		}
		pos := y * width
		if pos+length > len(lo) {
			return nil
		}
		row := lo[pos : pos+length]

		bestP := byte(rowPredNone)
		bestSum := sumAbsByte(row)
		rowResid := append([]byte(nil), row...)

		trySub := deltaAgainst(row, nil)
		if sumAbsByte(trySub) < bestSum {
			bestSum, bestP, rowResid = sumAbsByte(trySub), rowPredSub, trySub
		}
		if prevStart >= 0 {
			tryUp := deltaAgainst(row, lo[prevStart:prevStart+prevLen])
			if sumAbsByte(tryUp) < bestSum {
				bestSum, bestP, rowResid = sumAbsByte(tryUp), rowPredUp, tryUp
			}
			tryAvg := deltaAvg(row, lo[prevStart:prevStart+prevLen])
			if sumAbsByte(tryAvg) < bestSum {
				bestSum, bestP, rowResid = sumAbsByte(tryAvg), rowPredAvg, tryAvg
			}
		}

		preds = append(preds, bestP)
		resid = append(resid, rowResid...)
		prevStart, prevLen = pos, length
	}

	predStream := bytestream.EncodeByteStream(preds)
	residStream := bytestream.EncodeByteStream(resid)

	out := make([]byte, 4+len(predStream)+len(residStream))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(predStream)))
	copy(out[4:], predStream)
	copy(out[4+len(predStream):], residStream)
	return out
}

func decodeRowPredictor(payload []byte, rowLens []int, rawCount int, width int) []byte {
	if len(payload) < 4 {
		return make([]byte, rawCount)
	}
	predSz := binary.LittleEndian.Uint32(payload[0:])
	if int(predSz)+4 > len(payload) {
		return make([]byte, rawCount)
	}
	predStream := payload[4 : 4+predSz]
	residStream := payload[4+predSz:]

	preds := bytestream.DecodeByteStream(predStream)
	resids := bytestream.DecodeByteStream(residStream)

	out := make([]byte, rawCount)
	predIdx, residIdx := 0, 0
	prevStart, prevLen := -1, 0
	for y, length := range rowLens {
		if length <= 0 {
			continue
		}
		var p byte
		if predIdx < len(preds) {
			p = preds[predIdx]
		}
		predIdx++

		start := y * width
		for i := 0; i < length; i++ {
			if start+i >= rawCount {
				break
			}
			var resid byte
			if residIdx < len(resids) {
				resid = resids[residIdx]
			}
			residIdx++

			var predVal byte
			switch p {
			case rowPredSub:
				if i > 0 {
					predVal = out[start+i-1]
				}
			case rowPredUp:
				if prevStart >= 0 && prevLen > i {
					predVal = out[prevStart+i]
				}
			case rowPredAvg:
				var left, up byte
				if i > 0 {
					left = out[start+i-1]
				}
				if prevStart >= 0 && prevLen > i {
					up = out[prevStart+i]
				}
				predVal = byte((int(left) + int(up)) / 2)
			}
			out[start+i] = resid + predVal
		}
		prevStart, prevLen = start, length
	}
	return out
}

func deltaAgainst(row, ref []byte) []byte {
	out := make([]byte, len(row))
	for i, v := range row {
		var p byte
		if ref != nil {
			p = ref[i]
		} else if i > 0 {
			p = row[i-1]
		}
		out[i] = v - p
	}
	return out
}

func deltaAvg(row, ref []byte) []byte {
	out := make([]byte, len(row))
	for i, v := range row {
		var left, up byte
		if i > 0 {
			left = row[i-1]
		}
		if ref != nil {
			up = ref[i]
		}
		out[i] = v - byte((int(left)+int(up))/2)
	}
	return out
}

func sumAbsByte(b []byte) int64 {
	var sum int64
	for _, v := range b {
		d := int32(int8(v))
		if d < 0 {
			d = -d
		}
		sum += int64(d)
	}
	return sum
}

// encodeCtxSplit and decodeCtxSplit implement mode 4: residual bytes are
// bucketed by their row's filter id (ids above ctxSplitStreams-1 fold
// into bucket 0) and each bucket gets its own adaptive rANS stream.
func encodeCtxSplit(lo []byte, filterIDs []byte, rowLens []int, width int) []byte {
	buckets := make([][]byte, ctxSplitStreams)
	for y, length := range rowLens {
		if length <= 0 {
			continue
		}
		pos := y * width
		if pos+length > len(lo) {
			return nil
		}
		fid := byte(0)
		if y < len(filterIDs) {
			fid = filterIDs[y]
		}
		if int(fid) >= ctxSplitStreams {
			fid = 0
		}
		buckets[fid] = append(buckets[fid], lo[pos:pos+length]...)
	}

	streams := make([][]byte, ctxSplitStreams)
	for k, b := range buckets {
		streams[k] = bytestream.EncodeByteStream(b)
	}

	out := make([]byte, ctxSplitStreams*4)
	for k, s := range streams {
		binary.LittleEndian.PutUint32(out[k*4:], uint32(len(s)))
	}
	for _, s := range streams {
		out = append(out, s...)
	}
	return out
}

func decodeCtxSplit(payload []byte, filterIDs []byte, rowLens []int, rawCount int, width int) []byte {
	if len(payload) < ctxSplitStreams*4 {
		return make([]byte, rawCount)
	}
	lens := make([]int, ctxSplitStreams)
	off := ctxSplitStreams * 4
	for k := 0; k < ctxSplitStreams; k++ {
		lens[k] = int(binary.LittleEndian.Uint32(payload[k*4:]))
	}
	decoded := make([][]byte, ctxSplitStreams)
	for k := 0; k < ctxSplitStreams; k++ {
		if lens[k] <= 0 || off+lens[k] > len(payload) {
			decoded[k] = nil
			continue
		}
		decoded[k] = bytestream.DecodeByteStream(payload[off : off+lens[k]])
		off += lens[k]
	}

	pos := make([]int, ctxSplitStreams)
	out := make([]byte, rawCount)
	for y, length := range rowLens {
		if length <= 0 {
			continue
		}
		fid := byte(0)
		if y < len(filterIDs) {
			fid = filterIDs[y]
		}
		if int(fid) >= ctxSplitStreams {
			fid = 0
		}
		start := y * width
		for i := 0; i < length; i++ {
			if start+i >= rawCount {
				break
			}
			if pos[fid] < len(decoded[fid]) {
				out[start+i] = decoded[fid][pos[fid]]
				pos[fid]++
			}
		}
	}
	return out
}
