// Package naturalroute implements the natural-row predictor route: four
// competing sub-modes that predict each pixel from its causal left/up
// neighbors and entropy-code the zigzag residual stream, aimed at
// photographic content where a per-block classifier buys little over a
// single whole-plane predictor choice.
package naturalroute

import "github.com/hakorune/hakonyans/rowfilter"

// Predictor identifiers used by the row predictor-id streams. These are
// offset by one from rowfilter's filter ids (which reserve 0 for NONE)
// so LEFT here maps straight onto rowfilter.Sub, UP onto rowfilter.Up,
// and so on.
const (
	Left = iota
	Up
	Average
	Paeth
	MED
	WeightedA
	WeightedB
	numRichPredictors
)

const numBasicPredictors = 3 // Left, Up, Average only

func predict(id byte, a, b, c int32) int32 {
	return rowfilter.Predict(id+1, a, b, c)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
