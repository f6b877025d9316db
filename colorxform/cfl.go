package colorxform

// CfLParams is the chroma-from-luma linear model fit for one 8x8 block:
// pred = alpha*(y-128) + beta, alpha in Q6 fixed point per the spec's
// data model (the reference computes alpha/beta in Q8; this peripheral
// interface keeps the spec's documented Q6 width and rescales the fit).
type CfLParams struct {
	AlphaQ6 int32
	Beta    int32
	Enabled bool
}

// cflMinLumaVariance guards against fitting a model on a near-flat luma
// block, where the least-squares alpha estimate is numerically unstable.
const cflMinLumaVariance = 1024

// FitCfL computes the alpha/beta least-squares fit of a chroma block
// against its co-located luma block (both length count, normally 64).
// Enabled is left false by the caller once it measures whether the fit
// actually improves reconstruction MSE by the configured threshold
// (spec §3: "applied only when reconstruction MSE improves by ≥
// threshold") — that gate lives in the caller, since it requires
// comparing against the no-CfL baseline.
func FitCfL(yBlock, cBlock []int32) CfLParams {
	count := len(yBlock)
	if count == 0 || count != len(cBlock) {
		return CfLParams{}
	}
	var sumY, sumC, sumY2, sumYC int64
	for i := 0; i < count; i++ {
		y, c := int64(yBlock[i]), int64(cBlock[i])
		sumY += y
		sumC += c
		sumY2 += y * y
		sumYC += y * c
	}
	n := int64(count)
	varY := sumY2*n - sumY*sumY
	covYC := sumYC*n - sumY*sumC

	if varY < cflMinLumaVariance {
		beta := (sumC + n/2) / n
		return CfLParams{AlphaQ6: 0, Beta: clamp255(int32(beta))}
	}

	alphaQ8 := (covYC*256 + varY/2) / varY
	if alphaQ8 > 255 {
		alphaQ8 = 255
	}
	if alphaQ8 < -255 {
		alphaQ8 = -255
	}
	beta := (sumC*256 - alphaQ8*(sumY-n*128) + n*128) / (n * 256)
	beta = clampI64(beta, 0, 255)

	return CfLParams{AlphaQ6: int32(alphaQ8 * 64 / 256), Beta: int32(beta)}
}

// Predict applies the fitted model to one luma sample.
func (p CfLParams) Predict(y int32) int32 {
	pred := (int64(p.AlphaQ6)*int64(y-128))>>6 + int64(p.Beta)
	return clamp255(int32(pred))
}

func clampI64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
