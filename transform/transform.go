// Package transform implements the lossy pipeline's peripheral
// collaborators: the 8x8 DCT-II/IDCT, zigzag scan, and JPEG Annex-K
// quantization table scaling. Per spec §1 the lossy pipeline is a
// peripheral collaborator of the lossless core — only its interface and
// container placement (the QMAT chunk) are specified; this package
// exists so that interface has somewhere concrete to live.
package transform

import "math"

// ZigzagForward maps a raster-order 8x8 index to its zigzag scan
// position (low to high frequency).
var ZigzagForward = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// ZigzagScan reorders a raster-order block into zigzag order.
func ZigzagScan(block [64]int16) (out [64]int16) {
	for i, pos := range ZigzagForward {
		out[i] = block[pos]
	}
	return
}

// ZigzagInverseScan reorders a zigzag-order block back to raster order.
func ZigzagInverseScan(zz [64]int16) (out [64]int16) {
	for i, pos := range ZigzagForward {
		out[pos] = zz[i]
	}
	return
}

// BaseQuantLuma is the JPEG Annex-K luminance quantization matrix at
// quality=50, in raster order.
var BaseQuantLuma = [64]uint16{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

// BuildQuantTable scales BaseQuantLuma by the JPEG quality formula:
// quality<50 uses 5000/quality, quality>=50 uses 200-2*quality.
func BuildQuantTable(quality int) [64]uint16 {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	var scale float64
	if quality < 50 {
		scale = 5000.0 / float64(quality)
	} else {
		scale = 200.0 - float64(quality)*2.0
	}
	var out [64]uint16
	for i, base := range BaseQuantLuma {
		q := int((float64(base)*scale + 50.0) / 100.0)
		if q < 1 {
			q = 1
		}
		if q > 255 {
			q = 255
		}
		out[i] = uint16(q)
	}
	return out
}

// Quantize divides each zigzag-order coefficient by its quant table
// entry, rounding to nearest (ties away from zero, matching the
// reference's sign*((abs+q/2)/q) form).
func Quantize(coeffs [64]int16, quant [64]uint16) (out [64]int16) {
	for i, c := range coeffs {
		q := quant[i]
		sign := int32(1)
		abs := int32(c)
		if abs < 0 {
			sign = -1
			abs = -abs
		}
		out[i] = int16(sign * ((abs + int32(q)/2) / int32(q)))
	}
	return
}

// Dequantize reverses Quantize.
func Dequantize(quantized [64]int16, quant [64]uint16) (out [64]int16) {
	for i, v := range quantized {
		out[i] = int16(int32(v) * int32(quant[i]))
	}
	return
}

// CalcActivity sums |AC coefficient| over the 63 non-DC zigzag
// positions, the per-block activity measure adaptive quantization
// scales against the plane average.
func CalcActivity(zz [64]int16) float64 {
	var sum float64
	for i := 1; i < 64; i++ {
		v := float64(zz[i])
		if v < 0 {
			v = -v
		}
		sum += v
	}
	return sum
}

// AdaptiveScale returns the per-block quantization scale multiplier
// given its activity against the plane average, per spec §4.11:
// scale = base_scale * (activity/avg_activity)^mask_strength.
func AdaptiveScale(activity, avgActivity, baseScale, maskStrength float64) float64 {
	if avgActivity < 1e-6 {
		return baseScale
	}
	ratio := activity / avgActivity
	return baseScale * math.Pow(ratio, maskStrength)
}
