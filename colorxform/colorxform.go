// Package colorxform implements the two color transforms the container
// format carries: YCoCg-R, the reversible transform used by the lossless
// pipeline, and YCbCr, the JPEG integer approximation used by the lossy
// pipeline (peripheral collaborator per spec §1 — only its interface and
// container placement are specified here).
package colorxform

// YCoCgRForward converts one RGB sample to its lossless YCoCg-R
// equivalent. Co and Cg range over [-255,255]; Y ranges over [0,255].
// Mirrors the teacher's jpeg2000/colorspace RCTForward/RCTInverse
// function shape (same forward/inverse pair, new transform math).
func YCoCgRForward(r, g, b int32) (y, co, cg int32) {
	co = r - b
	tmp := b + (co >> 1)
	cg = g - tmp
	y = tmp + (cg >> 1)
	return
}

// YCoCgRInverse is the exact inverse of YCoCgRForward; composing the two
// reproduces the original r,g,b bit-for-bit with no clamping needed
// internally (clamping only applies at the final RGB byte boundary).
func YCoCgRInverse(y, co, cg int32) (r, g, b int32) {
	tmp := y - (cg >> 1)
	g = tmp + cg
	b = tmp - (co >> 1)
	r = b + co
	return
}

// ApplyYCoCgRToComponents converts parallel R,G,B planes to Y,Co,Cg.
func ApplyYCoCgRToComponents(r, g, b []int32) (y, co, cg []int32) {
	n := len(r)
	y = make([]int32, n)
	co = make([]int32, n)
	cg = make([]int32, n)
	for i := 0; i < n; i++ {
		y[i], co[i], cg[i] = YCoCgRForward(r[i], g[i], b[i])
	}
	return
}

// ApplyYCoCgRInverseToComponents converts parallel Y,Co,Cg planes back to
// R,G,B, clamping each output sample to [0,255].
func ApplyYCoCgRInverseToComponents(y, co, cg []int32) (r, g, b []int32) {
	n := len(y)
	r = make([]int32, n)
	g = make([]int32, n)
	b = make([]int32, n)
	for i := 0; i < n; i++ {
		rr, gg, bb := YCoCgRInverse(y[i], co[i], cg[i])
		r[i] = clamp255(rr)
		g[i] = clamp255(gg)
		b[i] = clamp255(bb)
	}
	return
}

func clamp255(v int32) int32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// YCbCrForward is the JPEG-standard integer approximation used by the
// lossy pipeline: Y/Cb/Cr all range over [0,255].
func YCbCrForward(r, g, b int32) (y, cb, cr int32) {
	y = clamp255((77*r + 150*g + 29*b) >> 8)
	cb = clamp255(((-43*r-85*g+128*b)>>8)+128)
	cr = clamp255(((128*r-107*g-21*b)>>8)+128)
	return
}

// YCbCrInverse reverses YCbCrForward with the standard JPEG coefficients.
func YCbCrInverse(y, cb, cr int32) (r, g, b int32) {
	cb0 := cb - 128
	cr0 := cr - 128
	r = clamp255(y + ((359 * cr0) >> 8))
	g = clamp255(y - ((88*cb0 + 183*cr0) >> 8))
	b = clamp255(y + ((454 * cb0) >> 8))
	return
}

// Downsample420 averages a w*h plane 2x2 into a (w+1)/2 x (h+1)/2 plane,
// replicating the last row/column when w or h is odd.
func Downsample420(src []int32, w, h int) (dst []int32, outW, outH int) {
	outW = (w + 1) / 2
	outH = (h + 1) / 2
	dst = make([]int32, outW*outH)
	for y := 0; y < outH; y++ {
		y0 := min(2*y, h-1)
		y1 := min(2*y+1, h-1)
		for x := 0; x < outW; x++ {
			x0 := min(2*x, w-1)
			x1 := min(2*x+1, w-1)
			sum := src[y0*w+x0] + src[y0*w+x1] + src[y1*w+x0] + src[y1*w+x1]
			dst[y*outW+x] = sum >> 2
		}
	}
	return
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
