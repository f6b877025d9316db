package colorxform

import "testing"

func TestYCoCgRRoundTrip(t *testing.T) {
	for r := int32(0); r <= 255; r += 17 {
		for g := int32(0); g <= 255; g += 23 {
			for b := int32(0); b <= 255; b += 29 {
				y, co, cg := YCoCgRForward(r, g, b)
				rr, gg, bb := YCoCgRInverse(y, co, cg)
				if rr != r || gg != g || bb != b {
					t.Fatalf("round trip failed for (%d,%d,%d): got (%d,%d,%d)", r, g, b, rr, gg, bb)
				}
			}
		}
	}
}

func TestApplyYCoCgRToComponentsRoundTrip(t *testing.T) {
	r := []int32{0, 128, 255, 10, 250}
	g := []int32{0, 64, 255, 200, 5}
	b := []int32{0, 200, 255, 30, 100}
	y, co, cg := ApplyYCoCgRToComponents(r, g, b)
	rr, gg, bb := ApplyYCoCgRInverseToComponents(y, co, cg)
	for i := range r {
		if rr[i] != r[i] || gg[i] != g[i] || bb[i] != b[i] {
			t.Fatalf("index %d: round trip mismatch", i)
		}
	}
}

func TestYCbCrForwardInverseApprox(t *testing.T) {
	cases := [][3]int32{{0, 0, 0}, {255, 255, 255}, {128, 64, 200}, {10, 250, 30}}
	for _, c := range cases {
		y, cb, cr := YCbCrForward(c[0], c[1], c[2])
		r, g, b := YCbCrInverse(y, cb, cr)
		for i, v := range []int32{r, g, b} {
			diff := v - c[i]
			if diff < 0 {
				diff = -diff
			}
			if diff > 3 {
				t.Fatalf("YCbCr round trip for %v drifted too far at channel %d: got %d", c, i, v)
			}
		}
	}
}

func TestDownsample420EvenDims(t *testing.T) {
	src := []int32{
		10, 10, 20, 20,
		10, 10, 20, 20,
		30, 30, 40, 40,
		30, 30, 40, 40,
	}
	dst, w, h := Downsample420(src, 4, 4)
	if w != 2 || h != 2 {
		t.Fatalf("got dims %dx%d, want 2x2", w, h)
	}
	want := []int32{10, 20, 30, 40}
	for i, v := range want {
		if dst[i] != v {
			t.Fatalf("index %d: got %d, want %d", i, dst[i], v)
		}
	}
}

func TestFitCfLFlatLumaFallsBackToMeanBeta(t *testing.T) {
	y := make([]int32, 64)
	c := make([]int32, 64)
	for i := range y {
		y[i] = 128
		c[i] = 50
	}
	p := FitCfL(y, c)
	if p.AlphaQ6 != 0 {
		t.Fatalf("expected alpha=0 for flat luma, got %d", p.AlphaQ6)
	}
	if p.Beta != 50 {
		t.Fatalf("expected beta=50, got %d", p.Beta)
	}
}

func TestFitCfLLinearRelation(t *testing.T) {
	y := make([]int32, 64)
	c := make([]int32, 64)
	for i := range y {
		y[i] = int32(i * 4 % 256)
		c[i] = 128 + (y[i]-128)/2
	}
	p := FitCfL(y, c)
	for i := 0; i < 64; i += 7 {
		got := p.Predict(y[i])
		diff := got - c[i]
		if diff < -4 || diff > 4 {
			t.Fatalf("index %d: predicted %d, want near %d", i, got, c[i])
		}
	}
}
