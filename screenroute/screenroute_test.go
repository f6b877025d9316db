package screenroute

import "testing"

func TestPreflightFlagsFlatPlane(t *testing.T) {
	const w, h = 64, 64
	plane := make([]int16, w*h)
	for i := range plane {
		plane[i] = 7
	}
	m := AnalyzePreflight(plane, w, h)
	if !m.LikelyScreen {
		t.Fatalf("expected a flat plane to be flagged likely-screen, got %+v", m)
	}
	if m.UniqueSample != 1 {
		t.Fatalf("expected exactly one unique sampled value, got %d", m.UniqueSample)
	}
}

func TestPreflightRejectsNoisyPlane(t *testing.T) {
	const w, h = 64, 64
	plane := make([]int16, w*h)
	seed := uint32(12345)
	for i := range plane {
		seed = seed*1664525 + 1013904223
		plane[i] = int16(seed % 4096)
	}
	m := AnalyzePreflight(plane, w, h)
	if m.LikelyScreen {
		t.Fatalf("expected a high-entropy plane to not be flagged likely-screen, got %+v", m)
	}
}

func TestEncodeDecodeScreenIndexedFlatPlane(t *testing.T) {
	const w, h = 20, 13 // deliberately not a multiple of 8
	plane := make([]int16, w*h)
	for i := range plane {
		plane[i] = 42
	}
	frame, reason := EncodeScreenIndexed(plane, w, h)
	if reason != FailNone {
		t.Fatalf("expected flat plane to encode, got fail reason %v", reason)
	}
	got, ok := DecodeScreenIndexed(frame, w, h)
	if !ok {
		t.Fatalf("decode failed")
	}
	for i := range plane {
		if got[i] != plane[i] {
			t.Fatalf("pixel %d mismatch: want %d got %d", i, plane[i], got[i])
		}
	}
}

func TestEncodeDecodeScreenIndexedCheckerboard(t *testing.T) {
	const w, h = 33, 17
	plane := make([]int16, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				plane[y*w+x] = 10
			} else {
				plane[y*w+x] = -5
			}
		}
	}
	frame, reason := EncodeScreenIndexed(plane, w, h)
	if reason != FailNone {
		t.Fatalf("expected checkerboard to encode, got fail reason %v", reason)
	}
	got, ok := DecodeScreenIndexed(frame, w, h)
	if !ok {
		t.Fatalf("decode failed")
	}
	for i := range plane {
		if got[i] != plane[i] {
			t.Fatalf("pixel %d mismatch: want %d got %d", i, plane[i], got[i])
		}
	}
}

func TestEncodeDecodeScreenIndexedSmallPalette(t *testing.T) {
	const w, h = 16, 16
	plane := make([]int16, w*h)
	for i := range plane {
		plane[i] = int16(i % 5)
	}
	frame, reason := EncodeScreenIndexed(plane, w, h)
	if reason != FailNone {
		t.Fatalf("expected 5-color plane to encode, got fail reason %v", reason)
	}
	got, ok := DecodeScreenIndexed(frame, w, h)
	if !ok {
		t.Fatalf("decode failed")
	}
	for i := range plane {
		if got[i] != plane[i] {
			t.Fatalf("pixel %d mismatch: want %d got %d", i, plane[i], got[i])
		}
	}
}

func TestEncodeScreenIndexedRejectsTooManyColors(t *testing.T) {
	const w, h = 16, 16
	plane := make([]int16, w*h)
	for i := range plane {
		plane[i] = int16(i) // 256 distinct values, far above the cap
	}
	_, reason := EncodeScreenIndexed(plane, w, h)
	if reason != FailTooManyUnique {
		t.Fatalf("expected FailTooManyUnique, got %v", reason)
	}
}

func TestBitsForSymbolCount(t *testing.T) {
	cases := []struct {
		count int
		want  int
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {64, 6}, {65, 7},
	}
	for _, c := range cases {
		if got := bitsForSymbolCount(c.count); got != c.want {
			t.Fatalf("bitsForSymbolCount(%d): want %d got %d", c.count, c.want, got)
		}
	}
}

func TestPackUnpackIndexBitsRoundTrip(t *testing.T) {
	indices := []byte{0, 1, 2, 3, 4, 5, 6, 7, 0, 3, 7, 1}
	bits := bitsForSymbolCount(8)
	packed := packIndexBits(indices, bits)
	got := unpackIndexBits(packed, bits, len(indices))
	for i := range indices {
		if got[i] != indices[i] {
			t.Fatalf("index %d mismatch: want %d got %d", i, indices[i], got[i])
		}
	}
}
