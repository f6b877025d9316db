package planecodec

import "testing"

func TestEncodeDecodeFlatPlaneRoundTrip(t *testing.T) {
	w, h := 96, 96
	plane := make([]int16, w*h)
	for i := range plane {
		plane[i] = 7
	}
	tile := EncodePlane(plane, w, h)
	got := DecodePlane(tile, w, h)
	for i := range plane {
		if got[i] != plane[i] {
			t.Fatalf("pixel %d mismatch: got %d, want %d", i, got[i], plane[i])
		}
	}
}

func TestEncodeDecodeSmallPlaneRoundTrip(t *testing.T) {
	w, h := 16, 16
	plane := make([]int16, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			plane[y*w+x] = int16((x*3 + y*5) % 17)
		}
	}
	tile := EncodePlane(plane, w, h)
	got := DecodePlane(tile, w, h)
	for i := range plane {
		if got[i] != plane[i] {
			t.Fatalf("pixel %d mismatch: got %d, want %d", i, got[i], plane[i])
		}
	}
}

func TestEncodeDecodeLowColorPlaneRoundTrip(t *testing.T) {
	w, h := 80, 80
	plane := make([]int16, w*h)
	palette := []int16{0, 10, 200, -50}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			plane[y*w+x] = palette[(x/8+y/8)%len(palette)]
		}
	}
	tile := EncodePlane(plane, w, h)
	got := DecodePlane(tile, w, h)
	for i := range plane {
		if got[i] != plane[i] {
			t.Fatalf("pixel %d mismatch: got %d, want %d", i, got[i], plane[i])
		}
	}
}

func TestEncodeDecodeNoisyPlaneRoundTrip(t *testing.T) {
	w, h := 72, 72
	plane := make([]int16, w*h)
	seed := uint32(12345)
	for i := range plane {
		seed = seed*1664525 + 1013904223
		plane[i] = int16(seed%256) - 128
	}
	tile := EncodePlane(plane, w, h)
	got := DecodePlane(tile, w, h)
	for i := range plane {
		if got[i] != plane[i] {
			t.Fatalf("pixel %d mismatch: got %d, want %d", i, got[i], plane[i])
		}
	}
}
