package hkn

import (
	"testing"
)

func constantImage(w, h int, r, g, b byte) []byte {
	out := make([]byte, w*h*3)
	for i := 0; i < w*h; i++ {
		out[i*3+0] = r
		out[i*3+1] = g
		out[i*3+2] = b
	}
	return out
}

func gradientImage(w, h int) []byte {
	out := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			out[i*3+0] = byte((x * 16) % 256)
			out[i*3+1] = byte((x*16 + y) % 256)
			out[i*3+2] = byte((y * 8) % 256)
		}
	}
	return out
}

func checkRoundTrip(t *testing.T, rgb []byte, w, h int) {
	t.Helper()
	encoded, err := EncodeLossless(rgb, w, h)
	if err != nil {
		t.Fatalf("EncodeLossless: %v", err)
	}
	got, gw, gh, err := DecodeLossless(encoded)
	if err != nil {
		t.Fatalf("DecodeLossless: %v", err)
	}
	if gw != w || gh != h {
		t.Fatalf("dims = %dx%d, want %dx%d", gw, gh, w, h)
	}
	if len(got) != len(rgb) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(rgb))
	}
	for i := range rgb {
		if got[i] != rgb[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], rgb[i])
		}
	}
}

func TestRoundTripConstant(t *testing.T) {
	checkRoundTrip(t, constantImage(8, 8, 0x80, 0x80, 0x80), 8, 8)
}

func TestRoundTripGradient(t *testing.T) {
	checkRoundTrip(t, gradientImage(16, 16), 16, 16)
}

func TestRoundTripCheckerboard(t *testing.T) {
	w, h := 64, 64
	rgb := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			v := byte(50)
			if (x/4+y/4)%2 == 1 {
				v = 200
			}
			rgb[i*3+0] = v
			rgb[i*3+1] = v
			rgb[i*3+2] = v
		}
	}
	checkRoundTrip(t, rgb, w, h)
}

func TestRoundTripNonMultipleOf8(t *testing.T) {
	checkRoundTrip(t, gradientImage(13, 11), 13, 11)
}

func TestEncodeInvalidImage(t *testing.T) {
	if _, err := EncodeLossless(make([]byte, 10), 4, 4); err != ErrInvalidImage {
		t.Fatalf("err = %v, want ErrInvalidImage", err)
	}
}

func TestDecodeNotLossless(t *testing.T) {
	rgb := constantImage(8, 8, 1, 2, 3)
	encoded, err := EncodeLossless(rgb, 8, 8)
	if err != nil {
		t.Fatalf("EncodeLossless: %v", err)
	}
	// Flip the lossless flag bit in the marshaled header.
	encoded[6] &^= 1
	if _, _, _, err := DecodeLossless(encoded); err != ErrNotLossless {
		t.Fatalf("err = %v, want ErrNotLossless", err)
	}
}
