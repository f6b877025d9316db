package legacytile

import (
	"testing"

	"github.com/hakorune/hakonyans/blockmode"
)

func makeGradientPlane(w, h int) []int16 {
	plane := make([]int16, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			plane[y*w+x] = int16((x + y) % 50)
		}
	}
	return plane
}

func TestEncodeDecodeRoundTripPhoto(t *testing.T) {
	w, h := 32, 16
	plane := makeGradientPlane(w, h)

	tile := Encode(plane, w, h, blockmode.ProfilePhoto)
	buf := tile.Marshal()

	parsed, err := Unmarshal(buf, tile.NumXBlocks, tile.NumYBlocks)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := Decode(parsed, w, h)
	if len(got) != len(plane) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(plane))
	}
	for i := range plane {
		if got[i] != plane[i] {
			t.Fatalf("pixel %d mismatch: got %d, want %d", i, got[i], plane[i])
		}
	}
}

func TestEncodeDecodeRoundTripFlatUI(t *testing.T) {
	w, h := 16, 16
	plane := make([]int16, w*h)
	for i := range plane {
		plane[i] = 5
	}

	tile := Encode(plane, w, h, blockmode.ProfileUI)
	buf := tile.Marshal()
	if len(buf) < HeaderSize {
		t.Fatalf("marshaled tile too short: %d bytes", len(buf))
	}

	parsed, err := Unmarshal(buf, tile.NumXBlocks, tile.NumYBlocks)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := Decode(parsed, w, h)
	for i := range plane {
		if got[i] != plane[i] {
			t.Fatalf("pixel %d mismatch: got %d, want %d", i, got[i], plane[i])
		}
	}
}

func TestUnmarshalTruncated(t *testing.T) {
	if _, err := Unmarshal(make([]byte, 10), 1, 1); err == nil {
		t.Fatalf("expected error for short buffer")
	}
}
