package hkn

import (
	"testing"

	"github.com/hakorune/hakonyans/codec"
)

func TestRegisteredInCodecRegistry(t *testing.T) {
	c, err := codec.Get("hkn")
	if err != nil {
		t.Fatalf("codec.Get(\"hkn\"): %v", err)
	}
	if c.UID() != UID {
		t.Fatalf("UID() = %q, want %q", c.UID(), UID)
	}

	rgb := gradientImage(8, 8)
	encoded, err := c.Encode(codec.EncodeParams{
		PixelData:  rgb,
		Width:      8,
		Height:     8,
		Components: 3,
		BitDepth:   8,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	result, err := c.Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if result.Width != 8 || result.Height != 8 {
		t.Fatalf("dims = %dx%d, want 8x8", result.Width, result.Height)
	}
	for i := range rgb {
		if result.PixelData[i] != rgb[i] {
			t.Fatalf("byte %d = %d, want %d", i, result.PixelData[i], rgb[i])
		}
	}
}

func TestCodecGetByUID(t *testing.T) {
	if _, err := codec.Get(UID); err != nil {
		t.Fatalf("codec.Get(UID): %v", err)
	}
}
