package codec_test

import (
	"testing"

	"github.com/hakorune/hakonyans/codec"
)

// fakeCodec is a minimal in-memory Codec used to exercise the registry
// without depending on a real image pipeline (package hkn's own
// registration is covered by hkn's own codec_test.go).
type fakeCodec struct {
	name, uid string
}

func (f fakeCodec) Encode(params codec.EncodeParams) ([]byte, error) {
	return append([]byte{}, params.PixelData...), nil
}

func (f fakeCodec) Decode(data []byte) (*codec.DecodeResult, error) {
	return &codec.DecodeResult{PixelData: data}, nil
}

func (f fakeCodec) UID() string  { return f.uid }
func (f fakeCodec) Name() string { return f.name }

func TestCodecRegistry(t *testing.T) {
	codec.Register(fakeCodec{name: "fake-a", uid: "urn:fake:a"})
	codec.Register(fakeCodec{name: "fake-b", uid: "urn:fake:b"})

	tests := []struct {
		name      string
		key       string
		wantFound bool
		wantUID   string
		wantName  string
	}{
		{name: "by UID", key: "urn:fake:a", wantFound: true, wantUID: "urn:fake:a", wantName: "fake-a"},
		{name: "by name", key: "fake-a", wantFound: true, wantUID: "urn:fake:a", wantName: "fake-a"},
		{name: "other codec by UID", key: "urn:fake:b", wantFound: true, wantUID: "urn:fake:b", wantName: "fake-b"},
		{name: "non-existent", key: "does-not-exist", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := codec.Get(tt.key)
			if tt.wantFound {
				if err != nil {
					t.Fatalf("Get(%q) unexpected error: %v", tt.key, err)
				}
				if c.UID() != tt.wantUID {
					t.Errorf("Get(%q).UID() = %q, want %q", tt.key, c.UID(), tt.wantUID)
				}
				if c.Name() != tt.wantName {
					t.Errorf("Get(%q).Name() = %q, want %q", tt.key, c.Name(), tt.wantName)
				}
			} else {
				if err != codec.ErrCodecNotFound {
					t.Errorf("Get(%q) error = %v, want ErrCodecNotFound", tt.key, err)
				}
			}
		})
	}
}

func TestListCodecsDeduplicates(t *testing.T) {
	codec.Register(fakeCodec{name: "fake-c", uid: "urn:fake:c"})

	seen := 0
	for _, c := range codec.List() {
		if c.Name() == "fake-c" {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("List() contained %d entries named fake-c, want 1", seen)
	}
}
