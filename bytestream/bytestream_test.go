package bytestream

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/hakorune/hakonyans/tilelz"
)

func TestAdaptiveRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("a"),
		bytes.Repeat([]byte{0x00}, 512),
		bytes.Repeat([]byte("the quick brown fox"), 50),
		randomBytesBS(4096, 11),
	}
	for i, src := range cases {
		frame := EncodeByteStream(src)
		got := DecodeByteStream(frame)
		if !bytes.Equal(got, src) {
			t.Fatalf("case %d: adaptive round trip mismatch (n=%d)", i, len(src))
		}
	}
}

func TestAdaptiveDecodeMalformedIsZeroFilled(t *testing.T) {
	src := []byte("hello world")
	frame := EncodeByteStream(src)
	got := DecodeByteStream(frame[:len(frame)-1])
	if len(got) != len(src) {
		t.Fatalf("expected zero-filled buffer of length %d, got %d", len(src), len(got))
	}
}

func TestSharedLZRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{0, 1, 2, 3},
		bytes.Repeat([]byte{0, 5, 1, 3, 0, 200}, 400),
		randomBytesBS(2048, 3),
	}
	for i, src := range cases {
		frame := EncodeByteStreamSharedLZ(src)
		got := DecodeByteStreamSharedLZ(frame)
		if !bytes.Equal(got, src) {
			t.Fatalf("case %d: shared-LZ round trip mismatch (n=%d)", i, len(src))
		}
	}
}

func TestSharedLZSkipsFreqTable(t *testing.T) {
	src := tilelz.Compress(bytes.Repeat([]byte("tilelz token stream"), 100), tilelz.DefaultOptions())
	adaptive := EncodeByteStream(src)
	shared := EncodeByteStreamSharedLZ(src)
	if len(shared) >= len(adaptive) {
		t.Fatalf("expected shared-CDF frame (%d bytes) to be smaller than adaptive frame with embedded table (%d bytes)", len(shared), len(adaptive))
	}
}

func randomBytesBS(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	r.Read(b)
	return b
}
