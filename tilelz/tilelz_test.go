package tilelz

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestRoundTripGreedy(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("a"),
		bytes.Repeat([]byte("ab"), 1000),
		bytes.Repeat([]byte{0x80}, 64),
		randomBytes(4096, 7),
	}
	for i, src := range cases {
		enc := Compress(src, DefaultOptions())
		got := Decompress(enc, len(src))
		if !bytes.Equal(got, src) {
			t.Fatalf("case %d: round trip mismatch (n=%d)", i, len(src))
		}
		if len(enc) > Bound(len(src)) {
			t.Fatalf("case %d: encoded size %d exceeds bound %d", i, len(enc), Bound(len(src)))
		}
	}
}

func TestRoundTripLazy1(t *testing.T) {
	src := bytes.Repeat([]byte("the quick brown fox jumps over "), 200)
	opts := DefaultOptions()
	opts.Strategy = Lazy1
	enc := Compress(src, opts)
	got := Decompress(enc, len(src))
	if !bytes.Equal(got, src) {
		t.Fatalf("lazy-1 round trip mismatch")
	}
}

func TestRoundTripOptimal(t *testing.T) {
	src := bytes.Repeat([]byte("compressible pattern data here "), 300)
	enc := CompressOptimal(src, DefaultOptions(), 4)
	got := Decompress(enc, len(src))
	if !bytes.Equal(got, src) {
		t.Fatalf("optimal-parse round trip mismatch")
	}
}

func TestPoolScratchReuse(t *testing.T) {
	pool := NewPool(2)
	src1 := randomBytes(2048, 1)
	src2 := bytes.Repeat([]byte("zzzz"), 512)

	sc1 := pool.Get()
	enc1 := Compress(src1, Options{Strategy: Greedy, MinDistLen3: 128, Scratch: sc1})
	pool.Put(sc1)

	sc2 := pool.Get()
	enc2 := Compress(src2, Options{Strategy: Greedy, MinDistLen3: 128, Scratch: sc2})
	pool.Put(sc2)

	if got := Decompress(enc1, len(src1)); !bytes.Equal(got, src1) {
		t.Fatalf("first scratch-reuse round trip mismatch")
	}
	if got := Decompress(enc2, len(src2)); !bytes.Equal(got, src2) {
		t.Fatalf("second scratch-reuse round trip mismatch")
	}
}

func TestDecompressTruncatedIsDeterministic(t *testing.T) {
	src := bytes.Repeat([]byte("hello world"), 50)
	enc := Compress(src, DefaultOptions())
	truncated := enc[:len(enc)/2]
	out1 := Decompress(truncated, len(src))
	out2 := Decompress(truncated, len(src))
	if !bytes.Equal(out1, out2) {
		t.Fatalf("corrupt decode is not deterministic")
	}
	if len(out1) != len(src) {
		t.Fatalf("corrupt decode did not zero-fill to expected length")
	}
}

func randomBytes(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	r.Read(b)
	return b
}
