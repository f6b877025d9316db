package transform

import "testing"

func TestZigzagRoundTrip(t *testing.T) {
	var block [64]int16
	for i := range block {
		block[i] = int16(i)
	}
	zz := ZigzagScan(block)
	back := ZigzagInverseScan(zz)
	if back != block {
		t.Fatalf("zigzag round trip mismatch: got %v, want %v", back, block)
	}
}

func TestBuildQuantTableBounds(t *testing.T) {
	for _, q := range []int{1, 25, 50, 75, 100} {
		table := BuildQuantTable(q)
		for i, v := range table {
			if v < 1 || v > 255 {
				t.Fatalf("quality %d entry %d out of range: %d", q, i, v)
			}
		}
	}
}

func TestBuildQuantTableMonotone(t *testing.T) {
	// Higher quality should never produce a coarser (larger) quant step
	// than a lower quality at the same matrix position.
	lo := BuildQuantTable(10)
	hi := BuildQuantTable(90)
	if hi[0] > lo[0] {
		t.Fatalf("expected quality=90 DC step (%d) <= quality=10 (%d)", hi[0], lo[0])
	}
}

func TestQuantizeDequantizeApprox(t *testing.T) {
	quant := BuildQuantTable(90)
	var coeffs [64]int16
	for i := range coeffs {
		coeffs[i] = int16(i * 3)
	}
	q := Quantize(coeffs, quant)
	deq := Dequantize(q, quant)
	for i := range coeffs {
		diff := int32(coeffs[i]) - int32(deq[i])
		if diff < 0 {
			diff = -diff
		}
		if diff > int32(quant[i]) {
			t.Fatalf("index %d: dequantized value off by more than one quant step", i)
		}
	}
}

func TestAdaptiveScaleIdentityAtAverage(t *testing.T) {
	s := AdaptiveScale(100, 100, 1.0, 0.5)
	if s < 0.999 || s > 1.001 {
		t.Fatalf("scale at activity==avg should be ~1.0, got %f", s)
	}
}

func TestDCTInverseRoundTripDCComponent(t *testing.T) {
	var block [64]int16
	for i := range block {
		block[i] = 64 // constant block: only the DC term should be non-zero
	}
	fwd := ForwardDCT(block)
	for i := 1; i < 64; i++ {
		if fwd[i] != 0 {
			t.Fatalf("expected zero AC coefficient at %d for a constant block, got %d", i, fwd[i])
		}
	}
	back := InverseDCT(fwd)
	for i, v := range back {
		diff := int32(v) - int32(block[i])
		if diff < 0 {
			diff = -diff
		}
		if diff > 1 {
			t.Fatalf("index %d: inverse DCT of constant block off by %d", i, diff)
		}
	}
}
