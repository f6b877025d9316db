package threadpool

import (
	"context"
	"testing"
)

func TestNewBudgetDefaultsToGOMAXPROCS(t *testing.T) {
	b := NewBudget(0)
	if b.Capacity() <= 0 {
		t.Fatalf("expected positive capacity, got %d", b.Capacity())
	}
}

func TestAcquireExactRelease(t *testing.T) {
	b := NewBudget(4)
	ctx := context.Background()
	if err := b.AcquireExact(ctx, 3); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	got := b.AcquireUpTo(4)
	if got != 1 {
		t.Fatalf("expected exactly 1 remaining token, got %d", got)
	}
	b.Release(3)
	b.Release(got)
}

func TestAcquireUpToNeverReturnsZero(t *testing.T) {
	b := NewBudget(1)
	ctx := context.Background()
	if err := b.AcquireExact(ctx, 1); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	got := b.AcquireUpTo(4)
	if got != 1 {
		t.Fatalf("expected fallback of 1, got %d", got)
	}
}

func TestRegionGuardNesting(t *testing.T) {
	var g RegionGuard
	if g.InParallelRegion() {
		t.Fatalf("zero-value guard should not be in a parallel region")
	}
	inner := g.Enter()
	if !inner.InParallelRegion() {
		t.Fatalf("entered guard should report being in a parallel region")
	}
	b := NewBudget(8)
	if inner.CanSpawn(b, 2) {
		t.Fatalf("nested region should not be able to spawn further")
	}
	if !g.CanSpawn(b, 2) {
		t.Fatalf("top-level region with enough capacity should be able to spawn")
	}
}
