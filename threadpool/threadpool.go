// Package threadpool bounds the codec's own parallelism: a weighted
// token budget callers acquire before spawning a fixed number of
// goroutines (plane decode, row-range color conversion, natural-route
// sub-mode racing) and a goroutine-local depth guard that stops a
// parallel region from recursively spawning another one.
package threadpool

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Budget is a weighted token pool sized to the configured thread
// count. Every parallel region acquires the tokens it needs up front
// (exact-N) or takes whatever is available (up-to-N) and releases them
// when done.
type Budget struct {
	sem      *semaphore.Weighted
	capacity int64
}

// NewBudget returns a Budget sized to n tokens. n <= 0 falls back to
// runtime.GOMAXPROCS(0).
func NewBudget(n int) *Budget {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return &Budget{sem: semaphore.NewWeighted(int64(n)), capacity: int64(n)}
}

// Capacity returns the budget's total token count.
func (b *Budget) Capacity() int {
	return int(b.capacity)
}

// AcquireExact blocks until exactly n tokens are available, or ctx is
// done. Use this when a task genuinely needs n concurrent workers to
// be worth spawning at all (e.g. racing 3 route candidates).
func (b *Budget) AcquireExact(ctx context.Context, n int) error {
	return b.sem.Acquire(ctx, int64(n))
}

// AcquireUpTo grabs as many tokens as are immediately available, up to
// max, without blocking, and returns how many it got (always >= 1 if
// max >= 1, since a task can always fall back to running alone).
func (b *Budget) AcquireUpTo(max int) int {
	if max <= 0 {
		return 0
	}
	got := int64(0)
	for got < int64(max) {
		if !b.sem.TryAcquire(1) {
			break
		}
		got++
	}
	if got == 0 {
		return 1
	}
	return int(got)
}

// Release returns n tokens to the budget.
func (b *Budget) Release(n int) {
	b.sem.Release(int64(n))
}

// RegionGuard tracks, per goroutine tree entered through Enter, how
// many parallel regions are currently nested. Unlike the
// reference's thread_local, Go has no native goroutine-local storage;
// RegionGuard below threads the depth explicitly instead of relying on
// ambient state, which is the idiomatic replacement.
type RegionGuard struct {
	depth int
}

// Enter returns a RegionGuard one level deeper than g (a zero-value
// RegionGuard is depth 0, i.e. not yet inside any parallel region).
func (g RegionGuard) Enter() RegionGuard {
	return RegionGuard{depth: g.depth + 1}
}

// InParallelRegion reports whether g is nested inside at least one
// parallel region.
func (g RegionGuard) InParallelRegion() bool {
	return g.depth > 0
}

// CanSpawn reports whether it's worth acquiring needed tokens at all:
// single-threaded work is always fine, but nested parallel regions
// never spawn further sub-regions (the budget is already committed one
// level up), and a region needs at least `needed` tokens of budget
// capacity to ever succeed.
func (g RegionGuard) CanSpawn(b *Budget, needed int) bool {
	if needed <= 1 {
		return true
	}
	if g.InParallelRegion() {
		return false
	}
	return b.Capacity() >= needed
}
