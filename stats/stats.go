// Package stats provides a nil-able diagnostic sink for the encoder's
// route and block-mode competitions. Callers that don't care about
// diagnostics pass a nil *Sink (every method is a nil-receiver no-op);
// callers building tooling around the codec pass a real *Sink and read
// the counters back after encoding.
package stats

import "sync/atomic"

// Sink accumulates encoder diagnostics across block-mode and route
// competition decisions. The zero value is ready to use; a nil *Sink
// is also safe to call methods on (they're no-ops), so callers that
// don't want diagnostics can pass nil straight through.
type Sink struct {
	TotalBlocks      uint64
	CopySelected     uint64
	PaletteSelected  uint64
	Tile4Selected    uint64
	FilterSelected   uint64
	EstCopyBitsSum   uint64
	EstTile4BitsSum  uint64
	EstPaletteBitsSum uint64
	EstFilterBitsSum uint64
	EstSelectedSum   uint64

	ScreenRouteAttempted uint64
	ScreenRouteAdopted   uint64
	NaturalRouteAdopted  uint64
	LegacyRouteAdopted   uint64

	FilterRowIDHist [8]uint64
}

// RecordBlock tallies one block-mode decision: which mode won and what
// each candidate's bit-cost estimate was (0 for modes that weren't
// tried for this block).
func (s *Sink) RecordBlock(selected BlockMode, estCopy, estTile4, estPalette, estFilter int) {
	if s == nil {
		return
	}
	atomic.AddUint64(&s.TotalBlocks, 1)
	switch selected {
	case BlockModeCopy:
		atomic.AddUint64(&s.CopySelected, 1)
		atomic.AddUint64(&s.EstSelectedSum, uint64(estCopy))
	case BlockModePalette:
		atomic.AddUint64(&s.PaletteSelected, 1)
		atomic.AddUint64(&s.EstSelectedSum, uint64(estPalette))
	case BlockModeTile4:
		atomic.AddUint64(&s.Tile4Selected, 1)
		atomic.AddUint64(&s.EstSelectedSum, uint64(estTile4))
	default:
		atomic.AddUint64(&s.FilterSelected, 1)
		atomic.AddUint64(&s.EstSelectedSum, uint64(estFilter))
	}
	atomic.AddUint64(&s.EstCopyBitsSum, uint64(estCopy))
	atomic.AddUint64(&s.EstTile4BitsSum, uint64(estTile4))
	atomic.AddUint64(&s.EstPaletteBitsSum, uint64(estPalette))
	atomic.AddUint64(&s.EstFilterBitsSum, uint64(estFilter))
}

// RecordFilterRow tallies one row's chosen filter id (0..7).
func (s *Sink) RecordFilterRow(filterID byte) {
	if s == nil {
		return
	}
	if int(filterID) < len(s.FilterRowIDHist) {
		atomic.AddUint64(&s.FilterRowIDHist[filterID], 1)
	}
}

// RecordRouteAttempt tallies which plane-level route was tried and,
// separately, which one won via RecordRouteAdopted.
func (s *Sink) RecordRouteAttempt(route Route) {
	if s == nil {
		return
	}
	if route == RouteScreen {
		atomic.AddUint64(&s.ScreenRouteAttempted, 1)
	}
}

// RecordRouteAdopted tallies which route's payload was ultimately
// emitted as the tile chunk.
func (s *Sink) RecordRouteAdopted(route Route) {
	if s == nil {
		return
	}
	switch route {
	case RouteScreen:
		atomic.AddUint64(&s.ScreenRouteAdopted, 1)
	case RouteNatural:
		atomic.AddUint64(&s.NaturalRouteAdopted, 1)
	default:
		atomic.AddUint64(&s.LegacyRouteAdopted, 1)
	}
}

// BlockMode mirrors blockmode.BlockType without importing that package
// (stats must stay leaf-level so every encoder stage can depend on it).
type BlockMode byte

const (
	BlockModeFilter BlockMode = iota
	BlockModeCopy
	BlockModePalette
	BlockModeTile4
)

// Route identifies which of the three plane-level routes a decision
// concerns.
type Route byte

const (
	RouteLegacy Route = iota
	RouteScreen
	RouteNatural
)
