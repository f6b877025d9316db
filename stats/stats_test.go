package stats

import "testing"

func TestNilSinkIsNoOp(t *testing.T) {
	var s *Sink
	s.RecordBlock(BlockModeCopy, 10, 20, 30, 40)
	s.RecordFilterRow(2)
	s.RecordRouteAttempt(RouteScreen)
	s.RecordRouteAdopted(RouteNatural)
}

func TestRecordBlockTalliesSelectedMode(t *testing.T) {
	var s Sink
	s.RecordBlock(BlockModePalette, 10, 20, 5, 40)
	s.RecordBlock(BlockModeFilter, 10, 20, 30, 15)
	if s.TotalBlocks != 2 {
		t.Fatalf("got %d total blocks, want 2", s.TotalBlocks)
	}
	if s.PaletteSelected != 1 || s.FilterSelected != 1 {
		t.Fatalf("got palette=%d filter=%d, want 1 and 1", s.PaletteSelected, s.FilterSelected)
	}
	if s.EstSelectedSum != 5+15 {
		t.Fatalf("got EstSelectedSum=%d, want %d", s.EstSelectedSum, 5+15)
	}
}

func TestRecordRouteAdopted(t *testing.T) {
	var s Sink
	s.RecordRouteAdopted(RouteScreen)
	s.RecordRouteAdopted(RouteLegacy)
	if s.ScreenRouteAdopted != 1 || s.LegacyRouteAdopted != 1 {
		t.Fatalf("route adoption counts wrong: %+v", s)
	}
}

func TestRecordFilterRowHistogram(t *testing.T) {
	var s Sink
	s.RecordFilterRow(0)
	s.RecordFilterRow(0)
	s.RecordFilterRow(4)
	if s.FilterRowIDHist[0] != 2 || s.FilterRowIDHist[4] != 1 {
		t.Fatalf("histogram wrong: %+v", s.FilterRowIDHist)
	}
}
