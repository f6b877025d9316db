// Package screenroute implements the screen-indexed lossless route: a
// preflight heuristic that flags flat, low-color content (UI chrome,
// terminal output, vector art) and a palette-indexed tile encoder for
// planes that qualify.
package screenroute

import "math"

// PreflightMetrics summarizes a plane's color/run structure cheaply
// enough to run before committing to the (more expensive) full palette
// build.
type PreflightMetrics struct {
	UniqueSample      uint16
	AvgRunX100        uint16
	MeanAbsDiffX100   uint16
	RunEntropyHintX100 uint16
	LikelyScreen      bool
}

// AnalyzePreflight samples a width*height int16 plane on a coarse grid
// to estimate its unique-color count and average run length, then
// applies the same likely-screen heuristic used to gate route
// competition: very low color counts are always screen-like; moderately
// low counts with long runs still qualify; and high per-pixel noise
// overrides both when the color count isn't tiny.
func AnalyzePreflight(plane []int16, width, height int) PreflightMetrics {
	var m PreflightMetrics
	if width == 0 || height == 0 || len(plane) == 0 {
		return m
	}

	sx := max(1, width/64)
	sy := max(1, height/64)
	uniq := make(map[int16]struct{}, 128)
	for y := 0; y < height && len(uniq) <= 192; y += sy {
		row := plane[y*width : y*width+width]
		for x := 0; x < width; x += sx {
			uniq[row[x]] = struct{}{}
			if len(uniq) > 192 {
				break
			}
		}
	}
	if len(uniq) > 65535 {
		m.UniqueSample = 65535
	} else {
		m.UniqueSample = uint16(len(uniq))
	}

	sampledRows := height
	if sampledRows > 32 {
		sampledRows = 32
	}
	rowStep := max(1, height/max(1, sampledRows))

	var totalPixels, totalRuns, totalAbsDiff, totalDiffs uint64
	for y := 0; y < height; y += rowStep {
		row := plane[y*width : y*width+width]
		totalRuns++
		totalPixels += uint64(width)
		prev := row[0]
		for x := 1; x < width; x++ {
			v := row[x]
			d := int64(v) - int64(prev)
			if d < 0 {
				d = -d
			}
			totalAbsDiff += uint64(d)
			totalDiffs++
			if v != prev {
				totalRuns++
				prev = v
			}
		}
	}

	avgRun := 0.0
	if totalRuns > 0 {
		avgRun = float64(totalPixels) / float64(totalRuns)
	}
	m.AvgRunX100 = clampX100(avgRun * 100)

	meanAbsDiff := 0.0
	if totalDiffs > 0 {
		meanAbsDiff = float64(totalAbsDiff) / float64(totalDiffs)
	}
	m.MeanAbsDiffX100 = clampX100(meanAbsDiff * 100)

	entropyHint := 0.0
	if totalPixels > 0 {
		entropyHint = float64(totalRuns) / float64(totalPixels)
	}
	m.RunEntropyHintX100 = clampX100(entropyHint * 100)

	switch {
	case m.UniqueSample <= 48:
		m.LikelyScreen = true
	case m.UniqueSample <= 96 && m.AvgRunX100 >= 280:
		m.LikelyScreen = true
	}
	if m.MeanAbsDiffX100 >= 2200 && m.UniqueSample > 96 {
		m.LikelyScreen = false
	}
	return m
}

func clampX100(v float64) uint16 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 65535 {
		return 65535
	}
	return uint16(r)
}
