// Package profile classifies a plane's content into the UI / ANIME / PHOTO
// buckets that the legacy tile's palette gates and the screen/natural
// route competition use to pick their gate permilles.
package profile

// Profile is the classification a plane falls into.
type Profile byte

const (
	UI Profile = iota
	Anime
	Photo
)

func (p Profile) String() string {
	switch p {
	case UI:
		return "UI"
	case Anime:
		return "ANIME"
	default:
		return "PHOTO"
	}
}

// copyCandidates mirrors blockmode's causal displacement set; kept as a
// private copy here rather than importing blockmode, since the
// classifier only needs the hit/miss test, not block reconstruction.
var copyCandidates = [4][2]int{{-8, 0}, {0, -8}, {-8, -8}, {8, -8}}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sampleAt(plane []int16, width, height, x, y int) int16 {
	sx := clampInt(x, 0, width-1)
	sy := clampInt(y, 0, height-1)
	return plane[sy*width+sx]
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Classify samples a width*height Y-plane on a coarse causal-copy-hit /
// histogram / mean-|Δ| grid and buckets the result into UI/ANIME/PHOTO.
// Tiny planes (fewer than 64 8x8 blocks, or fewer than 32 sampled
// blocks) default to PHOTO, matching the reference's conservative
// fallback.
func Classify(plane []int16, width, height int) Profile {
	if len(plane) == 0 || width == 0 || height == 0 {
		return Photo
	}
	bx := (width + 7) / 8
	by := (height + 7) / 8
	if bx*by < 64 {
		return Photo
	}

	step := 4
	total := bx * by
	if total < 256 {
		step = 1
	} else if total < 1024 {
		step = 2
	}

	samples := 0
	copyHits := 0
	var sumAbsDiff, pixelCount uint64
	var hist [16]uint32

	for yb := 0; yb < by; yb += step {
		for xb := 0; xb < bx; xb += step {
			curX, curY := xb*8, yb*8
			hit := false

			for _, cand := range copyCandidates {
				srcX, srcY := curX+cand[0], curY+cand[1]
				if srcX < 0 || srcY < 0 {
					continue
				}
				if !(srcY < curY || (srcY == curY && srcX < curX)) {
					continue
				}
				match := true
				for y := 0; y < 8 && match; y++ {
					for x := 0; x < 8; x++ {
						if sampleAt(plane, width, height, curX+x, curY+y) != sampleAt(plane, width, height, srcX+x, srcY+y) {
							match = false
							break
						}
					}
				}
				if match {
					hit = true
					break
				}
			}
			if hit {
				copyHits++
			}

			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					val := sampleAt(plane, width, height, curX+x, curY+y)
					bin := clampInt(int(val), 0, 255) / 16
					if bin >= 0 && bin < 16 {
						hist[bin]++
					}
					if x > 0 {
						sumAbsDiff += uint64(abs64(int64(val) - int64(sampleAt(plane, width, height, curX+x-1, curY+y))))
					}
					if y > 0 {
						sumAbsDiff += uint64(abs64(int64(val) - int64(sampleAt(plane, width, height, curX+x, curY+y-1))))
					}
				}
			}
			samples++
			pixelCount += 64
		}
	}

	if samples < 32 {
		return Photo
	}

	copyHitRate := float64(copyHits) / float64(samples)
	meanAbsDiff := 0.0
	if pixelCount > 0 {
		meanAbsDiff = float64(sumAbsDiff) / float64(pixelCount)
	}
	activeBins := 0
	for _, c := range hist {
		if c > 0 {
			activeBins++
		}
	}

	if copyHitRate >= 0.10 && activeBins <= 6 && meanAbsDiff <= 1.2 {
		return Anime
	}

	uiScore, animeScore := 0, 0
	if copyHitRate >= 0.90 {
		uiScore += 3
	}
	if activeBins <= 10 {
		uiScore += 2
	}
	if meanAbsDiff <= 12 {
		uiScore += 1
	}
	if copyHitRate >= 0.60 && copyHitRate < 0.95 {
		animeScore += 2
	}
	if activeBins >= 8 && activeBins <= 24 {
		animeScore += 2
	}
	if meanAbsDiff <= 28 {
		animeScore += 2
	}

	if uiScore >= animeScore+2 {
		return UI
	}
	if animeScore >= 3 {
		return Anime
	}
	return Photo
}
