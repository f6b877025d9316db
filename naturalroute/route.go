package naturalroute

import "github.com/hakorune/hakonyans/tilelz"

// WrapperMagicNaturalRow tags the natural-row tile at the plane level.
const WrapperMagicNaturalRow = 0xAD

// Mode2GatePermille requires the global-chain-LZ sub-mode to beat
// min(mode0, mode1) by this permille margin before it is adopted; a
// mode-2 payload that merely ties mode 0/1 isn't worth the extra
// decode complexity.
const Mode2GatePermille = 990

func padPlane(plane []int16, width, height, padW, padH int) []int16 {
	out := make([]int16, padW*padH)
	for y := 0; y < padH; y++ {
		sy := y
		if sy > height-1 {
			sy = height - 1
		}
		for x := 0; x < padW; x++ {
			sx := x
			if sx > width-1 {
				sx = width - 1
			}
			out[y*padW+x] = plane[sy*width+sx]
		}
	}
	return out
}

func cropPlane(padded []int16, width, height, padW int) []int16 {
	out := make([]int16, width*height)
	for y := 0; y < height; y++ {
		copy(out[y*width:(y+1)*width], padded[y*padW:y*padW+width])
	}
	return out
}

// compressMode1 is the residual compressor shared by mode 1: a single
// greedy TileLZ pass.
func compressMode1(src []byte) []byte {
	return tilelz.Compress(src, tilelz.DefaultOptions())
}

// compressMode2 is mode 2's "global-chain" lane: a lazy-1 pass, then a
// probed optimal (dynamic-programming) re-parse when the lazy ratio
// suggests the DP pass is likely to pay for itself.
func compressMode2(src []byte) []byte {
	opts := tilelz.Options{Strategy: tilelz.Lazy1, MinDistLen3: 128}
	lazy := tilelz.Compress(src, opts)
	if len(lazy) == 0 {
		return lazy
	}
	gate := tilelz.DefaultProbeGate()
	if len(src) > gate.ProbeMaxBytes {
		return lazy
	}
	ratio := float64(len(lazy)) / float64(len(src))
	if ratio < gate.RatioMin || ratio > gate.RatioMax {
		return lazy
	}
	optimal := tilelz.CompressOptimal(src, opts, 4)
	if len(optimal) > 0 && len(lazy)-len(optimal) >= gate.MinGainBytes {
		return optimal
	}
	return lazy
}

// EncodeNaturalRoute races the four sub-modes and returns the smallest
// payload, applying the mode-2 gate and mode-3's strict-improvement
// rule from the plane encoder's sub-mode selection policy.
func EncodeNaturalRoute(plane []int16, width, height int) []byte {
	if len(plane) == 0 || width == 0 || height == 0 {
		return nil
	}
	padW := ((width + 7) / 8) * 8
	padH := ((height + 7) / 8) * 8
	padded := padPlane(plane, width, height, padW, padH)

	mode0 := buildMode0Payload(padded, padW, padH)
	mode1 := buildMode1OrMode2Payload(padded, padW, padH, ModeRich, compressMode1)

	best := mode0
	if len(mode1) > 0 && (len(best) == 0 || len(mode1) < len(best)) {
		best = mode1
	}
	if len(best) == 0 {
		return nil
	}

	baseline := len(mode0)
	if len(mode1) > 0 && len(mode1) < baseline {
		baseline = len(mode1)
	}
	limit := (baseline * Mode2GatePermille) / 1000
	mode2 := buildMode1OrMode2Payload(padded, padW, padH, ModeChainLZ, compressMode2)
	if len(mode2) > 0 && len(mode2) <= limit && len(mode2) < len(best) {
		best = mode2
	}

	rowIDs := buildRowIDs(padded, padW, padH, numRichPredictors)
	mode3 := buildMode3Payload(padded, padW, padH, rowIDs)
	if len(mode3) > 0 && len(mode3) < len(best) {
		best = mode3
	}

	return best
}

// DecodeNaturalRoute reverses EncodeNaturalRoute given the logical
// plane dimensions it was built from.
func DecodeNaturalRoute(frame []byte, width, height int) []int16 {
	if len(frame) < 2 || frame[0] != WrapperMagicNaturalRow {
		return make([]int16, width*height)
	}
	padW := ((width + 7) / 8) * 8
	padH := ((height + 7) / 8) * 8

	var padded []int16
	switch frame[1] {
	case ModeBasic:
		padded = decodeMode0Payload(frame, padW, padH)
	case ModeRich, ModeChainLZ:
		padded = decodeMode1OrMode2Payload(frame, padW, padH)
	case ModeTwoContext:
		padded = decodeMode3Payload(frame, padW, padH)
	default:
		return make([]int16, width*height)
	}
	return cropPlane(padded, width, height, padW)
}
