// Package planecodec runs the three-way route competition (legacy
// tile, screen-indexed, natural-row) that decides how one plane gets
// coded into a tile chunk, and reverses that decision at decode time
// from the tile's dispatch byte.
package planecodec

import (
	"github.com/hakorune/hakonyans/blockmode"
	"github.com/hakorune/hakonyans/legacytile"
	"github.com/hakorune/hakonyans/naturalroute"
	"github.com/hakorune/hakonyans/profile"
	"github.com/hakorune/hakonyans/screenroute"
)

// minRouteCompetitionPixels is the plane size below which screen/
// natural candidates aren't worth racing; tiny planes go straight to
// the legacy tile.
const minRouteCompetitionPixels = 4096

// gatePermilleForProfile maps a profile to the multiplicative threshold the
// screen-indexed candidate must beat the legacy tile by to be adopted.
func gatePermilleForProfile(p profile.Profile) int {
	switch p {
	case profile.UI:
		return 995
	case profile.Anime:
		return 990
	default:
		return 1000
	}
}

// EncodePlane classifies the plane's profile from its own samples (the
// Y-plane heuristic applies to any single plane passed in, per spec
// §4.9 step 1) and runs the legacy/screen/natural competition, cropping
// the winning payload down to the logical width*height and returning it
// ready to become a tile chunk.
func EncodePlane(plane []int16, width, height int) []byte {
	prof := profile.Classify(plane, width, height)
	profileID := legacyProfileID(prof)

	padW := (width + 7) / 8 * 8
	padH := (height + 7) / 8 * 8
	padded := padPlane(plane, width, height, padW, padH)

	legacy := legacytile.Encode(padded, width, height, profileID)
	legacyPayload := legacy.Marshal()

	if width*height < minRouteCompetitionPixels {
		return legacyPayload
	}

	best := legacyPayload
	gate := gatePermilleForProfile(prof)

	if screenPayload, reason := screenroute.EncodeScreenIndexed(plane, width, height); reason == screenroute.FailNone {
		if len(screenPayload)*1000 <= len(best)*gate {
			best = screenPayload
		}
	}

	if naturalPayload := naturalroute.EncodeNaturalRoute(plane, width, height); len(naturalPayload) > 0 {
		if len(naturalPayload) < len(best) {
			best = naturalPayload
		}
	}

	return best
}

// DecodePlane reverses EncodePlane given the logical plane dimensions,
// dispatching on the tile payload's leading byte.
func DecodePlane(tile []byte, width, height int) []int16 {
	if len(tile) == 0 {
		return make([]int16, width*height)
	}
	switch tile[0] {
	case naturalroute.WrapperMagicNaturalRow:
		return naturalroute.DecodeNaturalRoute(tile, width, height)
	case screenroute.MagicScreenIndexed:
		if plane, ok := screenroute.DecodeScreenIndexed(tile, width, height); ok {
			return plane
		}
		return make([]int16, width*height)
	default:
		padW := (width + 7) / 8 * 8
		padH := (height + 7) / 8 * 8
		numXBlocks := padW / 8
		numYBlocks := padH / 8
		t, err := legacytile.Unmarshal(tile, numXBlocks, numYBlocks)
		if err != nil {
			return make([]int16, width*height)
		}
		padded := legacytile.Decode(t, padW, padH)
		return cropPlane(padded, width, height, padW)
	}
}

func legacyProfileID(p profile.Profile) int {
	switch p {
	case profile.UI:
		return blockmode.ProfileUI
	case profile.Anime:
		return blockmode.ProfileAnime
	default:
		return blockmode.ProfilePhoto
	}
}

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
