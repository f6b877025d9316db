// Package rowfilter implements the PNG-style row prediction filters used
// by the legacy tile route, plus the filter_lo/filter_hi residual split
// and their coded-form wrappers.
package rowfilter

// Filter identifiers. 0..4 mirror PNG's None/Sub/Up/Average/Paeth; MED
// and the two weighted-mean filters extend the set for the PHOTO
// profile, which is allowed the full 0..7 range.
const (
	None = iota
	Sub
	Up
	Average
	Paeth
	MED
	WeightedA
	WeightedB
	Count
)

// MaxFilterBasic restricts UI/ANIME profiles to the PNG-compatible subset.
const MaxFilterBasic = Paeth

// MaxFilterPhoto allows the PHOTO profile the full filter set.
const MaxFilterPhoto = WeightedB

func paeth(a, b, c int32) int32 {
	p := a + b - c
	pa := abs32(p - a)
	pb := abs32(p - b)
	pc := abs32(p - c)
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func med(a, b, c int32) int32 {
	hi := a
	lo := b
	if hi < lo {
		hi, lo = lo, hi
	}
	if c >= hi {
		return lo
	}
	if c <= lo {
		return hi
	}
	return a + b - c
}

// Predict returns the predicted value of a pixel given its left (a),
// above (b) and upper-left (c) causal neighbors, under the named filter.
func Predict(ftype byte, a, b, c int32) int32 {
	switch ftype {
	case None:
		return 0
	case Sub:
		return a
	case Up:
		return b
	case Average:
		return (a + b) / 2
	case Paeth:
		return paeth(a, b, c)
	case MED:
		return med(a, b, c)
	case WeightedA:
		return (a*3 + b) / 4
	case WeightedB:
		return (a + b*3) / 4
	default:
		return 0
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
