// Package entropycore implements the NyANS-P entropy core: a 12-bit
// rANS with a flat 8-way interleaved lane layout sharing one renorm byte
// stream, plus a P-Index checkpoint mechanism for parallel decode.
//
// Reference: Jarek Duda, "Asymmetric Numeral Systems"; Fabian Giesen,
// "Interleaved Entropy Coders".
package entropycore

// LOG2Total is the bit width of the CDF total.
const LOG2Total = 12

// Total is the fixed CDF total (Σfreq across the alphabet).
const Total = 1 << LOG2Total

// LowerBound is the minimum value a lane state may hold outside a
// renormalization step.
const LowerBound = 1 << 16

// Lanes is the fixed interleave width of the flat encoder/decoder.
const Lanes = 8

// CDF is a cumulative distribution table over a byte/symbol alphabet.
// cdf[i] = sum(freq[0..i-1]); cdf has len(freq)+1 entries and
// cdf[len(freq)] == Total.
type CDF struct {
	Freq []uint32
	Cdf  []uint32
}

// AlphabetSize returns the number of symbols the table covers.
func (c *CDF) AlphabetSize() int { return len(c.Freq) }

// BuildFromFreq rescales raw (possibly zero) frequencies to Total via
// Laplace smoothing (every symbol gets at least 1) followed by a
// rescale pass that nudges the sum back to exactly Total.
func BuildFromFreq(rawFreq []uint32) *CDF {
	n := len(rawFreq)
	var rawTotal uint64
	for _, f := range rawFreq {
		rawTotal += uint64(f)
	}
	if rawTotal == 0 {
		rawTotal = uint64(n)
	}

	freq := make([]uint32, n)
	var scaledTotal uint64
	for i, f := range rawFreq {
		v := (uint64(f)*Total + rawTotal/2) / rawTotal
		if v < 1 {
			v = 1
		}
		freq[i] = uint32(v)
		scaledTotal += uint64(v)
	}

	for scaledTotal != Total {
		if scaledTotal > Total {
			for i := 0; i < n && scaledTotal > Total; i++ {
				if freq[i] > 1 {
					freq[i]--
					scaledTotal--
				}
			}
		} else {
			maxIdx := 0
			for i := 1; i < n; i++ {
				if freq[i] > freq[maxIdx] {
					maxIdx = i
				}
			}
			delta := Total - scaledTotal
			freq[maxIdx] += uint32(delta)
			scaledTotal = Total
		}
	}

	cdf := make([]uint32, n+1)
	for i, f := range freq {
		cdf[i+1] = cdf[i] + f
	}
	return &CDF{Freq: freq, Cdf: cdf}
}

// BuildUniform builds a flat CDF over an alphabet of the given size.
func BuildUniform(alphabetSize int) *CDF {
	raw := make([]uint32, alphabetSize)
	for i := range raw {
		raw[i] = 1
	}
	return BuildFromFreq(raw)
}

// Symbol resolves the symbol owning the given CDF slot via linear scan.
// Exposed separately from SymbolLUT so callers can choose the
// scan-vs-lookup tradeoff the same way the decoder's hot loop does.
func (c *CDF) Symbol(slot uint32) int {
	for i := 0; i < len(c.Freq); i++ {
		if slot < c.Cdf[i+1] {
			return i
		}
	}
	return len(c.Freq) - 1
}

// SymbolLUT is a 4096-entry slot→symbol lookup table, the scalar
// equivalent of the SIMD gather table in the reference implementation.
type SymbolLUT struct {
	slotToSymbol [Total]uint16
}

// BuildSymbolLUT materializes the slot→symbol table for a CDF.
func BuildSymbolLUT(c *CDF) *SymbolLUT {
	lut := &SymbolLUT{}
	for sym := 0; sym < len(c.Freq); sym++ {
		lo, hi := c.Cdf[sym], c.Cdf[sym+1]
		for slot := lo; slot < hi; slot++ {
			lut.slotToSymbol[slot] = uint16(sym)
		}
	}
	return lut
}

func (l *SymbolLUT) Symbol(slot uint32) int { return int(l.slotToSymbol[slot]) }
