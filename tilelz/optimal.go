package tilelz

// ProbeGate configures when the optimal-parse (DP) lane is allowed to
// replace a lazy-1 result: the lazy pass must already have compressed
// within [RatioMin, RatioMax] of the source, the source must be small
// enough to afford the DP pass, and the DP output must beat the lazy
// output by at least MinGainBytes.
type ProbeGate struct {
	ProbeMaxBytes int
	RatioMin      float64
	RatioMax      float64
	MinGainBytes  int
}

// DefaultProbeGate mirrors the reference implementation's defaults for
// the natural-row mode-2 optimal-parse lane.
func DefaultProbeGate() ProbeGate {
	return ProbeGate{ProbeMaxBytes: 1 << 20, RatioMin: 0.20, RatioMax: 0.85, MinGainBytes: 8}
}

// bitCostUnit is the fixed Q8 per-byte weight used by the DP cost
// function (≈ 8 bits/byte, i.e. no entropy-coding discount assumed at
// parse time).
const bitCostUnit = 1 << 8

type dpCandidate struct {
	len, dist int
}

type dpEdge struct {
	cost      int64
	tokens    int
	isLiteral bool
	length    int
	dist      int
}

// CompressOptimal runs a dynamic-programming shortest-cost parse: edges
// are literal runs of 1..128 bytes and up to k best matches per
// position, weighted by bitCostUnit per emitted byte. Ties prefer fewer
// bytes, then fewer tokens, then a match over a literal run.
func CompressOptimal(src []byte, opts Options, k int) []byte {
	n := len(src)
	if n == 0 {
		return nil
	}
	if k < 1 {
		k = 4
	}
	sc := opts.Scratch
	if sc == nil {
		sc = &Scratch{}
	}
	sc.reset()
	sc.ensurePrev(n)

	// best[i] = lowest-cost way to have emitted src[i:] given an empty
	// suffix costs zero; dp walked backward so every edge choice only
	// depends on already-solved suffixes.
	best := make([]dpEdge, n+1)
	best[n] = dpEdge{}

	// Pass 1: build hash chain forward so matches found when walking
	// backward see the same future context a forward encoder would.
	heads := make([]int, n)
	for i := 0; i < n; i++ {
		if i+3 <= n {
			h := hash3(src[i], src[i+1], src[i+2])
			heads[i] = sc.headAt(h)
			sc.setHead(h, i)
		} else {
			heads[i] = -1
		}
	}

	for i := n - 1; i >= 0; i-- {
		// Literal-run edges: 1..128 bytes.
		maxRun := 128
		if i+maxRun > n {
			maxRun = n - i
		}
		bestEdge := dpEdge{cost: int64(maxRun+2)*bitCostUnit + best[i+maxRun].cost, tokens: 1 + best[i+maxRun].tokens, isLiteral: true, length: maxRun}
		for run := 1; run < maxRun; run++ {
			cand := dpEdge{cost: int64(run+2)*bitCostUnit + best[i+run].cost, tokens: 1 + best[i+run].tokens, isLiteral: true, length: run}
			if better(cand, bestEdge) {
				bestEdge = cand
			}
		}

		// Match edges via the candidate set at this position.
		for _, c := range dpCandidatesAt(src, i, heads, opts.MinDistLen3, k) {
			if i+c.len > n {
				continue
			}
			cand := dpEdge{cost: 4*bitCostUnit + best[i+c.len].cost, tokens: 1 + best[i+c.len].tokens, isLiteral: false, length: c.len, dist: c.dist}
			if better(cand, bestEdge) {
				bestEdge = cand
			}
		}
		best[i] = bestEdge
	}

	out := make([]byte, 0, n)
	i := 0
	litStart := 0
	flush := func(end int) {
		for litStart < end {
			chunk := end - litStart
			if chunk > 255 {
				chunk = 255
			}
			out = append(out, 0, byte(chunk))
			out = append(out, src[litStart:litStart+chunk]...)
			litStart += chunk
		}
	}
	for i < n {
		e := best[i]
		if e.isLiteral {
			i += e.length
			continue
		}
		flush(i)
		out = append(out, 1, byte(e.length), byte(e.dist&0xFF), byte((e.dist>>8)&0xFF))
		i += e.length
		litStart = i
	}
	flush(n)
	return out
}

func better(a, b dpEdge) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if a.tokens != b.tokens {
		return a.tokens < b.tokens
	}
	if a.isLiteral != b.isLiteral {
		return !a.isLiteral // prefer match on exact tie
	}
	return false
}

func dpCandidatesAt(src []byte, pos int, heads []int, minDistLen3, k int) []dpCandidate {
	n := len(src)
	if pos+3 > n {
		return nil
	}
	ref := heads[pos]
	if ref < 0 || ref >= pos {
		return nil
	}
	dist := pos - ref
	if dist > maxWindow {
		return nil
	}
	if src[ref] != src[pos] || src[ref+1] != src[pos+1] || src[ref+2] != src[pos+2] {
		return nil
	}
	length := 3
	for pos+length < n && length < maxMatch && src[ref+length] == src[pos+length] {
		length++
	}
	if length < 4 && dist > minDistLen3 {
		return nil
	}
	out := make([]dpCandidate, 0, k)
	out = append(out, dpCandidate{length, dist})
	for l := length - 1; l >= minMatch && len(out) < k; l-- {
		out = append(out, dpCandidate{l, dist})
	}
	return out
}

// ShouldAdoptOptimal applies the probe gate of §4.3: lazy-1 must run
// first and land in the configured ratio band, and the DP candidate
// must beat it by at least MinGainBytes.
func ShouldAdoptOptimal(srcLen, lazyLen, dpLen int, gate ProbeGate) bool {
	if srcLen > gate.ProbeMaxBytes {
		return false
	}
	if srcLen == 0 {
		return false
	}
	ratio := float64(lazyLen) / float64(srcLen)
	if ratio < gate.RatioMin || ratio > gate.RatioMax {
		return false
	}
	return dpLen+gate.MinGainBytes <= lazyLen
}
