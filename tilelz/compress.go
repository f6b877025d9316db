package tilelz

// Strategy selects the match-finding heuristic used by Compress.
type Strategy int

const (
	// Greedy takes the first match found at each position (default).
	Greedy Strategy = iota
	// Lazy1 probes position+1 before committing to a match at
	// position, deferring by one byte when the later match is
	// strictly better.
	Lazy1
)

// Options tunes TileLZ compression.
type Options struct {
	Strategy    Strategy
	MinDistLen3 int // max distance at which a length-3 match is accepted
	Scratch     *Scratch
}

// DefaultOptions mirrors the reference implementation's defaults.
func DefaultOptions() Options {
	return Options{Strategy: Greedy, MinDistLen3: 128}
}

type match struct {
	len, dist int
}

// findMatch looks up the hash chain head for the 3-byte prefix at pos
// and returns the best causal match, or ok=false if none qualifies.
func findMatch(src []byte, pos int, sc *Scratch, minDistLen3 int) (m match, ok bool) {
	n := len(src)
	if pos+3 > n {
		return match{}, false
	}
	h := hash3(src[pos], src[pos+1], src[pos+2])
	ref := sc.headAt(h)
	if ref < 0 || ref >= pos {
		return match{}, false
	}
	dist := pos - ref
	if dist > maxWindow {
		return match{}, false
	}
	if src[ref] != src[pos] || src[ref+1] != src[pos+1] || src[ref+2] != src[pos+2] {
		return match{}, false
	}
	length := 3
	for pos+length < n && length < maxMatch && src[ref+length] == src[pos+length] {
		length++
	}
	if length < 4 && dist > minDistLen3 {
		return match{}, false
	}
	return match{len: length, dist: dist}, true
}

// Compress encodes src into the TileLZ token stream. A nil Scratch in
// opts causes a private one to be allocated for this call only — pass
// a pooled Scratch (tilelz.Pool) on hot paths to avoid the per-call
// allocation of the hash tables.
func Compress(src []byte, opts Options) []byte {
	if len(src) == 0 {
		return nil
	}
	sc := opts.Scratch
	if sc == nil {
		sc = &Scratch{}
	}
	sc.reset()
	sc.ensurePrev(len(src))

	out := make([]byte, 0, len(src))
	n := len(src)
	pos := 0
	litStart := 0

	flushLiterals := func(end int) {
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

	for pos < n {
		if pos+3 > n {
			pos++
			continue
		}
		h := hash3(src[pos], src[pos+1], src[pos+2])
		m, ok := findMatch(src, pos, sc, opts.MinDistLen3)
		sc.setHead(h, pos)

		if ok && opts.Strategy == Lazy1 && pos+1+3 <= n {
			if m2, ok2 := findMatch(src, pos+1, sc, opts.MinDistLen3); ok2 && m2.len > m.len {
				pos++
				continue
			}
		}

		if ok {
			flushLiterals(pos)
			out = append(out, 1, byte(m.len), byte(m.dist&0xFF), byte((m.dist>>8)&0xFF))
			pos += m.len
			litStart = pos
		} else {
			pos++
		}
	}
	flushLiterals(n)
	return out
}

// Bound returns the worst-case encoded size for an input of length n
// (testable property #4).
func Bound(n int) int {
	return n + ((n+254)/255)*2 + 64
}
