package entropycore

// FlatEncoder is the 8-way interleaved rANS encoder: Lanes independent
// states share one renorm byte stream so the decoder can process all
// lanes with regular, gather-friendly memory access.
type FlatEncoder struct {
	states  [Lanes]uint32
	pending []pendingSymbol
}

// NewFlatEncoder returns a flat interleaved encoder with all lanes
// reset to LowerBound.
func NewFlatEncoder() *FlatEncoder {
	e := &FlatEncoder{}
	for i := range e.states {
		e.states[i] = LowerBound
	}
	return e
}

// EncodeSymbol queues symbol i, logically owned by lane i mod Lanes.
func (e *FlatEncoder) EncodeSymbol(cdf *CDF, symbol int) {
	e.pending = append(e.pending, pendingSymbol{cdf, symbol})
}

// Finish drains the queued symbols (processed in reverse, per lane) and
// appends all Lanes final states so the decoder can initialize from the
// first Lanes*4 bytes.
func (e *FlatEncoder) Finish() []byte {
	out := make([]byte, 0, len(e.pending)+Lanes*4)

	for i := len(e.pending) - 1; i >= 0; i-- {
		lane := i % Lanes
		cdf := e.pending[i].cdf
		symbol := e.pending[i].symbol
		freq := cdf.Freq[symbol]
		bias := cdf.Cdf[symbol]

		maxState := ((uint32(LowerBound) >> LOG2Total) << 8) * freq
		for e.states[lane] >= maxState {
			out = append(out, byte(e.states[lane]&0xFF))
			e.states[lane] >>= 8
		}
		e.states[lane] = (e.states[lane]/freq)*Total + (e.states[lane] % freq) + bias
	}

	for i := Lanes - 1; i >= 0; i-- {
		s := e.states[i]
		out = append(out, byte(s>>0), byte(s>>8), byte(s>>16), byte(s>>24))
	}

	reverseBytes(out)
	e.pending = e.pending[:0]
	for i := range e.states {
		e.states[i] = LowerBound
	}
	return out
}

// FlatDecoder is the inverse of FlatEncoder.
type FlatDecoder struct {
	data    []byte
	pos     int
	states  [Lanes]uint32
	curLane int
}

// NewFlatDecoder initializes a decoder over a flat-interleaved stream.
func NewFlatDecoder(data []byte) *FlatDecoder {
	d := &FlatDecoder{data: data}
	if len(data) >= Lanes*4 {
		for i := 0; i < Lanes; i++ {
			o := i * 4
			d.states[i] = uint32(data[o])<<24 | uint32(data[o+1])<<16 | uint32(data[o+2])<<8 | uint32(data[o+3])
		}
		d.pos = Lanes * 4
	}
	return d
}

// DecodeSymbol decodes the next logical symbol, cycling through lanes
// 0..Lanes-1 in order (matching encode's i mod Lanes assignment).
func (d *FlatDecoder) DecodeSymbol(cdf *CDF) int {
	lane := d.curLane
	d.curLane = (d.curLane + 1) % Lanes

	slot := d.states[lane] & (Total - 1)
	symbol := cdf.Symbol(slot)

	freq := cdf.Freq[symbol]
	bias := cdf.Cdf[symbol]
	d.states[lane] = (d.states[lane]>>LOG2Total)*freq + slot - bias

	for d.states[lane] < LowerBound && d.pos < len(d.data) {
		d.states[lane] = (d.states[lane] << 8) | uint32(d.data[d.pos])
		d.pos++
	}
	return symbol
}

// DecodeSymbolLUT is the LUT-accelerated equivalent of DecodeSymbol; it
// must produce byte-identical output to DecodeSymbol for any CDF/LUT
// pair built from the same table (testable property #3).
func (d *FlatDecoder) DecodeSymbolLUT(cdf *CDF, lut *SymbolLUT) int {
	lane := d.curLane
	d.curLane = (d.curLane + 1) % Lanes

	slot := d.states[lane] & (Total - 1)
	symbol := lut.Symbol(slot)

	freq := cdf.Freq[symbol]
	bias := cdf.Cdf[symbol]
	d.states[lane] = (d.states[lane]>>LOG2Total)*freq + slot - bias

	for d.states[lane] < LowerBound && d.pos < len(d.data) {
		d.states[lane] = (d.states[lane] << 8) | uint32(d.data[d.pos])
		d.pos++
	}
	return symbol
}

// BytePos returns the decoder's current position in the shared renorm
// stream, used by P-Index checkpoint replay.
func (d *FlatDecoder) BytePos() int { return d.pos }

// LaneStates returns a copy of the current lane states, used by P-Index
// checkpoint replay and by ParallelDecode to seed a worker's range.
func (d *FlatDecoder) LaneStates() [Lanes]uint32 { return d.states }

// NewFlatDecoderFromCheckpoint resumes decoding from a previously
// recorded position, used by parallel decode to start mid-stream.
func NewFlatDecoderFromCheckpoint(data []byte, byteOffset int, states [Lanes]uint32, laneCursor int) *FlatDecoder {
	return &FlatDecoder{data: data, pos: byteOffset, states: states, curLane: laneCursor}
}
