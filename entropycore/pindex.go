package entropycore

import "encoding/binary"

// DefaultCheckpointInterval is the reference implementation's default
// P-Index spacing (8-aligned, as §4.2 requires).
const DefaultCheckpointInterval = 256

// Checkpoint is a replayable snapshot of decoder state at a given token
// position.
type Checkpoint struct {
	ByteOffset uint32
	TokenIndex uint32
	States     [Lanes]uint32
}

// PIndex is the checkpoint list for a flat-interleaved stream, enabling
// parallel or random-access decode.
type PIndex struct {
	TotalTokens uint32
	TotalBytes  uint32
	Checkpoints []Checkpoint
}

// BuildPIndex replays decode of an already-encoded stream, recording a
// checkpoint every interval tokens (rounded up to a multiple of 8). The
// first checkpoint is always {0, 0, initial lane states}.
func BuildPIndex(encoded []byte, cdf *CDF, totalTokens uint32, interval uint32) *PIndex {
	if interval == 0 {
		interval = DefaultCheckpointInterval
	}
	interval = ((interval + 7) / 8) * 8

	dec := NewFlatDecoder(encoded)
	pindex := &PIndex{
		TotalTokens: totalTokens,
		TotalBytes:  uint32(len(encoded)),
		Checkpoints: []Checkpoint{{ByteOffset: 0, TokenIndex: 0, States: dec.LaneStates()}},
	}

	var tokenPos uint32
	for tokenPos < totalTokens {
		batchEnd := tokenPos + interval
		if batchEnd > totalTokens {
			batchEnd = totalTokens
		}
		for tokenPos < batchEnd {
			dec.DecodeSymbol(cdf)
			tokenPos++
		}
		if tokenPos < totalTokens {
			pindex.Checkpoints = append(pindex.Checkpoints, Checkpoint{
				ByteOffset: uint32(dec.BytePos()),
				TokenIndex: tokenPos,
				States:     dec.LaneStates(),
			})
		}
	}
	return pindex
}

// Serialize encodes a PIndex as
// [total_tokens u32][total_bytes u32][count u32] then, per checkpoint,
// [byte_offset u32][token_index u32][states u32 x8].
func (p *PIndex) Serialize() []byte {
	out := make([]byte, 12+len(p.Checkpoints)*(8+4*Lanes))
	binary.LittleEndian.PutUint32(out[0:], p.TotalTokens)
	binary.LittleEndian.PutUint32(out[4:], p.TotalBytes)
	binary.LittleEndian.PutUint32(out[8:], uint32(len(p.Checkpoints)))

	off := 12
	for _, cp := range p.Checkpoints {
		binary.LittleEndian.PutUint32(out[off:], cp.ByteOffset)
		binary.LittleEndian.PutUint32(out[off+4:], cp.TokenIndex)
		off += 8
		for i := 0; i < Lanes; i++ {
			binary.LittleEndian.PutUint32(out[off:], cp.States[i])
			off += 4
		}
	}
	return out
}

// DeserializePIndex is the inverse of Serialize.
func DeserializePIndex(data []byte) *PIndex {
	if len(data) < 12 {
		return &PIndex{}
	}
	p := &PIndex{
		TotalTokens: binary.LittleEndian.Uint32(data[0:]),
		TotalBytes:  binary.LittleEndian.Uint32(data[4:]),
	}
	count := binary.LittleEndian.Uint32(data[8:])
	p.Checkpoints = make([]Checkpoint, 0, count)

	off := 12
	for i := uint32(0); i < count; i++ {
		if off+8+4*Lanes > len(data) {
			break
		}
		cp := Checkpoint{
			ByteOffset: binary.LittleEndian.Uint32(data[off:]),
			TokenIndex: binary.LittleEndian.Uint32(data[off+4:]),
		}
		off += 8
		for j := 0; j < Lanes; j++ {
			cp.States[j] = binary.LittleEndian.Uint32(data[off:])
			off += 4
		}
		pindexAppend(&p.Checkpoints, cp)
	}
	return p
}

func pindexAppend(s *[]Checkpoint, cp Checkpoint) { *s = append(*s, cp) }

// ParallelDecode decodes totalTokens symbols against cdf using the
// checkpoints in p to split work across up to k workers. Each worker
// decodes an independent, disjoint token range directly into its slice
// of out, so there is no need for synchronization beyond the final
// join (testable property #3: output must equal a purely linear
// decode for every k in 1..16).
func ParallelDecode(data []byte, cdf *CDF, p *PIndex, k int, out []int) {
	if k < 1 {
		k = 1
	}
	n := len(p.Checkpoints)
	if n == 0 || k == 1 {
		dec := NewFlatDecoder(data)
		for i := range out {
			out[i] = dec.DecodeSymbol(cdf)
		}
		return
	}
	if k > n {
		k = n
	}

	type span struct{ startCP, endTok int }
	spans := make([]span, k)
	per := (n + k - 1) / k
	for w := 0; w < k; w++ {
		startCP := w * per
		if startCP >= n {
			k = w
			break
		}
		endTok := int(p.TotalTokens)
		nextCP := (w + 1) * per
		if nextCP < n {
			endTok = int(p.Checkpoints[nextCP].TokenIndex)
		}
		spans[w] = span{startCP, endTok}
	}

	done := make(chan struct{}, k)
	for w := 0; w < k; w++ {
		s := spans[w]
		go func() {
			cp := p.Checkpoints[s.startCP]
			dec := NewFlatDecoder(data)
			if cp.TokenIndex > 0 {
				dec = NewFlatDecoderFromCheckpoint(data, int(cp.ByteOffset), cp.States, int(cp.TokenIndex%Lanes))
			}
			for t := int(cp.TokenIndex); t < s.endTok; t++ {
				out[t] = dec.DecodeSymbol(cdf)
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < k; w++ {
		<-done
	}
}
