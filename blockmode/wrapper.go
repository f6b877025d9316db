// Package blockmode implements the 8x8 block-mode competition used by
// the legacy tile route: per-block classification among copy, palette,
// tile4 (4x4 quadrant match) and a DCT-residual fallback, plus the
// shared sub-stream wrapper format each candidate stream is framed with.
package blockmode

import (
	"encoding/binary"

	"github.com/hakorune/hakonyans/bytestream"
	"github.com/hakorune/hakonyans/tilelz"
)

// Wrapper mode selectors, shared by every sub-stream in this package.
const (
	WrapModeRaw = iota
	WrapModeRANS
	WrapModeLZ
)

// wrap frames raw against its smallest coded form as
// [magic][mode][raw_count u32][payload]. The header is always present,
// even for mode=WrapModeRaw: a bare, header-less raw payload would be
// indistinguishable from a wrapped frame whenever its first byte
// happens to equal magic, so every frame this package produces is
// self-describing.
func wrap(magic byte, raw []byte) []byte {
	if len(raw) == 0 {
		return nil
	}
	best := raw
	bestMode := byte(WrapModeRaw)

	if rans := bytestream.EncodeByteStream(raw); len(rans) < len(best) {
		best = rans
		bestMode = WrapModeRANS
	}
	if lz := tilelz.Compress(raw, tilelz.DefaultOptions()); len(lz) > 0 {
		if len(lz) < len(best) {
			best = lz
			bestMode = WrapModeLZ
		}
	}

	out := make([]byte, 6+len(best))
	out[0] = magic
	out[1] = bestMode
	binary.LittleEndian.PutUint32(out[2:], uint32(len(raw)))
	copy(out[6:], best)
	return out
}

// unwrap reverses wrap. rawCount is the expected decoded length, used
// only as a fallback when frame is malformed (too short to carry a
// header). Every well-formed frame carries its own raw_count.
func unwrap(magic byte, frame []byte, rawCount int) []byte {
	if len(frame) == 0 {
		return nil
	}
	if len(frame) < 6 || frame[0] != magic {
		return padBytes(frame, rawCount)
	}
	mode := frame[1]
	raw := binary.LittleEndian.Uint32(frame[2:])
	payload := frame[6:]

	switch mode {
	case WrapModeRANS:
		return padBytes(bytestream.DecodeByteStream(payload), int(raw))
	case WrapModeLZ:
		return tilelz.Decompress(payload, int(raw))
	default:
		return padBytes(payload, int(raw))
	}
}

func padBytes(b []byte, n int) []byte {
	if len(b) >= n {
		return b[:n]
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}
