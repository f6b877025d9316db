package rowfilter

import (
	"encoding/binary"

	"github.com/hakorune/hakonyans/bytestream"
	"github.com/hakorune/hakonyans/tilelz"
)

// WrapperMagicFilterIDs tags the row filter-id sub-stream.
const WrapperMagicFilterIDs = 0xAD

const (
	idsModeRaw = iota
	idsModeRANS
	idsModeLZ
)

// EncodeFilterIDs picks whichever of raw/rANS/TileLZ is smallest for the
// per-row filter-id byte array (a coded form must beat raw by more than
// its 6-byte header) and frames a rANS or TileLZ winner as
// [magic][mode][raw_count u32][payload]; a raw winner is returned as the
// id bytes themselves, without a header.
func EncodeFilterIDs(ids []byte) []byte {
	if len(ids) == 0 {
		return nil
	}
	best := ids
	bestMode := byte(idsModeRaw)

	if rans := bytestream.EncodeByteStream(ids); len(rans)+6 < len(best) {
		best, bestMode = rans, idsModeRANS
	}
	if lz := tilelz.Compress(ids, tilelz.DefaultOptions()); len(lz) > 0 && len(lz)+6 < len(best) {
		best, bestMode = lz, idsModeLZ
	}

	if bestMode == idsModeRaw {
		return ids
	}
	out := make([]byte, 6+len(best))
	out[0] = WrapperMagicFilterIDs
	out[1] = bestMode
	binary.LittleEndian.PutUint32(out[2:], uint32(len(ids)))
	copy(out[6:], best)
	return out
}

// DecodeFilterIDs reverses EncodeFilterIDs for a grid of rawCount rows.
func DecodeFilterIDs(frame []byte, rawCount int) []byte {
	if len(frame) == 0 {
		return make([]byte, rawCount)
	}
	if len(frame) < 6 || frame[0] != WrapperMagicFilterIDs {
		return padTo(frame, rawCount)
	}
	mode := frame[1]
	raw := binary.LittleEndian.Uint32(frame[2:])
	payload := frame[6:]

	switch mode {
	case idsModeRANS:
		return padTo(bytestream.DecodeByteStream(payload), int(raw))
	case idsModeLZ:
		return tilelz.Decompress(payload, int(raw))
	default:
		return padTo(payload, int(raw))
	}
}
