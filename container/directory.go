package container

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// chunkEntrySize is the serialized width of one ChunkEntry: a 4-byte
// type code plus two u64 fields.
const chunkEntrySize = 20

// Chunk type codes used by the .hkn format.
const (
	ChunkQMAT = "QMAT"
	ChunkTile = "TILE"
)

// ChunkEntry is one directory record: a 4-byte ASCII type code plus
// the byte offset and size of the chunk it addresses.
type ChunkEntry struct {
	Type   [4]byte
	Offset uint64
	Size   uint64
}

// TypeString returns the chunk type as a Go string, trimmed of
// trailing zero padding.
func (e ChunkEntry) TypeString() string {
	n := len(e.Type)
	for n > 0 && e.Type[n-1] == 0 {
		n--
	}
	return string(e.Type[:n])
}

// ChunkDirectory is an ordered list of chunk entries.
type ChunkDirectory struct {
	Entries []ChunkEntry
}

// Add appends a new entry for a chunk of the given type at the given
// offset/size. typ must be at most 4 bytes; shorter codes are
// zero-padded.
func (d *ChunkDirectory) Add(typ string, offset, size uint64) {
	var e ChunkEntry
	copy(e.Type[:], typ)
	e.Offset = offset
	e.Size = size
	d.Entries = append(d.Entries, e)
}

// Find returns the first entry matching typ, or false if none exists.
func (d *ChunkDirectory) Find(typ string) (ChunkEntry, bool) {
	for _, e := range d.Entries {
		if e.TypeString() == typ {
			return e, true
		}
	}
	return ChunkEntry{}, false
}

// SerializedSize returns the byte length Marshal will produce.
func (d *ChunkDirectory) SerializedSize() int {
	return 4 + len(d.Entries)*chunkEntrySize
}

// Marshal serializes the directory as a u32 entry count followed by
// chunkEntrySize-byte records.
func (d *ChunkDirectory) Marshal() []byte {
	buf := make([]byte, d.SerializedSize())
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(d.Entries)))
	for i, e := range d.Entries {
		off := 4 + i*chunkEntrySize
		copy(buf[off:off+4], e.Type[:])
		binary.LittleEndian.PutUint64(buf[off+4:off+12], e.Offset)
		binary.LittleEndian.PutUint64(buf[off+12:off+20], e.Size)
	}
	return buf
}

// ErrTruncatedDirectory indicates buf is too short to hold the entry
// count, or too short to hold the entries the count declares.
var ErrTruncatedDirectory = errors.New("container: truncated chunk directory")

// UnmarshalChunkDirectory decodes a ChunkDirectory from buf.
func UnmarshalChunkDirectory(buf []byte) (ChunkDirectory, error) {
	var d ChunkDirectory
	if len(buf) < 4 {
		return d, errors.Wrap(ErrTruncatedDirectory, "missing entry count")
	}
	count := binary.LittleEndian.Uint32(buf[0:4])
	need := 4 + int(count)*chunkEntrySize
	if len(buf) < need {
		return d, errors.Wrapf(ErrTruncatedDirectory, "need %d bytes for %d entries, have %d", need, count, len(buf))
	}
	d.Entries = make([]ChunkEntry, count)
	for i := range d.Entries {
		off := 4 + i*chunkEntrySize
		var e ChunkEntry
		copy(e.Type[:], buf[off:off+4])
		e.Offset = binary.LittleEndian.Uint64(buf[off+4 : off+12])
		e.Size = binary.LittleEndian.Uint64(buf[off+12 : off+20])
		d.Entries[i] = e
	}
	return d, nil
}
