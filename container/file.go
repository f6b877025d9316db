package container

import (
	"github.com/pkg/errors"
)

// File is a fully assembled .hkn container: header plus the raw chunk
// payloads addressed by the directory. Plane order is Y/Co/Cg in
// lossless mode, Y/Cb/Cr in lossy mode (spec §1); QMAT is present only
// for the lossy peripheral pipeline.
type File struct {
	Header Header
	QMAT   []byte // nil when Header.Lossless
	Tiles  [][]byte
}

// ErrInvalidFile indicates a structurally valid header but a missing
// required chunk (QMAT for lossy, TIL0, or TIL1/TIL2 for color).
var ErrInvalidFile = errors.New("container: invalid file (missing required chunk)")

// ErrTruncatedChunk indicates a directory entry's offset+size exceeds
// the file length.
var ErrTruncatedChunk = errors.New("container: truncated chunk")

// ErrUnknownChunk indicates a required chunk type was not found in
// the directory.
var ErrUnknownChunk = errors.New("container: unknown/missing chunk")

func tileChunkName(i int) string {
	return ChunkTile[:3] + string(rune('0'+i))
}

// Marshal lays out header, directory, and payloads in file order:
// header(48) ‖ directory ‖ QMAT ‖ TIL0 [‖ TIL1 ‖ TIL2]. Offsets are
// computed after every payload's size is known, then the directory is
// written once with final offsets (spec §4.1: "rewrite directory once").
func (f File) Marshal() []byte {
	var dir ChunkDirectory

	type chunk struct {
		name string
		data []byte
	}
	var chunks []chunk
	if f.QMAT != nil {
		chunks = append(chunks, chunk{ChunkQMAT, f.QMAT})
	}
	for i, t := range f.Tiles {
		chunks = append(chunks, chunk{tileChunkName(i), t})
	}

	// Placeholder entries to learn the directory's own serialized
	// size before computing real payload offsets.
	for _, c := range chunks {
		dir.Add(c.name, 0, uint64(len(c.data)))
	}

	offset := uint64(HeaderSize + dir.SerializedSize())
	for i, c := range chunks {
		dir.Entries[i].Offset = offset
		offset += uint64(len(c.data))
	}

	out := make([]byte, offset)
	copy(out[0:HeaderSize], f.Header.Marshal())
	copy(out[HeaderSize:], dir.Marshal())
	for i, c := range chunks {
		copy(out[dir.Entries[i].Offset:], c.data)
	}
	return out
}

// Unmarshal decodes a File from a full .hkn byte buffer, validating
// the header and checking every directory entry's offset+size against
// the buffer length before slicing it out.
func Unmarshal(buf []byte) (File, error) {
	var f File

	h, err := UnmarshalHeader(buf)
	if err != nil {
		return f, err
	}
	f.Header = h

	if len(buf) < HeaderSize {
		return f, ErrTruncatedChunk
	}
	dir, err := UnmarshalChunkDirectory(buf[HeaderSize:])
	if err != nil {
		return f, err
	}

	slice := func(e ChunkEntry) ([]byte, error) {
		end := e.Offset + e.Size
		if end < e.Offset || end > uint64(len(buf)) {
			return nil, errors.Wrapf(ErrTruncatedChunk, "chunk %q at %d+%d exceeds file length %d", e.TypeString(), e.Offset, e.Size, len(buf))
		}
		return buf[e.Offset:end], nil
	}

	if !h.Lossless {
		e, ok := dir.Find(ChunkQMAT)
		if !ok {
			return f, errors.Wrap(ErrUnknownChunk, "QMAT")
		}
		data, err := slice(e)
		if err != nil {
			return f, err
		}
		f.QMAT = data
	}

	requiredTiles := 1
	if h.NumChannels >= 3 {
		requiredTiles = 3
	}
	f.Tiles = make([][]byte, 0, requiredTiles)
	for i := 0; i < requiredTiles; i++ {
		e, ok := dir.Find(tileChunkName(i))
		if !ok {
			return f, errors.Wrapf(ErrUnknownChunk, tileChunkName(i))
		}
		data, err := slice(e)
		if err != nil {
			return f, err
		}
		f.Tiles = append(f.Tiles, data)
	}

	return f, nil
}
