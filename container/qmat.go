package container

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// QMATChunk carries the quantization tables the lossy peripheral
// pipeline used, in zigzag order. NumTables is 1 for grayscale or 3
// for a YCbCr/YCoCg-R plane set.
type QMATChunk struct {
	Quality   uint8
	QuantY    [64]uint16
	QuantCb   [64]uint16
	QuantCr   [64]uint16
	NumTables uint8
}

// ErrTruncatedQMAT indicates buf is too short for the declared table
// count.
var ErrTruncatedQMAT = errors.New("container: truncated QMAT chunk")

// Marshal serializes the chunk: a 2-byte header (quality, num_tables)
// followed by 128 bytes per table (64 little-endian uint16 entries).
func (q QMATChunk) Marshal() []byte {
	size := 2 + 128
	if q.NumTables == 3 {
		size += 256
	}
	buf := make([]byte, size)
	buf[0] = q.Quality
	buf[1] = q.NumTables
	putTable(buf[2:130], q.QuantY)
	if q.NumTables == 3 {
		putTable(buf[130:258], q.QuantCb)
		putTable(buf[258:386], q.QuantCr)
	}
	return buf
}

// UnmarshalQMATChunk decodes a QMATChunk from buf.
func UnmarshalQMATChunk(buf []byte) (QMATChunk, error) {
	var q QMATChunk
	if len(buf) < 2 {
		return q, errors.Wrap(ErrTruncatedQMAT, "missing header")
	}
	q.Quality = buf[0]
	q.NumTables = buf[1]

	expected := 2 + 128*int(q.NumTables)
	if len(buf) < expected {
		return q, errors.Wrapf(ErrTruncatedQMAT, "need %d bytes, have %d", expected, len(buf))
	}
	q.QuantY = getTable(buf[2:130])
	if q.NumTables == 3 {
		q.QuantCb = getTable(buf[130:258])
		q.QuantCr = getTable(buf[258:386])
	}
	return q, nil
}

func putTable(buf []byte, table [64]uint16) {
	for i, v := range table {
		binary.LittleEndian.PutUint16(buf[i*2:i*2+2], v)
	}
}

func getTable(buf []byte) (table [64]uint16) {
	for i := range table {
		table[i] = binary.LittleEndian.Uint16(buf[i*2 : i*2+2])
	}
	return
}
