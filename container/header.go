// Package container implements the .hkn file format: a fixed 48-byte
// header, a chunk directory, and the chunk payloads (QMAT, per-plane
// tile streams) addressed through it.
package container

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// HeaderSize is the fixed, padded size of the file header in bytes.
const HeaderSize = 48

// Magic is the four leading bytes of every .hkn file: 'H','K','N',0x00.
var Magic = [4]byte{'H', 'K', 'N', 0x00}

// Version is the only wire version this package reads or writes.
const Version uint16 = 0x0002

// Flag bits for Header.Flags.
const (
	FlagLossless uint16 = 1 << 0
)

// Colorspace identifies the color transform applied before entropy
// coding.
type Colorspace uint8

const (
	ColorspaceYCbCr Colorspace = iota
	ColorspaceYCoCgR
	ColorspaceRGB
)

// Subsampling identifies the chroma subsampling ratio.
type Subsampling uint8

const (
	Subsampling444 Subsampling = iota
	Subsampling422
	Subsampling420
)

// PIndexDensity identifies how often parallel-decode checkpoints are
// emitted into the entropy stream.
type PIndexDensity uint8

const (
	PIndexNone PIndexDensity = iota
	PIndexEvery64KB
	PIndexEvery16KB
	PIndexEvery4KB
)

// Header is the 48-byte fixed file header.
type Header struct {
	Width           uint32
	Height          uint32
	BitDepth        uint8
	NumChannels     uint8
	Colorspace      Colorspace
	Subsampling     Subsampling
	TileCols        uint16
	TileRows        uint16
	BlockSize       uint8
	TransformType   uint8
	EntropyType     uint8
	InterleaveLanes uint8
	PIndexDensity   PIndexDensity
	Quality         uint8
	Lossless        bool
}

// ErrBadMagic indicates the buffer does not start with the .hkn magic.
var ErrBadMagic = errors.New("container: bad magic")

// ErrBadVersion indicates a header with an unsupported version field.
var ErrBadVersion = errors.New("container: unsupported version")

// ErrTruncatedHeader indicates fewer than HeaderSize bytes were given.
var ErrTruncatedHeader = errors.New("container: truncated header")

// ErrInvalidHeader indicates a structurally valid but semantically
// invalid header (zero dimensions, bad channel count, etc).
var ErrInvalidHeader = errors.New("container: invalid header")

// NewHeader returns a Header pre-filled with the format's fixed
// constants (block size 8, NyANS-P entropy, 8-lane interleave).
func NewHeader() Header {
	return Header{
		BlockSize:       8,
		EntropyType:     0,
		InterleaveLanes: 8,
	}
}

// PaddedWidth rounds Width up to the next multiple of 8.
func (h Header) PaddedWidth() uint32 {
	return (h.Width + 7) / 8 * 8
}

// PaddedHeight rounds Height up to the next multiple of 8.
func (h Header) PaddedHeight() uint32 {
	return (h.Height + 7) / 8 * 8
}

// Validate checks the invariants the reference header's is_valid()
// enforces: fixed block size and sane dimensions/channel count. Magic
// and version are checked separately at decode time, since those are
// caught before a Header value even exists.
func (h Header) Validate() error {
	if h.BlockSize != 8 {
		return errors.Wrap(ErrInvalidHeader, "block size must be 8")
	}
	if h.Width == 0 || h.Height == 0 {
		return errors.Wrap(ErrInvalidHeader, "zero dimension")
	}
	if h.NumChannels == 0 || h.NumChannels > 4 {
		return errors.Wrap(ErrInvalidHeader, "num_channels must be 1..4")
	}
	return nil
}

// Marshal encodes the header into a HeaderSize-byte little-endian
// buffer.
func (h Header) Marshal() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], Magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], Version)

	var flags uint16
	if h.Lossless {
		flags |= FlagLossless
	}
	binary.LittleEndian.PutUint16(buf[6:8], flags)

	binary.LittleEndian.PutUint32(buf[8:12], h.Width)
	binary.LittleEndian.PutUint32(buf[12:16], h.Height)
	buf[16] = h.BitDepth
	buf[17] = h.NumChannels
	buf[18] = byte(h.Colorspace)
	buf[19] = byte(h.Subsampling)
	binary.LittleEndian.PutUint16(buf[20:22], h.TileCols)
	binary.LittleEndian.PutUint16(buf[22:24], h.TileRows)
	buf[24] = h.BlockSize
	buf[25] = h.TransformType
	buf[26] = h.EntropyType
	buf[27] = h.InterleaveLanes
	buf[28] = byte(h.PIndexDensity)
	buf[29] = h.Quality
	// buf[30:32] padding, buf[32:48] reserved — left zero.
	return buf
}

// UnmarshalHeader decodes a Header from the leading HeaderSize bytes
// of buf.
func UnmarshalHeader(buf []byte) (Header, error) {
	var h Header
	if len(buf) < HeaderSize {
		return h, ErrTruncatedHeader
	}
	if [4]byte(buf[0:4]) != Magic {
		return h, ErrBadMagic
	}
	if binary.LittleEndian.Uint16(buf[4:6]) != Version {
		return h, ErrBadVersion
	}
	flags := binary.LittleEndian.Uint16(buf[6:8])
	h.Lossless = flags&FlagLossless != 0

	h.Width = binary.LittleEndian.Uint32(buf[8:12])
	h.Height = binary.LittleEndian.Uint32(buf[12:16])
	h.BitDepth = buf[16]
	h.NumChannels = buf[17]
	h.Colorspace = Colorspace(buf[18])
	h.Subsampling = Subsampling(buf[19])
	h.TileCols = binary.LittleEndian.Uint16(buf[20:22])
	h.TileRows = binary.LittleEndian.Uint16(buf[22:24])
	h.BlockSize = buf[24]
	h.TransformType = buf[25]
	h.EntropyType = buf[26]
	h.InterleaveLanes = buf[27]
	h.PIndexDensity = PIndexDensity(buf[28])
	h.Quality = buf[29]

	if err := h.Validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}
