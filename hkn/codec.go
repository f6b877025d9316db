package hkn

import (
	"fmt"

	"github.com/hakorune/hakonyans/codec"
)

// UID is the identifier HKN registers itself under in the codec
// registry (package codec's Name/UID lookup table).
const UID = "HKN-LOSSLESS-1"

// losslessCodec adapts EncodeLossless/DecodeLossless to codec.Codec so
// callers that discover codecs through the registry (codec.Get, …)
// can reach HKN the same way they'd reach any other registered codec.
type losslessCodec struct{}

func init() {
	codec.Register(losslessCodec{})
}

// Encode implements codec.Codec. params.PixelData must be interleaved
// 8-bit RGB (Components == 3, BitDepth == 8); HKN's lossy peripheral
// pipeline (spec.md §1) isn't wired to this interface.
func (losslessCodec) Encode(params codec.EncodeParams) ([]byte, error) {
	if params.Components != 3 || params.BitDepth != 8 {
		return nil, fmt.Errorf("hkn: codec.Encode only supports 3-component 8-bit RGB, got %d components at %d bits", params.Components, params.BitDepth)
	}
	return EncodeLossless(params.PixelData, params.Width, params.Height)
}

// Decode implements codec.Codec.
func (losslessCodec) Decode(data []byte) (*codec.DecodeResult, error) {
	rgb, width, height, err := DecodeLossless(data)
	if err != nil {
		return nil, err
	}
	return &codec.DecodeResult{
		PixelData:  rgb,
		Width:      width,
		Height:     height,
		Components: 3,
		BitDepth:   8,
	}, nil
}

// UID implements codec.Codec.
func (losslessCodec) UID() string { return UID }

// Name implements codec.Codec.
func (losslessCodec) Name() string { return "hkn" }
