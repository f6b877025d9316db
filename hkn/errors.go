package hkn

import "errors"

// ErrInvalidImage indicates the caller's pixel buffer doesn't match
// its declared width/height (spec §7: encoders don't fail on
// reasonable input, but a mismatched buffer length isn't reasonable
// input — it's a caller bug, not an image to reject gracefully).
var ErrInvalidImage = errors.New("hkn: pixel buffer does not match width*height*3")

// ErrNotLossless indicates DecodeLossless was handed a file whose
// header flags describe the lossy peripheral pipeline instead.
var ErrNotLossless = errors.New("hkn: file is not a lossless container")
