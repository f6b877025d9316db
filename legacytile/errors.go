package legacytile

import "errors"

// errShortTile indicates the 32-byte header declares sub-stream sizes
// that exceed the remaining buffer.
var errShortTile = errors.New("legacytile: truncated tile payload")
