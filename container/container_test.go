package container

import "testing"

func TestHeaderMarshalRoundTrip(t *testing.T) {
	h := NewHeader()
	h.Width = 640
	h.Height = 480
	h.BitDepth = 8
	h.NumChannels = 3
	h.Colorspace = ColorspaceYCoCgR
	h.Lossless = true
	h.Quality = 100

	buf := h.Marshal()
	if len(buf) != HeaderSize {
		t.Fatalf("marshaled header is %d bytes, want %d", len(buf), HeaderSize)
	}

	got, err := UnmarshalHeader(buf)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestUnmarshalHeaderBadMagic(t *testing.T) {
	h := NewHeader()
	h.Width, h.Height, h.NumChannels = 1, 1, 1
	buf := h.Marshal()
	buf[0] = 'X'
	if _, err := UnmarshalHeader(buf); err != ErrBadMagic {
		t.Fatalf("got %v, want ErrBadMagic", err)
	}
}

func TestUnmarshalHeaderTruncated(t *testing.T) {
	if _, err := UnmarshalHeader(make([]byte, 10)); err != ErrTruncatedHeader {
		t.Fatalf("got %v, want ErrTruncatedHeader", err)
	}
}

func TestUnmarshalHeaderZeroDimension(t *testing.T) {
	h := NewHeader()
	h.NumChannels = 1
	buf := h.Marshal()
	if _, err := UnmarshalHeader(buf); err == nil {
		t.Fatalf("expected error for zero width/height")
	}
}

func TestChunkDirectoryRoundTrip(t *testing.T) {
	var d ChunkDirectory
	d.Add(ChunkQMAT, 48, 386)
	d.Add("TIL0", 434, 1000)
	d.Add("TIL1", 1434, 500)

	buf := d.Marshal()
	got, err := UnmarshalChunkDirectory(buf)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(got.Entries))
	}
	e, ok := got.Find("TIL1")
	if !ok || e.Offset != 1434 || e.Size != 500 {
		t.Fatalf("TIL1 entry wrong: %+v ok=%v", e, ok)
	}
}

func TestChunkDirectoryTruncated(t *testing.T) {
	var d ChunkDirectory
	d.Add(ChunkQMAT, 48, 386)
	buf := d.Marshal()
	if _, err := UnmarshalChunkDirectory(buf[:10]); err == nil {
		t.Fatalf("expected truncation error")
	}
}

func TestQMATRoundTripGrayscale(t *testing.T) {
	var q QMATChunk
	q.Quality = 80
	q.NumTables = 1
	for i := range q.QuantY {
		q.QuantY[i] = uint16(i + 1)
	}
	buf := q.Marshal()
	if len(buf) != 2+128 {
		t.Fatalf("got %d bytes, want %d", len(buf), 2+128)
	}
	got, err := UnmarshalQMATChunk(buf)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != q {
		t.Fatalf("round trip mismatch")
	}
}

func TestQMATRoundTripColor(t *testing.T) {
	var q QMATChunk
	q.Quality = 50
	q.NumTables = 3
	for i := range q.QuantY {
		q.QuantY[i] = uint16(i)
		q.QuantCb[i] = uint16(i * 2)
		q.QuantCr[i] = uint16(i * 3)
	}
	buf := q.Marshal()
	if len(buf) != 2+128*3 {
		t.Fatalf("got %d bytes, want %d", len(buf), 2+128*3)
	}
	got, err := UnmarshalQMATChunk(buf)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != q {
		t.Fatalf("round trip mismatch")
	}
}

func TestQMATTruncated(t *testing.T) {
	var q QMATChunk
	q.Quality, q.NumTables = 50, 3
	buf := q.Marshal()
	if _, err := UnmarshalQMATChunk(buf[:100]); err == nil {
		t.Fatalf("expected truncation error")
	}
}

func TestFileMarshalRoundTripLossless(t *testing.T) {
	h := NewHeader()
	h.Width, h.Height = 64, 64
	h.BitDepth, h.NumChannels = 8, 3
	h.Colorspace = ColorspaceYCoCgR
	h.Lossless = true

	f := File{
		Header: h,
		Tiles:  [][]byte{[]byte("y-plane-tile-data"), []byte("co-plane"), []byte("cg-plane-tile")},
	}
	buf := f.Marshal()

	got, err := Unmarshal(buf)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Header != h {
		t.Fatalf("header mismatch: got %+v", got.Header)
	}
	if len(got.Tiles) != 3 {
		t.Fatalf("got %d tiles, want 3", len(got.Tiles))
	}
	for i, want := range f.Tiles {
		if string(got.Tiles[i]) != string(want) {
			t.Fatalf("tile %d mismatch: got %q, want %q", i, got.Tiles[i], want)
		}
	}
}

func TestFileMarshalRoundTripLossyWithQMAT(t *testing.T) {
	h := NewHeader()
	h.Width, h.Height = 32, 32
	h.BitDepth, h.NumChannels = 8, 1
	h.Quality = 75

	var q QMATChunk
	q.Quality, q.NumTables = 75, 1
	qmatBuf := q.Marshal()

	f := File{Header: h, QMAT: qmatBuf, Tiles: [][]byte{[]byte("gray-tile")}}
	buf := f.Marshal()

	got, err := Unmarshal(buf)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(got.QMAT) != string(qmatBuf) {
		t.Fatalf("QMAT mismatch")
	}
	if len(got.Tiles) != 1 || string(got.Tiles[0]) != "gray-tile" {
		t.Fatalf("tile mismatch: %+v", got.Tiles)
	}
}

func TestFileUnmarshalMissingQMAT(t *testing.T) {
	h := NewHeader()
	h.Width, h.Height, h.NumChannels, h.BitDepth = 8, 8, 1, 8
	f := File{Header: h, Tiles: [][]byte{[]byte("x")}}
	buf := f.Marshal()

	if _, err := Unmarshal(buf); errorsIsUnknownChunk(err) == false {
		t.Fatalf("expected missing-QMAT error, got %v", err)
	}
}

func errorsIsUnknownChunk(err error) bool {
	for err != nil {
		if err == ErrUnknownChunk {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func TestFileUnmarshalTruncatedChunk(t *testing.T) {
	h := NewHeader()
	h.Width, h.Height, h.NumChannels, h.BitDepth = 8, 8, 1, 8
	h.Lossless = true
	f := File{Header: h, Tiles: [][]byte{[]byte("tiledata")}}
	buf := f.Marshal()
	if _, err := Unmarshal(buf[:len(buf)-4]); err == nil {
		t.Fatalf("expected truncated chunk error")
	}
}
