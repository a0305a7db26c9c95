package h264

import (
	"bytes"
	"testing"
)

func buildStream(nals [][]byte, fourByteStart bool) []byte {
	var out []byte
	for _, n := range nals {
		if fourByteStart {
			out = append(out, 0, 0, 0, 1)
		} else {
			out = append(out, 0, 0, 1)
		}
		out = append(out, n...)
	}
	return out
}

// trailingSentinel appends one more start code after the real NALs so the
// splitter, which only emits a unit once it has seen the *next* start
// code, flushes the final real unit too.
func trailingSentinel(fourByteStart bool) []byte {
	if fourByteStart {
		return []byte{0, 0, 0, 1}
	}
	return []byte{0, 0, 1}
}

func TestSplitterWholeStream(t *testing.T) {
	nals := [][]byte{
		{0x67, 0x01, 0x02}, // SPS-ish (type 7)
		{0x68, 0x03},       // PPS-ish (type 8)
		{0x65, 0x04, 0x05}, // IDR-ish (type 5)
	}
	stream := append(buildStream(nals, true), trailingSentinel(true)...)

	s := NewSplitter()
	units := s.Feed(stream)

	if len(units) != len(nals) {
		t.Fatalf("got %d units, want %d", len(units), len(nals))
	}
	for i, u := range units {
		if !bytes.HasPrefix(u, startCode4) {
			t.Fatalf("unit %d missing normalized 4-byte start code: %x", i, u)
		}
		if !bytes.Equal(u[len(startCode4):], nals[i]) {
			t.Fatalf("unit %d payload = %x, want %x", i, u[len(startCode4):], nals[i])
		}
	}
}

// TestSplitterArbitraryChunking verifies the round-trip property: feeding
// the same bytes split into any set of chunk boundaries yields the same
// sequence of emitted units as feeding it all at once.
func TestSplitterArbitraryChunking(t *testing.T) {
	nals := [][]byte{
		{0x67, 0xAA, 0xBB, 0xCC},
		{0x68, 0xDD},
		{0x65, 0xEE, 0xFF, 0x11, 0x22},
		{0x61, 0x33},
	}
	stream := append(buildStream(nals, false), trailingSentinel(false)...)

	chunkSizes := []int{1, 2, 3, 5, 7, 11, len(stream)}
	for _, size := range chunkSizes {
		s := NewSplitter()
		var got [][]byte
		for i := 0; i < len(stream); i += size {
			end := i + size
			if end > len(stream) {
				end = len(stream)
			}
			got = append(got, s.Feed(stream[i:end])...)
		}

		if len(got) != len(nals) {
			t.Fatalf("chunk size %d: got %d units, want %d", size, len(got), len(nals))
		}
		for i, u := range got {
			if !bytes.Equal(u[len(startCode4):], nals[i]) {
				t.Fatalf("chunk size %d, unit %d payload = %x, want %x", size, i, u[len(startCode4):], nals[i])
			}
		}
	}
}

// A NAL unit's end can only be known once the start code of the *next*
// unit arrives, so the last unit in a stream stays buffered until
// something follows it.
func TestSplitterHoldsTrailingPartialUnit(t *testing.T) {
	s := NewSplitter()
	nals := [][]byte{{0x67, 0x01}, {0x65, 0x02}}
	stream := buildStream(nals, true)

	units := s.Feed(stream)
	if len(units) != 1 {
		t.Fatalf("got %d units with no trailing start code, want 1 (second NAL stays buffered)", len(units))
	}
	if !bytes.Equal(units[0][len(startCode4):], nals[0]) {
		t.Fatalf("unit payload = %x, want %x", units[0][len(startCode4):], nals[0])
	}

	// A third NAL's start code arriving later flushes the buffered second.
	units = s.Feed(buildStream([][]byte{{0x61, 0x09}}, true))
	if len(units) != 1 {
		t.Fatalf("got %d units after a following start code, want 1", len(units))
	}
	if !bytes.Equal(units[0][len(startCode4):], nals[1]) {
		t.Fatalf("flushed unit payload = %x, want %x", units[0][len(startCode4):], nals[1])
	}
}

func TestNaluTypeAndKeyframeBoundary(t *testing.T) {
	cases := []struct {
		first    byte
		wantType uint8
		wantKey  bool
	}{
		{0x65, 5, true},  // IDR slice
		{0x67, 7, true},  // SPS
		{0x68, 8, true},  // PPS
		{0x61, 1, false}, // non-IDR slice
	}
	for _, c := range cases {
		got := naluType([]byte{c.first, 0, 0})
		if got != c.wantType {
			t.Errorf("naluType(%#x) = %d, want %d", c.first, got, c.wantType)
		}
		if IsKeyframeBoundary(got) != c.wantKey {
			t.Errorf("IsKeyframeBoundary(%d) = %v, want %v", got, IsKeyframeBoundary(got), c.wantKey)
		}
	}
}

func TestResetClearsBufferedBytes(t *testing.T) {
	s := NewSplitter()
	s.Feed([]byte{0, 0, 0, 1, 0x67, 0xAA}) // a start code plus a dangling partial NAL
	s.Reset()
	if len(s.buf) != 0 {
		t.Fatalf("buf after Reset has %d bytes, want 0", len(s.buf))
	}
}
