package h264

var startCode4 = []byte{0, 0, 0, 1}

// findStartCode scans b starting at from for either a 3-byte (00 00 01) or
// 4-byte (00 00 00 01) Annex-B start code. It returns the index the code
// begins at and the index immediately after it, or (-1, -1) if none is
// found.
func findStartCode(b []byte, from int) (start, end int) {
	for i := from; i+3 <= len(b); i++ {
		if b[i] == 0 && b[i+1] == 0 && b[i+2] == 1 {
			return i, i + 3
		}
		if i+4 <= len(b) && b[i] == 0 && b[i+1] == 0 && b[i+2] == 0 && b[i+3] == 1 {
			return i, i + 4
		}
	}
	return -1, -1
}

// naluType returns the low 5 bits of the first byte following the start
// code: 5=IDR slice, 7=SPS, 8=PPS.
func naluType(payload []byte) uint8 {
	if len(payload) == 0 {
		return 0
	}
	return payload[0] & 0x1f
}

// IsKeyframeBoundary reports whether a NAL unit's type qualifies it to end
// a keyframe-wait (IDR slice, SPS, or PPS).
func IsKeyframeBoundary(t uint8) bool {
	return t == 5 || t == 7 || t == 8
}

// Splitter incrementally turns an Annex-B byte stream into NAL units. It
// tolerates arbitrary chunking: feeding the same bytes split into any set
// of chunks yields the same sequence of emitted units as feeding them all
// at once (mod units still buffered as a trailing partial NAL).
type Splitter struct {
	buf []byte
}

// NewSplitter returns an empty incremental splitter.
func NewSplitter() *Splitter { return &Splitter{} }

// Feed appends chunk to the internal buffer and drains every complete NAL
// unit it can find. Each returned unit is a freshly allocated byte slice
// beginning with a normalized 4-byte start code (00 00 00 01) followed by
// the NAL payload, regardless of whether the source used a 3- or 4-byte
// code — this keeps the byte[4]&0x1f classification rule uniform.
func (s *Splitter) Feed(chunk []byte) [][]byte {
	s.buf = append(s.buf, chunk...)

	var units [][]byte
	for {
		scStart, scEnd := findStartCode(s.buf, 0)
		if scStart < 0 {
			// No start code at all yet. Keep the last 3 bytes in case
			// they are the first bytes of a split start code.
			if len(s.buf) > 3 {
				s.buf = append([]byte(nil), s.buf[len(s.buf)-3:]...)
			}
			return units
		}

		// Discard any garbage preceding the start code.
		if scStart > 0 {
			s.buf = s.buf[scStart:]
			scEnd -= scStart
			scStart = 0
		}

		nextStart, _ := findStartCode(s.buf, scEnd)
		if nextStart < 0 {
			// Partial NAL: keep everything from the current start code
			// onward and wait for more data.
			return units
		}

		payload := s.buf[scEnd:nextStart]
		unit := make([]byte, 0, len(startCode4)+len(payload))
		unit = append(unit, startCode4...)
		unit = append(unit, payload...)
		units = append(units, unit)

		s.buf = s.buf[nextStart:]
	}
}

// Reset clears any buffered partial data, used when resynchronizing after
// a decoder reset so stale bytes don't bleed into the next keyframe wait.
func (s *Splitter) Reset() { s.buf = s.buf[:0] }
