package protocol

// maxBuffered bounds how much unsynced input the scanner keeps.
const maxBuffered = 4 * FrameSize

// Scanner splits a serial byte stream into candidate frames by syncing on
// the two-byte magic. It does not validate checksums.
type Scanner struct {
	buf []byte
}

// Feed appends raw bytes read from the port.
func (s *Scanner) Feed(p []byte) {
	s.buf = append(s.buf, p...)
	if over := len(s.buf) - maxBuffered; over > 0 {
		s.buf = append(s.buf[:0], s.buf[over:]...)
	}
}

// Next returns the next complete candidate frame, dropping any bytes that
// precede a magic prefix. It returns false until 36 bytes from a sync
// point are buffered.
func (s *Scanner) Next() ([]byte, bool) {
	for i := 0; i+1 < len(s.buf); i++ {
		if s.buf[i] != magic0 || s.buf[i+1] != magic1 {
			continue
		}
		s.buf = s.buf[i:]
		if len(s.buf) < FrameSize {
			return nil, false
		}
		frame := make([]byte, FrameSize)
		copy(frame, s.buf[:FrameSize])
		s.buf = s.buf[FrameSize:]
		return frame, true
	}
	// keep a trailing magic0 that may pair with the next read
	if n := len(s.buf); n > 0 && s.buf[n-1] == magic0 {
		s.buf = s.buf[n-1:]
	} else {
		s.buf = s.buf[:0]
	}
	return nil, false
}

// Reset drops any buffered input.
func (s *Scanner) Reset() { s.buf = s.buf[:0] }
