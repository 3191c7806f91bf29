package protocol

import (
	"bytes"
	"testing"
)

func TestScanner_SyncsPastGarbageAndSplitsFrames(t *testing.T) {
	f1 := telemetryFrame(t, 210, 150)
	f2 := telemetryFrame(t, 220, 160)

	var s Scanner
	s.Feed([]byte{0x00, 0x13, 0xA5}) // garbage, then a lone first magic byte
	if _, ok := s.Next(); ok {
		t.Fatalf("no frame expected yet")
	}
	s.Feed(f1[1:])
	s.Feed(f2[:10])

	got, ok := s.Next()
	if !ok || !bytes.Equal(got, f1) {
		t.Fatalf("first frame not recovered: ok=%v % X", ok, got)
	}
	if _, ok := s.Next(); ok {
		t.Fatalf("second frame is incomplete")
	}

	s.Feed(f2[10:])
	got, ok = s.Next()
	if !ok || !bytes.Equal(got, f2) {
		t.Fatalf("second frame not recovered: ok=%v", ok)
	}
}

func TestScanner_BoundsBuffer(t *testing.T) {
	var s Scanner
	s.Feed(make([]byte, 10*FrameSize))
	if len(s.buf) > maxBuffered {
		t.Fatalf("buffer grew to %d", len(s.buf))
	}
	if _, ok := s.Next(); ok {
		t.Fatalf("zeros must not yield a frame")
	}
	s.Reset()
	if len(s.buf) != 0 {
		t.Fatalf("reset left %d bytes", len(s.buf))
	}
}
