package hardware

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"controlling_roaster/internal/clock"
	"controlling_roaster/internal/protocol"
	"controlling_roaster/internal/roasterr"
)

// fakePort is an in-memory Port; reads are served chunk by chunk.
type fakePort struct {
	reads    [][]byte
	readErr  error
	writes   [][]byte
	writeErr error
	flushErr error
	closed   bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.readErr != nil {
		return 0, p.readErr
	}
	if len(p.reads) == 0 {
		return 0, io.EOF
	}
	n := copy(b, p.reads[0])
	p.reads = p.reads[1:]
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	p.writes = append(p.writes, append([]byte(nil), b...))
	return len(b), nil
}

func (p *fakePort) Close() error { p.closed = true; return nil }
func (p *fakePort) Flush() error { return p.flushErr }

func (p *fakePort) lastFrame(t *testing.T) protocol.Frame {
	t.Helper()
	if len(p.writes) == 0 {
		t.Fatalf("nothing written")
	}
	f, err := protocol.DecodeFrame(p.writes[len(p.writes)-1])
	if err != nil {
		t.Fatalf("written frame invalid: %v", err)
	}
	return f
}

func telemetry(t *testing.T, heater, fan int, chamberRaw, beanRaw uint16) []byte {
	t.Helper()
	f, err := protocol.EncodeCommand(protocol.Command{Heater: heater, Fan: fan})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	binary.BigEndian.PutUint16(f[23:], chamberRaw)
	binary.BigEndian.PutUint16(f[25:], beanRaw)
	f[35] = protocol.Checksum(f)
	return f
}

func newTestSerial(t *testing.T, port *fakePort, enc protocol.TempEncoding) *SerialRoaster {
	t.Helper()
	opener := func(name string, baud int, timeout time.Duration) (Port, error) { return port, nil }
	return NewSerialRoaster(SerialConfig{Port: "/dev/ttyUSB0", BaudRate: 115200, Timeout: time.Second, Encoding: enc},
		clock.NewFake(simStart), WithPortOpener(opener))
}

func TestSerial_ConnectFailures(t *testing.T) {
	t.Run("open error", func(t *testing.T) {
		s := NewSerialRoaster(SerialConfig{Port: "/dev/missing", BaudRate: 115200, Encoding: protocol.EncodingCelsius},
			clock.Real(), WithPortOpener(func(string, int, time.Duration) (Port, error) {
				return nil, errors.New("no such file")
			}))
		err := s.Connect()
		if !errors.Is(err, roasterr.ErrConnectionFailed) {
			t.Fatalf("got %v, want ConnectionFailed", err)
		}
		if s.IsConnected() {
			t.Fatalf("must stay disconnected")
		}
	})

	t.Run("encoding not configured", func(t *testing.T) {
		s := newTestSerial(t, &fakePort{}, "")
		if err := s.Connect(); roasterr.CodeOf(err) != roasterr.CodeConnectionFailed {
			t.Fatalf("got %v, want ConnectionFailed", err)
		}
	})

	t.Run("flush error closes port", func(t *testing.T) {
		p := &fakePort{flushErr: errors.New("io")}
		s := newTestSerial(t, p, protocol.EncodingCelsius)
		if err := s.Connect(); !errors.Is(err, roasterr.ErrConnectionFailed) {
			t.Fatalf("got %v", err)
		}
		if !p.closed {
			t.Fatalf("port left open")
		}
	})
}

func TestSerial_CommandsWriteFrames(t *testing.T) {
	p := &fakePort{}
	s := newTestSerial(t, p, protocol.EncodingCelsius)

	if err := s.SetHeat(50); !errors.Is(err, roasterr.ErrNotConnected) {
		t.Fatalf("SetHeat before connect: %v", err)
	}
	if err := s.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if got := p.lastFrame(t).Command(); got != (protocol.Command{}) {
		t.Fatalf("connect should send all-off, got %+v", got)
	}

	if err := s.SetHeat(55); !errors.Is(err, roasterr.ErrInvalidCommand) {
		t.Fatalf("SetHeat(55): %v", err)
	}
	writes := len(p.writes)
	if err := s.SetFan(130); !errors.Is(err, roasterr.ErrInvalidCommand) {
		t.Fatalf("SetFan(130): %v", err)
	}
	if len(p.writes) != writes {
		t.Fatalf("invalid command must not reach the port")
	}

	if err := s.SetHeat(80); err != nil {
		t.Fatalf("SetHeat: %v", err)
	}
	if err := s.SetFan(30); err != nil {
		t.Fatalf("SetFan: %v", err)
	}
	f := p.lastFrame(t)
	if f.Heater != 80 || f.Fan != 30 || !f.DrumMotor {
		t.Fatalf("unexpected frame %+v", f)
	}

	if err := s.StopDrum(); !errors.Is(err, roasterr.ErrInvalidCommand) {
		t.Fatalf("StopDrum with heater on: %v", err)
	}

	if err := s.DropBeans(); err != nil {
		t.Fatalf("DropBeans: %v", err)
	}
	f = p.lastFrame(t)
	if f.Heater != 0 || f.DrumMotor || !f.Solenoid || !f.CoolingMotor || f.MainFan != 100 {
		t.Fatalf("drop frame %+v", f)
	}

	if err := s.StopCooling(); err != nil {
		t.Fatalf("StopCooling: %v", err)
	}
	f = p.lastFrame(t)
	if f.CoolingMotor || f.Solenoid || f.MainFan != 0 {
		t.Fatalf("stop cooling frame %+v", f)
	}
}

func TestSerial_WriteFailureKeepsPreviousState(t *testing.T) {
	p := &fakePort{}
	s := newTestSerial(t, p, protocol.EncodingCelsius)
	_ = s.Connect()
	_ = s.SetHeat(40)

	p.writeErr = errors.New("cable unplugged")
	if err := s.SetHeat(90); err == nil {
		t.Fatalf("expected write error")
	}
	if s.cmd.Heater != 40 {
		t.Fatalf("state advanced despite failed write: heater=%d", s.cmd.Heater)
	}
}

func TestSerial_ReadSensors(t *testing.T) {
	t.Run("celsius frame after garbage", func(t *testing.T) {
		p := &fakePort{}
		s := newTestSerial(t, p, protocol.EncodingCelsius)
		_ = s.Connect()
		frame := telemetry(t, 70, 40, 231, 187)
		p.reads = [][]byte{append([]byte{0x01, 0x02}, frame[:20]...), frame[20:]}

		r, err := s.ReadSensors()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if r.BeanTempC != 187 || r.ChamberTempC != 231 || r.HeatLevel != 70 || r.FanSpeed != 40 {
			t.Fatalf("unexpected reading %+v", r)
		}
		if !r.Timestamp.Equal(simStart) {
			t.Fatalf("timestamp %v", r.Timestamp)
		}
	})

	t.Run("fahrenheit tenths", func(t *testing.T) {
		p := &fakePort{}
		s := newTestSerial(t, p, protocol.EncodingFahrenheitTenths)
		_ = s.Connect()
		p.reads = [][]byte{telemetry(t, 0, 0, 2120, 3920)} // 212.0 °F, 392.0 °F
		r, err := s.ReadSensors()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if r.ChamberTempC != 100 || r.BeanTempC != 200 {
			t.Fatalf("conversion wrong: %+v", r)
		}
	})

	t.Run("corrupt frame is no reading", func(t *testing.T) {
		p := &fakePort{}
		s := newTestSerial(t, p, protocol.EncodingCelsius)
		_ = s.Connect()
		bad := telemetry(t, 0, 0, 200, 180)
		bad[25]++
		p.reads = [][]byte{bad}
		if _, err := s.ReadSensors(); !errors.Is(err, ErrNoReading) {
			t.Fatalf("got %v, want ErrNoReading", err)
		}
	})

	t.Run("newest valid frame wins", func(t *testing.T) {
		p := &fakePort{}
		s := newTestSerial(t, p, protocol.EncodingCelsius)
		_ = s.Connect()
		chunk := append(telemetry(t, 0, 0, 200, 150), telemetry(t, 0, 0, 201, 151)...)
		p.reads = [][]byte{chunk}
		r, err := s.ReadSensors()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if r.BeanTempC != 151 {
			t.Fatalf("bean %.0f, want newest 151", r.BeanTempC)
		}
	})

	t.Run("silent device is an error", func(t *testing.T) {
		p := &fakePort{}
		s := newTestSerial(t, p, protocol.EncodingCelsius)
		_ = s.Connect()
		_, err := s.ReadSensors()
		if err == nil || errors.Is(err, ErrNoReading) {
			t.Fatalf("got %v, want a transport error", err)
		}
	})

	t.Run("keepalive written before read", func(t *testing.T) {
		p := &fakePort{}
		s := newTestSerial(t, p, protocol.EncodingCelsius)
		_ = s.Connect()
		_ = s.SetHeat(60)
		before := len(p.writes)
		p.reads = [][]byte{telemetry(t, 60, 0, 200, 180)}
		_, _ = s.ReadSensors()
		if len(p.writes) != before+1 || p.lastFrame(t).Heater != 60 {
			t.Fatalf("expected keepalive with current state")
		}
	})
}

func TestSerial_DisconnectSendsAllOff(t *testing.T) {
	p := &fakePort{}
	s := newTestSerial(t, p, protocol.EncodingCelsius)
	_ = s.Connect()
	_ = s.SetHeat(100)
	if err := s.Disconnect(); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if got := p.lastFrame(t).Command(); got != (protocol.Command{}) {
		t.Fatalf("disconnect frame %+v", got)
	}
	if !p.closed || s.IsConnected() {
		t.Fatalf("port not closed")
	}
	if _, err := s.ReadSensors(); !errors.Is(err, roasterr.ErrNotConnected) {
		t.Fatalf("read after disconnect: %v", err)
	}
	if err := s.Disconnect(); err != nil {
		t.Fatalf("second disconnect: %v", err)
	}
}

// slowPort blocks on every read like a port waiting out its timeout.
// With trickle set it hands back one byte of line noise per read.
type slowPort struct {
	*fakePort
	delay   time.Duration
	trickle bool
	calls   int
}

func (p *slowPort) Read(b []byte) (int, error) {
	p.calls++
	time.Sleep(p.delay)
	if p.trickle {
		b[0] = 0x00
		return 1, nil
	}
	return 0, io.EOF
}

func TestSerial_ReadSensorsBoundedByTimeout(t *testing.T) {
	const timeout = 50 * time.Millisecond
	tests := []struct {
		name string
		port *slowPort
	}{
		{"silent device", &slowPort{fakePort: &fakePort{}, delay: timeout}},
		{"line noise", &slowPort{fakePort: &fakePort{}, delay: timeout / 3, trickle: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := func(string, int, time.Duration) (Port, error) { return tt.port, nil }
			s := NewSerialRoaster(SerialConfig{Port: "/dev/ttyUSB0", BaudRate: 115200, Timeout: timeout,
				Encoding: protocol.EncodingCelsius}, clock.NewFake(simStart), WithPortOpener(opener))
			if err := s.Connect(); err != nil {
				t.Fatalf("connect: %v", err)
			}

			start := time.Now()
			_, err := s.ReadSensors()
			elapsed := time.Since(start)
			if err == nil {
				t.Fatalf("expected an error without telemetry")
			}
			if elapsed > 3*timeout {
				t.Fatalf("read took %s, want about %s", elapsed, timeout)
			}
			if tt.port.calls >= serialMaxReads {
				t.Fatalf("reads = %d, the deadline never cut the loop", tt.port.calls)
			}
		})
	}
}
