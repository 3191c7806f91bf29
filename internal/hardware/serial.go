package hardware

import (
	"errors"
	"fmt"
	"io"
	"time"

	"controlling_roaster/internal/clock"
	"controlling_roaster/internal/models"
	"controlling_roaster/internal/protocol"
	"controlling_roaster/internal/roasterr"

	"github.com/tarm/serial"
)

const (
	serialReadChunk = 256 // ~7 frames
	serialMaxReads  = 8
	fullMainFan     = 100
)

// Port is the subset of a serial port the driver needs. *serial.Port
// satisfies it; tests substitute an in-memory port.
type Port interface {
	io.ReadWriteCloser
	Flush() error
}

// PortOpener opens the named port.
type PortOpener func(name string, baud int, timeout time.Duration) (Port, error)

func openTarmPort(name string, baud int, timeout time.Duration) (Port, error) {
	return serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		Parity:      serial.ParityNone,
		ReadTimeout: timeout,
	})
}

// SerialConfig configures the live driver.
type SerialConfig struct {
	Port     string
	BaudRate int
	Timeout  time.Duration
	Encoding protocol.TempEncoding
}

// SerialRoaster drives a real roaster over the 36-byte frame protocol.
// Every write carries the full control state, so cmd is the source of truth
// for what the device was last told.
type SerialRoaster struct {
	cfg     SerialConfig
	open    PortOpener
	clock   clock.Clock
	port    Port
	cmd     protocol.Command
	scanner protocol.Scanner
	buf     []byte
}

// SerialOption customizes a SerialRoaster.
type SerialOption func(*SerialRoaster)

// WithPortOpener replaces the tarm/serial opener.
func WithPortOpener(o PortOpener) SerialOption {
	return func(s *SerialRoaster) { s.open = o }
}

// NewSerialRoaster returns a disconnected serial driver.
func NewSerialRoaster(cfg SerialConfig, clk clock.Clock, opts ...SerialOption) *SerialRoaster {
	s := &SerialRoaster{
		cfg:   cfg,
		open:  openTarmPort,
		clock: clk,
		buf:   make([]byte, serialReadChunk),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *SerialRoaster) Kind() string { return KindSerial }

func (s *SerialRoaster) Info() Info {
	return Info{Brand: "Hottop", Model: "KN-8828B-2K+", Version: "serial/" + string(s.cfg.Encoding)}
}

func (s *SerialRoaster) IsConnected() bool { return s.port != nil }

// Connect opens the port and puts the device in a known all-off state.
func (s *SerialRoaster) Connect() error {
	if s.port != nil {
		return nil
	}
	if _, err := protocol.ParseTempEncoding(string(s.cfg.Encoding)); err != nil {
		return roasterr.ConnectionFailed("temperature encoding", err)
	}
	port, err := s.open(s.cfg.Port, s.cfg.BaudRate, s.cfg.Timeout)
	if err != nil {
		return roasterr.ConnectionFailed(fmt.Sprintf("open %s at %d baud", s.cfg.Port, s.cfg.BaudRate), err)
	}
	if err := port.Flush(); err != nil {
		_ = port.Close()
		return roasterr.ConnectionFailed("flush "+s.cfg.Port, err)
	}
	s.port = port
	s.cmd = protocol.Command{}
	s.scanner.Reset()
	if err := s.send(s.cmd); err != nil {
		_ = port.Close()
		s.port = nil
		return roasterr.ConnectionFailed("initial command", err)
	}
	return nil
}

// Disconnect sends an all-off frame and closes the port.
func (s *SerialRoaster) Disconnect() error {
	if s.port == nil {
		return nil
	}
	offErr := s.send(protocol.Command{})
	closeErr := s.port.Close()
	s.port = nil
	return errors.Join(offErr, closeErr)
}

// ReadSensors sends the current control state as a keepalive, then returns
// the newest valid telemetry frame in the port buffer.
func (s *SerialRoaster) ReadSensors() (models.SensorReading, error) {
	if s.port == nil {
		return models.SensorReading{}, roasterr.ErrNotConnected
	}
	if err := s.send(s.cmd); err != nil {
		return models.SensorReading{}, err
	}

	// The whole read shares one deadline so a poll holds the session lock
	// for at most about one port timeout.
	var (
		latest   *protocol.Frame
		corrupt  error
		deadline = time.Now().Add(s.cfg.Timeout)
	)
	for i := 0; i < serialMaxReads && latest == nil; i++ {
		if i > 0 && !time.Now().Before(deadline) {
			break
		}
		n, err := s.port.Read(s.buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return models.SensorReading{}, fmt.Errorf("read %s: %w", s.cfg.Port, err)
		}
		if n == 0 {
			break
		}
		s.scanner.Feed(s.buf[:n])
		for {
			raw, ok := s.scanner.Next()
			if !ok {
				break
			}
			f, err := protocol.DecodeFrame(raw)
			if err != nil {
				corrupt = err
				continue
			}
			latest = &f
		}
	}

	switch {
	case latest != nil:
		return s.toReading(*latest)
	case corrupt != nil:
		return models.SensorReading{}, fmt.Errorf("%w: %v", ErrNoReading, corrupt)
	default:
		return models.SensorReading{}, fmt.Errorf("no telemetry from %s within %s", s.cfg.Port, s.cfg.Timeout)
	}
}

func (s *SerialRoaster) toReading(f protocol.Frame) (models.SensorReading, error) {
	bean, err := s.cfg.Encoding.ToCelsius(f.BeanRaw)
	if err != nil {
		return models.SensorReading{}, err
	}
	chamber, err := s.cfg.Encoding.ToCelsius(f.ChamberRaw)
	if err != nil {
		return models.SensorReading{}, err
	}
	return models.SensorReading{
		Timestamp:    s.clock.Now(),
		BeanTempC:    bean,
		ChamberTempC: chamber,
		FanSpeed:     f.Fan,
		HeatLevel:    f.Heater,
	}, nil
}

func (s *SerialRoaster) SetHeat(percent int) error {
	if err := validatePercent("set_heat", percent); err != nil {
		return err
	}
	return s.update(func(c *protocol.Command) error {
		c.Heater = percent
		if percent > 0 {
			c.DrumMotor = true
		}
		return nil
	})
}

func (s *SerialRoaster) SetFan(percent int) error {
	if err := validatePercent("set_fan", percent); err != nil {
		return err
	}
	return s.update(func(c *protocol.Command) error {
		c.Fan = percent
		return nil
	})
}

func (s *SerialRoaster) StartDrum() error {
	return s.update(func(c *protocol.Command) error {
		c.DrumMotor = true
		return nil
	})
}

func (s *SerialRoaster) StopDrum() error {
	return s.update(func(c *protocol.Command) error {
		if c.Heater > 0 {
			return errHeaterOn("stop_drum")
		}
		c.DrumMotor = false
		return nil
	})
}

func (s *SerialRoaster) DropBeans() error {
	return s.update(func(c *protocol.Command) error {
		c.Heater = 0
		c.DrumMotor = false
		c.Solenoid = true
		c.CoolingMotor = true
		c.MainFan = fullMainFan
		return nil
	})
}

func (s *SerialRoaster) StartCooling() error {
	return s.update(func(c *protocol.Command) error {
		c.CoolingMotor = true
		c.MainFan = fullMainFan
		return nil
	})
}

func (s *SerialRoaster) StopCooling() error {
	return s.update(func(c *protocol.Command) error {
		c.CoolingMotor = false
		c.MainFan = 0
		c.Solenoid = false
		return nil
	})
}

// update applies fn to a copy of the control state, writes it, and keeps
// it only if the write succeeded.
func (s *SerialRoaster) update(fn func(*protocol.Command) error) error {
	if s.port == nil {
		return roasterr.ErrNotConnected
	}
	next := s.cmd
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.send(next); err != nil {
		return err
	}
	s.cmd = next
	return nil
}

func (s *SerialRoaster) send(c protocol.Command) error {
	frame, err := protocol.EncodeCommand(c)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}
	if _, err := s.port.Write(frame); err != nil {
		return fmt.Errorf("write %s: %w", s.cfg.Port, err)
	}
	return nil
}
