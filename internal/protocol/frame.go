// Package protocol encodes roaster control frames and decodes telemetry
// frames for the 36-byte serial protocol spoken by the drum roaster.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// FrameSize is the fixed length of both command and telemetry frames.
const FrameSize = 36

// Byte offsets inside a frame.
const (
	idxHeater       = 10
	idxFan          = 11
	idxMainFan      = 12
	idxSolenoid     = 16
	idxDrumMotor    = 17
	idxCoolingMotor = 18
	idxChamberTemp  = 23 // big-endian uint16 at 23..24
	idxBeanTemp     = 25 // big-endian uint16 at 25..26
	idxChecksum     = 35
)

// commandHeader is the fixed prefix of every outbound frame; the first two
// bytes double as the magic of inbound frames.
var commandHeader = [...]byte{0xA5, 0x96, 0xB0, 0xA0, 0x01, 0x01, 0x24}

const (
	magic0 = 0xA5
	magic1 = 0x96
)

var (
	ErrShortFrame = errors.New("frame shorter than 36 bytes")
	ErrBadMagic   = errors.New("frame magic mismatch")
	ErrChecksum   = errors.New("frame checksum mismatch")
	ErrOutOfRange = errors.New("command value out of range")
)

// Command is the full control state sent to the roaster on every write.
// Heater, Fan and MainFan are percentages (0..100).
type Command struct {
	Heater       int
	Fan          int
	MainFan      int
	Solenoid     bool
	DrumMotor    bool
	CoolingMotor bool
}

// Frame is a decoded frame. Fan values are reported back as percentages.
type Frame struct {
	Heater       int
	Fan          int
	MainFan      int
	Solenoid     bool
	DrumMotor    bool
	CoolingMotor bool
	ChamberRaw   uint16
	BeanRaw      uint16
}

// Command returns the control part of the frame.
func (f Frame) Command() Command {
	return Command{
		Heater:       f.Heater,
		Fan:          f.Fan,
		MainFan:      f.MainFan,
		Solenoid:     f.Solenoid,
		DrumMotor:    f.DrumMotor,
		CoolingMotor: f.CoolingMotor,
	}
}

// PercentToTenths rounds a 0..100 percentage to the device's 0..10 scale.
func PercentToTenths(p int) (byte, error) {
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("%w: %d%%", ErrOutOfRange, p)
	}
	return byte(math.Round(float64(p) / 10)), nil
}

// Checksum is the sum of bytes 0..34 modulo 256.
func Checksum(frame []byte) byte {
	var sum byte
	for _, b := range frame[:idxChecksum] {
		sum += b
	}
	return sum
}

// EncodeCommand builds the 36-byte control frame for c.
// A running heater always forces the drum motor on.
func EncodeCommand(c Command) ([]byte, error) {
	if c.Heater < 0 || c.Heater > 100 {
		return nil, fmt.Errorf("%w: heater %d%%", ErrOutOfRange, c.Heater)
	}
	fan, err := PercentToTenths(c.Fan)
	if err != nil {
		return nil, fmt.Errorf("fan: %w", err)
	}
	mainFan, err := PercentToTenths(c.MainFan)
	if err != nil {
		return nil, fmt.Errorf("main fan: %w", err)
	}

	frame := make([]byte, FrameSize)
	copy(frame, commandHeader[:])
	frame[idxHeater] = byte(c.Heater)
	frame[idxFan] = fan
	frame[idxMainFan] = mainFan
	frame[idxSolenoid] = boolByte(c.Solenoid)
	frame[idxDrumMotor] = boolByte(c.DrumMotor || c.Heater > 0)
	frame[idxCoolingMotor] = boolByte(c.CoolingMotor)
	frame[idxChecksum] = Checksum(frame)
	return frame, nil
}

// DecodeFrame validates and parses a 36-byte frame. A frame with the right
// magic but a wrong checksum is rejected as a whole.
func DecodeFrame(frame []byte) (Frame, error) {
	if len(frame) < FrameSize {
		return Frame{}, ErrShortFrame
	}
	frame = frame[:FrameSize]
	if frame[0] != magic0 || frame[1] != magic1 {
		return Frame{}, ErrBadMagic
	}
	if got, want := frame[idxChecksum], Checksum(frame); got != want {
		return Frame{}, fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrChecksum, got, want)
	}
	return Frame{
		Heater:       int(frame[idxHeater]),
		Fan:          int(frame[idxFan]) * 10,
		MainFan:      int(frame[idxMainFan]) * 10,
		Solenoid:     frame[idxSolenoid] != 0,
		DrumMotor:    frame[idxDrumMotor] != 0,
		CoolingMotor: frame[idxCoolingMotor] != 0,
		ChamberRaw:   binary.BigEndian.Uint16(frame[idxChamberTemp:]),
		BeanRaw:      binary.BigEndian.Uint16(frame[idxBeanTemp:]),
	}, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
