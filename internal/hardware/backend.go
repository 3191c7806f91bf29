// Package hardware implements the roaster backends: the live serial
// driver and two simulators. All backends share the Backend contract and
// none of them is safe for concurrent use; callers serialize access.
package hardware

import (
	"errors"
	"fmt"

	"controlling_roaster/internal/models"
	"controlling_roaster/internal/roasterr"
)

// Backend kinds accepted by New.
const (
	KindSerial = "serial"
	KindMock   = "mock"
	KindDemo   = "demo"
)

// ErrNoReading means the cycle produced no trustworthy telemetry (for
// example a corrupt frame). It is not a failure: callers skip the tick.
var ErrNoReading = errors.New("no valid reading this cycle")

// Info identifies the connected device.
type Info struct {
	Brand   string `json:"brand"`
	Model   string `json:"model"`
	Version string `json:"version"`
}

// Backend is the capability set every roaster implementation provides.
type Backend interface {
	Connect() error
	Disconnect() error
	IsConnected() bool
	Info() Info
	Kind() string

	ReadSensors() (models.SensorReading, error)

	SetHeat(percent int) error
	SetFan(percent int) error
	StartDrum() error
	StopDrum() error
	// DropBeans stops the drum and engages cooling in one transition.
	DropBeans() error
	StartCooling() error
	StopCooling() error
}

// BeanLoader is implemented by simulators that can charge beans on demand.
// Real hardware is charged by hand and is detected from telemetry.
type BeanLoader interface {
	LoadBeans() error
}

// validatePercent enforces the 0..100 in steps of 10 command domain.
func validatePercent(command string, p int) error {
	if p < models.MinPercent || p > models.MaxPercent {
		return roasterr.InvalidCommand(command, fmt.Sprintf("%d is outside %d..%d", p, models.MinPercent, models.MaxPercent))
	}
	if p%models.PercentStep != 0 {
		return roasterr.InvalidCommand(command, fmt.Sprintf("%d is not a multiple of %d", p, models.PercentStep))
	}
	return nil
}

// errHeaterOn rejects drum stop while the heater runs; the device would
// keep the drum turning anyway.
func errHeaterOn(command string) error {
	return roasterr.InvalidCommand(command, "heater is on; set heat to 0 first")
}
