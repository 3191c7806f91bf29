package hardware

import (
	"fmt"

	"controlling_roaster/internal/clock"
	"controlling_roaster/internal/config"
	"controlling_roaster/internal/protocol"
)

// New builds the backend selected by cfg.Backend.
func New(hw config.HardwareConfig, demo config.DemoConfig, clk clock.Clock) (Backend, error) {
	switch hw.Backend {
	case KindSerial:
		enc, err := protocol.ParseTempEncoding(hw.TemperatureEncoding)
		if err != nil {
			return nil, fmt.Errorf("serial backend: %w", err)
		}
		return NewSerialRoaster(SerialConfig{
			Port:     hw.Port,
			BaudRate: hw.BaudRate,
			Timeout:  hw.Timeout,
			Encoding: enc,
		}, clk), nil
	case KindMock:
		return NewMockRoaster(clk), nil
	case KindDemo:
		sc, err := LookupScenario(demo.Scenario)
		if err != nil {
			return nil, err
		}
		return NewDemoRoaster(sc, demo.Seed, clk), nil
	default:
		return nil, fmt.Errorf("unknown hardware backend %q", hw.Backend)
	}
}
