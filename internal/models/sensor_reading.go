package models

import (
	"fmt"
	"time"
)

// Sensor bounds accepted from any backend.
const (
	MinTempC    = -50.0
	MaxTempC    = 300.0
	MinPercent  = 0
	MaxPercent  = 100
	PercentStep = 10
)

// SensorReading is one poll of the roaster.
type SensorReading struct {
	Timestamp    time.Time `json:"timestamp"`
	BeanTempC    float64   `json:"bean_temp_c"`    // °C
	ChamberTempC float64   `json:"chamber_temp_c"` // °C
	FanSpeed     int       `json:"fan_speed"`      // percent
	HeatLevel    int       `json:"heat_level"`     // percent
}

// Validate checks the reading against the physical bounds of the device.
func (r SensorReading) Validate() error {
	if r.BeanTempC < MinTempC || r.BeanTempC > MaxTempC {
		return fmt.Errorf("bean temperature %.1f outside [%.0f, %.0f]", r.BeanTempC, MinTempC, MaxTempC)
	}
	if r.ChamberTempC < MinTempC || r.ChamberTempC > MaxTempC {
		return fmt.Errorf("chamber temperature %.1f outside [%.0f, %.0f]", r.ChamberTempC, MinTempC, MaxTempC)
	}
	if r.FanSpeed < MinPercent || r.FanSpeed > MaxPercent {
		return fmt.Errorf("fan speed %d outside [%d, %d]", r.FanSpeed, MinPercent, MaxPercent)
	}
	if r.HeatLevel < MinPercent || r.HeatLevel > MaxPercent {
		return fmt.Errorf("heat level %d outside [%d, %d]", r.HeatLevel, MinPercent, MaxPercent)
	}
	return nil
}
