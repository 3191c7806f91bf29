package hardware

import (
	"math/rand"
	"time"

	"controlling_roaster/internal/clock"
	"controlling_roaster/internal/models"
	"controlling_roaster/internal/roasterr"
)

// simulator implements Backend on top of thermalModel. MockRoaster and
// DemoRoaster differ only in timeline, charge trigger, identity and noise.
type simulator struct {
	clock     clock.Clock
	model     *thermalModel
	info      Info
	kind      string
	connected bool
	noiseC    float64
	rng       *rand.Rand
}

func (s *simulator) Connect() error {
	s.connected = true
	s.model.advance(s.clock.Now())
	return nil
}

func (s *simulator) Disconnect() error {
	s.connected = false
	return nil
}

func (s *simulator) IsConnected() bool { return s.connected }
func (s *simulator) Info() Info        { return s.info }
func (s *simulator) Kind() string      { return s.kind }

// Phase reports the simulated roast phase at the current clock time.
func (s *simulator) Phase() Phase {
	now := s.clock.Now()
	s.model.advance(now)
	return s.model.phase(now)
}

func (s *simulator) ReadSensors() (models.SensorReading, error) {
	if !s.connected {
		return models.SensorReading{}, roasterr.ErrNotConnected
	}
	now := s.clock.Now()
	s.model.advance(now)
	return models.SensorReading{
		Timestamp:    now,
		BeanTempC:    clampTemp(s.model.beanC + s.noise()),
		ChamberTempC: clampTemp(s.model.chamberC + s.noise()),
		FanSpeed:     s.model.fan,
		HeatLevel:    s.model.heat,
	}, nil
}

func (s *simulator) noise() float64 {
	if s.rng == nil || s.noiseC == 0 {
		return 0
	}
	return (s.rng.Float64()*2 - 1) * s.noiseC
}

// apply integrates up to now with the old settings, then runs fn.
func (s *simulator) apply(fn func(now time.Time) error) error {
	if !s.connected {
		return roasterr.ErrNotConnected
	}
	now := s.clock.Now()
	s.model.advance(now)
	return fn(now)
}

func (s *simulator) SetHeat(percent int) error {
	if err := validatePercent("set_heat", percent); err != nil {
		return err
	}
	return s.apply(func(time.Time) error {
		s.model.heat = percent
		return nil
	})
}

func (s *simulator) SetFan(percent int) error {
	if err := validatePercent("set_fan", percent); err != nil {
		return err
	}
	return s.apply(func(time.Time) error {
		s.model.fan = percent
		return nil
	})
}

func (s *simulator) StartDrum() error {
	return s.apply(func(now time.Time) error {
		s.model.startDrum(now)
		return nil
	})
}

func (s *simulator) StopDrum() error {
	return s.apply(func(time.Time) error {
		if s.model.heat > 0 {
			return errHeaterOn("stop_drum")
		}
		s.model.drum = false
		return nil
	})
}

func (s *simulator) DropBeans() error {
	return s.apply(func(now time.Time) error {
		s.model.drop(now)
		return nil
	})
}

func (s *simulator) StartCooling() error {
	return s.apply(func(time.Time) error {
		s.model.cooling = true
		return nil
	})
}

func (s *simulator) StopCooling() error {
	return s.apply(func(time.Time) error {
		s.model.cooling = false
		return nil
	})
}

// LoadBeans charges the drum now. The drum must be turning and the batch
// must not have been charged already.
func (s *simulator) LoadBeans() error {
	return s.apply(func(now time.Time) error {
		switch {
		case !s.model.drum:
			return roasterr.InvalidCommand("load_beans", "drum is not running")
		case !s.model.chargedAt.IsZero():
			return roasterr.InvalidCommand("load_beans", "beans already loaded")
		case !s.model.droppedAt.IsZero():
			return roasterr.InvalidCommand("load_beans", "batch already dropped")
		}
		s.model.charge(now)
		return nil
	})
}

// MockRoaster is the lightweight, noise-free simulator used in tests.
// Beans are charged explicitly with LoadBeans.
type MockRoaster struct {
	*simulator
}

// NewMockRoaster returns a disconnected mock roaster at ambient temperature.
func NewMockRoaster(clk clock.Clock) *MockRoaster {
	return &MockRoaster{simulator: &simulator{
		clock: clk,
		model: newThermalModel(DefaultTimeline, 0),
		info:  Info{Brand: "Mock", Model: "Roaster Simulator", Version: "1.0"},
		kind:  KindMock,
	}}
}
