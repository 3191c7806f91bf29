package hardware

import (
	"time"

	"controlling_roaster/internal/models"
)

// ----------- Simulation constants -----------
const (
	AmbientC         = 22.0  // room temperature °C
	maxHeatRiseC     = 270.0 // chamber rise above ambient at 100% heat
	fanCoolingC      = 40.0  // chamber drop at 100% fan
	chamberRate      = 0.03  // chamber approach rate, 1/s
	probeRate        = 0.05  // empty-drum probe approach rate, 1/s
	beanRate         = 0.0022
	fanTransferBoost = 0.3   // extra bean heat transfer at 100% fan
	chargeRetention  = 0.35  // fraction of probe excess over ambient kept at charge
	chargeChamberDip = 20.0  // °C the chamber loses when cold beans go in
	dropCoolRate     = 0.06  // bean cooling rate in the cooling tray, 1/s
	passiveCoolRate  = 0.01  // bean cooling rate without the cooling motor, 1/s
	maxIntegration   = time.Hour
	integrationStep  = time.Second
)

// Phase is a roast stage of the simulated thermal curve.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePreheat
	PhaseCharge
	PhaseDrying
	PhaseApproachingFirstCrack
	PhaseFirstCrack
	PhaseDevelopment
	PhaseCooldown
)

func (p Phase) String() string {
	switch p {
	case PhasePreheat:
		return "preheat"
	case PhaseCharge:
		return "charge"
	case PhaseDrying:
		return "drying"
	case PhaseApproachingFirstCrack:
		return "approaching_first_crack"
	case PhaseFirstCrack:
		return "first_crack"
	case PhaseDevelopment:
		return "development"
	case PhaseCooldown:
		return "cooldown"
	default:
		return "idle"
	}
}

// Timeline fixes when each post-charge phase starts, measured from charge.
type Timeline struct {
	TurningPoint time.Duration // charge phase length
	DryingEnd    time.Duration
	FirstCrackAt time.Duration
	FirstCrack   time.Duration // first crack phase length
}

// DefaultTimeline is a typical medium roast.
var DefaultTimeline = Timeline{
	TurningPoint: 90 * time.Second,
	DryingEnd:    4*time.Minute + 30*time.Second,
	FirstCrackAt: 8 * time.Minute,
	FirstCrack:   90 * time.Second,
}

// phaseAt maps time since charge to a roast phase.
func (tl Timeline) phaseAt(sinceCharge time.Duration) Phase {
	switch {
	case sinceCharge < tl.TurningPoint:
		return PhaseCharge
	case sinceCharge < tl.DryingEnd:
		return PhaseDrying
	case sinceCharge < tl.FirstCrackAt:
		return PhaseApproachingFirstCrack
	case sinceCharge < tl.FirstCrackAt+tl.FirstCrack:
		return PhaseFirstCrack
	default:
		return PhaseDevelopment
	}
}

// phaseRate scales bean heat uptake per phase; exotherm adds °C/s.
type phaseRate struct {
	uptake   float64
	exotherm float64
}

var phaseRates = map[Phase]phaseRate{
	PhaseCharge:                {uptake: 1.0},
	PhaseDrying:                {uptake: 0.8}, // moisture evaporation
	PhaseApproachingFirstCrack: {uptake: 1.0},
	PhaseFirstCrack:            {uptake: 1.0, exotherm: 0.08},
	PhaseDevelopment:           {uptake: 0.9},
}

// thermalModel is the shared physics-lite state of both simulators.
// All transitions are functions of the timestamps passed in.
type thermalModel struct {
	timeline   Timeline
	autoCharge time.Duration // drum run time before automatic charge; 0 = manual

	beanC    float64
	chamberC float64
	heat     int
	fan      int
	drum     bool
	cooling  bool

	drumStartedAt time.Time
	chargedAt     time.Time
	droppedAt     time.Time
	last          time.Time
}

func newThermalModel(tl Timeline, autoCharge time.Duration) *thermalModel {
	return &thermalModel{
		timeline:   tl,
		autoCharge: autoCharge,
		beanC:      AmbientC,
		chamberC:   AmbientC,
	}
}

// phase reports the roast phase at t.
func (m *thermalModel) phase(t time.Time) Phase {
	switch {
	case !m.droppedAt.IsZero():
		return PhaseCooldown
	case !m.chargedAt.IsZero():
		return m.timeline.phaseAt(t.Sub(m.chargedAt))
	case m.drum:
		return PhasePreheat
	case m.cooling:
		return PhaseCooldown
	default:
		return PhaseIdle
	}
}

// advance integrates the model up to now in one-second steps.
func (m *thermalModel) advance(now time.Time) {
	if m.last.IsZero() || !now.After(m.last) {
		if m.last.IsZero() {
			m.last = now
		}
		return
	}
	if now.Sub(m.last) > maxIntegration {
		m.last = now.Add(-maxIntegration)
	}
	for m.last.Before(now) {
		step := integrationStep
		if rest := now.Sub(m.last); rest < step {
			step = rest
		}
		t := m.last.Add(step)
		if m.autoCharge > 0 && m.drum && m.chargedAt.IsZero() && m.droppedAt.IsZero() &&
			!m.drumStartedAt.IsZero() && t.Sub(m.drumStartedAt) >= m.autoCharge {
			m.charge(t)
		}
		m.step(t, step.Seconds())
		m.last = t
	}
}

func (m *thermalModel) step(t time.Time, dt float64) {
	chamberTarget := AmbientC + float64(m.heat)/100*maxHeatRiseC - float64(m.fan)/100*fanCoolingC
	m.chamberC += (chamberTarget - m.chamberC) * chamberRate * dt

	switch p := m.phase(t); p {
	case PhaseIdle, PhasePreheat:
		m.beanC += (m.chamberC - m.beanC) * probeRate * dt
	case PhaseCooldown:
		rate := passiveCoolRate
		if m.cooling {
			rate = dropCoolRate
		}
		m.beanC += (AmbientC - m.beanC) * rate * dt
	default:
		r := phaseRates[p]
		k := beanRate * r.uptake * (1 + float64(m.fan)/100*fanTransferBoost)
		m.beanC += (m.chamberC-m.beanC)*k*dt + r.exotherm*dt
	}
	m.beanC = clampTemp(m.beanC)
	m.chamberC = clampTemp(m.chamberC)
}

// charge drops cold beans into the drum at t.
func (m *thermalModel) charge(t time.Time) {
	m.chargedAt = t
	m.beanC = AmbientC + (m.beanC-AmbientC)*chargeRetention
	m.chamberC -= chargeChamberDip
}

func (m *thermalModel) startDrum(t time.Time) {
	m.drum = true
	if m.drumStartedAt.IsZero() {
		m.drumStartedAt = t
	}
}

// drop releases the beans into the cooling tray at t.
func (m *thermalModel) drop(t time.Time) {
	m.heat = 0
	m.drum = false
	m.cooling = true
	if m.droppedAt.IsZero() {
		m.droppedAt = t
	}
}

func clampTemp(c float64) float64 {
	if c < models.MinTempC {
		return models.MinTempC
	}
	if c > models.MaxTempC {
		return models.MaxTempC
	}
	return c
}
