// Package tracker turns a stream of sensor readings and externally reported
// roast events into roast metrics. A Tracker does no I/O and is not safe for
// concurrent use; the session manager serializes access.
package tracker

import (
	"fmt"
	"time"

	"controlling_roaster/internal/clock"
	"controlling_roaster/internal/config"
	"controlling_roaster/internal/models"
)

// Safety limits that trigger warnings. They never stop the roast.
const (
	BeanWarnC    = 250.0
	ChamberWarnC = 300.0
)

// Warning kinds returned by Update.
const (
	WarnBeanTemp    = "bean_temp_high"
	WarnChamberTemp = "chamber_temp_high"
	WarnStall       = "roast_stall"
)

// Warning is advisory output of Update.
type Warning struct {
	Kind    string
	Message string
	Value   float64
}

type sample struct {
	at   time.Time
	bean float64
}

// event is a once-only roast milestone. hasTemp is false when the
// milestone was recorded before any reading existed.
type event struct {
	at      time.Time
	tempC   float64
	hasTemp bool
	set     bool
}

func (e *event) record(at time.Time, temp float64) bool {
	if e.set {
		return false
	}
	*e = event{at: at, tempC: temp, hasTemp: true, set: true}
	return true
}

func (e *event) recordTime(at time.Time) bool {
	if e.set {
		return false
	}
	*e = event{at: at, set: true}
	return true
}

// Tracker accumulates roast state.
type Tracker struct {
	cfg   config.TrackerConfig
	clock clock.Clock

	window []sample
	prev   *sample

	charge     event
	firstCrack event
	drop       event
}

// New returns an empty tracker.
func New(cfg config.TrackerConfig, clk clock.Clock) *Tracker {
	return &Tracker{cfg: cfg, clock: clk}
}

// Update consumes one reading. Charge is detected here: the instant the bean
// temperature falls by more than the configured threshold between two
// consecutive readings, with the prior reading's temperature captured.
// After a drop the cooling tray falls just as fast, so detection stops.
func (t *Tracker) Update(r models.SensorReading) []Warning {
	cur := sample{at: r.Timestamp, bean: r.BeanTempC}

	if !t.charge.set && !t.drop.set && t.prev != nil && t.prev.bean-cur.bean > t.cfg.ChargeDropThresholdC {
		t.charge.record(cur.at, t.prev.bean)
	}
	t.prev = &cur

	t.window = append(t.window, cur)
	cutoff := cur.at.Add(-t.cfg.RoRWindow)
	i := 0
	for i < len(t.window)-1 && t.window[i].at.Before(cutoff) {
		i++
	}
	t.window = t.window[i:]

	var warnings []Warning
	if r.BeanTempC > BeanWarnC {
		warnings = append(warnings, Warning{
			Kind:    WarnBeanTemp,
			Message: fmt.Sprintf("bean temperature %.1f°C exceeds %.0f°C", r.BeanTempC, BeanWarnC),
			Value:   r.BeanTempC,
		})
	}
	if r.ChamberTempC > ChamberWarnC {
		warnings = append(warnings, Warning{
			Kind:    WarnChamberTemp,
			Message: fmt.Sprintf("chamber temperature %.1f°C exceeds %.0f°C", r.ChamberTempC, ChamberWarnC),
			Value:   r.ChamberTempC,
		})
	}
	// The charge drop itself would read as a stall until it leaves the window.
	if t.charge.set && !t.drop.set && cur.at.Sub(t.charge.at) >= t.cfg.RoRWindow {
		if ror, ok := t.RateOfRise(); ok && ror < -t.cfg.StallThresholdCPerMin {
			warnings = append(warnings, Warning{
				Kind:    WarnStall,
				Message: fmt.Sprintf("rate of rise %.1f°C/min is falling; roast may stall", ror),
				Value:   ror,
			})
		}
	}
	return warnings
}

// ReportFirstCrack records first crack. Only the first call takes effect.
func (t *Tracker) ReportFirstCrack(when time.Time, tempC float64) bool {
	return t.firstCrack.record(when, tempC)
}

// RecordDrop records the drop. Only the first call takes effect.
func (t *Tracker) RecordDrop(when time.Time, tempC float64) bool {
	return t.drop.record(when, tempC)
}

// RecordDropTime records a drop whose bean temperature is unknown.
func (t *Tracker) RecordDropTime(when time.Time) bool {
	return t.drop.recordTime(when)
}

// RateOfRise is the slope between the oldest and newest buffered readings
// in °C/min.
func (t *Tracker) RateOfRise() (float64, bool) {
	if len(t.window) < 2 {
		return 0, false
	}
	first, last := t.window[0], t.window[len(t.window)-1]
	dt := last.at.Sub(first.at).Minutes()
	if dt <= 0 {
		return 0, false
	}
	return (last.bean - first.bean) / dt, true
}

func (t *Tracker) Charge() (time.Time, float64, bool) {
	return t.charge.at, t.charge.tempC, t.charge.set
}

func (t *Tracker) FirstCrack() (time.Time, float64, bool) {
	return t.firstCrack.at, t.firstCrack.tempC, t.firstCrack.set
}

func (t *Tracker) Drop() (time.Time, float64, bool) {
	return t.drop.at, t.drop.tempC, t.drop.set
}

// DropHasTemp reports whether the recorded drop carries a temperature.
func (t *Tracker) DropHasTemp() bool { return t.drop.hasTemp }

// end is the drop time once recorded, otherwise now.
func (t *Tracker) end() time.Time {
	if t.drop.set {
		return t.drop.at
	}
	return t.clock.Now()
}

func nonNegative(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return d.Seconds()
}

// DevelopmentTimeSeconds is the time from first crack to drop (or now).
func (t *Tracker) DevelopmentTimeSeconds() (float64, bool) {
	if !t.charge.set || !t.firstCrack.set {
		return 0, false
	}
	return nonNegative(t.end().Sub(t.firstCrack.at)), true
}

// DevelopmentTimePercent is development time over total roast time.
func (t *Tracker) DevelopmentTimePercent() (float64, bool) {
	dev, ok := t.DevelopmentTimeSeconds()
	if !ok {
		return 0, false
	}
	total := nonNegative(t.end().Sub(t.charge.at))
	if total == 0 {
		return 0, true
	}
	return dev / total * 100, true
}

// InTargetBand reports whether pct lies in the configured development band.
func (t *Tracker) InTargetBand(pct float64) bool {
	return pct >= t.cfg.DevTargetMinPercent && pct <= t.cfg.DevTargetMaxPercent
}

// Metrics assembles a snapshot. Fields stay nil until their inputs exist.
func (t *Tracker) Metrics() models.RoastMetrics {
	var m models.RoastMetrics

	if ror, ok := t.RateOfRise(); ok {
		m.RateOfRise = ptr(ror)
	}
	if !t.charge.set {
		return m
	}
	m.BeansAddedTempC = ptr(t.charge.tempC)

	elapsed := nonNegative(t.end().Sub(t.charge.at))
	m.RoastElapsedSeconds = ptr(elapsed)
	m.RoastElapsedDisplay = FormatMMSS(elapsed)

	if t.firstCrack.set {
		m.FirstCrackTime = ptr(t.firstCrack.at)
		m.FirstCrackTempC = ptr(t.firstCrack.tempC)
		fc := nonNegative(t.firstCrack.at.Sub(t.charge.at))
		m.FirstCrackElapsedSeconds = ptr(fc)
		m.FirstCrackElapsedDisplay = FormatMMSS(fc)
	}
	if dev, ok := t.DevelopmentTimeSeconds(); ok {
		m.DevelopmentTimeSeconds = ptr(dev)
		m.DevelopmentTimeDisplay = FormatMMSS(dev)
	}
	if pct, ok := t.DevelopmentTimePercent(); ok {
		m.DevelopmentTimePercent = ptr(pct)
		m.DevelopmentInTargetBand = ptr(t.InTargetBand(pct))
	}
	if t.drop.set {
		m.DropTime = ptr(t.drop.at)
		if t.drop.hasTemp {
			m.DropTempC = ptr(t.drop.tempC)
		}
		total := nonNegative(t.drop.at.Sub(t.charge.at))
		m.TotalRoastDurationSeconds = ptr(total)
		m.TotalRoastDurationDisplay = FormatMMSS(total)
	}
	return m
}

// FormatMMSS renders seconds as MM:SS; minutes may exceed 59.
func FormatMMSS(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int(seconds)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

func ptr[T any](v T) *T { return &v }
