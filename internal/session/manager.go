// Package session owns the roaster connection. A Manager holds at most one
// live session: the backend, the roast tracker and the polling goroutine.
// Every hardware call and tracker update happens under a single mutex.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"controlling_roaster/internal/clock"
	"controlling_roaster/internal/config"
	"controlling_roaster/internal/hardware"
	"controlling_roaster/internal/logger"
	"controlling_roaster/internal/models"
	"controlling_roaster/internal/roasterr"
	"controlling_roaster/internal/tracker"

	"github.com/google/uuid"
)

const recordTimeout = 5 * time.Second

// BackendFactory builds a fresh, disconnected backend for a new session.
type BackendFactory func() (hardware.Backend, error)

// Recorder persists roast events and readings. It is called outside the
// session lock, so a slow store never delays commands or status queries.
type Recorder interface {
	RecordEvent(ctx context.Context, e models.RoastEvent) error
	RecordReading(ctx context.Context, sessionID string, r models.SensorReading) error
}

type nopRecorder struct{}

func (nopRecorder) RecordEvent(context.Context, models.RoastEvent) error { return nil }
func (nopRecorder) RecordReading(context.Context, string, models.SensorReading) error {
	return nil
}

// Config parameterizes a Manager.
type Config struct {
	Tracker     config.TrackerConfig
	StopTimeout time.Duration
	Location    *time.Location
}

// session is the live aggregate. Fields below mu in Manager are guarded by it.
type session struct {
	id      string
	backend hardware.Backend
	tracker *tracker.Tracker
	log     *logger.Logger

	latest       models.SensorReading
	drumRunning  bool
	openWarnings map[string]bool

	stop chan struct{}
	done chan struct{}
}

// Manager is safe for concurrent use.
type Manager struct {
	cfg        Config
	newBackend BackendFactory
	clock      clock.Clock
	rec        Recorder
	log        *logger.Logger

	lifecycle sync.Mutex // serializes StartSession/StopSession

	mu   sync.Mutex
	sess *session
}

// NewManager returns an idle manager. rec may be nil.
func NewManager(cfg Config, factory BackendFactory, clk clock.Clock, rec Recorder, log *logger.Logger) *Manager {
	if rec == nil {
		rec = nopRecorder{}
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Manager{cfg: cfg, newBackend: factory, clock: clk, rec: rec, log: log}
}

// StartSession connects a new backend and starts polling. It returns the
// session id; calling it while a session is active returns the active id.
func (m *Manager) StartSession() (string, error) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	if m.sess != nil {
		id := m.sess.id
		m.mu.Unlock()
		return id, nil
	}
	m.mu.Unlock()

	backend, err := m.newBackend()
	if err != nil {
		return "", fmt.Errorf("create backend: %w", err)
	}
	// Not published yet, so connecting without mu keeps Status responsive.
	if err := backend.Connect(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	s := &session{
		id:           id,
		log:          m.log.With("session_id", id),
		backend:      backend,
		tracker:      tracker.New(m.cfg.Tracker, m.clock),
		openWarnings: make(map[string]bool),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	m.mu.Lock()
	m.sess = s
	m.mu.Unlock()

	go m.pollLoop(s)

	info := backend.Info()
	meta := map[string]any{"backend": backend.Kind(), "version": info.Version}
	kv := []interface{}{"backend", backend.Kind(), "model", info.Model}
	if d, ok := backend.(*hardware.DemoRoaster); ok {
		meta["scenario"] = d.Scenario().Name
		kv = append(kv, "scenario", d.Scenario().Name)
	}
	s.log.Infow("session_started", kv...)
	m.record(models.RoastEvent{
		SessionID:   s.id,
		Type:        models.EventSessionStart,
		Description: fmt.Sprintf("session started on %s %s", info.Brand, info.Model),
		Metadata:    meta,
	})
	return s.id, nil
}

// StopSession stops polling and disconnects. It is a no-op when idle. If the
// polling goroutine does not exit within the stop timeout the backend is
// disconnected anyway.
func (m *Manager) StopSession() error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	s := m.sess
	m.sess = nil
	m.mu.Unlock()
	if s == nil {
		return nil
	}

	close(s.stop)
	timer := time.NewTimer(m.cfg.StopTimeout)
	select {
	case <-s.done:
		timer.Stop()
	case <-timer.C:
		s.log.Warnw("poll_loop_stop_timeout", "timeout", m.cfg.StopTimeout)
	}

	m.mu.Lock()
	err := s.backend.Disconnect()
	m.mu.Unlock()
	if err != nil {
		s.log.Errorw("backend_disconnect_failed", "err", err)
	}

	s.log.Infow("session_stopped")
	m.record(models.RoastEvent{SessionID: s.id, Type: models.EventSessionStop, Description: "session stopped"})
	return err
}

// Active reports whether a session is running.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess != nil
}

// CurrentSessionID returns the active session id, or "" when idle.
func (m *Manager) CurrentSessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return ""
	}
	return m.sess.id
}

func (m *Manager) pollLoop(s *session) {
	defer close(s.done)

	ticker := time.NewTicker(m.cfg.Tracker.PollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			m.pollOnce(s)
		}
	}
}

// pollResult carries what a poll produced out of the lock.
type pollResult struct {
	sessionID string
	reading   models.SensorReading
	events    []models.RoastEvent
}

// pollOnce runs one read-validate-update cycle. Failures, including panics,
// are logged and the next tick retries.
func (m *Manager) pollOnce(s *session) {
	defer func() {
		if p := recover(); p != nil {
			s.log.Errorw("poll_panic", "panic", p)
		}
	}()

	res, ok := m.readAndUpdate(s)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := m.rec.RecordReading(ctx, res.sessionID, res.reading); err != nil {
		s.log.Errorw("record_reading_failed", "err", err)
	}
	for _, e := range res.events {
		m.recordCtx(ctx, e)
	}
}

func (m *Manager) readAndUpdate(s *session) (pollResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess != s {
		return pollResult{}, false
	}
	r, err := s.backend.ReadSensors()
	if err != nil {
		if errors.Is(err, hardware.ErrNoReading) {
			s.log.Debugw("poll_no_reading", "reason", err)
		} else {
			s.log.Warnw("poll_read_failed", "err", err)
		}
		return pollResult{}, false
	}
	if err := r.Validate(); err != nil {
		s.log.Warnw("poll_reading_rejected", "err", err)
		return pollResult{}, false
	}

	_, _, hadCharge := s.tracker.Charge()
	warnings := s.tracker.Update(r)
	s.latest = r

	res := pollResult{sessionID: s.id, reading: r}
	if chargeAt, chargeTemp, charged := s.tracker.Charge(); charged && !hadCharge {
		s.log.Infow("charge_detected", "temp_c", chargeTemp)
		res.events = append(res.events, models.RoastEvent{
			SessionID:   s.id,
			OccurredAt:  chargeAt,
			Type:        models.EventCharge,
			Description: fmt.Sprintf("beans charged at %.1f°C", chargeTemp),
			Metadata:    map[string]any{"temp_c": chargeTemp},
		})
	}

	raised := make(map[string]bool, len(warnings))
	for _, w := range warnings {
		raised[w.Kind] = true
		if s.openWarnings[w.Kind] {
			continue
		}
		s.log.Warnw("roast_warning", "kind", w.Kind, "value", w.Value)
		res.events = append(res.events, models.RoastEvent{
			SessionID:   s.id,
			OccurredAt:  r.Timestamp,
			Type:        models.EventWarning,
			Description: w.Message,
			Metadata:    map[string]any{"kind": w.Kind, "value": w.Value},
		})
	}
	s.openWarnings = raised
	return res, true
}

// withSession runs fn under the lock against the active session.
func (m *Manager) withSession(fn func(s *session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return roasterr.ErrNoActiveRoast
	}
	return fn(m.sess)
}

func (m *Manager) SetHeat(percent int) error {
	return m.withSession(func(s *session) error {
		if err := s.backend.SetHeat(percent); err != nil {
			return err
		}
		if percent > 0 {
			s.drumRunning = true
		}
		return nil
	})
}

func (m *Manager) SetFan(percent int) error {
	return m.withSession(func(s *session) error { return s.backend.SetFan(percent) })
}

// StartRoaster starts the drum.
func (m *Manager) StartRoaster() error {
	return m.withSession(func(s *session) error {
		if err := s.backend.StartDrum(); err != nil {
			return err
		}
		s.drumRunning = true
		return nil
	})
}

// StopRoaster stops the drum. The heater must be off.
func (m *Manager) StopRoaster() error {
	return m.withSession(func(s *session) error {
		if err := s.backend.StopDrum(); err != nil {
			return err
		}
		s.drumRunning = false
		return nil
	})
}

func (m *Manager) StartCooling() error {
	return m.withSession(func(s *session) error { return s.backend.StartCooling() })
}

func (m *Manager) StopCooling() error {
	return m.withSession(func(s *session) error { return s.backend.StopCooling() })
}

// DropBeans empties the drum into the cooling tray and records the drop at
// the latest bean temperature. Before the first poll there is no
// temperature, and the drop is recorded without one.
func (m *Manager) DropBeans() error {
	var ev *models.RoastEvent
	err := m.withSession(func(s *session) error {
		if err := s.backend.DropBeans(); err != nil {
			return err
		}
		s.drumRunning = false
		var temp *float64
		if !s.latest.Timestamp.IsZero() {
			bean := s.latest.BeanTempC
			temp = &bean
		}
		ev = m.recordDropLocked(s, m.clock.Now(), temp)
		return nil
	})
	if ev != nil {
		m.record(*ev)
	}
	return err
}

// RecordDrop records a drop observed elsewhere. Only the first drop counts;
// the return value reports whether this call recorded it. A zero when means
// now on the session clock.
func (m *Manager) RecordDrop(when time.Time, tempC float64) (bool, error) {
	var ev *models.RoastEvent
	if when.IsZero() {
		when = m.clock.Now()
	}
	err := m.withSession(func(s *session) error {
		ev = m.recordDropLocked(s, when, &tempC)
		return nil
	})
	if ev != nil {
		m.record(*ev)
	}
	return ev != nil, err
}

func (m *Manager) recordDropLocked(s *session, when time.Time, tempC *float64) *models.RoastEvent {
	if tempC == nil {
		if !s.tracker.RecordDropTime(when) {
			return nil
		}
		s.log.Infow("drop_recorded", "temp_c", "unknown")
		return &models.RoastEvent{
			SessionID:   s.id,
			OccurredAt:  when,
			Type:        models.EventDrop,
			Description: "beans dropped before the first reading",
		}
	}
	if !s.tracker.RecordDrop(when, *tempC) {
		return nil
	}
	s.log.Infow("drop_recorded", "temp_c", *tempC)
	return &models.RoastEvent{
		SessionID:   s.id,
		OccurredAt:  when,
		Type:        models.EventDrop,
		Description: fmt.Sprintf("beans dropped at %.1f°C", *tempC),
		Metadata:    map[string]any{"temp_c": *tempC},
	}
}

// ReportFirstCrack records first crack. Beans must have been charged. Only
// the first report counts; the return value reports whether this call did.
// A zero when means now on the session clock.
func (m *Manager) ReportFirstCrack(when time.Time, tempC float64) (bool, error) {
	if when.IsZero() {
		when = m.clock.Now()
	}
	var ev *models.RoastEvent
	err := m.withSession(func(s *session) error {
		if _, _, charged := s.tracker.Charge(); !charged {
			return roasterr.ErrBeansNotAdded
		}
		if !s.tracker.ReportFirstCrack(when, tempC) {
			return nil
		}
		s.log.Infow("first_crack_reported", "temp_c", tempC)
		ev = &models.RoastEvent{
			SessionID:   s.id,
			OccurredAt:  when,
			Type:        models.EventFirstCrack,
			Description: fmt.Sprintf("first crack at %.1f°C", tempC),
			Metadata:    map[string]any{"temp_c": tempC},
		}
		return nil
	})
	if ev != nil {
		m.record(*ev)
	}
	return ev != nil, err
}

// LoadBeans charges a simulated roaster. Real roasters are charged by hand
// and the charge is detected from telemetry.
func (m *Manager) LoadBeans() error {
	return m.withSession(func(s *session) error {
		loader, ok := s.backend.(hardware.BeanLoader)
		if !ok {
			return roasterr.InvalidCommand("load_beans", "backend "+s.backend.Kind()+" is charged by hand")
		}
		return loader.LoadBeans()
	})
}

// Now is the session clock, which runs scaled under the demo backend.
func (m *Manager) Now() time.Time { return m.clock.Now() }

// Status returns a snapshot built from cached state. It never touches the
// device.
func (m *Manager) Status() models.RoastStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.sess
	if s == nil {
		return models.RoastStatus{}
	}
	info := s.backend.Info()
	st := models.RoastStatus{
		SessionID:      s.id,
		SessionActive:  true,
		RoasterRunning: s.drumRunning,
		Sensors:        s.latest,
		Metrics:        s.tracker.Metrics(),
		Connection: models.ConnectionInfo{
			Connected: s.backend.IsConnected(),
			Backend:   s.backend.Kind(),
			Brand:     info.Brand,
			Model:     info.Model,
			Version:   info.Version,
		},
	}
	if at, _, ok := s.tracker.Charge(); ok {
		st.Timestamps.ChargeUTC, st.Timestamps.ChargeLocal = m.stamp(at)
	}
	if at, _, ok := s.tracker.FirstCrack(); ok {
		st.Timestamps.FirstCrackUTC, st.Timestamps.FirstCrackLocal = m.stamp(at)
	}
	if at, _, ok := s.tracker.Drop(); ok {
		st.Timestamps.DropUTC, st.Timestamps.DropLocal = m.stamp(at)
	}
	return st
}

func (m *Manager) stamp(t time.Time) (*time.Time, *time.Time) {
	utc, local := t.UTC(), t.In(m.cfg.Location)
	return &utc, &local
}

func (m *Manager) record(e models.RoastEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	m.recordCtx(ctx, e)
}

func (m *Manager) recordCtx(ctx context.Context, e models.RoastEvent) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = m.clock.Now()
	}
	if err := m.rec.RecordEvent(ctx, e); err != nil {
		m.log.Errorw("record_event_failed", "session_id", e.SessionID, "type", e.Type, "err", err)
	}
}
