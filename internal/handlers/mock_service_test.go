package handlers

import (
	"context"
	"sync/atomic"
	"time"

	"controlling_roaster/internal/models"
	"controlling_roaster/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockRoaster struct {
	sessionID string
	err       error // returned by every command
	recorded  bool

	calls         []string
	lastHeat      int
	lastFan       int
	lastCrackAt   time.Time
	lastCrackTemp float64
}

func (m *mockRoaster) call(name string) error {
	m.calls = append(m.calls, name)
	return m.err
}

func (m *mockRoaster) StartSession(ctx context.Context) (string, error) {
	return m.sessionID, m.call("start_session")
}
func (m *mockRoaster) StopSession(ctx context.Context) error { return m.call("stop_session") }
func (m *mockRoaster) SetHeat(ctx context.Context, level int) error {
	m.lastHeat = level
	return m.call("set_heat")
}
func (m *mockRoaster) SetFan(ctx context.Context, speed int) error {
	m.lastFan = speed
	return m.call("set_fan")
}
func (m *mockRoaster) StartRoaster(ctx context.Context) error { return m.call("start_roaster") }
func (m *mockRoaster) StopRoaster(ctx context.Context) error  { return m.call("stop_roaster") }
func (m *mockRoaster) DropBeans(ctx context.Context) error    { return m.call("drop_beans") }
func (m *mockRoaster) StartCooling(ctx context.Context) error { return m.call("start_cooling") }
func (m *mockRoaster) StopCooling(ctx context.Context) error  { return m.call("stop_cooling") }
func (m *mockRoaster) LoadBeans(ctx context.Context) error    { return m.call("load_beans") }
func (m *mockRoaster) ReportFirstCrack(ctx context.Context, when time.Time, tempC float64) (bool, error) {
	m.lastCrackAt = when
	m.lastCrackTemp = tempC
	return m.recorded, m.call("first_crack")
}

type mockMonitoring struct {
	status models.RoastStatus
	calls  atomic.Int64
}

func (m *mockMonitoring) GetRoastStatus(ctx context.Context) models.RoastStatus {
	m.calls.Add(1)
	return m.status
}

type mockEventLog struct {
	resp     []models.RoastEvent
	readings []models.SensorReading
	err      error

	lastFilter  service.LogFilter
	lastSession string
	lastLimit   int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.RoastEvent, error) {
	m.lastFilter = f
	return m.resp, m.err
}

func (m *mockEventLog) Readings(ctx context.Context, sessionID string, limit int) ([]models.SensorReading, error) {
	m.lastSession = sessionID
	m.lastLimit = limit
	return m.readings, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
