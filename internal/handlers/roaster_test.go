package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"controlling_roaster/internal/models"
	"controlling_roaster/internal/roasterr"
	"controlling_roaster/internal/service"
)

func newRoasterRouter() (*mockRoaster, *mockMonitoring, http.Handler) {
	roaster := &mockRoaster{sessionID: "sess-1", recorded: true}
	mon := &mockMonitoring{status: models.RoastStatus{
		SessionID:     "sess-1",
		SessionActive: true,
		Sensors:       models.SensorReading{BeanTempC: 180, ChamberTempC: 220},
	}}
	s := &service.Service{Roaster: roaster, Monitoring: mon, EventLog: &mockEventLog{}}
	return roaster, mon, newTestRouter(s)
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	_, _, r := newRoasterRouter()
	w := doJSON(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}
}

func TestRoasterHandlers_CommandsReturnStatus(t *testing.T) {
	cases := []struct {
		path string
		body string
		call string
		want string
	}{
		{"/api/v1/session/start", "", "start_session", "session_started"},
		{"/api/v1/roaster/heat", `{"level":80}`, "set_heat", "heat_set"},
		{"/api/v1/roaster/fan", `{"speed":30}`, "set_fan", "fan_set"},
		{"/api/v1/roaster/start", "", "start_roaster", "start_roaster"},
		{"/api/v1/roaster/stop", "", "stop_roaster", "stop_roaster"},
		{"/api/v1/roaster/drop", "", "drop_beans", "drop_beans"},
		{"/api/v1/roaster/cooling/start", "", "start_cooling", "start_cooling"},
		{"/api/v1/roaster/cooling/stop", "", "stop_cooling", "stop_cooling"},
		{"/api/v1/roaster/load-beans", "", "load_beans", "load_beans"},
		{"/api/v1/roaster/first-crack", `{"temperature_c":196.5}`, "first_crack", "first_crack_reported"},
	}
	for _, tc := range cases {
		t.Run(tc.call, func(t *testing.T) {
			roaster, mon, r := newRoasterRouter()
			w := doJSON(r, http.MethodPost, tc.path, tc.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			if len(roaster.calls) != 1 || roaster.calls[0] != tc.call {
				t.Fatalf("calls=%v, want [%s]", roaster.calls, tc.call)
			}
			var out struct {
				Status string             `json:"status"`
				Roast  models.RoastStatus `json:"roast"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if out.Status != tc.want {
				t.Fatalf("status=%q, want %q", out.Status, tc.want)
			}
			if mon.calls.Load() != 1 || out.Roast.SessionID != "sess-1" || out.Roast.Sensors.BeanTempC != 180 {
				t.Fatalf("roast status not attached: %+v", out.Roast)
			}
		})
	}
}

func TestRoasterHandlers_PassValues(t *testing.T) {
	roaster, _, r := newRoasterRouter()

	doJSON(r, http.MethodPost, "/api/v1/roaster/heat", `{"level":0}`)
	if roaster.lastHeat != 0 || len(roaster.calls) != 1 {
		t.Fatalf("explicit zero heat must be forwarded, calls=%v", roaster.calls)
	}
	doJSON(r, http.MethodPost, "/api/v1/roaster/fan", `{"speed":70}`)
	if roaster.lastFan != 70 {
		t.Fatalf("lastFan=%d", roaster.lastFan)
	}

	w := doJSON(r, http.MethodPost, "/api/v1/roaster/first-crack", `{"temperature_c":201,"timestamp":"2025-08-27T15:04:05+02:00"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("first crack status=%d body=%s", w.Code, w.Body.String())
	}
	want := time.Date(2025, 8, 27, 13, 4, 5, 0, time.UTC)
	if !roaster.lastCrackAt.Equal(want) || roaster.lastCrackTemp != 201 {
		t.Fatalf("first crack got at=%v temp=%v", roaster.lastCrackAt, roaster.lastCrackTemp)
	}
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out["recorded"] != true {
		t.Fatalf("recorded=%v", out["recorded"])
	}
}

func TestRoasterHandlers_BadBodies(t *testing.T) {
	cases := []struct {
		name string
		path string
		body string
	}{
		{"heat missing level", "/api/v1/roaster/heat", `{}`},
		{"heat not a number", "/api/v1/roaster/heat", `{"level":"hot"}`},
		{"fan malformed", "/api/v1/roaster/fan", `{"speed":`},
		{"first crack missing temp", "/api/v1/roaster/first-crack", `{"timestamp":"2025-08-27T15:04:05Z"}`},
		{"first crack bad timestamp", "/api/v1/roaster/first-crack", `{"temperature_c":196,"timestamp":"yesterday"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			roaster, _, r := newRoasterRouter()
			w := doJSON(r, http.MethodPost, tc.path, tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d, want 400", w.Code)
			}
			if len(roaster.calls) != 0 {
				t.Fatalf("service must not be called on bad input, calls=%v", roaster.calls)
			}
		})
	}
}

func TestRoasterHandlers_ErrorCodes(t *testing.T) {
	cases := []struct {
		err      error
		wantHTTP int
		wantCode string
	}{
		{roasterr.InvalidCommand("set_heat", "must be a multiple of 10"), http.StatusBadRequest, "INVALID_COMMAND"},
		{roasterr.ErrNoActiveRoast, http.StatusConflict, "NO_ACTIVE_ROAST"},
		{fmt.Errorf("first crack: %w", roasterr.ErrBeansNotAdded), http.StatusConflict, "BEANS_NOT_ADDED"},
		{roasterr.ErrNotConnected, http.StatusServiceUnavailable, "NOT_CONNECTED"},
		{roasterr.ConnectionFailed("open /dev/ttyUSB0", errors.New("no such file")), http.StatusBadGateway, "CONNECTION_FAILED"},
		{errors.New("disk full"), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d_%s", tc.wantHTTP, tc.wantCode), func(t *testing.T) {
			roaster, _, r := newRoasterRouter()
			roaster.err = tc.err
			w := doJSON(r, http.MethodPost, "/api/v1/roaster/heat", `{"level":50}`)
			if w.Code != tc.wantHTTP {
				t.Fatalf("status=%d, want %d", w.Code, tc.wantHTTP)
			}
			var out map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out["code"] != tc.wantCode {
				t.Fatalf("code=%q, want %q", out["code"], tc.wantCode)
			}
			if out["error"] == "" {
				t.Fatalf("missing error message")
			}
			if tc.wantCode == "" && out["error"] != "failed to set heat" {
				t.Fatalf("internal errors must not leak: %q", out["error"])
			}
		})
	}
}

func TestStopSession(t *testing.T) {
	roaster, mon, r := newRoasterRouter()
	w := doJSON(r, http.MethodPost, "/api/v1/session/stop", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if len(roaster.calls) != 1 || roaster.calls[0] != "stop_session" {
		t.Fatalf("calls=%v", roaster.calls)
	}
	if mon.calls.Load() != 0 {
		t.Fatalf("stop must not query status")
	}
}

func TestGetStatus(t *testing.T) {
	_, _, r := newRoasterRouter()
	w := doJSON(r, http.MethodGet, "/api/v1/roaster/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var st models.RoastStatus
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !st.SessionActive || st.Sensors.ChamberTempC != 220 {
		t.Fatalf("unexpected status: %+v", st)
	}
}
