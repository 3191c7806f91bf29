package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Hardware.Backend != BackendMock {
		t.Fatalf("backend = %q", cfg.Hardware.Backend)
	}
	if cfg.Tracker.ChargeDropThresholdC != 10 || cfg.Tracker.PollingInterval != time.Second ||
		cfg.Tracker.RoRWindow != time.Minute {
		t.Fatalf("unexpected tracker defaults %+v", cfg.Tracker)
	}
	if cfg.Tracker.DevTargetMinPercent != 15 || cfg.Tracker.DevTargetMaxPercent != 25 {
		t.Fatalf("unexpected band %+v", cfg.Tracker)
	}
	if cfg.Display.Location == nil || cfg.Display.Location.String() != "UTC" {
		t.Fatalf("location not resolved: %v", cfg.Display.Location)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
hardware:
  backend: serial
  port: /dev/ttyACM0
  baud_rate: 9600
  timeout: 500ms
  temperature_encoding: fahrenheit_tenths
tracker:
  polling_interval: 2s
  ror_window: 30s
display:
  timezone: Europe/Berlin
`)
	t.Setenv("ROASTER_TRACKER_CHARGE_DROP_THRESHOLD_C", "12.5")
	t.Setenv("ROASTER_SERVER_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("env override ignored: port=%q", cfg.Server.Port)
	}
	if cfg.Hardware.BaudRate != 9600 || cfg.Hardware.Timeout != 500*time.Millisecond {
		t.Fatalf("hardware %+v", cfg.Hardware)
	}
	if cfg.Tracker.ChargeDropThresholdC != 12.5 || cfg.Tracker.PollingInterval != 2*time.Second {
		t.Fatalf("tracker %+v", cfg.Tracker)
	}
	if cfg.Display.Location.String() != "Europe/Berlin" {
		t.Fatalf("location %v", cfg.Display.Location)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults ok", func(*Config) {}, ""},
		{"bad baud", func(c *Config) { c.Hardware.BaudRate = 14400 }, "baud_rate"},
		{"band inverted", func(c *Config) {
			c.Tracker.DevTargetMinPercent = 30
			c.Tracker.DevTargetMaxPercent = 20
		}, "exceeds"},
		{"band equal ok", func(c *Config) {
			c.Tracker.DevTargetMinPercent = 20
			c.Tracker.DevTargetMaxPercent = 20
		}, ""},
		{"serial needs encoding", func(c *Config) { c.Hardware.Backend = BackendSerial }, "temperature_encoding"},
		{"serial with encoding", func(c *Config) {
			c.Hardware.Backend = BackendSerial
			c.Hardware.TemperatureEncoding = "celsius"
		}, ""},
		{"unknown backend", func(c *Config) { c.Hardware.Backend = "bluetooth" }, "hardware.backend"},
		{"bad zone", func(c *Config) { c.Display.Timezone = "Mars/Olympus" }, "display.timezone"},
		{"zero poll", func(c *Config) { c.Tracker.PollingInterval = 0 }, "polling_interval"},
		{"zero stop timeout", func(c *Config) { c.Session.StopTimeout = 0 }, "stop_timeout"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}
