// Package config loads service settings from configs/config.yml, a local
// .env file and ROASTER_* environment variables, in that order of precedence
// (environment wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"controlling_roaster/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "ROASTER"

// Backend selectors.
const (
	BackendSerial = "serial"
	BackendMock   = "mock"
	BackendDemo   = "demo"
)

// BaudRates lists the serial speeds the driver accepts.
var BaudRates = []int{9600, 19200, 38400, 57600, 115200, 230400, 460800, 921600}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Hardware HardwareConfig `mapstructure:"hardware"`
	Tracker  TrackerConfig  `mapstructure:"tracker"`
	Session  SessionConfig  `mapstructure:"session"`
	Display  DisplayConfig  `mapstructure:"display"`
	Demo     DemoConfig     `mapstructure:"demo"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console | json
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

// HardwareConfig selects and parameterizes the roaster backend.
// TemperatureEncoding has no default; the serial backend requires it.
type HardwareConfig struct {
	Backend             string        `mapstructure:"backend"`
	Port                string        `mapstructure:"port"`
	BaudRate            int           `mapstructure:"baud_rate"`
	Timeout             time.Duration `mapstructure:"timeout"`
	TemperatureEncoding string        `mapstructure:"temperature_encoding"`
}

// TrackerConfig holds the roast tracker thresholds.
type TrackerConfig struct {
	ChargeDropThresholdC  float64       `mapstructure:"charge_drop_threshold_c"`
	PollingInterval       time.Duration `mapstructure:"polling_interval"`
	RoRWindow             time.Duration `mapstructure:"ror_window"`
	DevTargetMinPercent   float64       `mapstructure:"dev_target_min_percent"`
	DevTargetMaxPercent   float64       `mapstructure:"dev_target_max_percent"`
	StallThresholdCPerMin float64       `mapstructure:"stall_threshold_c_per_min"`
}

type SessionConfig struct {
	StopTimeout time.Duration `mapstructure:"stop_timeout"`
}

// DisplayConfig controls how event timestamps are rendered for people.
// Location is resolved from Timezone by Validate.
type DisplayConfig struct {
	Timezone string         `mapstructure:"timezone"`
	Location *time.Location `mapstructure:"-"`
}

// DemoConfig drives the scenario simulator. Speed scales the demo clock.
type DemoConfig struct {
	Scenario string  `mapstructure:"scenario"`
	Speed    float64 `mapstructure:"speed"`
	Seed     int64   `mapstructure:"seed"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("log.format", logger.FormatConsole)
	v.SetDefault("db.path", "roaster.db")

	v.SetDefault("hardware.backend", BackendMock)
	v.SetDefault("hardware.port", "/dev/ttyUSB0")
	v.SetDefault("hardware.baud_rate", 115200)
	v.SetDefault("hardware.timeout", time.Second)
	v.SetDefault("hardware.temperature_encoding", "")

	v.SetDefault("tracker.charge_drop_threshold_c", 10.0)
	v.SetDefault("tracker.polling_interval", time.Second)
	v.SetDefault("tracker.ror_window", 60*time.Second)
	v.SetDefault("tracker.dev_target_min_percent", 15.0)
	v.SetDefault("tracker.dev_target_max_percent", 25.0)
	v.SetDefault("tracker.stall_threshold_c_per_min", 2.0)

	v.SetDefault("session.stop_timeout", 5*time.Second)
	v.SetDefault("display.timezone", "UTC")

	v.SetDefault("demo.scenario", "medium")
	v.SetDefault("demo.speed", 1.0)
	v.SetDefault("demo.seed", 1)
}

// Default returns the built-in configuration, already validated.
func Default() *Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the config file at path (or configs/config.yml when path is
// empty), applies .env and environment overrides and validates the result.
// A missing default config file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints and resolves the display zone.
func (c *Config) Validate() error {
	var errs []error

	if !logger.ValidLevel(c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level))
	}
	if !logger.ValidFormat(c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format %q must be console or json", c.Log.Format))
	}

	switch c.Hardware.Backend {
	case BackendSerial:
		if c.Hardware.Port == "" {
			errs = append(errs, errors.New("hardware.port is required for the serial backend"))
		}
		switch c.Hardware.TemperatureEncoding {
		case "celsius", "fahrenheit_tenths":
		case "":
			errs = append(errs, errors.New("hardware.temperature_encoding is required for the serial backend (celsius or fahrenheit_tenths)"))
		default:
			errs = append(errs, fmt.Errorf("hardware.temperature_encoding %q is not supported", c.Hardware.TemperatureEncoding))
		}
	case BackendMock, BackendDemo:
	default:
		errs = append(errs, fmt.Errorf("hardware.backend %q must be one of serial, mock, demo", c.Hardware.Backend))
	}
	if !validBaud(c.Hardware.BaudRate) {
		errs = append(errs, fmt.Errorf("hardware.baud_rate %d must be one of %v", c.Hardware.BaudRate, BaudRates))
	}
	if c.Hardware.Timeout <= 0 {
		errs = append(errs, errors.New("hardware.timeout must be positive"))
	}

	t := c.Tracker
	if t.ChargeDropThresholdC <= 0 {
		errs = append(errs, errors.New("tracker.charge_drop_threshold_c must be positive"))
	}
	if t.PollingInterval <= 0 {
		errs = append(errs, errors.New("tracker.polling_interval must be positive"))
	}
	if t.RoRWindow <= 0 {
		errs = append(errs, errors.New("tracker.ror_window must be positive"))
	}
	if t.DevTargetMinPercent < 0 || t.DevTargetMaxPercent > 100 {
		errs = append(errs, errors.New("tracker development band must lie within 0..100"))
	}
	if t.DevTargetMinPercent > t.DevTargetMaxPercent {
		errs = append(errs, fmt.Errorf("tracker.dev_target_min_percent %.1f exceeds dev_target_max_percent %.1f",
			t.DevTargetMinPercent, t.DevTargetMaxPercent))
	}
	if t.StallThresholdCPerMin < 0 {
		errs = append(errs, errors.New("tracker.stall_threshold_c_per_min must not be negative"))
	}

	if c.Session.StopTimeout <= 0 {
		errs = append(errs, errors.New("session.stop_timeout must be positive"))
	}
	if c.Demo.Speed <= 0 {
		errs = append(errs, errors.New("demo.speed must be positive"))
	}

	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("display.timezone %q: %w", c.Display.Timezone, err))
	} else {
		c.Display.Location = loc
	}

	return errors.Join(errs...)
}

func validBaud(b int) bool {
	for _, r := range BaudRates {
		if r == b {
			return true
		}
	}
	return false
}

// DBPath returns the database path made absolute against the working
// directory, so logs show where the roast log actually lives.
func (c *Config) DBPath() string {
	if c.DB.Path == "" || c.DB.Path == ":memory:" || filepath.IsAbs(c.DB.Path) {
		return c.DB.Path
	}
	wd, err := os.Getwd()
	if err != nil {
		return c.DB.Path
	}
	return filepath.Join(wd, c.DB.Path)
}
