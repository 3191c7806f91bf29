package models

import "time"

// RoastMetrics is derived from the tracker on every status query.
// Pointer fields stay nil until their preconditions are met.
type RoastMetrics struct {
	RoastElapsedSeconds *float64 `json:"roast_elapsed_seconds,omitempty"`
	RoastElapsedDisplay string   `json:"roast_elapsed_display,omitempty"` // MM:SS
	RateOfRise          *float64 `json:"rate_of_rise,omitempty"`          // °C/min
	BeansAddedTempC     *float64 `json:"beans_added_temp_c,omitempty"`

	FirstCrackTime           *time.Time `json:"first_crack_time,omitempty"`
	FirstCrackTempC          *float64   `json:"first_crack_temp_c,omitempty"`
	FirstCrackElapsedSeconds *float64   `json:"first_crack_elapsed_seconds,omitempty"`
	FirstCrackElapsedDisplay string     `json:"first_crack_elapsed_display,omitempty"`

	DevelopmentTimeSeconds  *float64 `json:"development_time_seconds,omitempty"`
	DevelopmentTimeDisplay  string   `json:"development_time_display,omitempty"`
	DevelopmentTimePercent  *float64 `json:"development_time_percent,omitempty"`
	DevelopmentInTargetBand *bool    `json:"development_in_target_band,omitempty"`

	DropTime                  *time.Time `json:"drop_time,omitempty"`
	DropTempC                 *float64   `json:"drop_temp_c,omitempty"`
	TotalRoastDurationSeconds *float64   `json:"total_roast_duration_seconds,omitempty"`
	TotalRoastDurationDisplay string     `json:"total_roast_duration_display,omitempty"`
}

// EventTimestamps holds the roast milestones in UTC and in the display zone.
type EventTimestamps struct {
	ChargeUTC       *time.Time `json:"charge_utc,omitempty"`
	ChargeLocal     *time.Time `json:"charge_local,omitempty"`
	FirstCrackUTC   *time.Time `json:"first_crack_utc,omitempty"`
	FirstCrackLocal *time.Time `json:"first_crack_local,omitempty"`
	DropUTC         *time.Time `json:"drop_utc,omitempty"`
	DropLocal       *time.Time `json:"drop_local,omitempty"`
}

// ConnectionInfo describes the backend behind the session.
type ConnectionInfo struct {
	Connected bool   `json:"connected"`
	Backend   string `json:"backend,omitempty"` // serial | mock | demo
	Brand     string `json:"brand,omitempty"`
	Model     string `json:"model,omitempty"`
	Version   string `json:"version,omitempty"`
}

// RoastStatus is the composite snapshot returned by status queries.
// It is built fresh per query and never persisted.
type RoastStatus struct {
	SessionID      string          `json:"session_id,omitempty"`
	SessionActive  bool            `json:"session_active"`
	RoasterRunning bool            `json:"roaster_running"`
	Sensors        SensorReading   `json:"sensors"`
	Metrics        RoastMetrics    `json:"metrics"`
	Timestamps     EventTimestamps `json:"timestamps"`
	Connection     ConnectionInfo  `json:"connection"`
}
