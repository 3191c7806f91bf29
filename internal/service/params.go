package service

import "time"

// First crack temperatures outside this range are rejected as detector noise.
const (
	MinFirstCrackC = 150.0
	MaxFirstCrackC = 250.0
)

// LogFilter supports history filtering by time range, type and session.
type LogFilter struct {
	From      time.Time // inclusive; zero means no lower bound
	To        time.Time // inclusive; zero means no upper bound
	Type      string    // "", or one of the models.Event* types
	SessionID string
	Limit     int
}
