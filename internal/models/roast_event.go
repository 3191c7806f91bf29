package models

import "time"

// Roast event types.
const (
	EventSessionStart = "SESSION_START"
	EventSessionStop  = "SESSION_STOP"
	EventCommand      = "COMMAND"
	EventCharge       = "CHARGE"
	EventFirstCrack   = "FIRST_CRACK"
	EventDrop         = "DROP"
	EventWarning      = "WARNING"
)

// RoastEvent is a single roast log entry.
type RoastEvent struct {
	EventID     string    `json:"event_id"`
	SessionID   string    `json:"session_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // one of the Event* constants
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
