package repository

import (
	"context"
	"database/sql"
	"time"

	"controlling_roaster/internal/models"
)

// EventFilter narrows List. Zero fields do not filter.
type EventFilter struct {
	From      time.Time
	To        time.Time
	Type      string
	SessionID string
	Limit     int
}

type EventRepo interface {
	Append(ctx context.Context, e models.RoastEvent) error
	List(ctx context.Context, f EventFilter) ([]models.RoastEvent, error)
}

type ReadingRepo interface {
	Append(ctx context.Context, sessionID string, r models.SensorReading) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]models.SensorReading, error)
}

type Repository struct {
	EventRepo   EventRepo
	ReadingRepo ReadingRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo:   NewEventSQLite(db),
		ReadingRepo: NewReadingSQLite(db),
	}
}

// RecordEvent and RecordReading let a Repository persist a roast session.
func (r *Repository) RecordEvent(ctx context.Context, e models.RoastEvent) error {
	return r.EventRepo.Append(ctx, e)
}

func (r *Repository) RecordReading(ctx context.Context, sessionID string, rd models.SensorReading) error {
	return r.ReadingRepo.Append(ctx, sessionID, rd)
}
