package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"controlling_roaster/internal/models"
	"controlling_roaster/internal/repository"
)

type EventLogService struct {
	eventRepo   repository.EventRepo
	readingRepo repository.ReadingRepo
}

func NewEventLogService(eventRepo repository.EventRepo, readingRepo repository.ReadingRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo, readingRepo: readingRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	errMissingSession   = errors.New("session id is required")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f LogFilter) (repository.EventFilter, error) {
	out := repository.EventFilter{
		From:      normalizeToUTC(f.From),
		To:        normalizeToUTC(f.To),
		Type:      strings.TrimSpace(strings.ToUpper(f.Type)),
		SessionID: strings.TrimSpace(f.SessionID),
		Limit:     f.Limit,
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return repository.EventFilter{}, errInvalidTimeRange
	}
	if out.Limit < 0 {
		out.Limit = 0
	}
	return out, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.RoastEvent, error) {
	rf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, rf)
}

// Readings returns the polled readings of one session.
func (s *EventLogService) Readings(ctx context.Context, sessionID string, limit int) ([]models.SensorReading, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, errMissingSession
	}
	return s.readingRepo.ListBySession(ctx, sessionID, limit)
}
