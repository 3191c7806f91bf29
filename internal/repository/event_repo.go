package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"controlling_roaster/internal/models"

	"github.com/google/uuid"
)

const (
	insertEventSQL = `
		INSERT INTO roast_events (id, session_id, occurred_at, type, message, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	selectEventsSQL = `SELECT id, session_id, occurred_at, type, message, meta FROM roast_events`
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

// Append inserts a new event. If EventID or OccurredAt are empty, they're set.
func (r *EventSQLite) Append(ctx context.Context, e models.RoastEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	var meta *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			meta = &s
		}
	}

	var session *string
	if e.SessionID != "" {
		session = &e.SessionID
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		session,
		e.OccurredAt,
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Description,
		meta,
	)
	return err
}

// List returns events matching f, oldest first.
func (r *EventSQLite) List(ctx context.Context, f EventFilter) ([]models.RoastEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !f.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, f.To.UTC())
	}
	if typ := strings.ToUpper(strings.TrimSpace(f.Type)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}
	if f.SessionID != "" {
		conds = append(conds, "session_id = ?")
		args = append(args, f.SessionID)
	}

	q := selectEventsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.RoastEvent, 0, 64)
	for rows.Next() {
		var (
			ev      models.RoastEvent
			session sql.NullString
			metaStr sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &session, &ev.OccurredAt, &ev.Type, &ev.Description, &metaStr); err != nil {
			return nil, err
		}
		ev.SessionID = session.String
		ev.OccurredAt = ev.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
