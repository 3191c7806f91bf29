package repository

import (
	"context"
	"database/sql"
	"time"

	"controlling_roaster/internal/models"
)

const (
	insertReadingSQL = `
		INSERT INTO sensor_readings (session_id, taken_at, bean_c, chamber_c, fan_pct, heat_pct)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectReadingsSQL = `
		SELECT taken_at, bean_c, chamber_c, fan_pct, heat_pct
		FROM sensor_readings WHERE session_id = ?
		ORDER BY taken_at ASC, id ASC
	`

	// defaultReadingLimit caps a listing at roughly two hours of 1 Hz polling.
	defaultReadingLimit = 7200
)

type ReadingSQLite struct {
	db *sql.DB
}

func NewReadingSQLite(db *sql.DB) *ReadingSQLite {
	return &ReadingSQLite{db: db}
}

// Append stores one polled reading under its session.
func (r *ReadingSQLite) Append(ctx context.Context, sessionID string, rd models.SensorReading) error {
	ts := rd.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}
	_, err := r.db.ExecContext(ctx, insertReadingSQL,
		sessionID,
		ts,
		rd.BeanTempC,
		rd.ChamberTempC,
		rd.FanSpeed,
		rd.HeatLevel,
	)
	return err
}

// ListBySession returns a session's readings in poll order. A non-positive
// limit uses the default cap.
func (r *ReadingSQLite) ListBySession(ctx context.Context, sessionID string, limit int) ([]models.SensorReading, error) {
	if limit <= 0 {
		limit = defaultReadingLimit
	}
	rows, err := r.db.QueryContext(ctx, selectReadingsSQL+" LIMIT ?", sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.SensorReading, 0, 128)
	for rows.Next() {
		var rd models.SensorReading
		if err := rows.Scan(&rd.Timestamp, &rd.BeanTempC, &rd.ChamberTempC, &rd.FanSpeed, &rd.HeatLevel); err != nil {
			return nil, err
		}
		rd.Timestamp = rd.Timestamp.UTC()
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
