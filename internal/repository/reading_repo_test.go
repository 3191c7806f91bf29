package repository_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"controlling_roaster/internal/models"
	"controlling_roaster/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool {
	return f(v)
}

func TestReadingSQLite_Append_StoresUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewReadingSQLite(db)

	local := time.Date(2025, 3, 1, 10, 15, 0, 0, time.FixedZone("UTC+1", 3600))
	isExactUTC := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		return ok && tm.Equal(local) && tm.Location() == time.UTC
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sensor_readings")).
		WithArgs("sess-1", isExactUTC, 187.5, 231.0, 30, 80).
		WillReturnResult(sqlmock.NewResult(1, 1))

	r := models.SensorReading{Timestamp: local, BeanTempC: 187.5, ChamberTempC: 231, FanSpeed: 30, HeatLevel: 80}
	if err := repo.Append(context.Background(), "sess-1", r); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReadingSQLite_Append_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sensor_readings")).WillReturnError(errors.New("disk full"))

	err = repository.NewReadingSQLite(db).Append(context.Background(), "s", models.SensorReading{})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestReadingSQLite_ListBySession(t *testing.T) {
	cases := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"explicit limit", 50, 50},
		{"default limit", 0, 7200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock.New(): %v", err)
			}
			defer db.Close()

			t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
			rows := sqlmock.NewRows([]string{"taken_at", "bean_c", "chamber_c", "fan_pct", "heat_pct"}).
				AddRow(t0, 180.0, 220.0, 0, 100).
				AddRow(t0.Add(time.Second), 95.0, 200.0, 0, 100)

			mock.ExpectQuery(regexp.QuoteMeta("FROM sensor_readings WHERE session_id = ?")).
				WithArgs("sess-1", tc.wantLimit).
				WillReturnRows(rows)

			got, err := repository.NewReadingSQLite(db).ListBySession(context.Background(), "sess-1", tc.limit)
			if err != nil {
				t.Fatalf("ListBySession() error = %v", err)
			}
			if len(got) != 2 || got[1].BeanTempC != 95 || got[0].HeatLevel != 100 {
				t.Fatalf("unexpected readings %+v", got)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestRepository_RecordsThroughRepos(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repos := repository.NewRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO roast_events")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sensor_readings")).WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repos.RecordEvent(context.Background(), models.RoastEvent{Type: models.EventCharge}); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	if err := repos.RecordReading(context.Background(), "s", models.SensorReading{Timestamp: time.Now()}); err != nil {
		t.Fatalf("RecordReading: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
