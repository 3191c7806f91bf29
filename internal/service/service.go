package service

import (
	"context"
	"time"

	"controlling_roaster/internal/logger"
	"controlling_roaster/internal/models"
	"controlling_roaster/internal/repository"
)

// Roaster exposes the commands a client may issue.
type Roaster interface {
	StartSession(ctx context.Context) (string, error)
	StopSession(ctx context.Context) error
	SetHeat(ctx context.Context, level int) error
	SetFan(ctx context.Context, speed int) error
	StartRoaster(ctx context.Context) error
	StopRoaster(ctx context.Context) error
	DropBeans(ctx context.Context) error
	StartCooling(ctx context.Context) error
	StopCooling(ctx context.Context) error
	LoadBeans(ctx context.Context) error
	ReportFirstCrack(ctx context.Context, when time.Time, tempC float64) (bool, error)
}

// Monitoring exposes read-only roast state.
type Monitoring interface {
	GetRoastStatus(ctx context.Context) models.RoastStatus
}

// EventLog exposes the persisted roast log.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.RoastEvent, error)
	Readings(ctx context.Context, sessionID string, limit int) ([]models.SensorReading, error)
}

// SessionController is the part of the session manager the services drive.
type SessionController interface {
	StartSession() (string, error)
	StopSession() error
	CurrentSessionID() string
	SetHeat(percent int) error
	SetFan(percent int) error
	StartRoaster() error
	StopRoaster() error
	DropBeans() error
	StartCooling() error
	StopCooling() error
	LoadBeans() error
	ReportFirstCrack(when time.Time, tempC float64) (bool, error)
	Status() models.RoastStatus
	Now() time.Time
}

type Service struct {
	Roaster
	Monitoring
	EventLog
}

func NewService(repos *repository.Repository, sessions SessionController, log *logger.Logger) *Service {
	return &Service{
		Roaster:    NewRoasterService(sessions, repos.EventRepo, log),
		Monitoring: NewMonitoringService(sessions),
		EventLog:   NewEventLogService(repos.EventRepo, repos.ReadingRepo),
	}
}
