package service

import (
	"context"
	"fmt"
	"time"

	"controlling_roaster/internal/logger"
	"controlling_roaster/internal/models"
	"controlling_roaster/internal/repository"
	"controlling_roaster/internal/roasterr"
)

type RoasterService struct {
	sessions  SessionController
	eventRepo repository.EventRepo
	log       *logger.Logger
}

func NewRoasterService(sessions SessionController, eventRepo repository.EventRepo, log *logger.Logger) *RoasterService {
	return &RoasterService{sessions: sessions, eventRepo: eventRepo, log: log}
}

func (s *RoasterService) StartSession(ctx context.Context) (string, error) {
	return s.sessions.StartSession()
}

func (s *RoasterService) StopSession(ctx context.Context) error {
	return s.sessions.StopSession()
}

func (s *RoasterService) SetHeat(ctx context.Context, level int) error {
	return s.command(ctx, "set_heat", map[string]any{"level": level}, func() error {
		return s.sessions.SetHeat(level)
	})
}

func (s *RoasterService) SetFan(ctx context.Context, speed int) error {
	return s.command(ctx, "set_fan", map[string]any{"speed": speed}, func() error {
		return s.sessions.SetFan(speed)
	})
}

// StartRoaster starts a session if none is active, then the drum.
func (s *RoasterService) StartRoaster(ctx context.Context) error {
	if _, err := s.sessions.StartSession(); err != nil {
		return err
	}
	return s.command(ctx, "start_roaster", nil, s.sessions.StartRoaster)
}

func (s *RoasterService) StopRoaster(ctx context.Context) error {
	return s.command(ctx, "stop_roaster", nil, s.sessions.StopRoaster)
}

func (s *RoasterService) DropBeans(ctx context.Context) error {
	return s.command(ctx, "drop_beans", nil, s.sessions.DropBeans)
}

func (s *RoasterService) StartCooling(ctx context.Context) error {
	return s.command(ctx, "start_cooling", nil, s.sessions.StartCooling)
}

func (s *RoasterService) StopCooling(ctx context.Context) error {
	return s.command(ctx, "stop_cooling", nil, s.sessions.StopCooling)
}

func (s *RoasterService) LoadBeans(ctx context.Context) error {
	return s.command(ctx, "load_beans", nil, s.sessions.LoadBeans)
}

// ReportFirstCrack forwards a detector report. The temperature must lie in
// [MinFirstCrackC, MaxFirstCrackC]; a zero time is left for the session
// clock to fill in.
func (s *RoasterService) ReportFirstCrack(ctx context.Context, when time.Time, tempC float64) (bool, error) {
	if tempC < MinFirstCrackC || tempC > MaxFirstCrackC {
		return false, roasterr.InvalidCommand("report_first_crack",
			fmt.Sprintf("temperature %.1f°C outside %.0f..%.0f", tempC, MinFirstCrackC, MaxFirstCrackC))
	}
	if !when.IsZero() {
		when = when.UTC()
	}
	return s.sessions.ReportFirstCrack(when, tempC)
}

// command runs fn and logs it to the roast log. A failed log write does not
// fail the command; the hardware has already acted.
func (s *RoasterService) command(ctx context.Context, name string, args map[string]any, fn func() error) error {
	if err := fn(); err != nil {
		s.log.Debugw("command_rejected", "command", name, "code", roasterr.CodeOf(err), "err", err)
		return err
	}

	meta := map[string]any{"command": name}
	for k, v := range args {
		meta[k] = v
	}
	desc := name
	if len(args) > 0 {
		desc = fmt.Sprintf("%s %v", name, args)
	}
	err := s.eventRepo.Append(ctx, models.RoastEvent{
		SessionID:   s.sessions.CurrentSessionID(),
		OccurredAt:  s.sessions.Now().UTC(),
		Type:        models.EventCommand,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		s.log.Errorw("command_log_failed", "command", name, "err", err)
	}
	return nil
}
