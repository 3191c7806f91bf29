package service

import (
	"context"

	"controlling_roaster/internal/models"
)

type MonitoringService struct {
	sessions SessionController
}

func NewMonitoringService(sessions SessionController) *MonitoringService {
	return &MonitoringService{sessions: sessions}
}

// GetRoastStatus returns the cached roast snapshot. It never waits on the
// device; with no session it is the zero status.
func (s *MonitoringService) GetRoastStatus(ctx context.Context) models.RoastStatus {
	return s.sessions.Status()
}
