package service

import (
	"context"
	"errors"
	"time"

	"controlling_roaster/internal/config"
	"controlling_roaster/internal/logger"
	"controlling_roaster/internal/models"
	"controlling_roaster/internal/roasterr"
)

// RoastPlan scripts an unattended roast. It stands in for the operator and
// the first-crack detector when running against a simulator.
type RoastPlan struct {
	ChargeTempC      float64 // load beans once the empty drum reaches this
	FirstCrackTempC  float64 // report first crack at this bean temperature
	DropAtDevPercent float64
	CoolToC          float64 // stop cooling below this

	RoastHeat       int
	DevelopmentHeat int
	Fan             int
}

// DefaultRoastPlan drops in the middle of the configured development band.
func DefaultRoastPlan(tc config.TrackerConfig) RoastPlan {
	return RoastPlan{
		ChargeTempC:      200,
		FirstCrackTempC:  196,
		DropAtDevPercent: (tc.DevTargetMinPercent + tc.DevTargetMaxPercent) / 2,
		CoolToC:          50,
		RoastHeat:        100,
		DevelopmentHeat:  60,
		Fan:              30,
	}
}

type simStage int

const (
	stageStart simStage = iota
	stagePreheat
	stageRoast
	stageDevelop
	stageCool
	stageDone
)

// SimulatorService drives a whole roast through the Roaster commands.
type SimulatorService struct {
	roaster Roaster
	monitor Monitoring
	plan    RoastPlan
	log     *logger.Logger
	stage   simStage
}

func NewSimulatorService(roaster Roaster, monitor Monitoring, plan RoastPlan, log *logger.Logger) *SimulatorService {
	return &SimulatorService{roaster: roaster, monitor: monitor, plan: plan, log: log}
}

// Run steps the roast at the given interval until it completes or ctx is
// canceled, and returns the status captured just before the session ended.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) (models.RoastStatus, error) {
	t := time.NewTicker(tick)
	defer t.Stop()

	var last models.RoastStatus
	for {
		if st := s.monitor.GetRoastStatus(ctx); st.SessionActive {
			last = st
		}
		done, err := s.Step(ctx)
		if err != nil || done {
			return last, err
		}
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-t.C:
		}
	}
}

// Step advances the plan by at most one action.
func (s *SimulatorService) Step(ctx context.Context) (bool, error) {
	st := s.monitor.GetRoastStatus(ctx)
	m := st.Metrics

	switch s.stage {
	case stageStart:
		if err := s.roaster.StartRoaster(ctx); err != nil {
			return false, err
		}
		if err := s.roaster.SetFan(ctx, s.plan.Fan); err != nil {
			return false, err
		}
		if err := s.roaster.SetHeat(ctx, s.plan.RoastHeat); err != nil {
			return false, err
		}
		s.log.Infow("sim_preheat", "heat", s.plan.RoastHeat, "fan", s.plan.Fan)
		s.stage = stagePreheat

	case stagePreheat:
		if st.Timestamps.ChargeUTC != nil {
			s.log.Infow("sim_charged", "temp_c", deref(m.BeansAddedTempC))
			s.stage = stageRoast
			break
		}
		if st.Sensors.BeanTempC >= s.plan.ChargeTempC {
			// The demo roaster may have charged itself already.
			if err := s.roaster.LoadBeans(ctx); err != nil && !errors.Is(err, roasterr.ErrInvalidCommand) {
				return false, err
			}
		}

	case stageRoast:
		if st.Sensors.BeanTempC < s.plan.FirstCrackTempC {
			break
		}
		if _, err := s.roaster.ReportFirstCrack(ctx, st.Sensors.Timestamp, st.Sensors.BeanTempC); err != nil {
			return false, err
		}
		if err := s.roaster.SetHeat(ctx, s.plan.DevelopmentHeat); err != nil {
			return false, err
		}
		s.log.Infow("sim_first_crack", "temp_c", st.Sensors.BeanTempC, "elapsed", m.RoastElapsedDisplay)
		s.stage = stageDevelop

	case stageDevelop:
		if m.DevelopmentTimePercent == nil || *m.DevelopmentTimePercent < s.plan.DropAtDevPercent {
			break
		}
		if err := s.roaster.DropBeans(ctx); err != nil {
			return false, err
		}
		s.log.Infow("sim_drop", "temp_c", st.Sensors.BeanTempC, "development_percent", *m.DevelopmentTimePercent)
		s.stage = stageCool

	case stageCool:
		if st.Sensors.BeanTempC > s.plan.CoolToC {
			break
		}
		if err := s.roaster.StopCooling(ctx); err != nil {
			return false, err
		}
		if err := s.roaster.StopSession(ctx); err != nil {
			return false, err
		}
		s.log.Infow("sim_done", "total", m.TotalRoastDurationDisplay, "development", m.DevelopmentTimeDisplay)
		s.stage = stageDone
	}
	return s.stage == stageDone, nil
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
