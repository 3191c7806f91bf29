package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"controlling_roaster/internal/config"
	"controlling_roaster/internal/hardware"
	"controlling_roaster/internal/logger"
	"controlling_roaster/internal/repository"
	"controlling_roaster/internal/service"

	"github.com/spf13/cobra"
)

const defaultSimTick = 200 * time.Millisecond

var (
	simScenario string
	simSpeed    float64
	simSeed     int64
	simTick     time.Duration
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run one unattended roast on the demo roaster and print the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulate,
	}
	cmd.Flags().StringVar(&simScenario, "scenario", "", fmt.Sprintf("demo scenario %v (default from config)", hardware.ScenarioNames()))
	cmd.Flags().Float64Var(&simSpeed, "speed", 0, "clock speed-up factor (default from config)")
	cmd.Flags().Int64Var(&simSeed, "seed", 0, "sensor noise seed (default from config)")
	cmd.Flags().DurationVar(&simTick, "tick", defaultSimTick, "how often the roast plan is evaluated")
	return cmd
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("error reading config: %w", err)
	}
	applySimFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	conn, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB(conn, log)

	repos := repository.NewRepository(conn)
	sessions := newSessionManager(cfg, newClock(cfg), repos, log)
	services := service.NewService(repos, sessions, log)
	sim := service.NewSimulatorService(services.Roaster, services.Monitoring,
		service.DefaultRoastPlan(cfg.Tracker), log.Named("simulator"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infow("simulation_started", "scenario", cfg.Demo.Scenario, "speed", cfg.Demo.Speed, "seed", cfg.Demo.Seed)
	final, runErr := sim.Run(ctx, simTick)
	if err := sessions.StopSession(); err != nil {
		log.Errorw("session_stop_failed", "err", err)
	}
	if runErr != nil {
		return fmt.Errorf("simulation: %w", runErr)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(final)
}

// applySimFlags overrides config with explicitly set flags and forces the
// demo backend.
func applySimFlags(cmd *cobra.Command, cfg *config.Config) {
	cfg.Hardware.Backend = config.BackendDemo
	if cmd.Flags().Changed("scenario") {
		cfg.Demo.Scenario = simScenario
	}
	if cmd.Flags().Changed("speed") {
		cfg.Demo.Speed = simSpeed
	}
	if cmd.Flags().Changed("seed") {
		cfg.Demo.Seed = simSeed
	}
}
