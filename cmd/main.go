package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "controlling_roaster/docs"
	"controlling_roaster/internal/clock"
	"controlling_roaster/internal/config"
	"controlling_roaster/internal/handlers"
	"controlling_roaster/internal/hardware"
	"controlling_roaster/internal/logger"
	"controlling_roaster/internal/repository"
	"controlling_roaster/internal/repository/db"
	"controlling_roaster/internal/server"
	"controlling_roaster/internal/service"
	"controlling_roaster/internal/session"

	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
	minPollInterval = 10 * time.Millisecond
)

var configPath string

// @title           Roaster Control API
// @version         1.0
// @description     Drum coffee roaster control: heat/fan/drum commands, roast metrics and the roast log.
// @BasePath        /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "roaster",
		Short:        "Coffee roaster control service",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default configs/config.yml)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSimulateCmd())
	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP/WebSocket control API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("error reading config: %w", err)
	}
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	conn, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB(conn, log)

	// wire dependencies
	repos := repository.NewRepository(conn)
	clk := newClock(cfg)
	sessions := newSessionManager(cfg, clk, repos, log)
	services := service.NewService(repos, sessions, log)
	apiHandler := handlers.NewHandler(services, log)

	srv := server.New(cfg.Server.Port, apiHandler.InitRoutes())
	errc := make(chan error, 1)
	go func() { errc <- srv.Run() }()
	log.Infow("server_started", "addr", srv.Addr(), "backend", cfg.Hardware.Backend, "db", cfg.DBPath())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case runErr = <-errc:
	case <-ctx.Done():
		log.Infow("shutting down server...")
	}

	// allow in-flight requests to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
	// leave the roaster in the all-off state
	if err := sessions.StopSession(); err != nil {
		log.Errorw("session_stop_failed", "err", err)
	}
	if runErr != nil {
		return fmt.Errorf("http server: %w", runErr)
	}
	return nil
}

// openDB initializes the SQLite roast log using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	path := cfg.DBPath()
	if path == "" {
		return nil, errors.New("db.path is empty")
	}
	conn, err := db.InitDB(path)
	if err != nil {
		return nil, fmt.Errorf("failed to init sqlite: %w", err)
	}
	log.Debugw("db_opened", "path", path)
	return conn, nil
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// newClock speeds up time for the demo backend.
func newClock(cfg *config.Config) clock.Clock {
	if cfg.Hardware.Backend == config.BackendDemo {
		return clock.Scaled(clock.Real(), cfg.Demo.Speed)
	}
	return clock.Real()
}

// newSessionManager builds the manager with a factory for the configured
// backend. Under a scaled demo clock the poll ticker runs proportionally
// faster, so the tracker still sees one reading per simulated interval.
func newSessionManager(cfg *config.Config, clk clock.Clock, rec session.Recorder, log *logger.Logger) *session.Manager {
	tc := cfg.Tracker
	if cfg.Hardware.Backend == config.BackendDemo && cfg.Demo.Speed > 1 {
		tc.PollingInterval = time.Duration(float64(tc.PollingInterval) / cfg.Demo.Speed)
		if tc.PollingInterval < minPollInterval {
			tc.PollingInterval = minPollInterval
		}
	}
	factory := func() (hardware.Backend, error) {
		return hardware.New(cfg.Hardware, cfg.Demo, clk)
	}
	return session.NewManager(session.Config{
		Tracker:     tc,
		StopTimeout: cfg.Session.StopTimeout,
		Location:    cfg.Display.Location,
	}, factory, clk, rec, log.Named("session"))
}
