/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the leavetrack API server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load configuration (defaults → YAML file → environment → flags)
  3. Build the logger
  4. Open the repository (memory or SQLite)
  5. Seed a demo scenario if configured
  6. Start the invite expiry sweeper
  7. Configure HTTP router and start the server

COMMAND-LINE FLAGS:
  --config   YAML configuration file
  --addr     Listen address (overrides server.addr)
  --db       SQLite database path; implies store.driver=sqlite
  --seed     Scenario to load at startup ("demo", "empty", "" for none)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (server.shutdown_timeout)
  3. Stop the sweeper
  4. Close the repository
  5. Exit

EXAMPLES:
  # In-memory store with demo data
  ./server

  # Persistent store, no demo data
  ./server --db=./data/leavetrack.db --seed=""

SEE ALSO:
  - config/config.go: Configuration layers
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/warp/leavetrack/api"
	"github.com/warp/leavetrack/auth"
	"github.com/warp/leavetrack/config"
	"github.com/warp/leavetrack/leave"
	"github.com/warp/leavetrack/leave/store"
	"github.com/warp/leavetrack/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		addr       string
		dbPath     string
		seed       string
	)
	flags := pflag.NewFlagSet("server", pflag.ContinueOnError)
	flags.StringVar(&configPath, "config", os.Getenv("LEAVETRACK_CONFIG"), "path to YAML configuration file")
	flags.StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	flags.StringVar(&dbPath, "db", "", "SQLite database path (selects the sqlite store)")
	flags.StringVar(&seed, "seed", "", `scenario to load at startup ("demo", "empty", "none")`)
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if flags.Changed("db") {
		cfg.Store.Driver = "sqlite"
		cfg.Store.Path = dbPath
	}
	if flags.Changed("seed") {
		cfg.Demo.Seed = seed
		if seed == "none" {
			cfg.Demo.Seed = ""
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	defaults := leave.Settings{
		Country:                 strings.ToUpper(cfg.Defaults.Country),
		DefaultAnnualLeaveQuota: cfg.Defaults.AnnualLeaveQuota,
	}

	repo, closeRepo, err := openRepository(cfg.Store, defaults)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc := leave.NewService(repo, logger.With("component", "leave"))
	svc.InviteTTL = cfg.Invites.TTL
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	handler := api.NewHandler(svc, tokens, logger.With("component", "api"))
	handler.Defaults = defaults
	handler.AllowedOrigins = cfg.Server.AllowedOrigins
	handler.Latency = cfg.Demo.Latency

	if cfg.Demo.Seed != "" {
		if err := handler.LoadScenarioAs(context.Background(), leave.System, cfg.Demo.Seed); err != nil {
			return err
		}
	}

	sweeper := api.NewInviteSweeper(svc, logger.With("component", "sweeper"))
	sweeper.Interval = cfg.Invites.SweepInterval
	handler.Sweeper = sweeper
	sweeper.Start()
	defer sweeper.Stop()

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout + cfg.Demo.Latency,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"addr", cfg.Server.Addr, "store", cfg.Store.Driver, "seed", cfg.Demo.Seed)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func openRepository(cfg config.StoreConfig, defaults leave.Settings) (leave.Repository, func(), error) {
	switch cfg.Driver {
	case "sqlite":
		db, err := sqlite.New(cfg.Path, defaults)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return db, func() { db.Close() }, nil
	default:
		return store.NewMemory(defaults), func() {}, nil
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
