// Package main implements the WakeWell service daemon: it loads
// configuration, wires the application's service graph into the container,
// initializes everything in dependency order, and tears it down again on
// shutdown.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/wakewell/servicekit/config"
	"github.com/wakewell/servicekit/container"
	"github.com/wakewell/servicekit/eventbus"
	"github.com/wakewell/servicekit/metric"
	"github.com/wakewell/servicekit/reporting"
	"github.com/wakewell/servicekit/service"
	"github.com/wakewell/servicekit/services"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "wakewelld"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	cfg, err := initializeConfiguration(cliCfg)
	if err != nil {
		return err
	}

	if !services.ValidateConfiguration(logger) {
		return fmt.Errorf("service graph validation failed")
	}
	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	metricsRegistry, metricsServer, err := setupMetrics(cfg, logger)
	if err != nil {
		return err
	}

	publisher, closeBus, err := setupEventBus(cfg, logger)
	if err != nil {
		return err
	}
	defer closeBus()

	c := container.New(
		container.WithLogger(logger),
		container.WithMetrics(metricsRegistry),
	)

	opts := services.Options{
		Environment: cfg.Environment,
		Logger:      logger,
		Metrics:     metricsRegistry,
		Publisher:   publisher,
		Reporter:    reporting.NewRateLimited(reporting.NewLogReporter(logger), 10, 50, logger),
		Overrides:   cfg.Services,
	}
	if err := services.Register(c, opts); err != nil {
		return fmt.Errorf("register services: %w", err)
	}

	if metricsServer != nil {
		metricsServer.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsServer.Stop(ctx)
		}()
	}

	return runWithSignalHandling(c, cliCfg.ShutdownTimeout)
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting WakeWell daemon",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, logger, false, nil
}

// initializeConfiguration loads and validates configuration; CLI flags win
// over file values for logging settings.
func initializeConfiguration(cliCfg *CLIConfig) (*config.Global, error) {
	cfg, err := config.LoadFile(cliCfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cliCfg.LogLevel != "" {
		cfg.LogLevel = cliCfg.LogLevel
	}
	if cliCfg.LogFormat != "" {
		cfg.LogFormat = cliCfg.LogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// The file may change logging settings; rebuild the logger with the
	// effective values.
	slog.SetDefault(setupLogger(cfg.LogLevel, cfg.LogFormat))
	return cfg, nil
}

// setupMetrics creates the registry and, when enabled, the scrape server
func setupMetrics(cfg *config.Global, logger *slog.Logger) (*metric.Registry, *metric.Server, error) {
	registry, err := metric.NewRegistry()
	if err != nil {
		return nil, nil, fmt.Errorf("create metrics registry: %w", err)
	}

	if !cfg.Metrics.Enabled {
		return registry, nil, nil
	}
	return registry, metric.NewServer(registry, cfg.Metrics.Port, logger), nil
}

// setupEventBus returns the process-wide publisher and its closer
func setupEventBus(cfg *config.Global, logger *slog.Logger) (service.Publisher, func(), error) {
	if !cfg.Events.NATSEnabled {
		return eventbus.NewNop(), func() {}, nil
	}

	bus, err := eventbus.ConnectNATS(cfg.Events.NATSURL, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect event bus: %w", err)
	}
	return bus, func() {
		if err := bus.Close(); err != nil {
			logger.Warn("event bus close failed", "error", err)
		}
	}, nil
}

// runWithSignalHandling initializes the container and disposes it again on
// SIGINT/SIGTERM.
func runWithSignalHandling(c *container.Container, shutdownTimeout time.Duration) error {
	signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	if err := c.Initialize(signalCtx); err != nil {
		return fmt.Errorf("initialize services: %w", err)
	}
	slog.Info("WakeWell started", "services", c.InitOrder())

	<-signalCtx.Done()
	slog.Info("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := c.Dispose(shutdownCtx); err != nil {
		slog.Error("Errors during teardown", "error", err)
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("WakeWell shutdown complete")
	return nil
}
