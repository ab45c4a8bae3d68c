// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/jsamuelsen/quotes-service/internal/adapters/http"
	"github.com/jsamuelsen/quotes-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotes-service/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quotes-service/internal/app"
	"github.com/jsamuelsen/quotes-service/internal/platform/config"
	"github.com/jsamuelsen/quotes-service/internal/platform/logging"
	"github.com/jsamuelsen/quotes-service/internal/platform/metrics"
	"github.com/jsamuelsen/quotes-service/internal/platform/telemetry"
	"github.com/jsamuelsen/quotes-service/internal/ports"
)

// Set at link time, e.g. -ldflags "-X main.Version=1.4.0 -X main.Commit=$(git rev-parse --short HEAD)".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// metricsNamespace prefixes every Prometheus metric of the service.
const metricsNamespace = "quotes"

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quotes-service",
		Short:         "Serve the authors and quotes API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}

	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "quotes-service %s (commit %s, built %s, %s)\n", Version, Commit, BuildTime, runtime.Version())
}

func run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	logger.Debug("telemetry initialized", slog.Bool("enabled", telProvider.Enabled()))

	store, err := sqlite.Open(ctx, &sqlite.Config{
		Path:          cfg.Database.Path,
		AutoMigrate:   cfg.Database.AutoMigrate,
		MaxOpenConns:  cfg.Database.MaxOpenConns,
		BusyTimeout:   cfg.Database.BusyTimeout,
		SlowThreshold: cfg.Database.SlowThreshold,
		Logger:        logger,
	})
	if err != nil {
		return multierr.Append(fmt.Errorf("opening database: %w", err), telProvider.Shutdown(ctx))
	}

	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(store); err != nil {
		return multierr.Combine(err, store.Close(), telProvider.Shutdown(ctx))
	}

	metricsManager := metrics.NewManager(metricsNamespace)

	authorService := app.NewAuthorService(app.AuthorServiceConfig{
		Authors: store.Authors(),
		Quotes:  store.Quotes(),
		Logger:  logger,
	})
	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Quotes: store.Quotes(),
		Logger: logger,
	})

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)

	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	server := http.New(&cfg.Server, logger)
	routerCfg := http.NewDefaultRouterConfig(
		logger,
		serviceName,
		metricsManager,
		handlers.NewHealthHandler(healthRegistry, buildInfo, metricsManager.Handler()),
		handlers.NewAuthorHandler(authorService, metricsManager),
		handlers.NewQuoteHandler(quoteService, metricsManager),
	)
	routerCfg.Timeout = cfg.Server.RequestTimeout
	http.SetupRouter(server.Engine(), routerCfg)

	err = serve(ctx, logger, server, cfg.Server.ShutdownTimeout)

	// Drained server first: no request may see a closed store.
	err = multierr.Append(err, store.Close())
	err = multierr.Append(err, telProvider.Shutdown(context.WithoutCancel(ctx)))

	if err == nil {
		logger.Info("shutdown complete")
	}

	return err
}

// serve runs server until it fails, SIGINT or SIGTERM arrives or ctx is
// cancelled, then gives in-flight requests up to grace to finish.
func serve(ctx context.Context, logger *slog.Logger, server *http.Server, grace time.Duration) error {
	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-server.Start():
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	case <-stopCtx.Done():
		stop()
		logger.Info("stop requested, draining", slog.Duration("grace", grace))
	}

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
	defer cancel()

	if err := server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
