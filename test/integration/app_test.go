//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"

	httpadapter "github.com/jsamuelsen/quotes-service/internal/adapters/http"
	"github.com/jsamuelsen/quotes-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotes-service/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/quotes-service/internal/app"
	"github.com/jsamuelsen/quotes-service/internal/platform/config"
	"github.com/jsamuelsen/quotes-service/internal/platform/logging"
	"github.com/jsamuelsen/quotes-service/internal/platform/metrics"
	"github.com/jsamuelsen/quotes-service/internal/ports"
)

const configDir = "../../configs"

func init() {
	gin.SetMode(gin.TestMode)
}

// testApp is the full service running in-process on its own database file.
type testApp struct {
	server  *httptest.Server
	store   *sqlite.Store
	metrics *metrics.Manager
	dir     string
}

// startApp loads the test profile, points it at a fresh database directory
// and serves the real router.
func startApp() (*testApp, error) {
	cfg, err := config.LoadFromDir(configDir, "test")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	dir, err := os.MkdirTemp("", "quotes-integration-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	cfg.Database.Path = filepath.Join(dir, "main.db")

	if err := cfg.Validate(); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	}, io.Discard)

	store, err := sqlite.Open(context.Background(), &sqlite.Config{
		Path:          cfg.Database.Path,
		AutoMigrate:   cfg.Database.AutoMigrate,
		MaxOpenConns:  cfg.Database.MaxOpenConns,
		BusyTimeout:   cfg.Database.BusyTimeout,
		SlowThreshold: cfg.Database.SlowThreshold,
		Logger:        logger,
	})
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("opening store: %w", err)
	}

	registry := ports.NewHealthRegistry()
	if err := registry.Register(store); err != nil {
		return nil, multierr.Combine(err, store.Close(), os.RemoveAll(dir))
	}

	manager := metrics.NewTestManager()

	authorService := app.NewAuthorService(app.AuthorServiceConfig{
		Authors: store.Authors(),
		Quotes:  store.Quotes(),
		Logger:  logger,
	})
	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Quotes: store.Quotes(),
		Logger: logger,
	})

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:        logger,
		ServiceName:   cfg.App.Name,
		Metrics:       manager,
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("integration", "none", "unknown"), manager.Handler()),
		AuthorHandler: handlers.NewAuthorHandler(authorService, manager),
		QuoteHandler:  handlers.NewQuoteHandler(quoteService, manager),
		Timeout:       cfg.Server.RequestTimeout,
	})

	return &testApp{
		server:  httptest.NewServer(engine),
		store:   store,
		metrics: manager,
		dir:     dir,
	}, nil
}

// URL returns the base URL of the running service.
func (a *testApp) URL() string {
	return a.server.URL
}

// Close stops the server, closes the store and removes the database files.
func (a *testApp) Close() error {
	a.server.Close()

	return multierr.Combine(a.store.Close(), os.RemoveAll(a.dir))
}
