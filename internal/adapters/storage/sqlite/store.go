// Package sqlite implements the author and quote repositories on a single
// SQLite database file using GORM.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jsamuelsen/quotes-service/internal/domain"
)

const (
	// instrumentationName is used for OpenTelemetry tracer and meter.
	instrumentationName = "github.com/jsamuelsen/quotes-service/internal/adapters/storage/sqlite"

	// checkerName identifies the store in readiness results.
	checkerName = "sqlite"

	dataDirPerm = 0o750

	defaultBusyTimeout   = 5 * time.Second
	defaultSlowThreshold = 200 * time.Millisecond
)

// Config configures a Store.
type Config struct {
	// Path is the database file. It is created if missing.
	Path string

	// AutoMigrate creates or updates the authors and quotes tables on open.
	AutoMigrate bool

	// MaxOpenConns caps the connection pool. SQLite serializes writers, so
	// values above 1 only help concurrent readers.
	MaxOpenConns int

	// BusyTimeout is how long a connection waits on a locked database.
	BusyTimeout time.Duration

	// SlowThreshold marks queries logged as slow.
	SlowThreshold time.Duration

	// Logger is an optional logger. If nil, a default logger is used.
	Logger *slog.Logger
}

// Store owns the database handle. Open it at startup and Close it at shutdown.
type Store struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	logger *slog.Logger

	tracer     trace.Tracer
	opDuration metric.Float64Histogram

	authors *AuthorRepository
	quotes  *QuoteRepository
}

// Open opens (and optionally migrates) the SQLite database described by cfg.
func Open(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("database path is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "sqlite.Store"))

	slow := cfg.SlowThreshold
	if slow <= 0 {
		slow = defaultSlowThreshold
	}

	// go-sqlite3 creates the file but not its directory.
	if err := os.MkdirAll(filepath.Dir(filepath.Clean(cfg.Path)), dataDirPerm); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dsn(cfg)), &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(logger, slow),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.WithContext(ctx).AutoMigrate(&authorRecord{}, &quoteRecord{}); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("migrate schema: %w", err)
		}
	}

	s := &Store{
		db:     db,
		sqlDB:  sqlDB,
		logger: logger,
		tracer: otel.Tracer(instrumentationName),
	}

	s.opDuration, err = otel.Meter(instrumentationName).Float64Histogram(
		"db.client.operation.duration",
		metric.WithDescription("Duration of SQLite repository operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		otel.Handle(err)
	}

	s.authors = &AuthorRepository{store: s}
	s.quotes = &QuoteRepository{store: s}

	logger.InfoContext(ctx, "sqlite store opened",
		slog.String("path", cfg.Path),
		slog.Bool("auto_migrate", cfg.AutoMigrate),
	)

	return s, nil
}

// dsn builds a go-sqlite3 DSN with foreign keys enforced so the
// ON DELETE CASCADE constraint on quotes is live.
func dsn(cfg *Config) string {
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = defaultBusyTimeout
	}

	return fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=%d",
		filepath.Clean(cfg.Path), busy.Milliseconds())
}

// Authors returns the author repository.
func (s *Store) Authors() *AuthorRepository {
	return s.authors
}

// Quotes returns the quote repository.
func (s *Store) Quotes() *QuoteRepository {
	return s.quotes
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return checkerName
}

// Check implements ports.HealthChecker by pinging the database.
func (s *Store) Check(ctx context.Context) error {
	if err := s.sqlDB.PingContext(ctx); err != nil {
		return domain.NewUnavailableError(checkerName, err.Error())
	}

	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}

	if err := s.sqlDB.Close(); err != nil {
		return fmt.Errorf("close sqlite db: %w", err)
	}

	s.logger.Info("sqlite store closed")

	return nil
}

// observe starts a span for a repository operation and returns a function
// that ends it and records the operation duration.
func (s *Store) observe(ctx context.Context, op string) (context.Context, func(error)) {
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "sqlite."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "sqlite"),
			attribute.String("db.operation", op),
		),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()

		if s.opDuration != nil {
			s.opDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
				attribute.String("db.operation", op),
				attribute.Bool("error", err != nil),
			))
		}
	}
}

// translateError maps driver constraint errors onto domain errors.
func translateError(err error, entity, value string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.NewConflictError(entity, "name already exists", value)
	}

	return err
}
