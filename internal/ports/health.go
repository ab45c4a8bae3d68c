package ports

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentChecks bounds how many health checks run at once.
const maxConcurrentChecks = 8

// ErrDuplicateChecker is returned by Register for a name already in use.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker reports whether a dependency can serve requests. The
// SQLite store implements it by pinging the database.
type HealthChecker interface {
	// Name keys the checker in readiness results, e.g. "sqlite".
	Name() string

	// Check returns nil when healthy. It must honour ctx.
	Check(ctx context.Context) error
}

// HealthRegistry collects checkers at startup and runs them on /-/ready.
type HealthRegistry interface {
	Register(checker HealthChecker) error
	CheckAll(ctx context.Context) *HealthResult
}

type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult is the readiness body.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// Healthy is true when every check passed.
func (r *HealthResult) Healthy() bool {
	return r.Status == HealthStatusHealthy
}

// CheckResult is one checker's outcome; Message holds the error text.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// DefaultHealthRegistry keys checkers by name. Safe for concurrent use.
type DefaultHealthRegistry struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
}

func NewHealthRegistry() *DefaultHealthRegistry {
	return &DefaultHealthRegistry{checkers: make(map[string]HealthChecker)}
}

// Register adds checker unless its name is taken.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	name := checker.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.checkers[name]; taken {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}

	r.checkers[name] = checker

	return nil
}

// CheckAll runs every checker, at most maxConcurrentChecks at a time. One
// failure never cancels the others.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := maps.Clone(r.checkers)
	r.mu.RUnlock()

	var (
		g       errgroup.Group
		mu      sync.Mutex
		results = make(map[string]*CheckResult, len(checkers))
	)

	g.SetLimit(maxConcurrentChecks)

	for name, checker := range checkers {
		g.Go(func() error {
			res := runCheck(ctx, checker)

			mu.Lock()
			results[name] = res
			mu.Unlock()

			return nil
		})
	}

	_ = g.Wait()

	return &HealthResult{
		Status:    overallStatus(results),
		Checks:    results,
		Timestamp: time.Now(),
	}
}

func runCheck(ctx context.Context, checker HealthChecker) *CheckResult {
	start := time.Now()
	err := checker.Check(ctx)

	res := &CheckResult{Status: HealthStatusHealthy, Duration: time.Since(start)}
	if err != nil {
		res.Status = HealthStatusUnhealthy
		res.Message = err.Error()
	}

	return res
}

func overallStatus(results map[string]*CheckResult) HealthStatus {
	for _, res := range results {
		if res.Status != HealthStatusHealthy {
			return HealthStatusUnhealthy
		}
	}

	return HealthStatusHealthy
}
