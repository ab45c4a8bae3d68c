// Package handlers turns HTTP requests into author and quote service calls.
package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/quotes-service/internal/ports"
)

// readinessTimeout bounds the database ping behind /-/ready.
const readinessTimeout = 2 * time.Second

// BuildInfo is served on /-/build. Version, Commit and BuildTime come from
// ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{Version: version, Commit: commit, BuildTime: buildTime, GoVersion: runtime.Version()}
}

// HealthHandler serves the operational endpoints under /-/.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
	metrics   http.Handler
}

// NewHealthHandler serves metrics from the default Prometheus registry
// when metrics is nil.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo, metrics http.Handler) *HealthHandler {
	if metrics == nil {
		metrics = promhttp.Handler()
	}

	return &HealthHandler{registry: registry, buildInfo: buildInfo, metrics: metrics}
}

// RegisterHealthRoutes mounts live, ready, build and metrics under /-/.
func (h *HealthHandler) RegisterHealthRoutes(r gin.IRouter) {
	ops := r.Group("/-")
	ops.GET("/live", h.Liveness)
	ops.GET("/ready", h.Readiness)
	ops.GET("/build", h.Build)
	ops.GET("/metrics", gin.WrapH(h.metrics))
}

// Liveness answers while the process runs. It never touches the database.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.PureJSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness pings the store; 503 means requests would fail.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	result := h.registry.CheckAll(ctx)

	status := http.StatusOK
	if !result.Healthy() {
		status = http.StatusServiceUnavailable
	}

	c.PureJSON(status, gin.H{"status": result.Status, "checks": result.Checks})
}

func (h *HealthHandler) Build(c *gin.Context) {
	c.PureJSON(http.StatusOK, h.buildInfo)
}
