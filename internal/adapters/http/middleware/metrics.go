package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotes-service/internal/platform/metrics"
)

// unmatchedRoute labels requests that matched no route, keeping label
// cardinality bounded.
const unmatchedRoute = "unmatched"

// Metrics returns middleware that records Prometheus request metrics on m.
// Requests under /-/ are not recorded.
func Metrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isOperational(c.Request.URL.Path) {
			c.Next()
			return
		}

		m.GaugeRequests.Inc()
		defer m.GaugeRequests.Dec()

		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		m.CounterRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HistRequestLength.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
