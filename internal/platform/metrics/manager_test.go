package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Mutation(t *testing.T) {
	m := NewTestManager()

	m.Mutation("Author", "create")
	m.Mutation("Author", "create")
	m.Mutation("Quote", "delete")

	assert.InDelta(t, 2, testutil.ToFloat64(m.CounterMutations.WithLabelValues("Author", "create")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CounterMutations.WithLabelValues("Quote", "delete")), 0)
}

func TestManager_NilIsNoop(t *testing.T) {
	var m *Manager

	assert.NotPanics(t, func() { m.Mutation("Quote", "update") })
}

func TestManager_Handler(t *testing.T) {
	m := NewTestManager()
	m.CounterRequests.WithLabelValues("GET", "/quotes", "200").Inc()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, `test_http_requests_total{method="GET",route="/quotes",status="200"} 1`))
	assert.Contains(t, body, "go_goroutines")
}
