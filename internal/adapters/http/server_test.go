package http

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotes-service/internal/platform/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServerConfig(host string, port int) *config.ServerConfig {
	return &config.ServerConfig{
		Host:           host,
		Port:           port,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    30 * time.Second,
		MaxRequestSize: 1 << 20,
	}
}

func TestServerNew(t *testing.T) {
	cfg := testServerConfig("127.0.0.1", 5000)
	logger := discardLogger()

	srv := New(cfg, logger)

	require.NotNil(t, srv)
	assert.Same(t, srv.engine, srv.Engine())
	assert.Equal(t, logger, srv.logger)
	assert.Equal(t, cfg.ReadTimeout, srv.srv.ReadHeaderTimeout)
	assert.Equal(t, cfg.IdleTimeout, srv.srv.IdleTimeout)
	assert.NotNil(t, srv.srv.ErrorLog)
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		name         string
		host         string
		port         int
		expectedAddr string
	}{
		{name: "default port", host: "0.0.0.0", port: 5000, expectedAddr: "0.0.0.0:5000"},
		{name: "localhost", host: "localhost", port: 8080, expectedAddr: "localhost:8080"},
		{name: "dynamic port", host: "127.0.0.1", port: 0, expectedAddr: "127.0.0.1:0"},
		{name: "ipv6", host: "::1", port: 5000, expectedAddr: "[::1]:5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(testServerConfig(tt.host, tt.port), discardLogger())

			assert.Equal(t, tt.expectedAddr, srv.Addr())
		})
	}
}

func TestServerStartShutdown(t *testing.T) {
	srv := New(testServerConfig("127.0.0.1", 0), discardLogger())
	srv.Engine().GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	errCh := srv.Start()
	require.NotEqual(t, "127.0.0.1:0", srv.Addr(), "Addr reports the bound port")

	resp, err := http.Get("http://" + srv.Addr() + "/ping")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	err, ok := <-errCh
	assert.NoError(t, err)
	assert.False(t, ok, "error channel should be closed")
}

func TestServerStart_ListenError(t *testing.T) {
	first := New(testServerConfig("127.0.0.1", 0), discardLogger())
	require.Empty(t, drain(first.Start()))
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	_, port, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)

	p, err := strconv.Atoi(port)
	require.NoError(t, err)

	second := New(testServerConfig("127.0.0.1", p), discardLogger())
	errs := drain(second.Start())

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "listen on")
}

// drain collects whatever errors are already queued without blocking on
// a running server.
func drain(ch <-chan error) []error {
	var errs []error

	for {
		select {
		case err, ok := <-ch:
			if !ok {
				return errs
			}

			errs = append(errs, err)
		default:
			return errs
		}
	}
}

func TestServerMaxRequestSize(t *testing.T) {
	cfg := testServerConfig("127.0.0.1", 0)
	cfg.MaxRequestSize = 16

	srv := New(cfg, discardLogger())
	srv.Engine().POST("/test", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}

		c.JSON(http.StatusOK, gin.H{"received": len(body)})
	})

	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{name: "under limit", body: `{"name":"x"}`, expected: http.StatusOK},
		{name: "over limit", body: `{"name":"` + strings.Repeat("x", 64) + `"}`, expected: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expected, w.Code)
		})
	}
}
