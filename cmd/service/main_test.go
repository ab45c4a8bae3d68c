package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotes-service/internal/adapters/http"
	"github.com/jsamuelsen/quotes-service/internal/platform/config"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "quotes-service "+Version)
	assert.Contains(t, out.String(), runtime.Version())
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"unexpected"})

	require.Error(t, cmd.Execute())
}

func testServer(port int) *http.Server {
	return http.New(&config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           port,
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
		IdleTimeout:    time.Second,
		MaxRequestSize: config.DefaultMaxRequestSize,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestServe_DrainsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- serve(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)), testServer(0), time.Second) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}

func TestServe_ReportsListenFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = taken.Close() })

	port := taken.Addr().(*net.TCPAddr).Port

	err = serve(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)), testServer(port), time.Second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on")
}
