package httpserver_test

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flagkit/pkg/httpserver"
	"github.com/dmitrymomot/flagkit/pkg/logger"
)

// freeAddr reserves a local port and releases it for the server under
// test to claim.
func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func waitForServer(t *testing.T, url string) *http.Response {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			return resp
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("server at %s never became reachable", url)
	return nil
}

func TestServerRun(t *testing.T) {
	t.Parallel()

	t.Run("ServesUntilContextCancelled", func(t *testing.T) {
		t.Parallel()
		addr := freeAddr(t)
		srv := httpserver.New(httpserver.Config{Addr: addr, ShutdownTimeout: time.Second})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))
		}()

		resp := waitForServer(t, "http://"+addr+"/")
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop after context cancellation")
		}
	})

	t.Run("StartFailure", func(t *testing.T) {
		t.Parallel()
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer l.Close()

		// The port is held by l, so the server cannot bind it.
		srv := httpserver.New(httpserver.Config{Addr: l.Addr().String()})
		err = srv.Run(context.Background(), http.NotFoundHandler())
		assert.ErrorIs(t, err, httpserver.ErrStartFailed)
	})

	t.Run("HooksRun", func(t *testing.T) {
		t.Parallel()
		addr := freeAddr(t)
		started := make(chan struct{}, 1)
		stopped := make(chan struct{}, 1)
		srv := httpserver.New(httpserver.Config{Addr: addr, ShutdownTimeout: time.Second},
			httpserver.WithLogger(logger.New()),
			httpserver.WithStartHook(func(*slog.Logger) { started <- struct{}{} }),
			httpserver.WithStopHook(func(*slog.Logger) { stopped <- struct{}{} }),
		)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.Run(ctx, http.NotFoundHandler()) }()

		waitForServer(t, "http://"+addr+"/").Body.Close()
		cancel()
		require.NoError(t, <-done)

		select {
		case <-started:
		default:
			t.Fatal("start hook did not run")
		}
		select {
		case <-stopped:
		default:
			t.Fatal("stop hook did not run")
		}
	})

	t.Run("ShutdownBeforeRunIsNoop", func(t *testing.T) {
		t.Parallel()
		srv := httpserver.New(httpserver.Config{})
		assert.NoError(t, srv.Shutdown(context.Background()))
	})
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()
	log := logger.New()

	t.Run("LivenessWithoutProbes", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(log)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})

	t.Run("ReadyWhenProbesPass", func(t *testing.T) {
		t.Parallel()
		probe := func(context.Context) error { return nil }
		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(log, probe, probe)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("UnavailableWhenProbeFails", func(t *testing.T) {
		t.Parallel()
		failing := func(context.Context) error { return errors.New("connection refused") }
		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(log, failing)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
