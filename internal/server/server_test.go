package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(http.NotFoundHandler(), 8080, time.Second, time.Second, time.Second, logger)
}

func TestNew_Addr(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	if got := srv.Addr(); got != ":8080" {
		t.Errorf("Addr() = %q, want %q", got, ":8080")
	}
}

func TestGracefulShutdown_ComponentsStopInReverseOrder(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	var stopped []string
	for _, name := range []string{"database", "cache", "worker"} {
		name := name
		srv.OnShutdown(name, func(ctx context.Context) error {
			stopped = append(stopped, name)
			return nil
		})
	}

	if err := srv.gracefulShutdown(); err != nil {
		t.Fatalf("gracefulShutdown() error = %v", err)
	}

	want := []string{"worker", "cache", "database"}
	if len(stopped) != len(want) {
		t.Fatalf("stopped %d components, want %d", len(stopped), len(want))
	}
	for i := range want {
		if stopped[i] != want[i] {
			t.Errorf("stop order[%d] = %q, want %q", i, stopped[i], want[i])
		}
	}
}

func TestGracefulShutdown_ComponentErrorReported(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	wantErr := errors.New("pool close failed")
	srv.OnShutdown("database", func(ctx context.Context) error {
		return wantErr
	})
	var cacheStopped bool
	srv.OnShutdown("cache", func(ctx context.Context) error {
		cacheStopped = true
		return nil
	})

	err := srv.gracefulShutdown()
	if !errors.Is(err, wantErr) {
		t.Errorf("gracefulShutdown() error = %v, want %v", err, wantErr)
	}
	if !cacheStopped {
		t.Error("a failing component must not prevent the others from stopping")
	}
}
