package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeChecker struct {
	err error
}

func (f fakeChecker) Ping(ctx context.Context) error { return f.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHealthz_AlwaysOK(t *testing.T) {
	h := NewHealthHandler(nil, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	h.Healthz(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestReadyz_AllDependenciesUp(t *testing.T) {
	h := NewHealthHandler(map[string]HealthChecker{
		"database": fakeChecker{},
		"cache":    fakeChecker{},
		"storage":  fakeChecker{},
	}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	h.Readyz(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var response struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Status != "ok" {
		t.Errorf("expected status ok, got %s", response.Status)
	}
	if response.Checks["database"] != "ok" {
		t.Errorf("expected database ok, got %s", response.Checks["database"])
	}
}

func TestReadyz_DependencyDown(t *testing.T) {
	h := NewHealthHandler(map[string]HealthChecker{
		"database": fakeChecker{},
		"cache":    fakeChecker{err: errors.New("connection refused")},
	}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	h.Readyz(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}

	var response struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Status != "degraded" {
		t.Errorf("expected status degraded, got %s", response.Status)
	}
	if response.Checks["cache"] != "unavailable" {
		t.Errorf("expected cache unavailable, got %s", response.Checks["cache"])
	}
	if response.Checks["database"] != "ok" {
		t.Errorf("expected database ok, got %s", response.Checks["database"])
	}
}
