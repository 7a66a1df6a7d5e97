package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/siddkalani/CRM-sub000/internal/cache"
)

type fakeLimiter struct {
	result *cache.RateLimitResult
	err    error
}

func (f *fakeLimiter) CheckLoginRateLimit(ctx context.Context, ip string, ratePerMinute, burst int) (*cache.RateLimitResult, error) {
	return f.result, f.err
}

func loginRateLimitConfig(limiter LoginLimiter) RateLimitConfig {
	return RateLimitConfig{
		Logger:  discardLogger(),
		Limiter: limiter,
		Enabled: true,
		RPM:     30,
		Burst:   10,
	}
}

func TestRateLimitLogin_Allowed(t *testing.T) {
	limiter := &fakeLimiter{result: &cache.RateLimitResult{Allowed: true, Remaining: 9}}
	mw := RateLimitLogin(loginRateLimitConfig(limiter))

	req := httptest.NewRequest(http.MethodPost, "/users/login", nil)
	rec := httptest.NewRecorder()

	reached := false
	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if !reached {
		t.Error("expected handler to be reached")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestRateLimitLogin_Blocked(t *testing.T) {
	limiter := &fakeLimiter{result: &cache.RateLimitResult{
		Allowed:    false,
		RetryAfter: 7 * time.Second,
	}}
	mw := RateLimitLogin(loginRateLimitConfig(limiter))

	req := httptest.NewRequest(http.MethodPost, "/users/login", nil)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "7" {
		t.Errorf("unexpected Retry-After: %q", rec.Header().Get("Retry-After"))
	}
}

func TestRateLimitLogin_FailsOpenOnError(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	mw := RateLimitLogin(loginRateLimitConfig(limiter))

	req := httptest.NewRequest(http.MethodPost, "/users/login", nil)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected limiter failure to fail open, got %d", rec.Code)
	}
}

func TestRateLimitLogin_Disabled(t *testing.T) {
	cfg := loginRateLimitConfig(&fakeLimiter{result: &cache.RateLimitResult{Allowed: false}})
	cfg.Enabled = false
	mw := RateLimitLogin(cfg)

	req := httptest.NewRequest(http.MethodPost, "/users/login", nil)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected disabled limiter to pass through, got %d", rec.Code)
	}
}
