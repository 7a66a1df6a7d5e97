package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/siddkalani/CRM-sub000/internal/auth"
	"github.com/siddkalani/CRM-sub000/internal/model"
)

var testSecret = []byte("test-secret-at-least-32-bytes-long")

// fakeSessions is a SessionChecker backed by a map of tokenID -> userID.
type fakeSessions struct {
	sessions map[string]string
	err      error
}

func (f *fakeSessions) SessionUser(ctx context.Context, tokenID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.sessions[tokenID], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func issueToken(t *testing.T, user *model.User, ttl time.Duration) (string, string) {
	t.Helper()
	token, tokenID, err := auth.GenerateToken(user, testSecret, ttl)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	return token, tokenID
}

func authedHandler(t *testing.T, wantUserID string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCtx := auth.AuthFromContext(r.Context())
		if authCtx == nil {
			t.Error("expected auth context to be injected")
			return
		}
		if authCtx.UserID != wantUserID {
			t.Errorf("expected user %s, got %s", wantUserID, authCtx.UserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_ValidToken(t *testing.T) {
	user := &model.User{ID: "user-1", Email: "ada@example.com", Username: "ada"}
	token, tokenID := issueToken(t, user, time.Hour)

	sessions := &fakeSessions{sessions: map[string]string{tokenID: user.ID}}
	mw := Auth(AuthConfig{Logger: discardLogger(), Secret: testSecret, Sessions: sessions})

	req := httptest.NewRequest(http.MethodGet, "/users/current", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw(authedHandler(t, user.ID)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	mw := Auth(AuthConfig{Logger: discardLogger(), Secret: testSecret, Sessions: &fakeSessions{}})

	req := httptest.NewRequest(http.MethodGet, "/users/current", nil)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	mw := Auth(AuthConfig{Logger: discardLogger(), Secret: testSecret, Sessions: &fakeSessions{}})

	tests := []struct {
		name   string
		header string
	}{
		{"no scheme", "some-token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/current", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be reached")
			})).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	user := &model.User{ID: "user-1", Email: "ada@example.com"}
	token, tokenID := issueToken(t, user, -time.Minute)

	sessions := &fakeSessions{sessions: map[string]string{tokenID: user.ID}}
	mw := Auth(AuthConfig{Logger: discardLogger(), Secret: testSecret, Sessions: sessions})

	req := httptest.NewRequest(http.MethodGet, "/users/current", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestAuth_RevokedToken(t *testing.T) {
	user := &model.User{ID: "user-1", Email: "ada@example.com"}
	token, _ := issueToken(t, user, time.Hour)

	// Token is valid but absent from the allow-list: logged out elsewhere.
	sessions := &fakeSessions{sessions: map[string]string{}}
	mw := Auth(AuthConfig{Logger: discardLogger(), Secret: testSecret, Sessions: sessions})

	req := httptest.NewRequest(http.MethodGet, "/users/current", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestAuth_SessionOwnedByDifferentUser(t *testing.T) {
	user := &model.User{ID: "user-1", Email: "ada@example.com"}
	token, tokenID := issueToken(t, user, time.Hour)

	sessions := &fakeSessions{sessions: map[string]string{tokenID: "user-2"}}
	mw := Auth(AuthConfig{Logger: discardLogger(), Secret: testSecret, Sessions: sessions})

	req := httptest.NewRequest(http.MethodGet, "/users/current", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}
