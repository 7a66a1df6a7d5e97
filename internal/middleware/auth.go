package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/siddkalani/CRM-sub000/internal/auth"
	"github.com/siddkalani/CRM-sub000/internal/model"
)

// SessionChecker reports which user a token ID was issued to.
// An empty user ID means the session was revoked or never existed.
type SessionChecker interface {
	SessionUser(ctx context.Context, tokenID string) (string, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Secret   []byte
	Sessions SessionChecker
}

// Auth returns a middleware that authenticates requests with a bearer
// session token. The token must carry a valid signature, be unexpired, and
// still be on the server-side allow-list. Decoded claims are injected into
// the request context for downstream handlers.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				logAuthFailure(cfg.Logger, r, "missing_token")
				writeAuthError(w)
				return
			}

			claims, err := auth.ParseToken(token, cfg.Secret)
			if err != nil {
				logAuthFailure(cfg.Logger, r, "invalid_token")
				writeAuthError(w)
				return
			}

			userID, err := cfg.Sessions.SessionUser(r.Context(), claims.ID)
			if err != nil {
				cfg.Logger.Error("session lookup failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}
			if userID == "" || userID != claims.Subject {
				logAuthFailure(cfg.Logger, r, "revoked_token")
				writeAuthError(w)
				return
			}

			authCtx := &model.AuthContext{
				UserID:   claims.Subject,
				Email:    claims.Email,
				Username: claims.Username,
				TokenID:  claims.ID,
			}

			ctx := auth.ContextWithAuth(r.Context(), authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken pulls the token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

// writeAuthError writes a 401 response without leaking failure detail.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"authentication required","code":"UNAUTHENTICATED"}`))
}
