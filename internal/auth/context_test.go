package auth

import (
	"context"
	"testing"

	"github.com/siddkalani/CRM-sub000/internal/model"
)

func TestAuthContext_RoundTrip(t *testing.T) {
	t.Parallel()

	authCtx := &model.AuthContext{UserID: "01USER", Email: "ada@example.com"}
	ctx := ContextWithAuth(context.Background(), authCtx)

	got := AuthFromContext(ctx)
	if got == nil || got.UserID != "01USER" {
		t.Fatalf("AuthFromContext() = %+v, want stored context", got)
	}

	if id := UserIDFromContext(ctx); id != "01USER" {
		t.Errorf("UserIDFromContext() = %q, want %q", id, "01USER")
	}
}

func TestAuthContext_Absent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	if got := AuthFromContext(ctx); got != nil {
		t.Errorf("AuthFromContext() = %+v, want nil", got)
	}
	if id := UserIDFromContext(ctx); id != "" {
		t.Errorf("UserIDFromContext() = %q, want empty", id)
	}
}
