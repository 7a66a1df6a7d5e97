// Package testutil provides helpers shared by integration tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/pressly/goose/v3"

	"github.com/siddkalani/CRM-sub000/internal/model"
	"github.com/siddkalani/CRM-sub000/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 271828

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops every application table and re-applies the embedded
// migrations, giving each test a clean database.
func ResetSchema(ctx context.Context, databaseURL string, pool *pgxpool.Pool) error {
	drop := `DROP TABLE IF EXISTS files, notes, contacts, leads, users, goose_db_version CASCADE`
	if _, err := pool.Exec(ctx, drop); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// NewTestUser builds a persisted-ready user record.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	return &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		Username:     "tester",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c29tZXNhbHRoZXJl$c29tZWhhc2hoZXJl",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestLead builds a lead owned by the given user.
func NewTestLead(t testing.TB, ownerID, email string) *model.Lead {
	t.Helper()
	now := time.Now().UTC()
	return &model.Lead{
		ID:        ulid.Make().String(),
		OwnerID:   ownerID,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Phone:     "+1-555-0100",
		Company:   "Analytical Engines Ltd",
		Notes:     []*model.Note{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestContact builds a contact owned by the given user.
func NewTestContact(t testing.TB, ownerID string) *model.Contact {
	t.Helper()
	now := time.Now().UTC()
	return &model.Contact{
		ID:        ulid.Make().String(),
		OwnerID:   ownerID,
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Phone:     "+1-555-0101",
		Notes:     []*model.Note{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
