//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/siddkalani/CRM-sub000/internal/model"
	"github.com/siddkalani/CRM-sub000/internal/testutil"
)

func newTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, dbURL, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, repo
}

func mustCreateUser(t *testing.T, ctx context.Context, repo *Repository, email string) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t, email)
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestIntegrationUsers_CreateAndFetch(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := mustCreateUser(t, ctx, repo, "ada@example.com")

	byID, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID.Email != "ada@example.com" {
		t.Errorf("Email mismatch: got %q", byID.Email)
	}

	// Email lookup is case-insensitive
	byEmail, err := repo.GetUserByEmail(ctx, "ADA@Example.COM")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("ID mismatch: got %q, want %q", byEmail.ID, user.ID)
	}
}

func TestIntegrationUsers_DuplicateEmail(t *testing.T) {
	ctx, repo := newTestEnv(t)

	mustCreateUser(t, ctx, repo, "ada@example.com")

	dup := testutil.NewTestUser(t, "Ada@Example.com")
	err := repo.CreateUser(ctx, dup)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got: %v", err)
	}
}

func TestIntegrationLeads_CRUD(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := mustCreateUser(t, ctx, repo, "owner@example.com")
	lead := testutil.NewTestLead(t, user.ID, "lead@example.com")

	if err := repo.CreateLead(ctx, lead); err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}

	got, err := repo.GetLeadByID(ctx, lead.ID)
	if err != nil {
		t.Fatalf("GetLeadByID failed: %v", err)
	}
	if got.FirstName != "Ada" || got.Company != "Analytical Engines Ltd" {
		t.Errorf("unexpected lead: %+v", got)
	}

	got.Phone = "+1-555-0199"
	got.UpdatedAt = time.Now().UTC()
	if err := repo.UpdateLead(ctx, got); err != nil {
		t.Fatalf("UpdateLead failed: %v", err)
	}

	updated, err := repo.GetLeadByID(ctx, lead.ID)
	if err != nil {
		t.Fatalf("GetLeadByID after update failed: %v", err)
	}
	if updated.Phone != "+1-555-0199" {
		t.Errorf("Phone mismatch: got %q", updated.Phone)
	}

	if err := repo.DeleteLead(ctx, lead.ID); err != nil {
		t.Fatalf("DeleteLead failed: %v", err)
	}

	if _, err := repo.GetLeadByID(ctx, lead.ID); !errors.Is(err, ErrLeadNotFound) {
		t.Errorf("expected ErrLeadNotFound, got: %v", err)
	}
}

func TestIntegrationLeads_DuplicateEmail(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := mustCreateUser(t, ctx, repo, "owner@example.com")

	first := testutil.NewTestLead(t, user.ID, "lead@example.com")
	if err := repo.CreateLead(ctx, first); err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}

	second := testutil.NewTestLead(t, user.ID, "lead@example.com")
	if err := repo.CreateLead(ctx, second); !errors.Is(err, ErrLeadEmailExists) {
		t.Errorf("expected ErrLeadEmailExists, got: %v", err)
	}
}

func TestIntegrationLeads_UnknownOwner(t *testing.T) {
	ctx, repo := newTestEnv(t)

	lead := testutil.NewTestLead(t, ulid.Make().String(), "lead@example.com")
	if err := repo.CreateLead(ctx, lead); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got: %v", err)
	}
}

func TestIntegrationContacts_UnknownOwner(t *testing.T) {
	ctx, repo := newTestEnv(t)

	contact := testutil.NewTestContact(t, ulid.Make().String())
	if err := repo.CreateContact(ctx, contact); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got: %v", err)
	}
}

func TestIntegrationLeads_DeleteMissing(t *testing.T) {
	ctx, repo := newTestEnv(t)

	if err := repo.DeleteLead(ctx, ulid.Make().String()); !errors.Is(err, ErrLeadNotFound) {
		t.Errorf("expected ErrLeadNotFound, got: %v", err)
	}
}

func TestIntegrationNotes_Lifecycle(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := mustCreateUser(t, ctx, repo, "owner@example.com")
	contact := testutil.NewTestContact(t, user.ID)
	if err := repo.CreateContact(ctx, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	note := &model.Note{
		ID:         ulid.Make().String(),
		ParentType: model.ParentContact,
		ParentID:   contact.ID,
		Body:       "met at the symposium",
		CreatedAt:  time.Now().UTC(),
	}
	if err := repo.AddNotes(ctx, []*model.Note{note}, nil); err != nil {
		t.Fatalf("AddNotes failed: %v", err)
	}

	notes, err := repo.ListNotes(ctx, model.ParentContact, contact.ID)
	if err != nil {
		t.Fatalf("ListNotes failed: %v", err)
	}
	if len(notes) != 1 || notes[0].Body != "met at the symposium" {
		t.Fatalf("unexpected notes: %+v", notes)
	}

	// Editing the text keeps the note's identity
	if err := repo.UpdateNoteBody(ctx, model.ParentContact, contact.ID, note.ID, "follow up next week"); err != nil {
		t.Fatalf("UpdateNoteBody failed: %v", err)
	}

	notes, err = repo.ListNotes(ctx, model.ParentContact, contact.ID)
	if err != nil {
		t.Fatalf("ListNotes after update failed: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	if notes[0].ID != note.ID {
		t.Errorf("note ID changed across update: got %q, want %q", notes[0].ID, note.ID)
	}
	if notes[0].Body != "follow up next week" {
		t.Errorf("Body mismatch: got %q", notes[0].Body)
	}

	if err := repo.DeleteNote(ctx, model.ParentContact, contact.ID, note.ID); err != nil {
		t.Fatalf("DeleteNote failed: %v", err)
	}

	notes, err = repo.ListNotes(ctx, model.ParentContact, contact.ID)
	if err != nil {
		t.Fatalf("ListNotes after delete failed: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("expected no notes, got %d", len(notes))
	}
}

func TestIntegrationNotes_DeleteMissingIsNotFound(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := mustCreateUser(t, ctx, repo, "owner@example.com")
	contact := testutil.NewTestContact(t, user.ID)
	if err := repo.CreateContact(ctx, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	err := repo.DeleteNote(ctx, model.ParentContact, contact.ID, ulid.Make().String())
	if !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got: %v", err)
	}
}

func TestIntegrationNotes_OrderPreserved(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := mustCreateUser(t, ctx, repo, "owner@example.com")
	lead := testutil.NewTestLead(t, user.ID, "lead@example.com")
	if err := repo.CreateLead(ctx, lead); err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}

	bodies := []string{"first", "second", "third"}
	for _, body := range bodies {
		note := &model.Note{
			ID:         ulid.Make().String(),
			ParentType: model.ParentLead,
			ParentID:   lead.ID,
			Body:       body,
			CreatedAt:  time.Now().UTC(),
		}
		if err := repo.AddNotes(ctx, []*model.Note{note}, nil); err != nil {
			t.Fatalf("AddNotes failed: %v", err)
		}
	}

	notes, err := repo.ListNotes(ctx, model.ParentLead, lead.ID)
	if err != nil {
		t.Fatalf("ListNotes failed: %v", err)
	}
	if len(notes) != len(bodies) {
		t.Fatalf("expected %d notes, got %d", len(bodies), len(notes))
	}
	for i, body := range bodies {
		if notes[i].Body != body {
			t.Errorf("note %d: got %q, want %q", i, notes[i].Body, body)
		}
	}
}

func TestIntegrationNotes_ScopedToParent(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := mustCreateUser(t, ctx, repo, "owner@example.com")

	lead := testutil.NewTestLead(t, user.ID, "lead@example.com")
	if err := repo.CreateLead(ctx, lead); err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}
	contact := testutil.NewTestContact(t, user.ID)
	if err := repo.CreateContact(ctx, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	note := &model.Note{
		ID:         ulid.Make().String(),
		ParentType: model.ParentLead,
		ParentID:   lead.ID,
		Body:       "lead-only note",
		CreatedAt:  time.Now().UTC(),
	}
	if err := repo.AddNotes(ctx, []*model.Note{note}, nil); err != nil {
		t.Fatalf("AddNotes failed: %v", err)
	}

	// A note on a lead is invisible through a contact, even with the right ID
	err := repo.UpdateNoteBody(ctx, model.ParentContact, contact.ID, note.ID, "hijack")
	if !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got: %v", err)
	}
}

func TestIntegrationLeads_DeleteCascadesNotes(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := mustCreateUser(t, ctx, repo, "owner@example.com")
	lead := testutil.NewTestLead(t, user.ID, "lead@example.com")
	if err := repo.CreateLead(ctx, lead); err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}

	note := &model.Note{
		ID:         ulid.Make().String(),
		ParentType: model.ParentLead,
		ParentID:   lead.ID,
		Body:       "soon to be orphaned",
		CreatedAt:  time.Now().UTC(),
	}
	if err := repo.AddNotes(ctx, []*model.Note{note}, nil); err != nil {
		t.Fatalf("AddNotes failed: %v", err)
	}

	if err := repo.DeleteLead(ctx, lead.ID); err != nil {
		t.Fatalf("DeleteLead failed: %v", err)
	}

	notes, err := repo.ListNotes(ctx, model.ParentLead, lead.ID)
	if err != nil {
		t.Fatalf("ListNotes failed: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("expected notes to be deleted with the lead, got %d", len(notes))
	}
}

func TestIntegrationContacts_ListByOwner(t *testing.T) {
	ctx, repo := newTestEnv(t)

	owner := mustCreateUser(t, ctx, repo, "owner@example.com")
	other := mustCreateUser(t, ctx, repo, "other@example.com")

	c1 := testutil.NewTestContact(t, owner.ID)
	c2 := testutil.NewTestContact(t, owner.ID)
	c3 := testutil.NewTestContact(t, other.ID)
	for _, c := range []*model.Contact{c1, c2, c3} {
		if err := repo.CreateContact(ctx, c); err != nil {
			t.Fatalf("CreateContact failed: %v", err)
		}
	}

	contacts, err := repo.ListContactsByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListContactsByOwner failed: %v", err)
	}
	if len(contacts) != 2 {
		t.Errorf("expected 2 contacts, got %d", len(contacts))
	}
	for _, c := range contacts {
		if c.OwnerID != owner.ID {
			t.Errorf("contact %s has wrong owner %q", c.ID, c.OwnerID)
		}
	}
}

func TestIntegrationFiles_CreateAndLink(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := mustCreateUser(t, ctx, repo, "owner@example.com")
	contact := testutil.NewTestContact(t, user.ID)
	if err := repo.CreateContact(ctx, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	file := &model.File{
		ID:          ulid.Make().String(),
		Key:         "20260831T120000-test-scan.pdf",
		Name:        "scan.pdf",
		URL:         "https://files.example.com/scan.pdf",
		ContentType: "application/pdf",
		SizeBytes:   2048,
		UploadedAt:  time.Now().UTC(),
	}
	if err := repo.CreateFile(ctx, file); err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}

	orphans, err := repo.ListOrphanFiles(ctx, 10)
	if err != nil {
		t.Fatalf("ListOrphanFiles failed: %v", err)
	}
	if len(orphans) != 1 {
		t.Fatalf("expected 1 orphan file, got %d", len(orphans))
	}

	note := &model.Note{
		ID:         ulid.Make().String(),
		ParentType: model.ParentContact,
		ParentID:   contact.ID,
		Body:       "attached scan",
		FileURL:    file.URL,
		FileName:   file.Name,
		FileType:   file.ContentType,
		CreatedAt:  time.Now().UTC(),
	}
	if err := repo.AddNotes(ctx, []*model.Note{note}, map[string]string{note.ID: file.ID}); err != nil {
		t.Fatalf("AddNotes failed: %v", err)
	}

	linked, err := repo.GetFileByID(ctx, file.ID)
	if err != nil {
		t.Fatalf("GetFileByID failed: %v", err)
	}
	if linked.NoteID == nil || *linked.NoteID != note.ID {
		t.Errorf("expected file linked to note %s, got %v", note.ID, linked.NoteID)
	}

	orphans, err = repo.ListOrphanFiles(ctx, 10)
	if err != nil {
		t.Fatalf("ListOrphanFiles failed: %v", err)
	}
	if len(orphans) != 0 {
		t.Errorf("expected no orphans after linking, got %d", len(orphans))
	}

	// Deleting the parent unlinks the file but keeps the stored object record
	if err := repo.DeleteContact(ctx, contact.ID); err != nil {
		t.Fatalf("DeleteContact failed: %v", err)
	}

	unlinked, err := repo.GetFileByID(ctx, file.ID)
	if err != nil {
		t.Fatalf("GetFileByID after delete failed: %v", err)
	}
	if unlinked.NoteID != nil {
		t.Errorf("expected file note link cleared, got %v", unlinked.NoteID)
	}
}

func TestIntegrationNotes_MissingFileRollsBack(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := mustCreateUser(t, ctx, repo, "owner@example.com")
	contact := testutil.NewTestContact(t, user.ID)
	if err := repo.CreateContact(ctx, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	note := &model.Note{
		ID:         ulid.Make().String(),
		ParentType: model.ParentContact,
		ParentID:   contact.ID,
		Body:       "attachment gone missing",
		CreatedAt:  time.Now().UTC(),
	}
	err := repo.AddNotes(ctx, []*model.Note{note}, map[string]string{note.ID: ulid.Make().String()})
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got: %v", err)
	}

	// The failed link must take the note insert down with it
	notes, err := repo.ListNotes(ctx, model.ParentContact, contact.ID)
	if err != nil {
		t.Fatalf("ListNotes failed: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("expected no notes after rollback, got %d", len(notes))
	}
}
