package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/siddkalani/CRM-sub000/internal/model"
)

// ErrNoteNotFound is returned when no note matches the given parent and ID.
var ErrNoteNotFound = errors.New("note not found")

// AddNotes appends notes to a parent entity in insertion order.
// Positions are assigned past the current maximum, so concurrent appends
// insert distinct rows instead of racing over an embedded array.
// fileLinks maps note IDs to uploaded file records; links are written in
// the same transaction, so a bad file ID rolls the notes back too.
func (r *Repository) AddNotes(ctx context.Context, notes []*model.Note, fileLinks map[string]string) error {
	if len(notes) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin note transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO notes (id, parent_type, parent_id, body, file_url, file_name, file_type, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM notes WHERE parent_type = $2 AND parent_id = $3),
			$8)
	`

	for _, note := range notes {
		if !note.ParentType.IsValid() {
			return fmt.Errorf("unknown note parent type %q", note.ParentType)
		}
		_, err := tx.Exec(ctx, query,
			note.ID,
			note.ParentType,
			note.ParentID,
			note.Body,
			note.FileURL,
			note.FileName,
			note.FileType,
			note.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to add note: %w", err)
		}
	}

	for noteID, fileID := range fileLinks {
		result, err := tx.Exec(ctx, `UPDATE files SET note_id = $2 WHERE id = $1`, fileID, noteID)
		if err != nil {
			return fmt.Errorf("failed to link file to note: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrFileNotFound
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit note transaction: %w", err)
	}
	return nil
}

// ListNotes retrieves the notes of a parent entity in insertion order.
func (r *Repository) ListNotes(ctx context.Context, parentType model.ParentType, parentID string) ([]*model.Note, error) {
	query := `
		SELECT id, parent_type, parent_id, body, file_url, file_name, file_type, position, created_at
		FROM notes
		WHERE parent_type = $1 AND parent_id = $2
		ORDER BY position, created_at, id
	`

	rows, err := r.pool.Query(ctx, query, parentType, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	return collectNotes(rows)
}

// ListNotesByParents retrieves the notes of several parents of one type in a
// single query, grouped by parent ID. Used to avoid N+1 queries on list endpoints.
func (r *Repository) ListNotesByParents(ctx context.Context, parentType model.ParentType, parentIDs []string) (map[string][]*model.Note, error) {
	grouped := make(map[string][]*model.Note, len(parentIDs))
	if len(parentIDs) == 0 {
		return grouped, nil
	}

	query := `
		SELECT id, parent_type, parent_id, body, file_url, file_name, file_type, position, created_at
		FROM notes
		WHERE parent_type = $1 AND parent_id = ANY($2)
		ORDER BY position, created_at, id
	`

	rows, err := r.pool.Query(ctx, query, parentType, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes by parents: %w", err)
	}
	defer rows.Close()

	notes, err := collectNotes(rows)
	if err != nil {
		return nil, err
	}

	for _, note := range notes {
		grouped[note.ParentID] = append(grouped[note.ParentID], note)
	}
	return grouped, nil
}

// UpdateNoteBody replaces the text of a note. Attachment fields are untouched.
func (r *Repository) UpdateNoteBody(ctx context.Context, parentType model.ParentType, parentID, noteID, body string) error {
	query := `
		UPDATE notes
		SET body = $4
		WHERE parent_type = $1 AND parent_id = $2 AND id = $3
	`

	result, err := r.pool.Exec(ctx, query, parentType, parentID, noteID, body)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoteNotFound
	}

	return nil
}

// DeleteNote removes a single note. Deleting an unknown note ID is an error;
// the same policy applies to lead and contact notes alike.
func (r *Repository) DeleteNote(ctx context.Context, parentType model.ParentType, parentID, noteID string) error {
	query := `
		DELETE FROM notes
		WHERE parent_type = $1 AND parent_id = $2 AND id = $3
	`

	result, err := r.pool.Exec(ctx, query, parentType, parentID, noteID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoteNotFound
	}

	return nil
}

// collectNotes drains pgx.Rows into Note models.
func collectNotes(rows pgx.Rows) ([]*model.Note, error) {
	notes := make([]*model.Note, 0)
	for rows.Next() {
		var note model.Note
		err := rows.Scan(
			&note.ID,
			&note.ParentType,
			&note.ParentID,
			&note.Body,
			&note.FileURL,
			&note.FileName,
			&note.FileType,
			&note.Position,
			&note.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}

	return notes, nil
}
