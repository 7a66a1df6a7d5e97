package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/siddkalani/CRM-sub000/internal/model"
)

// ErrFileNotFound is returned when no file record matches the given ID.
var ErrFileNotFound = errors.New("file not found")

// CreateFile records a relayed upload.
func (r *Repository) CreateFile(ctx context.Context, file *model.File) error {
	query := `
		INSERT INTO files (id, object_key, name, url, content_type, size_bytes, note_id, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		file.ID,
		file.Key,
		file.Name,
		file.URL,
		file.ContentType,
		file.SizeBytes,
		file.NoteID,
		file.UploadedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create file record: %w", err)
	}

	return nil
}

// GetFileByID retrieves a file record by its ID.
func (r *Repository) GetFileByID(ctx context.Context, id string) (*model.File, error) {
	query := `
		SELECT id, object_key, name, url, content_type, size_bytes, note_id, uploaded_at
		FROM files
		WHERE id = $1
	`

	var file model.File
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&file.ID,
		&file.Key,
		&file.Name,
		&file.URL,
		&file.ContentType,
		&file.SizeBytes,
		&file.NoteID,
		&file.UploadedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file by ID: %w", err)
	}

	return &file, nil
}

// ListOrphanFiles returns uploads that no note references.
// Kept for operational cleanup; nothing deletes object store bytes automatically.
func (r *Repository) ListOrphanFiles(ctx context.Context, limit int) ([]*model.File, error) {
	query := `
		SELECT id, object_key, name, url, content_type, size_bytes, note_id, uploaded_at
		FROM files
		WHERE note_id IS NULL
		ORDER BY uploaded_at
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orphan files: %w", err)
	}
	defer rows.Close()

	files := make([]*model.File, 0)
	for rows.Next() {
		var file model.File
		err := rows.Scan(
			&file.ID,
			&file.Key,
			&file.Name,
			&file.URL,
			&file.ContentType,
			&file.SizeBytes,
			&file.NoteID,
			&file.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, &file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating files: %w", err)
	}

	return files, nil
}
