package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/siddkalani/CRM-sub000/internal/model"
)

// Common errors for lead repository operations.
var (
	ErrLeadNotFound    = errors.New("lead not found")
	ErrLeadEmailExists = errors.New("lead email already exists")
)

// CreateLead inserts a new lead into the database.
func (r *Repository) CreateLead(ctx context.Context, lead *model.Lead) error {
	query := `
		INSERT INTO leads (id, owner_id, first_name, last_name, email, phone, company, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		lead.ID,
		lead.OwnerID,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		lead.Company,
		lead.CreatedAt,
		lead.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "leads_email_key") {
			return ErrLeadEmailExists
		}
		if isForeignKeyViolation(err, "leads_owner_id_fkey") {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create lead: %w", err)
	}

	return nil
}

// GetLeadByID retrieves a lead by its ID. Notes are not attached here;
// callers that need them use ListNotes.
func (r *Repository) GetLeadByID(ctx context.Context, id string) (*model.Lead, error) {
	query := `
		SELECT id, owner_id, first_name, last_name, email, phone, company, created_at, updated_at
		FROM leads
		WHERE id = $1
	`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead by ID: %w", err)
	}

	return lead, nil
}

// ListLeadsByOwner retrieves all leads owned by a user, newest first.
func (r *Repository) ListLeadsByOwner(ctx context.Context, ownerID string) ([]*model.Lead, error) {
	query := `
		SELECT id, owner_id, first_name, last_name, email, phone, company, created_at, updated_at
		FROM leads
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]*model.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leads: %w", err)
	}

	return leads, nil
}

// UpdateLead persists a lead's mutable fields.
func (r *Repository) UpdateLead(ctx context.Context, lead *model.Lead) error {
	query := `
		UPDATE leads
		SET first_name = $2, last_name = $3, email = $4, phone = $5, company = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		lead.ID,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		lead.Company,
		lead.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "leads_email_key") {
			return ErrLeadEmailExists
		}
		return fmt.Errorf("failed to update lead: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrLeadNotFound
	}

	return nil
}

// DeleteLead removes a lead and its notes in one transaction.
// Uploaded files referenced by those notes are unlinked, not deleted.
func (r *Repository) DeleteLead(ctx context.Context, id string) error {
	return r.deleteParent(ctx, model.ParentLead, id, "leads", ErrLeadNotFound)
}

// deleteParent removes an entity row plus its notes and unlinks file records.
func (r *Repository) deleteParent(ctx context.Context, parentType model.ParentType, id, table string, notFound error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	unlink := `
		UPDATE files SET note_id = NULL
		WHERE note_id IN (SELECT id FROM notes WHERE parent_type = $1 AND parent_id = $2)
	`
	if _, err := tx.Exec(ctx, unlink, parentType, id); err != nil {
		return fmt.Errorf("failed to unlink files: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM notes WHERE parent_type = $1 AND parent_id = $2`, parentType, id); err != nil {
		return fmt.Errorf("failed to delete notes: %w", err)
	}

	result, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", parentType, err)
	}
	if result.RowsAffected() == 0 {
		return notFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete transaction: %w", err)
	}
	return nil
}

// scanLead scans a single row into a Lead model.
func scanLead(row pgx.Row) (*model.Lead, error) {
	var lead model.Lead
	err := row.Scan(
		&lead.ID,
		&lead.OwnerID,
		&lead.FirstName,
		&lead.LastName,
		&lead.Email,
		&lead.Phone,
		&lead.Company,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}
