package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/siddkalani/CRM-sub000/internal/model"
)

// ErrContactNotFound is returned when no contact matches the given ID.
var ErrContactNotFound = errors.New("contact not found")

// CreateContact inserts a new contact into the database.
// An empty owner ID is stored as NULL.
func (r *Repository) CreateContact(ctx context.Context, contact *model.Contact) error {
	query := `
		INSERT INTO contacts (id, owner_id, first_name, last_name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		contact.ID,
		nullIfEmpty(contact.OwnerID),
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Phone,
		contact.CreatedAt,
		contact.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err, "contacts_owner_id_fkey") {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// GetContactByID retrieves a contact by its ID.
func (r *Repository) GetContactByID(ctx context.Context, id string) (*model.Contact, error) {
	query := `
		SELECT id, COALESCE(owner_id, ''), first_name, last_name, email, phone, created_at, updated_at
		FROM contacts
		WHERE id = $1
	`

	contact, err := scanContact(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact by ID: %w", err)
	}

	return contact, nil
}

// ListContactsByOwner retrieves all contacts owned by a user, newest first.
func (r *Repository) ListContactsByOwner(ctx context.Context, ownerID string) ([]*model.Contact, error) {
	query := `
		SELECT id, COALESCE(owner_id, ''), first_name, last_name, email, phone, created_at, updated_at
		FROM contacts
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*model.Contact, 0)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}

// UpdateContact persists a contact's mutable fields.
func (r *Repository) UpdateContact(ctx context.Context, contact *model.Contact) error {
	query := `
		UPDATE contacts
		SET first_name = $2, last_name = $3, email = $4, phone = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		contact.ID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Phone,
		contact.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrContactNotFound
	}

	return nil
}

// DeleteContact removes a contact and its notes in one transaction.
// Uploaded files referenced by those notes are unlinked, not deleted.
func (r *Repository) DeleteContact(ctx context.Context, id string) error {
	return r.deleteParent(ctx, model.ParentContact, id, "contacts", ErrContactNotFound)
}

// scanContact scans a single row into a Contact model.
func scanContact(row pgx.Row) (*model.Contact, error) {
	var contact model.Contact
	err := row.Scan(
		&contact.ID,
		&contact.OwnerID,
		&contact.FirstName,
		&contact.LastName,
		&contact.Email,
		&contact.Phone,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &contact, nil
}
