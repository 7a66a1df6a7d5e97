package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/siddkalani/CRM-sub000/internal/metrics"
	"github.com/siddkalani/CRM-sub000/internal/model"
	"github.com/siddkalani/CRM-sub000/internal/repository"
)

// Contact service errors.
var (
	ErrContactNotFound    = errors.New("contact not found")
	ErrMissingContactName = errors.New("first name is required")
)

// ContactService handles contact business logic.
type ContactService struct {
	noteOps
}

// NewContactService creates a new ContactService.
func NewContactService(repo *repository.Repository, recorder metrics.Recorder) *ContactService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ContactService{noteOps: noteOps{repo: repo, metrics: recorder}}
}

// CreateContactInput defines input for creating a contact.
type CreateContactInput struct {
	OwnerID   string
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// CreateContact validates required fields and persists a new contact.
// Only the first name is required.
func (s *ContactService) CreateContact(ctx context.Context, input CreateContactInput) (*model.Contact, error) {
	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		return nil, ErrMissingContactName
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email != "" && !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()
	contact := &model.Contact{
		ID:        newID(),
		OwnerID:   input.OwnerID,
		FirstName: firstName,
		LastName:  strings.TrimSpace(input.LastName),
		Email:     email,
		Phone:     strings.TrimSpace(input.Phone),
		Notes:     []*model.Note{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateContact(ctx, contact); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	s.metrics.IncContactCreated()

	return contact, nil
}

// GetContact retrieves a contact with its notes.
func (s *ContactService) GetContact(ctx context.Context, id string) (*model.Contact, error) {
	contact, err := s.repo.GetContactByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}

	notes, err := s.repo.ListNotes(ctx, model.ParentContact, id)
	if err != nil {
		return nil, err
	}
	contact.Notes = notes

	return contact, nil
}

// ListContacts retrieves all contacts owned by a user, notes included.
func (s *ContactService) ListContacts(ctx context.Context, ownerID string) ([]*model.Contact, error) {
	contacts, err := s.repo.ListContactsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(contacts))
	for i, contact := range contacts {
		ids[i] = contact.ID
	}

	grouped, err := s.repo.ListNotesByParents(ctx, model.ParentContact, ids)
	if err != nil {
		return nil, err
	}

	for _, contact := range contacts {
		contact.Notes = grouped[contact.ID]
		if contact.Notes == nil {
			contact.Notes = []*model.Note{}
		}
	}

	return contacts, nil
}

// ContactPatch defines a partial update. Nil fields are left untouched;
// explicitly supplied empty strings clear the value.
type ContactPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
}

// apply merges the patch into the contact. Nil fields are skipped; supplied
// values replace the current ones, so an empty string clears the field.
// The first name must survive the merge.
func (p ContactPatch) apply(contact *model.Contact) error {
	if p.FirstName != nil {
		contact.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		contact.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*p.Email))
		if email != "" && !emailRegex.MatchString(email) {
			return ErrInvalidEmail
		}
		contact.Email = email
	}
	if p.Phone != nil {
		contact.Phone = strings.TrimSpace(*p.Phone)
	}

	if contact.FirstName == "" {
		return ErrMissingContactName
	}
	return nil
}

// UpdateContact applies the supplied fields and returns the full record.
func (s *ContactService) UpdateContact(ctx context.Context, id string, patch ContactPatch) (*model.Contact, error) {
	contact, err := s.repo.GetContactByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}

	if err := patch.apply(contact); err != nil {
		return nil, err
	}

	contact.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateContact(ctx, contact); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	s.metrics.IncContactUpdated()

	return s.GetContact(ctx, id)
}

// DeleteContact permanently removes a contact and its notes.
func (s *ContactService) DeleteContact(ctx context.Context, id string) error {
	if err := s.repo.DeleteContact(ctx, id); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return ErrContactNotFound
		}
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	s.metrics.IncContactDeleted()
	return nil
}

// AddNote appends notes to a contact and returns the updated record.
// Each attachment becomes its own note carrying the shared text.
func (s *ContactService) AddNote(ctx context.Context, contactID, text string, attachments []NoteAttachment) (*model.Contact, error) {
	if _, err := s.repo.GetContactByID(ctx, contactID); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}

	if err := s.addNotes(ctx, model.ParentContact, contactID, text, attachments); err != nil {
		return nil, err
	}

	return s.GetContact(ctx, contactID)
}

// UpdateNote replaces a note's text and returns the updated contact.
func (s *ContactService) UpdateNote(ctx context.Context, contactID, noteID, text string) (*model.Contact, error) {
	if err := s.updateNote(ctx, model.ParentContact, contactID, noteID, text); err != nil {
		return nil, err
	}
	return s.GetContact(ctx, contactID)
}

// DeleteNote removes a note and returns the updated contact.
func (s *ContactService) DeleteNote(ctx context.Context, contactID, noteID string) (*model.Contact, error) {
	if err := s.deleteNote(ctx, model.ParentContact, contactID, noteID); err != nil {
		return nil, err
	}
	return s.GetContact(ctx, contactID)
}
