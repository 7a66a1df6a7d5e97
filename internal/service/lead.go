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

// Lead service errors.
var (
	ErrLeadNotFound      = errors.New("lead not found")
	ErrLeadEmailTaken    = errors.New("a lead with this email already exists")
	ErrMissingLeadFields = errors.New("first name, last name and email are required")
)

// LeadService handles lead business logic.
type LeadService struct {
	noteOps
}

// NewLeadService creates a new LeadService.
func NewLeadService(repo *repository.Repository, recorder metrics.Recorder) *LeadService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &LeadService{noteOps: noteOps{repo: repo, metrics: recorder}}
}

// CreateLeadInput defines input for creating a lead.
type CreateLeadInput struct {
	OwnerID   string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	Note      string // optional initial note text
}

// CreateLead validates required fields and persists a new lead.
func (s *LeadService) CreateLead(ctx context.Context, input CreateLeadInput) (*model.Lead, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if firstName == "" || lastName == "" || email == "" {
		return nil, ErrMissingLeadFields
	}
	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()
	lead := &model.Lead{
		ID:        newID(),
		OwnerID:   input.OwnerID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     strings.TrimSpace(input.Phone),
		Company:   strings.TrimSpace(input.Company),
		Notes:     []*model.Note{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateLead(ctx, lead); err != nil {
		switch {
		case errors.Is(err, repository.ErrLeadEmailExists):
			return nil, ErrLeadEmailTaken
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	s.metrics.IncLeadCreated()

	if input.Note != "" {
		if err := s.addNotes(ctx, model.ParentLead, lead.ID, input.Note, nil); err != nil {
			return nil, err
		}
		return s.GetLead(ctx, lead.ID)
	}

	return lead, nil
}

// GetLead retrieves a lead with its notes.
func (s *LeadService) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	lead, err := s.repo.GetLeadByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	notes, err := s.repo.ListNotes(ctx, model.ParentLead, id)
	if err != nil {
		return nil, err
	}
	lead.Notes = notes

	return lead, nil
}

// ListLeads retrieves all leads owned by a user, notes included.
func (s *LeadService) ListLeads(ctx context.Context, ownerID string) ([]*model.Lead, error) {
	leads, err := s.repo.ListLeadsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(leads))
	for i, lead := range leads {
		ids[i] = lead.ID
	}

	grouped, err := s.repo.ListNotesByParents(ctx, model.ParentLead, ids)
	if err != nil {
		return nil, err
	}

	for _, lead := range leads {
		lead.Notes = grouped[lead.ID]
		if lead.Notes == nil {
			lead.Notes = []*model.Note{}
		}
	}

	return leads, nil
}

// LeadPatch defines a partial update. Nil fields are left untouched;
// explicitly supplied empty strings clear the value.
type LeadPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Company   *string
}

// apply merges the patch into the lead. Nil fields are skipped; supplied
// values replace the current ones, so an empty string clears the field.
// Required fields are re-checked after the merge.
func (p LeadPatch) apply(lead *model.Lead) error {
	if p.FirstName != nil {
		lead.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		lead.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*p.Email))
		if !emailRegex.MatchString(email) {
			return ErrInvalidEmail
		}
		lead.Email = email
	}
	if p.Phone != nil {
		lead.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Company != nil {
		lead.Company = strings.TrimSpace(*p.Company)
	}

	if lead.FirstName == "" || lead.LastName == "" || lead.Email == "" {
		return ErrMissingLeadFields
	}
	return nil
}

// UpdateLead applies the supplied fields and returns the full record.
func (s *LeadService) UpdateLead(ctx context.Context, id string, patch LeadPatch) (*model.Lead, error) {
	lead, err := s.repo.GetLeadByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	if err := patch.apply(lead); err != nil {
		return nil, err
	}

	lead.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateLead(ctx, lead); err != nil {
		switch {
		case errors.Is(err, repository.ErrLeadNotFound):
			return nil, ErrLeadNotFound
		case errors.Is(err, repository.ErrLeadEmailExists):
			return nil, ErrLeadEmailTaken
		}
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	s.metrics.IncLeadUpdated()

	return s.GetLead(ctx, id)
}

// DeleteLead permanently removes a lead and its notes.
func (s *LeadService) DeleteLead(ctx context.Context, id string) error {
	if err := s.repo.DeleteLead(ctx, id); err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return ErrLeadNotFound
		}
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	s.metrics.IncLeadDeleted()
	return nil
}

// AddNote appends notes to a lead and returns the updated record.
func (s *LeadService) AddNote(ctx context.Context, leadID, text string, attachments []NoteAttachment) (*model.Lead, error) {
	if _, err := s.repo.GetLeadByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}

	if err := s.addNotes(ctx, model.ParentLead, leadID, text, attachments); err != nil {
		return nil, err
	}

	return s.GetLead(ctx, leadID)
}

// UpdateNote replaces a note's text and returns the updated lead.
func (s *LeadService) UpdateNote(ctx context.Context, leadID, noteID, text string) (*model.Lead, error) {
	if err := s.updateNote(ctx, model.ParentLead, leadID, noteID, text); err != nil {
		return nil, err
	}
	return s.GetLead(ctx, leadID)
}

// DeleteNote removes a note and returns the updated lead.
func (s *LeadService) DeleteNote(ctx context.Context, leadID, noteID string) (*model.Lead, error) {
	if err := s.deleteNote(ctx, model.ParentLead, leadID, noteID); err != nil {
		return nil, err
	}
	return s.GetLead(ctx, leadID)
}
