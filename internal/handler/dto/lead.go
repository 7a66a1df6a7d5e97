package dto

import (
	"time"

	"github.com/siddkalani/CRM-sub000/internal/model"
)

// CreateLeadRequest represents the request body for creating a lead.
type CreateLeadRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company,omitempty"`
	Notes     string `json:"notes,omitempty"` // optional initial note text
}

// UpdateLeadRequest represents a lead patch. Absent fields are left
// untouched; explicit empty strings clear the value.
type UpdateLeadRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Company   *string `json:"company,omitempty"`
}

// AddLeadNoteRequest represents the request body for adding a lead note.
type AddLeadNoteRequest struct {
	Text string `json:"text"`
}

// LeadResponse represents a lead in API responses.
type LeadResponse struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"owner_id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone,omitempty"`
	Company   string         `json:"company,omitempty"`
	Notes     []NoteResponse `json:"notes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// LeadListResponse wraps the lead collection for list endpoints.
type LeadListResponse struct {
	Leads []LeadResponse `json:"leads"`
}

// ToLeadResponse converts a Lead model to LeadResponse DTO.
func ToLeadResponse(lead *model.Lead) *LeadResponse {
	return &LeadResponse{
		ID:        lead.ID,
		OwnerID:   lead.OwnerID,
		FirstName: lead.FirstName,
		LastName:  lead.LastName,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Company:   lead.Company,
		Notes:     ToNoteResponses(lead.Notes),
		CreatedAt: lead.CreatedAt,
		UpdatedAt: lead.UpdatedAt,
	}
}

// ToLeadListResponse converts a slice of Lead models to LeadListResponse.
func ToLeadListResponse(leads []*model.Lead) *LeadListResponse {
	responses := make([]LeadResponse, len(leads))
	for i, lead := range leads {
		responses[i] = *ToLeadResponse(lead)
	}
	return &LeadListResponse{Leads: responses}
}
