package dto

import (
	"time"

	"github.com/siddkalani/CRM-sub000/internal/model"
)

// CreateContactRequest represents the request body for creating a contact.
// Only the first name is required.
type CreateContactRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// UpdateContactRequest represents a contact patch. Absent fields are left
// untouched; explicit empty strings clear the value.
type UpdateContactRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// ContactResponse represents a contact in API responses.
type ContactResponse struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"owner_id,omitempty"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name,omitempty"`
	Email     string         `json:"email,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Notes     []NoteResponse `json:"notes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ContactListResponse wraps the contact collection for list endpoints.
type ContactListResponse struct {
	Contacts []ContactResponse `json:"contacts"`
}

// ToContactResponse converts a Contact model to ContactResponse DTO.
func ToContactResponse(contact *model.Contact) *ContactResponse {
	return &ContactResponse{
		ID:        contact.ID,
		OwnerID:   contact.OwnerID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Notes:     ToNoteResponses(contact.Notes),
		CreatedAt: contact.CreatedAt,
		UpdatedAt: contact.UpdatedAt,
	}
}

// ToContactListResponse converts a slice of Contact models to ContactListResponse.
func ToContactListResponse(contacts []*model.Contact) *ContactListResponse {
	responses := make([]ContactResponse, len(contacts))
	for i, contact := range contacts {
		responses[i] = *ToContactResponse(contact)
	}
	return &ContactListResponse{Contacts: responses}
}

// UploadResponse represents a relayed upload in API responses.
type UploadResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	FileType   string    `json:"file_type"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ToUploadResponse converts a File model to UploadResponse DTO.
func ToUploadResponse(file *model.File) *UploadResponse {
	return &UploadResponse{
		ID:         file.ID,
		Name:       file.Name,
		URL:        file.URL,
		FileType:   file.ContentType,
		SizeBytes:  file.SizeBytes,
		UploadedAt: file.UploadedAt,
	}
}

// TranscriptionResponse is returned by the speech-to-text endpoint.
type TranscriptionResponse struct {
	Transcription string `json:"transcription"`
}
