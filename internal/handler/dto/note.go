package dto

import (
	"time"

	"github.com/siddkalani/CRM-sub000/internal/model"
)

// NoteResponse represents a note in API responses.
type NoteResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	FileURL   string    `json:"file_url,omitempty"`
	FileName  string    `json:"file_name,omitempty"`
	FileType  string    `json:"file_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateNoteRequest represents the request body for updating a note's text.
type UpdateNoteRequest struct {
	Text string `json:"text"`
}

// ToNoteResponses converts Note models to NoteResponse DTOs, preserving order.
func ToNoteResponses(notes []*model.Note) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		resp := NoteResponse{
			ID:        note.ID,
			Text:      note.Body,
			CreatedAt: note.CreatedAt,
		}
		if note.HasAttachment() {
			resp.FileURL = note.FileURL
			resp.FileName = note.FileName
			resp.FileType = note.FileType
		}
		responses[i] = resp
	}
	return responses
}
