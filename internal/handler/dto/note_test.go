package dto

import (
	"testing"
	"time"

	"github.com/siddkalani/CRM-sub000/internal/model"
)

func TestToNoteResponses_AttachmentFields(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	notes := []*model.Note{
		{
			ID:        "01TEXTONLY",
			Body:      "plain note",
			CreatedAt: now,
		},
		{
			ID:        "01WITHFILE",
			Body:      "see attachment",
			FileURL:   "https://files.example.com/scan.pdf",
			FileName:  "scan.pdf",
			FileType:  "application/pdf",
			CreatedAt: now,
		},
	}

	responses := ToNoteResponses(notes)
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}

	plain := responses[0]
	if plain.Text != "plain note" {
		t.Errorf("Text = %q", plain.Text)
	}
	if plain.FileURL != "" || plain.FileName != "" || plain.FileType != "" {
		t.Errorf("text-only note carries attachment fields: %+v", plain)
	}

	attached := responses[1]
	if attached.FileURL != "https://files.example.com/scan.pdf" {
		t.Errorf("FileURL = %q", attached.FileURL)
	}
	if attached.FileName != "scan.pdf" || attached.FileType != "application/pdf" {
		t.Errorf("attachment metadata missing: %+v", attached)
	}
}
