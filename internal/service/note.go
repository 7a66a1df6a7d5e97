package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/siddkalani/CRM-sub000/internal/metrics"
	"github.com/siddkalani/CRM-sub000/internal/model"
	"github.com/siddkalani/CRM-sub000/internal/repository"
)

// Note errors shared by the lead and contact services.
var (
	ErrNoteNotFound = errors.New("note not found")
	ErrEmptyNote    = errors.New("note text or an attachment is required")
)

// NoteAttachment describes a relayed upload to attach to a new note.
type NoteAttachment struct {
	FileID      string
	URL         string
	Name        string
	ContentType string
}

// noteOps implements the note lifecycle shared by leads and contacts.
type noteOps struct {
	repo    *repository.Repository
	metrics metrics.Recorder
}

// addNotes appends notes to a parent: one note per attachment, each carrying
// the text, or a single text-only note when there are no attachments.
// Every created note with an attachment is linked back to its file record.
func (n *noteOps) addNotes(ctx context.Context, parentType model.ParentType, parentID, text string, attachments []NoteAttachment) error {
	if text == "" && len(attachments) == 0 {
		return ErrEmptyNote
	}

	now := time.Now().UTC()
	notes := make([]*model.Note, 0, len(attachments)+1)

	if len(attachments) == 0 {
		notes = append(notes, &model.Note{
			ID:         newID(),
			ParentType: parentType,
			ParentID:   parentID,
			Body:       text,
			CreatedAt:  now,
		})
	}

	fileIDByNote := make(map[string]string, len(attachments))
	for _, att := range attachments {
		note := &model.Note{
			ID:         newID(),
			ParentType: parentType,
			ParentID:   parentID,
			Body:       text,
			FileURL:    att.URL,
			FileName:   att.Name,
			FileType:   att.ContentType,
			CreatedAt:  now,
		}
		notes = append(notes, note)
		if att.FileID != "" {
			fileIDByNote[note.ID] = att.FileID
		}
	}

	if err := n.repo.AddNotes(ctx, notes, fileIDByNote); err != nil {
		return fmt.Errorf("failed to add notes: %w", err)
	}

	for range notes {
		n.metrics.IncNoteAdded()
	}

	return nil
}

// updateNote replaces the text of one note.
func (n *noteOps) updateNote(ctx context.Context, parentType model.ParentType, parentID, noteID, text string) error {
	err := n.repo.UpdateNoteBody(ctx, parentType, parentID, noteID, text)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to update note: %w", err)
	}

	n.metrics.IncNoteUpdated()
	return nil
}

// deleteNote removes one note. Unknown note IDs are an error for both
// entity types.
func (n *noteOps) deleteNote(ctx context.Context, parentType model.ParentType, parentID, noteID string) error {
	err := n.repo.DeleteNote(ctx, parentType, parentID, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}

	n.metrics.IncNoteDeleted()
	return nil
}
