package model

import "time"

// ParentType identifies which entity a note is attached to.
type ParentType string

const (
	ParentLead    ParentType = "lead"
	ParentContact ParentType = "contact"
)

// IsValid checks if the parent type is a known entity kind.
func (p ParentType) IsValid() bool {
	return p == ParentLead || p == ParentContact
}

// Note is a timestamped annotation attached to a lead or contact,
// optionally carrying a file attachment. Notes live in their own table
// keyed by (parent_type, parent_id, id); insertion order is preserved
// by the position column.
type Note struct {
	ID         string     `json:"id"`
	ParentType ParentType `json:"-"`
	ParentID   string     `json:"-"`
	Body       string     `json:"text"`
	FileURL    string     `json:"file_url,omitempty"`
	FileName   string     `json:"file_name,omitempty"`
	FileType   string     `json:"file_type,omitempty"`
	Position   int        `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
}

// HasAttachment returns true if the note references an uploaded file.
func (n *Note) HasAttachment() bool {
	return n.FileURL != ""
}
