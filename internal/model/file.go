package model

import "time"

// File records an upload relayed to the object store. NoteID is set once
// a note cites the upload, so orphans are discoverable instead of being
// tied together only by a shared URL string.
type File struct {
	ID          string    `json:"id"`
	Key         string    `json:"-"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	ContentType string    `json:"file_type"`
	SizeBytes   int64     `json:"size_bytes"`
	NoteID      *string   `json:"note_id,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
