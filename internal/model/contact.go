package model

import "time"

// Contact represents an established customer record. Only the first name
// is required; the owner reference is optional.
type Contact struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id,omitempty"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Notes     []*Note   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
