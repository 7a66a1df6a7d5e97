// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account. Users own leads and contacts.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username,omitempty"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthContext holds the authenticated request identity.
// This is injected into the request context by the auth middleware.
type AuthContext struct {
	UserID   string
	Email    string
	Username string
	TokenID  string
}
