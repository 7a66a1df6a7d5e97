// Package service provides business logic for the application.
package service

import "github.com/oklog/ulid/v2"

// newID generates a sortable unique identifier for entities.
func newID() string {
	return ulid.Make().String()
}
