// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// ErrorResponse represents an API error. Clients surface the message field.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}
