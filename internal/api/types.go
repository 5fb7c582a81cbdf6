// Package api contains the HTTP handlers for the channel and playback
// endpoints.
package api

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
