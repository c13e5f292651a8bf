package api

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnauthorized means the server rejected our token. By the time a caller
// sees it the session has already been cleared and the sign-in hook fired.
var ErrUnauthorized = errors.New("api: unauthorized")

// APIError is a non-401 error response from the server, carrying whatever
// message the backend put in its error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: server returned %d", e.Status)
	}
	return fmt.Sprintf("api: %s (%d)", e.Message, e.Status)
}

// Humanize turns a client error into the short line the UI shows. Aborted
// requests return "" because they are not failures.
func Humanize(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return ""
	}
	if errors.Is(err, ErrUnauthorized) {
		return "Session expired. Please sign in again."
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= 500 {
			return "Something went wrong on our end. Try again shortly."
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "The server rejected that change."
	}
	return "Could not reach the server. Check your connection."
}
