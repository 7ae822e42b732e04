package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("hbnb: not found")
	ErrUnauthorized = errors.New("hbnb: unauthorized")
	ErrForbidden    = errors.New("hbnb: forbidden")
)

// APIError is a non-2xx answer from the HBnB API.
type APIError struct {
	Status     int
	StatusText string
	Message    string // "error" (or "message") field of a JSON body, if any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %d %s: %s", e.Status, e.StatusText, e.Message)
	}
	return fmt.Sprintf("api %d %s", e.Status, e.StatusText)
}

// Reason is what gets shown to the user: the server message, else the status text.
func (e *APIError) Reason() string {
	if e.Message != "" {
		return e.Message
	}
	return e.StatusText
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	}
	return false
}
