package searchclient

import (
	"errors"
	"fmt"
)

// Sentinel errors for search API calls.
var (
	ErrSearchFailed  = errors.New("search failed")
	ErrUnauthorized  = errors.New("search API rejected the credentials")
	ErrUnreachable   = errors.New("search API unreachable")
	ErrBadResponse   = errors.New("malformed search API response")
	ErrHealthFailed  = errors.New("health check failed")
	ErrInvalidConfig = errors.New("invalid search client configuration")
)

// defaultErrorMessage is shown when an error response carries no message.
const defaultErrorMessage = "An error occurred during search"

// APIError is an error reported by the search API.
// Message is the API's own text, suitable for showing to users.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Unwrap makes every APIError match ErrSearchFailed.
func (e *APIError) Unwrap() error {
	return ErrSearchFailed
}
