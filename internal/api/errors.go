package api

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx answer from the API. Message holds the server's
// own explanation and is what users get to see.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError builds an APIError, falling back to a generic message when the
// server did not send one.
func NewAPIError(status int, message string) *APIError {
	if message == "" {
		message = fmt.Sprintf("API returned status %d", status)
	}
	return &APIError{StatusCode: status, Message: message}
}

// UserMessage returns the text to show for a failed fetch: the server's
// message for API errors, the error text otherwise.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
