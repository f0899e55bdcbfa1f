package datasource

import (
	"errors"
	"fmt"
	"net/http"
)

// UnknownErrorMessage is shown for failures that carry no API message (network, decoding, cancellation)
const UnknownErrorMessage = "an unknown error occurred"

// APIError is returned when the API answers with a non-OK status
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// NotFound reports whether the API did not recognise the requested city
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// DisplayMessage reduces err to the message shown to the user
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return UnknownErrorMessage
}
