package api

import (
	"errors"
	"fmt"
)

// Error is a non-2xx response from the backend. Anything else (connection
// refused, timeout) surfaces as the underlying transport error.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0 for transport-level
// failures.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// UserMessage folds an error into the string shown next to a metric: the
// server-provided message for reportable API errors, a generic connectivity
// message for everything else.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status >= 400 {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("request failed (%d)", apiErr.Status)
	}
	return "Network error - please check connection"
}
