package n8n

import (
	"errors"
	"fmt"
)

// Error is the normalized shape every failed engine call resolves to.
// Nothing below the client surfaces raw transport errors.
type Error struct {
	Err        string `json:"error"`
	Message    string `json:"message,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}

func (e *Error) Error() string {
	if e.Message != "" && e.Message != e.Err {
		return fmt.Sprintf("%s: %s", e.Err, e.Message)
	}

	return e.Err
}

// NewError wraps an arbitrary failure into the normalized shape.
func NewError(summary string, statusCode int, err error) *Error {
	message := ""
	if err != nil {
		message = err.Error()
	}

	return &Error{
		Err:        summary,
		Message:    message,
		StatusCode: statusCode,
	}
}

// AsError extracts the normalized error from err, wrapping non-engine
// failures with a zero status code so callers always see one shape.
func AsError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return &Error{Err: err.Error()}
}

// IsNotFound reports whether the engine answered 404.
func IsNotFound(err error) bool {
	var apiErr *Error

	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
