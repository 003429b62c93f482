package ux

import (
	"errors"
	"fmt"
	"strings"

	perrors "github.com/felixgeelhaar/portal/internal/errors"
	"github.com/felixgeelhaar/portal/internal/gateway"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\n💡 Suggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a suggestion to gateway failures. Coded portal errors
// already carry their own suggestions and are returned unchanged.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var pe *perrors.PortalError
	if errors.As(err, &pe) && len(pe.Suggestions) > 0 {
		return err
	}

	switch status := gateway.StatusOf(err); {
	case status == 401:
		return NewErrorWithSuggestion(err, "Your session has expired. Run 'portal auth login' again")
	case status == 403:
		return NewErrorWithSuggestion(err, "This action needs a different role. Check 'portal auth whoami'")
	case status == 404:
		return NewErrorWithSuggestion(err, "Check the id; list commands show the available records")
	case status >= 500:
		return NewErrorWithSuggestion(err, "The backend failed. Retry shortly or check the backend logs")
	}

	if gateway.IsTransport(err) {
		errMsg := err.Error()
		if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no such host") {
			return NewErrorWithSuggestion(err,
				"Check the backend URL with 'portal config view', or run 'portal serve-stub' for a local backend")
		}
		return NewErrorWithSuggestion(err, "Check your network connection and retry")
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
