package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeAuthMissingCredentials ErrorCode = "AUTH-001"
	ErrCodeAuthRejected           ErrorCode = "AUTH-002"
	ErrCodeAuthSessionStale       ErrorCode = "AUTH-003"
	ErrCodeAuthNotLoggedIn        ErrorCode = "AUTH-004"
	ErrCodeAuthDemoSnapshot       ErrorCode = "AUTH-005"
	ErrCodeAuthOTPInvalid         ErrorCode = "AUTH-006"
	ErrCodeAuthPasswordMismatch   ErrorCode = "AUTH-007"

	// Gateway errors (GATEWAY-001 to GATEWAY-099)
	ErrCodeGatewayTransport ErrorCode = "GATEWAY-001"
	ErrCodeGatewayTimeout   ErrorCode = "GATEWAY-002"
	ErrCodeGatewayStatus    ErrorCode = "GATEWAY-003"
	ErrCodeGatewayDecode    ErrorCode = "GATEWAY-004"
	ErrCodeGatewayEncode    ErrorCode = "GATEWAY-005"
	ErrCodeGatewayMissingID ErrorCode = "GATEWAY-006"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigBackendMissing ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid        ErrorCode = "CONFIG-002"
	ErrCodeConfigUnknownApp     ErrorCode = "CONFIG-003"

	// View errors (VIEW-001 to VIEW-099)
	ErrCodeViewUnknown         ErrorCode = "VIEW-001"
	ErrCodeViewRequiresSession ErrorCode = "VIEW-002"

	// Fixture errors (FIXTURE-001 to FIXTURE-099)
	ErrCodeFixtureNotFound  ErrorCode = "FIXTURE-001"
	ErrCodeFixtureInvalid   ErrorCode = "FIXTURE-002"
	ErrCodeFixtureForbidden ErrorCode = "FIXTURE-003"
	ErrCodeFixtureConflict  ErrorCode = "FIXTURE-004"

	// Local state errors (STATE-001 to STATE-099)
	ErrCodeStateReadFailed  ErrorCode = "STATE-001"
	ErrCodeStateWriteFailed ErrorCode = "STATE-002"
	ErrCodeStateCorrupt     ErrorCode = "STATE-003"
)

// PortalError represents an error with a code, suggestions, and an optional cause
type PortalError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *PortalError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *PortalError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a PortalError with the same code.
func (e *PortalError) Is(target error) bool {
	t, ok := target.(*PortalError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

// New creates a new PortalError
func New(code ErrorCode, message string) *PortalError {
	return &PortalError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new PortalError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *PortalError {
	return &PortalError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *PortalError) WithSuggestion(suggestion string) *PortalError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *PortalError) WithSuggestions(suggestions ...string) *PortalError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Coded is implemented by errors that carry a portal error code without
// being a PortalError, such as gateway status and transport errors.
type Coded interface {
	ErrorCode() ErrorCode
}

// ErrorCode implements Coded
func (e *PortalError) ErrorCode() ErrorCode {
	return e.Code
}

// CodeOf returns the code of the first coded error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var c Coded
	if stderrors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// Common error constructors

// NewNotLoggedInError is returned when a command needs a session and none exists
func NewNotLoggedInError() *PortalError {
	return New(ErrCodeAuthNotLoggedIn, "not logged in").
		WithSuggestion("Run 'portal auth login --email <email> --password <password>'").
		WithSuggestion("Any non-empty email and password starts a demo session")
}

// NewMissingCredentialsError is returned when login is attempted without an email
func NewMissingCredentialsError(field string) *PortalError {
	return New(ErrCodeAuthMissingCredentials, fmt.Sprintf("%s is required", field)).
		WithSuggestion(fmt.Sprintf("Pass --%s or run the command interactively", field))
}

// NewBackendMissingError is returned when a remote call is needed but no backend is configured
func NewBackendMissingError() *PortalError {
	return New(ErrCodeConfigBackendMissing, "no backend URL configured").
		WithSuggestion("Set PORTAL_BACKEND_URL (or REACT_APP_BACKEND_URL) in the environment or .env").
		WithSuggestion("Pass --backend http://host:port").
		WithSuggestion("Run 'portal serve-stub' for a local test backend")
}

// NewUnknownAppError is returned for an --app value other than hr or procurement
func NewUnknownAppError(app string) *PortalError {
	return New(ErrCodeConfigUnknownApp, fmt.Sprintf("unknown app: %s", app)).
		WithSuggestion("Use one of: hr, procurement")
}

// NewStateCorruptError wraps a failure to parse the persisted session file
func NewStateCorruptError(path string, cause error) *PortalError {
	return Wrap(ErrCodeStateCorrupt, fmt.Sprintf("failed to parse state file: %s", path), cause).
		WithSuggestion("Run 'portal auth logout' to reset the stored session").
		WithSuggestion(fmt.Sprintf("Or delete %s manually", path))
}

// NewFixtureNotFoundError is returned by the fixture data source for unknown ids
func NewFixtureNotFoundError(kind, id string) *PortalError {
	return New(ErrCodeFixtureNotFound, fmt.Sprintf("%s not found: %s", kind, id))
}
