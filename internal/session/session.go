// Package session is the demo auth store. It owns the current session,
// persists its token, restores it at startup and tells subscribers when
// the user logs in or out.
//
// Any non-empty email and password starts a demo session without touching
// the network. Demo sessions read from fixtures; sessions backed by a real
// token read from the backend. The choice is made once, when the session
// is created.
package session

import (
	"strings"

	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
)

// DemoTokenPrefix marks client-generated tokens.
const DemoTokenPrefix = "demo-token-"

// Session pairs a bearer token with the user it belongs to.
type Session struct {
	Token string
	User  domain.User
}

// IsDemo reports whether the session was created locally.
func (s *Session) IsDemo() bool {
	return s != nil && IsDemoToken(s.Token)
}

// IsDemoToken reports whether token carries the demo prefix.
func IsDemoToken(token string) bool {
	return strings.HasPrefix(token, DemoTokenPrefix)
}

// AuthError is a failed login or signup. Message is safe to show to the user.
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// ErrorCode implements errors.Coded
func (e *AuthError) ErrorCode() perrors.ErrorCode {
	return perrors.ErrCodeAuthRejected
}

// ErrDemoSnapshotMissing is returned by Restore when a demo token was
// persisted without its user. The token is discarded.
var ErrDemoSnapshotMissing = perrors.New(perrors.ErrCodeAuthDemoSnapshot, "demo session has no stored user").
	WithSuggestion("Log in again; demo sessions cannot be revalidated")

// Change describes a session transition.
type Change struct {
	Previous *Session
	Current  *Session
}

// LoggedIn reports an absent to present transition.
func (c Change) LoggedIn() bool {
	return c.Previous == nil && c.Current != nil
}

// LoggedOut reports a present to absent transition.
func (c Change) LoggedOut() bool {
	return c.Previous != nil && c.Current == nil
}
