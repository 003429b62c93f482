// Package views is the view router: the single piece of state selecting
// which screen is visible. Public views are reachable without a session,
// every other view needs one.
package views

import (
	"fmt"
	"sync"

	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
	"github.com/felixgeelhaar/portal/internal/session"
)

// View identifies a screen.
type View string

// Public views
const (
	Landing      View = "landing"
	VendorSignup View = "vendor-signup"
	VendorSignin View = "vendor-signin"
	TeamLogin    View = "team-login"
)

// Authenticated views
const (
	Dashboard  View = "dashboard"
	RFPs       View = "rfps"
	Evaluation View = "evaluation"
	Proposals  View = "proposals"
	Contracts  View = "contracts"
	Services   View = "services"
	Policies   View = "policies"
	Chat       View = "chat"
)

// Default is where a new session lands.
const Default = Dashboard

var allViews = []View{
	Landing, VendorSignup, VendorSignin, TeamLogin,
	Dashboard, RFPs, Evaluation, Proposals, Contracts, Services, Policies, Chat,
}

// All returns every view, public ones first.
func All() []View {
	return append([]View(nil), allViews...)
}

// ParseView validates a view name.
func ParseView(name string) (View, error) {
	for _, v := range allViews {
		if string(v) == name {
			return v, nil
		}
	}
	return "", perrors.New(perrors.ErrCodeViewUnknown, fmt.Sprintf("unknown view: %s", name))
}

// Public reports whether v is reachable without a session.
func (v View) Public() bool {
	switch v {
	case Landing, VendorSignup, VendorSignin, TeamLogin:
		return true
	}
	return false
}

func (v View) String() string {
	return string(v)
}

// ErrViewRequiresSession is returned when an authenticated view is
// requested without a session.
var ErrViewRequiresSession = perrors.New(perrors.ErrCodeViewRequiresSession, "view requires a session").
	WithSuggestion("Log in first")

// Router holds the visible view.
type Router struct {
	mu            sync.RWMutex
	current       View
	authenticated bool
}

// NewRouter starts at the landing view with no session.
func NewRouter() *Router {
	return &Router{current: Landing}
}

// Current returns the visible view.
func (r *Router) Current() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Authenticated reports whether the router believes a session exists.
func (r *Router) Authenticated() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.authenticated
}

// Navigate jumps to v. Authenticated views without a session fail and
// leave the view unchanged. Public views with a session go to Default.
func (r *Router) Navigate(v View) error {
	if _, err := ParseView(string(v)); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case !v.Public() && !r.authenticated:
		return ErrViewRequiresSession
	case v.Public() && r.authenticated:
		r.current = Default
	default:
		r.current = v
	}
	return nil
}

// SessionChanged applies a session transition: gaining a session forces
// Default, losing it forces Landing. Repeating the current state is a no-op.
func (r *Router) SessionChanged(present bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if present == r.authenticated {
		return
	}
	r.authenticated = present
	if present {
		r.current = Default
	} else {
		r.current = Landing
	}
}

// Follow keeps the router in step with a session store, starting from the
// store's current state.
func (r *Router) Follow(s *session.Store) {
	r.SessionChanged(s.Current() != nil)
	s.Subscribe(func(c session.Change) {
		r.SessionChanged(c.Current != nil)
	})
}

// NavItem is one entry of the navigation bar.
type NavItem struct {
	View  View
	Label string
}

// NavItems lists the navigation entries for an app and role.
func NavItems(app domain.App, userType domain.UserType) []NavItem {
	if app == domain.AppHR {
		return []NavItem{
			{Dashboard, "Dashboard"},
			{Services, "Services"},
			{Policies, "Policies"},
			{Chat, "Assistant"},
		}
	}
	if userType.IsAdmin() {
		return []NavItem{
			{Dashboard, "Dashboard"},
			{RFPs, "Manage RFPs"},
			{Evaluation, "Evaluations"},
		}
	}
	return []NavItem{
		{Dashboard, "Dashboard"},
		{RFPs, "Available RFPs"},
		{Proposals, "My Proposals"},
		{Contracts, "Contracts"},
	}
}
