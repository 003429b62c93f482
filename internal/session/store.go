package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/portal/internal/datasource"
	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
	"github.com/felixgeelhaar/portal/internal/gateway"
	"github.com/felixgeelhaar/portal/internal/log"
	"github.com/felixgeelhaar/portal/internal/metrics"
)

// Login modes, also used as metric labels.
const (
	modeDemo   = "demo"
	modeRemote = "remote"
)

// Authenticator is the backend side of authentication. *gateway.Client
// implements it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Signup(ctx context.Context, profile domain.Profile) (*domain.AuthResult, error)
	Me(ctx context.Context, token string) (*domain.User, error)
}

// SourceFunc picks the data source for a new session.
type SourceFunc func(token string, user domain.User, demo bool) (datasource.Source, error)

// Store holds the current session. It is safe for concurrent use;
// subscribers run on the goroutine that caused the change.
type Store struct {
	tokens  TokenStore
	auth    Authenticator
	sources SourceFunc
	logger  *log.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	// remoteOnly sends every login to the backend, even with both fields set.
	remoteOnly bool

	mu          sync.RWMutex
	current     *Session
	source      datasource.Source
	subscribers []func(Change)
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithClock replaces time.Now for demo ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSources sets how a session's data source is chosen. Without it
// sessions have no source.
func WithSources(fn SourceFunc) Option {
	return func(s *Store) { s.sources = fn }
}

// WithRemoteAuth disables demo logins.
func WithRemoteAuth() Option {
	return func(s *Store) { s.remoteOnly = true }
}

// NewStore creates a store. auth may be nil when no backend is configured;
// demo logins still work.
func NewStore(tokens TokenStore, auth Authenticator, opts ...Option) *Store {
	s := &Store{
		tokens:  tokens,
		auth:    auth,
		logger:  log.Discard(),
		metrics: metrics.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login starts a session. Both fields set means a demo session; otherwise
// the backend decides.
func (s *Store) Login(ctx context.Context, email, password string) (*Session, error) {
	if !s.remoteOnly && email != "" && password != "" {
		userType := domain.DeriveUserType(email)
		sess := s.demoSession(email, userType, "")
		return s.establish(sess, modeDemo, "Login failed")
	}

	if s.auth == nil {
		s.metrics.RecordLogin(modeRemote, false)
		return nil, &AuthError{Message: "Login failed", Cause: perrors.NewBackendMissingError()}
	}
	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.metrics.RecordLogin(modeRemote, false)
		return nil, authError(err, "Login failed")
	}
	return s.establish(&Session{Token: res.Token, User: res.User}, modeRemote, "Login failed")
}

// Signup registers and starts a session, with the same demo split as Login.
// Demo accounts are always approved.
func (s *Store) Signup(ctx context.Context, p domain.Profile) (*Session, error) {
	if !s.remoteOnly && p.Email != "" && p.Password != "" {
		userType := p.UserType
		if userType.Validate() != nil {
			userType = domain.DeriveUserType(p.Email)
		}
		sess := s.demoSession(p.Email, userType, p.CompanyName)
		return s.establish(sess, modeDemo, "Signup failed")
	}

	if s.auth == nil {
		s.metrics.RecordLogin(modeRemote, false)
		return nil, &AuthError{Message: "Signup failed", Cause: perrors.NewBackendMissingError()}
	}
	res, err := s.auth.Signup(ctx, p)
	if err != nil {
		s.metrics.RecordLogin(modeRemote, false)
		return nil, authError(err, "Signup failed")
	}
	return s.establish(&Session{Token: res.Token, User: res.User}, modeRemote, "Signup failed")
}

func (s *Store) demoSession(email string, userType domain.UserType, company string) *Session {
	millis := s.now().UnixMilli()
	if company == "" {
		company = domain.DemoCompanyName(userType)
	}
	return &Session{
		Token: fmt.Sprintf("%s%d", DemoTokenPrefix, millis),
		User: domain.User{
			ID:          fmt.Sprintf("demo-%d", millis),
			Email:       email,
			UserType:    userType,
			IsApproved:  true,
			CompanyName: company,
		},
	}
}

// authError turns a backend failure into the message shown to the user:
// the backend's detail when there is one.
func authError(err error, fallback string) *AuthError {
	msg := gateway.DetailOf(err)
	if msg == "" {
		msg = fallback
	}
	return &AuthError{Message: msg, Cause: err}
}

// establish selects the data source, persists the token and installs the
// session.
func (s *Store) establish(sess *Session, mode, failure string) (*Session, error) {
	src, err := s.selectSource(sess)
	if err != nil {
		s.metrics.RecordLogin(mode, false)
		return nil, &AuthError{Message: failure, Cause: err}
	}

	rec := Record{Token: sess.Token}
	if sess.IsDemo() {
		user := sess.User
		rec.User = &user
	}
	if err := s.tokens.Save(rec); err != nil {
		s.metrics.RecordLogin(mode, false)
		return nil, &AuthError{Message: failure, Cause: err}
	}

	s.metrics.RecordLogin(mode, true)
	s.logger.Info("session started", "mode", mode, "user_type", sess.User.UserType.String())
	s.install(sess, src)
	return s.Current(), nil
}

func (s *Store) selectSource(sess *Session) (datasource.Source, error) {
	if s.sources == nil {
		return nil, nil
	}
	return s.sources(sess.Token, sess.User, sess.IsDemo())
}

// Logout drops the session and its persisted token.
func (s *Store) Logout() error {
	err := s.tokens.Clear()
	s.metrics.SessionLogouts.Inc()
	s.install(nil, nil)
	if err != nil {
		s.logger.WithError(err).Warn("failed to clear stored session")
	}
	return err
}

// Restore loads the persisted session. Demo tokens are trusted without a
// network call; other tokens are checked with the backend and discarded
// when the check fails. A nil session with a nil error means nothing was
// stored.
func (s *Store) Restore(ctx context.Context) (*Session, error) {
	rec, err := s.tokens.Load()
	if err != nil {
		s.metrics.SessionRestores.WithLabelValues("error").Inc()
		return nil, err
	}
	if rec == nil {
		s.metrics.SessionRestores.WithLabelValues("none").Inc()
		return nil, nil
	}

	if IsDemoToken(rec.Token) {
		if rec.User == nil {
			s.metrics.SessionRestores.WithLabelValues("demo_missing").Inc()
			s.discard()
			return nil, ErrDemoSnapshotMissing
		}
		sess := &Session{Token: rec.Token, User: *rec.User}
		src, err := s.selectSource(sess)
		if err != nil {
			s.metrics.SessionRestores.WithLabelValues("error").Inc()
			return nil, err
		}
		s.metrics.SessionRestores.WithLabelValues("demo").Inc()
		s.install(sess, src)
		return s.Current(), nil
	}

	if s.auth == nil {
		s.metrics.SessionRestores.WithLabelValues("error").Inc()
		return nil, perrors.NewBackendMissingError()
	}
	user, err := s.auth.Me(ctx, rec.Token)
	if err != nil {
		s.metrics.SessionRestores.WithLabelValues("rejected").Inc()
		s.discard()
		return nil, perrors.Wrap(perrors.ErrCodeAuthSessionStale, "stored session is no longer valid", err).
			WithSuggestion("Log in again")
	}

	sess := &Session{Token: rec.Token, User: *user}
	src, err := s.selectSource(sess)
	if err != nil {
		s.metrics.SessionRestores.WithLabelValues("error").Inc()
		return nil, err
	}
	s.metrics.SessionRestores.WithLabelValues("remote").Inc()
	s.install(sess, src)
	return s.Current(), nil
}

// discard clears the persisted token and any in-memory session.
func (s *Store) discard() {
	if err := s.tokens.Clear(); err != nil {
		s.logger.WithError(err).Warn("failed to clear stored session")
	}
	s.install(nil, nil)
}

// install swaps the current session, closes the replaced source and
// notifies subscribers of a login or logout. Replacing one session with
// another is not a transition.
func (s *Store) install(sess *Session, src datasource.Source) {
	s.mu.Lock()
	prev := s.current
	prevSrc := s.source
	s.current = sess
	s.source = src
	subs := append([]func(Change){}, s.subscribers...)
	s.mu.Unlock()

	if prevSrc != nil && prevSrc != src {
		prevSrc.Close()
	}

	change := Change{Previous: prev, Current: sess}
	if !change.LoggedIn() && !change.LoggedOut() {
		return
	}
	for _, fn := range subs {
		fn(change)
	}
}

// Current returns a copy of the session, or nil.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// IsDemo reports whether the current session is a demo session.
func (s *Store) IsDemo() bool {
	return s.Current().IsDemo()
}

// Source returns the data source chosen for the current session, or nil.
func (s *Store) Source() datasource.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Subscribe registers fn for login and logout transitions.
func (s *Store) Subscribe(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
