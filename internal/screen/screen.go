// Package screen implements the fetch-render-submit cycle shared by every
// screen: a load moves the screen through loading to loaded or error, a
// failed load keeps whatever was shown before, and late answers from a
// superseded load are dropped.
package screen

import (
	"context"
	"errors"
	"sync"

	"github.com/felixgeelhaar/portal/internal/gateway"
	"github.com/felixgeelhaar/portal/internal/metrics"
)

// State is the render state of a screen.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// Fetch loads a screen's data.
type Fetch[T any] func(ctx context.Context) (T, error)

// errNothingToRetry is returned by Retry before the first Load.
var errNothingToRetry = errors.New("nothing to retry")

// Screen holds one screen's data and render state.
type Screen[T any] struct {
	name    string
	source  string
	metrics *metrics.Metrics

	mu      sync.Mutex
	state   State
	data    T
	hasData bool
	err     error
	gen     uint64
	last    Fetch[T]
}

// Option configures a Screen.
type Option func(*options)

type options struct {
	source  string
	metrics *metrics.Metrics
}

// WithMetrics counts loads, labelled with the data source name.
func WithMetrics(m *metrics.Metrics, source string) Option {
	return func(o *options) {
		o.metrics = m
		o.source = source
	}
}

// New creates an idle screen.
func New[T any](name string, opts ...Option) *Screen[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Screen[T]{name: name, source: o.source, metrics: o.metrics}
}

// Name returns the screen name.
func (s *Screen[T]) Name() string {
	return s.name
}

// Begin starts a load and returns its generation. Callers that fetch on
// their own goroutine pass the generation back to Finish.
func (s *Screen[T]) Begin(fetch Fetch[T]) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = Loading
	s.last = fetch
	return s.gen
}

// Finish records the outcome of load gen. It returns false and changes
// nothing when a newer load has started or the screen was discarded.
// A failure keeps the previous data.
func (s *Screen[T]) Finish(gen uint64, data T, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return false
	}
	if s.metrics != nil {
		s.metrics.RecordScreenLoad(s.name, s.source, err == nil)
	}
	if err != nil {
		s.state = Failed
		s.err = err
		return true
	}
	s.state = Loaded
	s.data = data
	s.hasData = true
	s.err = nil
	return true
}

// Load runs fetch and records its outcome. The returned error is the
// fetch error, also readable from Snapshot.
func (s *Screen[T]) Load(ctx context.Context, fetch Fetch[T]) error {
	gen := s.Begin(fetch)
	data, err := fetch(ctx)
	s.Finish(gen, data, err)
	return err
}

// Retry re-runs the last fetch.
func (s *Screen[T]) Retry(ctx context.Context) error {
	s.mu.Lock()
	fetch := s.last
	s.mu.Unlock()
	if fetch == nil {
		return errNothingToRetry
	}
	return s.Load(ctx, fetch)
}

// Discard invalidates outstanding loads, as when a screen is left.
func (s *Screen[T]) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.state == Loading {
		if s.hasData {
			s.state = Loaded
		} else {
			s.state = Idle
		}
	}
}

// Snapshot is a consistent view of a screen for rendering.
type Snapshot[T any] struct {
	State   State
	Data    T
	HasData bool
	Err     error
}

// Failed reports whether the last load failed.
func (s Snapshot[T]) Failed() bool {
	return s.Err != nil
}

// Snapshot returns the current state.
func (s *Screen[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot[T]{State: s.state, Data: s.data, HasData: s.hasData, Err: s.err}
}

// ErrorMessage is the text shown for a failed load. Backend details are
// shown as sent; transport failures get a generic message.
func ErrorMessage(what string, err error) string {
	if err == nil {
		return ""
	}
	if detail := gateway.DetailOf(err); detail != "" {
		return detail
	}
	if gateway.IsTransport(err) {
		return "Failed to load " + what + ". Check your connection and retry."
	}
	return "Failed to load " + what + ": " + err.Error()
}
