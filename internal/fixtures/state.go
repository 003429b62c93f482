package fixtures

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
)

// Caller identifies who performs a procurement operation. Vendors only see
// their own proposals and contracts; several operations are admin-only.
type Caller struct {
	UserID   string
	UserType domain.UserType
	Company  string
}

// IsAdmin reports whether the caller belongs to the procurement team.
func (c Caller) IsAdmin() bool {
	return c.UserType.IsAdmin()
}

type userRecord struct {
	domain.User
	Username     string
	CRNumber     string
	Country      string
	CreatedAt    string
	PasswordHash []byte
}

func (u userRecord) vendor() domain.Vendor {
	return domain.Vendor{
		ID:          u.ID,
		Email:       u.Email,
		CompanyName: u.CompanyName,
		Username:    u.Username,
		IsApproved:  u.IsApproved,
		CreatedAt:   u.CreatedAt,
		CRNumber:    u.CRNumber,
		Country:     u.Country,
	}
}

type paymentRecord struct {
	domain.SalaryPayment
	EmployeeID string
}

type chatRecord struct {
	domain.ChatMessage
	EmployeeID string
	SessionID  string
}

// State is the mutable in-memory store behind demo sessions and the stub
// backend. Writes are last-write-wins; every read returns copies.
type State struct {
	mu  sync.RWMutex
	now func() time.Time
	ids func() string

	users     []userRecord
	rfps      []domain.RFP
	proposals []domain.Proposal
	contracts []domain.Contract

	employees []domain.Employee
	balances  map[string]domain.VacationBalance
	payments  []paymentRecord
	requests  []domain.HRRequest
	events    []domain.Event
	chat      []chatRecord
	policies  []domain.Policy
}

// Option configures a State.
type Option func(*State)

// WithClock sets the time source used for created records.
func WithClock(now func() time.Time) Option {
	return func(s *State) {
		s.now = now
	}
}

// WithIDs sets the id generator used for created records.
func WithIDs(ids func() string) Option {
	return func(s *State) {
		s.ids = ids
	}
}

// NewState builds a store from a seed. Seed passwords are stored as bcrypt
// hashes.
func NewState(seed *Seed, opts ...Option) (*State, error) {
	s := &State{
		now:      time.Now,
		ids:      uuid.NewString,
		balances: make(map[string]domain.VacationBalance, len(seed.Balances)),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, u := range seed.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeFixtureInvalid, "failed to hash seed password", err)
		}
		s.users = append(s.users, userRecord{
			User:         u.User,
			Username:     u.Username,
			CRNumber:     u.CRNumber,
			Country:      u.Country,
			CreatedAt:    u.CreatedAt,
			PasswordHash: hash,
		})
	}
	for _, r := range seed.RFPs {
		s.rfps = append(s.rfps, r.RFP)
	}
	for _, p := range seed.Proposals {
		s.proposals = append(s.proposals, p.Proposal)
	}
	s.contracts = append(s.contracts, seed.Contracts...)

	s.employees = append(s.employees, seed.Employees...)
	for _, b := range seed.Balances {
		s.balances[b.EmployeeID] = b
	}
	for _, p := range seed.Payments {
		s.payments = append(s.payments, paymentRecord{SalaryPayment: p.SalaryPayment, EmployeeID: p.EmployeeID})
	}
	s.requests = append(s.requests, seed.Requests...)
	s.events = append(s.events, seed.Events...)
	for _, c := range seed.Chat {
		s.chat = append(s.chat, chatRecord{ChatMessage: c.ChatMessage, EmployeeID: c.EmployeeID, SessionID: c.SessionID})
	}
	s.policies = append(s.policies, seed.Policies...)

	return s, nil
}

// NewDemoState loads the embedded fixtures into a fresh store.
func NewDemoState(opts ...Option) (*State, error) {
	seed, err := Load(time.Now())
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeFixtureInvalid, "failed to load demo fixtures", err)
	}
	return NewState(seed, opts...)
}

func (s *State) timestamp() string {
	return s.now().UTC().Format(TimeLayout)
}

func forbidden(msg string) error {
	return perrors.New(perrors.ErrCodeFixtureForbidden, msg)
}

func notFound(msg string) error {
	return perrors.New(perrors.ErrCodeFixtureNotFound, msg)
}

func invalid(msg string) error {
	return perrors.New(perrors.ErrCodeFixtureInvalid, msg)
}

var errEndBeforeStart = errors.New("end date is before start date")
