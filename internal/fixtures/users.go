package fixtures

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
)

// Authenticate checks an email and password against the known accounts.
func (s *State) Authenticate(email, password string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.userByEmail(email)
	if !ok || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return domain.User{}, perrors.New(perrors.ErrCodeAuthRejected, "Invalid credentials")
	}
	return u.User, nil
}

// Register creates an account. Admin accounts are approved immediately,
// vendors wait for the procurement team.
func (s *State) Register(p domain.Profile) (domain.User, error) {
	if strings.TrimSpace(p.Email) == "" || p.Password == "" {
		return domain.User{}, invalid("email and password are required")
	}
	if err := p.UserType.Validate(); err != nil {
		return domain.User{}, invalid(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, perrors.Wrap(perrors.ErrCodeFixtureInvalid, "failed to hash password", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.userByEmail(p.Email); exists {
		return domain.User{}, perrors.New(perrors.ErrCodeFixtureConflict, "Email already registered")
	}

	rec := userRecord{
		User: domain.User{
			ID:          s.ids(),
			Email:       p.Email,
			UserType:    p.UserType,
			IsApproved:  p.UserType.IsAdmin(),
			CompanyName: p.CompanyName,
		},
		Username:     p.Username,
		CRNumber:     p.CRNumber,
		Country:      p.Country,
		CreatedAt:    s.timestamp(),
		PasswordHash: hash,
	}
	s.users = append(s.users, rec)
	return rec.User, nil
}

// User returns the account with the given id.
func (s *State) User(id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u.User, nil
		}
	}
	return domain.User{}, notFound("User not found")
}

// Vendors lists vendor accounts. Admin only.
func (s *State) Vendors(c Caller) ([]domain.Vendor, error) {
	if !c.IsAdmin() {
		return nil, forbidden("Only admin users can access vendor management")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	vendors := []domain.Vendor{}
	for _, u := range s.users {
		if u.UserType == domain.UserTypeVendor {
			vendors = append(vendors, u.vendor())
		}
	}
	return vendors, nil
}

// SetVendorApproval approves or rejects a vendor account. Admin only.
func (s *State) SetVendorApproval(c Caller, vendorID string, approved bool) error {
	if !c.IsAdmin() {
		verb := "approve"
		if !approved {
			verb = "reject"
		}
		return forbidden("Only admin users can " + verb + " vendors")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		u := &s.users[i]
		if u.ID == vendorID && u.UserType == domain.UserTypeVendor {
			u.IsApproved = approved
			return nil
		}
	}
	return notFound("Vendor not found")
}

func (s *State) userByEmail(email string) (userRecord, bool) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return userRecord{}, false
}
