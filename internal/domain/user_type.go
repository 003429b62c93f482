package domain

import (
	"fmt"
	"strings"
)

// UserType distinguishes procurement vendors from internal team members.
// This is a value object that enforces valid user types.
type UserType string

const (
	UserTypeVendor UserType = "vendor"
	UserTypeAdmin  UserType = "admin"
)

// adminMarkers are matched case-insensitively anywhere in a demo login email.
var adminMarkers = []string{"1957", "admin", "@1957ventures", "team"}

// NewUserType creates a UserType with validation
func NewUserType(value string) (UserType, error) {
	u := UserType(value)
	if err := u.Validate(); err != nil {
		return "", err
	}
	return u, nil
}

// Validate checks if the user type is valid
func (u UserType) Validate() error {
	switch u {
	case UserTypeVendor, UserTypeAdmin:
		return nil
	default:
		return fmt.Errorf("invalid user type %q: must be vendor or admin", string(u))
	}
}

func (u UserType) String() string {
	return string(u)
}

// IsAdmin reports whether u is the admin (procurement team) type
func (u UserType) IsAdmin() bool {
	return u == UserTypeAdmin
}

// DeriveUserType classifies a demo login by its email address. An email
// containing any admin marker is an admin; everything else is a vendor.
func DeriveUserType(email string) UserType {
	lower := strings.ToLower(email)
	for _, marker := range adminMarkers {
		if strings.Contains(lower, marker) {
			return UserTypeAdmin
		}
	}
	return UserTypeVendor
}

// DemoCompanyName is the company shown for demo users that did not supply one.
func DemoCompanyName(u UserType) string {
	if u == UserTypeAdmin {
		return "1957 Ventures"
	}
	return "Demo Company Inc."
}

// App selects which portal the client serves.
type App string

const (
	AppHR          App = "hr"
	AppProcurement App = "procurement"
)

// ParseApp validates an application name
func ParseApp(value string) (App, error) {
	switch a := App(strings.ToLower(strings.TrimSpace(value))); a {
	case AppHR, AppProcurement:
		return a, nil
	default:
		return "", fmt.Errorf("invalid app %q: must be hr or procurement", value)
	}
}

func (a App) String() string {
	return string(a)
}
