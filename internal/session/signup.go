package session

import (
	"strings"

	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
)

// DemoOTP is the verification code accepted by the vendor signup flow.
const DemoOTP = "123456"

// SignupForm is the vendor registration form: the profile plus the
// password confirmation and the emailed one-time code.
type SignupForm struct {
	domain.Profile
	ConfirmPassword string
	OTP             string
}

// Validate checks the confirmation and the one-time code before the
// profile is submitted.
func (f SignupForm) Validate() error {
	if strings.TrimSpace(f.Email) == "" {
		return perrors.NewMissingCredentialsError("email")
	}
	if f.Password == "" {
		return perrors.NewMissingCredentialsError("password")
	}
	if f.Password != f.ConfirmPassword {
		return perrors.New(perrors.ErrCodeAuthPasswordMismatch, "passwords do not match")
	}
	if strings.TrimSpace(f.OTP) != DemoOTP {
		return perrors.New(perrors.ErrCodeAuthOTPInvalid, "invalid verification code").
			WithSuggestion("The demo verification code is " + DemoOTP)
	}
	return nil
}
