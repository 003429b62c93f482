package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/portal/internal/domain"
	"github.com/felixgeelhaar/portal/internal/session"
	"github.com/felixgeelhaar/portal/internal/views"
)

// Form field keys
const (
	fieldEmail    = "email"
	fieldPassword = "password"
	fieldConfirm  = "confirm"
	fieldCompany  = "company"
	fieldUsername = "username"
	fieldCR       = "cr_number"
	fieldCountry  = "country"
	fieldOTP      = "otp"
)

type field struct {
	key   string
	label string
	input textinput.Model
}

// form is a vertical list of text inputs with one focused field.
type form struct {
	view   views.View
	fields []field
	focus  int
}

func newField(key, label, placeholder string, secret bool) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Width = 40
	ti.Prompt = ""
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return field{key: key, label: label, input: ti}
}

func newLoginForm(v views.View) *form {
	f := &form{
		view: v,
		fields: []field{
			newField(fieldEmail, "Email", "you@company.com", false),
			newField(fieldPassword, "Password", "", true),
		},
	}
	f.fields[0].input.Focus()
	return f
}

func newSignupForm() *form {
	f := &form{
		view: views.VendorSignup,
		fields: []field{
			newField(fieldEmail, "Email", "you@company.com", false),
			newField(fieldPassword, "Password", "", true),
			newField(fieldConfirm, "Confirm password", "", true),
			newField(fieldCompany, "Company name", "Acme Trading LLC", false),
			newField(fieldUsername, "Username", "", false),
			newField(fieldCR, "CR number", "", false),
			newField(fieldCountry, "Country", "Saudi Arabia", false),
			newField(fieldOTP, "Verification code", session.DemoOTP, false),
		},
	}
	f.fields[0].input.Focus()
	return f
}

// raw returns a field as typed. Passwords are never trimmed.
func (f *form) raw(key string) string {
	for _, fl := range f.fields {
		if fl.key == key {
			return fl.input.Value()
		}
	}
	return ""
}

func (f *form) value(key string) string {
	return strings.TrimSpace(f.raw(key))
}

func (f *form) set(key, value string) {
	for i := range f.fields {
		if f.fields[i].key == key {
			f.fields[i].input.SetValue(value)
		}
	}
}

func (f *form) onLast() bool {
	return f.focus == len(f.fields)-1
}

func (f *form) move(delta int) tea.Cmd {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].input.Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

// signup converts the vendor registration form.
func (f *form) signup() session.SignupForm {
	return session.SignupForm{
		Profile: domain.Profile{
			Email:       f.value(fieldEmail),
			Password:    f.raw(fieldPassword),
			UserType:    domain.UserTypeVendor,
			CompanyName: f.value(fieldCompany),
			Username:    f.value(fieldUsername),
			CRNumber:    f.value(fieldCR),
			Country:     f.value(fieldCountry),
		},
		ConfirmPassword: f.raw(fieldConfirm),
		OTP:             f.value(fieldOTP),
	}
}
