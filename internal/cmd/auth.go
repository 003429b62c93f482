package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/portal/internal/domain"
	"github.com/felixgeelhaar/portal/internal/session"
	"github.com/felixgeelhaar/portal/internal/tui"
	"github.com/felixgeelhaar/portal/internal/ux"
)

// sessionView is the structured output of the auth commands.
type sessionView struct {
	Email       string          `json:"email" yaml:"email"`
	UserType    domain.UserType `json:"user_type" yaml:"user_type"`
	CompanyName string          `json:"company_name,omitempty" yaml:"company_name,omitempty"`
	IsApproved  bool            `json:"is_approved" yaml:"is_approved"`
	Demo        bool            `json:"demo" yaml:"demo"`
}

func newSessionView(s *session.Session) sessionView {
	return sessionView{
		Email:       s.User.Email,
		UserType:    s.User.UserType,
		CompanyName: s.User.CompanyName,
		IsApproved:  s.User.IsApproved,
		Demo:        s.IsDemo(),
	}
}

func (v sessionView) table(title string) *ux.Table {
	mode := "backend"
	if v.Demo {
		mode = "demo"
	}
	return ux.KeyValues(title,
		"Email", v.Email,
		"Role", string(v.UserType),
		"Company", v.CompanyName,
		"Approved", fmt.Sprint(v.IsApproved),
		"Session", mode,
	)
}

func newAuthCommand() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, register and manage the saved session",
	}
	authCmd.AddCommand(
		newLoginCommand(),
		newSignupCommand(),
		newLogoutCommand(),
		newWhoamiCommand(),
	)
	return authCmd
}

func newLoginCommand() *cobra.Command {
	var email, password string

	c := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a vendor or team member",
		Long: `Sign in and save the session token under the state directory.

Any email and password start a demo session; emails on the 1957ventures.com
domain sign in as the procurement team. With --remote the backend checks
the credentials instead.`,
		Example: `  portal auth login --email vendor@acme.com --password secret
  portal auth login --remote`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if tui.ShouldPrompt() {
				if err := tui.PromptCredentials(&email, &password); err != nil {
					return err
				}
			}

			sess, err := cc.Store.Login(cmd.Context(), email, password)
			if err != nil {
				return ux.FormatError(err, "login")
			}

			v := newSessionView(sess)
			return cc.Render(v, v.table("✓ Logged in"))
		},
	}

	c.Flags().StringVar(&email, "email", "", "account email")
	c.Flags().StringVar(&password, "password", "", "account password")
	return c
}

func newSignupCommand() *cobra.Command {
	var (
		form     session.SignupForm
		userType string
	)

	c := &cobra.Command{
		Use:   "signup",
		Short: "Register a vendor account",
		Long: `Register a vendor account. The password must be confirmed and the
emailed verification code entered; the demo code is ` + session.DemoOTP + `.`,
		Example: `  portal auth signup --email sales@acme.com --password secret \
    --confirm-password secret --company "Acme Trading" --otp 123456`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			ut, err := domain.NewUserType(userType)
			if err != nil {
				return err
			}
			form.UserType = ut
			if tui.ShouldPrompt() {
				if err := tui.PromptSignup(&form); err != nil {
					return err
				}
			}
			if err := form.Validate(); err != nil {
				return err
			}

			sess, err := cc.Store.Signup(cmd.Context(), form.Profile)
			if err != nil {
				return ux.FormatError(err, "signup")
			}

			v := newSessionView(sess)
			return cc.Render(v, v.table("✓ Registered"))
		},
	}

	f := c.Flags()
	f.StringVar(&form.Email, "email", "", "account email")
	f.StringVar(&form.Password, "password", "", "account password")
	f.StringVar(&form.ConfirmPassword, "confirm-password", "", "repeat the password")
	f.StringVar(&form.CompanyName, "company", "", "company name")
	f.StringVar(&form.Username, "username", "", "username")
	f.StringVar(&form.CRNumber, "cr-number", "", "commercial registration number")
	f.StringVar(&form.Country, "country", "", "country of registration")
	f.StringVar(&form.OTP, "otp", "", "verification code")
	f.StringVar(&userType, "user-type", string(domain.UserTypeVendor), "account type: vendor or admin")
	return c
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if err := cc.Store.Logout(); err != nil {
				return err
			}
			cc.Printf("✓ Logged out\n")
			return nil
		},
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			sess, _, err := cc.RequireSession(cmd.Context())
			if err != nil {
				return err
			}
			v := newSessionView(sess)
			return cc.Render(v, v.table(""))
		},
	}
}
