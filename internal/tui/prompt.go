package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/portal/internal/session"
)

// PromptCredentials asks for whichever of email and password is empty.
func PromptCredentials(email, password *string) error {
	var fields []huh.Field

	if *email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("you@company.com").
			Value(email).
			Validate(required("email")))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password).
			Validate(required("password")))
	}
	if len(fields) == 0 {
		return nil
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// PromptSignup fills in the vendor registration form. Fields that are
// already set are not asked again.
func PromptSignup(f *session.SignupForm) error {
	if err := PromptCredentials(&f.Email, &f.Password); err != nil {
		return err
	}

	details := []huh.Field{
		huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&f.ConfirmPassword),
	}
	if f.CompanyName == "" {
		details = append(details, huh.NewInput().Title("Company name").Value(&f.CompanyName))
	}
	if f.Username == "" {
		details = append(details, huh.NewInput().Title("Username").Value(&f.Username))
	}
	if f.CRNumber == "" {
		details = append(details, huh.NewInput().Title("Commercial registration number").Value(&f.CRNumber))
	}
	if f.Country == "" {
		details = append(details, huh.NewInput().Title("Country").Value(&f.Country))
	}

	otp := huh.NewInput().
		Title("Verification code").
		Description("Enter the code sent to " + f.Email).
		Value(&f.OTP)

	form := huh.NewForm(
		huh.NewGroup(details...),
		huh.NewGroup(otp),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// PromptForConfirmation displays a yes/no confirmation prompt
func PromptForConfirmation(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	confirm := huh.NewConfirm().
		Title(message).
		Value(&confirmed)

	if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}

	return confirmed, nil
}

// PromptForSelect displays a selection prompt with multiple options
func PromptForSelect(message string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options provided")
	}

	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		huhOptions[i] = huh.NewOption(opt, opt)
	}

	var selected string
	selectField := huh.NewSelect[string]().
		Title(message).
		Options(huhOptions...).
		Value(&selected)

	if err := huh.NewForm(huh.NewGroup(selectField)).Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	return selected, nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ShouldPrompt returns true if prompts should be shown based on environment
// Prompts are disabled in CI environments or when stdin is not a terminal
func ShouldPrompt() bool {
	ciEnvVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"BUILDKITE",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return false
		}
	}

	return IsInteractive()
}
