package exitcode

import (
	"os"
	"strings"

	perrors "github.com/felixgeelhaar/portal/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ContractDrift indicates the gateway routes disagree with the API document
	ContractDrift = 3

	// ConfigError indicates missing or invalid configuration
	ConfigError = 4

	// AuthError indicates an authentication or authorization failure
	AuthError = 5

	// NetworkError indicates the backend could not be reached or answered with an error
	NetworkError = 6
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	code := DetermineExitCode(err)
	Exit(code)
}

// DetermineExitCode analyzes an error and returns the appropriate exit code.
// Coded portal errors are mapped by category; anything else falls back to
// message matching.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if code := perrors.CodeOf(err); code != "" {
		switch {
		case code == perrors.ErrCodeGatewayMissingID:
			return UsageError
		case strings.HasPrefix(string(code), "AUTH-"):
			return AuthError
		case strings.HasPrefix(string(code), "GATEWAY-"):
			return NetworkError
		case strings.HasPrefix(string(code), "CONFIG-"):
			return ConfigError
		case strings.HasPrefix(string(code), "VIEW-"):
			return UsageError
		}
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "contract drift") || strings.Contains(errMsg, "undocumented route") {
		return ContractDrift
	}

	// Authentication errors
	if strings.Contains(errMsg, "authentication") || strings.Contains(errMsg, "unauthorized") {
		return AuthError
	}
	if strings.Contains(errMsg, "login failed") || strings.Contains(errMsg, "signup failed") || strings.Contains(errMsg, "not logged in") {
		return AuthError
	}

	// Network errors
	if strings.Contains(errMsg, "network") || strings.Contains(errMsg, "connection") {
		return NetworkError
	}
	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}

	// Usage errors
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "missing argument") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ContractDrift:
		return "Gateway routes drifted from the API contract"
	case ConfigError:
		return "Configuration error"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	default:
		return "Unknown error"
	}
}
