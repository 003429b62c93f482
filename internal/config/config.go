// Package config resolves the client configuration from a .env file, the
// YAML config file in the state directory, the environment and flags, in
// that order of increasing precedence.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
	"github.com/felixgeelhaar/portal/internal/fixtures"
	"github.com/felixgeelhaar/portal/internal/log"
)

const (
	// DirName is the state directory created under the user's home.
	DirName = ".portal"
	// FileName is the config file inside the state directory.
	FileName = "config.yaml"

	DefaultTimeout = 10 * time.Second
)

// Config is the resolved client configuration.
type Config struct {
	Backend    BackendConfig `yaml:"backend,omitempty"`
	App        string        `yaml:"app,omitempty"`
	StateDir   string        `yaml:"state_dir,omitempty"`
	EmployeeID string        `yaml:"employee_id,omitempty"`
	RemoteAuth bool          `yaml:"remote_auth,omitempty"`
	Logging    LoggingConfig `yaml:"logging,omitempty"`
}

type BackendConfig struct {
	// URL is the backend host; the client appends /api.
	URL     string   `yaml:"url,omitempty"`
	Timeout Duration `yaml:"timeout,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format,omitempty"` // "text", "json"
	File   string `yaml:"file,omitempty"`   // used by the terminal UI
}

// Duration is a time.Duration that reads and writes as "10s" in YAML.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML accepts Go duration strings and bare integers (seconds).
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := parseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	return d, nil
}

// Default returns the built-in configuration. The backend URL is empty,
// which keeps every command on demo data until one is configured.
func Default() *Config {
	return &Config{
		Backend:    BackendConfig{Timeout: Duration(DefaultTimeout)},
		App:        string(domain.AppProcurement),
		StateDir:   DefaultStateDir(),
		EmployeeID: fixtures.DemoEmployeeID,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultStateDir is ~/.portal, or .portal in the working directory when
// the home directory cannot be determined.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// DefaultPath is the config file location inside the default state dir.
func DefaultPath() string {
	return filepath.Join(DefaultStateDir(), FileName)
}

// AppKind returns the validated application.
func (c *Config) AppKind() (domain.App, error) {
	app, err := domain.ParseApp(c.App)
	if err != nil {
		return "", perrors.NewUnknownAppError(c.App)
	}
	return app, nil
}

// Timeout is the per-request timeout, falling back to DefaultTimeout.
func (c *Config) Timeout() time.Duration {
	if c.Backend.Timeout <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.Backend.Timeout)
}

// HasBackend reports whether a backend URL is configured.
func (c *Config) HasBackend() bool {
	return strings.TrimSpace(c.Backend.URL) != ""
}

// LogConfig builds the logger configuration from the logging section.
func (c *Config) LogConfig() (log.Config, error) {
	cfg := log.DefaultConfig()
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return cfg, err
	}
	format, err := log.ParseFormat(c.Logging.Format)
	if err != nil {
		return cfg, err
	}
	cfg.Level = level
	cfg.Format = format
	return cfg, nil
}

// Validate checks every field that has a closed set of values.
func (c *Config) Validate() error {
	if _, err := c.AppKind(); err != nil {
		return err
	}

	if c.HasBackend() {
		u, err := url.Parse(c.Backend.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return perrors.New(perrors.ErrCodeConfigInvalid, fmt.Sprintf("invalid backend URL: %s", c.Backend.URL)).
				WithSuggestion("Use an absolute http or https URL, e.g. http://localhost:8001")
		}
	}

	if c.Backend.Timeout < 0 {
		return perrors.New(perrors.ErrCodeConfigInvalid, "backend timeout must not be negative")
	}

	if _, err := c.LogConfig(); err != nil {
		return perrors.Wrap(perrors.ErrCodeConfigInvalid, "invalid logging configuration", err)
	}

	if strings.TrimSpace(c.StateDir) == "" {
		return perrors.New(perrors.ErrCodeConfigInvalid, "state directory must not be empty")
	}

	return nil
}

// Keys lists the dotted keys accepted by Get and Set.
func Keys() []string {
	return []string{
		"backend.url",
		"backend.timeout",
		"app",
		"state_dir",
		"employee_id",
		"remote_auth",
		"logging.level",
		"logging.format",
		"logging.file",
	}
}

// Get returns a value by dotted key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "backend.url":
		return c.Backend.URL, nil
	case "backend.timeout":
		return c.Backend.Timeout.String(), nil
	case "app":
		return c.App, nil
	case "state_dir":
		return c.StateDir, nil
	case "employee_id":
		return c.EmployeeID, nil
	case "remote_auth":
		return strconv.FormatBool(c.RemoteAuth), nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "logging.file":
		return c.Logging.File, nil
	default:
		return "", unknownKey(key)
	}
}

// Set assigns a value by dotted key. The result is not validated; callers
// run Validate before saving.
func (c *Config) Set(key, value string) error {
	switch key {
	case "backend.url":
		c.Backend.URL = strings.TrimRight(value, "/")
	case "backend.timeout":
		d, err := parseDuration(value)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeConfigInvalid, "invalid backend.timeout", err)
		}
		c.Backend.Timeout = Duration(d)
	case "app":
		c.App = value
	case "state_dir":
		c.StateDir = value
	case "employee_id":
		c.EmployeeID = value
	case "remote_auth":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeConfigInvalid, "invalid remote_auth", err)
		}
		c.RemoteAuth = b
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "logging.file":
		c.Logging.File = value
	default:
		return unknownKey(key)
	}
	return nil
}

func unknownKey(key string) error {
	return perrors.New(perrors.ErrCodeConfigInvalid, fmt.Sprintf("unknown configuration key: %s", key)).
		WithSuggestion("Valid keys: " + strings.Join(Keys(), ", "))
}

// Save writes the config file with owner-only permissions.
func Save(c *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return perrors.Wrap(perrors.ErrCodeStateWriteFailed, "failed to create config directory", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return perrors.Wrap(perrors.ErrCodeStateWriteFailed, "failed to write config", err)
	}
	return nil
}
