package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	perrors "github.com/felixgeelhaar/portal/internal/errors"
)

// Environment variables read by the loader.
const (
	EnvBackendURL       = "PORTAL_BACKEND_URL"
	EnvLegacyBackendURL = "REACT_APP_BACKEND_URL"
	EnvTimeout          = "PORTAL_TIMEOUT"
	EnvApp              = "PORTAL_APP"
	EnvStateDir         = "PORTAL_STATE_DIR"
	EnvConfigFile       = "PORTAL_CONFIG"
	EnvEmployeeID       = "PORTAL_EMPLOYEE_ID"
	EnvRemoteAuth       = "PORTAL_REMOTE_AUTH"
	EnvLogLevel         = "PORTAL_LOG_LEVEL"
	EnvLogFormat        = "PORTAL_LOG_FORMAT"
	EnvLogFile          = "PORTAL_LOG_FILE"
)

// envKeys maps environment variables onto Set keys. The legacy backend
// variable is handled separately because it only applies as a fallback.
var envKeys = []struct {
	env string
	key string
}{
	{EnvBackendURL, "backend.url"},
	{EnvTimeout, "backend.timeout"},
	{EnvApp, "app"},
	{EnvStateDir, "state_dir"},
	{EnvEmployeeID, "employee_id"},
	{EnvRemoteAuth, "remote_auth"},
	{EnvLogLevel, "logging.level"},
	{EnvLogFormat, "logging.format"},
	{EnvLogFile, "logging.file"},
}

// Loader resolves a Config. Later layers win: defaults, the YAML file,
// .env values, the process environment, then explicit overrides.
type Loader struct {
	useDotEnv   bool
	dotEnvFiles []string
	path        string
	lookupEnv   func(string) (string, bool)
	overrides   map[string]string
}

// NewLoader reads .env from the working directory and the real environment.
func NewLoader() *Loader {
	return &Loader{
		useDotEnv:   true,
		dotEnvFiles: []string{".env"},
		lookupEnv:   os.LookupEnv,
	}
}

// WithDotEnv toggles .env loading and optionally replaces the file list.
func (l *Loader) WithDotEnv(enabled bool, files ...string) *Loader {
	l.useDotEnv = enabled
	if len(files) > 0 {
		l.dotEnvFiles = files
	}
	return l
}

// WithPath pins the config file location.
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

// WithEnv replaces the environment lookup (useful for tests).
func (l *Loader) WithEnv(lookup func(string) (string, bool)) *Loader {
	if lookup != nil {
		l.lookupEnv = lookup
	}
	return l
}

// WithOverrides applies dotted-key values after every other layer. The
// command tree passes the flags the user actually set.
func (l *Loader) WithOverrides(values map[string]string) *Loader {
	l.overrides = values
	return l
}

// Result captures the loaded configuration and where it came from.
type Result struct {
	Config *Config
	// Path is the config file consulted, whether or not it existed.
	Path      string
	FileFound bool
	// DotEnv lists the .env files that were read.
	DotEnv []string
}

// Load resolves and validates the configuration.
func (l *Loader) Load() (*Result, error) {
	env, dotEnvRead, err := l.environment()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Config: Default(),
		Path:   l.resolvePath(env),
		DotEnv: dotEnvRead,
	}

	found, err := readFile(res.Path, res.Config)
	if err != nil {
		return nil, err
	}
	res.FileFound = found

	if err := applyEnv(res.Config, env); err != nil {
		return nil, err
	}

	for key, value := range l.overrides {
		if err := res.Config.Set(key, value); err != nil {
			return nil, err
		}
	}

	if err := res.Config.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// environment merges .env values under the process environment, so a
// variable exported in the shell beats the same one in .env.
func (l *Loader) environment() (func(string) (string, bool), []string, error) {
	dotEnv := map[string]string{}
	var read []string

	if l.useDotEnv {
		for _, file := range l.dotEnvFiles {
			values, err := godotenv.Read(file)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, nil, perrors.Wrap(perrors.ErrCodeConfigInvalid, fmt.Sprintf("failed to read %s", file), err)
			}
			for k, v := range values {
				if _, ok := dotEnv[k]; !ok {
					dotEnv[k] = v
				}
			}
			read = append(read, file)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := l.lookupEnv(key); ok {
			return v, true
		}
		v, ok := dotEnv[key]
		return v, ok
	}
	return lookup, read, nil
}

func (l *Loader) resolvePath(env func(string) (string, bool)) string {
	if l.path != "" {
		return l.path
	}
	if dir, ok := l.overrides["state_dir"]; ok && dir != "" {
		return filepath.Join(dir, FileName)
	}
	if p, ok := env(EnvConfigFile); ok && p != "" {
		return p
	}
	if dir, ok := env(EnvStateDir); ok && dir != "" {
		return filepath.Join(dir, FileName)
	}
	return DefaultPath()
}

func readFile(path string, into *Config) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, perrors.Wrap(perrors.ErrCodeStateReadFailed, fmt.Sprintf("failed to read config: %s", path), err)
	}

	if err := yaml.Unmarshal(data, into); err != nil {
		return true, perrors.Wrap(perrors.ErrCodeConfigInvalid, fmt.Sprintf("failed to parse config: %s", path), err).
			WithSuggestion("Run 'portal config view' after fixing the file").
			WithSuggestion(fmt.Sprintf("Or delete %s to fall back to defaults", path))
	}
	return true, nil
}

func applyEnv(c *Config, env func(string) (string, bool)) error {
	if _, ok := env(EnvBackendURL); !ok {
		if v, ok := env(EnvLegacyBackendURL); ok && strings.TrimSpace(v) != "" {
			c.Backend.URL = strings.TrimRight(strings.TrimSpace(v), "/")
		}
	}

	for _, e := range envKeys {
		v, ok := env(e.env)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := c.Set(e.key, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
	}
	return nil
}
