package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
	"github.com/felixgeelhaar/portal/internal/log"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func newTestLoader(t *testing.T, env map[string]string) (*Loader, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	return NewLoader().
		WithDotEnv(false).
		WithPath(path).
		WithEnv(envMap(env)), path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "procurement", cfg.App)
	assert.Equal(t, "EMP001", cfg.EmployeeID)
	assert.Equal(t, DefaultTimeout, cfg.Timeout())
	assert.False(t, cfg.HasBackend())
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	loader, path := newTestLoader(t, nil)

	res, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, path, res.Path)
	assert.False(t, res.FileFound)
	assert.Equal(t, Default().App, res.Config.App)
}

func TestLoadFile(t *testing.T) {
	loader, path := newTestLoader(t, nil)
	content := `
backend:
  url: http://localhost:8001
  timeout: 30s
app: hr
employee_id: EMP042
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	res, err := loader.Load()
	require.NoError(t, err)
	cfg := res.Config

	assert.True(t, res.FileFound)
	assert.Equal(t, "http://localhost:8001", cfg.Backend.URL)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, "EMP042", cfg.EmployeeID)

	app, err := cfg.AppKind()
	require.NoError(t, err)
	assert.Equal(t, domain.AppHR, app)

	logCfg, err := cfg.LogConfig()
	require.NoError(t, err)
	assert.Equal(t, log.LevelDebug, logCfg.Level)
	assert.Equal(t, log.FormatJSON, logCfg.Format)
}

func TestTimeoutAcceptsSeconds(t *testing.T) {
	loader, path := newTestLoader(t, nil)
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  timeout: 5\n"), 0600))

	res, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, res.Config.Timeout())
}

func TestLoadCorruptFile(t *testing.T) {
	loader, path := newTestLoader(t, nil)
	require.NoError(t, os.WriteFile(path, []byte("backend: [unterminated"), 0600))

	_, err := loader.Load()
	require.Error(t, err)
	assert.Equal(t, perrors.ErrCodeConfigInvalid, perrors.CodeOf(err))
}

func TestEnvironmentOverridesFile(t *testing.T) {
	loader, path := newTestLoader(t, map[string]string{
		EnvBackendURL: "https://portal.example.com/",
		EnvApp:        "hr",
		EnvLogLevel:   "warn",
	})
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  url: http://localhost:8001\napp: procurement\n"), 0600))

	res, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://portal.example.com", res.Config.Backend.URL)
	assert.Equal(t, "hr", res.Config.App)
	assert.Equal(t, "warn", res.Config.Logging.Level)
}

func TestLegacyBackendVariable(t *testing.T) {
	t.Run("used when the portal variable is unset", func(t *testing.T) {
		loader, _ := newTestLoader(t, map[string]string{EnvLegacyBackendURL: "http://legacy:8001"})

		res, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, "http://legacy:8001", res.Config.Backend.URL)
	})

	t.Run("ignored when the portal variable is set", func(t *testing.T) {
		loader, _ := newTestLoader(t, map[string]string{
			EnvLegacyBackendURL: "http://legacy:8001",
			EnvBackendURL:       "http://current:8001",
		})

		res, err := loader.Load()
		require.NoError(t, err)
		assert.Equal(t, "http://current:8001", res.Config.Backend.URL)
	})
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("REACT_APP_BACKEND_URL=http://from-dotenv:8001\nPORTAL_APP=hr\n"), 0600))

	loader := NewLoader().
		WithDotEnv(true, envFile).
		WithPath(filepath.Join(dir, FileName)).
		WithEnv(envMap(map[string]string{EnvApp: "procurement"}))

	res, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{envFile}, res.DotEnv)
	assert.Equal(t, "http://from-dotenv:8001", res.Config.Backend.URL)
	assert.Equal(t, "procurement", res.Config.App, "the process environment beats .env")
}

func TestMissingDotEnvIsIgnored(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader().
		WithDotEnv(true, filepath.Join(dir, "missing.env")).
		WithPath(filepath.Join(dir, FileName)).
		WithEnv(envMap(nil))

	res, err := loader.Load()
	require.NoError(t, err)
	assert.Empty(t, res.DotEnv)
}

func TestOverridesWin(t *testing.T) {
	loader, _ := newTestLoader(t, map[string]string{EnvApp: "hr"})

	res, err := loader.WithOverrides(map[string]string{
		"app":         "procurement",
		"backend.url": "http://flag:9000",
	}).Load()
	require.NoError(t, err)

	assert.Equal(t, "procurement", res.Config.App)
	assert.Equal(t, "http://flag:9000", res.Config.Backend.URL)
}

func TestStateDirSelectsConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("employee_id: EMP777\n"), 0600))

	res, err := NewLoader().
		WithDotEnv(false).
		WithEnv(envMap(map[string]string{EnvStateDir: dir})).
		Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, FileName), res.Path)
	assert.Equal(t, "EMP777", res.Config.EmployeeID)
	assert.Equal(t, dir, res.Config.StateDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   perrors.ErrorCode
	}{
		{"unknown app", func(c *Config) { c.App = "crm" }, perrors.ErrCodeConfigUnknownApp},
		{"relative backend", func(c *Config) { c.Backend.URL = "localhost:8001" }, perrors.ErrCodeConfigInvalid},
		{"bad scheme", func(c *Config) { c.Backend.URL = "ftp://host" }, perrors.ErrCodeConfigInvalid},
		{"negative timeout", func(c *Config) { c.Backend.Timeout = Duration(-time.Second) }, perrors.ErrCodeConfigInvalid},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, perrors.ErrCodeConfigInvalid},
		{"empty state dir", func(c *Config) { c.StateDir = " " }, perrors.ErrCodeConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.code, perrors.CodeOf(err))
		})
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	for _, key := range Keys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}

	require.NoError(t, cfg.Set("backend.url", "http://localhost:8001/"))
	require.NoError(t, cfg.Set("backend.timeout", "2m"))
	require.NoError(t, cfg.Set("remote_auth", "true"))

	url, _ := cfg.Get("backend.url")
	assert.Equal(t, "http://localhost:8001", url)
	timeout, _ := cfg.Get("backend.timeout")
	assert.Equal(t, "2m0s", timeout)
	assert.True(t, cfg.RemoteAuth)

	assert.Error(t, cfg.Set("remote_auth", "maybe"))
	assert.Error(t, cfg.Set("backend.timeout", "soon"))

	_, err := cfg.Get("providers.default")
	assert.Equal(t, perrors.ErrCodeConfigInvalid, perrors.CodeOf(err))
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", FileName)

	cfg := Default()
	cfg.App = "hr"
	cfg.Backend.URL = "http://localhost:8001"
	cfg.Backend.Timeout = Duration(15 * time.Second)
	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	res, err := NewLoader().WithDotEnv(false).WithPath(path).WithEnv(envMap(nil)).Load()
	require.NoError(t, err)
	assert.Equal(t, "hr", res.Config.App)
	assert.Equal(t, 15*time.Second, res.Config.Timeout())
}
