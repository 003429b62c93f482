package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/portal/internal/config"
	"github.com/felixgeelhaar/portal/internal/datasource"
	"github.com/felixgeelhaar/portal/internal/domain"
	perrors "github.com/felixgeelhaar/portal/internal/errors"
	"github.com/felixgeelhaar/portal/internal/fixtures"
	"github.com/felixgeelhaar/portal/internal/gateway"
	"github.com/felixgeelhaar/portal/internal/log"
	"github.com/felixgeelhaar/portal/internal/metrics"
	"github.com/felixgeelhaar/portal/internal/session"
	"github.com/felixgeelhaar/portal/internal/ux"
	"github.com/felixgeelhaar/portal/internal/version"
)

// CommandContext holds everything a command needs once flags, environment
// and the config file have been merged.
type CommandContext struct {
	Config     *config.Config
	ConfigPath string
	App        domain.App
	Format     ux.Format

	Logger  *log.Logger
	Metrics *metrics.Metrics

	// Client is nil when no backend is configured.
	Client  *gateway.Client
	Factory *datasource.Factory
	Tokens  *session.FileTokenStore
	Store   *session.Store

	Out    io.Writer
	ErrOut io.Writer
}

// NewCommandContext loads configuration and builds the gateway client and
// session store. Records go to stderr.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	return newCommandContext(cmd, cmd.ErrOrStderr())
}

func newCommandContext(cmd *cobra.Command, logOut io.Writer) (*CommandContext, error) {
	res, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	cfg := res.Config

	app, err := cfg.AppKind()
	if err != nil {
		return nil, err
	}

	rawFormat, _ := cmd.Flags().GetString(flagFormat)
	format, err := ux.ParseFormat(rawFormat)
	if err != nil {
		return nil, err
	}

	logCfg, err := cfg.LogConfig()
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeConfigInvalid, "invalid logging configuration", err)
	}
	logCfg.Output = logOut
	logCfg.ServiceVersion = version.Version
	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)

	m := metrics.GetDefault()

	var (
		client *gateway.Client
		auth   session.Authenticator
	)
	if cfg.HasBackend() {
		client = gateway.NewClient(cfg.Backend.URL,
			gateway.WithTimeout(cfg.Timeout()),
			gateway.WithLogger(logger),
			gateway.WithMetrics(m),
			gateway.WithUserAgent(version.GetInfo().UserAgent()),
		)
		auth = client
	}

	factory := &datasource.Factory{Client: client}
	tokens := session.NewFileTokenStore(cfg.StateDir)

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithMetrics(m),
		session.WithSources(factory.For),
	}
	if cfg.RemoteAuth {
		opts = append(opts, session.WithRemoteAuth())
	}

	logger.Debug("configuration loaded",
		"path", res.Path,
		"file_found", res.FileFound,
		"app", app,
		"backend", cfg.Backend.URL,
		"state_dir", cfg.StateDir,
	)

	return &CommandContext{
		Config:     cfg,
		ConfigPath: res.Path,
		App:        app,
		Format:     format,
		Logger:     logger,
		Metrics:    m,
		Client:     client,
		Factory:    factory,
		Tokens:     tokens,
		Store:      session.NewStore(tokens, auth, opts...),
		Out:        cmd.OutOrStdout(),
		ErrOut:     cmd.ErrOrStderr(),
	}, nil
}

// loadConfig merges the config file, .env, the environment and the global
// flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Result, error) {
	overrides := make(map[string]string)
	for flag, key := range overrideKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		overrides[key] = f.Value.String()
	}

	loader := config.NewLoader().WithOverrides(overrides)
	if path, _ := cmd.Flags().GetString(flagConfig); path != "" {
		loader = loader.WithPath(path)
	}
	return loader.Load()
}

// RequireSession restores the saved session and returns its data source.
func (c *CommandContext) RequireSession(ctx context.Context) (*session.Session, datasource.Source, error) {
	sess, err := c.Store.Restore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, perrors.NewNotLoggedInError()
	}
	return sess, c.Store.Source(), nil
}

// Render writes data in the selected format. Text output uses table when
// one is given.
func (c *CommandContext) Render(data interface{}, table *ux.Table) error {
	p, err := ux.NewPrinter(string(c.Format), c.Out)
	if err != nil {
		return err
	}
	return p.Print(data, table)
}

// Printf writes a plain line to stdout. Structured formats suppress it so
// their output stays parseable.
func (c *CommandContext) Printf(format string, args ...interface{}) {
	if c.Format.Structured() {
		return
	}
	fmt.Fprintf(c.Out, format, args...)
}

// EmployeeID returns the configured employee or the demo employee.
func (c *CommandContext) EmployeeID() string {
	if id := strings.TrimSpace(c.Config.EmployeeID); id != "" {
		return id
	}
	return fixtures.DemoEmployeeID
}
