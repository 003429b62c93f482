// Package cmd wires the portal command tree: authentication, the HR and
// procurement operations, the interactive TUI, the stub backend and the
// maintenance commands.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// Global flag names. Changed flags override the config file and
// environment; see overrideKeys.
const (
	flagApp       = "app"
	flagBackend   = "backend"
	flagStateDir  = "state-dir"
	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagFormat    = "format"
	flagRemote    = "remote"
	flagTimeout   = "timeout"
	flagEmployee  = "employee"
)

// overrideKeys maps global flags to config keys.
var overrideKeys = map[string]string{
	flagApp:       "app",
	flagBackend:   "backend.url",
	flagStateDir:  "state_dir",
	flagLogLevel:  "logging.level",
	flagLogFormat: "logging.format",
	flagRemote:    "remote_auth",
	flagTimeout:   "backend.timeout",
	flagEmployee:  "employee_id",
}

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "portal",
		Short: "1957 Ventures HR and procurement portal client",
		Long: `portal is a terminal client for the 1957 Ventures HR self-service and
vendor procurement portals.

Any email and password start a demo session backed by built-in data, so
every command works without a backend. Configure backend.url (or set
PORTAL_BACKEND_URL) and pass --remote to sign in against a real server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String(flagApp, "", "portal to use: procurement or hr")
	pf.String(flagBackend, "", "backend base URL")
	pf.String(flagStateDir, "", "directory for the session token and config (default ~/.portal)")
	pf.String(flagConfig, "", "config file (default <state-dir>/config.yaml)")
	pf.String(flagLogLevel, "", "log level: debug, info, warn, error")
	pf.String(flagLogFormat, "", "log format: text or json")
	pf.StringP(flagFormat, "o", "text", "output format: text, json or yaml")
	pf.Bool(flagRemote, false, "authenticate against the backend instead of starting demo sessions")
	pf.String(flagTimeout, "", "backend request timeout, e.g. 10s")
	pf.String(flagEmployee, "", "employee ID for HR commands")

	root.AddCommand(
		newAuthCommand(),
		newHRCommand(),
		newProcureCommand(),
		newTUICommand(),
		newServeStubCommand(),
		newContractCommand(),
		newConfigCommand(),
		newStatusCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which is cancelled on
// interrupt.
func ExecuteContext(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
