package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/portal/internal/config"
	"github.com/felixgeelhaar/portal/internal/ux"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit portal configuration",
		Long: `Manage the portal configuration stored at <state-dir>/config.yaml.

Values are layered: built-in defaults, the config file, .env, environment
variables (PORTAL_*), then global flags. 'view' and 'get' show the merged
result; 'set' writes only the config file.

Keys: backend.url, backend.timeout, app, state_dir, employee_id,
remote_auth, logging.level, logging.format, logging.file`,
		Example: `  portal config view
  portal config set backend.url http://localhost:8001
  portal config get app
  portal config path`,
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "view",
			Short: "Display the effective configuration",
			RunE:  runConfigView,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the configuration file path",
			RunE:  runConfigPath,
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Get a configuration value",
			Args:  cobra.ExactArgs(1),
			RunE:  runConfigGet,
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value in the config file",
			Args:  cobra.ExactArgs(2),
			RunE:  runConfigSet,
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Edit the configuration file in $EDITOR",
			RunE:  runConfigEdit,
		},
	)
	return configCmd
}

func runConfigView(cmd *cobra.Command, args []string) error {
	res, err := loadConfig(cmd)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}

	format, _ := cmd.Flags().GetString(flagFormat)
	p, err := ux.NewPrinter(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return p.Value(res.Config)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	res, err := loadConfig(cmd)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}
	state := "not created yet"
	if res.FileFound {
		state = "exists"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", res.Path, state)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	res, err := loadConfig(cmd)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}
	value, err := res.Config.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	res, err := loadConfig(cmd)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}

	// Only the file layer is written back so environment values and
	// flags are not persisted by accident.
	fileOnly, err := config.NewLoader().
		WithPath(res.Path).
		WithDotEnv(false).
		WithEnv(func(string) (string, bool) { return "", false }).
		Load()
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}
	cfg := fileOnly.Config

	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg, res.Path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s = %s\n", key, value)
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	res, err := loadConfig(cmd)
	if err != nil {
		return ux.FormatError(err, "loading configuration")
	}
	if !res.FileFound {
		if err := config.Save(res.Config, res.Path); err != nil {
			return err
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	editorCmd := exec.Command(editor, res.Path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = cmd.OutOrStdout()
	editorCmd.Stderr = cmd.ErrOrStderr()
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor: %w", err)
	}

	if _, err := loadConfig(cmd); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: configuration may contain errors: %v\n", err)
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration updated successfully")
	return nil
}
