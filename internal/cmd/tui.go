package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/portal/internal/log"
	"github.com/felixgeelhaar/portal/internal/session"
	"github.com/felixgeelhaar/portal/internal/tui"
	"github.com/felixgeelhaar/portal/internal/views"
)

// logFileName is the TUI log under the state directory.
const logFileName = "portal.log"

func newTUICommand() *cobra.Command {
	var start string

	c := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive portal",
		Long: `Open the full-screen portal. The saved session is restored first, so a
signed-in user lands on the dashboard; otherwise the landing page offers
sign in, vendor registration and team login.

Logs are written to logging.file (default <state-dir>/portal.log) because
the terminal belongs to the interface.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			path := res.Config.Logging.File
			if path == "" {
				path = filepath.Join(res.Config.StateDir, logFileName)
			}
			f, err := log.OpenFile(path)
			if err != nil {
				return err
			}
			defer f.Close()

			cc, err := newCommandContext(cmd, f)
			if err != nil {
				return err
			}

			router := views.NewRouter()
			m := tui.NewModel(cmd.Context(), tui.Config{
				App:        cc.App,
				Store:      cc.Store,
				Router:     router,
				EmployeeID: cc.EmployeeID(),
				Logger:     cc.Logger,
				Metrics:    cc.Metrics,
			})

			// A session that cannot be restored leaves the user on the
			// landing page.
			if _, err := cc.Store.Restore(cmd.Context()); err != nil {
				cc.Logger.WithError(err).Warn("session not restored")
				if errors.Is(err, session.ErrDemoSnapshotMissing) {
					fmt.Fprintln(cc.ErrOut, "Saved demo session was incomplete; please sign in again.")
				}
			}

			if start != "" {
				v, err := views.ParseView(start)
				if err != nil {
					return err
				}
				if err := router.Navigate(v); err != nil {
					cc.Logger.WithError(err).Warn("start view unavailable", "view", start)
				}
			}

			return tui.Run(cmd.Context(), m)
		},
	}

	c.Flags().StringVar(&start, "view", "", "screen to open after sign in, e.g. rfps or policies")
	return c
}
