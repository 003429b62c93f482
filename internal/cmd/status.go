package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/portal/internal/health"
	"github.com/felixgeelhaar/portal/internal/session"
	"github.com/felixgeelhaar/portal/internal/ux"
)

// sessionChecker reports on the saved session without contacting the
// backend, so a stale token is not discarded by a status check.
type sessionChecker struct {
	tokens session.TokenStore
}

func (c sessionChecker) Name() string {
	return "session"
}

func (c sessionChecker) Check(ctx context.Context) *health.Result {
	rec, err := c.tokens.Load()
	if err != nil {
		return health.Unhealthy("saved session unreadable").WithDetail("error", err.Error())
	}
	if rec == nil {
		return health.Degraded("not logged in")
	}
	if rec.User == nil {
		if session.IsDemoToken(rec.Token) {
			return health.Unhealthy("demo session has no profile snapshot")
		}
		return health.Healthy("backend session saved")
	}
	kind := "backend"
	if session.IsDemoToken(rec.Token) {
		kind = "demo"
	}
	return health.Healthy(fmt.Sprintf("%s session for %s", kind, rec.User.Email)).
		WithDetail("user_type", rec.User.UserType)
}

type statusView struct {
	Overall health.Status             `json:"overall" yaml:"overall"`
	App     string                    `json:"app" yaml:"app"`
	Backend string                    `json:"backend" yaml:"backend"`
	Checks  map[string]*health.Result `json:"checks" yaml:"checks"`
}

func newStatusCommand() *cobra.Command {
	var timeout time.Duration

	c := &cobra.Command{
		Use:   "status",
		Short: "Check the backend and the saved session",
		Long: `Check whether the configured backend answers and whether a session is
saved. Exits non-zero when a check is unhealthy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			apiURL := ""
			if cc.Client != nil {
				apiURL = cc.Client.BaseURL() + "/api/"
			}

			mgr := health.NewManager().WithTimeout(timeout)
			mgr.AddChecker(health.NewBackendChecker(apiURL, nil))
			mgr.AddChecker(sessionChecker{tokens: cc.Tokens})

			results := mgr.Check(cmd.Context())
			overall := health.OverallStatus(results)

			names := make([]string, 0, len(results))
			for name := range results {
				names = append(names, name)
			}
			sort.Strings(names)

			t := ux.NewTable("CHECK", "STATUS", "MESSAGE", "LATENCY")
			t.Title = fmt.Sprintf("portal (%s) · overall %s", cc.App, overall)
			for _, name := range names {
				r := results[name]
				t.Add(name, r.Status, r.Message, r.Latency.Round(time.Millisecond))
			}

			view := statusView{Overall: overall, App: string(cc.App), Backend: cc.Config.Backend.URL, Checks: results}
			if err := cc.Render(view, t); err != nil {
				return err
			}
			if overall == health.StatusUnhealthy {
				for _, name := range names {
					if r := results[name]; r.Status == health.StatusUnhealthy {
						return fmt.Errorf("%s: %s", name, r.Message)
					}
				}
			}
			return nil
		},
	}

	c.Flags().DurationVar(&timeout, "check-timeout", 5*time.Second, "timeout for each check")
	return c
}
