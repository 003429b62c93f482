package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/portal/internal/fixtures"
	"github.com/felixgeelhaar/portal/internal/metrics"
	"github.com/felixgeelhaar/portal/internal/stubserver"
	"github.com/felixgeelhaar/portal/internal/version"
)

// envSigningKey supplies a stable token signing key so tokens survive
// stub restarts.
const envSigningKey = "PORTAL_STUB_SIGNING_KEY"

type serveOptions struct {
	address         string
	tokenTTL        time.Duration
	shutdownTimeout time.Duration
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
}

func newServeStubCommand() *cobra.Command {
	var opts serveOptions

	c := &cobra.Command{
		Use:   "serve-stub",
		Short: "Run a local backend that serves the demo data over HTTP",
		Long: `Run a local stand-in for the portal backend. It serves every gateway
route from the built-in demo data, issues signed bearer tokens for
/api/auth/login and /api/auth/signup, and exposes:

  /health/live   liveness probe
  /health/ready  readiness probe
  /metrics       Prometheus metrics

The server drains connections on SIGINT or SIGTERM.`,
		Example: `  portal serve-stub --addr :8001
  PORTAL_BACKEND_URL=http://localhost:8001 portal auth login --remote`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeStub(cmd, opts)
		},
	}

	f := c.Flags()
	f.StringVar(&opts.address, "addr", ":8001", "address to listen on")
	f.DurationVar(&opts.tokenTTL, "token-ttl", stubserver.DefaultTokenTTL, "lifetime of issued tokens")
	f.DurationVar(&opts.shutdownTimeout, "shutdown-timeout", 30*time.Second, "maximum time to drain connections on shutdown")
	f.DurationVar(&opts.readTimeout, "read-timeout", 10*time.Second, "maximum duration for reading a request")
	f.DurationVar(&opts.writeTimeout, "write-timeout", 10*time.Second, "maximum duration for writing a response")
	f.DurationVar(&opts.idleTimeout, "idle-timeout", 60*time.Second, "maximum keep-alive idle time")
	return c
}

func runServeStub(cmd *cobra.Command, opts serveOptions) error {
	ctx := cmd.Context()
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	state, err := fixtures.NewDemoState()
	if err != nil {
		return err
	}

	reg, m := metrics.NewRegistry()
	srv, err := stubserver.New(state, stubserver.Config{
		Address:         opts.address,
		SigningKey:      []byte(os.Getenv(envSigningKey)),
		TokenTTL:        opts.tokenTTL,
		ShutdownTimeout: opts.shutdownTimeout,
		ReadTimeout:     opts.readTimeout,
		WriteTimeout:    opts.writeTimeout,
		IdleTimeout:     opts.idleTimeout,
	},
		stubserver.WithLogger(cc.Logger),
		stubserver.WithMetrics(m),
		stubserver.WithExporter(metrics.HandlerFor(reg)),
	)
	if err != nil {
		return err
	}

	info := version.GetInfo()
	out := cc.Out
	fmt.Fprintf(out, "\n╔══════════════════════════════════════════════════════════════╗\n")
	fmt.Fprintf(out, "║                  [ portal stub backend ]                     ║\n")
	fmt.Fprintf(out, "║         1957 Ventures HR and procurement demo data           ║\n")
	fmt.Fprintf(out, "╚══════════════════════════════════════════════════════════════╝\n\n")
	fmt.Fprintf(out, "Version: %s\n", info.Version)
	fmt.Fprintf(out, "Listening on: %s\n\n", opts.address)
	fmt.Fprintf(out, "Endpoints:\n")
	fmt.Fprintf(out, "  API:       %s/api/\n", opts.address)
	fmt.Fprintf(out, "  Liveness:  %s/health/live\n", opts.address)
	fmt.Fprintf(out, "  Readiness: %s/health/ready\n", opts.address)
	fmt.Fprintf(out, "  Metrics:   %s/metrics\n\n", opts.address)
	fmt.Fprintf(out, "Press Ctrl+C to stop the server\n\n")

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		fmt.Fprintln(out, "\nInitiating graceful shutdown...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.shutdownTimeout+5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}

		fmt.Fprintln(out, "Server stopped gracefully")
		return nil
	}
}
