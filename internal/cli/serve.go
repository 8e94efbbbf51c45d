package cli

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/myseum/pkg/observability"
	"github.com/matzehuels/myseum/pkg/observability/prom"
	"github.com/matzehuels/myseum/pkg/server"
	"github.com/matzehuels/myseum/pkg/session"
)

// sessionCleanupInterval is how often serve removes expired sessions.
const sessionCleanupInterval = time.Hour

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr   string
		noAuth bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Requests authenticate with tokens from "myseum session new". With --no-auth
every request acts as the local user, matching the CLI. Prometheus metrics
are served at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			noAuth = noAuth || c.cfg.Server.NoAuth
			return c.serve(cmd.Context(), addr, noAuth)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noAuth, "no-auth", false, "treat every request as the local user")
	return cmd
}

func (c *CLI) serve(ctx context.Context, addr string, noAuth bool) error {
	logger := loggerFromContext(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := prom.New(reg)
	observability.SetPlacementHooks(metrics)
	observability.SetStoreHooks(metrics)
	observability.SetHTTPHooks(metrics)
	defer observability.Reset()

	svc, closeFn, err := c.openService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	sessions, err := c.sessions()
	if err != nil {
		return err
	}

	srv := server.New(svc, server.Options{
		Sessions:    sessions,
		NoAuth:      noAuth,
		Gatherer:    reg,
		Logger:      logger,
		ReadTimeout: c.cfg.Server.ReadTimeout,
	})
	if noAuth {
		logger.Warn("authentication disabled; every request acts as the local user")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx, addr)
	})
	g.Go(func() error {
		cleanupSessions(ctx, sessions)
		return nil
	})
	return g.Wait()
}

// cleanupSessions removes expired sessions periodically until ctx is done.
func cleanupSessions(ctx context.Context, store session.Store) {
	logger := loggerFromContext(ctx)
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Cleanup(ctx); err != nil {
				logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}
