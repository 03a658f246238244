package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/bdekoz/izzi/pkg/cache"
	"github.com/bdekoz/izzi/pkg/config"
	"github.com/bdekoz/izzi/pkg/observability"
	"github.com/bdekoz/izzi/pkg/observability/prom"
	"github.com/bdekoz/izzi/pkg/pipeline"
	"github.com/bdekoz/izzi/pkg/server"
)

// serveCommand creates the serve command that exposes the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render API over HTTP",
		Long: `Serve the layout and render API over HTTP.

Endpoints:
  POST /v1/layout   values in, placements out (JSON)
  POST /v1/render   values in, drawings out
  GET  /healthz     liveness
  GET  /metrics     Prometheus metrics

The server reads the [server] and [cache] sections of the config file.
It stops cleanly on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.Default().Server.Addr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe wires metrics and the cache into a server and blocks until ctx
// is canceled.
func (c *CLI) runServe(ctx context.Context, cfg *config.Config, noCache bool) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	hooks := prom.New(reg)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, appName+":server:"), c.Logger)
	runner.TTL = cfg.CacheTTL()
	defer runner.Close()

	c.Logger.Info("starting server", "addr", cfg.Server.Addr, "cache", cfg.Cache.Backend)
	srv := server.New(runner, cfg, server.WithLogger(c.Logger), server.WithMetrics(reg))
	return srv.ListenAndServe(ctx)
}
