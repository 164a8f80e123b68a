package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/friendgraph/pkg/observability"
	"github.com/matzehuels/friendgraph/pkg/observability/prom"
	"github.com/matzehuels/friendgraph/pkg/pipeline"
	"github.com/matzehuels/friendgraph/pkg/server"
	"github.com/matzehuels/friendgraph/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [edges]",
		Short: "Serve an edge list over HTTP",
		Long: `Load an edge list and serve degree and distance-2 queries over HTTP.
Edges posted to /edges are added to the in-memory graph. Metrics are exposed
at /metrics in Prometheus format.

When store.mongo_uri is configured, reports can be saved with POST /reports
and read back from /reports/{id} and /reports/latest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			hooks := prom.New(reg)
			observability.SetGraphHooks(hooks)
			observability.SetCacheHooks(hooks)
			defer observability.Reset()

			g, hash, err := pipeline.NewRunner(nil, nil, nil, c.Logger).Load(ctx, args[0])
			if err != nil {
				return err
			}

			var st store.Store
			if c.Config.Store.MongoURI != "" {
				if st, err = c.newStore(ctx); err != nil {
					return err
				}
				defer st.Close(context.Background())
			}

			srv, err := server.New(g, server.Options{
				Addr:     addr,
				LRUSize:  c.Config.Server.LRUSize,
				Top:      c.Config.Analysis.Top,
				Store:    st,
				Source:   hash,
				Gatherer: reg,
				Logger:   c.Logger,
			})
			if err != nil {
				return err
			}
			printInfo("Serving %s on %s", args[0], StyleHighlight.Render(addr))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
