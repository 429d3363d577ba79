package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wallcheck/wallcheck/internal/api"
	"github.com/wallcheck/wallcheck/internal/probe"
	"github.com/wallcheck/wallcheck/internal/worker"
)

func newServeCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve the probe engine over HTTP. GET or POST /check runs a check and
returns the full report as JSON; GET /health reports liveness.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool := worker.NewPool(d.cfg.Workers, d.logger)
			defer pool.Close()

			prober := probe.NewProber(probe.Options{
				Resolvers: d.cfg.Resolvers,
				Ports:     d.cfg.Ports,
				Timeout:   d.cfg.Timeout,
			}, pool, d.logger)

			srv := api.NewServer(prober, api.ServerOptions{
				Addr:      d.cfg.Listen,
				RateLimit: d.cfg.RateLimit,
			}, d.logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				d.logger.Info("shutting down")
				// The command context is already cancelled; Shutdown applies
				// its own timeout.
				if err := srv.Shutdown(context.Background()); err != nil {
					return err
				}
				return <-errCh
			}
		},
	}
}
