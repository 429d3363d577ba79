package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wallcheck/wallcheck/internal/probe"
	"github.com/wallcheck/wallcheck/internal/worker"
)

func newCheckCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "check [domain ...]",
		Short: "Probe one or more domains for network-level blocking",
		Long: `Probe each domain through the configured resolvers and ports and print
a verdict. With no arguments, domains are read from stdin, one per line.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			domains, err := resolveInputs(cmd, args)
			if err != nil {
				return err
			}

			pool := worker.NewPool(d.cfg.Workers, d.logger)
			defer pool.Close()

			prober := probe.NewProber(probe.Options{
				Resolvers: d.cfg.Resolvers,
				Ports:     d.cfg.Ports,
				Timeout:   d.cfg.Timeout,
			}, pool, d.logger)

			var errs []error
			for _, domain := range domains {
				report, err := prober.Probe(cmd.Context(), domain)
				if err != nil {
					d.logger.Error("check failed", "domain", domain, "error", err)
					errs = append(errs, fmt.Errorf("%s: %w", domain, err))
					continue
				}
				if err := writeResult(cmd.OutOrStdout(), d, report); err != nil {
					return err
				}
			}
			return errors.Join(errs...)
		},
	}
}
