package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wallcheck/wallcheck/internal/remote"
)

func newRemoteCmd(d *deps) *cobra.Command {
	var endpoints []string

	cmd := &cobra.Command{
		Use:   "remote <domain>",
		Short: "Query remote wallcheck instances for a domain",
		Long: `Ask one or more remote wallcheck servers to check a domain from their
vantage point. Endpoints come from --endpoint flags or the "remotes" list
in the config file. Comparing verdicts across vantage points separates
local network problems from actual blocking.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := endpoints
			if len(targets) == 0 {
				targets = d.cfg.Remotes
			}
			if len(targets) == 0 {
				return fmt.Errorf("no remote endpoints: pass --endpoint or set remotes in the config file")
			}

			// Each remote call covers a full probe on the far side; allow
			// the probe timeout plus transfer overhead.
			client := remote.NewClient(d.cfg.Timeout+2*time.Second, d.logger)
			results, err := client.Check(cmd.Context(), targets, args[0])
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), d, remote.Results(results))
		},
	}

	cmd.Flags().StringArrayVarP(&endpoints, "endpoint", "e", nil, "remote wallcheck base URL (repeatable)")

	return cmd
}
