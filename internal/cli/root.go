// Package cli provides the Cobra command tree and output wiring for
// wallcheck.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wallcheck/wallcheck/internal/config"
	"github.com/wallcheck/wallcheck/internal/output"
	"github.com/wallcheck/wallcheck/internal/version"
	"github.com/wallcheck/wallcheck/internal/worker"
)

// newRootCmd builds the top-level Cobra command for wallcheck.
// Callers must set stdout/stderr via cmd.SetOut / cmd.SetErr before Execute.
func newRootCmd() *cobra.Command {
	// d is populated by PersistentPreRunE before any subcommand's RunE runs.
	// INVARIANT: Cobra only executes the innermost PersistentPreRunE in the
	// command chain. Do not add PersistentPreRunE to any subcommand without
	// also re-calling buildDeps.
	var d deps

	cmd := &cobra.Command{
		Use:   "wallcheck",
		Short: "wallcheck — detect network-level domain blocking",
		Long: `wallcheck probes a domain through multiple public DNS resolvers and
direct TCP, TLS, and HTTP connections to each resolved address, then
classifies the evidence into a blocking verdict.

Indicators: dns-pollution (resolvers disagree), tls-reset (handshake torn
down after ClientHello, suspected SNI filtering), tcp-all-failed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := buildDeps(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			d = *resolved
			return nil
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.Version = version.Version
	cmd.SetVersionTemplate("wallcheck version {{.Version}}\n")

	cmd.AddCommand(
		newCheckCmd(&d),
		newServeCmd(&d),
		newRemoteCmd(&d),
		newVersionCmd(&d),
	)

	return cmd
}

// Execute builds the root command and runs it with the given arguments.
// args excludes the program name. ctx cancellation aborts in-flight probes.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

// deps holds fully-resolved runtime dependencies for a subcommand.
type deps struct {
	logger *slog.Logger
	cfg    *config.Config
}

// buildDeps resolves config, logger, and output format.
func buildDeps(cmd *cobra.Command, stderr io.Writer) (*deps, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if !output.Format(cfg.Output).Valid() {
		return nil, fmt.Errorf("invalid output format %q: must be \"text\", \"json\", or \"plain\"", cfg.Output)
	}

	return &deps{cfg: cfg, logger: logger}, nil
}

// resolveInputs returns positional args, or reads non-empty lines from stdin
// when no args are provided. Returns an error if stdin is an interactive
// terminal with no args (i.e. the user forgot to pass an argument or pipe
// input).
func resolveInputs(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	r := cmd.InOrStdin()
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // uintptr→int is safe for file descriptors; they fit in int on all supported platforms
		return nil, fmt.Errorf("no input: pass a domain or pipe stdin")
	}
	return worker.ReadInputs(r)
}

// writeResult formats and writes a result to stdout.
func writeResult(stdout io.Writer, d *deps, result any) error {
	if err := output.Write(stdout, output.Format(d.cfg.Output), result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
