// internal/cli/options.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"episum/internal/cliutil"
	"episum/internal/config"
	"episum/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	Files []string

	ConfigPath string
	Output     string
	LogFormat  string
	Verbose    bool
	Quiet      bool
}

// RunFunc executes a parsed command line. changed reports whether a flag was
// given explicitly.
type RunFunc func(ctx context.Context, opts Options, changed func(name string) bool) error

// NewCommand returns the episum root command.
func NewCommand(run RunFunc) *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "episum [flags] LOG...",
		Short: "Summarize EpiHiper initialization, trigger and intervention logs",
		Long: `episum rebuilds, per tick, the tree of action ensembles each initialization
and intervention block targeted, including how sampling split every target
set into sampled and not-sampled subsets.

Only lines tagged [info] are read. Several logs may be given; their ticks are
merged. '-' reads standard input and .gz logs are decompressed on the fly.`,
		Example: `  episum run.log
  episum -o summary.json 'logs/*.log.gz'
  zcat run.log.gz | episum -o - -`,
		Version:       version.Version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := cliutil.ExpandPositionals(args)
			if err != nil {
				return err
			}
			opts.Files = files
			return run(cmd.Context(), opts, cmd.Flags().Changed)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath, "YAML config file (optional)")
	f.StringVarP(&opts.Output, "output", "o", config.DefaultOutput, "summary JSON path ('-' for stdout)")
	f.StringVar(&opts.LogFormat, "log-format", "console", "log format: console | json")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "only warnings and errors")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	return cmd
}

// Apply layers explicitly given flags over cfg.
func (o Options) Apply(cfg *config.Config, changed func(name string) bool) {
	if changed("output") {
		cfg.Output = o.Output
	}
	if changed("log-format") {
		cfg.Logging.Format = o.LogFormat
	}
	switch {
	case o.Verbose:
		cfg.Logging.Level = "debug"
	case o.Quiet:
		cfg.Logging.Level = "warn"
	}
}

// UsageHint is printed after argument errors.
func UsageHint(name string) string {
	return fmt.Sprintf("Run '%s --help' for usage.", name)
}
