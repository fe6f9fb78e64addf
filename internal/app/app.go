// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"episum/internal/cli"
	"episum/internal/config"
	"episum/internal/logfile"
	"episum/internal/logging"
	"episum/internal/output"
	"episum/internal/pipeline"
	"episum/internal/summary"
	"episum/internal/writers"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitUsage       = 2
	ExitIO          = 3
	ExitInterrupted = 130
)

const name = "episum"

// RunContext parses argv, summarizes the named logs and writes the summary
// document. It returns the process exit code. Without arguments it prints
// help and reports a usage error.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	noArgs := len(argv) == 0
	if noArgs {
		argv = []string{"--help"}
	}

	cmd := cli.NewCommand(func(ctx context.Context, opts cli.Options, changed func(string) bool) error {
		return summarize(ctx, opts, changed, stdout, stderr)
	})
	cmd.SetArgs(argv)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(parent)
	if err == nil {
		if noArgs {
			return ExitUsage
		}
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	_, _ = fmt.Fprintln(stderr, "error:", err)

	var ae *logfile.AccessError
	var oe *writers.OutputError
	if errors.As(err, &ae) || errors.As(err, &oe) {
		return ExitIO
	}
	_, _ = fmt.Fprintln(stderr, cli.UsageHint(name))
	return ExitUsage
}

// Run is RunContext without cancellation.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func summarize(ctx context.Context, opts cli.Options, changed func(string) bool, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	opts.Apply(cfg, changed)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Logging, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	b := summary.NewBuilder()
	p := pipeline.New(b, log)
	if err := p.ProcessFiles(ctx, opts.Files); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("interrupted, no summary written", p.Stats().Fields()...)
		}
		return err
	}
	table := b.Finish()
	log.Info("logs processed", p.Stats().Fields()...)

	err = writers.WriteFile(cfg.Output, stdout, func(w io.Writer) error {
		return output.WriteJSON(w, table)
	})
	if err != nil {
		return err
	}
	log.Info("summary written", zap.String("output", cfg.Output), zap.Int("ticks", table.Len()))
	return nil
}
