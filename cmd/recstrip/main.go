// Command recstrip removes `recommended: true|false` lines from a source file
// in place and repairs the comma artifacts left behind.
//
// Usage:
//
//	recstrip                     # rewrites src/lib/models.ts
//	recstrip web/src/models.ts   # rewrites another file
//	recstrip --dry-run           # prints the diff, writes nothing
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recstrip/internal/config"
	"recstrip/internal/diff"
	"recstrip/internal/strip"
)

type options struct {
	configPath string
	verbose    bool
	dryRun     bool
	noColor    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "recstrip [path]",
		Short: "Strip recommended flags from a models file",
		Long: `recstrip rewrites a source file in place, removing every line that only
holds a "recommended: true" or "recommended: false" flag, then collapses
doubled commas and drops commas left dangling before a closing brace.

The edit is textual. There is no backup; use --dry-run to preview.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config %s: %w", opts.configPath, err)
			}
			opts.cfg = cfg

			zc, err := cfg.Logging.ZapConfig(opts.verbose)
			if err != nil {
				return err
			}
			logger, err := zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStrip(cmd, args, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Config file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Print the diff instead of writing the file")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored diff output")

	return cmd
}

func runStrip(cmd *cobra.Command, args []string, opts *options) error {
	target := opts.cfg.Target
	if len(args) == 1 {
		target = args[0]
	}

	stripper, err := opts.cfg.Stripper()
	if err != nil {
		return err
	}

	res, err := strip.File(cmd.Context(), target, strip.Options{
		Stripper: stripper,
		Logger:   opts.logger,
		DryRun:   opts.dryRun,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	field := stripper.Rules().Field
	if opts.dryRun {
		return printDryRun(out, res, field, opts.noColor)
	}

	fmt.Fprintf(out, "✅ Stripped all '%s' flags from %s\n", field, filepath.Base(target))
	return nil
}

func printDryRun(w io.Writer, res *strip.FileResult, field string, noColor bool) error {
	styles := diff.DefaultStyles()
	if noColor {
		styles = diff.PlainStyles()
	}

	d := diff.Compute(res.Path, res.Original, res.Text)
	if err := diff.Render(w, d, styles); err != nil {
		return err
	}

	removed, added := d.Counts()
	fmt.Fprintf(w, "Dry run: %d '%s' line(s) would be stripped from %s (%d lines removed, %d added); nothing written\n",
		res.Stats.RemovedLines, field, filepath.Base(res.Path), removed, added)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
