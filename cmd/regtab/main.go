// Command regtab fits a set of linear regressions and prints them side by
// side as a publication-style comparison table.
//
// Without --config it reproduces the 401(k) eligibility comparison on
// 401ksubs.csv in the working directory.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bjaus/regtab"
	"github.com/bjaus/regtab/report"
)

func main() {
	cmd := newRootCommand(afero.NewOsFs(), os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	config  string
	dataset string
	format  string
	html    string
	latex   bool
	verbose bool
}

func (o *options) bind(flags *pflag.FlagSet) {
	flags.SortFlags = true
	flags.StringVarP(&o.config, "config", "c", "", "path to a YAML report config")
	flags.StringVarP(&o.dataset, "dataset", "d", "", "path to the CSV dataset")
	flags.StringVarP(&o.format, "format", "f", "", fmt.Sprintf("output format %v", regtab.Formats()))
	flags.StringVar(&o.html, "html", "", "write a standalone HTML document to this path")
	flags.BoolVar(&o.latex, "latex", false, "append a LaTeX fragment to the output")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "print details")
}

// apply overrides cfg with the flags set on the command line.
func (o *options) apply(flags *pflag.FlagSet, cfg *report.Config) {
	if flags.Changed("dataset") {
		cfg.Dataset = o.dataset
	}
	if flags.Changed("format") {
		cfg.Output.Format = o.format
	}
	if flags.Changed("html") {
		cfg.Output.HTML = o.html
	}
	if flags.Changed("latex") {
		cfg.Output.LaTeX = o.latex
	}
}

func newRootCommand(fs afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "regtab",
		Short: "Compare regression models in one table",
		Long: `Fit every model of a report config on the same dataset and print
the estimates side by side, with standard errors in parentheses and
significance stars.

Environment variables REGTAB_DATASET and REGTAB_OUTPUT_HTML override the
dataset and HTML output paths of the config.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(stderr, opts.verbose)
			defer func() { _ = logger.Sync() }()

			err := run(cmd.Flags(), fs, stdout, stderr, opts, logger)
			if err != nil {
				logger.Error(err.Error())
			}
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	opts.bind(cmd.Flags())
	return cmd
}

// run publishes the table to stdout. Status messages go to stderr so the
// table can be piped.
func run(flags *pflag.FlagSet, fs afero.Fs, stdout, stderr io.Writer, opts *options, logger *zap.SugaredLogger) error {
	cfg, err := report.Load(fs, opts.config)
	if err != nil {
		return err
	}
	opts.apply(flags, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Debugf("Formula: %s", cfg.Formula)

	table, err := report.Build(fs, cfg, logger)
	if err != nil {
		return err
	}
	if err := report.Publish(stdout, fs, cfg.Output, table); err != nil {
		return err
	}
	if cfg.Output.HTML != "" {
		if _, err := fmt.Fprintf(stderr, "HTML table saved to: %s\n", cfg.Output.HTML); err != nil {
			return err
		}
	}
	return nil
}

// newLogger logs warnings and errors to stderr, plus info and debug
// messages prefixed with their level when verbose.
func newLogger(stderr io.Writer, verbose bool) *zap.SugaredLogger {
	levels := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		if verbose {
			return true
		}
		return l >= zapcore.WarnLevel
	})

	levelKey := ""
	if verbose {
		levelKey = "level"
	}
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         levelKey,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: "\t",
	})
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(stderr), levels)).Sugar()
}
