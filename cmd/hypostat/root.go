package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hypostat/hypostat"
	"github.com/hypostat/hypostat/internal/config"
	"github.com/hypostat/hypostat/internal/render"
	"github.com/hypostat/hypostat/internal/stats"
	statslogger "github.com/hypostat/hypostat/internal/stats/logger"
	"github.com/hypostat/hypostat/internal/wire"
)

// app holds the global flags and the state derived from them.
type app struct {
	configPath string
	verbose    bool
	format     string
	precision  int

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "hypostat",
		Short: "Test statistics and critical values for classical hypothesis tests",
		Long: `Hypostat computes the intermediate quantities of parametric hypothesis
tests: the test statistic, its degrees of freedom and the critical value
for a significance level and tail. It never decides whether to reject.

Samples are given raw (--sample "1 2 3") or as summaries (--mean, --sd or
--var, --n).

Examples:
  # One-sample t test from a summary
  hypostat one-sample-t --mean 52 --sd 10 --n 25 --mu0 50

  # Welch t test from raw samples, upper tail
  hypostat welch-t --sample "5.1 4.9 6.2 5.8" --sample2 "4.2 4.8 4.4 5.0" --tail upper

  # Run a file of JSON requests
  hypostat batch --input requests.jsonl.zst --output results.jsonl

  # Serve the HTTP API
  hypostat serve --addr :8080`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultPath+" if present)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVarP(&a.format, "format", "f", string(render.FormatText), "output format: text, json, markdown")
	pf.IntVar(&a.precision, "precision", 4, "decimal places in output, -1 for full precision")

	for _, f := range hypostat.Families() {
		cmd.AddCommand(newTestCmd(a, f))
	}
	cmd.AddCommand(
		newBatchCmd(a),
		newServeCmd(a),
		newDescribeCmd(a),
		newFamiliesCmd(a),
	)
	return cmd
}

// setup loads the configuration; explicit flags win over it.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("precision") {
		cfg.Precision = a.precision
	}
	if a.verbose {
		cfg.LogLevel = zapcore.DebugLevel.String()
	}
	a.cfg = cfg

	a.logger = zap.NewNop()
	if a.verbose {
		if a.logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
	}
	return nil
}

func (a *app) renderer(cmd *cobra.Command) (*render.Renderer, error) {
	format, err := render.ParseFormat(a.format)
	if err != nil {
		return nil, err
	}
	return render.New(format, a.cfg.Precision, render.IsTerminal(cmd.OutOrStdout())), nil
}

func (a *app) engine() (*hypostat.Engine, error) {
	var collector stats.Collector = stats.NewNoop()
	if a.verbose {
		collector = statslogger.New(a.logger)
	}
	return hypostat.New(
		hypostat.WithQuantileCache(a.cfg.CacheSize),
		hypostat.WithStats(collector),
		hypostat.WithLogger(a.logger),
	)
}

func (a *app) defaults() wire.Defaults {
	return wire.Defaults{Alpha: a.cfg.Alpha}
}
