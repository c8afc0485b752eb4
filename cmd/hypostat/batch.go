package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hypostat/hypostat/internal/batch"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		input   string
		output  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run a file of JSON test requests",
		Long: `Run newline-delimited JSON test requests and write one JSON response per
request, in input order. A failed request produces an error response and
does not stop the batch.

Files ending in .gz or .zst are decompressed on read and compressed on
write. Use "-" for standard input or output.

Examples:
  hypostat batch --input requests.jsonl
  hypostat batch --input requests.jsonl.zst --output results.jsonl.gz --workers 8
  cat requests.jsonl | hypostat batch --input -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("workers") {
				a.cfg.Workers = workers
			}
			engine, err := a.engine()
			if err != nil {
				return err
			}

			runner := batch.NewRunner(engine,
				batch.WithWorkers(a.cfg.Workers),
				batch.WithPrecision(a.cfg.Precision),
				batch.WithDefaults(a.defaults()),
				batch.WithLogger(a.logger),
			)
			sum, err := runner.RunFiles(cmd.Context(), input, output)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%d requests: %d succeeded, %d failed in %s\n",
				sum.Lines, sum.Succeeded, sum.Failed, sum.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "request file (.jsonl, .jsonl.gz, .jsonl.zst, or - for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "response file, or - for stdout")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent computations (default from config)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
