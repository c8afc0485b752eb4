package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hypostat/hypostat/internal/sample"
)

func newDescribeCmd(a *app) *cobra.Command {
	var raw string

	cmd := &cobra.Command{
		Use:   "describe [observations...]",
		Short: "Describe a sample: size, mean, spread and quartiles",
		Long: `Describe a sample given with --sample or as arguments.

Examples:
  hypostat describe --sample "4.1, 5.2, 6.3, 5.5"
  hypostat describe 4.1 5.2 6.3 5.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if raw == "" {
				raw = strings.Join(args, " ")
			}
			xs, err := sample.Parse(raw)
			if err != nil {
				return err
			}
			d, err := sample.Describe(xs)
			if err != nil {
				return err
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.Description(cmd.OutOrStdout(), d)
		},
	}

	cmd.Flags().StringVar(&raw, "sample", "", "observations separated by spaces or commas")
	return cmd
}
