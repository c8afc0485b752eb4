package main

import (
	"github.com/spf13/cobra"
)

func newFamiliesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "families",
		Short: "List the supported test families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.Families(cmd.OutOrStdout())
		},
	}
}
