package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newKillCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kill",
		Short: "Stop the running program",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := post(opts, "/api/kill", nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "killed")
			return nil
		},
	}
	return cmd
}
