package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sudankdk/pxexec/internal/model"
)

func newSaveCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Compile a TypeScript file and run it, replacing the running program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := readBundle(args[0])
			if err != nil {
				return err
			}
			body, err := post(opts, "/api/save", bundle)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}
	return cmd
}

// readBundle loads path as the entry point of a bundle.
func readBundle(path string) (model.SourceBundle, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return model.SourceBundle{model.EntryPoint: string(src)}, nil
}
