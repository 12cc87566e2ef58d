package main

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const defaultAddress = "http://localhost:80"

type options struct {
	addr    string
	timeout time.Duration
}

func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "pxctl",
		Short:         "Client for a running pxexec server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addr := os.Getenv("PXEXEC_ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = defaultAddress
	}
	root.PersistentFlags().StringVar(&opts.addr, "addr", addr, "server base URL (env PXEXEC_ADDR)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "request timeout")

	root.AddCommand(newSaveCmd(opts))
	root.AddCommand(newKillCmd(opts))

	return root
}
