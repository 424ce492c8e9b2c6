package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Set at build time via -ldflags
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:          "lumen",
		Short:        "Lumen - caching search gateway in front of LLM and web search APIs",
		Version:      version,
		SilenceUsage: true,
		// Serving is the default action.
		RunE: serve.RunE,
	}

	root.AddCommand(
		serve,
		newQueryCmd(),
		newCacheCmd(),
	)

	return root
}
