package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ngtv-go",
		Short:        "Synthesize TypeScript type-check units from AngularJS-style templates",
		SilenceUsage: true,
	}
	cmd.AddCommand(newGenerateCmd())
	return cmd
}
