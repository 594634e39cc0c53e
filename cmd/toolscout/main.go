package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout/internal/cli"
	"github.com/toolscout/toolscout/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "toolscout",
		Short: "A lightweight MCP hub with tool search",
		Long: `toolscout aggregates multiple MCP servers behind a single endpoint
exposing five meta-tools, cutting the context tokens spent on tool
definitions.

Instead of loading every server's tool list into the AI client, the
client searches for tools on demand and executes them through the hub.`,
		Version: version.GetVersion(),
	}

	rootCmd.AddCommand(
		cli.NewServeCmd(),
		cli.NewSearchCmd(),
		cli.NewListCmd(),
		cli.NewAddCmd(),
		cli.NewRemoveCmd(),
		cli.NewSetupCmd(),
		cli.NewBenchmarkCmd(),
		cli.NewVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
