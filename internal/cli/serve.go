/*
Package cli implements the command-line interface for toolscout.

Each command is implemented as a function returning a *cobra.Command,
allowing clean separation and easy testing.
*/
package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout/internal/config"
	"github.com/toolscout/toolscout/internal/mcp"
	"github.com/toolscout/toolscout/internal/version"
)

// NewServeCmd creates the 'serve' command for running the MCP server.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio transport)",
		Long: `Start the toolscout server using stdio transport.

This server exposes 5 meta-tools to AI clients:
  • hub_list     - List all registered MCP servers
  • hub_search   - Rank tools across all servers against a query
  • hub_discover - Get tool definitions from a specific server
  • hub_execute  - Execute a tool from a specific server
  • hub_help     - Get detailed help/schema for a tool

Child MCP servers are spawned on demand when tools are discovered or
executed.`,
		Example: `  # Run directly
  toolscout serve

  # Add to Claude Code
  claude mcp add toolscout -- toolscout serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

// runServe starts the MCP server with graceful shutdown on
// SIGINT/SIGTERM/SIGQUIT.
func runServe() error {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	server := mcp.NewServer(cfg)

	// Discover tools in the background so the stdio transport answers
	// immediately; hub_search reports an empty index until it completes.
	go func() {
		if err := server.DiscoverTools(); err != nil {
			log.Printf("Warning: tool discovery failed: %v", err)
		}
	}()

	go checkForUpdates()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run()
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v, shutting down gracefully...", sig)
		if err := server.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
			return err
		}
		log.Println("Shutdown complete")
		return nil

	case err := <-errChan:
		// Run returned: stdin closed or a transport error.
		if closeErr := server.Close(); closeErr != nil {
			log.Printf("Error during cleanup: %v", closeErr)
		}
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// checkForUpdates logs when a newer release is available.
func checkForUpdates() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	latest, err := version.CheckUpdate(ctx)
	if err != nil {
		log.Printf("Update check failed: %v", err)
		return
	}
	if latest != "" {
		log.Printf("Update available: %s (current: %s)", latest, version.Version)
	}
}
