package cli

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout/internal/config"
	"github.com/toolscout/toolscout/internal/search"
	"github.com/toolscout/toolscout/internal/spawner"
)

// NewSearchCmd creates the 'search' command for one-shot tool ranking
// from the terminal.
func NewSearchCmd() *cobra.Command {
	var (
		limit   int
		backend string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search tools across all registered servers",
		Long: `Discover tools from every registered server and rank them against
the query, without starting the MCP server.

Useful for checking what a query would surface before wiring an AI
client to toolscout.`,
		Example: `  toolscout search "create jira ticket"
  toolscout search --limit 10 --backend hybrid "take screenshot"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(strings.Join(args, " "), limit, backend)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", search.DefaultTopK, "maximum number of results")
	cmd.Flags().StringVarP(&backend, "backend", "b", "", "search backend: keyword, bm25, or hybrid (default from config)")
	return cmd
}

func runSearch(query string, limit int, backend string) error {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(cfg.Servers) == 0 {
		fmt.Println("No servers registered. Run 'toolscout setup' to import configurations.")
		return nil
	}

	if backend == "" && cfg.Settings != nil {
		backend = cfg.Settings.SearchBackend
	}

	timeout := spawner.DefaultTimeout
	poolSize := 3
	if cfg.Settings != nil {
		if cfg.Settings.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.Settings.TimeoutSeconds) * time.Second
		}
		if cfg.Settings.ProcessPoolSize > 0 {
			poolSize = cfg.Settings.ProcessPoolSize
		}
	}
	pool := spawner.NewPool(poolSize, timeout)
	defer pool.Close()

	tools := collectTools(cfg, pool)
	if len(tools) == 0 {
		fmt.Println("No tools discovered from any server.")
		return nil
	}

	index, err := search.NewIndex(backend, tools)
	if err != nil {
		return err
	}
	if closer, ok := index.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	results, err := index.Search(context.Background(), query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Printf("No tools matched '%s' across %d indexed tools.\n", query, len(tools))
		return nil
	}

	fmt.Printf("Top %d tools for '%s':\n\n", len(results), query)
	for _, result := range results {
		fmt.Printf("  %.2f  %s/%s\n        %s\n",
			result.Score, result.Tool.Server, result.Tool.Name, result.Tool.Description)
	}
	return nil
}

// collectTools gathers tool definitions from every server in name order.
// Unreachable servers are skipped with a warning.
func collectTools(cfg *config.Config, pool *spawner.Pool) []search.Tool {
	names := make([]string, 0, len(cfg.Servers))
	for name := range cfg.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	var tools []search.Tool
	for _, name := range names {
		specs, err := pool.GetTools(name, cfg.Servers[name])
		if err != nil {
			log.Printf("Warning: skipping %s: %v", name, err)
			continue
		}
		for _, spec := range specs {
			tools = append(tools, search.Tool{
				Name:        spec.Name,
				Description: spec.Description,
				Server:      name,
				InputSchema: spec.InputSchema,
			})
		}
	}
	return tools
}
