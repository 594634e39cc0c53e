package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout/internal/benchmark"
	"github.com/toolscout/toolscout/internal/config"
	"github.com/toolscout/toolscout/internal/spawner"
)

// NewBenchmarkCmd creates the 'benchmark' command.
func NewBenchmarkCmd() *cobra.Command {
	var discover bool

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Estimate context-token savings",
		Long: `Estimate how many context tokens toolscout saves compared to exposing
every server's tools to the AI client directly.

By default tool counts are estimated from averages; with --discover each
server is spawned and its real tool count used.`,
		Example: `  toolscout benchmark
  toolscout benchmark --discover`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(discover)
		},
	}

	cmd.Flags().BoolVar(&discover, "discover", false, "spawn servers to count their actual tools")
	return cmd
}

func runBenchmark(discover bool) error {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var toolCounts map[string]int
	if discover {
		pool := spawner.NewPool(3, 15*time.Second)
		defer pool.Close()

		toolCounts = make(map[string]int, len(cfg.Servers))
		for name, server := range cfg.Servers {
			specs, err := pool.GetTools(name, server)
			if err != nil {
				continue // falls back to the average estimate
			}
			toolCounts[name] = len(specs)
		}
	}

	fmt.Print(benchmark.FormatResult(benchmark.Compare(cfg, toolCounts)))
	return nil
}
