package cli

import (
	"fmt"
	"log"
	"sort"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout/internal/config"
	"github.com/toolscout/toolscout/internal/config/sources"
)

// NewSetupCmd creates the 'setup' command that imports MCP servers from
// installed AI tools.
func NewSetupCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Import MCP servers from installed AI tools",
		Long: `Scan known AI tool configurations (Claude Code, Cursor) and import
their MCP servers into toolscout.

Servers already registered are kept as-is unless --force is given.`,
		Example: `  toolscout setup
  toolscout setup --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite servers that already exist")
	return cmd
}

func runSetup(force bool) error {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	imported := 0
	skipped := 0
	for _, source := range sources.GetAllSources() {
		result, err := source.Scan()
		if err != nil {
			log.Printf("Warning: failed to scan %s: %v", source.Name(), err)
			continue
		}
		if result == nil || len(result.Servers) == 0 {
			fmt.Printf("  %s: no servers found\n", source.Name())
			continue
		}

		fmt.Printf("  %s: found %d servers in %s\n", source.Name(), len(result.Servers), result.ConfigPath)

		names := make([]string, 0, len(result.Servers))
		for name := range result.Servers {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if _, exists := cfg.Servers[name]; exists && !force {
				fmt.Printf("    - %s (already registered, skipped)\n", name)
				skipped++
				continue
			}
			cfg.Servers[name] = result.Servers[name]
			fmt.Printf("    + %s\n", name)
			imported++
		}
	}

	if imported == 0 {
		fmt.Printf("\nNothing imported (%d already registered).\n", skipped)
		return nil
	}

	if err := config.SaveDefault(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("\n✓ Imported %d servers (%d skipped). Run 'toolscout serve' to start the hub.\n", imported, skipped)
	return nil
}
