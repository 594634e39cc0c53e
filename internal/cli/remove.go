package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout/internal/config"
)

// NewRemoveCmd creates the 'remove' command.
func NewRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a registered MCP server",
		Example: `  toolscout remove jira`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(args[0])
		},
	}
}

func runRemove(name string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, exists := cfg.Servers[name]; !exists {
		return fmt.Errorf("server '%s' not found", name)
	}

	delete(cfg.Servers, name)
	if err := config.SaveDefault(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✓ Removed server '%s'\n", name)
	return nil
}
