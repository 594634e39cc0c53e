package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout/internal/config"
	"github.com/toolscout/toolscout/internal/spawner"
)

// NewListCmd creates the 'list' command.
func NewListCmd() *cobra.Command {
	var (
		asJSON     bool
		withStatus bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered MCP servers",
		Long: `List all MCP servers in the toolscout configuration.

With --status, each server is spawned and its tool count reported, which
verifies the command actually works.`,
		Example: `  toolscout list
  toolscout list --status
  toolscout list --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(asJSON, withStatus)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&withStatus, "status", false, "spawn each server and report its tool count")
	return cmd
}

// serverListing is the JSON shape for one server row.
type serverListing struct {
	Name      string `json:"name"`
	Command   string `json:"command"`
	Source    string `json:"source,omitempty"`
	Status    string `json:"status,omitempty"`
	ToolCount int    `json:"toolCount,omitempty"`
}

func runList(asJSON, withStatus bool) error {
	cfg, err := config.LoadOrCreate()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	names := make([]string, 0, len(cfg.Servers))
	for name := range cfg.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	var pool *spawner.Pool
	if withStatus {
		pool = spawner.NewPool(3, 15*time.Second)
		defer pool.Close()
	}

	listings := make([]serverListing, 0, len(names))
	for _, name := range names {
		server := cfg.Servers[name]
		listing := serverListing{
			Name:    name,
			Command: server.Command,
			Source:  server.Source,
		}
		if withStatus {
			specs, err := pool.GetTools(name, server)
			if err != nil {
				listing.Status = "unreachable"
			} else {
				listing.Status = "ok"
				listing.ToolCount = len(specs)
			}
		}
		listings = append(listings, listing)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	}

	if len(listings) == 0 {
		fmt.Println("No servers registered. Run 'toolscout setup' to import configurations.")
		return nil
	}

	fmt.Printf("Registered MCP Servers (%d):\n", len(listings))
	for _, listing := range listings {
		line := fmt.Sprintf("  • %s (%s)", listing.Name, listing.Command)
		if listing.Source != "" {
			line += fmt.Sprintf(" [%s]", listing.Source)
		}
		switch listing.Status {
		case "ok":
			line += fmt.Sprintf(" — %d tools", listing.ToolCount)
		case "unreachable":
			line += " — unreachable"
		}
		fmt.Println(line)
	}
	return nil
}
