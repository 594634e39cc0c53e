package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout/internal/config"
)

// NewAddCmd creates the 'add' command for registering a server manually.
func NewAddCmd() *cobra.Command {
	var envVars []string

	cmd := &cobra.Command{
		Use:   "add <name> <command> [args...]",
		Short: "Register an MCP server",
		Long: `Register an MCP server in the toolscout configuration.

Environment variables can be passed with repeated --env flags and are
normalized to SCREAMING_SNAKE_CASE.`,
		Example: `  toolscout add jira npx -- -y @company/jira-mcp
  toolscout add github gh-mcp --env api-token=ghp_xxx`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(args[0], args[1], args[2:], envVars)
		},
	}

	cmd.Flags().StringArrayVarP(&envVars, "env", "e", nil, "environment variable KEY=VALUE (repeatable)")
	return cmd
}

func runAdd(name, command string, args, envVars []string) error {
	env, err := parseEnvFlags(envVars)
	if err != nil {
		return err
	}

	server := &config.ServerConfig{
		Command: command,
		Args:    args,
		Env:     config.NormalizeEnvVars(env),
		Source:  "manual",
	}
	if err := config.ValidateServer(name, server); err != nil {
		return err
	}

	cfg, err := config.LoadOrCreate()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, exists := cfg.Servers[name]; exists {
		return fmt.Errorf("server '%s' already exists; remove it first with 'toolscout remove %s'", name, name)
	}

	cfg.Servers[name] = server
	if err := config.SaveDefault(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✓ Added server '%s' (%s)\n", name, command)
	return nil
}

// parseEnvFlags splits KEY=VALUE pairs from repeated --env flags.
func parseEnvFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --env value '%s' (expected KEY=VALUE)", pair)
		}
		env[key] = value
	}
	return env, nil
}
