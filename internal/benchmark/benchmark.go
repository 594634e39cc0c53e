/*
Package benchmark estimates context-token consumption for toolscout.

It compares two setups:
 1. Traditional MCP: every server's tools exposed to the client directly.
 2. toolscout: a single endpoint exposing five meta-tools.

Token estimation uses the common ~150-tokens-per-tool-definition
approximation for name, description, and input schema.
*/
package benchmark

import (
	"fmt"

	"github.com/toolscout/toolscout/internal/config"
)

// AverageToolsPerServer is used when a server's actual tool count is
// unknown (server not reachable at benchmark time).
const AverageToolsPerServer = 10

// AverageTokensPerTool is the estimated tokens per tool definition.
const AverageTokensPerTool = 150

// MetaToolCount is the fixed number of meta-tools toolscout exposes.
const MetaToolCount = 5

// Estimate represents token consumption for one setup.
type Estimate struct {
	ServerCount      int    `json:"serverCount"`
	ToolCount        int    `json:"toolCount"`
	DefinitionTokens int    `json:"definitionTokens"`
	Description      string `json:"description"`
}

// Result contains the comparison between the two setups.
type Result struct {
	Traditional    Estimate `json:"traditional"`
	ToolScout      Estimate `json:"toolscout"`
	TokenSavings   int      `json:"tokenSavings"`
	SavingsPercent float64  `json:"savingsPercent"`
}

// Compare estimates token consumption for the given configuration.
// toolCounts maps server names to their actual discovered tool counts;
// servers missing from the map fall back to AverageToolsPerServer.
func Compare(cfg *config.Config, toolCounts map[string]int) Result {
	totalTools := 0
	for name := range cfg.Servers {
		if count, ok := toolCounts[name]; ok {
			totalTools += count
		} else {
			totalTools += AverageToolsPerServer
		}
	}

	traditional := Estimate{
		ServerCount:      len(cfg.Servers),
		ToolCount:        totalTools,
		DefinitionTokens: totalTools * AverageTokensPerTool,
		Description:      "All tools from all servers exposed directly",
	}

	toolscout := Estimate{
		ServerCount:      1,
		ToolCount:        MetaToolCount,
		DefinitionTokens: MetaToolCount * AverageTokensPerTool,
		Description:      "Single toolscout endpoint with meta-tools",
	}

	savings := traditional.DefinitionTokens - toolscout.DefinitionTokens
	percent := 0.0
	if traditional.DefinitionTokens > 0 {
		percent = float64(savings) / float64(traditional.DefinitionTokens) * 100
	}

	return Result{
		Traditional:    traditional,
		ToolScout:      toolscout,
		TokenSavings:   savings,
		SavingsPercent: percent,
	}
}

// FormatResult renders a comparison for terminal output.
func FormatResult(result Result) string {
	return fmt.Sprintf(`Token Consumption Estimate

Traditional MCP:
  Servers:  %d
  Tools:    %d
  Tokens:   ~%d

toolscout:
  Tools:    %d meta-tools
  Tokens:   ~%d

Savings:    ~%d tokens (%.1f%%)
`,
		result.Traditional.ServerCount,
		result.Traditional.ToolCount,
		result.Traditional.DefinitionTokens,
		result.ToolScout.ToolCount,
		result.ToolScout.DefinitionTokens,
		result.TokenSavings,
		result.SavingsPercent,
	)
}
