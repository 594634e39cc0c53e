package benchmark

import (
	"strings"
	"testing"

	"github.com/toolscout/toolscout/internal/config"
)

func TestCompareWithKnownCounts(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Servers["jira"] = &config.ServerConfig{Command: "jira-mcp"}
	cfg.Servers["playwright"] = &config.ServerConfig{Command: "playwright-mcp"}

	result := Compare(cfg, map[string]int{"jira": 13, "playwright": 22})

	if result.Traditional.ToolCount != 35 {
		t.Errorf("expected 35 tools, got %d", result.Traditional.ToolCount)
	}
	if result.Traditional.DefinitionTokens != 35*AverageTokensPerTool {
		t.Errorf("wrong traditional tokens: %d", result.Traditional.DefinitionTokens)
	}
	if result.ToolScout.DefinitionTokens != MetaToolCount*AverageTokensPerTool {
		t.Errorf("wrong toolscout tokens: %d", result.ToolScout.DefinitionTokens)
	}
	if result.TokenSavings != (35-MetaToolCount)*AverageTokensPerTool {
		t.Errorf("wrong savings: %d", result.TokenSavings)
	}
	if result.SavingsPercent <= 0 || result.SavingsPercent >= 100 {
		t.Errorf("savings percent out of range: %f", result.SavingsPercent)
	}
}

func TestCompareFallsBackToAverage(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Servers["unknown"] = &config.ServerConfig{Command: "unknown-mcp"}

	result := Compare(cfg, nil)

	if result.Traditional.ToolCount != AverageToolsPerServer {
		t.Errorf("expected average fallback, got %d", result.Traditional.ToolCount)
	}
}

func TestCompareEmptyConfig(t *testing.T) {
	result := Compare(config.NewConfig(), nil)

	if result.Traditional.ToolCount != 0 {
		t.Errorf("expected 0 tools, got %d", result.Traditional.ToolCount)
	}
	if result.SavingsPercent != 0 {
		t.Errorf("expected 0%% savings for empty config, got %f", result.SavingsPercent)
	}
}

func TestFormatResult(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Servers["jira"] = &config.ServerConfig{Command: "jira-mcp"}

	output := FormatResult(Compare(cfg, map[string]int{"jira": 13}))

	if !strings.Contains(output, "Traditional MCP") {
		t.Errorf("missing traditional section:\n%s", output)
	}
	if !strings.Contains(output, "meta-tools") {
		t.Errorf("missing toolscout section:\n%s", output)
	}
}
