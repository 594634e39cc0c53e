package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsSelfReference checks whether a server config refers to toolscout
// itself, which would make the hub spawn itself recursively.
func IsSelfReference(server *ServerConfig) bool {
	binaryName := filepath.Base(os.Args[0])
	if server.Command == binaryName || server.Command == "toolscout" {
		return true
	}

	if server.Command == "npx" {
		for _, arg := range server.Args {
			if strings.Contains(arg, "toolscout") {
				return true
			}
		}
	}

	return false
}

// ValidateServer checks whether a server config is valid for import.
func ValidateServer(name string, server *ServerConfig) error {
	if name == "" {
		return fmt.Errorf("server name must not be empty")
	}
	if server == nil || server.Command == "" {
		return fmt.Errorf("server '%s': empty command", name)
	}
	if IsSelfReference(server) {
		return fmt.Errorf("server '%s': self-reference detected (toolscout cannot import itself)", name)
	}
	return nil
}

// NormalizeEnvVars converts environment variable keys to
// SCREAMING_SNAKE_CASE, handling configs that use camelCase or dash-case
// names.
func NormalizeEnvVars(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}

	normalized := make(map[string]string, len(env))
	for key, value := range env {
		normalized[toEnvVarCase(key)] = value
	}
	return normalized
}

// toEnvVarCase converts "jiraBaseUrl", "jira-base-url", or "JIRA_BASE_URL"
// to "JIRA_BASE_URL".
func toEnvVarCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word)
	}
	return strings.Join(words, "_")
}

// splitWords splits on separators and lowercase→uppercase transitions.
func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || r == ' ':
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		case r >= 'A' && r <= 'Z':
			if i > 0 && current.Len() > 0 && runes[i-1] >= 'a' && runes[i-1] <= 'z' {
				words = append(words, current.String())
				current.Reset()
			}
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}
