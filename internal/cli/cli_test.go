package cli

import (
	"path/filepath"
	"testing"

	"github.com/toolscout/toolscout/internal/config"
)

// useTempConfig points the config path at a fresh temp file.
func useTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv(config.ConfigPathEnv, path)
	return path
}

func TestParseEnvFlags(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", pairs: nil, want: nil},
		{name: "single", pairs: []string{"API_KEY=abc"}, want: map[string]string{"API_KEY": "abc"}},
		{
			name:  "value with equals",
			pairs: []string{"TOKEN=a=b"},
			want:  map[string]string{"TOKEN": "a=b"},
		},
		{name: "missing equals", pairs: []string{"APIKEY"}, wantErr: true},
		{name: "empty key", pairs: []string{"=value"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := parseEnvFlags(tt.pairs)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(env) != len(tt.want) {
				t.Fatalf("expected %d vars, got %d", len(tt.want), len(env))
			}
			for key, want := range tt.want {
				if env[key] != want {
					t.Errorf("env[%s] = %s, want %s", key, env[key], want)
				}
			}
		})
	}
}

func TestAddAndRemoveRoundTrip(t *testing.T) {
	useTempConfig(t)

	if err := runAdd("jira", "npx", []string{"-y", "@company/jira-mcp"}, []string{"api-token=xxx"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	server, exists := cfg.Servers["jira"]
	if !exists {
		t.Fatal("server not saved")
	}
	if server.Command != "npx" {
		t.Errorf("wrong command: %s", server.Command)
	}
	if server.Source != "manual" {
		t.Errorf("wrong source: %s", server.Source)
	}
	if server.Env["API_TOKEN"] != "xxx" {
		t.Errorf("env var not normalized: %v", server.Env)
	}

	if err := runRemove("jira"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	cfg, err = config.Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if _, exists := cfg.Servers["jira"]; exists {
		t.Error("server still present after remove")
	}
}

func TestAddDuplicateServer(t *testing.T) {
	useTempConfig(t)

	if err := runAdd("jira", "jira-mcp", nil, nil); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := runAdd("jira", "other-mcp", nil, nil); err == nil {
		t.Fatal("expected error adding duplicate server")
	}
}

func TestAddSelfReferenceRejected(t *testing.T) {
	useTempConfig(t)

	if err := runAdd("hub", "toolscout", []string{"serve"}, nil); err == nil {
		t.Fatal("expected self-reference to be rejected")
	}
}

func TestRemoveUnknownServer(t *testing.T) {
	useTempConfig(t)

	if err := runAdd("jira", "jira-mcp", nil, nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := runRemove("nope"); err == nil {
		t.Fatal("expected error removing unknown server")
	}
}

func TestCommandMetadata(t *testing.T) {
	commands := map[string]string{
		"serve":     NewServeCmd().Use,
		"search":    NewSearchCmd().Use,
		"list":      NewListCmd().Use,
		"add":       NewAddCmd().Use,
		"remove":    NewRemoveCmd().Use,
		"setup":     NewSetupCmd().Use,
		"benchmark": NewBenchmarkCmd().Use,
		"version":   NewVersionCmd().Use,
	}
	for name, use := range commands {
		if use == "" {
			t.Errorf("command %s has empty Use", name)
		}
	}
}
