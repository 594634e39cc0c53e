/*
Package spawner handles on-demand spawning of child MCP server processes.

The pool spawns configured stdio MCP servers lazily (on first use), keeps
them alive for subsequent requests, and handles the JSON-RPC handshake,
tool discovery, tool execution, and graceful shutdown.
*/
package spawner

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/toolscout/toolscout/internal/config"
)

// ToolSpec is a tool definition as reported by a child MCP server.
type ToolSpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema interface{} `json:"inputSchema"`
}

// DefaultTimeout is the maximum time to wait for an MCP response.
// Generous because npx-based servers download packages on cold start.
const DefaultTimeout = 60 * time.Second

// Pool manages a pool of child MCP server processes.
type Pool struct {
	maxSize int
	timeout time.Duration

	mu        sync.Mutex
	processes map[string]*Process
}

// NewPool creates a new process pool. A timeout of 0 means DefaultTimeout.
func NewPool(maxSize int, timeout time.Duration) *Pool {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pool{
		maxSize:   maxSize,
		timeout:   timeout,
		processes: make(map[string]*Process),
	}
}

// GetTools spawns a server (if needed) and returns its tool list.
func (p *Pool) GetTools(name string, cfg *config.ServerConfig) ([]ToolSpec, error) {
	proc, err := p.getOrSpawn(name, cfg)
	if err != nil {
		return nil, err
	}
	return proc.listTools()
}

// ExecuteTool executes a tool on a child server and returns the raw
// JSON-encoded result.
func (p *Pool) ExecuteTool(name string, cfg *config.ServerConfig, toolName string, args map[string]interface{}) (string, error) {
	proc, err := p.getOrSpawn(name, cfg)
	if err != nil {
		return "", err
	}
	return proc.callTool(toolName, args)
}

// Close terminates all spawned processes: stdin is closed first as a
// graceful signal, then the process is force killed after a short wait.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for name, proc := range p.processes {
		log.Printf("Terminating process: %s", name)
		if err := proc.shutdown(2 * time.Second); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	p.processes = make(map[string]*Process)

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}

// getOrSpawn returns an existing process or spawns and initializes a new
// one, evicting an idle process when the pool is full.
func (p *Pool) getOrSpawn(name string, cfg *config.ServerConfig) (*Process, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if proc, exists := p.processes[name]; exists {
		return proc, nil
	}

	if p.maxSize > 0 && len(p.processes) >= p.maxSize {
		p.evictLocked()
	}

	proc, err := spawn(cfg, p.timeout)
	if err != nil {
		return nil, err
	}

	if err := proc.initialize(); err != nil {
		proc.kill()
		// npx exits immediately when the package does not exist, which
		// surfaces as EOF on the response read.
		if strings.Contains(err.Error(), "EOF") {
			if pkg := npmPackageFromConfig(cfg); pkg != "" {
				return nil, fmt.Errorf("MCP server failed to start. Package '%s' may not exist or failed to load. Verify with: npm view %s", pkg, pkg)
			}
		}
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	p.processes[name] = proc
	return proc, nil
}

// evictLocked terminates one pooled process to make room. Callers must
// hold p.mu.
func (p *Pool) evictLocked() {
	for name, proc := range p.processes {
		log.Printf("Pool full, evicting process: %s", name)
		if err := proc.shutdown(2 * time.Second); err != nil {
			log.Printf("Warning: failed to evict %s: %v", name, err)
		}
		delete(p.processes, name)
		return
	}
}

// npmPackageFromConfig extracts the npm package name from an npx server
// config, or returns "".
func npmPackageFromConfig(cfg *config.ServerConfig) string {
	if cfg.Command != "npx" {
		return ""
	}
	for _, arg := range cfg.Args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		return arg
	}
	return ""
}
