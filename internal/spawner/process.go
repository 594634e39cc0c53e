package spawner

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/toolscout/toolscout/internal/config"
	"github.com/toolscout/toolscout/internal/version"
)

// mcpProtocolVersion is the MCP protocol revision spoken to child servers.
const mcpProtocolVersion = "2024-11-05"

// execCommand allows tests to mock exec.Command.
var execCommand = exec.Command

// Process represents a running child MCP server.
type Process struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  *bufio.Reader
	timeout time.Duration

	mu sync.Mutex
	// reqID is a monotonic counter. A counter instead of UnixNano keeps
	// IDs inside JavaScript's safe-integer range for Node-based servers.
	reqID int64
}

// spawn starts a child MCP server process.
func spawn(cfg *config.ServerConfig, timeout time.Duration) (*Process, error) {
	cmd := execCommand(cfg.Command, cfg.Args...)

	cmd.Env = os.Environ()
	for key, value := range cfg.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	// Stderr must be drained: some servers log heavily during startup and
	// block once the ~64KB pipe buffer fills, which stalls stdout too.
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start process: %w", err)
	}

	go io.Copy(io.Discard, stderr)

	return &Process{
		cmd:     cmd,
		stdin:   stdin,
		stdout:  bufio.NewReader(stdout),
		timeout: timeout,
	}, nil
}

// initialize performs the MCP handshake: an initialize request followed by
// the initialized notification.
func (proc *Process) initialize() error {
	_, err := proc.sendRequest("initialize", map[string]interface{}{
		"protocolVersion": mcpProtocolVersion,
		"capabilities":    map[string]interface{}{},
		"clientInfo": map[string]interface{}{
			"name":    "toolscout",
			"version": version.Version,
		},
	})
	if err != nil {
		return err
	}

	return proc.sendNotification("notifications/initialized")
}

// listTools issues a tools/list request and decodes the tool definitions.
func (proc *Process) listTools() ([]ToolSpec, error) {
	response, err := proc.sendRequest("tools/list", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Tools []ToolSpec `json:"tools"`
	}
	resultBytes, err := json.Marshal(response)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resultBytes, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// callTool issues a tools/call request and returns the result as indented
// JSON.
func (proc *Process) callTool(toolName string, args map[string]interface{}) (string, error) {
	response, err := proc.sendRequest("tools/call", map[string]interface{}{
		"name":      toolName,
		"arguments": args,
	})
	if err != nil {
		return "", err
	}

	resultBytes, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return "", err
	}
	return string(resultBytes), nil
}

// sendNotification writes a JSON-RPC notification (no response expected).
func (proc *Process) sendNotification(method string) error {
	notification := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
	}
	data, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	proc.mu.Lock()
	defer proc.mu.Unlock()
	_, err = proc.stdin.Write(data)
	return err
}

// sendRequest sends a JSON-RPC request and waits for the response, bounded
// by the configured timeout.
func (proc *Process) sendRequest(method string, params interface{}) (interface{}, error) {
	proc.mu.Lock()
	defer proc.mu.Unlock()

	proc.reqID++
	req := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      proc.reqID,
		"method":  method,
	}
	if params != nil {
		req["params"] = params
	}

	reqBytes, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	reqBytes = append(reqBytes, '\n')

	if _, err := proc.stdin.Write(reqBytes); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	responseChan := make(chan []byte, 1)
	errorChan := make(chan error, 1)
	go func() {
		line, err := proc.stdout.ReadBytes('\n')
		if err != nil {
			errorChan <- fmt.Errorf("failed to read response: %w", err)
			return
		}
		responseChan <- line
	}()

	select {
	case line := <-responseChan:
		var resp struct {
			JSONRPC string      `json:"jsonrpc"`
			ID      interface{} `json:"id"`
			Result  interface{} `json:"result"`
			Error   *struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		if resp.Error != nil {
			return nil, fmt.Errorf("MCP error %d: %s", resp.Error.Code, resp.Error.Message)
		}
		return resp.Result, nil

	case err := <-errorChan:
		return nil, err

	case <-time.After(proc.timeout):
		return nil, fmt.Errorf("timeout after %v waiting for MCP response", proc.timeout)
	}
}

// shutdown closes stdin as a graceful exit signal and force kills the
// process if it does not exit within the grace period.
func (proc *Process) shutdown(grace time.Duration) error {
	if proc.stdin != nil {
		proc.stdin.Close()
	}

	done := make(chan error, 1)
	go func() {
		done <- proc.cmd.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			// Exit-status errors after a close are expected; only report
			// genuinely odd failures.
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return err
			}
		}
		return nil
	case <-time.After(grace):
		proc.kill()
		return nil
	}
}

// kill terminates the process immediately.
func (proc *Process) kill() {
	if proc.cmd != nil && proc.cmd.Process != nil {
		proc.cmd.Process.Kill()
	}
}
