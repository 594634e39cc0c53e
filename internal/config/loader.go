package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// LoadFrom reads the configuration from a specific path, returning typed
// errors with fix hints for the common failure modes.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{
				Path: path,
				Hint: "Run 'toolscout setup' to import configurations",
			}
		}
		if os.IsPermission(err) {
			return nil, &PermissionError{
				Path: path,
				Op:   "read",
				Fix:  readPermissionFix(path),
			}
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: fmt.Sprintf("JSON parse error: %v", err),
			Hint:    "Restore from the .bak file if available",
		}
	}

	if cfg.Servers == nil {
		cfg.Servers = make(map[string]*ServerConfig)
	}

	return &cfg, nil
}

// readPermissionFix returns a platform-specific fix command.
func readPermissionFix(path string) string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("Right-click %s → Properties → Security → Edit permissions", path)
	}
	return fmt.Sprintf("Run: chmod 644 %s", path)
}
