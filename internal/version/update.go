package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	RepoOwner = "toolscout"
	RepoName  = "toolscout"
	UpdateURL = "https://api.github.com/repos/" + RepoOwner + "/" + RepoName + "/releases/latest"
)

var (
	checkMu       sync.Mutex
	lastCheckTime time.Time
	checkInterval = 24 * time.Hour
)

// GitHubRelease represents a GitHub release API response.
type GitHubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckUpdate queries GitHub for the latest release and returns its
// version when it differs from the running one. Checks are rate limited
// to once per day within a process; the quiet period returns ("", nil).
func CheckUpdate(ctx context.Context) (string, error) {
	checkMu.Lock()
	defer checkMu.Unlock()

	if time.Since(lastCheckTime) < checkInterval {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, UpdateURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to check for updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var release GitHubRelease
	if err := json.Unmarshal(body, &release); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	lastCheckTime = time.Now()

	latest := strings.TrimPrefix(release.TagName, "v")
	if latest != "" && latest != strings.TrimPrefix(Version, "v") {
		return latest, nil
	}
	return "", nil
}
