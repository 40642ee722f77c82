// Package update checks GitHub for newer cloudup releases and figures out
// how the running binary was installed.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

const latestReleaseURL = "https://api.github.com/repos/Faqahat/cloudup/releases/latest"

// InstallMethod identifies how the binary got onto this machine.
type InstallMethod string

const (
	InstallMethodBrew    InstallMethod = "brew"
	InstallMethodGo      InstallMethod = "go"
	InstallMethodUnknown InstallMethod = "unknown"
)

// FetchLatest returns the latest release tag and its release page URL.
func FetchLatest(ctx context.Context) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, latestReleaseURL, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("release check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("release check failed: %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", "", fmt.Errorf("invalid release response: %w", err)
	}
	if release.TagName == "" {
		return "", "", fmt.Errorf("no releases found")
	}
	return release.TagName, release.HTMLURL, nil
}

// IsNewerVersion reports whether latest is strictly newer than current.
// Development builds ("dev") fail the comparison so callers can decide.
func IsNewerVersion(current, latest string) (bool, error) {
	cur, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false, fmt.Errorf("cannot parse current version %q: %w", current, err)
	}
	next, err := semver.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return false, fmt.Errorf("cannot parse latest version %q: %w", latest, err)
	}
	return next.GreaterThan(cur), nil
}

type installMethodRule struct {
	method InstallMethod
	check  func(path string) bool
}

// Order matters: go bin directories can live under paths that also look
// homebrew-ish, so the more specific checks run first.
func installMethodRules() []installMethodRule {
	return []installMethodRule{
		{InstallMethodGo, pathMatchesGoBin},
		{InstallMethodBrew, pathMatchesHomebrew},
	}
}

// DetectInstallMethod inspects the running executable's path and returns
// the matching installation method along with the resolved binary path.
func DetectInstallMethod() (InstallMethod, string) {
	exe, err := os.Executable()
	if err != nil {
		return InstallMethodUnknown, ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	for _, rule := range installMethodRules() {
		if rule.check(exe) {
			return rule.method, exe
		}
	}
	return InstallMethodUnknown, exe
}

func pathMatchesGoBin(path string) bool {
	if gobin := os.Getenv("GOBIN"); gobin != "" && strings.HasPrefix(path, gobin) {
		return true
	}
	if gopath := os.Getenv("GOPATH"); gopath != "" && strings.HasPrefix(path, filepath.Join(gopath, "bin")) {
		return true
	}
	return strings.Contains(path, filepath.Join("go", "bin"))
}

func pathMatchesHomebrew(path string) bool {
	return strings.Contains(path, "/homebrew/") ||
		strings.Contains(path, "/Cellar/") ||
		strings.Contains(path, "/.linuxbrew/")
}

func suggestUpgradeCommandForMethod(method InstallMethod) string {
	switch method {
	case InstallMethodGo:
		return "go install github.com/Faqahat/cloudup@latest"
	default:
		return "brew upgrade cloudup"
	}
}

// SuggestUpgradeCommand returns the command line a user should run to
// upgrade, given how the binary was installed.
func SuggestUpgradeCommand(method InstallMethod) string {
	return suggestUpgradeCommandForMethod(method)
}
