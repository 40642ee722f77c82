package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestUpgradeCommandForMethod(t *testing.T) {
	tests := []struct {
		method   InstallMethod
		expected string
	}{
		{InstallMethodBrew, "brew upgrade cloudup"},
		{InstallMethodGo, "go install github.com/Faqahat/cloudup@latest"},
		{InstallMethodUnknown, "brew upgrade cloudup"},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			assert.Equal(t, tt.expected, suggestUpgradeCommandForMethod(tt.method))
		})
	}
}

func TestPathMatchesHomebrew(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/opt/homebrew/bin/cloudup", true},
		{"/usr/local/Cellar/cloudup/1.0/bin/cloudup", true},
		{"/home/linuxbrew/.linuxbrew/Cellar/cloudup/1.0/bin/cloudup", true},
		{"/usr/local/bin/cloudup", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, pathMatchesHomebrew(tt.path))
		})
	}
}

func TestPathMatchesGoBin(t *testing.T) {
	t.Setenv("GOBIN", "")
	t.Setenv("GOPATH", "/home/user/gopath")

	tests := []struct {
		path     string
		expected bool
	}{
		{"/home/user/go/bin/cloudup", true},
		{"/home/user/gopath/bin/cloudup", true},
		{"/opt/homebrew/bin/cloudup", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, pathMatchesGoBin(tt.path))
		})
	}
}

func TestInstallMethodRulesPathPrecedence(t *testing.T) {
	t.Setenv("GOBIN", "")
	t.Setenv("GOPATH", "")

	rules := installMethodRules()

	detect := func(path string) InstallMethod {
		for _, r := range rules {
			if r.check(path) {
				return r.method
			}
		}
		return InstallMethodUnknown
	}

	assert.Equal(t, InstallMethodGo, detect("/home/user/go/bin/cloudup"))
	assert.Equal(t, InstallMethodBrew, detect("/opt/homebrew/bin/cloudup"))
	assert.Equal(t, InstallMethodUnknown, detect("/usr/local/bin/cloudup"))
}

func TestIsNewerVersion(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		latest   string
		expected bool
	}{
		{"patch bump", "v1.2.3", "v1.2.4", true},
		{"same version", "1.2.3", "v1.2.3", false},
		{"older latest", "v2.0.0", "v1.9.9", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsNewerVersion(tt.current, tt.latest)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsNewerVersionDevBuild(t *testing.T) {
	_, err := IsNewerVersion("dev", "v1.0.0")
	assert.Error(t, err)
}
