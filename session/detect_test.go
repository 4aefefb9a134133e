package session

import (
	"os"
	"testing"

	"github.com/xdarkicex/zephyr/envlock"
)

// clearAgentEnv clears every environment variable Detect consults.
func clearAgentEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"ANTHROPIC_API_KEY", "TERM_PROGRAM", "GITHUB_COPILOT_TOKEN",
		"GITHUB_COPILOT_SESSION", "WINDSURF_SESSION", "AIDER_SESSION",
	}
	saved := make(map[string]string, len(vars))
	hadValue := make(map[string]bool, len(vars))
	for _, v := range vars {
		if val, ok := os.LookupEnv(v); ok {
			saved[v] = val
			hadValue[v] = true
		}
		os.Unsetenv(v)
	}
	t.Cleanup(func() {
		for _, v := range vars {
			if hadValue[v] {
				os.Setenv(v, saved[v])
			} else {
				os.Unsetenv(v)
			}
		}
	})
}

func TestDetect_Precedence(t *testing.T) {
	envlock.Lock()
	defer envlock.Unlock()

	tests := []struct {
		name string
		set  func()
		want AgentType
	}{
		{"human by default", func() {}, Human},
		{"claude code via api key", func() {
			os.Setenv("ANTHROPIC_API_KEY", "sk-test")
		}, ClaudeCode},
		{"cursor via term program", func() {
			os.Setenv("TERM_PROGRAM", "cursor")
		}, Cursor},
		{"github copilot via token", func() {
			os.Setenv("GITHUB_COPILOT_TOKEN", "tok")
		}, GitHubCopilot},
		{"github copilot via session", func() {
			os.Setenv("GITHUB_COPILOT_SESSION", "1")
		}, GitHubCopilot},
		{"vscode via term program", func() {
			os.Setenv("TERM_PROGRAM", "vscode")
		}, VSCode},
		{"windsurf via session", func() {
			os.Setenv("WINDSURF_SESSION", "1")
		}, Windsurf},
		{"aider via session", func() {
			os.Setenv("AIDER_SESSION", "1")
		}, Aider},
		{"claude code wins over cursor", func() {
			os.Setenv("ANTHROPIC_API_KEY", "sk-test")
			os.Setenv("TERM_PROGRAM", "cursor")
		}, ClaudeCode},
		{"cursor wins over copilot", func() {
			os.Setenv("TERM_PROGRAM", "cursor")
			os.Setenv("GITHUB_COPILOT_TOKEN", "tok")
		}, Cursor},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearAgentEnv(t)
			tc.set()
			if got := Detect(); got != tc.want {
				t.Errorf("Detect() = %q, want %q", got, tc.want)
			}
		})
	}
}
