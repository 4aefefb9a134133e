package session

import "os"

// Detect evaluates the agent-detection environment variables in the fixed
// precedence order required by the zephyr design and returns the first
// match. Tests rely on this exact order, so it must never be reordered:
//
//  1. ANTHROPIC_API_KEY set           -> ClaudeCode
//  2. TERM_PROGRAM == "cursor"        -> Cursor
//  3. GITHUB_COPILOT_TOKEN or
//     GITHUB_COPILOT_SESSION set      -> GitHubCopilot
//  4. TERM_PROGRAM == "vscode"        -> VSCode
//  5. WINDSURF_SESSION set            -> Windsurf
//  6. AIDER_SESSION set               -> Aider
//  7. otherwise                       -> Human
func Detect() AgentType {
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return ClaudeCode
	}
	if os.Getenv("TERM_PROGRAM") == "cursor" {
		return Cursor
	}
	if os.Getenv("GITHUB_COPILOT_TOKEN") != "" || os.Getenv("GITHUB_COPILOT_SESSION") != "" {
		return GitHubCopilot
	}
	if os.Getenv("TERM_PROGRAM") == "vscode" {
		return VSCode
	}
	if os.Getenv("WINDSURF_SESSION") != "" {
		return Windsurf
	}
	if os.Getenv("AIDER_SESSION") != "" {
		return Aider
	}
	return Human
}

// CurrentSessionID returns the session ID named by ZEPHYR_SESSION_ID, or
// "" if unset.
func CurrentSessionID() string {
	return os.Getenv("ZEPHYR_SESSION_ID")
}
