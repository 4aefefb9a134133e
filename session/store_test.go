package session

import (
	"os"
	"testing"

	"github.com/xdarkicex/zephyr/envlock"
)

func TestRegister_DuplicateIsNoOp(t *testing.T) {
	t.Cleanup(Teardown)

	first := Register("agent-1", ClaudeCode, "sess-dup-1", "zsh")
	second := Register("agent-2", Human, "sess-dup-1", "bash")

	if second != first {
		t.Errorf("Register with duplicate ID returned a different session")
	}
	if second.AgentID != "agent-1" {
		t.Errorf("duplicate registration mutated AgentID: got %q, want %q", second.AgentID, "agent-1")
	}
}

func TestRegister_DerivesRole(t *testing.T) {
	t.Cleanup(Teardown)

	s := Register("agent-1", ClaudeCode, "sess-role-1", "zsh")
	if s.Role != RoleAgent {
		t.Errorf("Role = %q, want %q", s.Role, RoleAgent)
	}

	s2 := Register("human-1", Human, "sess-role-2", "zsh")
	if s2.Role != RoleUser {
		t.Errorf("Role = %q, want %q", s2.Role, RoleUser)
	}
}

func TestLookup_NotFound(t *testing.T) {
	t.Cleanup(Teardown)

	if _, ok := Lookup("does-not-exist"); ok {
		t.Error("Lookup found a session that was never registered")
	}
}

func TestTeardown_Idempotent(t *testing.T) {
	Register("agent-1", ClaudeCode, "sess-teardown-1", "zsh")

	Teardown()
	first := All()
	Teardown()
	second := All()

	if len(first) != 0 || len(second) != 0 {
		t.Errorf("Teardown left sessions behind: first=%d second=%d", len(first), len(second))
	}
}

func TestCurrent_UsesEnvironmentVariable(t *testing.T) {
	envlock.Lock()
	defer envlock.Unlock()
	t.Cleanup(Teardown)

	prev, had := os.LookupEnv("ZEPHYR_SESSION_ID")
	t.Cleanup(func() {
		if had {
			os.Setenv("ZEPHYR_SESSION_ID", prev)
		} else {
			os.Unsetenv("ZEPHYR_SESSION_ID")
		}
	})

	Register("agent-1", ClaudeCode, "sess-current-1", "zsh")
	os.Setenv("ZEPHYR_SESSION_ID", "sess-current-1")

	s, ok := Current()
	if !ok {
		t.Fatal("Current() found no session, expected sess-current-1")
	}
	if s.ID != "sess-current-1" {
		t.Errorf("Current().ID = %q, want %q", s.ID, "sess-current-1")
	}
	if CurrentRole() != RoleAgent {
		t.Errorf("CurrentRole() = %q, want %q", CurrentRole(), RoleAgent)
	}
}

func TestCurrent_NoSessionIDDefaultsToUser(t *testing.T) {
	envlock.Lock()
	defer envlock.Unlock()
	t.Cleanup(Teardown)

	prev, had := os.LookupEnv("ZEPHYR_SESSION_ID")
	os.Unsetenv("ZEPHYR_SESSION_ID")
	t.Cleanup(func() {
		if had {
			os.Setenv("ZEPHYR_SESSION_ID", prev)
		}
	})

	if _, ok := Current(); ok {
		t.Error("Current() found a session with no ZEPHYR_SESSION_ID set")
	}
	if CurrentRole() != RoleUser {
		t.Errorf("CurrentRole() = %q, want %q", CurrentRole(), RoleUser)
	}
}
