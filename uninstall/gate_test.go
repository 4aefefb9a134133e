package uninstall

import (
	"os"
	"testing"

	"github.com/xdarkicex/zephyr/envlock"
	"github.com/xdarkicex/zephyr/module"
	"github.com/xdarkicex/zephyr/session"
)

func asRole(t *testing.T, agentType session.AgentType) {
	t.Helper()
	envlock.Lock()
	t.Cleanup(envlock.Unlock)
	t.Cleanup(session.Teardown)

	id := "sess-uninstall-gate1"
	session.Register("agent", agentType, id, "zsh")
	prev, had := os.LookupEnv("ZEPHYR_SESSION_ID")
	os.Setenv("ZEPHYR_SESSION_ID", id)
	t.Cleanup(func() {
		if had {
			os.Setenv("ZEPHYR_SESSION_ID", prev)
		} else {
			os.Unsetenv("ZEPHYR_SESSION_ID")
		}
	})
}

func TestSecurityRegression_AgentForceIsAdvisoryDenial(t *testing.T) {
	asRole(t, session.ClaudeCode)

	dec, err := Check(Request{Name: "git", Force: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Allowed {
		t.Error("agent force-uninstall should be denied")
	}
	if dec.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0 (advisory)", dec.ExitCode)
	}
	if !dec.Advisory {
		t.Error("expected Advisory = true")
	}
}

func TestSecurityRegression_AgentCannotRemoveCriticalModule(t *testing.T) {
	asRole(t, session.ClaudeCode)

	dec, err := Check(Request{Name: "stdlib"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Allowed {
		t.Error("agent should not be able to remove a critical module")
	}
}

func TestAgentCanUninstallNonCriticalModule(t *testing.T) {
	asRole(t, session.ClaudeCode)

	dec, err := Check(Request{Name: "git"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Allowed {
		t.Errorf("agent should be able to uninstall a non-critical module without force: %s", dec.Reason)
	}
}

func TestReverseDependencyBlocksWithoutForce(t *testing.T) {
	asRole(t, session.Human)
	modules := []*module.Module{
		{Name: "module-a", RequiredDeps: []string{"module-b"}},
		{Name: "module-b"},
	}

	dec, err := Check(Request{Name: "module-b", Yes: true}, modules)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Allowed {
		t.Error("uninstall with dependents and no force should be denied")
	}
	if !containsWord(dec.Reason, "dependents") {
		t.Errorf("reason should mention dependents: %q", dec.Reason)
	}
}

func TestReverseDependencyForceAllowsUserRole(t *testing.T) {
	asRole(t, session.Human)
	modules := []*module.Module{
		{Name: "module-a", RequiredDeps: []string{"module-b"}},
		{Name: "module-b"},
	}

	dec, err := Check(Request{Name: "module-b", Force: true, Yes: true}, modules)
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Allowed {
		t.Errorf("force-uninstall by a user should succeed: %s", dec.Reason)
	}
}

func TestInteractiveDeclineFailsUninstall(t *testing.T) {
	asRole(t, session.Human)

	dec, err := Check(Request{
		Name: "git", Interactive: true,
		Confirm: func(string) bool { return false },
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Allowed {
		t.Error("declined confirmation should deny uninstall")
	}
}

func containsWord(s, word string) bool {
	for i := 0; i+len(word) <= len(s); i++ {
		if s[i:i+len(word)] == word {
			return true
		}
	}
	return false
}
