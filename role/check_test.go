package role

import (
	"os"
	"testing"

	"github.com/xdarkicex/zephyr/envlock"
	"github.com/xdarkicex/zephyr/session"
)

func withSession(t *testing.T, agentType session.AgentType) {
	t.Helper()
	envlock.Lock()
	t.Cleanup(envlock.Unlock)
	t.Cleanup(session.Teardown)

	id := "sess-role-check-" + string(agentType)
	if len(id) > 16 {
		id = id[:16]
	}
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

func TestCheckPermission_MatchesStaticTable(t *testing.T) {
	t.Cleanup(func() { SetTable(Default()) })
	SetTable(Default())

	caps := []Capability{Install, InstallUnsigned, UseUnsafe, Uninstall, ModifyConfig, RequireConfirmation}
	roles := []session.AgentType{session.Human, session.ClaudeCode}

	for _, at := range roles {
		// A subtest per role, so withSession's cleanup (lock release,
		// registry teardown) runs before the next role takes the lock.
		t.Run(string(at), func(t *testing.T) {
			withSession(t, at)
			want := CurrentTable().For(session.RoleFor(at))
			for _, c := range caps {
				if got := CheckPermission(c); got != want.Get(c) {
					t.Errorf("agentType=%q cap=%q: CheckPermission()=%v, want %v", at, c, got, want.Get(c))
				}
			}
		})
	}
}

func TestCheckPermission_NoSessionDefaultsToUser(t *testing.T) {
	envlock.Lock()
	defer envlock.Unlock()
	t.Cleanup(session.Teardown)

	prev, had := os.LookupEnv("ZEPHYR_SESSION_ID")
	os.Unsetenv("ZEPHYR_SESSION_ID")
	t.Cleanup(func() {
		if had {
			os.Setenv("ZEPHYR_SESSION_ID", prev)
		}
	})

	if !CheckPermission(UseUnsafe) {
		t.Error("CheckPermission(UseUnsafe) with no session should behave as user (true)")
	}
}

func TestAgentBlocksUnsignedInstall(t *testing.T) {
	// Scenario 5: register claude-code, install_unsigned is denied,
	// install is allowed but conditional on confirmation.
	withSession(t, session.ClaudeCode)

	if CheckPermission(InstallUnsigned) {
		t.Error("agent role should not hold install_unsigned")
	}
	if !CheckPermission(Install) {
		t.Error("agent role should hold install")
	}
	if !RequiresConfirmation() {
		t.Error("agent role should require confirmation")
	}
}
