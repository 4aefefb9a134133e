package role

import (
	"sync"

	"github.com/xdarkicex/zephyr/session"
)

var (
	mu      sync.RWMutex
	current = Default()
)

// SetTable replaces the active role table (e.g. after loading
// ~/.zephyr/security.toml). It is safe for concurrent use.
func SetTable(t Table) {
	mu.Lock()
	defer mu.Unlock()
	current = t
}

// CurrentTable returns the active role table.
func CurrentTable() Table {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CheckPermission resolves the current session's role (session.RoleUser if
// no session is registered) and returns whether it holds capability c.
func CheckPermission(c Capability) bool {
	t := CurrentTable()
	return t.For(session.CurrentRole()).Get(c)
}

// RequiresConfirmation reports whether the current session's role must
// confirm before the permission granted by CheckPermission can be acted on.
// Callers that cannot prompt (agents, non-interactive runs) must treat a
// true result as a denial.
func RequiresConfirmation() bool {
	t := CurrentTable()
	return t.For(session.CurrentRole()).RequireConfirmation
}
