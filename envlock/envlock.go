// Package envlock serializes access to the shared mutable environment
// variables zephyr reads and tests override: HOME, TMPDIR,
// ZEPHYR_SESSION_ID, and the agent-detection variables in session.Detect.
// Tests take this lock around every change to these variables. Production
// code paths that read them (session.Detect, session.Current,
// install.NewTempDir) do not take it.
package envlock

import "sync"

var mu sync.Mutex

// Lock acquires the process-wide environment lock.
func Lock() { mu.Lock() }

// Unlock releases the process-wide environment lock.
func Unlock() { mu.Unlock() }

// With runs fn while holding the lock and releases it afterward, even on
// panic.
func With(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	fn()
}
