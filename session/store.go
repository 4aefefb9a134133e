package session

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrSessionNotFound is returned when a lookup finds no session with the
// given ID.
var ErrSessionNotFound = errors.New("session not found")

// registryState is the process-wide session registry. It is a map guarded
// by a mutex: registration and lookup are O(1) critical sections, and
// concurrent reads are safe via RLock.
type registryState struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

var registry = &registryState{sessions: make(map[string]*Session)}

// Register stores a new session and returns it. Registering a duplicate ID
// is a no-op that returns the already-registered session, per the
// immutable-once-registered invariant. Missing environment is not an
// error: callers that can't derive agentType should pass session.Human.
func Register(agentID string, agentType AgentType, sessionID, parentProcess string) *Session {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if existing, ok := registry.sessions[sessionID]; ok {
		return existing
	}

	s := &Session{
		ID:            sessionID,
		AgentID:       agentID,
		AgentType:     agentType,
		ParentProcess: parentProcess,
		StartedAt:     time.Now().UTC(),
		Role:          RoleFor(agentType),
	}
	registry.sessions[sessionID] = s
	return s
}

// Lookup returns the session registered under id, if any.
func Lookup(id string) (*Session, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	s, ok := registry.sessions[id]
	return s, ok
}

// All returns every registered session, ordered by StartedAt ascending then
// ID (stable, deterministic for the `sessions` CLI surface).
func All() []*Session {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	out := make([]*Session, 0, len(registry.sessions))
	for _, s := range registry.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// Teardown deletes every registered session. It is idempotent: two
// successive teardowns leave identical (empty) state.
func Teardown() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.sessions = make(map[string]*Session)
}
