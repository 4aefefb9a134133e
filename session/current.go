package session

// Current returns the session registered under ZEPHYR_SESSION_ID, if any.
// If the environment variable is unset, or no session is registered under
// it, ok is false and callers should treat the caller as an unauthenticated
// human (session.Human / session.RoleUser).
func Current() (*Session, bool) {
	id := CurrentSessionID()
	if id == "" {
		return nil, false
	}
	return Lookup(id)
}

// CurrentRole returns the role of the current session, defaulting to
// RoleUser when there is no current session registered.
func CurrentRole() Role {
	if s, ok := Current(); ok {
		return s.Role
	}
	return RoleUser
}
