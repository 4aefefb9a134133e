package patterns

// TrustedModules is the allowlist of module directory basenames whose
// credential warnings downgrade to info. Loaded from built-in defaults and
// optionally extended from ~/.zephyr/trusted_modules.toml by the config
// package.
type TrustedModules struct {
	names map[string]bool
}

// DefaultTrustedModules returns the built-in allowlist.
func DefaultTrustedModules() *TrustedModules {
	return &TrustedModules{names: map[string]bool{
		"oh-my-zsh": true,
	}}
}

// Add extends the allowlist with additional module names, e.g. loaded from
// trusted_modules.toml.
func (t *TrustedModules) Add(names ...string) {
	for _, n := range names {
		t.names[n] = true
	}
}

// IsTrusted reports whether moduleName is in the allowlist.
func (t *TrustedModules) IsTrusted(moduleName string) bool {
	return t.names[moduleName]
}
