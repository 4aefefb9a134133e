// Package module defines zephyr's Module data type — the unit the
// dependency resolver, scanner, and install pipeline all operate on — and a
// thin TOML manifest loader. The manifest grammar itself (arbitrary TOML
// edge cases, comments, multi-line arrays) is an external concern; this
// package only implements the interface named in the zephyr design: the
// required/optional keys under [module], [dependencies], [load], [hooks],
// and [platforms].
package module

import (
	"fmt"
	"regexp"
)

// DefaultPriority is used when a manifest omits [load].priority.
const DefaultPriority = 100

// nameRegex matches valid module names.
var nameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,49}$`)

// ValidName reports whether name matches the module naming grammar.
func ValidName(name string) bool {
	return nameRegex.MatchString(name)
}

// Platform is the optional [platforms] manifest section.
type Platform struct {
	OS         []string `toml:"os"`
	Arch       []string `toml:"arch"`
	Shell      string   `toml:"shell"`
	MinVersion string   `toml:"min_version"`
}

// Hooks names the pre/post-load function names a module declares.
type Hooks struct {
	PreLoad  string `toml:"pre_load"`
	PostLoad string `toml:"post_load"`
}

// Module is zephyr's central data type: a discovered or installed shell
// module, with its manifest fields and local state.
type Module struct {
	Name        string `toml:"-"`
	Version     string `toml:"-"`
	Description string `toml:"-"`
	Author      string `toml:"-"`
	License     string `toml:"-"`

	// Path is the module's absolute directory path. Not part of the
	// manifest; set by the discovery walk.
	Path string `toml:"-"`

	// RequiredDeps and OptionalDeps are sets of module names, represented
	// as slices in declaration order (no duplicates).
	RequiredDeps []string `toml:"-"`
	OptionalDeps []string `toml:"-"`

	// Files are the module's declared shell files, in load order.
	Files []string `toml:"-"`

	// Settings is an arbitrary string map from [settings].
	Settings map[string]string `toml:"-"`

	Platform Platform `toml:"-"`
	Hooks    Hooks    `toml:"-"`

	// Priority controls tie-breaking within a topological level: lower
	// values are ordered first. Defaults to DefaultPriority.
	Priority int `toml:"-"`

	// Loaded is set once the module's files have been sourced into the
	// running shell.
	Loaded bool `toml:"-"`

	// DiscoveryIndex records the order this module was discovered in,
	// used as the final tie-break after Priority (stable insertion order).
	DiscoveryIndex int `toml:"-"`
}

// Validate checks the invariants from the zephyr data model: Name is
// non-empty and matches the naming grammar.
func (m *Module) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("module: name is required")
	}
	if !ValidName(m.Name) {
		return fmt.Errorf("module %q: name does not match ^[A-Za-z][A-Za-z0-9_-]{0,49}$", m.Name)
	}
	if m.Version == "" {
		return fmt.Errorf("module %q: version is required", m.Name)
	}
	return nil
}
