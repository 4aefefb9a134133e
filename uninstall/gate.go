// Package uninstall implements the Uninstall Gate: the role-gated,
// reverse-dependency-aware check that runs before a module directory is
// removed.
package uninstall

import (
	"fmt"
	"os"

	"github.com/xdarkicex/zephyr/module"
	"github.com/xdarkicex/zephyr/resolver"
	"github.com/xdarkicex/zephyr/role"
	"github.com/xdarkicex/zephyr/session"
	"github.com/xdarkicex/zephyr/zerrors"
)

// criticalModules is the built-in critical-module set agents may never
// remove, even with force. Extended by config-declared critical modules.
var criticalModules = map[string]bool{
	"stdlib":  true,
	"tooling": true,
}

// MarkCritical extends the critical-module set, e.g. from a loaded
// security config.
func MarkCritical(names ...string) {
	for _, n := range names {
		criticalModules[n] = true
	}
}

// IsCritical reports whether name is in the critical-module set.
func IsCritical(name string) bool {
	return criticalModules[name]
}

// Request carries the parameters of one uninstall(name, force, yes,
// skip_permission) call.
type Request struct {
	Name            string
	Force           bool
	Yes             bool
	SkipPermission  bool
	Interactive     bool
	Confirm         func(prompt string) bool // consulted only when Interactive
}

// Decision is the gate's verdict: Allowed plus an ExitCode (agent
// force-denials are advisory, exit 0) and a Reason for audit/CLI output.
type Decision struct {
	Allowed  bool
	ExitCode int
	Reason   string
	Advisory bool
}

// Check runs the gate against req, consulting the current session's role,
// the critical-module set, and the reverse-dependency index derived from
// modules.
func Check(req Request, modules []*module.Module) (*Decision, error) {
	r := session.CurrentRole()

	if r == session.RoleAgent {
		if req.Force {
			return &Decision{Allowed: false, ExitCode: 0, Advisory: true,
				Reason: "agent role cannot force an uninstall; denial is advisory"}, nil
		}
		if IsCritical(req.Name) {
			return &Decision{Allowed: false, ExitCode: 1,
				Reason: fmt.Sprintf("module %q is in the critical module set and cannot be uninstalled by an agent", req.Name)}, nil
		}
	} else if !req.SkipPermission && !role.CheckPermission(role.Uninstall) {
		return &Decision{Allowed: false, ExitCode: 1, Reason: "uninstall capability denied by role"}, nil
	}

	deps := resolver.Dependents(modules, req.Name)
	if len(deps) > 0 {
		if !req.Force {
			return &Decision{Allowed: false, ExitCode: 1,
				Reason: fmt.Sprintf("module %q has dependents %v; use --force to override", req.Name, deps)}, nil
		}
		if r != session.RoleUser {
			return &Decision{Allowed: false, ExitCode: 1,
				Reason: fmt.Sprintf("only a user role may force-uninstall a module with dependents %v", deps)}, nil
		}
	}

	if r == session.RoleUser && !req.Yes && req.Interactive {
		if req.Confirm == nil || !req.Confirm(fmt.Sprintf("Uninstall %q?", req.Name)) {
			return &Decision{Allowed: false, ExitCode: 1, Reason: "uninstall declined by user"}, nil
		}
	}

	return &Decision{Allowed: true, ExitCode: 0}, nil
}

// Remove deletes the module directory recursively. Callers must have
// already obtained an Allowed Decision from Check.
func Remove(modulePath string) error {
	if err := os.RemoveAll(modulePath); err != nil {
		return zerrors.Wrap(zerrors.Filesystem, "uninstall_remove_failed",
			fmt.Sprintf("removing %s", modulePath), err)
	}
	return nil
}
