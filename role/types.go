// Package role defines zephyr's role/capability table and the permission
// check the install and uninstall pipelines consult before acting. Roles
// are loaded from a TOML security config under the user's home if present,
// else the built-in defaults below.
package role

import "github.com/xdarkicex/zephyr/session"

// Capability names a single permission a role may or may not hold.
type Capability string

const (
	Install              Capability = "install"
	InstallUnsigned      Capability = "install_unsigned"
	UseUnsafe            Capability = "use_unsafe"
	Uninstall            Capability = "uninstall"
	ModifyConfig         Capability = "modify_config"
	RequireConfirmation  Capability = "require_confirmation"
)

// Permissions is the set of six capability booleans one role carries.
type Permissions struct {
	Install              bool `toml:"can_install"`
	InstallUnsigned      bool `toml:"can_install_unsigned"`
	UseUnsafe            bool `toml:"can_use_unsafe"`
	Uninstall            bool `toml:"can_uninstall"`
	ModifyConfig         bool `toml:"can_modify_config"`
	RequireConfirmation  bool `toml:"require_confirmation"`
}

// Get looks up a single capability by name. Unknown capabilities return
// false.
func (p Permissions) Get(c Capability) bool {
	switch c {
	case Install:
		return p.Install
	case InstallUnsigned:
		return p.InstallUnsigned
	case UseUnsafe:
		return p.UseUnsafe
	case Uninstall:
		return p.Uninstall
	case ModifyConfig:
		return p.ModifyConfig
	case RequireConfirmation:
		return p.RequireConfirmation
	default:
		return false
	}
}

// Table maps a role to its permissions.
type Table struct {
	User  Permissions
	Agent Permissions
}

// Default returns the built-in role table: user has every power except
// confirmation-is-required; agent can install but holds no other power and
// always requires confirmation.
func Default() Table {
	return Table{
		User: Permissions{
			Install:             true,
			InstallUnsigned:     true,
			UseUnsafe:           true,
			Uninstall:           true,
			ModifyConfig:        true,
			RequireConfirmation: false,
		},
		Agent: Permissions{
			Install:             true,
			InstallUnsigned:     false,
			UseUnsafe:           false,
			Uninstall:           false,
			ModifyConfig:        false,
			RequireConfirmation: true,
		},
	}
}

// For returns the Permissions for a given Role.
func (t Table) For(r session.Role) Permissions {
	if r == session.RoleAgent {
		return t.Agent
	}
	return t.User
}
