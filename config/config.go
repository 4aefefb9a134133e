// Package config loads zephyr's two optional TOML configuration files —
// ~/.zephyr/security.toml (the role table) and
// ~/.zephyr/trusted_modules.toml (the trust allowlist) — applying the
// built-in defaults whenever a file is missing or fails to parse.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/xdarkicex/zephyr/patterns"
	"github.com/xdarkicex/zephyr/role"
)

type securityFile struct {
	Roles struct {
		User  role.Permissions `toml:"user"`
		Agent role.Permissions `toml:"agent"`
	} `toml:"roles"`
}

// LoadSecurity reads home/.zephyr/security.toml into a role.Table. A
// missing file or a parse error yields role.Default() rather than
// failing the caller — security config is optional.
func LoadSecurity(home string) role.Table {
	path := filepath.Join(home, ".zephyr", "security.toml")

	var sf securityFile
	if _, err := toml.DecodeFile(path, &sf); err != nil {
		return role.Default()
	}

	return role.Table{User: sf.Roles.User, Agent: sf.Roles.Agent}
}

type trustedModulesFile struct {
	Modules []string `toml:"modules"`
}

// LoadTrustedModules reads home/.zephyr/trusted_modules.toml, extending
// the built-in allowlist. A missing file or parse error leaves only the
// built-in defaults.
func LoadTrustedModules(home string) *patterns.TrustedModules {
	tm := patterns.DefaultTrustedModules()

	path := filepath.Join(home, ".zephyr", "trusted_modules.toml")
	var tf trustedModulesFile
	if _, err := toml.DecodeFile(path, &tf); err != nil {
		return tm
	}
	tm.Add(tf.Modules...)
	return tm
}

// ModulesDir resolves the modules directory: $ZSH_MODULES_DIR if set,
// else home/.zephyr/modules.
func ModulesDir(home string) string {
	if dir := os.Getenv("ZSH_MODULES_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(home, ".zephyr", "modules")
}
