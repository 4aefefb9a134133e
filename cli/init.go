package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"github.com/xdarkicex/zephyr/module"
)

// InitCommandInput contains the input for the init command.
type InitCommandInput struct {
	Name string

	Stdout *os.File
	Stderr *os.File
}

// ConfigureInitCommand sets up the init command.
func ConfigureInitCommand(app *kingpin.Application, g *Globals) {
	input := InitCommandInput{}

	cmd := app.Command("init", "Scaffold a new module directory")
	cmd.Arg("name", "module name").Required().StringVar(&input.Name)

	cmd.Action(func(*kingpin.ParseContext) error {
		os.Exit(g.Dispatch(func() int { return InitCommand(input, g) }))
		return nil
	})
}

const initManifestTemplate = `[module]
name = %q
version = "0.1.0"
description = ""
author = ""
license = ""

[dependencies]
required = []
optional = []

[load]
priority = 100
files = ["init.zsh"]

[hooks]
pre_load = ""
post_load = ""

[platforms]
os = []
arch = []
shell = ""
min_version = ""

[settings]
`

// InitCommand scaffolds a new module directory under the modules dir with
// a minimal module.toml and an empty init.zsh.
func InitCommand(input InitCommandInput, g *Globals) int {
	stdout := stdoutOf(input.Stdout)
	stderr := stderrOf(input.Stderr)

	if !module.ValidName(input.Name) {
		fmt.Fprintf(stderr, "init failed: %q does not match the module naming grammar\n", input.Name)
		return 1
	}

	dir := filepath.Join(g.ModulesDir, input.Name)
	if _, err := os.Stat(dir); err == nil {
		fmt.Fprintf(stderr, "init failed: %s already exists\n", dir)
		return 1
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(stderr, "init failed: %v\n", err)
		return 1
	}

	manifest := fmt.Sprintf(initManifestTemplate, input.Name)
	if err := os.WriteFile(filepath.Join(dir, "module.toml"), []byte(manifest), 0o644); err != nil {
		fmt.Fprintf(stderr, "init failed: %v\n", err)
		return 1
	}
	if err := os.WriteFile(filepath.Join(dir, "init.zsh"), []byte("# "+input.Name+" module\n"), 0o644); err != nil {
		fmt.Fprintf(stderr, "init failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Initialized module %q at %s\n", input.Name, dir)
	return 0
}
