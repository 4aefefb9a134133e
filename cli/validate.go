package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/xdarkicex/zephyr/module"
	"github.com/xdarkicex/zephyr/resolver"
)

// ValidateCommandInput contains the input for the validate command.
type ValidateCommandInput struct {
	Stdout *os.File
	Stderr *os.File
}

// ConfigureValidateCommand sets up the validate command.
func ConfigureValidateCommand(app *kingpin.Application, g *Globals) {
	input := ValidateCommandInput{}

	app.Command("validate", "Validate module manifests and the dependency graph").Action(func(*kingpin.ParseContext) error {
		os.Exit(g.Dispatch(func() int { return ValidateCommand(input, g) }))
		return nil
	})
}

// ValidateCommand discovers every module, checks manifest invariants, and
// resolves the dependency graph, reporting the first failure it hits.
func ValidateCommand(input ValidateCommandInput, g *Globals) int {
	stdout := stdoutOf(input.Stdout)
	stderr := stderrOf(input.Stderr)

	modules, err := module.Discover(g.ModulesDir)
	if err != nil {
		fmt.Fprintf(stderr, "validate failed: %v\n", err)
		return 1
	}

	for _, m := range modules {
		if err := m.Validate(); err != nil {
			fmt.Fprintf(stderr, "validate failed: %v\n", err)
			return 1
		}
	}

	if _, err := resolver.Resolve(modules); err != nil {
		fmt.Fprintf(stderr, "validate failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "%d modules valid\n", len(modules))
	return 0
}
