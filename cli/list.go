package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/xdarkicex/zephyr/module"
	"github.com/xdarkicex/zephyr/resolver"
)

// ListCommandInput contains the input for the list command.
type ListCommandInput struct {
	Stdout *os.File
	Stderr *os.File
}

// ConfigureListCommand sets up the list command.
func ConfigureListCommand(app *kingpin.Application, g *Globals) {
	input := ListCommandInput{}

	app.Command("list", "List discovered modules in resolved load order").Action(func(*kingpin.ParseContext) error {
		os.Exit(g.Dispatch(func() int { return ListCommand(input, g) }))
		return nil
	})
}

// ListCommand executes the list command logic and returns the process
// exit code.
func ListCommand(input ListCommandInput, g *Globals) int {
	stdout := stdoutOf(input.Stdout)
	stderr := stderrOf(input.Stderr)

	modules, err := module.Discover(g.ModulesDir)
	if err != nil {
		fmt.Fprintf(stderr, "list failed: %v\n", err)
		return 1
	}

	ordered, err := resolver.Resolve(modules)
	if err != nil {
		fmt.Fprintf(stderr, "list failed: %v\n", err)
		return 1
	}

	for _, m := range ordered {
		fmt.Fprintf(stdout, "%-20s %-10s priority=%-4d deps=%v\n", m.Name, m.Version, m.Priority, m.RequiredDeps)
	}
	return 0
}
