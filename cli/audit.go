package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
)

// AuditCommandInput contains the input for the audit command.
type AuditCommandInput struct {
	Type   string
	Filter string

	Stdout *os.File
	Stderr *os.File
}

// ConfigureAuditCommand sets up the audit command.
func ConfigureAuditCommand(app *kingpin.Application, g *Globals) {
	input := AuditCommandInput{}

	cmd := app.Command("audit", "Show audit log entries")
	cmd.Flag("type", "sessions, commands, or operations").Default("operations").
		EnumVar(&input.Type, "sessions", "commands", "operations")
	cmd.Flag("filter", "only show lines containing this substring").StringVar(&input.Filter)

	cmd.Action(func(*kingpin.ParseContext) error {
		os.Exit(g.Dispatch(func() int { return AuditCommand(input, g) }))
		return nil
	})
}

// AuditCommand prints matching lines from the requested audit stream.
func AuditCommand(input AuditCommandInput, g *Globals) int {
	stdout := stdoutOf(input.Stdout)
	stderr := stderrOf(input.Stderr)

	if g.Logger == nil {
		fmt.Fprintln(stderr, "audit log unavailable")
		return 1
	}

	lines, err := g.Logger.ReadStream(input.Type, input.Filter)
	if err != nil {
		fmt.Fprintf(stderr, "audit failed: %v\n", err)
		return 1
	}
	for _, line := range lines {
		fmt.Fprintln(stdout, line)
	}
	return 0
}
