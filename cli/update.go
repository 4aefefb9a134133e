package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"github.com/xdarkicex/zephyr/install"
	"github.com/xdarkicex/zephyr/scanner"
)

// UpdateCommandInput contains the input for the update command.
type UpdateCommandInput struct {
	Name string

	Stdout *os.File
	Stderr *os.File
}

// ConfigureUpdateCommand sets up the update command.
func ConfigureUpdateCommand(app *kingpin.Application, g *Globals) {
	input := UpdateCommandInput{}

	cmd := app.Command("update", "Re-install a module from its recorded source")
	cmd.Arg("name", "module name").Required().StringVar(&input.Name)

	cmd.Action(func(*kingpin.ParseContext) error {
		os.Exit(g.Dispatch(func() int { return UpdateCommand(input, g) }))
		return nil
	})
}

// UpdateCommand executes the update command: the install pipeline applied
// to the existing module's recorded source. A security failure leaves the
// installed version untouched, since the pipeline only publishes on
// success.
func UpdateCommand(input UpdateCommandInput, g *Globals) int {
	stdout := stdoutOf(input.Stdout)
	stderr := stderrOf(input.Stderr)

	target := filepath.Join(g.ModulesDir, input.Name)
	source, err := install.ReadSource(target)
	if err != nil {
		fmt.Fprintf(stderr, "update failed: %v\n", err)
		return 1
	}

	out, err := install.Install(install.Input{
		Source:     source,
		ModulesDir: g.ModulesDir,
		Force:      true,
		Trusted:    g.Trusted,
		Logger:     g.Logger,
	})
	if err != nil {
		fmt.Fprintf(stderr, "update failed; %q left untouched: %v\n", input.Name, err)
		return 1
	}

	fmt.Fprintln(stdout, scanner.FormatScanReport(out.ScanResult, out.Module.Name))
	fmt.Fprintf(stdout, "Updated %s to %s\n", out.Module.Name, out.Module.Version)
	return 0
}
