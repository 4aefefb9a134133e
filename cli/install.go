package cli

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/alecthomas/kingpin/v2"
	"github.com/mattn/go-isatty"
	"github.com/xdarkicex/zephyr/install"
	"github.com/xdarkicex/zephyr/scanner"
)

// InstallCommandInput contains the input for the install command.
type InstallCommandInput struct {
	Source     string
	Force      bool
	Unsafe     bool
	AllowLocal bool
	Confirm    bool

	Stdout *os.File
	Stderr *os.File
}

// ConfigureInstallCommand sets up the install command.
func ConfigureInstallCommand(app *kingpin.Application, g *Globals) {
	input := InstallCommandInput{}

	cmd := app.Command("install", "Install a module from a git source or signed tarball")
	cmd.Arg("source", "git URL, GitHub shorthand, tarball URL, or local path").Required().StringVar(&input.Source)
	cmd.Flag("force", "Overwrite an existing module of the same name").BoolVar(&input.Force)
	cmd.Flag("unsafe", "Install despite critical scan findings (requires use_unsafe)").BoolVar(&input.Unsafe)
	cmd.Flag("allow-local", "Allow installing from a local directory source").BoolVar(&input.AllowLocal)
	cmd.Flag("confirm", "Answer yes to any confirmation prompt").Short('y').BoolVar(&input.Confirm)

	cmd.Action(func(*kingpin.ParseContext) error {
		os.Exit(g.Dispatch(func() int { return InstallCommand(input, g) }))
		return nil
	})
}

// InstallCommand executes the install command logic and returns the
// process exit code.
func InstallCommand(input InstallCommandInput, g *Globals) int {
	stdout := stdoutOf(input.Stdout)
	stderr := stderrOf(input.Stderr)

	interactive := isatty.IsTerminal(os.Stdin.Fd())

	out, err := install.Install(install.Input{
		Source:         input.Source,
		ModulesDir:     g.ModulesDir,
		Force:          input.Force,
		UnsafeOverride: input.Unsafe,
		AllowLocal:     input.AllowLocal,
		Interactive:    interactive,
		Confirm: func(prompt string) bool {
			if input.Confirm {
				return true
			}
			return promptYesNo(prompt)
		},
		Trusted: g.Trusted,
		Logger:  g.Logger,
	})
	if err != nil {
		fmt.Fprintf(stderr, "install failed: %v\n", err)
		return 1
	}

	if input.Unsafe && out.ScanResult.HasCritical() {
		fmt.Fprintln(stdout, "warning: unsafe mode enabled, installed despite critical findings")
	}
	fmt.Fprintln(stdout, scanner.FormatScanReport(out.ScanResult, out.Module.Name))
	fmt.Fprintf(stdout, "Installed %s %s\n", out.Module.Name, out.Module.Version)
	return 0
}

// promptYesNo asks prompt as a survey confirm question, defaulting to no.
// A non-interactive stdin (piped input, no TTY) or a prompt error is
// treated as a decline rather than blocking the command.
func promptYesNo(prompt string) bool {
	answer := false
	q := &survey.Confirm{Message: prompt, Default: false}
	if err := survey.AskOne(q, &answer); err != nil {
		return false
	}
	return answer
}
