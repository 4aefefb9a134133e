package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/xdarkicex/zephyr/audit"
	"github.com/xdarkicex/zephyr/module"
	"github.com/xdarkicex/zephyr/session"
	"github.com/xdarkicex/zephyr/uninstall"
	"golang.org/x/term"
)

// UninstallCommandInput contains the input for the uninstall command.
type UninstallCommandInput struct {
	Name           string
	Force          bool
	Yes            bool
	SkipPermission bool

	Stdout *os.File
	Stderr *os.File
}

// ConfigureUninstallCommand sets up the uninstall command.
func ConfigureUninstallCommand(app *kingpin.Application, g *Globals) {
	input := UninstallCommandInput{}

	cmd := app.Command("uninstall", "Remove an installed module")
	cmd.Arg("name", "module name").Required().StringVar(&input.Name)
	cmd.Flag("force", "Override dependent-module and critical-module checks").BoolVar(&input.Force)
	cmd.Flag("yes", "Skip the interactive confirmation prompt").Short('y').BoolVar(&input.Yes)
	cmd.Flag("skip-permission", "Skip the role permission check").BoolVar(&input.SkipPermission)

	cmd.Action(func(*kingpin.ParseContext) error {
		os.Exit(g.Dispatch(func() int { return UninstallCommand(input, g) }))
		return nil
	})
}

// UninstallCommand executes the uninstall command logic and returns the
// process exit code (0 for success, and for agent-role force denials,
// which are advisory).
func UninstallCommand(input UninstallCommandInput, g *Globals) int {
	stdout := stdoutOf(input.Stdout)
	stderr := stderrOf(input.Stderr)

	modules, err := module.Discover(g.ModulesDir)
	if err != nil {
		fmt.Fprintf(stderr, "uninstall failed: %v\n", err)
		return 1
	}

	decision, err := uninstall.Check(uninstall.Request{
		Name:           input.Name,
		Force:          input.Force,
		Yes:            input.Yes,
		SkipPermission: input.SkipPermission,
		Interactive:    term.IsTerminal(int(os.Stdin.Fd())),
		Confirm:        promptYesNo,
	}, modules)
	if err != nil {
		fmt.Fprintf(stderr, "uninstall failed: %v\n", err)
		return 1
	}
	if !decision.Allowed {
		if decision.Advisory {
			fmt.Fprintf(stdout, "advisory: %s\n", decision.Reason)
			logUninstallOperation(g, input.Name, "agent_blocked", decision.Reason)
		} else {
			fmt.Fprintf(stderr, "uninstall denied: %s\n", decision.Reason)
			logUninstallOperation(g, input.Name, "blocked", decision.Reason)
		}
		return decision.ExitCode
	}

	if err := uninstall.Remove(filepath.Join(g.ModulesDir, input.Name)); err != nil {
		fmt.Fprintf(stderr, "uninstall failed: %v\n", err)
		logUninstallOperation(g, input.Name, "failed", err.Error())
		return 1
	}

	fmt.Fprintf(stdout, "Uninstalled %s\n", input.Name)
	logUninstallOperation(g, input.Name, "success", "")
	return 0
}

// logUninstallOperation records one uninstall attempt to the operations
// audit stream. Per spec, agent force-denials are logged distinctly as
// agent_blocked rather than plain blocked events.
func logUninstallOperation(g *Globals, moduleName, result, reason string) {
	if g.Logger == nil {
		return
	}
	ev := audit.OperationEvent{
		Timestamp: time.Now(),
		Action:    "uninstall",
		Module:    moduleName,
		Result:    result,
		Reason:    reason,
	}
	if sess, _ := session.Current(); sess != nil {
		ev.SessionID = sess.ID
		ev.AgentType = string(sess.AgentType)
		ev.Role = string(sess.Role)
	}
	g.Logger.LogOperation(ev)
}
