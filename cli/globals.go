// Package cli wires zephyr's kingpin command surface to the core
// subsystems: session registration, the install/uninstall pipelines, the
// resolver, the scanner, and the audit logger. Each command follows the
// same shape as the teacher's aws-vault commands: an *Input struct holding
// flags and optional Stdout/Stderr for tests, a Configure*Command function
// that wires kingpin flags into the struct, and an *Command function that
// does the work and returns a process exit code.
package cli

import (
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/xdarkicex/zephyr/audit"
	"github.com/xdarkicex/zephyr/config"
	"github.com/xdarkicex/zephyr/patterns"
	"github.com/xdarkicex/zephyr/role"
	"github.com/xdarkicex/zephyr/session"
)

// Globals holds the state every zephyr command shares: the resolved home
// and modules directories, the trusted-module allowlist, and the audit
// logger. The loaded role table is not held here; it is installed
// process-wide with role.SetTable.
type Globals struct {
	Home       string
	ModulesDir string
	Logger     *audit.Logger
	Trusted    *patterns.TrustedModules
	Confirm    bool // not set by any flag; commands read their own --confirm / --yes
}

// ConfigureGlobals registers a PreAction that, before any subcommand runs,
// resolves the home and modules directories and loads the optional
// security and trusted-module configs. It registers no flags.
func ConfigureGlobals(app *kingpin.Application) *Globals {
	g := &Globals{}

	app.PreAction(func(*kingpin.ParseContext) error {
		home, err := os.UserHomeDir()
		if err != nil {
			home = ""
		}
		g.Home = home
		g.ModulesDir = config.ModulesDir(home)

		role.SetTable(config.LoadSecurity(home))
		g.Trusted = config.LoadTrustedModules(home)

		logger, err := audit.New(home)
		if err == nil {
			g.Logger = logger
		}
		return nil
	})

	return g
}

// Dispatch runs fn (a command's *Command function) and appends a
// CommandEvent recording the raw invocation and exit code to the
// commands/<date>/ audit stream, then returns fn's exit code unchanged.
// Every ConfigureXCommand routes through this so the command stream covers
// the whole CLI surface, not just install/update's own operation events.
// ScanResult detail for install/update lives in the richer operations
// stream (via install.Input.Logger); this stream only needs command text
// and outcome.
func (g *Globals) Dispatch(fn func() int) int {
	code := fn()
	if g.Logger == nil {
		return code
	}

	ev := audit.CommandEvent{
		Timestamp: time.Now(),
		Command:   strings.Join(os.Args[1:], " "),
		ExitCode:  code,
	}
	if sess, _ := session.Current(); sess != nil {
		ev.SessionID = sess.ID
		ev.AgentType = string(sess.AgentType)
		ev.Role = string(sess.Role)
	}
	g.Logger.LogCommand(session.NewSessionID(), ev)
	return code
}

func stdoutOf(w *os.File) *os.File {
	if w == nil {
		return os.Stdout
	}
	return w
}

func stderrOf(w *os.File) *os.File {
	if w == nil {
		return os.Stderr
	}
	return w
}
