package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/alecthomas/kingpin/v2"
	"github.com/xdarkicex/zephyr/module"
	"github.com/xdarkicex/zephyr/resolver"
	"github.com/xdarkicex/zephyr/shellbackend"
)

// LoadCommandInput contains the input for the load command.
type LoadCommandInput struct {
	Stdout *os.File
	Stderr *os.File
}

// ConfigureLoadCommand sets up the load command.
func ConfigureLoadCommand(app *kingpin.Application, g *Globals) {
	input := LoadCommandInput{}

	app.Command("load", "Emit shell code that sources every module in resolved order").Action(func(*kingpin.ParseContext) error {
		os.Exit(g.Dispatch(func() int { return LoadCommand(input, g) }))
		return nil
	})
}

// LoadCommand resolves the module graph and writes shell code to stdout
// that the caller's rc file is expected to `eval`: one source command per
// declared file, gated by a file-exists check, honoring each module's
// pre/post-load hooks. Of the platform filter only the OS list is
// checked; arch, shell and min_version are not.
func LoadCommand(input LoadCommandInput, g *Globals) int {
	stdout := stdoutOf(input.Stdout)
	stderr := stderrOf(input.Stderr)

	modules, err := module.Discover(g.ModulesDir)
	if err != nil {
		fmt.Fprintf(stderr, "load failed: %v\n", err)
		return 1
	}

	ordered, err := resolver.Resolve(modules)
	if err != nil {
		fmt.Fprintf(stderr, "load failed: %v\n", err)
		return 1
	}

	backend := shellbackend.Detect(os.Getenv("SHELL"))

	for _, m := range ordered {
		if !platformMatches(m) {
			continue
		}
		if m.Hooks.PreLoad != "" {
			fmt.Fprintf(stdout, "%s && %s\n", backend.FunctionExistsCheck(m.Hooks.PreLoad), m.Hooks.PreLoad)
		}
		for _, file := range m.Files {
			path := filepath.Join(m.Path, file)
			fmt.Fprintf(stdout, "%s && %s\n", backend.FileExistsCheck(path), backend.SourceCommand(path))
		}
		if m.Hooks.PostLoad != "" {
			fmt.Fprintf(stdout, "%s && %s\n", backend.FunctionExistsCheck(m.Hooks.PostLoad), m.Hooks.PostLoad)
		}
	}
	return 0
}

// platformMatches reports whether m's [platforms] filter (if any) allows
// the current OS.
func platformMatches(m *module.Module) bool {
	if len(m.Platform.OS) == 0 {
		return true
	}
	for _, want := range m.Platform.OS {
		if want == runtime.GOOS {
			return true
		}
	}
	return false
}
