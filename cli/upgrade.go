package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/xdarkicex/zephyr/upgrade"
)

// defaultManifestURL is the release manifest zephyr polls by default.
// Overridable via ZEPHYR_UPGRADE_MANIFEST_URL for private mirrors.
const defaultManifestURL = "https://zephyr.sh/releases/latest.json"

// UpgradeCommandInput contains the input for the upgrade command.
type UpgradeCommandInput struct {
	Check   bool
	Force   bool
	Version string // current version, injected at build time

	Stdout *os.File
	Stderr *os.File
}

// ConfigureUpgradeCommand sets up the upgrade command.
func ConfigureUpgradeCommand(app *kingpin.Application, g *Globals, version string) {
	input := UpgradeCommandInput{Version: version}

	cmd := app.Command("upgrade", "Check for and apply zephyr binary upgrades")
	cmd.Flag("check", "Only report whether an upgrade is available").BoolVar(&input.Check)
	cmd.Flag("force", "Apply even if the manifest version is not newer").BoolVar(&input.Force)

	cmd.Action(func(*kingpin.ParseContext) error {
		os.Exit(g.Dispatch(func() int { return UpgradeCommand(input, g) }))
		return nil
	})
}

// UpgradeCommand executes the upgrade command logic and returns the
// process exit code.
func UpgradeCommand(input UpgradeCommandInput, g *Globals) int {
	stdout := stdoutOf(input.Stdout)
	stderr := stderrOf(input.Stderr)

	manifestURL := os.Getenv("ZEPHYR_UPGRADE_MANIFEST_URL")
	if manifestURL == "" {
		manifestURL = defaultManifestURL
	}

	m, err := upgrade.FetchManifest(manifestURL)
	if err != nil {
		fmt.Fprintf(stderr, "upgrade failed: %v\n", err)
		return 1
	}

	newer := upgrade.IsNewer(input.Version, m.Version)
	if input.Check {
		if newer {
			fmt.Fprintf(stdout, "upgrade available: %s -> %s\n", input.Version, m.Version)
		} else {
			fmt.Fprintf(stdout, "up to date at %s\n", input.Version)
		}
		return 0
	}

	if !newer && !input.Force {
		fmt.Fprintf(stdout, "up to date at %s\n", input.Version)
		return 0
	}

	execPath, err := os.Executable()
	if err != nil {
		fmt.Fprintf(stderr, "upgrade failed: %v\n", err)
		return 1
	}

	result, err := upgrade.Apply(m, execPath)
	if err != nil {
		fmt.Fprintf(stderr, "upgrade failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Upgraded to %s (fingerprint %s)\n", result.ToVersion, result.Fingerprint)
	return 0
}
