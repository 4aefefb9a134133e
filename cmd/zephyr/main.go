package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/xdarkicex/zephyr/cli"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	app := kingpin.New("zephyr", "Shell module package manager")
	app.Version(Version)

	g := cli.ConfigureGlobals(app)

	cli.ConfigureInstallCommand(app, g)
	cli.ConfigureUpdateCommand(app, g)
	cli.ConfigureUninstallCommand(app, g)
	cli.ConfigureListCommand(app, g)
	cli.ConfigureValidateCommand(app, g)
	cli.ConfigureLoadCommand(app, g)
	cli.ConfigureInitCommand(app, g)
	cli.ConfigureRegisterSessionCommand(app, g)
	cli.ConfigureSessionCommand(app, g)
	cli.ConfigureSessionsCommand(app, g)
	cli.ConfigureAuditCommand(app, g)
	cli.ConfigureUpgradeCommand(app, g, Version)
	cli.ConfigureShowSigningKeyCommand(app, g)
	cli.ConfigureVerifyCommand(app, g)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}
