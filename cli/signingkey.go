package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/xdarkicex/zephyr/signature"
)

// ShowSigningKeyCommandInput contains the input for the show-signing-key
// command.
type ShowSigningKeyCommandInput struct {
	Stdout *os.File
}

// ConfigureShowSigningKeyCommand sets up the show-signing-key command.
func ConfigureShowSigningKeyCommand(app *kingpin.Application, g *Globals) {
	input := ShowSigningKeyCommandInput{}
	app.Command("show-signing-key", "Print the embedded signing key fingerprint").Action(func(*kingpin.ParseContext) error {
		os.Exit(g.Dispatch(func() int { return ShowSigningKeyCommand(input) }))
		return nil
	})
}

// ShowSigningKeyCommand prints the SHA-256 fingerprint of the embedded
// Ed25519 public key.
func ShowSigningKeyCommand(input ShowSigningKeyCommandInput) int {
	stdout := stdoutOf(input.Stdout)
	fp := signature.Fingerprint()
	if fp == "" {
		fmt.Fprintln(stdout, "no signing key embedded in this build")
		return 1
	}
	fmt.Fprintln(stdout, fp)
	return 0
}

// VerifyCommandInput contains the input for the verify command.
type VerifyCommandInput struct {
	Path string

	Stdout *os.File
	Stderr *os.File
}

// ConfigureVerifyCommand sets up the verify command.
func ConfigureVerifyCommand(app *kingpin.Application, g *Globals) {
	input := VerifyCommandInput{}
	cmd := app.Command("verify", "Verify a signed tarball's checksum and signature")
	cmd.Arg("path", "path to the .tar.gz file").Required().StringVar(&input.Path)

	cmd.Action(func(*kingpin.ParseContext) error {
		os.Exit(g.Dispatch(func() int { return VerifyCommand(input) }))
		return nil
	})
}

// VerifyCommand verifies a tarball's SHA-256 checksum and Ed25519
// signature against their sibling files.
func VerifyCommand(input VerifyCommandInput) int {
	stdout := stdoutOf(input.Stdout)
	stderr := stderrOf(input.Stderr)

	result := signature.Verify(input.Path)
	if !result.OK {
		fmt.Fprintf(stderr, "verify failed: %s\n", result.Reason)
		return 1
	}
	fmt.Fprintf(stdout, "OK  fingerprint=%s\n", result.Fingerprint)
	return 0
}
