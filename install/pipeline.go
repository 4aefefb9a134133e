// Package install implements the Install Pipeline: the linear
// detect-acquire-verify-scan-validate-publish-audit state machine that
// brings a module from a git repository or signed tarball into the
// modules directory.
package install

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xdarkicex/zephyr/audit"
	"github.com/xdarkicex/zephyr/module"
	"github.com/xdarkicex/zephyr/patterns"
	"github.com/xdarkicex/zephyr/role"
	"github.com/xdarkicex/zephyr/scanner"
	"github.com/xdarkicex/zephyr/session"
	"github.com/xdarkicex/zephyr/signature"
	"github.com/xdarkicex/zephyr/zerrors"
)

// Input carries one install(source, ...) invocation's parameters.
type Input struct {
	Source         string
	ModulesDir     string
	TempDirBase    string // $TMPDIR override, for tests
	Force          bool
	UnsafeOverride bool
	AllowLocal     bool // gate on treating Source as a local directory/tarball path
	Interactive    bool
	Confirm        func(prompt string) bool
	Trusted        *patterns.TrustedModules
	Logger         *audit.Logger // nil disables audit logging
}

// Output is the pipeline's result: the installed module (on success) and
// the scan result, for CLI reporting.
type Output struct {
	Module     *module.Module
	ScanResult *scanner.Result
}

// Install runs the full state machine and returns either the installed
// Output or a *zerrors.Error describing which state failed.
func Install(in Input) (*Output, error) {
	localFinder := localTarballSibling
	if !in.AllowLocal {
		localFinder = nil
	}
	src := DetectSource(in.Source, localFinder)
	if src.Kind == Invalid {
		return nil, in.audited(zerrors.New(zerrors.Validation, "invalid_source",
			fmt.Sprintf("%q is not a local signed tarball, tarball URL, or git source", in.Source)), "", false)
	}

	tempBase := in.TempDirBase
	temp, err := NewTempDir(tempBase)
	if err != nil {
		return nil, in.audited(err, "", false)
	}
	// cleanup runs on every exit path except the one success path that
	// renames temp away; success clears this by setting temp = "".
	defer func() {
		if temp != "" {
			CleanupTempDir(temp)
		}
	}()

	signatureVerified := false

	switch src.Kind {
	case GitRepo:
		err := CloneGit(src.Raw, temp)
		if zerrors.KindOf(err) == zerrors.Transport {
			// One retry for a transport failure, into a fresh empty workspace.
			os.RemoveAll(temp)
			if mkErr := os.Mkdir(temp, 0o700); mkErr == nil {
				err = CloneGit(src.Raw, temp)
			}
		}
		if err != nil {
			return nil, in.audited(err, "", false)
		}
	case SignedTarball:
		tarballPath, err := acquireTarball(src, temp)
		if zerrors.KindOf(err) == zerrors.Transport {
			tarballPath, err = acquireTarball(src, temp) // one retry
		}
		if err != nil {
			return nil, in.audited(err, "", false)
		}
		result := signature.Verify(tarballPath)
		if !result.OK {
			return nil, in.audited(zerrors.New(zerrors.Verification, "signature_verification_failed", result.Reason), "", false)
		}
		signatureVerified = true
		if err := ExtractTarball(tarballPath, temp); err != nil {
			return nil, in.audited(err, "", false)
		}
	}

	cat := patterns.Compile()
	peekedName := module.PeekName(temp)
	scanResult := scanner.Scan(temp, peekedName, cat, scanner.Options{Trusted: in.Trusted})
	if !scanResult.Success {
		return nil, in.audited(zerrors.New(zerrors.Security, "scan_failed", scanResult.Error), "", signatureVerified)
	}

	if scanResult.HasCritical() {
		if !(in.UnsafeOverride && role.CheckPermission(role.UseUnsafe)) {
			return nil, in.audited(zerrors.New(zerrors.Security, "security_scan_blocked",
				"security scan found critical findings"), "", signatureVerified)
		}
	} else if scanResult.WarningCount > 0 {
		r := session.CurrentRole()
		requiresConfirm := role.RequiresConfirmation()
		if r == session.RoleAgent {
			if requiresConfirm && (in.Confirm == nil || !confirmAllowed(in)) {
				return nil, in.audited(zerrors.New(zerrors.Policy, "agent_confirmation_required",
					"agent role cannot install past warnings without explicit confirmation"), "", signatureVerified)
			}
		} else if in.Interactive && requiresConfirm {
			if in.Confirm == nil || !in.Confirm("Module scan has warnings. Install anyway?") {
				return nil, in.audited(zerrors.New(zerrors.Policy, "install_declined",
					"install declined after scan warnings"), "", signatureVerified)
			}
		}
	}

	m, err := module.LoadManifest(temp)
	if err != nil {
		return nil, in.audited(zerrors.Wrap(zerrors.Validation, "manifest_invalid", "validating module.toml", err), "", signatureVerified)
	}

	target := filepath.Join(in.ModulesDir, m.Name)
	if _, statErr := os.Stat(target); statErr == nil && !in.Force {
		return nil, in.audited(zerrors.New(zerrors.Validation, "target_exists",
			fmt.Sprintf("module %q already exists; use force to overwrite", m.Name)), m.Name, signatureVerified)
	}

	if err := publish(temp, target); err != nil {
		return nil, in.audited(err, m.Name, signatureVerified)
	}
	temp = "" // published: nothing left to clean up

	if err := RecordSource(target, in.Source); err != nil {
		return nil, in.audited(err, m.Name, signatureVerified)
	}

	m.Path = target
	in.audited(nil, m.Name, signatureVerified)
	return &Output{Module: m, ScanResult: scanResult}, nil
}

func confirmAllowed(in Input) bool {
	return in.Confirm != nil && in.Confirm("Agent install has scan warnings. Proceed?")
}

func acquireTarball(src Source, temp string) (string, error) {
	if localPath, ok := localTarballSibling(src.Raw); ok {
		return localPath, nil
	}
	dest := filepath.Join(temp, "module.tar.gz")
	if err := DownloadTarball(src.Raw, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func localTarballSibling(input string) (string, bool) {
	info, err := os.Stat(input)
	if err != nil {
		return "", false
	}
	dir := input
	if !info.IsDir() {
		dir = filepath.Dir(input)
	}
	path, err := signature.FindSignedTarball(dir)
	if err != nil {
		return "", false
	}
	return path, true
}

// publish atomically moves src to dest using rename, falling back to
// copy-then-remove if rename fails across file systems. The source is
// retained until a fallback copy completes.
func publish(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return zerrors.Wrap(zerrors.Filesystem, "publish_mkdir_failed", "preparing modules directory", err)
	}
	if err := os.RemoveAll(dest); err != nil {
		return zerrors.Wrap(zerrors.Filesystem, "publish_remove_failed", "clearing existing target", err)
	}
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	if err := copyTree(src, dest); err != nil {
		return zerrors.Wrap(zerrors.Filesystem, "publish_copy_failed", "copying module into place", err)
	}
	return os.RemoveAll(src)
}

func copyTree(src, dest string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode())
	})
}

// audited emits an operation event (when a Logger is configured) and
// returns err unchanged, so call sites can `return nil, in.audited(err, ...)`.
func (in Input) audited(err error, moduleName string, signatureVerified bool) error {
	if in.Logger == nil {
		return err
	}
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	sess, _ := session.Current()
	ev := audit.OperationEvent{
		Timestamp:         time.Now(),
		Action:            "install",
		Module:            moduleName,
		Source:            in.Source,
		Result:            zerrors.AuditResult(err),
		Reason:            reason,
		SignatureVerified: signatureVerified,
	}
	if sess != nil {
		ev.SessionID = sess.ID
		ev.AgentType = string(sess.AgentType)
		ev.Role = string(sess.Role)
	}
	in.Logger.LogOperation(ev)
	return err
}
