// Package upgrade implements the self-upgrade subsystem: query a release
// manifest, compare versions, and download+verify+replace zephyr's own
// binary. It reuses the install pipeline's acquire and signature-verify
// primitives rather than inventing a second download/verify path.
package upgrade

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xdarkicex/zephyr/install"
	"github.com/xdarkicex/zephyr/signature"
	"github.com/xdarkicex/zephyr/zerrors"
)

// Manifest is the release manifest zephyr polls for updates: a version
// string and the signed tarball URL for the current platform.
type Manifest struct {
	Version     string `json:"version"`
	TarballURL  string `json:"tarball_url"`
	ReleaseNote string `json:"release_note"`
}

// FetchManifest downloads and parses the release manifest at url.
func FetchManifest(url string) (*Manifest, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, zerrors.Wrap(zerrors.Transport, "manifest_fetch_failed", "fetching release manifest", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, zerrors.New(zerrors.Transport, "manifest_fetch_failed",
			fmt.Sprintf("unexpected status %d fetching release manifest", resp.StatusCode))
	}

	var m Manifest
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, zerrors.Wrap(zerrors.Validation, "manifest_invalid", "decoding release manifest", err)
	}
	if m.Version == "" || m.TarballURL == "" {
		return nil, zerrors.New(zerrors.Validation, "manifest_invalid", "release manifest missing version or tarball_url")
	}
	return &m, nil
}

// IsNewer reports whether candidate is a newer version than current, using
// a numeric-segment comparison over dot-separated version strings (a
// leading "v" is ignored). Non-numeric segments compare as zero.
func IsNewer(current, candidate string) bool {
	cur := versionSegments(current)
	cand := versionSegments(candidate)
	for i := 0; i < len(cur) || i < len(cand); i++ {
		var c, k int
		if i < len(cur) {
			c = cur[i]
		}
		if i < len(cand) {
			k = cand[i]
		}
		if k != c {
			return k > c
		}
	}
	return false
}

func versionSegments(v string) []int {
	v = strings.TrimPrefix(v, "v")
	parts := strings.Split(v, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, _ := strconv.Atoi(p)
		out[i] = n
	}
	return out
}

// Result is the outcome of an Apply call.
type Result struct {
	Applied       bool
	FromVersion   string
	ToVersion     string
	Fingerprint   string
}

// Apply downloads the manifest's tarball into a temp directory via the
// install package's acquire primitives, verifies its signature, and
// replaces the executable at execPath with the tarball's top-level
// "zephyr" entry. check-only callers should never reach Apply; the caller decides
// whether to call it after inspecting Manifest.Version against its own.
func Apply(m *Manifest, execPath string) (*Result, error) {
	temp, err := install.NewTempDir("")
	if err != nil {
		return nil, err
	}
	defer install.CleanupTempDir(temp)

	tarballPath := filepath.Join(temp, "zephyr-update.tar.gz")
	if err := install.DownloadTarball(m.TarballURL, tarballPath); err != nil {
		return nil, err
	}
	if err := install.DownloadTarball(m.TarballURL+".sig", tarballPath+".sig"); err != nil {
		return nil, err
	}
	if err := install.DownloadTarball(m.TarballURL+".sha256", tarballPath+".sha256"); err != nil {
		return nil, err
	}

	verified := signature.Verify(tarballPath)
	if !verified.OK {
		return nil, zerrors.New(zerrors.Verification, "upgrade_signature_failed", verified.Reason)
	}

	extractDir := filepath.Join(temp, "extracted")
	if err := install.ExtractTarball(tarballPath, extractDir); err != nil {
		return nil, err
	}

	newBinary := filepath.Join(extractDir, "zephyr")
	if _, err := os.Stat(newBinary); err != nil {
		return nil, zerrors.Wrap(zerrors.Validation, "upgrade_binary_missing", "update tarball has no zephyr binary", err)
	}
	if err := os.Chmod(newBinary, 0o755); err != nil {
		return nil, zerrors.Wrap(zerrors.Filesystem, "upgrade_chmod_failed", "marking new binary executable", err)
	}

	backup := execPath + ".bak"
	if err := os.Rename(execPath, backup); err != nil {
		return nil, zerrors.Wrap(zerrors.Filesystem, "upgrade_backup_failed", "backing up current binary", err)
	}
	if err := os.Rename(newBinary, execPath); err != nil {
		os.Rename(backup, execPath) // best-effort restore
		return nil, zerrors.Wrap(zerrors.Filesystem, "upgrade_replace_failed", "installing new binary", err)
	}
	os.Remove(backup)

	return &Result{Applied: true, ToVersion: m.Version, Fingerprint: verified.Fingerprint}, nil
}
