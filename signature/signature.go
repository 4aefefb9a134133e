// Package signature verifies the Ed25519 signature and SHA-256 checksum of
// a signed module tarball before the install pipeline lets it near the
// modules directory.
package signature

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PublicKey is the embedded first-party signing key zephyr ships with.
// Replaced at build time for production releases; a zero key always fails
// verification rather than silently accepting anything.
var PublicKey ed25519.PublicKey

// Result is the outcome of verifying one tarball.
type Result struct {
	OK          bool
	Fingerprint string
	TarballPath string
	Reason      string
}

// ErrNoSignedTarball is returned when dir contains no *.tar.gz with both a
// sibling .sig and .sha256 file.
var ErrNoSignedTarball = errors.New("signature: no signed tarball found")

// FindSignedTarball locates the most-recently-modified *.tar.gz in dir that
// has sibling *.tar.gz.sig and *.tar.gz.sha256 files.
func FindSignedTarball(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("signature: read %s: %w", dir, err)
	}

	type candidate struct {
		path    string
		modTime int64
	}
	var candidates []candidate
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tar.gz") {
			continue
		}
		base := filepath.Join(dir, e.Name())
		if !exists(base+".sig") || !exists(base+".sha256") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{path: base, modTime: info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return "", ErrNoSignedTarball
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].modTime > candidates[j].modTime })
	return candidates[0].path, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Verify checks tarballPath against its sibling .sha256 and .sig files: the
// recomputed SHA-256 digest must match the checksum file (constant-time
// comparison), and the Ed25519 signature over the raw tarball bytes must
// verify against PublicKey. Both must pass.
func Verify(tarballPath string) Result {
	data, err := os.ReadFile(tarballPath)
	if err != nil {
		return Result{Reason: fmt.Sprintf("read tarball: %v", err)}
	}

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	wantSum, err := os.ReadFile(tarballPath + ".sha256")
	if err != nil {
		return Result{Reason: fmt.Sprintf("read checksum: %v", err)}
	}
	wantDigest := strings.Fields(string(wantSum))
	if len(wantDigest) == 0 {
		return Result{Reason: "checksum file is empty"}
	}
	if subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(wantDigest[0]))) != 1 {
		return Result{Reason: "checksum mismatch", Fingerprint: digest}
	}

	sig, err := os.ReadFile(tarballPath + ".sig")
	if err != nil {
		return Result{Reason: fmt.Sprintf("read signature: %v", err), Fingerprint: digest}
	}
	if len(PublicKey) != ed25519.PublicKeySize {
		return Result{Reason: "no signing key configured", Fingerprint: digest}
	}
	if !ed25519.Verify(PublicKey, data, sig) {
		return Result{Reason: "signature verification failed", Fingerprint: digest}
	}

	return Result{OK: true, Fingerprint: digest, TarballPath: tarballPath}
}

// Fingerprint returns the hex-encoded SHA-256 of the embedded public key,
// for display by `zephyr show-signing-key`.
func Fingerprint() string {
	if len(PublicKey) == 0 {
		return ""
	}
	sum := sha256.Sum256(PublicKey)
	return hex.EncodeToString(sum[:])
}

// LooksLikeTarballURL reports whether a remote source URL ends in .tar.gz
// and so names a signed tarball rather than a git repository. GitHub
// repository URLs are probed for a release tarball separately, by the
// caller.
func LooksLikeTarballURL(url string) bool {
	return strings.HasSuffix(url, ".tar.gz")
}
