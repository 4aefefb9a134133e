package signature

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSigned(t *testing.T, dir, name string, content []byte, priv ed25519.PrivateKey) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	sum := sha256.Sum256(content)
	if err := os.WriteFile(path+".sha256", []byte(hex.EncodeToString(sum[:])), 0o644); err != nil {
		t.Fatal(err)
	}
	sig := ed25519.Sign(priv, content)
	if err := os.WriteFile(path+".sig", sig, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVerifySucceeds(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	prevKey := PublicKey
	PublicKey = pub
	defer func() { PublicKey = prevKey }()

	dir := t.TempDir()
	path := writeSigned(t, dir, "mod-1.0.0.tar.gz", []byte("tarball contents"), priv)

	result := Verify(path)
	if !result.OK {
		t.Fatalf("Verify() failed: %s", result.Reason)
	}
	if result.Fingerprint == "" {
		t.Error("expected a non-empty fingerprint")
	}
}

func TestVerifyRejectsTamperedChecksum(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	prevKey := PublicKey
	PublicKey = pub
	defer func() { PublicKey = prevKey }()

	dir := t.TempDir()
	path := writeSigned(t, dir, "mod-1.0.0.tar.gz", []byte("tarball contents"), priv)
	if err := os.WriteFile(path+".sha256", []byte("0000000000000000000000000000000000000000000000000000000000000000"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := Verify(path)
	if result.OK {
		t.Error("Verify() should fail with a tampered checksum")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	otherPub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	prevKey := PublicKey
	PublicKey = otherPub
	defer func() { PublicKey = prevKey }()

	dir := t.TempDir()
	path := writeSigned(t, dir, "mod-1.0.0.tar.gz", []byte("tarball contents"), priv)

	result := Verify(path)
	if result.OK {
		t.Error("Verify() should fail when signed with a different key")
	}
}

func TestFindSignedTarballPicksMostRecent(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	PublicKey = pub

	dir := t.TempDir()
	writeSigned(t, dir, "old-1.0.0.tar.gz", []byte("old"), priv)
	past := time.Now().Add(-1 * time.Hour)
	os.Chtimes(filepath.Join(dir, "old-1.0.0.tar.gz"), past, past)

	newest := writeSigned(t, dir, "new-2.0.0.tar.gz", []byte("new"), priv)

	got, err := FindSignedTarball(dir)
	if err != nil {
		t.Fatalf("FindSignedTarball: %v", err)
	}
	if got != newest {
		t.Errorf("FindSignedTarball() = %q, want %q", got, newest)
	}
}

func TestFindSignedTarballIgnoresUnsigned(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plain.tar.gz"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := FindSignedTarball(dir); err != ErrNoSignedTarball {
		t.Errorf("FindSignedTarball() error = %v, want ErrNoSignedTarball", err)
	}
}
