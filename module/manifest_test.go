package module

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "module.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[module]
name = "git"
version = "1.2.0"
description = "git prompt helpers"
author = "zephyr"
license = "MIT"

[dependencies]
required = ["core"]
optional = ["fzf"]

[load]
priority = 50
files = ["git.sh"]

[hooks]
pre_load = "_git_pre"
post_load = "_git_post"

[platforms]
os = ["linux", "darwin"]
shell = "zsh"

[settings]
theme = "minimal"
`)

	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Name != "git" || m.Version != "1.2.0" {
		t.Errorf("got name=%q version=%q", m.Name, m.Version)
	}
	if m.Priority != 50 {
		t.Errorf("Priority = %d, want 50", m.Priority)
	}
	if len(m.RequiredDeps) != 1 || m.RequiredDeps[0] != "core" {
		t.Errorf("RequiredDeps = %v", m.RequiredDeps)
	}
	if m.Settings["theme"] != "minimal" {
		t.Errorf("Settings[theme] = %q", m.Settings["theme"])
	}
	if m.Path != dir {
		t.Errorf("Path = %q, want %q", m.Path, dir)
	}
}

func TestLoadManifestDefaultsPriority(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[module]
name = "core"
version = "1.0.0"
`)
	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Priority != DefaultPriority {
		t.Errorf("Priority = %d, want default %d", m.Priority, DefaultPriority)
	}
}

func TestLoadManifestRejectsMissingName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[module]
version = "1.0.0"
`)
	if _, err := LoadManifest(dir); err == nil {
		t.Error("LoadManifest should reject a manifest missing [module].name")
	}
}

func TestLoadManifestRejectsMissingVersion(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[module]
name = "git"
`)
	if _, err := LoadManifest(dir); err == nil {
		t.Error("LoadManifest should reject a manifest missing [module].version")
	}
}

func TestLoadManifestRejectsBadName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[module]
name = "9bad"
version = "1.0.0"
`)
	if _, err := LoadManifest(dir); err == nil {
		t.Error("LoadManifest should reject a name violating the naming grammar")
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "core"), `
[module]
name = "core"
version = "1.0.0"
`)
	writeManifest(t, filepath.Join(root, "git"), `
[module]
name = "git"
version = "1.0.0"

[dependencies]
required = ["core"]
`)
	// Not a module: no manifest.
	if err := os.MkdirAll(filepath.Join(root, "scratch"), 0o755); err != nil {
		t.Fatal(err)
	}

	mods, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(mods) != 2 {
		t.Fatalf("Discover found %d modules, want 2", len(mods))
	}
	// Sorted directory order: core before git.
	if mods[0].Name != "core" || mods[0].DiscoveryIndex != 0 {
		t.Errorf("mods[0] = %+v", mods[0])
	}
	if mods[1].Name != "git" || mods[1].DiscoveryIndex != 1 {
		t.Errorf("mods[1] = %+v", mods[1])
	}
}

func TestDiscoverRejectsDuplicateNames(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, filepath.Join(root, "a-git"), `
[module]
name = "git"
version = "1.0.0"
`)
	writeManifest(t, filepath.Join(root, "b-git"), `
[module]
name = "git"
version = "2.0.0"
`)

	if _, err := Discover(root); err == nil {
		t.Error("Discover should reject duplicate module names")
	}
}
