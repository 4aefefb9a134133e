package module

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// manifestFile mirrors the on-disk module.toml grammar from the zephyr
// external-interfaces section.
type manifestFile struct {
	Module struct {
		Name        string `toml:"name"`
		Version     string `toml:"version"`
		Description string `toml:"description"`
		Author      string `toml:"author"`
		License     string `toml:"license"`
	} `toml:"module"`

	Dependencies struct {
		Required []string `toml:"required"`
		Optional []string `toml:"optional"`
	} `toml:"dependencies"`

	Load struct {
		Priority int      `toml:"priority"`
		Files    []string `toml:"files"`
	} `toml:"load"`

	Hooks struct {
		PreLoad  string `toml:"pre_load"`
		PostLoad string `toml:"post_load"`
	} `toml:"hooks"`

	Platforms struct {
		OS         []string `toml:"os"`
		Arch       []string `toml:"arch"`
		Shell      string   `toml:"shell"`
		MinVersion string   `toml:"min_version"`
	} `toml:"platforms"`

	Settings map[string]string `toml:"settings"`
}

// LoadManifest parses module.toml from dir and returns a Module with Path
// set to dir. It rejects a manifest missing [module].name or
// [module].version, per the external-interfaces contract.
func LoadManifest(dir string) (*Module, error) {
	path := filepath.Join(dir, "module.toml")

	var mf manifestFile
	if _, err := toml.DecodeFile(path, &mf); err != nil {
		return nil, fmt.Errorf("module: parse %s: %w", path, err)
	}

	if mf.Module.Name == "" {
		return nil, fmt.Errorf("module: %s: missing required [module].name", path)
	}
	if mf.Module.Version == "" {
		return nil, fmt.Errorf("module: %s: missing required [module].version", path)
	}

	priority := mf.Load.Priority
	if priority == 0 {
		priority = DefaultPriority
	}

	m := &Module{
		Name:         mf.Module.Name,
		Version:      mf.Module.Version,
		Description:  mf.Module.Description,
		Author:       mf.Module.Author,
		License:      mf.Module.License,
		Path:         dir,
		RequiredDeps: mf.Dependencies.Required,
		OptionalDeps: mf.Dependencies.Optional,
		Files:        mf.Load.Files,
		Settings:     mf.Settings,
		Platform: Platform{
			OS:         mf.Platforms.OS,
			Arch:       mf.Platforms.Arch,
			Shell:      mf.Platforms.Shell,
			MinVersion: mf.Platforms.MinVersion,
		},
		Hooks: Hooks{PreLoad: mf.Hooks.PreLoad, PostLoad: mf.Hooks.PostLoad},
		Priority: priority,
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// PeekName reads just [module].name from dir/module.toml, without
// validating the rest of the manifest. It returns "" if the file is
// missing, malformed, or declares no name. Used by the install pipeline to
// identify a module for the trusted-module allowlist before the manifest
// has been fully loaded and validated.
func PeekName(dir string) string {
	var mf manifestFile
	if _, err := toml.DecodeFile(filepath.Join(dir, "module.toml"), &mf); err != nil {
		return ""
	}
	return mf.Module.Name
}

// Discover walks modulesDir (one level) and loads a module.toml from each
// immediate subdirectory that has one. Discovery order is directory-listing
// order, recorded on each Module as DiscoveryIndex for the resolver's
// priority tie-break. Duplicate names across the discovered set are an
// error, per the Module invariant.
func Discover(modulesDir string) ([]*Module, error) {
	entries, err := readDirSorted(modulesDir)
	if err != nil {
		return nil, fmt.Errorf("module: discover %s: %w", modulesDir, err)
	}

	seen := make(map[string]string, len(entries))
	var modules []*Module
	idx := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(modulesDir, e.Name())
		m, err := LoadManifest(dir)
		if err != nil {
			continue // a directory without a valid module.toml is not a module
		}
		if prior, ok := seen[m.Name]; ok {
			return nil, fmt.Errorf("module: duplicate name %q in %s and %s", m.Name, prior, dir)
		}
		seen[m.Name] = dir
		m.DiscoveryIndex = idx
		idx++
		modules = append(modules, m)
	}
	return modules, nil
}
