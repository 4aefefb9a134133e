package scanner

import (
	"os"
	"path/filepath"
	"strings"
)

const maxFileSize = 1 << 20 // 1 MiB

var scannableExt = map[string]bool{
	".sh":   true,
	".zsh":  true,
	".bash": true,
	".py":   true,
	".toml": true,
	".json": true,
}

// isScannable reports whether a file at path (with the given first-4KiB
// header already read into head) should be scanned: within the size limit,
// no NUL byte in the header, and either a recognized extension, the literal
// name Makefile, or a shebang line with no extension.
func isScannable(path string, size int64, head []byte) bool {
	if size > maxFileSize {
		return false
	}
	for _, b := range head {
		if b == 0 {
			return false
		}
	}

	base := filepath.Base(path)
	if base == "Makefile" {
		return true
	}
	ext := filepath.Ext(base)
	if scannableExt[ext] {
		return true
	}
	if ext == "" && len(head) >= 2 && head[0] == '#' && head[1] == '!' {
		return true
	}
	return false
}

// resolvedWithinRoot reports whether path, after symlink expansion,
// resolves to a location inside root.
func resolvedWithinRoot(root, path string) (resolved string, within bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path, true // not a symlink issue; let the caller's stat error surface instead
	}
	rel, err := filepath.Rel(root, resolved)
	if err != nil {
		return resolved, false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return resolved, false
	}
	return resolved, true
}

// walk recurses root, invoking visit(relPath, absPath) for every scannable
// regular file. Symlinks are followed once; a symlink (direct or via an
// ancestor directory) resolving outside root yields a SymlinkEvasion
// instead of being visited.
func walk(root string, visit func(relPath, absPath string) error) ([]SymlinkEvasion, error) {
	resolvedRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		resolvedRoot = root
	}

	var evasions []SymlinkEvasion
	visited := map[string]bool{resolvedRoot: true}

	var walkDir func(dir string) error
	walkDir = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			full := filepath.Join(dir, e.Name())

			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.Mode()&os.ModeSymlink != 0 {
				resolved, within := resolvedWithinRoot(resolvedRoot, full)
				if !within {
					evasions = append(evasions, SymlinkEvasion{Path: full, Resolved: resolved})
					continue
				}
				target, err := os.Stat(resolved)
				if err != nil {
					continue
				}
				if target.IsDir() {
					if visited[resolved] {
						evasions = append(evasions, SymlinkEvasion{Path: full, Resolved: resolved})
						continue
					}
					visited[resolved] = true
					if err := walkDir(resolved); err != nil {
						return err
					}
					continue
				}
				full = resolved
				info = target
			}

			if e.IsDir() {
				if err := walkDir(full); err != nil {
					return err
				}
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}

			f, err := os.Open(full)
			if err != nil {
				continue
			}
			head := make([]byte, 4096)
			n, _ := f.Read(head)
			head = head[:n]
			f.Close()

			if !isScannable(full, info.Size(), head) {
				continue
			}

			rel, err := filepath.Rel(resolvedRoot, full)
			if err != nil {
				rel = full
			}
			if err := visit(rel, full); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walkDir(resolvedRoot); err != nil {
		return evasions, err
	}
	return evasions, nil
}
