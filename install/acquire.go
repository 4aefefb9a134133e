package install

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/xdarkicex/zephyr/zerrors"
)

const tempDirPrefix = "zephyr-install-"

// NewTempDir creates a fresh directory under dir (os.TempDir() when dir is
// empty) with the zephyr-install- prefix the cleanup invariant counts.
func NewTempDir(dir string) (string, error) {
	path, err := os.MkdirTemp(dir, tempDirPrefix)
	if err != nil {
		return "", zerrors.Wrap(zerrors.Filesystem, "temp_dir_create_failed", "creating install workspace", err)
	}
	return path, nil
}

// CleanupTempDir removes a temp directory created by NewTempDir. It never
// touches any path zephyr did not create.
func CleanupTempDir(path string) error {
	if path == "" {
		return nil
	}
	return os.RemoveAll(path)
}

// sourceFileName is the sidecar file recording a published module's
// install source, so `zephyr update` can re-run the pipeline against it.
const sourceFileName = ".zephyr-source"

// RecordSource writes the source a module was installed from into modulePath,
// for later retrieval by ReadSource.
func RecordSource(modulePath, source string) error {
	if err := os.WriteFile(filepath.Join(modulePath, sourceFileName), []byte(source), 0o644); err != nil {
		return zerrors.Wrap(zerrors.Filesystem, "record_source_failed", "recording install source", err)
	}
	return nil
}

// ReadSource reads the source a module was installed from, recorded by
// RecordSource during a prior install.
func ReadSource(modulePath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(modulePath, sourceFileName))
	if err != nil {
		return "", zerrors.Wrap(zerrors.Validation, "source_unknown", "module has no recorded install source", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// CloneGit shallow-clones url into dest (which must already exist and be
// empty, per the acquire-to-temp invariant).
func CloneGit(url, dest string) error {
	cmd := exec.Command("git", "clone", "--depth", "1", url, dest)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return zerrors.Wrap(zerrors.Transport, "git_clone_failed", string(out), err)
	}
	entries, err := os.ReadDir(dest)
	if err != nil || len(entries) == 0 {
		return zerrors.New(zerrors.Transport, "git_clone_empty", "clone produced an empty directory")
	}
	return nil
}

// DownloadTarball fetches url and writes it to destFile.
func DownloadTarball(url, destFile string) error {
	resp, err := http.Get(url)
	if err != nil {
		return zerrors.Wrap(zerrors.Transport, "tarball_download_failed", "downloading tarball", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return zerrors.New(zerrors.Transport, "tarball_download_failed",
			fmt.Sprintf("unexpected status %d fetching %s", resp.StatusCode, url))
	}

	f, err := os.Create(destFile)
	if err != nil {
		return zerrors.Wrap(zerrors.Filesystem, "tarball_write_failed", "creating tarball file", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return zerrors.Wrap(zerrors.Transport, "tarball_download_failed", "writing tarball body", err)
	}
	return nil
}

// ExtractTarball extracts a gzip-compressed tarball at tarballPath into
// destDir, rejecting any entry whose path escapes destDir (zip-slip).
func ExtractTarball(tarballPath, destDir string) error {
	f, err := os.Open(tarballPath)
	if err != nil {
		return zerrors.Wrap(zerrors.Filesystem, "tarball_open_failed", "opening tarball", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return zerrors.Wrap(zerrors.Verification, "tarball_not_gzip", "tarball is not valid gzip", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return zerrors.Wrap(zerrors.Filesystem, "tarball_read_failed", "reading tarball entry", err)
		}

		target := filepath.Join(destDir, hdr.Name)
		rel, err := filepath.Rel(destDir, target)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return zerrors.New(zerrors.Security, "tarball_path_escape",
				fmt.Sprintf("tarball entry %q escapes the extraction directory", hdr.Name))
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return zerrors.Wrap(zerrors.Filesystem, "tarball_extract_failed", "creating directory", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return zerrors.Wrap(zerrors.Filesystem, "tarball_extract_failed", "creating parent directory", err)
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode))
			if err != nil {
				return zerrors.Wrap(zerrors.Filesystem, "tarball_extract_failed", "creating file", err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return zerrors.Wrap(zerrors.Filesystem, "tarball_extract_failed", "writing file", err)
			}
			out.Close()
		}
	}
	return nil
}
