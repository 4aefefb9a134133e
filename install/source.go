package install

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/xdarkicex/zephyr/signature"
)

// SourceKind classifies an install source after Detect.
type SourceKind string

const (
	SignedTarball SourceKind = "signed_tarball"
	GitRepo       SourceKind = "git_repo"
	Invalid       SourceKind = "invalid"
)

// Source describes a classified install input.
type Source struct {
	Kind SourceKind
	// Raw is the original input string (path, URL, or shorthand), except
	// for a GitHub repository whose latest release carries a .tar.gz
	// asset, where it is that asset's download URL.
	Raw string
}

// DetectSource classifies input per the state machine's first step: a
// local path with a signed-tarball sibling, a remote tarball URL or
// GitHub-release tarball, a git URL/shorthand, or invalid.
func DetectSource(input string, localTarballDir func(string) (string, bool)) Source {
	if input == "" {
		return Source{Kind: Invalid, Raw: input}
	}

	if signature.LooksLikeTarballURL(input) {
		return Source{Kind: SignedTarball, Raw: input}
	}

	if localTarballDir != nil {
		if _, ok := localTarballDir(input); ok {
			return Source{Kind: SignedTarball, Raw: input}
		}
	}

	if owner, repo, ok := parseGitHubRepo(input); ok {
		if assetURL, ok := githubLatestReleaseAsset(owner, repo); ok {
			return Source{Kind: SignedTarball, Raw: assetURL}
		}
	}

	if looksLikeGitSource(input) {
		return Source{Kind: GitRepo, Raw: input}
	}

	return Source{Kind: Invalid, Raw: input}
}

func looksLikeGitSource(input string) bool {
	switch {
	case strings.HasPrefix(input, "git@"):
		return true
	case strings.HasPrefix(input, "https://"), strings.HasPrefix(input, "http://"):
		return true
	case strings.HasPrefix(input, "ssh://"):
		return true
	case strings.Count(input, "/") == 1 && !strings.Contains(input, " "):
		// GitHub shorthand: owner/repo
		return true
	default:
		return false
	}
}

var githubRepoURLRe = regexp.MustCompile(`^https://github\.com/([^/\s]+)/([^/\s]+?)(\.git)?/?$`)

// parseGitHubRepo extracts an owner/repo pair from a github.com URL or the
// bare "owner/repo" shorthand, so the caller can probe the repo's releases
// before falling back to a plain git clone.
func parseGitHubRepo(input string) (owner, repo string, ok bool) {
	if m := githubRepoURLRe.FindStringSubmatch(input); m != nil {
		return m[1], m[2], true
	}
	if strings.Count(input, "/") == 1 && !strings.Contains(input, " ") && !strings.Contains(input, ":") {
		parts := strings.SplitN(input, "/", 2)
		if parts[0] != "" && parts[1] != "" {
			return parts[0], parts[1], true
		}
	}
	return "", "", false
}

type githubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

type githubRelease struct {
	Assets []githubAsset `json:"assets"`
}

var githubReleaseClient = &http.Client{Timeout: 10 * time.Second}

// githubLatestReleaseAsset is a package variable so tests can replace the
// real GitHub API probe with a stub. The default implementation fetches
// owner/repo's latest release and returns the first asset ending in
// ".tar.gz", per spec.md:104's "latest-release .tar.gz asset" rule.
var githubLatestReleaseAsset = func(owner, repo string) (string, bool) {
	url := "https://api.github.com/repos/" + owner + "/" + repo + "/releases/latest"
	resp, err := githubReleaseClient.Get(url)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", false
	}
	for _, a := range release.Assets {
		if strings.HasSuffix(a.Name, ".tar.gz") {
			return a.BrowserDownloadURL, true
		}
	}
	return "", false
}
