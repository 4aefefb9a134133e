package scanner

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"

	"github.com/xdarkicex/zephyr/patterns"
)

// Options configures one scan invocation. The decision to let a caller
// proceed past a critical finding (use_unsafe) belongs to the install
// pipeline, not the scanner: Scan always reports what it found.
type Options struct {
	Trusted *patterns.TrustedModules
}

var exfiltrationIndicator = regexp.MustCompile(`\|\s*(curl|wget|nc)\b|>\s*["']?(https?://|/dev/tcp/)`)

// hasExfiltration reports whether line also contains a pipe to
// curl/wget/nc or a redirect to a URL-like destination, per the
// exfiltration co-occurrence rule.
func hasExfiltration(line string) bool {
	return exfiltrationIndicator.MatchString(line)
}

// Scan walks moduleRoot and returns the aggregated Result. moduleName is
// the module's declared name, used for the trusted-module allowlist check
// (not necessarily the root directory's basename).
func Scan(moduleRoot, moduleName string, cat *patterns.Catalog, opts Options) *Result {
	result := &Result{Success: true}

	if _, err := os.Stat(moduleRoot); err != nil {
		result.Success = false
		result.Error = err.Error()
		return result
	}

	evasions, err := walk(moduleRoot, func(relPath, absPath string) error {
		return scanFile(result, cat, relPath, absPath)
	})
	if err != nil {
		result.Success = false
		result.Error = err.Error()
		return result
	}
	result.SymlinkEvasions = evasions
	for _, ev := range evasions {
		result.Findings = append(result.Findings, Finding{
			Pattern:  "symlink_escape",
			Severity: patterns.Critical,
			File:     ev.Path,
			Text:     "path resolves outside the module root",
		})
	}

	trusted := opts.Trusted
	if trusted == nil {
		trusted = patterns.DefaultTrustedModules()
	}
	if trusted.IsTrusted(moduleName) {
		downgradeTrustedCredentials(result)
	}

	recountSeverities(result)
	return result
}

func scanFile(result *Result, cat *patterns.Catalog, relPath, absPath string) error {
	f, err := os.Open(absPath)
	if err != nil {
		return nil // unreadable file; skip rather than abort the whole scan
	}
	defer f.Close()

	base := filepath.Base(relPath)
	buildFile := patterns.IsBuildFile(base)

	var astComments map[int]bool
	if isShellFile(base) {
		if data, err := os.ReadFile(absPath); err == nil {
			astComments, _ = commentLines(data)
		}
		f.Seek(0, 0)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if astComments != nil {
			// The AST marks any line holding a comment; only comment-only
			// lines are skipped, so code before a trailing "#" is scanned.
			if (astComments[lineNo] && patterns.IsCommentOnly(line)) || patterns.IsWhollyStringLiteral(line) {
				continue
			}
		} else if patterns.Skippable(line) {
			continue
		}

		for _, p := range cat.Shell {
			if p.Regexp.MatchString(line) {
				sev := p.Severity
				if buildFile && sev == patterns.Critical {
					sev = patterns.Warning
				}
				result.Findings = append(result.Findings, Finding{
					Pattern: p.Name, Severity: sev, File: relPath, Line: lineNo, Text: line,
				})
			}
		}

		for _, cp := range cat.Credentials {
			if cp.Regexp.MatchString(line) {
				sev := cp.Severity
				exfil := hasExfiltration(line)
				if exfil && !cp.AlwaysCritical {
					sev = patterns.Critical
				}
				if buildFile && sev == patterns.Critical && !cp.AlwaysCritical {
					sev = patterns.Warning
				}
				result.Credentials = append(result.Credentials, CredentialFinding{
					Finding: Finding{
						Pattern: cp.Name, Severity: sev, File: relPath, Line: lineNo, Text: line,
					},
					Credential:      cp.Credential,
					HasExfiltration: exfil,
				})
			}
		}

		for _, rp := range cat.ReverseShells {
			if rp.Regexp.MatchString(line) {
				result.ReverseShells = append(result.ReverseShells, ReverseShellFinding{
					Finding: Finding{
						Pattern: rp.Name, Severity: patterns.Critical, File: relPath, Line: lineNo, Text: line,
					},
					Shell: rp.Shell,
				})
			}
		}
	}
	return nil
}

func downgradeTrustedCredentials(result *Result) {
	for i := range result.Credentials {
		if result.Credentials[i].Severity == patterns.Warning {
			result.Credentials[i].Severity = patterns.Info
		}
	}
	result.TrustedModuleApplied = true
}

func recountSeverities(result *Result) {
	result.CriticalCount, result.WarningCount, result.InfoCount = 0, 0, 0
	count := func(sev patterns.Severity) {
		switch sev {
		case patterns.Critical:
			result.CriticalCount++
		case patterns.Warning:
			result.WarningCount++
		case patterns.Info:
			result.InfoCount++
		}
	}
	for _, f := range result.Findings {
		count(f.Severity)
	}
	for _, c := range result.Credentials {
		count(c.Severity)
	}
	for _, r := range result.ReverseShells {
		count(r.Severity)
	}
}
