// Package scanner implements the Security Scanner: it walks a module's file
// tree, applies the pattern catalog line by line, and aggregates the
// matches into a Result that the install pipeline gates on.
package scanner

import "github.com/xdarkicex/zephyr/patterns"

// Finding is a single pattern match: the pattern name, its severity, the
// file path relative to the module root, the 1-based line number, and the
// matched line's text.
type Finding struct {
	Pattern  string
	Severity patterns.Severity
	File     string
	Line     int
	Text     string
}

// CredentialFinding adds the credential type and exfiltration co-occurrence
// flag to a Finding.
type CredentialFinding struct {
	Finding
	Credential       patterns.CredentialType
	HasExfiltration bool
}

// ReverseShellFinding adds the shell technique to a Finding.
type ReverseShellFinding struct {
	Finding
	Shell patterns.ShellType
}

// SymlinkEvasion records a path within the module root whose target
// resolves outside it.
type SymlinkEvasion struct {
	Path     string
	Resolved string
}

// Result is the output of one scan: the ordered finding sequences per
// variant, severity counts, the trusted-module flag, and a success/error
// pair for scan-level failures (e.g. the module root does not exist).
type Result struct {
	Findings       []Finding
	Credentials    []CredentialFinding
	ReverseShells  []ReverseShellFinding
	SymlinkEvasions []SymlinkEvasion

	CriticalCount int
	WarningCount  int
	InfoCount     int

	TrustedModuleApplied bool

	Success bool
	Error   string
}

// HasCritical reports whether the result contains any critical finding
// after all downgrades, the condition the install pipeline gates on.
func (r *Result) HasCritical() bool {
	return r.CriticalCount > 0
}
