// Package patterns holds the static, severity-tagged regular-expression
// catalog the scanner matches module files against: generic shell patterns,
// credential-access patterns, and reverse-shell patterns, plus the
// context-downgrade and trusted-module allowlist rules applied after
// matching.
package patterns

import "regexp"

// Severity classifies how a finding affects install: Critical blocks,
// Warning requires confirmation, Info is advisory only.
type Severity string

const (
	Critical Severity = "critical"
	Warning  Severity = "warning"
	Info     Severity = "info"
)

// Pattern is one entry in a catalog: a compiled regular expression, its
// severity, a human description, and whether build-time files downgrade it.
type Pattern struct {
	Name         string
	Severity     Severity
	Regexp       *regexp.Regexp
	Description  string
	Downgradable bool // true unless the pattern is a reverse-shell pattern
}

// CredentialType tags a credential pattern by the kind of secret it detects.
type CredentialType string

const (
	AWSCredentials  CredentialType = "aws_credentials"
	SSHKey          CredentialType = "ssh_key"
	ShellHistory    CredentialType = "shell_history"
	AnthropicAPIKey CredentialType = "anthropic_api_key"
	OpenAIAPIKey    CredentialType = "openai_api_key"
	GenericAPIKey   CredentialType = "generic_api_key"
)

// CredentialPattern is a Pattern tagged with the credential it detects.
// Reading the credential's environment variable directly is always
// critical; file-path access is critical only with exfiltration
// co-occurrence, otherwise warning.
type CredentialPattern struct {
	Pattern
	Credential  CredentialType
	AlwaysCritical bool
}

// ShellType tags a reverse-shell pattern by its technique.
type ShellType string

const (
	BashTCP ShellType = "bash_tcp"
	BashUDP ShellType = "bash_udp"
	Netcat  ShellType = "netcat"
	Socat   ShellType = "socat"
	Python  ShellType = "python"
	Perl    ShellType = "perl"
)

// ReverseShellPattern is a Pattern tagged with its shell technique. Never
// downgradable by context or trust.
type ReverseShellPattern struct {
	Pattern
	Shell ShellType
}
