package patterns

import "regexp"

// buildFileNames names files whose critical findings downgrade to warning,
// except reverse shells.
var buildFileNames = map[string]bool{
	"Makefile":    true,
	"build.sh":    true,
	"install.sh":  true,
	"setup.sh":    true,
	"package.json": true,
}

// IsBuildFile reports whether base (a file's basename) is a build-time
// file eligible for critical-to-warning context downgrade.
func IsBuildFile(base string) bool {
	return buildFileNames[base]
}

// Catalog holds the three compiled sub-catalogs for one scan. It is
// compiled once per scan invocation (Compile), never at process startup and
// never per file, per the scanner's timing requirement.
type Catalog struct {
	Shell       []Pattern
	Credentials []CredentialPattern
	ReverseShells []ReverseShellPattern
}

func mustPattern(name string, sev Severity, expr, desc string) Pattern {
	return Pattern{
		Name:         name,
		Severity:     sev,
		Regexp:       regexp.MustCompile(expr),
		Description:  desc,
		Downgradable: true,
	}
}

// Compile builds a fresh Catalog, compiling every regular expression. Call
// once per scan and reuse across all files in that scan.
func Compile() *Catalog {
	return &Catalog{
		Shell:         compileShellPatterns(),
		Credentials:   compileCredentialPatterns(),
		ReverseShells: compileReverseShellPatterns(),
	}
}

func compileShellPatterns() []Pattern {
	return []Pattern{
		mustPattern("pipe_curl_shell", Critical,
			`\bcurl\b[^|;&\n]*\|\s*(sudo\s+)?(ba)?sh\b`,
			"curl output piped directly into a shell"),
		mustPattern("pipe_wget_shell", Critical,
			`\bwget\b[^|;&\n]*\|\s*(sudo\s+)?(ba)?sh\b`,
			"wget output piped directly into a shell"),
		mustPattern("eval_curl_subst", Critical,
			`\beval\s+["']?\$\(\s*curl\b`,
			"eval of command-substituted curl output"),
		mustPattern("base64_decode_exec", Critical,
			`base64\s+(-d|--decode)[^|;&\n]*\|\s*(sudo\s+)?(ba)?sh\b`,
			"base64-decoded payload piped to a shell"),
		mustPattern("command_subst_shell_feed", Critical,
			`\$\([^)]*\)\s*\|\s*(sudo\s+)?(ba)?sh\b`,
			"command substitution output fed into a shell"),
		mustPattern("rm_rf_root", Critical,
			`\brm\s+-[a-zA-Z]*r[a-zA-Z]*f[a-zA-Z]*\s+(--no-preserve-root\s+)?/\s*($|[;&|])`,
			"recursive force-remove of the filesystem root"),
		mustPattern("raw_device_write", Critical,
			`\bdd\s+if=/dev/(zero|urandom|random)\s+of=/dev/sd[a-z]`,
			"raw write to a block device"),
		mustPattern("whoami_chained", Critical,
			`\$\(whoami\)\s*(&&|\|\||\||;)`,
			"whoami substitution chained into a following command"),
		mustPattern("hex_octal_curl_obfuscation", Critical,
			`\\x63\\x75\\x72\\x6c|\\143\\165\\162\\154`,
			"hex/octal escape obfuscation of curl"),

		mustPattern("plain_http_fetch", Warning,
			`\b(curl|wget)\s+(-[a-zA-Z]+\s+)*https?://`,
			"plain HTTP(S) fetch without execution"),
		mustPattern("chmod_setuid", Warning,
			`\bchmod\s+([0-7]*[24][0-7]{2}|[ugo]*\+s)\b`,
			"chmod sets the setuid/setgid bit"),
		mustPattern("sudo_invocation", Warning,
			`\bsudo\s+\S`,
			"command run under sudo"),
		mustPattern("append_shell_rc", Warning,
			`>>\s*~?/?\.?(bashrc|zshrc|bash_profile|profile|zprofile)\b`,
			"appends to a shell startup file"),
	}
}

func credPattern(name string, cred CredentialType, alwaysCritical bool, expr, desc string) CredentialPattern {
	sev := Warning
	if alwaysCritical {
		sev = Critical
	}
	return CredentialPattern{
		Pattern: Pattern{
			Name:         name,
			Severity:     sev,
			Regexp:       regexp.MustCompile(expr),
			Description:  desc,
			Downgradable: true,
		},
		Credential:     cred,
		AlwaysCritical: alwaysCritical,
	}
}

func compileCredentialPatterns() []CredentialPattern {
	return []CredentialPattern{
		credPattern("aws_credentials_file", AWSCredentials, false,
			`~/\.aws/credentials\b`,
			"reads the AWS credentials file"),
		credPattern("ssh_private_key", SSHKey, false,
			`~/\.ssh/id_(rsa|dsa|ecdsa|ed25519)\b`,
			"reads an SSH private key"),
		credPattern("shell_history", ShellHistory, false,
			`~/\.(bash_history|zsh_history)\b`,
			"reads shell history"),
		credPattern("anthropic_api_key_env", AnthropicAPIKey, true,
			`\$\{?ANTHROPIC_API_KEY\}?\b`,
			"reads the Anthropic API key from the environment"),
		credPattern("openai_api_key_env", OpenAIAPIKey, true,
			`\$\{?OPENAI_API_KEY\}?\b`,
			"reads the OpenAI API key from the environment"),
	}
}

func rsPattern(name string, shell ShellType, expr, desc string) ReverseShellPattern {
	return ReverseShellPattern{
		Pattern: Pattern{
			Name:         name,
			Severity:     Critical,
			Regexp:       regexp.MustCompile(expr),
			Description:  desc,
			Downgradable: false,
		},
		Shell: shell,
	}
}

func compileReverseShellPatterns() []ReverseShellPattern {
	return []ReverseShellPattern{
		rsPattern("bash_tcp_reverse_shell", BashTCP,
			`/dev/tcp/[^/\s]+/\d+`,
			"bash TCP device reverse shell"),
		rsPattern("bash_udp_reverse_shell", BashUDP,
			`/dev/udp/[^/\s]+/\d+`,
			"bash UDP device reverse shell"),
		rsPattern("netcat_exec_reverse_shell", Netcat,
			`\bnc\b[^|;&\n]*-e\s+\S*sh\b`,
			"netcat with -e spawning a shell"),
		rsPattern("socat_exec_reverse_shell", Socat,
			`\bsocat\b[^|;&\n]*exec:[^,\s]*sh\b`,
			"socat exec-ing a shell"),
		rsPattern("python_socket_subprocess", Python,
			`import\s+socket.{0,200}import\s+subprocess|import\s+subprocess.{0,200}import\s+socket`,
			"python socket+subprocess reverse shell"),
		rsPattern("perl_socket_oneliner", Perl,
			`use\s+Socket\s*;.*(exec|system)\s*\(`,
			"perl Socket one-liner reverse shell"),
	}
}
