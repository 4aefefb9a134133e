package shellbackend

import "testing"

func TestForReturnsDistinctBackends(t *testing.T) {
	bash := For(Bash)
	zsh := For(Zsh)

	if bash.FunctionExistsCheck("foo") == zsh.FunctionExistsCheck("foo") {
		t.Error("bash and zsh function-exists checks should differ")
	}
}

func TestDetectFromShellEnv(t *testing.T) {
	if _, ok := Detect("/bin/zsh").(zshBackend); !ok {
		t.Error("Detect(/bin/zsh) should return the zsh backend")
	}
	if _, ok := Detect("/bin/bash").(bashBackend); !ok {
		t.Error("Detect(/bin/bash) should return the bash backend")
	}
	if _, ok := Detect("").(bashBackend); !ok {
		t.Error("Detect('') should fall back to bash")
	}
}

func TestSourceCommandQuotesPath(t *testing.T) {
	b := For(Bash)
	got := b.SourceCommand("/a b/c.sh")
	if got != `source "/a b/c.sh"` {
		t.Errorf("SourceCommand = %q", got)
	}
}
