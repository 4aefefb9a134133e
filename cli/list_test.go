package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestListCommandOrdersByDependency(t *testing.T) {
	modulesDir := t.TempDir()
	writeTestModule(t, modulesDir, "base", nil)
	writeTestModule(t, modulesDir, "leaf", []string{"base"})

	g := &Globals{ModulesDir: modulesDir}
	r, w, _ := os.Pipe()
	code := ListCommand(ListCommandInput{Stdout: w}, g)
	w.Close()
	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	out := string(buf[:n])

	if code != 0 {
		t.Fatalf("ListCommand exit code = %d", code)
	}
	if strings.Index(out, "base") > strings.Index(out, "leaf") {
		t.Errorf("expected base before leaf in output:\n%s", out)
	}
}

func TestValidateCommandRejectsCycle(t *testing.T) {
	modulesDir := t.TempDir()
	writeTestModule(t, modulesDir, "a", []string{"b"})
	writeTestModule(t, modulesDir, "b", []string{"a"})

	g := &Globals{ModulesDir: modulesDir}
	r, w, _ := os.Pipe()
	code := ValidateCommand(ValidateCommandInput{Stderr: w}, g)
	w.Close()
	buf := make([]byte, 4096)
	r.Read(buf)

	if code == 0 {
		t.Fatal("expected validate to reject a dependency cycle")
	}
}

func TestInitCommandScaffoldsModule(t *testing.T) {
	modulesDir := t.TempDir()
	g := &Globals{ModulesDir: modulesDir}

	code := InitCommand(InitCommandInput{Name: "newmod"}, g)
	if code != 0 {
		t.Fatalf("InitCommand exit code = %d", code)
	}
	if _, err := os.Stat(filepath.Join(modulesDir, "newmod", "module.toml")); err != nil {
		t.Errorf("expected module.toml scaffolded: %v", err)
	}
}

func TestInitCommandRejectsInvalidName(t *testing.T) {
	g := &Globals{ModulesDir: t.TempDir()}
	code := InitCommand(InitCommandInput{Name: "1bad"}, g)
	if code == 0 {
		t.Fatal("expected init to reject an invalid module name")
	}
}
