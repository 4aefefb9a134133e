package cli

import (
	"strings"
	"testing"

	"github.com/xdarkicex/zephyr/audit"
)

func TestDispatchLogsCommandEvent(t *testing.T) {
	home := t.TempDir()
	logger, err := audit.New(home)
	if err != nil {
		t.Fatal(err)
	}
	g := &Globals{Logger: logger}

	code := g.Dispatch(func() int { return 7 })
	if code != 7 {
		t.Errorf("Dispatch returned %d, want 7 (fn's exit code passed through)", code)
	}

	lines, err := logger.ReadStream("commands", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d command log lines, want 1", len(lines))
	}
	if !strings.Contains(lines[0], `"exit_code":7`) {
		t.Errorf("expected exit_code 7 in event, got: %s", lines[0])
	}
}

func TestDispatchSkipsLoggingWithoutLogger(t *testing.T) {
	g := &Globals{}
	code := g.Dispatch(func() int { return 0 })
	if code != 0 {
		t.Errorf("Dispatch returned %d, want 0", code)
	}
}
