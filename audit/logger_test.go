package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogSessionWritesSingleFile(t *testing.T) {
	home := t.TempDir()
	l, err := New(home)
	if err != nil {
		t.Fatal(err)
	}

	err = l.LogSession(SessionEvent{
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		SessionID: "sess-1",
		AgentID:   "agent-1",
		AgentType: "claude-code",
		Role:      "agent",
	})
	if err != nil {
		t.Fatalf("LogSession: %v", err)
	}

	dir := filepath.Join(home, ".zephyr", "audit", "sessions")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d files, want 1", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.Contains(content, `"session_id":"sess-1"`) {
		t.Errorf("missing session_id field: %s", content)
	}
	if !strings.Contains(content, `"agent_type":"claude-code"`) {
		t.Errorf("missing agent_type field: %s", content)
	}
}

func TestLogOperationAppendsNotTruncates(t *testing.T) {
	home := t.TempDir()
	l, err := New(home)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		if err := l.LogOperation(OperationEvent{Timestamp: now, Action: "install", Module: "git", Result: "success"}); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(home, ".zephyr", "audit", "operations", now.Format("2006-01-02"), "operations.log")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Errorf("got %d lines, want 3", len(lines))
	}
}

func TestCleanupOldAuditLogsPreservesTodayAndFuture(t *testing.T) {
	home := t.TempDir()
	l, err := New(home)
	if err != nil {
		t.Fatal(err)
	}

	opsDir := filepath.Join(home, ".zephyr", "audit", "operations")
	old := filepath.Join(opsDir, "2000-01-01")
	today := filepath.Join(opsDir, time.Now().UTC().Format("2006-01-02"))
	future := filepath.Join(opsDir, "2999-01-01")

	for _, d := range []string{old, today, future} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	if err := l.CleanupOldAuditLogs(0); err != nil {
		t.Fatalf("CleanupOldAuditLogs: %v", err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("expected old directory to be removed")
	}
	if _, err := os.Stat(today); err != nil {
		t.Error("expected today's directory to be preserved")
	}
	if _, err := os.Stat(future); err != nil {
		t.Error("expected future directory to be preserved")
	}
}

func TestLogCommandLazyDirectoryCreation(t *testing.T) {
	home := t.TempDir()
	l, err := New(home)
	if err != nil {
		t.Fatal(err)
	}

	commandsDir := filepath.Join(home, ".zephyr", "audit", "commands")
	if _, err := os.Stat(commandsDir); !os.IsNotExist(err) {
		t.Fatal("commands directory should not exist before first write")
	}

	now := time.Now().UTC()
	if err := l.LogCommand("cmd-1", CommandEvent{Timestamp: now, Command: "zephyr install git", ExitCode: 0}); err != nil {
		t.Fatalf("LogCommand: %v", err)
	}
	if _, err := os.Stat(commandsDir); err != nil {
		t.Error("commands directory should exist after first write")
	}
}
