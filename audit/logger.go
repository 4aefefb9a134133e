// Package audit writes zephyr's three JSON-Lines audit streams under
// $HOME/.zephyr/audit/: sessions/, commands/<date>/, and
// operations/<date>/operations.log.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Logger writes structured audit events as JSON Lines. Directory creation
// is lazy: a stream's directory is created on first write, not at
// construction.
type Logger struct {
	root string // $HOME/.zephyr/audit
}

// New returns a Logger rooted at $HOME/.zephyr/audit. home may be supplied
// explicitly (tests) or left empty to use os.UserHomeDir.
func New(home string) (*Logger, error) {
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("audit: resolve home: %w", err)
		}
		home = h
	}
	return &Logger{root: filepath.Join(home, ".zephyr", "audit")}, nil
}

func (l *Logger) appendLine(dir, file string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("audit: mkdir %s: %w", dir, err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("audit: marshal: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, file), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("audit: open %s: %w", file, err)
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("audit: write %s: %w", file, err)
	}
	return nil
}

// SessionEvent is the record written to sessions/ on registration.
type SessionEvent struct {
	Timestamp     time.Time `json:"timestamp"`
	SessionID     string    `json:"session_id"`
	AgentID       string    `json:"agent_id"`
	AgentType     string    `json:"agent_type"`
	Role          string    `json:"role"`
	ParentProcess string    `json:"parent_process"`
}

// LogSession writes one sessions/<sid>-<iso8601>.log file containing a
// single line, per the session-log scenario.
func (l *Logger) LogSession(ev SessionEvent) error {
	dir := filepath.Join(l.root, "sessions")
	iso := ev.Timestamp.UTC().Format("20060102T150405Z")
	file := fmt.Sprintf("%s-%s.log", ev.SessionID, iso)
	return l.appendLine(dir, file, ev)
}

// CommandEvent is one line appended to commands/<date>/<command-id>.log.
type CommandEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	SessionID   string    `json:"session_id"`
	AgentType   string    `json:"agent_type"`
	Role        string    `json:"role"`
	Command     string    `json:"command"`
	ScanResult  string    `json:"scan_result,omitempty"`
	ExitCode    int       `json:"exit_code"`
}

// LogCommand appends ev to commands/<YYYY-MM-DD>/<commandID>.log.
func (l *Logger) LogCommand(commandID string, ev CommandEvent) error {
	date := ev.Timestamp.UTC().Format("2006-01-02")
	dir := filepath.Join(l.root, "commands", date)
	return l.appendLine(dir, commandID+".log", ev)
}

// OperationEvent is one line appended to operations/<date>/operations.log.
type OperationEvent struct {
	Timestamp         time.Time `json:"timestamp"`
	SessionID         string    `json:"session_id"`
	AgentType         string    `json:"agent_type"`
	Role              string    `json:"role"`
	Action            string    `json:"action"` // install|update|uninstall|upgrade
	Module            string    `json:"module"`
	Source            string    `json:"source,omitempty"`
	Result            string    `json:"result"` // success|blocked|failed
	Reason            string    `json:"reason,omitempty"`
	SignatureVerified bool      `json:"signature_verified"`
}

// LogOperation appends ev to today's operations/<date>/operations.log.
func (l *Logger) LogOperation(ev OperationEvent) error {
	date := ev.Timestamp.UTC().Format("2006-01-02")
	dir := filepath.Join(l.root, "operations", date)
	return l.appendLine(dir, "operations.log", ev)
}

// CleanupOldAuditLogs removes date-named subdirectories of commands/ and
// operations/ strictly older than now-maxAgeDays, preserving today and any
// future-dated directory. maxAgeDays of 0 removes everything strictly
// before today.
func (l *Logger) CleanupOldAuditLogs(maxAgeDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -maxAgeDays).Format("2006-01-02")

	for _, stream := range []string{"commands", "operations"} {
		dir := filepath.Join(l.root, stream)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("audit: read %s: %w", dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if e.Name() < cutoff {
				if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
					return fmt.Errorf("audit: remove %s: %w", e.Name(), err)
				}
			}
		}
	}
	return nil
}
