package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/xdarkicex/zephyr/audit"
	"github.com/xdarkicex/zephyr/session"
)

// RegisterSessionCommandInput contains the input for the register-session
// command.
type RegisterSessionCommandInput struct {
	AgentID   string
	AgentType string
	SessionID string
	Parent    string

	Stdout *os.File
	Stderr *os.File
}

// ConfigureRegisterSessionCommand sets up the register-session command.
func ConfigureRegisterSessionCommand(app *kingpin.Application, g *Globals) {
	input := RegisterSessionCommandInput{}

	cmd := app.Command("register-session", "Register a caller identity in the session registry")
	cmd.Flag("agent-id", "free-form caller identifier").Required().StringVar(&input.AgentID)
	cmd.Flag("agent-type", "human, claude-code, cursor, github-copilot, vscode, windsurf, or aider").
		Default(string(session.Human)).StringVar(&input.AgentType)
	cmd.Flag("session-id", "16-char lowercase hex session id; generated if omitted").StringVar(&input.SessionID)
	cmd.Flag("parent", "parent process name").StringVar(&input.Parent)

	cmd.Action(func(*kingpin.ParseContext) error {
		os.Exit(g.Dispatch(func() int { return RegisterSessionCommand(input, g) }))
		return nil
	})
}

// RegisterSessionCommand registers a session, emits a session audit event,
// and prints the session id for the caller's rc file to export as
// ZEPHYR_SESSION_ID.
func RegisterSessionCommand(input RegisterSessionCommandInput, g *Globals) int {
	stdout := stdoutOf(input.Stdout)
	stderr := stderrOf(input.Stderr)

	id := input.SessionID
	if id == "" {
		id = session.NewSessionID()
	} else if !session.ValidateSessionID(id) {
		fmt.Fprintf(stderr, "register-session failed: %q is not a valid session id\n", id)
		return 1
	}

	s := session.Register(input.AgentID, session.AgentType(input.AgentType), id, input.Parent)

	if g.Logger != nil {
		g.Logger.LogSession(audit.SessionEvent{
			Timestamp:     s.StartedAt,
			SessionID:     s.ID,
			AgentID:       s.AgentID,
			AgentType:     string(s.AgentType),
			Role:          string(s.Role),
			ParentProcess: s.ParentProcess,
		})
	}

	fmt.Fprintln(stdout, s.ID)
	return 0
}

// SessionCommandInput contains the input for the session command.
type SessionCommandInput struct {
	Stdout *os.File
	Stderr *os.File
}

// ConfigureSessionCommand sets up the session command.
func ConfigureSessionCommand(app *kingpin.Application, g *Globals) {
	input := SessionCommandInput{}
	app.Command("session", "Show the current session").Action(func(*kingpin.ParseContext) error {
		os.Exit(g.Dispatch(func() int { return SessionCommand(input, g) }))
		return nil
	})
}

// SessionCommand prints the session registered under ZEPHYR_SESSION_ID, if
// any.
func SessionCommand(input SessionCommandInput, g *Globals) int {
	stdout := stdoutOf(input.Stdout)
	stderr := stderrOf(input.Stderr)

	s, ok := session.Current()
	if !ok {
		fmt.Fprintln(stderr, "no current session")
		return 1
	}
	fmt.Fprintf(stdout, "%s  agent=%s type=%s role=%s\n", s.ID, s.AgentID, s.AgentType, s.Role)
	return 0
}

// SessionsCommandInput contains the input for the sessions command.
type SessionsCommandInput struct {
	Stdout *os.File
	Stderr *os.File
}

// ConfigureSessionsCommand sets up the sessions command.
func ConfigureSessionsCommand(app *kingpin.Application, g *Globals) {
	input := SessionsCommandInput{}
	app.Command("sessions", "List every registered session").Action(func(*kingpin.ParseContext) error {
		os.Exit(g.Dispatch(func() int { return SessionsCommand(input, g) }))
		return nil
	})
}

// SessionsCommand lists every registered session, oldest first.
func SessionsCommand(input SessionsCommandInput, g *Globals) int {
	stdout := stdoutOf(input.Stdout)

	for _, s := range session.All() {
		fmt.Fprintf(stdout, "%s  agent=%s type=%s role=%s started=%s\n",
			s.ID, s.AgentID, s.AgentType, s.Role, s.StartedAt.Format("2006-01-02T15:04:05Z"))
	}
	return 0
}
