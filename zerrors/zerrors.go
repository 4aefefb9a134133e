// Package zerrors provides structured error types for zephyr's core
// subsystems. Every fallible component returns either a *Error or a plain
// error produced by the standard library; *Error carries enough context for
// the install/uninstall pipelines to translate failures into audit events
// and human-readable output without string-matching on messages.
package zerrors

import "fmt"

// Kind classifies an error by the taxonomy in the zephyr design: each kind
// has a distinct retry/audit/exit-code treatment.
type Kind string

const (
	// Transport covers network, git, and disk-read failures. Retried once
	// at the acquire step; otherwise surfaced with the remote's message.
	Transport Kind = "transport"
	// Verification covers signature and checksum mismatches. Always fatal
	// for the install pipeline.
	Verification Kind = "verification"
	// Security covers critical scan findings and symlink escapes. Fatal
	// unless an unsafe override is authorized.
	Security Kind = "security"
	// Validation covers malformed manifests, empty names, duplicate names.
	Validation Kind = "validation"
	// Dependency covers missing required deps and circular deps.
	Dependency Kind = "dependency"
	// Policy covers role-forbidden operations.
	Policy Kind = "policy"
	// Filesystem covers rename-across-device and permission-denied errors.
	// Treated like Transport (no retry).
	Filesystem Kind = "filesystem"
)

// Error is zephyr's structured error type. It always has a Kind and a
// human-readable Message; Suggestion and Cause are optional.
type Error struct {
	Kind       Kind
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error of the given kind.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap builds an Error of the given kind around an existing error.
func Wrap(kind Kind, code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Cause: cause}
}

// WithSuggestion returns a copy of e with Suggestion set.
func (e *Error) WithSuggestion(s string) *Error {
	cp := *e
	cp.Suggestion = s
	return &cp
}

// As reports whether err is (or wraps) a *Error, writing it into target.
func As(err error, target **Error) bool {
	for err != nil {
		if se, ok := err.(*Error); ok {
			*target = se
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// KindOf returns the Kind of err, or the empty Kind if err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if As(err, &e) {
		return e.Kind
	}
	return ""
}

// AuditResult maps an error's Kind to the audit `result` field used by the
// install/uninstall pipelines: Verification and Security errors are
// "blocked", every other non-nil error is "failed", and only a nil error
// is "success".
func AuditResult(err error) string {
	switch KindOf(err) {
	case Verification, Security:
		return "blocked"
	case Validation, Filesystem, Dependency, Transport:
		return "failed"
	case Policy:
		return "failed"
	default:
		if err != nil {
			return "failed"
		}
		return "success"
	}
}
