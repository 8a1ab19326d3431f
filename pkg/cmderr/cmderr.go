// Package cmderr defines the error kinds produced while resolving and
// executing shell commands. Every kind is recoverable: the shell prints the
// message and returns to the prompt.
package cmderr

import (
	"errors"
	"fmt"
)

// Kind classifies a command failure.
type Kind int

const (
	// ModeViolation: the command or subcommand exists but not in this mode.
	ModeViolation Kind = iota + 1
	// Ambiguous: an abbreviation matched more than one candidate.
	Ambiguous
	// UnknownCommand: no registered command matches the token.
	UnknownCommand
	// ArgumentFormat: bad arity, address, mask, hostname or date.
	ArgumentFormat
	// ExternalCommand: a child process failed to start or exited non-zero.
	ExternalCommand
	// Unavailable: an optional collaborator such as the clock is absent.
	Unavailable
	// NoParentMode: exit was requested at the root mode.
	NoParentMode
	// WrongMode: a mode transition was requested from a non-parent mode.
	WrongMode
)

var kindNames = map[Kind]string{
	ModeViolation:   "mode-violation",
	Ambiguous:       "ambiguous",
	UnknownCommand:  "unknown-command",
	ArgumentFormat:  "argument-format",
	ExternalCommand: "external-command",
	Unavailable:     "unavailable",
	NoParentMode:    "no-parent-mode",
	WrongMode:       "wrong-mode",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified command failure. Msg is shown to the user verbatim.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so errors.Is(err,
// &cmderr.Error{Kind: cmderr.Ambiguous}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Msg == "" && t.Err == nil && t.Kind == e.Kind
}

func newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Modef returns a ModeViolation error.
func Modef(format string, args ...any) error { return newf(ModeViolation, format, args...) }

// Usagef returns an ArgumentFormat error.
func Usagef(format string, args ...any) error { return newf(ArgumentFormat, format, args...) }

// Ambiguousf returns an Ambiguous error.
func Ambiguousf(format string, args ...any) error { return newf(Ambiguous, format, args...) }

// Unknownf returns an UnknownCommand error.
func Unknownf(format string, args ...any) error { return newf(UnknownCommand, format, args...) }

// Unavailablef returns an Unavailable error.
func Unavailablef(format string, args ...any) error { return newf(Unavailable, format, args...) }

// WrongModef returns a WrongMode error.
func WrongModef(format string, args ...any) error { return newf(WrongMode, format, args...) }

// NoParent is returned when exiting the root mode.
var NoParent error = &Error{Kind: NoParentMode, Msg: "No mode to exit."}

// External wraps a process failure with its user-facing message.
func External(err error, format string, args ...any) error {
	return &Error{Kind: ExternalCommand, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or 0 when err is not a classified error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries kind k anywhere in its chain.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
