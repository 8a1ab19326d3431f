// Package session holds the state of one interactive shell session: the
// current mode, the rendered prompt, and the device-level configuration
// that commands such as hostname and enable password change.
package session

import (
	"time"

	"github.com/psaab/netshell/pkg/cmderr"
	"github.com/psaab/netshell/pkg/mode"
)

// DefaultHostname is the hostname a fresh session starts with.
const DefaultHostname = "Network"

// Config is the session configuration rendered into the running config.
type Config struct {
	Hostname           string
	EnablePassword     string // SHA-256 hex digest, empty when unset
	EnableSecret       string // SHA-256 hex digest, empty when unset
	PasswordEncryption bool
	LastWritten        time.Time
}

// Session is the mutable per-shell state. It is owned by the shell loop
// goroutine and is not safe for concurrent use.
type Session struct {
	Graph  *mode.Graph
	Mode   mode.Mode
	Prompt string
	Config Config

	// OnTransition, when set, observes every mode change.
	OnTransition func(from, to mode.Mode)
}

// New returns a session at the root of g with the default hostname.
func New(g *mode.Graph) *Session {
	s := &Session{
		Graph:  g,
		Mode:   g.Root(),
		Config: Config{Hostname: DefaultHostname},
	}
	s.refreshPrompt()
	return s
}

func (s *Session) refreshPrompt() {
	s.Prompt = s.Graph.Prompt(s.Config.Hostname, s.Mode)
}

func (s *Session) set(m mode.Mode) {
	from := s.Mode
	s.Mode = m
	s.refreshPrompt()
	if s.OnTransition != nil && from != m {
		s.OnTransition(from, m)
	}
}

// Enter switches to m. It fails with a WrongMode error unless the current
// mode is m's parent or m itself.
func (s *Session) Enter(m mode.Mode) error {
	if !s.Graph.CanEnter(s.Mode, m) {
		want := "the top level"
		if p, ok := s.Graph.Parent(m); ok {
			want = s.Graph.Name(p) + " mode"
		}
		return cmderr.WrongModef("%s mode can only be entered from %s (current mode: %s).",
			s.Graph.Name(m), want, s.Graph.Name(s.Mode))
	}
	s.set(m)
	return nil
}

// Exit moves to the parent mode and returns the mode that was left.
// At the root it returns cmderr.NoParent and leaves the session unchanged.
func (s *Session) Exit() (left mode.Mode, err error) {
	p, ok := s.Graph.Parent(s.Mode)
	if !ok {
		return s.Mode, cmderr.NoParent
	}
	left = s.Mode
	s.set(p)
	return left, nil
}

// ReturnTo forces the session into m regardless of the current mode. Only
// the interrupt path uses it.
func (s *Session) ReturnTo(m mode.Mode) {
	s.set(m)
}

// SetHostname changes the hostname and re-renders the prompt.
func (s *Session) SetHostname(name string) {
	s.Config.Hostname = name
	s.refreshPrompt()
}

// In reports whether the session is in any of the given modes.
func (s *Session) In(modes ...mode.Mode) bool {
	for _, m := range modes {
		if s.Mode == m {
			return true
		}
	}
	return false
}
