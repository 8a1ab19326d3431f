// Package cli implements the mode-scoped command shell: dispatch,
// completion, the command handlers and the interactive loop.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/psaab/netshell/pkg/clock"
	"github.com/psaab/netshell/pkg/cmderr"
	"github.com/psaab/netshell/pkg/cmdtree"
	"github.com/psaab/netshell/pkg/metrics"
	"github.com/psaab/netshell/pkg/mode"
	"github.com/psaab/netshell/pkg/session"
)

// Loop-control sentinels returned by handlers.
var (
	errExitCLI = errors.New("exit cli")
	errHangup  = errors.New("exit ssh")
)

// stems that may be dispatched without a subcommand even when the command
// declares an argument vocabulary
var bareStems = []string{"en", "int", "di"}

// Engine resolves lines against the registry and runs handlers.
type Engine struct {
	Registry *cmdtree.Registry
	Metrics  *metrics.Metrics
	Out      io.Writer // query listings
	Err      io.Writer // error messages
}

// Dispatch runs one input line. A line ending in '?' is answered as a
// completion query instead of being executed.
func (e *Engine) Dispatch(line string, s *session.Session, clk *clock.Clock) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if strings.HasSuffix(line, "?") {
		e.WriteQuery(e.Out, strings.TrimSuffix(line, "?"), s)
		return nil
	}

	parts := strings.Fields(line)
	d, err := e.resolveCommand(parts[0], s)
	if err != nil {
		e.Metrics.CommandDone("", s.Mode.String(), resultLabel(err))
		return err
	}

	args := parts[1:]
	if len(d.ArgSuggest) > 0 {
		switch len(args) {
		case 0:
			if !hasAnyPrefix(parts[0], bareStems) {
				err = cmderr.Usagef("Incomplete command. Subcommand required.")
			}
		case 1:
			m := e.resolveArg(d, args[0], s.Mode)
			if m.Kind != cmdtree.Unique {
				err = cmderr.Usagef("Ambiguous or invalid subcommand: %s", args[0])
			} else {
				args = []string{m.Name}
			}
		}
	}
	from := s.Mode
	if err == nil {
		slog.Debug("dispatch", "command", d.Name, "args", args, "mode", from.String())
		err = d.Handler.Execute(args, s, clk)
	}
	e.Metrics.CommandDone(d.Name, from.String(), resultLabel(err))
	return err
}

// resolveArg resolves a lone argument against the list completion offers
// for d in mode m, then against the mode-independent vocabulary.
func (e *Engine) resolveArg(d *cmdtree.Descriptor, arg string, m mode.Mode) cmdtree.PrefixMatch {
	if names, ok := e.Registry.Hints().Override(d.Name, m); ok && len(names) > 0 {
		if pm := cmdtree.Resolve(arg, names); pm.Kind == cmdtree.Unique {
			return pm
		}
	}
	return cmdtree.Resolve(arg, d.ArgSuggest)
}

// resolveCommand maps the first token to a descriptor legal in the
// session's mode.
func (e *Engine) resolveCommand(token string, s *session.Session) (*cmdtree.Descriptor, error) {
	m := cmdtree.Resolve(token, e.Registry.Legal(s.Mode))
	switch m.Kind {
	case cmdtree.Ambiguous:
		return nil, cmderr.Ambiguousf("Ambiguous command: %s (%s)", token, strings.Join(m.Matches, ", "))
	case cmdtree.NoMatch:
		if reg := cmdtree.Resolve(token, e.Registry.Names()); reg.Kind != cmdtree.NoMatch {
			return nil, cmderr.Modef("Command '%s' is not available in %s mode.", token, s.Graph.Name(s.Mode))
		}
		return nil, cmderr.Unknownf("Unrecognized command: %s", token)
	}
	d, ok := e.Registry.Lookup(m.Name)
	if !ok {
		return nil, cmderr.Unknownf("Unrecognized command: %s", token)
	}
	return d, nil
}

// Execute dispatches line and reports any recoverable error on e.Err. It
// returns only the loop-control sentinels.
func (e *Engine) Execute(line string, s *session.Session, clk *clock.Clock) error {
	err := e.Dispatch(line, s, clk)
	if err == nil || errors.Is(err, errExitCLI) || errors.Is(err, errHangup) {
		return err
	}
	fmt.Fprintf(e.Err, "error: %v\n", err)
	return nil
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if k := cmderr.KindOf(err); k != 0 {
		return k.String()
	}
	return "error"
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
