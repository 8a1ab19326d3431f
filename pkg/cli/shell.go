package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"

	"github.com/chzyer/readline"
	"golang.org/x/sys/unix"

	"github.com/psaab/netshell/pkg/clock"
	"github.com/psaab/netshell/pkg/cmdtree"
	"github.com/psaab/netshell/pkg/metrics"
	"github.com/psaab/netshell/pkg/mode"
	"github.com/psaab/netshell/pkg/session"
)

const banner = `
      ____  _   _ _____    ____ _     ___
     |  _ \| \ | |  ___|  / ___| |   |_ _|
     | |_) |  \| | |_    | |   | |    | |
     |  __/| |\  |  _|   | |___| |___ | |
     |_|   |_| \_|_|      \____|_____|___|
`

// Shell runs the read-dispatch loop for one session.
type Shell struct {
	Engine   *Engine
	Session  *session.Session
	Clock    *clock.Clock
	Services *Services

	HistoryFile string
	Stdin       io.ReadCloser
	Stdout      io.Writer
	Stderr      io.Writer

	rl *readline.Instance

	// set by the signal goroutine, consumed by the loop before each read
	interrupted atomic.Bool
	mode        atomic.Int32
}

// NewShell ties a session to an engine. Mode changes are mirrored so that
// metrics scrapes never touch the session directly.
func NewShell(e *Engine, s *session.Session, clk *clock.Clock, svc *Services) *Shell {
	sh := &Shell{
		Engine:      e,
		Session:     s,
		Clock:       clk,
		Services:    svc,
		HistoryFile: svc.HistoryPath,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
	sh.mode.Store(int32(s.Mode))
	prev := s.OnTransition
	s.OnTransition = func(from, to mode.Mode) {
		sh.mode.Store(int32(to))
		e.Metrics.Transition(from.String(), to.String())
		slog.Debug("mode transition", "from", from.String(), "to", to.String())
		if prev != nil {
			prev(from, to)
		}
	}
	return sh
}

// State samples the appliance state for the metrics collector. It is safe
// to call from any goroutine.
func (sh *Shell) State() metrics.State {
	snap := sh.Services.State.Snapshot()
	st := metrics.State{
		Mode:      mode.Mode(sh.mode.Load()).String(),
		Addresses: len(snap.Addresses),
		Routes:    len(snap.Routes),
		Features:  len(snap.Features),
	}
	for _, up := range snap.LinkUp {
		if !up {
			st.LinksDown++
		}
	}
	for _, e := range sh.Services.State.Archived() {
		if e.Destination == "startup-config" && e.Timestamp.After(st.ConfigSave) {
			st.ConfigSave = e.Timestamp
		}
	}
	return st
}

// interrupt returns a session below User mode to Privileged EXEC, as
// Ctrl-C and Ctrl-Z do.
func (sh *Shell) interrupt() {
	if sh.Session.Mode == mode.User {
		return
	}
	if sh.Session.Mode != mode.Privileged {
		fmt.Fprintln(sh.Stdout)
	}
	sh.Session.ReturnTo(mode.Privileged)
	sh.Services.State.ClearSelection()
}

// handleSignals marks SIGINT and SIGTSTP received while a command runs.
func (sh *Shell) handleSignals(ctx context.Context) func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, unix.SIGTSTP)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-ch:
				if !ok {
					return
				}
				slog.Debug("signal received", "signal", sig.String())
				sh.interrupted.Store(true)
			}
		}
	}()
	return func() { signal.Stop(ch) }
}

// finish handles the loop-control sentinels. It reports whether the loop
// should stop.
func (sh *Shell) finish(err error) bool {
	switch {
	case errors.Is(err, errExitCLI):
		fmt.Fprintln(sh.Stdout, "Exiting CLI...")
		if sh.HistoryFile != "" {
			if err := os.Remove(sh.HistoryFile); err != nil && !os.IsNotExist(err) {
				slog.Warn("remove history file", "path", sh.HistoryFile, "err", err)
			}
		}
		return true
	case errors.Is(err, errHangup):
		return true
	}
	return false
}

// Run is the interactive loop. It returns when the operator exits the CLI
// or the input ends.
func (sh *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          sh.Session.Prompt,
		HistoryFile:     sh.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    &completer{sh: sh},
		Stdin:           sh.Stdin,
		Stdout:          sh.Stdout,
		Stderr:          sh.Stderr,
		FuncFilterInputRune: func(r rune) (rune, bool) {
			if r == readline.CharCtrlZ {
				return readline.CharInterrupt, true
			}
			return r, true
		},
		Listener: readline.FuncListener(func(line []rune, pos int, key rune) ([]rune, int, bool) {
			if key != '?' || pos < 1 {
				return line, pos, false
			}
			// drop the '?' readline already inserted
			clean := make([]rune, 0, len(line)-1)
			clean = append(clean, line[:pos-1]...)
			clean = append(clean, line[pos:]...)
			fmt.Fprintln(sh.rl.Stdout())
			sh.Engine.WriteQuery(sh.rl.Stdout(), string(clean[:pos-1]), sh.Session)
			return clean, pos - 1, true
		}),
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()
	sh.rl = rl
	sh.Services.Prompt = &readlinePrompter{rl: rl}

	stop := sh.handleSignals(ctx)
	defer stop()

	fmt.Fprint(sh.Stdout, banner)
	fmt.Fprintln(sh.Stdout)
	fmt.Fprintln(sh.Stdout, "Type '?' or 'help' for the commands of the current mode")
	fmt.Fprintln(sh.Stdout)

	for {
		if ctx.Err() != nil {
			return nil
		}
		if sh.interrupted.Swap(false) {
			sh.interrupt()
		}
		rl.SetPrompt(sh.Session.Prompt)

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				sh.interrupt()
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read line: %w", err)
		}
		if sh.finish(sh.Engine.Execute(line, sh.Session, sh.Clock)) {
			return nil
		}
	}
}

// RunScript executes one command per line from r without line editing,
// for piped input. The same reader answers confirmation prompts.
func (sh *Shell) RunScript(ctx context.Context, r *bufio.Reader) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := r.ReadString('\n')
		if line != "" {
			if sh.finish(sh.Engine.Execute(strings.TrimRight(line, "\r\n"), sh.Session, sh.Clock)) {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read script: %w", err)
		}
	}
}

type completer struct {
	sh *Shell
}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	comp := c.sh.Engine.Complete(text, c.sh.Session.Mode)
	partial := text[comp.Start:]

	var names []string
	for _, n := range cmdtree.Names(comp.Candidates) {
		if strings.HasPrefix(n, partial) {
			names = append(names, n)
		}
	}
	switch len(names) {
	case 0:
		return nil, 0
	case 1:
		return [][]rune{[]rune(names[0][len(partial):] + " ")}, len(partial)
	}

	fmt.Fprintln(c.sh.rl.Stdout())
	cmdtree.WriteHelp(c.sh.rl.Stdout(), comp.Candidates)
	if cp := cmdtree.CommonPrefix(names); len(cp) > len(partial) {
		return [][]rune{[]rune(cp[len(partial):])}, len(partial)
	}
	return nil, 0
}

// readlinePrompter asks mid-command questions through the line editor so
// answers do not land in the command history.
type readlinePrompter struct {
	rl *readline.Instance
}

func (p *readlinePrompter) Confirm(prompt string) (string, error) {
	p.rl.HistoryDisable()
	defer p.rl.HistoryEnable()
	p.rl.SetPrompt(prompt + " ")
	line, err := p.rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *readlinePrompter) ReadSecret(prompt string) (string, error) {
	b, err := p.rl.ReadPassword(prompt + " ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
