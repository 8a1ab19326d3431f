// Package runner executes the system programs behind shell commands.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/psaab/netshell/pkg/cmderr"
)

// Runner starts child processes on behalf of command handlers.
type Runner interface {
	// Run streams the child's stdout line by line as it is produced.
	Run(ctx context.Context, name string, args ...string) error
	// Output returns the child's combined output.
	Output(ctx context.Context, name string, args ...string) (string, error)
	// Attach connects the child to the terminal, for interactive programs.
	Attach(ctx context.Context, name string, args ...string) error
}

// Exec is the Runner backed by os/exec.
type Exec struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExec returns a runner wired to the process's standard streams.
func NewExec() *Exec {
	return &Exec{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e *Exec) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = e.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return startError(name, err)
	}
	if err := cmd.Start(); err != nil {
		return startError(name, err)
	}
	sc := bufio.NewScanner(stdout)
	for sc.Scan() {
		fmt.Fprintln(e.Stdout, sc.Text())
	}
	return waitError(name, cmd.Wait())
}

func (e *Exec) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return string(out), waitError(name, err)
		}
		return string(out), startError(name, err)
	}
	return string(out), nil
}

func (e *Exec) Attach(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Start(); err != nil {
		return startError(name, err)
	}
	return waitError(name, cmd.Wait())
}

func startError(name string, err error) error {
	slog.Warn("process start failed", "cmd", name, "err", err)
	return cmderr.External(err, "Failed to execute %s: %v", name, err)
}

func waitError(name string, err error) error {
	if err == nil {
		return nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		slog.Warn("process exited non-zero", "cmd", name, "status", ee.ExitCode())
		return cmderr.External(err, "%s command failed with exit status: %d", name, ee.ExitCode())
	}
	return cmderr.External(err, "Failed to execute %s: %v", name, err)
}

// Call is one invocation seen by a Recorder.
type Call struct {
	Mode string // "run", "output" or "attach"
	Argv []string
}

// String joins the argument vector with spaces.
func (c Call) String() string { return strings.Join(c.Argv, " ") }

// Recorder is a Runner that records invocations instead of starting
// processes. Fail and Outputs are keyed by the space-joined argv.
type Recorder struct {
	Calls   []Call
	Fail    map[string]error
	Outputs map[string]string
	Stdout  io.Writer
}

func (r *Recorder) record(mode, name string, args []string) (string, error) {
	c := Call{Mode: mode, Argv: append([]string{name}, args...)}
	r.Calls = append(r.Calls, c)
	if err, ok := r.Fail[c.String()]; ok {
		return "", err
	}
	return r.Outputs[c.String()], nil
}

func (r *Recorder) Run(_ context.Context, name string, args ...string) error {
	out, err := r.record("run", name, args)
	if r.Stdout != nil && out != "" {
		io.WriteString(r.Stdout, out)
	}
	return err
}

func (r *Recorder) Output(_ context.Context, name string, args ...string) (string, error) {
	return r.record("output", name, args)
}

func (r *Recorder) Attach(_ context.Context, name string, args ...string) error {
	_, err := r.record("attach", name, args)
	return err
}

// Commands returns the recorded argv strings in order.
func (r *Recorder) Commands() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.String()
	}
	return out
}
