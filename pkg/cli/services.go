package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/psaab/netshell/pkg/clock"
	"github.com/psaab/netshell/pkg/configstore"
	"github.com/psaab/netshell/pkg/credentials"
	"github.com/psaab/netshell/pkg/dhcp"
	"github.com/psaab/netshell/pkg/netinfo"
	"github.com/psaab/netshell/pkg/runner"
)

// Prompter asks the operator for confirmation or a secret in the middle of
// a command.
type Prompter interface {
	Confirm(prompt string) (string, error)
	ReadSecret(prompt string) (string, error)
}

// DHCPClient acquires and applies DHCPv4 leases.
type DHCPClient interface {
	Acquire(ctx context.Context, iface string) (*dhcp.Lease, error)
	Apply(lease *dhcp.Lease) error
}

// Services are the collaborators command handlers use. Handlers hold a
// pointer to one shared Services value.
type Services struct {
	Out    io.Writer
	Prompt Prompter
	Runner runner.Runner
	State  *configstore.Store
	Creds  credentials.Store
	Net    netinfo.Source
	DHCP   DHCPClient

	StartupPath string
	HistoryPath string
	Version     string
	DeviceModel string

	// LogLevel is switched by "debug all" / "undebug all"; BaseLevel is
	// restored by undebug.
	LogLevel  *slog.LevelVar
	BaseLevel slog.Level

	// Uname returns a one-line kernel description for "show version".
	Uname func() (string, error)
	// Hangup ends the SSH session the shell runs under, for "exit ssh".
	Hangup func() error

	Context context.Context
}

func (svc *Services) ctx() context.Context {
	if svc.Context != nil {
		return svc.Context
	}
	return context.Background()
}

func (svc *Services) now(clk *clock.Clock) time.Time {
	if clk != nil {
		return clk.Now()
	}
	return time.Now()
}

func (svc *Services) printf(format string, args ...any) {
	fmt.Fprintf(svc.Out, format, args...)
}

func (svc *Services) println(args ...any) {
	fmt.Fprintln(svc.Out, args...)
}

// interfaces returns the inventory, or nil when it cannot be read.
func (svc *Services) interfaces() []string {
	if svc.Net == nil {
		return nil
	}
	names, err := netinfo.SourceInventory{Source: svc.Net}.Interfaces()
	if err != nil {
		slog.Warn("interface inventory unavailable", "err", err)
		return nil
	}
	return names
}

// LinePrompter reads answers from a line-oriented reader. Secrets are read
// without echo when the input is a terminal.
type LinePrompter struct {
	In  *bufio.Reader
	Out io.Writer
	Fd  int // terminal file descriptor, or -1
}

// NewLinePrompter prompts on out and reads from in.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &LinePrompter{In: bufio.NewReader(in), Out: out, Fd: fd}
}

func (p *LinePrompter) Confirm(prompt string) (string, error) {
	fmt.Fprint(p.Out, prompt)
	line, err := p.In.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *LinePrompter) ReadSecret(prompt string) (string, error) {
	if p.Fd < 0 {
		return p.Confirm(prompt)
	}
	fmt.Fprint(p.Out, prompt)
	b, err := term.ReadPassword(p.Fd)
	fmt.Fprintln(p.Out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// ScriptedPrompter answers prompts from a fixed list, for tests and batch
// input.
type ScriptedPrompter struct {
	Answers []string
	Asked   []string
}

func (p *ScriptedPrompter) next(prompt string) (string, error) {
	p.Asked = append(p.Asked, prompt)
	if len(p.Answers) == 0 {
		return "", io.EOF
	}
	a := p.Answers[0]
	p.Answers = p.Answers[1:]
	return a, nil
}

func (p *ScriptedPrompter) Confirm(prompt string) (string, error)    { return p.next(prompt) }
func (p *ScriptedPrompter) ReadSecret(prompt string) (string, error) { return p.next(prompt) }
