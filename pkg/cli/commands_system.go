package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/psaab/netshell/pkg/clock"
	"github.com/psaab/netshell/pkg/cmderr"
	"github.com/psaab/netshell/pkg/cmdtree"
	"github.com/psaab/netshell/pkg/configstore"
	"github.com/psaab/netshell/pkg/mode"
	"github.com/psaab/netshell/pkg/netinfo"
	"github.com/psaab/netshell/pkg/runconfig"
	"github.com/psaab/netshell/pkg/session"
)

// confirm asks prompt and classifies the answer. An empty answer takes
// the default.
func confirm(p Prompter, prompt string, def bool) (yes bool, err error) {
	answer, err := p.Confirm(prompt)
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return false, cmderr.Usagef("Invalid input. Please enter 'yes', 'y', or 'no'.")
}

// saveStartup renders the running configuration and writes it to the
// startup file.
func saveStartup(svc *Services, s *session.Session, clk *clock.Clock) error {
	name := filepath.Base(svc.StartupPath)
	svc.printf("Saving running configuration to %s...\n", name)
	text := runconfig.Render(s.Config, svc.State.Snapshot())
	if err := runconfig.WriteStartup(svc.StartupPath, text); err != nil {
		return cmderr.Unavailablef("Error writing to startup configuration file: %v", err)
	}
	now := svc.now(clk)
	s.Config.LastWritten = now
	svc.State.Archive(text, "startup-config", now)
	slog.Info("startup configuration saved", "path", svc.StartupPath, "bytes", len(text))
	svc.printf("Running configuration successfully saved to %s\n", name)
	return nil
}

type reloadCmd struct {
	svc *Services
}

func (c *reloadCmd) Execute(_ []string, _ *session.Session, _ *clock.Clock) error {
	yes, err := confirm(c.svc.Prompt, "Proceed with reload? [yes/no]:", true)
	if err != nil {
		return err
	}
	if !yes {
		c.svc.println("Reload aborted.")
		return nil
	}
	return c.svc.Runner.Run(c.svc.ctx(), "sudo", "reboot")
}

type poweroffCmd struct {
	svc *Services
}

func (c *poweroffCmd) Execute(_ []string, _ *session.Session, _ *clock.Clock) error {
	yes, err := confirm(c.svc.Prompt, "Do you want to shutdown the PC? [yes/no]:", true)
	if err != nil {
		return err
	}
	if !yes {
		c.svc.println("Poweroff aborted.")
		return nil
	}
	if err := os.Remove(c.svc.HistoryPath); err != nil && !os.IsNotExist(err) {
		slog.Warn("remove history file", "path", c.svc.HistoryPath, "err", err)
	}
	return c.svc.Runner.Run(c.svc.ctx(), "sudo", "shutdown", "now")
}

// debugCmd raises the log level to debug after confirmation.
type debugCmd struct {
	svc *Services
}

func (c *debugCmd) Execute(args []string, s *session.Session, _ *clock.Clock) error {
	if err := only(s, "debug all", mode.Privileged); err != nil {
		return err
	}
	return c.debug(args, "debug all")
}

func (c *debugCmd) debug(args []string, what string) error {
	if len(args) != 1 || args[0] != "all" {
		return cmderr.Usagef("Invalid arguments provided to '%s'. This command does not accept additional arguments.", what)
	}
	yes, err := confirm(c.svc.Prompt, "This may severely impact network performance. Continue? (yes/[no]):", false)
	if err != nil {
		return err
	}
	if !yes {
		c.svc.println("Debugging unchanged.")
		return nil
	}
	if c.svc.LogLevel != nil {
		c.svc.LogLevel.Set(slog.LevelDebug)
	}
	c.svc.println("All possible debugging has been turned on")
	return nil
}

type undebugCmd struct {
	svc *Services
}

func (c *undebugCmd) Execute(args []string, s *session.Session, _ *clock.Clock) error {
	if err := only(s, "undebug all", mode.Privileged); err != nil {
		return err
	}
	return c.undebug(args, "undebug all")
}

func (c *undebugCmd) undebug(args []string, what string) error {
	if len(args) != 1 || args[0] != "all" {
		return cmderr.Usagef("Invalid arguments provided to '%s'. This command does not accept additional arguments.", what)
	}
	if c.svc.LogLevel != nil {
		c.svc.LogLevel.Set(c.svc.BaseLevel)
	}
	c.svc.println("All possible debugging has been turned off")
	return nil
}

type clearCmd struct {
	svc *Services
}

func (c *clearCmd) Execute(args []string, _ *session.Session, _ *clock.Clock) error {
	if len(args) > 0 {
		return cmderr.Usagef("Invalid command. Available commands: clear")
	}
	return c.svc.Runner.Attach(c.svc.ctx(), "clear")
}

type writeCmd struct {
	svc *Services
}

func (c *writeCmd) Execute(args []string, s *session.Session, clk *clock.Clock) error {
	if !s.In(mode.User, mode.Privileged, mode.GlobalConfig) {
		return cmderr.Modef("The 'write memory' command is only available in EXEC modes and Global configuration mode.")
	}
	if len(args) != 1 || args[0] != "memory" {
		return cmderr.Usagef("Invalid arguments provided to 'write memory'. This command does not accept additional arguments.")
	}
	return saveStartup(c.svc, s, clk)
}

// copyCmd copies the running configuration to the startup file or to a
// named file.
type copyCmd struct {
	svc *Services
}

func (c *copyCmd) Execute(args []string, s *session.Session, clk *clock.Clock) error {
	if err := only(s, "copy", mode.Privileged); err != nil {
		return err
	}
	return c.copy(resolveFirst(args, []string{"running-config"}), s, clk)
}

func (c *copyCmd) copy(args []string, s *session.Session, clk *clock.Clock) error {
	if len(args) != 2 || args[0] != "running-config" {
		return cmderr.Usagef("Usage: copy running-config startup-config|<file-name>")
	}
	dest := args[1]
	if dest == "startup-config" {
		return saveStartup(c.svc, s, clk)
	}
	text := runconfig.Render(s.Config, c.svc.State.Snapshot())
	if err := os.WriteFile(dest, []byte(text), 0644); err != nil {
		return cmderr.Unavailablef("Error writing to the file: %v", err)
	}
	c.svc.State.Archive(text, dest, c.svc.now(clk))
	c.svc.printf("Running configuration copied to %s\n", dest)
	return nil
}

// clockCmd sets the software clock.
type clockCmd struct {
	svc *Services
}

func (c *clockCmd) Execute(args []string, s *session.Session, clk *clock.Clock) error {
	if err := only(s, "clock set", mode.Privileged); err != nil {
		return err
	}
	return c.set(args, clk)
}

func (c *clockCmd) set(args []string, clk *clock.Clock) error {
	if len(args) == 0 || args[0] != "set" {
		return cmderr.Usagef("%s", clock.Usage)
	}
	if clk == nil {
		return cmderr.Unavailablef("Clock functionality is unavailable.")
	}
	setting, err := clock.ParseSet(args[1:])
	if err != nil {
		return err
	}
	clk.Set(setting.Time(time.Local))
	c.svc.printf("Clock set to %s\n", setting)
	return nil
}

type serviceCmd struct {
	svc *Services
}

func (c *serviceCmd) Execute(args []string, s *session.Session, _ *clock.Clock) error {
	if err := only(s, "service password-encryption", mode.GlobalConfig); err != nil {
		return err
	}
	if len(args) != 1 || args[0] != "password-encryption" {
		return cmderr.Usagef("Invalid arguments provided to 'service password-encryption'. This command does not accept additional arguments.")
	}
	s.Config.PasswordEncryption = true
	c.svc.println("Password encryption enabled.")
	return nil
}

var sshWords = []string{"-v", "-l", "-h", "--help"}

// sshCmd opens an interactive SSH session to a remote host.
type sshCmd struct {
	svc *Services
}

func (c *sshCmd) Execute(args []string, _ *session.Session, _ *clock.Clock) error {
	if len(args) == 0 {
		return cmderr.Usagef("Missing parameters. Use 'ssh -h' for help")
	}
	switch args[0] {
	case "-v":
		if len(args) == 1 {
			return c.svc.Runner.Attach(c.svc.ctx(), "ssh", "-V")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return cmderr.Usagef("Invalid version input: %s", args[1])
		}
		if v < 1 || v >= 10 {
			return cmderr.Usagef("Invalid version. Please enter a valid version")
		}
		c.svc.printf("Changed to SSH version %d\n", v)
		return nil
	case "-l":
		if len(args) != 2 {
			return cmderr.Usagef("Usage: ssh -l <username>@<ip-address>")
		}
		return connectSSH(c.svc, args[1], "Invalid format. Use: ssh -l username@ip-address")
	case "-h", "--help":
		c.svc.println("SSH Command Usage:")
		c.svc.println("  ssh -v                     Display SSH version")
		c.svc.println("  ssh -v <version>           Select the SSH protocol version")
		c.svc.println("  ssh -l username@ip-address Login to remote server")
		c.svc.println()
		c.svc.println("Examples:")
		c.svc.println("  ssh -l admin@192.168.1.1")
		return nil
	}
	return cmderr.Usagef("Invalid SSH option: %s. Use 'ssh -h' for help", args[0])
}

// connectSSH runs ssh against user@ip with host key checking disabled.
func connectSSH(svc *Services, target, usage string) error {
	user, ip, ok := strings.Cut(target, "@")
	if !ok || user == "" {
		return cmderr.Usagef("%s", usage)
	}
	if _, err := configstore.ParseIPv4(ip); err != nil {
		return cmderr.Usagef("Invalid IP address: %s", ip)
	}
	err := svc.Runner.Attach(svc.ctx(), "ssh",
		"-o", "StrictHostKeyChecking=no",
		"-o", "UserKnownHostsFile=/dev/null",
		target)
	if err != nil {
		return err
	}
	svc.printf("Connection to %s closed.\n", ip)
	return nil
}

type connectCmd struct {
	svc *Services
}

func (c *connectCmd) Execute(args []string, _ *session.Session, _ *clock.Clock) error {
	if len(args) != 1 {
		return cmderr.Usagef("Usage: connect <username>@<ip-address>")
	}
	return connectSSH(c.svc, args[0], "Invalid format. Use: connect username@ip-address")
}

// dhcpCmd renews DHCP on every interface through dhclient, or acquires a
// lease for one interface in process.
type dhcpCmd struct {
	svc *Services
}

func (c *dhcpCmd) Execute(args []string, _ *session.Session, _ *clock.Clock) error {
	svc := c.svc
	switch len(args) {
	case 0:
		steps := []struct {
			argv      []string
			done, bad string
		}{
			{[]string{"dhclient", "-r"}, "Removed existing DHCP configurations", "Failed to release DHCP"},
			{[]string{"dhclient"}, "Enabled DHCP configurations", "Failed to enable DHCP"},
			{[]string{"systemctl", "restart", "NetworkManager"}, "Restarted network services", "Failed to restart network services"},
		}
		for _, st := range steps {
			if err := svc.Runner.Run(svc.ctx(), "sudo", st.argv...); err != nil {
				svc.printf("%s: %v\n", st.bad, err)
				continue
			}
			svc.println(st.done)
		}
		return nil
	case 1:
	default:
		return cmderr.Usagef("Usage: dhcp_enable [<interface>]")
	}

	iface := args[0]
	names, err := netinfo.SourceInventory{Source: svc.Net}.Interfaces()
	if err != nil {
		return cmderr.Unavailablef("Failed to read network interfaces: %v", err)
	}
	if !slices.Contains(names, iface) {
		return cmderr.Usagef("Invalid interface: %s. Available interfaces: %s", iface, netinfo.JoinNames(names))
	}
	if svc.DHCP == nil {
		return cmderr.Unavailablef("DHCP client is unavailable.")
	}
	svc.printf("Requesting a DHCP lease on %s...\n", iface)
	lease, err := svc.DHCP.Acquire(svc.ctx(), iface)
	if err != nil {
		return cmderr.External(err, "DHCP request on %s failed: %v", iface, err)
	}
	if err := svc.DHCP.Apply(lease); err != nil {
		return cmderr.External(err, "Failed to apply the DHCP lease on %s: %v", iface, err)
	}
	lease.Write(svc.Out)
	return nil
}

type pingCmd struct {
	svc *Services
}

func (c *pingCmd) Execute(args []string, _ *session.Session, _ *clock.Clock) error {
	if len(args) != 1 {
		return cmderr.Usagef("Invalid syntax. Usage: ping <ip>")
	}
	c.svc.printf("Pinging %s with 32 bytes of data:\n", args[0])
	return c.svc.Runner.Run(c.svc.ctx(), "ping", "-c", "4", "-s", "32", args[0])
}

type tracerouteCmd struct {
	svc *Services
}

func (c *tracerouteCmd) Execute(args []string, _ *session.Session, _ *clock.Clock) error {
	if len(args) != 1 {
		return cmderr.Usagef("Invalid syntax. Usage: traceroute <ip/hostname>")
	}
	c.svc.printf("Tracing route to %s over a maximum of 30 hops\n", args[0])
	if err := c.svc.Runner.Run(c.svc.ctx(), "traceroute", "-n", "-m", "30", args[0]); err != nil {
		return err
	}
	c.svc.println("Trace Completed.")
	return nil
}

// ifconfigCmd lists interfaces, or one interface, from the kernel.
type ifconfigCmd struct {
	svc *Services
}

func (c *ifconfigCmd) Execute(args []string, _ *session.Session, _ *clock.Clock) error {
	if len(args) > 1 {
		return cmderr.Usagef("Usage: ifconfig [<interface>]")
	}
	links, err := c.svc.Net.Links()
	if err != nil {
		return cmderr.Unavailablef("Failed to read network interfaces: %v", err)
	}
	if len(args) == 0 {
		c.svc.println("System Network Interfaces:")
		c.svc.println("-------------------------")
		netinfo.WriteLinks(c.svc.Out, links)
		return nil
	}
	c.svc.printf("Interface: %s\n", args[0])
	c.svc.println("-------------------------")
	l, ok := netinfo.Find(links, args[0])
	if !ok {
		c.svc.printf("Interface '%s' not found.\n", args[0])
		return nil
	}
	netinfo.WriteInterface(c.svc.Out, l)
	return nil
}

// systemCommands are the handlers "do" reuses.
type systemCommands struct {
	copy    *copyCmd
	clock   *clockCmd
	debug   *debugCmd
	undebug *undebugCmd
}

func newSystemCommands(svc *Services) *systemCommands {
	return &systemCommands{
		copy:    &copyCmd{svc: svc},
		clock:   &clockCmd{svc: svc},
		debug:   &debugCmd{svc: svc},
		undebug: &undebugCmd{svc: svc},
	}
}

func systemDescriptors(svc *Services, sys *systemCommands) []*cmdtree.Descriptor {
	all := []string{"all"}
	return []*cmdtree.Descriptor{
		{Name: "reload", Label: "reload", Desc: "Reload the system", Handler: &reloadCmd{svc: svc}},
		{Name: "poweroff", Label: "poweroff", Desc: "Shut down the management PC", Handler: &poweroffCmd{svc: svc}},
		{
			Name: "debug", Label: "debug all", Desc: "Turn on all possible debugging",
			Suggestions: all, ArgSuggest: all, Suggestions1: all,
			Handler: sys.debug,
		},
		{
			Name: "undebug", Label: "undebug all", Desc: "Turn off all possible debugging",
			Suggestions: all, ArgSuggest: all, Suggestions1: all,
			Handler: sys.undebug,
		},
		{Name: "clear", Label: "clear", Desc: "Clear the terminal", Handler: &clearCmd{svc: svc}},
		{
			Name: "write", Label: "write memory", Desc: "Save the running configuration to the startup configuration",
			Suggestions: []string{"memory"}, ArgSuggest: []string{"memory"}, Suggestions1: []string{"memory"},
			Options: []cmdtree.Candidate{{Name: "memory", Desc: "Write to the startup configuration"}},
			Handler: &writeCmd{svc: svc},
		},
		{
			Name: "copy", Label: "copy running-config", Desc: "Copy the running configuration",
			Suggestions: []string{"running-config"}, ArgSuggest: []string{"running-config"}, Suggestions1: []string{"running-config"},
			Suggestions2: []string{"startup-config"},
			Options:      []cmdtree.Candidate{{Name: "running-config", Desc: "Copy from the running configuration"}},
			Handler:      sys.copy,
		},
		{
			Name: "clock", Label: "clock set", Desc: "Manage the system clock",
			Suggestions: []string{"set"}, ArgSuggest: []string{"set"}, Suggestions1: []string{"set"},
			Options: []cmdtree.Candidate{{Name: "set", Desc: "Set the time and date"}},
			Handler: sys.clock,
		},
		{
			Name: "service", Label: "service password-encryption", Desc: "Encrypt passwords defined for the device",
			Suggestions: []string{"password-encryption"}, ArgSuggest: []string{"password-encryption"}, Suggestions1: []string{"password-encryption"},
			Options: []cmdtree.Candidate{{Name: "password-encryption", Desc: "Encrypt system passwords"}},
			Handler: &serviceCmd{svc: svc},
		},
		{
			Name: "ssh", Label: "ssh", Desc: "Connect via SSH or show the SSH version",
			Suggestions: sshWords, ArgSuggest: sshWords, Suggestions1: sshWords,
			Options: []cmdtree.Candidate{
				{Name: "-v", Desc: "Display or select the SSH version"},
				{Name: "-l", Desc: "Login to a remote server"},
				{Name: "-h", Desc: "Display SSH usage"},
				{Name: "--help", Desc: "Display SSH usage"},
			},
			Handler: &sshCmd{svc: svc},
		},
		{
			Name: "connect", Label: "connect <user>@<ip>", Desc: "Open an SSH session to a remote host",
			Options: []cmdtree.Candidate{{Name: "<username>@<ip-address>", Desc: "Remote user and IPv4 address"}},
			Handler: &connectCmd{svc: svc},
		},
		{
			Name: "dhcp_enable", Label: "dhcp_enable", Desc: "Enable DHCP for network connectivity",
			Options: []cmdtree.Candidate{{Name: "<interface>", Desc: "Acquire a lease for one interface"}},
			Dynamic: svc.interfaces,
			Handler: &dhcpCmd{svc: svc},
		},
		{
			Name: "ping", Label: "ping <ip>", Desc: "Send ICMP echo requests",
			Options: []cmdtree.Candidate{{Name: "<ip-address>", Desc: "Enter the IP address"}},
			Handler: &pingCmd{svc: svc},
		},
		{
			Name: "traceroute", Label: "traceroute <ip>", Desc: "Display the packet transfer path",
			Options: []cmdtree.Candidate{{Name: "<ip-address/hostname>", Desc: "Enter the IP address or hostname"}},
			Handler: &tracerouteCmd{svc: svc},
		},
		{
			Name: "ifconfig", Label: "ifconfig", Desc: "Display interface configuration",
			Options: []cmdtree.Candidate{{Name: "<interface>", Desc: "Network interface name"}},
			Dynamic: svc.interfaces,
			Handler: &ifconfigCmd{svc: svc},
		},
	}
}
