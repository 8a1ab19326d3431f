package cli

import (
	"bufio"
	"errors"
	"os"
	"slices"
	"strings"

	"github.com/psaab/netshell/pkg/clock"
	"github.com/psaab/netshell/pkg/cmderr"
	"github.com/psaab/netshell/pkg/cmdtree"
	"github.com/psaab/netshell/pkg/mode"
	"github.com/psaab/netshell/pkg/netinfo"
	"github.com/psaab/netshell/pkg/runconfig"
	"github.com/psaab/netshell/pkg/session"
)

// showWords lists every show target.
var showWords = []string{
	"running-config", "startup-config", "version", "ntp", "processes", "clock",
	"uptime", "controllers", "history", "sessions", "interfaces", "ip", "login",
	"arp", "archive",
}

// showCmd displays device state. The per-mode show lists in the hint
// tables decide which targets a mode may use.
type showCmd struct {
	svc   *Services
	hints *cmdtree.Hints
}

func (c *showCmd) Execute(args []string, s *session.Session, clk *clock.Clock) error {
	if !s.In(mode.User, mode.Privileged) {
		return cmderr.Modef("Show commands are only available in User EXEC mode and Privileged EXEC mode.")
	}
	if len(args) == 0 {
		return cmderr.Usagef("Missing parameter. Usage: show <command>")
	}
	args = resolveFirst(args, showWords)
	allowed, _ := c.hints.Override("show", s.Mode)
	if slices.Contains(showWords, args[0]) && !slices.Contains(allowed, args[0]) {
		return cmderr.Modef("The 'show %s' command is not available in %s mode.", args[0], s.Graph.Name(s.Mode))
	}
	return c.show(args, s, clk, "show")
}

// show runs one target without a mode check; "do show" shares it.
func (c *showCmd) show(args []string, s *session.Session, clk *clock.Clock, usage string) error {
	if len(args) == 0 {
		return cmderr.Usagef("Missing parameter. Usage: %s <command>", usage)
	}
	svc := c.svc
	switch args[0] {
	case "clock":
		if clk == nil {
			return cmderr.Unavailablef("Clock functionality is unavailable.")
		}
		svc.println(clock.FormatNow(clk.Now()))
	case "uptime":
		if clk == nil {
			return cmderr.Unavailablef("Clock functionality is unavailable.")
		}
		svc.println(clock.FormatUptime(clk.Uptime()))
	case "version":
		c.version()
	case "sessions":
		return svc.Runner.Run(svc.ctx(), "w")
	case "controllers":
		svc.println("USB Controllers")
		usbErr := svc.Runner.Run(svc.ctx(), "lsusb")
		svc.println()
		svc.println("PCI Controllers")
		return errors.Join(usbErr, svc.Runner.Run(svc.ctx(), "lspci"))
	case "history":
		return c.history()
	case "running-config":
		text := runconfig.Render(s.Config, svc.State.Snapshot())
		svc.printf("Building configuration...\n\nCurrent configuration : %d bytes\n\n", len(text))
		svc.printf("%s", text)
	case "startup-config":
		return c.startup(s)
	case "ntp":
		if len(args) != 2 || args[1] != "associations" {
			return cmderr.Usagef("Usage: show ntp associations")
		}
		return c.ntp()
	case "processes":
		return svc.Runner.Run(svc.ctx(), "ps", "aux", "--sort=-rss")
	case "interfaces":
		links, err := svc.Net.Links()
		if err != nil {
			return cmderr.Unavailablef("Failed to read network interfaces: %v", err)
		}
		netinfo.WriteLinks(svc.Out, links)
	case "ip":
		return c.ip(args[1:])
	case "login":
		return svc.Runner.Run(svc.ctx(), "id")
	case "arp":
		neighbors, err := svc.Net.Neighbors()
		if err != nil {
			return cmderr.Unavailablef("Failed to read the ARP table: %v", err)
		}
		netinfo.WriteNeighbors(svc.Out, neighbors)
	case "archive":
		entries := svc.State.Archived()
		if len(entries) == 0 {
			svc.println("No saved configurations.")
			return nil
		}
		for i, e := range entries {
			svc.printf("%2d  %s  %-24s %d bytes\n", i, e.Timestamp.Format("2006-01-02 15:04:05"), e.Destination, len(e.Config))
		}
	default:
		return cmderr.Usagef("Invalid show command: %s", args[0])
	}
	return nil
}

func (c *showCmd) version() {
	svc := c.svc
	svc.printf("PNF_MPC_CLI_Version --> '%s'\n", svc.Version)
	if svc.DeviceModel != "" {
		svc.printf("Device model: %s\n", svc.DeviceModel)
	}
	if svc.Uname != nil {
		if u, err := svc.Uname(); err == nil {
			svc.printf("Kernel: %s\n", u)
		}
	}
}

func (c *showCmd) history() error {
	f, err := os.Open(c.svc.HistoryPath)
	if err != nil {
		return cmderr.Unavailablef("Error reading history file: %v", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		c.svc.println(sc.Text())
	}
	if err := sc.Err(); err != nil {
		return cmderr.Unavailablef("Error reading history file: %v", err)
	}
	return nil
}

func (c *showCmd) startup(s *session.Session) error {
	c.svc.println("Reading startup configuration file...")
	c.svc.println()
	text, err := runconfig.ReadStartup(c.svc.StartupPath)
	if err != nil {
		return cmderr.Unavailablef("Error reading startup configuration file: %v", err)
	}
	if !s.Config.LastWritten.IsZero() {
		c.svc.printf("Startup configuration (last saved: %s):\n\n", s.Config.LastWritten.Format("2006-01-02 15:04:05"))
	} else {
		c.svc.printf("Startup configuration file contents:\n\n")
	}
	c.svc.printf("%s", text)
	return nil
}

// ntp prefers chrony and falls back to ntpd, then timedatectl.
func (c *showCmd) ntp() error {
	svc := c.svc
	if out, err := svc.Runner.Output(svc.ctx(), "chronyc", "-n", "sources"); err == nil {
		svc.printf("Chrony sources:\n%s", out)
	} else if out, err := svc.Runner.Output(svc.ctx(), "ntpq", "-p"); err == nil {
		svc.printf("NTP peers:\n%s", out)
	} else if out, err := svc.Runner.Output(svc.ctx(), "timedatectl", "show", "--property=NTPSynchronized", "--value"); err == nil {
		svc.printf("NTP synchronized: %s\n", strings.TrimSpace(out))
	} else {
		return cmderr.Unavailablef("No NTP service is running.")
	}
	return nil
}

func (c *showCmd) ip(args []string) error {
	svc := c.svc
	args = resolveFirst(args, []string{"interface", "route"})
	if len(args) == 0 {
		return cmderr.Usagef("Invalid IP subcommand. Use 'interface brief'")
	}
	switch args[0] {
	case "route":
		routes, err := svc.Net.Routes()
		if err != nil {
			return cmderr.Unavailablef("Failed to read the routing table: %v", err)
		}
		netinfo.WriteRoutes(svc.Out, routes)
		return nil
	case "interface":
		if len(args) != 2 {
			return cmderr.Usagef("Invalid interface subcommand. Use 'brief'")
		}
		links, err := svc.Net.Links()
		if err != nil {
			return cmderr.Unavailablef("Failed to read network interfaces: %v", err)
		}
		if args[1] == "brief" {
			netinfo.WriteBrief(svc.Out, links)
			return nil
		}
		l, ok := netinfo.Find(links, args[1])
		if !ok {
			names, _ := netinfo.SourceInventory{Source: svc.Net}.Interfaces()
			return cmderr.Usagef("Interface '%s' not found. Available interfaces: %s", args[1], netinfo.JoinNames(names))
		}
		netinfo.WriteInterface(svc.Out, l)
		return nil
	}
	return cmderr.Usagef("Invalid IP subcommand. Use 'interface brief'")
}

// resolveFirst expands a unique abbreviation of args[0] against words.
func resolveFirst(args, words []string) []string {
	if len(args) == 0 {
		return args
	}
	if m := cmdtree.Resolve(args[0], words); m.Kind == cmdtree.Unique && m.Name != args[0] {
		return append([]string{m.Name}, args[1:]...)
	}
	return args
}

// doCmd runs privileged EXEC commands from any mode.
type doCmd struct {
	svc     *Services
	show    *showCmd
	copy    *copyCmd
	clock   *clockCmd
	debug   *debugCmd
	undebug *undebugCmd
}

var doWords = []string{"show", "copy", "clock", "debug", "undebug"}

func (c *doCmd) Execute(args []string, s *session.Session, clk *clock.Clock) error {
	if len(args) == 0 {
		return cmderr.Usagef("Missing parameter. Usage: do <command>")
	}
	args = resolveFirst(args, doWords)
	rest := args[1:]
	switch args[0] {
	case "show":
		return c.show.show(resolveFirst(rest, showWords), s, clk, "do show")
	case "copy":
		return c.copy.copy(resolveFirst(rest, []string{"running-config"}), s, clk)
	case "clock":
		return c.clock.set(resolveFirst(rest, []string{"set"}), clk)
	case "debug":
		return c.debug.debug(resolveFirst(rest, []string{"all"}), "do debug all")
	case "undebug":
		return c.undebug.undebug(resolveFirst(rest, []string{"all"}), "do undebug all")
	}
	return cmderr.Usagef("Invalid do command: %s", args[0])
}

const helpPreamble = `Help may be requested at any point in a command by entering
a question mark '?'. If nothing matches, the help list will
be empty and you must backup until entering a '?' shows the
available options.
Two styles of help are provided:
1. Full help is available when you are ready to enter a
   command argument (e.g. 'show ?') and describes each possible
   argument.
2. Partial help is provided when an abbreviated argument is entered
   and you want to know what arguments match the input
   (e.g. 'show pr?'.)
`

// helpCmd lists the commands of the current mode.
type helpCmd struct {
	svc *Services
	reg *cmdtree.Registry
}

func (c *helpCmd) Execute(_ []string, s *session.Session, _ *clock.Clock) error {
	c.svc.println()
	c.svc.printf("%s", helpPreamble)
	c.svc.printf("\nAvailable commands in %s mode:\n\n", s.Graph.Name(s.Mode))
	for _, name := range c.reg.Legal(s.Mode) {
		desc := ""
		if d, ok := c.reg.Lookup(name); ok {
			desc = d.Desc
		}
		c.svc.printf("%-18s - %s\n", name, desc)
	}
	c.svc.println()
	return nil
}

func showDescriptors(svc *Services, reg *cmdtree.Registry, sys *systemCommands) []*cmdtree.Descriptor {
	show := &showCmd{svc: svc, hints: reg.Hints()}
	return []*cmdtree.Descriptor{
		{
			Name: "show", Label: "show", Desc: "Display device information",
			Suggestions: showWords, ArgSuggest: showWords,
			Suggestions2: []string{"interface", "route", "brief", "associations"},
			Handler:      show,
		},
		{
			Name: "do", Label: "do", Desc: "Execute privileged EXEC commands from any mode",
			Suggestions: doWords, ArgSuggest: doWords, Suggestions1: doWords,
			Suggestions2: showWords,
			Handler:      &doCmd{svc: svc, show: show, copy: sys.copy, clock: sys.clock, debug: sys.debug, undebug: sys.undebug},
		},
		{
			Name: "help", Label: "help", Desc: "Display available commands for the current mode",
			Handler: &helpCmd{svc: svc, reg: reg},
		},
	}
}
