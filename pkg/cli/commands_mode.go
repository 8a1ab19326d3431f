package cli

import (
	"fmt"
	"strings"

	"github.com/psaab/netshell/pkg/clock"
	"github.com/psaab/netshell/pkg/cmderr"
	"github.com/psaab/netshell/pkg/cmdtree"
	"github.com/psaab/netshell/pkg/credentials"
	"github.com/psaab/netshell/pkg/mode"
	"github.com/psaab/netshell/pkg/netinfo"
	"github.com/psaab/netshell/pkg/session"
)

// only returns a ModeViolation naming what unless s is in one of modes.
func only(s *session.Session, what string, modes ...mode.Mode) error {
	if s.In(modes...) {
		return nil
	}
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = s.Graph.Name(m)
	}
	return cmderr.Modef("The '%s' command is only available in %s mode.", what, strings.Join(names, " and "))
}

// enableCmd logs in to Privileged EXEC, sets enable credentials, or
// switches a feature manager on.
type enableCmd struct {
	svc  *Services
	subs map[string]*feature
}

func newEnableCmd(svc *Services) *enableCmd {
	on := func(key, msg string) []form {
		return []form{{key: key, value: "enabled", msg: msg}}
	}
	subs := map[string]*feature{
		"network_manager": {mode: mode.GlobalConfig, forms: on("network_manager", "Network Manager is enabled.")},
		"vlan_manager":    {mode: mode.Vlan, forms: on("vlan_manager", "Vlan Manager is enabled.")},
		"qos_manager": {mode: mode.Qos, usage: "Correct usage: 'enable qos_manager id <ID>'",
			forms: []form{{words: []string{"id", "*"}, key: "qos_manager $1", value: "enabled", msg: "QOS Manager for the id $1 is enabled."}}},
		"dynamic_routing_manager": {mode: mode.DynamicRouting, usage: "Correct usage: 'enable dynamic_routing_manager id <ID>'",
			forms: []form{{words: []string{"id", "*"}, key: "dynamic_routing_manager $1", value: "enabled", msg: "Dynamic Routing Manager for the id $1 is enabled."}}},
		"port_security_manager":  {mode: mode.PortSecurity, forms: on("port_security_manager", "Port Security Manager is enabled.")},
		"monitoring_manager":     {mode: mode.Monitoring, forms: on("monitoring_manager", "Monitoring Manager is enabled.")},
		"auto_discovery_manager": {mode: mode.AutoDiscovery, forms: on("auto_discovery_manager", "Auto Discovery Manager is enabled.")},
		"ospf":                   {mode: mode.DynamicRouting, forms: on("ospf", "OSPF routing is enabled.")},
		"ospf_controller":        {mode: mode.DynamicRouting, forms: on("ospf_controller", "OSPF controller is enabled.")},
		"rip":                    {mode: mode.DynamicRouting, forms: on("rip", "RIP routing is enabled.")},
		"rip_controller":         {mode: mode.DynamicRouting, forms: on("rip_controller", "RIP controller is enabled.")},
		"coredump_login":         {mode: mode.Monitoring, forms: on("coredump_login", "Coredump login enabled")},
		"bridge": {mode: mode.Vlan, usage: "The correct usage : 'enable bridge <bridge_name>'",
			forms: []form{{words: []string{"*"}, key: "vlan bridge $1", value: "enabled", msg: "Enables the bridge $1"}}},
		"router": {mode: mode.Vlan, usage: "The correct usage : 'enable router <router_name>' or 'enable router <router_name> id <ID>'",
			forms: []form{
				{words: []string{"*"}, key: "vlan router $1", value: "enabled", msg: "Enables the router $1"},
				{words: []string{"*", "id", "*"}, key: "vlan router $1 id", value: "$2", msg: "Enables the router $1 for the id $2"},
			}},
		"protocol": {mode: mode.Vlan, usage: "The correct usage : 'enable protocol <protocol> router <router_name>'",
			forms: []form{{words: []string{"*", "router", "*"}, key: "vlan router $2 protocol $1", value: "enabled", msg: "Enables the router $2 for the protocol $1"}}},
		"id": {mode: mode.Vlan, usage: "The correct usage : 'enable id <ID>'",
			forms: []form{{words: []string{"*"}, key: "vlan id $1", value: "enabled", msg: "Enables the ID $1"}}},
		"vlan_tagging": {mode: mode.Vlan, forms: on("vlan tagging", "VLAN tagging enabled")},
		"vlan_routing": {mode: mode.Vlan, usage: "The correct usage : 'enable vlan_routing id <ID>'",
			forms: []form{{words: []string{"id", "*"}, key: "vlan routing id $1", value: "enabled", msg: "Enables VLAN routing for the ID $1"}}},
		"qos_config": {mode: mode.Qos, forms: on("qos_config", "QOS config is enabled")},
	}
	for name, f := range subs {
		f.label = "enable " + name
		if f.usage == "" {
			f.usage = fmt.Sprintf("Invalid arguments provided to '%s'. This command does not accept additional arguments.", f.label)
		}
	}
	return &enableCmd{svc: svc, subs: subs}
}

// enableWords lists every enable subcommand.
var enableWords = []string{
	"password", "secret",
	"network_manager", "vlan_manager", "qos_manager", "dynamic_routing_manager",
	"port_security_manager", "monitoring_manager", "auto_discovery_manager",
	"ospf", "ospf_controller", "rip", "rip_controller",
	"coredump_login",
	"bridge", "router", "protocol", "id", "vlan_tagging", "vlan_routing",
	"qos_config",
}

func (c *enableCmd) Execute(args []string, s *session.Session, _ *clock.Clock) error {
	if len(args) == 0 {
		return c.login(s)
	}
	switch args[0] {
	case "password":
		return c.setCredential(s, args[1:], credentials.EnablePassword)
	case "secret":
		return c.setCredential(s, args[1:], credentials.EnableSecret)
	}
	f, ok := c.subs[args[0]]
	if !ok {
		return cmderr.Usagef("Unknown enable subcommand: %s", args[0])
	}
	return f.apply(c.svc, s, args[1:])
}

func (c *enableCmd) login(s *session.Session) error {
	if s.Mode != mode.User {
		return cmderr.Modef("The 'enable' command is only available in User EXEC mode.")
	}
	password, hasPassword, err := c.svc.Creds.Get(credentials.EnablePassword)
	if err != nil {
		return fmt.Errorf("read enable password: %w", err)
	}
	secret, hasSecret, err := c.svc.Creds.Get(credentials.EnableSecret)
	if err != nil {
		return fmt.Errorf("read enable secret: %w", err)
	}

	switch {
	case hasPassword && hasSecret:
		p, err := c.svc.Prompt.ReadSecret("Enter password:")
		if err != nil {
			return err
		}
		sec, err := c.svc.Prompt.ReadSecret("Enter secret:")
		if err != nil {
			return err
		}
		if !credentials.Matches(password, p) || !credentials.Matches(secret, sec) {
			return cmderr.Usagef("Incorrect password or secret.")
		}
	case hasPassword:
		p, err := c.svc.Prompt.ReadSecret("Enter password:")
		if err != nil {
			return err
		}
		if !credentials.Matches(password, p) {
			return cmderr.Usagef("Incorrect password.")
		}
	case hasSecret:
		sec, err := c.svc.Prompt.ReadSecret("Enter secret:")
		if err != nil {
			return err
		}
		if !credentials.Matches(secret, sec) {
			return cmderr.Usagef("Incorrect secret.")
		}
	}
	if err := s.Enter(mode.Privileged); err != nil {
		return err
	}
	c.svc.println("Entering privileged EXEC mode...")
	return nil
}

func (c *enableCmd) setCredential(s *session.Session, args []string, key credentials.Key) error {
	what, missing, done := "enable password", "You must provide the enable password.", "Enable password set."
	if key == credentials.EnableSecret {
		what, missing, done = "enable secret", "You must provide the enable secret password.", "Enable secret password set."
	}
	if err := only(s, what, mode.GlobalConfig); err != nil {
		return err
	}
	if len(args) != 1 {
		return cmderr.Usagef("%s", missing)
	}
	digest := credentials.Hash(args[0])
	if err := c.svc.Creds.Set(key, digest); err != nil {
		return fmt.Errorf("store %s: %w", what, err)
	}
	if key == credentials.EnableSecret {
		s.Config.EnableSecret = digest
	} else {
		s.Config.EnablePassword = digest
	}
	c.svc.println(done)
	return nil
}

type leafEntry struct {
	mode   mode.Mode
	banner string
}

var leafEntries = map[string]leafEntry{
	"vlan":      {mode.Vlan, "Enter Vlan Manager Mode for Vlan configurations"},
	"qos":       {mode.Qos, "Enter QOS Manager Mode for QOS configurations"},
	"dynrouter": {mode.DynamicRouting, "Enter Dynamic Routing Manager Mode for Dynamic Routing configurations"},
	"portsec":   {mode.PortSecurity, "Enter Port Security Manager Mode for Port Security configurations"},
	"mon":       {mode.Monitoring, "Enter Monitoring Manager Mode for Monitoring configurations"},
	"autod":     {mode.AutoDiscovery, "Enter Auto Discovery Manager Mode for Auto Discovery configurations"},
}

// configCmd enters Global Configuration from Privileged EXEC and the
// feature-manager modes from Global Configuration.
type configCmd struct {
	svc *Services
}

func (c *configCmd) Execute(args []string, s *session.Session, _ *clock.Clock) error {
	switch {
	case s.Mode == mode.User:
		return cmderr.Modef("The 'config' commands are only available in Privileged EXEC mode and Config mode.")
	case s.Mode == mode.Privileged:
		if len(args) != 1 || args[0] != "network_manager" {
			return cmderr.Usagef("Invalid arguments provided to 'config'. Use 'config network_manager'.")
		}
		if err := s.Enter(mode.GlobalConfig); err != nil {
			return err
		}
		c.svc.println("Enter configuration commands, one per line.  End with CNTL/Z")
		return nil
	}

	if len(args) != 1 {
		return cmderr.Usagef("Invalid arguments provided to 'config commands'")
	}
	if e, ok := leafEntries[args[0]]; ok {
		if err := s.Enter(e.mode); err != nil {
			return err
		}
		c.svc.println(e.banner)
		return nil
	}
	if s.Mode == mode.DynamicRouting {
		switch args[0] {
		case "ospf":
			c.svc.State.SetFeature("ospf configuration", "enabled")
			c.svc.println("OSPF Configuration is enabled.")
			return nil
		case "rip":
			c.svc.State.SetFeature("rip configuration", "enabled")
			c.svc.println("RIP Configuration is enabled.")
			return nil
		}
	}
	return cmderr.Usagef("Invalid arguments provided to 'config commands'")
}

// interfaceCmd selects an interface in Global Configuration, and
// configures per-interface QOS and discovery settings in those managers.
type interfaceCmd struct {
	svc *Services
}

func (c *interfaceCmd) Execute(args []string, s *session.Session, _ *clock.Clock) error {
	if !s.In(mode.GlobalConfig, mode.Interface, mode.Qos, mode.AutoDiscovery) {
		return cmderr.Modef("The 'interface' command is only available in Global Configuration, Interface Configuration, QOS Manager and Auto Discovery Manager mode.")
	}
	names, err := netinfo.SourceInventory{Source: c.svc.Net}.Interfaces()
	if err != nil {
		return cmderr.Unavailablef("Failed to read network interfaces: %v", err)
	}
	if len(args) == 0 {
		return cmderr.Usagef("Please specify a valid interface. Available interfaces: %s", netinfo.JoinNames(names))
	}
	valid := func(name string) error {
		for _, n := range names {
			if n == name {
				return nil
			}
		}
		return cmderr.Usagef("Invalid interface: %s. Available interfaces: %s", name, netinfo.JoinNames(names))
	}

	iface := args[0]
	switch s.Mode {
	case mode.AutoDiscovery:
		switch {
		case len(args) == 2 && (args[1] == "enable" || args[1] == "disable"):
			if err := valid(iface); err != nil {
				return err
			}
			c.svc.State.SetFeature("auto_discovery interface "+iface, args[1]+"d")
			c.svc.printf("Auto discovery %s for the interface %s\n", args[1]+"d", iface)
		case len(args) == 3 && args[1] == "mode":
			if err := valid(iface); err != nil {
				return err
			}
			c.svc.State.SetFeature("auto_discovery interface "+iface+" mode", args[2])
			c.svc.printf("Configure the mode %s for the interface %s\n", args[2], iface)
		default:
			return cmderr.Usagef("Invalid number of arguments. Usage: interface <interface-name> [enable|disable|mode <mode>]")
		}
		return nil

	case mode.Qos:
		if len(args) != 3 || (args[1] != "cpq" && args[1] != "beq") {
			return cmderr.Usagef("Invalid number of arguments. Usage: interface <interface-name> [cpq|beq] [true|false]")
		}
		if err := valid(iface); err != nil {
			return err
		}
		switch args[2] {
		case "true":
			c.svc.State.SetFeature("qos interface "+iface+" "+args[1], "true")
			c.svc.printf("Enables %s for the interface %s\n", args[1], iface)
		case "false":
			c.svc.State.SetFeature("qos interface "+iface+" "+args[1], "false")
			c.svc.printf("Disables %s for the interface %s\n", args[1], iface)
		default:
			return cmderr.Usagef("Specify the condition as true or false. Command: 'interface <interface_name> [cpq|beq] [true|false]'")
		}
		return nil
	}

	if len(args) != 1 {
		return cmderr.Usagef("Invalid number of arguments. Usage: interface <interface-name>")
	}
	if err := valid(iface); err != nil {
		return err
	}
	if err := s.Enter(mode.Interface); err != nil {
		return err
	}
	c.svc.State.SelectInterface(iface)
	c.svc.printf("Entering Interface configuration mode for: %s\n", iface)
	return nil
}

// exitCmd leaves the current mode, or ends the shell with "exit cli" and
// the SSH session with "exit ssh".
type exitCmd struct {
	svc *Services
}

func (c *exitCmd) Execute(args []string, s *session.Session, _ *clock.Clock) error {
	switch {
	case len(args) == 0:
		left, err := s.Exit()
		if err != nil {
			c.svc.println("Already at the top level. No mode to exit.")
			return err
		}
		c.svc.printf("Exiting %s Mode...\n", s.Graph.Name(left))
		return nil
	case len(args) == 1 && args[0] == "cli":
		return errExitCLI
	case len(args) == 1 && args[0] == "ssh":
		c.svc.println("Terminating SSH session...")
		if c.svc.Hangup != nil {
			if err := c.svc.Hangup(); err != nil {
				return cmderr.External(err, "Failed to terminate the SSH session: %v", err)
			}
		}
		return errHangup
	}
	return cmderr.Usagef("Command is either 'exit' , 'exit cli' or 'exit ssh'")
}

// disableCmd returns from Privileged EXEC to User EXEC, or switches a
// feature manager off.
type disableCmd struct {
	svc  *Services
	subs map[string]*feature
}

var disableWords = []string{
	"network_manager", "vlan_manager", "qos_manager", "dynamic_routing_manager",
	"port_security_manager", "monitoring_manager", "auto_discovery_manager",
}

func newDisableCmd(svc *Services) *disableCmd {
	off := func(key, msg string) []form {
		return []form{{key: key, value: "disabled", msg: msg}}
	}
	subs := map[string]*feature{
		"network_manager": {mode: mode.GlobalConfig, forms: off("network_manager", "Network Manager is disabled.")},
		"vlan_manager":    {mode: mode.Vlan, forms: off("vlan_manager", "Vlan Manager is disabled.")},
		"qos_manager":     {mode: mode.Qos, forms: off("qos_manager", "QOS Manager is disabled.")},
		"dynamic_routing_manager": {mode: mode.DynamicRouting, usage: "Correct usage: 'disable dynamic_routing_manager <ID>'",
			forms: []form{{words: []string{"*"}, key: "dynamic_routing_manager $1", value: "disabled", msg: "Dynamic Routing Manager for the id $1 is disabled."}}},
		"port_security_manager":  {mode: mode.PortSecurity, forms: off("port_security_manager", "Port Security Manager is disabled.")},
		"monitoring_manager":     {mode: mode.Monitoring, forms: off("monitoring_manager", "Monitoring Manager is disabled.")},
		"auto_discovery_manager": {mode: mode.AutoDiscovery, forms: off("auto_discovery_manager", "Auto Discovery Manager is disabled.")},
	}
	for name, f := range subs {
		f.label = "disable " + name
		if f.usage == "" {
			f.usage = fmt.Sprintf("Invalid arguments provided to '%s'. This command does not accept additional arguments.", f.label)
		}
	}
	return &disableCmd{svc: svc, subs: subs}
}

func (c *disableCmd) Execute(args []string, s *session.Session, _ *clock.Clock) error {
	if len(args) == 0 {
		switch s.Mode {
		case mode.User:
			c.svc.println("Already at the top level. No mode to exit.")
			return cmderr.NoParent
		case mode.Privileged:
			if _, err := s.Exit(); err != nil {
				return err
			}
			c.svc.println("Exiting Privileged EXEC Mode...")
			return nil
		}
		return cmderr.Modef("This command only works at the Privileged Mode.")
	}
	f, ok := c.subs[args[0]]
	if !ok {
		return cmderr.Usagef("Unknown disable subcommand: %s", args[0])
	}
	return f.apply(c.svc, s, args[1:])
}

// hostnameCmd renames the device.
type hostnameCmd struct {
	svc *Services
}

func (c *hostnameCmd) Execute(args []string, s *session.Session, _ *clock.Clock) error {
	if err := only(s, "hostname", mode.GlobalConfig); err != nil {
		return err
	}
	if len(args) != 1 {
		return cmderr.Usagef("Please specify a new hostname. Usage: hostname <new_hostname>")
	}
	if !ValidHostname(args[0]) {
		return cmderr.Usagef("Invalid hostname format. Hostname must start with a letter and contain only letters, numbers, underscores, or hyphens.")
	}
	s.SetHostname(args[0])
	c.svc.printf("Hostname changed to '%s'\n", args[0])
	return nil
}

// ValidHostname reports whether name starts with a letter and contains
// only letters, digits, '_' and '-'.
func ValidHostname(name string) bool {
	for i, r := range name {
		letter := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
		switch {
		case letter:
		case i == 0:
			return false
		case r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return name != ""
}

func modeDescriptors(svc *Services) []*cmdtree.Descriptor {
	return []*cmdtree.Descriptor{
		{
			Name: "enable", Label: "enable", Desc: "Enter privileged EXEC mode or enable a service",
			Suggestions: enableWords, ArgSuggest: enableWords,
			Handler: newEnableCmd(svc),
		},
		{
			Name: "config", Label: "configure network_manager", Desc: "Enter configuration mode",
			Suggestions: []string{"network_manager", "vlan", "qos", "dynrouter", "portsec", "mon", "autod", "ospf", "rip"},
			ArgSuggest:  []string{"network_manager", "vlan", "qos", "dynrouter", "portsec", "mon", "autod", "ospf", "rip"},
			Handler:     &configCmd{svc: svc},
		},
		{
			Name: "interface", Label: "interface", Desc: "Enter Interface configuration mode",
			Suggestions2: []string{"mode", "enable", "disable", "cpq", "beq"},
			Dynamic:      svc.interfaces,
			Handler:      &interfaceCmd{svc: svc},
		},
		{
			Name: "exit", Label: "exit", Desc: "Exit the current mode and return to the previous mode",
			Options: []cmdtree.Candidate{{Name: "cli", Desc: "Leave the shell"}, {Name: "ssh", Desc: "Terminate the SSH session"}},
			Handler: &exitCmd{svc: svc},
		},
		{
			Name: "disable", Label: "disable", Desc: "Return to User EXEC mode or disable a service",
			Suggestions: disableWords, ArgSuggest: disableWords,
			Handler: newDisableCmd(svc),
		},
		{
			Name: "hostname", Label: "hostname <name>", Desc: "Set the device hostname",
			Options: []cmdtree.Candidate{{Name: "<new-hostname>", Desc: "Enter a new hostname"}},
			Handler: &hostnameCmd{svc: svc},
		},
	}
}
