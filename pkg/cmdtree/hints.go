package cmdtree

import (
	"slices"
	"strings"

	"github.com/psaab/netshell/pkg/mode"
)

// OverrideKey selects a per-mode first-level hint list.
type OverrideKey struct {
	Command string
	Mode    mode.Mode
}

// PositionalHint offers Hints after the arguments in Path. A path word of
// "*" matches any argument and "a|b" matches either alternative. An empty
// Modes list applies in every mode.
type PositionalHint struct {
	Path  []string
	Modes []mode.Mode
	Hints []Candidate
}

func (p PositionalHint) matches(m mode.Mode, args []string) bool {
	if len(p.Path) != len(args) {
		return false
	}
	if len(p.Modes) > 0 {
		found := false
		for _, pm := range p.Modes {
			if pm == m {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for i, want := range p.Path {
		if want == "*" {
			continue
		}
		ok := false
		for _, alt := range strings.Split(want, "|") {
			if alt == args[i] {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// Hints holds the completion tables that are not part of a command
// descriptor.
type Hints struct {
	// Overrides replace a command's first-level list in one mode. A
	// present-but-empty entry means the command takes no subcommand there.
	Overrides map[OverrideKey][]string
	// Positional holds hints for argument positions two and deeper,
	// keyed by command.
	Positional map[string][]PositionalHint
	// Keywords describes keywords named in Overrides.
	Keywords map[string]string
}

// Override returns the first-level list for (command, m), if one is declared.
func (h *Hints) Override(command string, m mode.Mode) ([]string, bool) {
	v, ok := h.Overrides[OverrideKey{Command: command, Mode: m}]
	return v, ok
}

// At returns a copy of the hints offered after args for command in mode m.
func (h *Hints) At(command string, m mode.Mode, args []string) ([]Candidate, bool) {
	for _, p := range h.Positional[command] {
		if p.matches(m, args) {
			return slices.Clone(p.Hints), true
		}
	}
	return nil, false
}

// Describe returns the description of a keyword.
func (h *Hints) Describe(word string) string {
	return h.Keywords[word]
}

func c(name, desc string) Candidate { return Candidate{Name: name, Desc: desc} }

func at(hints []Candidate, path ...string) PositionalHint {
	return PositionalHint{Path: path, Hints: hints}
}

func in(modes []mode.Mode, p PositionalHint) PositionalHint {
	p.Modes = modes
	return p
}

var (
	configChildren = []string{"vlan", "qos", "dynrouter", "portsec", "mon", "autod"}
	leafModes      = []mode.Mode{mode.Vlan, mode.Qos, mode.DynamicRouting, mode.PortSecurity, mode.Monitoring, mode.AutoDiscovery}

	timeSlot  = c("<hh:mm:ss>", "Enter the time in this specified format")
	daySlot   = c("<day>", "Enter the day '1-31'")
	monthSlot = c("<month>", "Enter a valid month")
	yearSlot  = c("<year>", "Enter the year '1993-2035'")
)

var showUser = []string{"version", "clock", "uptime", "controllers", "history", "sessions", "arp"}

var showPrivileged = []string{
	"running-config", "startup-config", "version", "ntp", "processes", "clock",
	"uptime", "history", "interfaces", "ip", "login", "arp", "archive",
}

func applianceOverrides() map[OverrideKey][]string {
	o := map[OverrideKey][]string{
		{"show", mode.User}:       showUser,
		{"show", mode.Privileged}: showPrivileged,

		{"config", mode.Privileged}:   {"network_manager"},
		{"config", mode.GlobalConfig}: configChildren,

		{"enable", mode.User}:           {},
		{"enable", mode.GlobalConfig}:   {"password", "secret", "network_manager"},
		{"enable", mode.Vlan}:           {"vlan_manager", "bridge", "router", "protocol", "id", "vlan_tagging", "vlan_routing"},
		{"enable", mode.Qos}:            {"qos_manager", "qos_config"},
		{"enable", mode.DynamicRouting}: {"dynamic_routing_manager", "ospf", "rip", "ospf_controller", "rip_controller"},
		{"enable", mode.PortSecurity}:   {"port_security_manager"},
		{"enable", mode.Monitoring}:     {"monitoring_manager", "coredump_login"},
		{"enable", mode.AutoDiscovery}:  {"auto_discovery_manager"},

		{"disable", mode.User}:           {},
		{"disable", mode.Privileged}:     {},
		{"disable", mode.Interface}:      {},
		{"disable", mode.GlobalConfig}:   {"network_manager"},
		{"disable", mode.Vlan}:           {"vlan_manager"},
		{"disable", mode.Qos}:            {"qos_manager"},
		{"disable", mode.DynamicRouting}: {"dynamic_routing_manager"},
		{"disable", mode.PortSecurity}:   {"port_security_manager"},
		{"disable", mode.Monitoring}:     {"monitoring_manager"},
		{"disable", mode.AutoDiscovery}:  {"auto_discovery_manager"},
	}
	// feature managers are entered from Global Configuration only
	for _, m := range leafModes {
		o[OverrideKey{"config", m}] = []string{}
	}
	o[OverrideKey{"config", mode.DynamicRouting}] = []string{"ospf", "rip"}
	return o
}

var applianceKeywords = map[string]string{
	"version":        "Display the CLI and system version",
	"clock":          "Display the current clock",
	"uptime":         "Display how long the shell has been running",
	"controllers":    "Display USB and PCI controllers",
	"history":        "Display the command history",
	"sessions":       "Display logged-in sessions",
	"arp":            "Display the ARP table",
	"running-config": "Display the running configuration",
	"startup-config": "Display the saved startup configuration",
	"ntp":            "Display NTP information",
	"processes":      "Display running processes",
	"interfaces":     "Display interface status and counters",
	"ip":             "Display IP information",
	"login":          "Display the identity of the logged-in user",
	"archive":        "Display recently saved configurations",

	"network_manager": "Network Manager",
	"vlan":            "Enter Vlan Manager mode",
	"qos":             "Enter QOS Manager mode",
	"dynrouter":       "Enter Dynamic Routing Manager mode",
	"portsec":         "Enter Port Security Manager mode",
	"mon":             "Enter Monitoring Manager mode",
	"autod":           "Enter Auto Discovery Manager mode",

	"password":                "Set the enable password",
	"secret":                  "Set the enable secret",
	"vlan_manager":            "Vlan Manager",
	"bridge":                  "Enable a bridge",
	"router":                  "Enable a router",
	"protocol":                "Enable a protocol on a router",
	"id":                      "Enable an ID",
	"vlan_tagging":            "Enable VLAN tagging",
	"vlan_routing":            "Enable VLAN routing for an ID",
	"qos_manager":             "QOS Manager",
	"qos_config":              "Enable the QOS configuration",
	"dynamic_routing_manager": "Dynamic Routing Manager",
	"ospf":                    "OSPF routing",
	"rip":                     "RIP routing",
	"ospf_controller":         "OSPF controller",
	"rip_controller":          "RIP controller",
	"port_security_manager":   "Port Security Manager",
	"monitoring_manager":      "Monitoring Manager",
	"coredump_login":          "Coredump login",
	"auto_discovery_manager":  "Auto Discovery Manager",
}

func appliancePositional() map[string][]PositionalHint {
	ipWords := []Candidate{c("interface", "Display IP interface status"), c("route", "Display the IP routing table")}
	ifaceWords := []Candidate{c("brief", "Brief summary of IP status"), c("<interface>", "Interface name")}
	clockSet := func(prefix ...string) []PositionalHint {
		p := func(extra ...string) []string { return append(append([]string{}, prefix...), extra...) }
		return []PositionalHint{
			at([]Candidate{c("set", "Set the time and date")}, p()...),
			at([]Candidate{timeSlot}, p("set")...),
			at([]Candidate{daySlot}, p("set", "*")...),
			at([]Candidate{monthSlot}, p("set", "*", "*")...),
			at([]Candidate{yearSlot}, p("set", "*", "*", "*")...),
		}
	}
	vlanOnly := []mode.Mode{mode.Vlan}

	do := []PositionalHint{
		at([]Candidate{c("set", "Set the time and date")}, "clock"),
		at([]Candidate{c("all", "All debugging")}, "debug|undebug"),
		at([]Candidate{c("running-config", "Copy from the running configuration")}, "copy"),
		at(ipWords, "show", "ip"),
		at([]Candidate{c("associations", "Display NTP associations")}, "show", "ntp"),
		at([]Candidate{c("startup-config", "Copy to the startup configuration"), c("<file-name>", "Copy to a file")}, "copy", "running-config"),
		at(ifaceWords, "show", "ip", "interface"),
	}
	do = append(do, clockSet("clock")[1:]...)

	return map[string][]PositionalHint{
		"show": {
			at(ipWords, "ip"),
			at([]Candidate{c("associations", "Display NTP associations")}, "ntp"),
			at(ifaceWords, "ip", "interface"),
		},
		"do":    do,
		"clock": clockSet()[1:],
		"copy": {
			at([]Candidate{c("startup-config", "Copy to the startup configuration"), c("<file-name>", "Copy to a file")}, "running-config"),
		},
		"enable": {
			in(vlanOnly, at([]Candidate{c("<name>", "Define the specified name")}, "bridge|router")),
			in(vlanOnly, at([]Candidate{c("<protocol>", "Routing protocol name")}, "protocol")),
			in(vlanOnly, at([]Candidate{c("<Id>", "Identifier")}, "id")),
			in(vlanOnly, at([]Candidate{c("id", "Identifier")}, "vlan_routing")),
			in(vlanOnly, at([]Candidate{c("id", "Attach the router to an ID")}, "router", "*")),
			in(vlanOnly, at([]Candidate{c("router", "Router the protocol runs on")}, "protocol", "*")),
			in(vlanOnly, at([]Candidate{c("<ID>", "Identifier")}, "router", "*", "id")),
			in(vlanOnly, at([]Candidate{c("<name>", "Router name")}, "protocol", "*", "router")),
			in([]mode.Mode{mode.GlobalConfig}, at([]Candidate{c("<password|secret>", "Enter the password or secret")}, "password|secret")),
			at([]Candidate{c("id", "Identifier")}, "qos_manager|dynamic_routing_manager"),
			at([]Candidate{c("<ID>", "Identifier")}, "*", "id"),
		},
		"disable": {
			in([]mode.Mode{mode.DynamicRouting}, at([]Candidate{c("<ID>", "Identifier")}, "dynamic_routing_manager")),
		},
		"interface": {
			in([]mode.Mode{mode.Qos}, at([]Candidate{c("cpq", "Custom priority queueing"), c("beq", "Best-effort queueing")}, "*")),
			in([]mode.Mode{mode.Qos}, at([]Candidate{c("true", "Enable"), c("false", "Disable")}, "*", "cpq|beq")),
			in([]mode.Mode{mode.AutoDiscovery}, at([]Candidate{c("enable", "Enable auto discovery"), c("disable", "Disable auto discovery"), c("mode", "Set the discovery mode")}, "*")),
			in([]mode.Mode{mode.AutoDiscovery}, at([]Candidate{c("<mode>", "Discovery mode")}, "*", "mode")),
		},
		"ssh": {
			at([]Candidate{c("<user_name>@<IP-address>", "Remote user and IPv4 address")}, "-l"),
			at([]Candidate{c("<version>", "SSH protocol version")}, "-v"),
		},
		"ip": {
			at([]Candidate{c("<ip_address>", "IPv4 address")}, "address"),
			at([]Candidate{c("<subnetmask>", "Dotted-quad subnet mask")}, "address", "*"),
			at([]Candidate{c("<destination>", "Destination network")}, "route"),
			at([]Candidate{c("<netmask>", "Destination netmask")}, "route", "*"),
			at([]Candidate{c("<exit_interface>", "Outgoing interface")}, "route", "*", "*"),
			at([]Candidate{c("<next_hop>", "Next-hop IPv4 address")}, "route", "*", "*", "*"),
		},
		"no": {
			at([]Candidate{c("address", "Remove an interface address"), c("route", "Remove a static route")}, "ip"),
			at([]Candidate{c("<ip_address>", "IPv4 address")}, "ip", "address"),
			at([]Candidate{c("<subnetmask>", "Dotted-quad subnet mask")}, "ip", "address", "*"),
			at([]Candidate{c("<destination>", "Destination network")}, "ip", "route"),
			at([]Candidate{c("<netmask>", "Destination netmask")}, "ip", "route", "*"),
			at([]Candidate{c("<exit_interface>", "Outgoing interface")}, "ip", "route", "*", "*"),
			at([]Candidate{c("<next_hop>", "Next-hop IPv4 address")}, "ip", "route", "*", "*", "*"),
		},
		"priority": {
			at([]Candidate{c("<level>", "Priority level")}, "level"),
			at([]Candidate{c("interface", "Interface the level applies to")}, "level", "*"),
			at([]Candidate{c("<interface>", "Interface name")}, "level", "*", "interface"),
		},
		"add": {
			at([]Candidate{c("<bridge_name>", "Bridge name")}, "bridge"),
			at([]Candidate{c("interface", "Interface to add the bridge to")}, "bridge", "*"),
			at([]Candidate{c("<interface_name>", "Interface name")}, "bridge", "*", "interface"),
			at([]Candidate{c("<interface_name>", "Interface name")}, "interface"),
			at([]Candidate{c("protocol", "Routing protocol")}, "interface", "*"),
			at([]Candidate{c("<protocol>", "Routing protocol name")}, "interface", "*", "protocol"),
			at([]Candidate{c("router", "Router the protocol runs on")}, "interface", "*", "protocol", "*"),
			at([]Candidate{c("<router_name>", "Router name")}, "interface", "*", "protocol", "*", "router"),
		},
		"network": {
			at([]Candidate{c("ip", "Interface IP address"), c("netmask", "Interface netmask"), c("area", "OSPF area")}, "*"),
			at([]Candidate{c("<ip_address>", "IPv4 address")}, "*", "ip"),
			at([]Candidate{c("<netmask>", "Dotted-quad netmask")}, "*", "netmask"),
			at([]Candidate{c("<area>", "OSPF area")}, "*", "area"),
		},
		"controller": {at([]Candidate{c("<status>", "Controller status")}, "status")},
		"router":     {at([]Candidate{c("<name>", "Router name")}, "name")},
		"segment":    {at([]Candidate{c("<id>", "Segment ID")}, "id")},
		"vlan":       {at([]Candidate{c("<id>", "VLAN ID")}, "id")},
		"reinit":     {at([]Candidate{c("<behaviour>", "Reinitialization behaviour")}, "behaviour")},
	}
}

// ApplianceHints returns the completion tables for mode.Appliance.
func ApplianceHints() *Hints {
	return &Hints{
		Overrides:  applianceOverrides(),
		Positional: appliancePositional(),
		Keywords:   applianceKeywords,
	}
}
