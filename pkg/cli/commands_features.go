package cli

import (
	"github.com/psaab/netshell/pkg/cmdtree"
	"github.com/psaab/netshell/pkg/mode"
)

// leafCommands describes the commands of the feature-manager modes. Each
// records its setting in the state store; the settings appear in the
// network-manager block of the running configuration.
func leafCommands(svc *Services) []*cmdtree.Descriptor {
	type leaf struct {
		name, label, desc string
		sub               []string
		options           []cmdtree.Candidate
		feature
	}
	one := func(words []string, key, value, msg string) form {
		return form{words: words, key: key, value: value, msg: msg}
	}
	leaves := []leaf{
		// Dynamic Routing Manager
		{name: "network", label: "network", desc: "Configure the network commands",
			options: []cmdtree.Candidate{{Name: "<interface>", Desc: "Mention the interface"}},
			feature: feature{label: "network", mode: mode.DynamicRouting,
				usage: "Invalid arguments for 'network' command. 'network <interface> [ip|netmask|area] <value>'",
				forms: []form{
					one([]string{"*", "ip", "*"}, "ospf interface $1 ip", "$2", "Configuring the interface $1 the ip address of $2 of the ospf feature"),
					one([]string{"*", "netmask", "*"}, "ospf interface $1 netmask", "$2", "Configuring the interface $1 netmask as $2 of the ospf feature"),
					one([]string{"*", "area", "*"}, "ospf interface $1 area", "$2", "Configuring the interface $1 the area $2 of the ospf feature"),
				}}},
		{name: "redistribute", label: "redistribute ospf and rip", desc: "Redistribute OSPF and RIP routes",
			sub: []string{"ospf", "rip"},
			feature: feature{label: "redistribute", mode: mode.DynamicRouting,
				usage: "Invalid arguments for 'redistribute' command. 'redistribute [ospf|rip]'",
				forms: []form{
					one([]string{"ospf"}, "ospf redistribute", "enabled", "Configuring redistribution capability of the OSPF feature"),
					one([]string{"rip"}, "rip redistribute", "enabled", "Configuring redistribution capability of the RIP feature"),
				}}},
		{name: "valid", label: "valid ospf and rip", desc: "Mark the OSPF or RIP configuration valid",
			sub: []string{"ospf", "rip"},
			feature: feature{label: "valid", mode: mode.DynamicRouting,
				usage: "Invalid arguments for 'valid' command. 'valid [ospf|rip]'",
				forms: []form{
					one([]string{"ospf"}, "ospf status", "valid", "Writing the previous configuration to the OSPF manager"),
					one([]string{"rip"}, "rip status", "valid", "Writing the previous configuration to the RIP manager"),
				}}},
		{name: "controller", label: "controller status", desc: "Define controller status",
			sub: []string{"status"},
			feature: feature{label: "controller", mode: mode.DynamicRouting,
				usage: "Invalid arguments for 'controller' command. 'controller status <status>'",
				forms: []form{one([]string{"status", "*"}, "controller status", "$1", "Controller status set to $1")}}},

		// Vlan Manager
		{name: "bridge_name", label: "bridge_name", desc: "Configure the name of a bridge",
			options: []cmdtree.Candidate{{Name: "<name>", Desc: "Define the bridge name"}},
			feature: feature{label: "bridge_name", mode: mode.Vlan,
				usage: "Invalid arguments for 'bridge_name' command. 'bridge_name <name>'",
				forms: []form{one([]string{"*"}, "vlan bridge name", "$1", "Bridge name is set to $1")}}},
		{name: "add", label: "add bridge and interface", desc: "Add a bridge or routing protocol to an interface",
			sub: []string{"bridge", "interface"},
			feature: feature{label: "add", mode: mode.Vlan,
				usage: "Invalid arguments for 'add' command. 'add bridge <bridge_name> interface <interface_name>' or 'add interface <interface_name> protocol <protocol> router <router_name>'",
				forms: []form{
					one([]string{"bridge", "*", "interface", "*"}, "vlan bridge $1 interface $2", "added", "The bridge $1 is added to the interface $2"),
					one([]string{"interface", "*", "protocol", "*", "router", "*"}, "vlan router $3 protocol $2 interface $1", "added", "$2 routing protocol is added to the interface $1 and router $3"),
				}}},
		{name: "router", label: "router name", desc: "Configure the name of a router",
			sub: []string{"name"},
			feature: feature{label: "router name", mode: mode.Vlan,
				usage: "Invalid arguments for 'router' command. 'router name <name>'",
				forms: []form{one([]string{"name", "*"}, "vlan router name", "$1", "Router name is set to $1")}}},
		{name: "segment", label: "segment id", desc: "Configure the VLAN segment ID",
			sub: []string{"id"},
			feature: feature{label: "segment id", mode: mode.Vlan,
				usage: "Invalid arguments for 'segment id' command. 'segment id <ID>'",
				forms: []form{one([]string{"id", "*"}, "vlan segment id", "$1", "Segment ID is set to $1")}}},
		{name: "vlan", label: "vlan id", desc: "Assign the VLAN ID",
			sub: []string{"id"},
			feature: feature{label: "vlan id", mode: mode.Vlan,
				usage: "Invalid arguments for 'vlan id' command. 'vlan id <ID>'",
				forms: []form{one([]string{"id", "*"}, "vlan id", "$1", "VLAN ID is set to $1")}}},

		// QOS Manager
		{name: "policy", label: "policy", desc: "Set the QoS policy",
			options: []cmdtree.Candidate{{Name: "<policy>", Desc: "Set the QOS policy"}},
			feature: feature{label: "policy", mode: mode.Qos,
				usage: "Invalid arguments for 'policy' command. 'policy <policy>'",
				forms: []form{one([]string{"*"}, "qos policy", "$1", "QOS policy is set to $1")}}},
		{name: "priority", label: "priority", desc: "Assign a priority level to an interface",
			sub: []string{"level"},
			feature: feature{label: "priority", mode: mode.Qos,
				usage: "Invalid arguments for 'priority' command. 'priority level <level> interface <interface_name>'",
				forms: []form{one([]string{"level", "*", "interface", "*"}, "qos interface $2 priority", "$1", "Priority level $1 is set to the interface $2")}}},

		// Port Security Manager
		{name: "mode", label: "mode", desc: "Set the port security mode",
			options: []cmdtree.Candidate{{Name: "<mode>", Desc: "Set the mode"}},
			feature: feature{label: "mode", mode: mode.PortSecurity,
				usage: "Invalid arguments for 'mode' command. 'mode <mode>'",
				forms: []form{one([]string{"*"}, "port_security mode", "$1", "Port security mode set to $1")}}},
		{name: "max_devices", label: "max_devices", desc: "Limit the number of devices allowed per port",
			options: []cmdtree.Candidate{{Name: "<number>", Desc: "Set the maximum number of devices"}},
			feature: feature{label: "max_devices", mode: mode.PortSecurity,
				usage: "Invalid arguments for 'max_devices' command. 'max_devices <number>'",
				forms: []form{one([]string{"*"}, "port_security max_devices", "$1", "The maximum amount of devices set to $1")}}},
		{name: "violation_status", label: "violation_status", desc: "Configure the port security violation mode",
			options: []cmdtree.Candidate{{Name: "<status>", Desc: "Set the status"}},
			feature: feature{label: "violation_status", mode: mode.PortSecurity,
				usage: "Invalid arguments for 'violation_status' command. 'violation_status <status>'",
				forms: []form{one([]string{"*"}, "port_security violation", "$1", "The violation status is set to $1")}}},

		// Monitoring Manager
		{name: "logging_level", label: "logging_level", desc: "Define the logging level",
			options: []cmdtree.Candidate{{Name: "<level>", Desc: "Define the logging level"}},
			feature: feature{label: "logging_level", mode: mode.Monitoring,
				usage: "Invalid arguments for 'logging_level' command. 'logging_level <level>'",
				forms: []form{one([]string{"*"}, "monitoring logging", "$1", "Logging level set to $1")}}},

		// Auto Discovery Manager
		{name: "holdtime", label: "holdtime", desc: "Set the hold time for discovery messages",
			options: []cmdtree.Candidate{{Name: "<time|default>", Desc: "Set the hold time in seconds"}},
			feature: feature{label: "holdtime", mode: mode.AutoDiscovery,
				usage: "Invalid arguments for 'holdtime' command. 'holdtime <time|default>'",
				forms: []form{one([]string{"*"}, "auto_discovery holdtime", "$1", "Hold time set to $1s")}}},
		{name: "reinit", label: "reinit", desc: "Set the reinitialization behaviour",
			sub: []string{"behaviour"},
			feature: feature{label: "reinit", mode: mode.AutoDiscovery,
				usage: "Invalid arguments for 'reinit' command. 'reinit behaviour <behaviour>'",
				forms: []form{one([]string{"behaviour", "*"}, "auto_discovery reinit", "$1", "Reinitialization behaviour set to $1")}}},
	}

	out := make([]*cmdtree.Descriptor, 0, len(leaves))
	for _, sp := range leaves {
		out = append(out, &cmdtree.Descriptor{
			Name:         sp.name,
			Label:        sp.label,
			Desc:         sp.desc,
			Suggestions:  sp.sub,
			ArgSuggest:   sp.sub,
			Suggestions1: sp.sub,
			Options:      sp.options,
			Handler:      &featureCmd{svc: svc, feature: sp.feature},
		})
	}
	return out
}
