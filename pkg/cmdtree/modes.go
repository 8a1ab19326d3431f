package cmdtree

import "github.com/psaab/netshell/pkg/mode"

// common to every feature-manager mode
var managerCommon = []string{"config", "enable", "disable", "exit", "clear", "help", "reload", "poweroff", "do"}

func withCommon(extra ...string) []string {
	out := make([]string, 0, len(managerCommon)+len(extra))
	out = append(out, managerCommon...)
	return append(out, extra...)
}

// ApplianceModes lists the commands legal in each mode of mode.Appliance.
var ApplianceModes = ModeSets{
	mode.User: {
		"enable", "ping", "help", "show", "clear", "reload", "poweroff", "connect",
		"disable", "ifconfig", "traceroute", "do", "ip", "write", "dhcp_enable", "exit",
	},
	mode.Privileged: {
		"config", "ping", "exit", "write", "help", "show", "copy", "clock", "clear",
		"reload", "poweroff", "debug", "undebug", "connect", "disable", "traceroute",
		"ssh", "do", "ip", "dhcp_enable", "ifconfig",
	},
	mode.GlobalConfig: {
		"config", "enable", "hostname", "ping", "exit", "clear", "help", "write",
		"service", "ifconfig", "no", "reload", "poweroff", "connect", "disable",
		"traceroute", "interface", "ip", "dhcp_enable", "do",
	},
	mode.Interface: {
		"shutdown", "disable", "no", "exit", "clear", "help", "write", "reload",
		"poweroff", "ip", "interface", "do",
	},
	mode.Vlan:           withCommon("bridge_name", "vlan", "segment", "add", "router"),
	mode.Qos:            withCommon("policy", "interface", "priority"),
	mode.DynamicRouting: withCommon("network", "redistribute", "valid", "controller"),
	mode.PortSecurity:   withCommon("mode", "max_devices", "violation_status"),
	mode.Monitoring:     withCommon("logging_level"),
	mode.AutoDiscovery:  withCommon("holdtime", "interface", "reinit"),
}
