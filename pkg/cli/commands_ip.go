package cli

import (
	"log/slog"
	"slices"

	"github.com/psaab/netshell/pkg/clock"
	"github.com/psaab/netshell/pkg/cmderr"
	"github.com/psaab/netshell/pkg/cmdtree"
	"github.com/psaab/netshell/pkg/configstore"
	"github.com/psaab/netshell/pkg/mode"
	"github.com/psaab/netshell/pkg/netinfo"
	"github.com/psaab/netshell/pkg/session"
)

var ipWords = []string{"address", "route"}

// ipCmd assigns interface addresses and static routes. Changes go to the
// kernel first and are recorded in the state store only on success.
type ipCmd struct {
	svc *Services
}

func (c *ipCmd) Execute(args []string, s *session.Session, _ *clock.Clock) error {
	args = resolveFirst(args, ipWords)
	if len(args) == 0 {
		return cmderr.Usagef("Invalid arguments provided to 'ip'. Use 'ip address' or 'ip route'.")
	}
	switch {
	case args[0] == "address" && len(args) == 1:
		links, err := c.svc.Net.Links()
		if err != nil {
			return cmderr.Unavailablef("Failed to read network interfaces: %v", err)
		}
		c.svc.println("Interface details")
		netinfo.WriteLinks(c.svc.Out, links)
		return nil
	case args[0] == "address" && len(args) == 3:
		if s.Mode != mode.Interface {
			return cmderr.Modef("The 'ip address' command is only available in Interface configuration mode.")
		}
		return c.address(args[1], args[2])
	case args[0] == "route":
		if s.Mode != mode.GlobalConfig {
			return cmderr.Modef("The 'ip route' command is only available in Global configuration mode.")
		}
		if len(args) != 5 {
			return cmderr.Usagef("Invalid arguments provided to 'ip route'. Usage: ip route <destination> <netmask> <exit_interface> <next_hop>")
		}
		return c.route(args[1], args[2], args[3], args[4])
	}
	return cmderr.Usagef("Invalid arguments provided to 'ip'. Use 'ip address <ip> <netmask>' or 'ip route <destination> <netmask> <exit_interface> <next_hop>'.")
}

func (c *ipCmd) address(ip, mask string) error {
	svc := c.svc
	iface := svc.State.SelectedInterface()
	if iface == "" {
		return cmderr.Unavailablef("No interface selected. Use the 'interface' command first.")
	}
	addr, err := configstore.ParseAddress(ip, mask)
	if err != nil {
		return cmderr.Usagef("%v", err)
	}
	if err := svc.Runner.Run(svc.ctx(), "sudo", "ifconfig", iface, ip, "netmask", mask, "up"); err != nil {
		return err
	}
	if svc.State.SetAddress(iface, addr) {
		svc.printf("Updated interface %s IP address to %s\n", iface, addr.CIDR())
	} else {
		svc.printf("Assigned IP address %s to interface %s\n", addr.CIDR(), iface)
	}
	svc.State.SetLink(iface, true)
	slog.Info("interface address set", "iface", iface, "addr", addr.CIDR())
	svc.printf("IP address %s is configured to the interface %s\n", ip, iface)
	return nil
}

func (c *ipCmd) route(dest, mask, exit, nextHop string) error {
	svc := c.svc
	r, err := configstore.ParseRoute(dest, mask, exit, nextHop)
	if err != nil {
		return cmderr.Usagef("%v", err)
	}
	names, err := netinfo.SourceInventory{Source: svc.Net}.Interfaces()
	if err != nil {
		return cmderr.Unavailablef("Failed to read network interfaces: %v", err)
	}
	if !slices.Contains(names, exit) {
		return cmderr.Usagef("Invalid exit interface: %s. Available interfaces: %s", exit, netinfo.JoinNames(names))
	}
	svc.printf("Adding route to %s via %s on interface %s\n", r.CIDR(), nextHop, exit)
	if err := svc.Runner.Run(svc.ctx(), "sudo", "ip", "route", "add", r.CIDR(), "via", nextHop, "dev", exit); err != nil {
		return err
	}
	svc.State.AddRoute(r)
	slog.Info("static route added", "dest", r.CIDR(), "via", nextHop, "dev", exit)
	svc.println("Route added successfully")
	return nil
}

// shutdownCmd takes the selected interface down.
type shutdownCmd struct {
	svc *Services
}

func (c *shutdownCmd) Execute(args []string, s *session.Session, _ *clock.Clock) error {
	if err := only(s, "shutdown", mode.Interface); err != nil {
		return err
	}
	if len(args) > 0 {
		return cmderr.Usagef("Invalid arguments provided to 'shutdown'. This command does not accept additional arguments.")
	}
	iface, err := selected(c.svc)
	if err != nil {
		return err
	}
	if err := c.svc.Runner.Run(c.svc.ctx(), "sudo", "ip", "link", "set", iface, "down"); err != nil {
		return err
	}
	c.svc.State.SetLink(iface, false)
	c.svc.printf("interface %s is set to down\n", iface)
	return nil
}

func selected(svc *Services) (string, error) {
	iface := svc.State.SelectedInterface()
	if iface == "" {
		return "", cmderr.Unavailablef("No interface selected. Use the 'interface' command first.")
	}
	return iface, nil
}

var noWords = []string{"shutdown", "ip"}

// noCmd reverses shutdown, ip address and ip route.
type noCmd struct {
	svc *Services
}

func (c *noCmd) Execute(args []string, s *session.Session, _ *clock.Clock) error {
	if !s.In(mode.GlobalConfig, mode.Interface) {
		return cmderr.Modef("The 'no' command is only available in Global configuration and Interface configuration modes.")
	}
	args = resolveFirst(args, noWords)
	if len(args) >= 2 && args[0] == "ip" {
		args = append([]string{"ip"}, resolveFirst(args[1:], ipWords)...)
	}
	switch {
	case len(args) == 1 && args[0] == "shutdown":
		return c.noShutdown(s)
	case len(args) == 6 && args[0] == "ip" && args[1] == "route":
		return c.noRoute(s, args[2], args[3], args[4], args[5])
	case len(args) == 4 && args[0] == "ip" && args[1] == "address":
		return c.noAddress(s, args[2], args[3])
	}
	return cmderr.Usagef("Invalid arguments provided to 'no'.")
}

func (c *noCmd) noShutdown(s *session.Session) error {
	if err := only(s, "no shutdown", mode.Interface); err != nil {
		return err
	}
	svc := c.svc
	iface, err := selected(svc)
	if err != nil {
		return err
	}
	if err := svc.Runner.Run(svc.ctx(), "sudo", "ip", "link", "set", iface, "up"); err != nil {
		return err
	}
	if err := svc.Runner.Run(svc.ctx(), "sudo", "netplan", "apply"); err != nil {
		svc.printf("Warning: netplan apply failed: %v\n", err)
	}
	svc.State.SetLink(iface, true)
	svc.printf("interface %s is set to up\n", iface)
	return nil
}

func (c *noCmd) noRoute(s *session.Session, dest, mask, exit, nextHop string) error {
	if err := only(s, "no ip route", mode.GlobalConfig); err != nil {
		return err
	}
	svc := c.svc
	r, err := configstore.ParseRoute(dest, mask, exit, nextHop)
	if err != nil {
		return cmderr.Usagef("%v", err)
	}
	if err := svc.Runner.Run(svc.ctx(), "sudo", "ip", "route", "del", r.CIDR(), "via", nextHop, "dev", exit); err != nil {
		return err
	}
	if !svc.State.DeleteRoute(r) {
		slog.Debug("deleted route was not in the running configuration", "dest", r.CIDR())
	}
	svc.println("Route deleted successfully")
	return nil
}

func (c *noCmd) noAddress(s *session.Session, ip, mask string) error {
	if err := only(s, "no ip address", mode.Interface); err != nil {
		return err
	}
	svc := c.svc
	iface, err := selected(svc)
	if err != nil {
		return err
	}
	addr, err := configstore.ParseAddress(ip, mask)
	if err != nil {
		return cmderr.Usagef("%v", err)
	}
	if err := svc.Runner.Run(svc.ctx(), "sudo", "ip", "addr", "del", addr.CIDR(), "dev", iface); err != nil {
		return err
	}
	svc.State.DeleteAddress(iface, addr.IP)
	svc.printf("IP address %s is removed from the interface %s\n", ip, iface)
	return nil
}

func ipDescriptors(svc *Services) []*cmdtree.Descriptor {
	return []*cmdtree.Descriptor{
		{
			Name: "ip", Label: "ip", Desc: "Configure interface addresses and static routes",
			Suggestions: ipWords, Suggestions1: ipWords,
			Options: []cmdtree.Candidate{
				{Name: "address", Desc: "Set the interface IP address"},
				{Name: "route", Desc: "Add a static route"},
			},
			Handler: &ipCmd{svc: svc},
		},
		{Name: "shutdown", Label: "shutdown", Desc: "Shut down the selected interface", Handler: &shutdownCmd{svc: svc}},
		{
			Name: "no", Label: "no", Desc: "Negate a command",
			Suggestions: noWords, ArgSuggest: noWords, Suggestions1: noWords,
			Suggestions2: ipWords,
			Options: []cmdtree.Candidate{
				{Name: "shutdown", Desc: "Bring the selected interface up"},
				{Name: "ip", Desc: "Remove an address or route"},
			},
			Handler: &noCmd{svc: svc},
		},
	}
}
