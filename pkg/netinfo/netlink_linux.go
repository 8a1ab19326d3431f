package netinfo

import (
	"fmt"
	"net"
	"net/netip"
	"sort"

	"github.com/vishvananda/netlink"
)

// Netlink reads state from the kernel over rtnetlink.
type Netlink struct{}

func (Netlink) Links() ([]Link, error) {
	list, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("listing interfaces: %w", err)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Attrs().Name < list[j].Attrs().Name
	})
	links := make([]Link, 0, len(list))
	for _, nl := range list {
		attrs := nl.Attrs()
		l := Link{
			Name:    attrs.Name,
			Index:   attrs.Index,
			AdminUp: attrs.Flags&net.FlagUp != 0,
			OperUp:  attrs.OperState == netlink.OperUp,
			MTU:     attrs.MTU,
		}
		if len(attrs.HardwareAddr) > 0 {
			l.HardwareAddr = attrs.HardwareAddr.String()
		}
		if st := attrs.Statistics; st != nil {
			l.RxBytes, l.RxPackets = st.RxBytes, st.RxPackets
			l.TxBytes, l.TxPackets = st.TxBytes, st.TxPackets
		}
		addrs, _ := netlink.AddrList(nl, netlink.FAMILY_ALL)
		for _, a := range addrs {
			if a.IPNet == nil {
				continue
			}
			ip, ok := netip.AddrFromSlice(a.IPNet.IP)
			if !ok {
				continue
			}
			ones, _ := a.IPNet.Mask.Size()
			l.Addrs = append(l.Addrs, netip.PrefixFrom(ip.Unmap(), ones))
		}
		links = append(links, l)
	}
	return links, nil
}

func (Netlink) Neighbors() ([]Neighbor, error) {
	neighbors, err := netlink.NeighList(0, netlink.FAMILY_V4)
	if err != nil {
		return nil, fmt.Errorf("listing ARP entries: %w", err)
	}
	var out []Neighbor
	for _, n := range neighbors {
		if n.IP == nil || n.HardwareAddr == nil {
			continue
		}
		out = append(out, Neighbor{
			IP:        n.IP.String(),
			MAC:       n.HardwareAddr.String(),
			Interface: linkName(n.LinkIndex),
			State:     neighState(n.State),
		})
	}
	return out, nil
}

func (Netlink) Routes() ([]Route, error) {
	routes, err := netlink.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return nil, fmt.Errorf("listing routes: %w", err)
	}
	out := make([]Route, 0, len(routes))
	for _, r := range routes {
		e := Route{
			Dest:      "default",
			Interface: linkName(r.LinkIndex),
			Protocol:  fmt.Sprint(r.Protocol),
		}
		if r.Dst != nil {
			e.Dest = r.Dst.String()
		}
		if r.Gw != nil {
			e.Gateway = r.Gw.String()
		}
		out = append(out, e)
	}
	return out, nil
}

func linkName(index int) string {
	if link, err := netlink.LinkByIndex(index); err == nil {
		return link.Attrs().Name
	}
	return ""
}

func neighState(state int) string {
	switch state {
	case netlink.NUD_REACHABLE:
		return "reachable"
	case netlink.NUD_STALE:
		return "stale"
	case netlink.NUD_DELAY:
		return "delay"
	case netlink.NUD_PROBE:
		return "probe"
	case netlink.NUD_FAILED:
		return "failed"
	case netlink.NUD_PERMANENT:
		return "permanent"
	case netlink.NUD_INCOMPLETE:
		return "incomplete"
	case netlink.NUD_NOARP:
		return "noarp"
	default:
		return "unknown"
	}
}
