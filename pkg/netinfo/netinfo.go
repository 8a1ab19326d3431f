// Package netinfo reads interfaces, addresses, routes and neighbors from
// the kernel and renders them for the show commands.
package netinfo

import (
	"fmt"
	"io"
	"net/netip"
	"sort"
	"strings"
)

// Link is a snapshot of one network interface.
type Link struct {
	Name         string
	Index        int
	AdminUp      bool
	OperUp       bool
	MTU          int
	HardwareAddr string
	Addrs        []netip.Prefix
	RxBytes      uint64
	RxPackets    uint64
	TxBytes      uint64
	TxPackets    uint64
}

// Neighbor is one ARP table entry.
type Neighbor struct {
	IP        string
	MAC       string
	Interface string
	State     string
}

// Route is one kernel IPv4 route.
type Route struct {
	Dest      string // "default" for the default route
	Gateway   string
	Interface string
	Protocol  string
}

// Source provides kernel network state.
type Source interface {
	Links() ([]Link, error)
	Neighbors() ([]Neighbor, error)
	Routes() ([]Route, error)
}

// Inventory lists interface names that "interface <name>" accepts.
type Inventory interface {
	Interfaces() ([]string, error)
}

// SourceInventory adapts a Source into an Inventory.
type SourceInventory struct{ Source Source }

// Interfaces returns sorted link names, loopback excluded.
func (si SourceInventory) Interfaces() ([]string, error) {
	links, err := si.Source.Links()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(links))
	for _, l := range links {
		if l.Name == "lo" {
			continue
		}
		names = append(names, l.Name)
	}
	sort.Strings(names)
	return names, nil
}

// Find returns the link called name.
func Find(links []Link, name string) (Link, bool) {
	for _, l := range links {
		if l.Name == name {
			return l, true
		}
	}
	return Link{}, false
}

func upDown(b bool) string {
	if b {
		return "up"
	}
	return "down"
}

func firstV4(l Link) (netip.Prefix, bool) {
	for _, p := range l.Addrs {
		if p.Addr().Is4() {
			return p, true
		}
	}
	return netip.Prefix{}, false
}

// WriteBrief renders "show ip interface brief".
func WriteBrief(w io.Writer, links []Link) {
	fmt.Fprintf(w, "%-22s %-15s %-4s %-7s %-21s %s\n",
		"Interface", "IP-Address", "OK?", "Method", "Status", "Protocol")
	for _, l := range links {
		ip := "unassigned"
		method := "unset"
		if p, ok := firstV4(l); ok {
			ip = p.Addr().String()
			method = "manual"
		}
		status := upDown(l.AdminUp)
		if !l.AdminUp {
			status = "administratively down"
		}
		fmt.Fprintf(w, "%-22s %-15s %-4s %-7s %-21s %s\n",
			l.Name, ip, "YES", method, status, upDown(l.OperUp))
	}
}

// WriteInterface renders "show ip interface <name>".
func WriteInterface(w io.Writer, l Link) {
	fmt.Fprintf(w, "%s is %s, line protocol is %s\n", l.Name, upDown(l.AdminUp), upDown(l.OperUp))
	if p, ok := firstV4(l); ok {
		fmt.Fprintf(w, "  Internet address is %s\n", p)
	} else {
		fmt.Fprintln(w, "  Internet protocol processing disabled")
	}
	for _, p := range l.Addrs {
		if p.Addr().Is6() {
			fmt.Fprintf(w, "  IPv6 address is %s\n", p)
		}
	}
	fmt.Fprintf(w, "  MTU is %d bytes\n", l.MTU)
}

// WriteLinks renders "show interfaces".
func WriteLinks(w io.Writer, links []Link) {
	for _, l := range links {
		fmt.Fprintf(w, "%s is %s, line protocol is %s\n", l.Name, upDown(l.AdminUp), upDown(l.OperUp))
		if l.HardwareAddr != "" {
			fmt.Fprintf(w, "  Hardware address is %s\n", l.HardwareAddr)
		}
		for _, p := range l.Addrs {
			fmt.Fprintf(w, "  Address: %s\n", p)
		}
		fmt.Fprintf(w, "  MTU %d bytes, index %d\n", l.MTU, l.Index)
		fmt.Fprintf(w, "  %d packets input, %d bytes\n", l.RxPackets, l.RxBytes)
		fmt.Fprintf(w, "  %d packets output, %d bytes\n", l.TxPackets, l.TxBytes)
	}
}

// WriteRoutes renders "show ip route".
func WriteRoutes(w io.Writer, routes []Route) {
	fmt.Fprintf(w, "%-20s %-16s %-12s %s\n", "Destination", "Gateway", "Interface", "Protocol")
	for _, r := range routes {
		gw := r.Gateway
		if gw == "" {
			gw = "directly connected"
		}
		fmt.Fprintf(w, "%-20s %-16s %-12s %s\n", r.Dest, gw, r.Interface, r.Protocol)
	}
}

// WriteNeighbors renders "show arp".
func WriteNeighbors(w io.Writer, neighbors []Neighbor) {
	fmt.Fprintf(w, "%-18s %-20s %-12s %-10s\n", "MAC Address", "Address", "Interface", "State")
	for _, n := range neighbors {
		fmt.Fprintf(w, "%-18s %-20s %-12s %-10s\n", n.MAC, n.IP, n.Interface, n.State)
	}
}

// Static is a fixed Source, used when the kernel cannot be queried.
type Static struct {
	LinkList     []Link
	NeighborList []Neighbor
	RouteList    []Route
}

func (s Static) Links() ([]Link, error)         { return s.LinkList, nil }
func (s Static) Neighbors() ([]Neighbor, error) { return s.NeighborList, nil }
func (s Static) Routes() ([]Route, error)       { return s.RouteList, nil }

// JoinNames renders names as "a, b, c" for error messages.
func JoinNames(names []string) string {
	return strings.Join(names, ", ")
}
