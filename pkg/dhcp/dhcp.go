// Package dhcp acquires a DHCPv4 lease for one interface and applies it
// with netlink, for "dhcp_enable <interface>".
package dhcp

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/netip"
	"time"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/insomniacslk/dhcp/dhcpv4/nclient4"
	"github.com/vishvananda/netlink"
)

// Lease holds the result of a DHCPv4 negotiation.
type Lease struct {
	Interface string
	Address   netip.Prefix
	Gateway   netip.Addr
	DNS       []netip.Addr
	LeaseTime time.Duration
	Obtained  time.Time
}

// Write prints the lease the way dhcp_enable reports it.
func (l *Lease) Write(w io.Writer) {
	fmt.Fprintf(w, "Lease obtained on %s\n", l.Interface)
	fmt.Fprintf(w, "  Address:    %s\n", l.Address)
	if l.Gateway.IsValid() {
		fmt.Fprintf(w, "  Gateway:    %s\n", l.Gateway)
	}
	for _, d := range l.DNS {
		fmt.Fprintf(w, "  DNS server: %s\n", d)
	}
	fmt.Fprintf(w, "  Lease time: %s\n", l.LeaseTime)
}

// Client runs DORA exchanges.
type Client struct {
	Timeout time.Duration
}

// NewClient returns a client with the given exchange timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{Timeout: timeout}
}

// Acquire runs DISCOVER/OFFER/REQUEST/ACK on iface.
func (c *Client) Acquire(ctx context.Context, iface string) (*Lease, error) {
	client, err := nclient4.New(iface)
	if err != nil {
		return nil, fmt.Errorf("create DHCPv4 client: %w", err)
	}
	defer client.Close()

	exCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	lease, err := client.Request(exCtx)
	if err != nil {
		return nil, fmt.Errorf("DHCPv4 request: %w", err)
	}
	return leaseFromACK(iface, lease.ACK, time.Now())
}

func leaseFromACK(iface string, ack *dhcpv4.DHCPv4, now time.Time) (*Lease, error) {
	yourIP := ack.YourIPAddr
	if yourIP == nil || yourIP.IsUnspecified() {
		return nil, fmt.Errorf("no IP in DHCP ACK")
	}
	addr, ok := netip.AddrFromSlice(yourIP.To4())
	if !ok {
		return nil, fmt.Errorf("invalid IP in DHCP ACK: %v", yourIP)
	}

	mask := ack.SubnetMask()
	if mask == nil {
		mask = net.CIDRMask(24, 32)
	}
	ones, _ := net.IPMask(mask).Size()

	lease := &Lease{
		Interface: iface,
		Address:   netip.PrefixFrom(addr, ones),
		LeaseTime: ack.IPAddressLeaseTime(time.Hour),
		Obtained:  now,
	}
	if routers := ack.Router(); len(routers) > 0 {
		if gw, ok := netip.AddrFromSlice(routers[0].To4()); ok {
			lease.Gateway = gw
		}
	}
	for _, dns := range ack.DNS() {
		if a, ok := netip.AddrFromSlice(dns.To4()); ok {
			lease.DNS = append(lease.DNS, a)
		}
	}
	return lease, nil
}

// Apply installs the leased address and, when present, a default route
// through the gateway.
func (c *Client) Apply(lease *Lease) error {
	link, err := netlink.LinkByName(lease.Interface)
	if err != nil {
		return fmt.Errorf("link lookup %s: %w", lease.Interface, err)
	}
	if err := netlink.AddrReplace(link, &netlink.Addr{IPNet: prefixToIPNet(lease.Address)}); err != nil {
		return fmt.Errorf("addr replace: %w", err)
	}
	if !lease.Gateway.IsValid() {
		return nil
	}
	route := &netlink.Route{
		LinkIndex: link.Attrs().Index,
		Gw:        lease.Gateway.AsSlice(),
	}
	if err := netlink.RouteReplace(route); err != nil {
		return fmt.Errorf("default route via %s: %w", lease.Gateway, err)
	}
	return nil
}

func prefixToIPNet(p netip.Prefix) *net.IPNet {
	bits := 32
	if p.Addr().Is6() {
		bits = 128
	}
	return &net.IPNet{IP: p.Addr().AsSlice(), Mask: net.CIDRMask(p.Bits(), bits)}
}
