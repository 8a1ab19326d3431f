package configstore

import (
	"fmt"
	"math/bits"
	"net/netip"
	"strconv"
	"strings"
)

// MaskBits converts a dotted-quad netmask to a prefix length. The mask
// must have four octets and contiguous one bits.
func MaskBits(mask string) (int, error) {
	parts := strings.Split(mask, ".")
	if len(parts) != 4 {
		return 0, fmt.Errorf("Invalid subnet mask")
	}
	var v uint32
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("Invalid subnet mask")
		}
		v = v<<8 | uint32(n)
	}
	ones := bits.OnesCount32(v)
	if bits.LeadingZeros32(^v) != ones {
		return 0, fmt.Errorf("Invalid subnet mask")
	}
	return ones, nil
}

// BitsMask converts a prefix length to a dotted-quad netmask.
func BitsMask(n int) string {
	if n <= 0 {
		return "0.0.0.0"
	}
	v := ^uint32(0) << (32 - n)
	return fmt.Sprintf("%d.%d.%d.%d", byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// ParseIPv4 parses a dotted-quad IPv4 address.
func ParseIPv4(s string) (netip.Addr, error) {
	a, err := netip.ParseAddr(s)
	if err != nil || !a.Is4() {
		return netip.Addr{}, fmt.Errorf("Invalid IP address: %s", s)
	}
	return a, nil
}

// ParseAddress validates an "ip address <ip> <mask>" pair.
func ParseAddress(ip, mask string) (Address, error) {
	a, err := ParseIPv4(ip)
	if err != nil {
		return Address{}, err
	}
	n, err := MaskBits(mask)
	if err != nil {
		return Address{}, err
	}
	return Address{IP: a, Mask: mask, Bits: n}, nil
}

// CIDR renders ip/bits, e.g. "10.0.0.1/24".
func (a Address) CIDR() string {
	return fmt.Sprintf("%s/%d", a.IP, a.Bits)
}

// ParseRoute validates "ip route <dest> <mask> <exit> <next-hop>" arguments.
func ParseRoute(dest, mask, exit, nextHop string) (Route, error) {
	d, err := ParseIPv4(dest)
	if err != nil {
		return Route{}, err
	}
	n, err := MaskBits(mask)
	if err != nil {
		return Route{}, err
	}
	nh, err := ParseIPv4(nextHop)
	if err != nil {
		return Route{}, err
	}
	return Route{Dest: d, Mask: mask, Bits: n, Exit: exit, NextHop: nh}, nil
}

// CIDR renders the destination as dest/bits.
func (r Route) CIDR() string {
	return fmt.Sprintf("%s/%d", r.Dest, r.Bits)
}
