package dhcp

import (
	"bytes"
	"net"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/insomniacslk/dhcp/dhcpv4"
)

func TestLeaseFromACK(t *testing.T) {
	ack, err := dhcpv4.New(
		dhcpv4.WithYourIP(net.IPv4(192, 168, 10, 50)),
		dhcpv4.WithNetmask(net.CIDRMask(24, 32)),
		dhcpv4.WithRouter(net.IPv4(192, 168, 10, 1)),
		dhcpv4.WithDNS(net.IPv4(1, 1, 1, 1), net.IPv4(8, 8, 8, 8)),
		dhcpv4.WithLeaseTime(7200),
	)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lease, err := leaseFromACK("eth0", ack, now)
	if err != nil {
		t.Fatal(err)
	}
	if lease.Address != netip.MustParsePrefix("192.168.10.50/24") {
		t.Errorf("Address = %s", lease.Address)
	}
	if lease.Gateway != netip.MustParseAddr("192.168.10.1") {
		t.Errorf("Gateway = %s", lease.Gateway)
	}
	if len(lease.DNS) != 2 || lease.DNS[1] != netip.MustParseAddr("8.8.8.8") {
		t.Errorf("DNS = %v", lease.DNS)
	}
	if lease.LeaseTime != 2*time.Hour {
		t.Errorf("LeaseTime = %s", lease.LeaseTime)
	}
	if !lease.Obtained.Equal(now) {
		t.Errorf("Obtained = %v", lease.Obtained)
	}

	var buf bytes.Buffer
	lease.Write(&buf)
	for _, want := range []string{"Lease obtained on eth0", "192.168.10.50/24", "Gateway:    192.168.10.1", "2h0m0s"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q in %q", want, buf.String())
		}
	}
}

func TestLeaseFromACKDefaults(t *testing.T) {
	ack, err := dhcpv4.New(dhcpv4.WithYourIP(net.IPv4(10, 0, 0, 9)))
	if err != nil {
		t.Fatal(err)
	}
	lease, err := leaseFromACK("eth1", ack, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if lease.Address.Bits() != 24 || lease.LeaseTime != time.Hour || lease.Gateway.IsValid() {
		t.Errorf("defaults not applied: %+v", lease)
	}
}

func TestLeaseFromACKNoAddress(t *testing.T) {
	ack, err := dhcpv4.New()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := leaseFromACK("eth0", ack, time.Now()); err == nil {
		t.Fatal("expected error for ACK without yiaddr")
	}
}

func TestPrefixToIPNet(t *testing.T) {
	n := prefixToIPNet(netip.MustParsePrefix("10.1.2.3/16"))
	if n.String() != "10.1.2.3/16" {
		t.Errorf("IPNet = %s", n)
	}
}
