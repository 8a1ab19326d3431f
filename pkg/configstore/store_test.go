package configstore

import (
	"net/netip"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(3)
}

func TestMaskBits(t *testing.T) {
	tests := []struct {
		mask    string
		want    int
		wantErr bool
	}{
		{"255.255.255.0", 24, false},
		{"255.255.255.255", 32, false},
		{"0.0.0.0", 0, false},
		{"255.255.128.0", 17, false},
		{"255.0.255.0", 0, true},
		{"255.255.255", 0, true},
		{"255.255.255.256", 0, true},
		{"a.b.c.d", 0, true},
	}
	for _, tt := range tests {
		got, err := MaskBits(tt.mask)
		if (err != nil) != tt.wantErr {
			t.Errorf("MaskBits(%q) err = %v", tt.mask, err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("MaskBits(%q) = %d, want %d", tt.mask, got, tt.want)
		}
		if err != nil && err.Error() != "Invalid subnet mask" {
			t.Errorf("MaskBits(%q) message = %q", tt.mask, err)
		}
	}
	for _, n := range []int{0, 8, 17, 24, 32} {
		if got, _ := MaskBits(BitsMask(n)); got != n {
			t.Errorf("BitsMask(%d) round trip = %d", n, got)
		}
	}
}

func TestParseAddress(t *testing.T) {
	a, err := ParseAddress("192.168.1.10", "255.255.255.0")
	if err != nil {
		t.Fatal(err)
	}
	if a.CIDR() != "192.168.1.10/24" {
		t.Fatalf("CIDR = %s", a.CIDR())
	}
	if _, err := ParseAddress("::1", "255.255.255.0"); err == nil {
		t.Error("IPv6 accepted")
	}
	if _, err := ParseAddress("10.0.0.300", "255.0.0.0"); err == nil {
		t.Error("bad octet accepted")
	}
}

func TestAddressTable(t *testing.T) {
	s := newTestStore(t)
	a, _ := ParseAddress("10.0.0.1", "255.255.255.0")
	if s.SetAddress("eth0", a) {
		t.Error("first SetAddress reported replace")
	}
	b, _ := ParseAddress("10.0.0.2", "255.255.255.0")
	if !s.SetAddress("eth0", b) {
		t.Error("second SetAddress should replace")
	}
	if s.DeleteAddress("eth0", a.IP) {
		t.Error("deleted an address that is no longer configured")
	}
	if !s.DeleteAddress("eth0", b.IP) {
		t.Error("DeleteAddress failed")
	}
	if _, ok := s.Address("eth0"); ok {
		t.Error("address still present")
	}
}

func TestRoutes(t *testing.T) {
	s := newTestStore(t)
	r, err := ParseRoute("10.1.0.0", "255.255.0.0", "eth1", "10.0.0.254")
	if err != nil {
		t.Fatal(err)
	}
	s.AddRoute(r)
	s.AddRoute(r)
	if got := s.Routes(); len(got) != 1 || got[0].CIDR() != "10.1.0.0/16" {
		t.Fatalf("Routes = %+v", got)
	}
	if !s.DeleteRoute(r) || s.DeleteRoute(r) {
		t.Fatal("DeleteRoute should succeed exactly once")
	}
	if _, err := ParseRoute("10.1.0.0", "255.255.0.0", "eth1", "gateway"); err == nil {
		t.Error("bad next hop accepted")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newTestStore(t)
	s.SelectInterface("eth0")
	s.SetLink("eth0", true)
	s.SetFeature("vlan id", "10")
	s.SetFeature("bridge name", "br0")

	snap := s.Snapshot()
	snap.LinkUp["eth0"] = false
	if up, _ := s.LinkUp("eth0"); !up {
		t.Error("snapshot mutation leaked into store")
	}
	if snap.Selected != "eth0" {
		t.Errorf("Selected = %q", snap.Selected)
	}
	if len(snap.Features) != 2 || snap.Features[0].Key != "bridge name" {
		t.Errorf("Features not sorted: %+v", snap.Features)
	}
	s.ClearSelection()
	if s.SelectedInterface() != "" {
		t.Error("selection not cleared")
	}
}

func TestArchiveRing(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.Archive("cfg", "startup-config", base.Add(time.Duration(i)*time.Minute))
	}
	got := s.Archived()
	if len(got) != 3 {
		t.Fatalf("archive len = %d, want 3", len(got))
	}
	if !got[0].Timestamp.Equal(base.Add(4 * time.Minute)) {
		t.Errorf("most recent first: got %v", got[0].Timestamp)
	}
}

func TestRingBeforeWrap(t *testing.T) {
	r := newRing(3)
	if got := r.newest(); len(got) != 0 {
		t.Fatalf("empty ring = %+v", got)
	}
	r.add(SavedConfig{Config: "a"})
	r.add(SavedConfig{Config: "b"})
	got := r.newest()
	if len(got) != 2 || got[0].Config != "b" || got[1].Config != "a" {
		t.Fatalf("newest = %+v", got)
	}
	r.add(SavedConfig{Config: "c"})
	r.add(SavedConfig{Config: "d"})
	got = r.newest()
	if len(got) != 3 || got[0].Config != "d" || got[2].Config != "b" {
		t.Fatalf("after wrap = %+v", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := newTestStore(t)
	ip := netip.MustParseAddr("10.0.0.1")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.SetAddress("eth0", Address{IP: ip, Mask: "255.0.0.0", Bits: 8})
				s.SetLink("eth0", j%2 == 0)
				_ = s.Snapshot()
			}
		}()
	}
	wg.Wait()
	if _, ok := s.Address("eth0"); !ok {
		t.Fatal("address missing")
	}
}
