// Package configstore holds the appliance state that commands share: the
// selected interface, configured addresses and static routes, link state,
// and feature-manager settings. Each accessor takes the lock for the
// duration of one call; callers never hold it across a process invocation.
package configstore

import (
	"net/netip"
	"slices"
	"sort"
	"sync"
	"time"
)

// Address is an IPv4 address assigned to an interface.
type Address struct {
	IP   netip.Addr
	Mask string // dotted quad as entered
	Bits int
}

// Prefix returns the address with its prefix length.
func (a Address) Prefix() netip.Prefix {
	return netip.PrefixFrom(a.IP, a.Bits)
}

// Route is a static route added with "ip route".
type Route struct {
	Dest    netip.Addr
	Mask    string
	Bits    int
	Exit    string
	NextHop netip.Addr
}

// Prefix returns the destination network.
func (r Route) Prefix() netip.Prefix {
	return netip.PrefixFrom(r.Dest, r.Bits)
}

// Feature is one feature-manager setting, e.g. "vlan id" = "10".
type Feature struct {
	Key   string
	Value string
}

// Snapshot is a consistent copy of the store, used for rendering.
type Snapshot struct {
	Selected  string
	Addresses map[string]Address
	Routes    []Route
	LinkUp    map[string]bool
	Features  []Feature
}

// Store is the shared state store.
type Store struct {
	mu       sync.RWMutex
	selected string
	addrs    map[string]Address
	routes   []Route
	links    map[string]bool
	features map[string]string
	archive  *ring
}

// New returns an empty store that keeps the last archiveSize saved
// configurations.
func New(archiveSize int) *Store {
	return &Store{
		addrs:    make(map[string]Address),
		links:    make(map[string]bool),
		features: make(map[string]string),
		archive:  newRing(archiveSize),
	}
}

// SelectedInterface returns the interface chosen with "interface <name>".
func (s *Store) SelectedInterface() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SelectInterface records the interface being configured.
func (s *Store) SelectInterface(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = name
}

// ClearSelection forgets the selected interface.
func (s *Store) ClearSelection() {
	s.SelectInterface("")
}

// SetAddress assigns a to iface. It reports whether an existing address
// was replaced.
func (s *Store) SetAddress(iface string, a Address) (replaced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, replaced = s.addrs[iface]
	s.addrs[iface] = a
	return replaced
}

// Address returns the address configured on iface.
func (s *Store) Address(iface string) (Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.addrs[iface]
	return a, ok
}

// DeleteAddress removes ip from iface. It reports whether it was present.
func (s *Store) DeleteAddress(iface string, ip netip.Addr) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.addrs[iface]
	if !ok || a.IP != ip {
		return false
	}
	delete(s.addrs, iface)
	return true
}

// AddRoute appends r unless an identical route exists.
func (s *Store) AddRoute(r Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.routes, r) {
		return
	}
	s.routes = append(s.routes, r)
}

// DeleteRoute removes r. It reports whether it was present.
func (s *Store) DeleteRoute(r Route) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.Index(s.routes, r)
	if i < 0 {
		return false
	}
	s.routes = slices.Delete(s.routes, i, i+1)
	return true
}

// Routes returns the configured static routes in insertion order.
func (s *Store) Routes() []Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.routes)
}

// SetLink records the administrative state of iface.
func (s *Store) SetLink(iface string, up bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[iface] = up
}

// LinkUp returns the recorded state of iface; known is false if it was
// never changed from the shell.
func (s *Store) LinkUp(iface string) (up, known bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	up, known = s.links[iface]
	return up, known
}

// SetFeature records a feature-manager setting.
func (s *Store) SetFeature(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features[key] = value
}

// DeleteFeature removes a feature-manager setting.
func (s *Store) DeleteFeature(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.features, key)
}

// Feature returns one feature setting.
func (s *Store) Feature(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.features[key]
	return v, ok
}

// Snapshot returns a copy of the whole store.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Selected:  s.selected,
		Addresses: make(map[string]Address, len(s.addrs)),
		Routes:    slices.Clone(s.routes),
		LinkUp:    make(map[string]bool, len(s.links)),
		Features:  make([]Feature, 0, len(s.features)),
	}
	for k, v := range s.addrs {
		snap.Addresses[k] = v
	}
	for k, v := range s.links {
		snap.LinkUp[k] = v
	}
	for k, v := range s.features {
		snap.Features = append(snap.Features, Feature{Key: k, Value: v})
	}
	sort.Slice(snap.Features, func(i, j int) bool { return snap.Features[i].Key < snap.Features[j].Key })
	return snap
}

// Archive records a saved configuration.
func (s *Store) Archive(text, destination string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archive.add(SavedConfig{Config: text, Destination: destination, Timestamp: at})
}

// Archived returns saved configurations, most recent first.
func (s *Store) Archived() []SavedConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.archive.newest()
}
