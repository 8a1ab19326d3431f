package cmdtree

import (
	"slices"
	"strings"
	"testing"

	"github.com/psaab/netshell/pkg/clock"
	"github.com/psaab/netshell/pkg/mode"
	"github.com/psaab/netshell/pkg/session"
)

func noop(_ []string, _ *session.Session, _ *clock.Clock) error { return nil }

func TestLookupByPrefix(t *testing.T) {
	names := []string{"enable", "exit", "show", "ssh", "ospf", "ospf_controller"}
	tests := []struct {
		partial string
		kind    MatchKind
		name    string
		matches []string
	}{
		{"en", Unique, "enable", []string{"enable"}},
		{"e", Ambiguous, "", []string{"enable", "exit"}},
		{"s", Ambiguous, "", []string{"show", "ssh"}},
		{"sh", Unique, "show", []string{"show"}},
		{"zz", NoMatch, "", nil},
		{"ospf", Ambiguous, "", []string{"ospf", "ospf_controller"}},
	}
	for _, tt := range tests {
		got := LookupByPrefix(tt.partial, names)
		if got.Kind != tt.kind || got.Name != tt.name || !slices.Equal(got.Matches, tt.matches) {
			t.Errorf("LookupByPrefix(%q) = %+v, want kind %d name %q matches %q",
				tt.partial, got, tt.kind, tt.name, tt.matches)
		}
	}
}

func TestResolvePrefersExactName(t *testing.T) {
	names := []string{"ospf", "ospf_controller"}
	got := Resolve("ospf", names)
	if got.Kind != Unique || got.Name != "ospf" {
		t.Errorf("Resolve(ospf) = %+v", got)
	}
	if got := Resolve("ospf_", names); got.Kind != Unique || got.Name != "ospf_controller" {
		t.Errorf("Resolve(ospf_) = %+v", got)
	}
}

func TestLookupByPrefixOnlyConsidersCandidates(t *testing.T) {
	// "show" is registered but not offered as a candidate
	got := LookupByPrefix("sh", []string{"shutdown", "exit"})
	if got.Kind != Unique || got.Name != "shutdown" {
		t.Errorf("LookupByPrefix(sh) = %+v", got)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := NewRegistry(ModeSets{}, nil)
	r.Register(&Descriptor{Name: "show", Handler: HandlerFunc(noop)})
	defer func() {
		if recover() == nil {
			t.Fatal("duplicate registration did not panic")
		}
	}()
	r.Register(&Descriptor{Name: "show", Handler: HandlerFunc(noop)})
}

func TestRegisterWithoutHandlerPanics(t *testing.T) {
	r := NewRegistry(ModeSets{}, nil)
	defer func() {
		if recover() == nil {
			t.Fatal("registration without handler did not panic")
		}
	}()
	r.Register(&Descriptor{Name: "show"})
}

func TestValidate(t *testing.T) {
	g := mode.NewGraph(
		mode.Node{Mode: mode.User, Name: "User EXEC", Root: true, Suffix: ">"},
		mode.Node{Mode: mode.Privileged, Name: "Privileged EXEC", Parent: mode.User, Suffix: "#"},
	)
	r := NewRegistry(ModeSets{
		mode.User:       {"enable", "exit"},
		mode.Privileged: {"exit", "reload"},
	}, nil)
	r.Register(&Descriptor{Name: "enable", Handler: HandlerFunc(noop)})
	r.Register(&Descriptor{Name: "exit", Handler: HandlerFunc(noop)})

	err := r.Validate(g)
	if err == nil || !strings.Contains(err.Error(), `"reload"`) {
		t.Fatalf("Validate = %v, want unregistered reload", err)
	}
	r.Register(&Descriptor{Name: "reload", Handler: HandlerFunc(noop)})
	if err := r.Validate(g); err != nil {
		t.Fatalf("Validate = %v", err)
	}
}

func TestIsLegal(t *testing.T) {
	r := NewRegistry(ApplianceModes, ApplianceHints())
	tests := []struct {
		name string
		m    mode.Mode
		want bool
	}{
		{"enable", mode.User, true},
		{"config", mode.User, false},
		{"config", mode.Privileged, true},
		{"hostname", mode.GlobalConfig, true},
		{"hostname", mode.Privileged, false},
		{"shutdown", mode.Interface, true},
		{"vlan", mode.Vlan, true},
		{"vlan", mode.GlobalConfig, false},
		{"do", mode.AutoDiscovery, true},
	}
	for _, tt := range tests {
		if got := r.IsLegal(tt.name, tt.m); got != tt.want {
			t.Errorf("IsLegal(%s, %s) = %v, want %v", tt.name, tt.m, got, tt.want)
		}
	}
}

// A legal name that prefixes another legal name in the same mode could
// never be typed in full without an ambiguity error.
func TestApplianceModeSetsHaveNoPrefixCollisions(t *testing.T) {
	for m, names := range ApplianceModes {
		for _, a := range names {
			for _, b := range names {
				if a != b && strings.HasPrefix(b, a) {
					t.Errorf("mode %s: %q is a prefix of %q", m, a, b)
				}
			}
		}
		seen := map[string]bool{}
		for _, n := range names {
			if seen[n] {
				t.Errorf("mode %s lists %q twice", m, n)
			}
			seen[n] = true
		}
	}
}

func TestApplianceModeSetsCoverGraph(t *testing.T) {
	for _, m := range mode.Appliance.Modes() {
		if len(ApplianceModes[m]) == 0 {
			t.Errorf("mode %s has no commands", m)
		}
	}
}
