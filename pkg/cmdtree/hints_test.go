package cmdtree

import (
	"slices"
	"testing"

	"github.com/psaab/netshell/pkg/mode"
)

func TestOverridePresence(t *testing.T) {
	h := ApplianceHints()

	got, ok := h.Override("enable", mode.User)
	if !ok || len(got) != 0 {
		t.Errorf("enable in User = %q, %v; want present and empty", got, ok)
	}
	if _, ok := h.Override("enable", mode.Privileged); ok {
		t.Error("enable in Privileged should fall back to the descriptor")
	}
	if got, _ := h.Override("config", mode.Vlan); len(got) != 0 {
		t.Errorf("config in Vlan = %q, want empty", got)
	}
	if got, _ := h.Override("config", mode.DynamicRouting); !slices.Equal(got, []string{"ospf", "rip"}) {
		t.Errorf("config in DynamicRouting = %q", got)
	}
}

func TestShowOverridesSplitByMode(t *testing.T) {
	h := ApplianceHints()
	user, _ := h.Override("show", mode.User)
	priv, _ := h.Override("show", mode.Privileged)
	for _, w := range []string{"running-config", "startup-config", "interfaces", "ip"} {
		if slices.Contains(user, w) {
			t.Errorf("show %s offered in User mode", w)
		}
		if !slices.Contains(priv, w) {
			t.Errorf("show %s missing in Privileged mode", w)
		}
	}
}

func TestPositionalHints(t *testing.T) {
	h := ApplianceHints()
	tests := []struct {
		cmd  string
		m    mode.Mode
		args []string
		want []string
		ok   bool
	}{
		{"clock", mode.Privileged, []string{"set"}, []string{"<hh:mm:ss>"}, true},
		{"clock", mode.Privileged, []string{"set", "10:00:00"}, []string{"<day>"}, true},
		{"clock", mode.Privileged, []string{"set", "10:00:00", "1", "jan"}, []string{"<year>"}, true},
		{"interface", mode.AutoDiscovery, []string{"eth0", "mode"}, []string{"<mode>"}, true},
		{"interface", mode.GlobalConfig, []string{"eth0", "mode"}, nil, false},
		{"interface", mode.Qos, []string{"eth0", "beq"}, []string{"true", "false"}, true},
		{"network", mode.DynamicRouting, []string{"eth0", "ip"}, []string{"<ip_address>"}, true},
		{"do", mode.Vlan, []string{"debug"}, []string{"all"}, true},
		{"do", mode.Vlan, []string{"undebug"}, []string{"all"}, true},
		{"no", mode.GlobalConfig, []string{"ip", "route", "10.0.0.0"}, []string{"<netmask>"}, true},
		{"enable", mode.Vlan, []string{"router", "r1"}, []string{"id"}, true},
		{"enable", mode.Qos, []string{"router", "r1"}, nil, false},
		{"show", mode.Privileged, []string{"ip", "interface"}, []string{"brief", "<interface>"}, true},
	}
	for _, tt := range tests {
		got, ok := h.At(tt.cmd, tt.m, tt.args)
		if ok != tt.ok || !slices.Equal(Names(got), tt.want) {
			t.Errorf("At(%s, %s, %q) = %q, %v; want %q, %v", tt.cmd, tt.m, tt.args, Names(got), ok, tt.want, tt.ok)
		}
	}
}

func TestAtReturnsCopy(t *testing.T) {
	h := ApplianceHints()
	got, _ := h.At("network", mode.DynamicRouting, []string{"eth0"})
	got[0] = Candidate{Name: "clobbered"}
	again, _ := h.At("network", mode.DynamicRouting, []string{"eth0"})
	if again[0].Name == "clobbered" {
		t.Errorf("At shares its table: %q", Names(again))
	}
}

func TestKeywordDescriptions(t *testing.T) {
	h := ApplianceHints()
	for _, names := range h.Overrides {
		for _, n := range names {
			if h.Describe(n) == "" {
				t.Errorf("keyword %q has no description", n)
			}
		}
	}
}
