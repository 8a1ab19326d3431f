package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/psaab/netshell/pkg/cmdtree"
	"github.com/psaab/netshell/pkg/mode"
)

func sorted(s []string) []string {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}

func TestCompletionEmptyLineListsModeSet(t *testing.T) {
	e := newTestEnv(t)
	for _, m := range mode.Appliance.Modes() {
		got := cmdtree.Names(e.eng.Candidates("", m))
		want := e.eng.Registry.Legal(m)
		if !slices.Equal(sorted(got), sorted(want)) {
			t.Errorf("mode %s: got %q, want %q", m, got, want)
		}
	}
}

func TestCompletionCandidates(t *testing.T) {
	e := newTestEnv(t)
	showPriv, _ := e.eng.Registry.Hints().Override("show", mode.Privileged)
	tests := []struct {
		line string
		m    mode.Mode
		want []string
	}{
		{"sh", mode.Privileged, []string{"show"}},
		{"sh", mode.Interface, []string{"shutdown"}},
		{"c", mode.Privileged, []string{"config", "copy", "clock", "clear", "connect"}},
		{"show ", mode.Privileged, showPriv},
		{"show r", mode.Privileged, []string{"running-config"}},
		{"show ip ", mode.Privileged, []string{"interface", "route"}},
		{"sh ip interface ", mode.Privileged, []string{"brief", "<interface>"}},
		{"copy running-config ", mode.Privileged, []string{"startup-config", "<file-name>"}},
		{"copy run ", mode.Privileged, []string{"startup-config", "<file-name>"}},
		{"clock set ", mode.Privileged, []string{"<hh:mm:ss>"}},
		{"clock set 10:00:00 ", mode.Privileged, []string{"<day>"}},
		{"enable ", mode.User, nil},
		{"enable ", mode.GlobalConfig, []string{"password", "secret", "network_manager"}},
		{"enable vlan_", mode.Vlan, []string{"vlan_manager", "vlan_tagging", "vlan_routing"}},
		{"config ", mode.GlobalConfig, []string{"vlan", "qos", "dynrouter", "portsec", "mon", "autod"}},
		{"config ", mode.Vlan, nil},
		{"config ", mode.DynamicRouting, []string{"ospf", "rip"}},
		{"interface ", mode.GlobalConfig, []string{"eth0", "eth1"}},
		{"interface e", mode.GlobalConfig, []string{"eth0", "eth1"}},
		{"interface eth0 ", mode.AutoDiscovery, []string{"enable", "disable", "mode"}},
		{"interface eth0 mode ", mode.AutoDiscovery, []string{"<mode>"}},
		{"interface eth0 cpq ", mode.Qos, []string{"true", "false"}},
		{"network eth0 ", mode.DynamicRouting, []string{"ip", "netmask", "area"}},
		{"network eth0 a", mode.DynamicRouting, []string{"area"}},
		{"no ", mode.Interface, []string{"shutdown", "ip"}},
		{"no ip ", mode.GlobalConfig, []string{"address", "route"}},
		{"do ", mode.Vlan, []string{"show", "copy", "clock", "debug", "undebug"}},
		{"do show ", mode.Vlan, showWords},
		{"exit ", mode.Vlan, []string{"cli", "ssh"}},
		{"ping 10.0.0.1 ", mode.User, nil},
		{"frobnicate ", mode.User, nil},
	}
	for _, tt := range tests {
		got := cmdtree.Names(e.eng.Candidates(tt.line, tt.m))
		if !slices.Equal(sorted(got), sorted(tt.want)) {
			t.Errorf("Candidates(%q, %s) = %q, want %q", tt.line, tt.m, got, tt.want)
		}
	}
}

func TestCompletionFirstLevelFilteredByPrefix(t *testing.T) {
	e := newTestEnv(t)
	all := cmdtree.Names(e.eng.Candidates("show ", mode.Privileged))
	got := cmdtree.Names(e.eng.Candidates("show s", mode.Privileged))
	if !slices.Equal(sorted(got), sorted(cmdtree.FilterPrefix(all, "s"))) {
		t.Errorf("show s = %q", got)
	}
}

func TestCompleteDropsPlaceholders(t *testing.T) {
	e := newTestEnv(t)
	tests := []struct {
		line  string
		m     mode.Mode
		start int
		want  []string
	}{
		{"sh", mode.User, 0, []string{"show"}},
		{"show ver", mode.User, 5, []string{"version"}},
		{"clock set ", mode.Privileged, 10, nil},
		{"copy running-config ", mode.Privileged, 20, []string{"startup-config"}},
	}
	for _, tt := range tests {
		c := e.eng.Complete(tt.line, tt.m)
		if c.Start != tt.start || !slices.Equal(cmdtree.Names(c.Candidates), tt.want) {
			t.Errorf("Complete(%q) = %d %q, want %d %q", tt.line, c.Start, cmdtree.Names(c.Candidates), tt.start, tt.want)
		}
	}
}

func TestQueryWithoutOptions(t *testing.T) {
	e := newTestEnv(t)
	e.must("ping 10.0.0.1 ?")
	if got := e.out.String(); got != "no more options\n" {
		t.Errorf("output = %q", got)
	}
	if len(e.run.Calls) != 0 {
		t.Errorf("query ran %q", e.run.Commands())
	}
}

func TestCompletionDoesNotChangeSession(t *testing.T) {
	e := newTestEnv(t)
	e.goTo(mode.Interface)
	before := *e.sess
	for _, line := range []string{"", "e", "exit ", "no ip ", "ip address 10.0.0.1 "} {
		e.eng.Candidates(line, e.sess.Mode)
		e.eng.WriteQuery(e.out, line, e.sess)
	}
	if e.sess.Mode != before.Mode || e.sess.Prompt != before.Prompt {
		t.Errorf("session changed: %s %q", e.sess.Mode, e.sess.Prompt)
	}
	if e.svc.State.SelectedInterface() != "eth0" {
		t.Errorf("selection changed to %q", e.svc.State.SelectedInterface())
	}
}

func TestQueryDescribesCandidates(t *testing.T) {
	e := newTestEnv(t)
	e.goTo(mode.GlobalConfig)
	e.must("config ?")
	out := e.out.String()
	if !strings.Contains(out, "Enter Vlan Manager mode") {
		t.Errorf("config ? output lacks descriptions:\n%s", out)
	}
}

func TestQueryLeavesCandidateOrder(t *testing.T) {
	e := newTestEnv(t)
	e.goTo(mode.DynamicRouting)
	want := []string{"ip", "netmask", "area"}
	for i := 0; i < 2; i++ {
		e.eng.WriteQuery(e.out, "network eth0 ", e.sess)
		if got := cmdtree.Names(e.eng.Candidates("network eth0 ", mode.DynamicRouting)); !slices.Equal(got, want) {
			t.Fatalf("after query %d: %q, want %q", i+1, got, want)
		}
	}
	if !strings.Contains(e.out.String(), "  area ") {
		t.Errorf("query output = %q", e.out.String())
	}
}
