package mode

import "testing"

func TestAppliancePrompts(t *testing.T) {
	tests := []struct {
		m    Mode
		want string
	}{
		{User, "Network>"},
		{Privileged, "Network#"},
		{GlobalConfig, "Network(config)#"},
		{Interface, "Network(config-if)#"},
		{Vlan, "Network(config-Vlan)#"},
		{Qos, "Network(config-QOS)#"},
		{DynamicRouting, "Network(config-DynRouter)#"},
		{PortSecurity, "Network(config-PortSec)#"},
		{Monitoring, "Network(config-Mon)#"},
		{AutoDiscovery, "Network(config-AutoD)#"},
	}
	for _, tt := range tests {
		if got := Appliance.Prompt("Network", tt.m); got != tt.want {
			t.Errorf("Prompt(%s) = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestApplianceParents(t *testing.T) {
	if _, ok := Appliance.Parent(User); ok {
		t.Fatal("User should have no parent")
	}
	if Appliance.Root() != User {
		t.Fatalf("root = %s, want user", Appliance.Root())
	}
	for _, m := range []Mode{Interface, Vlan, Qos, DynamicRouting, PortSecurity, Monitoring, AutoDiscovery} {
		p, ok := Appliance.Parent(m)
		if !ok || p != GlobalConfig {
			t.Errorf("Parent(%s) = %s,%v; want config", m, p, ok)
		}
		if !Appliance.IsConfig(m) {
			t.Errorf("IsConfig(%s) = false", m)
		}
	}
	if Appliance.IsConfig(Privileged) {
		t.Error("Privileged is not a config mode")
	}
}

func TestCanEnter(t *testing.T) {
	tests := []struct {
		from, to Mode
		want     bool
	}{
		{User, Privileged, true},
		{Privileged, GlobalConfig, true},
		{GlobalConfig, Vlan, true},
		{Interface, Interface, true},
		{User, GlobalConfig, false},
		{Vlan, Qos, false},
		{Privileged, Interface, false},
		{User, User, false},
		{Privileged, Privileged, false},
		{GlobalConfig, GlobalConfig, false},
		{Vlan, Vlan, false},
		{Qos, Qos, false},
		{DynamicRouting, DynamicRouting, false},
		{PortSecurity, PortSecurity, false},
		{Monitoring, Monitoring, false},
		{AutoDiscovery, AutoDiscovery, false},
	}
	for _, tt := range tests {
		if got := Appliance.CanEnter(tt.from, tt.to); got != tt.want {
			t.Errorf("CanEnter(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestNewGraphRejectsBadData(t *testing.T) {
	cases := map[string][]Node{
		"no root":   {{Mode: User, Parent: Privileged}, {Mode: Privileged, Parent: User}},
		"two roots": {{Mode: User, Root: true}, {Mode: Privileged, Root: true}},
		"orphan":    {{Mode: User, Root: true}, {Mode: Vlan, Parent: GlobalConfig}},
		"duplicate": {{Mode: User, Root: true}, {Mode: User, Root: true}},
	}
	for name, nodes := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			NewGraph(nodes...)
		})
	}
}

func TestModeString(t *testing.T) {
	if User.String() != "user" || DynamicRouting.String() != "dynrouter" {
		t.Errorf("unexpected keys %q %q", User.String(), DynamicRouting.String())
	}
	if Mode(99).String() != "mode(99)" {
		t.Errorf("unknown mode key = %q", Mode(99).String())
	}
}
