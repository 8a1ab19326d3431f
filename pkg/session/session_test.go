package session

import (
	"testing"

	"github.com/psaab/netshell/pkg/cmderr"
	"github.com/psaab/netshell/pkg/mode"
)

func TestNewSession(t *testing.T) {
	s := New(mode.Appliance)
	if s.Mode != mode.User {
		t.Fatalf("mode = %s, want user", s.Mode)
	}
	if s.Prompt != "Network>" {
		t.Fatalf("prompt = %q", s.Prompt)
	}
}

func TestEnterAndExit(t *testing.T) {
	s := New(mode.Appliance)
	for _, m := range []mode.Mode{mode.Privileged, mode.GlobalConfig, mode.Vlan} {
		if err := s.Enter(m); err != nil {
			t.Fatalf("Enter(%s): %v", m, err)
		}
	}
	if s.Prompt != "Network(config-Vlan)#" {
		t.Fatalf("prompt = %q", s.Prompt)
	}

	if err := s.Enter(mode.Qos); !cmderr.IsKind(err, cmderr.WrongMode) {
		t.Fatalf("Enter(qos) from vlan: err = %v, want wrong-mode", err)
	}
	if s.Mode != mode.Vlan {
		t.Fatal("failed Enter must not change mode")
	}

	wantPrompts := []string{"Network(config)#", "Network#", "Network>"}
	for _, want := range wantPrompts {
		if _, err := s.Exit(); err != nil {
			t.Fatalf("Exit: %v", err)
		}
		if s.Prompt != want {
			t.Fatalf("prompt = %q, want %q", s.Prompt, want)
		}
	}
	if _, err := s.Exit(); err != cmderr.NoParent {
		t.Fatalf("Exit at root: err = %v", err)
	}
	if s.Mode != mode.User || s.Prompt != "Network>" {
		t.Fatal("Exit at root must not change state")
	}
}

func TestSetHostnameRefreshesPrompt(t *testing.T) {
	s := New(mode.Appliance)
	_ = s.Enter(mode.Privileged)
	_ = s.Enter(mode.GlobalConfig)
	s.SetHostname("Edge1")
	if s.Prompt != "Edge1(config)#" {
		t.Fatalf("prompt = %q", s.Prompt)
	}
}

func TestTransitionObserver(t *testing.T) {
	s := New(mode.Appliance)
	var seen [][2]mode.Mode
	s.OnTransition = func(from, to mode.Mode) { seen = append(seen, [2]mode.Mode{from, to}) }
	_ = s.Enter(mode.Privileged)
	_ = s.Enter(mode.Privileged)
	s.ReturnTo(mode.User)
	if len(seen) != 2 {
		t.Fatalf("transitions = %v, want 2", seen)
	}
	if seen[1] != [2]mode.Mode{mode.Privileged, mode.User} {
		t.Fatalf("second transition = %v", seen[1])
	}
}
