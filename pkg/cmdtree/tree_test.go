package cmdtree

import (
	"bytes"
	"slices"
	"strings"
	"testing"
)

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		items []string
		want  string
	}{
		{nil, ""},
		{[]string{"show"}, "show"},
		{[]string{"disable", "dhcp_enable"}, "d"},
		{[]string{"running-config", "running"}, "running"},
		{[]string{"ping", "exit"}, ""},
	}
	for _, tt := range tests {
		if got := CommonPrefix(tt.items); got != tt.want {
			t.Errorf("CommonPrefix(%q) = %q, want %q", tt.items, got, tt.want)
		}
	}
}

func TestFilterPrefix(t *testing.T) {
	items := []string{"clock", "clear", "config", "copy"}
	if got := FilterPrefix(items, "cl"); !slices.Equal(got, []string{"clock", "clear"}) {
		t.Errorf("FilterPrefix(cl) = %q", got)
	}
	if got := FilterPrefix(items, ""); !slices.Equal(got, items) {
		t.Errorf("FilterPrefix(\"\") = %q", got)
	}
	if got := FilterPrefix(items, "x"); len(got) != 0 {
		t.Errorf("FilterPrefix(x) = %q", got)
	}
}

func TestWriteHelpSortsAndAligns(t *testing.T) {
	var buf bytes.Buffer
	WriteHelp(&buf, []Candidate{
		{Name: "version", Desc: "Display the version"},
		{Name: "clock", Desc: "Display the clock"},
		{Name: "<ip>"},
	})
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if lines[0] != "Possible completions:" {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[1] != "  <ip>" {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  clock ") || !strings.HasSuffix(lines[2], "Display the clock") {
		t.Errorf("line 2 = %q", lines[2])
	}
	if strings.Index(lines[2], "Display") != strings.Index(lines[3], "Display") {
		t.Errorf("descriptions not aligned:\n%s", buf.String())
	}
}

func TestWriteHelpKeepsCallerOrder(t *testing.T) {
	in := []Candidate{{Name: "ip"}, {Name: "netmask"}, {Name: "area"}}
	WriteHelp(&bytes.Buffer{}, in)
	if got := Names(in); !slices.Equal(got, []string{"ip", "netmask", "area"}) {
		t.Errorf("input reordered to %q", got)
	}
}

func TestIsPlaceholder(t *testing.T) {
	if !(Candidate{Name: "<hh:mm:ss>"}).IsPlaceholder() {
		t.Error("<hh:mm:ss> should be a placeholder")
	}
	if (Candidate{Name: "set"}).IsPlaceholder() {
		t.Error("set should not be a placeholder")
	}
}
