// Package runconfig renders the running configuration in router-dump
// form and writes it to the startup configuration file.
package runconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/psaab/netshell/pkg/configstore"
	"github.com/psaab/netshell/pkg/session"
)

// DefaultInterface is rendered when no interface has been configured.
const DefaultInterface = "FastEthernet0/1"

// DefaultStartupPath is where "write memory" saves the configuration.
const DefaultStartupPath = "startup-config.conf"

// Render returns the running configuration text.
func Render(cfg session.Config, snap configstore.Snapshot) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("version 15.1")
	line("no service timestamps log datetime msec")
	if cfg.PasswordEncryption {
		line("service password-encryption")
	} else {
		line("no service password-encryption")
	}
	line("!")
	line("hostname %s", cfg.Hostname)
	line("!")
	if cfg.EnablePassword != "" {
		if cfg.PasswordEncryption {
			line("enable password 7 %s", cfg.EnablePassword)
		} else {
			line("enable password %s", cfg.EnablePassword)
		}
	}
	if cfg.EnableSecret != "" {
		line("enable secret 5 %s", cfg.EnableSecret)
	}
	line("!")

	for _, name := range interfaceNames(snap) {
		line("interface %s", name)
		if a, ok := snap.Addresses[name]; ok {
			line(" ip address %s %s", a.IP, a.Mask)
		} else {
			line(" no ip address")
		}
		line(" duplex auto")
		line(" speed auto")
		if snap.LinkUp[name] {
			line(" no shutdown")
		} else {
			line(" shutdown")
		}
		line("!")
	}
	line("interface Vlan1")
	line(" no ip address")
	line(" shutdown")
	line("!")

	line("ip classes")
	for _, r := range snap.Routes {
		line("ip route %s %s %s %s", r.Dest, r.Mask, r.Exit, r.NextHop)
	}
	line("!")
	line("router ospf")
	line(" log-adjacency-changes")
	line(" passive-interface")
	line("!")
	if len(snap.Features) > 0 {
		line("network-manager")
		for _, f := range snap.Features {
			if f.Value == "" {
				line(" %s", f.Key)
			} else {
				line(" %s %s", f.Key, f.Value)
			}
		}
		line("!")
	}
	line("end")
	return b.String()
}

// interfaceNames lists the selected interface first, then every other
// interface the shell has touched.
func interfaceNames(snap configstore.Snapshot) []string {
	seen := map[string]bool{}
	var rest []string
	add := func(n string) {
		if n != "" && !seen[n] && n != snap.Selected {
			seen[n] = true
			rest = append(rest, n)
		}
	}
	for n := range snap.Addresses {
		add(n)
	}
	for n := range snap.LinkUp {
		add(n)
	}
	sort.Strings(rest)
	if snap.Selected != "" {
		return append([]string{snap.Selected}, rest...)
	}
	if len(rest) == 0 {
		return []string{DefaultInterface}
	}
	return rest
}

// WriteStartup writes text to path, creating the parent directory.
func WriteStartup(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadStartup returns the saved startup configuration.
func ReadStartup(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
