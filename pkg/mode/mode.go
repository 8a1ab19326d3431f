// Package mode describes the CLI mode hierarchy as data: each mode has a
// parent, a prompt suffix and a display name. The hierarchy is a forest
// with a single root; a mode can only be entered from its parent.
package mode

import "fmt"

// Mode identifies one CLI mode.
type Mode int

const (
	User Mode = iota
	Privileged
	GlobalConfig
	Interface
	Vlan
	Qos
	DynamicRouting
	PortSecurity
	Monitoring
	AutoDiscovery
)

var modeKeys = map[Mode]string{
	User:           "user",
	Privileged:     "privileged",
	GlobalConfig:   "config",
	Interface:      "interface",
	Vlan:           "vlan",
	Qos:            "qos",
	DynamicRouting: "dynrouter",
	PortSecurity:   "portsec",
	Monitoring:     "mon",
	AutoDiscovery:  "autod",
}

// String returns a short lowercase key, used for log fields and metric labels.
func (m Mode) String() string {
	if s, ok := modeKeys[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Node is one vertex of the mode graph.
type Node struct {
	Mode   Mode
	Name   string // "Global Configuration"
	Parent Mode
	Root   bool   // true for the single mode without a parent
	Suffix string // "(config)#"
	// Reenter allows entering the mode while already in it, as selecting
	// another interface from Interface mode does.
	Reenter bool
}

// Graph is an immutable mode hierarchy.
type Graph struct {
	root  Mode
	nodes map[Mode]Node
	order []Mode
}

// NewGraph builds a graph from nodes. It panics when the data does not
// describe a single-rooted tree, since a broken mode table is a programming
// error caught at startup.
func NewGraph(nodes ...Node) *Graph {
	g := &Graph{nodes: make(map[Mode]Node, len(nodes))}
	roots := 0
	for _, n := range nodes {
		if _, dup := g.nodes[n.Mode]; dup {
			panic(fmt.Sprintf("mode: duplicate node %s", n.Mode))
		}
		if n.Root {
			roots++
			g.root = n.Mode
		}
		g.nodes[n.Mode] = n
		g.order = append(g.order, n.Mode)
	}
	if roots != 1 {
		panic(fmt.Sprintf("mode: graph needs exactly one root, got %d", roots))
	}
	for _, n := range nodes {
		if n.Root {
			continue
		}
		if _, ok := g.nodes[n.Parent]; !ok {
			panic(fmt.Sprintf("mode: %s has unknown parent %s", n.Mode, n.Parent))
		}
		// Walking up must reach the root without revisiting a mode.
		seen := map[Mode]bool{n.Mode: true}
		for cur := g.nodes[n.Parent]; !cur.Root; cur = g.nodes[cur.Parent] {
			if seen[cur.Mode] {
				panic(fmt.Sprintf("mode: cycle through %s", cur.Mode))
			}
			seen[cur.Mode] = true
		}
	}
	return g
}

// Root returns the initial mode of a session.
func (g *Graph) Root() Mode { return g.root }

// Modes returns every mode in declaration order.
func (g *Graph) Modes() []Mode {
	out := make([]Mode, len(g.order))
	copy(out, g.order)
	return out
}

// Has reports whether m belongs to the graph.
func (g *Graph) Has(m Mode) bool {
	_, ok := g.nodes[m]
	return ok
}

// Parent returns the parent of m. ok is false for the root.
func (g *Graph) Parent(m Mode) (parent Mode, ok bool) {
	n, found := g.nodes[m]
	if !found || n.Root {
		return 0, false
	}
	return n.Parent, true
}

// Suffix returns the prompt suffix of m.
func (g *Graph) Suffix(m Mode) string {
	return g.nodes[m].Suffix
}

// Name returns the display name of m.
func (g *Graph) Name(m Mode) string {
	if n, ok := g.nodes[m]; ok {
		return n.Name
	}
	return m.String()
}

// Prompt renders the prompt for hostname in mode m.
func (g *Graph) Prompt(hostname string, m Mode) string {
	return hostname + g.Suffix(m)
}

// CanEnter reports whether a session in mode from may switch to mode to.
// Entry is allowed from the declared parent, and from the mode itself only
// when its node is marked Reenter.
func (g *Graph) CanEnter(from, to Mode) bool {
	if !g.Has(from) || !g.Has(to) {
		return false
	}
	if from == to {
		return g.nodes[to].Reenter
	}
	p, ok := g.Parent(to)
	return ok && p == from
}

// IsConfig reports whether m is GlobalConfig or one of its descendants.
func (g *Graph) IsConfig(m Mode) bool {
	for cur := m; ; {
		if cur == GlobalConfig {
			return true
		}
		p, ok := g.Parent(cur)
		if !ok {
			return false
		}
		cur = p
	}
}

// Appliance is the mode graph of the network appliance shell.
var Appliance = NewGraph(
	Node{Mode: User, Name: "User EXEC", Root: true, Suffix: ">"},
	Node{Mode: Privileged, Name: "Privileged EXEC", Parent: User, Suffix: "#"},
	Node{Mode: GlobalConfig, Name: "Global Configuration", Parent: Privileged, Suffix: "(config)#"},
	Node{Mode: Interface, Name: "Interface Configuration", Parent: GlobalConfig, Suffix: "(config-if)#", Reenter: true},
	Node{Mode: Vlan, Name: "Vlan Manager", Parent: GlobalConfig, Suffix: "(config-Vlan)#"},
	Node{Mode: Qos, Name: "QOS Manager", Parent: GlobalConfig, Suffix: "(config-QOS)#"},
	Node{Mode: DynamicRouting, Name: "Dynamic Routing Manager", Parent: GlobalConfig, Suffix: "(config-DynRouter)#"},
	Node{Mode: PortSecurity, Name: "Port Security Manager", Parent: GlobalConfig, Suffix: "(config-PortSec)#"},
	Node{Mode: Monitoring, Name: "Monitoring Manager", Parent: GlobalConfig, Suffix: "(config-Mon)#"},
	Node{Mode: AutoDiscovery, Name: "Auto Discovery Manager", Parent: GlobalConfig, Suffix: "(config-AutoD)#"},
)
