package cmdtree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/psaab/netshell/pkg/clock"
	"github.com/psaab/netshell/pkg/mode"
	"github.com/psaab/netshell/pkg/session"
)

// Handler executes one command. args excludes the command word; clk is
// nil when the clock collaborator is absent.
type Handler interface {
	Execute(args []string, s *session.Session, clk *clock.Clock) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(args []string, s *session.Session, clk *clock.Clock) error

func (f HandlerFunc) Execute(args []string, s *session.Session, clk *clock.Clock) error {
	return f(args, s, clk)
}

// Descriptor describes one registered command.
type Descriptor struct {
	Name  string
	Label string // one-line usage, e.g. "hostname <name>"
	Desc  string

	// Suggestions is the first-level tab list.
	Suggestions []string
	// ArgSuggest is the vocabulary dispatch resolves a lone argument
	// against. Commands without one receive their arguments verbatim.
	ArgSuggest []string
	// Suggestions1 is the first-level '?' list; it wins over Suggestions.
	Suggestions1 []string
	// Suggestions2 is the second-level list used when no positional rule
	// applies.
	Suggestions2 []string
	// Options describes first-level keywords and value slots.
	Options []Candidate
	// Dynamic supplies runtime values appended to the first-level list,
	// such as interface names.
	Dynamic func() []string

	Handler Handler
}

// Describe returns the description for a first-level keyword of d.
func (d *Descriptor) Describe(word string) string {
	for _, o := range d.Options {
		if o.Name == word {
			return o.Desc
		}
	}
	return ""
}

// ModeSets maps each mode to the commands legal in it.
type ModeSets map[mode.Mode][]string

// Registry is the command table. It is built once at startup and read-only
// afterwards.
type Registry struct {
	cmds  map[string]*Descriptor
	sets  ModeSets
	hints *Hints
}

// NewRegistry returns an empty registry over the given mode sets and hint
// tables.
func NewRegistry(sets ModeSets, hints *Hints) *Registry {
	if hints == nil {
		hints = &Hints{}
	}
	return &Registry{cmds: make(map[string]*Descriptor), sets: sets, hints: hints}
}

// Register adds d. A duplicate or empty name is a programming error.
func (r *Registry) Register(d *Descriptor) {
	if d == nil || d.Name == "" {
		panic("cmdtree: register command with empty name")
	}
	if d.Handler == nil {
		panic(fmt.Sprintf("cmdtree: command %q has no handler", d.Name))
	}
	if _, dup := r.cmds[d.Name]; dup {
		panic(fmt.Sprintf("cmdtree: duplicate command %q", d.Name))
	}
	r.cmds[d.Name] = d
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.cmds[name]
	return d, ok
}

// Names returns every registered command name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for n := range r.cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Legal returns the commands allowed in m, in table order.
func (r *Registry) Legal(m mode.Mode) []string {
	return r.sets[m]
}

// IsLegal reports whether name is allowed in m.
func (r *Registry) IsLegal(name string, m mode.Mode) bool {
	for _, n := range r.sets[m] {
		if n == name {
			return true
		}
	}
	return false
}

// Hints returns the completion tables.
func (r *Registry) Hints() *Hints { return r.hints }

// Validate checks that every mode of g has a command set and that every
// listed command is registered.
func (r *Registry) Validate(g *mode.Graph) error {
	var problems []string
	for _, m := range g.Modes() {
		names, ok := r.sets[m]
		if !ok {
			problems = append(problems, fmt.Sprintf("mode %s has no command set", m))
			continue
		}
		for _, n := range names {
			if _, ok := r.cmds[n]; !ok {
				problems = append(problems, fmt.Sprintf("mode %s lists unregistered command %q", m, n))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("cmdtree: %s", strings.Join(problems, "; "))
	}
	return nil
}

// MatchKind classifies a prefix lookup.
type MatchKind int

const (
	NoMatch MatchKind = iota
	Unique
	Ambiguous
)

// PrefixMatch is the result of LookupByPrefix.
type PrefixMatch struct {
	Kind    MatchKind
	Name    string   // set when Kind == Unique
	Matches []string // every candidate starting with the partial
}

// LookupByPrefix matches partial against candidates by prefix. It is a
// pure function: the same inputs always give the same result.
func LookupByPrefix(partial string, candidates []string) PrefixMatch {
	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, partial) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return PrefixMatch{Kind: NoMatch}
	case 1:
		return PrefixMatch{Kind: Unique, Name: matches[0], Matches: matches}
	default:
		return PrefixMatch{Kind: Ambiguous, Matches: matches}
	}
}

// Resolve is LookupByPrefix with exact names taking precedence, so a full
// keyword that is also a prefix of a longer one ("ospf" and
// "ospf_controller") still resolves.
func Resolve(partial string, candidates []string) PrefixMatch {
	for _, c := range candidates {
		if c == partial {
			return PrefixMatch{Kind: Unique, Name: c, Matches: []string{c}}
		}
	}
	return LookupByPrefix(partial, candidates)
}
