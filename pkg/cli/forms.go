package cli

import (
	"slices"
	"strconv"
	"strings"

	"github.com/psaab/netshell/pkg/clock"
	"github.com/psaab/netshell/pkg/cmderr"
	"github.com/psaab/netshell/pkg/cmdtree"
	"github.com/psaab/netshell/pkg/mode"
	"github.com/psaab/netshell/pkg/session"
)

// form is one accepted argument pattern of a feature setting. In words,
// "*" is a value slot; key, value and msg expand $1..$n to the slot values.
type form struct {
	words []string
	key   string
	value string
	msg   string
}

func (f form) match(args []string) ([]string, bool) {
	if len(args) != len(f.words) {
		return nil, false
	}
	var vals []string
	for i, w := range f.words {
		switch {
		case w == "*":
			vals = append(vals, args[i])
		case w != args[i]:
			return nil, false
		}
	}
	return vals, true
}

func expand(tpl string, vals []string) string {
	if len(vals) == 0 {
		return tpl
	}
	pairs := make([]string, 0, 2*len(vals))
	// highest index first so $1 does not eat the prefix of $10
	for i := len(vals); i >= 1; i-- {
		pairs = append(pairs, "$"+strconv.Itoa(i), vals[i-1])
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// feature is a setting recorded in the state store, such as "vlan id" or
// "enable qos_manager id <ID>".
type feature struct {
	label string // as shown in mode errors, e.g. "enable vlan_manager"
	mode  mode.Mode
	usage string
	forms []form
}

// apply checks the mode, matches args against the forms and records the
// first match.
func (f *feature) apply(svc *Services, s *session.Session, args []string) error {
	if s.Mode != f.mode {
		return cmderr.Modef("The '%s' command is only available in %s mode.", f.label, s.Graph.Name(f.mode))
	}
	args = f.abbreviate(args)
	for _, fm := range f.forms {
		vals, ok := fm.match(args)
		if !ok {
			continue
		}
		svc.State.SetFeature(expand(fm.key, vals), expand(fm.value, vals))
		svc.println(expand(fm.msg, vals))
		return nil
	}
	return cmderr.Usagef("%s", f.usage)
}

// abbreviate expands a unique prefix of a leading keyword.
func (f *feature) abbreviate(args []string) []string {
	if len(args) == 0 {
		return args
	}
	var leads []string
	for _, fm := range f.forms {
		if len(fm.words) > 0 && fm.words[0] != "*" && !slices.Contains(leads, fm.words[0]) {
			leads = append(leads, fm.words[0])
		}
	}
	if len(leads) == 0 {
		return args
	}
	m := cmdtree.Resolve(args[0], leads)
	if m.Kind != cmdtree.Unique || m.Name == args[0] {
		return args
	}
	return append([]string{m.Name}, args[1:]...)
}

// featureCmd is a leaf-mode command whose whole effect is one setting.
type featureCmd struct {
	svc *Services
	feature
}

func (c *featureCmd) Execute(args []string, s *session.Session, _ *clock.Clock) error {
	return c.apply(c.svc, s, args)
}
