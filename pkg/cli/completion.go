package cli

import (
	"io"
	"strings"

	"github.com/psaab/netshell/pkg/cmdtree"
	"github.com/psaab/netshell/pkg/mode"
	"github.com/psaab/netshell/pkg/session"
)

// Completion is a tab-completion answer: candidates replace line[Start:].
type Completion struct {
	Start      int
	Candidates []cmdtree.Candidate
}

// Candidates answers "what can follow line" in mode m. It never fails and
// never mutates state.
func (e *Engine) Candidates(line string, m mode.Mode) []cmdtree.Candidate {
	words := strings.Fields(line)
	trailing := line == "" || strings.HasSuffix(line, " ")
	legal := e.Registry.Legal(m)

	if len(words) == 0 {
		return e.commandCandidates(legal)
	}
	if len(words) == 1 && !trailing {
		return e.commandCandidates(cmdtree.FilterPrefix(legal, words[0]))
	}

	r := cmdtree.Resolve(words[0], legal)
	if r.Kind != cmdtree.Unique {
		return nil
	}
	d, ok := e.Registry.Lookup(r.Name)
	if !ok {
		return nil
	}

	args := append([]string(nil), words[1:]...)
	partial := ""
	if !trailing {
		partial = args[len(args)-1]
		args = args[:len(args)-1]
	}

	first := e.firstLevel(d, m)
	if len(args) > 0 {
		if fr := cmdtree.Resolve(args[0], cmdtree.Names(first)); fr.Kind == cmdtree.Unique {
			args[0] = fr.Name
		}
	}

	var out []cmdtree.Candidate
	switch {
	case len(args) == 0:
		out = first
	default:
		if h, ok := e.Registry.Hints().At(d.Name, m, args); ok {
			out = h
		} else if len(args) == 1 {
			out = e.describe(d, d.Suggestions2)
		}
	}
	if partial != "" {
		out = cmdtree.FilterCandidates(out, partial)
	}
	return out
}

// firstLevel is the subcommand list of d in mode m.
func (e *Engine) firstLevel(d *cmdtree.Descriptor, m mode.Mode) []cmdtree.Candidate {
	if names, ok := e.Registry.Hints().Override(d.Name, m); ok {
		return e.describe(d, names)
	}
	var out []cmdtree.Candidate
	switch {
	case len(d.Suggestions1) > 0:
		out = e.describe(d, d.Suggestions1)
	case len(d.Suggestions) > 0:
		out = e.describe(d, d.Suggestions)
	default:
		out = append(out, d.Options...)
	}
	if d.Dynamic != nil {
		for _, v := range d.Dynamic() {
			out = append(out, cmdtree.Candidate{Name: v, Desc: "(interface)"})
		}
	}
	return out
}

func (e *Engine) describe(d *cmdtree.Descriptor, names []string) []cmdtree.Candidate {
	out := make([]cmdtree.Candidate, 0, len(names))
	for _, n := range names {
		desc := d.Describe(n)
		if desc == "" {
			desc = e.Registry.Hints().Describe(n)
		}
		out = append(out, cmdtree.Candidate{Name: n, Desc: desc})
	}
	return out
}

func (e *Engine) commandCandidates(names []string) []cmdtree.Candidate {
	out := make([]cmdtree.Candidate, 0, len(names))
	for _, n := range names {
		c := cmdtree.Candidate{Name: n}
		if d, ok := e.Registry.Lookup(n); ok {
			c.Desc = d.Desc
		}
		out = append(out, c)
	}
	return out
}

// Complete answers a tab request for line (the text before the cursor).
// Value placeholders are not offered as replacements.
func (e *Engine) Complete(line string, m mode.Mode) Completion {
	e.Metrics.Completion("tab")
	var keep []cmdtree.Candidate
	for _, c := range e.Candidates(line, m) {
		if !c.IsPlaceholder() {
			keep = append(keep, c)
		}
	}
	return Completion{Start: strings.LastIndex(line, " ") + 1, Candidates: keep}
}

// WriteQuery prints the '?' listing for line to w.
func (e *Engine) WriteQuery(w io.Writer, line string, s *session.Session) {
	e.Metrics.Completion("query")
	cands := e.Candidates(line, s.Mode)
	if len(cands) == 0 {
		io.WriteString(w, "no more options\n")
		return
	}
	cmdtree.WriteHelp(w, cands)
}
