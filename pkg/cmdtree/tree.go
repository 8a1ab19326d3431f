// Package cmdtree holds the command registry, the per-mode command sets
// and the completion hint tables. Dispatch, tab completion and '?' help all
// read from these tables, so a command added here is resolvable and
// completable in every mode that lists it.
package cmdtree

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
)

// Candidate holds a command or keyword name and its description for display.
type Candidate struct {
	Name string
	Desc string
}

// IsPlaceholder reports whether c names a value slot such as "<hh:mm:ss>"
// rather than a literal keyword.
func (c Candidate) IsPlaceholder() bool {
	return strings.HasPrefix(c.Name, "<")
}

// Names returns the candidate names in order.
func Names(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}

// WriteHelp prints aligned completion candidates to w.
// The entire output is built as a single string and written in one call
// so that readline's wrapWriter triggers only one Refresh cycle.
// The caller's slice is left in its original order.
func WriteHelp(w io.Writer, candidates []Candidate) {
	candidates = slices.Clone(candidates)
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })
	maxWidth := 20
	for _, c := range candidates {
		if len(c.Name)+2 > maxWidth {
			maxWidth = len(c.Name) + 2
		}
	}
	var sb strings.Builder
	sb.WriteString("Possible completions:\n")
	for _, c := range candidates {
		if c.Desc != "" {
			fmt.Fprintf(&sb, "  %-*s %s\n", maxWidth, c.Name, c.Desc)
		} else {
			fmt.Fprintf(&sb, "  %s\n", c.Name)
		}
	}
	io.WriteString(w, sb.String())
}

// CommonPrefix returns the longest shared prefix among the given strings.
func CommonPrefix(items []string) string {
	if len(items) == 0 {
		return ""
	}
	prefix := items[0]
	for _, s := range items[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}

// FilterPrefix returns only items that start with the given prefix.
func FilterPrefix(items []string, prefix string) []string {
	if prefix == "" {
		return items
	}
	var result []string
	for _, item := range items {
		if strings.HasPrefix(item, prefix) {
			result = append(result, item)
		}
	}
	return result
}

// FilterCandidates returns the candidates whose name starts with prefix.
func FilterCandidates(cs []Candidate, prefix string) []Candidate {
	var out []Candidate
	for _, c := range cs {
		if strings.HasPrefix(c.Name, prefix) {
			out = append(out, c)
		}
	}
	return out
}
