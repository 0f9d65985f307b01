// Package registry collects the distinct element accessors a step map needs.
package registry

import (
	"strings"

	"github.com/chriserin/testgen/internal/stepmap"
)

// Entry is one element accessor: its logical name, primary selector and the
// fallbacks tried in order when the primary does not resolve.
type Entry struct {
	Name      string
	Selector  string
	Fallbacks []string
}

// Registry is an ordered, deduplicated set of entries keyed by logical name.
type Registry struct {
	entries []Entry
	index   map[string]int
}

// Build scans sm once in document order. The first step naming an element
// decides its selector and fallbacks; later steps with the same name are
// ignored even when their selector differs. Steps whose kind is unknown or
// unrecognized emit no statement and so contribute no accessor.
//
// Two physically different elements that infer the same logical name collapse
// into one entry here without any warning.
func Build(sm *stepmap.StepMap) *Registry {
	r := &Registry{index: map[string]int{}}
	sm.Each(func(_ string, steps []stepmap.ActionDescriptor) {
		for _, step := range steps {
			if !step.Action.Known() {
				continue
			}
			if _, seen := r.index[step.SelectorName]; seen {
				continue
			}
			r.index[step.SelectorName] = len(r.entries)
			r.entries = append(r.entries, Entry{
				Name:      step.SelectorName,
				Selector:  step.Selector,
				Fallbacks: SplitFallbacks(step.FallbackSelector),
			})
		}
	})
	return r
}

// Entries returns entries in first-use order.
func (r *Registry) Entries() []Entry {
	return r.entries
}

// Lookup returns the entry recorded for name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	i, ok := r.index[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// SplitFallbacks splits a comma-joined fallback list, trimming each element
// and dropping empty ones.
func SplitFallbacks(joined string) []string {
	var out []string
	for _, part := range strings.Split(joined, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
