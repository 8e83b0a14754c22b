package lattice

import (
	"sort"
	"strings"
)

// Set is an immutable set of strings.
type Set struct {
	items map[string]struct{}
}

// NewSet builds a set from the given items; duplicates collapse.
func NewSet(items ...string) Set {
	m := make(map[string]struct{}, len(items))
	for _, it := range items {
		m[it] = struct{}{}
	}
	return Set{items: m}
}

// Len returns the number of elements.
func (s Set) Len() int { return len(s.items) }

// Contains reports membership.
func (s Set) Contains(item string) bool {
	_, ok := s.items[item]
	return ok
}

// Items returns the elements in ascending order.
func (s Set) Items() []string {
	out := make([]string, 0, len(s.items))
	for it := range s.items {
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}

// Union returns s ∪ o.
func (s Set) Union(o Set) Set {
	m := make(map[string]struct{}, len(s.items)+len(o.items))
	for it := range s.items {
		m[it] = struct{}{}
	}
	for it := range o.items {
		m[it] = struct{}{}
	}
	return Set{items: m}
}

// Intersect returns s ∩ o.
func (s Set) Intersect(o Set) Set {
	m := make(map[string]struct{})
	for it := range s.items {
		if _, ok := o.items[it]; ok {
			m[it] = struct{}{}
		}
	}
	return Set{items: m}
}

// Equal reports whether both sets have the same elements.
func (s Set) Equal(o Set) bool {
	if len(s.items) != len(o.items) {
		return false
	}
	for it := range s.items {
		if _, ok := o.items[it]; !ok {
			return false
		}
	}
	return true
}

func (s Set) String() string {
	return "{" + strings.Join(s.Items(), ", ") + "}"
}
