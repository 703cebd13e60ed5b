package state

import (
	"sort"
	"strings"
)

// Set is a set of names
type Set map[string]struct{}

// Parse splits a persisted string on commas, trimming whitespace and
// dropping empty tokens. Any other content is kept literally.
func Parse(s string) Set {
	set := make(Set)
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		set[token] = struct{}{}
	}
	return set
}

// Serialize joins the members with commas in sorted order
func Serialize(set Set) string {
	return strings.Join(set.Sorted(), ",")
}

// Has reports membership
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in sorted order
func (s Set) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for name := range s {
		c[name] = struct{}{}
	}
	return c
}
