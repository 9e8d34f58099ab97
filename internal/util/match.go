package util

import (
	"strings"

	"github.com/gobwas/glob"
)

// NameFilter matches names against a glob pattern such as "Stage*" or
// "{front,back} truss". An empty pattern matches everything.
type NameFilter struct {
	pattern string
	g       glob.Glob
}

// NewNameFilter compiles pattern. Matching is case-insensitive.
func NewNameFilter(pattern string) (*NameFilter, error) {
	pattern = strings.TrimSpace(pattern)
	f := &NameFilter{pattern: pattern}
	if pattern == "" || pattern == "*" {
		return f, nil
	}
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, err
	}
	f.g = g
	return f, nil
}

// Pattern returns the pattern the filter was built from.
func (f *NameFilter) Pattern() string {
	return f.pattern
}

// Match reports whether name passes the filter. A nil filter matches
// everything.
func (f *NameFilter) Match(name string) bool {
	if f == nil || f.g == nil {
		return true
	}
	return f.g.Match(strings.ToLower(name))
}
