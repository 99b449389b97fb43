package rewrite

import (
	"errors"
	"slices"
	"strings"
)

// ErrNoMacros is returned when a macro list contains no usable names.
var ErrNoMacros = errors.New("no macros like 'query_as, sqlx::query, migrate' specified for formatting")

// DefaultMacros lists the sqlx macros whose first string literal is SQL.
// Qualified and unqualified forms are separate entries.
//
//nolint:gochecknoglobals // read-only default list
var DefaultMacros = []string{
	"migrate",
	"sqlx::migrate",
	"query",
	"sqlx::query",
	"query_unchecked",
	"sqlx::query_unchecked",
	"query_as",
	"sqlx::query_as",
	"query_as_unchecked",
	"sqlx::query_as_unchecked",
	"query_scalar",
	"sqlx::query_scalar",
	"query_scalar_unchecked",
	"sqlx::query_scalar_unchecked",
}

// MacroSet is the set of invocation names whose literals get rewritten.
// Matching is exact: "query" does not match "sqlx::query" and vice versa.
type MacroSet struct {
	names map[string]struct{}
}

// NewMacroSet builds a set from names. Names are trimmed; empty names are
// dropped and duplicates collapse.
func NewMacroSet(names ...string) MacroSet {
	set := MacroSet{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		set.names[name] = struct{}{}
	}
	return set
}

// DefaultMacroSet returns a set holding DefaultMacros.
func DefaultMacroSet() MacroSet {
	return NewMacroSet(DefaultMacros...)
}

// ParseMacroSet parses a comma-separated list such as "query, sqlx::query".
// It returns ErrNoMacros if the list holds no names.
func ParseMacroSet(list string) (MacroSet, error) {
	set := NewMacroSet(strings.Split(list, ",")...)
	if set.Len() == 0 {
		return MacroSet{}, ErrNoMacros
	}
	return set, nil
}

// Contains reports whether name is in the set.
func (s MacroSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of distinct names.
func (s MacroSet) Len() int {
	return len(s.names)
}

// Names returns the names in sorted order.
func (s MacroSet) Names() []string {
	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// String returns the names joined with ", ".
func (s MacroSet) String() string {
	return strings.Join(s.Names(), ", ")
}
