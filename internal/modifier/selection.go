// Package modifier enforces per-group selection rules while a product is
// being configured.
//
// All functions are pure: they never mutate their inputs and hold no state.
// A Selection is only ever replaced, so abandoning a configuration is simply
// dropping the value.
package modifier

import (
	"slices"
)

// Selection maps a group name to its chosen option names, in the order they
// were chosen. Option names are unique within a group.
type Selection map[string][]string

// Clone returns a deep copy of s. A nil selection clones to an empty one.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for group, opts := range s {
		out[group] = slices.Clone(opts)
	}
	return out
}

// Selected returns the options chosen in group.
func (s Selection) Selected(group string) []string {
	return slices.Clone(s[group])
}

// Has reports whether option is chosen in group.
func (s Selection) Has(group, option string) bool {
	return slices.Contains(s[group], option)
}

// Count returns how many options are chosen in group.
func (s Selection) Count(group string) int {
	return len(s[group])
}

// Len returns the total number of chosen options across all groups.
func (s Selection) Len() int {
	n := 0
	for _, opts := range s {
		n += len(opts)
	}
	return n
}
