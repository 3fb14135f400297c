package modifier

import (
	"slices"

	"github.com/roach88/menucart/internal/catalog"
)

// Toggle applies a user toggle of option within group and returns the new
// selection. The input selection is never modified.
//
// Rules by group kind:
//
//	Required + Single: choosing replaces the current option; choosing the
//	                   current option again keeps it.
//	Required + Multi:  add/remove, but the last chosen option cannot be removed.
//	Optional + Single: choosing replaces; choosing the current option clears.
//	Optional + Multi:  free add/remove.
//
// Options not defined in group leave the selection unchanged.
func Toggle(group catalog.ModifierGroup, sel Selection, option string) Selection {
	next := sel.Clone()
	if _, ok := group.Option(option); !ok {
		return next
	}

	current := next[group.Name]
	selected := slices.Contains(current, option)

	switch {
	case !group.IsMulti():
		if selected {
			if group.IsRequired() {
				return next
			}
			delete(next, group.Name)
			return next
		}
		next[group.Name] = []string{option}

	default:
		if !selected {
			next[group.Name] = append(current, option)
			return next
		}
		if group.IsRequired() && len(current) == 1 {
			return next
		}
		remaining := slices.DeleteFunc(current, func(o string) bool { return o == option })
		if len(remaining) == 0 {
			delete(next, group.Name)
			return next
		}
		next[group.Name] = remaining
	}

	return next
}
