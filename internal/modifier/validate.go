package modifier

import (
	"fmt"

	"github.com/roach88/menucart/internal/catalog"
)

// Validate returns the names of required groups that have no chosen option,
// in product group order. An empty result means the configuration may be
// committed.
func Validate(groups []catalog.ModifierGroup, sel Selection) []string {
	var violations []string
	for _, g := range groups {
		if g.IsRequired() && countKnown(g, sel) == 0 {
			violations = append(violations, g.Name)
		}
	}
	return violations
}

// countKnown counts chosen options that actually exist in the group.
func countKnown(g catalog.ModifierGroup, sel Selection) int {
	n := 0
	for _, name := range sel[g.Name] {
		if _, ok := g.Option(name); ok {
			n++
		}
	}
	return n
}

// ViolationMessage is the inline message shown next to an unsatisfied group.
func ViolationMessage(group string) string {
	return fmt.Sprintf("Please choose an option for %s", group)
}

// ViolationMessages maps each violated group to its inline message.
func ViolationMessages(violations []string) map[string]string {
	out := make(map[string]string, len(violations))
	for _, g := range violations {
		out[g] = ViolationMessage(g)
	}
	return out
}
