package cart

import "github.com/roach88/menucart/internal/pricing"

// State is the full cart state.
type State struct {
	// Items in insertion order. SKUs are unique.
	Items         []LineItem `json:"items"`
	DrawerVisible bool       `json:"drawer_visible"`
	OrderPlaced   bool       `json:"order_placed"`
}

// Clone returns a deep copy so callers can never alias store internals.
func (s State) Clone() State {
	out := State{DrawerVisible: s.DrawerVisible, OrderPlaced: s.OrderPlaced}
	if s.Items != nil {
		out.Items = make([]LineItem, len(s.Items))
		for i, it := range s.Items {
			out.Items[i] = it.Clone()
		}
	}
	return out
}

// Subtotal sums every line total without rounding.
func (s State) Subtotal() float64 {
	return pricing.Subtotal(s.Items)
}

// Find returns the line with the given SKU.
func (s State) Find(sku string) (LineItem, bool) {
	if i := s.index(sku); i >= 0 {
		return s.Items[i], true
	}
	return LineItem{}, false
}

// ItemCount is the total number of units across all lines.
func (s State) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s State) index(sku string) int {
	for i, it := range s.Items {
		if it.SKU == sku {
			return i
		}
	}
	return -1
}
