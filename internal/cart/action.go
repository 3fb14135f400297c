package cart

// Action is one cart mutation. Actions are plain values; Reduce gives them
// meaning.
type Action interface {
	// Kind is a stable lowercase name used in logs and metrics.
	Kind() string
}

// AddOrMergeItem adds Item, or increases the quantity of the line with the
// same SKU. Opens the drawer.
type AddOrMergeItem struct {
	Item LineItem
}

// RemoveItem drops the line with SKU. Absent SKUs are ignored.
type RemoveItem struct {
	SKU string
}

// SetQuantity replaces the quantity of the line with SKU. Quantities of zero
// or less remove the line.
type SetQuantity struct {
	SKU      string
	Quantity int
}

// Clear empties the cart without touching the drawer or order flags.
type Clear struct{}

// SetDrawerVisible shows or hides the cart drawer.
type SetDrawerVisible struct {
	Visible bool
}

// MarkOrderPlaced with Placed=true clears the items and records the order in
// one step. Placed=false only resets the flag.
type MarkOrderPlaced struct {
	Placed bool
}

func (AddOrMergeItem) Kind() string   { return "add_or_merge_item" }
func (RemoveItem) Kind() string       { return "remove_item" }
func (SetQuantity) Kind() string      { return "set_quantity" }
func (Clear) Kind() string            { return "clear" }
func (SetDrawerVisible) Kind() string { return "set_drawer_visible" }
func (MarkOrderPlaced) Kind() string  { return "mark_order_placed" }
