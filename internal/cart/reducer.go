package cart

import (
	"math"
	"slices"
)

// Reduce applies a to s and returns the next state. s is not modified.
// Unknown actions return an unchanged copy.
func Reduce(s State, a Action) State {
	next := s.Clone()

	switch act := a.(type) {
	case AddOrMergeItem:
		item := act.Item.Clone()
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if i := next.index(item.SKU); i >= 0 {
			next.Items[i].Quantity = addQuantity(next.Items[i].Quantity, item.Quantity)
		} else {
			next.Items = append(next.Items, item)
		}
		next.DrawerVisible = true

	case RemoveItem:
		next.Items = removeSKU(next.Items, act.SKU)

	case SetQuantity:
		i := next.index(act.SKU)
		if i < 0 {
			break
		}
		if act.Quantity <= 0 {
			next.Items = removeSKU(next.Items, act.SKU)
			break
		}
		next.Items[i].Quantity = act.Quantity

	case Clear:
		next.Items = nil

	case SetDrawerVisible:
		next.DrawerVisible = act.Visible

	case MarkOrderPlaced:
		if act.Placed {
			next.Items = nil
		}
		next.OrderPlaced = act.Placed
	}

	return next
}

func removeSKU(items []LineItem, sku string) []LineItem {
	return slices.DeleteFunc(items, func(it LineItem) bool { return it.SKU == sku })
}

// sanitize repairs persisted items: lines without a SKU or with a
// non-positive quantity are dropped, and repeated SKUs are merged into the
// first occurrence.
func sanitize(items []LineItem) (clean []LineItem, dropped int) {
	seen := make(map[string]int, len(items))
	for _, it := range items {
		if it.SKU == "" || it.Quantity < 1 {
			dropped++
			continue
		}
		if i, ok := seen[it.SKU]; ok {
			clean[i].Quantity = addQuantity(clean[i].Quantity, it.Quantity)
			dropped++
			continue
		}
		seen[it.SKU] = len(clean)
		clean = append(clean, it)
	}
	return clean, dropped
}

// addQuantity sums two positive quantities, saturating at math.MaxInt.
func addQuantity(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
