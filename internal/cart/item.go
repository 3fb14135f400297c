package cart

import (
	"slices"

	"github.com/roach88/menucart/internal/pricing"
)

// SelectedOption is one chosen option together with the price delta it had
// in the catalog when the line was configured.
type SelectedOption struct {
	Name       string `json:"name"`
	PriceDelta any    `json:"price_delta,omitempty"`
}

// SelectedGroup is one modifier group of a line item with its chosen options.
type SelectedGroup struct {
	Name    string           `json:"name"`
	Options []SelectedOption `json:"options"`
}

// LineItem is one configured product in the cart.
//
// Identity is SKU alone. Two line items with the same SKU are the same line;
// the store merges their quantities.
type LineItem struct {
	ProductID  string          `json:"product_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	BasePrice  any             `json:"base_price"`
	Quantity   int             `json:"quantity"`
	Selections []SelectedGroup `json:"selections,omitempty"`
	Image      string          `json:"image,omitempty"`
}

var _ pricing.Line = LineItem{}

// PriceBase implements pricing.Line.
func (l LineItem) PriceBase() any { return l.BasePrice }

// PriceQuantity implements pricing.Line.
func (l LineItem) PriceQuantity() int { return l.Quantity }

// PriceDeltas implements pricing.Line.
func (l LineItem) PriceDeltas() []any {
	var deltas []any
	for _, g := range l.Selections {
		for _, o := range g.Options {
			deltas = append(deltas, o.PriceDelta)
		}
	}
	return deltas
}

// UnitPrice is the price of one unit including option deltas.
func (l LineItem) UnitPrice() float64 {
	return pricing.UnitPrice(l.BasePrice, l.PriceDeltas())
}

// Total is the unrounded line total.
func (l LineItem) Total() float64 {
	return pricing.LineItemTotal(l)
}

// OptionNames lists the chosen options as "Group: Option" in selection order.
func (l LineItem) OptionNames() []string {
	var names []string
	for _, g := range l.Selections {
		for _, o := range g.Options {
			names = append(names, g.Name+": "+o.Name)
		}
	}
	return names
}

// Clone returns a deep copy of the line.
func (l LineItem) Clone() LineItem {
	out := l
	if l.Selections != nil {
		out.Selections = make([]SelectedGroup, len(l.Selections))
		for i, g := range l.Selections {
			out.Selections[i] = SelectedGroup{Name: g.Name, Options: slices.Clone(g.Options)}
		}
	}
	return out
}
