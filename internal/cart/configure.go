package cart

import (
	"errors"
	"fmt"

	"github.com/roach88/menucart/internal/catalog"
	"github.com/roach88/menucart/internal/modifier"
	"github.com/roach88/menucart/internal/pricing"
	"github.com/roach88/menucart/internal/sku"
)

// ErrUnknownGroup is returned when a toggle names a group the product does
// not have.
var ErrUnknownGroup = errors.New("cart: unknown modifier group")

// Configurator is an in-progress configuration of one product. It never
// touches a Store; Confirm produces the LineItem the caller then adds.
// Dropping a Configurator abandons the configuration.
type Configurator struct {
	product  catalog.Product
	sel      modifier.Selection
	quantity int
}

// NewConfigurator starts an empty configuration with quantity 1.
func NewConfigurator(p catalog.Product) *Configurator {
	return &Configurator{product: p, sel: modifier.Selection{}, quantity: 1}
}

// Product returns the product being configured.
func (c *Configurator) Product() catalog.Product {
	return c.product
}

// Toggle applies the group's selection rules to option.
func (c *Configurator) Toggle(group, option string) error {
	g, ok := c.product.Group(group)
	if !ok {
		return fmt.Errorf("%w: %q on product %s", ErrUnknownGroup, group, c.product.ID)
	}
	c.sel = modifier.Toggle(g, c.sel, option)
	return nil
}

// SetQuantity sets how many units Confirm will produce. Values below 1 are
// raised to 1.
func (c *Configurator) SetQuantity(qty int) {
	c.quantity = max(qty, 1)
}

// Quantity returns the configured quantity.
func (c *Configurator) Quantity() int {
	return c.quantity
}

// Selection returns a copy of the current selection.
func (c *Configurator) Selection() modifier.Selection {
	return c.sel.Clone()
}

// Violations lists required groups that still need a choice.
func (c *Configurator) Violations() []string {
	return modifier.Validate(c.product.Groups, c.sel)
}

// UnitPrice is the base price plus the deltas of the current selection.
func (c *Configurator) UnitPrice() float64 {
	return pricing.UnitPrice(c.product.BasePrice, c.deltas())
}

// Total is UnitPrice times the configured quantity.
func (c *Configurator) Total() float64 {
	return c.UnitPrice() * float64(c.quantity)
}

func (c *Configurator) deltas() []any {
	var deltas []any
	for _, g := range c.product.Groups {
		for _, name := range c.sel.Selected(g.Name) {
			if opt, ok := g.Option(name); ok {
				deltas = append(deltas, opt.PriceDelta)
			}
		}
	}
	return deltas
}

// Confirm returns the line item for the current configuration, or the
// violated group names when a required group is unsatisfied. On violations
// the returned LineItem is the zero value.
func (c *Configurator) Confirm() (LineItem, []string) {
	if v := c.Violations(); len(v) > 0 {
		return LineItem{}, v
	}

	return LineItem{
		ProductID:  c.product.ID,
		SKU:        sku.Resolve(sku.ProductKey(c.product), c.sel),
		Name:       c.product.Name,
		BasePrice:  c.product.BasePrice,
		Quantity:   c.quantity,
		Selections: c.selections(),
		Image:      c.product.Image,
	}, nil
}

// selections renders the normalized selection with the catalog price delta
// of every option.
func (c *Configurator) selections() []SelectedGroup {
	groups := sku.Normalize(c.sel)
	if len(groups) == 0 {
		return nil
	}

	out := make([]SelectedGroup, 0, len(groups))
	for _, g := range groups {
		sg := SelectedGroup{Name: g.Name, Options: make([]SelectedOption, 0, len(g.Options))}
		for _, name := range g.Options {
			sg.Options = append(sg.Options, SelectedOption{Name: name, PriceDelta: c.priceDelta(g.Name, name)})
		}
		out = append(out, sg)
	}
	return out
}

// priceDelta finds an option by normalized group and option name.
func (c *Configurator) priceDelta(group, option string) any {
	for _, g := range c.product.Groups {
		if sku.NormalizeName(g.Name) != group {
			continue
		}
		for _, o := range g.Options {
			if sku.NormalizeName(o.Name) == option {
				return o.PriceDelta
			}
		}
	}
	return nil
}
