package catalog

// Kind distinguishes regular menu items from fixed combos.
type Kind string

const (
	KindItem  Kind = "item"
	KindCombo Kind = "combo"
)

// SelectionMode controls how many options a group may hold at once.
type SelectionMode int

const (
	// Single groups hold zero or one option.
	Single SelectionMode = iota + 1
	// Multi groups hold any number of options.
	Multi
)

func (m SelectionMode) String() string {
	switch m {
	case Single:
		return "single"
	case Multi:
		return "multi"
	default:
		return "unknown"
	}
}

// Requirement controls whether a group must be satisfied before commit.
type Requirement int

const (
	Optional Requirement = iota + 1
	Required
)

func (r Requirement) String() string {
	switch r {
	case Optional:
		return "optional"
	case Required:
		return "required"
	default:
		return "unknown"
	}
}

// Option is one selectable choice within a modifier group.
// PriceDelta keeps whatever the content source provided (number or string).
type Option struct {
	Name       string `json:"name"`
	PriceDelta any    `json:"price_delta,omitempty"`
}

// ModifierGroup is a named set of options attached to a product.
type ModifierGroup struct {
	Name        string        `json:"name"`
	Mode        SelectionMode `json:"mode"`
	Requirement Requirement   `json:"requirement"`
	Options     []Option      `json:"options"`
}

// IsRequired reports whether the group needs at least one selected option.
func (g ModifierGroup) IsRequired() bool {
	return g.Requirement == Required
}

// IsMulti reports whether the group accepts more than one option.
func (g ModifierGroup) IsMulti() bool {
	return g.Mode == Multi
}

// Option returns the option with the given name.
func (g ModifierGroup) Option(name string) (Option, bool) {
	for _, opt := range g.Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return Option{}, false
}

// Product is a read-only catalog record.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	BasePrice any             `json:"base_price,omitempty"`
	Image     string          `json:"image,omitempty"`
	Kind      Kind            `json:"kind"`
	Groups    []ModifierGroup `json:"modifier_groups,omitempty"`
}

// Group returns the modifier group with the given name.
func (p Product) Group(name string) (ModifierGroup, bool) {
	for _, g := range p.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return ModifierGroup{}, false
}

// IsCombo reports whether the product is a fixed combo.
func (p Product) IsCombo() bool {
	return p.Kind == KindCombo
}

// ComboKeyPrefix namespaces combo product keys. Item ids may not start
// with it.
const ComboKeyPrefix = "combo-"

// KeySeparator joins a product key to its encoded selection in a SKU.
// Product ids may not contain it.
const KeySeparator = "_"

// Key is the identity prefix of the product's SKUs: the id for items and
// ComboKeyPrefix plus the id for combos. Validate guarantees keys are
// unique within a catalog.
func (p Product) Key() string {
	if p.IsCombo() {
		return ComboKeyPrefix + p.ID
	}
	return p.ID
}

// Catalog is an ordered product list as delivered by the content source.
type Catalog struct {
	Products []Product `json:"products"`
}

// Product looks up a product by id.
func (c *Catalog) Product(id string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
