package catalog

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/menucart/internal/pricing"
)

// rawCatalog mirrors the content source's document before normalization.
// The same shape is produced by the YAML decoder and the CUE walker.
type rawCatalog struct {
	Products []rawProduct `yaml:"products"`
}

type rawProduct struct {
	ID        any        `yaml:"id"`
	Name      string     `yaml:"name"`
	BasePrice any        `yaml:"base_price"`
	Image     string     `yaml:"image,omitempty"`
	Kind      string     `yaml:"kind,omitempty"`
	Groups    []rawGroup `yaml:"modifier_groups,omitempty"`
}

type rawGroup struct {
	Name        string      `yaml:"name"`
	Required    any         `yaml:"required"`
	MultiSelect any         `yaml:"multi_select"`
	Options     []rawOption `yaml:"options"`
}

type rawOption struct {
	Name  string `yaml:"name"`
	Price any    `yaml:"price"`
}

// build normalizes raw records into a Catalog and validates it.
func build(raw rawCatalog) (*Catalog, error) {
	c := &Catalog{Products: make([]Product, 0, len(raw.Products))}

	for i, rp := range raw.Products {
		p, err := buildProduct(rp)
		if err != nil {
			return nil, fmt.Errorf("products[%d]: %w", i, err)
		}
		c.Products = append(c.Products, p)
	}

	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func buildProduct(rp rawProduct) (Product, error) {
	id, err := formatID(rp.ID)
	if err != nil {
		return Product{}, err
	}
	kind, err := ParseKind(rp.Kind)
	if err != nil {
		return Product{}, fmt.Errorf("product %q: %w", id, err)
	}

	p := Product{
		ID:        id,
		Name:      strings.TrimSpace(rp.Name),
		BasePrice: pricing.Storable(rp.BasePrice),
		Image:     rp.Image,
		Kind:      kind,
	}

	for _, rg := range rp.Groups {
		req, err := ParseRequirement(rg.Required)
		if err != nil {
			return Product{}, fmt.Errorf("product %q group %q: %w", id, rg.Name, err)
		}
		mode, err := ParseMode(rg.MultiSelect)
		if err != nil {
			return Product{}, fmt.Errorf("product %q group %q: %w", id, rg.Name, err)
		}

		g := ModifierGroup{
			Name:        strings.TrimSpace(rg.Name),
			Mode:        mode,
			Requirement: req,
			Options:     make([]Option, 0, len(rg.Options)),
		}
		for _, ro := range rg.Options {
			g.Options = append(g.Options, Option{
				Name:       strings.TrimSpace(ro.Name),
				PriceDelta: pricing.Storable(ro.Price),
			})
		}
		p.Groups = append(p.Groups, g)
	}

	return p, nil
}

// NormalizeName returns the NFC form under which group and option names are
// compared. Text that is not valid UTF-8 is returned unchanged.
func NormalizeName(s string) string {
	if !utf8.ValidString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Validate checks catalog-wide uniqueness rules and reports every problem
// found, joined into one error. Product keys must be unique, and group and
// option names must be unique after NFC normalization, because SKUs are
// built from both.
func Validate(c *Catalog) error {
	var errs []error
	seenProducts := make(map[string]bool, len(c.Products))
	seenKeys := make(map[string]string, len(c.Products))

	for _, p := range c.Products {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("product with empty id"))
			continue
		}
		if seenProducts[p.ID] {
			errs = append(errs, fmt.Errorf("duplicate product id %q", p.ID))
		}
		seenProducts[p.ID] = true

		switch {
		case strings.Contains(p.ID, KeySeparator):
			errs = append(errs, fmt.Errorf("product %q: id must not contain %q", p.ID, KeySeparator))
		case !p.IsCombo() && strings.HasPrefix(p.ID, ComboKeyPrefix):
			errs = append(errs, fmt.Errorf("product %q: item ids must not start with %q", p.ID, ComboKeyPrefix))
		default:
			if other, ok := seenKeys[p.Key()]; ok && other != p.ID {
				errs = append(errs, fmt.Errorf("product %q: key %q already used by product %q", p.ID, p.Key(), other))
			}
			seenKeys[p.Key()] = p.ID
		}

		if p.Name == "" {
			errs = append(errs, fmt.Errorf("product %q: empty name", p.ID))
		}

		seenGroups := make(map[string]bool, len(p.Groups))
		for _, g := range p.Groups {
			if g.Name == "" {
				errs = append(errs, fmt.Errorf("product %q: group with empty name", p.ID))
				continue
			}
			if seenGroups[NormalizeName(g.Name)] {
				errs = append(errs, fmt.Errorf("product %q: duplicate group %q", p.ID, g.Name))
			}
			seenGroups[NormalizeName(g.Name)] = true

			if len(g.Options) == 0 {
				errs = append(errs, fmt.Errorf("product %q group %q: no options", p.ID, g.Name))
			}
			seenOptions := make(map[string]bool, len(g.Options))
			for _, opt := range g.Options {
				if opt.Name == "" {
					errs = append(errs, fmt.Errorf("product %q group %q: option with empty name", p.ID, g.Name))
					continue
				}
				if seenOptions[NormalizeName(opt.Name)] {
					errs = append(errs, fmt.Errorf("product %q group %q: duplicate option %q", p.ID, g.Name, opt.Name))
				}
				seenOptions[NormalizeName(opt.Name)] = true
			}
		}
	}

	return errors.Join(errs...)
}
