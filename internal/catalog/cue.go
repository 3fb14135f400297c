package catalog

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileCUE parses a CUE catalog document.
//
// The document has the same shape as the YAML form:
//
//	products: [{
//		id:         7
//		name:       "Curry"
//		base_price: 12.00
//		modifier_groups: [{
//			name:         "Spice Level"
//			required:     "yes"
//			multi_select: "no"
//			options: [{name: "Mild", price: 0}, {name: "Hot", price: "$0.50"}]
//		}]
//	}]
//
// filename is only used for error positions.
func CompileCUE(data []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	raw, err := walkCatalog(v)
	if err != nil {
		return nil, err
	}
	return build(raw)
}

func walkCatalog(v cue.Value) (rawCatalog, error) {
	var raw rawCatalog

	productsVal := v.LookupPath(cue.ParsePath("products"))
	if !productsVal.Exists() {
		return raw, &CompileError{
			Field:   "products",
			Message: "products list is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := productsVal.List()
	if err != nil {
		return raw, formatCUEError(err)
	}

	for iter.Next() {
		p, err := walkProduct(iter.Value())
		if err != nil {
			return raw, err
		}
		raw.Products = append(raw.Products, p)
	}

	return raw, nil
}

func walkProduct(v cue.Value) (rawProduct, error) {
	var p rawProduct
	var err error

	if p.ID, err = lookupLoose(v, "id"); err != nil {
		return p, err
	}
	if p.Name, err = lookupString(v, "name"); err != nil {
		return p, err
	}
	if p.BasePrice, err = lookupLoose(v, "base_price"); err != nil {
		return p, err
	}
	if p.Image, err = lookupString(v, "image"); err != nil {
		return p, err
	}
	if p.Kind, err = lookupString(v, "kind"); err != nil {
		return p, err
	}

	groupsVal := v.LookupPath(cue.ParsePath("modifier_groups"))
	if !groupsVal.Exists() {
		return p, nil
	}
	groupIter, err := groupsVal.List()
	if err != nil {
		return p, formatCUEError(err)
	}

	for groupIter.Next() {
		gv := groupIter.Value()
		var g rawGroup

		if g.Name, err = lookupString(gv, "name"); err != nil {
			return p, err
		}
		if g.Required, err = lookupLoose(gv, "required"); err != nil {
			return p, err
		}
		if g.MultiSelect, err = lookupLoose(gv, "multi_select"); err != nil {
			return p, err
		}

		optionsVal := gv.LookupPath(cue.ParsePath("options"))
		if optionsVal.Exists() {
			optIter, err := optionsVal.List()
			if err != nil {
				return p, formatCUEError(err)
			}
			for optIter.Next() {
				ov := optIter.Value()
				var o rawOption
				if o.Name, err = lookupString(ov, "name"); err != nil {
					return p, err
				}
				if o.Price, err = lookupLoose(ov, "price"); err != nil {
					return p, err
				}
				g.Options = append(g.Options, o)
			}
		}

		p.Groups = append(p.Groups, g)
	}

	return p, nil
}

// lookupString returns the string at field, or "" when absent.
func lookupString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// lookupLoose returns the scalar at field as a Go value, or nil when absent.
func lookupLoose(v cue.Value, field string) (any, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	if !fv.IsConcrete() {
		return nil, &CompileError{
			Field:   field,
			Message: "value must be concrete",
			Pos:     fv.Pos(),
		}
	}

	switch fv.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.StringKind:
		s, err := fv.String()
		return s, formatCUEError(err)
	case cue.BoolKind:
		b, err := fv.Bool()
		return b, formatCUEError(err)
	case cue.IntKind:
		n, err := fv.Int64()
		return n, formatCUEError(err)
	case cue.FloatKind, cue.NumberKind:
		f, err := fv.Float64()
		return f, formatCUEError(err)
	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unsupported kind %v", fv.Kind()),
			Pos:     fv.Pos(),
		}
	}
}

// CompileError represents a catalog compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
