// Package sku derives the canonical identity of a cart line.
//
// A SKU is a pure function of a product key and the normalized modifier
// selection: selection order and duplicate entries never change it, and two
// different normalized selections never share one. The cart uses it as its
// merge key.
//
// Format:
//
//	<productKey>                           no options selected
//	<productKey>_<base64(canonical)>       otherwise
//
// where canonical is "group1:opt1,opt2|group2:opt1" with groups and options
// sorted and names NFC-normalized. Backslash, colon, comma and pipe inside
// names are backslash-escaped so the canonical text stays unambiguous.
package sku

import (
	"encoding/base64"
	"errors"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/roach88/menucart/internal/catalog"
	"github.com/roach88/menucart/internal/modifier"
)

// Separator joins the product key and the encoded selection. It is outside
// the standard base64 alphabet and catalog ids may not contain it.
const Separator = catalog.KeySeparator

// ComboPrefix namespaces combo product keys away from menu item ids.
const ComboPrefix = catalog.ComboKeyPrefix

// Group is one normalized modifier group: a name and its sorted options.
type Group struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

var errNotUTF8 = errors.New("canonical selection is not valid UTF-8")

var escaper = strings.NewReplacer(`\`, `\\`, `:`, `\:`, `,`, `\,`, `|`, `\|`)

// ProductKey returns the identity prefix for a product. Combos resolve through
// the same rules as configurable items, under their own namespace.
func ProductKey(p catalog.Product) string {
	return p.Key()
}

// Normalize drops empty groups, NFC-normalizes names, sorts and de-duplicates
// options within each group and sorts groups by name. Group names that
// normalize to the same text are merged.
func Normalize(sel modifier.Selection) []Group {
	merged := make(map[string][]string, len(sel))
	for name, opts := range sel {
		if len(opts) == 0 {
			continue
		}
		key := nfc(name)
		for _, o := range opts {
			merged[key] = append(merged[key], nfc(o))
		}
	}

	groups := make([]Group, 0, len(merged))
	for name, opts := range merged {
		slices.Sort(opts)
		groups = append(groups, Group{Name: name, Options: slices.Compact(opts)})
	}
	slices.SortFunc(groups, func(a, b Group) int { return strings.Compare(a.Name, b.Name) })
	return groups
}

// NormalizeName returns the NFC form used for group and option names, the
// same form catalog.Validate checks for uniqueness. Text that is not valid
// UTF-8 is returned unchanged.
func NormalizeName(s string) string {
	return nfc(s)
}

// nfc leaves invalid UTF-8 untouched so that Resolve can detect it and fall
// back to the sanitized form.
func nfc(s string) string {
	return catalog.NormalizeName(s)
}

// Canonical renders normalized groups as "group:opt1,opt2|group2:opt1".
func Canonical(groups []Group) string {
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(escaper.Replace(g.Name))
		b.WriteByte(':')
		for j, o := range g.Options {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escaper.Replace(o))
		}
	}
	return b.String()
}

// Resolve computes the SKU of productKey configured with sel. It never fails:
// when the canonical text cannot be encoded, a sanitized copy is appended
// instead.
func Resolve(productKey string, sel modifier.Selection) string {
	return ResolveGroups(productKey, Normalize(sel))
}

// ResolveGroups is Resolve for groups that are already normalized.
func ResolveGroups(productKey string, groups []Group) string {
	if len(groups) == 0 {
		return productKey
	}

	canonical := Canonical(groups)
	encoded, err := encode(canonical)
	if err != nil {
		return productKey + Separator + Sanitize(canonical)
	}
	return productKey + Separator + encoded
}

func encode(canonical string) (string, error) {
	if !utf8.ValidString(canonical) {
		return "", errNotUTF8
	}
	return base64.StdEncoding.EncodeToString([]byte(canonical)), nil
}

// Sanitize keeps ASCII letters, digits and the separators ':', ',' and '|'.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == ':' || c == ',' || c == '|':
			b.WriteByte(c)
		}
	}
	return b.String()
}
