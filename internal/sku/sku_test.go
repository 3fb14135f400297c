package sku

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/menucart/internal/catalog"
	"github.com/roach88/menucart/internal/modifier"
)

func TestResolve_NoSelectionIsProductKey(t *testing.T) {
	assert.Equal(t, "7", Resolve("7", nil))
	assert.Equal(t, "7", Resolve("7", modifier.Selection{"Extras": {}}))
}

func TestResolve_SpiceLevelExample(t *testing.T) {
	got := Resolve("7", modifier.Selection{"Spice Level": {"Hot"}})
	assert.Equal(t, "7_U3BpY2UgTGV2ZWw6SG90", got)
}

func TestResolve_OrderAndDuplicatesIgnored(t *testing.T) {
	a := Resolve("12", modifier.Selection{"Toppings": {"Cheese", "Olives"}})
	b := Resolve("12", modifier.Selection{"Toppings": {"Olives", "Cheese"}})
	c := Resolve("12", modifier.Selection{"Toppings": {"Olives", "Cheese", "Olives"}})
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestResolve_DifferentSelectionsDiffer(t *testing.T) {
	cheese := Resolve("12", modifier.Selection{"Toppings": {"Cheese"}})
	olives := Resolve("12", modifier.Selection{"Toppings": {"Olives"}})
	assert.NotEqual(t, cheese, olives)
}

func TestResolve_GroupOrderIgnored(t *testing.T) {
	groups := []string{"Crust", "Toppings", "Size"}
	base := modifier.Selection{"Crust": {"Thin"}, "Toppings": {"Cheese"}, "Size": {"L"}}
	want := Resolve("12", base)

	// Map iteration order varies between runs; resolve repeatedly.
	for i := 0; i < 20; i++ {
		sel := modifier.Selection{}
		for _, g := range groups {
			sel[g] = base[g]
		}
		assert.Equal(t, want, Resolve("12", sel))
	}
}

func TestResolve_NFCEquivalentNamesMatch(t *testing.T) {
	composed := Resolve("1", modifier.Selection{"Sauce": {"Jalape\u00f1o"}})
	decomposed := Resolve("1", modifier.Selection{"Sauce": {"Jalapen\u0303o"}})
	assert.Equal(t, composed, decomposed)
}

func TestResolve_SeparatorsInNamesDoNotCollide(t *testing.T) {
	// Without escaping both would render as "A:b,c".
	one := Resolve("1", modifier.Selection{"A": {"b,c"}})
	two := Resolve("1", modifier.Selection{"A": {"b", "c"}})
	assert.NotEqual(t, one, two)

	// Without escaping both would render as "A:x|B:y".
	three := Resolve("1", modifier.Selection{"A": {"x|B:y"}})
	four := Resolve("1", modifier.Selection{"A": {"x"}, "B": {"y"}})
	assert.NotEqual(t, three, four)
}

func TestResolve_InvalidUTF8FallsBackToSanitized(t *testing.T) {
	got := Resolve("5", modifier.Selection{"Size": {"L\xff"}})
	assert.Equal(t, "5_Size:L", got)
}

func TestCanonical(t *testing.T) {
	groups := Normalize(modifier.Selection{
		"Toppings": {"Olives", "Cheese"},
		"Crust":    {"Thin"},
		"Empty":    nil,
	})
	assert.Equal(t, "Crust:Thin|Toppings:Cheese,Olives", Canonical(groups))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "SpiceLevel:Hot|Extras:Naan,Raita", Sanitize("Spice Level:Hot|Extras:Naan, Raita!"))
}

func TestDecode_RoundTrip(t *testing.T) {
	sel := modifier.Selection{
		"Toppings": {"Olives", "Cheese"},
		"A:B":      {"x,y", `back\slash`, "p|q"},
	}
	s := Resolve("12", sel)

	key, groups, ok := Decode(s)
	require.True(t, ok)
	assert.Equal(t, "12", key)
	if diff := cmp.Diff(Normalize(sel), groups); diff != "" {
		t.Errorf("decoded groups mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_PlainKey(t *testing.T) {
	key, groups, ok := Decode("7")
	assert.True(t, ok)
	assert.Equal(t, "7", key)
	assert.Nil(t, groups)
}

func TestDecode_SanitizedFallbackIsNotDecodable(t *testing.T) {
	_, _, ok := Decode("5_Size:L")
	assert.False(t, ok)
}

func TestDecode_KeyEndsAtFirstSeparator(t *testing.T) {
	key, groups, ok := Decode(Resolve("7", modifier.Selection{"Size": {"L"}}))
	require.True(t, ok)
	assert.Equal(t, "7", key)
	assert.Equal(t, []Group{{Name: "Size", Options: []string{"L"}}}, groups)

	_, _, ok = Decode("a_Yjpj_U2l6ZTpM")
	assert.False(t, ok, "a key never contains the separator")
}

func TestProductKey(t *testing.T) {
	assert.Equal(t, "7", ProductKey(catalog.Product{ID: "7"}))
	assert.Equal(t, "combo-7", ProductKey(catalog.Product{ID: "7", Kind: catalog.KindCombo}))

	// Keys a validated catalog produces never collide with each other or
	// with a SKU carrying a selection.
	c := &catalog.Catalog{Products: []catalog.Product{
		{ID: "5", Name: "Family Combo", Kind: catalog.KindCombo},
		{ID: "5", Name: "Soup"},
	}}
	assert.Error(t, catalog.Validate(c), "duplicate ids are rejected")
	c.Products[1].ID = "6"
	require.NoError(t, catalog.Validate(c))
	assert.NotEqual(t, ProductKey(c.Products[0]), ProductKey(c.Products[1]))
}

// TestResolve_Properties checks that SKUs are equal exactly when the
// normalized selections are equal, over random selections.
func TestResolve_Properties(t *testing.T) {
	names := []string{"A", "B", "C"}
	opts := []string{"x", "y", "z"}
	rng := rand.New(rand.NewSource(7))

	randomSelection := func() modifier.Selection {
		sel := modifier.Selection{}
		for _, g := range names {
			n := rng.Intn(4)
			for i := 0; i < n; i++ {
				sel[g] = append(sel[g], opts[rng.Intn(len(opts))])
			}
		}
		return sel
	}
	shuffled := func(sel modifier.Selection) modifier.Selection {
		out := sel.Clone()
		for g, o := range out {
			rng.Shuffle(len(o), func(i, j int) { o[i], o[j] = o[j], o[i] })
			if len(o) > 0 {
				out[g] = append(o, o[0])
			}
		}
		return out
	}

	for i := 0; i < 500; i++ {
		s1 := randomSelection()
		assert.Equal(t, Resolve("p", s1), Resolve("p", shuffled(s1)))

		s2 := randomSelection()
		sameNormalized := cmp.Equal(Normalize(s1), Normalize(s2))
		sameSKU := Resolve("p", s1) == Resolve("p", s2)
		require.Equal(t, sameNormalized, sameSKU, "s1=%v s2=%v", s1, s2)
	}
}

func TestNormalize_SortedAndUnique(t *testing.T) {
	groups := Normalize(modifier.Selection{"B": {"y", "x", "y"}, "A": {"z"}})
	require.Len(t, groups, 2)
	assert.Equal(t, "A", groups[0].Name)
	assert.True(t, slices.IsSorted(groups[1].Options))
	assert.Equal(t, []string{"x", "y"}, groups[1].Options)
}
