package catalog

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Requirement
	}{
		{"yes", "yes", Required},
		{"YES padded", "  YES ", Required},
		{"no", "no", Optional},
		{"bool true", true, Required},
		{"bool false", false, Optional},
		{"missing", nil, Optional},
		{"empty string", "", Optional},
		{"word", "required", Required},
		{"int one", 1, Required},
		{"float zero", 0.0, Optional},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequirement(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRequirement_Rejects(t *testing.T) {
	for _, input := range []any{"maybe", 2, 0.5, []string{"yes"}} {
		_, err := ParseRequirement(input)
		assert.Error(t, err, "input %v", input)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input any
		want  SelectionMode
	}{
		{"yes", Multi},
		{"no", Single},
		{"multiple", Multi},
		{"Multi", Multi},
		{"single", Single},
		{true, Multi},
		{nil, Single},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		require.NoError(t, err, "input %v", tt.input)
		assert.Equal(t, tt.want, got, "input %v", tt.input)
	}

	_, err := ParseMode("sometimes")
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindItem, k)

	k, err = ParseKind("Combo")
	require.NoError(t, err)
	assert.Equal(t, KindCombo, k)

	_, err = ParseKind("bundle")
	assert.Error(t, err)
}

func TestLoad_YAML(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "menu.yaml"))
	require.NoError(t, err)
	require.Len(t, c.Products, 3)

	curry, ok := c.Product("7")
	require.True(t, ok)
	assert.Equal(t, "Chicken Curry", curry.Name)
	assert.Equal(t, 12.0, curry.BasePrice)
	assert.Equal(t, KindItem, curry.Kind)

	spice, ok := curry.Group("Spice Level")
	require.True(t, ok)
	assert.True(t, spice.IsRequired())
	assert.False(t, spice.IsMulti())
	assert.Len(t, spice.Options, 3)

	extras, ok := curry.Group("Extras")
	require.True(t, ok)
	assert.False(t, extras.IsRequired())
	assert.True(t, extras.IsMulti())
	naan, ok := extras.Option("Naan")
	require.True(t, ok)
	assert.Equal(t, "$2.50", naan.PriceDelta)

	combo, ok := c.Product("30")
	require.True(t, ok)
	assert.True(t, combo.IsCombo())
	assert.Empty(t, combo.Groups)
}

func TestLoad_CUE(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "menu.cue"))
	require.NoError(t, err)
	require.Len(t, c.Products, 2)

	curry, ok := c.Product("7")
	require.True(t, ok)
	assert.Equal(t, 12.0, curry.BasePrice)

	extras, ok := curry.Group("Extras")
	require.True(t, ok)
	assert.Equal(t, Optional, extras.Requirement)
	assert.Equal(t, Multi, extras.Mode)

	combo, ok := c.Product("30")
	require.True(t, ok)
	assert.Equal(t, KindCombo, combo.Kind)
}

func TestLoad_YAMLAndCUEAgree(t *testing.T) {
	fromYAML, err := Load(filepath.Join("testdata", "menu.yaml"))
	require.NoError(t, err)
	fromCUE, err := Load(filepath.Join("testdata", "menu.cue"))
	require.NoError(t, err)

	y, _ := fromYAML.Product("7")
	c, _ := fromCUE.Product("7")
	assert.Equal(t, y.Name, c.Name)
	require.Len(t, c.Groups, len(y.Groups))
	for i := range y.Groups {
		assert.Equal(t, y.Groups[i].Name, c.Groups[i].Name)
		assert.Equal(t, y.Groups[i].Mode, c.Groups[i].Mode)
		assert.Equal(t, y.Groups[i].Requirement, c.Groups[i].Requirement)
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "unsupported catalog format")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDecodeYAML_RejectsUnknownFields(t *testing.T) {
	_, err := DecodeYAML([]byte(`
products:
  - id: 1
    name: Soup
    requird: yes
`))
	assert.Error(t, err)
}

func TestDecodeYAML_BadMarker(t *testing.T) {
	_, err := DecodeYAML([]byte(`
products:
  - id: 1
    name: Soup
    modifier_groups:
      - name: Size
        required: perhaps
        options:
          - name: Cup
`))
	assert.ErrorContains(t, err, "required marker")
}

func TestDecodeYAML_Empty(t *testing.T) {
	c, err := DecodeYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, c.Products)
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	c := &Catalog{Products: []Product{
		{ID: "1", Name: "Soup", Groups: []ModifierGroup{
			{Name: "Size", Options: []Option{{Name: "Cup"}, {Name: "Cup"}}},
			{Name: "Size", Options: []Option{{Name: "Bowl"}}},
			{Name: "Empty"},
		}},
		{ID: "1", Name: ""},
	}}

	err := Validate(c)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `duplicate option "Cup"`)
	assert.Contains(t, msg, `duplicate group "Size"`)
	assert.Contains(t, msg, `group "Empty": no options`)
	assert.Contains(t, msg, `duplicate product id "1"`)
	assert.Contains(t, msg, "empty name")
}

func TestValidate_ProductKeysAreUnique(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		wantErr string
	}{
		{
			name:    "item id in the combo namespace",
			product: Product{ID: "combo-5", Name: "Side Salad"},
			wantErr: `product "combo-5": item ids must not start with "combo-"`,
		},
		{
			name:    "item id with separator",
			product: Product{ID: "5_U2l6ZTpM", Name: "Soup"},
			wantErr: `product "5_U2l6ZTpM": id must not contain "_"`,
		},
		{
			name:    "combo id with separator",
			product: Product{ID: "x_y", Name: "Box", Kind: KindCombo},
			wantErr: `product "x_y": id must not contain "_"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Catalog{Products: []Product{
				{ID: "5", Name: "Family Combo", Kind: KindCombo},
				tt.product,
			}}
			assert.ErrorContains(t, Validate(c), tt.wantErr)
		})
	}
}

func TestValidate_ItemAndComboMayShareID(t *testing.T) {
	c := &Catalog{Products: []Product{
		{ID: "5", Name: "Family Combo", Kind: KindCombo},
		{ID: "6", Name: "Side Salad"},
		{ID: "combo-7", Name: "Combo of combos", Kind: KindCombo},
	}}
	require.NoError(t, Validate(c))
	assert.Equal(t, "combo-5", c.Products[0].Key())
	assert.Equal(t, "6", c.Products[1].Key())
	assert.Equal(t, "combo-combo-7", c.Products[2].Key())
}

func TestDecodeYAML_ComboNamespaceCollision(t *testing.T) {
	_, err := DecodeYAML([]byte(`
products:
  - id: 5
    name: Family Combo
    base_price: 20
    kind: combo
  - id: combo-5
    name: Side Salad
    base_price: 4
`))
	assert.ErrorContains(t, err, `item ids must not start with "combo-"`)
}

func TestValidate_NamesCompareAfterNFC(t *testing.T) {
	composed, decomposed := "Jalape\u00f1o", "Jalapen\u0303o"
	c := &Catalog{Products: []Product{
		{ID: "1", Name: "Taco", Groups: []ModifierGroup{
			{Name: composed, Options: []Option{{Name: "Yes"}}},
			{Name: decomposed, Options: []Option{{Name: "Yes"}}},
			{Name: "Salsa", Options: []Option{{Name: "Cr\u00e8me"}, {Name: "Cre\u0300me"}}},
		}},
	}}

	err := Validate(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate group")
	assert.Contains(t, err.Error(), "duplicate option")
	assert.Equal(t, composed, NormalizeName(decomposed))
}

func TestDecodeYAML_NonFinitePricesReadAsZero(t *testing.T) {
	c, err := DecodeYAML([]byte(`
products:
  - id: 1
    name: Soup
    base_price: .nan
    modifier_groups:
      - name: Size
        required: no
        options:
          - name: Bowl
            price: .inf
          - name: Cup
            price: 1.5
`))
	require.NoError(t, err)
	p := c.Products[0]
	assert.Equal(t, 0.0, p.BasePrice)
	assert.Equal(t, 0.0, p.Groups[0].Options[0].PriceDelta)
	assert.Equal(t, 1.5, p.Groups[0].Options[1].PriceDelta)
	assert.False(t, math.IsNaN(p.BasePrice.(float64)))
}

func TestCompileCUE_SyntaxErrorHasPosition(t *testing.T) {
	_, err := CompileCUE([]byte("products: [{ id: }]"), "bad.cue")
	require.Error(t, err)

	var ce *CompileError
	if errors.As(err, &ce) {
		assert.Contains(t, ce.Error(), "bad.cue")
	}
}

func TestCompileCUE_MissingProducts(t *testing.T) {
	_, err := CompileCUE([]byte(`menu: "lunch"`), "menu.cue")
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "products", ce.Field)
}

func TestFormatID(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{7, "7"},
		{int64(42), "42"},
		{7.0, "7"},
		{"  abc ", "abc"},
		{2.5, "2.5"},
	}
	for _, tt := range tests {
		got, err := formatID(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := formatID(nil)
	assert.Error(t, err)
}
