package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/menucart/internal/pricing"
)

func TestConfigurator_RequiredGroupBlocksConfirm(t *testing.T) {
	c := NewConfigurator(curry())

	item, violations := c.Confirm()
	assert.Equal(t, []string{"Spice Level"}, violations)
	assert.Equal(t, LineItem{}, item)

	require.NoError(t, c.Toggle("Extras", "Naan"))
	_, violations = c.Confirm()
	assert.Equal(t, []string{"Spice Level"}, violations, "optional picks do not satisfy required groups")

	require.NoError(t, c.Toggle("Spice Level", "Mild"))
	item, violations = c.Confirm()
	assert.Empty(t, violations)
	assert.Equal(t, "7", item.ProductID)
	assert.Equal(t, "Chicken Curry", item.Name)
	assert.Equal(t, "/img/curry.jpg", item.Image)
	assert.Equal(t, 1, item.Quantity)
}

func TestConfigurator_UnknownGroup(t *testing.T) {
	c := NewConfigurator(curry())
	err := c.Toggle("Sauce", "Mint")
	assert.ErrorIs(t, err, ErrUnknownGroup)
	assert.Zero(t, c.Selection().Len())
}

func TestConfigurator_UnknownOptionIsIgnored(t *testing.T) {
	c := NewConfigurator(curry())
	require.NoError(t, c.Toggle("Spice Level", "Nuclear"))
	assert.Equal(t, []string{"Spice Level"}, c.Violations())
}

func TestConfigurator_SelectionRulesApply(t *testing.T) {
	c := NewConfigurator(pizza())

	require.NoError(t, c.Toggle("Toppings", "Cheese"))
	require.NoError(t, c.Toggle("Toppings", "Cheese"))
	assert.Equal(t, []string{"Cheese"}, c.Selection().Selected("Toppings"), "last required option stays")

	require.NoError(t, c.Toggle("Crust", "Thin"))
	require.NoError(t, c.Toggle("Crust", "Stuffed"))
	assert.Equal(t, []string{"Stuffed"}, c.Selection().Selected("Crust"))

	require.NoError(t, c.Toggle("Crust", "Stuffed"))
	assert.False(t, c.Selection().Has("Crust", "Stuffed"), "optional single clears on re-select")
}

func TestConfigurator_UnitPriceFollowsSelection(t *testing.T) {
	c := NewConfigurator(pizza())
	assert.Equal(t, 10.0, c.UnitPrice())

	require.NoError(t, c.Toggle("Toppings", "Olives"))
	require.NoError(t, c.Toggle("Crust", "Stuffed"))
	assert.Equal(t, 14.5, c.UnitPrice())

	c.SetQuantity(3)
	assert.Equal(t, "43.50", pricing.Format(c.Total()))

	c.SetQuantity(0)
	assert.Equal(t, 1, c.Quantity())
}

func TestConfigurator_ConfirmCarriesDeltas(t *testing.T) {
	item := configure(t, pizza(), 2,
		[2]string{"Toppings", "Olives"},
		[2]string{"Crust", "Stuffed"},
		[2]string{"Toppings", "Cheese"},
	)

	assert.Equal(t, "12_Q3J1c3Q6U3R1ZmZlZHxUb3BwaW5nczpDaGVlc2UsT2xpdmVz", item.SKU)
	assert.Equal(t, []SelectedGroup{
		{Name: "Crust", Options: []SelectedOption{{Name: "Stuffed", PriceDelta: "$3.00"}}},
		{Name: "Toppings", Options: []SelectedOption{
			{Name: "Cheese", PriceDelta: 1.0},
			{Name: "Olives", PriceDelta: "1.50"},
		}},
	}, item.Selections)
	assert.Equal(t, []string{"Crust: Stuffed", "Toppings: Cheese", "Toppings: Olives"}, item.OptionNames())
	assert.Equal(t, 15.5, item.UnitPrice())
	assert.Equal(t, "31.00", pricing.Format(item.Total()))
}

func TestConfigurator_ToggleOrderDoesNotChangeSKU(t *testing.T) {
	first := configure(t, curry(), 1,
		[2]string{"Extras", "Raita"},
		[2]string{"Spice Level", "Hot"},
		[2]string{"Extras", "Naan"},
	)
	second := configure(t, curry(), 1,
		[2]string{"Spice Level", "Mild"},
		[2]string{"Extras", "Naan"},
		[2]string{"Spice Level", "Hot"},
		[2]string{"Extras", "Raita"},
	)

	assert.Equal(t, "7_RXh0cmFzOk5hYW4sUmFpdGF8U3BpY2UgTGV2ZWw6SG90", first.SKU)
	assert.Equal(t, first.SKU, second.SKU)
}

func TestConfigurator_ComboUsesNamespacedKey(t *testing.T) {
	item := configure(t, lunchCombo(), 1)
	assert.Equal(t, "combo-30", item.SKU)
	assert.Equal(t, "30", item.ProductID)
	assert.Nil(t, item.Selections)
	assert.Equal(t, 15.5, item.Total())

	plain := configure(t, curry(), 1, [2]string{"Spice Level", "Hot"})
	assert.NotEqual(t, item.SKU, plain.SKU)
}

func TestConfigurator_SelectionIsACopy(t *testing.T) {
	c := NewConfigurator(curry())
	require.NoError(t, c.Toggle("Spice Level", "Hot"))

	sel := c.Selection()
	sel["Spice Level"][0] = "Mild"

	assert.True(t, c.Selection().Has("Spice Level", "Hot"))
}
