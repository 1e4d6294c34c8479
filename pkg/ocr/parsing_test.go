package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractItem(t *testing.T) {
	for _, tt := range []struct {
		name     string
		line     string
		wantOK   bool
		wantName string
		wantCost string
	}{
		{name: "simple", line: "Burger 8.99", wantOK: true, wantName: "Burger", wantCost: "8.99"},
		{name: "last token wins", line: "Fries  3.50 3.25", wantOK: true, wantName: "Fries", wantCost: "3.25"},
		{name: "unit price before total", line: "2 x Soda 1.25 2.50", wantOK: true, wantName: "2 x Soda", wantCost: "2.50"},
		{name: "dollar sign dropped from name", line: "Coffee $ 3.50", wantOK: true, wantName: "Coffee", wantCost: "3.50"},
		{name: "price first", line: "4.00 Bagel", wantOK: true, wantName: "Bagel", wantCost: "4.00"},
		{name: "empty name allowed", line: " 12.00 ", wantOK: true, wantName: "", wantCost: "12.00"},
		{name: "no price", line: "Store 1234 Main St", wantOK: false},
		{name: "one decimal only", line: "Tea 3.5", wantOK: false},
		{name: "integer only", line: "Qty 3", wantOK: false},
		{name: "empty", line: "", wantOK: false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			it, ok := ExtractItem(tt.line)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantName, it.Name)
			assert.Equal(t, tt.wantCost, it.Cost.StringFixed(2))
		})
	}
}

func TestExtractItemNameHasNoPriceToken(t *testing.T) {
	for _, line := range []string{
		"A 1.00 B 2.00 C 3.00",
		"10.00Widget20.00",
		"Combo 1.99 2.99 3.99 4.99",
	} {
		it, ok := ExtractItem(line)
		require.True(t, ok, line)
		assert.False(t, priceRE.MatchString(it.Name), "name %q still has a price", it.Name)
		assert.True(t, it.Cost.IsPositive())
	}
}

func TestExtractItemsNoItems(t *testing.T) {
	_, err := ExtractItems([]string{"WELCOME", "", "Store 42"})
	assert.ErrorIs(t, err, ErrNoItemsFound)

	_, err = ExtractItems(nil)
	assert.ErrorIs(t, err, ErrNoItemsFound)
}

func TestExtractItemsKeepsOrder(t *testing.T) {
	items, err := ExtractItems([]string{"Milk 2.49", "no price here", "Eggs 3.19"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Milk", items[0].Name)
	assert.Equal(t, "Eggs", items[1].Name)
}
