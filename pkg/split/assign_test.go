package split

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitbill/models"
)

func item(name, cost string) models.LineItem {
	return models.LineItem{Name: name, Cost: decimal.RequireFromString(cost)}
}

func TestAssign(t *testing.T) {
	tests := []struct {
		name       string
		items      []models.LineItem
		recipients []string
		want       []string
	}{
		{
			name:       "wraps around",
			items:      []models.LineItem{item("A", "1.00"), item("B", "2.00"), item("C", "3.00")},
			recipients: []string{"X", "Y"},
			want:       []string{"X", "Y", "X"},
		},
		{
			name:       "single recipient takes everything",
			items:      []models.LineItem{item("A", "1.00"), item("B", "9.99")},
			recipients: []string{"solo"},
			want:       []string{"solo", "solo"},
		},
		{
			name:       "more recipients than items",
			items:      []models.LineItem{item("A", "1.00")},
			recipients: []string{"X", "Y", "Z"},
			want:       []string{"X"},
		},
		{
			name:       "no items",
			items:      nil,
			recipients: []string{"X"},
			want:       []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Assign(tt.items, tt.recipients)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i, a := range got {
				assert.Equal(t, tt.want[i], a.AssignedTo)
				assert.Equal(t, tt.items[i].Name, a.Name)
				assert.True(t, tt.items[i].Cost.Equal(a.Cost))
			}
		})
	}
}

func TestAssignIndexModulo(t *testing.T) {
	var items []models.LineItem
	for i := 0; i < 17; i++ {
		items = append(items, item("i", "1.00"))
	}
	recipients := []string{"a", "b", "c", "d", "e"}
	got, err := Assign(items, recipients)
	require.NoError(t, err)
	for i := range got {
		assert.Equal(t, recipients[i%len(recipients)], got[i].AssignedTo)
	}

	again, err := Assign(items, recipients)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestAssignNoRecipients(t *testing.T) {
	_, err := Assign([]models.LineItem{item("A", "1.00")}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Assign([]models.LineItem{item("A", "1.00")}, []string{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
