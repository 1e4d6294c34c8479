// Package split distributes receipt items across people and asks them to pay.
package split

import (
	"fmt"

	"splitbill/models"
)

// Assign hands items out round-robin: item i goes to recipients[i % len(recipients)].
// The result depends only on positions, never on cost.
func Assign(items []models.LineItem, recipients []string) ([]models.AssignedItem, error) {
	if len(recipients) == 0 {
		return nil, fmt.Errorf("%w: at least one recipient is required", ErrInvalidInput)
	}
	out := make([]models.AssignedItem, len(items))
	for i, it := range items {
		out[i] = models.AssignedItem{
			Name:       it.Name,
			Cost:       it.Cost,
			AssignedTo: recipients[i%len(recipients)],
		}
	}
	return out, nil
}
