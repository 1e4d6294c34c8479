package models

import "github.com/shopspring/decimal"

func init() {
	// costs travel as JSON numbers, matching the mobile client
	decimal.MarshalJSONWithoutQuotes = true
}

// LineItem is one purchasable line recovered from a receipt.
type LineItem struct {
	Name string          `json:"item"`
	Cost decimal.Decimal `json:"cost"`
}

// AssignedItem is a LineItem bound to the recipient who owes it.
type AssignedItem struct {
	Name       string          `json:"item"`
	Cost       decimal.Decimal `json:"cost"`
	AssignedTo string          `json:"assigned_to"`
}
