package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Trade records a single match. Immutable after emission. Quantity and
// AmountExchanged are priced at the resting (maker) order's offer.
type Trade struct {
	Buyer           Participant
	Seller          Participant
	ID              string
	Asset           *Asset
	Quantity        decimal.Decimal
	AmountExchanged decimal.Decimal
}

func (t *Trade) String() string {
	return fmt.Sprintf(
		"Trade{ID: %s, Asset: %s, Quantity: %s, Amount: %s}",
		t.ID, t.Asset.Type, t.Quantity, t.AmountExchanged,
	)
}
