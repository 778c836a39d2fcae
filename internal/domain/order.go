package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Order is immutable except for Remaining and Status. Offer is the limit
// price for Limit/GoodTillCancel orders; Market orders carry it only for
// logging (it plays no role in matching).
type Order struct {
	ID        string          // unique order id
	Side      Side            // Buy or Sell
	Type      OrderType       // Market, Limit, or GoodTillCancel
	Offer     decimal.Decimal // offer to buy or sell at
	Asset     *Asset          // asset reference
	Remaining decimal.Decimal // remaining unfilled quantity
	Submitter Participant     // who placed the order
	Status    OrderStatus     // Waiting, Filled, or Canceled
}

func (o *Order) String() string {
	return fmt.Sprintf(
		"Order{ID: %s, Side: %v, Type: %v, Offer: %s, Remaining: %s, Status: %v}",
		o.ID, o.Side, o.Type, o.Offer, o.Remaining, o.Status,
	)
}
