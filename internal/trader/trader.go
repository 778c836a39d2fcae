// Package trader provides a Participant implementation and a set of
// pluggable decision strategies for the simulation driver.
package trader

import (
	"bourse/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trader holds cash and per-asset inventory, and implements
// domain.Participant so the ledger can settle trades against it directly.
type Trader struct {
	ID       uuid.UUID
	cash     decimal.Decimal
	holdings map[uuid.UUID]decimal.Decimal
	Behavior Behavior
}

// New allocates a trader with startingCash and no holdings.
func New(startingCash decimal.Decimal, behavior Behavior) *Trader {
	return &Trader{
		ID:       uuid.New(),
		cash:     startingCash,
		holdings: make(map[uuid.UUID]decimal.Decimal),
		Behavior: behavior,
	}
}

// AvailableCash implements domain.Participant.
func (t *Trader) AvailableCash() decimal.Decimal { return t.cash }

// AdjustCash implements domain.Participant.
func (t *Trader) AdjustCash(delta decimal.Decimal) { t.cash = t.cash.Add(delta) }

// Held implements domain.Participant.
func (t *Trader) Held(assetID uuid.UUID) decimal.Decimal { return t.holdings[assetID] }

// AdjustHeld implements domain.Participant. A holding that lands on zero
// is removed rather than kept at zero.
func (t *Trader) AdjustHeld(assetID uuid.UUID, delta decimal.Decimal) {
	next := t.holdings[assetID].Add(delta)
	if next.IsZero() {
		delete(t.holdings, assetID)
		return
	}
	t.holdings[assetID] = next
}

// Decide asks the trader's configured Behavior for its next order, or nil
// to sit out this tick.
func (t *Trader) Decide(asset *domain.Asset) *domain.Order {
	if t.Behavior == nil {
		return nil
	}
	return t.Behavior.Decide(t, asset)
}

// Behavior produces the next order a Trader wants to submit for asset, or
// nil to abstain this tick.
type Behavior interface {
	Decide(t *Trader, asset *domain.Asset) *domain.Order
}

func newOrder(side domain.Side, typ domain.OrderType, offer, quantity decimal.Decimal, asset *domain.Asset, t *Trader) *domain.Order {
	return &domain.Order{
		ID:        uuid.NewString(),
		Side:      side,
		Type:      typ,
		Offer:     offer,
		Asset:     asset,
		Remaining: quantity,
		Submitter: t,
		Status:    domain.Waiting,
	}
}
