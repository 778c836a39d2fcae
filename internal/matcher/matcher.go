// Package matcher implements price-time-priority matching: given a taker
// order and the order book it was submitted against, it consumes resting
// liquidity from the opposing ladder and emits trades.
//
// This package depends on internal/book for the ladder/price-level types;
// internal/book does not depend back on it. book.Book exposes the minimal
// mutation primitives (Ladder, Opposing, InsertResidual, Release) this
// package needs so the matching algorithm and the ladder bookkeeping stay
// in separate packages without an import cycle.
package matcher

import (
	"bourse/internal/avl"
	"bourse/internal/book"
	"bourse/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Match is the order book's match entry point: it validates the asset
// tag, runs the taker against the opposing ladder, and rests any
// non-market residual on the same side.
func Match(b *book.Book, order *domain.Order) ([]domain.Trade, error) {
	if order.Asset.Type != b.AssetType() {
		return nil, book.ErrAssetMismatch
	}
	switch order.Side {
	case domain.Buy, domain.Sell:
	default:
		return nil, book.ErrUnsupportedSide
	}

	trades := fill(b, b.Opposing(order.Side), order)

	if order.Status != domain.Filled && order.Type != domain.Market {
		b.InsertResidual(order)
	}
	return trades, nil
}

// fill dispatches on (order.Type) against the opposing ladder.
func fill(b *book.Book, opposing *avl.Tree[*book.PriceLevel], order *domain.Order) []domain.Trade {
	switch order.Type {
	case domain.Market:
		return fillMarket(b, opposing, order)
	case domain.Limit:
		return fillLimit(b, opposing, order)
	default:
		// GoodTillCancel: rests unconditionally, no matching attempted on
		// arrival.
		return nil
	}
}

// fillMarket sweeps the opposing ladder in price-priority order, ascending
// for a buy taker against asks and descending for a sell taker against
// bids, until the taker is filled or the ladder is exhausted. Implemented
// as repeated best-of-ladder extraction (Min()/Max(), deleting a level
// once it empties) rather than a recursive subtree walk: both visit price
// levels in the same priority order, and extraction stays safe to
// interleave with the ladder mutations matching performs, where a
// recursive walk concurrent with node deletion would not be.
//
// A market order that exhausts the opposing ladder without filling, or
// finds it empty to begin with, is marked Canceled. Market orders never
// rest.
func fillMarket(b *book.Book, opposing *avl.Tree[*book.PriceLevel], order *domain.Order) []domain.Trade {
	if opposing.Empty() {
		order.Status = domain.Canceled
		return nil
	}

	ascending := order.Side == domain.Buy
	var trades []domain.Trade

	for order.Remaining.GreaterThan(decimal.Zero) {
		var level *book.PriceLevel
		var ok bool
		if ascending {
			level, ok = opposing.Min()
		} else {
			level, ok = opposing.Max()
		}
		if !ok {
			break
		}

		levelTrades, emptied := fillAtLevel(b, level, order)
		trades = append(trades, levelTrades...)
		if emptied {
			opposing.Delete(level.Price())
		}
	}

	if order.Status != domain.Filled {
		order.Status = domain.Canceled
	}
	return trades
}

// fillLimit matches only the opposing price level whose price equals the
// taker's offer. See MatchCrossing for a variant that also sweeps
// better-priced levels.
func fillLimit(b *book.Book, opposing *avl.Tree[*book.PriceLevel], order *domain.Order) []domain.Trade {
	level, found := opposing.Search(order.Offer)
	if !found {
		return nil
	}
	trades, emptied := fillAtLevel(b, level, order)
	if emptied {
		opposing.Delete(level.Price())
	}
	return trades
}

// fillAtLevel walks level head-to-tail (time priority), consuming resting
// orders against the taker until either is exhausted. Executed price is
// always the resting (maker) order's offer. Reports whether level emptied.
// Every maker fully consumed here is also released from b's order-id index,
// so the index never outlives the ladder entry it points to.
func fillAtLevel(b *book.Book, level *book.PriceLevel, order *domain.Order) ([]domain.Trade, bool) {
	var trades []domain.Trade

	node := level.Head()
	for node != nil && order.Remaining.GreaterThan(decimal.Zero) {
		resting := node.Order()
		delta := resting.Remaining.Sub(order.Remaining)

		if delta.GreaterThanOrEqual(decimal.Zero) {
			// Taker fully filled, possibly leaving the maker resting.
			trades = append(trades, newTrade(order, resting, order.Remaining))

			resting.Remaining = resting.Remaining.Sub(order.Remaining)
			order.Remaining = decimal.Zero
			order.Status = domain.Filled

			if resting.Remaining.IsZero() {
				resting.Status = domain.Filled
				level.Unlink(node)
				b.Release(resting.ID)
			}
			break
		}

		// Maker fully consumed, taker continues to the next resting order.
		trades = append(trades, newTrade(order, resting, resting.Remaining))

		order.Remaining = order.Remaining.Sub(resting.Remaining)
		resting.Remaining = decimal.Zero
		resting.Status = domain.Filled
		next := node.Next()
		level.Unlink(node)
		b.Release(resting.ID)

		node = next
	}

	return trades, level.IsEmpty()
}

// MatchCrossing is an opt-in alternative to Match: it runs the same
// market-order handling, but its limit orders match every opposing price
// level that crosses their offer (ascending through asks for a buy,
// descending through bids for a sell), not only the exactly-equal level.
// Match keeps the strict same-price behavior as the default; callers
// that want conventional crossing-limit semantics instead use this.
func MatchCrossing(b *book.Book, order *domain.Order) ([]domain.Trade, error) {
	if order.Asset.Type != b.AssetType() {
		return nil, book.ErrAssetMismatch
	}
	switch order.Side {
	case domain.Buy, domain.Sell:
	default:
		return nil, book.ErrUnsupportedSide
	}

	opposing := b.Opposing(order.Side)
	var trades []domain.Trade

	if order.Type == domain.Limit {
		trades = fillLimitCrossing(b, opposing, order)
	} else {
		trades = fill(b, opposing, order)
	}

	if order.Status != domain.Filled && order.Type != domain.Market {
		b.InsertResidual(order)
	}
	return trades, nil
}

// fillLimitCrossing sweeps every opposing level that crosses order's
// offer, stopping as soon as the best remaining opposing price no longer
// crosses or the taker fills. A buy crosses an ask priced at or below its
// offer; a sell crosses a bid priced at or above its offer.
func fillLimitCrossing(b *book.Book, opposing *avl.Tree[*book.PriceLevel], order *domain.Order) []domain.Trade {
	ascending := order.Side == domain.Buy
	var trades []domain.Trade

	for order.Remaining.GreaterThan(decimal.Zero) {
		var level *book.PriceLevel
		var ok bool
		if ascending {
			level, ok = opposing.Min()
		} else {
			level, ok = opposing.Max()
		}
		if !ok {
			break
		}

		crosses := level.Price().LessThanOrEqual(order.Offer)
		if !ascending {
			crosses = level.Price().GreaterThanOrEqual(order.Offer)
		}
		if !crosses {
			break
		}

		levelTrades, emptied := fillAtLevel(b, level, order)
		trades = append(trades, levelTrades...)
		if emptied {
			opposing.Delete(level.Price())
		}
	}

	return trades
}

// newTrade builds a trade of quantity qty executed at the resting order's
// offer.
func newTrade(taker, resting *domain.Order, qty decimal.Decimal) domain.Trade {
	var buyer, seller domain.Participant
	if taker.Side == domain.Buy {
		buyer, seller = taker.Submitter, resting.Submitter
	} else {
		buyer, seller = resting.Submitter, taker.Submitter
	}
	return domain.Trade{
		Buyer:           buyer,
		Seller:          seller,
		ID:              uuid.NewString(),
		Asset:           taker.Asset,
		Quantity:        qty,
		AmountExchanged: qty.Mul(resting.Offer),
	}
}
