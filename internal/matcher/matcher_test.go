package matcher

import (
	"testing"

	"bourse/internal/book"
	"bourse/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParticipant struct{ name string }

func (fakeParticipant) AvailableCash() decimal.Decimal        { return decimal.Zero }
func (fakeParticipant) AdjustCash(decimal.Decimal)            {}
func (fakeParticipant) Held(uuid.UUID) decimal.Decimal        { return decimal.Zero }
func (fakeParticipant) AdjustHeld(uuid.UUID, decimal.Decimal) {}

var testAsset = domain.NewAsset("equity", decimal.NewFromInt(100), decimal.NewFromInt(1000))

func order(id string, side domain.Side, typ domain.OrderType, price, qty int64) *domain.Order {
	return &domain.Order{
		ID:        id,
		Side:      side,
		Type:      typ,
		Offer:     decimal.NewFromInt(price),
		Asset:     testAsset,
		Remaining: decimal.NewFromInt(qty),
		Submitter: fakeParticipant{name: id},
		Status:    domain.Waiting,
	}
}

func restOn(t *testing.T, b *book.Book, o *domain.Order) {
	t.Helper()
	require.NoError(t, b.Insert(o))
}

// Simple cross: a resting ask meets an equal-price, equal-quantity limit bid.
func TestMatchSimpleCross(t *testing.T) {
	b := book.New("equity")
	ask := order("ask1", domain.Sell, domain.Limit, 100, 10)
	restOn(t, b, ask)

	bid := order("bid1", domain.Buy, domain.Limit, 100, 10)
	trades, err := Match(b, bid)
	require.NoError(t, err)

	require.Len(t, trades, 1)
	assert.True(t, trades[0].Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, trades[0].AmountExchanged.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, domain.Filled, bid.Status)
	assert.Equal(t, domain.Filled, ask.Status)

	_, found := b.GetOrder("ask1")
	assert.False(t, found, "fully filled maker must be unlinked")
}

// Partial fill: taker larger than the resting maker leaves taker residual
// resting on its own side.
func TestMatchPartialFillTakerResiduals(t *testing.T) {
	b := book.New("equity")
	restOn(t, b, order("ask1", domain.Sell, domain.Limit, 100, 4))

	bid := order("bid1", domain.Buy, domain.Limit, 100, 10)
	trades, err := Match(b, bid)
	require.NoError(t, err)

	require.Len(t, trades, 1)
	assert.True(t, trades[0].Quantity.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, domain.Waiting, bid.Status)
	assert.True(t, bid.Remaining.Equal(decimal.NewFromInt(6)))

	resting, found := b.GetOrder("bid1")
	require.True(t, found, "unfilled limit residual must rest")
	assert.True(t, resting.Remaining.Equal(decimal.NewFromInt(6)))
}

// Partial fill: maker larger than taker leaves the maker resting with
// reduced quantity, and the taker fully filled.
func TestMatchPartialFillMakerResiduals(t *testing.T) {
	b := book.New("equity")
	restOn(t, b, order("ask1", domain.Sell, domain.Limit, 100, 10))

	bid := order("bid1", domain.Buy, domain.Limit, 100, 4)
	trades, err := Match(b, bid)
	require.NoError(t, err)

	require.Len(t, trades, 1)
	assert.Equal(t, domain.Filled, bid.Status)

	resting, found := b.GetOrder("ask1")
	require.True(t, found)
	assert.True(t, resting.Remaining.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, domain.Waiting, resting.Status)
}

// Time priority: two resting asks at the same price, older one fills first.
func TestMatchTimePriorityAtSameLevel(t *testing.T) {
	b := book.New("equity")
	first := order("ask1", domain.Sell, domain.Limit, 100, 5)
	second := order("ask2", domain.Sell, domain.Limit, 100, 5)
	restOn(t, b, first)
	restOn(t, b, second)

	bid := order("bid1", domain.Buy, domain.Market, 0, 5)
	trades, err := Match(b, bid)
	require.NoError(t, err)

	require.Len(t, trades, 1)
	assert.Equal(t, first.Submitter, trades[0].Seller)
	assert.Equal(t, domain.Filled, first.Status)
	assert.Equal(t, domain.Waiting, second.Status)
}

// Market orders sweep multiple price levels in price priority until filled.
func TestMatchMarketSweepsMultipleLevels(t *testing.T) {
	b := book.New("equity")
	restOn(t, b, order("ask-cheap", domain.Sell, domain.Limit, 100, 5))
	restOn(t, b, order("ask-mid", domain.Sell, domain.Limit, 101, 5))
	restOn(t, b, order("ask-high", domain.Sell, domain.Limit, 102, 5))

	bid := order("bid1", domain.Buy, domain.Market, 0, 12)
	trades, err := Match(b, bid)
	require.NoError(t, err)

	require.Len(t, trades, 3)
	assert.Equal(t, domain.Filled, bid.Status)
	assert.True(t, bid.Remaining.IsZero())

	// Cheapest level fully consumed and removed from the ladder.
	_, found := b.GetOrder("ask-cheap")
	assert.False(t, found)
	// Dearest level partially consumed, 3 units remain.
	remaining, found := b.GetOrder("ask-high")
	require.True(t, found)
	assert.True(t, remaining.Remaining.Equal(decimal.NewFromInt(3)))
}

// A market order against an empty book is canceled, not rested.
func TestMatchMarketOnEmptyBookCancels(t *testing.T) {
	b := book.New("equity")
	bid := order("bid1", domain.Buy, domain.Market, 0, 5)

	trades, err := Match(b, bid)
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Equal(t, domain.Canceled, bid.Status)

	_, found := b.GetOrder("bid1")
	assert.False(t, found, "market orders never rest")
}

// A market order that exhausts the ladder without fully filling cancels
// its unfilled residual rather than resting it.
func TestMatchMarketExhaustsLadderCancelsResidual(t *testing.T) {
	b := book.New("equity")
	restOn(t, b, order("ask1", domain.Sell, domain.Limit, 100, 3))

	bid := order("bid1", domain.Buy, domain.Market, 0, 10)
	trades, err := Match(b, bid)
	require.NoError(t, err)

	require.Len(t, trades, 1)
	assert.Equal(t, domain.Canceled, bid.Status)
	assert.True(t, bid.Remaining.Equal(decimal.NewFromInt(7)))

	_, found := b.GetOrder("bid1")
	assert.False(t, found)
}

// A limit order only matches the exact opposing price, never an
// inferior-but-crossing one.
func TestMatchLimitOnlyMatchesExactPrice(t *testing.T) {
	b := book.New("equity")
	restOn(t, b, order("ask1", domain.Sell, domain.Limit, 105, 5))

	bid := order("bid1", domain.Buy, domain.Limit, 110, 5)
	trades, err := Match(b, bid)
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Equal(t, domain.Waiting, bid.Status)

	_, found := b.GetOrder("bid1")
	assert.True(t, found, "unmatched limit order rests")
}

// GoodTillCancel orders rest unconditionally without attempting to match,
// even when a crossing level exists on arrival.
func TestMatchGoodTillCancelRestsWithoutMatching(t *testing.T) {
	b := book.New("equity")
	restOn(t, b, order("ask1", domain.Sell, domain.Limit, 100, 5))

	gtc := order("bid1", domain.Buy, domain.GoodTillCancel, 100, 5)
	trades, err := Match(b, gtc)
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Equal(t, domain.Waiting, gtc.Status)

	_, found := b.GetOrder("bid1")
	assert.True(t, found)
}

// An emptied price level disappears from the ladder immediately as part
// of matching, not only when explicitly canceled.
func TestMatchRemovesEmptiedLevelFromLadder(t *testing.T) {
	b := book.New("equity")
	restOn(t, b, order("ask1", domain.Sell, domain.Limit, 100, 5))

	bid := order("bid1", domain.Buy, domain.Limit, 100, 5)
	_, err := Match(b, bid)
	require.NoError(t, err)

	_, found := b.BestAsk()
	assert.False(t, found, "emptied level must be removed from the ask ladder")
}

// MatchCrossing sweeps every opposing level priced at or better than the
// taker's offer, unlike the default Match which only matches the exact
// price.
func TestMatchCrossingSweepsBetterPricedLevels(t *testing.T) {
	b := book.New("equity")
	restOn(t, b, order("ask1", domain.Sell, domain.Limit, 98, 5))
	restOn(t, b, order("ask2", domain.Sell, domain.Limit, 99, 5))
	restOn(t, b, order("ask3", domain.Sell, domain.Limit, 105, 5))

	bid := order("bid1", domain.Buy, domain.Limit, 100, 10)
	trades, err := MatchCrossing(b, bid)
	require.NoError(t, err)

	require.Len(t, trades, 2)
	assert.Equal(t, domain.Filled, bid.Status)

	_, found := b.GetOrder("ask3")
	assert.True(t, found, "level priced worse than the offer must not be swept")
}

func TestMatchCrossingLeavesExactPriceBehaviorForNonCrossing(t *testing.T) {
	b := book.New("equity")
	restOn(t, b, order("ask1", domain.Sell, domain.Limit, 105, 5))

	bid := order("bid1", domain.Buy, domain.Limit, 100, 5)
	trades, err := MatchCrossing(b, bid)
	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Equal(t, domain.Waiting, bid.Status)
}

func TestMatchRejectsAssetMismatch(t *testing.T) {
	b := book.New("equity")
	bid := order("bid1", domain.Buy, domain.Limit, 100, 5)
	bid.Asset = domain.NewAsset("bond", decimal.NewFromInt(1), decimal.NewFromInt(1))

	_, err := Match(b, bid)
	assert.ErrorIs(t, err, book.ErrAssetMismatch)
}
