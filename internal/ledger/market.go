// Package ledger implements the settlement layer: a Market owns one book
// per asset, checks a submitter's solvency/inventory before forwarding an
// order to the matcher, and settles whatever trades come back (cash and
// holdings transfer, last-price update, history append).
package ledger

import (
	"errors"

	"bourse/internal/book"
	"bourse/internal/domain"
	"bourse/internal/matcher"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrUnknownAsset is returned when Submit names an asset the market has no
// book for.
var ErrUnknownAsset = errors.New("ledger: unknown asset")

// Market is the collaborator boundary between trading participants and
// the matching engine: one book per asset, plus settled-trade history in
// emission order.
type Market struct {
	assets  map[uuid.UUID]*domain.Asset
	books   map[uuid.UUID]*book.Book
	History []domain.Trade
}

// NewMarket returns an empty market with no assets listed.
func NewMarket() *Market {
	return &Market{
		assets: make(map[uuid.UUID]*domain.Asset),
		books:  make(map[uuid.UUID]*book.Book),
	}
}

// AddAsset registers asset and allocates its order book.
func (m *Market) AddAsset(asset *domain.Asset) {
	m.assets[asset.ID] = asset
	m.books[asset.ID] = book.New(asset.Type)
}

// Asset looks up a registered asset by id.
func (m *Market) Asset(assetID uuid.UUID) (*domain.Asset, bool) {
	a, ok := m.assets[assetID]
	return a, ok
}

// Book returns the order book backing asset, if registered.
func (m *Market) Book(assetID uuid.UUID) (*book.Book, bool) {
	b, ok := m.books[assetID]
	return b, ok
}

// Submit is the single entry point for both buy and sell orders: it
// checks the submitter can cover the order, forwards it to the matcher,
// settles any resulting trades, and returns the order's final status.
//
// A buy is rejected before reaching the book if the submitter's cash
// cannot cover quantity at the asset's last traded price; a sell is
// rejected if the submitter does not hold enough of the asset. Pricing
// the check against the asset's last trade rather than the order's own
// offer means an order can still rest or fail to fill at a different
// price once it reaches the book.
func (m *Market) Submit(assetID uuid.UUID, order *domain.Order) (domain.OrderStatus, error) {
	asset, ok := m.assets[assetID]
	if !ok {
		return domain.Canceled, ErrUnknownAsset
	}
	b := m.books[assetID]

	if !m.solvent(asset, order) {
		order.Status = domain.Canceled
		return domain.Canceled, nil
	}

	trades, err := matcher.Match(b, order)
	if err != nil {
		return domain.Canceled, err
	}
	m.ProcessTrades(trades)

	return order.Status, nil
}

func (m *Market) solvent(asset *domain.Asset, order *domain.Order) bool {
	switch order.Side {
	case domain.Buy:
		cost := asset.LastPrice.Mul(order.Remaining)
		return cost.LessThanOrEqual(order.Submitter.AvailableCash())
	case domain.Sell:
		return order.Submitter.Held(asset.ID).GreaterThanOrEqual(order.Remaining)
	default:
		return false
	}
}

// ProcessTrades settles each trade in order: cash and holdings move
// between buyer and seller, the traded asset's last price updates, and
// the trade is appended to history.
func (m *Market) ProcessTrades(trades []domain.Trade) {
	for _, trade := range trades {
		trade.Buyer.AdjustCash(trade.AmountExchanged.Neg())
		trade.Seller.AdjustCash(trade.AmountExchanged)

		trade.Buyer.AdjustHeld(trade.Asset.ID, trade.Quantity)
		trade.Seller.AdjustHeld(trade.Asset.ID, trade.Quantity.Neg())

		price := decimal.Zero
		if trade.Quantity.GreaterThan(decimal.Zero) {
			price = decimal.Max(decimal.Zero, trade.AmountExchanged.Div(trade.Quantity))
		}
		trade.Asset.UpdatePrice(price)

		m.History = append(m.History, trade)
	}
}
