package trader

import (
	"math/rand/v2"

	"bourse/internal/domain"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// RandomTrader submits an occasional random-walk limit order: 30% of
// ticks it picks a side, a quantity in [1,10], and a price within 2 of
// the asset's last trade, floored at 1.
type RandomTrader struct{}

func (RandomTrader) Decide(t *Trader, asset *domain.Asset) *domain.Order {
	if rand.Float64() < 0.7 {
		return nil
	}

	side := domain.Buy
	if rand.IntN(2) == 1 {
		side = domain.Sell
	}
	quantity := decimal.NewFromInt(int64(1 + rand.IntN(10)))
	jitter := decimal.NewFromInt(int64(rand.IntN(5) - 2))
	price := asset.LastPrice.Add(jitter)

	if side == domain.Buy && t.AvailableCash().LessThan(price.Mul(quantity)) {
		return nil
	}

	offer := decimal.Max(price, one)
	return newOrder(side, domain.Limit, offer, quantity, asset, t)
}

// MarketMaker quotes both sides of the book around the asset's last
// price, picking at random which side it posts each tick.
type MarketMaker struct {
	Spread decimal.Decimal
	Size   decimal.Decimal
}

// NewMarketMaker returns a MarketMaker with a default spread of 2 and
// clip size of 5.
func NewMarketMaker() MarketMaker {
	return MarketMaker{Spread: decimal.NewFromInt(2), Size: decimal.NewFromInt(5)}
}

func (m MarketMaker) Decide(t *Trader, asset *domain.Asset) *domain.Order {
	half := m.Spread.Div(decimal.NewFromInt(2))
	buyPrice := asset.LastPrice.Sub(half)
	sellPrice := asset.LastPrice.Add(half)

	side := domain.Buy
	price := buyPrice
	if rand.Float64() >= 0.5 {
		side = domain.Sell
		price = sellPrice
	}

	return newOrder(side, domain.Limit, price, m.Size, asset, t)
}

// MomentumTrader watches the asset's last price over a bounded window and
// submits a market order in the direction of the observed momentum once
// its magnitude reaches threshold. Each instance tracks its own window; it is not
// safe for concurrent use.
type MomentumTrader struct {
	Memory    int
	Threshold decimal.Decimal

	prices []decimal.Decimal
}

// NewMomentumTrader returns a MomentumTrader with a default 5-tick memory
// and threshold of 1.
func NewMomentumTrader() *MomentumTrader {
	return &MomentumTrader{Memory: 5, Threshold: one}
}

func (m *MomentumTrader) Decide(t *Trader, asset *domain.Asset) *domain.Order {
	m.prices = append(m.prices, asset.LastPrice)
	if len(m.prices) > m.Memory {
		m.prices = m.prices[len(m.prices)-m.Memory:]
	}
	if len(m.prices) < 2 {
		return nil
	}

	momentum := m.prices[len(m.prices)-1].Sub(m.prices[0])
	if momentum.Abs().LessThan(m.Threshold) {
		return nil
	}

	side := domain.Sell
	if momentum.GreaterThan(decimal.Zero) {
		side = domain.Buy
	}
	quantity := decimal.NewFromInt(int64(1 + rand.IntN(5)))

	return newOrder(side, domain.Market, asset.LastPrice, quantity, asset, t)
}
