// Package sim drives the simulation loop: each tick, every trader is
// asked for its next order, non-nil orders are submitted to the market,
// and the tick's summary is logged.
package sim

import (
	"context"
	"errors"

	"bourse/internal/domain"
	"bourse/internal/ledger"
	"bourse/internal/trader"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// Driver owns the market, the asset it trades, and the population of
// traders acting on it. It runs its tick loop on a single supervised
// goroutine: the matching engine is not safe for concurrent writers, so
// ticks execute strictly one after another.
type Driver struct {
	market  *ledger.Market
	asset   *domain.Asset
	traders []*trader.Trader
	steps   int

	cancel context.CancelFunc
}

// New returns a Driver that runs steps ticks of traders against asset in
// market.
func New(market *ledger.Market, asset *domain.Asset, traders []*trader.Trader, steps int) *Driver {
	return &Driver{market: market, asset: asset, traders: traders, steps: steps}
}

// Shutdown cancels the driver's run, if one is in progress.
func (d *Driver) Shutdown() {
	if d.cancel != nil {
		d.cancel()
	}
}

// Run executes the configured number of ticks, or stops early if ctx is
// canceled. It blocks until the run finishes or the context ends. A stop
// caused by cancellation is not an error: Run then returns nil.
func (d *Driver) Run(ctx context.Context) error {
	defer d.Shutdown()

	ctx, d.cancel = context.WithCancel(ctx)
	t, ctx := tomb.WithContext(ctx)

	t.Go(func() error {
		for step := 0; step < d.steps; step++ {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			d.tick(step)
		}
		return nil
	})

	<-t.Dying()
	if err := t.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// tick asks every trader for its next order and submits the non-nil ones,
// in trader order, then logs a summary.
func (d *Driver) tick(step int) {
	for _, tr := range d.traders {
		order := tr.Decide(d.asset)
		if order == nil {
			continue
		}
		if _, err := d.market.Submit(d.asset.ID, order); err != nil {
			log.Error().Err(err).Str("orderID", order.ID).Msg("order submission failed")
		}
	}

	b, ok := d.market.Book(d.asset.ID)
	if !ok {
		return
	}

	event := log.Info().Int("step", step).Str("lastPrice", d.asset.LastPrice.String())
	if bid, ok := b.BestBid(); ok {
		event = event.Str("bestBid", bid.Price().String())
	}
	if ask, ok := b.BestAsk(); ok {
		event = event.Str("bestAsk", ask.Price().String())
	}
	event.Msg("tick complete")
}
