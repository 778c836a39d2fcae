// Command bourse runs a single-asset market simulation: a population of
// traders with randomly assigned behaviors submit orders against one
// order book for a fixed number of ticks.
package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"os/signal"
	"syscall"

	"bourse/internal/domain"
	"bourse/internal/ledger"
	"bourse/internal/sim"
	"bourse/internal/trader"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	agents := flag.Int("agents", 200, "number of traders to simulate")
	steps := flag.Int("steps", 100, "number of simulation ticks to run")
	startPrice := flag.Int64("price", 150, "starting asset price")
	assetType := flag.String("asset", "stock", "asset classification tag")
	flag.Parse()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	asset := domain.NewAsset(*assetType, decimal.NewFromInt(*startPrice), decimal.NewFromInt(1000))

	market := ledger.NewMarket()
	market.AddAsset(asset)

	traders := setupTraders(*agents, asset)

	driver := sim.New(market, asset, traders, *steps)

	log.Info().
		Int("agents", len(traders)).
		Int("steps", *steps).
		Str("asset", asset.Type).
		Msg("starting simulation")

	if err := driver.Run(ctx); err != nil {
		log.Error().Err(err).Msg("simulation ended with error")
	}

	log.Info().
		Int("trades", len(market.History)).
		Str("lastPrice", asset.LastPrice.String()).
		Msg("simulation finished")
}

// setupTraders allocates n traders with randomly funded cash, occasional
// starting inventory, and a behavior drawn uniformly from the three
// built-in strategies.
func setupTraders(n int, asset *domain.Asset) []*trader.Trader {
	traders := make([]*trader.Trader, n)
	for i := range traders {
		cash := decimal.NewFromInt(int64(50_000 + rand.IntN(100_000)))
		t := trader.New(cash, randomBehavior())
		if rand.Float64() < 0.3 {
			t.AdjustHeld(asset.ID, decimal.NewFromInt(int64(rand.IntN(100))))
		}
		traders[i] = t
	}
	return traders
}

func randomBehavior() trader.Behavior {
	switch rand.IntN(3) {
	case 0:
		return trader.RandomTrader{}
	case 1:
		return trader.NewMarketMaker()
	default:
		return trader.NewMomentumTrader()
	}
}
