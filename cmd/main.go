// Command vigia monitors exchange and on-chain BTC balances, trades on a
// threshold policy and records executed orders in a hash-chained audit
// ledger exposed over HTTP.
//
// Usage:
//
//	vigia --config config.yaml
//	vigia (uses CLI arguments)
//
// Required environment variables:
//
//	For Binance: BINANCE_API_KEY, BINANCE_API_SECRET
//	For Bybit: BYBIT_API_KEY, BYBIT_API_SECRET
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/vigia/config"
	"github.com/vadiminshakov/vigia/internal"
	"github.com/vadiminshakov/vigia/internal/clients"
	"github.com/vadiminshakov/vigia/internal/ledger"
	"github.com/vadiminshakov/vigia/internal/monitor"
	"github.com/vadiminshakov/vigia/internal/services/decision"
	"github.com/vadiminshakov/vigia/internal/services/explorer"
	"github.com/vadiminshakov/vigia/internal/storage/snapshots"
	"github.com/vadiminshakov/vigia/internal/tracker"
	"github.com/vadiminshakov/vigia/internal/web"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	var client any
	switch cfg.Platform {
	case "binance":
		apiKey := os.Getenv("BINANCE_API_KEY")
		apiSecret := os.Getenv("BINANCE_API_SECRET")
		if apiKey == "" || apiSecret == "" {
			log.Fatal("BINANCE_API_KEY and BINANCE_API_SECRET environment variables must be set")
		}
		client = clients.NewBinanceClient(apiKey, apiSecret)
	case "bybit":
		apiKey := os.Getenv("BYBIT_API_KEY")
		apiSecret := os.Getenv("BYBIT_API_SECRET")
		if apiKey == "" || apiSecret == "" {
			log.Fatal("BYBIT_API_KEY and BYBIT_API_SECRET environment variables must be set")
		}
		client = clients.NewBybitClient(apiKey, apiSecret)
	default:
		log.Fatal("unsupported platform")
	}

	traderSvc, pricerSvc, err := internal.CreateTraderAndPricer(client, cfg.Pair)
	if err != nil {
		log.Fatal(err)
	}

	snapshotStore, err := snapshots.NewWALStore(cfg.SnapshotDir)
	if err != nil {
		log.Fatal(err)
	}
	defer snapshotStore.Close()

	tradeLedger := ledger.New()
	balanceTracker := tracker.New()

	policy := decision.Policy{
		Pair:            cfg.Pair,
		BuyThreshold:    cfg.BuyThreshold,
		SellThreshold:   cfg.SellThreshold,
		MinQuoteBalance: cfg.MinQuoteBalance,
		MinBaseBalance:  cfg.MinBaseBalance,
	}

	mon := monitor.New(
		cfg.Pair,
		cfg.PollInterval,
		cfg.Addresses,
		policy,
		traderSvc,
		pricerSvc,
		explorer.New(),
		balanceTracker,
		tradeLedger,
		snapshotStore,
		logger,
	)

	srv := web.NewServer(
		cfg.ListenAddr,
		cfg.Pair,
		balanceTracker,
		tradeLedger,
		traderSvc,
		pricerSvc,
		snapshotStore,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mon.Run(gctx)
	})
	g.Go(func() error {
		return srv.Start(gctx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("shutdown with error", zap.Error(err))
	}
}
