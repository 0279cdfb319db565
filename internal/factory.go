package internal

import (
	"fmt"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"

	"github.com/vadiminshakov/vigia/internal/domain"
	"github.com/vadiminshakov/vigia/internal/services/pricer"
	"github.com/vadiminshakov/vigia/internal/services/trader"
)

// CreateTraderAndPricer dispatches to the platform-specific trader and
// pricer implementations based on the client type. This is the single point
// of truth for platform selection.
func CreateTraderAndPricer(client any, pair domain.Pair) (trader.Trader, pricer.Pricer, error) {
	switch c := client.(type) {
	case *binance.Client:
		return trader.NewBinanceTrader(c, pair), pricer.NewBinancePricer(c), nil
	case *bybit.Client:
		return trader.NewBybitTrader(c, pair), pricer.NewBybitPricer(c), nil
	default:
		return nil, nil, fmt.Errorf("unsupported client type: %T", client)
	}
}
