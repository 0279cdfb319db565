package trader

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/vigia/internal/domain"
)

// Trader is the authenticated exchange surface the monitor depends on:
// account balances and market order submission.
type Trader interface {
	// Balances returns every non-zero account balance (free + locked).
	Balances(ctx context.Context) (map[string]decimal.Decimal, error)
	// PlaceMarketOrder submits a market order and returns the exchange
	// confirmation. An error means nothing was submitted.
	PlaceMarketOrder(ctx context.Context, side domain.Side, quantity decimal.Decimal) (*domain.OrderResult, error)
}
