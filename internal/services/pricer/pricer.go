package pricer

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/vigia/internal/domain"
)

// Pricer returns the last traded price for a pair.
type Pricer interface {
	GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error)
}
