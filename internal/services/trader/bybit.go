package trader

import (
	"context"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/vigia/internal/domain"
)

// BybitTrader submits spot market orders and reads wallet balances via the
// Bybit V5 API.
type BybitTrader struct {
	client *bybit.Client
	pair   domain.Pair
}

func NewBybitTrader(client *bybit.Client, pair domain.Pair) *BybitTrader {
	return &BybitTrader{client: client, pair: pair}
}

// Balances returns every non-zero coin balance of the unified account.
func (t *BybitTrader) Balances(ctx context.Context) (map[string]decimal.Decimal, error) {
	res, err := t.client.V5().Account().GetWalletBalance(bybit.AccountTypeV5("UNIFIED"), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get bybit wallet balance")
	}

	out := make(map[string]decimal.Decimal)
	for _, account := range res.Result.List {
		for _, coin := range account.Coin {
			amount, err := decimal.NewFromString(coin.WalletBalance)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse wallet balance for %s", coin.Coin)
			}
			if amount.IsPositive() {
				out[string(coin.Coin)] = amount
			}
		}
	}
	return out, nil
}

// PlaceMarketOrder submits a spot market order for the configured pair.
func (t *BybitTrader) PlaceMarketOrder(_ context.Context, side domain.Side, quantity decimal.Decimal) (*domain.OrderResult, error) {
	bybitSide := bybit.SideBuy
	if side == domain.SideSell {
		bybitSide = bybit.SideSell
	}

	clientOrderID := newClientOrderID()
	res, err := t.client.V5().Order().CreateOrder(bybit.V5CreateOrderParam{
		Category:    "spot",
		Symbol:      bybit.SymbolV5(t.pair.Symbol()),
		Side:        bybitSide,
		OrderType:   bybit.OrderTypeMarket,
		Qty:         domain.NormalizeQuantity(quantity).String(),
		OrderLinkID: &clientOrderID,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s order", side)
	}

	return &domain.OrderResult{
		OrderID:       res.Result.OrderID,
		ClientOrderID: clientOrderID,
		Symbol:        t.pair.Symbol(),
		Side:          side,
		Status:        "NEW",
	}, nil
}
