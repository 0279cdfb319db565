package trader

import (
	"context"
	"strconv"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/vigia/internal/domain"
)

// BinanceTrader submits spot market orders and reads account balances via
// the authenticated Binance REST API. Request signing over the canonical
// query string is handled by the SDK.
type BinanceTrader struct {
	client *binance.Client
	pair   domain.Pair
}

func NewBinanceTrader(client *binance.Client, pair domain.Pair) *BinanceTrader {
	return &BinanceTrader{client: client, pair: pair}
}

// Balances returns every non-zero spot balance, free plus locked.
func (t *BinanceTrader) Balances(ctx context.Context) (map[string]decimal.Decimal, error) {
	account, err := t.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get binance account")
	}

	out := make(map[string]decimal.Decimal)
	for _, balance := range account.Balances {
		free, err := decimal.NewFromString(balance.Free)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse free balance for %s", balance.Asset)
		}
		locked, err := decimal.NewFromString(balance.Locked)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse locked balance for %s", balance.Asset)
		}
		total := free.Add(locked)
		if total.IsPositive() {
			out[balance.Asset] = total
		}
	}
	return out, nil
}

// PlaceMarketOrder submits a spot market order for the configured pair.
func (t *BinanceTrader) PlaceMarketOrder(ctx context.Context, side domain.Side, quantity decimal.Decimal) (*domain.OrderResult, error) {
	binanceSide := binance.SideTypeBuy
	if side == domain.SideSell {
		binanceSide = binance.SideTypeSell
	}

	clientOrderID := newClientOrderID()
	res, err := t.client.NewCreateOrderService().Symbol(t.pair.Symbol()).
		Side(binanceSide).Type(binance.OrderTypeMarket).
		Quantity(domain.NormalizeQuantity(quantity).String()).
		NewClientOrderID(clientOrderID).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s order", side)
	}

	executed, err := decimal.NewFromString(res.ExecutedQuantity)
	if err != nil {
		executed = decimal.Zero
	}

	return &domain.OrderResult{
		OrderID:       strconv.FormatInt(res.OrderID, 10),
		ClientOrderID: clientOrderID,
		Symbol:        res.Symbol,
		Side:          side,
		Status:        string(res.Status),
		ExecutedQty:   executed,
	}, nil
}
