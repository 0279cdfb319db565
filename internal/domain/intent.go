package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TradeIntent is a proposed market order produced by the decision policy,
// before it has been submitted to the exchange.
type TradeIntent struct {
	Side     Side
	Asset    string
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// Operation converts the intent into the ledger payload recorded after a
// confirmed submission.
func (i *TradeIntent) Operation() TradeOperation {
	return TradeOperation{
		Side:     i.Side,
		Asset:    i.Asset,
		Quantity: i.Quantity,
		Price:    i.Price,
	}
}

// String returns a human-readable string representation.
func (i *TradeIntent) String() string {
	return fmt.Sprintf("%s %s %s @ %s", i.Side, i.Quantity.String(), i.Asset, i.Price.String())
}
