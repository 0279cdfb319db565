package domain

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrMalformedOperation is returned when a trade operation cannot be
// canonically serialized, e.g. missing asset or non-positive amounts.
// Such operations must never reach the ledger.
var ErrMalformedOperation = errors.New("malformed trade operation")

// TradeOperation is the payload recorded in a ledger block: one executed
// market order.
type TradeOperation struct {
	Side     Side            `json:"side"`
	Asset    string          `json:"asset"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Validate checks that the operation can be canonically serialized.
func (op TradeOperation) Validate() error {
	if !op.Side.IsValid() {
		return errors.Wrapf(ErrMalformedOperation, "unknown side %q", string(op.Side))
	}
	if op.Asset == "" {
		return errors.Wrap(ErrMalformedOperation, "empty asset")
	}
	if !op.Quantity.IsPositive() {
		return errors.Wrapf(ErrMalformedOperation, "non-positive quantity %s", op.Quantity.String())
	}
	if !op.Price.IsPositive() {
		return errors.Wrapf(ErrMalformedOperation, "non-positive price %s", op.Price.String())
	}
	return nil
}

// CanonicalBytes returns the deterministic serialization that feeds the
// block hash. Keys are emitted in fixed alphabetical order, so two
// operations with equal field values always serialize identically.
func (op TradeOperation) CanonicalBytes() ([]byte, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}
	s := fmt.Sprintf(`{"asset":%q,"price":%s,"quantity":%s,"side":%q}`,
		op.Asset, op.Price.String(), op.Quantity.String(), op.Side.String())
	return []byte(s), nil
}

// String returns a human-readable string representation.
func (op TradeOperation) String() string {
	return fmt.Sprintf("%s %s %s @ %s", op.Side, op.Quantity.String(), op.Asset, op.Price.String())
}
