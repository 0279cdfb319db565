package domain

import "github.com/shopspring/decimal"

// QuantityPrecision is the number of decimal places market orders are
// submitted with.
const QuantityPrecision = 5

// NormalizeQuantity floors a quantity to the order precision. Callers
// normalize before submission so the ledger records exactly what was sent
// to the exchange.
func NormalizeQuantity(q decimal.Decimal) decimal.Decimal {
	return q.RoundFloor(QuantityPrecision)
}
