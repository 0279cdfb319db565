package domain

import "github.com/shopspring/decimal"

// OrderResult is the confirmation returned by an exchange for a submitted
// market order. Only the fields the monitor reads are kept; the rest of the
// exchange response is treated as opaque.
type OrderResult struct {
	OrderID       string          `json:"order_id"`
	ClientOrderID string          `json:"client_order_id,omitempty"`
	Symbol        string          `json:"symbol"`
	Side          Side            `json:"side"`
	Status        string          `json:"status"`
	ExecutedQty   decimal.Decimal `json:"executed_qty"`
}
