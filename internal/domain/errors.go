package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DataIntegrityError reports an observed balance that violates basic
// integrity rules (negative amount). The offending update is rejected and
// the previously stored value is retained.
type DataIntegrityError struct {
	Key    string
	Amount decimal.Decimal
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("integrity violation for %s: observed amount %s", e.Key, e.Amount.String())
}

// SubmissionError wraps an order rejected by the exchange. No ledger block
// is written for a failed submission.
type SubmissionError struct {
	Side Side
	Err  error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s order submission failed: %v", e.Side, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
