package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetValue is a spot balance together with its quote-currency valuation.
// Unpriced marks balances whose price lookup failed, so a missing price is
// distinguishable from an asset actually worth zero.
type AssetValue struct {
	Amount     decimal.Decimal `json:"amount"`
	QuoteValue decimal.Decimal `json:"quote_value"`
	Unpriced   bool            `json:"unpriced,omitempty"`
}

// PollSnapshot is the state observed by one polling cycle. Snapshots are
// persisted to the WAL for the SSE stream and UI consumers.
type PollSnapshot struct {
	Timestamp time.Time                  `json:"ts"`
	Spot      map[string]AssetValue      `json:"spot"`
	Onchain   map[string]decimal.Decimal `json:"onchain"`
}

// PollSnapshotRecord bundles a snapshot with the log index it originated from.
type PollSnapshotRecord struct {
	Index    uint64
	Snapshot PollSnapshot
}
