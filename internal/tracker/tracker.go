// Package tracker holds the latest observed exchange and on-chain balances.
// It is the single shared mutable store between the polling cycle (writer)
// and the web layer (readers).
package tracker

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/vadiminshakov/vigia/internal/domain"
)

// Tracker keeps the current spot and on-chain snapshots plus the
// quote-currency valuations computed for the last cycle. All methods are
// safe for concurrent use.
type Tracker struct {
	mu         sync.RWMutex
	spot       map[string]decimal.Decimal
	onchain    map[string]decimal.Decimal
	valuations map[string]domain.AssetValue
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{
		spot:       make(map[string]decimal.Decimal),
		onchain:    make(map[string]decimal.Decimal),
		valuations: make(map[string]domain.AssetValue),
	}
}

// UpdateSpot overwrites the stored amount for every asset in balances and
// returns per-asset deltas against the previous observation (zero for the
// first one). A negative amount rejects only the offending entry: the prior
// value is retained and a DataIntegrityError is collected for every rejected
// asset, while valid entries are still applied.
func (t *Tracker) UpdateSpot(balances map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	deltas := make(map[string]decimal.Decimal, len(balances))
	var err error
	for asset, amount := range balances {
		if amount.IsNegative() {
			err = multierr.Append(err, errors.WithStack(&domain.DataIntegrityError{Key: asset, Amount: amount}))
			continue
		}
		deltas[asset] = amount.Sub(t.spot[asset])
		t.spot[asset] = amount
	}
	return deltas, err
}

// UpdateOnchain overwrites the stored amount for one address and returns the
// delta against the previous observation.
func (t *Tracker) UpdateOnchain(address string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, errors.WithStack(&domain.DataIntegrityError{Key: address, Amount: amount})
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	delta := amount.Sub(t.onchain[address])
	t.onchain[address] = amount
	return delta, nil
}

// SetValuation records the quote-currency valuation for one asset.
func (t *Tracker) SetValuation(asset string, value domain.AssetValue) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.valuations[asset] = value
}

// SpotSnapshot returns a copy of the current spot balances.
func (t *Tracker) SpotSnapshot() map[string]decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return copyMap(t.spot)
}

// OnchainSnapshot returns a copy of the current on-chain balances.
func (t *Tracker) OnchainSnapshot() map[string]decimal.Decimal {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return copyMap(t.onchain)
}

// Valuations returns a copy of the per-asset quote valuations.
func (t *Tracker) Valuations() map[string]domain.AssetValue {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]domain.AssetValue, len(t.valuations))
	for k, v := range t.valuations {
		out[k] = v
	}
	return out
}

func copyMap(in map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
