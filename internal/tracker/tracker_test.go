package tracker

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/vadiminshakov/vigia/internal/domain"
)

func TestUpdateSpotDeltas(t *testing.T) {
	tr := New()

	deltas, err := tr.UpdateSpot(map[string]decimal.Decimal{
		"BTC": decimal.NewFromFloat(0.5),
		"BRL": decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	require.True(t, deltas["BTC"].Equal(decimal.NewFromFloat(0.5)), "first observation delta equals the amount")
	require.True(t, deltas["BRL"].Equal(decimal.NewFromInt(1000)))

	deltas, err = tr.UpdateSpot(map[string]decimal.Decimal{
		"BTC": decimal.NewFromFloat(0.7),
		"BRL": decimal.NewFromInt(400),
	})
	require.NoError(t, err)
	require.True(t, deltas["BTC"].Equal(decimal.NewFromFloat(0.2)))
	require.True(t, deltas["BRL"].Equal(decimal.NewFromInt(-600)))

	snapshot := tr.SpotSnapshot()
	require.True(t, snapshot["BTC"].Equal(decimal.NewFromFloat(0.7)))
}

func TestUpdateSpotRejectsNegativeAmount(t *testing.T) {
	tr := New()

	_, err := tr.UpdateSpot(map[string]decimal.Decimal{"BTC": decimal.NewFromInt(1)})
	require.NoError(t, err)

	_, err = tr.UpdateSpot(map[string]decimal.Decimal{
		"BTC": decimal.NewFromInt(-3),
		"ETH": decimal.NewFromInt(2),
	})
	var integrityErr *domain.DataIntegrityError
	require.ErrorAs(t, err, &integrityErr)
	require.Equal(t, "BTC", integrityErr.Key)

	snapshot := tr.SpotSnapshot()
	require.True(t, snapshot["BTC"].Equal(decimal.NewFromInt(1)), "prior value must be retained")
	require.True(t, snapshot["ETH"].Equal(decimal.NewFromInt(2)), "valid entries must still be applied")
}

func TestUpdateSpotReportsEveryNegativeAmount(t *testing.T) {
	tr := New()

	_, err := tr.UpdateSpot(map[string]decimal.Decimal{
		"BTC": decimal.NewFromInt(-1),
		"ETH": decimal.NewFromInt(-2),
		"BRL": decimal.NewFromInt(100),
	})
	require.Error(t, err)

	rejected := make(map[string]bool)
	for _, e := range multierr.Errors(err) {
		var integrityErr *domain.DataIntegrityError
		require.ErrorAs(t, e, &integrityErr)
		rejected[integrityErr.Key] = true
	}
	require.Equal(t, map[string]bool{"BTC": true, "ETH": true}, rejected)

	require.True(t, tr.SpotSnapshot()["BRL"].Equal(decimal.NewFromInt(100)))
}

func TestUpdateOnchain(t *testing.T) {
	tr := New()
	addr := "bc1qexampleaddress"

	delta, err := tr.UpdateOnchain(addr, decimal.NewFromFloat(0.25))
	require.NoError(t, err)
	require.True(t, delta.Equal(decimal.NewFromFloat(0.25)))

	delta, err = tr.UpdateOnchain(addr, decimal.NewFromFloat(0.1))
	require.NoError(t, err)
	require.True(t, delta.Equal(decimal.NewFromFloat(-0.15)))

	_, err = tr.UpdateOnchain(addr, decimal.NewFromInt(-1))
	var integrityErr *domain.DataIntegrityError
	require.ErrorAs(t, err, &integrityErr)
	require.True(t, tr.OnchainSnapshot()[addr].Equal(decimal.NewFromFloat(0.1)))
}

func TestValuations(t *testing.T) {
	tr := New()

	tr.SetValuation("BTC", domain.AssetValue{
		Amount:     decimal.NewFromFloat(0.5),
		QuoteValue: decimal.NewFromInt(55000),
	})
	tr.SetValuation("DOGE", domain.AssetValue{
		Amount:   decimal.NewFromInt(100),
		Unpriced: true,
	})

	vals := tr.Valuations()
	require.False(t, vals["BTC"].Unpriced)
	require.True(t, vals["DOGE"].Unpriced, "failed lookup must be marked, not a plain zero")
}

func TestSnapshotsAreCopies(t *testing.T) {
	tr := New()
	_, err := tr.UpdateSpot(map[string]decimal.Decimal{"BTC": decimal.NewFromInt(1)})
	require.NoError(t, err)

	snapshot := tr.SpotSnapshot()
	snapshot["BTC"] = decimal.NewFromInt(99)

	require.True(t, tr.SpotSnapshot()["BTC"].Equal(decimal.NewFromInt(1)))
}
