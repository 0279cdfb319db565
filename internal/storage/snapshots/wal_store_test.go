package snapshots

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/vigia/internal/domain"
)

func newTestStore(t *testing.T) *WALStore {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func testSnapshot(ts time.Time) domain.PollSnapshot {
	return domain.PollSnapshot{
		Timestamp: ts,
		Spot: map[string]domain.AssetValue{
			"BTC": {Amount: decimal.NewFromFloat(0.5), QuoteValue: decimal.NewFromInt(55000)},
		},
		Onchain: map[string]decimal.Decimal{
			"bc1qtestaddress": decimal.NewFromFloat(1.2),
		},
	}
}

func TestSaveAndReadAfterIndex(t *testing.T) {
	store := newTestStore(t)

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(testSnapshot(base.Add(time.Duration(i)*time.Minute))))
	}

	records, err := store.SnapshotsAfter(0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, uint64(3), store.CurrentIndex())

	records, err = store.SnapshotsAfter(2)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].Snapshot.Spot["BTC"].Amount.Equal(decimal.NewFromFloat(0.5)))
}

func TestSaveRejectsZeroTimestamp(t *testing.T) {
	store := newTestStore(t)
	err := store.Save(domain.PollSnapshot{})
	require.Error(t, err)
}

func TestSnapshotsAfterCurrentIsEmpty(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(testSnapshot(time.Now().UTC())))

	records, err := store.SnapshotsAfter(store.CurrentIndex())
	require.NoError(t, err)
	require.Empty(t, records)
}
