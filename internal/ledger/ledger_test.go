package ledger

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/vigia/internal/domain"
)

func testOperation(price int64) domain.TradeOperation {
	return domain.TradeOperation{
		Side:     domain.SideBuy,
		Asset:    "BTC",
		Quantity: decimal.NewFromFloat(0.01),
		Price:    decimal.NewFromInt(price),
	}
}

func TestAppendLinksChain(t *testing.T) {
	l := New()

	for i := 0; i < 10; i++ {
		block, err := l.Append(testOperation(int64(100000 + i)))
		require.NoError(t, err)
		require.Equal(t, uint64(i), block.Index)
	}

	chain := l.Blocks()
	require.Len(t, chain, 10)
	require.Equal(t, GenesisHash, chain[0].PrevHash)
	for i := 1; i < len(chain); i++ {
		require.Equal(t, chain[i-1].Hash, chain[i].PrevHash, "block %d must link to predecessor", i)
	}
	require.True(t, l.Verify())
}

func TestAppendSameContentYieldsDistinctHashes(t *testing.T) {
	l := New()

	first, err := l.Append(testOperation(105000))
	require.NoError(t, err)
	second, err := l.Append(testOperation(105000))
	require.NoError(t, err)

	require.NotEqual(t, first.Hash, second.Hash, "chain must be position-sensitive")
	require.Equal(t, first.Hash, second.PrevHash)
	require.True(t, l.Verify())
}

func TestAppendRejectsMalformedOperation(t *testing.T) {
	l := New()

	cases := []domain.TradeOperation{
		{Side: "HOLD", Asset: "BTC", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(1)},
		{Side: domain.SideBuy, Asset: "", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(1)},
		{Side: domain.SideBuy, Asset: "BTC", Quantity: decimal.Zero, Price: decimal.NewFromInt(1)},
		{Side: domain.SideSell, Asset: "BTC", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(-5)},
	}
	for _, op := range cases {
		_, err := l.Append(op)
		require.ErrorIs(t, err, domain.ErrMalformedOperation)
	}
	require.Zero(t, l.Len(), "nothing may be written for a rejected operation")
}

func TestVerifyDetectsTampering(t *testing.T) {
	l := New()
	for i := 0; i < 5; i++ {
		_, err := l.Append(testOperation(int64(110000 + i)))
		require.NoError(t, err)
	}
	require.True(t, l.Verify())

	l.blocks[2].Operation.Quantity = decimal.NewFromInt(9000)
	require.False(t, l.Verify())
}

func TestVerifyDetectsBrokenLinkage(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		_, err := l.Append(testOperation(int64(120000 + i)))
		require.NoError(t, err)
	}

	l.blocks[1].PrevHash = GenesisHash
	require.False(t, l.Verify())
}

func TestConcurrentAppendsKeepTotalOrder(t *testing.T) {
	l := New()

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	wg.Add(writers)
	for w := 0; w < writers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := l.Append(testOperation(101000))
				require.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	chain := l.Blocks()
	require.Len(t, chain, writers*perWriter)

	seen := make(map[uint64]bool, len(chain))
	for i, block := range chain {
		require.Equal(t, uint64(i), block.Index, "indexes must be gapless")
		require.False(t, seen[block.Index], "index %d appeared twice", block.Index)
		seen[block.Index] = true
	}
	require.True(t, l.Verify())
}

func TestBlocksReturnsSnapshotCopy(t *testing.T) {
	l := New()
	_, err := l.Append(testOperation(100500))
	require.NoError(t, err)

	chain := l.Blocks()
	chain[0].Hash = fmt.Sprintf("%064d", 0)

	require.True(t, l.Verify(), "mutating the returned slice must not affect the chain")
}
