// Package ledger implements the in-memory hash-chained audit log of
// executed trade operations. The chain is append-only and single-process:
// every block links to its predecessor via SHA-256, so any mutation of a
// stored operation is detectable by Verify.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/vadiminshakov/vigia/internal/domain"
)

// GenesisHash is the defined predecessor hash of the first block.
const GenesisHash = "0000000000000000000000000000000000000000000000000000000000000000"

// Ledger is a mutex-guarded append-only block chain. Readers always observe
// the chain either before or after a complete append.
type Ledger struct {
	mu     sync.RWMutex
	blocks []domain.Block
	now    func() time.Time
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		blocks: make([]domain.Block, 0, 64),
		now:    time.Now,
	}
}

// Append validates the operation, chains it to the current tip and stores
// the resulting block. Concurrent appends serialize on the write lock, so
// indexes stay gapless and prev_hash linkage forms a total order.
func (l *Ledger) Append(op domain.TradeOperation) (domain.Block, error) {
	payload, err := op.CanonicalBytes()
	if err != nil {
		return domain.Block{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prevHash := GenesisHash
	if n := len(l.blocks); n > 0 {
		prevHash = l.blocks[n-1].Hash
	}

	block := domain.Block{
		Index:     uint64(len(l.blocks)),
		Timestamp: l.now().UTC(),
		Operation: op,
		Hash:      chainHash(prevHash, payload),
		PrevHash:  prevHash,
	}
	l.blocks = append(l.blocks, block)

	return block, nil
}

// Blocks returns a copy of the full chain in append order.
func (l *Ledger) Blocks() []domain.Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Block, len(l.blocks))
	copy(out, l.blocks)
	return out
}

// Len returns the number of blocks stored.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.blocks)
}

// Verify recomputes every block hash from its predecessor hash and the
// canonical operation bytes and checks the chain linkage. It returns false
// on the first mismatch.
func (l *Ledger) Verify() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	prevHash := GenesisHash
	for i, block := range l.blocks {
		if block.Index != uint64(i) {
			return false
		}
		if block.PrevHash != prevHash {
			return false
		}
		payload, err := block.Operation.CanonicalBytes()
		if err != nil {
			return false
		}
		if chainHash(block.PrevHash, payload) != block.Hash {
			return false
		}
		prevHash = block.Hash
	}
	return true
}

func chainHash(prevHash string, payload []byte) string {
	h := sha256.New()
	h.Write([]byte(prevHash))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
