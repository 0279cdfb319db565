package domain

import "time"

// Block is one immutable ledger entry linked to its predecessor via a
// SHA-256 hash over the predecessor hash and the canonical operation bytes.
type Block struct {
	Index     uint64         `json:"index"`
	Timestamp time.Time      `json:"ts"`
	Operation TradeOperation `json:"operation"`
	Hash      string         `json:"hash"`
	PrevHash  string         `json:"prev_hash"`
}
