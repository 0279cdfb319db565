package domain

import "strings"

// Side represents the direction of a trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide normalizes a user-supplied side string.
func ParseSide(s string) (Side, bool) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, true
	case SideSell:
		return SideSell, true
	}
	return "", false
}

// IsValid reports whether the side is one of the known values.
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// String returns the string representation of the side.
func (s Side) String() string {
	return string(s)
}
