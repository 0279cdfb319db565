package trader

import "github.com/google/uuid"

// newClientOrderID generates a unique client order id attached to every
// submitted order, so fills can be correlated with ledger blocks on the
// exchange side.
func newClientOrderID() string {
	return uuid.New().String()
}
