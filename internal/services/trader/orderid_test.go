package trader

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewClientOrderID(t *testing.T) {
	first := newClientOrderID()
	second := newClientOrderID()

	require.NotEqual(t, first, second)
	_, err := uuid.Parse(first)
	require.NoError(t, err)
}
