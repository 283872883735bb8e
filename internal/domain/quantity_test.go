package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustQuantity(t *testing.T, value string) Quantity {
	t.Helper()
	q, err := NewQuantityFromString(value)
	require.NoError(t, err)
	return q
}

func TestNewQuantity_RejectsNegative(t *testing.T) {
	_, err := NewQuantity(decimal.NewFromInt(-1))

	var invalid *InvalidQuantityError
	require.ErrorAs(t, err, &invalid)
	assert.True(t, invalid.Value.IsNegative())
}

func TestNewQuantity_AllowsZeroAndFractional(t *testing.T) {
	zero, err := NewQuantity(decimal.Zero)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	fractional := mustQuantity(t, "0.75")
	assert.True(t, fractional.IsPositive())
}

func TestQuantity_SubNeverGoesNegative(t *testing.T) {
	held := mustQuantity(t, "5")

	_, err := held.Sub(mustQuantity(t, "7"))

	var invalid *InvalidQuantityError
	assert.ErrorAs(t, err, &invalid)

	remaining, err := held.Sub(mustQuantity(t, "5"))
	require.NoError(t, err)
	assert.True(t, remaining.IsZero())
}
