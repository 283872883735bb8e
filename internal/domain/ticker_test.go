package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicker_NormalizesAtConstruction(t *testing.T) {
	ticker, err := NewTicker("  aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", ticker.Symbol())

	upper, err := NewTicker("AAPL")
	require.NoError(t, err)
	assert.Equal(t, upper, ticker, "normalized tickers compare equal by value")
}

func TestNewTicker_RejectsInvalidSymbols(t *testing.T) {
	for _, symbol := range []string{"", "TOOLONG", "BRK.B", "A1", "12", "  "} {
		_, err := NewTicker(symbol)

		var invalid *InvalidTickerError
		require.ErrorAs(t, err, &invalid, "symbol %q", symbol)
		assert.Equal(t, symbol, invalid.Symbol)
	}
}

func TestNewTicker_AcceptsBoundaryLengths(t *testing.T) {
	for _, symbol := range []string{"A", "GOOGL"} {
		_, err := NewTicker(symbol)
		assert.NoError(t, err, "symbol %q", symbol)
	}
}
