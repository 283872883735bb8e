package domain

import "strings"

// Ticker is a validated, normalized instrument symbol.
// The symbol policy is 1-5 uppercase letters; normalization (trimming
// and upcasing) happens at construction, so two Tickers compare equal
// by plain value comparison.
type Ticker struct {
	symbol string
}

// NewTicker validates and normalizes a ticker symbol.
// Fails with *InvalidTickerError when the input does not match the
// symbol policy.
func NewTicker(symbol string) (Ticker, error) {
	normalized := strings.ToUpper(strings.TrimSpace(symbol))
	if len(normalized) < 1 || len(normalized) > 5 {
		return Ticker{}, &InvalidTickerError{Symbol: symbol}
	}
	for _, r := range normalized {
		if r < 'A' || r > 'Z' {
			return Ticker{}, &InvalidTickerError{Symbol: symbol}
		}
	}
	return Ticker{symbol: normalized}, nil
}

// Symbol returns the normalized symbol.
func (t Ticker) Symbol() string { return t.symbol }

// IsZero reports whether the ticker is the unset zero value.
func (t Ticker) IsZero() bool { return t.symbol == "" }

func (t Ticker) String() string { return t.symbol }
