package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for conditions that carry no extra context.
var (
	// ErrInvalidCurrency is returned when a currency code is not a
	// three-letter uppercase ISO 4217 code.
	ErrInvalidCurrency = errors.New("currency must be a three-letter ISO code")

	// ErrEmptySnapshotSeries is returned when performance metrics are
	// requested over an empty snapshot slice. This indicates a caller
	// precondition violation, not a business outcome.
	ErrEmptySnapshotSeries = errors.New("snapshot series is empty")

	// ErrPriceNotAvailable is returned by price providers when no price
	// is known for a ticker at the requested date.
	ErrPriceNotAvailable = errors.New("price not available")
)

// CurrencyMismatchError is returned when an arithmetic or comparison
// operation is attempted on two Money values of different currencies.
type CurrencyMismatchError struct {
	Left  string
	Right string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch: %s vs %s", e.Left, e.Right)
}

// InvalidTickerError is returned when a ticker symbol does not match the
// allowed symbol policy (1-5 uppercase letters).
type InvalidTickerError struct {
	Symbol string
}

func (e *InvalidTickerError) Error() string {
	return fmt.Sprintf("invalid ticker symbol: %q", e.Symbol)
}

// InvalidQuantityError is returned when a share quantity is negative.
type InvalidQuantityError struct {
	Value decimal.Decimal
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity: %s (must not be negative)", e.Value)
}

// InsufficientFundsError is a business-rule error raised by the command
// layer when a buy or withdrawal would drive the cash balance negative.
// It carries enough context to render a precise user-facing message.
type InsufficientFundsError struct {
	Available Money
	Requested Money
	Shortfall Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, requested %s (short %s)",
		e.Available, e.Requested, e.Shortfall)
}

// InsufficientSharesError is a business-rule error raised when a sell
// requests more shares of a ticker than are currently held.
type InsufficientSharesError struct {
	Ticker    Ticker
	Available Quantity
	Requested Quantity
	Shortfall Quantity
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("insufficient shares of %s: available %s, requested %s (short %s)",
		e.Ticker, e.Available, e.Requested, e.Shortfall)
}
