package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents an exact monetary value in a single currency.
// The amount is an arbitrary-precision decimal, never a binary float,
// so repeated additions accumulate no rounding drift.
//
// The zero value is a currency-neutral zero: it can be combined with any
// Money and adopts the other operand's currency. Only constructors and
// arithmetic on constructed values produce a non-neutral Money.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a Money value in the given ISO 4217 currency.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if !isValidCurrency(currency) {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromString creates a Money value parsing the amount from its
// decimal string representation (e.g. "150.25").
func NewMoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", amount, err)
	}
	return NewMoney(d, currency)
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency string) (Money, error) {
	return NewMoney(decimal.Zero, currency)
}

func isValidCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// mergeCurrency resolves the currency of a binary operation. A neutral
// (empty) currency yields to the other operand's currency; two distinct
// non-empty currencies are a mismatch.
func mergeCurrency(a, b Money) (string, error) {
	if a.currency == "" {
		return b.currency, nil
	}
	if b.currency == "" {
		return a.currency, nil
	}
	if a.currency != b.currency {
		return "", &CurrencyMismatchError{Left: a.currency, Right: b.currency}
	}
	return a.currency, nil
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency returns the ISO currency code ("" for the neutral zero).
func (m Money) Currency() string { return m.currency }

// Add returns m + o. Fails with *CurrencyMismatchError when the
// currencies differ.
func (m Money) Add(o Money) (Money, error) {
	cur, err := mergeCurrency(m, o)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(o.amount), currency: cur}, nil
}

// Sub returns m - o. Fails with *CurrencyMismatchError when the
// currencies differ.
func (m Money) Sub(o Money) (Money, error) {
	cur, err := mergeCurrency(m, o)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(o.amount), currency: cur}, nil
}

// Mul returns m scaled by the given factor. The multiplication is exact:
// both operands are decimals, so no intermediate float rounding occurs.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}
}

// Div returns m divided by the given divisor.
func (m Money) Div(divisor decimal.Decimal) Money {
	return Money{amount: m.amount.Div(divisor), currency: m.currency}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg(), currency: m.currency}
}

// Cmp compares two Money values: -1 if m < o, 0 if equal, +1 if m > o.
// Fails with *CurrencyMismatchError when the currencies differ.
func (m Money) Cmp(o Money) (int, error) {
	if _, err := mergeCurrency(m, o); err != nil {
		return 0, err
	}
	return m.amount.Cmp(o.amount), nil
}

// LessThan reports whether m < o.
func (m Money) LessThan(o Money) (bool, error) {
	c, err := m.Cmp(o)
	return c < 0, err
}

// GreaterThan reports whether m > o.
func (m Money) GreaterThan(o Money) (bool, error) {
	c, err := m.Cmp(o)
	return c > 0, err
}

// Equal reports value equality: same currency and same amount.
// The neutral zero equals a currency-tagged zero of any currency.
func (m Money) Equal(o Money) bool {
	if !m.amount.Equal(o.amount) {
		return false
	}
	if m.currency == o.currency {
		return true
	}
	return m.amount.IsZero() && (m.currency == "" || o.currency == "")
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsPositive reports whether the amount is strictly positive.
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// IsNegative reports whether the amount is strictly negative.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// String returns "amount CUR", e.g. "150.25 USD".
func (m Money) String() string {
	if m.currency == "" {
		return m.amount.String()
	}
	return m.amount.String() + " " + m.currency
}
