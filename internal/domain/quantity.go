package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity is a non-negative share count. Fractional shares are allowed.
type Quantity struct {
	value decimal.Decimal
}

// NewQuantity creates a Quantity. Fails with *InvalidQuantityError when
// the value is negative.
func NewQuantity(value decimal.Decimal) (Quantity, error) {
	if value.IsNegative() {
		return Quantity{}, &InvalidQuantityError{Value: value}
	}
	return Quantity{value: value}, nil
}

// NewQuantityFromString creates a Quantity from its decimal string
// representation (e.g. "12.5").
func NewQuantityFromString(value string) (Quantity, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid quantity %q: %w", value, err)
	}
	return NewQuantity(d)
}

// Decimal returns the underlying decimal value.
func (q Quantity) Decimal() decimal.Decimal { return q.value }

// Add returns q + o.
func (q Quantity) Add(o Quantity) Quantity {
	return Quantity{value: q.value.Add(o.value)}
}

// Sub returns q - o. Fails with *InvalidQuantityError when the result
// would be negative, since a quantity can never go below zero.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	result := q.value.Sub(o.value)
	if result.IsNegative() {
		return Quantity{}, &InvalidQuantityError{Value: result}
	}
	return Quantity{value: result}, nil
}

// Cmp compares two quantities: -1 if q < o, 0 if equal, +1 if q > o.
func (q Quantity) Cmp(o Quantity) int { return q.value.Cmp(o.value) }

// GreaterThan reports whether q > o.
func (q Quantity) GreaterThan(o Quantity) bool { return q.value.GreaterThan(o.value) }

// LessThan reports whether q < o.
func (q Quantity) LessThan(o Quantity) bool { return q.value.LessThan(o.value) }

// Equal reports whether q and o are the same quantity.
func (q Quantity) Equal(o Quantity) bool { return q.value.Equal(o.value) }

// IsZero reports whether the quantity is zero.
func (q Quantity) IsZero() bool { return q.value.IsZero() }

// IsPositive reports whether the quantity is strictly positive.
func (q Quantity) IsPositive() bool { return q.value.IsPositive() }

func (q Quantity) String() string { return q.value.String() }
