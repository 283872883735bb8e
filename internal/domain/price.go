package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PricePoint records the observed price of one ticker on one date.
// The price history is what snapshot jobs consult for both current and
// historical valuations: a lookup at a date returns the most recent
// point on or before that date.
type PricePoint struct {
	ID     uuid.UUID
	Ticker Ticker
	Date   time.Time
	Price  Money
}

// NewPricePoint creates a price point. The price must be positive.
func NewPricePoint(ticker Ticker, date time.Time, price Money) (*PricePoint, error) {
	p := &PricePoint{
		ID:     uuid.New(),
		Ticker: ticker,
		Date:   DateOnly(date),
		Price:  price,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate ensures the price point adheres to domain rules.
func (p *PricePoint) Validate() error {
	if p.Ticker.IsZero() {
		return errors.New("price point must carry a ticker")
	}
	if p.Date.IsZero() {
		return errors.New("price point must carry a date")
	}
	if !p.Price.IsPositive() {
		return errors.New("price must be positive")
	}
	return nil
}
