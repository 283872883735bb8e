package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Portfolio represents a portfolio entity in the domain layer.
// All of a portfolio's cash and trades are denominated in its base
// currency; entries in another currency are rejected by the command
// layer before they reach the ledger.
type Portfolio struct {
	ID           uuid.UUID
	Name         string
	BaseCurrency string
	CreatedAt    time.Time
}

// NewPortfolio creates a portfolio with the given name and base
// currency.
func NewPortfolio(name, baseCurrency string) (*Portfolio, error) {
	p := &Portfolio{
		ID:           uuid.New(),
		Name:         name,
		BaseCurrency: baseCurrency,
		CreatedAt:    time.Now(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate ensures the portfolio adheres to domain rules.
func (p *Portfolio) Validate() error {
	if p.Name == "" {
		return errors.New("portfolio name cannot be empty")
	}
	if !isValidCurrency(p.BaseCurrency) {
		return ErrInvalidCurrency
	}
	return nil
}
