package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PortfolioSnapshot is an immutable materialized valuation of one
// portfolio on one calendar date. Snapshots exist so historical charts
// do not have to re-fold the ledger for every point; the snapshot store
// treats (portfolio_id, snapshot_date) as an upsert key, so recomputing
// a date replaces the record instead of duplicating it.
type PortfolioSnapshot struct {
	ID            uuid.UUID
	PortfolioID   uuid.UUID
	SnapshotDate  time.Time
	CashBalance   Money
	HoldingsValue Money
	TotalValue    Money
	HoldingsCount int
	CreatedAt     time.Time
}

// PricedHolding pairs a held quantity with the per-share price observed
// at the snapshot date. Quantities come from the ledger fold; prices
// come from the external market-data collaborator.
type PricedHolding struct {
	Ticker   Ticker
	Quantity Quantity
	Price    Money
}

// DateOnly normalizes a timestamp to its calendar date (UTC midnight).
// Snapshot dates are always stored and compared in this form.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ComputeSnapshot builds the snapshot for one portfolio and date from a
// cash balance and the priced holdings. Pure computation, no I/O:
//
//	holdings_value = sum(quantity * price)
//	total_value    = cash_balance + holdings_value
//	holdings_count = number of tickers with quantity > 0
func ComputeSnapshot(portfolioID uuid.UUID, date time.Time, cashBalance Money, holdings []PricedHolding) (*PortfolioSnapshot, error) {
	if portfolioID == uuid.Nil {
		return nil, errors.New("snapshot must reference a portfolio")
	}

	snapshotDate := DateOnly(date)
	if snapshotDate.After(DateOnly(time.Now())) {
		return nil, fmt.Errorf("snapshot date %s is in the future", snapshotDate.Format("2006-01-02"))
	}

	holdingsValue := Money{}
	count := 0
	for _, h := range holdings {
		if !h.Quantity.IsPositive() {
			continue
		}
		value := h.Price.Mul(h.Quantity.Decimal())
		total, err := holdingsValue.Add(value)
		if err != nil {
			return nil, fmt.Errorf("failed to value holding %s: %w", h.Ticker, err)
		}
		holdingsValue = total
		count++
	}

	if holdingsValue.Currency() == "" {
		// No priced holdings; report a zero in the cash currency.
		holdingsValue = Money{currency: cashBalance.Currency()}
	}

	totalValue, err := cashBalance.Add(holdingsValue)
	if err != nil {
		return nil, fmt.Errorf("failed to total snapshot value: %w", err)
	}

	s := &PortfolioSnapshot{
		ID:            uuid.New(),
		PortfolioID:   portfolioID,
		SnapshotDate:  snapshotDate,
		CashBalance:   cashBalance,
		HoldingsValue: holdingsValue,
		TotalValue:    totalValue,
		HoldingsCount: count,
		CreatedAt:     time.Now(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate ensures the snapshot adheres to domain rules: no negative
// monetary fields and total_value == cash_balance + holdings_value.
func (s *PortfolioSnapshot) Validate() error {
	if s.PortfolioID == uuid.Nil {
		return errors.New("snapshot must reference a portfolio")
	}
	if s.CashBalance.IsNegative() {
		return errors.New("snapshot cash balance must not be negative")
	}
	if s.HoldingsValue.IsNegative() {
		return errors.New("snapshot holdings value must not be negative")
	}
	if s.TotalValue.IsNegative() {
		return errors.New("snapshot total value must not be negative")
	}

	sum, err := s.CashBalance.Add(s.HoldingsValue)
	if err != nil {
		return err
	}
	if !s.TotalValue.Equal(sum) {
		return errors.New("snapshot total value must equal cash balance plus holdings value")
	}

	return nil
}
