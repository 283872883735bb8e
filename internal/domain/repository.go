package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PortfolioRepository defines the interface for portfolio persistence
// operations.
type PortfolioRepository interface {
	// Create creates a new portfolio
	Create(ctx context.Context, portfolio *Portfolio) error

	// GetByID retrieves a portfolio by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Portfolio, error)

	// ListIDs retrieves the IDs of all portfolios
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// LedgerRepository defines the interface for ledger persistence.
// The ledger is append-only: there is deliberately no update or delete.
type LedgerRepository interface {
	// Append persists a new ledger entry
	Append(ctx context.Context, entry *LedgerEntry) error

	// List retrieves all entries for a portfolio in canonical order
	// (occurred_at, then recorded_at, then insertion order).
	// If asOf is non-nil, only entries with occurred_at <= asOf are
	// returned, enabling point-in-time and backtest queries.
	List(ctx context.Context, portfolioID uuid.UUID, asOf *time.Time) ([]*LedgerEntry, error)
}

// SnapshotRepository defines the interface for snapshot persistence.
// (portfolio_id, snapshot_date) is an upsert key: writing a snapshot
// for an already-covered date replaces it rather than duplicating it.
type SnapshotRepository interface {
	// Upsert inserts or replaces the snapshot for its (portfolio, date)
	Upsert(ctx context.Context, snapshot *PortfolioSnapshot) error

	// GetByDate retrieves the snapshot for a portfolio on a date
	GetByDate(ctx context.Context, portfolioID uuid.UUID, date time.Time) (*PortfolioSnapshot, error)

	// ListRange retrieves snapshots for a portfolio with
	// from <= snapshot_date <= to, ordered by snapshot_date ascending
	ListRange(ctx context.Context, portfolioID uuid.UUID, from, to time.Time) ([]*PortfolioSnapshot, error)
}

// PriceProvider is the external market-data capability the core
// consumes: a price for a ticker at a point in time, or
// ErrPriceNotAvailable.
type PriceProvider interface {
	// GetPrice returns the price of a ticker on or before the given
	// date. Fails with ErrPriceNotAvailable when no price is known.
	GetPrice(ctx context.Context, ticker Ticker, at time.Time) (Money, error)
}

// PriceRepository defines the interface for price history persistence.
// A price repository is also a PriceProvider: lookups are served from
// the stored history.
type PriceRepository interface {
	PriceProvider

	// Add records a new observed price point
	Add(ctx context.Context, point *PricePoint) error
}
