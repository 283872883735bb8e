package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/stockfolio-backend/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Upsert inserts or replaces the snapshot for its (portfolio, date).
// The unique index on (portfolio_id, snapshot_date) makes re-running a
// snapshot job for the same date idempotent: last writer wins, no
// duplicate row.
func (r *snapshotRepository) Upsert(ctx context.Context, snapshot *domain.PortfolioSnapshot) error {
	query := `
		INSERT INTO portfolio_snapshots
			(id, portfolio_id, snapshot_date, currency, cash_balance, holdings_value, total_value, holdings_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (portfolio_id, snapshot_date) DO UPDATE SET
			currency = EXCLUDED.currency,
			cash_balance = EXCLUDED.cash_balance,
			holdings_value = EXCLUDED.holdings_value,
			total_value = EXCLUDED.total_value,
			holdings_count = EXCLUDED.holdings_count,
			created_at = EXCLUDED.created_at
	`

	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.PortfolioID,
		snapshot.SnapshotDate,
		snapshot.TotalValue.Currency(),
		snapshot.CashBalance.Amount().String(),
		snapshot.HoldingsValue.Amount().String(),
		snapshot.TotalValue.Amount().String(),
		snapshot.HoldingsCount,
		snapshot.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	return nil
}

// GetByDate retrieves the snapshot for a portfolio on a date
func (r *snapshotRepository) GetByDate(ctx context.Context, portfolioID uuid.UUID, date time.Time) (*domain.PortfolioSnapshot, error) {
	query := `
		SELECT id, portfolio_id, snapshot_date, currency, cash_balance, holdings_value, total_value, holdings_count, created_at
		FROM portfolio_snapshots
		WHERE portfolio_id = $1 AND snapshot_date = $2
	`

	row := r.db.QueryRowContext(ctx, query, portfolioID, domain.DateOnly(date))
	snapshot, err := scanSnapshotRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot not found: %w", err)
		}
		return nil, err
	}
	return snapshot, nil
}

// ListRange retrieves snapshots with from <= snapshot_date <= to,
// ordered by snapshot_date ascending
func (r *snapshotRepository) ListRange(ctx context.Context, portfolioID uuid.UUID, from, to time.Time) ([]*domain.PortfolioSnapshot, error) {
	query := `
		SELECT id, portfolio_id, snapshot_date, currency, cash_balance, holdings_value, total_value, holdings_count, created_at
		FROM portfolio_snapshots
		WHERE portfolio_id = $1 AND snapshot_date BETWEEN $2 AND $3
		ORDER BY snapshot_date
	`

	rows, err := r.db.QueryContext(ctx, query, portfolioID, domain.DateOnly(from), domain.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*domain.PortfolioSnapshot
	for rows.Next() {
		snapshot, err := scanSnapshotRow(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return snapshots, nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshotRow(row rowScanner) (*domain.PortfolioSnapshot, error) {
	var snapshot domain.PortfolioSnapshot
	var currency, cashStr, holdingsStr, totalStr string

	err := row.Scan(
		&snapshot.ID,
		&snapshot.PortfolioID,
		&snapshot.SnapshotDate,
		&currency,
		&cashStr,
		&holdingsStr,
		&totalStr,
		&snapshot.HoldingsCount,
		&snapshot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	cash, err := domain.NewMoneyFromString(cashStr, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cash_balance: %w", err)
	}
	holdingsValue, err := domain.NewMoneyFromString(holdingsStr, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to parse holdings_value: %w", err)
	}
	total, err := domain.NewMoneyFromString(totalStr, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total_value: %w", err)
	}

	snapshot.CashBalance = cash
	snapshot.HoldingsValue = holdingsValue
	snapshot.TotalValue = total
	snapshot.SnapshotDate = domain.DateOnly(snapshot.SnapshotDate)

	return &snapshot, nil
}
