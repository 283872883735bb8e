package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/stockfolio-backend/internal/domain"
)

// ledgerRepository implements domain.LedgerRepository
type ledgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *DB) domain.LedgerRepository {
	return &ledgerRepository{db: db}
}

// Append persists a new ledger entry. There is no update or delete:
// the ledger table is insert-only, and the seq column records insertion
// order for the canonical ordering tie-break.
func (r *ledgerRepository) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries
			(id, portfolio_id, entry_type, currency, amount, ticker, quantity, price, occurred_at, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var amount, ticker, quantity, price interface{}
	currency := entry.Amount.Currency()

	switch entry.Type {
	case domain.EntryTypeDeposit, domain.EntryTypeWithdrawal:
		amount = entry.Amount.Amount().String()
	case domain.EntryTypeBuy, domain.EntryTypeSell:
		currency = entry.Price.Currency()
		ticker = entry.Ticker.Symbol()
		quantity = entry.Quantity.Decimal().String()
		price = entry.Price.Amount().String()
	}

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.PortfolioID,
		string(entry.Type),
		currency,
		amount,
		ticker,
		quantity,
		price,
		entry.OccurredAt,
		entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	return nil
}

// List retrieves a portfolio's entries in canonical order: occurred_at,
// then recorded_at, then insertion order. If asOf is non-nil, only
// entries with occurred_at <= asOf are returned.
func (r *ledgerRepository) List(ctx context.Context, portfolioID uuid.UUID, asOf *time.Time) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, portfolio_id, entry_type, currency, amount, ticker, quantity, price, occurred_at, recorded_at
		FROM ledger_entries
		WHERE portfolio_id = $1
	`
	args := []interface{}{portfolioID}

	if asOf != nil {
		query += ` AND occurred_at <= $2`
		args = append(args, *asOf)
	}
	query += ` ORDER BY occurred_at, recorded_at, seq`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}

// scanLedgerEntry reconstructs a domain entry from one row. Variant
// fields (amount vs ticker/quantity/price) are nullable in the table.
func scanLedgerEntry(rows *sql.Rows) (*domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	var entryType, currency string
	var amountStr, tickerStr, quantityStr, priceStr sql.NullString

	err := rows.Scan(
		&entry.ID,
		&entry.PortfolioID,
		&entryType,
		&currency,
		&amountStr,
		&tickerStr,
		&quantityStr,
		&priceStr,
		&entry.OccurredAt,
		&entry.RecordedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
	}
	entry.Type = domain.EntryType(entryType)

	switch entry.Type {
	case domain.EntryTypeDeposit, domain.EntryTypeWithdrawal:
		if !amountStr.Valid {
			return nil, fmt.Errorf("cash entry %s has no amount", entry.ID)
		}
		amount, err := domain.NewMoneyFromString(amountStr.String, currency)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		entry.Amount = amount

	case domain.EntryTypeBuy, domain.EntryTypeSell:
		if !tickerStr.Valid || !quantityStr.Valid || !priceStr.Valid {
			return nil, fmt.Errorf("trade entry %s is missing trade fields", entry.ID)
		}
		ticker, err := domain.NewTicker(tickerStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ticker: %w", err)
		}
		quantity, err := domain.NewQuantityFromString(quantityStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse quantity: %w", err)
		}
		price, err := domain.NewMoneyFromString(priceStr.String, currency)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price: %w", err)
		}
		entry.Ticker = ticker
		entry.Quantity = quantity
		entry.Price = price

	default:
		return nil, fmt.Errorf("unknown entry type %q for entry %s", entryType, entry.ID)
	}

	return &entry, nil
}
