package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/simaogato/stockfolio-backend/internal/domain"
)

// priceRepository implements domain.PriceRepository
type priceRepository struct {
	db *DB
}

// NewPriceRepository creates a new price history repository
func NewPriceRepository(db *DB) domain.PriceRepository {
	return &priceRepository{db: db}
}

// Add records a new observed price point
func (r *priceRepository) Add(ctx context.Context, point *domain.PricePoint) error {
	query := `
		INSERT INTO price_history (id, ticker, date, price, currency)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ticker, date) DO UPDATE SET
			price = EXCLUDED.price,
			currency = EXCLUDED.currency
	`

	_, err := r.db.ExecContext(ctx, query,
		point.ID,
		point.Ticker.Symbol(),
		point.Date,
		point.Price.Amount().String(),
		point.Price.Currency(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert price point: %w", err)
	}

	return nil
}

// GetPrice returns the most recent stored price for a ticker on or
// before the given date. Fails with domain.ErrPriceNotAvailable when
// the history has no point that old.
func (r *priceRepository) GetPrice(ctx context.Context, ticker domain.Ticker, at time.Time) (domain.Money, error) {
	query := `
		SELECT price, currency
		FROM price_history
		WHERE ticker = $1 AND date <= $2
		ORDER BY date DESC
		LIMIT 1
	`

	var priceStr, currency string
	err := r.db.QueryRowContext(ctx, query, ticker.Symbol(), domain.DateOnly(at)).Scan(&priceStr, &currency)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Money{}, fmt.Errorf("%w: %s at %s", domain.ErrPriceNotAvailable, ticker, at.Format("2006-01-02"))
		}
		return domain.Money{}, fmt.Errorf("failed to get price: %w", err)
	}

	price, err := domain.NewMoneyFromString(priceStr, currency)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to parse price: %w", err)
	}

	return price, nil
}
