package snapshotjob

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/simaogato/stockfolio-backend/internal/domain"
	"github.com/simaogato/stockfolio-backend/internal/usecase/calculator"
)

// RunResult reports the outcome of a snapshot run. Failed units are
// logged and counted, never allowed to abort the rest of the batch.
type RunResult struct {
	Processed int
	Succeeded int
	Failed    int
}

// SnapshotJobService materializes daily portfolio snapshots: it folds
// each portfolio's ledger, prices the held tickers through the market
// data provider, computes the snapshot and upserts it. It does not
// know or care what triggers it (cron, endpoint, test harness).
type SnapshotJobService struct {
	PortfolioRepo domain.PortfolioRepository
	LedgerRepo    domain.LedgerRepository
	SnapshotRepo  domain.SnapshotRepository
	Prices        domain.PriceProvider
	Logger        zerolog.Logger
}

// NewSnapshotJobService creates a new SnapshotJobService instance
func NewSnapshotJobService(
	portfolioRepo domain.PortfolioRepository,
	ledgerRepo domain.LedgerRepository,
	snapshotRepo domain.SnapshotRepository,
	prices domain.PriceProvider,
	logger zerolog.Logger,
) *SnapshotJobService {
	return &SnapshotJobService{
		PortfolioRepo: portfolioRepo,
		LedgerRepo:    ledgerRepo,
		SnapshotRepo:  snapshotRepo,
		Prices:        prices,
		Logger:        logger,
	}
}

// RunDailySnapshot computes and stores one snapshot per portfolio for
// the given date (today when date is the zero value). One portfolio's
// failure is logged and counted without stopping the others.
func (s *SnapshotJobService) RunDailySnapshot(ctx context.Context, date time.Time) (*RunResult, error) {
	if date.IsZero() {
		date = time.Now()
	}
	day := domain.DateOnly(date)

	portfolioIDs, err := s.PortfolioRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}

	result := &RunResult{}
	for _, portfolioID := range portfolioIDs {
		// A long run must stay interruptible between portfolios; every
		// snapshot already written stands on its own.
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		result.Processed++
		if err := s.snapshotOne(ctx, portfolioID, day); err != nil {
			result.Failed++
			s.Logger.Error().
				Err(err).
				Str("portfolio_id", portfolioID.String()).
				Str("date", day.Format("2006-01-02")).
				Msg("snapshot failed")
			continue
		}
		result.Succeeded++
	}

	s.Logger.Info().
		Str("date", day.Format("2006-01-02")).
		Int("processed", result.Processed).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Msg("daily snapshot run completed")

	return result, nil
}

// Backfill recomputes snapshots for one portfolio across a date range,
// one per calendar day, using the prices stored for each past date.
// Re-running a range is safe: each day's snapshot is an upsert, so a
// partially failed run can simply be repeated.
func (s *SnapshotJobService) Backfill(ctx context.Context, portfolioID uuid.UUID, start, end time.Time) (*RunResult, error) {
	startDay := domain.DateOnly(start)
	endDay := domain.DateOnly(end)
	if endDay.Before(startDay) {
		return nil, fmt.Errorf("backfill range is inverted: %s after %s",
			startDay.Format("2006-01-02"), endDay.Format("2006-01-02"))
	}

	// Verify the portfolio exists before walking the whole range.
	if _, err := s.PortfolioRepo.GetByID(ctx, portfolioID); err != nil {
		return nil, err
	}

	result := &RunResult{}
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		result.Processed++
		if err := s.snapshotOne(ctx, portfolioID, day); err != nil {
			result.Failed++
			s.Logger.Error().
				Err(err).
				Str("portfolio_id", portfolioID.String()).
				Str("date", day.Format("2006-01-02")).
				Msg("backfill snapshot failed")
			continue
		}
		result.Succeeded++
	}

	s.Logger.Info().
		Str("portfolio_id", portfolioID.String()).
		Str("start", startDay.Format("2006-01-02")).
		Str("end", endDay.Format("2006-01-02")).
		Int("processed", result.Processed).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Msg("backfill completed")

	return result, nil
}

// snapshotOne computes and upserts the snapshot for one portfolio and
// one day: ledger fold as of end of day, a price per held ticker at
// that day, then the pure snapshot computation.
func (s *SnapshotJobService) snapshotOne(ctx context.Context, portfolioID uuid.UUID, day time.Time) error {
	portfolio, err := s.PortfolioRepo.GetByID(ctx, portfolioID)
	if err != nil {
		return err
	}

	endOfDay := day.Add(24*time.Hour - time.Nanosecond)
	entries, err := s.LedgerRepo.List(ctx, portfolioID, &endOfDay)
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	state, err := calculator.DeriveState(entries)
	if err != nil {
		return fmt.Errorf("failed to derive state: %w", err)
	}

	// An empty ledger folds to a currency-neutral zero; pin the cash to
	// the portfolio's base currency so the snapshot round-trips.
	cash := state.CashBalance
	if cash.Currency() == "" {
		cash, err = domain.ZeroMoney(portfolio.BaseCurrency)
		if err != nil {
			return err
		}
	}

	priced := make([]domain.PricedHolding, 0, len(state.Holdings))
	for ticker, holding := range state.Holdings {
		price, err := s.Prices.GetPrice(ctx, ticker, day)
		if err != nil {
			return fmt.Errorf("failed to price %s at %s: %w", ticker, day.Format("2006-01-02"), err)
		}
		priced = append(priced, domain.PricedHolding{
			Ticker:   ticker,
			Quantity: holding.Quantity,
			Price:    price,
		})
	}

	snapshot, err := domain.ComputeSnapshot(portfolioID, day, cash, priced)
	if err != nil {
		return err
	}

	if err := s.SnapshotRepo.Upsert(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}
