package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/stockfolio-backend/internal/domain"
)

// PerformanceService computes performance metrics over a portfolio's
// stored snapshot history.
type PerformanceService struct {
	PortfolioRepo domain.PortfolioRepository
	SnapshotRepo  domain.SnapshotRepository
}

// NewPerformanceService creates a new PerformanceService instance
func NewPerformanceService(portfolioRepo domain.PortfolioRepository, snapshotRepo domain.SnapshotRepository) *PerformanceService {
	return &PerformanceService{
		PortfolioRepo: portfolioRepo,
		SnapshotRepo:  snapshotRepo,
	}
}

// GetMetrics loads the portfolio's snapshots within [from, to] and
// derives gain and high/low metrics from them. An empty range surfaces
// domain.ErrEmptySnapshotSeries.
func (s *PerformanceService) GetMetrics(ctx context.Context, portfolioID uuid.UUID, from, to time.Time) (*domain.PerformanceMetrics, error) {
	if _, err := s.PortfolioRepo.GetByID(ctx, portfolioID); err != nil {
		return nil, err
	}

	snapshots, err := s.SnapshotRepo.ListRange(ctx, portfolioID, domain.DateOnly(from), domain.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	return domain.ComputeMetrics(snapshots)
}

// GetSnapshots returns the raw snapshot series within [from, to] for
// charting.
func (s *PerformanceService) GetSnapshots(ctx context.Context, portfolioID uuid.UUID, from, to time.Time) ([]*domain.PortfolioSnapshot, error) {
	if _, err := s.PortfolioRepo.GetByID(ctx, portfolioID); err != nil {
		return nil, err
	}

	snapshots, err := s.SnapshotRepo.ListRange(ctx, portfolioID, domain.DateOnly(from), domain.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}
