package performance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stockfolio-backend/internal/domain"
)

// MockPortfolioRepository is a mock implementation of PortfolioRepository for testing
type MockPortfolioRepository struct {
	mock.Mock
}

func (m *MockPortfolioRepository) Create(ctx context.Context, portfolio *domain.Portfolio) error {
	args := m.Called(ctx, portfolio)
	return args.Error(0)
}

func (m *MockPortfolioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Portfolio, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Portfolio), args.Error(1)
}

func (m *MockPortfolioRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockSnapshotRepository is a mock implementation of SnapshotRepository for testing
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Upsert(ctx context.Context, snapshot *domain.PortfolioSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) GetByDate(ctx context.Context, portfolioID uuid.UUID, date time.Time) (*domain.PortfolioSnapshot, error) {
	args := m.Called(ctx, portfolioID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortfolioSnapshot), args.Error(1)
}

func (m *MockSnapshotRepository) ListRange(ctx context.Context, portfolioID uuid.UUID, from, to time.Time) ([]*domain.PortfolioSnapshot, error) {
	args := m.Called(ctx, portfolioID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PortfolioSnapshot), args.Error(1)
}

func usd(t *testing.T, amount string) domain.Money {
	t.Helper()
	m, err := domain.NewMoneyFromString(amount, "USD")
	require.NoError(t, err)
	return m
}

func snapshotOn(t *testing.T, portfolioID uuid.UUID, date time.Time, total string) *domain.PortfolioSnapshot {
	t.Helper()
	s := &domain.PortfolioSnapshot{
		ID:            uuid.New(),
		PortfolioID:   portfolioID,
		SnapshotDate:  domain.DateOnly(date),
		CashBalance:   usd(t, total),
		HoldingsValue: usd(t, "0"),
		TotalValue:    usd(t, total),
		HoldingsCount: 0,
		CreatedAt:     date,
	}
	require.NoError(t, s.Validate())
	return s
}

func TestGetMetrics_DerivesGainFromStoredSeries(t *testing.T) {
	ctx := context.Background()
	mockPortfolioRepo := new(MockPortfolioRepository)
	mockSnapshotRepo := new(MockSnapshotRepository)
	service := NewPerformanceService(mockPortfolioRepo, mockSnapshotRepo)

	portfolioID := uuid.New()
	from := time.Date(2026, 3, 1, 15, 45, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 8, 0, 0, 0, time.UTC)

	series := []*domain.PortfolioSnapshot{
		snapshotOn(t, portfolioID, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "10000"),
		snapshotOn(t, portfolioID, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), "9000"),
		snapshotOn(t, portfolioID, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), "12500"),
	}

	mockPortfolioRepo.On("GetByID", ctx, portfolioID).
		Return(&domain.Portfolio{ID: portfolioID, Name: "Main", BaseCurrency: "USD"}, nil)
	// The range boundaries are normalized to dates before they hit the
	// repository.
	mockSnapshotRepo.On("ListRange", ctx, portfolioID, domain.DateOnly(from), domain.DateOnly(to)).
		Return(series, nil)

	metrics, err := service.GetMetrics(ctx, portfolioID, from, to)

	require.NoError(t, err)
	assert.True(t, metrics.StartingValue.Equal(usd(t, "10000")))
	assert.True(t, metrics.EndingValue.Equal(usd(t, "12500")))
	assert.True(t, metrics.AbsoluteGain.Equal(usd(t, "2500")))
	assert.Equal(t, "25", metrics.PercentageGain.String())
	assert.True(t, metrics.HighestValue.Equal(usd(t, "12500")))
	assert.True(t, metrics.LowestValue.Equal(usd(t, "9000")))
	mockSnapshotRepo.AssertExpectations(t)
}

func TestGetMetrics_EmptyRange(t *testing.T) {
	ctx := context.Background()
	mockPortfolioRepo := new(MockPortfolioRepository)
	mockSnapshotRepo := new(MockSnapshotRepository)
	service := NewPerformanceService(mockPortfolioRepo, mockSnapshotRepo)

	portfolioID := uuid.New()
	mockPortfolioRepo.On("GetByID", ctx, portfolioID).
		Return(&domain.Portfolio{ID: portfolioID, Name: "Main", BaseCurrency: "USD"}, nil)
	mockSnapshotRepo.On("ListRange", ctx, portfolioID, mock.Anything, mock.Anything).
		Return([]*domain.PortfolioSnapshot{}, nil)

	metrics, err := service.GetMetrics(ctx, portfolioID,
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC))

	assert.ErrorIs(t, err, domain.ErrEmptySnapshotSeries)
	assert.Nil(t, metrics)
}

func TestGetMetrics_UnknownPortfolio(t *testing.T) {
	ctx := context.Background()
	mockPortfolioRepo := new(MockPortfolioRepository)
	mockSnapshotRepo := new(MockSnapshotRepository)
	service := NewPerformanceService(mockPortfolioRepo, mockSnapshotRepo)

	portfolioID := uuid.New()
	mockPortfolioRepo.On("GetByID", ctx, portfolioID).Return(nil, errors.New("portfolio not found"))

	metrics, err := service.GetMetrics(ctx, portfolioID, time.Now().AddDate(0, -1, 0), time.Now())

	assert.Error(t, err)
	assert.Nil(t, metrics)
	mockSnapshotRepo.AssertNotCalled(t, "ListRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSnapshots_ReturnsSeriesAsStored(t *testing.T) {
	ctx := context.Background()
	mockPortfolioRepo := new(MockPortfolioRepository)
	mockSnapshotRepo := new(MockSnapshotRepository)
	service := NewPerformanceService(mockPortfolioRepo, mockSnapshotRepo)

	portfolioID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	series := []*domain.PortfolioSnapshot{
		snapshotOn(t, portfolioID, from, "100"),
		snapshotOn(t, portfolioID, to, "200"),
	}

	mockPortfolioRepo.On("GetByID", ctx, portfolioID).
		Return(&domain.Portfolio{ID: portfolioID, Name: "Main", BaseCurrency: "USD"}, nil)
	mockSnapshotRepo.On("ListRange", ctx, portfolioID, from, to).Return(series, nil)

	snapshots, err := service.GetSnapshots(ctx, portfolioID, from, to)

	require.NoError(t, err)
	assert.Equal(t, series, snapshots)
}
