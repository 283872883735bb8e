package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stockfolio-backend/internal/domain"
)

// MockPriceRepository is a mock implementation of PriceRepository for testing
type MockPriceRepository struct {
	mock.Mock
}

func (m *MockPriceRepository) GetPrice(ctx context.Context, ticker domain.Ticker, at time.Time) (domain.Money, error) {
	args := m.Called(ctx, ticker, at)
	return args.Get(0).(domain.Money), args.Error(1)
}

func (m *MockPriceRepository) Add(ctx context.Context, point *domain.PricePoint) error {
	args := m.Called(ctx, point)
	return args.Error(0)
}

func usd(t *testing.T, amount string) domain.Money {
	t.Helper()
	m, err := domain.NewMoneyFromString(amount, "USD")
	require.NoError(t, err)
	return m
}

func mustTicker(t *testing.T, symbol string) domain.Ticker {
	t.Helper()
	tk, err := domain.NewTicker(symbol)
	require.NoError(t, err)
	return tk
}

func TestRecordPrice_NormalizesDateAndStores(t *testing.T) {
	ctx := context.Background()
	mockPriceRepo := new(MockPriceRepository)
	service := NewMarketDataService(mockPriceRepo)

	observedAt := time.Date(2026, 3, 10, 21, 5, 0, 0, time.UTC)

	mockPriceRepo.On("Add", ctx, mock.MatchedBy(func(p *domain.PricePoint) bool {
		return p.Ticker == mustTicker(t, "AAPL") &&
			p.Date.Equal(domain.DateOnly(observedAt)) &&
			p.Price.Equal(usd(t, "155.25"))
	})).Return(nil)

	point, err := service.RecordPrice(ctx, mustTicker(t, "AAPL"), observedAt, usd(t, "155.25"))

	require.NoError(t, err)
	require.NotNil(t, point)
	assert.Equal(t, 0, point.Date.Hour())
	mockPriceRepo.AssertExpectations(t)
}

func TestRecordPrice_RejectsNonPositivePrice(t *testing.T) {
	ctx := context.Background()
	mockPriceRepo := new(MockPriceRepository)
	service := NewMarketDataService(mockPriceRepo)

	point, err := service.RecordPrice(ctx, mustTicker(t, "AAPL"), time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), usd(t, "0"))

	assert.Error(t, err)
	assert.Nil(t, point)
	mockPriceRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestGetPrice_DelegatesToRepository(t *testing.T) {
	ctx := context.Background()
	mockPriceRepo := new(MockPriceRepository)
	service := NewMarketDataService(mockPriceRepo)

	at := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	mockPriceRepo.On("GetPrice", ctx, mustTicker(t, "AAPL"), at).Return(usd(t, "155"), nil)

	price, err := service.GetPrice(ctx, mustTicker(t, "AAPL"), at)

	require.NoError(t, err)
	assert.True(t, price.Equal(usd(t, "155")))
}

func TestGetPrice_NotAvailable(t *testing.T) {
	ctx := context.Background()
	mockPriceRepo := new(MockPriceRepository)
	service := NewMarketDataService(mockPriceRepo)

	at := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	mockPriceRepo.On("GetPrice", ctx, mustTicker(t, "ZZZZ"), at).
		Return(domain.Money{}, domain.ErrPriceNotAvailable)

	_, err := service.GetPrice(ctx, mustTicker(t, "ZZZZ"), at)

	assert.ErrorIs(t, err, domain.ErrPriceNotAvailable)
}
