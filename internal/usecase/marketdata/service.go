package marketdata

import (
	"context"
	"time"

	"github.com/simaogato/stockfolio-backend/internal/domain"
)

// MarketDataService records observed prices into the price history the
// snapshot jobs read from. It is the ingestion side of the market-data
// boundary; where prices actually come from (manual entry, an importer,
// a feed) is not its concern.
type MarketDataService struct {
	PriceRepo domain.PriceRepository
}

// NewMarketDataService creates a new MarketDataService instance
func NewMarketDataService(priceRepo domain.PriceRepository) *MarketDataService {
	return &MarketDataService{PriceRepo: priceRepo}
}

// RecordPrice stores a new price point for a ticker on a date.
func (s *MarketDataService) RecordPrice(ctx context.Context, ticker domain.Ticker, date time.Time, price domain.Money) (*domain.PricePoint, error) {
	point, err := domain.NewPricePoint(ticker, date, price)
	if err != nil {
		return nil, err
	}
	if err := s.PriceRepo.Add(ctx, point); err != nil {
		return nil, err
	}
	return point, nil
}

// GetPrice returns the most recent stored price for a ticker on or
// before the given date.
func (s *MarketDataService) GetPrice(ctx context.Context, ticker domain.Ticker, at time.Time) (domain.Money, error) {
	return s.PriceRepo.GetPrice(ctx, ticker, at)
}
