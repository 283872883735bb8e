package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PerformanceMetrics summarizes portfolio performance over a series of
// snapshots. It is computed on demand and never persisted.
type PerformanceMetrics struct {
	PeriodStart    time.Time
	PeriodEnd      time.Time
	StartingValue  Money
	EndingValue    Money
	AbsoluteGain   Money
	PercentageGain decimal.Decimal
	HighestValue   Money
	LowestValue    Money
}

// ComputeMetrics derives performance metrics from a snapshot series.
// The input may be in any order; it is sorted by snapshot date first.
// Fails with ErrEmptySnapshotSeries on an empty input rather than
// returning degenerate zeros.
//
// The percentage gain is (ending/starting - 1) * 100 quantized to two
// decimal places with banker's rounding, or 0 when the starting value
// is not positive.
func ComputeMetrics(snapshots []*PortfolioSnapshot) (*PerformanceMetrics, error) {
	if len(snapshots) == 0 {
		return nil, ErrEmptySnapshotSeries
	}

	ordered := make([]*PortfolioSnapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SnapshotDate.Before(ordered[j].SnapshotDate)
	})

	first := ordered[0]
	last := ordered[len(ordered)-1]

	absoluteGain, err := last.TotalValue.Sub(first.TotalValue)
	if err != nil {
		return nil, err
	}

	percentageGain := decimal.Zero
	if first.TotalValue.IsPositive() {
		percentageGain = last.TotalValue.Amount().
			Div(first.TotalValue.Amount()).
			Sub(decimal.NewFromInt(1)).
			Mul(decimal.NewFromInt(100)).
			RoundBank(2)
	}

	// High/low range over the whole series, not just the endpoints.
	highest := first.TotalValue
	lowest := first.TotalValue
	for _, s := range ordered[1:] {
		if isHigher, err := s.TotalValue.GreaterThan(highest); err != nil {
			return nil, err
		} else if isHigher {
			highest = s.TotalValue
		}
		if isLower, err := s.TotalValue.LessThan(lowest); err != nil {
			return nil, err
		} else if isLower {
			lowest = s.TotalValue
		}
	}

	return &PerformanceMetrics{
		PeriodStart:    first.SnapshotDate,
		PeriodEnd:      last.SnapshotDate,
		StartingValue:  first.TotalValue,
		EndingValue:    last.TotalValue,
		AbsoluteGain:   absoluteGain,
		PercentageGain: percentageGain,
		HighestValue:   highest,
		LowestValue:    lowest,
	}, nil
}
