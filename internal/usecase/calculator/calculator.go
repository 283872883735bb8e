package calculator

import (
	"fmt"
	"time"

	"github.com/simaogato/stockfolio-backend/internal/domain"
)

// PortfolioState is the result of folding a portfolio's ledger: the
// cash balance and the current holding for every ticker still held.
// Tickers whose quantity has dropped to zero are not present.
type PortfolioState struct {
	CashBalance domain.Money
	Holdings    map[domain.Ticker]domain.Holding
}

// Holding returns the holding for a ticker and whether one exists.
// Absence means the ticker is not currently held; it is not an error.
func (s *PortfolioState) Holding(ticker domain.Ticker) (domain.Holding, bool) {
	h, ok := s.Holdings[ticker]
	return h, ok
}

// DeriveState folds an ordered ledger into the portfolio's cash balance
// and FIFO-costed holdings. The fold is pure and deterministic: the
// same ledger always produces the same state, however many times it is
// recomputed.
//
// The caller's ordering is not trusted. Entries are re-sorted into the
// canonical ledger order (occurred_at, recorded_at, insertion order)
// before folding, since FIFO results depend on processing order.
//
// Cash: deposits and sell proceeds add, withdrawals and buy costs
// subtract. The fold itself allows the running balance to go negative;
// keeping it non-negative is the command layer's job before an entry is
// ever appended.
//
// Shares: a sell draws down the oldest remaining purchase lots first.
// A sell of more shares than are held fails with
// *domain.InsufficientSharesError before any lot is touched, so a
// failed fold never reflects a partial application.
func DeriveState(entries []*domain.LedgerEntry) (*PortfolioState, error) {
	ordered := make([]*domain.LedgerEntry, len(entries))
	copy(ordered, entries)
	domain.SortEntries(ordered)

	var cash domain.Money
	lotsByTicker := make(map[domain.Ticker]lotQueue)

	for _, entry := range ordered {
		switch entry.Type {
		case domain.EntryTypeDeposit:
			balance, err := cash.Add(entry.Amount)
			if err != nil {
				return nil, fmt.Errorf("failed to apply deposit %s: %w", entry.ID, err)
			}
			cash = balance

		case domain.EntryTypeWithdrawal:
			balance, err := cash.Sub(entry.Amount)
			if err != nil {
				return nil, fmt.Errorf("failed to apply withdrawal %s: %w", entry.ID, err)
			}
			cash = balance

		case domain.EntryTypeBuy:
			balance, err := cash.Sub(entry.TradeValue())
			if err != nil {
				return nil, fmt.Errorf("failed to apply buy %s: %w", entry.ID, err)
			}
			cash = balance
			lotsByTicker[entry.Ticker] = append(lotsByTicker[entry.Ticker], lot{
				quantity: entry.Quantity,
				cost:     entry.TradeValue(),
			})

		case domain.EntryTypeSell:
			lots := lotsByTicker[entry.Ticker]
			held := lots.totalQuantity()
			if entry.Quantity.GreaterThan(held) {
				shortfall, _ := entry.Quantity.Sub(held)
				return nil, &domain.InsufficientSharesError{
					Ticker:    entry.Ticker,
					Available: held,
					Requested: entry.Quantity,
					Shortfall: shortfall,
				}
			}

			remaining, err := lots.consume(entry.Quantity)
			if err != nil {
				return nil, fmt.Errorf("failed to apply sell %s: %w", entry.ID, err)
			}
			lotsByTicker[entry.Ticker] = remaining

			balance, err := cash.Add(entry.TradeValue())
			if err != nil {
				return nil, fmt.Errorf("failed to apply sell %s: %w", entry.ID, err)
			}
			cash = balance

		default:
			return nil, fmt.Errorf("unknown ledger entry type %q", entry.Type)
		}
	}

	holdings := make(map[domain.Ticker]domain.Holding)
	for ticker, lots := range lotsByTicker {
		quantity := lots.totalQuantity()
		if !quantity.IsPositive() {
			// Fully sold out; not a holding anymore.
			continue
		}
		costBasis, err := lots.totalCost()
		if err != nil {
			return nil, err
		}
		holdings[ticker] = domain.NewHolding(ticker, quantity, costBasis)
	}

	return &PortfolioState{CashBalance: cash, Holdings: holdings}, nil
}

// DeriveStateAsOf folds only the entries with occurred_at <= asOf,
// answering point-in-time and backtest queries with the same code path
// as a live derivation.
func DeriveStateAsOf(entries []*domain.LedgerEntry, asOf time.Time) (*PortfolioState, error) {
	filtered := make([]*domain.LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.OccurredAt.After(asOf) {
			filtered = append(filtered, entry)
		}
	}
	return DeriveState(filtered)
}
