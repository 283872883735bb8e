package trading

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/stockfolio-backend/internal/domain"
	"github.com/simaogato/stockfolio-backend/internal/usecase/calculator"
)

// TradingService is the command layer in front of the ledger. Each
// command validates the new entry's shape, enforces the cross-entry
// business rules the entry itself cannot see (sufficient funds,
// sufficient shares) against the ledger folded up to the entry's
// occurred_at, and only then appends.
type TradingService struct {
	PortfolioRepo domain.PortfolioRepository
	LedgerRepo    domain.LedgerRepository
}

// NewTradingService creates a new TradingService instance
func NewTradingService(portfolioRepo domain.PortfolioRepository, ledgerRepo domain.LedgerRepository) *TradingService {
	return &TradingService{
		PortfolioRepo: portfolioRepo,
		LedgerRepo:    ledgerRepo,
	}
}

// CreatePortfolio creates a new, empty portfolio.
func (s *TradingService) CreatePortfolio(ctx context.Context, name, baseCurrency string) (*domain.Portfolio, error) {
	portfolio, err := domain.NewPortfolio(name, baseCurrency)
	if err != nil {
		return nil, err
	}
	if err := s.PortfolioRepo.Create(ctx, portfolio); err != nil {
		return nil, err
	}
	return portfolio, nil
}

// Deposit appends a deposit entry to the portfolio's ledger.
func (s *TradingService) Deposit(ctx context.Context, portfolioID uuid.UUID, amount domain.Money, occurredAt time.Time) (*domain.LedgerEntry, error) {
	if _, err := s.fetchPortfolio(ctx, portfolioID, amount); err != nil {
		return nil, err
	}

	entry, err := domain.NewDeposit(portfolioID, amount, occurredAt)
	if err != nil {
		return nil, err
	}

	if err := s.LedgerRepo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append deposit: %w", err)
	}
	return entry, nil
}

// Withdraw appends a withdrawal entry after checking that the balance
// as of occurred_at covers the amount. Fails with
// *domain.InsufficientFundsError otherwise; nothing is appended then.
func (s *TradingService) Withdraw(ctx context.Context, portfolioID uuid.UUID, amount domain.Money, occurredAt time.Time) (*domain.LedgerEntry, error) {
	if _, err := s.fetchPortfolio(ctx, portfolioID, amount); err != nil {
		return nil, err
	}

	entry, err := domain.NewWithdrawal(portfolioID, amount, occurredAt)
	if err != nil {
		return nil, err
	}

	state, err := s.stateAsOf(ctx, portfolioID, occurredAt)
	if err != nil {
		return nil, err
	}
	if err := checkFunds(state.CashBalance, amount); err != nil {
		return nil, err
	}

	if err := s.LedgerRepo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append withdrawal: %w", err)
	}
	return entry, nil
}

// Buy appends a buy entry after checking that the balance as of
// occurred_at covers quantity * price. Fails with
// *domain.InsufficientFundsError otherwise; nothing is appended then.
func (s *TradingService) Buy(ctx context.Context, portfolioID uuid.UUID, ticker domain.Ticker, quantity domain.Quantity, price domain.Money, occurredAt time.Time) (*domain.LedgerEntry, error) {
	if _, err := s.fetchPortfolio(ctx, portfolioID, price); err != nil {
		return nil, err
	}

	entry, err := domain.NewBuy(portfolioID, ticker, quantity, price, occurredAt)
	if err != nil {
		return nil, err
	}

	state, err := s.stateAsOf(ctx, portfolioID, occurredAt)
	if err != nil {
		return nil, err
	}
	if err := checkFunds(state.CashBalance, entry.TradeValue()); err != nil {
		return nil, err
	}

	if err := s.LedgerRepo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append buy: %w", err)
	}
	return entry, nil
}

// Sell appends a sell entry after checking that the position as of
// occurred_at holds at least the requested quantity. Fails with
// *domain.InsufficientSharesError otherwise; nothing is appended then.
func (s *TradingService) Sell(ctx context.Context, portfolioID uuid.UUID, ticker domain.Ticker, quantity domain.Quantity, price domain.Money, occurredAt time.Time) (*domain.LedgerEntry, error) {
	if _, err := s.fetchPortfolio(ctx, portfolioID, price); err != nil {
		return nil, err
	}

	entry, err := domain.NewSell(portfolioID, ticker, quantity, price, occurredAt)
	if err != nil {
		return nil, err
	}

	state, err := s.stateAsOf(ctx, portfolioID, occurredAt)
	if err != nil {
		return nil, err
	}

	var held domain.Quantity
	if holding, ok := state.Holding(ticker); ok {
		held = holding.Quantity
	}
	if quantity.GreaterThan(held) {
		shortfall, _ := quantity.Sub(held)
		return nil, &domain.InsufficientSharesError{
			Ticker:    ticker,
			Available: held,
			Requested: quantity,
			Shortfall: shortfall,
		}
	}

	if err := s.LedgerRepo.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append sell: %w", err)
	}
	return entry, nil
}

// GetState folds the portfolio's ledger into its current state. When
// asOf is non-nil only entries with occurred_at <= asOf participate.
func (s *TradingService) GetState(ctx context.Context, portfolioID uuid.UUID, asOf *time.Time) (*calculator.PortfolioState, error) {
	if _, err := s.PortfolioRepo.GetByID(ctx, portfolioID); err != nil {
		return nil, err
	}

	entries, err := s.LedgerRepo.List(ctx, portfolioID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return calculator.DeriveState(entries)
}

// fetchPortfolio loads the portfolio and checks that the command's
// money is denominated in the portfolio's base currency.
func (s *TradingService) fetchPortfolio(ctx context.Context, portfolioID uuid.UUID, money domain.Money) (*domain.Portfolio, error) {
	portfolio, err := s.PortfolioRepo.GetByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if money.Currency() != portfolio.BaseCurrency {
		return nil, &domain.CurrencyMismatchError{Left: money.Currency(), Right: portfolio.BaseCurrency}
	}
	return portfolio, nil
}

// stateAsOf derives the portfolio state from entries up to and
// including the given time.
func (s *TradingService) stateAsOf(ctx context.Context, portfolioID uuid.UUID, asOf time.Time) (*calculator.PortfolioState, error) {
	entries, err := s.LedgerRepo.List(ctx, portfolioID, &asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return calculator.DeriveState(entries)
}

// checkFunds verifies that the available balance covers the required
// amount, returning *domain.InsufficientFundsError with the shortfall
// otherwise.
func checkFunds(available, required domain.Money) error {
	short, err := available.LessThan(required)
	if err != nil {
		return err
	}
	if short {
		shortfall, err := required.Sub(available)
		if err != nil {
			return err
		}
		return &domain.InsufficientFundsError{
			Available: available,
			Requested: required,
			Shortfall: shortfall,
		}
	}
	return nil
}
