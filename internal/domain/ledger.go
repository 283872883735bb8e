package domain

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// EntryType tags the variant of a ledger entry.
type EntryType string

const (
	EntryTypeDeposit    EntryType = "DEPOSIT"
	EntryTypeWithdrawal EntryType = "WITHDRAWAL"
	EntryTypeBuy        EntryType = "BUY"
	EntryTypeSell       EntryType = "SELL"
)

// LedgerEntry is one immutable financial event in a portfolio's ledger.
// The ledger is append-only: entries are never updated or deleted.
//
// Deposit and Withdrawal carry Amount; Buy and Sell carry Ticker,
// Quantity and Price (per share). OccurredAt is the logical time of the
// event; RecordedAt is when the entry was created, which may be later
// than OccurredAt for backdated ("backtest") entries.
type LedgerEntry struct {
	ID          uuid.UUID
	PortfolioID uuid.UUID
	Type        EntryType
	Amount      Money    // DEPOSIT / WITHDRAWAL only
	Ticker      Ticker   // BUY / SELL only
	Quantity    Quantity // BUY / SELL only
	Price       Money    // BUY / SELL only, per share
	OccurredAt  time.Time
	RecordedAt  time.Time
}

// NewDeposit creates a deposit entry. The amount must be positive.
func NewDeposit(portfolioID uuid.UUID, amount Money, occurredAt time.Time) (*LedgerEntry, error) {
	return newCashEntry(EntryTypeDeposit, portfolioID, amount, occurredAt)
}

// NewWithdrawal creates a withdrawal entry. The amount must be positive.
// Whether the portfolio actually has the cash is not checked here; that
// is a cross-entry rule enforced by the command layer against the full
// ledger before the entry is appended.
func NewWithdrawal(portfolioID uuid.UUID, amount Money, occurredAt time.Time) (*LedgerEntry, error) {
	return newCashEntry(EntryTypeWithdrawal, portfolioID, amount, occurredAt)
}

func newCashEntry(entryType EntryType, portfolioID uuid.UUID, amount Money, occurredAt time.Time) (*LedgerEntry, error) {
	entry := &LedgerEntry{
		ID:          uuid.New(),
		PortfolioID: portfolioID,
		Type:        entryType,
		Amount:      amount,
		OccurredAt:  occurredAt,
		RecordedAt:  time.Now(),
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

// NewBuy creates a buy entry. Quantity and per-share price must be
// positive.
func NewBuy(portfolioID uuid.UUID, ticker Ticker, quantity Quantity, price Money, occurredAt time.Time) (*LedgerEntry, error) {
	return newTradeEntry(EntryTypeBuy, portfolioID, ticker, quantity, price, occurredAt)
}

// NewSell creates a sell entry. Quantity and per-share price must be
// positive. Whether enough shares are held is enforced by the command
// layer, not here.
func NewSell(portfolioID uuid.UUID, ticker Ticker, quantity Quantity, price Money, occurredAt time.Time) (*LedgerEntry, error) {
	return newTradeEntry(EntryTypeSell, portfolioID, ticker, quantity, price, occurredAt)
}

func newTradeEntry(entryType EntryType, portfolioID uuid.UUID, ticker Ticker, quantity Quantity, price Money, occurredAt time.Time) (*LedgerEntry, error) {
	entry := &LedgerEntry{
		ID:          uuid.New(),
		PortfolioID: portfolioID,
		Type:        entryType,
		Ticker:      ticker,
		Quantity:    quantity,
		Price:       price,
		OccurredAt:  occurredAt,
		RecordedAt:  time.Now(),
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return entry, nil
}

// Validate ensures the entry's own shape is consistent with its variant.
// Validation is context-free: it never consults other ledger entries.
func (e *LedgerEntry) Validate() error {
	if e.PortfolioID == uuid.Nil {
		return errors.New("ledger entry must reference a portfolio")
	}
	if e.OccurredAt.IsZero() {
		return errors.New("ledger entry must have an occurred_at timestamp")
	}

	switch e.Type {
	case EntryTypeDeposit, EntryTypeWithdrawal:
		if !e.Amount.IsPositive() {
			return errors.New("cash entry amount must be positive")
		}
		if !e.Ticker.IsZero() {
			return errors.New("cash entry must not carry a ticker")
		}
	case EntryTypeBuy, EntryTypeSell:
		if e.Ticker.IsZero() {
			return errors.New("trade entry must carry a ticker")
		}
		if !e.Quantity.IsPositive() {
			return errors.New("trade entry quantity must be positive")
		}
		if !e.Price.IsPositive() {
			return errors.New("trade entry price must be positive")
		}
	default:
		return errors.New("entry type must be DEPOSIT, WITHDRAWAL, BUY or SELL")
	}

	return nil
}

// TradeValue returns quantity * price for BUY/SELL entries: the cash
// cost of a buy or the gross proceeds of a sell.
func (e *LedgerEntry) TradeValue() Money {
	return e.Price.Mul(e.Quantity.Decimal())
}

// SortEntries sorts a ledger into its canonical order: occurred_at
// first, recorded_at as tie-break. The sort is stable, so entries that
// tie on both timestamps keep their insertion order. All derivations
// over a ledger depend on this order being applied, regardless of the
// order the entries were read in.
func SortEntries(entries []*LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].OccurredAt.Equal(entries[j].OccurredAt) {
			return entries[i].OccurredAt.Before(entries[j].OccurredAt)
		}
		return entries[i].RecordedAt.Before(entries[j].RecordedAt)
	})
}
