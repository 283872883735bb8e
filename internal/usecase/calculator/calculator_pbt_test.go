package calculator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/simaogato/stockfolio-backend/internal/domain"
)

// randomLedger builds a valid ledger from a slice of generated moves.
// Buys and sells are capped so every ledger is internally consistent:
// sells never exceed the running share count.
func randomLedger(portfolioID uuid.UUID, moves []int) []*domain.LedgerEntry {
	var (
		entries []*domain.LedgerEntry
		shares  int
		clock   = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	)
	tick := func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	usd := func(cents int) domain.Money {
		m, _ := domain.NewMoney(decimal.New(int64(cents), -2), "USD")
		return m
	}
	tk, _ := domain.NewTicker("PROP")

	for _, move := range moves {
		switch {
		case move >= 0 && move < 40: // deposit 1..500 dollars
			entry, _ := domain.NewDeposit(portfolioID, usd((move+1)*1250), tick())
			entries = append(entries, entry)
		case move >= 40 && move < 70: // buy 1..3 shares
			n := move%3 + 1
			q, _ := domain.NewQuantity(decimal.NewFromInt(int64(n)))
			entry, _ := domain.NewBuy(portfolioID, tk, q, usd(1000+move*7), tick())
			entries = append(entries, entry)
			shares += n
		case move >= 70 && shares > 0: // sell 1 share
			q, _ := domain.NewQuantity(decimal.NewFromInt(1))
			entry, _ := domain.NewSell(portfolioID, tk, q, usd(900+move*11), tick())
			entries = append(entries, entry)
			shares--
		}
	}
	return entries
}

func TestDeriveState_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	portfolioID := uuid.New()

	// Cash is exactly deposits minus withdrawals minus buy trade values
	// plus sell trade values, with no rounding drift.
	properties.Property("cash balance equals the signed sum of entry values", prop.ForAll(
		func(moves []int) bool {
			entries := randomLedger(portfolioID, moves)
			state, err := DeriveState(entries)
			if err != nil {
				return false
			}
			expected := decimal.Zero
			for _, entry := range entries {
				switch entry.Type {
				case domain.EntryTypeDeposit:
					expected = expected.Add(entry.Amount.Amount())
				case domain.EntryTypeWithdrawal:
					expected = expected.Sub(entry.Amount.Amount())
				case domain.EntryTypeBuy:
					expected = expected.Sub(entry.TradeValue().Amount())
				case domain.EntryTypeSell:
					expected = expected.Add(entry.TradeValue().Amount())
				}
			}
			return state.CashBalance.Amount().Equal(expected)
		},
		gen.SliceOf(gen.IntRange(0, 99)),
	))

	properties.Property("holdings never carry a non-positive quantity or negative basis", prop.ForAll(
		func(moves []int) bool {
			state, err := DeriveState(randomLedger(portfolioID, moves))
			if err != nil {
				return false
			}
			for _, holding := range state.Holdings {
				if !holding.Quantity.IsPositive() {
					return false
				}
				if holding.CostBasis.Amount().IsNegative() {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 99)),
	))

	properties.Property("replay order never changes the derived state", prop.ForAll(
		func(moves []int, seed int64) bool {
			entries := randomLedger(portfolioID, moves)
			shuffled := make([]*domain.LedgerEntry, len(entries))
			copy(shuffled, entries)
			rand.New(rand.NewSource(seed)).Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})
			a, errA := DeriveState(entries)
			b, errB := DeriveState(shuffled)
			if errA != nil || errB != nil {
				return errA != nil && errB != nil
			}
			if !a.CashBalance.Equal(b.CashBalance) || len(a.Holdings) != len(b.Holdings) {
				return false
			}
			for tk, ha := range a.Holdings {
				hb, ok := b.Holdings[tk]
				if !ok || !ha.Quantity.Equal(hb.Quantity) || !ha.CostBasis.Equal(hb.CostBasis) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 99)),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestLotQueue_ConsumeExhaustsProportionally(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	// Selling shares one at a time drains exactly the whole queue's
	// cost by the time the queue is empty.
	properties.Property("consuming every share recovers the full cost", prop.ForAll(
		func(lotSizes []int) bool {
			var (
				queue lotQueue
				count = 0
			)
			for i, size := range lotSizes {
				size = size%5 + 1
				price := decimal.NewFromInt(int64(10 + i))
				cost := price.Mul(decimal.NewFromInt(int64(size)))
				q, _ := domain.NewQuantity(decimal.NewFromInt(int64(size)))
				c, _ := domain.NewMoney(cost, "USD")
				queue = append(queue, lot{quantity: q, cost: c})
				count += size
			}
			one, _ := domain.NewQuantity(decimal.NewFromInt(1))
			for i := 0; i < count; i++ {
				var err error
				queue, err = queue.consume(one)
				if err != nil {
					return false
				}
			}
			if len(queue) != 0 || !queue.totalQuantity().IsZero() {
				return false
			}
			left, err := queue.totalCost()
			if err != nil {
				return false
			}
			return left.IsZero()
		},
		gen.SliceOfN(4, gen.IntRange(1, 20)),
	))

	properties.TestingRun(t)
}
