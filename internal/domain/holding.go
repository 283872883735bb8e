package domain

// Holding is the derived, point-in-time view of one ticker position:
// how many shares are held and what the remaining shares cost under
// FIFO accounting. Holdings are always recomputed from the ledger and
// never persisted as a source of truth.
type Holding struct {
	Ticker              Ticker
	Quantity            Quantity
	CostBasis           Money
	AverageCostPerShare Money
}

// NewHolding builds a Holding from a remaining quantity and its total
// FIFO cost basis. The average cost per share is derived from the two,
// preserving the invariant cost_basis == average_cost * quantity.
func NewHolding(ticker Ticker, quantity Quantity, costBasis Money) Holding {
	avg := costBasis
	if quantity.IsPositive() {
		avg = costBasis.Div(quantity.Decimal())
	}
	return Holding{
		Ticker:              ticker,
		Quantity:            quantity,
		CostBasis:           costBasis,
		AverageCostPerShare: avg,
	}
}

// MarketValue returns the holding's value at the given per-share price.
func (h Holding) MarketValue(price Money) Money {
	return price.Mul(h.Quantity.Decimal())
}
