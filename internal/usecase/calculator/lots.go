package calculator

import (
	"github.com/simaogato/stockfolio-backend/internal/domain"
)

// lot is a single purchase of a ticker, kept for FIFO cost-basis
// accounting. Cost is the total cost of the lot (quantity * price at
// purchase), so a partial consumption removes a proportional share of
// the cost at the original purchase price.
type lot struct {
	quantity domain.Quantity
	cost     domain.Money
}

// lotQueue is the ordered purchase history of one ticker, oldest first.
type lotQueue []lot

// totalQuantity returns the quantity remaining across all lots.
func (q lotQueue) totalQuantity() domain.Quantity {
	var total domain.Quantity
	for _, l := range q {
		total = total.Add(l.quantity)
	}
	return total
}

// totalCost returns the cost basis remaining across all lots.
func (q lotQueue) totalCost() (domain.Money, error) {
	var total domain.Money
	for _, l := range q {
		sum, err := total.Add(l.cost)
		if err != nil {
			return domain.Money{}, err
		}
		total = sum
	}
	return total, nil
}

// consume removes quantityToSell from the queue front-first (FIFO):
// the oldest lot is drained before the next one is touched. A lot that
// is only partially consumed keeps its remaining quantity and a
// proportional share of its original cost. The caller must have checked
// that quantityToSell does not exceed totalQuantity.
func (q lotQueue) consume(quantityToSell domain.Quantity) (lotQueue, error) {
	remaining := make(lotQueue, 0, len(q))

	for _, current := range q {
		if quantityToSell.IsZero() {
			remaining = append(remaining, current)
			continue
		}

		if current.quantity.GreaterThan(quantityToSell) {
			// Partial sale from this lot: the consumed portion carries
			// its share of the lot's cost at the original price.
			consumedCost := current.cost.
				Mul(quantityToSell.Decimal()).
				Div(current.quantity.Decimal())
			keptQuantity, err := current.quantity.Sub(quantityToSell)
			if err != nil {
				return nil, err
			}
			keptCost, err := current.cost.Sub(consumedCost)
			if err != nil {
				return nil, err
			}
			remaining = append(remaining, lot{quantity: keptQuantity, cost: keptCost})
			quantityToSell = domain.Quantity{}
		} else {
			// Full sale of this lot.
			left, err := quantityToSell.Sub(current.quantity)
			if err != nil {
				return nil, err
			}
			quantityToSell = left
		}
	}

	return remaining, nil
}
