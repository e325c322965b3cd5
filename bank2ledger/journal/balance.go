package journal

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrNeedAtLeastTwoPostings        = errors.New("need at least two postings")
	ErrNoEmptyAccountForExtraBalance = errors.New("unable to balance transaction: no empty account to place extra balance")
	ErrMoreThanOneEmptyAccountInTx   = errors.New("unable to balance transaction: more than one account empty")
)

// IsBalanced returns nil if the transaction is balanced to 0, otherwise an
// error. A single posting without an amount receives the remaining balance,
// and the commodity of the other postings unless a conversion is involved.
func (t *Transaction) IsBalanced() error {
	if len(t.Postings) < 2 {
		return ErrNeedAtLeastTwoPostings
	}

	transBal := decimal.Zero
	var numEmpty int
	var emptyIndex int
	var commodity string
	var converted bool
	commodities := map[string]bool{}

	for i, p := range t.Postings {
		if p.Amount.IsZero() {
			numEmpty++
			emptyIndex = i
		} else if commodity == "" {
			commodity = p.Commodity
		}
		if p.Commodity != "" {
			commodities[p.Commodity] = true
		}

		switch {
		case p.Converted != nil:
			converted = true
			transBal = transBal.Add(p.Converted.Neg())
		case p.Rate != nil:
			converted = true
			transBal = transBal.Add(p.Amount.Mul(*p.Rate))
		default:
			transBal = transBal.Add(p.Amount)
		}
	}

	if !transBal.IsZero() {
		switch numEmpty {
		case 0:
			// Two commodities with no rate given convert into each other.
			if len(commodities) == 2 && !converted {
				return nil
			}
			return ErrNoEmptyAccountForExtraBalance
		case 1:
			// If there is a single empty account, then it is obvious where to
			// place the remaining balance.
			t.Postings[emptyIndex].Amount = transBal.Neg()
			if t.Postings[emptyIndex].Commodity == "" && !converted {
				t.Postings[emptyIndex].Commodity = commodity
			}
		default:
			return ErrMoreThanOneEmptyAccountInTx
		}
	}

	return nil
}
