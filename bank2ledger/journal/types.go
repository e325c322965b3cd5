// Package journal reads plain-text ledger journals, such as the ones
// bank2ledger writes, back into transactions.
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Posting holds the account, amount and commodity of one side of a
// transaction.
type Posting struct {
	Account   string
	Amount    decimal.Decimal
	Commodity string
	Comment   string

	// Amount converted using @@ notation
	Converted *decimal.Decimal
	// Conversion rate using @ notation
	Rate *decimal.Decimal
}

// Transaction is one dated journal entry. A Transaction has a Payee, Date
// (with no time, or to put another way, with hours,minutes,seconds values
// that probably doesn't make sense), and a list of Postings that hold the
// value of the transaction for each account.
type Transaction struct {
	Date         time.Time
	State        string
	Code         string
	Payee        string
	PayeeComment string
	Postings     []Posting
	Comments     []string
}

// Touches reports whether any posting of t is to account.
func (t *Transaction) Touches(account string) bool {
	for _, p := range t.Postings {
		if p.Account == account {
			return true
		}
	}
	return false
}
