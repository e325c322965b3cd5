package bank2ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// IsAmountExpense reports whether amount is an expense under sign.
func IsAmountExpense(amount string, sign SignConvention) bool {
	minus := strings.HasPrefix(cleanAmount(amount), "-")
	if sign == MinusIsIncome {
		return !minus
	}
	return minus
}

// cleanAmount trims the field and drops currency symbols and a redundant
// plus sign.
func cleanAmount(amount string) string {
	amount = strings.ReplaceAll(strings.TrimSpace(amount), "$", "")
	amount = strings.TrimPrefix(strings.TrimSpace(amount), "+")
	return strings.TrimSpace(amount)
}

// NormalizeAmount rewrites a single amount field so that a leading minus
// means expense. Only MinusIsIncome changes the sign.
func NormalizeAmount(amount string, sign SignConvention) string {
	amount = cleanAmount(amount)
	if sign != MinusIsIncome {
		return amount
	}
	if rest, ok := strings.CutPrefix(amount, "-"); ok {
		return rest
	}
	return "-" + amount
}

// IsRecordExpense reports whether row is an expense. A populated debit
// column always is, whatever its sign.
func (c *Config) IsRecordExpense(row Row) (bool, error) {
	if i, ok := c.debit.Get(); ok {
		debit, err := column(row, i, "first_amount_debit")
		if err != nil {
			return false, err
		}
		return strings.TrimSpace(debit) != "", nil
	}
	amount, err := column(row, c.amount, "first_amount")
	if err != nil {
		return false, err
	}
	return IsAmountExpense(amount, c.sign), nil
}

// FirstAmount returns the first account's amount for row in the canonical
// convention. With a debit column the credit column is taken as is and the
// debit column is negated.
func (c *Config) FirstAmount(row Row) (string, error) {
	i, ok := c.debit.Get()
	if !ok {
		amount, err := column(row, c.amount, "first_amount")
		if err != nil {
			return "", err
		}
		return NormalizeAmount(amount, c.sign), nil
	}
	debit, err := column(row, i, "first_amount_debit")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(debit) != "" {
		return NormalizeAmount(debit, MinusIsIncome), nil
	}
	credit, err := column(row, c.amount, "first_amount")
	if err != nil {
		return "", err
	}
	return NormalizeAmount(credit, MinusIsExpense), nil
}

// rawAmount is the untouched amount field that decided the row's amount.
func (c *Config) rawAmount(row Row) string {
	if i, ok := c.debit.Get(); ok && i < len(row) && strings.TrimSpace(row[i]) != "" {
		return row[i]
	}
	if c.amount < len(row) {
		return row[c.amount]
	}
	return ""
}

// checkAmount makes sure a normalized amount is a number. Thousands
// separators are accepted.
func checkAmount(amount string) error {
	if _, err := decimal.NewFromString(strings.ReplaceAll(amount, ",", "")); err != nil {
		return &AmountParseError{Value: amount, Err: err}
	}
	return nil
}

// Currency returns the currency column value, or the default currency.
func (c *Config) Currency(row Row) (string, error) {
	i, ok := c.currency.Get()
	if !ok {
		return c.defaultCurrency, nil
	}
	cur, err := column(row, i, "first_amount_currency")
	if err != nil {
		return "", err
	}
	cur = strings.TrimSpace(cur)
	if cur == "" {
		return c.defaultCurrency, nil
	}
	return cur, nil
}
