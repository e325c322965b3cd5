package bank2ledger

import (
	"regexp"
	"strings"
)

// Rule maps hint strings matching Pattern to Account.
type Rule struct {
	Pattern *regexp.Regexp
	Account string
}

// RuleTable is an ordered list of rules. The first matching rule wins.
type RuleTable []Rule

// Match returns the account of the first rule whose pattern matches hint.
func (t RuleTable) Match(hint string) (string, bool) {
	for _, r := range t {
		if r.Pattern.MatchString(hint) {
			return r.Account, true
		}
	}
	return "", false
}

// matchFirst evaluates tables one after the other as if they were a single
// concatenated table.
func matchFirst(hint string, tables ...RuleTable) (string, bool) {
	for _, t := range tables {
		if account, ok := t.Match(hint); ok {
			return account, true
		}
	}
	return "", false
}

// joinFields joins the fields at cols with a single space.
func joinFields(row Row, cols []int, field string) (string, error) {
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		v, err := column(row, c, field)
		if err != nil {
			return "", err
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, " "), nil
}

// column returns the field at index c or a ColumnIndexError.
func column(row Row, c int, field string) (string, error) {
	if c < 0 || c >= len(row) {
		return "", &ColumnIndexError{Column: c, Width: len(row), Field: field}
	}
	return row[c], nil
}

// SecondAccount classifies hint against the expense table and, for incomes
// only, the income table after it. Incomes may still hit an expense rule,
// which is how refunds from a regular vendor land on the vendor's account.
func (c *Config) SecondAccount(hint string, polarity Polarity) (string, bool) {
	if polarity == Expense {
		return matchFirst(hint, c.expenseRules)
	}
	return matchFirst(hint, c.expenseRules, c.incomeRules)
}
