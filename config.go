package bank2ledger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/patrickmn/go-cache"
)

// SignConvention says what a leading minus means in the export.
type SignConvention int

const (
	// SignUnset keeps the sign as found, a leading minus being an expense.
	SignUnset SignConvention = iota
	MinusIsExpense
	MinusIsIncome
)

func (s SignConvention) String() string {
	switch s {
	case MinusIsExpense:
		return "minus-is-expense"
	case MinusIsIncome:
		return "minus-is-income"
	}
	return "unset"
}

// Column is an optional column position.
type Column struct {
	index int
	set   bool
}

// ColumnAt returns a present column at index i.
func ColumnAt(i int) Column {
	return Column{index: i, set: true}
}

func optionalColumn(i *int) Column {
	if i == nil {
		return Column{}
	}
	return ColumnAt(*i)
}

// Get returns the column index and whether the column is configured.
func (c Column) Get() (int, bool) {
	return c.index, c.set
}

// Config is a validated, compiled Settings value. It is never modified once
// Compile returns it and may be shared by any number of conversions.
type Config struct {
	defaultFirstAccount  string
	defaultSecondAccount string
	defaultCurrency      string
	sign                 SignConvention

	dateFormat string
	dateRegex  *regexp.Regexp

	date     int
	payee    int
	amount   int
	debit    Column
	currency Column

	comment           []int
	firstAccountHint  []int
	secondAccountHint []int

	firstAccountRules RuleTable
	expenseRules      RuleTable
	incomeRules       RuleTable

	exclude []ExcludeRule
}

// Sign returns the configured sign convention.
func (c *Config) Sign() SignConvention { return c.sign }

// patterns holds compiled rule patterns keyed by source. Tables of one
// institution, and of institutions converted in the same process, tend to
// repeat the same vendor patterns. Sharing it across Configs is safe: the
// cache is synchronized, an entry is only ever set to the compilation of its
// own key, and a *regexp.Regexp may be used by concurrent goroutines.
var patterns = cache.New(cache.NoExpiration, 0)

func compilePattern(pattern string) (*regexp.Regexp, error) {
	key := "(?i)" + pattern
	if re, found := patterns.Get(key); found {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(key)
	if err != nil {
		return nil, err
	}
	patterns.Set(key, re, cache.NoExpiration)
	return re, nil
}

func compileTable(field string, mappings []Mapping) (RuleTable, error) {
	table := make(RuleTable, 0, len(mappings))
	for i, m := range mappings {
		re, err := compilePattern(m.Key)
		if err != nil {
			return nil, &ConfigError{Field: fmt.Sprintf("%s[%d].key", field, i), Err: err}
		}
		if strings.TrimSpace(m.Value) == "" {
			return nil, &ConfigError{Field: fmt.Sprintf("%s[%d].value", field, i), Err: ErrMissingAccount}
		}
		table = append(table, Rule{Pattern: re, Account: m.Value})
	}
	return table, nil
}

func requiredColumn(field string, i *int) (int, error) {
	if i == nil {
		return 0, &ConfigError{Field: field, Err: fmt.Errorf("column is required")}
	}
	if *i < 0 {
		return 0, &ConfigError{Field: field, Err: ErrNegativeColumn}
	}
	return *i, nil
}

func checkColumns(field string, cols []int) error {
	for i, c := range cols {
		if c < 0 {
			return &ConfigError{Field: fmt.Sprintf("%s[%d]", field, i), Err: ErrNegativeColumn}
		}
	}
	return nil
}

// Compile validates s and builds the Config used for a whole run. Every
// configuration problem is reported here, before any row is processed.
func Compile(s Settings) (*Config, error) {
	var err error
	cfg := &Config{
		defaultFirstAccount:  strings.TrimSpace(s.DefaultFirstAccount),
		defaultSecondAccount: strings.TrimSpace(s.DefaultSecondAccount),
		defaultCurrency:      strings.TrimSpace(s.DefaultCurrency),
		dateFormat:           s.DateFormat,
	}

	if cfg.defaultFirstAccount == "" {
		return nil, &ConfigError{Field: "default_first_account", Err: ErrMissingAccount}
	}
	if cfg.defaultSecondAccount == "" {
		return nil, &ConfigError{Field: "default_second_account", Err: ErrMissingAccount}
	}

	switch {
	case s.MinusIsExpense == nil:
		cfg.sign = SignUnset
	case *s.MinusIsExpense:
		cfg.sign = MinusIsExpense
	default:
		cfg.sign = MinusIsIncome
	}

	if s.DateRegex != "" {
		if cfg.dateRegex, err = regexp.Compile(s.DateRegex); err != nil {
			return nil, &ConfigError{Field: "date_regex", Err: err}
		}
	}

	layout := s.LedgerRecordToRow
	if cfg.date, err = requiredColumn("ledger_record_to_row.date", layout.Date); err != nil {
		return nil, err
	}
	if cfg.payee, err = requiredColumn("ledger_record_to_row.payee", layout.Payee); err != nil {
		return nil, err
	}
	if cfg.amount, err = requiredColumn("ledger_record_to_row.first_amount", layout.FirstAmount); err != nil {
		return nil, err
	}
	cfg.debit = optionalColumn(layout.FirstAmountDebit)
	cfg.currency = optionalColumn(layout.FirstAmountCurrency)
	if layout.FirstAmountDebit != nil && *layout.FirstAmountDebit < 0 {
		return nil, &ConfigError{Field: "ledger_record_to_row.first_amount_debit", Err: ErrNegativeColumn}
	}
	if layout.FirstAmountCurrency != nil && *layout.FirstAmountCurrency < 0 {
		return nil, &ConfigError{Field: "ledger_record_to_row.first_amount_currency", Err: ErrNegativeColumn}
	}
	if _, ok := cfg.currency.Get(); !ok && cfg.defaultCurrency == "" {
		return nil, &ConfigError{Field: "default_currency", Err: ErrNoCurrency}
	}

	if len(layout.SecondAccountHint) == 0 {
		return nil, &ConfigError{Field: "ledger_record_to_row.second_account_hint", Err: ErrNoSecondHint}
	}
	if err = checkColumns("ledger_record_to_row.comment", layout.Comment); err != nil {
		return nil, err
	}
	if err = checkColumns("ledger_record_to_row.first_account_hint", layout.FirstAccountHint); err != nil {
		return nil, err
	}
	if err = checkColumns("ledger_record_to_row.second_account_hint", layout.SecondAccountHint); err != nil {
		return nil, err
	}
	cfg.comment = layout.Comment
	cfg.firstAccountHint = layout.FirstAccountHint
	cfg.secondAccountHint = layout.SecondAccountHint

	if len(cfg.firstAccountHint) > 0 {
		if s.FirstAccountHintToFirstAccount == nil {
			return nil, &ConfigError{Field: "first_account_hint_to_first_account", Err: ErrMissingHintTable}
		}
		if cfg.firstAccountRules, err = compileTable("first_account_hint_to_first_account", *s.FirstAccountHintToFirstAccount); err != nil {
			return nil, err
		}
	}
	if cfg.expenseRules, err = compileTable("payee_to_second_account.expense", s.PayeeToSecondAccount.Expense); err != nil {
		return nil, err
	}
	if cfg.incomeRules, err = compileTable("payee_to_second_account.income", s.PayeeToSecondAccount.Income); err != nil {
		return nil, err
	}

	for i, ec := range s.ExcludeConditions {
		rule, err := newExcludeRule(ec)
		if err != nil {
			return nil, &ConfigError{Field: fmt.Sprintf("exclude_conditions[%d]", i), Err: err}
		}
		cfg.exclude = append(cfg.exclude, rule)
	}

	return cfg, nil
}
