package bank2ledger

import (
	"time"
)

// Row is one tokenized record of a bank export. Fields are addressed by
// position and the width may differ from row to row.
type Row []string

// Entry is a single journal entry built from one bank row. An Entry has a
// Date (no time of day), a Payee, and the two sides of the double-entry pair.
// FirstAmount keeps the textual amount as found in the export, with a
// leading minus meaning money left the first account.
type Entry struct {
	Date          time.Time
	Payee         string
	Comment       string
	FirstAccount  string
	FirstAmount   string
	Currency      string
	SecondAccount string
}

// Polarity is whether a transaction is an expense or an income.
type Polarity int

const (
	Income Polarity = iota
	Expense
)

func (p Polarity) String() string {
	if p == Expense {
		return "expense"
	}
	return "income"
}

// Mapping is one (pattern, account) pair of a classification table as it
// appears in the configuration file.
type Mapping struct {
	Key   string `toml:"key" yaml:"key" validate:"required"`
	Value string `toml:"value" yaml:"value" validate:"required"`
}

// ExcludeCondition is one exclusion rule as it appears in the configuration
// file. Either RecordLen is set, or Column/Value/Operation are.
type ExcludeCondition struct {
	Column    *int   `toml:"column" yaml:"column" validate:"required_without=RecordLen,omitempty,min=0"`
	Value     string `toml:"value" yaml:"value"`
	Operation string `toml:"operation" yaml:"operation" validate:"required_with=Column,omitempty,oneof=contains equal"`
	RecordLen *int   `toml:"record_len" yaml:"record_len" validate:"required_without=Column,omitempty,min=0"`
}

// RowLayout maps journal entry fields to row positions.
type RowLayout struct {
	Date                *int  `toml:"date" yaml:"date" validate:"required,min=0"`
	Payee               *int  `toml:"payee" yaml:"payee" validate:"required,min=0"`
	FirstAmount         *int  `toml:"first_amount" yaml:"first_amount" validate:"required,min=0"`
	FirstAmountDebit    *int  `toml:"first_amount_debit" yaml:"first_amount_debit" validate:"omitempty,min=0"`
	FirstAmountCurrency *int  `toml:"first_amount_currency" yaml:"first_amount_currency" validate:"omitempty,min=0"`
	Comment             []int `toml:"comment" yaml:"comment" validate:"dive,min=0"`
	FirstAccountHint    []int `toml:"first_account_hint" yaml:"first_account_hint" validate:"dive,min=0"`
	SecondAccountHint   []int `toml:"second_account_hint" yaml:"second_account_hint" validate:"required,min=1,dive,min=0"`
}

// SecondAccountTables holds the ordered expense and income rule tables.
type SecondAccountTables struct {
	Expense []Mapping `toml:"expense" yaml:"expense" validate:"dive"`
	Income  []Mapping `toml:"income" yaml:"income" validate:"dive"`
}

// Settings is the per-institution configuration as deserialized from disk.
// It is turned into an immutable Config by Compile.
type Settings struct {
	Debug bool `toml:"debug" yaml:"debug"`

	DefaultFirstAccount  string `toml:"default_first_account" yaml:"default_first_account" validate:"required"`
	DefaultSecondAccount string `toml:"default_second_account" yaml:"default_second_account" validate:"required"`
	DefaultCurrency      string `toml:"default_currency" yaml:"default_currency"`

	// MinusIsExpense is the sign convention of the export. nil keeps the
	// sign as found.
	MinusIsExpense *bool `toml:"minus_is_expense" yaml:"minus_is_expense"`

	DateFormat string `toml:"date_format" yaml:"date_format"`
	DateRegex  string `toml:"date_regex" yaml:"date_regex"`

	Delimiter  string `toml:"delimiter" yaml:"delimiter" validate:"omitempty,len=1"`
	HasHeaders *bool  `toml:"has_headers" yaml:"has_headers"`
	Flexible   *bool  `toml:"flexible" yaml:"flexible"`
	Encoding   string `toml:"encoding" yaml:"encoding" validate:"omitempty,oneof=utf-8 utf8 windows-1252 cp1252 iso-8859-1 latin1 iso-8859-15"`
	Sheet      string `toml:"sheet" yaml:"sheet"`

	LedgerRecordToRow RowLayout `toml:"ledger_record_to_row" yaml:"ledger_record_to_row"`

	PayeeToSecondAccount           SecondAccountTables `toml:"payee_to_second_account" yaml:"payee_to_second_account"`
	FirstAccountHintToFirstAccount *[]Mapping          `toml:"first_account_hint_to_first_account" yaml:"first_account_hint_to_first_account" validate:"omitempty,dive"`
	ExcludeConditions              []ExcludeCondition  `toml:"exclude_conditions" yaml:"exclude_conditions" validate:"dive"`
}
