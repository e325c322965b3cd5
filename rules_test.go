package bank2ledger

import (
	"testing"
)

func classifierSettings() Settings {
	s := settings()
	s.PayeeToSecondAccount = SecondAccountTables{
		Expense: []Mapping{
			{Key: "SALARY", Value: "Income:Job"},
			{Key: "TESCO", Value: "Expenses:Groceries"},
			{Key: "TESCO EXPRESS", Value: "Expenses:Snacks"},
		},
		Income: []Mapping{
			{Key: "ACME LTD", Value: "Income:Acme"},
			{Key: ".*", Value: "Income:Other"},
		},
	}
	return s
}

func TestSecondAccount(t *testing.T) {
	cfg := mustCompile(t, classifierSettings())

	tests := []struct {
		name     string
		hint     string
		polarity Polarity
		want     string
		ok       bool
	}{
		{"first match wins", "TESCO EXPRESS 123", Expense, "Expenses:Groceries", true},
		{"case insensitive", "tesco metro", Expense, "Expenses:Groceries", true},
		{"expense never reads income table", "ACME LTD", Expense, "", false},
		{"unknown vendor", "UNKNOWN VENDOR", Expense, "", false},
		{"income reads income table", "ACME LTD PAYROLL", Income, "Income:Acme", true},
		{"income refund hits expense table first", "TESCO REFUND", Income, "Expenses:Groceries", true},
		{"income catch all", "UNKNOWN VENDOR", Income, "Income:Other", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cfg.SecondAccount(tt.hint, tt.polarity)
			if ok != tt.ok || got != tt.want {
				t.Errorf("SecondAccount(%q, %v) = %q, %v, want %q, %v", tt.hint, tt.polarity, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRuleTableMatchEmpty(t *testing.T) {
	var table RuleTable
	if _, ok := table.Match("anything"); ok {
		t.Error("empty table should not match")
	}
}

func TestSecondAccountHint(t *testing.T) {
	s := settings()
	s.LedgerRecordToRow.SecondAccountHint = []int{1, 3}
	cfg := mustCompile(t, s)

	got, err := cfg.SecondAccountHint(Row{"01/01/2023", "CARD", "1.00", "TESCO"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "CARD TESCO" {
		t.Errorf("expected %q, got %q", "CARD TESCO", got)
	}
}
