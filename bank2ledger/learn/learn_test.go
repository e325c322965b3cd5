package learn

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/plenert/bank2ledger/bank2ledger/journal"
)

const history = `2023-07-01 * "TESCO EXPRESS 1021"
        Assets:Bank        -12.40 GBP
        Expenses:Groceries

2023-07-03 * "Shell Garage Leeds"
        Assets:Bank        -50.00 GBP
        Expenses:Fuel

2023-07-08 * "Tesco Superstore"
        Assets:Bank        -64.10 GBP
        Expenses:Groceries

2023-07-28 * "ACME LTD SALARY"
        Assets:Bank        2500.00 GBP
        Income:Salary

2023-07-30 * "Shell Garage Leeds"
        Assets:Savings        -30.00 GBP
        Expenses:Gifts
`

func trained(t *testing.T) *Model {
	t.Helper()
	transactions, err := journal.Parse(strings.NewReader(history))
	if err != nil {
		t.Fatal(err)
	}
	m, err := Train(transactions, "Assets:Bank")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestTrainAccounts(t *testing.T) {
	m := trained(t)
	want := []string{"Expenses:Fuel", "Expenses:Groceries", "Income:Salary"}
	if got := m.Accounts(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
	if m.Account() != "Assets:Bank" {
		t.Errorf("expected Assets:Bank, got %s", m.Account())
	}
}

func TestSuggest(t *testing.T) {
	m := trained(t)
	tests := []struct {
		hint    string
		account string
		ok      bool
	}{
		{"TESCO EXPRESS 123", "Expenses:Groceries", true},
		{"shell garage york", "Expenses:Fuel", true},
		{"Acme Ltd Salary July", "Income:Salary", true},
		{"Crown Cafe Bar", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		account, ok := m.Suggest(tt.hint)
		if account != tt.account || ok != tt.ok {
			t.Errorf("Suggest(%q): expected (%q, %v), got (%q, %v)", tt.hint, tt.account, tt.ok, account, ok)
		}
	}
}

func TestTrainTooFewAccounts(t *testing.T) {
	transactions, err := journal.Parse(strings.NewReader(history))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Train(transactions, "Assets:Savings"); !errors.Is(err, ErrTooFewAccounts) {
		t.Errorf("expected %v, got %v", ErrTooFewAccounts, err)
	}
	if _, err := Train(nil, "Assets:Bank"); !errors.Is(err, ErrTooFewAccounts) {
		t.Errorf("expected %v, got %v", ErrTooFewAccounts, err)
	}
}

func TestResolveAccount(t *testing.T) {
	transactions, err := journal.Parse(strings.NewReader(history))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name, want string
		err        error
	}{
		{"assets:bank", "Assets:Bank", nil},
		{"Savings", "Assets:Savings", nil},
		{"Liabilities", "", ErrNoMatchingAccount},
	}
	for _, tt := range tests {
		got, err := ResolveAccount(transactions, tt.name)
		if got != tt.want || !errors.Is(err, tt.err) {
			t.Errorf("ResolveAccount(%q): expected (%q, %v), got (%q, %v)", tt.name, tt.want, tt.err, got, err)
		}
	}
}
