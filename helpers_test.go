package bank2ledger

import (
	"io"
	"testing"
)

func intp(i int) *int { return &i }

func boolp(b bool) *bool { return &b }

// settings returns the minimal configuration used across tests: date in
// column 0, payee in 1, amount in 2.
func settings() Settings {
	return Settings{
		DefaultFirstAccount:  "Assets:Bank",
		DefaultSecondAccount: "Expenses:Unknown",
		DefaultCurrency:      "GBP",
		DateFormat:           "%d/%m/%Y",
		DateRegex:            `\d{2}/\d{2}/\d{4}`,
		LedgerRecordToRow: RowLayout{
			Date:              intp(0),
			Payee:             intp(1),
			FirstAmount:       intp(2),
			SecondAccountHint: []int{1},
		},
	}
}

func mustCompile(t *testing.T, s Settings) *Config {
	t.Helper()
	cfg, err := Compile(s)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	return cfg
}

// rowSlice is a RowReader over in-memory rows.
type rowSlice struct {
	rows [][]string
	err  error
}

func (r *rowSlice) Read() ([]string, error) {
	if len(r.rows) == 0 {
		if r.err != nil {
			return nil, r.err
		}
		return nil, io.EOF
	}
	row := r.rows[0]
	r.rows = r.rows[1:]
	return row, nil
}

type recorder struct {
	events []Event
}

func (r *recorder) Observe(e Event) { r.events = append(r.events, e) }

func (r *recorder) kinds() []EventKind {
	var kinds []EventKind
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
