package journal

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type testCase struct {
	name         string
	data         string
	transactions []*Transaction
	err          string
}

func ptr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func num(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var testCases = []testCase{
	{
		name: "simple",
		data: `1970/01/01 Payee
	Expense/test  (123 * 3)
	Assets
`,
		transactions: []*Transaction{
			{
				Payee: "Payee",
				Date:  day(1970, 1, 1),
				Postings: []Posting{
					{Account: "Expense/test", Amount: num("369")},
					{Account: "Assets", Amount: num("-369")},
				},
			},
		},
	},
	{
		name: "bad payee line",
		data: `1970/01/01Payee
	Expense/test  (123 * 3)
	Assets      123
`,
		err: ":1: unable to parse transaction: unable to parse payee line: 1970/01/01Payee",
	},
	{
		name: "unbalanced error",
		data: `1970/01/01 Payee
	Expense/test  (123 * 3)
	Assets      123
`,
		err: ":3: unable to parse transaction: unable to balance transaction: no empty account to place extra balance",
	},
	{
		name: "single posting",
		data: `1970/01/01 Payee
	Assets:Account    5`,
		err: ":2: unable to parse transaction: need at least two postings",
	},
	{
		name: "no posting",
		data: `1970/01/01 Payee
`,
		err: ":1: unable to parse transaction: need at least two postings",
	},
	{
		name: "multiple empty",
		data: `1970/01/01 Payee
	Expense/test  (123 * 3)
	Wallet
	Assets      123
	Bank
`,
		err: ":5: unable to parse transaction: unable to balance transaction: more than one account empty",
	},
	{
		name: "multiple empty lines",
		data: `1970/01/01 Payee
	Expense/test  (123 * 3)
	Assets



1970/01/02 Payee
	Expense/test   123
	Assets
`,
		transactions: []*Transaction{
			{
				Payee: "Payee",
				Date:  day(1970, 1, 1),
				Postings: []Posting{
					{Account: "Expense/test", Amount: num("369")},
					{Account: "Assets", Amount: num("-369")},
				},
			},
			{
				Payee: "Payee",
				Date:  day(1970, 1, 2),
				Postings: []Posting{
					{Account: "Expense/test", Amount: num("123")},
					{Account: "Assets", Amount: num("-123")},
				},
			},
		},
	},
	{
		name: "accounts with spaces",
		data: `; Handle tabs between account and amount
; Also handle accounts with spaces
1970/01/01 Payee 5
	Expense:Cars R Us
	Expense:Cars  358.0
	Expense:Cranks	10
	Expense:Cranks Unlimited	10
	Expense:Cranks United  10
`,
		transactions: []*Transaction{
			{
				Payee: "Payee 5",
				Date:  day(1970, 1, 1),
				Postings: []Posting{
					{Account: "Expense:Cars R Us", Amount: num("-388")},
					{Account: "Expense:Cars", Amount: num("358")},
					{Account: "Expense:Cranks", Amount: num("10")},
					{Account: "Expense:Cranks Unlimited", Amount: num("10")},
					{Account: "Expense:Cranks United", Amount: num("10")},
				},
				Comments: []string{
					"; Handle tabs between account and amount",
					"; Also handle accounts with spaces",
				},
			},
		},
	},
	{
		name: "comment after payee and inside transaction",
		data: `1970-01-01 Payee      ; payee comment
	Expense/test  123
	; Expense/test  123
	Assets
`,
		transactions: []*Transaction{
			{
				Payee:        "Payee",
				Date:         day(1970, 1, 1),
				PayeeComment: "; payee comment",
				Postings: []Posting{
					{Account: "Expense/test", Amount: num("123")},
					{Account: "Assets", Amount: num("-123")},
				},
				Comments: []string{"; Expense/test  123"},
			},
		},
	},
	{
		name: "converted entry",
		data: `2023-07-29 * "Crown Cafe Bar"
        ; card 1234 | 
        Assets:Bank        -13.30 GBP
        Expenses:Food:Cafe

`,
		transactions: []*Transaction{
			{
				State: "*",
				Payee: "Crown Cafe Bar",
				Date:  day(2023, 7, 29),
				Postings: []Posting{
					{Account: "Assets:Bank", Amount: num("-13.30"), Commodity: "GBP"},
					{Account: "Expenses:Food:Cafe", Amount: num("13.30"), Commodity: "GBP"},
				},
				Comments: []string{"; card 1234 |"},
			},
		},
	},
	{
		name: "state code and quoted semicolon",
		data: `2023/01/02 ! (1042) "Rent; March"  ; paid late
    Expenses:Rent    $1,200.00
    Assets:Bank
`,
		transactions: []*Transaction{
			{
				State:        "!",
				Code:         "1042",
				Payee:        "Rent; March",
				PayeeComment: "; paid late",
				Date:         day(2023, 1, 2),
				Postings: []Posting{
					{Account: "Expenses:Rent", Amount: num("1200"), Commodity: "$"},
					{Account: "Assets:Bank", Amount: num("-1200"), Commodity: "$"},
				},
			},
		},
	},
	{
		name: "directives are skipped",
		data: `# chart of accounts
account Assets:Bank
	note current account

commodity GBP
	format 1,000.00 GBP

P 2023-01-01 EUR 0.85 GBP

2023-01-01 Opening balance
	Assets:Bank  +100 GBP
	Equity:Opening
`,
		transactions: []*Transaction{
			{
				Payee: "Opening balance",
				Date:  day(2023, 1, 1),
				Postings: []Posting{
					{Account: "Assets:Bank", Amount: num("100"), Commodity: "GBP"},
					{Account: "Equity:Opening", Amount: num("-100"), Commodity: "GBP"},
				},
			},
		},
	},
}

func compareTransactions(t *testing.T, name string, want, got []*Transaction) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("Error(%s): expected %d transactions, got %d", name, len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if !w.Date.Equal(g.Date) || w.Payee != g.Payee || w.State != g.State || w.Code != g.Code || w.PayeeComment != g.PayeeComment {
			t.Errorf("Error(%s): transaction %d: expected %+v, got %+v", name, i, w, g)
		}
		if !reflect.DeepEqual(w.Comments, g.Comments) {
			t.Errorf("Error(%s): transaction %d: expected comments %q, got %q", name, i, w.Comments, g.Comments)
		}
		if len(w.Postings) != len(g.Postings) {
			t.Errorf("Error(%s): transaction %d: expected %d postings, got %d", name, i, len(w.Postings), len(g.Postings))
			continue
		}
		for j := range w.Postings {
			wp, gp := w.Postings[j], g.Postings[j]
			if wp.Account != gp.Account || !wp.Amount.Equal(gp.Amount) || wp.Commodity != gp.Commodity {
				t.Errorf("Error(%s): posting %d.%d: expected %s %s %s, got %s %s %s", name, i, j,
					wp.Account, wp.Amount, wp.Commodity, gp.Account, gp.Amount, gp.Commodity)
			}
		}
	}
}

func TestParse(t *testing.T) {
	for _, tc := range testCases {
		transactions, err := Parse(strings.NewReader(tc.data))
		if tc.err != "" {
			if err == nil || err.Error() != tc.err {
				t.Errorf("Error(%s): expected `%s`, got `%v`", tc.name, tc.err, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Error(%s): unexpected error %v", tc.name, err)
			continue
		}
		compareTransactions(t, tc.name, tc.transactions, transactions)
	}
}

func TestParseSentinelErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("1970/01/01 Payee\n\tA  1\n\tB  1\n"))
	if !errors.Is(err, ErrNoEmptyAccountForExtraBalance) {
		t.Errorf("expected %v, got %v", ErrNoEmptyAccountForExtraBalance, err)
	}
}

func TestParseBadDate(t *testing.T) {
	_, err := Parse(strings.NewReader("not-a-date Payee\n\tA  1\n\tB\n"))
	if err == nil || !strings.Contains(err.Error(), "unable to parse date(not-a-date)") {
		t.Errorf("expected date error, got %v", err)
	}
}

func TestPostingParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Posting
	}{
		{"simple", "Expense  123", Posting{Account: "Expense", Amount: num("123")}},
		{"empty", "Expense", Posting{Account: "Expense"}},
		{"spaces", "Expense:Cranks Unlimited\t10", Posting{Account: "Expense:Cranks Unlimited", Amount: num("10")}},
		{"multiply", "Expense  (123*2)", Posting{Account: "Expense", Amount: num("246")}},
		{"negative", "Expense/test   -158", Posting{Account: "Expense/test", Amount: num("-158")}},
		{"math", "Expense:Bank of:Money  (123*2+3)", Posting{Account: "Expense:Bank of:Money", Amount: num("249")}},
		{"suffix commodity", "Assets:Bank        -13.30 GBP", Posting{Account: "Assets:Bank", Amount: num("-13.30"), Commodity: "GBP"}},
		{"prefix commodity", "Assets:Bank  EUR 5", Posting{Account: "Assets:Bank", Amount: num("5"), Commodity: "EUR"}},
		{"thousands", "Income:Salary  -2,500.00 GBP", Posting{Account: "Income:Salary", Amount: num("-2500"), Commodity: "GBP"}},
		{"converted", "Expense/test   158 @@ 200", Posting{Account: "Expense/test", Amount: num("158"), Converted: ptr(num("200"))}},
		{"conversion", "Assets:Wise:CZK        -2000.00 @ 0.5", Posting{Account: "Assets:Wise:CZK", Amount: num("-2000"), Rate: ptr(num("0.5"))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Posting
			if err := got.parse(tt.line, ""); err != nil {
				t.Fatalf("parse() failed: %v", err)
			}
			if got.Account != tt.want.Account || !got.Amount.Equal(tt.want.Amount) || got.Commodity != tt.want.Commodity {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
			if (got.Converted == nil) != (tt.want.Converted == nil) || got.Converted != nil && !got.Converted.Equal(*tt.want.Converted) {
				t.Errorf("expected converted %v, got %v", tt.want.Converted, got.Converted)
			}
			if (got.Rate == nil) != (tt.want.Rate == nil) || got.Rate != nil && !got.Rate.Equal(*tt.want.Rate) {
				t.Errorf("expected rate %v, got %v", tt.want.Rate, got.Rate)
			}
		})
	}
}

func TestSplitPayee(t *testing.T) {
	tests := []struct {
		in, state, code, payee string
	}{
		{`* "Crown Cafe Bar"`, "*", "", "Crown Cafe Bar"},
		{`! (12) Rent`, "!", "12", "Rent"},
		{`(12) Rent`, "", "12", "Rent"},
		{`Payee 5`, "", "", "Payee 5"},
		{`"`, "", "", `"`},
	}
	for _, tt := range tests {
		state, code, payee := splitPayee(tt.in)
		if state != tt.state || code != tt.code || payee != tt.payee {
			t.Errorf("splitPayee(%q): expected (%q, %q, %q), got (%q, %q, %q)", tt.in, tt.state, tt.code, tt.payee, state, code, payee)
		}
	}
}

func writeJournal(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestParseFileInclude(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.ledger")
	writeJournal(t, main, `2023-01-01 Opening
	Assets:Bank  100 GBP
	Equity:Opening

include months/*.ledger

2023-03-01 Closing
	Equity:Closing  10 GBP
	Assets:Bank
`)
	writeJournal(t, filepath.Join(dir, "months", "01.ledger"), "2023-01-15 Tesco\n\tExpenses:Groceries  20 GBP\n\tAssets:Bank\n")
	writeJournal(t, filepath.Join(dir, "months", "02.ledger"), "2023-02-15 Salary\n\tAssets:Bank  1000 GBP\n\tIncome:Salary\n")

	transactions, err := ParseFile(main)
	if err != nil {
		t.Fatal(err)
	}
	var payees []string
	for _, tr := range transactions {
		payees = append(payees, tr.Payee)
	}
	want := []string{"Opening", "Tesco", "Salary", "Closing"}
	if !reflect.DeepEqual(payees, want) {
		t.Errorf("expected %q, got %q", want, payees)
	}
}

func TestParseFileIncludeMissing(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.ledger")
	writeJournal(t, main, "include nothing/*.ledger\n")

	_, err := ParseFile(main)
	if !errors.Is(err, ErrIncludeNotFound) {
		t.Errorf("expected %v, got %v", ErrIncludeNotFound, err)
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "absent.ledger")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not exist error, got %v", err)
	}
}
