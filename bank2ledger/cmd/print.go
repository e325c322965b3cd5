package cmd

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/plenert/bank2ledger/bank2ledger/journal"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	transactionDateFormat = "2006-01-02"
	newLine               = "\n"
)

var columnWidth int
var columnWide bool
var payeeFilter string
var spaceStr string

// printCmd represents the print command
var printCmd = &cobra.Command{
	Use:   "print <journal> [account-substring-filter]...",
	Short: "Print journal transactions, e.g. to review what --learn will learn from",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transactions, err := journal.ParseFile(args[0])
		if err != nil {
			return err
		}

		columns := columnWidth
		if columnWide {
			columns = terminalWidth(cmd.OutOrStdout(), columns)
		}

		buf := bufio.NewWriter(cmd.OutOrStdout())
		PrintJournal(buf, transactions, args[1:], payeeFilter, columns)
		return buf.Flush()
	},
}

func init() {
	rootCmd.AddCommand(printCmd)

	printCmd.Flags().StringVar(&payeeFilter, "payee", "", "Filter output to payees that contain this string.")
	printCmd.Flags().IntVar(&columnWidth, "columns", 80, "Set a column width for output.")
	printCmd.Flags().BoolVar(&columnWide, "wide", false, "Wide output (use terminal width).")
}

func terminalWidth(w io.Writer, fallback int) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return fallback
	}
	tw, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return fallback
	}
	return tw
}

// WriteTransaction writes a transaction formatted to fit in specified column
// width.
func WriteTransaction(w io.StringWriter, trans *journal.Transaction, columns int) {
	if len(spaceStr) < max(columns, 4) {
		spaceStr = strings.Repeat(" ", max(columns, 4))
	}

	w.WriteString(trans.Date.Format(transactionDateFormat))
	if trans.State != "" {
		w.WriteString(spaceStr[:1])
		w.WriteString(trans.State)
	}
	if trans.Code != "" {
		w.WriteString(" (")
		w.WriteString(trans.Code)
		w.WriteString(")")
	}
	w.WriteString(spaceStr[:1])
	w.WriteString(trans.Payee)
	if len(trans.PayeeComment) > 0 {
		spaceCount := columns - 10 - utf8.RuneCountInString(trans.Payee)
		if spaceCount < 1 {
			spaceCount = 1
		}
		w.WriteString(spaceStr[:spaceCount])
		w.WriteString(trans.PayeeComment)
	}
	w.WriteString(newLine)
	for _, c := range trans.Comments {
		w.WriteString(spaceStr[:4])
		w.WriteString(c)
		w.WriteString(newLine)
	}
	for _, p := range trans.Postings {
		outAmount := p.Amount.StringFixedBank(2)
		if p.Commodity != "" {
			outAmount = outAmount + " " + p.Commodity
		}
		// Show converted amount (@@) or conversion rate (@) similar to hledger
		if p.Converted != nil {
			outAmount = outAmount + " @@ " + p.Converted.StringFixedBank(2)
		} else if p.Rate != nil {
			outAmount = outAmount + " @ " + p.Rate.String()
		}
		spaceCount := columns - 4 - utf8.RuneCountInString(p.Account) - utf8.RuneCountInString(outAmount)
		if spaceCount < 2 {
			spaceCount = 2
		}
		if len(spaceStr) < spaceCount {
			spaceStr = strings.Repeat(" ", spaceCount)
		}
		w.WriteString(spaceStr[:4])
		w.WriteString(p.Account)
		w.WriteString(spaceStr[:spaceCount])
		w.WriteString(outAmount)
		if len(p.Comment) > 0 {
			w.WriteString(spaceStr[:1])
			w.WriteString(p.Comment)
		}
		w.WriteString(newLine)
	}
	w.WriteString(newLine)
}

// PrintJournal writes the transactions that post to an account containing
// one of filters (all when there are none) and whose payee contains payee.
func PrintJournal(w io.StringWriter, transactions []*journal.Transaction, filters []string, payee string, columns int) {
	for _, trans := range transactions {
		if !strings.Contains(trans.Payee, payee) {
			continue
		}
		inFilter := len(filters) == 0
		for _, p := range trans.Postings {
			for _, filter := range filters {
				if strings.Contains(p.Account, filter) {
					inFilter = true
				}
			}
		}
		if inFilter {
			WriteTransaction(w, trans, columns)
		}
	}
}
