// Package qif reads non-investment Quicken Interchange Format exports and
// presents each transaction as a row with a fixed column order, so that QIF
// files can be converted with the same configuration machinery as CSV.
package qif

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Column positions of Transaction.Record.
const (
	ColDate = iota
	ColAmount
	ColPayee
	ColMemo
	ColCategory
	ColNum
	ColCleared
	ColAddress
	ColType
	ColSplitCategory
	ColSplitMemo
	ColSplitAmount
)

var ErrUnexpectedEOF = errors.New("qif: unexpected EOF while reading transaction")

// Transaction is a non-investment QIF transaction. Split lines are flattened
// to their first occurrence.
type Transaction struct {
	// Account type from the last "!Type:" header, e.g. "Bank".
	Type string

	Date     string // D
	Amount   string // T, or U when present
	Num      string // N
	Payee    string // P
	Memo     string // M, multiple lines joined with '\n'
	Addr     string // A, multiple lines joined with '\n'
	Cleared  string // C
	Category string // L

	SplitCategory string // S
	SplitMemo     string // E
	SplitAmount   string // $
}

// Record returns the transaction as a row, see the Col constants.
func (tx *Transaction) Record() []string {
	return []string{
		ColDate:     tx.Date,
		ColAmount:   tx.Amount,
		ColPayee:    tx.Payee,
		ColMemo:     tx.Memo,
		ColCategory: tx.Category,
		ColNum:      tx.Num,
		ColCleared:  tx.Cleared,
		ColAddress:  tx.Addr,
		ColType:     tx.Type,

		ColSplitCategory: tx.SplitCategory,
		ColSplitMemo:     tx.SplitMemo,
		ColSplitAmount:   tx.SplitAmount,
	}
}

// Decoder reads QIF data from an input stream one transaction at a time.
type Decoder struct {
	r       *bufio.Reader
	txType  string
	lineNum int
}

// NewDecoder returns a new QIF decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r: bufio.NewReader(r),
	}
}

// Next returns the next transaction, or io.EOF when there are no more.
func (d *Decoder) Next() (*Transaction, error) {
	for {
		line, err := d.readLine()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}

		if len(line) == 0 {
			continue
		}

		// Header / account-type line: !Type:Cash, !Type:Bank, ...
		if strings.HasPrefix(line, "!Type:") {
			d.txType = strings.TrimSpace(line[len("!Type:"):])
			continue
		}

		// A transaction starts with its 'D' date line.
		if line[0] == 'D' {
			return d.decodeTransaction(line)
		}

		// Lines outside of transactions are ignored.
	}
}

// Decode reads all remaining transactions.
func (d *Decoder) Decode() ([]*Transaction, error) {
	var transactions []*Transaction
	for {
		tx, err := d.Next()
		if err == io.EOF {
			return transactions, nil
		}
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
}

// decodeTransaction reads up to and including the '^' end marker, given the
// already read 'D' line.
func (d *Decoder) decodeTransaction(firstLine string) (*Transaction, error) {
	tx := &Transaction{
		Type: d.txType,
	}

	assignField(tx, firstLine)

	for {
		line, err := d.readLine()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("line %d: %w", d.lineNum, ErrUnexpectedEOF)
			}
			return nil, err
		}
		if len(line) == 0 {
			continue
		}
		if line[0] == '^' {
			return tx, nil
		}

		assignField(tx, line)
	}
}

// assignField updates tx based on a single QIF field line.
func assignField(tx *Transaction, line string) {
	if len(line) == 0 {
		return
	}

	prefix := line[0]
	value := line[1:]

	switch prefix {
	case 'D':
		tx.Date = value
	case 'T':
		if tx.Amount == "" {
			tx.Amount = value
		}
	case 'U':
		// Higher precision amount; if present, prefer it over T.
		tx.Amount = value
	case 'N':
		tx.Num = value
	case 'P':
		tx.Payee = value
	case 'M':
		tx.Memo = appendLine(tx.Memo, value)
	case 'A':
		tx.Addr = appendLine(tx.Addr, value)
	case 'C':
		tx.Cleared = value
	case 'L':
		tx.Category = value
	case 'S':
		if tx.SplitCategory == "" {
			tx.SplitCategory = value
		}
	case 'E':
		if tx.SplitMemo == "" {
			tx.SplitMemo = value
		}
	case '$':
		if tx.SplitAmount == "" {
			tx.SplitAmount = value
		}
	}
}

func appendLine(s, line string) string {
	if s == "" {
		return line
	}
	return s + "\n" + line
}

// readLine reads a single logical line without the trailing '\n' or '\r\n'.
func (d *Decoder) readLine() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	d.lineNum++
	line = strings.TrimRight(line, "\r\n")
	if err == io.EOF && len(line) == 0 {
		return "", io.EOF
	}
	return line, nil
}

// Reader adapts a Decoder to the row interface of encoding/csv.
type Reader struct {
	d *Decoder
}

// NewReader returns a Reader yielding one row per transaction in r.
func NewReader(r io.Reader) *Reader {
	return &Reader{d: NewDecoder(r)}
}

// Read returns the next transaction as a row, or io.EOF.
func (r *Reader) Read() ([]string, error) {
	tx, err := r.d.Next()
	if err != nil {
		return nil, err
	}
	return tx.Record(), nil
}

// ParseQIF is a convenience helper that parses all transactions from a QIF
// stream and returns them.
func ParseQIF(reader io.Reader) ([]*Transaction, error) {
	return NewDecoder(reader).Decode()
}
