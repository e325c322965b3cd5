// Package iif reads QuickBooks Intuit Interchange Format transaction lists.
// Each TRNS..ENDTRNS group is presented as one row with a fixed column
// order, the way the qif package presents Quicken transactions.
package iif

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrEmptyHeader       = errors.New("iif: record without a header line")
	ErrUnexpectedRecord  = errors.New("iif: unexpected record type for current section")
	ErrUnexpectedEOF     = errors.New("iif: unexpected EOF while reading transaction")
	ErrMismatchedColumns = errors.New("iif: more fields than the header names")
)

// Column positions of Transaction.Record.
const (
	ColDate = iota
	ColName
	ColAmount
	ColMemo
	ColAccount
	ColType
	ColClass
	ColDocNum
	ColSplitAccount
	ColSplitMemo
)

// Field names, in Record column order up to ColDocNum.
var trnsFields = []string{"DATE", "NAME", "AMOUNT", "MEMO", "ACCNT", "TRNSTYPE", "CLASS", "DOCNUM"}

type RecordType string

const (
	TypeTrns    RecordType = "TRNS"
	TypeSpl     RecordType = "SPL"
	TypeEndTrns RecordType = "ENDTRNS"
)

// Header names the fields of the records of one type.
type Header struct {
	Type   RecordType
	Fields []string
}

// Record is one data line, its fields keyed by the header names.
type Record struct {
	Type   RecordType
	Fields map[string]string
}

// Transaction is a TRNS record with the SPL records that balance it.
type Transaction struct {
	Trns   Record
	Splits []Record
}

// Record returns the transaction as a row, see the Col constants. The split
// columns come from the first split.
func (t *Transaction) Record() []string {
	row := make([]string, ColSplitMemo+1)
	for i, name := range trnsFields {
		row[i] = t.Trns.Fields[name]
	}
	if len(t.Splits) > 0 {
		row[ColSplitAccount] = t.Splits[0].Fields["ACCNT"]
		row[ColSplitMemo] = t.Splits[0].Fields["MEMO"]
	}
	return row
}

// Decoder reads IIF records. Header lines ("!TRNS", "!SPL", ...) are
// remembered and used to name the fields of the data lines that follow.
type Decoder struct {
	r       *csv.Reader
	headers map[RecordType]Header
	line    int
}

func NewDecoder(r io.Reader) *Decoder {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = false
	reader.FieldsPerRecord = -1
	return &Decoder{r: reader, headers: make(map[RecordType]Header)}
}

// Next returns the next data record, or io.EOF.
func (d *Decoder) Next() (Record, error) {
	for {
		line, err := d.r.Read()
		if err != nil {
			return Record{}, err
		}
		d.line++
		if len(line) == 0 || strings.TrimSpace(line[0]) == "" {
			continue
		}

		if strings.HasPrefix(line[0], "!") {
			typ := RecordType(strings.TrimSpace(line[0][1:]))
			d.headers[typ] = Header{Type: typ, Fields: trimLine(line[1:])}
			continue
		}

		typ := RecordType(strings.TrimSpace(line[0]))
		h, ok := d.headers[typ]
		if !ok {
			if typ == TypeEndTrns {
				return Record{Type: typ}, nil
			}
			return Record{}, fmt.Errorf("line %d: %s: %w", d.line, typ, ErrEmptyHeader)
		}
		fields := trimLine(line[1:])
		if len(fields) > len(h.Fields) {
			return Record{}, fmt.Errorf("line %d: %s: %w", d.line, typ, ErrMismatchedColumns)
		}
		return Record{Type: typ, Fields: h.MapFields(fields)}, nil
	}
}

// NextTransaction returns the next TRNS group, skipping list records such as
// ACCNT or CUST, or io.EOF.
func (d *Decoder) NextTransaction() (*Transaction, error) {
	var tx *Transaction
	for {
		rec, err := d.Next()
		if errors.Is(err, io.EOF) {
			if tx != nil {
				return nil, ErrUnexpectedEOF
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}

		switch rec.Type {
		case TypeTrns:
			if tx != nil {
				return nil, fmt.Errorf("line %d: %s before %s: %w", d.line, rec.Type, TypeEndTrns, ErrUnexpectedRecord)
			}
			tx = &Transaction{Trns: rec}
		case TypeSpl:
			if tx == nil {
				return nil, fmt.Errorf("line %d: %s outside transaction: %w", d.line, rec.Type, ErrUnexpectedRecord)
			}
			tx.Splits = append(tx.Splits, rec)
		case TypeEndTrns:
			if tx == nil {
				return nil, fmt.Errorf("line %d: %s outside transaction: %w", d.line, rec.Type, ErrUnexpectedRecord)
			}
			return tx, nil
		default:
			if tx != nil {
				return nil, fmt.Errorf("line %d: %s inside transaction: %w", d.line, rec.Type, ErrUnexpectedRecord)
			}
		}
	}
}

// Decode reads every transaction until EOF.
func (d *Decoder) Decode() ([]*Transaction, error) {
	var out []*Transaction
	for {
		tx, err := d.NextTransaction()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
}

func (h Header) MapFields(fields []string) map[string]string {
	m := make(map[string]string, len(fields))
	for i, f := range h.Fields {
		if i >= len(fields) {
			break
		}
		m[f] = fields[i]
	}
	return m
}

func trimLine(records []string) []string {
	for i := len(records); i > 0; i-- {
		if records[i-1] != "" {
			return records[:i]
		}
	}
	return nil
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
	tx, err := r.d.NextTransaction()
	if err != nil {
		return nil, err
	}
	return tx.Record(), nil
}
