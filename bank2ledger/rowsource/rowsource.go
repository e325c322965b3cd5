// Package rowsource opens bank exports and yields their rows.
//
// The format is picked from the file extension: .xlsx workbooks, .qif
// Quicken exports, .iif QuickBooks exports, and delimited text for
// everything else. A trailing .br
// extension means the file is brotli compressed.
package rowsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/andybalholm/brotli"
	"github.com/plenert/bank2ledger"
	"github.com/plenert/bank2ledger/bank2ledger/iif"
	"github.com/plenert/bank2ledger/bank2ledger/qif"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrBadDelimiter = errors.New("delimiter must be a single character")
	ErrNoSheet      = errors.New("workbook has no sheets")
)

// Options are the reader knobs of a bank configuration.
type Options struct {
	Delimiter  string
	HasHeaders bool
	Flexible   bool
	Encoding   string
	Sheet      string
}

// OptionsFrom takes the reader knobs from s, applying the defaults: comma
// delimiter, a header row, and rows of any width.
func OptionsFrom(s bank2ledger.Settings) Options {
	opts := Options{
		Delimiter:  s.Delimiter,
		HasHeaders: true,
		Flexible:   true,
		Encoding:   s.Encoding,
		Sheet:      s.Sheet,
	}
	if s.HasHeaders != nil {
		opts.HasHeaders = *s.HasHeaders
	}
	if s.Flexible != nil {
		opts.Flexible = *s.Flexible
	}
	return opts
}

// Source is an open row reader. Close releases the underlying file.
type Source struct {
	bank2ledger.RowReader
	closers []io.Closer
}

// Close closes everything the source opened, innermost first.
func (s *Source) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open opens the export at path.
func Open(path string, opts Options) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	src := &Source{closers: []io.Closer{f}}

	var r io.Reader = f
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".br") {
		r = brotli.NewReader(r)
		name = strings.TrimSuffix(name, ".br")
	}

	switch filepath.Ext(name) {
	case ".xlsx", ".xlsm":
		x, err := NewXLSX(r, opts)
		if err != nil {
			src.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		src.RowReader = x
		src.closers = append(src.closers, x)
	case ".qif", ".iif":
		dec, err := decoder(opts.Encoding)
		if err != nil {
			src.Close()
			return nil, err
		}
		r = transform.NewReader(r, dec)
		if filepath.Ext(name) == ".qif" {
			src.RowReader = qif.NewReader(r)
		} else {
			src.RowReader = iif.NewReader(r)
		}
	default:
		rows, err := NewCSV(r, opts)
		if err != nil {
			src.Close()
			return nil, err
		}
		src.RowReader = rows
	}
	return src, nil
}

// NewCSV returns a reader over delimited text in r.
func NewCSV(r io.Reader, opts Options) (bank2ledger.RowReader, error) {
	dec, err := decoder(opts.Encoding)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(transform.NewReader(r, dec))
	if opts.Delimiter != "" {
		comma, size := utf8.DecodeRuneInString(opts.Delimiter)
		if size != len(opts.Delimiter) || comma == utf8.RuneError {
			return nil, fmt.Errorf("%w: %q", ErrBadDelimiter, opts.Delimiter)
		}
		reader.Comma = comma
	}
	if opts.Flexible {
		reader.FieldsPerRecord = -1
	}
	return skipHeader(reader, opts.HasHeaders), nil
}

// decoder returns the transformer turning the named encoding into UTF-8. A
// UTF-8 byte order mark is dropped whatever the encoding.
func decoder(name string) (transform.Transformer, error) {
	var enc encoding.Encoding
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		enc = unicode.UTF8
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	case "iso-8859-1", "latin1":
		enc = charmap.ISO8859_1
	case "iso-8859-15":
		enc = charmap.ISO8859_15
	default:
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return unicode.BOMOverride(enc.NewDecoder()), nil
}

type headerSkipper struct {
	bank2ledger.RowReader
	skipped bool
}

func (h *headerSkipper) Read() ([]string, error) {
	if !h.skipped {
		h.skipped = true
		if _, err := h.RowReader.Read(); err != nil {
			return nil, err
		}
	}
	return h.RowReader.Read()
}

func skipHeader(r bank2ledger.RowReader, hasHeaders bool) bank2ledger.RowReader {
	if !hasHeaders {
		return r
	}
	return &headerSkipper{RowReader: r}
}
