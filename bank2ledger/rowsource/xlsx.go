package rowsource

import (
	"errors"
	"io"

	"github.com/plenert/bank2ledger"
	"github.com/xuri/excelize/v2"
)

// XLSX reads the rows of one worksheet. Trailing empty cells are not
// returned, so rows may be shorter than the header.
type XLSX struct {
	file *excelize.File
	rows *excelize.Rows
	bank2ledger.RowReader
}

// NewXLSX opens the workbook in r and iterates opts.Sheet, or the first
// sheet when no sheet is named.
func NewXLSX(r io.Reader, opts Options) (*XLSX, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		f.Close()
		return nil, ErrNoSheet
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	x := &XLSX{file: f, rows: rows}
	x.RowReader = skipHeader(sheetRows{rows}, opts.HasHeaders)
	return x, nil
}

// Close releases the worksheet iterator and the workbook.
func (x *XLSX) Close() error {
	return errors.Join(x.rows.Close(), x.file.Close())
}

type sheetRows struct {
	rows *excelize.Rows
}

func (s sheetRows) Read() ([]string, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return s.rows.Columns()
}
