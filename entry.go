package bank2ledger

import (
	"io"
)

const (
	entryDateFormat = "2006-01-02"
	indent          = "        "
	newLine         = "\n"
)

// WriteEntry writes e in journal format followed by a blank line.
func WriteEntry(w io.StringWriter, e *Entry) {
	w.WriteString(e.Date.Format(entryDateFormat))
	w.WriteString(` * "`)
	w.WriteString(e.Payee)
	w.WriteString(`"`)
	w.WriteString(newLine)
	if e.Comment != "" {
		w.WriteString(indent)
		w.WriteString("; ")
		w.WriteString(e.Comment)
		w.WriteString(newLine)
	}
	w.WriteString(indent)
	w.WriteString(e.FirstAccount)
	w.WriteString(indent)
	w.WriteString(e.FirstAmount)
	w.WriteString(" ")
	w.WriteString(e.Currency)
	w.WriteString(newLine)
	w.WriteString(indent)
	w.WriteString(e.SecondAccount)
	w.WriteString(newLine)
	w.WriteString(newLine)
}
