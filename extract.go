package bank2ledger

import (
	"strings"
	"time"

	"github.com/itchyny/timefmt-go"
	date "github.com/joyt/godate"
)

const commentSeparator = " | "

// Date extracts and parses the date field of row. The configured regex picks
// the date out of surrounding text such as a time stamp; its first capture
// group is used when it has one.
func (c *Config) Date(row Row) (time.Time, error) {
	raw, err := column(row, c.date, "date")
	if err != nil {
		return time.Time{}, err
	}
	raw = strings.TrimSpace(raw)

	value := raw
	if c.dateRegex != nil {
		m := c.dateRegex.FindStringSubmatch(raw)
		switch {
		case m == nil || m[0] == "":
			value = ""
		case len(m) > 1 && m[1] != "":
			value = m[1]
		default:
			value = m[0]
		}
		if value == "" {
			return time.Time{}, c.dateError(raw, ErrDateNotFound)
		}
	}

	t, err := parseDate(value, c.dateFormat)
	if err != nil {
		return time.Time{}, c.dateError(value, err)
	}
	return t, nil
}

func (c *Config) dateError(value string, err error) error {
	de := &DateParseError{Value: value, Format: c.dateFormat, Err: err}
	if c.dateRegex != nil {
		de.Regex = c.dateRegex.String()
	}
	return de
}

// parseDate parses value with a strftime format (%d/%m/%Y), a Go layout
// (02/01/2006), or, when format is empty, whatever layout godate recognizes.
func parseDate(value, format string) (time.Time, error) {
	switch {
	case format == "":
		t, _, err := date.ParseAndGetLayout(value)
		return t, err
	case strings.Contains(format, "%"):
		return timefmt.Parse(value, format)
	default:
		return time.Parse(format, value)
	}
}

// Payee returns the trimmed payee field.
func (c *Config) Payee(row Row) (string, error) {
	payee, err := column(row, c.payee, "payee")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(payee), nil
}

// Comment concatenates the comment fields, each followed by " | ". ok is
// false when no comment columns are configured.
func (c *Config) Comment(row Row) (comment string, ok bool, err error) {
	if len(c.comment) == 0 {
		return "", false, nil
	}
	var b strings.Builder
	for _, i := range c.comment {
		v, err := column(row, i, "comment")
		if err != nil {
			return "", false, err
		}
		b.WriteString(v)
		b.WriteString(commentSeparator)
	}
	return b.String(), true, nil
}

// FirstAccount resolves the bank side account. Without hint columns the
// default first account is used as is. matched is false when hint columns
// are configured but no rule matched the hint.
func (c *Config) FirstAccount(row Row) (account, hint string, matched bool, err error) {
	if len(c.firstAccountHint) == 0 {
		return c.defaultFirstAccount, "", true, nil
	}
	hint, err = joinFields(row, c.firstAccountHint, "first_account_hint")
	if err != nil {
		return "", "", false, err
	}
	if account, ok := c.firstAccountRules.Match(hint); ok {
		return account, hint, true, nil
	}
	return c.defaultFirstAccount, hint, false, nil
}

// SecondAccountHint joins the second account hint fields of row.
func (c *Config) SecondAccountHint(row Row) (string, error) {
	return joinFields(row, c.secondAccountHint, "second_account_hint")
}
