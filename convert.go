package bank2ledger

import (
	"bufio"
	"errors"
	"io"
)

// RowReader yields rows until it returns io.EOF. *csv.Reader is one.
type RowReader interface {
	Read() ([]string, error)
}

// EventKind classifies what happened to a row.
type EventKind int

const (
	// Excluded: an exclusion rule dropped the row.
	Excluded EventKind = iota
	// Unclassified: no rule matched a hint and a default account was used.
	Unclassified
	// Suggested: no rule matched and the Suggester picked the account.
	Suggested
	// Skipped: the row could not be converted and nothing was written.
	Skipped
)

func (k EventKind) String() string {
	switch k {
	case Excluded:
		return "excluded"
	case Unclassified:
		return "unclassified"
	case Suggested:
		return "suggested"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// Side names the account an Unclassified or Suggested event is about.
type Side string

const (
	FirstSide  Side = "first"
	SecondSide Side = "second"
)

// Event describes something noteworthy about a row. Which fields are set
// depends on Kind.
type Event struct {
	Kind EventKind
	// Line is the 1-based position of the row among the data rows.
	Line int
	Row  Row

	Rule string

	Side     Side
	Hint     string
	Polarity Polarity
	Amount   string
	Account  string

	Err error
}

// Observer receives events as rows are processed.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

type discard struct{}

func (discard) Observe(Event) {}

// Suggester proposes a second account for hints no rule matched.
type Suggester interface {
	Suggest(hint string) (account string, ok bool)
}

// Summary counts what happened during a conversion. Read equals
// Excluded + Emitted + Skipped.
type Summary struct {
	Read         int
	Excluded     int
	Emitted      int
	Skipped      int
	Unclassified int
	Suggested    int
}

// Converter turns rows into journal entries according to a Config.
type Converter struct {
	cfg       *Config
	observer  Observer
	suggester Suggester
	strict    bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithObserver sends row events to o.
func WithObserver(o Observer) Option {
	return func(c *Converter) { c.observer = o }
}

// WithSuggester consults s when no second account rule matches.
func WithSuggester(s Suggester) Option {
	return func(c *Converter) { c.suggester = s }
}

// Strict makes the first row error abort the conversion.
func Strict(strict bool) Option {
	return func(c *Converter) { c.strict = strict }
}

// NewConverter returns a Converter for cfg.
func NewConverter(cfg *Config, opts ...Option) *Converter {
	c := &Converter{cfg: cfg, observer: discard{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Entry builds the journal entry of a row that was not excluded. Row level
// problems are returned as ColumnIndexError, DateParseError or
// AmountParseError.
func (c *Converter) Entry(row Row) (*Entry, error) {
	s := &Summary{}
	return c.entry(0, row, s)
}

func (c *Converter) entry(line int, row Row, s *Summary) (*Entry, error) {
	cfg := c.cfg

	date, err := cfg.Date(row)
	if err != nil {
		return nil, err
	}
	payee, err := cfg.Payee(row)
	if err != nil {
		return nil, err
	}
	comment, _, err := cfg.Comment(row)
	if err != nil {
		return nil, err
	}
	expense, err := cfg.IsRecordExpense(row)
	if err != nil {
		return nil, err
	}
	polarity := Income
	if expense {
		polarity = Expense
	}
	amount, err := cfg.FirstAmount(row)
	if err != nil {
		return nil, err
	}
	if err := checkAmount(amount); err != nil {
		return nil, err
	}
	currency, err := cfg.Currency(row)
	if err != nil {
		return nil, err
	}

	firstAccount, firstHint, matched, err := cfg.FirstAccount(row)
	if err != nil {
		return nil, err
	}
	var events []Event
	if !matched {
		events = append(events, Event{
			Kind: Unclassified, Line: line, Row: row, Side: FirstSide,
			Hint: firstHint, Polarity: polarity, Amount: cfg.rawAmount(row), Account: firstAccount,
		})
	}

	secondHint, err := cfg.SecondAccountHint(row)
	if err != nil {
		return nil, err
	}
	secondAccount, ok := cfg.SecondAccount(secondHint, polarity)
	if !ok {
		ev := Event{
			Kind: Unclassified, Line: line, Row: row, Side: SecondSide,
			Hint: secondHint, Polarity: polarity, Amount: cfg.rawAmount(row),
			Account: cfg.defaultSecondAccount,
		}
		if c.suggester != nil {
			if suggested, ok := c.suggester.Suggest(secondHint); ok {
				ev.Kind = Suggested
				ev.Account = suggested
			}
		}
		secondAccount = ev.Account
		events = append(events, ev)
	}

	// Events are only reported for rows that are actually written.
	for _, ev := range events {
		if ev.Kind == Suggested {
			s.Suggested++
		} else {
			s.Unclassified++
		}
		c.observer.Observe(ev)
	}

	return &Entry{
		Date:          date,
		Payee:         payee,
		Comment:       comment,
		FirstAccount:  firstAccount,
		FirstAmount:   amount,
		Currency:      currency,
		SecondAccount: secondAccount,
	}, nil
}

// Convert reads rows until io.EOF and writes one entry per surviving row to
// w, flushing after every entry. Row errors are reported as Skipped events
// and counted unless the converter is strict, in which case the first one is
// returned wrapped in a RowError. Errors from rows or w end the conversion.
func (c *Converter) Convert(rows RowReader, w io.Writer) (Summary, error) {
	var s Summary
	buf := bufio.NewWriter(w)
	for {
		record, err := rows.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return s, err
		}
		s.Read++
		row := Row(record)

		rule, err := c.cfg.excludedBy(row)
		if err == nil && rule != nil {
			s.Excluded++
			c.observer.Observe(Event{Kind: Excluded, Line: s.Read, Row: row, Rule: rule.String()})
			continue
		}

		var e *Entry
		if err == nil {
			e, err = c.entry(s.Read, row, &s)
		}
		if err != nil {
			if c.strict {
				return s, &RowError{Line: s.Read, Row: row, Err: err}
			}
			s.Skipped++
			c.observer.Observe(Event{Kind: Skipped, Line: s.Read, Row: row, Err: err})
			continue
		}

		WriteEntry(buf, e)
		if err := buf.Flush(); err != nil {
			return s, err
		}
		s.Emitted++
	}
	return s, nil
}
