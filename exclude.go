package bank2ledger

import (
	"fmt"
	"strings"
)

// ExcludeRule decides whether a row is dropped before extraction.
type ExcludeRule interface {
	Excludes(row Row) (bool, error)
	String() string
}

// Operation is how ColumnContainsValue compares a field with its value.
type Operation int

const (
	Contains Operation = iota
	Equal
)

func (o Operation) String() string {
	if o == Equal {
		return "equal"
	}
	return "contains"
}

func parseOperation(s string) (Operation, error) {
	switch s {
	case "contains":
		return Contains, nil
	case "equal":
		return Equal, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

// ColumnContainsValue matches rows whose field at Column contains, or is
// equal to, Value.
type ColumnContainsValue struct {
	Column    int
	Value     string
	Operation Operation
}

func (r ColumnContainsValue) Excludes(row Row) (bool, error) {
	v, err := column(row, r.Column, "exclude")
	if err != nil {
		return false, err
	}
	if r.Operation == Equal {
		return v == r.Value, nil
	}
	return strings.Contains(v, r.Value), nil
}

func (r ColumnContainsValue) String() string {
	return fmt.Sprintf("column %d %s %q", r.Column, r.Operation, r.Value)
}

// RecordLen matches rows with exactly that many fields.
type RecordLen int

func (r RecordLen) Excludes(row Row) (bool, error) {
	return len(row) == int(r), nil
}

func (r RecordLen) String() string {
	return fmt.Sprintf("record length %d", int(r))
}

func newExcludeRule(ec ExcludeCondition) (ExcludeRule, error) {
	switch {
	case ec.RecordLen != nil:
		if *ec.RecordLen < 0 {
			return nil, ErrNegativeColumn
		}
		return RecordLen(*ec.RecordLen), nil
	case ec.Column != nil:
		if *ec.Column < 0 {
			return nil, ErrNegativeColumn
		}
		op, err := parseOperation(ec.Operation)
		if err != nil {
			return nil, err
		}
		return ColumnContainsValue{Column: *ec.Column, Value: ec.Value, Operation: op}, nil
	}
	return nil, ErrEmptyExcludeRule
}

// excludedBy returns the first rule matching row, or nil. Rules are OR-ed,
// so a rule that cannot be evaluated on row only fails the row when no other
// rule matches it.
func (c *Config) excludedBy(row Row) (ExcludeRule, error) {
	var firstErr error
	for _, rule := range c.exclude {
		excluded, err := rule.Excludes(row)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if excluded {
			return rule, nil
		}
	}
	return nil, firstErr
}

// ShouldExclude reports whether any exclusion rule matches row.
func (c *Config) ShouldExclude(row Row) (bool, error) {
	rule, err := c.excludedBy(row)
	return rule != nil, err
}
