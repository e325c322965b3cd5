package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/alfredxing/calc/compute"
	date "github.com/joyt/godate"
	"github.com/shopspring/decimal"
)

var ErrIncludeNotFound = errors.New("not found")

// ParseFile parses a journal file, following include directives relative
// to the file, and returns its Transactions in file order.
func ParseFile(filename string) (transactions []*Transaction, err error) {
	ifile, ierr := os.Open(filename)
	if ierr != nil {
		return nil, ierr
	}
	defer ifile.Close()

	parse(filename, ifile, func(t []*Transaction, e error) (stop bool) {
		if e != nil {
			err = e
			return true
		}
		transactions = append(transactions, t...)
		return false
	})
	return
}

// Parse parses a journal from r and returns its Transactions.
func Parse(r io.Reader) (transactions []*Transaction, err error) {
	parse("", r, func(t []*Transaction, e error) (stop bool) {
		if e != nil {
			err = e
			return true
		}
		transactions = append(transactions, t...)
		return false
	})
	return
}

// Directives whose indented sub-directives are skipped up to the next blank
// line.
var blockDirectives = map[string]bool{
	"account":   true,
	"commodity": true,
	"payee":     true,
	"tag":       true,
}

type parser struct {
	scanner *lineScanner

	dateLayout string

	strPrevDate string
	prevDateErr error
	prevDate    time.Time
}

func parse(filename string, r io.Reader, callback func(t []*Transaction, err error) (stop bool)) (stop bool) {
	lp := parser{scanner: newLineScanner(filename, r)}

	var tlist []*Transaction
	comments := []string{}
	for lp.scanner.Scan() {
		line := strings.TrimSpace(lp.scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}

		var currentComment string
		line, currentComment = cutComment(line)

		// Skip empty lines
		if line == "" {
			if currentComment != "" {
				comments = append(comments, currentComment)
			}
			continue
		}

		before, after, split := strings.Cut(line, " ")
		if !split {
			if callback(nil, lp.errorf("unable to parse transaction: %w",
				fmt.Errorf("unable to parse payee line: %s", line))) {
				return true
			}
			continue
		}

		switch {
		case blockDirectives[before]:
			lp.skipBlock()
		case before == "P":
			// market price, not a transaction
		case before == "include":
			if callback(tlist, nil) {
				return true
			}
			tlist = nil
			if lp.include(strings.TrimSpace(after), callback) {
				return true
			}
		default:
			trans, err := lp.parseTransaction(before, after, currentComment, comments)
			comments = []string{}
			if err != nil {
				if callback(nil, lp.errorf("unable to parse transaction: %w", err)) {
					return true
				}
				continue
			}
			tlist = append(tlist, trans)
		}
	}
	if err := lp.scanner.Err(); err != nil {
		callback(nil, lp.errorf("%w", err))
		return true
	}
	return callback(tlist, nil)
}

func (lp *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%s:%d: "+format, append([]any{lp.scanner.Name(), lp.scanner.LineNumber()}, args...)...)
}

func (lp *parser) include(pattern string, callback func(t []*Transaction, err error) (stop bool)) (stop bool) {
	paths, _ := filepath.Glob(filepath.Join(filepath.Dir(lp.scanner.Name()), pattern))
	if len(paths) < 1 {
		callback(nil, lp.errorf("unable to include file(%s): %w", pattern, ErrIncludeNotFound))
		return true
	}
	for _, ipath := range paths {
		ifile, err := os.Open(ipath)
		if err != nil {
			callback(nil, lp.errorf("unable to include file(%s): %w", ipath, err))
			return true
		}
		stop = parse(ipath, ifile, callback)
		ifile.Close()
		if stop {
			return true
		}
	}
	return false
}

func (lp *parser) skipBlock() {
	for lp.scanner.Scan() {
		// Read until blank line (ignore all sub-directives)
		if strings.TrimSpace(lp.scanner.Text()) == "" {
			return
		}
	}
}

// cutComment splits line at the first semicolon that is not inside a
// quoted payee.
func cutComment(line string) (content, comment string) {
	quoted := false
	for i, r := range line {
		switch r {
		case '"':
			quoted = !quoted
		case ';':
			if !quoted {
				return strings.TrimSpace(line[:i]), line[i:]
			}
		}
	}
	return line, ""
}

// Layouts tried before guessing, the ones journals are usually written in.
var journalLayouts = []string{"2006-01-02", "2006/01/02", "2006.01.02"}

func (lp *parser) parseDate(dateString string) (transDate time.Time, err error) {
	// secondary dates are not kept
	dateString, _, _ = strings.Cut(dateString, "=")

	// seen before, skip parse
	if lp.strPrevDate == dateString {
		return lp.prevDate, lp.prevDateErr
	}

	transDate, err = time.Parse(lp.dateLayout, dateString)
	if err != nil {
		for _, layout := range journalLayouts {
			if transDate, err = time.Parse(layout, dateString); err == nil {
				lp.dateLayout = layout
				break
			}
		}
	}
	if err != nil {
		// try to find new date layout
		transDate, lp.dateLayout, err = date.ParseAndGetLayout(dateString)
		if err != nil {
			err = fmt.Errorf("unable to parse date(%s): %w", dateString, err)
		}
	}

	// maybe next date is same
	lp.strPrevDate = dateString
	lp.prevDate = transDate
	lp.prevDateErr = err

	return
}

// splitPayee takes the state marker and code off a payee line.
func splitPayee(s string) (state, code, payee string) {
	s = strings.TrimSpace(s)
	if len(s) > 0 && (s[0] == '*' || s[0] == '!') {
		state, s = s[:1], strings.TrimSpace(s[1:])
	}
	if strings.HasPrefix(s, "(") {
		if end := strings.IndexByte(s, ')'); end > 0 {
			code, s = s[1:end], strings.TrimSpace(s[end+1:])
		}
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return state, code, s
}

// Regex groups:
// 1: account name
// 2: commodity before the amount
// 3: amount (number or parenthesized expression)
// 4: commodity after the amount
// 5: @@ converted amount
// 6: @ conversion rate
var postingRe = regexp.MustCompile(
	`^(?P<name>.+?)` +
		`(?:(?:\s{2,}|\t)` +
		`(?:(?P<prefix>[^\s\d\-+.(@;"]+)\s*)?` +
		`(?P<amount>[\-+]?\d[\d,]*(?:\.\d+)?|\([0-9+\-*\/. ]+\))` +
		`(?:\s*(?P<suffix>[^\s\d\-+.(@;"]+))?` +
		`(?:\s*(?:@@\s*` +
		`(?P<converted>[\-]?\d+(?:\.\d+)?)|@\s*` +
		`(?P<rate>[\-]?\d+(?:\.\d+)?)))?)?\s*$`,
)

func parseAmount(s string) (decimal.Decimal, error) {
	if strings.HasPrefix(s, "(") {
		v, err := compute.Evaluate(s)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromFloat(v), nil
	}
	s = strings.TrimPrefix(strings.ReplaceAll(s, ",", ""), "+")
	return decimal.NewFromString(s)
}

func (p *Posting) parse(line, comment string) error {
	m := postingRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return fmt.Errorf("invalid posting: %q", line)
	}

	p.Account = m[1]
	p.Comment = comment
	p.Commodity = m[2]
	if p.Commodity == "" {
		p.Commodity = m[4]
	}

	if m[3] != "" {
		amount, err := parseAmount(m[3])
		if err != nil {
			return fmt.Errorf("invalid posting amount %q: %w", m[3], err)
		}
		p.Amount = amount
	}

	// @@ explicit converted amount
	if m[5] != "" {
		conv, err := decimal.NewFromString(m[5])
		if err != nil {
			return err
		}
		p.Converted = &conv
	}

	// @ rate-based conversion
	if m[6] != "" {
		rate, err := decimal.NewFromString(m[6])
		if err != nil {
			return err
		}
		p.Rate = &rate
	}
	return nil
}

func (lp *parser) parseTransaction(dateString, payeeString, payeeComment string, comments []string) (*Transaction, error) {
	transDate, err := lp.parseDate(dateString)
	if err != nil {
		return nil, err
	}

	lines := []string{}
	for lp.scanner.Scan() {
		line := lp.scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}

	trans := &Transaction{Date: transDate, PayeeComment: payeeComment}
	trans.State, trans.Code, trans.Payee = splitPayee(payeeString)
	for _, line := range lines {
		line, postingComment := cutComment(strings.TrimSpace(line))
		if line == "" {
			comments = append(comments, postingComment)
			continue
		}

		var posting Posting
		if err := posting.parse(line, postingComment); err != nil {
			return nil, err
		}
		trans.Postings = append(trans.Postings, posting)
	}

	if len(comments) > 0 {
		trans.Comments = comments
	}

	if err := trans.IsBalanced(); err != nil {
		return nil, err
	}
	return trans, nil
}
