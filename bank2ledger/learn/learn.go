// Package learn suggests second accounts for payees the configured tables
// do not know, from what an existing journal already records.
package learn

import (
	"errors"
	"math"
	"slices"
	"strings"

	"github.com/jbrukh/bayesian"
	"github.com/plenert/bank2ledger/bank2ledger/journal"
)

var (
	ErrNoMatchingAccount = errors.New("unable to find matching account")
	ErrTooFewAccounts    = errors.New("need at least two counter accounts to learn from")
)

// MinScoreGap is how far, in log score, the best account must lead the
// runner-up before it is suggested.
const MinScoreGap = 10

// Model is a naive Bayes classifier from payee words to the accounts that
// were booked against the first account.
type Model struct {
	account    string
	classifier *bayesian.Classifier
}

// ResolveAccount finds the journal account named by name. An exact
// (case-insensitive) match wins, otherwise the last account containing name.
func ResolveAccount(transactions []*journal.Transaction, name string) (string, error) {
	var partial string
	lower := strings.ToLower(name)
	for _, tr := range transactions {
		for _, p := range tr.Postings {
			if strings.EqualFold(p.Account, name) {
				return p.Account, nil
			}
			if strings.Contains(strings.ToLower(p.Account), lower) {
				partial = p.Account
			}
		}
	}
	if partial == "" {
		return "", ErrNoMatchingAccount
	}
	return partial, nil
}

func words(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// Train learns from every transaction that posts to account. The payee
// words of such a transaction are learned for each of its other accounts.
func Train(transactions []*journal.Transaction, account string) (*Model, error) {
	seen := make(map[string]bool)
	for _, tr := range transactions {
		if !tr.Touches(account) {
			continue
		}
		for _, p := range tr.Postings {
			if p.Account != account {
				seen[p.Account] = true
			}
		}
	}
	if len(seen) < 2 {
		return nil, ErrTooFewAccounts
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	classes := make([]bayesian.Class, len(names))
	for i, name := range names {
		classes[i] = bayesian.Class(name)
	}

	classifier := bayesian.NewClassifier(classes...)
	for _, tr := range transactions {
		if !tr.Touches(account) {
			continue
		}
		payeeWords := words(tr.Payee)
		for _, p := range tr.Postings {
			if p.Account != account {
				classifier.Learn(payeeWords, bayesian.Class(p.Account))
			}
		}
	}

	return &Model{account: account, classifier: classifier}, nil
}

// Account is the first account the model was trained for.
func (m *Model) Account() string { return m.account }

// Accounts lists the accounts the model can suggest.
func (m *Model) Accounts() []string {
	out := make([]string, len(m.classifier.Classes))
	for i, c := range m.classifier.Classes {
		out[i] = string(c)
	}
	return out
}

// Suggest returns the account hint most likely belongs to, if the model is
// confident about it.
func (m *Model) Suggest(hint string) (string, bool) {
	hintWords := words(hint)
	if len(hintWords) == 0 {
		return "", false
	}

	// Find the highest and second highest scores
	highScore1 := math.Inf(-1)
	highScore2 := math.Inf(-1)
	matchIdx := 0
	scores, _, _ := m.classifier.LogScores(hintWords)
	for j, score := range scores {
		switch {
		case score > highScore1:
			highScore2 = highScore1
			highScore1 = score
			matchIdx = j
		case score > highScore2:
			highScore2 = score
		}
	}
	// A wide gap between the two best scores is a confident match.
	if highScore1-highScore2 > MinScoreGap {
		return string(m.classifier.Classes[matchIdx]), true
	}
	return "", false
}
