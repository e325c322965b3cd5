package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/plenert/bank2ledger"
)

const summaryWidth = 40

// ruleWidth is the terminal width of w, capped to summaryWidth.
func ruleWidth(w io.Writer) int {
	if tw := terminalWidth(w, summaryWidth); tw > 0 && tw < summaryWidth {
		return tw
	}
	return summaryWidth
}

func writeSummary(w io.Writer, s bank2ledger.Summary, elapsed time.Duration) {
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth(w)))
	fmt.Fprintf(w, "read %d, emitted %d, excluded %d, skipped %d\n", s.Read, s.Emitted, s.Excluded, s.Skipped)
	if s.Unclassified > 0 || s.Suggested > 0 {
		fmt.Fprintf(w, "unclassified %d, suggested %d\n", s.Unclassified, s.Suggested)
	}
	fmt.Fprintf(w, "took %s\n", durafmt.Parse(elapsed).LimitFirstN(2))
}
