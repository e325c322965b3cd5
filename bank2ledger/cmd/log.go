package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-isatty"
	"github.com/plenert/bank2ledger"
	"github.com/rs/zerolog"
)

// useColor decides whether output to w gets ANSI colors.
func useColor(mode string, w io.Writer) (bool, error) {
	switch strings.ToLower(mode) {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false, nil
		}
		f, ok := w.(*os.File)
		if !ok {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	}
	return false, fmt.Errorf("invalid --color %q: want auto, always or never", mode)
}

// highlighter returns a function wrapping text in the 24-bit foreground
// color hex. Without color it returns text unchanged.
func highlighter(hex string, color bool) (func(string) string, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid --highlight %q: %w", hex, err)
	}
	if !color {
		return func(s string) string { return s }, nil
	}
	r, g, b := c.RGB255()
	prefix := fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
	return func(s string) string { return prefix + s + "\x1b[0m" }, nil
}

func logLevel(debug bool) zerolog.Level {
	switch {
	case quiet:
		return zerolog.ErrorLevel
	case verbose || debug:
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// newLogger writes human readable diagnostics to w.
func newLogger(w io.Writer, level zerolog.Level, color bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      !color,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(output).Level(level)
}

// eventLogger reports conversion events as log lines.
type eventLogger struct {
	log  zerolog.Logger
	mark func(string) string
}

func (l eventLogger) Observe(ev bank2ledger.Event) {
	switch ev.Kind {
	case bank2ledger.Excluded:
		l.log.Debug().
			Int("line", ev.Line).
			Str("rule", ev.Rule).
			Strs("row", ev.Row).
			Msg("row excluded")
	case bank2ledger.Unclassified:
		l.log.Warn().
			Int("line", ev.Line).
			Str("side", string(ev.Side)).
			Str("hint", l.mark(ev.Hint)).
			Stringer("polarity", ev.Polarity).
			Str("amount", ev.Amount).
			Str("account", ev.Account).
			Msg("no rule matched, using default account")
	case bank2ledger.Suggested:
		l.log.Info().
			Int("line", ev.Line).
			Str("hint", l.mark(ev.Hint)).
			Stringer("polarity", ev.Polarity).
			Str("amount", ev.Amount).
			Str("account", ev.Account).
			Msg("no rule matched, account learned from journal")
	case bank2ledger.Skipped:
		l.log.Error().
			Err(ev.Err).
			Int("line", ev.Line).
			Strs("row", ev.Row).
			Msg("row skipped")
	}
}
