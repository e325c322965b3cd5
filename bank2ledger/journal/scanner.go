package journal

import (
	"bufio"
	"io"
)

// lineScanner reads a journal line by line and remembers where it is.
type lineScanner struct {
	*bufio.Scanner
	name string
	line int
}

func newLineScanner(name string, r io.Reader) *lineScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &lineScanner{Scanner: s, name: name}
}

func (s *lineScanner) Scan() bool {
	if s.Scanner.Scan() {
		s.line++
		return true
	}
	return false
}

func (s *lineScanner) Name() string { return s.name }

func (s *lineScanner) LineNumber() int { return s.line }
