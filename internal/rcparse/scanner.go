package rcparse

import (
	"bufio"
	"io"
)

const maxLineSize = 1 << 20

// Scanner iterates over the lines of a configuration source, one at a time.
type Scanner struct {
	sc     *bufio.Scanner
	lineNo int
}

func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{sc: sc}
}

// Next advances to the next line. It returns false at end of input or on error.
func (s *Scanner) Next() bool {
	if !s.sc.Scan() {
		return false
	}
	s.lineNo++
	return true
}

// Line returns the current line without its newline.
func (s *Scanner) Line() string { return s.sc.Text() }

// LineNo returns the 1-based number of the current line.
func (s *Scanner) LineNo() int { return s.lineNo }

// Err returns the first read error, if any.
func (s *Scanner) Err() error { return s.sc.Err() }
