// Package rcparse turns raw mednafen-style configuration lines into settings.
//
// A settable line is "<path> <value>", where path is a dot-delimited section
// path ending in a key. Lines starting with ';' are comments.
package rcparse

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Setting is a parsed settable line.
type Setting struct {
	Path  string // dot-delimited setting path, e.g. "video.driver"
	Value string // verbatim remainder of the line after the separator
}

// MalformedLineError reports a line that cannot be turned into a setting.
type MalformedLineError struct {
	LineNo int // 1-based; 0 when unknown
	Line   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	if e.LineNo > 0 {
		return fmt.Sprintf("malformed line %d %q: %s", e.LineNo, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed line %q: %s", e.Line, e.Reason)
}

// Classify inspects one line (without its trailing newline).
// It returns ok=false for comments and blank lines.
func Classify(line string) (Setting, bool, error) {
	line = strings.TrimSuffix(line, "\r")

	if strings.HasPrefix(line, ";") {
		return Setting{}, false, nil
	}
	if strings.TrimSpace(line) == "" {
		return Setting{}, false, nil
	}

	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return Setting{}, false, &MalformedLineError{Line: line, Reason: "missing whitespace separator"}
	}
	if i == 0 {
		return Setting{}, false, &MalformedLineError{Line: line, Reason: "empty setting path"}
	}

	_, size := utf8.DecodeRuneInString(line[i:])
	return Setting{Path: line[:i], Value: line[i+size:]}, true, nil
}
