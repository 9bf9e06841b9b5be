package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMissingSeparator is wrapped by a ParseError for a line without '='.
var ErrMissingSeparator = errors.New("missing '=' separator")

// maxLineSize bounds the length of a single line.
const maxLineSize = 1 << 20

// Assignment is one "key = value" line.
type Assignment struct {
	// Heading is the enclosing section name.
	Heading string

	// HasHeading is false for lines before the first section header.
	HasHeading bool

	// Key is the variable name.
	Key string

	// Value is the unescaped value with surrounding whitespace removed.
	Value string

	// Line is the 1-based line number.
	Line int
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads every assignment from r. Comments and blank lines are skipped.
// A non-blank line that is neither a header nor contains '=' fails the whole
// parse; source names the input in errors.
func Parse(r io.Reader, source string) ([]Assignment, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		out        []Assignment
		heading    string
		hasHeading bool
		lineNo     int
	)

	for sc.Scan() {
		lineNo++
		raw := sc.Text()
		if lineNo == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}

		line := strings.TrimSpace(stripComment(raw))
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			heading = strings.TrimSpace(line[1 : len(line)-1])
			hasHeading = true
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &ParseError{
				Path:    source,
				Line:    lineNo,
				Message: fmt.Sprintf("%v: %q", ErrMissingSeparator, line),
				Err:     ErrMissingSeparator,
			}
		}

		out = append(out, Assignment{
			Heading:    heading,
			HasHeading: hasHeading,
			Key:        strings.TrimSpace(key),
			Value:      Unescape(strings.TrimSpace(value)),
			Line:       lineNo,
		})
	}

	if err := sc.Err(); err != nil {
		return nil, &ParseError{Path: source, Line: lineNo + 1, Message: err.Error(), Err: err}
	}
	return out, nil
}
