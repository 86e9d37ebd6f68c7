package syntax

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported marks a construct the parser recognizes but cannot
// represent in the syntax tree.
var ErrUnsupported = errors.New("unsupported construct")

// SyntaxError represents a fatal parse error. Parsing of a file stops at
// the first one.
type SyntaxError struct {
	Span  Span
	Token Token  // offending token
	Msg   string
	Line  string // text of the source line the span starts on
	Err   error  // optional cause, e.g. ErrUnsupported
}

func (e *SyntaxError) Error() string {
	return e.Span.Start.String() + ": " + e.Msg
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Diagnostics renders the error as human-readable lines: the message, the
// offending token, its span, the source line and a caret marker under the
// span.
func (e *SyntaxError) Diagnostics() []string {
	return []string{
		e.Msg,
		fmt.Sprintf("on token %s %q", e.Token.Kind, e.Token.Raw()),
		"at " + e.Span.String(),
		e.Line,
		caret(e.Line, e.Span),
	}
}

// caret returns a marker line with '^' under the columns covered by sp.
// Tabs in the prefix are kept so the marker lines up in a terminal.
func caret(line string, sp Span) string {
	start := int(sp.Start.Col())
	if start < 1 {
		start = 1
	}
	end := len(line)
	if sp.End.Line() == sp.Start.Line() {
		end = int(sp.End.Col())
	}
	width := end - start + 1
	if width < 1 {
		width = 1
	}

	var b strings.Builder
	for i := 0; i < start-1; i++ {
		if i < len(line) && line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}

// LexWarning is a tolerated lexical problem, such as an unterminated block
// comment. It is never fatal.
type LexWarning struct {
	Span Span
	Msg  string
}

func (w *LexWarning) Error() string {
	return w.Span.Start.String() + ": warning: " + w.Msg
}
