package syntax

import "fmt"

// Pos represents a position in a source file.
// The zero value is an invalid position.
type Pos struct {
	line uint32 // 1-based line number
	col  uint32 // 1-based column number (byte offset in line)
}

// NewPos creates a new Pos with the given line and column.
// Line and column numbers are 1-based.
func NewPos(line, col uint32) Pos {
	return Pos{line: line, col: col}
}

// String returns a string representation of the position in the format "line:col".
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.line, p.col)
}

// IsValid reports whether the position is valid.
// A position is valid if line > 0.
func (p Pos) IsValid() bool {
	return p.line > 0
}

// Line returns the 1-based line number.
func (p Pos) Line() uint32 {
	return p.line
}

// Col returns the 1-based column number (byte offset in line).
func (p Pos) Col() uint32 {
	return p.col
}

// Span is the debug span of a token or node: the positions of its first
// and last characters, both inclusive.
type Span struct {
	Start Pos
	End   Pos
}

// String returns the span in the format "line L1:C1 to line L2:C2".
func (s Span) String() string {
	return fmt.Sprintf("line %s to line %s", s.Start, s.End)
}

// IsValid reports whether both ends of the span are valid.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid()
}

// Join returns the smallest span covering s and t.
// An invalid span is ignored.
func (s Span) Join(t Span) Span {
	if !s.IsValid() {
		return t
	}
	if !t.IsValid() {
		return s
	}
	if before(t.Start, s.Start) {
		s.Start = t.Start
	}
	if before(s.End, t.End) {
		s.End = t.End
	}
	return s
}

func before(a, b Pos) bool {
	return a.line < b.line || a.line == b.line && a.col < b.col
}
