package syntax

import (
	"io"
	"sort"
	"strings"
)

// Source is a script loaded as an ordered sequence of lines.
// Carriage returns preceding a newline are dropped, so Text always uses
// '\n' line endings.
type Source struct {
	Name  string   // compilation unit name (base file name)
	Lines []string // source lines without line terminators
	text  string   // Lines joined with '\n'
}

// NewSource reads all of src and splits it into lines.
func NewSource(name string, src io.Reader) (*Source, error) {
	buf, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(buf), "\r\n", "\n")
	return &Source{
		Name:  name,
		Lines: strings.Split(text, "\n"),
		text:  text,
	}, nil
}

// SourceFromLines builds a Source from already split lines.
func SourceFromLines(name string, lines []string) *Source {
	return &Source{
		Name:  name,
		Lines: lines,
		text:  strings.Join(lines, "\n"),
	}
}

// Text returns the full source text.
func (s *Source) Text() string {
	return s.text
}

// Empty reports whether the source has no content at all.
func (s *Source) Empty() bool {
	return s.text == ""
}

// Line returns the text of the 1-based line n, or "" if n is out of range.
func (s *Source) Line(n uint32) string {
	return lineText(s.Lines, n)
}

func lineText(lines []string, n uint32) string {
	if n == 0 || int(n) > len(lines) {
		return ""
	}
	return lines[n-1]
}

// lineTable maps absolute byte offsets to positions. starts[i] is the
// offset of the first character of line i+1; a line's range includes its
// terminating newline.
type lineTable struct {
	starts []int
}

func newLineTable(text string) *lineTable {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineTable{starts: starts}
}

// pos returns the position of the character at offset offs.
func (t *lineTable) pos(offs int) Pos {
	i := sort.Search(len(t.starts), func(i int) bool {
		return t.starts[i] > offs
	}) - 1
	if i < 0 {
		i = 0
	}
	return NewPos(uint32(i+1), uint32(offs-t.starts[i]+1))
}

// span returns the span of the characters in [start, end).
func (t *lineTable) span(start, end int) Span {
	if end <= start {
		end = start + 1
	}
	return Span{Start: t.pos(start), End: t.pos(end - 1)}
}
