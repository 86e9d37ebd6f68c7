package syntax

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewSource(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		lines []string
		text  string
	}{
		{"single line", "int x;", []string{"int x;"}, "int x;"},
		{"lf", "a\nb\n", []string{"a", "b", ""}, "a\nb\n"},
		{"crlf", "a\r\nb", []string{"a", "b"}, "a\nb"},
		{"empty", "", []string{""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSource("test.nss", strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("NewSource: %v", err)
			}
			if diff := cmp.Diff(tt.lines, src.Lines); diff != "" {
				t.Errorf("Lines mismatch (-want +got):\n%s", diff)
			}
			if src.Text() != tt.text {
				t.Errorf("Text() = %q, want %q", src.Text(), tt.text)
			}
		})
	}
}

func TestSourceLine(t *testing.T) {
	src := SourceFromLines("test.nss", []string{"first", "second"})

	tests := []struct {
		n    uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, ""},
	}
	for _, tt := range tests {
		if got := src.Line(tt.n); got != tt.want {
			t.Errorf("Line(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
	if src.Empty() {
		t.Error("Empty() = true for a non-empty source")
	}
}

func TestLineTable(t *testing.T) {
	text := "ab\ncd\n\nef"
	lt := newLineTable(text)

	tests := []struct {
		offs int
		want Pos
	}{
		{0, NewPos(1, 1)},
		{1, NewPos(1, 2)},
		{2, NewPos(1, 3)}, // the newline belongs to its line
		{3, NewPos(2, 1)},
		{6, NewPos(3, 1)},
		{7, NewPos(4, 1)},
		{8, NewPos(4, 2)},
	}
	for _, tt := range tests {
		if got := lt.pos(tt.offs); got != tt.want {
			t.Errorf("pos(%d) = %v, want %v", tt.offs, got, tt.want)
		}
	}

	// A span covering "cd" is inclusive of its last character.
	sp := lt.span(3, 5)
	if sp.Start != NewPos(2, 1) || sp.End != NewPos(2, 2) {
		t.Errorf("span(3, 5) = %v, want line 2:1 to line 2:2", sp)
	}
}
