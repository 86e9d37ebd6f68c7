package syntax

import "strings"

// Scanner performs lexical analysis on NWScript source text.
//
// It works on bytes with a single forward cursor and never fails: malformed
// input falls through to Identifier, and unterminated strings and block
// comments are flagged on the token and reported to the warning handler.
type Scanner struct {
	text  string
	offs  int // current byte offset in text
	lines *lineTable

	// Current token
	tok Token

	// Kind of the previously produced token; keywords are only recognized
	// at the start of a new lexical unit.
	prevKind Kind
	hasPrev  bool

	warnh func(sp Span, msg string)
}

// NewScanner creates a new Scanner for text.
// The warnh function is called for each tolerated problem; if nil, warnings
// are silently ignored.
func NewScanner(text string, warnh func(sp Span, msg string)) *Scanner {
	return &Scanner{
		text:  text,
		lines: newLineTable(text),
		warnh: warnh,
	}
}

// Tokenize converts text into its token sequence. Concatenating the Raw
// text of the result reproduces text exactly.
func Tokenize(text string, warnh func(sp Span, msg string)) []Token {
	s := NewScanner(text, warnh)
	var toks []Token
	for s.Next() {
		toks = append(toks, s.Token())
	}
	return toks
}

// Next scans the next token. It returns false at end of input.
func (s *Scanner) Next() bool {
	if s.offs >= len(s.text) {
		return false
	}

	start := s.offs
	ch := s.text[start]
	s.tok = Token{}

	switch {
	case ch == '#' && s.atLineStart(start):
		s.scanPreprocessor()

	case ch == '/' && s.peek(1) == '/':
		s.scanLineComment()

	case ch == '/' && s.peek(1) == '*':
		s.scanBlockComment()

	case isSeparator(ch):
		s.tok.Kind = KindSeparator
		s.tok.Sep = separators[ch]
		s.offs++

	case isOperator(ch):
		s.tok.Kind = KindOperator
		s.tok.Op = operators[ch]
		s.offs++

	case ch == '"':
		s.scanString()

	case isDigit(ch):
		s.scanNumber()

	default:
		if !s.scanKeyword() {
			s.scanIdent()
		}
	}

	s.tok.Span = s.lines.span(start, s.offs)
	s.prevKind = s.tok.Kind
	s.hasPrev = true

	if !s.tok.Terminated && s.unterminable() {
		s.warn("unterminated " + s.describe())
	}
	return true
}

// Token returns the current token.
func (s *Scanner) Token() Token {
	return s.tok
}

func (s *Scanner) peek(n int) byte {
	if s.offs+n < len(s.text) {
		return s.text[s.offs+n]
	}
	return 0
}

func (s *Scanner) warn(msg string) {
	if s.warnh != nil {
		s.warnh(s.tok.Span, msg)
	}
}

// unterminable reports whether the current token carries a termination flag.
func (s *Scanner) unterminable() bool {
	return s.tok.Kind == KindComment && s.tok.Comment == CommentBlock ||
		s.tok.Kind == KindLiteral && s.tok.Lit == StringLit
}

func (s *Scanner) describe() string {
	if s.tok.Kind == KindComment {
		return "block comment"
	}
	return "string literal"
}

// atLineStart reports whether only blanks precede offs on its line.
func (s *Scanner) atLineStart(offs int) bool {
	for i := offs - 1; i >= 0; i-- {
		switch s.text[i] {
		case ' ', '\t':
			continue
		case '\n':
			return true
		}
		return false
	}
	return true
}

// scanPreprocessor scans a directive up to (not including) the newline.
func (s *Scanner) scanPreprocessor() {
	end := s.lineEnd(s.offs)
	s.tok.Kind = KindPreprocessor
	s.tok.Text = s.text[s.offs:end]
	s.offs = end
}

// scanLineComment scans // up to (not including) the newline.
func (s *Scanner) scanLineComment() {
	end := s.lineEnd(s.offs)
	s.tok.Kind = KindComment
	s.tok.Comment = CommentLine
	s.tok.Text = s.text[s.offs+2 : end]
	s.offs = end
}

// scanBlockComment scans /* through the next */, or to end of input.
func (s *Scanner) scanBlockComment() {
	s.tok.Kind = KindComment
	s.tok.Comment = CommentBlock

	body := s.offs + 2
	if i := strings.Index(s.text[body:], "*/"); i >= 0 {
		s.tok.Text = s.text[body : body+i]
		s.tok.Terminated = true
		s.offs = body + i + 2
		return
	}
	s.tok.Text = s.text[body:]
	s.offs = len(s.text)
}

// scanString scans a string literal up to the next unescaped quote.
// The token text keeps the quotes and escapes as written.
func (s *Scanner) scanString() {
	s.tok.Kind = KindLiteral
	s.tok.Lit = StringLit

	start := s.offs
	i := start + 1
	for i < len(s.text) {
		c := s.text[i]
		if c == '\\' {
			i += 2
			continue
		}
		i++
		if c == '"' {
			s.tok.Terminated = true
			break
		}
	}
	if i > len(s.text) {
		i = len(s.text)
	}
	s.tok.Text = s.text[start:i]
	s.offs = i
}

// scanNumber scans digits and at most one decimal point. A decimal point
// or an f suffix makes the literal a float; 0x introduces a hex integer.
func (s *Scanner) scanNumber() {
	s.tok.Kind = KindLiteral
	s.tok.Lit = IntLit

	start := s.offs
	i := start
	if s.text[i] == '0' && (s.peek(1) == 'x' || s.peek(1) == 'X') && s.offs+2 < len(s.text) && isHexDigit(s.text[s.offs+2]) {
		i += 2
		for i < len(s.text) && isHexDigit(s.text[i]) {
			i++
		}
		s.tok.Text = s.text[start:i]
		s.offs = i
		return
	}

	seenDot := false
	for i < len(s.text) {
		c := s.text[i]
		if c == '.' && !seenDot {
			seenDot = true
		} else if !isDigit(c) {
			break
		}
		i++
	}
	if seenDot {
		s.tok.Lit = FloatLit
	}
	if i < len(s.text) && (s.text[i] == 'f' || s.text[i] == 'F') {
		s.tok.Lit = FloatLit
		i++
	}
	s.tok.Text = s.text[start:i]
	s.offs = i
}

// scanKeyword matches the keyword table at the cursor. Keywords are only
// recognized at the start of a new lexical unit.
func (s *Scanner) scanKeyword() bool {
	if s.hasPrev && s.prevKind != KindSeparator && s.prevKind != KindOperator {
		return false
	}

	end := s.wordEnd(s.offs)
	id, ok := LookupKeyword(s.text[s.offs:end])
	if !ok {
		return false
	}
	if keywords[id].decl && (end >= len(s.text) || s.text[end] != ' ' && s.text[end] != '\t') {
		return false
	}

	s.tok.Kind = KindKeyword
	s.tok.Keyword = id
	s.offs = end
	return true
}

// scanIdent consumes characters until the next separator or operator.
func (s *Scanner) scanIdent() {
	end := s.wordEnd(s.offs + 1)
	s.tok.Kind = KindIdentifier
	s.tok.Text = s.text[s.offs:end]
	s.offs = end
}

// wordEnd returns the offset of the first separator or operator character
// at or after offs, or len(text).
func (s *Scanner) wordEnd(offs int) int {
	for offs < len(s.text) && !isSeparator(s.text[offs]) && !isOperator(s.text[offs]) {
		offs++
	}
	return offs
}

// lineEnd returns the offset of the newline ending the line containing
// offs, or len(text).
func (s *Scanner) lineEnd(offs int) int {
	if i := strings.IndexByte(s.text[offs:], '\n'); i >= 0 {
		return offs + i
	}
	return len(s.text)
}

// Character classification helpers

func isSeparator(c byte) bool {
	_, ok := separators[c]
	return ok
}

func isOperator(c byte) bool {
	_, ok := operators[c]
	return ok
}

// isDigit reports whether c is a decimal digit (0-9).
func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// isHexDigit reports whether c is a hexadecimal digit (0-9, a-f, A-F).
func isHexDigit(c byte) bool {
	return isDigit(c) || 'a' <= lower(c) && lower(c) <= 'f'
}

// lower returns the lowercase version of c if c is an ASCII letter.
func lower(c byte) byte {
	return ('a' - 'A') | c
}
