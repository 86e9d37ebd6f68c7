// Package syntax implements lexical and syntactic analysis for NWScript.
package syntax

import (
	"fmt"
	"strings"
)

// Kind is the kind of a lexical token.
type Kind uint8

const (
	KindPreprocessor Kind = iota // #include "nwnx"
	KindComment                  // // line or /* block */
	KindSeparator                // whitespace and punctuation: ( ) { } [ ] ; ,
	KindOperator                 // + - / * % & | ! ~ > < = ? :
	KindLiteral                  // 12, 1.5, "text"
	KindKeyword                  // if, int, OBJECT_SELF, ...
	KindIdentifier               // anything else

	kindCount
)

var kindNames = [...]string{
	KindPreprocessor: "Preprocessor",
	KindComment:      "Comment",
	KindSeparator:    "Separator",
	KindOperator:     "Operator",
	KindLiteral:      "Literal",
	KindKeyword:      "Keyword",
	KindIdentifier:   "Identifier",
}

// String returns the name of the token kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Sep identifies a separator character.
type Sep uint8

const (
	Space Sep = iota
	Tab
	NewLine
	LParen
	RParen
	LBrace
	RBrace
	LBrack
	RBrack
	Semi
	Comma
)

// Op identifies an operator character.
type Op uint8

const (
	Add Op = iota // +
	Sub           // -
	Div           // /
	Mul           // *
	Mod           // %
	And           // &
	Or            // |
	Not           // !
	Inv           // ~
	Gtr           // >
	Lss           // <
	Assign        // =
	Question      // ?
	Colon         // :
)

// separators and operators are the single-character token classes.
// They are built once and never modified.
var (
	separators = map[byte]Sep{
		' ':  Space,
		'\t': Tab,
		'\n': NewLine,
		'(':  LParen,
		')':  RParen,
		'{':  LBrace,
		'}':  RBrace,
		'[':  LBrack,
		']':  RBrack,
		';':  Semi,
		',':  Comma,
	}
	operators = map[byte]Op{
		'+': Add,
		'-': Sub,
		'/': Div,
		'*': Mul,
		'%': Mod,
		'&': And,
		'|': Or,
		'!': Not,
		'~': Inv,
		'>': Gtr,
		'<': Lss,
		'=': Assign,
		'?': Question,
		':': Colon,
	}
	sepChars = [...]byte{
		Space: ' ', Tab: '\t', NewLine: '\n',
		LParen: '(', RParen: ')', LBrace: '{', RBrace: '}', LBrack: '[', RBrack: ']',
		Semi: ';', Comma: ',',
	}
	opChars = [...]byte{
		Add: '+', Sub: '-', Div: '/', Mul: '*', Mod: '%', And: '&', Or: '|',
		Not: '!', Inv: '~', Gtr: '>', Lss: '<', Assign: '=', Question: '?', Colon: ':',
	}
)

// String returns the separator character.
func (s Sep) String() string {
	if int(s) < len(sepChars) {
		return string(sepChars[s])
	}
	return fmt.Sprintf("Sep(%d)", s)
}

// IsSpace reports whether s is a whitespace separator.
func (s Sep) IsSpace() bool {
	return s == Space || s == Tab || s == NewLine
}

// String returns the operator character.
func (o Op) String() string {
	if int(o) < len(opChars) {
		return string(opChars[o])
	}
	return fmt.Sprintf("Op(%d)", o)
}

// KeywordID identifies a keyword.
type KeywordID uint8

const (
	KwIf KeywordID = iota
	KwElse
	KwFor
	KwWhile
	KwDo
	KwSwitch
	KwBreak
	KwContinue
	KwReturn
	KwDefault
	KwCase
	KwConst
	KwVoid
	KwInt
	KwFloat
	KwString
	KwStruct
	KwObject
	KwLocation
	KwVector
	KwItemProperty
	KwEffect
	KwTalent
	KwEvent
	KwAction
	KwObjectInvalid
	KwObjectSelf

	keywordCount
)

// keywordInfo describes one entry of the closed keyword table.
type keywordInfo struct {
	text string
	// decl marks keywords that introduce a declaration; they must be
	// followed by a space or tab so that "integral" stays an identifier.
	decl bool
}

var keywords = [...]keywordInfo{
	KwIf:            {"if", false},
	KwElse:          {"else", false},
	KwFor:           {"for", false},
	KwWhile:         {"while", false},
	KwDo:            {"do", false},
	KwSwitch:        {"switch", false},
	KwBreak:         {"break", false},
	KwContinue:      {"continue", false},
	KwReturn:        {"return", false},
	KwDefault:       {"default", false},
	KwCase:          {"case", true},
	KwConst:         {"const", true},
	KwVoid:          {"void", true},
	KwInt:           {"int", true},
	KwFloat:         {"float", true},
	KwString:        {"string", true},
	KwStruct:        {"struct", true},
	KwObject:        {"object", true},
	KwLocation:      {"location", true},
	KwVector:        {"vector", true},
	KwItemProperty:  {"itemproperty", true},
	KwEffect:        {"effect", true},
	KwTalent:        {"talent", true},
	KwEvent:         {"event", true},
	KwAction:        {"action", true},
	KwObjectInvalid: {"OBJECT_INVALID", false},
	KwObjectSelf:    {"OBJECT_SELF", false},
}

// String returns the keyword text.
func (k KeywordID) String() string {
	if k < keywordCount {
		return keywords[k].text
	}
	return fmt.Sprintf("KeywordID(%d)", k)
}

// LookupKeyword returns the keyword spelled exactly as text.
func LookupKeyword(text string) (KeywordID, bool) {
	for id, kw := range keywords {
		if kw.text == text {
			return KeywordID(id), true
		}
	}
	return 0, false
}

// LitKind represents the kind of a literal token.
type LitKind uint8

const (
	IntLit    LitKind = iota // 12, 0x1F
	FloatLit                 // 1.5, 2.0f
	StringLit                // "hello"
)

var litKindNames = [...]string{
	IntLit:    "int",
	FloatLit:  "float",
	StringLit: "string",
}

// String returns the string representation of the literal kind.
func (k LitKind) String() string {
	if k <= StringLit {
		return litKindNames[k]
	}
	return fmt.Sprintf("LitKind(%d)", k)
}

// CommentKind distinguishes line and block comments.
type CommentKind uint8

const (
	CommentLine CommentKind = iota
	CommentBlock
)

// Token is a single lexical unit. Only the payload fields relevant to Kind
// are meaningful. Tokens are never modified once produced.
type Token struct {
	Kind Kind
	Span Span

	Sep     Sep         // Separator
	Op      Op          // Operator
	Keyword KeywordID   // Keyword
	Lit     LitKind     // Literal
	Comment CommentKind // KindComment

	// Text is the identifier name, the raw literal text (quotes included
	// for strings), the comment body without delimiters, or the full
	// preprocessor directive.
	Text string

	// Terminated reports whether a block comment or string literal was
	// closed before the end of input.
	Terminated bool
}

// Raw returns the exact source text the token was produced from.
func (t Token) Raw() string {
	switch t.Kind {
	case KindSeparator:
		return t.Sep.String()
	case KindOperator:
		return t.Op.String()
	case KindKeyword:
		return t.Keyword.String()
	case KindComment:
		if t.Comment == CommentLine {
			return "//" + t.Text
		}
		if t.Terminated {
			return "/*" + t.Text + "*/"
		}
		return "/*" + t.Text
	}
	return t.Text
}

// String returns a short description of the token for diagnostics.
func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Raw())
}

// IsSep reports whether t is the separator s.
func (t Token) IsSep(s Sep) bool {
	return t.Kind == KindSeparator && t.Sep == s
}

// IsOp reports whether t is the operator o.
func (t Token) IsOp(o Op) bool {
	return t.Kind == KindOperator && t.Op == o
}

// IsKeyword reports whether t is the keyword k.
func (t Token) IsKeyword(k KeywordID) bool {
	return t.Kind == KindKeyword && t.Keyword == k
}

// isTrivia reports whether t is skipped by default token fetches.
func (t Token) isTrivia() bool {
	return t.Kind == KindComment || t.Kind == KindSeparator && t.Sep.IsSpace()
}

// Reconstruct concatenates the raw text of toks.
func Reconstruct(toks []Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Raw())
	}
	return b.String()
}
