package syntax

import "strings"

// ----------------------------------------------------------------------------
// Opaque expression capture
//
// Expressions are not decomposed. Their tokens are concatenated into text
// that can be re-emitted as is: whitespace and comments are dropped, a space
// follows every keyword and identifier, and a space is kept between two
// operators that were written apart.

// exprWriter accumulates the text of a captured expression.
type exprWriter struct {
	b      strings.Builder
	lastOp bool // previous significant token was an operator
	gap    bool // trivia seen since the previous significant token
}

func (w *exprWriter) trivia() {
	w.gap = true
}

func (w *exprWriter) token(t Token) {
	if w.gap && w.lastOp && t.Kind == KindOperator {
		w.b.WriteByte(' ')
	}
	w.b.WriteString(t.Raw())
	if t.Kind == KindKeyword || t.Kind == KindIdentifier {
		w.b.WriteByte(' ')
	}
	w.lastOp = t.Kind == KindOperator
	w.gap = false
}

func (w *exprWriter) text() string {
	return strings.TrimRight(w.b.String(), " ")
}

// arithmetic captures an expression up to the separator term at
// parenthesis depth zero and consumes the terminator. Braces and end of
// input fail the capture. The text may be empty.
func (p *parser) arithmetic(c cursor, term Sep) (*Expr, cursor, bool) {
	var w exprWriter
	depth := 0
	first, last := -1, -1
	for i := int(c); i < len(p.toks); i++ {
		t := p.toks[i]
		if t.isTrivia() {
			w.trivia()
			continue
		}
		if t.Kind == KindSeparator {
			switch {
			case t.Sep == term && depth == 0:
				x := &Expr{Kind: Arithmetic, Text: w.text()}
				if first >= 0 {
					x.toks = p.toks[first : last+1 : last+1]
				}
				return x, cursor(i + 1), true
			case t.Sep == LParen:
				depth++
			case t.Sep == RParen:
				if depth == 0 {
					return nil, c, false
				}
				depth--
			case t.Sep == LBrace || t.Sep == RBrace:
				return nil, c, false
			}
		}
		if first < 0 {
			first = i
		}
		last = i
		w.token(t)
	}
	return nil, c, false
}

// logical captures a parenthesized expression. The text excludes the outer
// parentheses. Only parentheses, commas, whitespace and the square brackets
// of vector literals may appear as separators inside.
func (p *parser) logical(c cursor) (*Expr, cursor, bool) {
	cur, ok := p.sep(c, LParen)
	if !ok {
		return nil, c, false
	}
	var w exprWriter
	depth := 1
	first := int(cur)
	for i := first; i < len(p.toks); i++ {
		t := p.toks[i]
		if t.isTrivia() {
			w.trivia()
			continue
		}
		if t.Kind == KindSeparator {
			switch t.Sep {
			case LParen:
				depth++
			case RParen:
				depth--
				if depth == 0 {
					x := &Expr{Kind: Logical, Text: w.text()}
					x.toks = p.slice(cursor(first), cursor(i))
					return x, cursor(i + 1), true
				}
			case Comma, LBrack, RBrack:
			default:
				return nil, c, false
			}
		}
		w.token(t)
	}
	return nil, c, false
}

// compound maps the first operator of a two-character assignment operator
// to its AssignOp.
var compound = map[Op]AssignOp{
	Add: AddAssign,
	Sub: SubAssign,
	Mul: MulAssign,
	Div: DivAssign,
	Mod: ModAssign,
	And: AndAssign,
	Or:  OrAssign,
}

// assignOp parses '=' or one of the compound operators. The two characters
// of a compound operator must be adjacent.
func (p *parser) assignOp(c cursor) (AssignOp, cursor, bool) {
	t, nc, ok := p.next(c)
	if !ok || t.Kind != KindOperator {
		return 0, c, false
	}
	if t.Op == Assign {
		if int(nc) < len(p.toks) && p.toks[nc].IsOp(Assign) {
			return 0, c, false // ==
		}
		return AssignEq, nc, true
	}
	op, ok := compound[t.Op]
	if !ok || int(nc) >= len(p.toks) || !p.toks[nc].IsOp(Assign) {
		return 0, c, false
	}
	return op, nc + 1, true
}
