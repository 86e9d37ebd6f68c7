package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// cursor is an index into the token sequence. Productions take a cursor by
// value and return the advanced one; the caller commits it only on success,
// so a failed attempt leaves no trace.
type cursor int

// parser holds the state of one Parse call.
type parser struct {
	toks  []Token
	lines []string

	// first fatal error; once set every production fails
	err *SyntaxError

	// statement forms in try order; comments are handled by stmt
	stmts []func(cursor) (Stmt, cursor, bool)
}

// Parse builds the syntax tree of the compilation unit name from its tokens.
// lines are the source lines, kept for diagnostics. The returned error is a
// *SyntaxError describing the first unmatched token.
func Parse(name string, lines []string, toks []Token) (*CompilationUnit, error) {
	p := newParser(lines, toks)
	cu := &CompilationUnit{Name: name, Lines: lines}
	cu.toks = toks

	c := cursor(0)
	for {
		if _, _, ok := p.nextRaw(c); !ok {
			break
		}
		d, nc, ok := p.decl(c)
		if !ok {
			if p.err == nil {
				p.errorAt(p.index(c, true), "unexpected token at top level")
			}
			return nil, p.err
		}
		cu.Decls = append(cu.Decls, d)
		c = nc
	}
	return cu, nil
}

// ParseLiteral parses toks as exactly one literal value, such as the
// initializer of a constant.
func ParseLiteral(toks []Token) (Literal, bool) {
	p := newParser(nil, toks)
	lit, c, ok := p.literal(0)
	if !ok || p.index(c, true) < len(toks) {
		return nil, false
	}
	return lit, true
}

func newParser(lines []string, toks []Token) *parser {
	p := &parser{toks: toks, lines: lines}
	p.stmts = []func(cursor) (Stmt, cursor, bool){
		p.blockStmt,
		p.varDeclStmt,
		p.assignStmt,
		p.incDecStmt,
		p.callStmt,
		p.whileStmt,
		p.forStmt,
		p.doWhileStmt,
		p.ifStmt,
		p.returnStmt,
		p.switchStmt,
		p.caseLabel,
		p.branchStmt,
		p.unsupportedStmt,
	}
	return p
}

// ----------------------------------------------------------------------------
// Token navigation

// index returns the index of the first token at or after c that is not
// whitespace. Comments are skipped too unless raw is set.
func (p *parser) index(c cursor, raw bool) int {
	i := int(c)
	for i < len(p.toks) {
		t := p.toks[i]
		if !t.isTrivia() || raw && t.Kind == KindComment {
			break
		}
		i++
	}
	return i
}

// next returns the next significant token and the cursor past it.
func (p *parser) next(c cursor) (Token, cursor, bool) {
	i := p.index(c, false)
	if i >= len(p.toks) {
		return Token{}, c, false
	}
	return p.toks[i], cursor(i + 1), true
}

// nextRaw is like next but returns comments instead of skipping them.
func (p *parser) nextRaw(c cursor) (Token, cursor, bool) {
	i := p.index(c, true)
	if i >= len(p.toks) {
		return Token{}, c, false
	}
	return p.toks[i], cursor(i + 1), true
}

// sep consumes the separator s.
func (p *parser) sep(c cursor, s Sep) (cursor, bool) {
	t, nc, ok := p.next(c)
	if !ok || !t.IsSep(s) {
		return c, false
	}
	return nc, true
}

// op consumes the operator o.
func (p *parser) op(c cursor, o Op) (cursor, bool) {
	t, nc, ok := p.next(c)
	if !ok || !t.IsOp(o) {
		return c, false
	}
	return nc, true
}

// keyword consumes the keyword k.
func (p *parser) keyword(c cursor, k KeywordID) (cursor, bool) {
	t, nc, ok := p.next(c)
	if !ok || !t.IsKeyword(k) {
		return c, false
	}
	return nc, true
}

// ident consumes an identifier and returns its text.
func (p *parser) ident(c cursor) (string, cursor, bool) {
	t, nc, ok := p.next(c)
	if !ok || t.Kind != KindIdentifier {
		return "", c, false
	}
	return t.Text, nc, true
}

// slice returns the tokens from the first significant one at or after from
// up to (not including) to.
func (p *parser) slice(from, to cursor) []Token {
	i := p.index(from, true)
	if i > int(to) {
		i = int(to)
	}
	return p.toks[i:to:to]
}

// ----------------------------------------------------------------------------
// Error handling

// errorAt records a fatal error at token index i. Only the first error is
// kept; the innermost failing production reports before its callers.
func (p *parser) errorAt(i int, msg string) {
	p.errorWrap(i, msg, nil)
}

func (p *parser) errorWrap(i int, msg string, cause error) {
	if p.err != nil {
		return
	}
	if len(p.toks) == 0 {
		p.err = &SyntaxError{Msg: msg, Err: cause}
		return
	}
	if i >= len(p.toks) {
		i = len(p.toks) - 1
		msg = "unexpected end of input"
	}
	t := p.toks[i]
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	p.err = &SyntaxError{
		Span:  t.Span,
		Token: t,
		Msg:   msg,
		Line:  lineText(p.lines, t.Span.Start.Line()),
		Err:   cause,
	}
}

// ----------------------------------------------------------------------------
// Top-level declarations

// decl tries the top-level forms in order.
func (p *parser) decl(c cursor) (Decl, cursor, bool) {
	if d, nc, ok := p.preprocessor(c); ok {
		return d, nc, true
	}
	if n, nc, ok := p.comment(c); ok {
		return n.(Decl), nc, true
	}
	if d, nc, ok := p.function(c); ok {
		return d, nc, true
	}
	if p.err != nil {
		return nil, c, false
	}
	if d, nc, ok := p.varDecl(c); ok {
		return d, nc, true
	}
	if d, nc, ok := p.structDecl(c); ok {
		return d, nc, true
	}
	return nil, c, false
}

// preprocessor parses a directive. It fetches raw so that a comment ahead
// of the directive is left for comment.
func (p *parser) preprocessor(c cursor) (Decl, cursor, bool) {
	t, nc, ok := p.nextRaw(c)
	if !ok || t.Kind != KindPreprocessor {
		return nil, c, false
	}
	d := &Preprocessor{Text: t.Text}
	d.toks = p.slice(c, nc)
	return d, nc, true
}

// comment parses a line or block comment. The result is both a Decl and a
// Stmt.
func (p *parser) comment(c cursor) (Node, cursor, bool) {
	t, nc, ok := p.nextRaw(c)
	if !ok || t.Kind != KindComment {
		return nil, c, false
	}
	if t.Comment == CommentLine {
		n := &LineComment{Text: t.Text}
		n.toks = p.slice(c, nc)
		return n, nc, true
	}
	n := &BlockComment{
		Lines:      strings.Split(t.Text, "\n"),
		Terminated: t.Terminated,
	}
	n.toks = p.slice(c, nc)
	return n, nc, true
}

// function parses a prototype or an implementation:
//
//	Type Name ( [Param {, Param}] ) ;
//	Type Name ( [Param {, Param}] ) Block
func (p *parser) function(c cursor) (Decl, cursor, bool) {
	sig, cur, ok := p.signature(c)
	if !ok {
		return nil, c, false
	}
	if nc, ok := p.sep(cur, Semi); ok {
		d := &FuncDecl{Signature: sig}
		d.toks = p.slice(c, nc)
		return d, nc, true
	}
	body, nc, ok := p.block(cur)
	if !ok {
		return nil, c, false
	}
	d := &FuncImpl{Signature: sig, Body: body}
	d.toks = p.slice(c, nc)
	return d, nc, true
}

func (p *parser) signature(c cursor) (Signature, cursor, bool) {
	var sig Signature
	result, cur, ok := p.typeRef(c)
	if !ok {
		return sig, c, false
	}
	name, cur, ok := p.ident(cur)
	if !ok {
		return sig, c, false
	}
	cur, ok = p.sep(cur, LParen)
	if !ok {
		return sig, c, false
	}
	sig.Result = result
	sig.Name = name

	if nc, ok := p.sep(cur, RParen); ok {
		return sig, nc, true
	}
	for {
		param, nc, ok := p.param(cur)
		if !ok {
			return sig, c, false
		}
		sig.Params = append(sig.Params, param)
		cur = nc
		if nc, ok := p.sep(cur, Comma); ok {
			cur = nc
			continue
		}
		if nc, ok := p.sep(cur, RParen); ok {
			return sig, nc, true
		}
		return sig, c, false
	}
}

// param parses Type Name [= Value].
func (p *parser) param(c cursor) (*Param, cursor, bool) {
	ty, cur, ok := p.typeRef(c)
	if !ok {
		return nil, c, false
	}
	name, cur, ok := p.ident(cur)
	if !ok {
		return nil, c, false
	}
	param := &Param{Type: ty, Name: name}
	if nc, ok := p.op(cur, Assign); ok {
		v, nc, ok := p.value(nc)
		if !ok {
			return nil, c, false
		}
		param.Default = v
		cur = nc
	}
	param.toks = p.slice(c, cur)
	return param, cur, true
}

// varDecl parses [const] Type Name [= Expr] ;
func (p *parser) varDecl(c cursor) (*VarDecl, cursor, bool) {
	cur := c
	isConst := false
	if nc, ok := p.keyword(cur, KwConst); ok {
		isConst = true
		cur = nc
	}
	ty, cur, ok := p.typeRef(cur)
	if !ok {
		return nil, c, false
	}
	name, cur, ok := p.ident(cur)
	if !ok {
		return nil, c, false
	}
	d := &VarDecl{Type: ty, Name: name, Const: isConst}
	if nc, ok := p.sep(cur, Semi); ok && !isConst {
		d.toks = p.slice(c, nc)
		return d, nc, true
	}
	cur, ok = p.assignEq(cur)
	if !ok {
		return nil, c, false
	}
	val, nc, ok := p.arithmetic(cur, Semi)
	if !ok || val.Text == "" {
		return nil, c, false
	}
	d.Init = val
	d.toks = p.slice(c, nc)
	return d, nc, true
}

// assignEq consumes a plain '=' that is not the start of "==".
func (p *parser) assignEq(c cursor) (cursor, bool) {
	nc, ok := p.op(c, Assign)
	if !ok || int(nc) < len(p.toks) && p.toks[nc].IsOp(Assign) {
		return c, false
	}
	return nc, true
}

// structDecl parses struct Name { {Field} } ;
func (p *parser) structDecl(c cursor) (Decl, cursor, bool) {
	cur, ok := p.keyword(c, KwStruct)
	if !ok {
		return nil, c, false
	}
	name, cur, ok := p.ident(cur)
	if !ok {
		return nil, c, false
	}
	cur, ok = p.sep(cur, LBrace)
	if !ok {
		return nil, c, false
	}
	d := &StructDecl{Name: name}
	for {
		if nc, ok := p.sep(cur, RBrace); ok {
			cur = nc
			break
		}
		f, nc, ok := p.varDecl(cur)
		if !ok || f.Init != nil || f.Const {
			return nil, c, false
		}
		d.Fields = append(d.Fields, f)
		cur = nc
	}
	nc, ok := p.sep(cur, Semi)
	if !ok {
		return nil, c, false
	}
	d.toks = p.slice(c, nc)
	return d, nc, true
}

// ----------------------------------------------------------------------------
// Types and values

var basicKinds = map[KeywordID]BasicKind{
	KwVoid:         Void,
	KwInt:          Int,
	KwFloat:        Float,
	KwString:       String,
	KwObject:       Object,
	KwLocation:     Location,
	KwVector:       Vector,
	KwItemProperty: ItemProperty,
	KwEffect:       Effect,
	KwTalent:       Talent,
	KwEvent:        Event,
	KwAction:       Action,
}

// typeRef parses a built-in type keyword or struct Name.
func (p *parser) typeRef(c cursor) (Type, cursor, bool) {
	t, cur, ok := p.next(c)
	if !ok || t.Kind != KindKeyword {
		return nil, c, false
	}
	if t.Keyword == KwStruct {
		name, nc, ok := p.ident(cur)
		if !ok {
			return nil, c, false
		}
		st := &StructType{Name: name}
		st.toks = p.slice(c, nc)
		return st, nc, true
	}
	kind, ok := basicKinds[t.Keyword]
	if !ok {
		return nil, c, false
	}
	bt := &BasicType{Kind: kind}
	bt.toks = p.slice(c, cur)
	return bt, cur, true
}

// value parses a literal or an identifier reference.
func (p *parser) value(c cursor) (Value, cursor, bool) {
	if v, nc, ok := p.literal(c); ok {
		return v, nc, true
	}
	name, nc, ok := p.ident(c)
	if !ok {
		return nil, c, false
	}
	lv := &Lvalue{Name: name}
	lv.toks = p.slice(c, nc)
	return lv, nc, true
}

// literal parses a number (with an optional leading '-'), a string, a
// [x, y, z] vector, OBJECT_SELF or OBJECT_INVALID.
func (p *parser) literal(c cursor) (Literal, cursor, bool) {
	t, cur, ok := p.next(c)
	if !ok {
		return nil, c, false
	}
	switch {
	case t.IsKeyword(KwObjectSelf):
		l := &ObjectSelfLiteral{}
		l.toks = p.slice(c, cur)
		return l, cur, true

	case t.IsKeyword(KwObjectInvalid):
		l := &ObjectInvalidLiteral{}
		l.toks = p.slice(c, cur)
		return l, cur, true

	case t.IsSep(LBrack):
		return p.vectorLit(c)

	case t.Kind == KindLiteral && t.Lit == StringLit:
		l := &StringLiteral{Value: unquote(t.Text, t.Terminated)}
		l.toks = p.slice(c, cur)
		return l, cur, true
	}
	return p.number(c)
}

// number parses an int or float literal with an optional leading '-'.
func (p *parser) number(c cursor) (Literal, cursor, bool) {
	t, cur, ok := p.next(c)
	if !ok {
		return nil, c, false
	}
	sign := ""
	if t.IsOp(Sub) {
		sign = "-"
		if t, cur, ok = p.next(cur); !ok {
			return nil, c, false
		}
	}
	if t.Kind != KindLiteral {
		return nil, c, false
	}
	raw := sign + t.Text
	switch t.Lit {
	case IntLit:
		v, err := parseInt(raw)
		if err != nil {
			return nil, c, false
		}
		l := &IntLiteral{Value: v, Raw: raw}
		l.toks = p.slice(c, cur)
		return l, cur, true
	case FloatLit:
		v, err := parseFloat(raw)
		if err != nil {
			return nil, c, false
		}
		l := &FloatLiteral{Value: v, Raw: raw}
		l.toks = p.slice(c, cur)
		return l, cur, true
	}
	return nil, c, false
}

// vectorLit parses [x, y, z]. An empty [] is the zero vector.
func (p *parser) vectorLit(c cursor) (Literal, cursor, bool) {
	cur, ok := p.sep(c, LBrack)
	if !ok {
		return nil, c, false
	}
	var xyz [3]float32
	if nc, ok := p.sep(cur, RBrack); ok {
		l := &VectorLiteral{}
		l.toks = p.slice(c, nc)
		return l, nc, true
	}
	for i := range xyz {
		if i > 0 {
			if cur, ok = p.sep(cur, Comma); !ok {
				return nil, c, false
			}
		}
		n, nc, ok := p.number(cur)
		if !ok {
			return nil, c, false
		}
		switch n := n.(type) {
		case *IntLiteral:
			xyz[i] = float32(n.Value)
		case *FloatLiteral:
			xyz[i] = n.Value
		}
		cur = nc
	}
	nc, ok := p.sep(cur, RBrack)
	if !ok {
		return nil, c, false
	}
	l := &VectorLiteral{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	l.toks = p.slice(c, nc)
	return l, nc, true
}

// parseInt converts decimal and 0x hex literals. Hex values above
// MaxInt32 wrap, as they do in the game's compiler.
func parseInt(s string) (int32, error) {
	digits, base := strings.TrimPrefix(s, "-"), 10
	if len(digits) > 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits, base = digits[2:], 16
	}
	if strings.HasPrefix(s, "-") {
		digits = "-" + digits
	}
	v, err := strconv.ParseInt(digits, base, 32)
	if err == nil {
		return int32(v), nil
	}
	u, uerr := strconv.ParseUint(strings.TrimPrefix(digits, "-"), base, 32)
	if uerr != nil {
		return 0, err
	}
	if strings.HasPrefix(s, "-") {
		return -int32(u), nil
	}
	return int32(u), nil
}

func parseFloat(s string) (float32, error) {
	s = strings.TrimRight(s, "fF")
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

// unquote strips the quotes of a string literal, leaving escapes as
// written. An unterminated literal has no closing quote.
func unquote(s string, terminated bool) string {
	s = strings.TrimPrefix(s, `"`)
	if terminated && s != "" {
		s = s[:len(s)-1]
	}
	return s
}
