package syntax

// ----------------------------------------------------------------------------
// Blocks and statements

// block parses { {Stmt} }. Once the opening brace is consumed, a token no
// statement form accepts is fatal.
func (p *parser) block(c cursor) (*Block, cursor, bool) {
	cur, ok := p.sep(c, LBrace)
	if !ok {
		return nil, c, false
	}
	b := &Block{}
	for {
		// nextRaw, so that comments before the closing brace are kept
		if t, nc, ok := p.nextRaw(cur); ok && t.IsSep(RBrace) {
			b.toks = p.slice(c, nc)
			return b, nc, true
		}
		s, nc, ok := p.stmt(cur)
		if !ok {
			if p.err == nil {
				p.errorAt(p.index(cur, true), "unexpected token in block")
			}
			return nil, c, false
		}
		b.Stmts = append(b.Stmts, s)
		cur = nc
	}
}

// stmt tries the block-level forms in order.
func (p *parser) stmt(c cursor) (Stmt, cursor, bool) {
	if s, nc, ok := p.commentStmt(c); ok {
		return s, nc, true
	}
	return p.try(c, p.stmts)
}

// try returns the first of forms that matches at c.
func (p *parser) try(c cursor, forms []func(cursor) (Stmt, cursor, bool)) (Stmt, cursor, bool) {
	for _, form := range forms {
		if s, nc, ok := form(c); ok {
			return s, nc, true
		}
		if p.err != nil {
			break
		}
	}
	return nil, c, false
}

// body parses the body of a loop or branch: a block or a single statement.
// Comments ahead of it are skipped, so the body is never a comment.
func (p *parser) body(c cursor) (Stmt, cursor, bool) {
	s, nc, ok := p.try(c, p.stmts)
	if !ok {
		if p.err == nil {
			p.errorAt(p.index(c, false), "expected statement")
		}
		return nil, c, false
	}
	return s, nc, true
}

func (p *parser) blockStmt(c cursor) (Stmt, cursor, bool) {
	b, nc, ok := p.block(c)
	if !ok {
		return nil, c, false
	}
	return b, nc, true
}

func (p *parser) commentStmt(c cursor) (Stmt, cursor, bool) {
	n, nc, ok := p.comment(c)
	if !ok {
		return nil, c, false
	}
	return n.(Stmt), nc, true
}

func (p *parser) varDeclStmt(c cursor) (Stmt, cursor, bool) {
	d, nc, ok := p.varDecl(c)
	if !ok {
		return nil, c, false
	}
	return d, nc, true
}

// assignStmt parses Name AssignOp Expr ;
func (p *parser) assignStmt(c cursor) (Stmt, cursor, bool) {
	target, cur, ok := p.lvalue(c)
	if !ok {
		return nil, c, false
	}
	op, cur, ok := p.assignOp(cur)
	if !ok {
		return nil, c, false
	}
	x, nc, ok := p.arithmetic(cur, Semi)
	if !ok || x.Text == "" {
		return nil, c, false
	}
	s := &AssignStmt{Target: target, Op: op, Value: x}
	s.toks = p.slice(c, nc)
	return s, nc, true
}

// incDecStmt parses ++Name; --Name; Name++; or Name--;
func (p *parser) incDecStmt(c cursor) (Stmt, cursor, bool) {
	var (
		target *Lvalue
		op     IncDecOp
		cur    cursor
	)
	if o, nc, ok := p.doubleOp(c); ok {
		lv, nc, ok := p.lvalue(nc)
		if !ok {
			return nil, c, false
		}
		target, cur = lv, nc
		op = PreInc
		if o == Sub {
			op = PreDec
		}
	} else {
		lv, nc, ok := p.lvalue(c)
		if !ok {
			return nil, c, false
		}
		o, nc, ok := p.doubleOp(nc)
		if !ok {
			return nil, c, false
		}
		target, cur = lv, nc
		op = PostInc
		if o == Sub {
			op = PostDec
		}
	}
	nc, ok := p.sep(cur, Semi)
	if !ok {
		return nil, c, false
	}
	s := &IncDecStmt{Target: target, Op: op}
	s.toks = p.slice(c, nc)
	return s, nc, true
}

// doubleOp consumes "++" or "--" written without a gap.
func (p *parser) doubleOp(c cursor) (Op, cursor, bool) {
	t, nc, ok := p.next(c)
	if !ok || !t.IsOp(Add) && !t.IsOp(Sub) {
		return 0, c, false
	}
	if int(nc) >= len(p.toks) || !p.toks[nc].IsOp(t.Op) {
		return 0, c, false
	}
	return t.Op, nc + 1, true
}

// callStmt parses Name ( Args ) ;
func (p *parser) callStmt(c cursor) (Stmt, cursor, bool) {
	name, cur, ok := p.ident(c)
	if !ok {
		return nil, c, false
	}
	args, cur, ok := p.logical(cur)
	if !ok {
		return nil, c, false
	}
	nc, ok := p.sep(cur, Semi)
	if !ok {
		return nil, c, false
	}
	s := &CallStmt{Name: name, Args: args}
	s.toks = p.slice(c, nc)
	return s, nc, true
}

// whileStmt parses while ( Cond ) Body
func (p *parser) whileStmt(c cursor) (Stmt, cursor, bool) {
	cur, ok := p.keyword(c, KwWhile)
	if !ok {
		return nil, c, false
	}
	cond, cur, ok := p.logical(cur)
	if !ok {
		return nil, c, false
	}
	body, nc, ok := p.body(cur)
	if !ok {
		return nil, c, false
	}
	s := &WhileStmt{Cond: cond, Body: body}
	s.toks = p.slice(c, nc)
	return s, nc, true
}

// forStmt parses for ( [Init] ; [Cond] ; [Post] ) Body
func (p *parser) forStmt(c cursor) (Stmt, cursor, bool) {
	cur, ok := p.keyword(c, KwFor)
	if !ok {
		return nil, c, false
	}
	cur, ok = p.sep(cur, LParen)
	if !ok {
		return nil, c, false
	}
	pre, cur, ok := p.arithmetic(cur, Semi)
	if !ok {
		return nil, c, false
	}
	cond, cur, ok := p.arithmetic(cur, Semi)
	if !ok {
		return nil, c, false
	}
	post, cur, ok := p.arithmetic(cur, RParen)
	if !ok {
		return nil, c, false
	}
	body, nc, ok := p.body(cur)
	if !ok {
		return nil, c, false
	}
	s := &ForStmt{Init: pre, Cond: cond, Post: post, Body: body}
	s.toks = p.slice(c, nc)
	return s, nc, true
}

// doWhileStmt parses do Body while ( Cond ) ;
func (p *parser) doWhileStmt(c cursor) (Stmt, cursor, bool) {
	cur, ok := p.keyword(c, KwDo)
	if !ok {
		return nil, c, false
	}
	body, cur, ok := p.body(cur)
	if !ok {
		return nil, c, false
	}
	cur, ok = p.keyword(cur, KwWhile)
	if !ok {
		p.errorAt(p.index(cur, true), "expected while after do body")
		return nil, c, false
	}
	cond, cur, ok := p.logical(cur)
	if !ok {
		return nil, c, false
	}
	nc, ok := p.sep(cur, Semi)
	if !ok {
		return nil, c, false
	}
	s := &DoWhileStmt{Body: body, Cond: cond}
	s.toks = p.slice(c, nc)
	return s, nc, true
}

// ifStmt parses if ( Cond ) Then [else Body]
func (p *parser) ifStmt(c cursor) (Stmt, cursor, bool) {
	cur, ok := p.keyword(c, KwIf)
	if !ok {
		return nil, c, false
	}
	cond, cur, ok := p.logical(cur)
	if !ok {
		return nil, c, false
	}
	then, cur, ok := p.body(cur)
	if !ok {
		return nil, c, false
	}
	s := &IfStmt{Cond: cond, Then: then}
	if e, nc, ok := p.elseStmt(cur); ok {
		s.Else = e
		cur = nc
	} else if p.err != nil {
		return nil, c, false
	}
	s.toks = p.slice(c, cur)
	return s, cur, true
}

func (p *parser) elseStmt(c cursor) (*ElseStmt, cursor, bool) {
	cur, ok := p.keyword(c, KwElse)
	if !ok {
		return nil, c, false
	}
	body, nc, ok := p.body(cur)
	if !ok {
		return nil, c, false
	}
	s := &ElseStmt{Body: body}
	s.toks = p.slice(c, nc)
	return s, nc, true
}

// returnStmt parses return [Expr] ;
func (p *parser) returnStmt(c cursor) (Stmt, cursor, bool) {
	cur, ok := p.keyword(c, KwReturn)
	if !ok {
		return nil, c, false
	}
	s := &ReturnStmt{}
	if nc, ok := p.sep(cur, Semi); ok {
		s.toks = p.slice(c, nc)
		return s, nc, true
	}
	x, nc, ok := p.arithmetic(cur, Semi)
	if !ok {
		return nil, c, false
	}
	s.Result = x
	s.toks = p.slice(c, nc)
	return s, nc, true
}

// switchStmt parses switch ( Tag ) Block
func (p *parser) switchStmt(c cursor) (Stmt, cursor, bool) {
	cur, ok := p.keyword(c, KwSwitch)
	if !ok {
		return nil, c, false
	}
	tag, cur, ok := p.logical(cur)
	if !ok {
		return nil, c, false
	}
	body, nc, ok := p.block(cur)
	if !ok {
		return nil, c, false
	}
	s := &SwitchStmt{Tag: tag, Body: body}
	s.toks = p.slice(c, nc)
	return s, nc, true
}

// caseLabel parses case Value : or default :
func (p *parser) caseLabel(c cursor) (Stmt, cursor, bool) {
	var v Value
	cur, ok := p.keyword(c, KwDefault)
	if !ok {
		if cur, ok = p.keyword(c, KwCase); !ok {
			return nil, c, false
		}
		if v, cur, ok = p.value(cur); !ok {
			return nil, c, false
		}
	}
	nc, ok := p.op(cur, Colon)
	if !ok {
		return nil, c, false
	}
	s := &CaseLabel{Value: v}
	s.toks = p.slice(c, nc)
	return s, nc, true
}

// branchStmt parses break ; or continue ;
func (p *parser) branchStmt(c cursor) (Stmt, cursor, bool) {
	t, cur, ok := p.next(c)
	if !ok || !t.IsKeyword(KwBreak) && !t.IsKeyword(KwContinue) {
		return nil, c, false
	}
	nc, ok := p.sep(cur, Semi)
	if !ok {
		return nil, c, false
	}
	if t.Keyword == KwBreak {
		s := &BreakStmt{}
		s.toks = p.slice(c, nc)
		return s, nc, true
	}
	s := &ContinueStmt{}
	s.toks = p.slice(c, nc)
	return s, nc, true
}

// unsupportedStmt reports constructs that are valid NWScript but have no
// block-level node: preprocessor directives and struct declarations.
func (p *parser) unsupportedStmt(c cursor) (Stmt, cursor, bool) {
	i := p.index(c, false)
	if i >= len(p.toks) {
		return nil, c, false
	}
	switch t := p.toks[i]; {
	case t.Kind == KindPreprocessor:
		p.errorWrap(i, "preprocessor directive in block", ErrUnsupported)
	case t.IsKeyword(KwStruct):
		if _, _, ok := p.structDecl(c); ok {
			p.errorWrap(i, "struct declaration in block", ErrUnsupported)
		}
	}
	return nil, c, false
}

// lvalue parses an identifier reference.
func (p *parser) lvalue(c cursor) (*Lvalue, cursor, bool) {
	name, nc, ok := p.ident(c)
	if !ok {
		return nil, c, false
	}
	lv := &Lvalue{Name: name}
	lv.toks = p.slice(c, nc)
	return lv, nc, true
}
