package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *CompilationUnit:
		for _, d := range n.Decls {
			Walk(d, v)
		}

	case *StructDecl:
		for _, f := range n.Fields {
			Walk(f, v)
		}

	case *FuncDecl:
		walkSignature(&n.Signature, v)

	case *FuncImpl:
		walkSignature(&n.Signature, v)
		Walk(n.Body, v)

	case *Param:
		Walk(n.Type, v)
		if n.Default != nil {
			Walk(n.Default, v)
		}

	case *VarDecl:
		Walk(n.Type, v)
		if n.Init != nil {
			Walk(n.Init, v)
		}

	case *Block:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *AssignStmt:
		Walk(n.Target, v)
		Walk(n.Value, v)

	case *IncDecStmt:
		Walk(n.Target, v)

	case *CallStmt:
		Walk(n.Args, v)

	case *WhileStmt:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *ForStmt:
		Walk(n.Init, v)
		Walk(n.Cond, v)
		Walk(n.Post, v)
		Walk(n.Body, v)

	case *DoWhileStmt:
		Walk(n.Body, v)
		Walk(n.Cond, v)

	case *IfStmt:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		if n.Else != nil {
			Walk(n.Else, v)
		}

	case *ElseStmt:
		Walk(n.Body, v)

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, v)
		}

	case *SwitchStmt:
		Walk(n.Tag, v)
		Walk(n.Body, v)

	case *CaseLabel:
		if n.Value != nil {
			Walk(n.Value, v)
		}

	// Leaf nodes: Preprocessor, comments, types, values, Expr,
	// BreakStmt, ContinueStmt
	}
}

func walkSignature(sig *Signature, v Visitor) {
	Walk(sig.Result, v)
	for _, p := range sig.Params {
		Walk(p, v)
	}
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
