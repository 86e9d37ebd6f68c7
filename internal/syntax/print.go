package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// child prints node under a label one level deeper.
func (p *printer) child(label string, node Node) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(node)
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}
	pos := node.Span().Start

	switch n := node.(type) {
	case *CompilationUnit:
		p.printf("CompilationUnit %q\n", n.Name)
		p.indent++
		for _, d := range n.Decls {
			p.print(d)
		}
		p.indent--

	case *Preprocessor:
		p.printf("Preprocessor %s %q\n", pos, n.Text)

	case *LineComment:
		p.printf("LineComment %s %q\n", pos, n.Text)

	case *BlockComment:
		p.printf("BlockComment %s lines=%d", pos, len(n.Lines))
		if !n.Terminated {
			fmt.Fprint(p.w, " unterminated")
		}
		fmt.Fprintln(p.w)

	case *StructDecl:
		p.printf("StructDecl %s\n", pos)
		p.indent++
		p.printf("Name: %s\n", n.Name)
		for _, f := range n.Fields {
			p.printf("Field: %s %s\n", f.Name, f.Type)
		}
		p.indent--

	case *FuncDecl:
		p.printf("FuncDecl %s\n", pos)
		p.indent++
		p.signature(&n.Signature)
		p.indent--

	case *FuncImpl:
		p.printf("FuncImpl %s\n", pos)
		p.indent++
		p.signature(&n.Signature)
		p.child("Body", n.Body)
		p.indent--

	case *VarDecl:
		kind := "VarDecl"
		if n.Const {
			kind = "ConstDecl"
		}
		p.printf("%s %s\n", kind, pos)
		p.indent++
		p.printf("Name: %s\n", n.Name)
		p.printf("Type: %s\n", n.Type)
		if n.Init != nil {
			p.child("Init", n.Init)
		}
		p.indent--

	case *Param:
		p.printf("Param %s %s\n", n.Name, n.Type)
		if n.Default != nil {
			p.indent++
			p.child("Default", n.Default)
			p.indent--
		}

	case *BasicType, *StructType:
		p.printf("Type %s\n", node.(Type))

	case *Lvalue:
		p.printf("Lvalue %s %s\n", pos, n.Name)

	case *IntLiteral:
		p.printf("IntLiteral %s %d\n", pos, n.Value)

	case *FloatLiteral:
		p.printf("FloatLiteral %s %s\n", pos, n.Raw)

	case *StringLiteral:
		p.printf("StringLiteral %s %q\n", pos, n.Value)

	case *VectorLiteral:
		p.printf("VectorLiteral %s [%g, %g, %g]\n", pos, n.X, n.Y, n.Z)

	case *ObjectInvalidLiteral:
		p.printf("ObjectInvalid %s\n", pos)

	case *ObjectSelfLiteral:
		p.printf("ObjectSelf %s\n", pos)

	case *Expr:
		kind := "Arithmetic"
		if n.Kind == Logical {
			kind = "Logical"
		}
		p.printf("%s %s %q\n", kind, pos, n.Text)

	case *Block:
		p.printf("Block %s\n", pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *AssignStmt:
		p.printf("AssignStmt %s %s %s\n", pos, n.Target.Name, n.Op)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *IncDecStmt:
		p.printf("IncDecStmt %s %s %s\n", pos, n.Target.Name, n.Op)

	case *CallStmt:
		p.printf("CallStmt %s %s\n", pos, n.Name)
		p.indent++
		p.print(n.Args)
		p.indent--

	case *WhileStmt:
		p.printf("WhileStmt %s\n", pos)
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Body", n.Body)
		p.indent--

	case *ForStmt:
		p.printf("ForStmt %s\n", pos)
		p.indent++
		p.child("Init", n.Init)
		p.child("Cond", n.Cond)
		p.child("Post", n.Post)
		p.child("Body", n.Body)
		p.indent--

	case *DoWhileStmt:
		p.printf("DoWhileStmt %s\n", pos)
		p.indent++
		p.child("Body", n.Body)
		p.child("Cond", n.Cond)
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", pos)
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Then", n.Then)
		if n.Else != nil {
			p.print(n.Else)
		}
		p.indent--

	case *ElseStmt:
		p.printf("ElseStmt %s\n", pos)
		p.indent++
		p.print(n.Body)
		p.indent--

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", pos)
		if n.Result != nil {
			p.indent++
			p.print(n.Result)
			p.indent--
		}

	case *SwitchStmt:
		p.printf("SwitchStmt %s\n", pos)
		p.indent++
		p.child("Tag", n.Tag)
		p.child("Body", n.Body)
		p.indent--

	case *CaseLabel:
		if n.Value == nil {
			p.printf("Default %s\n", pos)
			break
		}
		p.printf("Case %s\n", pos)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *BreakStmt:
		p.printf("BreakStmt %s\n", pos)

	case *ContinueStmt:
		p.printf("ContinueStmt %s\n", pos)

	default:
		p.printf("<%T>\n", node)
	}
}

func (p *printer) signature(sig *Signature) {
	p.printf("Name: %s\n", sig.Name)
	p.printf("Result: %s\n", sig.Result)
	if len(sig.Params) > 0 {
		p.printf("Params:\n")
		p.indent++
		for _, param := range sig.Params {
			p.print(param)
		}
		p.indent--
	}
}
