package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// Nodes fall into a few closed categories: declarations, types, values and
// statements. Each category is a sealed interface; the marker methods
// restrict implementations to this package, so a type switch over a category
// is exhaustive.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Span() Span      // source range of the tokens the node was built from
	Tokens() []Token // the originating tokens (shared, not copied)
	aNode()
}

// Decl is a node that may appear at the top level of a compilation unit.
type Decl interface {
	Node
	aDecl()
}

// Stmt is a node that may appear inside a block.
type Stmt interface {
	Node
	aStmt()
}

// Type is a type reference.
type Type interface {
	Node
	String() string
	aType()
}

// Value is an lvalue reference or a literal.
type Value interface {
	Node
	aValue()
}

// Literal is a constant value.
type Literal interface {
	Value
	aLiteral()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	toks []Token
}

func (n *node) Tokens() []Token { return n.toks }
func (n *node) aNode()          {}

func (n *node) Span() Span {
	var sp Span
	for _, t := range n.toks {
		if !t.isTrivia() {
			sp = sp.Join(t.Span)
		}
	}
	if !sp.IsValid() {
		// a comment node spans its comment token
		for _, t := range n.toks {
			if t.Kind == KindComment {
				sp = sp.Join(t.Span)
			}
		}
	}
	return sp
}

type decl struct{ node }

func (*decl) aDecl() {}

type stmt struct{ node }

func (*stmt) aStmt() {}

// declStmt is embedded in nodes valid both at top level and in blocks.
type declStmt struct{ node }

func (*declStmt) aDecl() {}
func (*declStmt) aStmt() {}

type typ struct{ node }

func (*typ) aType() {}

type value struct{ node }

func (*value) aValue() {}

type literal struct{ value }

func (*literal) aLiteral() {}

// ----------------------------------------------------------------------------
// Compilation unit and declarations

// CompilationUnit is the parsed representation of one source file.
type CompilationUnit struct {
	node
	Name  string   // script name, e.g. "nwscript.nss"
	Lines []string // source lines, for diagnostics
	Decls []Decl   // top-level nodes in source order
}

// Preprocessor is an opaque directive such as #include "x".
type Preprocessor struct {
	decl
	Text string // full directive including '#'
}

// LineComment is a // comment.
type LineComment struct {
	declStmt
	Text string // text after "//"
}

// BlockComment is a /* */ comment.
type BlockComment struct {
	declStmt
	Lines      []string // body split on newlines
	Terminated bool
}

// StructDecl declares a structure type: struct Name { fields };
type StructDecl struct {
	decl
	Name   string
	Fields []*VarDecl
}

// Signature is the part shared by function declarations and implementations.
type Signature struct {
	Result Type
	Name   string
	Params []*Param
}

// FuncDecl is a function prototype: Result Name(Params);
type FuncDecl struct {
	decl
	Signature
}

// FuncImpl is a function with a body: Result Name(Params) { ... }
type FuncImpl struct {
	decl
	Signature
	Body *Block
}

// Param is a function parameter. Default is nil, a Literal, or an *Lvalue.
type Param struct {
	node
	Type    Type
	Name    string
	Default Value
}

// VarDecl declares a variable: [const] Type Name [= Init];
// Const declarations always have an initializer.
type VarDecl struct {
	declStmt
	Type  Type
	Name  string
	Init  *Expr // nil if none
	Const bool
}

// ----------------------------------------------------------------------------
// Types

// BasicKind enumerates the built-in types.
type BasicKind uint8

const (
	Void BasicKind = iota
	Int
	Float
	String
	Object
	Location
	Vector
	ItemProperty
	Effect
	Talent
	Event
	Action
)

var basicNames = [...]string{
	Void:         "void",
	Int:          "int",
	Float:        "float",
	String:       "string",
	Object:       "object",
	Location:     "location",
	Vector:       "vector",
	ItemProperty: "itemproperty",
	Effect:       "effect",
	Talent:       "talent",
	Event:        "event",
	Action:       "action",
}

// String returns the NWScript spelling of the kind.
func (k BasicKind) String() string {
	if int(k) < len(basicNames) {
		return basicNames[k]
	}
	return "invalid"
}

// BasicType is one of the built-in types.
type BasicType struct {
	typ
	Kind BasicKind
}

func (t *BasicType) String() string { return t.Kind.String() }

// StructType refers to a declared structure. Name is never empty.
type StructType struct {
	typ
	Name string
}

func (t *StructType) String() string { return "struct " + t.Name }

// IsVoid reports whether t is the void type.
func IsVoid(t Type) bool {
	b, ok := t.(*BasicType)
	return ok && b.Kind == Void
}

// ----------------------------------------------------------------------------
// Values

// Lvalue is a named, assignable reference.
type Lvalue struct {
	value
	Name string
}

// IntLiteral is an integer constant.
type IntLiteral struct {
	literal
	Value int32
	Raw   string
}

// FloatLiteral is a floating-point constant.
type FloatLiteral struct {
	literal
	Value float32
	Raw   string
}

// StringLiteral is a string constant. Value is the text between the
// quotes with escapes left as written.
type StringLiteral struct {
	literal
	Value string
}

// VectorLiteral is a [x, y, z] constant.
type VectorLiteral struct {
	literal
	X, Y, Z float32
}

// ObjectInvalidLiteral is OBJECT_INVALID.
type ObjectInvalidLiteral struct{ literal }

// ObjectSelfLiteral is OBJECT_SELF.
type ObjectSelfLiteral struct{ literal }

// ----------------------------------------------------------------------------
// Expressions

// ExprKind distinguishes the two capture modes.
type ExprKind uint8

const (
	Arithmetic ExprKind = iota // terminated by a separator, usually ';'
	Logical                    // bounded by balanced parentheses
)

// Expr is an opaque expression, kept as re-emittable text.
type Expr struct {
	node
	Kind ExprKind
	Text string
}

// ----------------------------------------------------------------------------
// Statements

// Block is a braced sequence of statements in source order.
type Block struct {
	stmt
	Stmts []Stmt
}

// AssignOp is an assignment operator.
type AssignOp uint8

const (
	AssignEq  AssignOp = iota // =
	AddAssign                 // +=
	SubAssign                 // -=
	MulAssign                 // *=
	DivAssign                 // /=
	ModAssign                 // %=
	AndAssign                 // &=
	OrAssign                  // |=
)

var assignOpNames = [...]string{
	AssignEq:  "=",
	AddAssign: "+=",
	SubAssign: "-=",
	MulAssign: "*=",
	DivAssign: "/=",
	ModAssign: "%=",
	AndAssign: "&=",
	OrAssign:  "|=",
}

func (op AssignOp) String() string { return assignOpNames[op] }

// AssignStmt is Target Op Value;
type AssignStmt struct {
	stmt
	Target *Lvalue
	Op     AssignOp
	Value  *Expr
}

// IncDecOp is one of the four increment/decrement forms.
type IncDecOp uint8

const (
	PreInc IncDecOp = iota
	PostInc
	PreDec
	PostDec
)

var incDecNames = [...]string{
	PreInc:  "pre++",
	PostInc: "post++",
	PreDec:  "pre--",
	PostDec: "post--",
}

func (op IncDecOp) String() string { return incDecNames[op] }

// IncDecStmt is ++x; x++; --x; or x--;
type IncDecStmt struct {
	stmt
	Target *Lvalue
	Op     IncDecOp
}

// CallStmt is Name(Args);
type CallStmt struct {
	stmt
	Name string
	Args *Expr // logical expression between the parentheses
}

// WhileStmt is while (Cond) Body
type WhileStmt struct {
	stmt
	Cond *Expr
	Body Stmt
}

// ForStmt is for (Init; Cond; Post) Body. Empty clauses have empty Text.
type ForStmt struct {
	stmt
	Init *Expr
	Cond *Expr
	Post *Expr
	Body Stmt
}

// DoWhileStmt is do Body while (Cond);
type DoWhileStmt struct {
	stmt
	Body Stmt
	Cond *Expr
}

// IfStmt is if (Cond) Then [Else]
type IfStmt struct {
	stmt
	Cond *Expr
	Then Stmt
	Else *ElseStmt // nil if no else branch
}

// ElseStmt is the else branch of an if statement.
type ElseStmt struct {
	stmt
	Body Stmt
}

// ReturnStmt is return [Result];
type ReturnStmt struct {
	stmt
	Result *Expr // nil for a bare return
}

// SwitchStmt is switch (Tag) Body
type SwitchStmt struct {
	stmt
	Tag  *Expr
	Body *Block
}

// CaseLabel is case Value: or, when Value is nil, default:
type CaseLabel struct {
	stmt
	Value Value
}

// BreakStmt is break;
type BreakStmt struct{ stmt }

// ContinueStmt is continue;
type ContinueStmt struct{ stmt }
