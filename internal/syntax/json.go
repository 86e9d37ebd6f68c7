package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	m := map[string]interface{}{
		"span": node.Span().String(),
	}
	switch n := node.(type) {
	case *CompilationUnit:
		m["type"] = "CompilationUnit"
		m["name"] = n.Name
		m["decls"] = mapSlice(n.Decls, func(d Decl) interface{} { return toJSON(d) })

	case *Preprocessor:
		m["type"] = "Preprocessor"
		m["text"] = n.Text

	case *LineComment:
		m["type"] = "LineComment"
		m["text"] = n.Text

	case *BlockComment:
		m["type"] = "BlockComment"
		m["lines"] = n.Lines
		m["terminated"] = n.Terminated

	case *StructDecl:
		m["type"] = "StructDecl"
		m["name"] = n.Name
		m["fields"] = mapSlice(n.Fields, func(f *VarDecl) interface{} { return toJSON(f) })

	case *FuncDecl:
		m["type"] = "FuncDecl"
		signatureJSON(m, &n.Signature)

	case *FuncImpl:
		m["type"] = "FuncImpl"
		signatureJSON(m, &n.Signature)
		m["body"] = toJSON(n.Body)

	case *Param:
		m["type"] = "Param"
		m["name"] = n.Name
		m["paramtype"] = n.Type.String()
		if n.Default != nil {
			m["default"] = toJSON(n.Default)
		}

	case *VarDecl:
		m["type"] = "VarDecl"
		m["name"] = n.Name
		m["vartype"] = n.Type.String()
		m["const"] = n.Const
		if n.Init != nil {
			m["init"] = toJSON(n.Init)
		}

	case *BasicType, *StructType:
		m["type"] = "Type"
		m["name"] = node.(Type).String()

	case *Lvalue:
		m["type"] = "Lvalue"
		m["name"] = n.Name

	case *IntLiteral:
		m["type"] = "IntLiteral"
		m["value"] = n.Value

	case *FloatLiteral:
		m["type"] = "FloatLiteral"
		m["value"] = n.Value
		m["raw"] = n.Raw

	case *StringLiteral:
		m["type"] = "StringLiteral"
		m["value"] = n.Value

	case *VectorLiteral:
		m["type"] = "VectorLiteral"
		m["value"] = []float32{n.X, n.Y, n.Z}

	case *ObjectInvalidLiteral:
		m["type"] = "ObjectInvalid"

	case *ObjectSelfLiteral:
		m["type"] = "ObjectSelf"

	case *Expr:
		m["type"] = "Arithmetic"
		if n.Kind == Logical {
			m["type"] = "Logical"
		}
		m["text"] = n.Text

	case *Block:
		m["type"] = "Block"
		m["stmts"] = mapSlice(n.Stmts, func(s Stmt) interface{} { return toJSON(s) })

	case *AssignStmt:
		m["type"] = "AssignStmt"
		m["target"] = n.Target.Name
		m["op"] = n.Op.String()
		m["value"] = toJSON(n.Value)

	case *IncDecStmt:
		m["type"] = "IncDecStmt"
		m["target"] = n.Target.Name
		m["op"] = n.Op.String()

	case *CallStmt:
		m["type"] = "CallStmt"
		m["name"] = n.Name
		m["args"] = toJSON(n.Args)

	case *WhileStmt:
		m["type"] = "WhileStmt"
		m["cond"] = toJSON(n.Cond)
		m["body"] = toJSON(n.Body)

	case *ForStmt:
		m["type"] = "ForStmt"
		m["init"] = toJSON(n.Init)
		m["cond"] = toJSON(n.Cond)
		m["post"] = toJSON(n.Post)
		m["body"] = toJSON(n.Body)

	case *DoWhileStmt:
		m["type"] = "DoWhileStmt"
		m["body"] = toJSON(n.Body)
		m["cond"] = toJSON(n.Cond)

	case *IfStmt:
		m["type"] = "IfStmt"
		m["cond"] = toJSON(n.Cond)
		m["then"] = toJSON(n.Then)
		if n.Else != nil {
			m["else"] = toJSON(n.Else)
		}

	case *ElseStmt:
		m["type"] = "ElseStmt"
		m["body"] = toJSON(n.Body)

	case *ReturnStmt:
		m["type"] = "ReturnStmt"
		if n.Result != nil {
			m["result"] = toJSON(n.Result)
		}

	case *SwitchStmt:
		m["type"] = "SwitchStmt"
		m["tag"] = toJSON(n.Tag)
		m["body"] = toJSON(n.Body)

	case *CaseLabel:
		if n.Value == nil {
			m["type"] = "Default"
			break
		}
		m["type"] = "Case"
		m["value"] = toJSON(n.Value)

	case *BreakStmt:
		m["type"] = "BreakStmt"

	case *ContinueStmt:
		m["type"] = "ContinueStmt"

	default:
		m["type"] = "Unknown"
	}
	return m
}

func signatureJSON(m map[string]interface{}, sig *Signature) {
	m["name"] = sig.Name
	m["result"] = sig.Result.String()
	m["params"] = mapSlice(sig.Params, func(p *Param) interface{} { return toJSON(p) })
}

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
