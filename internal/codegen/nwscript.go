package codegen

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/nss2cs/internal/rtabi"
	"github.com/you-not-fish/nss2cs/internal/syntax"
)

// master emits the bindings for nwscript.nss: one trampoline per builtin,
// each calling the engine by its declaration index.
func (g *generator) master() error {
	g.structName = sameName
	g.e.open("namespace %s", rtabi.MasterNamespace)
	g.e.open("public static partial class %s", rtabi.MasterClass)

	index := 0
	for _, d := range g.unit.Decls {
		if ok, err := g.member(d); ok {
			if err != nil {
				return err
			}
			continue
		}
		switch d := d.(type) {
		case *syntax.FuncDecl:
			if rtabi.IsHandWritten(d.Name) {
				continue
			}
			if err := g.builtin(d, index); err != nil {
				return fmt.Errorf("function %s: %w", d.Name, err)
			}
			index++
		case *syntax.FuncImpl:
			return fmt.Errorf("function %s: implementation in master declarations: %w", d.Name, ErrUnsupported)
		default:
			return fmt.Errorf("%T: %w", d, ErrUnsupported)
		}
	}

	g.e.close()
	g.e.close()
	return nil
}

// builtin emits the trampoline of one engine builtin:
//
//	public static R Name(params)
//	{
//	    Internal.StackPush...(p); // per parameter, in order
//	    Internal.CallBuiltIn(index);
//	    return Internal.StackPop...(); // unless void
//	}
func (g *generator) builtin(fn *syntax.FuncDecl, index int) error {
	ret, err := csType(fn.Result, g.structName)
	if err != nil {
		return err
	}
	var pop string
	if !syntax.IsVoid(fn.Result) {
		vt, err := stackType(fn.Result)
		if err != nil {
			return fmt.Errorf("result: %w", err)
		}
		pop = vt.Pop
	}

	params := make([]string, 0, len(fn.Params))
	pushes := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		decl, push, err := masterParam(p)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		params = append(params, decl)
		pushes = append(pushes, push)
	}

	g.e.open("public static %s %s(%s)", ret, fn.Name, strings.Join(params, ", "))
	for _, push := range pushes {
		g.e.emitStmt("%s", push)
	}
	g.e.emitStmt("%s.%s(%d)", rtabi.Internal, rtabi.FnCallBuiltIn, index)
	if pop != "" {
		g.e.emitStmt("return %s.%s()", rtabi.Internal, pop)
	}
	g.e.close()
	g.e.emitLine()
	return nil
}

// masterParam returns the C# parameter declaration of p and the statement
// pushing it onto the call stack.
func masterParam(p *syntax.Param) (decl, push string, err error) {
	vt, err := stackType(p.Type)
	if err != nil {
		return "", "", err
	}
	call := rtabi.Internal + "." + vt.Push
	decl = vt.CSharp + " " + p.Name

	switch vt.Script {
	case "object":
		// null stands for the sentinel; the runtime resolves it
		self := false
		switch def := p.Default.(type) {
		case nil:
		case *syntax.ObjectSelfLiteral:
			decl += " = null"
			self = true
		case *syntax.ObjectInvalidLiteral:
			decl += " = null"
		case *syntax.Lvalue:
			if def.Name != rtabi.ObjectTypeInvalid && def.Name != rtabi.ObjectInvalid {
				return "", "", fmt.Errorf("object default %s: %w", def.Name, ErrUnsupported)
			}
			// nwscript.nss defaults SpeakOneLinerConversation's target to
			// OBJECT_TYPE_INVALID, an int constant.
			decl += " = null"
		default:
			return "", "", fmt.Errorf("object default %T: %w", def, ErrUnsupported)
		}
		return decl, fmt.Sprintf("%s(%s, %t)", call, p.Name, self), nil

	case "vector":
		if v, ok := p.Default.(*syntax.VectorLiteral); ok {
			decl = vt.CSharp + "? " + p.Name + " = null"
			return decl, fmt.Sprintf("%s(%s ?? %s)", call, p.Name, vectorValue(v)), nil
		}
	}

	if p.Default != nil {
		def, err := literalValue(p.Default)
		if err != nil {
			return "", "", err
		}
		decl += " = " + def
	}
	return decl, fmt.Sprintf("%s(%s)", call, p.Name), nil
}
