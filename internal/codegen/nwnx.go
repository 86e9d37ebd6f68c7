package codegen

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/nss2cs/internal/rtabi"
	"github.com/you-not-fish/nss2cs/internal/syntax"
)

// nwnx emits the bindings of an NWNX_<Plugin>.nss file: a static class
// whose methods forward to the plugin through the NWNX bridge.
func (g *generator) nwnx(plugin string) error {
	structs := make(map[string]*syntax.StructDecl)
	for _, d := range g.unit.Decls {
		if sd, ok := d.(*syntax.StructDecl); ok {
			structs[sd.Name] = sd
		}
	}
	g.structName = func(name string) string {
		return rtabi.NWNXFunctionName(plugin, name)
	}
	b := &bridge{g: g, plugin: plugin, structs: structs}

	g.e.emit("using %s;", rtabi.MasterNamespace)
	g.e.emitLine()
	g.e.open("namespace %s", rtabi.NWNXNamespace)
	g.e.open("public static class %s", plugin)
	g.e.emitStmt("const string %s = %q", rtabi.PluginNameConst, rtabi.NWNXPrefix+plugin)
	g.e.emitLine()

	seen := make(map[string]bool)
	for _, d := range g.unit.Decls {
		if ok, err := g.member(d); ok {
			if err != nil {
				return err
			}
			continue
		}
		var sig *syntax.Signature
		switch d := d.(type) {
		case *syntax.FuncDecl:
			sig = &d.Signature
		case *syntax.FuncImpl:
			sig = &d.Signature
		default:
			return fmt.Errorf("%T: %w", d, ErrUnsupported)
		}
		// a prototype and its implementation produce one method
		if seen[sig.Name] {
			continue
		}
		seen[sig.Name] = true
		if err := b.function(sig); err != nil {
			return fmt.Errorf("function %s: %w", sig.Name, err)
		}
	}

	g.e.close()
	g.e.close()
	return nil
}

// bridge emits calls through the NWNX native bridge.
type bridge struct {
	g       *generator
	plugin  string
	structs map[string]*syntax.StructDecl
}

// scalar is one value crossing the bridge: a parameter, or one field of a
// struct parameter, addressed by its C# expression.
type scalar struct {
	expr string
	vt   rtabi.ValueType
}

// flatten expands a value of type t into bridge scalars in field order.
func (b *bridge) flatten(expr string, t syntax.Type, depth int) ([]scalar, error) {
	if st, ok := t.(*syntax.StructType); ok {
		sd, ok := b.structs[st.Name]
		if !ok {
			return nil, fmt.Errorf("undeclared struct %s: %w", st.Name, ErrUnsupported)
		}
		if depth > len(b.structs) {
			return nil, fmt.Errorf("recursive struct %s: %w", st.Name, ErrUnsupported)
		}
		var out []scalar
		for _, f := range sd.Fields {
			fs, err := b.flatten(expr+"."+f.Name, f.Type, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, fs...)
		}
		return out, nil
	}
	vt, err := valueType(t)
	if err != nil {
		return nil, err
	}
	if !vt.HasNWNX() {
		return nil, fmt.Errorf("no NWNX primitive for %s: %w", t, ErrUnsupported)
	}
	return []scalar{{expr: expr, vt: vt}}, nil
}

// function emits one plugin trampoline. Arguments are pushed last to
// first so the plugin pops them in declaration order; struct results are
// popped last field first for the same reason.
func (b *bridge) function(sig *syntax.Signature) error {
	e := b.g.e
	ret, err := csType(sig.Result, b.g.structName)
	if err != nil {
		return err
	}

	var (
		params []string
		args   []scalar
	)
	for _, p := range sig.Params {
		decl, err := b.param(p)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		params = append(params, decl)

		expr := p.Name
		if _, ok := p.Default.(*syntax.ObjectSelfLiteral); ok {
			expr = p.Name + " ?? " + rtabi.Internal + "." + rtabi.ObjectSelf
		}
		s, err := b.flatten(expr, p.Type, 0)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		args = append(args, s...)
	}

	var results []scalar
	if !syntax.IsVoid(sig.Result) {
		if results, err = b.flatten("retVal", sig.Result, 0); err != nil {
			return fmt.Errorf("result: %w", err)
		}
	}

	short := rtabi.NWNXFunctionName(b.plugin, sig.Name)
	e.open("public static %s %s(%s)", ret, short, strings.Join(params, ", "))
	e.emitStmt("%s.%s(%s, %q)", rtabi.NativeFunctions, rtabi.FnNWNXSetFunction, rtabi.PluginNameConst, short)
	for i := len(args) - 1; i >= 0; i-- {
		e.emitStmt("%s.%s(%s)", rtabi.NativeFunctions, args[i].vt.NWNXPush, args[i].expr)
	}
	e.emitStmt("%s.%s()", rtabi.NativeFunctions, rtabi.FnNWNXCallFunction)

	if _, ok := sig.Result.(*syntax.StructType); ok {
		e.emitStmt("var retVal = new %s()", ret)
		for i := len(results) - 1; i >= 0; i-- {
			e.emitStmt("%s = %s.%s()", results[i].expr, rtabi.NativeFunctions, results[i].vt.NWNXPop)
		}
		e.emitStmt("return retVal")
	} else if len(results) == 1 {
		e.emitStmt("return %s.%s()", rtabi.NativeFunctions, results[0].vt.NWNXPop)
	}
	e.close()
	e.emitLine()
	return nil
}

// param returns the C# declaration of a plugin function parameter.
func (b *bridge) param(p *syntax.Param) (string, error) {
	typ, err := csType(p.Type, b.g.structName)
	if err != nil {
		return "", err
	}
	decl := typ + " " + p.Name
	switch def := p.Default.(type) {
	case nil:
		return decl, nil
	case *syntax.ObjectSelfLiteral, *syntax.ObjectInvalidLiteral:
		return decl + " = null", nil
	default:
		v, err := literalValue(def)
		if err != nil {
			return "", err
		}
		return decl + " = " + v, nil
	}
}
