// Package codegen emits C# bindings for parsed NWScript compilation units.
package codegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/you-not-fish/nss2cs/internal/rtabi"
	"github.com/you-not-fish/nss2cs/internal/syntax"
)

var (
	// ErrUnsupported marks a construct that has no C# binding.
	ErrUnsupported = errors.New("unsupported construct")

	// ErrUnknownUnit is returned for compilation units that match no
	// output profile.
	ErrUnknownUnit = errors.New("unrecognized compilation unit name")
)

// GenerationError reports a failure to generate code for a compilation
// unit. Processing of other units is unaffected.
type GenerationError struct {
	Unit string
	Err  error
}

func (e *GenerationError) Error() string {
	return e.Unit + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Generate returns the C# source for cu. The output profile is chosen from
// the unit name: the master declarations file or an NWNX plugin file.
// Every error is a *GenerationError.
func Generate(cu *syntax.CompilationUnit) (string, error) {
	var b strings.Builder
	g := &generator{e: &emitter{w: &b}, unit: cu}

	var err error
	if cu.Name == rtabi.MasterUnit {
		err = g.master()
	} else if plugin, ok := rtabi.NWNXPlugin(cu.Name); ok {
		err = g.nwnx(plugin)
	} else {
		err = ErrUnknownUnit
	}
	if err == nil {
		err = g.e.err
	}
	if err != nil {
		return "", &GenerationError{Unit: cu.Name, Err: err}
	}
	return b.String(), nil
}

// generator holds the state of one Generate call.
type generator struct {
	e    *emitter
	unit *syntax.CompilationUnit

	// structName maps an NWScript struct name to its C# name.
	structName func(string) string
}

func sameName(s string) string { return s }

// member emits the declarations both profiles share: comments, constants,
// variables and structs. It reports whether d was handled.
func (g *generator) member(d syntax.Decl) (bool, error) {
	switch d := d.(type) {
	case *syntax.Preprocessor:
		// #include and #define have no C# counterpart
		return true, nil

	case *syntax.LineComment:
		g.e.emitLineComment(d.Text)
		return true, nil

	case *syntax.BlockComment:
		g.e.emitBlockComment(d.Lines)
		return true, nil

	case *syntax.VarDecl:
		return true, g.constant(d)

	case *syntax.StructDecl:
		return true, g.structDecl(d)
	}
	return false, nil
}

// constant emits a top-level variable. Initialized variables become C#
// constants, or static readonly fields for types C# cannot make const.
func (g *generator) constant(d *syntax.VarDecl) error {
	typ, err := csType(d.Type, g.structName)
	if err != nil {
		return fmt.Errorf("%s: %w", d.Name, err)
	}
	if d.Init == nil {
		g.e.emitStmt("public static %s %s", typ, d.Name)
		return nil
	}

	vt, err := valueType(d.Type)
	if err != nil {
		return fmt.Errorf("%s: %w", d.Name, err)
	}
	value := d.Init.Text
	if lit, ok := syntax.ParseLiteral(d.Init.Tokens()); ok {
		value = constValue(vt, lit, value)
	}
	if vt.Const {
		g.e.emitStmt("public const %s %s = %s", typ, d.Name, value)
	} else {
		g.e.emitStmt("public static readonly %s %s = %s", typ, d.Name, value)
	}
	return nil
}

// constValue renders a literal initializer. Floats are normalized and
// vectors become constructor calls; other literals keep their text.
func constValue(vt rtabi.ValueType, lit syntax.Literal, text string) string {
	switch lit := lit.(type) {
	case *syntax.FloatLiteral:
		return formatFloat(lit.Value)
	case *syntax.IntLiteral:
		if vt.Script == "float" {
			return formatFloat(float32(lit.Value))
		}
	case *syntax.VectorLiteral:
		return vectorValue(lit)
	}
	return text
}

// structDecl emits a C# struct with public fields.
func (g *generator) structDecl(d *syntax.StructDecl) error {
	name := g.structName(d.Name)
	g.e.open("public struct %s", name)
	for _, f := range d.Fields {
		typ, err := csType(f.Type, g.structName)
		if err != nil {
			return fmt.Errorf("struct %s field %s: %w", d.Name, f.Name, err)
		}
		g.e.emitStmt("public %s %s", typ, f.Name)
	}
	g.e.close()
	g.e.emitLine()
	return nil
}
