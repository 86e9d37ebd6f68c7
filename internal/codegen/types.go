package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/you-not-fish/nss2cs/internal/rtabi"
	"github.com/you-not-fish/nss2cs/internal/syntax"
)

// valueType returns the ABI entry of a built-in type.
func valueType(t syntax.Type) (rtabi.ValueType, error) {
	b, ok := t.(*syntax.BasicType)
	if !ok {
		return rtabi.ValueType{}, fmt.Errorf("%s: %w", t, ErrUnsupported)
	}
	vt, ok := rtabi.LookupType(b.Kind.String())
	if !ok {
		return rtabi.ValueType{}, fmt.Errorf("type %s: %w", t, ErrUnsupported)
	}
	return vt, nil
}

// stackType returns the ABI entry of a type that can cross the master call
// stack.
func stackType(t syntax.Type) (rtabi.ValueType, error) {
	vt, err := valueType(t)
	if err != nil {
		return vt, fmt.Errorf("no stack primitive for %w", err)
	}
	if !vt.HasStack() {
		return vt, fmt.Errorf("no stack primitive for %s: %w", t, ErrUnsupported)
	}
	return vt, nil
}

// csType maps an NWScript type to its C# spelling. structName renames
// struct types for the target profile.
func csType(t syntax.Type, structName func(string) string) (string, error) {
	if st, ok := t.(*syntax.StructType); ok {
		return structName(st.Name), nil
	}
	vt, err := valueType(t)
	if err != nil {
		return "", err
	}
	return vt.CSharp, nil
}

// formatFloat renders v as a C# float literal: fixed 7 decimal places,
// trailing zeros trimmed down to one digit, and an f suffix.
func formatFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', 7, 32)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s + "f"
}

// vectorValue renders a C# vector constructor.
func vectorValue(v *syntax.VectorLiteral) string {
	return fmt.Sprintf("new NWN.Vector(%s, %s, %s)", formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
}

// literalValue renders a parameter default value. Object sentinels and
// vectors have no C# constant form and are handled by the callers.
func literalValue(v syntax.Value) (string, error) {
	switch v := v.(type) {
	case *syntax.IntLiteral:
		return v.Raw, nil
	case *syntax.FloatLiteral:
		return formatFloat(v.Value), nil
	case *syntax.StringLiteral:
		return `"` + v.Value + `"`, nil
	case *syntax.Lvalue:
		return v.Name, nil
	}
	return "", fmt.Errorf("default value %T: %w", v, ErrUnsupported)
}
