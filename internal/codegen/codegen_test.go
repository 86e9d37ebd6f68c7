package codegen

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/you-not-fish/nss2cs/internal/syntax"
)

// generate parses src as the compilation unit name and generates C# for
// it.
func generate(name, src string) (string, error) {
	cu, err := syntax.Parse(name, strings.Split(src, "\n"), syntax.Tokenize(src, nil))
	if err != nil {
		return "", err
	}
	return Generate(cu)
}

func mustGenerate(t *testing.T, name, src string) string {
	t.Helper()
	out, err := generate(name, src)
	if err != nil {
		t.Fatalf("Generate(%s): %v", name, err)
	}
	return out
}

// outputLines returns the non-blank lines of out with indentation removed.
func outputLines(out string) []string {
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// method returns the lines of the method whose header starts with header,
// from the header through the closing brace.
func method(t *testing.T, out, header string) []string {
	t.Helper()
	lines := outputLines(out)
	for i, l := range lines {
		if !strings.HasPrefix(l, header) {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if lines[j] == "}" {
				return lines[i : j+1]
			}
		}
	}
	t.Fatalf("no method %q in output:\n%s", header, out)
	return nil
}

// ----------------------------------------------------------------------------
// Master profile

func TestGenerateGetInt(t *testing.T) {
	out := mustGenerate(t, "nwscript.nss", "int GetInt(object obj);")

	want := []string{
		"public static int GetInt(NWN.Object obj)",
		"{",
		"Internal.StackPushObject(obj, false);",
		"Internal.CallBuiltIn(0);",
		"return Internal.StackPopInteger();",
		"}",
	}
	if diff := cmp.Diff(want, method(t, out, "public static int GetInt")); diff != "" {
		t.Errorf("GetInt mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(out, "namespace NWN\n{\n    public static partial class NWScript\n    {\n") {
		t.Errorf("unexpected preamble:\n%s", out)
	}
	if !strings.HasSuffix(out, "    }\n}\n") {
		t.Errorf("unexpected epilogue:\n%s", out)
	}
}

func TestGenerateBuiltinIndex(t *testing.T) {
	src := `void PrintString(string sString);
void AssignCommand(object oActionSubject, action aActionToAssign);
void DelayCommand(float fSeconds, action aActionToDelay);
float GetFacing(object oTarget);
void ActionDoCommand(action aActionToDo);
location GetLocation(object oObject);`
	out := mustGenerate(t, "nwscript.nss", src)

	for _, name := range []string{"AssignCommand", "DelayCommand", "ActionDoCommand"} {
		if strings.Contains(out, name) {
			t.Errorf("hand-written builtin %s was generated", name)
		}
	}
	tests := []struct {
		header string
		call   string
	}{
		{"public static void PrintString", "Internal.CallBuiltIn(0);"},
		{"public static float GetFacing", "Internal.CallBuiltIn(1);"},
		{"public static NWN.Location GetLocation", "Internal.CallBuiltIn(2);"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			m := method(t, out, tt.header)
			found := false
			for _, l := range m {
				if l == tt.call {
					found = true
				}
			}
			if !found {
				t.Errorf("method %v lacks %q", m, tt.call)
			}
		})
	}
}

func TestGenerateVoidHasNoPop(t *testing.T) {
	out := mustGenerate(t, "nwscript.nss", "void PrintString(string sString);")
	want := []string{
		"public static void PrintString(string sString)",
		"{",
		"Internal.StackPushString(sString);",
		"Internal.CallBuiltIn(0);",
		"}",
	}
	if diff := cmp.Diff(want, method(t, out, "public static void PrintString")); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateParamDefaults(t *testing.T) {
	src := `void Jump(object oTarget=OBJECT_SELF, vector vPos=[1.0, 2.0, 3.0], object oSpeaker=OBJECT_TYPE_INVALID, object oOther=OBJECT_INVALID, float fDelay=0.0f, string s="x", int n=TRUE, int m=-1);`
	out := mustGenerate(t, "nwscript.nss", src)

	want := []string{
		`public static void Jump(NWN.Object oTarget = null, NWN.Vector? vPos = null, NWN.Object oSpeaker = null, NWN.Object oOther = null, float fDelay = 0.0f, string s = "x", int n = TRUE, int m = -1)`,
		"{",
		"Internal.StackPushObject(oTarget, true);",
		"Internal.StackPushVector(vPos ?? new NWN.Vector(1.0f, 2.0f, 3.0f));",
		"Internal.StackPushObject(oSpeaker, false);",
		"Internal.StackPushObject(oOther, false);",
		"Internal.StackPushFloat(fDelay);",
		"Internal.StackPushString(s);",
		"Internal.StackPushInteger(n);",
		"Internal.StackPushInteger(m);",
		"Internal.CallBuiltIn(0);",
		"}",
	}
	if diff := cmp.Diff(want, method(t, out, "public static void Jump")); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateConstants(t *testing.T) {
	src := `int TRUE = 1;
int MASK = 0x10;
int NEG = -5;
float PI = 3.141592;
float ONE = 1;
string NAME = "abc";
vector ORIGIN = [1.0, 2.0, 3.0];
const int LIMIT = 10;
int counter;`
	out := mustGenerate(t, "nwscript.nss", src)

	want := []string{
		"public const int TRUE = 1;",
		"public const int MASK = 0x10;",
		"public const int NEG = -5;",
		"public const float PI = 3.141592f;",
		"public const float ONE = 1.0f;",
		`public const string NAME = "abc";`,
		"public static readonly NWN.Vector ORIGIN = new NWN.Vector(1.0f, 2.0f, 3.0f);",
		"public const int LIMIT = 10;",
		"public static int counter;",
	}
	got := outputLines(out)
	if len(got) < 4+len(want) {
		t.Fatalf("output too short:\n%s", out)
	}
	if diff := cmp.Diff(want, got[4:4+len(want)]); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateComments(t *testing.T) {
	src := "// Engine builtins\n/* line one\n   line two */\nint TRUE = 1;"
	out := mustGenerate(t, "nwscript.nss", src)

	want := []string{
		"// Engine builtins",
		"/*",
		"line one",
		"line two",
		"*/",
		"public const int TRUE = 1;",
	}
	got := outputLines(out)
	if diff := cmp.Diff(want, got[4:4+len(want)]); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateMasterStruct(t *testing.T) {
	out := mustGenerate(t, "nwscript.nss", "struct Point { float x; float y; };")
	want := []string{
		"public struct Point",
		"{",
		"public float x;",
		"public float y;",
		"}",
	}
	if diff := cmp.Diff(want, method(t, out, "public struct Point")); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		unit string
		src  string
		want error
	}{
		{"unknown unit", "foo.nss", "int A = 1;", ErrUnknownUnit},
		{"empty plugin name", "NWNX_.nss", "int A = 1;", ErrUnknownUnit},
		{"implementation in master", "nwscript.nss", "void Foo() { }", ErrUnsupported},
		{"struct param in master", "nwscript.nss", "struct S { int a; };\nvoid Foo(struct S s);", ErrUnsupported},
		{"struct result in master", "nwscript.nss", "struct S { int a; };\nstruct S Foo();", ErrUnsupported},
		{"action param in master", "nwscript.nss", "void Foo(action a);", ErrUnsupported},
		{"object default in master", "nwscript.nss", "void Foo(object o=FOO);", ErrUnsupported},
		{"location param in plugin", "NWNX_Area.nss", "void NWNX_Area_Set(location l);", ErrUnsupported},
		{"vector result in plugin", "NWNX_Area.nss", "vector NWNX_Area_Get();", ErrUnsupported},
		{"undeclared struct in plugin", "NWNX_Area.nss", "void NWNX_Area_Set(struct Missing m);", ErrUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := generate(tt.unit, tt.src)
			if err == nil {
				t.Fatalf("Generate succeeded, want error; output:\n%s", out)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error %v does not wrap %v", err, tt.want)
			}
			var gerr *GenerationError
			if !errors.As(err, &gerr) {
				t.Fatalf("error %v is %T, want *GenerationError", err, err)
			}
			if gerr.Unit != tt.unit {
				t.Errorf("Unit = %q, want %q", gerr.Unit, tt.unit)
			}
			if out != "" {
				t.Errorf("output = %q, want empty on error", out)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// NWNX profile

const creatureSource = `#include "nwnx"

// Creature plugin
const int NWNX_CREATURE_MOVEMENT_RATE_PC = 0;

struct NWNX_Creature_SpecialAbility
{
    int id;
    int ready;
    int level;
};

void NWNX_Creature_AddFeat(object creature, int feat);
struct NWNX_Creature_SpecialAbility NWNX_Creature_GetSpecialAbility(object creature, int index);
void NWNX_Creature_SetSpecialAbility(object creature, int index, struct NWNX_Creature_SpecialAbility ability);
float NWNX_Creature_GetSpeed(object creature=OBJECT_SELF);

void NWNX_Creature_AddFeat(object creature, int feat)
{
    string sFunc = "AddFeat";
    NWNX_PushArgumentInt(NWNX_Creature, sFunc, feat);
    NWNX_PushArgumentObject(NWNX_Creature, sFunc, creature);
    NWNX_CallFunction(NWNX_Creature, sFunc);
}

string NWNX_Creature_GetName(object creature)
{
    string sFunc = "GetName";
    NWNX_PushArgumentObject(NWNX_Creature, sFunc, creature);
    NWNX_CallFunction(NWNX_Creature, sFunc);
    return NWNX_GetReturnValueString(NWNX_Creature, sFunc);
}
`

func TestGenerateNWNXPreamble(t *testing.T) {
	out := mustGenerate(t, "NWNX_Creature.nss", creatureSource)

	want := []string{
		"using NWN;",
		"namespace NWNX",
		"{",
		"public static class Creature",
		"{",
		`const string PLUGIN_NAME = "NWNX_Creature";`,
		"// Creature plugin",
		"public const int NWNX_CREATURE_MOVEMENT_RATE_PC = 0;",
		"public struct SpecialAbility",
		"{",
		"public int id;",
		"public int ready;",
		"public int level;",
		"}",
	}
	got := outputLines(out)
	if diff := cmp.Diff(want, got[:len(want)]); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(out, "#include") {
		t.Errorf("preprocessor directive leaked into output:\n%s", out)
	}
}

func TestGenerateNWNXFunctions(t *testing.T) {
	out := mustGenerate(t, "NWNX_Creature.nss", creatureSource)

	const nf = "Internal.NativeFunctions."
	tests := []struct {
		header string
		want   []string
	}{
		{
			header: "public static void AddFeat",
			want: []string{
				"public static void AddFeat(NWN.Object creature, int feat)",
				"{",
				nf + `nwnxSetFunction(PLUGIN_NAME, "AddFeat");`,
				nf + "nwnxPushInt(feat);",
				nf + "nwnxPushObject(creature);",
				nf + "nwnxCallFunction();",
				"}",
			},
		},
		{
			header: "public static SpecialAbility GetSpecialAbility",
			want: []string{
				"public static SpecialAbility GetSpecialAbility(NWN.Object creature, int index)",
				"{",
				nf + `nwnxSetFunction(PLUGIN_NAME, "GetSpecialAbility");`,
				nf + "nwnxPushInt(index);",
				nf + "nwnxPushObject(creature);",
				nf + "nwnxCallFunction();",
				"var retVal = new SpecialAbility();",
				"retVal.level = " + nf + "nwnxPopInt();",
				"retVal.ready = " + nf + "nwnxPopInt();",
				"retVal.id = " + nf + "nwnxPopInt();",
				"return retVal;",
				"}",
			},
		},
		{
			header: "public static void SetSpecialAbility",
			want: []string{
				"public static void SetSpecialAbility(NWN.Object creature, int index, SpecialAbility ability)",
				"{",
				nf + `nwnxSetFunction(PLUGIN_NAME, "SetSpecialAbility");`,
				nf + "nwnxPushInt(ability.level);",
				nf + "nwnxPushInt(ability.ready);",
				nf + "nwnxPushInt(ability.id);",
				nf + "nwnxPushInt(index);",
				nf + "nwnxPushObject(creature);",
				nf + "nwnxCallFunction();",
				"}",
			},
		},
		{
			header: "public static float GetSpeed",
			want: []string{
				"public static float GetSpeed(NWN.Object creature = null)",
				"{",
				nf + `nwnxSetFunction(PLUGIN_NAME, "GetSpeed");`,
				nf + "nwnxPushObject(creature ?? Internal.OBJECT_SELF);",
				nf + "nwnxCallFunction();",
				"return " + nf + "nwnxPopFloat();",
				"}",
			},
		},
		{
			header: "public static string GetName",
			want: []string{
				"public static string GetName(NWN.Object creature)",
				"{",
				nf + `nwnxSetFunction(PLUGIN_NAME, "GetName");`,
				nf + "nwnxPushObject(creature);",
				nf + "nwnxCallFunction();",
				"return " + nf + "nwnxPopString();",
				"}",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, method(t, out, tt.header)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	// AddFeat is declared and implemented; it is emitted once.
	if n := strings.Count(out, "public static void AddFeat("); n != 1 {
		t.Errorf("AddFeat emitted %d times, want 1", n)
	}
}

// ----------------------------------------------------------------------------
// Formatting

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float32
		want string
	}{
		{0, "0.0f"},
		{1, "1.0f"},
		{100, "100.0f"},
		{0.5, "0.5f"},
		{0.1, "0.1f"},
		{-2.25, "-2.25f"},
		{3.141592, "3.141592f"},
		{1e-8, "0.0f"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEmitterIndent(t *testing.T) {
	var b strings.Builder
	e := &emitter{w: &b}
	e.open("namespace %s", "N")
	e.emitStmt("int x = %d", 1)
	e.emitLine()
	e.emitBlockComment([]string{" a", "b  "})
	e.close()

	want := "namespace N\n{\n    int x = 1;\n\n    /*\n     a\n    b\n    */\n}\n"
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
