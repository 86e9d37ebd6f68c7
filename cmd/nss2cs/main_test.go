package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunBatchFailFastIsolation(t *testing.T) {
	dir := t.TempDir()
	bad := writeTempNSSFile(t, dir, "NWNX_Bad.nss", "int A = 1;\n@@@\n")
	good := writeTempNSSFile(t, dir, "nwscript.nss", "int GetInt(object obj);\n")

	code, _, errOut := captureOutput(t, func() int {
		return runBatch([]string{bad, good})
	})

	if code != 1 {
		t.Fatalf("runBatch exit=%d, want 1\nstderr:\n%s", code, errOut)
	}
	want := bad + ": unexpected token at top level\n" +
		"  on token Identifier \"@@@\"\n" +
		"  at line 2:1 to line 2:3\n" +
		"  @@@\n" +
		"  ^^^\n"
	if errOut != want {
		t.Fatalf("stderr:\n%s\nwant:\n%s", errOut, want)
	}
	if strings.Contains(errOut, good) {
		t.Fatalf("good file reported a failure:\n%s", errOut)
	}

	if _, err := os.Stat(filepath.Join(dir, "NWNX_Bad.cs")); !os.IsNotExist(err) {
		t.Fatalf("output written for failed file (stat err=%v)", err)
	}
	out := readFile(t, filepath.Join(dir, "nwscript.cs"))
	for _, line := range []string{
		"Internal.StackPushObject(obj, false);",
		"Internal.CallBuiltIn(0);",
		"return Internal.StackPopInteger();",
	} {
		if !strings.Contains(out, line) {
			t.Fatalf("generated code missing %q:\n%s", line, out)
		}
	}
}

func TestRunBatchParallelKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"NWNX_A.nss", "NWNX_B.nss", "NWNX_C.nss", "NWNX_D.nss"} {
		files = append(files, writeTempNSSFile(t, dir, name, "int X = 1;\n"))
	}
	setFlag(t, jobs, 4)
	setFlag(t, verbose, true)

	code, out, errOut := captureOutput(t, func() int {
		return runBatch(files)
	})

	if code != 0 {
		t.Fatalf("runBatch exit=%d\nstderr:\n%s", code, errOut)
	}
	var loaded []string
	for _, line := range strings.Split(out, "\n") {
		if name, ok := strings.CutPrefix(line, "Loading "); ok {
			loaded = append(loaded, name)
		}
	}
	if strings.Join(loaded, ",") != strings.Join(files, ",") {
		t.Fatalf("files reported in order %v, want %v", loaded, files)
	}
	if n := strings.Count(out, "Processed in "); n != len(files) {
		t.Fatalf("got %d timing lines, want %d:\n%s", n, len(files), out)
	}
}

func TestRunBatchOutputDir(t *testing.T) {
	in := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "gen")
	filename := writeTempNSSFile(t, in, "NWNX_Util.nss", "string NWNX_Util_GetName(object o);\n")
	setFlag(t, output, outDir)

	code, _, errOut := captureOutput(t, func() int {
		return runBatch([]string{filename})
	})

	if code != 0 {
		t.Fatalf("runBatch exit=%d\nstderr:\n%s", code, errOut)
	}
	out := readFile(t, filepath.Join(outDir, "NWNX_Util.cs"))
	if !strings.Contains(out, "public static string GetName(NWN.Object o)") {
		t.Fatalf("generated code missing GetName:\n%s", out)
	}
}

func TestRunBatchSkipsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	filename := writeTempNSSFile(t, dir, "nwscript.nss", "")

	code, out, errOut := captureOutput(t, func() int {
		return runBatch([]string{filename})
	})

	if code != 0 || out != "" || errOut != "" {
		t.Fatalf("exit=%d stdout=%q stderr=%q, want silent success", code, out, errOut)
	}
	if _, err := os.Stat(filepath.Join(dir, "nwscript.cs")); !os.IsNotExist(err) {
		t.Fatalf("output written for empty file (stat err=%v)", err)
	}
}

func TestRunBatchGenerationError(t *testing.T) {
	dir := t.TempDir()
	filename := writeTempNSSFile(t, dir, "helpers.nss", "int A = 1;\n")

	code, _, errOut := captureOutput(t, func() int {
		return runBatch([]string{filename})
	})

	if code != 1 {
		t.Fatalf("runBatch exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, "helpers.nss: unrecognized compilation unit name") {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
}

func TestRunBatchLexWarning(t *testing.T) {
	dir := t.TempDir()
	filename := writeTempNSSFile(t, dir, "NWNX_W.nss", "int X = 1;\n/* open")

	code, _, errOut := captureOutput(t, func() int {
		return runBatch([]string{filename})
	})

	if code != 0 {
		t.Fatalf("runBatch exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(errOut, filename+": 2:1: warning: ") {
		t.Fatalf("missing lexer warning:\n%s", errOut)
	}
}

func TestEmitTokens(t *testing.T) {
	dir := t.TempDir()
	filename := writeTempNSSFile(t, dir, "nwscript.nss", "int x;")
	setFlag(t, emitTokens, true)

	code, out, errOut := captureOutput(t, func() int {
		return runBatch([]string{filename})
	})

	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	for _, want := range []string{
		`line 1:1 to line 1:3`,
		`Keyword      "int"`,
		`Separator    " "`,
		`Identifier   "x"`,
		`Separator    ";"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("token table missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "nwscript.cs")); !os.IsNotExist(err) {
		t.Errorf("-emit-tokens generated code (stat err=%v)", err)
	}
}

func TestEmitASTJSON(t *testing.T) {
	dir := t.TempDir()
	filename := writeTempNSSFile(t, dir, "nwscript.nss", "struct Point { float x; float y; };\n")
	setFlag(t, emitAST, true)
	setFlag(t, astFormat, "json")

	code, out, errOut := captureOutput(t, func() int {
		return runBatch([]string{filename})
	})

	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	var tree struct {
		Type  string `json:"type"`
		Decls []struct {
			Type string `json:"type"`
			Name string `json:"name"`
		} `json:"decls"`
	}
	if err := json.Unmarshal([]byte(out), &tree); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if tree.Type != "CompilationUnit" || len(tree.Decls) != 1 || tree.Decls[0].Name != "Point" {
		t.Fatalf("unexpected tree: %+v", tree)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	filename := writeTempNSSFile(t, dir, "NWNX_S.nss", "int X = 1;\n")
	setFlag(t, stats, true)

	code, out, errOut := captureOutput(t, func() int {
		return runBatch([]string{filename})
	})

	if code != 0 {
		t.Fatalf("exit=%d\nstderr:\n%s", code, errOut)
	}
	for _, want := range []string{"tokens", "Keyword", "VarDecl", "CompilationUnit"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats missing %q:\n%s", want, out)
		}
	}
}

func TestCheckRoundtrip(t *testing.T) {
	dir := t.TempDir()
	filename := writeTempNSSFile(t, dir, "NWNX_R.nss", "// c\r\nint X = 1;\r\n\tfloat Y = 2.0f;\r\n")
	setFlag(t, verifyRoundtrip, true)

	code, _, errOut := captureOutput(t, func() int {
		return runBatch([]string{filename})
	})

	if code != 0 || errOut != "" {
		t.Fatalf("exit=%d, stderr:\n%s", code, errOut)
	}
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	a := writeTempNSSFile(t, dir, "a.nss", "")
	b := writeTempNSSFile(t, dir, "b.nss", "")
	writeTempNSSFile(t, dir, "c.txt", "")

	got, err := expandArgs([]string{filepath.Join(dir, "*.nss"), "plain.nss"})
	if err != nil {
		t.Fatalf("expandArgs: %v", err)
	}
	want := []string{a, b, "plain.nss"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expandArgs = %v, want %v", got, want)
	}

	if _, err := expandArgs([]string{filepath.Join(dir, "*.none")}); err == nil {
		t.Fatal("expandArgs succeeded for a pattern with no matches")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, dir, want string
	}{
		{"scripts/nwscript.nss", "", filepath.Join("scripts", "nwscript.cs")},
		{"NWNX_Creature.nss", "", "NWNX_Creature.cs"},
		{"scripts/NWNX_Creature.nss", "gen", filepath.Join("gen", "NWNX_Creature.cs")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			setFlag(t, output, tt.dir)
			if got := outputPath(tt.in); got != tt.want {
				t.Errorf("outputPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// setFlag sets a flag variable for the duration of the test.
func setFlag[T any](t *testing.T, p *T, v T) {
	t.Helper()
	old := *p
	*p = v
	t.Cleanup(func() { *p = old })
}

func writeTempNSSFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

func readFile(t *testing.T, filename string) string {
	t.Helper()
	b, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("read %s: %v", filename, err)
	}
	return string(b)
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
