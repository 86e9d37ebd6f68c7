// Package main implements the nss2cs transpiler entry point.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/you-not-fish/nss2cs/internal/codegen"
	"github.com/you-not-fish/nss2cs/internal/syntax"
)

// Transpiler flags
var (
	emitTokens      = flag.Bool("emit-tokens", false, "Output token table instead of generating code")
	emitAST         = flag.Bool("emit-ast", false, "Output AST instead of generating code")
	astFormat       = flag.String("ast-format", "text", "AST output format (text or json)")
	verifyRoundtrip = flag.Bool("verify-roundtrip", false, "Check that the tokens reproduce the source")
	stats           = flag.Bool("stats", false, "Print token and node counts")
	verbose         = flag.Bool("v", false, "Print progress and timing")
	jobs            = flag.Int("j", 1, "Number of files processed in parallel")
	output          = flag.String("o", "", "Output directory (default: next to each input)")
	version         = flag.Bool("version", false, "Print version")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "nss2cs %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: nss2cs [options] <file.nss|glob>...\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("nss2cs version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: nss2cs [options] <file.nss|glob>...")
		os.Exit(1)
	}

	files, err := expandArgs(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(runBatch(files))
}

// expandArgs expands arguments containing wildcard characters. Other
// arguments are kept as given.
func expandArgs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			files = append(files, arg)
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		files = append(files, matches...)
	}
	return files, nil
}

// result collects the output of one file so that parallel runs can be
// reported in argument order.
type result struct {
	stdout bytes.Buffer
	stderr bytes.Buffer
	failed bool
}

// runBatch processes every file and returns the exit code. A failing file
// does not stop the others.
func runBatch(files []string) int {
	if *output != "" {
		if err := os.MkdirAll(*output, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}

	results := make([]*result, len(files))
	var g errgroup.Group
	g.SetLimit(max(*jobs, 1))
	for i, filename := range files {
		g.Go(func() error {
			results[i] = runFile(filename)
			return nil
		})
	}
	_ = g.Wait()

	code := 0
	for _, r := range results {
		os.Stdout.Write(r.stdout.Bytes())
		os.Stderr.Write(r.stderr.Bytes())
		if r.failed {
			code = 1
		}
	}
	return code
}

// runFile takes one file through the pipeline.
func runFile(filename string) *result {
	r := &result{}
	start := time.Now()
	if *verbose {
		fmt.Fprintf(&r.stdout, "Loading %s\n", filename)
	}

	src, err := loadSource(filename)
	if err != nil {
		fmt.Fprintf(&r.stderr, "error: %v\n", err)
		r.failed = true
		return r
	}
	if src.Empty() {
		if *verbose {
			fmt.Fprintf(&r.stdout, "Skipping empty file %s\n", filename)
		}
		return r
	}

	warnh := func(sp syntax.Span, msg string) {
		fmt.Fprintf(&r.stderr, "%s: %v\n", filename, &syntax.LexWarning{Span: sp, Msg: msg})
	}
	toks := syntax.Tokenize(src.Text(), warnh)

	if *verifyRoundtrip {
		for _, m := range checkRoundtrip(src, toks) {
			fmt.Fprintf(&r.stderr, "%s: %s\n", filename, m)
		}
	}
	if *emitTokens {
		printTokens(&r.stdout, toks)
		return r
	}

	cu, err := syntax.Parse(src.Name, src.Lines, toks)
	if err != nil {
		reportError(&r.stderr, filename, err)
		r.failed = true
		return r
	}
	if *stats {
		printStats(&r.stdout, filename, toks, cu)
	}
	if *emitAST {
		if err := printAST(&r.stdout, cu); err != nil {
			fmt.Fprintf(&r.stderr, "error: %v\n", err)
			r.failed = true
		}
		return r
	}

	code, err := codegen.Generate(cu)
	if err != nil {
		reportError(&r.stderr, filename, err)
		r.failed = true
		return r
	}
	if err := os.WriteFile(outputPath(filename), []byte(code), 0o644); err != nil {
		fmt.Fprintf(&r.stderr, "error: %v\n", err)
		r.failed = true
		return r
	}

	if *verbose {
		fmt.Fprintf(&r.stdout, "Processed in %dms\n", time.Since(start).Milliseconds())
	}
	return r
}

func loadSource(filename string) (*syntax.Source, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return syntax.NewSource(filepath.Base(filename), f)
}

// outputPath returns the .cs file generated for filename.
func outputPath(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ".cs"
	if *output != "" {
		return filepath.Join(*output, base)
	}
	return filepath.Join(filepath.Dir(filename), base)
}

// reportError writes err to w. Syntax errors are rendered with the
// offending token, its span and a caret marker under the source line.
func reportError(w io.Writer, filename string, err error) {
	var gerr *codegen.GenerationError
	if errors.As(err, &gerr) {
		err = gerr.Err // the unit name is the file name
	}
	var serr *syntax.SyntaxError
	if !errors.As(err, &serr) {
		fmt.Fprintf(w, "%s: %v\n", filename, err)
		return
	}
	diag := serr.Diagnostics()
	fmt.Fprintf(w, "%s: %s\n", filename, diag[0])
	for _, l := range diag[1:] {
		fmt.Fprintf(w, "  %s\n", l)
	}
}

// checkRoundtrip compares the source with the text rebuilt from the
// tokens and describes each differing line.
func checkRoundtrip(src *syntax.Source, toks []syntax.Token) []string {
	got := strings.Split(syntax.Reconstruct(toks), "\n")
	var diffs []string
	n := max(len(got), len(src.Lines))
	for i := 0; i < n; i++ {
		var want, have string
		if i < len(src.Lines) {
			want = src.Lines[i]
		}
		if i < len(got) {
			have = got[i]
		}
		if want != have {
			diffs = append(diffs, fmt.Sprintf("round-trip mismatch at line %d: %q != %q", i+1, have, want))
		}
	}
	return diffs
}

// printTokens writes the token table.
func printTokens(w io.Writer, toks []syntax.Token) {
	fmt.Fprintf(w, "%-28s %-12s %s\n", "SPAN", "KIND", "TEXT")
	fmt.Fprintf(w, "%-28s %-12s %s\n", strings.Repeat("-", 28), strings.Repeat("-", 12), strings.Repeat("-", 20))
	for _, t := range toks {
		fmt.Fprintf(w, "%-28s %-12s %s\n", t.Span, t.Kind, formatLiteral(t.Raw()))
	}
}

// formatLiteral formats token text for display, escaping special characters.
func formatLiteral(lit string) string {
	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

func printAST(w io.Writer, cu *syntax.CompilationUnit) error {
	switch *astFormat {
	case "json":
		return syntax.FprintJSON(w, cu)
	case "text":
		syntax.Fprint(w, cu)
		return nil
	}
	return fmt.Errorf("unknown AST format %q", *astFormat)
}

// printStats writes token counts per kind and node counts per node type.
func printStats(w io.Writer, filename string, toks []syntax.Token, cu *syntax.CompilationUnit) {
	var kinds [syntax.KindIdentifier + 1]int
	for _, t := range toks {
		kinds[t.Kind]++
	}
	nodes := make(map[string]int)
	syntax.Inspect(cu, func(n syntax.Node) bool {
		nodes[strings.TrimPrefix(fmt.Sprintf("%T", n), "*syntax.")]++
		return true
	})
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "%s: %d tokens\n", filename, len(toks))
	for k, n := range kinds {
		if n > 0 {
			fmt.Fprintf(w, "  %-16s %d\n", syntax.Kind(k), n)
		}
	}
	fmt.Fprintf(w, "%s: nodes\n", filename)
	for _, name := range names {
		fmt.Fprintf(w, "  %-16s %d\n", name, nodes[name])
	}
}
