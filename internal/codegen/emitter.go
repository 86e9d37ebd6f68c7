package codegen

import (
	"fmt"
	"io"
	"strings"
)

// indentUnit is one level of C# indentation.
const indentUnit = "    "

// emitter wraps an io.Writer with helpers for emitting indented C# text.
type emitter struct {
	w      io.Writer
	err    error // first write error
	indent int
}

// emit writes a formatted line at the current indentation.
// Empty lines are written without indentation.
func (e *emitter) emit(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	if line == "" {
		e.emitLine()
		return
	}
	_, e.err = fmt.Fprintf(e.w, "%s%s\n", strings.Repeat(indentUnit, e.indent), line)
}

// emitLine writes a blank line.
func (e *emitter) emitLine() {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w)
}

// open writes a header line followed by an opening brace and indents.
func (e *emitter) open(format string, args ...interface{}) {
	e.emit(format, args...)
	e.emit("{")
	e.indent++
}

// close dedents and writes a closing brace.
func (e *emitter) close() {
	e.indent--
	e.emit("}")
}

// emitLineComment writes a // comment at the current indentation.
func (e *emitter) emitLineComment(text string) {
	e.emit("//%s", strings.TrimRight(text, " \t"))
}

// emitBlockComment writes a /* */ comment. Each body line is placed at
// the current indentation.
func (e *emitter) emitBlockComment(lines []string) {
	e.emit("/*")
	for _, l := range lines {
		e.emit("%s", strings.TrimRight(l, " \t"))
	}
	e.emit("*/")
}

// emitStmt writes an indented statement terminated by a semicolon.
func (e *emitter) emitStmt(format string, args ...interface{}) {
	e.emit(format+";", args...)
}
