package compiler

import (
	"fmt"
	"strings"

	"github.com/g5becks/mdxc/internal/lower"
	"github.com/g5becks/mdxc/internal/parser"
)

type Kind string

const (
	KindSyntax    Kind = "syntax"
	KindTransform Kind = "transform"
	KindInternal  Kind = "internal"
)

// Error describes why a document could not be compiled. Start and End are
// zero when the problem has no source position.
type Error struct {
	Kind   Kind
	Reason string
	RuleID string
	File   string
	Start  parser.Point
	End    parser.Point

	cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(":")
	}
	if e.Start.Line > 0 {
		fmt.Fprintf(&b, "%d:%d:", e.Start.Line, e.Start.Column)
	}
	if b.Len() > 0 {
		b.WriteString(" ")
	}
	b.WriteString(e.Reason)
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

func syntaxError(err *parser.SyntaxError, file string) *Error {
	return &Error{
		Kind:   KindSyntax,
		Reason: err.Reason,
		RuleID: err.RuleID,
		File:   file,
		Start:  err.Start,
		End:    err.End,
		cause:  err,
	}
}

// transformError reports an esbuild failure. esbuild sees the generated
// program, so the position is mapped back by finding the offending line in
// the source. It stays zero when the line does not appear there exactly once.
func transformError(err *lower.Error, source, file string) *Error {
	e := &Error{
		Kind:   KindTransform,
		Reason: "Could not compile JSX: " + err.Reason,
		RuleID: "esbuild",
		File:   file,
		cause:  err,
	}

	text := strings.TrimSpace(err.LineText)
	if text == "" || strings.Count(source, text) != 1 {
		return e
	}

	offset := strings.Index(source, text)
	line := strings.Count(source[:offset], "\n") + 1
	lineStart := strings.LastIndex(source[:offset], "\n") + 1
	column := offset - lineStart + 1

	// Column in the generated line relative to where the matched text starts.
	lead := len(err.LineText) - len(strings.TrimLeft(err.LineText, " \t"))
	if delta := err.Column - lead; delta >= 0 && delta <= len(text) {
		column += delta
		offset += delta
	}

	e.Start = parser.Point{Line: line, Column: column, Offset: offset}
	e.End = e.Start
	return e
}
