// Package ipsl implements a small Lisp-like expression language: a
// lexer, a recursive-descent parser building an abstract syntax tree,
// a tagged-variant value model, and a parent-linked environment that
// evaluates S-expressions against a set of builtin functions.
package ipsl

import "fmt"

// Location identifies a position in a source text, used to report
// lexer and parser errors at the byte they occurred at.
type Location struct {
	Source string
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Source, l.Line, l.Column)
}
