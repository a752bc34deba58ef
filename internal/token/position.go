// Package token defines the source-position type shared by the lexer,
// parser, binder, evaluator, and stack-trace tracker.
package token

import "fmt"

// Position identifies a single point in a source file.
type Position struct {
	File   string
	Line   int
	Column int
}

// String renders the position as "file(line)", matching the error format
// required by the CLI (file/line prefix, 1-based line).
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("(%d)", p.Line)
	}
	return fmt.Sprintf("%s(%d)", p.File, p.Line)
}

// IsZero reports whether the position carries no source location at all.
func (p Position) IsZero() bool {
	return p.File == "" && p.Line == 0 && p.Column == 0
}
