// Package diag implements the interpreter's three error kinds:
// compilation errors raised by the binder, runtime errors raised by the
// evaluator or host bridge, and system errors signalling bind/execute
// drift. It also owns the stack-trace tracker and the
// "<file>(<line>) <kind> error: <message>" formatter used for all top-level
// and stack-trace output.
package diag

import (
	"fmt"

	"github.com/cwbudde/scriptlang/internal/token"
)

// Category distinguishes the interpreter's three error kinds.
type Category string

const (
	// CategoryCompilation covers binder-time errors: name not found, name
	// conflict, not an lvalue, not a function/type, no 'this', not in a
	// loop.
	CategoryCompilation Category = "Compilation"
	// CategoryRuntime covers evaluator/host errors raised while executing
	// a bound program: division by zero, index out of range, null
	// pointer access, type mismatches, undefined/void misuse, I/O
	// failures, wrong argument counts.
	CategoryRuntime Category = "Runtime"
	// CategorySystem covers internal invariant violations (scope-id
	// mismatch, mutation of a frozen scope descriptor) that indicate a
	// bug in the bind/execute coupling, not a script error.
	CategorySystem Category = "System"
)

// Error is the interpreter's single error type across all three
// categories. Pos is the nil zero value when no source location applies
// (e.g. an error raised before any AST node was visited).
type Error struct {
	Category Category
	Pos      token.Position
	Message  string
	Wrapped  error
}

// Error implements the standard error interface, rendering in the exact
// format used for top-level and stack-trace output:
// "<file>(<line>) <kind> error: <message>", with the "<file>(<line>) "
// prefix omitted when Pos carries no source position.
func (e *Error) Error() string {
	if e.Pos.IsZero() {
		return fmt.Sprintf("%s error: %s", e.Category, e.Message)
	}
	return fmt.Sprintf("%s %s error: %s", e.Pos.String(), e.Category, e.Message)
}

// Unwrap supports errors.Is/As over a chain of wrapped causes.
func (e *Error) Unwrap() error { return e.Wrapped }

func newf(cat Category, pos token.Position, format string, args ...any) *Error {
	return &Error{Category: cat, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Compilationf builds a CategoryCompilation error.
func Compilationf(pos token.Position, format string, args ...any) *Error {
	return newf(CategoryCompilation, pos, format, args...)
}

// Runtimef builds a CategoryRuntime error.
func Runtimef(pos token.Position, format string, args ...any) *Error {
	return newf(CategoryRuntime, pos, format, args...)
}

// Systemf builds a CategorySystem error. These indicate an interpreter bug
// (scope/descriptor drift) and callers should treat them as fatal rather
// than attempting script-level recovery.
func Systemf(pos token.Position, format string, args ...any) *Error {
	return newf(CategorySystem, pos, format, args...)
}

// IsRuntime reports whether err is a *Error of CategoryRuntime. Used at
// the expression boundary to decide whether a Go error should be promoted
// to a catchable script Exception value (runtime) or left to terminate
// execution (system).
func IsRuntime(err error) bool {
	var e *Error
	if ok := asError(err, &e); !ok {
		return false
	}
	return e.Category == CategoryRuntime
}

// IsSystem reports whether err is a *Error of CategorySystem.
func IsSystem(err error) bool {
	var e *Error
	if ok := asError(err, &e); !ok {
		return false
	}
	return e.Category == CategorySystem
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
