// Package sysapi registers every host class/namespace member the runtime
// exposes to scripts (String, Bytes, StringBuffer, ArrayList, HashSet,
// HashMap, File, Socket, ServerSocket, and the Sys top-level statics),
// building each one
// through internal/bridge and assembling the result into the single `sys`
// namespace value the binder seeds the root scope with via
// BindScope.DeclareSysConstant.
package sysapi

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/cwbudde/scriptlang/internal/bridge"
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/token"
)

// buildStringClass registers the String host class:
// is_empty/length/char_at/index_of/substring/get_bytes/get_lines/equals/
// compare_to, the static char(code) factory, and a normalize static using
// x/text/unicode/norm to bring text into canonical composed (NFC) form
// before comparison — an enrichment
// this rewrite adds over the original implementation's byte-only
// stringex.cpp, since a host bridge is exactly where Unicode-aware helpers
// belong.
func buildStringClass() *bridge.ClassBuilder {
	return bridge.NewClass("String").
		StaticMethod("char", 1, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			code, err := args[0].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			if code < 0 || code > 255 {
				return nil, nil, diag.Runtimef(pos, "String.char: code %d out of byte range", code)
			}
			return runtime.CachedChar(int(code)), nil, nil
		}).
		StaticMethod("normalize", 1, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			s, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewString(norm.NFC.String(s)), nil, nil
		}).
		StaticMethod("is_empty", 1, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			s, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewBoolean(len(s) == 0), nil, nil
		}).
		StaticMethod("length", 1, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			s, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewInteger(int64(len(s))), nil, nil
		}).
		StaticMethod("char_at", 2, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			s, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			idx, err := args[1].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			if idx < 0 || idx >= int64(len(s)) {
				return nil, nil, diag.Runtimef(pos, "String.char_at: index %d out of range for length %d", idx, len(s))
			}
			return runtime.CachedChar(int(s[idx])), nil, nil
		}).
		StaticMethod("index_of", 2, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			s, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			sub, err := args[1].GetString()
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewInteger(int64(strings.Index(s, sub))), nil, nil
		}).
		StaticMethod("substring", 3, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			s, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			start, err := args[1].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			end, err := args[2].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			if start < 0 || end > int64(len(s)) || start > end {
				return nil, nil, diag.Runtimef(pos, "String.substring: range [%d,%d) out of bounds for length %d", start, end, len(s))
			}
			return runtime.NewString(s[start:end]), nil, nil
		}).
		StaticMethod("get_lines", 1, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			s, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
			elems := make([]runtime.Value, len(lines))
			for i, l := range lines {
				elems[i] = runtime.NewString(strings.TrimSuffix(l, "\r"))
			}
			return runtime.NewArrayFromLiteral(elems), nil, nil
		}).
		StaticMethod("equals", 2, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			eq, err := args[0].ValueEquals(args[1])
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewBoolean(eq), nil, nil
		}).
		StaticMethod("compare_to", 2, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			c, err := args[0].ValueCompareTo(args[1])
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewInteger(int64(c)), nil, nil
		}).
		StaticMethod("get_bytes", 1, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			s, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			elems := make([]runtime.Value, len(s))
			for i := range s {
				elems[i] = runtime.NewInteger(int64(s[i]))
			}
			return runtime.NewArrayFromLiteral(elems), nil, nil
		})
}
