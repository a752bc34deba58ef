package sysapi

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cwbudde/scriptlang/internal/bridge"
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/eval"
	"github.com/cwbudde/scriptlang/internal/parser"
	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/token"
)

// hostOut is the Native payload backing sys.out: a buffered writer over an
// io.Writer (standard out for the real sys.out). print and println flush
// after each write.
type hostOut struct {
	w *bufio.Writer
}

// textOutputClassValue is set the first time buildSysNamespace runs, so
// newTextOutputValue can stamp sys.out with the same descriptor a
// script-visible TextOutput instance would carry.
var textOutputClassValue *runtime.SysClassValue

func asHostOut(receiver runtime.Value, pos token.Position) (*hostOut, error) {
	obj, ok := receiver.(*runtime.SysObjectValue)
	if !ok {
		return nil, diag.Systemf(pos, "TextOutput method called without a TextOutput receiver")
	}
	o, ok := obj.Native.(*hostOut)
	if !ok {
		return nil, diag.Systemf(pos, "TextOutput instance missing its native writer")
	}
	return o, nil
}

func buildTextOutputClass() *bridge.ClassBuilder {
	return bridge.NewClass("TextOutput").
		Method("print", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			o, err := asHostOut(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			s, err := args[0].ToString()
			if err != nil {
				return nil, nil, err
			}
			fmt.Fprint(o.w, s)
			_ = o.w.Flush()
			return receiver, nil, nil
		}).
		Method("println", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			o, err := asHostOut(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			s, err := args[0].ToString()
			if err != nil {
				return nil, nil, err
			}
			fmt.Fprintln(o.w, s)
			_ = o.w.Flush()
			return receiver, nil, nil
		}).
		Method("println", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			o, err := asHostOut(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			fmt.Fprintln(o.w)
			_ = o.w.Flush()
			return receiver, nil, nil
		}).
		Method("flush", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			o, err := asHostOut(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			_ = o.w.Flush()
			return receiver, nil, nil
		})
}

func newTextOutputValue(w io.Writer) *runtime.SysObjectValue {
	return &runtime.SysObjectValue{
		Base:       runtime.Base{TypeName: "object of TextOutput"},
		Descriptor: textOutputClassValue.Descriptor,
		Native:     &hostOut{w: bufio.NewWriter(w)},
	}
}

// strToInt implements the original implementation's value_util.cpp numeric
// fast-path: decimal digits only, no leading sign or whitespace tolerated.
func strToInt(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int64(r-'0')
	}
	return n, true
}

// compileAndRun parses, binds, and executes one script source, with
// globals pre-declared as sys-constants in its root scope — the shared
// core of sys.execute and sys.execute_ex.
func compileAndRun(file, code string, globals map[string]runtime.Value) (runtime.Value, error) {
	prog, perrs := parser.ParseProgram(file, code)
	if len(perrs) > 0 {
		return nil, diag.Compilationf(perrs[0].Pos, "%s", perrs[0].Message)
	}
	binder := eval.NewBinder(nil)
	bound, err := binder.BindWithGlobals(prog, globals)
	if err != nil {
		return nil, err
	}
	evaluator := eval.NewEvaluator(bound, 0)
	result, exc, err := evaluator.Run(prog)
	if err != nil {
		return nil, err
	}
	if exc != nil {
		fmt.Fprintln(os.Stderr, exc.Trace.String())
		return nil, diag.Runtimef(token.Position{}, "script execution failed")
	}
	return result, nil
}

func buildSysNamespace(scriptArgs []string, isWindows bool) *bridge.Namespace {
	argElems := make([]runtime.Value, len(scriptArgs))
	for i, a := range scriptArgs {
		argElems[i] = runtime.NewString(a)
	}

	// These three classes are instantiated from inside other native
	// methods (Bytes.from_string/File.read_bytes mint a Bytes; ServerSocket.
	// accept mints a Socket; sys.out is a TextOutput), so their built values
	// are kept in package vars rather than only living inside the namespace.
	bytesClassValue = buildBytesClass().BuildValue()
	socketClassValue = buildSocketClass().BuildValue()
	textOutputClassValue = buildTextOutputClass().BuildValue()

	ns := bridge.NewNamespace("sys").
		Class(buildStringClass()).
		ClassValue(bytesClassValue).
		Class(buildStringBufferClass()).
		Class(buildArrayListClass()).
		Class(buildHashSetClass()).
		Class(buildHashMapClass()).
		Class(buildFileClass()).
		ClassValue(socketClassValue).
		Class(buildServerSocketClass()).
		ClassValue(textOutputClassValue).
		Constant("windows", runtime.NewBoolean(isWindows)).
		Constant("args", runtime.NewArrayFromLiteral(argElems)).
		Constant("out", newTextOutputValue(os.Stdout)).
		Function("current_time_millis", 0, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			return runtime.NewInteger(time.Now().UnixMilli()), nil, nil
		}).
		Function("current_time_str", 0, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			return runtime.NewString(time.Now().Format("2006-01-02 15:04:05")), nil, nil
		}).
		Function("str_to_int", 1, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			s, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			n, ok := strToInt(s)
			if !ok {
				return nil, nil, diag.Runtimef(pos, "str_to_int: %q is not a decimal integer", s)
			}
			return runtime.NewInteger(n), nil, nil
		}).
		Function("execute", 2, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			return sysExecute(args, nil, pos)
		}).
		Function("execute", 3, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			scope, err := scopeMapFrom(args[2], pos)
			if err != nil {
				return nil, nil, err
			}
			return sysExecute(args, scope, pos)
		}).
		Function("execute_ex", 2, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			scope, err := scopeMapFrom(args[1], pos)
			if err != nil {
				return nil, nil, err
			}
			return sysExecuteEx(args[0], scope, pos)
		})
	return ns
}

func sysExecute(args []runtime.Value, scope map[string]runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
	file, err := args[0].GetString()
	if err != nil {
		return nil, nil, err
	}
	code, err := args[1].GetString()
	if err != nil {
		return nil, nil, err
	}
	result, runErr := compileAndRun(file, code, scope)
	if runErr != nil {
		if diag.IsSystem(runErr) {
			return nil, nil, runErr
		}
		return nil, nil, diag.Runtimef(pos, "script execution failed: %v", runErr)
	}
	if result == nil {
		return runtime.Null, nil, nil
	}
	return result, nil, nil
}

// sysExecuteEx runs a sequence of [file, code] sources as one combined
// program, per the original implementation's api_execute_ex: all sources
// concatenated into a single bind/execute pass, not run independently, so
// declarations in an earlier source are visible to a later one.
func sysExecuteEx(sourcesValue runtime.Value, scope map[string]runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
	var combined strings.Builder
	collectErr := sourcesValue.Iterate(func(element runtime.Value) (bool, error) {
		pair, err := toStringPair(element, pos)
		if err != nil {
			return false, err
		}
		combined.WriteString(pair[1])
		combined.WriteString("\n")
		return true, nil
	})
	if collectErr != nil {
		return nil, nil, collectErr
	}
	result, runErr := compileAndRun("<execute_ex>", combined.String(), scope)
	if runErr != nil {
		if diag.IsSystem(runErr) {
			return nil, nil, runErr
		}
		return nil, nil, diag.Runtimef(pos, "script execution failed: %v", runErr)
	}
	if result == nil {
		return runtime.Null, nil, nil
	}
	return result, nil, nil
}

func toStringPair(v runtime.Value, pos token.Position) ([2]string, error) {
	first, err := v.GetArrayElement(0)
	if err != nil {
		return [2]string{}, err
	}
	second, err := v.GetArrayElement(1)
	if err != nil {
		return [2]string{}, err
	}
	fileName, err := first.GetString()
	if err != nil {
		return [2]string{}, err
	}
	code, err := second.GetString()
	if err != nil {
		return [2]string{}, err
	}
	return [2]string{fileName, code}, nil
}

// scopeMapFrom adapts a script-level HashMap carrying name/value
// pairs into a globals map, the Go counterpart of the original
// implementation's ValueHashMap-backed scope argument.
func scopeMapFrom(v runtime.Value, pos token.Position) (map[string]runtime.Value, error) {
	if v.IsNull() || v.IsUndefined() {
		return nil, nil
	}
	obj, ok := v.(*runtime.SysObjectValue)
	if !ok {
		return nil, diag.Runtimef(pos, "execute: scope argument must be a HashMap")
	}
	hm, ok := obj.Native.(*hashMap)
	if !ok {
		return nil, diag.Runtimef(pos, "execute: scope argument must be a HashMap")
	}
	globals := make(map[string]runtime.Value)
	for _, bucket := range hm.buckets {
		for _, entry := range bucket {
			key, err := entry.key.GetString()
			if err != nil {
				return nil, err
			}
			globals[key] = entry.value
		}
	}
	return globals, nil
}
