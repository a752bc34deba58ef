package sysapi

import (
	"strings"

	"github.com/cwbudde/scriptlang/internal/bridge"
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/token"
)

// stringBuffer is the Native payload backing a StringBuffer instance: a
// mutable append-only text buffer, the host bridge's ByteArray-like
// counterpart to the immutable script String.
type stringBuffer struct {
	b strings.Builder
}

func asStringBuffer(receiver runtime.Value, pos token.Position) (*stringBuffer, error) {
	obj, ok := receiver.(*runtime.SysObjectValue)
	if !ok {
		return nil, diag.Systemf(pos, "StringBuffer method called without a StringBuffer receiver")
	}
	sb, ok := obj.Native.(*stringBuffer)
	if !ok {
		return nil, diag.Systemf(pos, "StringBuffer instance missing its native buffer")
	}
	return sb, nil
}

func buildStringBufferClass() *bridge.ClassBuilder {
	return bridge.NewClass("StringBuffer").
		Constructor(0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			obj := receiver.(*runtime.SysObjectValue)
			obj.Native = &stringBuffer{}
			return nil, nil, nil
		}).
		Constructor(1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			initial, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			obj := receiver.(*runtime.SysObjectValue)
			sb := &stringBuffer{}
			sb.b.WriteString(initial)
			obj.Native = sb
			return nil, nil, nil
		}).
		Method("append", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			sb, err := asStringBuffer(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			s, err := args[0].ToString()
			if err != nil {
				return nil, nil, err
			}
			sb.b.WriteString(s)
			return receiver, nil, nil
		}).
		Method("length", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			sb, err := asStringBuffer(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewInteger(int64(sb.b.Len())), nil, nil
		}).
		Method("clear", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			sb, err := asStringBuffer(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			sb.b.Reset()
			return receiver, nil, nil
		}).
		Method("to_string", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			sb, err := asStringBuffer(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewString(sb.b.String()), nil, nil
		})
}
