package sysapi

import (
	"golang.org/x/text/encoding/charmap"

	"github.com/cwbudde/scriptlang/internal/bridge"
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/token"
)

// byteBuffer is the Native payload backing a Bytes instance: a fixed-length
// buffer, the binary counterpart to the text-oriented StringBuffer.
type byteBuffer struct {
	data []byte
}

// bytesClassValue is set by buildSysNamespace once the Bytes class is
// built, so Bytes.from_string can instantiate a fresh Bytes instance
// itself rather than duplicating SysObjectValue construction here.
var bytesClassValue *runtime.SysClassValue

func asByteBuffer(receiver runtime.Value, pos token.Position) (*byteBuffer, error) {
	obj, ok := receiver.(*runtime.SysObjectValue)
	if !ok {
		return nil, diag.Systemf(pos, "Bytes method called without a Bytes receiver")
	}
	bb, ok := obj.Native.(*byteBuffer)
	if !ok {
		return nil, diag.Systemf(pos, "Bytes instance missing its native storage")
	}
	return bb, nil
}

// buildBytesClass registers the Bytes host class: a fixed-length byte
// buffer constructed by length, indexable by get/set, and convertible
// to/from text through the x/text/encoding/charmap Windows-1252 codepage
// (the only codepage used) so that single-byte text round-trips exactly,
// the same decoding idiom used by the hivekit example for reading
// non-UTF8 payloads.
func buildBytesClass() *bridge.ClassBuilder {
	return bridge.NewClass("Bytes").
		Constructor(1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			length, err := args[0].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			if length < 0 {
				return nil, nil, diag.Runtimef(pos, "Bytes: negative length %d", length)
			}
			receiver.(*runtime.SysObjectValue).Native = &byteBuffer{data: make([]byte, length)}
			return nil, nil, nil
		}).
		Method("length", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			bb, err := asByteBuffer(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewInteger(int64(len(bb.data))), nil, nil
		}).
		Method("get", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			bb, err := asByteBuffer(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			idx, err := args[0].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			if idx < 0 || idx >= int64(len(bb.data)) {
				return nil, nil, diag.Runtimef(pos, "Bytes.get: index %d out of range for length %d", idx, len(bb.data))
			}
			return runtime.NewInteger(int64(bb.data[idx])), nil, nil
		}).
		Method("set", 2, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			bb, err := asByteBuffer(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			idx, err := args[0].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			if idx < 0 || idx >= int64(len(bb.data)) {
				return nil, nil, diag.Runtimef(pos, "Bytes.set: index %d out of range for length %d", idx, len(bb.data))
			}
			v, err := args[1].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			if v < 0 || v > 255 {
				return nil, nil, diag.Runtimef(pos, "Bytes.set: value %d out of byte range", v)
			}
			bb.data[idx] = byte(v)
			return receiver, nil, nil
		}).
		Method("to_string", 2, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			bb, err := asByteBuffer(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			start, err := args[0].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			end, err := args[1].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			if start < 0 || end > int64(len(bb.data)) || start > end {
				return nil, nil, diag.Runtimef(pos, "Bytes.to_string: range [%d,%d) out of bounds for length %d", start, end, len(bb.data))
			}
			decoded, err := charmap.Windows1252.NewDecoder().Bytes(bb.data[start:end])
			if err != nil {
				return nil, nil, diag.Runtimef(pos, "Bytes.to_string: %v", err)
			}
			return runtime.NewString(string(decoded)), nil, nil
		}).
		VariadicMethod("to_string", func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			bb, err := asByteBuffer(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			decoded, err := charmap.Windows1252.NewDecoder().Bytes(bb.data)
			if err != nil {
				return nil, nil, diag.Runtimef(pos, "Bytes.to_string: %v", err)
			}
			return runtime.NewString(string(decoded)), nil, nil
		}).
		StaticMethod("from_string", 1, func(inv runtime.Invoker, _ runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			s, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
			if err != nil {
				return nil, nil, diag.Runtimef(pos, "Bytes.from_string: %v", err)
			}
			v, exc, err := bytesClassValue.Instantiate(inv, []runtime.Value{runtime.NewInteger(0)}, pos)
			if err != nil || exc != nil {
				return nil, exc, err
			}
			v.(*runtime.SysObjectValue).Native = &byteBuffer{data: encoded}
			return v, nil, nil
		})
}
