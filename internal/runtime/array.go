package runtime

import (
	"strings"

	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/token"
)

// ArrayValue is a fixed-length mutable sequence of values with reference
// semantics: copying an ArrayValue reference (assignment, passing as an
// argument) aliases the same backing storage, matching the original's
// gc.h distinction between value and reference types.
type ArrayValue struct {
	Base
	Elements []Value
}

// NewArray allocates an array of length n filled with Null, matching
// `new [len]` semantics.
func NewArray(n int64) (*ArrayValue, error) {
	if n < 0 {
		return nil, diag.Runtimef(token.Position{}, "array length must be non-negative, got %d", n)
	}
	elems := make([]Value, n)
	for i := range elems {
		elems[i] = Null
	}
	return &ArrayValue{Base: Base{TypeName: "array"}, Elements: elems}, nil
}

// NewArrayFromLiteral builds an array directly from already-evaluated
// elements, used for array-literal expressions.
func NewArrayFromLiteral(elems []Value) *ArrayValue {
	return &ArrayValue{Base: Base{TypeName: "array"}, Elements: elems}
}

func (v *ArrayValue) Typeof() string { return "array" }

func (v *ArrayValue) ToString() (string, error) {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		s, err := e.ToString()
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}

func (v *ArrayValue) OperandType() (OperandType, error) { return Reference, nil }

func (v *ArrayValue) Length() int64 { return int64(len(v.Elements)) }

func (v *ArrayValue) GetArrayElement(index int64) (Value, error) {
	if index < 0 || index >= int64(len(v.Elements)) {
		return nil, diag.Runtimef(token.Position{}, "array index out of range: %d", index)
	}
	return v.Elements[index], nil
}

func (v *ArrayValue) SetArrayElement(index int64, val Value) error {
	if index < 0 || index >= int64(len(v.Elements)) {
		return diag.Runtimef(token.Position{}, "array index out of range: %d", index)
	}
	if val.IsVoid() {
		return diag.Runtimef(token.Position{}, "cannot store a void value in an array")
	}
	v.Elements[index] = val
	return nil
}

func (v *ArrayValue) Iterate(visit Visitor) error {
	for _, e := range v.Elements {
		keepGoing, err := visit(e)
		if err != nil {
			return err
		}
		if !keepGoing {
			return nil
		}
	}
	return nil
}

// ValueEquals compares arrays by identity: reference values compare by
// identity, not structurally.
func (v *ArrayValue) ValueEquals(other Value) (bool, error) {
	o, ok := other.(*ArrayValue)
	if !ok {
		return false, typeMismatch("array", other)
	}
	return v == o, nil
}

func (v *ArrayValue) ValueHashCode() (uint64, error) {
	return uint64(uintptr(ptrOf(v))), nil
}
