package runtime

import (
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/token"
)

// UndefinedValue is the sentinel stored in every slot before its
// declaration's initializer has run. Reading it as a
// value at a name-use site is a runtime error; the name-use code path is
// responsible for checking IsUndefined itself rather than letting a method
// call fail generically, so that the error message names the variable.
type UndefinedValue struct{ Base }

func (UndefinedValue) IsUndefined() bool { return true }
func (UndefinedValue) Typeof() string    { return "undefined" }

// Undefined is the single shared UndefinedValue instance.
var Undefined Value = &UndefinedValue{Base: Base{TypeName: "undefined"}}

// VoidValue is the distinguished empty result of statements, empty
// constructors, and functions that fall off the end without a `return`
// expression. It cannot be stored into a variable, array element, map
// entry, or attribute; callers enforce that at the assignment site.
type VoidValue struct{ Base }

func (VoidValue) IsVoid() bool            { return true }
func (VoidValue) Typeof() string          { return "unknown" }
func (VoidValue) ToString() (string, error) { return "", nil }

// Void is the single shared VoidValue instance.
var Void Value = &VoidValue{Base: Base{TypeName: "void"}}

// NullValue is the assignable reference sentinel. Any traversal through it
// (member access, indexing, invocation, iteration) fails with "null
// pointer access".
type NullValue struct{ Base }

func (NullValue) IsNull() bool              { return true }
func (NullValue) Typeof() string            { return "null" }
func (NullValue) ToString() (string, error) { return "null", nil }
func (v NullValue) OperandType() (OperandType, error) { return Reference, nil }

func (NullValue) GetMember(*ExecScope, string) (Value, error) {
	return nil, nullPointerError("member access")
}
func (NullValue) SetMember(*ExecScope, string, Value) error {
	return nullPointerError("member assignment")
}
func (NullValue) GetArrayElement(int64) (Value, error) {
	return nil, nullPointerError("array indexing")
}
func (NullValue) SetArrayElement(int64, Value) error {
	return nullPointerError("array indexing")
}
func (NullValue) Iterate(Visitor) error {
	return nullPointerError("iteration")
}
func (NullValue) Invoke(Invoker, []Value, token.Position) (Value, *ExceptionValue, error) {
	return nil, nil, nullPointerError("invocation")
}
func (v NullValue) ValueEquals(other Value) (bool, error) {
	return other.IsNull(), nil
}
func (NullValue) ValueHashCode() (uint64, error) { return 0, nil }

// Null is the single shared NullValue instance.
var Null Value = &NullValue{Base: Base{TypeName: "null"}}

// nullPointerError is shared by every NullValue traversal operation.
func nullPointerError(op string) error {
	return diag.Runtimef(token.Position{}, "null pointer access during %s", op)
}
