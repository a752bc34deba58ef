package runtime

import (
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/token"
)

// OperandType classifies a value for arithmetic/comparison purposes.
// Reference values (arrays, objects, functions, classes,
// exceptions, sys* handles) all report Reference.
type OperandType int

const (
	Integer OperandType = iota
	Float
	Boolean
	String
	Reference
)

func (t OperandType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	case Reference:
		return "reference"
	default:
		return "unknown"
	}
}

// Invoker is implemented by the evaluator and supplied at each call site so
// that script-defined Function/Class values can execute their bodies
// without this package importing the evaluator (which imports this
// package for Value). Host (Sys*) values ignore it and dispatch natively.
type Invoker interface {
	// CallFunction executes fn's body with args bound to its parameters,
	// pos being the call-site position pushed onto the stack trace.
	CallFunction(fn *FunctionValue, args []Value, pos token.Position) (Value, *ExceptionValue, error)
	// NewInstance constructs a new Object of class cls, running field
	// initializers and the constructor (if any) with args.
	NewInstance(cls *ClassValue, args []Value, pos token.Position) (Value, *ExceptionValue, error)
}

// Visitor is called once per element during Iterate. It returns false to request early termination (used to
// implement `break`).
type Visitor func(element Value) (keepGoing bool, err error)

// Value is the polymorphic contract every runtime value answers to. Base
// provides the "fails" default for every method; concrete variants embed
// Base and override only the operations they actually support.
type Value interface {
	// IsUndefined/IsVoid/IsNull classify the three non-value sentinels.
	IsUndefined() bool
	IsVoid() bool
	IsNull() bool

	GetBoolean() (bool, error)
	GetInteger() (int64, error)
	GetFloat() (float64, error)
	GetString() (string, error)

	// ToString renders the value for concatenation, printing, and
	// exception payload display.
	ToString() (string, error)

	// OperandType reports the arithmetic classification used by the
	// binary/unary operators. Literal variants return their
	// own tag; all reference variants return Reference.
	OperandType() (OperandType, error)

	GetMember(access *ExecScope, memberName string) (Value, error)
	SetMember(access *ExecScope, memberName string, v Value) error

	GetArrayElement(index int64) (Value, error)
	SetArrayElement(index int64, v Value) error

	Invoke(inv Invoker, args []Value, pos token.Position) (Value, *ExceptionValue, error)
	Instantiate(inv Invoker, args []Value, pos token.Position) (Value, *ExceptionValue, error)

	// Iterate walks the value's elements in native order, calling visit
	// for each one. Returns an error if the value is not iterable, or the
	// first error/stop signalled by visit.
	Iterate(visit Visitor) error

	// Typeof returns one of the fixed type-tag strings. Void reports
	// "unknown"; Undefined, which is never exposed to `typeof`, reports
	// "undefined".
	Typeof() string

	ValueEquals(other Value) (bool, error)
	ValueHashCode() (uint64, error)
	ValueCompareTo(other Value) (int, error)
}

// Base implements every Value method as a typed failure, so concrete
// variants can embed Base by value and override only the operations they
// actually support.
type Base struct {
	// TypeName is used in the default failure messages ("not an object",
	// "not a function", ...). Each concrete variant sets it once.
	TypeName string
}

func (b Base) fail(op string) error {
	return diag.Runtimef(token.Position{}, "%s: wrong type (%s)", op, b.TypeName)
}

func (Base) IsUndefined() bool { return false }
func (Base) IsVoid() bool      { return false }
func (Base) IsNull() bool      { return false }

func (b Base) GetBoolean() (bool, error) { return false, b.fail("get_boolean") }
func (b Base) GetInteger() (int64, error) { return 0, b.fail("get_integer") }
func (b Base) GetFloat() (float64, error) { return 0, b.fail("get_float") }
func (b Base) GetString() (string, error) { return "", b.fail("get_string") }

func (b Base) ToString() (string, error) { return "", b.fail("to_string") }

func (b Base) OperandType() (OperandType, error) { return 0, b.fail("get_operand_type") }

func (b Base) GetMember(*ExecScope, string) (Value, error) {
	return nil, diag.Runtimef(token.Position{}, "not an object (%s)", b.TypeName)
}
func (b Base) SetMember(*ExecScope, string, Value) error {
	return diag.Runtimef(token.Position{}, "cannot modify member of %s", b.TypeName)
}

func (b Base) GetArrayElement(int64) (Value, error) {
	return nil, diag.Runtimef(token.Position{}, "not an array (%s)", b.TypeName)
}
func (b Base) SetArrayElement(int64, Value) error {
	return diag.Runtimef(token.Position{}, "not an array (%s)", b.TypeName)
}

func (b Base) Invoke(Invoker, []Value, token.Position) (Value, *ExceptionValue, error) {
	return nil, nil, diag.Runtimef(token.Position{}, "not a function (%s)", b.TypeName)
}
func (b Base) Instantiate(Invoker, []Value, token.Position) (Value, *ExceptionValue, error) {
	return nil, nil, diag.Runtimef(token.Position{}, "not a class (%s)", b.TypeName)
}

func (b Base) Iterate(Visitor) error {
	return diag.Runtimef(token.Position{}, "not a collection (%s)", b.TypeName)
}

func (Base) Typeof() string { return "unknown" }

func (b Base) ValueEquals(Value) (bool, error)      { return false, b.fail("value_equals") }
func (b Base) ValueHashCode() (uint64, error)        { return 0, b.fail("value_hash_code") }
func (b Base) ValueCompareTo(Value) (int, error)     { return 0, b.fail("value_compare_to") }
