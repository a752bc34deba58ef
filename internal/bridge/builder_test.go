package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/token"
)

func echoFn(v runtime.Value) runtime.NativeFunc {
	return func(_ runtime.Invoker, _ runtime.Value, _ []runtime.Value, _ token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
		return v, nil, nil
	}
}

func TestClassBuilderConstructorAndMethodOverloads(t *testing.T) {
	cls := NewClass("Widget").
		Constructor(0, func(_ runtime.Invoker, receiver runtime.Value, _ []runtime.Value, _ token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			receiver.(*runtime.SysObjectValue).Native = "zero-arg"
			return nil, nil, nil
		}).
		Constructor(1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, _ token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			receiver.(*runtime.SysObjectValue).Native = args[0]
			return nil, nil, nil
		}).
		Method("describe", 0, func(_ runtime.Invoker, receiver runtime.Value, _ []runtime.Value, _ token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			return runtime.NewString("a widget"), nil, nil
		}).
		BuildValue()

	zeroArg, exc, err := cls.Instantiate(nil, nil, token.Position{})
	require.NoError(t, err)
	require.Nil(t, exc)
	obj := zeroArg.(*runtime.SysObjectValue)
	assert.Equal(t, "zero-arg", obj.Native)

	oneArg, exc, err := cls.Instantiate(nil, []runtime.Value{runtime.NewInteger(42)}, token.Position{})
	require.NoError(t, err)
	require.Nil(t, exc)
	assert.Equal(t, runtime.NewInteger(42), oneArg.(*runtime.SysObjectValue).Native)

	_, _, err = cls.Instantiate(nil, []runtime.Value{runtime.NewInteger(1), runtime.NewInteger(2)}, token.Position{})
	assert.Error(t, err, "a 2-arg constructor call should fail to resolve any overload")

	member, err := obj.GetMember(nil, "describe")
	require.NoError(t, err)
	method := member.(*runtime.SysMethodValue)
	result, exc, err := method.Invoke(nil, nil, token.Position{})
	require.NoError(t, err)
	require.Nil(t, exc)
	s, err := result.ToString()
	require.NoError(t, err)
	assert.Equal(t, "a widget", s)
}

func TestClassBuilderStaticsAndConstants(t *testing.T) {
	cls := NewClass("Math").
		StaticConstant("PI", runtime.NewFloat(3.14)).
		StaticMethod("double", 1, func(_ runtime.Invoker, _ runtime.Value, args []runtime.Value, _ token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			n, err := args[0].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewInteger(n * 2), nil, nil
		}).
		BuildValue()

	pi, err := cls.GetMember(nil, "PI")
	require.NoError(t, err)
	assert.Equal(t, runtime.NewFloat(3.14), pi)

	fn, err := cls.GetMember(nil, "double")
	require.NoError(t, err)
	method := fn.(*runtime.SysMethodValue)
	result, exc, err := method.Invoke(nil, []runtime.Value{runtime.NewInteger(21)}, token.Position{})
	require.NoError(t, err)
	require.Nil(t, exc)
	assert.Equal(t, runtime.NewInteger(42), result)

	_, err = cls.GetMember(nil, "nope")
	assert.Error(t, err)
}

func TestClassBuilderFieldWithDefault(t *testing.T) {
	var stored runtime.Value
	cls := NewClass("Box").
		Constructor(0, func(_ runtime.Invoker, _ runtime.Value, _ []runtime.Value, _ token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			return nil, nil, nil
		}).
		FieldWithDefault("label", runtime.NewString("untitled"),
			func(*runtime.SysObjectValue) (runtime.Value, error) { return stored, nil },
			func(_ *runtime.SysObjectValue, v runtime.Value) error { stored = v; return nil },
		).
		BuildValue()

	obj, _, err := cls.Instantiate(nil, nil, token.Position{})
	require.NoError(t, err)

	v, err := obj.GetMember(nil, "label")
	require.NoError(t, err)
	s, _ := v.ToString()
	assert.Equal(t, "untitled", s, "unset field should read back its default")

	require.NoError(t, obj.SetMember(nil, "label", runtime.NewString("crate")))
	v, err = obj.GetMember(nil, "label")
	require.NoError(t, err)
	s, _ = v.ToString()
	assert.Equal(t, "crate", s)
}

func TestNamespaceAccumulatesFunctionOverloads(t *testing.T) {
	ns := NewNamespace("sys").
		Function("execute", 2, echoFn(runtime.NewString("two-arg"))).
		Function("execute", 3, echoFn(runtime.NewString("three-arg"))).
		Constant("windows", runtime.NewBoolean(false)).
		Build()

	fn, err := ns.GetMember(nil, "execute")
	require.NoError(t, err)
	method := fn.(*runtime.SysMethodValue)

	result, _, err := method.Invoke(nil, []runtime.Value{runtime.Null, runtime.Null}, token.Position{})
	require.NoError(t, err)
	s, _ := result.ToString()
	assert.Equal(t, "two-arg", s, "calling Function twice with the same name must add overloads, not replace them")

	result, _, err = method.Invoke(nil, []runtime.Value{runtime.Null, runtime.Null, runtime.Null}, token.Position{})
	require.NoError(t, err)
	s, _ = result.ToString()
	assert.Equal(t, "three-arg", s)

	flag, err := ns.GetMember(nil, "windows")
	require.NoError(t, err)
	assert.Equal(t, runtime.NewBoolean(false), flag)
}

func TestNamespaceClassAndClassValueAndNested(t *testing.T) {
	inner := NewClass("Inner").Constructor(0, func(_ runtime.Invoker, _ runtime.Value, _ []runtime.Value, _ token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
		return nil, nil, nil
	})
	built := inner.BuildValue()

	child := NewNamespace("io").ClassValue(built)
	ns := NewNamespace("sys").Nested(child)

	ioMember, err := ns.GetMember(nil, "io")
	require.NoError(t, err)
	childNs := ioMember.(*runtime.SysNamespaceValue)

	innerMember, err := childNs.GetMember(nil, "Inner")
	require.NoError(t, err)
	assert.Same(t, built, innerMember)
}
