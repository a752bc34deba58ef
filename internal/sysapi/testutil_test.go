package sysapi

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/token"
)

// callStatic resolves name as a static member of cls and invokes it with
// args, failing the test on any error or uncaught exception.
func callStatic(t *testing.T, cls *runtime.SysClassValue, name string, args ...runtime.Value) runtime.Value {
	t.Helper()
	member, err := cls.GetMember(nil, name)
	require.NoError(t, err)
	method, ok := member.(*runtime.SysMethodValue)
	require.True(t, ok, "%s is not a method", name)
	result, exc, err := method.Invoke(nil, args, token.Position{})
	require.NoError(t, err)
	require.Nil(t, exc, "unexpected thrown exception")
	return result
}

// callMethod resolves name as an instance member of obj and invokes it.
func callMethod(t *testing.T, obj *runtime.SysObjectValue, name string, args ...runtime.Value) runtime.Value {
	t.Helper()
	member, err := obj.GetMember(nil, name)
	require.NoError(t, err)
	method, ok := member.(*runtime.SysMethodValue)
	require.True(t, ok, "%s is not a method", name)
	result, exc, err := method.Invoke(nil, args, token.Position{})
	require.NoError(t, err)
	require.Nil(t, exc, "unexpected thrown exception")
	return result
}

func newInstance(t *testing.T, cls *runtime.SysClassValue, args ...runtime.Value) *runtime.SysObjectValue {
	t.Helper()
	v, exc, err := cls.Instantiate(nil, args, token.Position{})
	require.NoError(t, err)
	require.Nil(t, exc)
	return v.(*runtime.SysObjectValue)
}

func strVal(t *testing.T, v runtime.Value) string {
	t.Helper()
	s, err := v.ToString()
	require.NoError(t, err)
	return s
}

func intVal(t *testing.T, v runtime.Value) int64 {
	t.Helper()
	n, err := v.GetInteger()
	require.NoError(t, err)
	return n
}

func boolVal(t *testing.T, v runtime.Value) bool {
	t.Helper()
	b, err := v.GetBoolean()
	require.NoError(t, err)
	return b
}
