package sysapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/token"
)

func TestBytesGetSetAndLength(t *testing.T) {
	bytesClassValue = buildBytesClass().BuildValue()
	cls := bytesClassValue

	obj := newInstance(t, cls, runtime.NewInteger(3))
	assert.Equal(t, int64(3), intVal(t, callMethod(t, obj, "length")))

	callMethod(t, obj, "set", runtime.NewInteger(0), runtime.NewInteger(65))
	assert.Equal(t, int64(65), intVal(t, callMethod(t, obj, "get", runtime.NewInteger(0))))

	member, err := obj.GetMember(nil, "set")
	require.NoError(t, err)
	method := member.(*runtime.SysMethodValue)
	_, _, err = method.Invoke(nil, []runtime.Value{runtime.NewInteger(0), runtime.NewInteger(999)}, token.Position{})
	assert.Error(t, err, "a value outside 0..255 should be rejected")

	_, _, err = method.Invoke(nil, []runtime.Value{runtime.NewInteger(10), runtime.NewInteger(1)}, token.Position{})
	assert.Error(t, err, "an out-of-range index should be rejected")
}

func TestBytesToStringRoundTripsWindows1252(t *testing.T) {
	bytesClassValue = buildBytesClass().BuildValue()
	cls := bytesClassValue

	encoded := callStatic(t, cls, "from_string", runtime.NewString("cafe"))
	obj := encoded.(*runtime.SysObjectValue)

	decoded := callMethod(t, obj, "to_string")
	assert.Equal(t, "cafe", strVal(t, decoded))
}

func TestBytesToStringRangeVariant(t *testing.T) {
	bytesClassValue = buildBytesClass().BuildValue()
	cls := bytesClassValue

	obj := newInstance(t, cls, runtime.NewInteger(5))
	for i, b := range []int64{'h', 'e', 'l', 'l', 'o'} {
		callMethod(t, obj, "set", runtime.NewInteger(int64(i)), runtime.NewInteger(b))
	}

	partial := callMethod(t, obj, "to_string", runtime.NewInteger(1), runtime.NewInteger(4))
	assert.Equal(t, "ell", strVal(t, partial))
}
