package sysapi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/token"
)

func TestArrayListAddGetSetRemove(t *testing.T) {
	cls := buildArrayListClass().BuildValue()
	obj := newInstance(t, cls)

	callMethod(t, obj, "add", runtime.NewInteger(1))
	callMethod(t, obj, "add", runtime.NewInteger(2))
	callMethod(t, obj, "add", runtime.NewInteger(3))
	assert.Equal(t, int64(3), intVal(t, callMethod(t, obj, "length")))

	assert.Equal(t, int64(2), intVal(t, callMethod(t, obj, "get", runtime.NewInteger(1))))

	callMethod(t, obj, "set", runtime.NewInteger(1), runtime.NewInteger(20))
	assert.Equal(t, int64(20), intVal(t, callMethod(t, obj, "get", runtime.NewInteger(1))))

	callMethod(t, obj, "remove_at", runtime.NewInteger(0))
	assert.Equal(t, int64(2), intVal(t, callMethod(t, obj, "length")))
	assert.Equal(t, int64(20), intVal(t, callMethod(t, obj, "get", runtime.NewInteger(0))))

	arr := callMethod(t, obj, "to_array")
	var got []int64
	err := arr.Iterate(func(el runtime.Value) (bool, error) {
		got = append(got, intVal(t, el))
		return true, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []int64{20, 3}, got)
}

func TestArrayListGetOutOfRangeErrors(t *testing.T) {
	cls := buildArrayListClass().BuildValue()
	obj := newInstance(t, cls)
	member, err := obj.GetMember(nil, "get")
	assert.NoError(t, err)
	method := member.(*runtime.SysMethodValue)
	_, _, err = method.Invoke(nil, []runtime.Value{runtime.NewInteger(0)}, token.Position{})
	assert.Error(t, err)
}

func TestHashSetAddContainsRemoveDedupesByValueEquals(t *testing.T) {
	cls := buildHashSetClass().BuildValue()
	obj := newInstance(t, cls)

	callMethod(t, obj, "add", runtime.NewInteger(1))
	callMethod(t, obj, "add", runtime.NewInteger(1))
	callMethod(t, obj, "add", runtime.NewInteger(2))
	assert.Equal(t, int64(2), intVal(t, callMethod(t, obj, "size")), "adding the same value twice should not grow the set")

	assert.True(t, boolVal(t, callMethod(t, obj, "contains", runtime.NewInteger(1))))
	assert.False(t, boolVal(t, callMethod(t, obj, "contains", runtime.NewInteger(99))))

	callMethod(t, obj, "remove", runtime.NewInteger(1))
	assert.False(t, boolVal(t, callMethod(t, obj, "contains", runtime.NewInteger(1))))
	assert.Equal(t, int64(1), intVal(t, callMethod(t, obj, "size")))
}

func TestHashMapPutGetContainsKeyRemove(t *testing.T) {
	cls := buildHashMapClass().BuildValue()
	obj := newInstance(t, cls)

	callMethod(t, obj, "put", runtime.NewString("a"), runtime.NewInteger(1))
	callMethod(t, obj, "put", runtime.NewString("b"), runtime.NewInteger(2))
	callMethod(t, obj, "put", runtime.NewString("a"), runtime.NewInteger(10))
	assert.Equal(t, int64(2), intVal(t, callMethod(t, obj, "size")), "re-putting an existing key should overwrite, not grow")

	assert.Equal(t, int64(10), intVal(t, callMethod(t, obj, "get", runtime.NewString("a"))))
	assert.True(t, boolVal(t, callMethod(t, obj, "contains_key", runtime.NewString("b"))))
	assert.True(t, callMethod(t, obj, "get", runtime.NewString("missing")).IsNull(), "a missing key should read back Null")

	callMethod(t, obj, "remove", runtime.NewString("a"))
	assert.False(t, boolVal(t, callMethod(t, obj, "contains_key", runtime.NewString("a"))))
	assert.Equal(t, int64(1), intVal(t, callMethod(t, obj, "size")))
}
