package sysapi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/scriptlang/internal/runtime"
)

func TestStringBufferAppendAndToString(t *testing.T) {
	cls := buildStringBufferClass().BuildValue()
	obj := newInstance(t, cls, runtime.NewString("hello"))

	assert.Equal(t, int64(5), intVal(t, callMethod(t, obj, "length")))

	callMethod(t, obj, "append", runtime.NewString(" world"))
	assert.Equal(t, "hello world", strVal(t, callMethod(t, obj, "to_string")))
	assert.Equal(t, int64(11), intVal(t, callMethod(t, obj, "length")))

	callMethod(t, obj, "clear")
	assert.Equal(t, "", strVal(t, callMethod(t, obj, "to_string")))
	assert.Equal(t, int64(0), intVal(t, callMethod(t, obj, "length")))
}

func TestStringBufferZeroArgConstructorStartsEmpty(t *testing.T) {
	cls := buildStringBufferClass().BuildValue()
	obj := newInstance(t, cls)
	assert.Equal(t, "", strVal(t, callMethod(t, obj, "to_string")))
}

func TestStringBufferAppendReturnsReceiverForChaining(t *testing.T) {
	cls := buildStringBufferClass().BuildValue()
	obj := newInstance(t, cls)

	result := callMethod(t, obj, "append", runtime.NewString("a"))
	assert.Same(t, obj, result, "append should return its receiver so calls can chain")
}
