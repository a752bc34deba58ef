package sysapi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/token"
)

func TestStringStaticMethods(t *testing.T) {
	cls := buildStringClass().BuildValue()

	assert.True(t, boolVal(t, callStatic(t, cls, "is_empty", runtime.NewString(""))))
	assert.False(t, boolVal(t, callStatic(t, cls, "is_empty", runtime.NewString("x"))))

	assert.Equal(t, int64(5), intVal(t, callStatic(t, cls, "length", runtime.NewString("hello"))))

	assert.Equal(t, "e", strVal(t, callStatic(t, cls, "char_at", runtime.NewString("hello"), runtime.NewInteger(1))))

	assert.Equal(t, int64(2), intVal(t, callStatic(t, cls, "index_of", runtime.NewString("hello"), runtime.NewString("l"))))
	assert.Equal(t, int64(-1), intVal(t, callStatic(t, cls, "index_of", runtime.NewString("hello"), runtime.NewString("z"))))

	assert.Equal(t, "ell", strVal(t, callStatic(t, cls, "substring", runtime.NewString("hello"), runtime.NewInteger(1), runtime.NewInteger(4))))

	assert.Equal(t, "A", strVal(t, callStatic(t, cls, "char", runtime.NewInteger(65))))

	assert.True(t, boolVal(t, callStatic(t, cls, "equals", runtime.NewString("a"), runtime.NewString("a"))))
	assert.False(t, boolVal(t, callStatic(t, cls, "equals", runtime.NewString("a"), runtime.NewString("b"))))

	assert.Equal(t, int64(-1), intVal(t, callStatic(t, cls, "compare_to", runtime.NewString("a"), runtime.NewString("b"))))
}

func TestStringGetLinesSplitsOnNewlineAndTrimsCR(t *testing.T) {
	cls := buildStringClass().BuildValue()
	lines := callStatic(t, cls, "get_lines", runtime.NewString("a\r\nb\nc\n"))
	var got []string
	err := lines.Iterate(func(el runtime.Value) (bool, error) {
		got = append(got, strVal(t, el))
		return true, nil
	})
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]string{"a", "b", "c"}, got)
}

func TestStringGetBytesReturnsUnsignedByteCodes(t *testing.T) {
	cls := buildStringClass().BuildValue()
	bytesArr := callStatic(t, cls, "get_bytes", runtime.NewString("AB"))
	var got []int64
	err := bytesArr.Iterate(func(el runtime.Value) (bool, error) {
		got = append(got, intVal(t, el))
		return true, nil
	})
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]int64{65, 66}, got)
}

func TestStringSubstringOutOfRangeErrors(t *testing.T) {
	cls := buildStringClass().BuildValue()
	member, err := cls.GetMember(nil, "substring")
	assert.NoError(t, err)
	method := member.(*runtime.SysMethodValue)
	_, _, err = method.Invoke(nil, []runtime.Value{runtime.NewString("hi"), runtime.NewInteger(0), runtime.NewInteger(5)}, token.Position{})
	assert.Error(t, err)
}
