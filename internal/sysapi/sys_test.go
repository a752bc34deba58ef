package sysapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/token"
)

func TestStrToInt(t *testing.T) {
	n, ok := strToInt("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = strToInt("")
	assert.False(t, ok, "an empty string is not a decimal integer")

	_, ok = strToInt("-1")
	assert.False(t, ok, "a leading sign is not tolerated")

	_, ok = strToInt("3.14")
	assert.False(t, ok)
}

func TestCompileAndRunReturnsTopLevelReturnValue(t *testing.T) {
	result, err := compileAndRun("<test>", "return 1 + 2;", nil)
	require.NoError(t, err)
	n, err := result.GetInteger()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestCompileAndRunParseErrorReturnsError(t *testing.T) {
	_, err := compileAndRun("<test>", "1 +", nil)
	assert.Error(t, err)
}

func TestCompileAndRunWithGlobals(t *testing.T) {
	globals := map[string]runtime.Value{"x": runtime.NewInteger(10)}
	result, err := compileAndRun("<test>", "return x + 5;", globals)
	require.NoError(t, err)
	n, err := result.GetInteger()
	require.NoError(t, err)
	assert.Equal(t, int64(15), n)
}

func TestSysExecuteRunsSourceAndReturnsResult(t *testing.T) {
	result, exc, err := sysExecute([]runtime.Value{runtime.NewString("<test>"), runtime.NewString("return 7 * 6;")}, nil, token.Position{})
	require.NoError(t, err)
	require.Nil(t, exc)
	n, err := result.GetInteger()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestSysExecuteExConcatenatesSourcesIntoOneProgram(t *testing.T) {
	sources := runtime.NewArrayFromLiteral([]runtime.Value{
		runtime.NewArrayFromLiteral([]runtime.Value{runtime.NewString("a.scr"), runtime.NewString("var shared = 1;")}),
		runtime.NewArrayFromLiteral([]runtime.Value{runtime.NewString("b.scr"), runtime.NewString("return shared + 1;")}),
	})
	result, exc, err := sysExecuteEx(sources, nil, token.Position{})
	require.NoError(t, err)
	require.Nil(t, exc)
	n, err := result.GetInteger()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "a declaration in the first source should be visible to the second")
}

func TestToStringPairExtractsFileAndCode(t *testing.T) {
	pair := runtime.NewArrayFromLiteral([]runtime.Value{runtime.NewString("f.scr"), runtime.NewString("code")})
	got, err := toStringPair(pair, token.Position{})
	require.NoError(t, err)
	assert.Equal(t, [2]string{"f.scr", "code"}, got)
}

func TestScopeMapFromNullReturnsNilWithoutError(t *testing.T) {
	globals, err := scopeMapFrom(runtime.Null, token.Position{})
	require.NoError(t, err)
	assert.Nil(t, globals)
}

func TestScopeMapFromHashMapCollectsEntries(t *testing.T) {
	hm := newHashMap()
	require.NoError(t, hm.put(runtime.NewString("a"), runtime.NewInteger(1)))
	require.NoError(t, hm.put(runtime.NewString("b"), runtime.NewInteger(2)))
	obj := &runtime.SysObjectValue{Base: runtime.Base{TypeName: "object of HashMap"}, Native: hm}

	globals, err := scopeMapFrom(obj, token.Position{})
	require.NoError(t, err)
	require.Len(t, globals, 2)
	n, err := globals["a"].GetInteger()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestScopeMapFromNonHashMapErrors(t *testing.T) {
	_, err := scopeMapFrom(runtime.NewString("not a hashmap"), token.Position{})
	assert.Error(t, err)
}
