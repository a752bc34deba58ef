package sysapi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/scriptlang/internal/runtime"
)

func TestFilePathAndNameAndExists(t *testing.T) {
	bytesClassValue = buildBytesClass().BuildValue()
	cls := buildFileClass().BuildValue()
	dir := t.TempDir()
	target := filepath.Join(dir, "note.txt")

	obj := newInstance(t, cls, runtime.NewString(target))
	assert.Equal(t, target, strVal(t, callMethod(t, obj, "path")))
	assert.Equal(t, "note.txt", strVal(t, callMethod(t, obj, "name")))
	assert.False(t, boolVal(t, callMethod(t, obj, "exists")))

	obj2 := newInstance(t, cls, runtime.NewString(dir), runtime.NewString("note.txt"))
	assert.Equal(t, target, strVal(t, callMethod(t, obj2, "path")), "the two-arg constructor should join parent and name")
}

func TestFileWriteTextThenReadTextAndSize(t *testing.T) {
	bytesClassValue = buildBytesClass().BuildValue()
	cls := buildFileClass().BuildValue()
	target := filepath.Join(t.TempDir(), "data.txt")
	obj := newInstance(t, cls, runtime.NewString(target))

	callMethod(t, obj, "write_text", runtime.NewString("hello world"))
	assert.True(t, boolVal(t, callMethod(t, obj, "exists")))
	assert.Equal(t, "hello world", strVal(t, callMethod(t, obj, "read_text")))
	assert.Equal(t, int64(len("hello world")), intVal(t, callMethod(t, obj, "size")))
}

func TestFileReadBytesReturnsBytesInstance(t *testing.T) {
	bytesClassValue = buildBytesClass().BuildValue()
	cls := buildFileClass().BuildValue()
	target := filepath.Join(t.TempDir(), "data.bin")
	assert.NoError(t, os.WriteFile(target, []byte("AB"), 0o644))

	obj := newInstance(t, cls, runtime.NewString(target))
	bytesObj := callMethod(t, obj, "read_bytes").(*runtime.SysObjectValue)
	assert.Equal(t, int64(2), intVal(t, callMethod(t, bytesObj, "length")))
	assert.Equal(t, int64('A'), intVal(t, callMethod(t, bytesObj, "get", runtime.NewInteger(0))))
}

func TestFileMkdirListFilesAndIsDirectory(t *testing.T) {
	bytesClassValue = buildBytesClass().BuildValue()
	cls := buildFileClass().BuildValue()
	dir := filepath.Join(t.TempDir(), "sub")

	obj := newInstance(t, cls, runtime.NewString(dir))
	callMethod(t, obj, "mkdir")
	assert.True(t, boolVal(t, callMethod(t, obj, "is_directory")))
	assert.Equal(t, "directory", strVal(t, callMethod(t, obj, "kind")))

	child := newInstance(t, cls, runtime.NewString(dir), runtime.NewString("child.txt"))
	callMethod(t, child, "write_text", runtime.NewString("x"))

	names := callMethod(t, obj, "list_files")
	var got []string
	err := names.Iterate(func(el runtime.Value) (bool, error) {
		got = append(got, strVal(t, el))
		return true, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"child.txt"}, got)
}

func TestFileRenameToAndDelete(t *testing.T) {
	bytesClassValue = buildBytesClass().BuildValue()
	cls := buildFileClass().BuildValue()
	dir := t.TempDir()
	original := filepath.Join(dir, "a.txt")
	renamed := filepath.Join(dir, "b.txt")

	obj := newInstance(t, cls, runtime.NewString(original))
	callMethod(t, obj, "write_text", runtime.NewString("x"))

	callMethod(t, obj, "rename_to", runtime.NewString(renamed))
	assert.Equal(t, renamed, strVal(t, callMethod(t, obj, "path")), "rename_to should update the File's own path")
	assert.True(t, boolVal(t, callMethod(t, obj, "exists")))

	callMethod(t, obj, "delete")
	assert.False(t, boolVal(t, callMethod(t, obj, "exists")))
}

func TestFileKindIsNoneForMissingPath(t *testing.T) {
	bytesClassValue = buildBytesClass().BuildValue()
	cls := buildFileClass().BuildValue()
	obj := newInstance(t, cls, runtime.NewString(filepath.Join(t.TempDir(), "missing")))
	assert.Equal(t, "none", strVal(t, callMethod(t, obj, "kind")))
}
