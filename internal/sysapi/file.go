package sysapi

import (
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/cwbudde/scriptlang/internal/bridge"
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/token"
)

// hostFile is the Native payload backing a File instance: a path, resolved
// lazily against the filesystem by each method rather than held open: File is
// a path handle plus operations, not a live descriptor.
type hostFile struct {
	path string
}

func asHostFile(receiver runtime.Value, pos token.Position) (*hostFile, error) {
	obj, ok := receiver.(*runtime.SysObjectValue)
	if !ok {
		return nil, diag.Systemf(pos, "File method called without a File receiver")
	}
	f, ok := obj.Native.(*hostFile)
	if !ok {
		return nil, diag.Systemf(pos, "File instance missing its native path")
	}
	return f, nil
}

// fileKind classifies a path as "symlink", "directory", "file", "other",
// or "none" if it cannot be stat'ed. It uses os.Lstat, which unlike Stat
// does not resolve symlinks, so a symlink is reported as such rather than
// as the regular file or directory it may point to.
func fileKind(path string) string {
	info, err := os.Lstat(path)
	if err != nil {
		return "none"
	}
	mode := info.Mode()
	switch {
	case mode&fs.ModeSymlink != 0:
		return "symlink"
	case mode.IsDir():
		return "directory"
	case mode.IsRegular():
		return "file"
	default:
		return "other"
	}
}

func buildFileClass() *bridge.ClassBuilder {
	return bridge.NewClass("File").
		Constructor(1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			path, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			receiver.(*runtime.SysObjectValue).Native = &hostFile{path: path}
			return nil, nil, nil
		}).
		Constructor(2, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			parent, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			name, err := args[1].GetString()
			if err != nil {
				return nil, nil, err
			}
			receiver.(*runtime.SysObjectValue).Native = &hostFile{path: filepath.Join(parent, name)}
			return nil, nil, nil
		}).
		Method("path", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			f, err := asHostFile(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewString(f.path), nil, nil
		}).
		Method("name", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			f, err := asHostFile(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewString(filepath.Base(f.path)), nil, nil
		}).
		Method("exists", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			f, err := asHostFile(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			_, statErr := os.Stat(f.path)
			return runtime.NewBoolean(statErr == nil), nil, nil
		}).
		Method("is_directory", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			f, err := asHostFile(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewBoolean(fileKind(f.path) == "directory"), nil, nil
		}).
		Method("kind", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			f, err := asHostFile(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewString(fileKind(f.path)), nil, nil
		}).
		Method("size", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			f, err := asHostFile(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			info, statErr := os.Stat(f.path)
			if statErr != nil {
				return nil, nil, diag.Runtimef(pos, "File.size: %v", statErr)
			}
			return runtime.NewInteger(info.Size()), nil, nil
		}).
		Method("list_files", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			f, err := asHostFile(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			entries, readErr := os.ReadDir(f.path)
			if readErr != nil {
				return nil, nil, diag.Runtimef(pos, "File.list_files: %v", readErr)
			}
			elems := make([]runtime.Value, len(entries))
			for i, e := range entries {
				elems[i] = runtime.NewString(e.Name())
			}
			return runtime.NewArrayFromLiteral(elems), nil, nil
		}).
		Method("mkdir", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			f, err := asHostFile(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			// MkdirAll rather than unix.Mkdir directly: script code expects
			// intermediate directories created, matching the original
			// implementation's recursive mkdir behavior.
			if mkErr := os.MkdirAll(f.path, 0o755); mkErr != nil {
				return nil, nil, diag.Runtimef(pos, "File.mkdir: %v", mkErr)
			}
			return receiver, nil, nil
		}).
		Method("delete", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			f, err := asHostFile(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			if rmErr := unix.Unlink(f.path); rmErr != nil {
				if rmErr2 := os.RemoveAll(f.path); rmErr2 != nil {
					return nil, nil, diag.Runtimef(pos, "File.delete: %v", rmErr2)
				}
			}
			return receiver, nil, nil
		}).
		Method("rename_to", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			f, err := asHostFile(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			newPath, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			if rnErr := os.Rename(f.path, newPath); rnErr != nil {
				return nil, nil, diag.Runtimef(pos, "File.rename_to: %v", rnErr)
			}
			f.path = newPath
			return receiver, nil, nil
		}).
		Method("read_text", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			f, err := asHostFile(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			data, readErr := os.ReadFile(f.path)
			if readErr != nil {
				return nil, nil, diag.Runtimef(pos, "File.read_text: %v", readErr)
			}
			return runtime.NewString(string(data)), nil, nil
		}).
		Method("read_bytes", 0, func(inv runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			f, err := asHostFile(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			data, readErr := os.ReadFile(f.path)
			if readErr != nil {
				return nil, nil, diag.Runtimef(pos, "File.read_bytes: %v", readErr)
			}
			v, exc, err := bytesClassValue.Instantiate(inv, []runtime.Value{runtime.NewInteger(0)}, pos)
			if err != nil || exc != nil {
				return nil, exc, err
			}
			v.(*runtime.SysObjectValue).Native = &byteBuffer{data: data}
			return v, nil, nil
		}).
		Method("write_text", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			f, err := asHostFile(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			text, err := args[0].GetString()
			if err != nil {
				return nil, nil, err
			}
			if writeErr := os.WriteFile(f.path, []byte(text), 0o644); writeErr != nil {
				return nil, nil, diag.Runtimef(pos, "File.write_text: %v", writeErr)
			}
			return receiver, nil, nil
		})
}
