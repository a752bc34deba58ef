package runtime

import "reflect"

// ptrOf returns the address backing a pointer-shaped value as a uintptr,
// used to derive an identity hash for reference-semantics values (arrays,
// objects, functions, classes) whose ValueHashCode must agree with
// ValueEquals' pointer comparison.
func ptrOf(p any) uintptr {
	return reflect.ValueOf(p).Pointer()
}
