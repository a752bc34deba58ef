package sysapi

import (
	goruntime "runtime"

	"github.com/cwbudde/scriptlang/internal/runtime"
)

// Globals builds the `sys` namespace value and returns it wrapped the way
// a top-level script binds it: as the single sys-constant name `sys`,
// ready to pass to eval.Binder.BindWithGlobals for the main script. args
// is the CLI's trailing ARG... list, exposed as sys.args.
func Globals(args []string) map[string]runtime.Value {
	return map[string]runtime.Value{
		"sys": buildSysNamespace(args, isWindowsHost()).Build(),
	}
}

func isWindowsHost() bool {
	return goruntime.GOOS == "windows"
}
