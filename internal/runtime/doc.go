// Package runtime implements the interpreter's runtime core: the value
// model, the bind-time/exec-time scope trees, name descriptors, the
// StatementResult control-flow sum type, and the host-bridge
// descriptor/dispatch machinery that backs SysClass/SysObject/SysNamespace
// values.
//
// These concerns live in one package because they are
// mutually recursive by construction: a Function value closes over an
// ExecScope, an ExecScope stores Values in its slots, an Object's
// per-instance scope holds `this` pointing back at the very Object that
// owns it, and overload resolution needs to inspect live argument Values.
// Splitting these into separate packages would require either import
// cycles or an indirection layer with no payoff — nothing outside this
// package needs to see the split.
package runtime
