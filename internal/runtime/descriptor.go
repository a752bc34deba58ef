package runtime

import (
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/token"
)

// DescriptorKind classifies a NameDescriptor.
type DescriptorKind int

const (
	DescVariable DescriptorKind = iota
	DescConstant
	DescFunction
	DescClass
	DescSysConstant
)

// NameDescriptor is the handle a name-use carries at runtime to locate and
// type-check its target. Variable and Constant are
// represented by the same concrete type distinguished by Kind(), since
// every other aspect of their runtime behavior (coordinates, Get) is
// identical and only the writable operations differ.
type NameDescriptor interface {
	Kind() DescriptorKind
	Name() string
	ScopeID() ScopeID
	ScopeOffset() int
	SlotIndex() int // -1 for non-storage-backed descriptors

	// Get reads the descriptor's current value out of execScope.
	Get(execScope *ExecScope, pos token.Position) (Value, error)

	// SetInitialize stores v the one time a declaration's own initializer
	// runs. SetModify stores v for every later plain/compound assignment.
	// For descriptor kinds with no writable storage (Function, Class,
	// SysConstant), SetModify fails and SetInitialize does nothing.
	SetInitialize(execScope *ExecScope, v Value, pos token.Position) error
	SetModify(execScope *ExecScope, v Value, pos token.Position) error
}

type descBase struct {
	scopeID     ScopeID
	scopeOffset int
	name        string
}

func (d descBase) Name() string      { return d.name }
func (d descBase) ScopeID() ScopeID  { return d.scopeID }
func (d descBase) ScopeOffset() int  { return d.scopeOffset }

// variableDescriptor backs both `var` and `const` declarations.
type variableDescriptor struct {
	base    descBase
	slot    int
	isConst bool
}

func (d *variableDescriptor) Kind() DescriptorKind {
	if d.isConst {
		return DescConstant
	}
	return DescVariable
}
func (d *variableDescriptor) Name() string     { return d.base.Name() }
func (d *variableDescriptor) ScopeID() ScopeID { return d.base.ScopeID() }
func (d *variableDescriptor) ScopeOffset() int { return d.base.ScopeOffset() }
func (d *variableDescriptor) SlotIndex() int   { return d.slot }

func (d *variableDescriptor) Get(execScope *ExecScope, pos token.Position) (Value, error) {
	slot, err := execScope.Slot(d.base.scopeID, d.base.scopeOffset, d.slot, pos)
	if err != nil {
		return nil, err
	}
	v := *slot
	if v.IsUndefined() {
		return nil, diag.Runtimef(pos, "Undefined value: %q was read before its initializer ran", d.base.name)
	}
	return v, nil
}

// SetInitialize stores v the first time the declaration's initializer
// runs. It asserts the slot is currently Undefined; the binder
// guarantees this is only called once, at exec_define time.
func (d *variableDescriptor) SetInitialize(execScope *ExecScope, v Value, pos token.Position) error {
	slot, err := execScope.Slot(d.base.scopeID, d.base.scopeOffset, d.slot, pos)
	if err != nil {
		return err
	}
	if !(*slot).IsUndefined() {
		return diag.Systemf(pos, "slot for %q initialized twice", d.base.name)
	}
	if v.IsVoid() {
		return diag.Runtimef(pos, "cannot initialize %q with a void value", d.base.name)
	}
	*slot = v
	return nil
}

// SetModify overwrites the slot. Forbidden for constants.
func (d *variableDescriptor) SetModify(execScope *ExecScope, v Value, pos token.Position) error {
	if d.isConst {
		return diag.Compilationf(pos, "cannot assign to constant %q", d.base.name)
	}
	slot, err := execScope.Slot(d.base.scopeID, d.base.scopeOffset, d.slot, pos)
	if err != nil {
		return err
	}
	if v.IsVoid() {
		return diag.Runtimef(pos, "cannot assign a void value to %q", d.base.name)
	}
	*slot = v
	return nil
}

// closureDescriptor backs Function and Class declarations: Get
// materializes a fresh Value capturing execScope as the closure, via a
// factory supplied by the binder at declaration time (kept in this
// package, not exposed outside it, to avoid exporting the closure shape).
type closureDescriptor struct {
	base        descBase
	materialize func(closure *ExecScope) Value
	isClass     bool
}

func (d *closureDescriptor) Kind() DescriptorKind {
	if d.isClass {
		return DescClass
	}
	return DescFunction
}
func (d *closureDescriptor) Name() string     { return d.base.Name() }
func (d *closureDescriptor) ScopeID() ScopeID { return d.base.ScopeID() }
func (d *closureDescriptor) ScopeOffset() int { return d.base.ScopeOffset() }
func (d *closureDescriptor) SlotIndex() int   { return -1 }

func (d *closureDescriptor) Get(execScope *ExecScope, pos token.Position) (Value, error) {
	return d.materialize(execScope), nil
}

func (d *closureDescriptor) SetInitialize(*ExecScope, Value, token.Position) error {
	return nil // the materializer closure is the "initialization"; nothing to store
}
func (d *closureDescriptor) SetModify(_ *ExecScope, _ Value, pos token.Position) error {
	kind := "function"
	if d.isClass {
		kind = "class"
	}
	return diag.Compilationf(pos, "cannot assign to %s %q", kind, d.base.name)
}

// sysConstantDescriptor binds a name to an already-built host Value,
// independent of any ExecScope.
type sysConstantDescriptor struct {
	base  descBase
	value Value
}

func (d *sysConstantDescriptor) Kind() DescriptorKind { return DescSysConstant }
func (d *sysConstantDescriptor) Name() string         { return d.base.Name() }
func (d *sysConstantDescriptor) ScopeID() ScopeID     { return d.base.ScopeID() }
func (d *sysConstantDescriptor) ScopeOffset() int     { return d.base.ScopeOffset() }
func (d *sysConstantDescriptor) SlotIndex() int       { return -1 }

func (d *sysConstantDescriptor) Get(*ExecScope, token.Position) (Value, error) {
	return d.value, nil
}

func (d *sysConstantDescriptor) SetInitialize(*ExecScope, Value, token.Position) error { return nil }
func (d *sysConstantDescriptor) SetModify(_ *ExecScope, _ Value, pos token.Position) error {
	return diag.Compilationf(pos, "cannot assign to %q", d.base.name)
}
