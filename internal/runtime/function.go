package runtime

import (
	"github.com/cwbudde/scriptlang/internal/ast"
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/token"
)

// FunctionValue is a closure: a function declaration or function-literal
// body paired with the ExecScope active where it was defined.
// Invoke never runs the body itself — it calls back into the Invoker
// supplied at the call site, keeping this package free of any dependency
// on the evaluator.
type FunctionValue struct {
	Base
	Name       string // "" for an anonymous function literal
	Decl       *ast.FunctionDecl
	Closure    *ExecScope
	Descriptor *ScopeDescriptor // the function body's own bind scope
}

// NewFunctionValue builds a closure Value. Binders use this as the
// materialize callback passed to BindScope.DeclareFunction.
func NewFunctionValue(name string, decl *ast.FunctionDecl, descriptor *ScopeDescriptor) func(closure *ExecScope) Value {
	return func(closure *ExecScope) Value {
		return &FunctionValue{
			Base:       Base{TypeName: "function"},
			Name:       name,
			Decl:       decl,
			Closure:    closure,
			Descriptor: descriptor,
		}
	}
}

func (f *FunctionValue) ToString() (string, error) {
	if f.Name == "" {
		return "function", nil
	}
	return "function " + f.Name, nil
}
func (f *FunctionValue) Typeof() string { return "function" }

func (f *FunctionValue) Invoke(inv Invoker, args []Value, pos token.Position) (Value, *ExceptionValue, error) {
	return inv.CallFunction(f, args, pos)
}

func (f *FunctionValue) ValueEquals(other Value) (bool, error) {
	o, ok := other.(*FunctionValue)
	return ok && o == f, nil
}
func (f *FunctionValue) ValueHashCode() (uint64, error) { return uint64(ptrOf(f)), nil }

// FieldInfo records where one class field lives in an instance's slot
// array, and the visibility the binder resolved for it.
type FieldInfo struct {
	Slot       int
	IsConst    bool
	Visibility ast.Visibility
	Init       ast.Expression
}

// MethodInfo pairs a method declaration with its resolved visibility and
// the bind scope allocated for its own parameters/locals (separate from
// the class's own field scope).
type MethodInfo struct {
	Decl       *ast.FunctionDecl
	Visibility ast.Visibility
	Descriptor *ScopeDescriptor
}

// ClassValue is a class declaration closure: the class body's
// field/method layout plus the ExecScope it was declared in, used as the
// outer environment for every instance's field scope (so methods can see
// names declared alongside the class).
type ClassValue struct {
	Base
	Name           string
	Decl           *ast.ClassDecl
	Closure        *ExecScope
	Descriptor     *ScopeDescriptor // the class body's own bind scope (for accessibility checks)
	Fields         map[string]*FieldInfo
	Methods        map[string]*MethodInfo
	Ctor           *ast.FunctionDecl
	CtorDescriptor *ScopeDescriptor // the constructor's own bind scope; nil if Ctor is nil
}

// NewClassValue builds a closure Value; binders use this as the
// materialize callback passed to BindScope.DeclareClass.
func NewClassValue(name string, decl *ast.ClassDecl, descriptor *ScopeDescriptor, fields map[string]*FieldInfo, methods map[string]*MethodInfo, ctor *ast.FunctionDecl, ctorDescriptor *ScopeDescriptor) func(closure *ExecScope) Value {
	return func(closure *ExecScope) Value {
		return &ClassValue{
			Base:           Base{TypeName: "class"},
			Name:           name,
			Decl:           decl,
			Closure:        closure,
			Descriptor:     descriptor,
			Fields:         fields,
			Methods:        methods,
			Ctor:           ctor,
			CtorDescriptor: ctorDescriptor,
		}
	}
}

func (c *ClassValue) ToString() (string, error) { return "class " + c.Name, nil }
func (c *ClassValue) Typeof() string            { return "class" }

func (c *ClassValue) Instantiate(inv Invoker, args []Value, pos token.Position) (Value, *ExceptionValue, error) {
	return inv.NewInstance(c, args, pos)
}

// LookupMethod resolves name against this class (there is no inheritance in
// this language's class model) honoring the reader's accessibility set: a
// private method is visible only from within the class's own scope.
func (c *ClassValue) LookupMethod(reader *ScopeDescriptor, name string) (*MethodInfo, error) {
	m, ok := c.Methods[name]
	if !ok {
		return nil, diag.Runtimef(token.Position{}, "class %s has no method %q", c.Name, name)
	}
	if m.Visibility == ast.VisibilityPrivate && (reader == nil || !reader.CanAccess(c.Descriptor.ID)) {
		return nil, diag.Runtimef(token.Position{}, "%q is private to class %s", name, c.Name)
	}
	return m, nil
}

// LookupField resolves name's storage slot the same way LookupMethod
// resolves a method.
func (c *ClassValue) LookupField(reader *ScopeDescriptor, name string) (*FieldInfo, error) {
	f, ok := c.Fields[name]
	if !ok {
		return nil, diag.Runtimef(token.Position{}, "class %s has no field %q", c.Name, name)
	}
	if f.Visibility == ast.VisibilityPrivate && (reader == nil || !reader.CanAccess(c.Descriptor.ID)) {
		return nil, diag.Runtimef(token.Position{}, "%q is private to class %s", name, c.Name)
	}
	return f, nil
}

func (c *ClassValue) ValueEquals(other Value) (bool, error) {
	o, ok := other.(*ClassValue)
	return ok && o == c, nil
}
func (c *ClassValue) ValueHashCode() (uint64, error) { return uint64(ptrOf(c)), nil }

// ObjectValue is a class instance: its own ExecScope (fields
// as storage slots, `this` bound to the object itself) closing over the
// class's declaration scope.
type ObjectValue struct {
	Base
	Class    *ClassValue
	Instance *ExecScope
}

// NewObjectValue allocates the instance's field scope. Fields start
// Undefined; the caller (NewInstance) runs field initializers and the
// constructor afterward.
func NewObjectValue(cls *ClassValue) *ObjectValue {
	obj := &ObjectValue{Base: Base{TypeName: "object of " + cls.Name}, Class: cls}
	obj.Instance = NewExecScope(cls.Descriptor, cls.Closure, obj)
	return obj
}

func (o *ObjectValue) ToString() (string, error) { return "object of " + o.Class.Name, nil }
func (o *ObjectValue) Typeof() string            { return "object" }

func (o *ObjectValue) GetMember(access *ExecScope, name string) (Value, error) {
	var reader *ScopeDescriptor
	if access != nil {
		reader = access.Descriptor()
	}
	if f, err := o.Class.LookupField(reader, name); err == nil {
		slot, err := o.Instance.Slot(o.Class.Descriptor.ID, o.Class.Descriptor.ScopeOffset, f.Slot, token.Position{})
		if err != nil {
			return nil, err
		}
		v := *slot
		if v.IsUndefined() {
			return nil, diag.Runtimef(token.Position{}, "field %q read before initialization", name)
		}
		return v, nil
	}
	if m, err := o.Class.LookupMethod(reader, name); err == nil {
		fv := &FunctionValue{
			Base:       Base{TypeName: "function"},
			Name:       name,
			Decl:       m.Decl,
			Closure:    o.Instance,
			Descriptor: m.Descriptor,
		}
		return fv, nil
	}
	return nil, diag.Runtimef(token.Position{}, "object of %s has no member %q", o.Class.Name, name)
}

func (o *ObjectValue) SetMember(access *ExecScope, name string, v Value) error {
	var reader *ScopeDescriptor
	if access != nil {
		reader = access.Descriptor()
	}
	f, err := o.Class.LookupField(reader, name)
	if err != nil {
		return err
	}
	if f.IsConst {
		return diag.Compilationf(token.Position{}, "cannot assign to constant field %q", name)
	}
	slot, err := o.Instance.Slot(o.Class.Descriptor.ID, o.Class.Descriptor.ScopeOffset, f.Slot, token.Position{})
	if err != nil {
		return err
	}
	if v.IsVoid() {
		return diag.Runtimef(token.Position{}, "cannot assign a void value to field %q", name)
	}
	*slot = v
	return nil
}

func (o *ObjectValue) ValueEquals(other Value) (bool, error) {
	p, ok := other.(*ObjectValue)
	return ok && p == o, nil
}
func (o *ObjectValue) ValueHashCode() (uint64, error) { return uint64(ptrOf(o)), nil }
