// Package bridge provides the fluent registration API used to expose a Go
// type as a host class callable from script (`new Sys.StringBuffer()`,
// `Sys.Math.sqrt(x)`). It is the only package outside internal/runtime
// allowed to build a runtime.SysClassDescriptor by hand; internal/sysapi
// uses it to register every host class rather than constructing the
// descriptor maps directly. Grounded on the original implementation's
// SysClassBuilder (sysclassbld.h/.cpp): add_constructor/add_static_field/
// add_static_method/add_field/add_method, adapted from C++ template
// member-function-pointer registration to Go closures over *runtime.
// SysObjectValue.Native, arity-keyed the same way runtime.SysMethodDescriptor
// already resolves overloads.
package bridge

import (
	"github.com/cwbudde/scriptlang/internal/runtime"
)

// ClassBuilder accumulates one host class's shape before freezing it into a
// *runtime.SysClassDescriptor via Build. Not safe for concurrent use; every
// sysapi package builds its descriptors once, at package init, from a single
// goroutine.
type ClassBuilder struct {
	name        string
	constructor *runtime.SysMethodDescriptor
	statics     map[string]*runtime.SysMethodDescriptor
	staticConst map[string]runtime.Value
	instance    map[string]*runtime.SysMethodDescriptor
	fields      map[string]*runtime.SysFieldDescriptor
}

// NewClass starts building a host class named name (the identifier script
// code uses after `new` or as a namespace member).
func NewClass(name string) *ClassBuilder {
	return &ClassBuilder{
		name:        name,
		statics:     make(map[string]*runtime.SysMethodDescriptor),
		staticConst: make(map[string]runtime.Value),
		instance:    make(map[string]*runtime.SysMethodDescriptor),
		fields:      make(map[string]*runtime.SysFieldDescriptor),
	}
}

// method looks up (creating if absent) the named overload set in table.
func method(table map[string]*runtime.SysMethodDescriptor, name string) *runtime.SysMethodDescriptor {
	m, ok := table[name]
	if !ok {
		m = &runtime.SysMethodDescriptor{Name: name, Overloads: make(map[int]runtime.NativeFunc)}
		table[name] = m
	}
	return m
}

// Constructor registers the overload of `new ClassName(...)` taking argc
// arguments. fn receives the freshly allocated *runtime.SysObjectValue as
// receiver and must populate its Native field.
func (b *ClassBuilder) Constructor(argc int, fn runtime.NativeFunc) *ClassBuilder {
	if b.constructor == nil {
		b.constructor = &runtime.SysMethodDescriptor{Name: "constructor", Overloads: make(map[int]runtime.NativeFunc)}
	}
	b.constructor.Overloads[argc] = fn
	return b
}

// VariadicConstructor registers a constructor overload accepting any arity
// not covered by Constructor.
func (b *ClassBuilder) VariadicConstructor(fn runtime.NativeFunc) *ClassBuilder {
	if b.constructor == nil {
		b.constructor = &runtime.SysMethodDescriptor{Name: "constructor", Overloads: make(map[int]runtime.NativeFunc)}
	}
	b.constructor.Variadic = fn
	return b
}

// StaticMethod registers a class-level method overload (`ClassName.method(...)`,
// receiver is always nil).
func (b *ClassBuilder) StaticMethod(name string, argc int, fn runtime.NativeFunc) *ClassBuilder {
	method(b.statics, name).Overloads[argc] = fn
	return b
}

// VariadicStaticMethod registers the catch-all arity for a static method.
func (b *ClassBuilder) VariadicStaticMethod(name string, fn runtime.NativeFunc) *ClassBuilder {
	method(b.statics, name).Variadic = fn
	return b
}

// StaticConstant binds name to an already-built Value, shared by every
// reference to ClassName.name (e.g. a `Sys.Math.PI` style constant).
func (b *ClassBuilder) StaticConstant(name string, v runtime.Value) *ClassBuilder {
	b.staticConst[name] = v
	return b
}

// Method registers an instance method overload (`instance.method(...)`).
func (b *ClassBuilder) Method(name string, argc int, fn runtime.NativeFunc) *ClassBuilder {
	method(b.instance, name).Overloads[argc] = fn
	return b
}

// VariadicMethod registers the catch-all arity for an instance method.
func (b *ClassBuilder) VariadicMethod(name string, fn runtime.NativeFunc) *ClassBuilder {
	method(b.instance, name).Variadic = fn
	return b
}

// Field registers a computed instance property. set may be nil for a
// read-only property. For a property with a default value, see
// FieldWithDefault.
func (b *ClassBuilder) Field(name string, get func(*runtime.SysObjectValue) (runtime.Value, error), set func(*runtime.SysObjectValue, runtime.Value) error) *ClassBuilder {
	b.fields[name] = &runtime.SysFieldDescriptor{Name: name, Get: get, Set: set}
	return b
}

// FieldWithDefault is Field plus a default value: Get returns def whenever
// get yields a nil value or an error (e.g. before the field has been
// written through set) — re-added from the original implementation's
// field-default-value support (sysclassbld.cpp).
func (b *ClassBuilder) FieldWithDefault(name string, def runtime.Value, get func(*runtime.SysObjectValue) (runtime.Value, error), set func(*runtime.SysObjectValue, runtime.Value) error) *ClassBuilder {
	b.fields[name] = &runtime.SysFieldDescriptor{
		Name: name,
		Get: func(o *runtime.SysObjectValue) (runtime.Value, error) {
			if v, err := get(o); err == nil && v != nil {
				return v, nil
			}
			return def, nil
		},
		Set: set,
	}
	return b
}

// Build freezes the accumulated shape into a descriptor, ready to be wrapped
// by runtime.NewSysClassValue or embedded as a namespace member.
func (b *ClassBuilder) Build() *runtime.SysClassDescriptor {
	return &runtime.SysClassDescriptor{
		Name:        b.name,
		Constructor: b.constructor,
		Statics:     b.statics,
		StaticConst: b.staticConst,
		Instance:    b.instance,
		Fields:      b.fields,
	}
}

// BuildValue is a convenience for Build followed by runtime.NewSysClassValue.
func (b *ClassBuilder) BuildValue() *runtime.SysClassValue {
	return runtime.NewSysClassValue(b.Build())
}

// Namespace builds a runtime.SysNamespaceValue grouping classes, functions,
// and constants under one name.
type Namespace struct {
	name    string
	members map[string]runtime.Value
}

// NewNamespace starts a namespace named name.
func NewNamespace(name string) *Namespace {
	return &Namespace{name: name, members: make(map[string]runtime.Value)}
}

// Class registers a built class as a namespace member (`Sys.StringBuffer`).
func (n *Namespace) Class(b *ClassBuilder) *Namespace {
	n.members[b.name] = b.BuildValue()
	return n
}

// ClassValue registers an already-built class value as a namespace member —
// useful when the caller also needs to keep its own reference to the same
// *runtime.SysClassValue (e.g. to instantiate it internally, the way
// ServerSocket.accept mints a Socket).
func (n *Namespace) ClassValue(v *runtime.SysClassValue) *Namespace {
	n.members[v.Descriptor.Name] = v
	return n
}

// namespaceMethod looks up (creating if absent) the named function's
// overload set among n's members, so repeated Function calls for the same
// name accumulate overloads instead of overwriting each other.
func (n *Namespace) namespaceMethod(name string) *runtime.SysMethodDescriptor {
	if existing, ok := n.members[name].(*runtime.SysMethodValue); ok {
		return existing.Descriptor
	}
	d := &runtime.SysMethodDescriptor{Name: name, Overloads: make(map[int]runtime.NativeFunc)}
	n.members[name] = &runtime.SysMethodValue{Base: runtime.Base{TypeName: "function"}, Name: name, Descriptor: d}
	return d
}

// Function registers a bare static function overload as a namespace member
// (`Sys.current_time_millis()`), with no receiver and no enclosing class.
// Calling Function again with the same name adds another arity overload.
func (n *Namespace) Function(name string, argc int, fn runtime.NativeFunc) *Namespace {
	n.namespaceMethod(name).Overloads[argc] = fn
	return n
}

// VariadicFunction registers the catch-all arity for a namespace-level
// function.
func (n *Namespace) VariadicFunction(name string, fn runtime.NativeFunc) *Namespace {
	n.namespaceMethod(name).Variadic = fn
	return n
}

// Constant registers a static constant value (`Sys.windows`).
func (n *Namespace) Constant(name string, v runtime.Value) *Namespace {
	n.members[name] = v
	return n
}

// Nested registers another namespace as a member (`sys.io`).
func (n *Namespace) Nested(child *Namespace) *Namespace {
	n.members[child.name] = child.Build()
	return n
}

// Build freezes the namespace into a runtime.SysNamespaceValue.
func (n *Namespace) Build() *runtime.SysNamespaceValue {
	return runtime.NewSysNamespaceValue(n.name, n.members)
}
