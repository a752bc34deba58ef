package runtime

import (
	"fmt"

	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/token"
)

// NativeFunc is a host method implementation. receiver is nil for a
// static call. It returns either a normal Value, a thrown ExceptionValue,
// or a Go error for conditions that should surface as a diag error instead
// of a catchable script exception.
type NativeFunc func(inv Invoker, receiver Value, args []Value, pos token.Position) (Value, *ExceptionValue, error)

// SysMethodDescriptor resolves overloads purely by argument count — the
// host bridge never inspects argument types to pick an overload, only
// arity. Variadic, if set, handles any arity not present in Overloads.
type SysMethodDescriptor struct {
	Name      string
	Overloads map[int]NativeFunc
	Variadic  NativeFunc
}

func (m *SysMethodDescriptor) resolve(argc int, pos token.Position) (NativeFunc, error) {
	if fn, ok := m.Overloads[argc]; ok {
		return fn, nil
	}
	if m.Variadic != nil {
		return m.Variadic, nil
	}
	return nil, diag.Runtimef(pos, "%s: no overload accepts %d argument(s)", m.Name, argc)
}

// SysFieldDescriptor is a computed native property: get is required, set
// is nil for a read-only property.
type SysFieldDescriptor struct {
	Name string
	Get  func(receiver *SysObjectValue) (Value, error)
	Set  func(receiver *SysObjectValue, v Value) error
}

// SysClassDescriptor is the fixed shape of one host class, built once at
// registration time by the bridge package and shared by every instance.
type SysClassDescriptor struct {
	Name        string
	Constructor *SysMethodDescriptor // nil if the class cannot be `new`-ed from script
	Statics     map[string]*SysMethodDescriptor
	StaticConst map[string]Value
	Instance    map[string]*SysMethodDescriptor
	Fields      map[string]*SysFieldDescriptor
}

// SysClassValue is the script-visible handle for a registered host class:
// `new Sys.StringBuffer()` instantiates one, and `Sys.Math.sqrt(x)`
// resolves sqrt as a static member of a class value.
type SysClassValue struct {
	Base
	Descriptor *SysClassDescriptor
}

func NewSysClassValue(d *SysClassDescriptor) *SysClassValue {
	return &SysClassValue{Base: Base{TypeName: "class " + d.Name}, Descriptor: d}
}

func (c *SysClassValue) ToString() (string, error) { return "class " + c.Descriptor.Name, nil }
func (c *SysClassValue) Typeof() string             { return "class" }

func (c *SysClassValue) GetMember(_ *ExecScope, name string) (Value, error) {
	if v, ok := c.Descriptor.StaticConst[name]; ok {
		return v, nil
	}
	if m, ok := c.Descriptor.Statics[name]; ok {
		return &SysMethodValue{Base: Base{TypeName: "function"}, Name: name, Descriptor: m}, nil
	}
	return nil, diag.Runtimef(token.Position{}, "class %s has no static member %q", c.Descriptor.Name, name)
}

func (c *SysClassValue) Instantiate(inv Invoker, args []Value, pos token.Position) (Value, *ExceptionValue, error) {
	if c.Descriptor.Constructor == nil {
		return nil, nil, diag.Runtimef(pos, "class %s cannot be instantiated", c.Descriptor.Name)
	}
	fn, err := c.Descriptor.Constructor.resolve(len(args), pos)
	if err != nil {
		return nil, nil, err
	}
	obj := &SysObjectValue{Base: Base{TypeName: "object of " + c.Descriptor.Name}, Descriptor: c.Descriptor}
	v, exc, err := fn(inv, obj, args, pos)
	if err != nil || exc != nil {
		return nil, exc, err
	}
	if v != nil {
		return v, nil, nil
	}
	return obj, nil, nil
}

// SysObjectValue is an instance of a host class. Native holds whatever Go
// state the implementation needs (a *bytes.Buffer, an *os.File, a
// container's backing slice, ...); it is opaque to the rest of this
// package and type-asserted only by the native methods that own it.
type SysObjectValue struct {
	Base
	Descriptor *SysClassDescriptor
	Native     any
}

func (o *SysObjectValue) ToString() (string, error) {
	return fmt.Sprintf("object of %s", o.Descriptor.Name), nil
}
func (o *SysObjectValue) Typeof() string { return "object" }

func (o *SysObjectValue) GetMember(_ *ExecScope, name string) (Value, error) {
	if f, ok := o.Descriptor.Fields[name]; ok {
		return f.Get(o)
	}
	if m, ok := o.Descriptor.Instance[name]; ok {
		return &SysMethodValue{Base: Base{TypeName: "function"}, Name: name, Receiver: o, Descriptor: m}, nil
	}
	return nil, diag.Runtimef(token.Position{}, "object of %s has no member %q", o.Descriptor.Name, name)
}

func (o *SysObjectValue) SetMember(_ *ExecScope, name string, v Value) error {
	f, ok := o.Descriptor.Fields[name]
	if !ok {
		return diag.Runtimef(token.Position{}, "object of %s has no member %q", o.Descriptor.Name, name)
	}
	if f.Set == nil {
		return diag.Runtimef(token.Position{}, "%q is a read-only property of %s", name, o.Descriptor.Name)
	}
	return f.Set(o, v)
}

func (o *SysObjectValue) ValueEquals(other Value) (bool, error) {
	p, ok := other.(*SysObjectValue)
	return ok && p == o, nil
}
func (o *SysObjectValue) ValueHashCode() (uint64, error) { return uint64(ptrOf(o)), nil }

// SysMethodValue is a bound or static host method, produced by
// GetMember on a SysClassValue/SysObjectValue. Invoke is where arity
// resolution actually happens.
type SysMethodValue struct {
	Base
	Name       string
	Receiver   *SysObjectValue // nil for a static call
	Descriptor *SysMethodDescriptor
}

func (m *SysMethodValue) ToString() (string, error) { return "function " + m.Name, nil }
func (m *SysMethodValue) Typeof() string             { return "function" }

func (m *SysMethodValue) Invoke(inv Invoker, args []Value, pos token.Position) (Value, *ExceptionValue, error) {
	fn, err := m.Descriptor.resolve(len(args), pos)
	if err != nil {
		return nil, nil, err
	}
	var receiver Value
	if m.Receiver != nil {
		receiver = m.Receiver
	}
	return fn(inv, receiver, args, pos)
}

// SysNamespaceValue groups static classes/functions/constants under one
// name (the injected `sys` root, and nested namespaces like `sys.io`).
type SysNamespaceValue struct {
	Base
	Name    string
	Members map[string]Value
}

func NewSysNamespaceValue(name string, members map[string]Value) *SysNamespaceValue {
	return &SysNamespaceValue{Base: Base{TypeName: "namespace " + name}, Name: name, Members: members}
}

func (n *SysNamespaceValue) ToString() (string, error) { return "namespace " + n.Name, nil }
func (n *SysNamespaceValue) Typeof() string             { return "namespace" }

func (n *SysNamespaceValue) GetMember(_ *ExecScope, name string) (Value, error) {
	if v, ok := n.Members[name]; ok {
		return v, nil
	}
	return nil, diag.Runtimef(token.Position{}, "namespace %s has no member %q", n.Name, name)
}
