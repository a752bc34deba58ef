package runtime

import (
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/token"
)

// ExecScope is the execute-time counterpart of a BindScope activation.
// A fresh ExecScope is created every
// time control enters the block/function/class body a BindScope describes;
// its outer pointer is the ExecScope captured by the enclosing closure at
// creation time, not necessarily the lexically-previous activation — this
// is what makes closures work.
type ExecScope struct {
	descriptor *ScopeDescriptor
	outer      *ExecScope
	slots      []Value
	this       Value
}

// NewExecScope allocates the slot storage for one activation of the scope
// descriptor describes. outer is the closure environment (nil for the
// root script scope); this is the receiver, or nil if the scope does not
// introduce one.
func NewExecScope(descriptor *ScopeDescriptor, outer *ExecScope, this Value) *ExecScope {
	slots := make([]Value, descriptor.Size)
	for i := range slots {
		slots[i] = Undefined
	}
	return &ExecScope{descriptor: descriptor, outer: outer, slots: slots, this: this}
}

// CreateNestedScope activates a child BindScope that introduces its own
// `this` (a method body or class instantiation), capturing s as its
// closure environment.
func (s *ExecScope) CreateNestedScope(descriptor *ScopeDescriptor, this Value) *ExecScope {
	return NewExecScope(descriptor, s, this)
}

// CreateNestedBlock activates a child BindScope that does not introduce a
// new `this` (an if/while/for body or a bare block); `this` lookups fall
// through to s.
func (s *ExecScope) CreateNestedBlock(descriptor *ScopeDescriptor) *ExecScope {
	return NewExecScope(descriptor, s, nil)
}

// This returns the nearest enclosing receiver, walking outward until one
// is found; ok is false at top level, where no `this` is ever bound.
func (s *ExecScope) This() (v Value, ok bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if cur.this != nil {
			return cur.this, true
		}
	}
	return nil, false
}

// Slot resolves the storage cell a NameDescriptor pointing at scopeID was
// allocated in, walking the closure chain outward from s. A miss is a
// system error: the binder guarantees every descriptor it hands out
// resolves against the ExecScope chain active when it is used.
func (s *ExecScope) Slot(scopeID ScopeID, scopeOffset int, idx int, pos token.Position) (*Value, error) {
	for cur := s; cur != nil; cur = cur.outer {
		if cur.descriptor.ID == scopeID {
			if idx < 0 || idx >= len(cur.slots) {
				return nil, diag.Systemf(pos, "slot index %d out of range for scope %d (size %d)", idx, scopeID, len(cur.slots))
			}
			return &cur.slots[idx], nil
		}
	}
	return nil, diag.Systemf(pos, "scope %d not found on the active closure chain", scopeID)
}

// Descriptor returns the bind-time descriptor this activation was created
// from.
func (s *ExecScope) Descriptor() *ScopeDescriptor { return s.descriptor }

// Outer returns the captured closure environment, or nil at the root.
func (s *ExecScope) Outer() *ExecScope { return s.outer }
