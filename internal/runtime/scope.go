package runtime

import (
	"sync/atomic"

	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/token"
)

// ScopeID uniquely identifies a bind-time scope for its entire lifetime.
// IDs are assigned in construction order and never reused.
type ScopeID int64

var nextScopeID int64

func freshScopeID() ScopeID {
	return ScopeID(atomic.AddInt64(&nextScopeID, 1))
}

// ScopeDescriptor is the frozen, shareable summary of a BindScope. Only the descriptor is
// retained after binding completes; the BindScope tree itself can be
// discarded.
type ScopeDescriptor struct {
	ID            ScopeID
	ScopeOffset   int      // depth from the root bind scope
	Size          int      // number of storage-backed slots
	OuterID       ScopeID  // 0 (no valid ID) for the root scope
	Accessibility map[ScopeID]bool // ancestor IDs, including this scope's own ID
	ThisAllowed   bool
	IsLoop        bool
}

// CanAccess reports whether a member declared in a class whose frozen
// scope carries classScopeID is visible from a reader whose own
// accessibility set is this descriptor.
func (d *ScopeDescriptor) CanAccess(classScopeID ScopeID) bool {
	return d.Accessibility[classScopeID]
}

// BindScope is a node in the bind-time scope tree. It is
// mutable while being built and is frozen by CreateScopeDescriptor, after
// which further declarations are a system error.
type BindScope struct {
	id          ScopeID
	parent      *BindScope
	offset      int
	names       map[string]NameDescriptor
	order       []string // declaration order, for diagnostics
	nextSlot    int
	thisAllowed bool
	isLoop      bool
	frozen      bool
	descriptor  *ScopeDescriptor
}

// NewRootScope creates the bind scope for a top-level script.
func NewRootScope() *BindScope {
	return &BindScope{
		id:     freshScopeID(),
		offset: 0,
		names:  make(map[string]NameDescriptor),
	}
}

// CreateNestedScope opens a class/function body scope. thisAllowed governs
// whether a `this` expression is legal anywhere inside it (and is
// inherited by nested blocks via CreateNestedBlock).
func (s *BindScope) CreateNestedScope(thisAllowed bool) *BindScope {
	return &BindScope{
		id:          freshScopeID(),
		parent:      s,
		offset:      s.offset + 1,
		names:       make(map[string]NameDescriptor),
		thisAllowed: thisAllowed,
	}
}

// CreateNestedBlock opens a lexical block. isLoop marks it (and
// its descendants, via IsLoop) as a legal target for break/continue;
// `this`-allowed is inherited from the parent scope's anchor.
func (s *BindScope) CreateNestedBlock(isLoop bool) *BindScope {
	return &BindScope{
		id:          freshScopeID(),
		parent:      s,
		offset:      s.offset + 1,
		names:       make(map[string]NameDescriptor),
		thisAllowed: s.thisAllowed,
		isLoop:      isLoop || s.isLoop,
	}
}

// ThisAllowed reports whether a `this` expression is legal in this scope.
func (s *BindScope) ThisAllowed() bool { return s.thisAllowed }

// InLoop reports whether break/continue are legal in this scope.
func (s *BindScope) InLoop() bool { return s.isLoop }

// ID returns this scope's identity token.
func (s *BindScope) ID() ScopeID { return s.id }

// Parent returns the enclosing bind scope, or nil for the root.
func (s *BindScope) Parent() *BindScope { return s.parent }

// mustNotBeFrozen returns a system error if called after freezing;
// this indicates a bug in the binder, not a script error.
func (s *BindScope) mustNotBeFrozen(pos token.Position) error {
	if s.frozen {
		return diag.Systemf(pos, "builder method called on a frozen scope descriptor (scope %d)", s.id)
	}
	return nil
}

// DeclareVariable allocates a new storage slot for name in this scope.
// Duplicate names within this scope, or shadowing a name already declared
// in this exact scope, is a compile-time "Name conflict" error. Shadowing
// an ancestor's name is allowed (inner scope wins).
func (s *BindScope) DeclareVariable(pos token.Position, name string, isConst bool) (NameDescriptor, error) {
	if err := s.mustNotBeFrozen(pos); err != nil {
		return nil, err
	}
	if _, exists := s.names[name]; exists {
		return nil, diag.Compilationf(pos, "Name conflict: %q is already declared in this scope", name)
	}
	slot := s.nextSlot
	s.nextSlot++
	d := &variableDescriptor{
		base:    descBase{scopeID: s.id, scopeOffset: s.offset, name: name},
		slot:    slot,
		isConst: isConst,
	}
	s.names[name] = d
	s.order = append(s.order, name)
	return d, nil
}

// DeclareFunction registers a named function declaration. No storage slot
// is allocated; materialize is called lazily by Get to build the closure
// Value bound to the current ExecScope.
func (s *BindScope) DeclareFunction(pos token.Position, nameStr string, materialize func(closure *ExecScope) Value) (NameDescriptor, error) {
	if err := s.mustNotBeFrozen(pos); err != nil {
		return nil, err
	}
	if _, exists := s.names[nameStr]; exists {
		return nil, diag.Compilationf(pos, "Name conflict: %q is already declared in this scope", nameStr)
	}
	d := &closureDescriptor{
		base:        descBase{scopeID: s.id, scopeOffset: s.offset, name: nameStr},
		materialize: materialize,
	}
	s.names[nameStr] = d
	s.order = append(s.order, nameStr)
	return d, nil
}

// DeclareClass registers a named class declaration, same shape as
// DeclareFunction.
func (s *BindScope) DeclareClass(pos token.Position, nameStr string, materialize func(closure *ExecScope) Value) (NameDescriptor, error) {
	return s.DeclareFunction(pos, nameStr, materialize)
}

// DeclareSysConstant binds name to an already-constructed host Value —
// used to seed the injected `sys` namespace and dependency-injected
// sub-script scopes.
func (s *BindScope) DeclareSysConstant(pos token.Position, nameStr string, v Value) (NameDescriptor, error) {
	if err := s.mustNotBeFrozen(pos); err != nil {
		return nil, err
	}
	if _, exists := s.names[nameStr]; exists {
		return nil, diag.Compilationf(pos, "Name conflict: %q is already declared in this scope", nameStr)
	}
	d := &sysConstantDescriptor{
		base:  descBase{scopeID: s.id, scopeOffset: s.offset, name: nameStr},
		value: v,
	}
	s.names[nameStr] = d
	s.order = append(s.order, nameStr)
	return d, nil
}

// Lookup walks outward from this scope, returning the first matching
// descriptor.
func (s *BindScope) Lookup(pos token.Position, nameStr string) (NameDescriptor, error) {
	for cur := s; cur != nil; cur = cur.parent {
		if d, ok := cur.names[nameStr]; ok {
			return d, nil
		}
	}
	return nil, diag.Compilationf(pos, "Name not found: %q", nameStr)
}

// CreateScopeDescriptor freezes the scope: records its size and
// accessibility set, and forbids any further declarations. Safe to call
// more than once; subsequent calls return the same descriptor.
func (s *BindScope) CreateScopeDescriptor() *ScopeDescriptor {
	if s.descriptor != nil {
		return s.descriptor
	}
	access := make(map[ScopeID]bool)
	var outer ScopeID
	for cur := s; cur != nil; cur = cur.parent {
		access[cur.id] = true
		if cur == s && cur.parent != nil {
			outer = cur.parent.id
		}
	}
	s.descriptor = &ScopeDescriptor{
		ID:            s.id,
		ScopeOffset:   s.offset,
		Size:          s.nextSlot,
		OuterID:       outer,
		Accessibility: access,
		ThisAllowed:   s.thisAllowed,
		IsLoop:        s.isLoop,
	}
	s.frozen = true
	return s.descriptor
}
