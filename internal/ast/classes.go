package ast

import "github.com/cwbudde/scriptlang/internal/token"

// Visibility is a class member's declared access modifier.
// VisibilityDefault means no explicit modifier was written; the binder
// resolves it to the declaration kind's preferred default (public for
// functions, private for variables/constants).
type Visibility int

const (
	VisibilityDefault Visibility = iota
	VisibilityPublic
	VisibilityPrivate
)

// ClassMember is one member declaration inside a class body: a var/const
// field or a function (method). Exactly one of Var or Method is non-nil.
type ClassMember struct {
	Position   token.Position
	Visibility Visibility
	Var        *VarDecl
	Method     *FunctionDecl
}

func (m *ClassMember) Pos() token.Position { return m.Position }
func (m *ClassMember) String() string {
	if m.Var != nil {
		return m.Var.String()
	}
	return m.Method.String()
}

// ClassDecl is `class Name { members... }`. Ctor is the member the
// class-body parsing pass extracted as the constructor — the
// first member declared either as a nameless function or as
// `Name(params) { ... }` with the class's own name — or nil if the
// class declares none.
type ClassDecl struct {
	Position token.Position
	Name     string // "" for an anonymous class literal
	Members  []*ClassMember
	Ctor     *FunctionDecl
}

func (d *ClassDecl) Pos() token.Position { return d.Position }
func (d *ClassDecl) String() string {
	out := "class " + d.Name + " {"
	for _, m := range d.Members {
		out += m.String()
	}
	return out + "}"
}
func (*ClassDecl) statementNode() {}
