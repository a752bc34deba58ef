package ast

import "github.com/cwbudde/scriptlang/internal/token"

// VarDecl is `var name [= init];` or `const name = init;`. It is a
// declaration statement: it appears in its block's Body and is also
// listed in the block's Decls.
type VarDecl struct {
	Position token.Position
	Name     string
	IsConst  bool
	Init     Expression // nil for `var x;` with no initializer
}

func (d *VarDecl) Pos() token.Position { return d.Position }
func (d *VarDecl) String() string {
	kw := "var "
	if d.IsConst {
		kw = "const "
	}
	if d.Init == nil {
		return kw + d.Name + ";"
	}
	return kw + d.Name + " = " + d.Init.String() + ";"
}
func (*VarDecl) statementNode() {}
