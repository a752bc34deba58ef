package ast

import (
	"strings"

	"github.com/cwbudde/scriptlang/internal/token"
)

// FunctionDecl is `function name(params) { body }`. It is a declaration
// statement: it, like ClassDecl, lives in a block's
// declaration prefix and is visible to its siblings regardless of source
// order, supporting mutual recursion.
//
// A class constructor is represented the same way with Name == "": the
// class-body pass finds the first nameless function member and removes it
// from Members before binding.
type FunctionDecl struct {
	Position token.Position
	Name     string // "" for a class constructor
	Params   []string
	Body     *BlockStmt
}

func (d *FunctionDecl) Pos() token.Position { return d.Position }
func (d *FunctionDecl) String() string {
	return "function " + d.Name + "(" + strings.Join(d.Params, ", ") + ") " + d.Body.String()
}
func (*FunctionDecl) statementNode() {}
