package ast

import (
	"strings"

	"github.com/cwbudde/scriptlang/internal/token"
)

// UnaryExpr is `-x` or `!x`. There is no unary `+`: the parser does not
// accept one and UnaryOp has no case for it.
type UnaryExpr struct {
	Position token.Position
	Op       string
	Operand  Expression
}

func (e *UnaryExpr) Pos() token.Position { return e.Position }
func (e *UnaryExpr) String() string      { return e.Op + e.Operand.String() }
func (*UnaryExpr) expressionNode()       {}

// BinaryExpr is any of the binary operators:
// + - * / % && || == != < > <= >=.
type BinaryExpr struct {
	Position token.Position
	Op       string
	Left     Expression
	Right    Expression
}

func (e *BinaryExpr) Pos() token.Position { return e.Position }
func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op + " " + e.Right.String() + ")"
}
func (*BinaryExpr) expressionNode() {}

// AssignExpr is a plain or compound assignment (`=`, `+=`, `-=`, `*=`,
// `/=`). Target must be an lvalue; the binder rejects otherwise.
type AssignExpr struct {
	Position token.Position
	Op       string // "=" for plain, "+=" etc. for compound
	Target   Expression
	Value    Expression
}

func (e *AssignExpr) Pos() token.Position { return e.Position }
func (e *AssignExpr) String() string {
	return e.Target.String() + " " + e.Op + " " + e.Value.String()
}
func (*AssignExpr) expressionNode() {}

// IncDecExpr is `++x`, `x++`, `--x`, or `x--`.
type IncDecExpr struct {
	Position token.Position
	Op       string // "++" or "--"
	Prefix   bool
	Operand  Expression
}

func (e *IncDecExpr) Pos() token.Position { return e.Position }
func (e *IncDecExpr) String() string {
	if e.Prefix {
		return e.Op + e.Operand.String()
	}
	return e.Operand.String() + e.Op
}
func (*IncDecExpr) expressionNode() {}

// MemberExpr is `obj.name`.
type MemberExpr struct {
	Position token.Position
	Object   Expression
	Name     string
}

func (e *MemberExpr) Pos() token.Position { return e.Position }
func (e *MemberExpr) String() string      { return e.Object.String() + "." + e.Name }
func (*MemberExpr) expressionNode()       {}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	Position token.Position
	Callee   Expression
	Args     []Expression
}

func (e *CallExpr) Pos() token.Position { return e.Position }
func (e *CallExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return e.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}
func (*CallExpr) expressionNode() {}

// NewExpr is `new Class(args...)`. Class is the expression naming the
// class to instantiate — an Identifier for a plain name, or a chain of
// MemberExpr for a namespaced host class (`new Sys.StringBuffer()`) —
// resolved and bound exactly like any other expression rather than as a
// special dotted-string case.
type NewExpr struct {
	Position token.Position
	Class    Expression
	Args     []Expression
}

func (e *NewExpr) Pos() token.Position { return e.Position }
func (e *NewExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return "new " + e.Class.String() + "(" + strings.Join(parts, ", ") + ")"
}
func (*NewExpr) expressionNode() {}

// NewArrayExpr is `new [len]`.
type NewArrayExpr struct {
	Position token.Position
	Length   Expression
}

func (e *NewArrayExpr) Pos() token.Position { return e.Position }
func (e *NewArrayExpr) String() string      { return "new [" + e.Length.String() + "]" }
func (*NewArrayExpr) expressionNode()       {}

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	Position token.Position
	Elements []Expression
}

func (e *ArrayLiteral) Pos() token.Position { return e.Position }
func (e *ArrayLiteral) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (*ArrayLiteral) expressionNode() {}

// IndexExpr is `arr[index]`.
type IndexExpr struct {
	Position token.Position
	Array    Expression
	Index    Expression
}

func (e *IndexExpr) Pos() token.Position { return e.Position }
func (e *IndexExpr) String() string      { return e.Array.String() + "[" + e.Index.String() + "]" }
func (*IndexExpr) expressionNode()       {}

// TypeofExpr is `typeof(operand)`.
type TypeofExpr struct {
	Position token.Position
	Operand  Expression
}

func (e *TypeofExpr) Pos() token.Position { return e.Position }
func (e *TypeofExpr) String() string      { return "typeof(" + e.Operand.String() + ")" }
func (*TypeofExpr) expressionNode()       {}

// ConditionalExpr is `cond ? then : els`.
type ConditionalExpr struct {
	Position token.Position
	Cond     Expression
	Then     Expression
	Else     Expression
}

func (e *ConditionalExpr) Pos() token.Position { return e.Position }
func (e *ConditionalExpr) String() string {
	return "(" + e.Cond.String() + " ? " + e.Then.String() + " : " + e.Else.String() + ")"
}
func (*ConditionalExpr) expressionNode() {}

// FunctionLiteral is a `function(params) { body }` expression, materializing
// a closure over the scope it is evaluated in.
type FunctionLiteral struct {
	Position token.Position
	Params   []string
	Body     *BlockStmt
}

func (e *FunctionLiteral) Pos() token.Position { return e.Position }
func (e *FunctionLiteral) String() string {
	return "function(" + strings.Join(e.Params, ", ") + ") " + e.Body.String()
}
func (*FunctionLiteral) expressionNode() {}

// ClassLiteral is a `class { ... }` expression, materializing a Class value
// capturing the current scope.
type ClassLiteral struct {
	Position token.Position
	Body     *ClassDecl
}

func (e *ClassLiteral) Pos() token.Position { return e.Position }
func (e *ClassLiteral) String() string      { return e.Body.String() }
func (*ClassLiteral) expressionNode()       {}
