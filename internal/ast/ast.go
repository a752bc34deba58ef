// Package ast defines the syntax tree produced by the lexer/parser and
// consumed by the binder and evaluator, which are the in-scope core. Node
// shapes are trimmed to a dynamically-typed scripting language: no static
// type annotations, no generics, no records/interfaces/sets/enums/units —
// just the class/function/closure/exception/array/hashmap surface.
package ast

import (
	"bytes"
	"strconv"

	"github.com/cwbudde/scriptlang/internal/token"
)

// Node is the base interface every AST node implements.
type Node interface {
	Pos() token.Position
	String() string
}

// Expression is any node that produces a value when evaluated.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that executes for effect.
type Statement interface {
	Node
	statementNode()
}

// Program is the root of a parsed script.
type Program struct {
	Statements []Statement
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, st := range p.Statements {
		out.WriteString(st.String())
	}
	return out.String()
}

// Identifier is a name reference (variable, function, class, parameter).
type Identifier struct {
	Position token.Position
	Name     string
}

func (i *Identifier) Pos() token.Position { return i.Position }
func (i *Identifier) String() string      { return i.Name }
func (*Identifier) expressionNode()       {}

// IntegerLiteral is an integer constant.
type IntegerLiteral struct {
	Position token.Position
	Value    int64
}

func (l *IntegerLiteral) Pos() token.Position { return l.Position }
func (l *IntegerLiteral) String() string      { return strconv.FormatInt(l.Value, 10) }
func (*IntegerLiteral) expressionNode()       {}

// FloatLiteral is a floating-point constant.
type FloatLiteral struct {
	Position token.Position
	Value    float64
}

func (l *FloatLiteral) Pos() token.Position { return l.Position }
func (l *FloatLiteral) String() string      { return strconv.FormatFloat(l.Value, 'g', -1, 64) }
func (*FloatLiteral) expressionNode()       {}

// StringLiteral is a string constant. String literals may be cached by the
// evaluator's value factory.
type StringLiteral struct {
	Position token.Position
	Value    string
}

func (l *StringLiteral) Pos() token.Position { return l.Position }
func (l *StringLiteral) String() string      { return strconv.Quote(l.Value) }
func (*StringLiteral) expressionNode()       {}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Position token.Position
	Value    bool
}

func (l *BooleanLiteral) Pos() token.Position { return l.Position }
func (l *BooleanLiteral) String() string      { return strconv.FormatBool(l.Value) }
func (*BooleanLiteral) expressionNode()       {}

// NullLiteral is the `null` literal.
type NullLiteral struct {
	Position token.Position
}

func (l *NullLiteral) Pos() token.Position { return l.Position }
func (l *NullLiteral) String() string      { return "null" }
func (*NullLiteral) expressionNode()       {}

// ThisExpr is the `this` expression, valid only inside a class body.
type ThisExpr struct {
	Position token.Position
}

func (e *ThisExpr) Pos() token.Position { return e.Position }
func (e *ThisExpr) String() string      { return "this" }
func (*ThisExpr) expressionNode()       {}
