// Package parser builds an internal/ast tree from a lexer.Lexer's token
// stream using a Pratt (precedence-climbing) expression parser.
package parser

import (
	"fmt"
	"strconv"

	"github.com/cwbudde/scriptlang/internal/ast"
	"github.com/cwbudde/scriptlang/internal/lexer"
	"github.com/cwbudde/scriptlang/internal/token"
)

// precedence levels, lowest to highest.
const (
	_ int = iota
	precAssign
	precTernary
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:        precAssign,
	lexer.PLUS_ASSIGN:   precAssign,
	lexer.MINUS_ASSIGN:  precAssign,
	lexer.TIMES_ASSIGN:  precAssign,
	lexer.DIVIDE_ASSIGN: precAssign,
	lexer.QUESTION:      precTernary,
	lexer.PIPE_PIPE:     precOr,
	lexer.AMP_AMP:       precAnd,
	lexer.EQ:            precEquality,
	lexer.NOT_EQ:        precEquality,
	lexer.LESS:          precRelational,
	lexer.GREATER:       precRelational,
	lexer.LESS_EQ:       precRelational,
	lexer.GREATER_EQ:    precRelational,
	lexer.PLUS:          precAdditive,
	lexer.MINUS:         precAdditive,
	lexer.ASTERISK:      precMultiplicative,
	lexer.SLASH:         precMultiplicative,
	lexer.PERCENT:       precMultiplicative,
	lexer.LPAREN:        precPostfix,
	lexer.LBRACK:        precPostfix,
	lexer.DOT:           precPostfix,
	lexer.INC:           precPostfix,
	lexer.DEC:           precPostfix,
}

// ParseError is a syntax error encountered while parsing.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s syntax error: %s", e.Pos.String(), e.Message)
}

// Parser consumes a Lexer's token stream and builds an *ast.Program.
type Parser struct {
	file   string
	l      *lexer.Lexer
	cur    lexer.Token
	peek   lexer.Token
	peek2  lexer.Token
	errors []*ParseError
}

// New creates a Parser for file's source text.
func New(file, src string) *Parser {
	p := &Parser{file: file, l: lexer.New(file, src)}
	p.next()
	p.next()
	p.next()
	return p
}

// Errors returns every syntax error accumulated while parsing.
func (p *Parser) Errors() []*ParseError { return p.errors }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.peek2
	p.peek2 = p.l.Next()
}

func (p *Parser) pos(tok lexer.Token) token.Position {
	return token.Position{File: p.file, Line: tok.Line, Column: tok.Column}
}

func (p *Parser) curPos() token.Position { return p.pos(p.cur) }

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, &ParseError{Pos: p.curPos(), Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) expect(tt lexer.TokenType) bool {
	if p.cur.Type != tt {
		p.errorf("expected %s, got %s (%q)", tt, p.cur.Type, p.cur.Literal)
		return false
	}
	p.next()
	return true
}

// ParseProgram parses the whole file into an *ast.Program.
func ParseProgram(file, src string) (*ast.Program, []*ParseError) {
	p := New(file, src)
	prog := &ast.Program{}
	for p.cur.Type != lexer.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog, p.errors
}

// --- Statements ----------------------------------------------------------

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.SEMICOLON:
		pos := p.curPos()
		p.next()
		return &ast.EmptyStmt{Position: pos}
	case lexer.VAR, lexer.CONST:
		return p.parseVarDecl()
	case lexer.FUNCTION:
		return p.parseFunctionDecl()
	case lexer.CLASS:
		return p.parseClassDecl()
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FOR:
		return p.parseForOrForEach()
	case lexer.BREAK:
		pos := p.curPos()
		p.next()
		p.expect(lexer.SEMICOLON)
		return &ast.BreakStmt{Position: pos}
	case lexer.CONTINUE:
		pos := p.curPos()
		p.next()
		p.expect(lexer.SEMICOLON)
		return &ast.ContinueStmt{Position: pos}
	case lexer.RETURN:
		pos := p.curPos()
		p.next()
		var val ast.Expression
		if p.cur.Type != lexer.SEMICOLON {
			val = p.parseExpression(precAssign)
		}
		p.expect(lexer.SEMICOLON)
		return &ast.ReturnStmt{Position: pos, Value: val}
	case lexer.THROW:
		pos := p.curPos()
		p.next()
		val := p.parseExpression(precAssign)
		p.expect(lexer.SEMICOLON)
		return &ast.ThrowStmt{Position: pos, Value: val}
	case lexer.TRY:
		return p.parseTry()
	default:
		pos := p.curPos()
		expr := p.parseExpression(precAssign)
		p.expect(lexer.SEMICOLON)
		return &ast.ExprStmt{Position: pos, Expr: expr}
	}
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	pos := p.curPos()
	isConst := p.cur.Type == lexer.CONST
	p.next()
	if p.cur.Type != lexer.IDENT {
		p.errorf("expected identifier, got %s", p.cur.Type)
	}
	name := p.cur.Literal
	p.next()
	var init ast.Expression
	if p.cur.Type == lexer.ASSIGN {
		p.next()
		init = p.parseExpression(precAssign)
	} else if isConst {
		p.errorf("const %q requires an initializer", name)
	}
	p.expect(lexer.SEMICOLON)
	return &ast.VarDecl{Position: pos, Name: name, IsConst: isConst, Init: init}
}

func (p *Parser) parseParamList() []string {
	p.expect(lexer.LPAREN)
	var params []string
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		if p.cur.Type == lexer.IDENT {
			params = append(params, p.cur.Literal)
			p.next()
		}
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)
	return params
}

func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	pos := p.curPos()
	p.next()
	name := ""
	if p.cur.Type == lexer.IDENT {
		name = p.cur.Literal
		p.next()
	}
	params := p.parseParamList()
	body := p.parseBlock()
	return &ast.FunctionDecl{Position: pos, Name: name, Params: params, Body: body}
}

func (p *Parser) parseClassDecl() *ast.ClassDecl {
	pos := p.curPos()
	p.next()
	name := ""
	if p.cur.Type == lexer.IDENT {
		name = p.cur.Literal
		p.next()
	}
	p.expect(lexer.LBRACE)
	decl := &ast.ClassDecl{Position: pos, Name: name}
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		decl.Members = append(decl.Members, p.parseClassMember(decl))
	}
	p.expect(lexer.RBRACE)
	return decl
}

func (p *Parser) parseClassMember(owner *ast.ClassDecl) *ast.ClassMember {
	pos := p.curPos()
	vis := ast.VisibilityDefault
	if p.cur.Type == lexer.PUBLIC {
		vis = ast.VisibilityPublic
		p.next()
	} else if p.cur.Type == lexer.PRIVATE {
		vis = ast.VisibilityPrivate
		p.next()
	}
	if p.cur.Type == lexer.FUNCTION {
		fn := p.parseFunctionDecl()
		if fn.Name == "" && owner.Ctor == nil {
			owner.Ctor = fn
		}
		return &ast.ClassMember{Position: pos, Visibility: vis, Method: fn}
	}
	if p.cur.Type == lexer.IDENT && p.cur.Literal == owner.Name && p.peek.Type == lexer.LPAREN {
		fpos := p.curPos()
		p.next()
		params := p.parseParamList()
		fn := &ast.FunctionDecl{Position: fpos, Params: params, Body: p.parseBlock()}
		if owner.Ctor == nil {
			owner.Ctor = fn
		}
		return &ast.ClassMember{Position: pos, Visibility: vis, Method: fn}
	}
	v := p.parseVarDecl()
	return &ast.ClassMember{Position: pos, Visibility: vis, Var: v}
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	pos := p.curPos()
	p.expect(lexer.LBRACE)
	blk := &ast.BlockStmt{Position: pos}
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		stmt := p.parseStatement()
		if stmt == nil {
			continue
		}
		blk.Body = append(blk.Body, stmt)
		switch stmt.(type) {
		case *ast.VarDecl, *ast.FunctionDecl, *ast.ClassDecl:
			blk.Decls = append(blk.Decls, stmt)
		}
	}
	p.expect(lexer.RBRACE)
	return blk
}

func (p *Parser) parseIf() *ast.IfStmt {
	pos := p.curPos()
	p.next()
	p.expect(lexer.LPAREN)
	cond := p.parseExpression(precAssign)
	p.expect(lexer.RPAREN)
	then := p.parseStatement()
	var els ast.Statement
	if p.cur.Type == lexer.ELSE {
		p.next()
		els = p.parseStatement()
	}
	return &ast.IfStmt{Position: pos, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	pos := p.curPos()
	p.next()
	p.expect(lexer.LPAREN)
	cond := p.parseExpression(precAssign)
	p.expect(lexer.RPAREN)
	body := p.parseStatement()
	return &ast.WhileStmt{Position: pos, Cond: cond, Body: body}
}

func (p *Parser) parseForOrForEach() ast.Statement {
	pos := p.curPos()
	p.next()
	p.expect(lexer.LPAREN)

	// foreach: `for (var x : expr)` / `for (x : expr)`, or `in` in place of `:`
	if p.looksLikeForEach() {
		if p.cur.Type == lexer.VAR {
			p.next()
		}
		name := p.cur.Literal
		p.expect(lexer.IDENT)
		p.next() // the `:` or `in` that looksLikeForEach matched
		iter := p.parseExpression(precAssign)
		p.expect(lexer.RPAREN)
		body := p.parseStatement()
		return &ast.ForEachStmt{Position: pos, VarName: name, Collection: iter, Body: body}
	}

	var init ast.Statement
	if p.cur.Type == lexer.VAR || p.cur.Type == lexer.CONST {
		init = p.parseVarDecl()
	} else if p.cur.Type != lexer.SEMICOLON {
		ipos := p.curPos()
		e := p.parseExpression(precAssign)
		p.expect(lexer.SEMICOLON)
		init = &ast.ExprStmt{Position: ipos, Expr: e}
	} else {
		p.next()
	}
	var cond ast.Expression
	if p.cur.Type != lexer.SEMICOLON {
		cond = p.parseExpression(precAssign)
	}
	p.expect(lexer.SEMICOLON)
	var update ast.Expression
	if p.cur.Type != lexer.RPAREN {
		update = p.parseExpression(precAssign)
	}
	p.expect(lexer.RPAREN)
	body := p.parseStatement()
	return &ast.ForStmt{Position: pos, Init: init, Cond: cond, Update: update, Body: body}
}

// looksLikeForEach peeks ahead for `[var] IDENT :` or `[var] IDENT in`
// without consuming.
func (p *Parser) looksLikeForEach() bool {
	if p.cur.Type == lexer.VAR {
		return p.peek.Type == lexer.IDENT && (p.peek2.Type == lexer.COLON || p.peek2.Type == lexer.IN)
	}
	return p.cur.Type == lexer.IDENT && (p.peek.Type == lexer.COLON || p.peek.Type == lexer.IN)
}

func (p *Parser) parseTry() *ast.TryStmt {
	pos := p.curPos()
	p.next()
	tryBlock := p.parseBlock()
	stmt := &ast.TryStmt{Position: pos, Try: tryBlock}
	if p.cur.Type == lexer.CATCH {
		p.next()
		p.expect(lexer.LPAREN)
		stmt.HasCatch = true
		stmt.CatchVar = p.cur.Literal
		p.expect(lexer.IDENT)
		p.expect(lexer.RPAREN)
		stmt.Catch = p.parseBlock()
	}
	if p.cur.Type == lexer.FINALLY {
		p.next()
		stmt.Finally = p.parseBlock()
	}
	return stmt
}

// --- Expressions -----------------------------------------------------------

func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parseUnary()
	for {
		prec, ok := precedences[p.cur.Type]
		if !ok || prec < minPrec {
			return left
		}
		switch p.cur.Type {
		case lexer.LPAREN:
			left = p.parseCall(left)
		case lexer.LBRACK:
			left = p.parseIndex(left)
		case lexer.DOT:
			left = p.parseMember(left)
		case lexer.INC, lexer.DEC:
			op := p.cur.Literal
			pos := p.curPos()
			p.next()
			left = &ast.IncDecExpr{Position: pos, Op: op, Operand: left, Prefix: false}
		case lexer.QUESTION:
			left = p.parseTernary(left)
		case lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN, lexer.TIMES_ASSIGN, lexer.DIVIDE_ASSIGN:
			op := p.cur.Literal
			pos := p.curPos()
			p.next()
			right := p.parseExpression(precAssign)
			left = &ast.AssignExpr{Position: pos, Op: op, Target: left, Value: right}
		default:
			op := p.cur.Literal
			pos := p.curPos()
			p.next()
			right := p.parseExpression(prec + 1)
			left = &ast.BinaryExpr{Position: pos, Op: op, Left: left, Right: right}
		}
	}
}

func (p *Parser) parseTernary(cond ast.Expression) ast.Expression {
	pos := p.curPos()
	p.next()
	then := p.parseExpression(precAssign)
	p.expect(lexer.COLON)
	els := p.parseExpression(precAssign)
	return &ast.ConditionalExpr{Position: pos, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.cur.Type {
	case lexer.MINUS, lexer.EXCLAMATION:
		op := p.cur.Literal
		pos := p.curPos()
		p.next()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Position: pos, Op: op, Operand: operand}
	case lexer.INC, lexer.DEC:
		op := p.cur.Literal
		pos := p.curPos()
		p.next()
		target := p.parseUnary()
		return &ast.IncDecExpr{Position: pos, Op: op, Operand: target, Prefix: true}
	case lexer.TYPEOF:
		pos := p.curPos()
		p.next()
		operand := p.parseUnary()
		return &ast.TypeofExpr{Position: pos, Operand: operand}
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parseCall(fn ast.Expression) ast.Expression {
	pos := p.curPos()
	p.next()
	var args []ast.Expression
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		args = append(args, p.parseExpression(precAssign))
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RPAREN)
	return &ast.CallExpr{Position: pos, Callee: fn, Args: args}
}

func (p *Parser) parseIndex(target ast.Expression) ast.Expression {
	pos := p.curPos()
	p.next()
	idx := p.parseExpression(precAssign)
	p.expect(lexer.RBRACK)
	return &ast.IndexExpr{Position: pos, Array: target, Index: idx}
}

func (p *Parser) parseMember(target ast.Expression) ast.Expression {
	pos := p.curPos()
	p.next()
	name := p.cur.Literal
	p.expect(lexer.IDENT)
	return &ast.MemberExpr{Position: pos, Object: target, Name: name}
}

func (p *Parser) parsePrimary() ast.Expression {
	pos := p.curPos()
	switch p.cur.Type {
	case lexer.INT:
		lit := p.cur.Literal
		p.next()
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			p.errorf("invalid integer literal %q", lit)
		}
		return &ast.IntegerLiteral{Position: pos, Value: n}
	case lexer.FLOAT:
		lit := p.cur.Literal
		p.next()
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			p.errorf("invalid float literal %q", lit)
		}
		return &ast.FloatLiteral{Position: pos, Value: f}
	case lexer.STRING:
		lit := p.cur.Literal
		p.next()
		return &ast.StringLiteral{Position: pos, Value: lit}
	case lexer.TRUE:
		p.next()
		return &ast.BooleanLiteral{Position: pos, Value: true}
	case lexer.FALSE:
		p.next()
		return &ast.BooleanLiteral{Position: pos, Value: false}
	case lexer.NULL:
		p.next()
		return &ast.NullLiteral{Position: pos}
	case lexer.THIS:
		p.next()
		return &ast.ThisExpr{Position: pos}
	case lexer.IDENT:
		name := p.cur.Literal
		p.next()
		return &ast.Identifier{Position: pos, Name: name}
	case lexer.LPAREN:
		p.next()
		expr := p.parseExpression(precAssign)
		p.expect(lexer.RPAREN)
		return expr
	case lexer.LBRACK:
		return p.parseArrayLiteral()
	case lexer.NEW:
		return p.parseNew()
	case lexer.FUNCTION:
		return p.parseFunctionLiteral()
	case lexer.CLASS:
		return p.parseClassLiteral()
	default:
		p.errorf("unexpected token %s (%q) in expression", p.cur.Type, p.cur.Literal)
		p.next()
		return &ast.NullLiteral{Position: pos}
	}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	pos := p.curPos()
	p.next()
	var elems []ast.Expression
	for p.cur.Type != lexer.RBRACK && p.cur.Type != lexer.EOF {
		elems = append(elems, p.parseExpression(precAssign))
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expect(lexer.RBRACK)
	return &ast.ArrayLiteral{Position: pos, Elements: elems}
}

func (p *Parser) parseNew() ast.Expression {
	pos := p.curPos()
	p.next()
	if p.cur.Type == lexer.LBRACK {
		p.next()
		length := p.parseExpression(precAssign)
		p.expect(lexer.RBRACK)
		return &ast.NewArrayExpr{Position: pos, Length: length}
	}
	class := p.parseClassRef()
	var args []ast.Expression
	if p.cur.Type == lexer.LPAREN {
		p.next()
		for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
			args = append(args, p.parseExpression(precAssign))
			if p.cur.Type == lexer.COMMA {
				p.next()
			}
		}
		p.expect(lexer.RPAREN)
	}
	return &ast.NewExpr{Position: pos, Class: class, Args: args}
}

// parseClassRef reads `Ident(.Ident)*` for a `new` target (class names
// can be dotted namespace members, e.g. `new Sys.StringBuffer()`) and
// builds it as an ordinary Identifier/MemberExpr chain so the binder
// resolves it exactly like any other expression.
func (p *Parser) parseClassRef() ast.Expression {
	pos := p.curPos()
	var expr ast.Expression = &ast.Identifier{Position: pos, Name: p.cur.Literal}
	p.expect(lexer.IDENT)
	for p.cur.Type == lexer.DOT {
		p.next()
		name := p.cur.Literal
		p.expect(lexer.IDENT)
		expr = &ast.MemberExpr{Position: pos, Object: expr, Name: name}
	}
	return expr
}

func (p *Parser) parseFunctionLiteral() ast.Expression {
	pos := p.curPos()
	p.next()
	if p.cur.Type == lexer.IDENT {
		// A named function expression is parsed and its name discarded;
		// this grammar only gives names to function *declarations*.
		p.next()
	}
	params := p.parseParamList()
	body := p.parseBlock()
	return &ast.FunctionLiteral{Position: pos, Params: params, Body: body}
}

func (p *Parser) parseClassLiteral() ast.Expression {
	decl := p.parseClassDecl()
	return &ast.ClassLiteral{Position: decl.Position, Body: decl}
}
