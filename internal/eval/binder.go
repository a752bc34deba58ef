// Package eval implements the two-phase bind-then-execute pipeline: Binder
// walks a parsed program once to resolve every name to a NameDescriptor and
// every scope-introducing node to a frozen ScopeDescriptor, and Evaluator
// walks the same tree a second (and subsequent, for loops/calls) time,
// executing it against those resolved coordinates. Splitting the passes
// means a name-not-found or not-in-a-loop mistake is reported before a
// single statement runs, instead of surfacing only on the path that
// happens to execute.
package eval

import (
	"sort"

	"github.com/cwbudde/scriptlang/internal/ast"
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/name"
	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/token"
)

// Bound is everything the Binder produced from one Program: the root
// scope's frozen descriptor plus side tables from AST node pointers to
// the descriptors/NameDescriptors the Evaluator needs at each node. Kept
// as pointer-keyed maps rather than a parallel "bound AST" so internal/ast
// stays free of any dependency on internal/runtime.
type Bound struct {
	Root *runtime.ScopeDescriptor

	// Idents resolves every name-reference Identifier (not declaration
	// sites, which carry their own descriptor via Vars/Classes below).
	Idents map[*ast.Identifier]runtime.NameDescriptor

	// Scopes resolves every scope-introducing node: BlockStmt (including
	// function/method bodies and class bodies' field scope proxy — see
	// Classes), ForStmt, ForEachStmt, and a TryStmt's Catch block.
	Scopes map[ast.Node]*runtime.ScopeDescriptor

	// Vars resolves a VarDecl to the slot it was declared into.
	Vars map[*ast.VarDecl]runtime.NameDescriptor

	// Classes resolves a ClassDecl to its field layout, grounded on the
	// same pass that builds the runtime.ClassValue materializer.
	Classes map[*ast.ClassDecl]*ClassBinding

	// Literals resolves a FunctionLiteral expression to the synthetic
	// FunctionDecl wrapping its Params/Body, built once at bind time so
	// every evaluation of the same literal shares one Decl identity
	// instead of allocating a fresh wrapper per evaluation.
	Literals map[*ast.FunctionLiteral]*ast.FunctionDecl
}

// ClassBinding is what the Binder resolves about one class body: its own
// field scope (separate from every method's own body scope), the
// FieldInfo/MethodInfo maps NewClassValue needs, and the extracted
// constructor (nil if the class declares none) together with its own
// bind scope.
type ClassBinding struct {
	Descriptor     *runtime.ScopeDescriptor
	Fields         map[string]*runtime.FieldInfo
	Methods        map[string]*runtime.MethodInfo
	Ctor           *ast.FunctionDecl
	CtorDescriptor *runtime.ScopeDescriptor
}

// Binder performs the single static-binding pass over a Program.
type Binder struct {
	names *name.Registry
	b     *Bound
}

// NewBinder creates a Binder. names is optional; pass nil to skip
// identifier interning (a fresh registry is then used internally).
func NewBinder(names *name.Registry) *Binder {
	if names == nil {
		names = name.New()
	}
	return &Binder{
		names: names,
		b: &Bound{
			Idents:  make(map[*ast.Identifier]runtime.NameDescriptor),
			Scopes:  make(map[ast.Node]*runtime.ScopeDescriptor),
			Vars:     make(map[*ast.VarDecl]runtime.NameDescriptor),
			Classes:  make(map[*ast.ClassDecl]*ClassBinding),
			Literals: make(map[*ast.FunctionLiteral]*ast.FunctionDecl),
		},
	}
}

// Bind walks prog once and returns the resolved side tables, or the first
// compile-time error encountered (name not found, name conflict, not an
// lvalue, no 'this', not in a loop).
func (b *Binder) Bind(prog *ast.Program) (*Bound, error) {
	return b.BindWithGlobals(prog, nil)
}

// BindWithGlobals is Bind, plus a set of names declared as sys-constants in
// the root scope before the program's own statements bind. This is how the
// top-level `sys` namespace reaches every script (one entry, "sys"), and how
// sys.execute/execute_ex's dependency-injection scope map reaches a
// sub-script: each entry becomes a name the sub-script sees as already
// declared, bound to a host-supplied value, read-only (runtime.
// scope.go's DeclareSysConstant), regardless of source order.
func (b *Binder) BindWithGlobals(prog *ast.Program, globals map[string]runtime.Value) (*Bound, error) {
	root := runtime.NewRootScope()
	for _, nameStr := range orderedKeys(globals) {
		if _, err := root.DeclareSysConstant(token.Position{}, nameStr, globals[nameStr]); err != nil {
			return nil, err
		}
	}
	if err := b.bindStatementList(root, prog.Statements); err != nil {
		return nil, err
	}
	b.b.Root = root.CreateScopeDescriptor()
	return b.b, nil
}

// orderedKeys returns m's keys in a stable, deterministic order so binding
// the same globals twice produces identical ScopeIDs/offsets.
func orderedKeys(m map[string]runtime.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *Binder) intern(s string) { b.names.Register(s) }

// bindStatementList pre-declares every function/class name in decls (so
// forward and mutually recursive references resolve) before binding the
// statements in source order.
func (b *Binder) bindStatementList(scope *runtime.BindScope, stmts []ast.Statement) error {
	for _, stmt := range stmts {
		switch n := stmt.(type) {
		case *ast.FunctionDecl:
			if err := b.predeclareFunction(scope, n); err != nil {
				return err
			}
		case *ast.ClassDecl:
			if err := b.predeclareClass(scope, n); err != nil {
				return err
			}
		}
	}
	for _, stmt := range stmts {
		if err := b.bindStatement(scope, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (b *Binder) predeclareFunction(scope *runtime.BindScope, decl *ast.FunctionDecl) error {
	b.intern(decl.Name)
	descriptor, err := b.bindFunctionBody(scope, false, decl.Params, decl.Body)
	if err != nil {
		return err
	}
	materialize := runtime.NewFunctionValue(decl.Name, decl, descriptor)
	_, err = scope.DeclareFunction(decl.Position, decl.Name, materialize)
	return err
}

func (b *Binder) predeclareClass(scope *runtime.BindScope, decl *ast.ClassDecl) error {
	b.intern(decl.Name)
	binding, err := b.bindClassBody(scope, decl)
	if err != nil {
		return err
	}
	materialize := runtime.NewClassValue(decl.Name, decl, binding.Descriptor, binding.Fields, binding.Methods, binding.Ctor, binding.CtorDescriptor)
	_, err = scope.DeclareClass(decl.Position, decl.Name, materialize)
	return err
}

// bindFunctionBody opens one nested scope shared by a function's
// parameters and its own locals (no extra nesting for the body block
// itself), declares the parameters in declaration order so CallFunction
// can bind argument values to slots 0..len(params)-1 positionally, and
// binds the body. thisAllowed is true only for a class method.
func (b *Binder) bindFunctionBody(outer *runtime.BindScope, thisAllowed bool, params []string, body *ast.BlockStmt) (*runtime.ScopeDescriptor, error) {
	scope := outer.CreateNestedScope(thisAllowed)
	for _, p := range params {
		b.intern(p)
		if _, err := scope.DeclareVariable(body.Position, p, false); err != nil {
			return nil, err
		}
	}
	if err := b.bindBlockBody(scope, body); err != nil {
		return nil, err
	}
	descriptor := scope.CreateScopeDescriptor()
	b.b.Scopes[body] = descriptor
	return descriptor, nil
}

// bindBlockBody pre-declares functions/classes then binds every statement
// into an already-open scope, without creating a further nested scope —
// shared by bindBlock (ordinary `{ }` blocks) and bindFunctionBody
// (function/method bodies, where params live in the same scope).
func (b *Binder) bindBlockBody(scope *runtime.BindScope, blk *ast.BlockStmt) error {
	for _, d := range blk.Decls {
		switch n := d.(type) {
		case *ast.FunctionDecl:
			if err := b.predeclareFunction(scope, n); err != nil {
				return err
			}
		case *ast.ClassDecl:
			if err := b.predeclareClass(scope, n); err != nil {
				return err
			}
		}
	}
	for _, stmt := range blk.Body {
		if err := b.bindStatement(scope, stmt); err != nil {
			return err
		}
	}
	return nil
}

// bindBlock opens a fresh nested block scope for blk (an ordinary `{ }`
// appearing as an if/while/for body or a bare nested block) and records
// its descriptor.
func (b *Binder) bindBlock(outer *runtime.BindScope, blk *ast.BlockStmt, isLoop bool) error {
	scope := outer.CreateNestedBlock(isLoop)
	if err := b.bindBlockBody(scope, blk); err != nil {
		return err
	}
	b.b.Scopes[blk] = scope.CreateScopeDescriptor()
	return nil
}

// bindStmtOrBlock binds a statement that plays the role of an if/while/for
// body: a BlockStmt gets its own nested scope; anything else (a bare
// single statement with no braces) binds directly against the enclosing
// scope, so e.g. `if (x) var y = 1;` declares y in the surrounding block
// rather than in a scope that vanishes the instant the statement finishes.
func (b *Binder) bindStmtOrBlock(scope *runtime.BindScope, stmt ast.Statement, isLoop bool) error {
	if blk, ok := stmt.(*ast.BlockStmt); ok {
		return b.bindBlock(scope, blk, isLoop)
	}
	return b.bindStatement(scope, stmt)
}

func (b *Binder) bindStatement(scope *runtime.BindScope, stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.EmptyStmt:
		return nil
	case *ast.ExprStmt:
		return b.bindExpr(scope, s.Expr)
	case *ast.VarDecl:
		if s.Init != nil {
			if err := b.bindExpr(scope, s.Init); err != nil {
				return err
			}
		}
		b.intern(s.Name)
		d, err := scope.DeclareVariable(s.Position, s.Name, s.IsConst)
		if err != nil {
			return err
		}
		b.b.Vars[s] = d
		return nil
	case *ast.FunctionDecl:
		return nil // pre-declared by bindStatementList/bindBlockBody
	case *ast.ClassDecl:
		return nil // pre-declared
	case *ast.IfStmt:
		if err := b.bindExpr(scope, s.Cond); err != nil {
			return err
		}
		if err := b.bindStmtOrBlock(scope, s.Then, false); err != nil {
			return err
		}
		if s.Else != nil {
			return b.bindStmtOrBlock(scope, s.Else, false)
		}
		return nil
	case *ast.WhileStmt:
		if err := b.bindExpr(scope, s.Cond); err != nil {
			return err
		}
		return b.bindStmtOrBlock(scope, s.Body, true)
	case *ast.ForStmt:
		header := scope.CreateNestedBlock(true)
		if s.Init != nil {
			if err := b.bindStatement(header, s.Init); err != nil {
				return err
			}
		}
		if s.Cond != nil {
			if err := b.bindExpr(header, s.Cond); err != nil {
				return err
			}
		}
		if s.Update != nil {
			if err := b.bindExpr(header, s.Update); err != nil {
				return err
			}
		}
		if err := b.bindStmtOrBlock(header, s.Body, true); err != nil {
			return err
		}
		b.b.Scopes[s] = header.CreateScopeDescriptor()
		return nil
	case *ast.ForEachStmt:
		if err := b.bindExpr(scope, s.Collection); err != nil {
			return err
		}
		header := scope.CreateNestedBlock(true)
		b.intern(s.VarName)
		if _, err := header.DeclareVariable(s.Position, s.VarName, false); err != nil {
			return err
		}
		if err := b.bindStmtOrBlock(header, s.Body, true); err != nil {
			return err
		}
		b.b.Scopes[s] = header.CreateScopeDescriptor()
		return nil
	case *ast.BlockStmt:
		return b.bindBlock(scope, s, false)
	case *ast.TryStmt:
		if err := b.bindBlock(scope, s.Try, false); err != nil {
			return err
		}
		if s.HasCatch {
			catchScope := scope.CreateNestedBlock(false)
			b.intern(s.CatchVar)
			if _, err := catchScope.DeclareVariable(s.Position, s.CatchVar, false); err != nil {
				return err
			}
			if err := b.bindBlockBody(catchScope, s.Catch); err != nil {
				return err
			}
			b.b.Scopes[s.Catch] = catchScope.CreateScopeDescriptor()
		}
		if s.Finally != nil {
			return b.bindBlock(scope, s.Finally, false)
		}
		return nil
	case *ast.BreakStmt:
		if !scope.InLoop() {
			return diag.Compilationf(s.Position, "break used outside of a loop")
		}
		return nil
	case *ast.ContinueStmt:
		if !scope.InLoop() {
			return diag.Compilationf(s.Position, "continue used outside of a loop")
		}
		return nil
	case *ast.ReturnStmt:
		if s.Value != nil {
			return b.bindExpr(scope, s.Value)
		}
		return nil
	case *ast.ThrowStmt:
		return b.bindExpr(scope, s.Value)
	default:
		return diag.Systemf(stmt.Pos(), "binder: unhandled statement type %T", stmt)
	}
}

// isLvalue reports whether expr is a legal assignment/increment target:
// a name, a member access, or an index expression.
func isLvalue(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.Identifier, *ast.MemberExpr, *ast.IndexExpr:
		return true
	default:
		return false
	}
}

func (b *Binder) bindExpr(scope *runtime.BindScope, expr ast.Expression) error {
	switch e := expr.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.BooleanLiteral, *ast.NullLiteral:
		return nil
	case *ast.ThisExpr:
		if !scope.ThisAllowed() {
			return diag.Compilationf(e.Position, "'this' is not valid here")
		}
		return nil
	case *ast.Identifier:
		b.intern(e.Name)
		d, err := scope.Lookup(e.Position, e.Name)
		if err != nil {
			return err
		}
		b.b.Idents[e] = d
		return nil
	case *ast.UnaryExpr:
		return b.bindExpr(scope, e.Operand)
	case *ast.BinaryExpr:
		if err := b.bindExpr(scope, e.Left); err != nil {
			return err
		}
		return b.bindExpr(scope, e.Right)
	case *ast.AssignExpr:
		if !isLvalue(e.Target) {
			return diag.Compilationf(e.Position, "not an lvalue: %s", e.Target.String())
		}
		if err := b.bindExpr(scope, e.Target); err != nil {
			return err
		}
		return b.bindExpr(scope, e.Value)
	case *ast.IncDecExpr:
		if !isLvalue(e.Operand) {
			return diag.Compilationf(e.Position, "not an lvalue: %s", e.Operand.String())
		}
		return b.bindExpr(scope, e.Operand)
	case *ast.MemberExpr:
		return b.bindExpr(scope, e.Object)
	case *ast.CallExpr:
		if err := b.bindExpr(scope, e.Callee); err != nil {
			return err
		}
		for _, a := range e.Args {
			if err := b.bindExpr(scope, a); err != nil {
				return err
			}
		}
		return nil
	case *ast.NewExpr:
		if err := b.bindExpr(scope, e.Class); err != nil {
			return err
		}
		for _, a := range e.Args {
			if err := b.bindExpr(scope, a); err != nil {
				return err
			}
		}
		return nil
	case *ast.NewArrayExpr:
		return b.bindExpr(scope, e.Length)
	case *ast.ArrayLiteral:
		for _, el := range e.Elements {
			if err := b.bindExpr(scope, el); err != nil {
				return err
			}
		}
		return nil
	case *ast.IndexExpr:
		if err := b.bindExpr(scope, e.Array); err != nil {
			return err
		}
		return b.bindExpr(scope, e.Index)
	case *ast.TypeofExpr:
		return b.bindExpr(scope, e.Operand)
	case *ast.ConditionalExpr:
		if err := b.bindExpr(scope, e.Cond); err != nil {
			return err
		}
		if err := b.bindExpr(scope, e.Then); err != nil {
			return err
		}
		return b.bindExpr(scope, e.Else)
	case *ast.FunctionLiteral:
		if _, err := b.bindFunctionBody(scope, false, e.Params, e.Body); err != nil {
			return err
		}
		b.b.Literals[e] = &ast.FunctionDecl{Position: e.Position, Params: e.Params, Body: e.Body}
		return nil
	case *ast.ClassLiteral:
		_, err := b.bindClassBody(scope, e.Body)
		return err
	default:
		return diag.Systemf(expr.Pos(), "binder: unhandled expression type %T", expr)
	}
}

// bindClassBody resolves one class declaration's field scope, binding
// every field initializer and every method body, and returns the
// FieldInfo/MethodInfo maps NewClassValue needs. Shared by predeclareClass
// (a class statement) and bindExpr's ClassLiteral case (an anonymous
// class expression) — both forms share the same *ast.ClassDecl shape.
func (b *Binder) bindClassBody(outer *runtime.BindScope, decl *ast.ClassDecl) (*ClassBinding, error) {
	scope := outer.CreateNestedScope(true)
	fields := make(map[string]*runtime.FieldInfo)
	methods := make(map[string]*runtime.MethodInfo)

	for _, m := range decl.Members {
		if m.Var != nil {
			vis := m.Visibility
			if vis == ast.VisibilityDefault {
				vis = ast.VisibilityPrivate
			}
			if m.Var.Init != nil {
				if err := b.bindExpr(scope, m.Var.Init); err != nil {
					return nil, err
				}
			}
			b.intern(m.Var.Name)
			d, err := scope.DeclareVariable(m.Var.Position, m.Var.Name, m.Var.IsConst)
			if err != nil {
				return nil, err
			}
			fields[m.Var.Name] = &runtime.FieldInfo{
				Slot:       d.SlotIndex(),
				IsConst:    m.Var.IsConst,
				Visibility: vis,
				Init:       m.Var.Init,
			}
		}
	}

	for _, m := range decl.Members {
		if m.Method == nil || m.Method == decl.Ctor {
			continue
		}
		vis := m.Visibility
		if vis == ast.VisibilityDefault {
			vis = ast.VisibilityPublic
		}
		b.intern(m.Method.Name)
		methodDescriptor, err := b.bindFunctionBody(scope, true, m.Method.Params, m.Method.Body)
		if err != nil {
			return nil, err
		}
		methods[m.Method.Name] = &runtime.MethodInfo{
			Decl:       m.Method,
			Visibility: vis,
			Descriptor: methodDescriptor,
		}
	}

	var ctor *ast.FunctionDecl
	var ctorDescriptor *runtime.ScopeDescriptor
	if decl.Ctor != nil {
		d, err := b.bindFunctionBody(scope, true, decl.Ctor.Params, decl.Ctor.Body)
		if err != nil {
			return nil, err
		}
		ctor = decl.Ctor
		ctorDescriptor = d
	}

	descriptor := scope.CreateScopeDescriptor()
	binding := &ClassBinding{
		Descriptor:     descriptor,
		Fields:         fields,
		Methods:        methods,
		Ctor:           ctor,
		CtorDescriptor: ctorDescriptor,
	}
	b.b.Classes[decl] = binding
	b.b.Scopes[decl] = descriptor
	return binding, nil
}

// Names returns the identifier registry the binder interned names into, so
// a caller can share it with another Binder (e.g. for a sub-script).
func (b *Binder) Names() *name.Registry { return b.names }
