package eval

import (
	"github.com/cwbudde/scriptlang/internal/ast"
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/token"
)

// Evaluator tree-walks a Bound program, implementing runtime.Invoker so
// that Function/Class values (which live in internal/runtime and must not
// import this package) can call back into it at the call site.
type Evaluator struct {
	bound *Bound
	stack *diag.CallStack
}

// NewEvaluator wraps the output of Binder.Bind. maxDepth <= 0 selects
// diag.DefaultMaxDepth.
func NewEvaluator(bound *Bound, maxDepth int) *Evaluator {
	return &Evaluator{bound: bound, stack: diag.NewCallStack(maxDepth)}
}

// thrownError carries a script-level exception through Go's ordinary error
// return channel so it can unwind past arbitrarily nested expression
// evaluation; execStatement (via statementErr) unwraps it back into a
// runtime.StatementResult at the nearest statement boundary. A plain
// (non-thrownError, non-system) error reaching fail is promoted into one;
// a *diag.Error of CategorySystem is left alone and propagates as a
// genuine Go error, terminating the run — it signals an interpreter bug,
// not a script-level condition.
type thrownError struct{ exc *runtime.ExceptionValue }

func (t *thrownError) Error() string { return t.exc.Trace.String() }

// fail converts err into the evaluator's catchable-exception channel,
// snapshotting the call stack at the point of failure. Idempotent: an
// already-wrapped thrownError passes through unchanged, and a system error
// is never wrapped (it must propagate as a fatal Go error).
func (e *Evaluator) fail(err error) error {
	if err == nil {
		return nil
	}
	if te, ok := err.(*thrownError); ok {
		return te
	}
	if diag.IsSystem(err) {
		return err
	}
	exc := runtime.NewException(runtime.NewString(err.Error()), e.stack.Snapshot())
	return &thrownError{exc: exc}
}

// asThrow reports whether err is a thrownError and, if so, the
// StatementResult it should surface as.
func (e *Evaluator) asThrow(err error) (runtime.StatementResult, bool) {
	if te, ok := err.(*thrownError); ok {
		return runtime.Throw(te.exc), true
	}
	return runtime.StatementResult{}, false
}

// statementErr is the standard error-handling tail for a statement
// executor: unwrap a caught exception into a StatementResult, or propagate
// a genuine (system) error up through the Go call stack.
func (e *Evaluator) statementErr(err error) (runtime.StatementResult, error) {
	if res, ok := e.asThrow(err); ok {
		return res, nil
	}
	return runtime.StatementResult{}, err
}

// Run binds prog's top-level statements against a fresh root ExecScope and
// executes them in order.
func (e *Evaluator) Run(prog *ast.Program) (runtime.Value, *runtime.ExceptionValue, error) {
	root := runtime.NewExecScope(e.bound.Root, nil, nil)
	if err := e.stack.Push("<script>", token.Position{}); err != nil {
		return nil, nil, err
	}
	defer e.stack.Pop()

	result, err := e.execStatements(prog.Statements, root)
	if err != nil {
		return nil, nil, err
	}
	switch result.Flow {
	case runtime.FlowThrow:
		return nil, result.Value.(*runtime.ExceptionValue), nil
	case runtime.FlowReturn:
		return result.Value, nil, nil
	default:
		return runtime.Void, nil, nil
	}
}

func (e *Evaluator) execStatements(stmts []ast.Statement, scope *runtime.ExecScope) (runtime.StatementResult, error) {
	for _, stmt := range stmts {
		res, err := e.execStatement(stmt, scope)
		if err != nil {
			return runtime.StatementResult{}, err
		}
		if !res.IsNone() {
			return res, nil
		}
	}
	return runtime.None, nil
}

func (e *Evaluator) execStatement(stmt ast.Statement, scope *runtime.ExecScope) (runtime.StatementResult, error) {
	switch s := stmt.(type) {
	case *ast.EmptyStmt:
		return runtime.None, nil

	case *ast.ExprStmt:
		_, err := e.evalExpr(s.Expr, scope)
		if err != nil {
			return e.statementErr(err)
		}
		return runtime.None, nil

	case *ast.VarDecl:
		var v runtime.Value = runtime.Void
		if s.Init != nil {
			var err error
			v, err = e.evalExpr(s.Init, scope)
			if err != nil {
				return e.statementErr(err)
			}
		} else if !s.IsConst {
			// `var x;` leaves the slot Undefined, so reading x before an
			// assignment fails with "Undefined value".
			return runtime.None, nil
		}
		d := e.bound.Vars[s]
		if err := d.SetInitialize(scope, v, s.Position); err != nil {
			return e.statementErr(e.fail(err))
		}
		return runtime.None, nil

	case *ast.FunctionDecl, *ast.ClassDecl:
		return runtime.None, nil // materialized lazily on first reference

	case *ast.IfStmt:
		cond, err := e.evalExpr(s.Cond, scope)
		if err != nil {
			return e.statementErr(err)
		}
		cb, err := cond.GetBoolean()
		if err != nil {
			return e.statementErr(e.fail(err))
		}
		if cb {
			return e.execStmtOrBlock(s.Then, scope)
		}
		if s.Else != nil {
			return e.execStmtOrBlock(s.Else, scope)
		}
		return runtime.None, nil

	case *ast.WhileStmt:
		for {
			cond, err := e.evalExpr(s.Cond, scope)
			if err != nil {
				return e.statementErr(err)
			}
			cb, err := cond.GetBoolean()
			if err != nil {
				return e.statementErr(e.fail(err))
			}
			if !cb {
				return runtime.None, nil
			}
			res, err := e.execStmtOrBlock(s.Body, scope)
			if err != nil {
				return runtime.StatementResult{}, err
			}
			switch res.Flow {
			case runtime.FlowBreak:
				return runtime.None, nil
			case runtime.FlowContinue:
				continue
			case runtime.FlowNone:
				continue
			default:
				return res, nil // return/throw propagates past the loop
			}
		}

	case *ast.ForStmt:
		descriptor := e.bound.Scopes[s]
		header := scope.CreateNestedBlock(descriptor)
		if s.Init != nil {
			if _, err := e.execStatement(s.Init, header); err != nil {
				return runtime.StatementResult{}, err
			}
		}
		for {
			if s.Cond != nil {
				cond, err := e.evalExpr(s.Cond, header)
				if err != nil {
					return e.statementErr(err)
				}
				cb, err := cond.GetBoolean()
				if err != nil {
					return e.statementErr(e.fail(err))
				}
				if !cb {
					return runtime.None, nil
				}
			}
			res, err := e.execStmtOrBlock(s.Body, header)
			if err != nil {
				return runtime.StatementResult{}, err
			}
			switch res.Flow {
			case runtime.FlowBreak:
				return runtime.None, nil
			case runtime.FlowContinue, runtime.FlowNone:
				// fall through to Update
			default:
				return res, nil
			}
			if s.Update != nil {
				if _, err := e.evalExpr(s.Update, header); err != nil {
					return e.statementErr(err)
				}
			}
		}

	case *ast.ForEachStmt:
		coll, err := e.evalExpr(s.Collection, scope)
		if err != nil {
			return e.statementErr(err)
		}
		descriptor := e.bound.Scopes[s]
		header := scope.CreateNestedBlock(descriptor)
		slot, err := header.Slot(descriptor.ID, descriptor.ScopeOffset, 0, s.Position)
		if err != nil {
			return runtime.StatementResult{}, err
		}
		var loopResult runtime.StatementResult
		var loopErr error
		iterErr := coll.Iterate(func(elem runtime.Value) (bool, error) {
			*slot = elem
			res, err := e.execStmtOrBlock(s.Body, header)
			if err != nil {
				loopErr = err
				return false, err
			}
			switch res.Flow {
			case runtime.FlowBreak:
				return false, nil
			case runtime.FlowContinue, runtime.FlowNone:
				return true, nil
			default:
				loopResult = res
				return false, nil
			}
		})
		if loopErr != nil {
			return runtime.StatementResult{}, loopErr
		}
		if iterErr != nil {
			return e.statementErr(e.fail(iterErr))
		}
		if !loopResult.IsNone() {
			return loopResult, nil
		}
		return runtime.None, nil

	case *ast.BlockStmt:
		descriptor := e.bound.Scopes[s]
		inner := scope.CreateNestedBlock(descriptor)
		return e.execStatements(s.Body, inner)

	case *ast.TryStmt:
		return e.execTry(s, scope)

	case *ast.BreakStmt:
		return runtime.Break(), nil
	case *ast.ContinueStmt:
		return runtime.Continue(), nil

	case *ast.ReturnStmt:
		var v runtime.Value = runtime.Void
		if s.Value != nil {
			var err error
			v, err = e.evalExpr(s.Value, scope)
			if err != nil {
				return e.statementErr(err)
			}
		}
		return runtime.Return(v), nil

	case *ast.ThrowStmt:
		v, err := e.evalExpr(s.Value, scope)
		if err != nil {
			return e.statementErr(err)
		}
		exc := runtime.NewException(v, e.stack.Snapshot())
		return runtime.Throw(exc), nil

	default:
		return runtime.StatementResult{}, diag.Systemf(stmt.Pos(), "eval: unhandled statement type %T", stmt)
	}
}

// execStmtOrBlock mirrors the binder's bindStmtOrBlock: a BlockStmt opens
// its own nested ExecScope (via its precomputed descriptor); a bare
// single statement executes directly against scope.
func (e *Evaluator) execStmtOrBlock(stmt ast.Statement, scope *runtime.ExecScope) (runtime.StatementResult, error) {
	if blk, ok := stmt.(*ast.BlockStmt); ok {
		descriptor := e.bound.Scopes[blk]
		inner := scope.CreateNestedBlock(descriptor)
		return e.execStatements(blk.Body, inner)
	}
	return e.execStatement(stmt, scope)
}

// execTry runs Try, then Catch if Try exits via FlowThrow, then always
// runs Finally — and Finally's own non-None result (a break/continue/
// return/throw inside the finally block) overrides whatever Try/Catch
// produced, matching ordinary try/finally semantics.
func (e *Evaluator) execTry(s *ast.TryStmt, scope *runtime.ExecScope) (runtime.StatementResult, error) {
	tryDescriptor := e.bound.Scopes[s.Try]
	tryScope := scope.CreateNestedBlock(tryDescriptor)
	result, err := e.execStatements(s.Try.Body, tryScope)
	if err != nil {
		return runtime.StatementResult{}, err
	}

	if result.Flow == runtime.FlowThrow && s.HasCatch {
		catchDescriptor := e.bound.Scopes[s.Catch]
		catchScope := scope.CreateNestedBlock(catchDescriptor)
		slot, serr := catchScope.Slot(catchDescriptor.ID, catchDescriptor.ScopeOffset, 0, s.Position)
		if serr != nil {
			return runtime.StatementResult{}, serr
		}
		*slot = result.Value
		result, err = e.execStatements(s.Catch.Body, catchScope)
		if err != nil {
			return runtime.StatementResult{}, err
		}
	}

	if s.Finally != nil {
		finallyDescriptor := e.bound.Scopes[s.Finally]
		finallyScope := scope.CreateNestedBlock(finallyDescriptor)
		finallyResult, err := e.execStatements(s.Finally.Body, finallyScope)
		if err != nil {
			return runtime.StatementResult{}, err
		}
		if !finallyResult.IsNone() {
			return finallyResult, nil
		}
	}

	return result, nil
}

func (e *Evaluator) evalExpr(expr ast.Expression, scope *runtime.ExecScope) (runtime.Value, error) {
	switch ex := expr.(type) {
	case *ast.IntegerLiteral:
		return runtime.NewInteger(ex.Value), nil
	case *ast.FloatLiteral:
		return runtime.NewFloat(ex.Value), nil
	case *ast.StringLiteral:
		return runtime.NewString(ex.Value), nil
	case *ast.BooleanLiteral:
		return runtime.NewBoolean(ex.Value), nil
	case *ast.NullLiteral:
		return runtime.Null, nil

	case *ast.ThisExpr:
		v, ok := scope.This()
		if !ok {
			return nil, e.fail(diag.Runtimef(ex.Position, "'this' is not bound here"))
		}
		return v, nil

	case *ast.Identifier:
		d := e.bound.Idents[ex]
		v, err := d.Get(scope, ex.Position)
		if err != nil {
			return nil, e.fail(err)
		}
		return v, nil

	case *ast.UnaryExpr:
		operand, err := e.evalExpr(ex.Operand, scope)
		if err != nil {
			return nil, err
		}
		v, err := runtime.UnaryOp(ex.Op, operand, ex.Position)
		if err != nil {
			return nil, e.fail(err)
		}
		return v, nil

	case *ast.BinaryExpr:
		return e.evalBinary(ex, scope)

	case *ast.AssignExpr:
		return e.evalAssign(ex, scope)

	case *ast.IncDecExpr:
		return e.evalIncDec(ex, scope)

	case *ast.MemberExpr:
		obj, err := e.evalExpr(ex.Object, scope)
		if err != nil {
			return nil, err
		}
		v, err := obj.GetMember(scope, ex.Name)
		if err != nil {
			return nil, e.fail(err)
		}
		return v, nil

	case *ast.CallExpr:
		return e.evalCall(ex, scope)

	case *ast.NewExpr:
		return e.evalNew(ex, scope)

	case *ast.NewArrayExpr:
		lenV, err := e.evalExpr(ex.Length, scope)
		if err != nil {
			return nil, err
		}
		n, err := lenV.GetInteger()
		if err != nil {
			return nil, e.fail(err)
		}
		arr, err := runtime.NewArray(n)
		if err != nil {
			return nil, e.fail(err)
		}
		return arr, nil

	case *ast.ArrayLiteral:
		elems := make([]runtime.Value, len(ex.Elements))
		for i, el := range ex.Elements {
			v, err := e.evalExpr(el, scope)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return runtime.NewArrayFromLiteral(elems), nil

	case *ast.IndexExpr:
		arr, err := e.evalExpr(ex.Array, scope)
		if err != nil {
			return nil, err
		}
		idxV, err := e.evalExpr(ex.Index, scope)
		if err != nil {
			return nil, err
		}
		idx, err := idxV.GetInteger()
		if err != nil {
			return nil, e.fail(err)
		}
		v, err := arr.GetArrayElement(idx)
		if err != nil {
			return nil, e.fail(err)
		}
		return v, nil

	case *ast.TypeofExpr:
		v, err := e.evalExpr(ex.Operand, scope)
		if err != nil {
			return nil, err
		}
		return runtime.NewString(v.Typeof()), nil

	case *ast.ConditionalExpr:
		c, err := e.evalExpr(ex.Cond, scope)
		if err != nil {
			return nil, err
		}
		cb, err := c.GetBoolean()
		if err != nil {
			return nil, e.fail(err)
		}
		if cb {
			return e.evalExpr(ex.Then, scope)
		}
		return e.evalExpr(ex.Else, scope)

	case *ast.FunctionLiteral:
		decl := e.bound.Literals[ex]
		descriptor := e.bound.Scopes[ex.Body]
		return runtime.NewFunctionValue("", decl, descriptor)(scope), nil

	case *ast.ClassLiteral:
		return e.materializeClass(ex.Body, scope), nil

	default:
		return nil, diag.Systemf(expr.Pos(), "eval: unhandled expression type %T", expr)
	}
}

func (e *Evaluator) evalBinary(ex *ast.BinaryExpr, scope *runtime.ExecScope) (runtime.Value, error) {
	if ex.Op == "&&" || ex.Op == "||" {
		left, err := e.evalExpr(ex.Left, scope)
		if err != nil {
			return nil, err
		}
		lb, err := left.GetBoolean()
		if err != nil {
			return nil, e.fail(err)
		}
		if ex.Op == "&&" && !lb {
			return runtime.NewBoolean(false), nil
		}
		if ex.Op == "||" && lb {
			return runtime.NewBoolean(true), nil
		}
		right, err := e.evalExpr(ex.Right, scope)
		if err != nil {
			return nil, err
		}
		rb, err := right.GetBoolean()
		if err != nil {
			return nil, e.fail(err)
		}
		return runtime.NewBoolean(rb), nil
	}

	left, err := e.evalExpr(ex.Left, scope)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(ex.Right, scope)
	if err != nil {
		return nil, err
	}
	v, err := runtime.BinaryOp(ex.Op, left, right, ex.Position)
	if err != nil {
		return nil, e.fail(err)
	}
	return v, nil
}

// compoundBase strips a compound assignment operator's trailing `=` (e.g.
// "+=" -> "+"); "=" itself has no base operator.
func compoundBase(op string) (string, bool) {
	if op == "=" {
		return "", false
	}
	return op[:len(op)-1], true
}

func (e *Evaluator) evalAssign(ex *ast.AssignExpr, scope *runtime.ExecScope) (runtime.Value, error) {
	rhs, err := e.evalExpr(ex.Value, scope)
	if err != nil {
		return nil, err
	}
	if base, ok := compoundBase(ex.Op); ok {
		cur, err := e.readLvalue(scope, ex.Target)
		if err != nil {
			return nil, err
		}
		rhs, err = runtime.BinaryOp(base, cur, rhs, ex.Position)
		if err != nil {
			return nil, e.fail(err)
		}
	}
	if err := e.assignTo(scope, ex.Target, rhs); err != nil {
		return nil, e.fail(err)
	}
	return rhs, nil
}

func (e *Evaluator) evalIncDec(ex *ast.IncDecExpr, scope *runtime.ExecScope) (runtime.Value, error) {
	cur, err := e.readLvalue(scope, ex.Operand)
	if err != nil {
		return nil, err
	}
	op := "+"
	if ex.Op == "--" {
		op = "-"
	}
	next, err := runtime.BinaryOp(op, cur, runtime.NewInteger(1), ex.Position)
	if err != nil {
		return nil, e.fail(err)
	}
	if err := e.assignTo(scope, ex.Operand, next); err != nil {
		return nil, e.fail(err)
	}
	if ex.Prefix {
		return next, nil
	}
	return cur, nil
}

// readLvalue evaluates target's current value for a compound assignment
// or increment/decrement. The binder already rejected anything that is
// not an Identifier/MemberExpr/IndexExpr at bind time.
func (e *Evaluator) readLvalue(scope *runtime.ExecScope, target ast.Expression) (runtime.Value, error) {
	switch t := target.(type) {
	case *ast.Identifier:
		d := e.bound.Idents[t]
		return d.Get(scope, t.Position)
	case *ast.MemberExpr:
		obj, err := e.evalExpr(t.Object, scope)
		if err != nil {
			return nil, err
		}
		return obj.GetMember(scope, t.Name)
	case *ast.IndexExpr:
		arr, err := e.evalExpr(t.Array, scope)
		if err != nil {
			return nil, err
		}
		idxV, err := e.evalExpr(t.Index, scope)
		if err != nil {
			return nil, err
		}
		idx, err := idxV.GetInteger()
		if err != nil {
			return nil, err
		}
		return arr.GetArrayElement(idx)
	default:
		return nil, diag.Systemf(target.Pos(), "eval: not an lvalue %T", target)
	}
}

// assignTo stores value into target, the write-side counterpart of
// readLvalue.
func (e *Evaluator) assignTo(scope *runtime.ExecScope, target ast.Expression, value runtime.Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		d := e.bound.Idents[t]
		return d.SetModify(scope, value, t.Position)
	case *ast.MemberExpr:
		obj, err := e.evalExpr(t.Object, scope)
		if err != nil {
			return err
		}
		return obj.SetMember(scope, t.Name, value)
	case *ast.IndexExpr:
		arr, err := e.evalExpr(t.Array, scope)
		if err != nil {
			return err
		}
		idxV, err := e.evalExpr(t.Index, scope)
		if err != nil {
			return err
		}
		idx, err := idxV.GetInteger()
		if err != nil {
			return err
		}
		return arr.SetArrayElement(idx, value)
	default:
		return diag.Systemf(target.Pos(), "eval: not an lvalue %T", target)
	}
}

func (e *Evaluator) evalCall(ex *ast.CallExpr, scope *runtime.ExecScope) (runtime.Value, error) {
	callee, err := e.evalExpr(ex.Callee, scope)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, len(ex.Args))
	for i, a := range ex.Args {
		v, err := e.evalExpr(a, scope)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	result, exc, err := callee.Invoke(e, args, ex.Position)
	if err != nil {
		return nil, e.fail(err)
	}
	if exc != nil {
		return nil, &thrownError{exc: exc}
	}
	return result, nil
}

func (e *Evaluator) evalNew(ex *ast.NewExpr, scope *runtime.ExecScope) (runtime.Value, error) {
	class, err := e.evalExpr(ex.Class, scope)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, len(ex.Args))
	for i, a := range ex.Args {
		v, err := e.evalExpr(a, scope)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	result, exc, err := class.Instantiate(e, args, ex.Position)
	if err != nil {
		return nil, e.fail(err)
	}
	if exc != nil {
		return nil, &thrownError{exc: exc}
	}
	return result, nil
}

// materializeClass builds a ClassValue for an anonymous `class { ... }`
// expression from the binding the Binder cached during bindClassBody.
func (e *Evaluator) materializeClass(decl *ast.ClassDecl, scope *runtime.ExecScope) runtime.Value {
	binding := e.bound.Classes[decl]
	materialize := runtime.NewClassValue(decl.Name, decl, binding.Descriptor, binding.Fields, binding.Methods, binding.Ctor, binding.CtorDescriptor)
	return materialize(scope)
}

// CallFunction implements runtime.Invoker: it activates a fresh ExecScope
// over fn's own bind scope, binds args to parameter slots positionally,
// runs the body, and translates its StatementResult into the
// (Value, *ExceptionValue, error) triple Invoke/Instantiate callers expect.
func (e *Evaluator) CallFunction(fn *runtime.FunctionValue, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
	label := fn.Name
	if label == "" {
		label = "<anonymous function>"
	}
	if len(args) != len(fn.Decl.Params) {
		return nil, nil, diag.Runtimef(pos, "%s: expected %d argument(s), got %d", label, len(fn.Decl.Params), len(args))
	}
	if err := e.stack.Push(label, pos); err != nil {
		return nil, nil, err
	}
	defer e.stack.Pop()

	activation := runtime.NewExecScope(fn.Descriptor, fn.Closure, nil)
	for i := range fn.Decl.Params {
		slot, err := activation.Slot(fn.Descriptor.ID, fn.Descriptor.ScopeOffset, i, pos)
		if err != nil {
			return nil, nil, err
		}
		*slot = args[i]
	}

	result, err := e.execStatements(fn.Decl.Body.Body, activation)
	if err != nil {
		return nil, nil, err
	}
	switch result.Flow {
	case runtime.FlowReturn:
		return result.Value, nil, nil
	case runtime.FlowThrow:
		return nil, result.Value.(*runtime.ExceptionValue), nil
	default:
		return runtime.Void, nil, nil
	}
}

// NewInstance implements runtime.Invoker: it allocates the object's field
// ExecScope, runs field initializers in declaration order, then the
// constructor (if any).
func (e *Evaluator) NewInstance(cls *runtime.ClassValue, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
	if err := e.stack.Push("class "+cls.Name, pos); err != nil {
		return nil, nil, err
	}
	defer e.stack.Pop()

	obj := runtime.NewObjectValue(cls)

	for _, m := range cls.Decl.Members {
		if m.Var == nil {
			continue
		}
		field := cls.Fields[m.Var.Name]
		var v runtime.Value = runtime.Null
		if m.Var.Init != nil {
			var err error
			v, err = e.evalExpr(m.Var.Init, obj.Instance)
			if err != nil {
				if res, ok := e.asThrow(err); ok {
					return nil, res.Value.(*runtime.ExceptionValue), nil
				}
				return nil, nil, err
			}
		}
		slot, err := obj.Instance.Slot(cls.Descriptor.ID, cls.Descriptor.ScopeOffset, field.Slot, pos)
		if err != nil {
			return nil, nil, err
		}
		*slot = v
	}

	if cls.Ctor == nil {
		if len(args) != 0 {
			return nil, nil, diag.Runtimef(pos, "class %s has no constructor but %d argument(s) were given", cls.Name, len(args))
		}
		return obj, nil, nil
	}

	ctor := &runtime.FunctionValue{
		Base:       runtime.Base{TypeName: "function"},
		Name:       "constructor",
		Decl:       cls.Ctor,
		Closure:    obj.Instance,
		Descriptor: cls.CtorDescriptor,
	}
	_, exc, err := e.CallFunction(ctor, args, pos)
	if err != nil {
		return nil, nil, err
	}
	if exc != nil {
		return nil, exc, nil
	}
	return obj, nil, nil
}
