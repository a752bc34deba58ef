package runtime

import (
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/token"
)

// BinaryOp evaluates a non-short-circuiting binary operator. The && and
// || operators are handled by the evaluator directly (they need to avoid
// evaluating the right operand at all), not here.
func BinaryOp(op string, left, right Value, pos token.Position) (Value, error) {
	switch op {
	case "+", "-", "*", "/", "%":
		return arithmetic(op, left, right, pos)
	case "==":
		eq, err := valuesEqual(left, right, pos)
		return NewBoolean(eq), err
	case "!=":
		eq, err := valuesEqual(left, right, pos)
		return NewBoolean(!eq), err
	case "<", "<=", ">", ">=":
		return compare(op, left, right, pos)
	default:
		return nil, diag.Systemf(pos, "unknown binary operator %q", op)
	}
}

// UnaryOp evaluates `-x`, `!x`.
func UnaryOp(op string, operand Value, pos token.Position) (Value, error) {
	switch op {
	case "-":
		t, err := operand.OperandType()
		if err != nil {
			return nil, err
		}
		switch t {
		case Integer:
			n, _ := operand.GetInteger()
			return NewInteger(-n), nil
		case Float:
			f, _ := operand.GetFloat()
			return NewFloat(-f), nil
		default:
			return nil, diag.Runtimef(pos, "unary -: operand is not numeric (%s)", t)
		}
	case "!":
		b, err := operand.GetBoolean()
		if err != nil {
			return nil, diag.Runtimef(pos, "unary !: operand is not boolean")
		}
		return NewBoolean(!b), nil
	default:
		return nil, diag.Systemf(pos, "unknown unary operator %q", op)
	}
}

// isNumeric classifies an OperandType for promotion purposes.
func isNumeric(t OperandType) bool { return t == Integer || t == Float }

func arithmetic(op string, left, right Value, pos token.Position) (Value, error) {
	lt, err := left.OperandType()
	if err != nil {
		return nil, err
	}
	rt, err := right.OperandType()
	if err != nil {
		return nil, err
	}

	// `+` on two strings concatenates; string + anything else converts
	// the other side with to_string.
	if op == "+" && (lt == String || rt == String) {
		ls, err := left.ToString()
		if err != nil {
			return nil, err
		}
		rs, err := right.ToString()
		if err != nil {
			return nil, err
		}
		return NewString(ls + rs), nil
	}

	if !isNumeric(lt) || !isNumeric(rt) {
		return nil, diag.Runtimef(pos, "operator %s: operands are not numeric (%s, %s)", op, lt, rt)
	}

	// Numeric promotion: if either side is float, compute in float;
	// otherwise stay in integer.
	if lt == Float || rt == Float {
		lf, _ := left.GetFloat()
		rf, _ := right.GetFloat()
		switch op {
		case "+":
			return NewFloat(lf + rf), nil
		case "-":
			return NewFloat(lf - rf), nil
		case "*":
			return NewFloat(lf * rf), nil
		case "/":
			if rf == 0 {
				return nil, diag.Runtimef(pos, "division by zero")
			}
			return NewFloat(lf / rf), nil
		case "%":
			return nil, diag.Runtimef(pos, "Floating-point remainder operator is not supported")
		}
	}

	li, _ := left.GetInteger()
	ri, _ := right.GetInteger()
	switch op {
	case "+":
		return NewInteger(li + ri), nil
	case "-":
		return NewInteger(li - ri), nil
	case "*":
		return NewInteger(li * ri), nil
	case "/":
		if ri == 0 {
			return nil, diag.Runtimef(pos, "division by zero")
		}
		return NewInteger(int64(uint64(li) / uint64(ri))), nil
	case "%":
		if ri == 0 {
			return nil, diag.Runtimef(pos, "division by zero")
		}
		return NewInteger(int64(uint64(li) % uint64(ri))), nil
	}
	return nil, diag.Systemf(pos, "unreachable arithmetic operator %q", op)
}

func valuesEqual(left, right Value, pos token.Position) (bool, error) {
	lt, err := left.OperandType()
	if err != nil {
		return false, err
	}
	rt, err := right.OperandType()
	if err != nil {
		return false, err
	}
	if isNumeric(lt) && isNumeric(rt) {
		if lt == Integer && rt == Integer {
			li, _ := left.GetInteger()
			ri, _ := right.GetInteger()
			return li == ri, nil
		}
		lf, _ := left.GetFloat()
		rf, _ := right.GetFloat()
		return lf == rf, nil
	}
	if lt != rt {
		return false, diag.Runtimef(pos, "type mismatch: cannot compare %s and %s", lt, rt)
	}
	return left.ValueEquals(right)
}

// intCompare orders two script integers the way the original's
// scriptint_sign(a-b) does: reinterpret both operands as unsigned 64-bit
// and classify the sign of the wrapped difference, rather than promoting
// to float64 and losing precision above 2^53.
func intCompare(li, ri int64) int {
	d := int64(uint64(li) - uint64(ri))
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}

func compare(op string, left, right Value, pos token.Position) (Value, error) {
	lt, err := left.OperandType()
	if err != nil {
		return nil, err
	}
	rt, err := right.OperandType()
	if err != nil {
		return nil, err
	}
	var c int
	if lt == Integer && rt == Integer {
		li, _ := left.GetInteger()
		ri, _ := right.GetInteger()
		c = intCompare(li, ri)
	} else if isNumeric(lt) && isNumeric(rt) {
		lf, _ := left.GetFloat()
		rf, _ := right.GetFloat()
		switch {
		case lf < rf:
			c = -1
		case lf > rf:
			c = 1
		default:
			c = 0
		}
	} else {
		c, err = left.ValueCompareTo(right)
		if err != nil {
			return nil, err
		}
	}
	switch op {
	case "<":
		return NewBoolean(c < 0), nil
	case "<=":
		return NewBoolean(c <= 0), nil
	case ">":
		return NewBoolean(c > 0), nil
	case ">=":
		return NewBoolean(c >= 0), nil
	}
	return nil, diag.Systemf(pos, "unreachable comparison operator %q", op)
}
