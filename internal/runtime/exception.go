package runtime

import (
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/token"
)

// ExceptionValue wraps a thrown payload together with the stack trace
// captured at the `throw` site. It is itself a Value so a catch clause can bind it
// like any other variable and inspect .message/.trace through GetMember.
type ExceptionValue struct {
	Base
	Payload Value
	Trace   diag.StackTrace
}

// NewException captures trace as a snapshot; callers typically pass
// callStack.Snapshot() at the point of the throw statement.
func NewException(payload Value, trace diag.StackTrace) *ExceptionValue {
	return &ExceptionValue{Base: Base{TypeName: "exception"}, Payload: payload, Trace: trace}
}

func (e *ExceptionValue) ToString() (string, error) {
	if e.Payload == nil {
		return "", nil
	}
	return e.Payload.ToString()
}

func (e *ExceptionValue) Typeof() string { return "exception" }

// GetMember exposes the three fixed fields a caught
// exception carries: `message` (the payload's string rendering), `trace` (the
// captured call stack rendered as a string) and `payload` (the thrown value
// itself, or Null if there is none).
func (e *ExceptionValue) GetMember(access *ExecScope, name string) (Value, error) {
	switch name {
	case "message":
		msg, err := e.ToString()
		if err != nil {
			return nil, err
		}
		return NewString(msg), nil
	case "trace":
		return NewString(e.Trace.String()), nil
	case "payload":
		if e.Payload == nil {
			return Null, nil
		}
		return e.Payload, nil
	default:
		return nil, diag.Runtimef(token.Position{}, "exception has no member %q", name)
	}
}

func (e *ExceptionValue) ValueEquals(other Value) (bool, error) {
	o, ok := other.(*ExceptionValue)
	if !ok {
		return false, nil
	}
	if e.Payload == nil || o.Payload == nil {
		return e.Payload == o.Payload, nil
	}
	return e.Payload.ValueEquals(o.Payload)
}
