package runtime

import (
	"strconv"

	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/token"
)

// IntegerValue is a two's-complement 64-bit integer with unsigned
// wraparound arithmetic.
type IntegerValue struct {
	Base
	Value int64
}

func (v *IntegerValue) IsUndefined() bool             { return false }
func (v *IntegerValue) GetInteger() (int64, error)    { return v.Value, nil }
func (v *IntegerValue) GetFloat() (float64, error)    { return float64(v.Value), nil }
func (v *IntegerValue) ToString() (string, error)     { return strconv.FormatInt(v.Value, 10), nil }
func (v *IntegerValue) OperandType() (OperandType, error) { return Integer, nil }
func (v *IntegerValue) Typeof() string                { return "integer" }

func (v *IntegerValue) ValueEquals(other Value) (bool, error) {
	o, err := other.GetInteger()
	if err != nil {
		return false, typeMismatch("integer", other)
	}
	return v.Value == o, nil
}
func (v *IntegerValue) ValueHashCode() (uint64, error) { return uint64(v.Value), nil }
func (v *IntegerValue) ValueCompareTo(other Value) (int, error) {
	o, err := other.GetInteger()
	if err != nil {
		return 0, typeMismatch("integer", other)
	}
	switch {
	case v.Value < o:
		return -1, nil
	case v.Value > o:
		return 1, nil
	default:
		return 0, nil
	}
}

// FloatValue is an IEEE double.
type FloatValue struct {
	Base
	Value float64
}

func (v *FloatValue) GetInteger() (int64, error)    { return int64(v.Value), nil }
func (v *FloatValue) GetFloat() (float64, error)    { return v.Value, nil }
func (v *FloatValue) ToString() (string, error)     { return strconv.FormatFloat(v.Value, 'g', -1, 64), nil }
func (v *FloatValue) OperandType() (OperandType, error) { return Float, nil }
func (v *FloatValue) Typeof() string                { return "float" }

func (v *FloatValue) ValueEquals(other Value) (bool, error) {
	o, err := other.GetFloat()
	if err != nil {
		return false, typeMismatch("float", other)
	}
	return v.Value == o, nil
}
func (v *FloatValue) ValueHashCode() (uint64, error) {
	return uint64(int64(v.Value)), nil
}
func (v *FloatValue) ValueCompareTo(other Value) (int, error) {
	o, err := other.GetFloat()
	if err != nil {
		return 0, typeMismatch("float", other)
	}
	switch {
	case v.Value < o:
		return -1, nil
	case v.Value > o:
		return 1, nil
	default:
		return 0, nil
	}
}

// BooleanValue is true or false.
type BooleanValue struct {
	Base
	Value bool
}

func (v *BooleanValue) GetBoolean() (bool, error) { return v.Value, nil }
func (v *BooleanValue) ToString() (string, error) {
	if v.Value {
		return "true", nil
	}
	return "false", nil
}
func (v *BooleanValue) OperandType() (OperandType, error) { return Boolean, nil }
func (v *BooleanValue) Typeof() string                    { return "boolean" }

func (v *BooleanValue) ValueEquals(other Value) (bool, error) {
	o, err := other.GetBoolean()
	if err != nil {
		return false, typeMismatch("boolean", other)
	}
	return v.Value == o, nil
}
func (v *BooleanValue) ValueHashCode() (uint64, error) {
	if v.Value {
		return 1, nil
	}
	return 0, nil
}
func (v *BooleanValue) ValueCompareTo(other Value) (int, error) {
	return 0, diag.Runtimef(token.Position{}, "boolean is not orderable")
}

func typeMismatch(expect string, other Value) error {
	return diag.Runtimef(token.Position{}, "type mismatch: expected %s, got %s", expect, other.Typeof())
}

// --- Value factory -------------------------------------------------------

// smallIntCacheLo/Hi bound the interned integer singletons: small integers
// in [-1024..1024] are cached.
const (
	smallIntCacheLo = -1024
	smallIntCacheHi = 1024
)

var smallIntCache [smallIntCacheHi - smallIntCacheLo + 1]*IntegerValue
var smallFloatCache [smallIntCacheHi - smallIntCacheLo + 1]*FloatValue
var smallCharCache [256]*StringValue

func init() {
	for i := range smallIntCache {
		n := int64(i + smallIntCacheLo)
		smallIntCache[i] = &IntegerValue{Base: Base{TypeName: "integer"}, Value: n}
		smallFloatCache[i] = &FloatValue{Base: Base{TypeName: "float"}, Value: float64(n)}
	}
	for b := 0; b < 256; b++ {
		smallCharCache[b] = newStringValue(string([]byte{byte(b)}))
	}
}

// NewInteger returns a (possibly cached) IntegerValue.
func NewInteger(v int64) Value {
	if v >= smallIntCacheLo && v <= smallIntCacheHi {
		return smallIntCache[v-smallIntCacheLo]
	}
	return &IntegerValue{Base: Base{TypeName: "integer"}, Value: v}
}

// NewFloat returns a (possibly cached) FloatValue. Only whole-valued
// floats within the small-integer range are cached.
func NewFloat(v float64) Value {
	if whole := int64(v); float64(whole) == v && whole >= smallIntCacheLo && whole <= smallIntCacheHi {
		return smallFloatCache[whole-smallIntCacheLo]
	}
	return &FloatValue{Base: Base{TypeName: "float"}, Value: v}
}

// NewBoolean returns the shared true/false singleton.
func NewBoolean(v bool) Value {
	if v {
		return trueValue
	}
	return falseValue
}

var (
	trueValue  Value = &BooleanValue{Base: Base{TypeName: "boolean"}, Value: true}
	falseValue Value = &BooleanValue{Base: Base{TypeName: "boolean"}, Value: false}
)

// CachedChar returns the interned single-character string for a byte code
// in [0,255], or nil if code is out of that range.
func CachedChar(code int) Value {
	if code < 0 || code > 255 {
		return nil
	}
	return smallCharCache[code]
}
