package runtime

import (
	"strings"

	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/token"
)

// StringValue is an immutable byte sequence with a cached hash.
//
// Indexing and iteration yield unsigned byte codes (0..255), settling
// string comparison and for-each-over-a-string in favor of unsigned byte
// ordering throughout — the original C++ source
// mixed signed- and unsigned-char comparisons across code paths; this
// rewrite standardizes on unsigned bytes everywhere and does not emulate
// the inconsistency.
type StringValue struct {
	Base
	Value    string
	hash     uint64
	hashedAt bool
}

func newStringValue(s string) *StringValue {
	return &StringValue{Base: Base{TypeName: "string"}, Value: s}
}

// NewString constructs a StringValue, returning the interned single-byte
// cache entry when applicable.
func NewString(s string) Value {
	if len(s) == 1 {
		if c := CachedChar(int(s[0])); c != nil {
			return c
		}
	}
	return newStringValue(s)
}

func (v *StringValue) GetString() (string, error) { return v.Value, nil }
func (v *StringValue) ToString() (string, error)   { return v.Value, nil }
func (v *StringValue) OperandType() (OperandType, error) { return String, nil }
func (v *StringValue) Typeof() string              { return "string" }

func (v *StringValue) Length() int64 { return int64(len(v.Value)) }

// GetArrayElement returns the unsigned byte code at index (0-based),
// matching the original's stringex.cpp element access.
func (v *StringValue) GetArrayElement(index int64) (Value, error) {
	if index < 0 || index >= int64(len(v.Value)) {
		return nil, diag.Runtimef(token.Position{}, "string index out of range: %d", index)
	}
	return NewInteger(int64(v.Value[index])), nil
}

func (v *StringValue) SetArrayElement(int64, Value) error {
	return diag.Runtimef(token.Position{}, "cannot modify an immutable string")
}

// Iterate yields every byte of the string, in order, as an unsigned byte
// code integer.
func (v *StringValue) Iterate(visit Visitor) error {
	for i := 0; i < len(v.Value); i++ {
		keepGoing, err := visit(NewInteger(int64(v.Value[i])))
		if err != nil {
			return err
		}
		if !keepGoing {
			return nil
		}
	}
	return nil
}

func (v *StringValue) ValueEquals(other Value) (bool, error) {
	o, err := other.GetString()
	if err != nil {
		return false, typeMismatch("string", other)
	}
	return v.Value == o, nil
}

// ValueHashCode computes (and caches) an FNV-1a hash of the string bytes.
func (v *StringValue) ValueHashCode() (uint64, error) {
	if v.hashedAt {
		return v.hash, nil
	}
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(v.Value); i++ {
		h ^= uint64(v.Value[i])
		h *= prime64
	}
	v.hash = h
	v.hashedAt = true
	return h, nil
}

// ValueCompareTo orders strings lexicographically by unsigned byte value,
// which is exactly Go's native string comparison.
func (v *StringValue) ValueCompareTo(other Value) (int, error) {
	o, err := other.GetString()
	if err != nil {
		return 0, typeMismatch("string", other)
	}
	return strings.Compare(v.Value, o), nil
}
