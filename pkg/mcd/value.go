package mcd

import (
	"fmt"
	"math"
	"strconv"
)

// Kind is the closed set of value kinds a geometry entry may hold.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a tagged scalar. The kind is fixed at construction so emitters
// dispatch on it instead of inspecting dynamic types.
type Value struct {
	kind Kind
	b    bool
	i    int
	f    float64
	s    string
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer value.
func Int(i int) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// ValueOf converts a decoded JSON or Go scalar into a Value.
// Types outside the closed set are rendered with %v and stored as strings.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(x)
	case int32:
		return Int(int(x))
	case int64:
		return Int(int(x))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case string:
		return String(x)
	default:
		return String(fmt.Sprintf("%v", x))
	}
}

// Kind reports the value kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload.
func (v Value) AsBool() bool { return v.b }

// AsInt returns the integer payload.
func (v Value) AsInt() int { return v.i }

// AsFloat returns the numeric payload as a float. Integers are converted.
func (v Value) AsFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// AsString returns the string payload.
func (v Value) AsString() string { return v.s }

// Truthy mirrors the usual scripting notion of truth: null, false, zero
// and the empty string are false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	default:
		return false
	}
}

// Interface returns the payload as a plain Go value (nil, bool, int, float64, string).
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.Itoa(v.i)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}

// ParseValue interprets a textual token: an int if it parses as one, else a
// float, else the token itself as a string.
func ParseValue(tok string) Value {
	if i, err := strconv.Atoi(tok); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Float(f)
	}
	return String(tok)
}

// Equal reports whether v and o have the same kind and payload.
func (v Value) Equal(o Value) bool { return v == o }
