package value

import (
	"fmt"
	"math"
)

// Kind is the tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a boundary-safe tagged value.
// The zero Value is null. Values are treated as immutable once built.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Value
	m    *Mapping
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps a signed integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Double wraps a floating point number.
func Double(f float64) Value { return Value{kind: KindDouble, f: f} }

// String wraps a UTF-8 string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Sequence wraps an ordered list of values. A nil list yields an empty sequence.
func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSequence, seq: items}
}

// Map wraps an ordered mapping. A nil mapping yields an empty mapping.
func Map(m *Mapping) Value {
	if m == nil {
		m = NewMapping()
	}
	return Value{kind: KindMapping, m: m}
}

// OptionalString returns null for nil, otherwise the string.
func OptionalString(s *string) Value {
	if s == nil {
		return Null()
	}
	return String(*s)
}

// OptionalDouble returns null for nil, otherwise the double.
func OptionalDouble(f *float64) Value {
	if f == nil {
		return Null()
	}
	return Double(*f)
}

// OptionalInt returns null for nil, otherwise the integer.
func OptionalInt(i *int64) Value {
	if i == nil {
		return Null()
	}
	return Int(*i)
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

func (v Value) AsDouble() (float64, bool) { return v.f, v.kind == KindDouble }

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsSequence returns the items of a sequence. The slice must not be modified.
func (v Value) AsSequence() ([]Value, bool) { return v.seq, v.kind == KindSequence }

func (v Value) AsMapping() (*Mapping, bool) { return v.m, v.kind == KindMapping }

// AsNumber reads an int or double as float64.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindDouble:
		return v.f, true
	}
	return 0, false
}

// Get is a shorthand for looking up a key on a mapping value.
// It returns null when v is not a mapping or the key is absent.
func (v Value) Get(key string) Value {
	if v.kind != KindMapping {
		return Null()
	}
	out, _ := v.m.Get(key)
	return out
}

// Len returns the number of items of a sequence or entries of a mapping.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return v.m.Len()
	}
	return 0
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindDouble:
		return formatDouble(v.f)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return "<" + v.kind.String() + ">"
	}
	return string(data)
}

// Equal reports whether a and b carry the same tag and payload.
// Doubles compare by value, so NaN is never equal to itself.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindDouble:
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindSequence:
		if len(a.seq) != len(b.seq) {
			return false
		}
		for i := range a.seq {
			if !Equal(a.seq[i], b.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		return a.m.equal(b.m)
	}
	return false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
