package value

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// --------------------------------------------------------------------------
// Kind
// --------------------------------------------------------------------------

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	KindInvalid Kind = iota // zero Value, never valid inside a record
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

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
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// --------------------------------------------------------------------------
// Value
// --------------------------------------------------------------------------

// Value is a JSON-compatible value: null, bool, number, string, array or object.
// Numbers keep the int/float distinction of their source but compare numerically,
// so Int(1) equals Float(1.0).
//
// The zero Value has KindInvalid and is rejected by the database.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	a    []Value
	o    Record
}

// Null returns a null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating point Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an array Value. The elements are not copied.
func Array(elems ...Value) Value { return Value{kind: KindArray, a: elems} }

// Object returns an object Value wrapping the given record. The record is not copied.
func Object(r Record) Value {
	if r == nil {
		r = Record{}
	}
	return Value{kind: KindObject, o: r}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v is not the zero Value.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// IsString reports whether v holds a string.
func (v Value) IsString() bool { return v.kind == KindString }

// IsNumber reports whether v holds an int or a float.
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

// AsBool returns the boolean if v is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer if v is an int.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns v as a float64 if v is a number.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// AsString returns the string if v is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsArray returns the elements if v is an array. The slice is shared with v.
func (v Value) AsArray() ([]Value, bool) { return v.a, v.kind == KindArray }

// AsObject returns the record if v is an object. The record is shared with v.
func (v Value) AsObject() (Record, bool) { return v.o, v.kind == KindObject }

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		elems := make([]Value, len(v.a))
		for i := range v.a {
			elems[i] = v.a[i].Clone()
		}
		return Value{kind: KindArray, a: elems}
	case KindObject:
		return Value{kind: KindObject, o: v.o.Clone()}
	default:
		return v
	}
}

// Equal reports whether v and o hold the same JSON value.
// Numbers are compared by numeric value regardless of int/float kind.
func (v Value) Equal(o Value) bool {
	if v.IsNumber() && o.IsNumber() {
		return numberKey(v) == numberKey(o)
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInvalid, KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindArray:
		if len(v.a) != len(o.a) {
			return false
		}
		for i := range v.a {
			if !v.a[i].Equal(o.a[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return v.o.Equal(o.o)
	default:
		return false
	}
}

// Key returns a stable, unambiguous string encoding of v that is consistent with
// Equal: two values are equal if and only if their keys are equal. It is used as
// the bucket key of secondary indexes.
func (v Value) Key() string {
	var sb strings.Builder
	v.writeKey(&sb)
	return sb.String()
}

func (v Value) writeKey(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("z")
	case KindBool:
		if v.b {
			sb.WriteString("b:1")
		} else {
			sb.WriteString("b:0")
		}
	case KindInt, KindFloat:
		sb.WriteString(numberKey(v))
	case KindString:
		sb.WriteString("s:")
		sb.WriteString(v.s)
	case KindArray:
		sb.WriteString("a:")
		for _, elem := range v.a {
			writeLenPrefixed(sb, elem.Key())
		}
	case KindObject:
		sb.WriteString("o:")
		for _, name := range v.o.Keys() {
			writeLenPrefixed(sb, name)
			writeLenPrefixed(sb, v.o[name].Key())
		}
	default:
		sb.WriteString("invalid")
	}
}

func writeLenPrefixed(sb *strings.Builder, s string) {
	sb.WriteString(strconv.Itoa(len(s)))
	sb.WriteByte(':')
	sb.WriteString(s)
}

// numberKey normalizes integral floats to the integer form so that Int(2) and
// Float(2.0) share a key.
func numberKey(v Value) string {
	if v.kind == KindInt {
		return "n:" + strconv.FormatInt(v.i, 10)
	}
	f := v.f
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return "n:" + strconv.FormatInt(int64(f), 10)
	}
	return "f:" + strconv.FormatFloat(f, 'g', -1, 64)
}

// Interface converts v to plain Go values: nil, bool, int64, float64, string,
// []any and map[string]any.
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
	case KindArray:
		out := make([]any, len(v.a))
		for i := range v.a {
			out[i] = v.a[i].Interface()
		}
		return out
	case KindObject:
		return v.o.Interface()
	default:
		return nil
	}
}

// String returns the JSON text of v.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "<" + v.kind.String() + ">"
	}
	return string(b)
}

// --------------------------------------------------------------------------
// Record
// --------------------------------------------------------------------------

// Record is a JSON object: the value type of every database entry.
type Record map[string]Value

// Clone returns a deep copy of the record. Cloning nil returns nil.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v.Clone()
	}
	return out
}

// Equal reports whether both records hold the same fields with equal values.
func (r Record) Equal(o Record) bool {
	if len(r) != len(o) {
		return false
	}
	for k, v := range r {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Merge returns a new record holding the fields of r overridden by the fields of
// partial. Neither input is modified; the result shares no values with them.
func (r Record) Merge(partial Record) Record {
	out := make(Record, len(r)+len(partial))
	for k, v := range r {
		out[k] = v.Clone()
	}
	for k, v := range partial {
		out[k] = v.Clone()
	}
	return out
}

// Keys returns the field names in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate returns an error if the record or any nested value holds the zero Value
// or a string or field name that is not valid UTF-8.
func (r Record) Validate() error {
	for k, v := range r {
		if !utf8.ValidString(k) {
			return &FieldError{Path: k}
		}
		if err := v.validate(k); err != nil {
			return err
		}
	}
	return nil
}

func (v Value) validate(path string) error {
	switch v.kind {
	case KindInvalid:
		return &FieldError{Path: path}
	case KindString:
		if !utf8.ValidString(v.s) {
			return &FieldError{Path: path}
		}
	case KindArray:
		for i, elem := range v.a {
			if err := elem.validate(path + "[" + strconv.Itoa(i) + "]"); err != nil {
				return err
			}
		}
	case KindObject:
		for k, elem := range v.o {
			if !utf8.ValidString(k) {
				return &FieldError{Path: path + "." + k}
			}
			if err := elem.validate(path + "." + k); err != nil {
				return err
			}
		}
	}
	return nil
}

// Interface converts the record to a map[string]any.
func (r Record) Interface() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v.Interface()
	}
	return out
}

// FieldError reports an invalid value at the given field path.
type FieldError struct {
	Path string
}

func (e *FieldError) Error() string {
	return "invalid value at field " + strconv.Quote(e.Path)
}
