package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// ErrNotRecord is returned when a top-level value is not a JSON object.
var ErrNotRecord = errors.New("value is not a record")

// FromAny converts plain Go values into a Value.
//
// Supported inputs are the types produced by the JSON and YAML decoders (nil, bool,
// string, all integer and float types, json.Number, []any, map[string]any,
// map[any]any with string keys) as well as Value, []Value, Record and []string.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case Record:
		return Object(x), nil
	case map[string]Value:
		return Object(x), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint(x)
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case json.Number:
		return fromNumber(string(x))
	case []Value:
		return Array(x...), nil
	case []string:
		elems := make([]Value, len(x))
		for i := range x {
			elems[i] = String(x[i])
		}
		return Array(elems...), nil
	case []any:
		elems := make([]Value, len(x))
		for i := range x {
			elem, err := FromAny(x[i])
			if err != nil {
				return Value{}, err
			}
			elems[i] = elem
		}
		return Array(elems...), nil
	case map[string]any:
		rec := make(Record, len(x))
		for k, item := range x {
			elem, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", k, err)
			}
			rec[k] = elem
		}
		return Object(rec), nil
	case map[any]any:
		rec := make(Record, len(x))
		for k, item := range x {
			name, ok := k.(string)
			if !ok {
				return Value{}, fmt.Errorf("unsupported object key %v (%T)", k, k)
			}
			elem, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", name, err)
			}
			rec[name] = elem
		}
		return Object(rec), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// RecordFromAny converts v into a Record. Anything that is not a mapping fails
// with ErrNotRecord.
func RecordFromAny(v any) (Record, error) {
	if v == nil {
		return nil, ErrNotRecord
	}
	val, err := FromAny(v)
	if err != nil {
		return nil, err
	}
	rec, ok := val.AsObject()
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotRecord, val.Kind())
	}
	return rec, nil
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("integer out of range: %d", u)
	}
	return Int(int64(u)), nil
}

func fromNumber(s string) (Value, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return Float(f), nil
}
