package value

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// MarshalJSON implements json.Marshaler. Object fields are written in sorted order.
func (v Value) MarshalJSON() ([]byte, error) {
	return v.appendJSON(nil)
}

func (v Value) appendJSON(buf []byte) ([]byte, error) {
	switch v.kind {
	case KindNull:
		return append(buf, "null"...), nil
	case KindBool:
		return strconv.AppendBool(buf, v.b), nil
	case KindInt:
		return strconv.AppendInt(buf, v.i, 10), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, fmt.Errorf("unsupported float value %v", v.f)
		}
		return strconv.AppendFloat(buf, v.f, 'g', -1, 64), nil
	case KindString:
		b, err := json.Marshal(v.s)
		if err != nil {
			return nil, err
		}
		return append(buf, b...), nil
	case KindArray:
		buf = append(buf, '[')
		for i, elem := range v.a {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = elem.appendJSON(buf); err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case KindObject:
		buf = append(buf, '{')
		for i, name := range v.o.Keys() {
			if i > 0 {
				buf = append(buf, ',')
			}
			b, err := json.Marshal(name)
			if err != nil {
				return nil, err
			}
			buf = append(append(buf, b...), ':')
			if buf, err = v.o[name].appendJSON(buf); err != nil {
				return nil, err
			}
		}
		return append(buf, '}'), nil
	default:
		return nil, fmt.Errorf("cannot marshal %s value", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler. Integral numbers decode to ints,
// anything else to floats.
func (v *Value) UnmarshalJSON(data []byte) error {
	x, err := decodeJSON(data)
	if err != nil {
		return err
	}
	parsed, err := FromAny(x)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseRecord decodes a JSON document whose top-level value must be an object.
func ParseRecord(data []byte) (Record, error) {
	x, err := decodeJSON(data)
	if err != nil {
		return nil, err
	}
	return RecordFromAny(x)
}

// Parse decodes a single JSON value.
func Parse(data []byte) (Value, error) {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return Value{}, err
	}
	return v, nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return x, nil
}
