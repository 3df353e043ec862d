// Package field models searchable items and resolves dotted key paths
// against them.
//
// Items are trees of Value: String and Number leaves, List arrays and Record
// objects. A Resolver turns an item and a path such as "author.firstName"
// into the string leaves stored there.
package field

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Value is a node of a searchable item.
// It is one of String, Number, List or Record.
type Value interface {
	isValue()
}

// String is a text leaf.
type String string

// Number is a numeric leaf. It is searched through its decimal form.
type Number float64

// List is an ordered array of values.
type List []Value

// Record maps field names to values.
type Record map[string]Value

func (String) isValue() {}
func (Number) isValue() {}
func (List) isValue()   {}
func (Record) isValue() {}

// String returns the shortest decimal representation of n.
func (n Number) String() string {
	f := float64(n)
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Strings builds a flat collection from plain strings.
func Strings(values ...string) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = String(v)
	}
	return out
}

// FromAny converts decoded JSON, YAML or TOML data into a Value.
// Booleans and nulls carry nothing searchable and become nil. Timestamps,
// which YAML produces for unquoted dates, become RFC 3339 strings.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return nil, nil
	case time.Time:
		return String(x.Format(time.RFC3339)), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(x), nil
	case int:
		return Number(x), nil
	case int64:
		return Number(x), nil
	case int32:
		return Number(x), nil
	case uint64:
		return Number(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("field: number %q: %w", x.String(), err)
		}
		return Number(f), nil
	case []any:
		list := make(List, len(x))
		for i, elem := range x {
			val, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("field: [%d]: %w", i, err)
			}
			list[i] = val
		}
		return list, nil
	case []string:
		list := make(List, len(x))
		for i, s := range x {
			list[i] = String(s)
		}
		return list, nil
	case map[string]any:
		rec := make(Record, len(x))
		for key, elem := range x {
			val, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("field: %s: %w", key, err)
			}
			if val != nil {
				rec[key] = val
			}
		}
		return rec, nil
	default:
		return nil, fmt.Errorf("field: unsupported type %T", v)
	}
}

// ToAny converts a Value back into plain Go data for encoding.
func ToAny(v Value) any {
	switch x := v.(type) {
	case String:
		return string(x)
	case Number:
		return float64(x)
	case List:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = ToAny(elem)
		}
		return out
	case Record:
		out := make(map[string]any, len(x))
		for key, elem := range x {
			out[key] = ToAny(elem)
		}
		return out
	default:
		return nil
	}
}
