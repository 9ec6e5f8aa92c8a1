package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindNull is a value that is omitted from the output.
	KindNull Kind = iota
	// KindString is a plain string.
	KindString
	// KindList is a sequence of values sharing one key.
	KindList
	// KindTime is a timestamp.
	KindTime
	// KindObject is a JSON document.
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindTime:
		return "time"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a query parameter value. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	list []Value
	time time.Time
	raw  json.RawMessage
}

// Null returns a value that is skipped during serialization.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Strings returns a list of string values.
func Strings(ss ...string) Value {
	list := make([]Value, 0, len(ss))
	for _, s := range ss {
		list = append(list, String(s))
	}
	return Value{kind: KindList, list: list}
}

// List returns a list value.
func List(values ...Value) Value { return Value{kind: KindList, list: values} }

// Time returns a timestamp value.
func Time(t time.Time) Value { return Value{kind: KindTime, time: t} }

// Object returns a value holding the JSON encoding of v.
func Object(v any) (Value, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return Value{}, fmt.Errorf("encode object: %w", err)
	}
	return Value{kind: KindObject, raw: bytes.TrimRight(buf.Bytes(), "\n")}, nil
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// text returns the scalar form of v used as a parameter value.
func (v Value) text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindTime:
		return v.time.UTC().Format(isoMillis)
	case KindObject:
		return string(v.raw)
	case KindList:
		b, err := json.Marshal(v.jsonable())
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return "null"
	}
}

// jsonable converts v to a value json.Marshal renders like the original
// parameter.
func (v Value) jsonable() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindTime:
		return v.time.UTC().Format(isoMillis)
	case KindObject:
		return v.raw
	case KindList:
		out := make([]any, 0, len(v.list))
		for _, item := range v.list {
			out = append(out, item.jsonable())
		}
		return out
	default:
		return nil
	}
}

// isoMillis is the UTC timestamp layout with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z"

// FromAny converts a decoded YAML or JSON value into a Value. Maps become
// objects, slices become lists, and other scalars are formatted with fmt.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(val), nil
	case time.Time:
		return Time(val), nil
	case []string:
		return Strings(val...), nil
	case []any:
		list := make([]Value, 0, len(val))
		for _, item := range val {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			list = append(list, converted)
		}
		return List(list...), nil
	case map[string]any:
		return Object(val)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
		return String(fmt.Sprint(val)), nil
	default:
		return Object(val)
	}
}

// FromMap converts a map into Params sorted by key.
func FromMap(m map[string]any) (Params, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	params := make(Params, 0, len(keys))
	for _, k := range keys {
		v, err := FromAny(m[k])
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		params = append(params, Param{Key: k, Value: v})
	}
	return params, nil
}
