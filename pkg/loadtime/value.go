package loadtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindString
	KindBool
	KindNumber
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a JSON-like tagged variant. The zero Value is undefined, which is
// what lookups return for absent keys.
type Value struct {
	kind Kind
	str  string
	b    bool
	num  float64
	list []Value
	obj  map[string]Value
}

// Undefined returns the zero Value.
func Undefined() Value { return Value{} }

// Null returns an explicit null.
func Null() Value { return Value{kind: KindNull} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

func Int(i int) Value { return Value{kind: KindNumber, num: float64(i)} }

// List builds a list value from the supplied items.
func List(items ...Value) Value {
	return Value{kind: KindList, list: append([]Value(nil), items...)}
}

// Object builds an object value. The map is copied.
func Object(fields map[string]Value) Value {
	obj := make(map[string]Value, len(fields))
	for k, v := range fields {
		obj[k] = v
	}
	return Value{kind: KindObject, obj: obj}
}

// Strings is shorthand for a list of string values.
func Strings(items ...string) Value {
	out := make([]Value, 0, len(items))
	for _, item := range items {
		out = append(out, String(item))
	}
	return Value{kind: KindList, list: out}
}

// FromAny converts decoded JSON/YAML data (or plain Go literals) into a
// Value. Unsupported types return an error naming the offending type.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("loadtime: invalid number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case []string:
		return Strings(t...), nil
	case []any:
		out := make([]Value, 0, len(t))
		for i, item := range t {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("loadtime: list index %d: %w", i, err)
			}
			out = append(out, converted)
		}
		return Value{kind: KindList, list: out}, nil
	case map[string]string:
		obj := make(map[string]Value, len(t))
		for k, item := range t {
			obj[k] = String(item)
		}
		return Value{kind: KindObject, obj: obj}, nil
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, item := range t {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("loadtime: key %q: %w", k, err)
			}
			obj[k] = converted
		}
		return Value{kind: KindObject, obj: obj}, nil
	case map[any]any:
		obj := make(map[string]Value, len(t))
		for k, item := range t {
			key, ok := k.(string)
			if !ok {
				return Value{}, fmt.Errorf("loadtime: non-string object key %v (%T)", k, k)
			}
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("loadtime: key %q: %w", key, err)
			}
			obj[key] = converted
		}
		return Value{kind: KindObject, obj: obj}, nil
	default:
		return Value{}, fmt.Errorf("loadtime: unsupported value type %T", v)
	}
}

// MustFromAny is FromAny for literals known to be valid.
func MustFromAny(v any) Value {
	out, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return out
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether v is the undefined sentinel.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", &TypeError{Want: KindString, Got: v.kind}
	}
	return v.str, nil
}

func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, &TypeError{Want: KindBool, Got: v.kind}
	}
	return v.b, nil
}

func (v Value) AsNumber() (float64, error) {
	if v.kind != KindNumber {
		return 0, &TypeError{Want: KindNumber, Got: v.kind}
	}
	return v.num, nil
}

// AsInteger returns the number truncated toward zero. A fractional number
// yields the truncated value together with a *NotIntegerError.
func (v Value) AsInteger() (int, error) {
	f, err := v.AsNumber()
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) {
		return 0, &NotIntegerError{Value: f}
	}
	if f != math.Trunc(f) {
		return int(f), &NotIntegerError{Value: f}
	}
	return int(f), nil
}

func (v Value) AsList() ([]Value, error) {
	if v.kind != KindList {
		return nil, &TypeError{Want: KindList, Got: v.kind}
	}
	return v.list, nil
}

func (v Value) AsObject() (map[string]Value, error) {
	if v.kind != KindObject {
		return nil, &TypeError{Want: KindObject, Got: v.kind}
	}
	return v.obj, nil
}

// Field returns the named member of an object value, or undefined.
func (v Value) Field(name string) Value {
	if v.kind != KindObject {
		return Value{}
	}
	return v.obj[name]
}

// Len returns the number of list items or object members.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindObject:
		return len(v.obj)
	case KindString:
		return len(v.str)
	default:
		return 0
	}
}

// Truthy follows browser truthiness: empty strings, zero, NaN, false, null
// and undefined are falsy; lists and objects are always truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindString:
		return v.str != ""
	case KindBool:
		return v.b
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindList, KindObject:
		return true
	default:
		return false
	}
}

// String coerces v the way attribute assignment does in a browser, except
// that undefined and null become the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return formatNumber(v.num)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return strings.Join(parts, ",")
	case KindObject:
		return "[object Object]"
	default:
		return ""
	}
}

// Raw returns the plain Go representation (string, bool, float64, []any,
// map[string]any or nil).
func (v Value) Raw() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Raw()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, item := range v.obj {
			out[k] = item.Raw()
		}
		return out
	default:
		return nil
	}
}

// Equal reports deep equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.num == other.num
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, item := range v.obj {
			o, ok := other.obj[k]
			if !ok || !item.Equal(o) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// MarshalJSON encodes v; undefined encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindObject {
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			name, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(name)
			buf.WriteByte(':')
			item, err := v.obj[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(item)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	return json.Marshal(v.Raw())
}

// UnmarshalJSON decodes any JSON document into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	out, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
