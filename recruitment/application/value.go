package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind tags the variant held by a Value
type Kind int

const (
	KindAbsent Kind = iota // key not present in the payload
	KindNull
	KindString
	KindNumber
	KindBool
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is one loosely-typed field of a submitted form. The zero value is
// Absent.
type Value struct {
	kind Kind
	text string // string contents, or the literal of a number
	num  float64
	b    bool
	list []Value
	obj  map[string]Value
}

// RawInput is a decoded form payload keyed by field name
type RawInput map[string]Value

// Get returns the value stored under key, or Absent
func (r RawInput) Get(key string) Value {
	if r == nil {
		return Value{}
	}
	return r[key]
}

// Absent is a key that was not sent
func Absent() Value { return Value{} }

// Null is an explicit JSON null
func Null() Value { return Value{kind: KindNull} }

// String wraps a JSON string
func String(s string) Value { return Value{kind: KindString, text: s} }

// Bool wraps a JSON boolean
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// List wraps a JSON array
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Number wraps a JSON number. Its literal is the shortest decimal form of f.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Object wraps a JSON object
func Object(fields map[string]Value) Value {
	return Value{kind: KindObject, obj: fields}
}

// Kind reports which variant v holds
func (v Value) Kind() Kind { return v.kind }

// ParseRawInput decodes a JSON object into a RawInput
func ParseRawInput(data []byte) (RawInput, error) {
	var raw RawInput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("payload is not a JSON object")
	}
	return raw, nil
}

// UnmarshalJSON decodes any JSON value, keeping number literals verbatim
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return err
	}
	*v = fromAny(decoded)
	return nil
}

// MarshalJSON encodes the value back to JSON. Absent encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.text)
	case KindNumber:
		return []byte(v.text), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case KindObject:
		if v.obj == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.obj)
	default:
		return []byte("null"), nil
	}
}

func fromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case string:
		return String(t)
	case json.Number:
		// Float64 reports range errors but still returns ±Inf, which the
		// coercions treat as unparseable.
		f, _ := t.Float64()
		return Value{kind: KindNumber, num: f, text: t.String()}
	case bool:
		return Bool(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = fromAny(item)
		}
		return List(items...)
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, item := range t {
			fields[k] = fromAny(item)
		}
		return Object(fields)
	default:
		return String(fmt.Sprint(t))
	}
}
