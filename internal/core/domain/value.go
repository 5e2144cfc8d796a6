package domain

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is a tagged, immutable representation of an arbitrary JSON value.
// Objects remember key insertion order so that traversal and serialization
// are deterministic for identical inputs.
type Value struct {
	kind    ValueKind
	boolVal bool
	numVal  json.Number
	strVal  string
	items   []Value
	keys    []string
	fields  map[string]Value
}

// Field is one key/value pair of an object, used by ObjectVal.
type Field struct {
	Key   string
	Value Value
}

func NullVal() Value               { return Value{kind: KindNull} }
func BoolVal(b bool) Value         { return Value{kind: KindBool, boolVal: b} }
func StringVal(s string) Value     { return Value{kind: KindString, strVal: s} }
func NumberVal(n json.Number) Value {
	return Value{kind: KindNumber, numVal: n}
}

func IntVal(i int64) Value {
	return NumberVal(json.Number(strconv.FormatInt(i, 10)))
}

func FloatVal(f float64) Value {
	return NumberVal(json.Number(strconv.FormatFloat(f, 'g', -1, 64)))
}

func ListVal(items ...Value) Value {
	return Value{kind: KindList, items: items}
}

// ObjectVal builds an object preserving the order of the given fields.
// A repeated key keeps its first position but takes the last value.
func ObjectVal(fields ...Field) Value {
	v := Value{
		kind:   KindObject,
		keys:   make([]string, 0, len(fields)),
		fields: make(map[string]Value, len(fields)),
	}
	for _, f := range fields {
		if _, seen := v.fields[f.Key]; !seen {
			v.keys = append(v.keys, f.Key)
		}
		v.fields[f.Key] = f.Value
	}
	return v
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }

func (v Value) BoolVal() bool          { return v.boolVal }
func (v Value) NumberVal() json.Number { return v.numVal }
func (v Value) StrVal() string         { return v.strVal }

// Float reports the numeric value of a number Value.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.numVal.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.items)
	case KindObject:
		return len(v.keys)
	default:
		return 0
	}
}

func (v Value) Index(i int) Value {
	if v.kind != KindList || i < 0 || i >= len(v.items) {
		return NullVal()
	}
	return v.items[i]
}

// Keys returns object keys in insertion order. The returned slice must not
// be mutated by the caller.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	return v.keys
}

func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	f, ok := v.fields[key]
	return f, ok
}

// Equal reports deep equality. Numbers compare numerically (1 and 1.0 are
// equal) but a number never equals a string. Object key order is ignored.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == o.boolVal
	case KindString:
		return v.strVal == o.strVal
	case KindNumber:
		return numbersEqual(v.numVal, o.numVal)
	case KindList:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for k, vf := range v.fields {
			of, ok := o.fields[k]
			if !ok || !vf.Equal(of) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// numbersEqual compares two JSON number literals. Integer literals
// compare exactly, so ids and timestamps beyond float64 precision never
// collide; float comparison is the fallback for decimal spellings.
func numbersEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	ai, aErr := a.Int64()
	bi, bErr := b.Int64()
	if aErr == nil && bErr == nil {
		return ai == bi
	}
	af, err := a.Float64()
	if err != nil {
		return false
	}
	bf, err := b.Float64()
	if err != nil {
		return false
	}
	return af == bf
}

// Interface converts the Value to plain Go types (map[string]any, []any,
// json.Number, string, bool, nil). Object key order is lost.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.boolVal
	case KindNumber:
		return v.numVal
	case KindString:
		return v.strVal
	case KindList:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			out[k] = v.fields[k].Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders the value as compact JSON, for logs and text reports.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "<invalid>"
	}
	return string(b)
}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

func (v Value) MarshalJSON() ([]byte, error) {
	stream := jsonAPI.BorrowStream(nil)
	defer jsonAPI.ReturnStream(stream)
	v.encode(stream)
	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

func (v Value) encode(stream *jsoniter.Stream) {
	switch v.kind {
	case KindBool:
		stream.WriteBool(v.boolVal)
	case KindNumber:
		if len(v.numVal) == 0 {
			stream.WriteRaw("0")
		} else {
			stream.WriteRaw(string(v.numVal))
		}
	case KindString:
		stream.WriteString(v.strVal)
	case KindList:
		stream.WriteArrayStart()
		for i, item := range v.items {
			if i > 0 {
				stream.WriteMore()
			}
			item.encode(stream)
		}
		stream.WriteArrayEnd()
	case KindObject:
		stream.WriteObjectStart()
		for i, k := range v.keys {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(k)
			v.fields[k].encode(stream)
		}
		stream.WriteObjectEnd()
	default:
		stream.WriteNil()
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseValue decodes a JSON document into a Value, preserving object key
// order as it appears in the document.
func ParseValue(data []byte) (Value, error) {
	iter := jsoniter.ParseBytes(jsonAPI, data)
	v := decodeValue(iter)
	if iter.Error != nil && iter.Error != io.EOF {
		return Value{}, iter.Error
	}
	return v, nil
}

func decodeValue(iter *jsoniter.Iterator) Value {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return NullVal()
	case jsoniter.BoolValue:
		return BoolVal(iter.ReadBool())
	case jsoniter.NumberValue:
		return NumberVal(iter.ReadNumber())
	case jsoniter.StringValue:
		return StringVal(iter.ReadString())
	case jsoniter.ArrayValue:
		var items []Value
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			items = append(items, decodeValue(it))
			return it.Error == nil
		})
		return Value{kind: KindList, items: items}
	case jsoniter.ObjectValue:
		v := Value{kind: KindObject, fields: make(map[string]Value)}
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			if _, seen := v.fields[key]; !seen {
				v.keys = append(v.keys, key)
			}
			v.fields[key] = decodeValue(it)
			return it.Error == nil
		})
		return v
	default:
		iter.ReportError("decodeValue", "unexpected JSON token")
		return Value{}
	}
}

// FromGo converts plain Go values (as produced by encoding/json or other
// decoders) into a Value. Map keys are sorted so the result is
// deterministic regardless of Go map iteration order.
func FromGo(data any) Value {
	switch t := data.(type) {
	case nil:
		return NullVal()
	case bool:
		return BoolVal(t)
	case string:
		return StringVal(t)
	case json.Number:
		return NumberVal(t)
	case int:
		return IntVal(int64(t))
	case int64:
		return IntVal(t)
	case float64:
		return FloatVal(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromGo(item)
		}
		return Value{kind: KindList, items: items}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, len(keys))
		for i, k := range keys {
			fields[i] = Field{Key: k, Value: FromGo(t[k])}
		}
		return ObjectVal(fields...)
	default:
		// Unknown scalar types render through their string form.
		b, err := jsonAPI.Marshal(t)
		if err != nil {
			return NullVal()
		}
		v, err := ParseValue(b)
		if err != nil {
			return NullVal()
		}
		return v
	}
}
