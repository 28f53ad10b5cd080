package jsonv

import (
	"encoding/json"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON value with an explicit kind tag.
// The zero Value is null. Objects keep their members in document order.
type Value struct {
	// text holds string contents or the literal number text.
	text    string
	elems   []Value
	members []Member
	kind    Kind
	b       bool
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a number value holding n's literal text.
func Number(n json.Number) Value { return Value{kind: KindNumber, text: string(n)} }

// Int returns a number value for n.
func Int(n int64) Value { return Number(json.Number(strconv.FormatInt(n, 10))) }

// Float returns a number value for f.
func Float(f float64) Value { return Number(json.Number(strconv.FormatFloat(f, 'g', -1, 64))) }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Array returns an array value. Array() is the empty array.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindArray, elems: elems}
}

// Object returns an object value with members in the given order.
// Object() is the empty object. A repeated key keeps the position of its first
// occurrence and the value of its last, as JSON parsers do.
func Object(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{kind: KindObject, members: uniqueMembers(members)}
}

func uniqueMembers(members []Member) []Member {
	seen := make(map[string]int, len(members))
	var out []Member
	for i, m := range members {
		j, dup := seen[m.Key]
		if !dup {
			seen[m.Key] = len(seen)
			if out != nil {
				out = append(out, m)
			}
			continue
		}
		if out == nil {
			out = append(make([]Member, 0, len(members)), members[:i]...)
		}
		out[j].Value = m.Value
	}
	if out == nil {
		return members
	}
	return out
}

// Field is shorthand for Member{Key: key, Value: v}.
func Field(key string, v Value) Member { return Member{Key: key, Value: v} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsScalar reports whether v is null, a bool, a number or a string.
func (v Value) IsScalar() bool { return v.kind < KindArray }

// IsContainer reports whether v is an array or an object.
func (v Value) IsContainer() bool { return v.kind == KindArray || v.kind == KindObject }

// IsBlank reports whether v is null or the empty string.
func (v Value) IsBlank() bool {
	return v.kind == KindNull || (v.kind == KindString && v.text == "")
}

// Len returns the number of elements or members. Scalars have length 0.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.elems)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Bool returns the boolean held by v, false for any other kind.
func (v Value) Bool() bool { return v.kind == KindBool && v.b }

// Number returns the literal number text, empty for any other kind.
func (v Value) Number() json.Number {
	if v.kind != KindNumber {
		return ""
	}
	return json.Number(v.text)
}

// Str returns the string held by v and whether v is a string.
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

// Elems returns the array elements. The slice must not be modified.
func (v Value) Elems() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.elems
}

// Members returns the object members in document order. The slice must not be modified.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	return v.members
}

// At returns the i-th array element.
func (v Value) At(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.elems) {
		return Value{}, false
	}
	return v.elems[i], true
}

// Get returns the member value for key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Text returns a display form of v: the raw contents of strings, the literal text of
// numbers, "true"/"false", "null" and compact JSON for containers.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber, KindString:
		return v.text
	default:
		data, _ := v.MarshalJSON()
		return string(data)
	}
}

// Equal reports whether a and b hold the same JSON value.
// Object member order is significant; numbers compare by numeric value.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.text == b.text
	case KindNumber:
		if a.text == b.text {
			return true
		}
		fa, errA := strconv.ParseFloat(a.text, 64)
		fb, errB := strconv.ParseFloat(b.text, 64)
		return errA == nil && errB == nil && fa == fb
	case KindArray:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Key != b.members[i].Key || !Equal(a.members[i].Value, b.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
