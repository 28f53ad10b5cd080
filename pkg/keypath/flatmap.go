package keypath

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"

	"github.com/dmitrymomot/langdiff/pkg/jsonv"
)

// FlatMap maps key paths to leaf values for one document.
// Iteration follows insertion order, which for Flatten output is document order.
type FlatMap struct {
	values map[string]jsonv.Value
	keys   []string
}

// NewFlatMap creates an empty FlatMap.
func NewFlatMap() *FlatMap {
	return &FlatMap{values: make(map[string]jsonv.Value)}
}

// FromObject builds a FlatMap from an object whose member keys are paths,
// such as the output of MarshalJSON.
func FromObject(v jsonv.Value) (*FlatMap, error) {
	if v.Kind() != jsonv.KindObject {
		return nil, fmt.Errorf("%w: flat document must be an object, got %s", ErrMalformedPath, v.Kind())
	}
	fm := NewFlatMap()
	for _, m := range v.Members() {
		fm.Set(m.Key, m.Value)
	}
	return fm, nil
}

// Set stores v at path. A new path is appended to the iteration order;
// an existing one keeps its position.
func (m *FlatMap) Set(path string, v jsonv.Value) {
	if _, ok := m.values[path]; !ok {
		m.keys = append(m.keys, path)
	}
	m.values[path] = v
}

// Get returns the value stored at path.
func (m *FlatMap) Get(path string) (jsonv.Value, bool) {
	if m == nil {
		return jsonv.Value{}, false
	}
	v, ok := m.values[path]
	return v, ok
}

// Has reports whether path is present.
func (m *FlatMap) Has(path string) bool {
	_, ok := m.Get(path)
	return ok
}

// Len returns the number of paths. A nil FlatMap is empty.
func (m *FlatMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the paths in iteration order.
func (m *FlatMap) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// All iterates over paths and values in order.
func (m *FlatMap) All() iter.Seq2[string, jsonv.Value] {
	return func(yield func(string, jsonv.Value) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Object returns the FlatMap as an object keyed by path.
func (m *FlatMap) Object() jsonv.Value {
	members := make([]jsonv.Member, 0, m.Len())
	for k, v := range m.All() {
		members = append(members, jsonv.Field(k, v))
	}
	return jsonv.Object(members...)
}

// MarshalJSON writes the FlatMap as a JSON object in iteration order.
func (m *FlatMap) MarshalJSON() ([]byte, error) {
	return m.Object().MarshalJSON()
}

// Equal reports whether both maps hold the same paths, in the same order, with equal values.
func (m *FlatMap) Equal(other *FlatMap) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i, k := range m.Keys() {
		if other.keys[i] != k || !jsonv.Equal(m.values[k], other.values[k]) {
			return false
		}
	}
	return true
}

// String returns the indented JSON form, handy in test failure output.
func (m *FlatMap) String() string {
	data, err := m.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid flatmap: %v>", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	return buf.String()
}
