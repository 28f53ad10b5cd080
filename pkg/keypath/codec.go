package keypath

import (
	"fmt"

	"github.com/dmitrymomot/langdiff/pkg/jsonv"
)

// EmptyPolicy decides what Flatten records for empty objects and arrays.
type EmptyPolicy uint8

const (
	// DropEmpty records nothing for empty containers. Only leaves reached through
	// non-empty containers appear in the output.
	DropEmpty EmptyPolicy = iota
	// KeepEmpty records the empty container itself at its path.
	KeepEmpty
)

// Option configures Flatten.
type Option func(*options)

type options struct {
	empty EmptyPolicy
}

// WithEmptyContainers sets the empty container policy. Default: DropEmpty.
func WithEmptyContainers(p EmptyPolicy) Option {
	return func(o *options) {
		o.empty = p
	}
}

// Flatten maps every leaf of v to its key path.
//
// Objects contribute ".name" segments (the bare name at the root) and arrays "[i]"
// segments. Scalars are leaves. A scalar root is stored at the empty path.
func Flatten(v jsonv.Value, opts ...Option) *FlatMap {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	fm := NewFlatMap()
	flatten(fm, v, "", o)
	return fm
}

func flatten(fm *FlatMap, v jsonv.Value, prefix string, o *options) {
	switch v.Kind() {
	case jsonv.KindObject:
		if v.Len() == 0 {
			keepEmpty(fm, v, prefix, o)
			return
		}
		for _, m := range v.Members() {
			flatten(fm, m.Value, Field(prefix, m.Key), o)
		}
	case jsonv.KindArray:
		if v.Len() == 0 {
			keepEmpty(fm, v, prefix, o)
			return
		}
		for i, e := range v.Elems() {
			flatten(fm, e, Index(prefix, i), o)
		}
	default:
		fm.Set(prefix, v)
	}
}

func keepEmpty(fm *FlatMap, v jsonv.Value, prefix string, o *options) {
	// the root itself has no path
	if o.empty == KeepEmpty && prefix != "" {
		fm.Set(prefix, v)
	}
}

// Unflatten rebuilds a nested value from flat paths.
//
// At every step the container kind is chosen by the next segment: an index creates an
// array, a field creates an object. The root is an array when the first path starts
// with an index. Gaps in arrays are filled with null. Paths that disagree about the
// shape of a position return ErrPathConflict. An empty map yields an empty object.
func Unflatten(fm *FlatMap) (jsonv.Value, error) {
	if fm.Len() == 0 {
		return jsonv.Object(), nil
	}

	var root *node
	for path, v := range fm.All() {
		if path == "" {
			if fm.Len() != 1 {
				return jsonv.Value{}, fmt.Errorf("%w: root value mixed with nested paths", ErrPathConflict)
			}
			return v, nil
		}

		segs, err := Parse(path)
		if err != nil {
			return jsonv.Value{}, err
		}

		if root == nil {
			root = containerFor(segs[0])
		}
		if err := root.insert(segs, v); err != nil {
			return jsonv.Value{}, fmt.Errorf("%w at %q", err, path)
		}
	}

	return root.value(), nil
}

// UnflattenPath rebuilds the minimal subtree that holds v at path.
func UnflattenPath(path string, v jsonv.Value) (jsonv.Value, error) {
	fm := NewFlatMap()
	fm.Set(path, v)
	return Unflatten(fm)
}

// Get walks path inside v and returns the value found there.
func Get(v jsonv.Value, path string) (jsonv.Value, bool) {
	if path == "" {
		return v, true
	}
	segs, err := Parse(path)
	if err != nil {
		return jsonv.Value{}, false
	}

	cur := v
	for _, s := range segs {
		var ok bool
		if s.IsIndex {
			cur, ok = cur.At(s.Index)
		} else {
			cur, ok = cur.Get(s.Key)
		}
		if !ok {
			return jsonv.Value{}, false
		}
	}
	return cur, true
}

// node is the mutable tree Unflatten builds before freezing it into a jsonv.Value.
type node struct {
	fields map[string]*node
	leaf   jsonv.Value
	keys   []string
	elems  []*node
	kind   jsonv.Kind
	isLeaf bool
}

func containerFor(next Segment) *node {
	if next.IsIndex {
		return &node{kind: jsonv.KindArray}
	}
	return &node{kind: jsonv.KindObject, fields: make(map[string]*node)}
}

func nodeFor(v jsonv.Value) *node {
	if v.IsContainer() && v.Len() == 0 {
		if v.Kind() == jsonv.KindArray {
			return &node{kind: jsonv.KindArray}
		}
		return &node{kind: jsonv.KindObject, fields: make(map[string]*node)}
	}
	return &node{kind: v.Kind(), leaf: v, isLeaf: true}
}

func (n *node) insert(segs []Segment, v jsonv.Value) error {
	cur := n
	for i, s := range segs {
		if s.IsIndex != (cur.kind == jsonv.KindArray) {
			return fmt.Errorf("%w: cannot step %s into %s", ErrPathConflict, s, cur.kind)
		}

		child := cur.child(s)
		if i == len(segs)-1 {
			if child == nil {
				cur.setChild(s, nodeFor(v))
				return nil
			}
			// an explicit empty container over an existing container of the same kind
			if v.IsContainer() && v.Len() == 0 && !child.isLeaf && child.kind == v.Kind() {
				return nil
			}
			return fmt.Errorf("%w: %s already set", ErrPathConflict, s)
		}

		if child == nil {
			child = containerFor(segs[i+1])
			cur.setChild(s, child)
		} else if child.isLeaf {
			return fmt.Errorf("%w: %s is a leaf", ErrPathConflict, s)
		}
		cur = child
	}
	return nil
}

func (n *node) child(s Segment) *node {
	if s.IsIndex {
		if s.Index < len(n.elems) {
			return n.elems[s.Index]
		}
		return nil
	}
	return n.fields[s.Key]
}

func (n *node) setChild(s Segment, c *node) {
	if s.IsIndex {
		for len(n.elems) <= s.Index {
			n.elems = append(n.elems, nil)
		}
		n.elems[s.Index] = c
		return
	}
	if _, ok := n.fields[s.Key]; !ok {
		n.keys = append(n.keys, s.Key)
	}
	n.fields[s.Key] = c
}

func (n *node) value() jsonv.Value {
	if n.isLeaf {
		return n.leaf
	}
	if n.kind == jsonv.KindArray {
		elems := make([]jsonv.Value, len(n.elems))
		for i, e := range n.elems {
			if e == nil {
				elems[i] = jsonv.Null()
				continue
			}
			elems[i] = e.value()
		}
		return jsonv.Array(elems...)
	}
	members := make([]jsonv.Member, 0, len(n.keys))
	for _, k := range n.keys {
		members = append(members, jsonv.Field(k, n.fields[k].value()))
	}
	return jsonv.Object(members...)
}
