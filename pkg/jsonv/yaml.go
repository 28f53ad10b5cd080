package jsonv

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a YAML document into a Value, keeping mapping order.
// Aliases are resolved, up to a budget proportional to the document size so that
// nested anchors cannot expand without bound. Non-finite floats are rejected since JSON cannot hold them.
func ParseYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("%w: %s", ErrInvalidYAML, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Null(), nil
	}

	root := doc.Content[0]
	d := &yamlDecoder{budget: max(minYAMLBudget, countNodes(root)*yamlAliasFactor)}
	v, err := d.fromNode(root)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %s", ErrInvalidYAML, err)
	}
	return v, nil
}

// ParseYAMLDocument decodes a YAML translation document. The root must be a mapping
// or a sequence.
func ParseYAMLDocument(data []byte) (Value, error) {
	v, err := ParseYAML(data)
	if err != nil {
		return Value{}, err
	}
	if !v.IsContainer() {
		return Value{}, fmt.Errorf("%w: got %s", ErrNotContainer, v.Kind())
	}
	return v, nil
}

const (
	minYAMLBudget   = 10_000
	yamlAliasFactor = 10
)

var errAliasBudget = errors.New("document expands too much through aliases")

type yamlDecoder struct {
	budget int
}

// countNodes counts the nodes of the tree rooted at n without following aliases.
func countNodes(n *yaml.Node) int {
	total := 1
	for _, c := range n.Content {
		total += countNodes(c)
	}
	return total
}

func (d *yamlDecoder) fromNode(n *yaml.Node) (Value, error) {
	d.budget--
	if d.budget < 0 {
		return Value{}, errAliasBudget
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return d.fromNode(n.Content[0])
	case yaml.AliasNode:
		return d.fromNode(n.Alias)
	case yaml.MappingNode:
		members := make([]Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := d.fromNode(n.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			members = append(members, Member{Key: n.Content[i].Value, Value: v})
		}
		return Object(members...), nil
	case yaml.SequenceNode:
		elems := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := d.fromNode(c)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return Array(elems...), nil
	case yaml.ScalarNode:
		return fromScalar(n)
	default:
		return Value{}, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

func fromScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return Value{}, err
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return Value{}, fmt.Errorf("line %d: non-finite number %q", n.Line, n.Value)
		}
		return Float(f), nil
	default:
		return String(n.Value), nil
	}
}
