package document

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ToYAMLNode builds a yaml.v3 node tree for v keeping object key order.
func ToYAMLNode(v Value) *yaml.Node {
	switch typed := normalize(v).(type) {
	case Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(typed))}
	case Number:
		tag := "!!float"
		if typed.IsInteger() {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: typed.String()}
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(typed)}
	case *Array:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typed.items {
			node.Content = append(node.Content, ToYAMLNode(item))
		}
		return node
	case *Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range typed.entries {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				ToYAMLNode(e.Value),
			)
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// FromYAMLNode converts a yaml.v3 node tree into a Value. Anchors are
// expanded; mapping keys are taken verbatim.
func FromYAMLNode(node *yaml.Node) (Value, error) {
	if node == nil {
		return Null{}, nil
	}
	switch node.Kind {
	case 0:
		return Null{}, nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null{}, nil
		}
		return FromYAMLNode(node.Content[0])
	case yaml.AliasNode:
		return FromYAMLNode(node.Alias)
	case yaml.SequenceNode:
		arr := NewArray()
		for _, child := range node.Content {
			v, err := FromYAMLNode(child)
			if err != nil {
				return nil, err
			}
			arr.Append(v)
		}
		return arr, nil
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("document: yaml line %d: mapping keys must be scalars", keyNode.Line)
			}
			v, err := FromYAMLNode(valueNode)
			if err != nil {
				return nil, err
			}
			obj.Set(keyNode.Value, v)
		}
		return obj, nil
	case yaml.ScalarNode:
		return scalarFromYAML(node)
	default:
		return nil, fmt.Errorf("document: yaml line %d: unsupported node kind %v", node.Line, node.Kind)
	}
}

func scalarFromYAML(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null{}, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("document: yaml line %d: %w", node.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		if n, err := ParseNumber(node.Value); err == nil {
			return n, nil
		}
		var i int64
		if err := node.Decode(&i); err == nil {
			return Int(i), nil
		}
		var u uint64
		if err := node.Decode(&u); err != nil {
			return nil, fmt.Errorf("document: yaml line %d: %w", node.Line, err)
		}
		return Uint(u), nil
	case "!!float":
		if n, err := ParseNumber(node.Value); err == nil {
			return n, nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("document: yaml line %d: %w", node.Line, err)
		}
		n, err := Float(f)
		if err != nil {
			return nil, fmt.Errorf("document: yaml line %d: %w", node.Line, err)
		}
		return n, nil
	default:
		return String(node.Value), nil
	}
}

// MarshalYAML encodes the entries in insertion order.
func (o *Object) MarshalYAML() (any, error) {
	return ToYAMLNode(o), nil
}

// MarshalYAML encodes the elements in order.
func (a *Array) MarshalYAML() (any, error) {
	return ToYAMLNode(a), nil
}

// MarshalYAML encodes the number with its original text.
func (n Number) MarshalYAML() (any, error) {
	return ToYAMLNode(n), nil
}

// UnmarshalYAML accepts a YAML number.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	v, err := FromYAMLNode(node)
	if err != nil {
		return err
	}
	num, ok := v.(Number)
	if !ok {
		return fmt.Errorf("%w: yaml line %d: expected a number, got %s", ErrInvalidNumber, node.Line, v.Kind())
	}
	*n = num
	return nil
}

// MarshalYAML encodes the root value keeping key order.
func (d *Document) MarshalYAML() (any, error) {
	return ToYAMLNode(d.Root()), nil
}

// UnmarshalYAML replaces the root with the decoded value.
func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	v, err := FromYAMLNode(node)
	if err != nil {
		return err
	}
	d.root = v
	return nil
}

// ParseYAML decodes a YAML document.
func ParseYAML(data []byte) (*Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("document: decode yaml: %w", err)
	}
	v, err := FromYAMLNode(&node)
	if err != nil {
		return nil, err
	}
	return FromValue(v), nil
}

// YAML renders the document as YAML.
func (d *Document) YAML() (string, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("document: encode yaml: %w", err)
	}
	return string(out), nil
}
