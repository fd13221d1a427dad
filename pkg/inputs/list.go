package inputs

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfill/pkg/document"
)

// List is an ordered set of inputs. It encodes each element as an object
// tagged by its "type".
type List []Input

func newInput(t Type) (Input, func() Input, error) {
	switch t {
	case TypeText:
		in := &TextInput{}
		return in, func() Input { return *in }, nil
	case TypeBoolean:
		in := &BooleanInput{}
		return in, func() Input { return *in }, nil
	case TypeNumber:
		in := &NumberInput{}
		return in, func() Input { return *in }, nil
	case TypeGroup:
		in := &GroupInput{}
		return in, func() Input { return *in }, nil
	case TypeList:
		in := &ListInput{}
		return in, func() Input { return *in }, nil
	case "":
		return nil, nil, fmt.Errorf("inputs: input is missing its type")
	default:
		return nil, nil, fmt.Errorf("inputs: unknown input type %q", t)
	}
}

// MarshalJSON writes each input with its "type" first.
func (l List) MarshalJSON() ([]byte, error) {
	out := document.NewArray()
	for i, in := range l {
		if in == nil {
			return nil, fmt.Errorf("inputs: element %d is nil", i)
		}
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("inputs: encode element %d: %w", i, err)
		}
		body, err := document.Decode(raw)
		if err != nil {
			return nil, err
		}
		fields, ok := body.(*document.Object)
		if !ok {
			return nil, fmt.Errorf("inputs: element %d did not encode to an object", i)
		}
		tagged := document.NewObject(document.Entry{Key: "type", Value: document.String(in.Type())})
		for key, value := range fields.All() {
			tagged.Set(key, value)
		}
		out.Append(tagged)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes tagged inputs.
func (l *List) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("inputs: decode list: %w", err)
	}
	out := make(List, 0, len(raws))
	for i, raw := range raws {
		var head struct {
			Type Type `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return fmt.Errorf("inputs: element %d: %w", i, err)
		}
		target, value, err := newInput(head.Type)
		if err != nil {
			return fmt.Errorf("inputs: element %d: %w", i, err)
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("inputs: element %d (%s): %w", i, head.Type, err)
		}
		out = append(out, value())
	}
	*l = out
	return nil
}

// MarshalYAML writes each input as a mapping with "type" first.
func (l List) MarshalYAML() (any, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for i, in := range l {
		if in == nil {
			return nil, fmt.Errorf("inputs: element %d is nil", i)
		}
		var body yaml.Node
		if err := body.Encode(in); err != nil {
			return nil, fmt.Errorf("inputs: encode element %d: %w", i, err)
		}
		if body.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("inputs: element %d did not encode to a mapping", i)
		}
		body.Content = append([]*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "type"},
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(in.Type())},
		}, body.Content...)
		seq.Content = append(seq.Content, &body)
	}
	return seq, nil
}

// UnmarshalYAML decodes tagged inputs.
func (l *List) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		*l = nil
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("inputs: line %d: inputs must be a sequence", node.Line)
	}
	out := make(List, 0, len(node.Content))
	for i, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			return fmt.Errorf("inputs: line %d: element %d must be a mapping", item.Line, i)
		}
		var t Type
		for j := 0; j+1 < len(item.Content); j += 2 {
			if item.Content[j].Value == "type" {
				t = Type(item.Content[j+1].Value)
				break
			}
		}
		target, value, err := newInput(t)
		if err != nil {
			return fmt.Errorf("inputs: line %d: %w", item.Line, err)
		}
		if err := item.Decode(target); err != nil {
			return fmt.Errorf("inputs: line %d (%s): %w", item.Line, t, err)
		}
		out = append(out, value())
	}
	*l = out
	return nil
}
