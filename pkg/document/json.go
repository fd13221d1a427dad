package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MarshalJSON writes the entries in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("document: encode key %q: %w", e.Key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes the elements in order.
func (a *Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range a.Items() {
		if i > 0 {
			buf.WriteByte(',')
		}
		value, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("document: encode index %d: %w", i, err)
		}
		buf.Write(value)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping key order.
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	obj, ok := v.(*Object)
	if !ok {
		return fmt.Errorf("document: expected Object, got %s", v.Kind())
	}
	*o = *obj
	return nil
}

// UnmarshalJSON decodes a JSON array.
func (a *Array) UnmarshalJSON(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	arr, ok := v.(*Array)
	if !ok {
		return fmt.Errorf("document: expected Array, got %s", v.Kind())
	}
	*a = *arr
	return nil
}

// Decode parses a single JSON value, preserving object key order and the
// exact text of numbers.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("document: decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("document: decode: unexpected data after top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch typed := tok.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(typed), nil
	case string:
		return String(typed), nil
	case json.Number:
		return ParseNumber(typed.String())
	case json.Delim:
		switch typed {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := NewArray()
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr.Append(v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// MustDecode is Decode that panics on malformed input. Intended for tests
// and literals.
func MustDecode(data string) Value {
	v, err := Decode([]byte(data))
	if err != nil {
		panic(err)
	}
	return v
}

// Parse decodes a JSON document.
func Parse(data []byte) (*Document, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return FromValue(v), nil
}

// MarshalJSON encodes the root value.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Root())
}

// UnmarshalJSON replaces the root with the decoded value.
func (d *Document) UnmarshalJSON(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	d.root = v
	return nil
}

// String renders the document as compact JSON.
func (d *Document) String() string {
	out, err := json.Marshal(d.Root())
	if err != nil {
		return fmt.Sprintf("<invalid document: %v>", err)
	}
	return string(out)
}

// Pretty renders the document as indented JSON.
func (d *Document) Pretty() string {
	out, err := json.MarshalIndent(d.Root(), "", "  ")
	if err != nil {
		return fmt.Sprintf("<invalid document: %v>", err)
	}
	return string(out)
}
