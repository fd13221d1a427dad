package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the variant name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IsContainer reports whether values of this kind hold children.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindObject
}

// Value is one node of the JSON data model. The set of implementations is
// closed: Null, Bool, Number, String, *Array and *Object.
type Value interface {
	Kind() Kind
	isValue()
}

// Null is the JSON null.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// String is a JSON string.
type String string

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (String) Kind() Kind { return KindString }
func (Number) Kind() Kind { return KindNumber }

func (Null) isValue()    {}
func (Bool) isValue()    {}
func (String) isValue()  {}
func (Number) isValue()  {}
func (*Array) isValue()  {}
func (*Object) isValue() {}

// MarshalJSON encodes null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// ErrInvalidNumber reports text that is not a JSON number literal or a float
// that JSON cannot represent.
var ErrInvalidNumber = errors.New("document: invalid number")

// Number is a JSON number kept in its textual form so integers and floats
// render exactly as they were written. The zero value is 0.
type Number struct {
	text string
}

// Int returns an integer Number.
func Int(i int64) Number {
	return Number{text: strconv.FormatInt(i, 10)}
}

// Uint returns an unsigned integer Number.
func Uint(u uint64) Number {
	return Number{text: strconv.FormatUint(u, 10)}
}

// Float returns a floating point Number. Integral values keep a trailing
// ".0" so they stay floats when rendered. NaN and infinities are rejected.
func Float(f float64) (Number, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}, fmt.Errorf("%w: %v is not representable in JSON", ErrInvalidNumber, f)
	}
	text := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(text, ".eE") {
		text += ".0"
	}
	return Number{text: text}, nil
}

// MustFloat is Float that panics on NaN or infinities.
func MustFloat(f float64) Number {
	n, err := Float(f)
	if err != nil {
		panic(err)
	}
	return n
}

// ParseNumber validates text as a JSON number literal.
func ParseNumber(text string) (Number, error) {
	if text == "" || !(text[0] == '-' || (text[0] >= '0' && text[0] <= '9')) || !json.Valid([]byte(text)) {
		return Number{}, fmt.Errorf("%w: %q", ErrInvalidNumber, text)
	}
	return Number{text: text}, nil
}

// String returns the textual representation.
func (n Number) String() string {
	if n.text == "" {
		return "0"
	}
	return n.text
}

// IsInteger reports whether the number was written without a fraction or
// exponent.
func (n Number) IsInteger() bool {
	return !strings.ContainsAny(n.text, ".eE")
}

// Int64 returns the integer value when the number is an integer that fits.
func (n Number) Int64() (int64, bool) {
	if !n.IsInteger() {
		return 0, false
	}
	i, err := strconv.ParseInt(n.String(), 10, 64)
	return i, err == nil
}

// Float64 returns the number as a float.
func (n Number) Float64() float64 {
	f, _ := strconv.ParseFloat(n.String(), 64)
	return f
}

// MarshalJSON writes the number literal.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalJSON accepts a JSON number literal.
func (n *Number) UnmarshalJSON(data []byte) error {
	parsed, err := ParseNumber(strings.TrimSpace(string(data)))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

func normalize(v Value) Value {
	switch typed := v.(type) {
	case nil:
		return Null{}
	case *Object:
		if typed == nil {
			return NewObject()
		}
	case *Array:
		if typed == nil {
			return NewArray()
		}
	}
	return v
}

// KindOf returns the kind of v, treating a nil interface as Null.
func KindOf(v Value) Kind {
	return normalize(v).Kind()
}
