package inputs

import "github.com/goliatone/go-formfill/pkg/document"

// DisplayValue renders a stored value for a text field: null is empty,
// strings are shown as is and containers as compact JSON.
func DisplayValue(v document.Value) string {
	switch typed := v.(type) {
	case nil, document.Null:
		return ""
	case document.Bool:
		if typed {
			return "true"
		}
		return "false"
	case document.Number:
		return typed.String()
	case document.String:
		return string(typed)
	default:
		return document.FromValue(typed).String()
	}
}

// NumberDisplay renders a stored value for a number field. Anything other
// than a number or a string shows as empty.
func NumberDisplay(v document.Value) string {
	switch typed := v.(type) {
	case document.Number:
		return typed.String()
	case document.String:
		return string(typed)
	default:
		return ""
	}
}

// ParseNumberInput converts what the user typed into a number field: empty
// text clears the value, a number literal is stored as a number and
// anything else is kept verbatim as a string.
func ParseNumberInput(text string) document.Value {
	if text == "" {
		return document.Null{}
	}
	n, err := document.ParseNumber(text)
	if err != nil {
		return document.String(text)
	}
	return n
}

// Checked coerces a stored value to a checkbox state. Non-zero numbers, the
// string "true" and any container count as checked.
func Checked(v document.Value) bool {
	switch typed := v.(type) {
	case nil, document.Null:
		return false
	case document.Bool:
		return bool(typed)
	case document.Number:
		return typed.Float64() != 0
	case document.String:
		return typed == "true"
	default:
		return true
	}
}

// ArrayLen returns the length of the array stored in v, or zero.
func ArrayLen(v document.Value) int {
	if arr, ok := v.(*document.Array); ok {
		return arr.Len()
	}
	return 0
}
