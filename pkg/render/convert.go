package render

import "github.com/goliatone/go-formfill/pkg/document"

// toContextValue converts document values for pongo2. Integers become int64
// so arithmetic and comparisons work; other numbers keep their document
// form so they print exactly as entered.
func toContextValue(v document.Value) any {
	switch typed := v.(type) {
	case nil, document.Null:
		return nil
	case document.Bool:
		return bool(typed)
	case document.String:
		return string(typed)
	case document.Number:
		if i, ok := typed.Int64(); ok {
			return i
		}
		return typed
	case *document.Array:
		out := make([]any, 0, typed.Len())
		for _, item := range typed.All() {
			out = append(out, toContextValue(item))
		}
		return out
	case *document.Object:
		out := make(map[string]any, typed.Len())
		for key, value := range typed.All() {
			out[key] = toContextValue(value)
		}
		return out
	default:
		return nil
	}
}
