package document

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
)

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch typed := normalize(v).(type) {
	case *Object:
		out := &Object{
			entries: make([]Entry, len(typed.entries)),
			index:   make(map[string]int, len(typed.entries)),
		}
		for i, e := range typed.entries {
			out.entries[i] = Entry{Key: e.Key, Value: Clone(e.Value)}
			out.index[e.Key] = i
		}
		return out
	case *Array:
		out := &Array{items: make([]Value, len(typed.items))}
		for i, item := range typed.items {
			out.items[i] = Clone(item)
		}
		return out
	default:
		return typed
	}
}

// Equal reports deep equality. Object key order is ignored and numbers
// compare by value, so 1 and 1.0 are equal.
func Equal(a, b Value) bool {
	a, b = normalize(a), normalize(b)
	if a.Kind() != b.Kind() {
		return false
	}
	switch left := a.(type) {
	case Null:
		return true
	case Bool:
		return left == b.(Bool)
	case String:
		return left == b.(String)
	case Number:
		return numbersEqual(left, b.(Number))
	case *Array:
		right := b.(*Array)
		if left.Len() != right.Len() {
			return false
		}
		for i := range left.items {
			if !Equal(left.items[i], right.items[i]) {
				return false
			}
		}
		return true
	case *Object:
		right := b.(*Object)
		if left.Len() != right.Len() {
			return false
		}
		for _, e := range left.entries {
			other, ok := right.Get(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func numbersEqual(a, b Number) bool {
	if a.String() == b.String() {
		return true
	}
	if ai, ok := a.Int64(); ok {
		if bi, ok := b.Int64(); ok {
			return ai == bi
		}
	}
	return a.Float64() == b.Float64()
}

// ToAny converts v into plain Go values: map[string]any, []any, int64 or
// float64, string, bool and nil. Object key order is not preserved.
func ToAny(v Value) any {
	switch typed := normalize(v).(type) {
	case Null:
		return nil
	case Bool:
		return bool(typed)
	case String:
		return string(typed)
	case Number:
		if i, ok := typed.Int64(); ok {
			return i
		}
		return typed.Float64()
	case *Array:
		out := make([]any, len(typed.items))
		for i, item := range typed.items {
			out[i] = ToAny(item)
		}
		return out
	case *Object:
		out := make(map[string]any, len(typed.entries))
		for _, e := range typed.entries {
			out[e.Key] = ToAny(e.Value)
		}
		return out
	default:
		return nil
	}
}

// FromAny converts plain Go values into a Value. Maps must be keyed by
// strings; their keys are sorted since Go maps carry no order.
func FromAny(in any) (Value, error) {
	switch typed := in.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return normalize(typed), nil
	case *Document:
		return Clone(typed.Root()), nil
	case bool:
		return Bool(typed), nil
	case string:
		return String(typed), nil
	case json.Number:
		return ParseNumber(typed.String())
	case int:
		return Int(int64(typed)), nil
	case int8:
		return Int(int64(typed)), nil
	case int16:
		return Int(int64(typed)), nil
	case int32:
		return Int(int64(typed)), nil
	case int64:
		return Int(typed), nil
	case uint:
		return Uint(uint64(typed)), nil
	case uint8:
		return Uint(uint64(typed)), nil
	case uint16:
		return Uint(uint64(typed)), nil
	case uint32:
		return Uint(uint64(typed)), nil
	case uint64:
		return Uint(typed), nil
	case float32:
		return Float(float64(typed))
	case float64:
		return Float(typed)
	case []any:
		arr := &Array{items: make([]Value, 0, len(typed))}
		for i, item := range typed {
			v, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("document: index %d: %w", i, err)
			}
			arr.items = append(arr.items, v)
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, key := range keys {
			v, err := FromAny(typed[key])
			if err != nil {
				return nil, fmt.Errorf("document: key %q: %w", key, err)
			}
			obj.Set(key, v)
		}
		return obj, nil
	}
	return fromReflect(reflect.ValueOf(in))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return FromAny(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return NewArray(), nil
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return FromAny(items)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("document: unsupported map key type %s", rv.Type().Key())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return FromAny(m)
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %v is not representable in JSON", ErrInvalidNumber, f)
		}
		return Float(f)
	default:
		return nil, fmt.Errorf("document: unsupported type %T", rv.Interface())
	}
}

// MustFromAny is FromAny that panics on unsupported input.
func MustFromAny(in any) Value {
	v, err := FromAny(in)
	if err != nil {
		panic(err)
	}
	return v
}
