package document

import "iter"

// Array is an ordered list of values.
type Array struct {
	items []Value
}

// NewArray builds an array holding items.
func NewArray(items ...Value) *Array {
	a := &Array{items: make([]Value, 0, len(items))}
	a.Append(items...)
	return a
}

// Kind reports KindArray.
func (*Array) Kind() Kind { return KindArray }

// Len returns the number of elements.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// At returns the element at i.
func (a *Array) At(i int) (Value, bool) {
	slot, ok := a.slot(i)
	if !ok {
		return nil, false
	}
	return *slot, true
}

// Set replaces the element at i. It reports false when i is out of range.
func (a *Array) Set(i int, v Value) bool {
	slot, ok := a.slot(i)
	if !ok {
		return false
	}
	*slot = normalize(v)
	return true
}

// Append adds values at the end.
func (a *Array) Append(values ...Value) {
	for _, v := range values {
		a.items = append(a.items, normalize(v))
	}
}

// Resize truncates the array to n elements or pads it with empty objects.
func (a *Array) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(a.items) {
		clear(a.items[n:])
		a.items = a.items[:n]
		return
	}
	for len(a.items) < n {
		a.items = append(a.items, NewObject())
	}
}

// RemoveAt deletes the element at i and shifts the following ones down.
func (a *Array) RemoveAt(i int) (Value, bool) {
	if i < 0 || i >= a.Len() {
		return nil, false
	}
	removed := a.items[i]
	last := len(a.items) - 1
	copy(a.items[i:], a.items[i+1:])
	a.items[last] = nil
	a.items = a.items[:last]
	return removed, true
}

// Items returns a copy of the elements.
func (a *Array) Items() []Value {
	if a == nil {
		return nil
	}
	return append([]Value(nil), a.items...)
}

// All iterates over the elements in order.
func (a *Array) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		if a == nil {
			return
		}
		for i, v := range a.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

func (a *Array) slot(i int) (*Value, bool) {
	if a == nil || i < 0 || i >= len(a.items) {
		return nil, false
	}
	return &a.items[i], true
}
