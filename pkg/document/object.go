package document

import "iter"

// Entry is one key/value pair of an Object.
type Entry struct {
	Key   string
	Value Value
}

// Object is a string-keyed mapping that remembers insertion order.
type Object struct {
	entries []Entry
	index   map[string]int
}

// NewObject builds an object from entries. Later duplicates overwrite the
// value of the first occurrence and keep its position.
func NewObject(entries ...Entry) *Object {
	o := &Object{}
	for _, e := range entries {
		o.Set(e.Key, e.Value)
	}
	return o
}

// Kind reports KindObject.
func (*Object) Kind() Kind { return KindObject }

// Len returns the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	slot, ok := o.slot(key)
	if !ok {
		return nil, false
	}
	return *slot, true
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.slot(key)
	return ok
}

// Set stores v under key. Existing keys keep their position.
func (o *Object) Set(key string, v Value) {
	v = normalize(v)
	if slot, ok := o.slot(key); ok {
		*slot = v
		return
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	o.index[key] = len(o.entries)
	o.entries = append(o.entries, Entry{Key: key, Value: v})
}

// GetOrCreate returns the value under key, inserting an empty object first
// when the key is missing.
func (o *Object) GetOrCreate(key string) Value {
	return *o.slotOrCreate(key)
}

// Delete removes key, returning the removed value. Remaining entries keep
// their relative order.
func (o *Object) Delete(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	idx, ok := o.index[key]
	if !ok {
		return nil, false
	}
	removed := o.entries[idx].Value
	o.entries = append(o.entries[:idx], o.entries[idx+1:]...)
	delete(o.index, key)
	for i := idx; i < len(o.entries); i++ {
		o.index[o.entries[i].Key] = i
	}
	return removed, true
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.entries))
	for i, e := range o.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the entries in insertion order.
func (o *Object) Entries() []Entry {
	if o == nil {
		return nil
	}
	return append([]Entry(nil), o.entries...)
}

// All iterates over the entries in insertion order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}
		for _, e := range o.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

func (o *Object) slot(key string) (*Value, bool) {
	if o == nil {
		return nil, false
	}
	idx, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return &o.entries[idx].Value, true
}

func (o *Object) slotOrCreate(key string) *Value {
	if slot, ok := o.slot(key); ok {
		return slot
	}
	o.Set(key, NewObject())
	return &o.entries[len(o.entries)-1].Value
}
