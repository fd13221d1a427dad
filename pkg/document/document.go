package document

import (
	"fmt"

	"github.com/goliatone/go-formfill/pkg/fieldpath"
)

// MaxArrayLen bounds how far InsertAt and ResizeArrayAt grow an array.
const MaxArrayLen = 1 << 20

var errIndexTooLarge = fmt.Errorf("index exceeds the maximum array length %d", MaxArrayLen)

// Document owns a single JSON value and edits it by dotted path. Writes
// create missing intermediate objects and grow arrays on demand.
//
// A Document is not safe for concurrent use; see Locked.
type Document struct {
	root Value
}

// New returns a document whose root is an empty object.
func New() *Document {
	return &Document{root: NewObject()}
}

// FromValue wraps an existing value, typically one just decoded.
func FromValue(v Value) *Document {
	return &Document{root: normalize(v)}
}

// Root returns the root value. Containers are returned by reference.
func (d *Document) Root() Value {
	d.ensureRoot()
	return d.root
}

// Ref is a mutable reference to one slot of the document. It stays valid
// until the container holding the slot is structurally modified.
type Ref struct {
	slot *Value
}

// Get returns the referenced value.
func (r *Ref) Get() Value {
	return *r.slot
}

// Set replaces the referenced value in place with a deep copy of v.
func (r *Ref) Set(v Value) {
	*r.slot = Clone(v)
}

// Kind returns the kind of the referenced value.
func (r *Ref) Kind() Kind {
	return (*r.slot).Kind()
}

// GetAt returns the value at p. The root path returns the whole root; an
// unknown key, an unparseable or out of range index, or a scalar in the
// middle of the path yields false.
func (d *Document) GetAt(p fieldpath.Path) (Value, bool) {
	slot, ok := d.lookup(p)
	if !ok {
		return nil, false
	}
	return *slot, true
}

// GetAtMut resolves p exactly like GetAt and returns a reference that can be
// used to replace the value in place.
func (d *Document) GetAtMut(p fieldpath.Path) (*Ref, bool) {
	slot, ok := d.lookup(p)
	if !ok {
		return nil, false
	}
	return &Ref{slot: slot}, true
}

// InsertAt writes v at p, creating empty objects for missing keys and
// padding arrays with empty objects up to the addressed index. Walking
// through a scalar or null is an ErrTypeMismatch; a non-numeric segment on
// an array is an ErrInvalidIndex, as is an index at or beyond MaxArrayLen.
// Containers created before a failing step are kept. v is deep-copied, so
// the caller keeps no reference into the document.
func (d *Document) InsertAt(p fieldpath.Path, v Value) error {
	return d.insertAt(OpInsert, p, Clone(v))
}

func (d *Document) insertAt(op string, p fieldpath.Path, v Value) error {
	d.ensureRoot()
	cur := &d.root
	for segment := range p.Segments() {
		switch node := (*cur).(type) {
		case *Object:
			cur = node.slotOrCreate(segment)
		case *Array:
			idx, err := fieldpath.ParseIndex(segment)
			if err != nil {
				return &PathError{Op: op, Path: p, Segment: segment, Kind: KindArray, Err: ErrInvalidIndex, Cause: err}
			}
			if idx >= MaxArrayLen {
				return &PathError{Op: op, Path: p, Segment: segment, Kind: KindArray, Err: ErrInvalidIndex, Cause: errIndexTooLarge}
			}
			if idx >= node.Len() {
				node.Resize(idx + 1)
			}
			cur = &node.items[idx]
		case Null, Bool, Number, String:
			return &PathError{Op: op, Path: p, Segment: segment, Kind: node.Kind(), Err: ErrTypeMismatch}
		default:
			return &PathError{Op: op, Path: p, Segment: segment, Kind: KindOf(node), Err: ErrTypeMismatch}
		}
	}
	*cur = v
	return nil
}

// ResizeArrayAt makes the value at p an array of exactly n elements. A
// missing or non-array value at p is first replaced by an empty array, which
// discards any scalar stored there. Growth pads with empty objects.
func (d *Document) ResizeArrayAt(p fieldpath.Path, n int) error {
	if n < 0 {
		return fmt.Errorf("document: resize at '%s': negative length %d", p, n)
	}
	if n > MaxArrayLen {
		return fmt.Errorf("document: resize at '%s': length %d exceeds %d", p, n, MaxArrayLen)
	}
	if slot, ok := d.lookup(p); ok {
		if arr, isArray := (*slot).(*Array); isArray {
			arr.Resize(n)
			return nil
		}
	}
	arr := NewArray()
	if err := d.insertAt(OpResize, p, arr); err != nil {
		return err
	}
	arr.Resize(n)
	return nil
}

// RemoveAt deletes the value at p and returns it. Removing the root returns
// the whole document and leaves an empty object behind. A missing key or an
// out of range index is not an error and reports false.
func (d *Document) RemoveAt(p fieldpath.Path) (Value, bool, error) {
	d.ensureRoot()
	base, last, ok := p.Split()
	if !ok {
		previous := d.root
		d.root = NewObject()
		return previous, true, nil
	}

	slot, found := d.lookup(base)
	if !found {
		return nil, false, &PathError{Op: OpRemove, Path: p, Base: base, Segment: last, Err: ErrMissingBase}
	}

	switch node := (*slot).(type) {
	case *Object:
		removed, ok := node.Delete(last)
		return removed, ok, nil
	case *Array:
		idx, err := fieldpath.ParseIndex(last)
		if err != nil {
			return nil, false, &PathError{Op: OpRemove, Path: p, Base: base, Segment: last, Kind: KindArray, Err: ErrInvalidIndex, Cause: err}
		}
		removed, ok := node.RemoveAt(idx)
		return removed, ok, nil
	case Null, Bool, Number, String:
		return nil, false, &PathError{Op: OpRemove, Path: p, Base: base, Segment: last, Kind: node.Kind(), Err: ErrTypeMismatch}
	default:
		return nil, false, &PathError{Op: OpRemove, Path: p, Base: base, Segment: last, Kind: KindOf(node), Err: ErrTypeMismatch}
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	return &Document{root: Clone(d.Root())}
}

// Equal reports whether both documents hold equal values.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return Equal(d.Root(), other.Root())
}

// ToAny converts the root into plain Go values for template and expression
// engines.
func (d *Document) ToAny() any {
	return ToAny(d.Root())
}

func (d *Document) lookup(p fieldpath.Path) (*Value, bool) {
	d.ensureRoot()
	cur := &d.root
	for segment := range p.Segments() {
		next, ok := childSlot(*cur, segment)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func childSlot(v Value, segment string) (*Value, bool) {
	switch node := v.(type) {
	case *Object:
		return node.slot(segment)
	case *Array:
		idx, err := fieldpath.ParseIndex(segment)
		if err != nil {
			return nil, false
		}
		return node.slot(idx)
	default:
		return nil, false
	}
}

func (d *Document) ensureRoot() {
	if d.root == nil {
		d.root = NewObject()
	}
}
