package document

import (
	"sync"

	"github.com/goliatone/go-formfill/pkg/fieldpath"
)

// Locked serializes access to a Document for hosts that share one between
// goroutines. Each call holds the lock for the whole operation, so partial
// auto-vivification from two writers never interleaves.
type Locked struct {
	mu  sync.Mutex
	doc *Document
}

// NewLocked guards doc. A nil doc starts empty.
func NewLocked(doc *Document) *Locked {
	if doc == nil {
		doc = New()
	}
	return &Locked{doc: doc}
}

// GetAt returns a deep copy of the value at p.
func (l *Locked) GetAt(p fieldpath.Path) (Value, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.doc.GetAt(p)
	if !ok {
		return nil, false
	}
	return Clone(v), true
}

// InsertAt calls Document.InsertAt under the lock.
func (l *Locked) InsertAt(p fieldpath.Path, v Value) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.InsertAt(p, v)
}

// ResizeArrayAt calls Document.ResizeArrayAt under the lock.
func (l *Locked) ResizeArrayAt(p fieldpath.Path, n int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.ResizeArrayAt(p, n)
}

// RemoveAt calls Document.RemoveAt under the lock.
func (l *Locked) RemoveAt(p fieldpath.Path) (Value, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.RemoveAt(p)
}

// View runs fn with exclusive access to the document. fn must not retain
// references into the document after it returns.
func (l *Locked) View(fn func(*Document) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.doc)
}

// Snapshot returns a deep copy of the guarded document.
func (l *Locked) Snapshot() *Document {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Clone()
}
