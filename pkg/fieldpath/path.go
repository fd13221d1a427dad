// Package fieldpath implements the dotted addresses used to read and write
// values inside a document. A Path keeps the text it was built from and only
// splits it into segments when iterated, so "a.b", ".a.b" and "a..b." all
// address the same location while still printing back verbatim.
//
// Segments cannot contain a literal '.': there is no escaping syntax.
package fieldpath

import (
	"iter"
	"strconv"
	"strings"
)

// Separator joins path segments in the textual form.
const Separator = "."

// Path is an immutable dotted address. The zero value is the root path.
type Path struct {
	text string
}

// New builds a Path from its textual form without parsing it.
func New(text string) Path {
	return Path{text: text}
}

// Root returns the empty path addressing the whole document.
func Root() Path {
	return Path{}
}

// Index returns a single-segment path addressing an array element.
func Index(i int) Path {
	return Path{text: strconv.Itoa(i)}
}

// FromSegments joins the provided segments with the separator.
func FromSegments(segments ...string) Path {
	return Path{text: strings.Join(segments, Separator)}
}

// Segments yields the non-empty segments of the path in order. The sequence
// is recomputed on every call.
func (p Path) Segments() iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := p.text
		for rest != "" {
			segment := rest
			if idx := strings.Index(rest, Separator); idx >= 0 {
				segment, rest = rest[:idx], rest[idx+len(Separator):]
			} else {
				rest = ""
			}
			if segment == "" {
				continue
			}
			if !yield(segment) {
				return
			}
		}
	}
}

// SegmentList collects Segments into a slice.
func (p Path) SegmentList() []string {
	var out []string
	for segment := range p.Segments() {
		out = append(out, segment)
	}
	return out
}

// Len reports the number of segments.
func (p Path) Len() int {
	n := 0
	for range p.Segments() {
		n++
	}
	return n
}

// IsRoot reports whether the path has no segments.
func (p Path) IsRoot() bool {
	for range p.Segments() {
		return false
	}
	return true
}

// Join appends child after p. A separator is inserted only when both sides
// have text, so joining with the root path returns the other side unchanged.
func (p Path) Join(child Path) Path {
	switch {
	case p.text == "":
		return child
	case child.text == "":
		return p
	default:
		return Path{text: p.text + Separator + child.text}
	}
}

// Child is shorthand for p.Join(New(segment)).
func (p Path) Child(segment string) Path {
	return p.Join(New(segment))
}

// Element is shorthand for p.Join(Index(i)).
func (p Path) Element(i int) Path {
	return p.Join(Index(i))
}

// Split separates the final segment from the rest of the path. ok is false
// for the root path.
func (p Path) Split() (base Path, last string, ok bool) {
	segments := p.SegmentList()
	if len(segments) == 0 {
		return Path{}, "", false
	}
	last = segments[len(segments)-1]
	return FromSegments(segments[:len(segments)-1]...), last, true
}

// Equal compares the segment sequences of two paths.
func (p Path) Equal(other Path) bool {
	next, stop := iter.Pull(other.Segments())
	defer stop()
	for segment := range p.Segments() {
		o, ok := next()
		if !ok || o != segment {
			return false
		}
	}
	_, more := next()
	return !more
}

// String returns the text the path was built from.
func (p Path) String() string {
	return p.text
}

// MarshalText encodes the path as its plain text.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.text), nil
}

// UnmarshalText stores the text verbatim.
func (p *Path) UnmarshalText(text []byte) error {
	p.text = string(text)
	return nil
}

// ParseIndex interprets a segment as a non-negative base-10 array index.
func ParseIndex(segment string) (int, error) {
	idx, err := strconv.ParseUint(segment, 10, strconv.IntSize-1)
	if err != nil {
		return 0, err
	}
	return int(idx), nil
}
