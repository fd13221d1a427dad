package document

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formfill/pkg/fieldpath"
)

var (
	// ErrInvalidIndex reports a segment that had to address an array but is
	// not a non-negative integer.
	ErrInvalidIndex = errors.New("document: invalid array index")
	// ErrTypeMismatch reports an attempt to descend through, or remove from,
	// a scalar or null value.
	ErrTypeMismatch = errors.New("document: type mismatch")
	// ErrMissingBase reports a removal whose parent path resolves to nothing.
	ErrMissingBase = errors.New("document: missing base")
)

// Operation names carried by PathError.
const (
	OpInsert = "insert"
	OpResize = "resize"
	OpRemove = "remove"
)

// PathError describes why a write to the document failed. Err is one of the
// sentinel errors above; Cause holds the index parse failure, when any.
type PathError struct {
	Op      string
	Path    fieldpath.Path
	Base    fieldpath.Path
	Segment string
	Kind    Kind
	Err     error
	Cause   error
}

func (e *PathError) Error() string {
	var msg string
	switch {
	case e.Op == OpRemove && errors.Is(e.Err, ErrInvalidIndex):
		msg = fmt.Sprintf("invalid key: '%s' not found in array '%s'", e.Segment, e.Base)
	case e.Op == OpRemove && errors.Is(e.Err, ErrTypeMismatch):
		msg = fmt.Sprintf("cannot remove from %s at '%s'", e.Kind, e.Base)
	case e.Op == OpRemove && errors.Is(e.Err, ErrMissingBase):
		msg = fmt.Sprintf("invalid key: nothing at '%s'", e.Base)
	case errors.Is(e.Err, ErrInvalidIndex):
		msg = fmt.Sprintf("%s at '%s': key %q is invalid, the index is ill-formed for array access", e.Op, e.Path, e.Segment)
	case errors.Is(e.Err, ErrTypeMismatch):
		msg = fmt.Sprintf("%s at '%s': failed to insert data, the data is ill-formed at segment: %s (found %s)", e.Op, e.Path, e.Segment, e.Kind)
	default:
		msg = fmt.Sprintf("%s at '%s': %v", e.Op, e.Path, e.Err)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return "document: " + msg
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *PathError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Err != nil {
		out = append(out, e.Err)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}
