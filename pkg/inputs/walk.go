package inputs

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formfill/pkg/document"
	"github.com/goliatone/go-formfill/pkg/fieldpath"
	"github.com/goliatone/go-formfill/pkg/visibility"
)

// SkipChildren can be returned by a Visitor on a group or list to skip the
// inputs nested in it.
var SkipChildren = errors.New("inputs: skip children")

// Visitor is called with the absolute document path of each input.
type Visitor func(path fieldpath.Path, in Input) error

type walkConfig struct {
	evaluator visibility.Evaluator
	extras    map[string]any
}

// WalkOption customises Walk.
type WalkOption func(*walkConfig)

// WithVisibility skips inputs whose visible_if rule evaluates to false.
func WithVisibility(evaluator visibility.Evaluator, extras map[string]any) WalkOption {
	return func(cfg *walkConfig) {
		cfg.evaluator = evaluator
		cfg.extras = extras
	}
}

// Walk visits every input depth first. Group children live under the group
// path; list children are visited once per element currently stored in doc,
// under "<list path>.<index>". A nil doc has no list elements.
func Walk(list List, doc *document.Document, visit Visitor, opts ...WalkOption) error {
	var cfg walkConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	w := walker{cfg: cfg, doc: doc, visit: visit}
	if cfg.evaluator != nil {
		w.ctx = visibility.FromDocument(doc, cfg.extras)
	}
	return w.walk(list, fieldpath.Root())
}

type walker struct {
	cfg   walkConfig
	doc   *document.Document
	ctx   visibility.Context
	visit Visitor
}

func (w walker) walk(list List, base fieldpath.Path) error {
	for _, in := range list {
		if in == nil {
			continue
		}
		info := in.Meta()
		path := base.Join(info.Key)

		if w.cfg.evaluator != nil {
			visible, err := w.cfg.evaluator.Eval(path.String(), info.VisibleIf, w.ctx)
			if err != nil {
				return fmt.Errorf("inputs: visibility of %q: %w", path, err)
			}
			if !visible {
				continue
			}
		}

		err := w.visit(path, in)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}

		switch typed := in.(type) {
		case GroupInput:
			if err := w.walk(typed.Inputs, path); err != nil {
				return err
			}
		case ListInput:
			for i := 0; i < w.length(path); i++ {
				if err := w.walk(typed.Inputs, path.Element(i)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w walker) length(path fieldpath.Path) int {
	if w.doc == nil {
		return 0
	}
	v, _ := w.doc.GetAt(path)
	return ArrayLen(v)
}

// Find returns the input addressed by path, expanding list elements against
// doc.
func Find(list List, doc *document.Document, path fieldpath.Path) (Input, bool) {
	errFound := errors.New("found")
	var match Input
	err := Walk(list, doc, func(p fieldpath.Path, in Input) error {
		if p.Equal(path) {
			match = in
			return errFound
		}
		return nil
	})
	return match, errors.Is(err, errFound)
}
