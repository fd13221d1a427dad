package visibility

import (
	"github.com/goliatone/go-formfill/pkg/document"
	"github.com/goliatone/go-formfill/pkg/fieldpath"
)

// Evaluator decides whether the input at fieldPath is shown, given its
// visible_if rule and the values entered so far. An empty rule is visible.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the document data in
// plain Go form while Extras lets callers inject anything else, such as
// environment flags.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// Always shows every input.
var Always Evaluator = EvaluatorFunc(func(string, string, Context) (bool, error) {
	return true, nil
})

// FromDocument builds a Context from the document root. A root that is not
// an object is exposed under the "root" key.
func FromDocument(doc *document.Document, extras map[string]any) Context {
	ctx := Context{Extras: extras}
	if doc == nil {
		ctx.Values = map[string]any{}
		return ctx
	}
	switch root := doc.ToAny().(type) {
	case map[string]any:
		ctx.Values = root
	default:
		ctx.Values = map[string]any{"root": root}
	}
	return ctx
}

// Lookup resolves a dotted path against plain Go values produced by
// document.ToAny. It reports false when the path does not resolve.
func Lookup(values map[string]any, path string) (any, bool) {
	var cur any = values
	for segment := range fieldpath.New(path).Segments() {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := fieldpath.ParseIndex(segment)
			if err != nil || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}
