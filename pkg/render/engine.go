package render

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formfill/pkg/document"
)

// ErrNoTemplate is returned by Render before a template was set.
var ErrNoTemplate = errors.New("render: no template set")

// Renderer turns the document data into text using the scenario template.
type Renderer interface {
	SetTemplate(source string) error
	Render(data document.Value) (string, error)
}

// Option configures an Engine before construction.
type Option func(*config)

type config struct {
	files   fs.FS
	filters map[string]FilterFunc
	globals map[string]any
}

// FilterFunc is a template filter. param is nil when the filter is used
// without an argument.
type FilterFunc func(input any, param any) (any, error)

// WithFS sets the filesystem used to resolve {% include %} and
// {% extends %}. Defaults to the working directory.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithFilters registers filters when the engine is built.
func WithFilters(filters map[string]FilterFunc) Option {
	return func(cfg *config) {
		if len(filters) == 0 {
			return
		}
		if cfg.filters == nil {
			cfg.filters = make(map[string]FilterFunc, len(filters))
		}
		for name, fn := range filters {
			cfg.filters[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobals seeds values visible to every render. Document keys shadow
// globals of the same name.
func WithGlobals(globals map[string]any) Option {
	return func(cfg *config) {
		if len(globals) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(globals))
		}
		for key, value := range globals {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// Engine renders a single pongo2 template. The compiled template is cached
// until SetTemplate is called again.
type Engine struct {
	mu      sync.RWMutex
	set     *pongo2.TemplateSet
	tmpl    *pongo2.Template
	source  string
	globals pongo2.Context
}

var _ Renderer = (*Engine)(nil)

// New builds an Engine.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.files == nil {
		cfg.files = os.DirFS(".")
	}

	registerDefaultFilters()

	engine := &Engine{
		set:     pongo2.NewSet("formfill", pongo2.NewFSLoader(cfg.files)),
		globals: make(pongo2.Context, len(cfg.globals)),
	}
	for key, value := range cfg.globals {
		if key == "" {
			continue
		}
		engine.globals[key] = value
	}
	for name, fn := range cfg.filters {
		if err := engine.RegisterFilter(name, fn); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// SetTemplate compiles source. On failure the previous template stays in
// place.
func (e *Engine) SetTemplate(source string) error {
	tmpl, err := e.set.FromString(source)
	if err != nil {
		return fmt.Errorf("render: compile template: %w", err)
	}
	e.mu.Lock()
	e.tmpl = tmpl
	e.source = source
	e.mu.Unlock()
	return nil
}

// Source returns the template source last compiled.
func (e *Engine) Source() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.source
}

// Render executes the template with the document data. Object keys become
// top-level variables; the whole value is also available as "data".
func (e *Engine) Render(data document.Value) (string, error) {
	e.mu.RLock()
	tmpl := e.tmpl
	e.mu.RUnlock()
	if tmpl == nil {
		return "", ErrNoTemplate
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(e.context(data), &buf); err != nil {
		return "", fmt.Errorf("render: execute template: %w", err)
	}
	return buf.String(), nil
}

// RegisterFilter makes fn available to every template. pongo2 filters are
// process wide, so a filter with the same name is replaced.
func (e *Engine) RegisterFilter(name string, fn FilterFunc) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("render: filter name and function required")
	}
	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil && !param.IsNil() {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}
	filterMu.Lock()
	defer filterMu.Unlock()
	if pongo2.FilterExists(name) {
		return pongo2.ReplaceFilter(name, filter)
	}
	return pongo2.RegisterFilter(name, filter)
}

func (e *Engine) context(data document.Value) pongo2.Context {
	ctx := make(pongo2.Context, len(e.globals)+8)
	for key, value := range e.globals {
		ctx[key] = value
	}
	converted := toContextValue(data)
	if fields, ok := converted.(map[string]any); ok {
		for key, value := range fields {
			ctx[key] = value
		}
	}
	ctx["data"] = converted
	return ctx
}
