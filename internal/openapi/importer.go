package openapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formfill/internal/ctxlog"
	"github.com/goliatone/go-formfill/pkg/document"
	"github.com/goliatone/go-formfill/pkg/fieldpath"
	"github.com/goliatone/go-formfill/pkg/inputs"
)

// ErrSchemaNotFound is returned when the requested component schema does
// not exist.
var ErrSchemaNotFound = errors.New("openapi: schema not found")

// DefaultTemplate is the template given to imported scenarios. It prints the
// collected data as JSON.
const DefaultTemplate = "{{ data|tojson }}\n"

// Option configures an import.
type Option func(*config)

type config struct {
	externalRefs bool
}

// WithExternalRefs lets the loader follow $ref pointers to other files.
func WithExternalRefs(allowed bool) Option {
	return func(cfg *config) {
		cfg.externalRefs = allowed
	}
}

// SchemaNames lists the component schemas of an OpenAPI document, sorted.
func SchemaNames(ctx context.Context, raw []byte, options ...Option) ([]string, error) {
	spec, err := load(ctx, raw, options)
	if err != nil {
		return nil, err
	}
	if spec.Components == nil {
		return nil, nil
	}
	names := make([]string, 0, len(spec.Components.Schemas))
	for name := range spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Inputs converts the properties of a component schema into form inputs.
// Properties are ordered by name. Strings become text inputs, booleans
// checkboxes, integers and numbers number inputs, objects groups and arrays
// lists.
func Inputs(ctx context.Context, raw []byte, schemaName string, options ...Option) (inputs.List, error) {
	spec, err := load(ctx, raw, options)
	if err != nil {
		return nil, err
	}
	if spec.Components == nil {
		return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, schemaName)
	}
	ref, ok := spec.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, schemaName)
	}

	conv := converter{ctx: ctx, visiting: make(map[*openapi3.Schema]bool)}
	return conv.properties(ref.Value), nil
}

// Scenario wraps Inputs into a scenario named after the schema.
func Scenario(ctx context.Context, raw []byte, schemaName string, options ...Option) (*inputs.Scenario, error) {
	list, err := Inputs(ctx, raw, schemaName, options...)
	if err != nil {
		return nil, err
	}
	scenario := &inputs.Scenario{
		Name:     schemaName,
		Template: DefaultTemplate,
		Inputs:   list,
	}
	if err := inputs.Check(scenario.Inputs); err != nil {
		return nil, fmt.Errorf("openapi: schema %q: %w", schemaName, err)
	}
	return scenario, nil
}

func load(ctx context.Context, raw []byte, options []Option) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	cfg := config{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: cfg.externalRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return spec, nil
}

type converter struct {
	ctx      context.Context
	visiting map[*openapi3.Schema]bool
}

// properties converts the properties of schema, including those pulled in
// through allOf. Recursive references are cut at the second visit.
func (c converter) properties(schema *openapi3.Schema) inputs.List {
	if c.visiting[schema] {
		return nil
	}
	c.visiting[schema] = true
	defer delete(c.visiting, schema)

	props := collectProperties(schema)
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(inputs.List, 0, len(names))
	for _, name := range names {
		if strings.Contains(name, ".") {
			ctxlog.FromContext(c.ctx).Warn("skipping property with a dot in its name", "property", name)
			continue
		}
		ref := props[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		if in := c.input(name, ref.Value); in != nil {
			out = append(out, in)
		}
	}
	return out
}

func collectProperties(schema *openapi3.Schema) openapi3.Schemas {
	out := make(openapi3.Schemas, len(schema.Properties))
	for _, part := range schema.AllOf {
		if part == nil || part.Value == nil {
			continue
		}
		for name, ref := range collectProperties(part.Value) {
			out[name] = ref
		}
	}
	for name, ref := range schema.Properties {
		out[name] = ref
	}
	return out
}

func (c converter) input(name string, schema *openapi3.Schema) inputs.Input {
	info := inputs.Info{
		Key:         fieldpath.New(name),
		Name:        label(name, schema.Title),
		Description: inputs.StripMarkup(schema.Description),
	}

	switch schemaType(schema) {
	case openapi3.TypeBoolean:
		return inputs.BooleanInput{Info: info}
	case openapi3.TypeInteger:
		return numberInput(info, schema, true)
	case openapi3.TypeNumber:
		return numberInput(info, schema, false)
	case openapi3.TypeObject:
		if c.visiting[schema] {
			ctxlog.FromContext(c.ctx).Debug("skipping recursive property", "property", name)
			return nil
		}
		return inputs.GroupInput{Info: info, Inputs: c.properties(schema)}
	case openapi3.TypeArray:
		return c.listInput(info, schema)
	default:
		return textInput(info, schema)
	}
}

func (c converter) listInput(info inputs.Info, schema *openapi3.Schema) inputs.Input {
	list := inputs.ListInput{Info: info}
	if schema.MinItems > 0 {
		minItems := schema.MinItems
		list.MinLength = &minItems
	}
	if schema.MaxItems != nil {
		maxItems := *schema.MaxItems
		list.MaxLength = &maxItems
	}
	if schema.Items == nil || schema.Items.Value == nil {
		list.Inputs = inputs.List{inputs.TextInput{Info: inputs.Info{Key: fieldpath.New("value"), Name: "Value"}}}
		return list
	}
	items := schema.Items.Value
	if schemaType(items) == openapi3.TypeObject {
		list.Inputs = c.properties(items)
		return list
	}
	if item := c.input("value", items); item != nil {
		list.Inputs = inputs.List{item}
	}
	return list
}

func textInput(info inputs.Info, schema *openapi3.Schema) inputs.Input {
	in := inputs.TextInput{Info: info, ValidateRegex: schema.Pattern}
	if in.ValidateRegex == "" && len(schema.Enum) > 0 {
		in.ValidateRegex = enumPattern(schema.Enum)
	}
	return in
}

func numberInput(info inputs.Info, schema *openapi3.Schema, integer bool) inputs.Input {
	in := inputs.NumberInput{Info: info}
	in.Min = bound(schema.Min, integer)
	in.Max = bound(schema.Max, integer)
	switch {
	case schema.MultipleOf != nil:
		in.Step = bound(schema.MultipleOf, integer)
	case integer:
		step := document.Int(1)
		in.Step = &step
	}
	return in
}

func bound(value *float64, integer bool) *document.Number {
	if value == nil {
		return nil
	}
	if integer || *value == math.Trunc(*value) && math.Abs(*value) < 1<<53 {
		n := document.Int(int64(*value))
		return &n
	}
	n, err := document.Float(*value)
	if err != nil {
		return nil
	}
	return &n
}

// schemaType returns the first non-null type. Untyped schemas with
// properties are treated as objects.
func schemaType(schema *openapi3.Schema) string {
	if schema.Type != nil {
		for _, t := range schema.Type.Slice() {
			if t != "null" {
				return t
			}
		}
	}
	switch {
	case len(schema.Properties) > 0 || len(schema.AllOf) > 0:
		return openapi3.TypeObject
	case schema.Items != nil:
		return openapi3.TypeArray
	default:
		return openapi3.TypeString
	}
}

func enumPattern(values []any) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		str, ok := value.(string)
		if !ok {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(str))
	}
	return strings.Join(parts, "|")
}

// label prefers the schema title, then turns snake or camel case names into
// words.
func label(name, title string) string {
	if title = strings.TrimSpace(title); title != "" {
		return title
	}
	var b strings.Builder
	prevLower := false
	for i, r := range name {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			b.WriteRune(' ')
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		} else {
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
	}
	return b.String()
}
