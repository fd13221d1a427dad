package inputs

import (
	"github.com/goliatone/go-formfill/pkg/document"
	"github.com/goliatone/go-formfill/pkg/fieldpath"
)

// Type is the discriminator stored under the "type" key of every input.
type Type string

const (
	TypeText    Type = "text"
	TypeBoolean Type = "boolean"
	TypeNumber  Type = "number"
	TypeGroup   Type = "group"
	TypeList    Type = "list"
)

// Info carries the attributes shared by every input. Key is relative to the
// enclosing group or list element.
type Info struct {
	Key         fieldpath.Path `json:"key" yaml:"key"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	VisibleIf   string         `json:"visible_if,omitempty" yaml:"visible_if,omitempty"`
}

// Meta returns the shared attributes.
func (i Info) Meta() Info { return i }

// Input is one entry of a scenario form.
type Input interface {
	Meta() Info
	Type() Type
}

// TextInput collects a free-form string.
type TextInput struct {
	Info          `yaml:",inline"`
	ValidateRegex string `json:"validate_regex,omitempty" yaml:"validate_regex,omitempty"`
}

// BooleanInput collects a checkbox value.
type BooleanInput struct {
	Info `yaml:",inline"`
}

// NumberInput collects a number within optional bounds.
type NumberInput struct {
	Info `yaml:",inline"`
	Min  *document.Number `json:"min,omitempty" yaml:"min,omitempty"`
	Max  *document.Number `json:"max,omitempty" yaml:"max,omitempty"`
	Step *document.Number `json:"step,omitempty" yaml:"step,omitempty"`
}

// GroupInput nests inputs under its key.
type GroupInput struct {
	Info              `yaml:",inline"`
	Inputs            List `json:"inputs" yaml:"inputs"`
	ShowDisableToggle bool `json:"show_disable_toggle,omitempty" yaml:"show_disable_toggle,omitempty"`
}

// ListInput repeats its inputs for each element of the array stored under
// its key. The number of elements is chosen by the user.
type ListInput struct {
	Info      `yaml:",inline"`
	Inputs    List    `json:"inputs" yaml:"inputs"`
	MinLength *uint64 `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength *uint64 `json:"max_length,omitempty" yaml:"max_length,omitempty"`
}

func (TextInput) Type() Type    { return TypeText }
func (BooleanInput) Type() Type { return TypeBoolean }
func (NumberInput) Type() Type  { return TypeNumber }
func (GroupInput) Type() Type   { return TypeGroup }
func (ListInput) Type() Type    { return TypeList }

// Scenario is a template plus the inputs that feed it.
type Scenario struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Template string `json:"template" yaml:"template"`
	Inputs   List   `json:"inputs" yaml:"inputs"`
}
