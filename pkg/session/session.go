package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formfill/internal/ctxlog"
	"github.com/goliatone/go-formfill/pkg/document"
	"github.com/goliatone/go-formfill/pkg/fieldpath"
	"github.com/goliatone/go-formfill/pkg/inputs"
	"github.com/goliatone/go-formfill/pkg/visibility"
)

var (
	// ErrAborted signals the user interrupted the session (Ctrl+C).
	ErrAborted = errors.New("session: aborted")
	// ErrNoScenario is returned when the editor has no scenario loaded.
	ErrNoScenario = errors.New("session: no scenario")
)

// Editor applies edits to the document. Implementations persist, re-render
// and report the outcome of each edit; a returned error means the edit did
// not take effect.
type Editor interface {
	Document() *document.Document
	Scenario() *inputs.Scenario
	Edit(ctx context.Context, path fieldpath.Path, value document.Value) error
	Resize(ctx context.Context, path fieldpath.Path, n int) error
	Remove(ctx context.Context, path fieldpath.Path) error
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithEvaluator sets how visible_if rules are resolved. Passing nil shows
// every input.
func WithEvaluator(evaluator visibility.Evaluator, extras map[string]any) Option {
	return func(s *Session) {
		s.evaluator = evaluator
		s.extras = extras
	}
}

// Session walks the scenario inputs and prompts for each of them.
type Session struct {
	editor    Editor
	driver    PromptDriver
	evaluator visibility.Evaluator
	extras    map[string]any
}

// New builds a session over editor. Without options it prompts on the
// terminal and shows every input.
func New(editor Editor, options ...Option) (*Session, error) {
	if editor == nil {
		return nil, errors.New("session: editor is nil")
	}
	s := &Session{editor: editor}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s, nil
}

// Run prompts for every visible input in scenario order.
func (s *Session) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("session: context is required")
	}
	scenario := s.editor.Scenario()
	if scenario == nil {
		return ErrNoScenario
	}
	return s.promptList(ctx, scenario.Inputs, fieldpath.Root())
}

func (s *Session) promptList(ctx context.Context, list inputs.List, base fieldpath.Path) error {
	for _, in := range list {
		if err := ctx.Err(); err != nil {
			return err
		}
		if in == nil {
			continue
		}
		path := base.Join(in.Meta().Key)
		visible, err := s.visible(path, in)
		if err != nil {
			return err
		}
		if !visible {
			ctxlog.FromContext(ctx).Debug("input hidden", "path", path.String())
			continue
		}
		if err := s.promptInput(ctx, in, path); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) visible(path fieldpath.Path, in inputs.Input) (bool, error) {
	if s.evaluator == nil || in.Meta().VisibleIf == "" {
		return true, nil
	}
	ctx := visibility.FromDocument(s.editor.Document(), s.extras)
	ok, err := s.evaluator.Eval(path.String(), in.Meta().VisibleIf, ctx)
	if err != nil {
		return false, fmt.Errorf("session: visibility of %q: %w", path, err)
	}
	return ok, nil
}

func (s *Session) promptInput(ctx context.Context, in inputs.Input, path fieldpath.Path) error {
	switch typed := in.(type) {
	case inputs.TextInput:
		return s.promptText(ctx, typed, path)
	case inputs.NumberInput:
		return s.promptNumber(ctx, typed, path)
	case inputs.BooleanInput:
		return s.promptBoolean(ctx, typed, path)
	case inputs.GroupInput:
		return s.promptGroup(ctx, typed, path)
	case inputs.ListInput:
		return s.promptListInput(ctx, typed, path)
	default:
		return fmt.Errorf("session: unsupported input %T at %q", in, path)
	}
}

func (s *Session) current(path fieldpath.Path) document.Value {
	v, _ := s.editor.Document().GetAt(path)
	return v
}

func (s *Session) promptText(ctx context.Context, in inputs.TextInput, path fieldpath.Path) error {
	defaultVal := inputs.DisplayValue(s.current(path))
	for {
		resp, err := s.driver.Input(ctx, InputConfig{
			Message: label(in.Meta()),
			Default: defaultVal,
			Help:    in.Description,
		})
		if err != nil {
			return err
		}
		if err := in.Validate(resp); err != nil {
			_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", path, err))
			continue
		}
		s.apply(ctx, s.editor.Edit(ctx, path, document.String(resp)))
		return nil
	}
}

func (s *Session) promptNumber(ctx context.Context, in inputs.NumberInput, path fieldpath.Path) error {
	defaultVal := inputs.NumberDisplay(s.current(path))
	for {
		resp, err := s.driver.Input(ctx, InputConfig{
			Message: label(in.Meta()),
			Default: defaultVal,
			Help:    numberHelp(in),
		})
		if err != nil {
			return err
		}
		value := inputs.ParseNumberInput(resp)
		switch typed := value.(type) {
		case document.Number:
			if err := in.Validate(typed); err != nil {
				_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", path, err))
				continue
			}
		case document.String:
			_ = s.driver.Info(ctx, fmt.Sprintf("%s: %q is not a number, stored as text", path, resp))
		}
		s.apply(ctx, s.editor.Edit(ctx, path, value))
		return nil
	}
}

func (s *Session) promptBoolean(ctx context.Context, in inputs.BooleanInput, path fieldpath.Path) error {
	resp, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: label(in.Meta()),
		Default: inputs.Checked(s.current(path)),
		Help:    in.Description,
	})
	if err != nil {
		return err
	}
	s.apply(ctx, s.editor.Edit(ctx, path, document.Bool(resp)))
	return nil
}

func (s *Session) promptGroup(ctx context.Context, in inputs.GroupInput, path fieldpath.Path) error {
	if in.Description != "" {
		_ = s.driver.Info(ctx, in.Description)
	}
	if in.ShowDisableToggle {
		_, present := s.editor.Document().GetAt(path)
		enabled, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Fill %s?", label(in.Meta())),
			Default: present,
		})
		if err != nil {
			return err
		}
		if !enabled {
			if present {
				s.apply(ctx, s.editor.Remove(ctx, path))
			}
			return nil
		}
	}
	return s.promptList(ctx, in.Inputs, path)
}

func (s *Session) promptListInput(ctx context.Context, in inputs.ListInput, path fieldpath.Path) error {
	if in.Description != "" {
		_ = s.driver.Info(ctx, in.Description)
	}
	n := inputs.ArrayLen(s.current(path))
	if clamped := in.ClampLength(n); clamped != n {
		if err := s.editor.Resize(ctx, path, clamped); err != nil {
			s.apply(ctx, err)
			return nil
		}
	}

	for {
		n = inputs.ArrayLen(s.current(path))
		menu := listMenu(in, n)
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      fmt.Sprintf("%s (%d)", label(in.Meta()), n),
			Options:      menu.labels(),
			DefaultIndex: len(menu) - 1,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(menu) {
			_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s selection", path))
			continue
		}

		switch action := menu[idx]; action.kind {
		case actionEdit:
			if err := s.promptList(ctx, in.Inputs, path.Element(action.index)); err != nil {
				return err
			}
		case actionAdd:
			if err := s.editor.Resize(ctx, path, n+1); err != nil {
				s.apply(ctx, err)
				continue
			}
			if err := s.promptList(ctx, in.Inputs, path.Element(n)); err != nil {
				return err
			}
		case actionRemove:
			which, err := s.driver.Select(ctx, SelectConfig{
				Message: "Remove which element?",
				Options: elementLabels(n),
			})
			if err != nil {
				return err
			}
			if which < 0 || which >= n {
				continue
			}
			s.apply(ctx, s.editor.Remove(ctx, path.Element(which)))
		case actionDone:
			return nil
		}
	}
}

// apply logs edit failures. The editor already reported them to the user.
func (s *Session) apply(ctx context.Context, err error) {
	if err != nil {
		ctxlog.FromContext(ctx).Debug("edit rejected", "error", err)
	}
}

func label(info inputs.Info) string {
	if info.Name != "" {
		return info.Name
	}
	return info.Key.String()
}

func numberHelp(in inputs.NumberInput) string {
	help := in.Description
	var bounds string
	switch {
	case in.Min != nil && in.Max != nil:
		bounds = fmt.Sprintf("between %s and %s", in.Min, in.Max)
	case in.Min != nil:
		bounds = fmt.Sprintf("at least %s", in.Min)
	case in.Max != nil:
		bounds = fmt.Sprintf("at most %s", in.Max)
	}
	if bounds == "" {
		return help
	}
	if help == "" {
		return bounds
	}
	return help + " (" + bounds + ")"
}
