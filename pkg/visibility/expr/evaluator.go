package expr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/goliatone/go-formfill/pkg/visibility"
)

// Evaluator runs visible_if rules with expr-lang. Top-level document keys are
// variables; two helpers are available:
//
//	get("list.0.name")  value at a dotted path, nil when absent
//	here()              path of the input being evaluated
//
// Extras are exposed under the "extras" variable. Compiled programs are
// cached per rule.
type Evaluator struct {
	mu       sync.Mutex
	programs map[string]*vm.Program
}

// New returns an evaluator with an empty program cache.
func New() *Evaluator {
	return &Evaluator{programs: make(map[string]*vm.Program)}
}

// Eval reports whether the rule holds. A rule that does not produce a
// boolean is an error.
func (e *Evaluator) Eval(fieldPath, rule string, ctx visibility.Context) (bool, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}

	prg, err := e.compile(trimmed)
	if err != nil {
		return false, err
	}

	res, err := expr.Run(prg, environment(fieldPath, ctx))
	if err != nil {
		return false, fmt.Errorf("visibility/expr: eval %q: %w", trimmed, err)
	}
	ok, isBool := res.(bool)
	if !isBool {
		return false, fmt.Errorf("visibility/expr: rule %q returned %T, expected bool", trimmed, res)
	}
	return ok, nil
}

func (e *Evaluator) compile(rule string) (*vm.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.programs == nil {
		e.programs = make(map[string]*vm.Program)
	}
	if prg, ok := e.programs[rule]; ok {
		return prg, nil
	}
	prg, err := expr.Compile(rule, options()...)
	if err != nil {
		return nil, fmt.Errorf("visibility/expr: compile %q: %w", rule, err)
	}
	e.programs[rule] = prg
	return prg, nil
}

func options() []expr.Option {
	return []expr.Option{
		expr.Env(environment("", visibility.Context{})),
		expr.AllowUndefinedVariables(),
	}
}

func environment(fieldPath string, ctx visibility.Context) map[string]any {
	values := ctx.Values
	if values == nil {
		values = map[string]any{}
	}
	extras := ctx.Extras
	if extras == nil {
		extras = map[string]any{}
	}
	env := make(map[string]any, len(values)+3)
	for k, v := range values {
		env[k] = v
	}
	env["extras"] = extras
	env["get"] = func(path string) any {
		v, _ := visibility.Lookup(values, path)
		return v
	}
	env["here"] = func() string { return fieldPath }
	return env
}
