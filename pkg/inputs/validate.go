package inputs

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/goliatone/go-formfill/pkg/document"
)

var (
	// ErrPatternMismatch reports text rejected by a validate_regex.
	ErrPatternMismatch = errors.New("inputs: value does not match pattern")
	// ErrOutOfRange reports a number outside [min, max] or off its step.
	ErrOutOfRange = errors.New("inputs: number out of range")
)

const matchTimeout = 250 * time.Millisecond

var patterns sync.Map // string -> *regexp2.Regexp

// compilePattern anchors pattern the way an HTML pattern attribute is
// anchored and compiles it with ECMAScript semantics.
func compilePattern(pattern string) (*regexp2.Regexp, error) {
	if cached, ok := patterns.Load(pattern); ok {
		return cached.(*regexp2.Regexp), nil
	}
	re, err := regexp2.Compile("^(?:"+pattern+")$", regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("inputs: compile pattern %q: %w", pattern, err)
	}
	re.MatchTimeout = matchTimeout
	patterns.Store(pattern, re)
	return re, nil
}

// Validate checks text against ValidateRegex. Empty text and inputs without
// a pattern always pass.
func (t TextInput) Validate(text string) error {
	if t.ValidateRegex == "" || text == "" {
		return nil
	}
	re, err := compilePattern(t.ValidateRegex)
	if err != nil {
		return err
	}
	ok, err := re.MatchString(text)
	if err != nil {
		return fmt.Errorf("inputs: match %q: %w", t.ValidateRegex, err)
	}
	if !ok {
		return fmt.Errorf("%w %q", ErrPatternMismatch, t.ValidateRegex)
	}
	return nil
}

// Validate checks n against Min, Max and Step. Step is measured from Min,
// or from zero without one.
func (in NumberInput) Validate(n document.Number) error {
	value := n.Float64()
	if in.Min != nil && value < in.Min.Float64() {
		return fmt.Errorf("%w: %s is below the minimum %s", ErrOutOfRange, n, in.Min)
	}
	if in.Max != nil && value > in.Max.Float64() {
		return fmt.Errorf("%w: %s is above the maximum %s", ErrOutOfRange, n, in.Max)
	}
	if in.Step != nil && in.Step.Float64() > 0 {
		base := 0.0
		if in.Min != nil {
			base = in.Min.Float64()
		}
		steps := (value - base) / in.Step.Float64()
		if math.Abs(steps-math.Round(steps)) > 1e-9 {
			return fmt.Errorf("%w: %s is not a multiple of the step %s", ErrOutOfRange, n, in.Step)
		}
	}
	return nil
}

// ClampLength bounds n by MinLength and MaxLength.
func (l ListInput) ClampLength(n int) int {
	if n < 0 {
		n = 0
	}
	if l.MaxLength != nil && uint64(n) > *l.MaxLength {
		n = int(*l.MaxLength)
	}
	if l.MinLength != nil && uint64(n) < *l.MinLength {
		n = int(*l.MinLength)
	}
	return n
}

// CanGrow reports whether a list of length n may gain an element.
func (l ListInput) CanGrow(n int) bool {
	return l.MaxLength == nil || uint64(n) < *l.MaxLength
}

// CanShrink reports whether a list of length n may lose an element.
func (l ListInput) CanShrink(n int) bool {
	if n <= 0 {
		return false
	}
	return l.MinLength == nil || uint64(n) > *l.MinLength
}

// Check verifies the descriptors themselves: patterns compile, bounds are
// ordered and nested inputs are well formed. It never looks at data.
func Check(list List) error {
	var errs []error
	for i, in := range list {
		if in == nil {
			errs = append(errs, fmt.Errorf("input %d is nil", i))
			continue
		}
		if err := checkInput(in); err != nil {
			errs = append(errs, fmt.Errorf("input %q: %w", in.Meta().Key, err))
		}
	}
	return errors.Join(errs...)
}

func checkInput(in Input) error {
	switch typed := in.(type) {
	case TextInput:
		if typed.ValidateRegex != "" {
			if _, err := compilePattern(typed.ValidateRegex); err != nil {
				return err
			}
		}
	case NumberInput:
		if typed.Min != nil && typed.Max != nil && typed.Min.Float64() > typed.Max.Float64() {
			return fmt.Errorf("min %s is greater than max %s", typed.Min, typed.Max)
		}
		if typed.Step != nil && typed.Step.Float64() <= 0 {
			return fmt.Errorf("step %s must be positive", typed.Step)
		}
	case GroupInput:
		return Check(typed.Inputs)
	case ListInput:
		if typed.MinLength != nil && typed.MaxLength != nil && *typed.MinLength > *typed.MaxLength {
			return fmt.Errorf("min_length %d is greater than max_length %d", *typed.MinLength, *typed.MaxLength)
		}
		return Check(typed.Inputs)
	}
	return nil
}
