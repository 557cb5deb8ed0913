package mdext

import (
	"fmt"
	"regexp"
	"strings"
)

// Validator normalizes and checks one option value, returning the
// value to store.
type Validator func(value any) (any, error)

// OptionSpec declares one recognized option: its default and an
// optional validator.
type OptionSpec struct {
	Default  any
	Validate Validator
}

// Spec maps option names to their specifications. Unrecognized names
// fail at setup time, never at conversion time.
type Spec map[string]OptionSpec

// Options is a validated option set with defaults applied.
type Options map[string]any

// Apply validates the given values against the spec and merges them
// over the defaults. Returns ErrUnknownOption for unrecognized names
// and ErrInvalidOptionValue when a validator rejects a value.
func (s Spec) Apply(given map[string]any) (Options, error) {
	out := make(Options, len(s))
	for name, spec := range s {
		out[name] = spec.Default
	}
	for name, value := range given {
		spec, ok := s[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOption, name)
		}
		if spec.Validate != nil {
			v, err := spec.Validate(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrInvalidOptionValue, name, err)
			}
			value = v
		}
		out[name] = value
	}
	return out, nil
}

// Bool returns the named option as a bool (false if absent or not a
// bool).
func (o Options) Bool(name string) bool {
	b, _ := o[name].(bool)
	return b
}

// String returns the named option as a string.
func (o Options) String(name string) string {
	s, _ := o[name].(string)
	return s
}

// Classes returns the named option as a class list.
func (o Options) Classes(name string) []string {
	c, _ := o[name].([]string)
	return c
}

// Int returns the named option as an int.
func (o Options) Int(name string) int {
	i, _ := o[name].(int)
	return i
}

// attributePattern accepts any reasonable HTML attribute token.
var attributePattern = regexp.MustCompile(`^[A-Za-z_][\w:.-]*$`)

// BoolOption accepts booleans and the strings "true"/"false".
func BoolOption(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(v) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return nil, fmt.Errorf("expected boolean, got %v", value)
}

// StringOption accepts any scalar and stores it as a string.
func StringOption(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case int, int64, uint64, float64, bool:
		return fmt.Sprintf("%v", v), nil
	}
	return nil, fmt.Errorf("expected string, got %T", value)
}

// ClassesOption accepts a space-delimited string (or string list) of
// CSS class names.
func ClassesOption(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return strings.Fields(v), nil
	case []string:
		return v, nil
	case []any:
		classes := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected class name, got %T", item)
			}
			classes = append(classes, s)
		}
		return classes, nil
	}
	return nil, fmt.Errorf("expected class list, got %T", value)
}

// StringChoiceOption accepts one of the given strings.
func StringChoiceOption(choices ...string) Validator {
	return func(value any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", value)
		}
		for _, c := range choices {
			if s == c {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%q is not one of %v", s, choices)
	}
}

// AttributeOption accepts a single HTML attribute token (used for
// ids and similar single-value attributes).
func AttributeOption(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", value)
	}
	if s != "" && !attributePattern.MatchString(s) {
		return nil, fmt.Errorf("invalid attribute value %q", s)
	}
	return s, nil
}

// IntRangeOption accepts integers within [min, max].
func IntRangeOption(min, max int) Validator {
	return func(value any) (any, error) {
		var n int
		switch v := value.(type) {
		case int:
			n = v
		case int64:
			n = int(v)
		case uint64:
			n = int(v)
		case float64:
			n = int(v)
			if float64(n) != v {
				return nil, fmt.Errorf("expected integer, got %v", v)
			}
		default:
			return nil, fmt.Errorf("expected integer, got %T", value)
		}
		if n < min || n > max {
			return nil, fmt.Errorf("%d out of range [%d, %d]", n, min, max)
		}
		return n, nil
	}
}
