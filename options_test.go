package mdext

import (
	"errors"
	"reflect"
	"testing"
)

func TestSpecApply(t *testing.T) {
	t.Parallel()

	spec := Spec{
		"open":  {Default: false, Validate: BoolOption},
		"title": {Default: "Details", Validate: StringOption},
		"class": {Default: []string(nil), Validate: ClassesOption},
	}

	t.Run("defaults applied", func(t *testing.T) {
		t.Parallel()

		opts, err := spec.Apply(nil)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if opts.Bool("open") != false || opts.String("title") != "Details" {
			t.Errorf("defaults not applied: %v", opts)
		}
	})

	t.Run("given values override defaults", func(t *testing.T) {
		t.Parallel()

		opts, err := spec.Apply(map[string]any{"open": true, "class": "a b"})
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if !opts.Bool("open") {
			t.Error("open = false, want true")
		}
		if got := opts.Classes("class"); !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Errorf("class = %v, want [a b]", got)
		}
	})

	t.Run("unknown option", func(t *testing.T) {
		t.Parallel()

		_, err := spec.Apply(map[string]any{"bogus": 1})
		if !errors.Is(err, ErrUnknownOption) {
			t.Errorf("Apply() error = %v, want ErrUnknownOption", err)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()

		_, err := spec.Apply(map[string]any{"open": "maybe"})
		if !errors.Is(err, ErrInvalidOptionValue) {
			t.Errorf("Apply() error = %v, want ErrInvalidOptionValue", err)
		}
	})
}

func TestBoolOption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    any
		expected bool
		wantErr  bool
	}{
		{"bool true", true, true, false},
		{"bool false", false, false, false},
		{"string true", "true", true, false},
		{"string False", "False", false, false},
		{"garbage string", "yes", false, true},
		{"number", 1, false, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := BoolOption(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BoolOption(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("BoolOption(%v) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestClassesOption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    any
		expected []string
		wantErr  bool
	}{
		{"space delimited", "a b  c", []string{"a", "b", "c"}, false},
		{"string slice", []string{"x"}, []string{"x"}, false},
		{"any slice", []any{"x", "y"}, []string{"x", "y"}, false},
		{"mixed any slice", []any{"x", 1}, nil, true},
		{"number", 3, nil, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ClassesOption(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ClassesOption(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, any(tt.expected)) {
				t.Errorf("ClassesOption(%v) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestStringChoiceOption(t *testing.T) {
	t.Parallel()

	validate := StringChoiceOption("auto", "inline", "block", "raw")

	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"known choice", "inline", false},
		{"another choice", "raw", false},
		{"unknown choice", "sideways", true},
		{"not a string", 3, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := validate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.value {
				t.Errorf("validate(%v) = %v", tt.value, got)
			}
		})
	}
}

func TestAttributeOption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"simple id", "my-id", false},
		{"empty allowed", "", false},
		{"namespaced", "data:x", false},
		{"space rejected", "two words", true},
		{"leading digit rejected", "1abc", true},
		{"non-string", 5, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := AttributeOption(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("AttributeOption(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestIntRangeOption(t *testing.T) {
	t.Parallel()

	validate := IntRangeOption(1, 6)
	tests := []struct {
		name     string
		value    any
		expected int
		wantErr  bool
	}{
		{"in range", 3, 3, false},
		{"low bound", 1, 1, false},
		{"high bound", 6, 6, false},
		{"below", 0, 0, true},
		{"above", 7, 0, true},
		{"whole float accepted", float64(2), 2, false},
		{"fractional float rejected", 2.5, 0, true},
		{"string rejected", "3", 0, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := validate(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("IntRangeOption(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("IntRangeOption(%v) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}
