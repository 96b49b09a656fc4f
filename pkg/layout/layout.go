// Package layout reads, validates and writes sandbox layout documents.
//
// Layouts are YAML documents (JSON is accepted as well, being a subset of YAML):
//
//	id: first-circuit
//	name: Battery and lamp
//	elements:
//	  - id: bat
//	    kind: source
//	    a: {x: 0, y: 0}
//	    b: {x: 100, y: 0}
//	  - id: bulb
//	    kind: lamp
//	    a: {x: 100, y: 0}
//	    b: {x: 0, y: 0}
package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("circuitkind", validateKind)
	return v
}

func validateKind(fl validator.FieldLevel) bool {
	return domain.Kind(fl.Field().String()).Valid()
}

// Decode parses a YAML or JSON layout document.
// The result is not validated; call Validate before persisting it.
func Decode(data []byte) (*domain.Layout, error) {
	var l domain.Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidLayout, err)
	}
	return &l, nil
}

// FromMap decodes a layout that arrived as a generic map, e.g. a JSON object inside
// a tool call. Numbers may be strings or json.Number.
func FromMap(raw map[string]any) (*domain.Layout, error) {
	var l domain.Layout
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &l,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidLayout, err)
	}
	return &l, nil
}

// ReadFile decodes and validates the layout at path.
// A layout without an id takes the file name (without extension).
func ReadFile(path string) (*domain.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	l, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if l.ID == "" {
		l.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := Validate(l); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Validate checks the layout at the API edge: every element needs a known kind and both
// terminals, and explicit ids must be unique. The engine itself tolerates all of these
// (it drops bad elements), but persisted layouts should not carry them.
func Validate(l *domain.Layout) error {
	if l == nil {
		return fmt.Errorf("%w: empty document", domain.ErrInvalidLayout)
	}

	var problems []string
	if err := validate.Struct(l); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, e := range verrs {
				problems = append(problems, formatFieldError(e))
			}
		} else {
			return fmt.Errorf("%w: %v", domain.ErrInvalidLayout, err)
		}
	}

	seen := make(map[string]bool)
	for i, el := range l.Elements {
		if el.ID == "" {
			continue
		}
		if seen[el.ID] {
			problems = append(problems, fmt.Sprintf("elements[%d].id %q is duplicated", i, el.ID))
		}
		seen[el.ID] = true
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidLayout, strings.Join(problems, "; "))
	}
	return nil
}

func formatFieldError(e validator.FieldError) string {
	// Namespace looks like "Layout.elements[2].kind"; drop the root type.
	field := e.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "circuitkind":
		return fmt.Sprintf("%s %q is not a known element kind", field, e.Value())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Encode renders the layout as YAML.
func Encode(l *domain.Layout) ([]byte, error) {
	data, err := yaml.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to encode layout: %w", err)
	}
	return data, nil
}

// WriteFile encodes the layout and writes it to path.
func WriteFile(path string, l *domain.Layout) error {
	data, err := Encode(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
