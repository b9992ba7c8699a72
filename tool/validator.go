package tool

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/tidwall/gjson"
)

// ErrInvalidInput wraps every validation failure returned by ValidateInput.
var ErrInvalidInput = errors.New("invalid tool input")

// ValidateInput checks input against schema. Empty input is treated as {}.
// Properties not described by the schema are allowed.
func ValidateInput(schema ToolSchema, input []byte) error {
	if len(input) == 0 {
		input = []byte("{}")
	}
	if !gjson.ValidBytes(input) {
		return fmt.Errorf("%w: malformed JSON", ErrInvalidInput)
	}

	doc := gjson.ParseBytes(input)
	if !doc.IsObject() {
		return fmt.Errorf("%w: expected a JSON object", ErrInvalidInput)
	}

	for _, required := range schema.Required {
		if !doc.Get(gjson.Escape(required)).Exists() {
			return fmt.Errorf("%w: missing required field %q", ErrInvalidInput, required)
		}
	}

	for name, def := range schema.Properties {
		value := doc.Get(gjson.Escape(name))
		if !value.Exists() {
			continue
		}
		if err := validateValue(name, def, value); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	return nil
}

func validateValue(path string, def PropertyDef, value gjson.Result) error {
	if value.Type == gjson.Null {
		return nil
	}

	switch def.Type {
	case "string":
		if value.Type != gjson.String {
			return fmt.Errorf("field %q: expected string, got %s", path, kind(value))
		}
		n := len([]rune(value.Str))
		if def.MinLength != nil && n < *def.MinLength {
			return fmt.Errorf("field %q: length %d is less than minimum %d", path, n, *def.MinLength)
		}
		if def.MaxLength != nil && n > *def.MaxLength {
			return fmt.Errorf("field %q: length %d exceeds maximum %d", path, n, *def.MaxLength)
		}
		if len(def.Enum) > 0 && !slices.Contains(def.Enum, value.Str) {
			return fmt.Errorf("field %q: %q is not one of %v", path, value.Str, def.Enum)
		}

	case "number", "integer":
		if value.Type != gjson.Number {
			return fmt.Errorf("field %q: expected %s, got %s", path, def.Type, kind(value))
		}
		if def.Type == "integer" && value.Num != math.Trunc(value.Num) {
			return fmt.Errorf("field %q: expected integer, got %v", path, value.Num)
		}
		if def.Minimum != nil && value.Num < *def.Minimum {
			return fmt.Errorf("field %q: %v is less than minimum %v", path, value.Num, *def.Minimum)
		}
		if def.Maximum != nil && value.Num > *def.Maximum {
			return fmt.Errorf("field %q: %v exceeds maximum %v", path, value.Num, *def.Maximum)
		}

	case "boolean":
		if value.Type != gjson.True && value.Type != gjson.False {
			return fmt.Errorf("field %q: expected boolean, got %s", path, kind(value))
		}

	case "array":
		if !value.IsArray() {
			return fmt.Errorf("field %q: expected array, got %s", path, kind(value))
		}
		if def.Items == nil {
			return nil
		}
		for i, item := range value.Array() {
			if err := validateValue(fmt.Sprintf("%s[%d]", path, i), *def.Items, item); err != nil {
				return err
			}
		}

	case "object":
		if !value.IsObject() {
			return fmt.Errorf("field %q: expected object, got %s", path, kind(value))
		}
		for name, nested := range def.Properties {
			child := value.Get(gjson.Escape(name))
			if !child.Exists() {
				continue
			}
			if err := validateValue(path+"."+name, nested, child); err != nil {
				return err
			}
		}
	}
	return nil
}

func kind(v gjson.Result) string {
	switch {
	case v.IsObject():
		return "object"
	case v.IsArray():
		return "array"
	case v.Type == gjson.True, v.Type == gjson.False:
		return "boolean"
	default:
		return v.Type.String()
	}
}
