package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// JSONSchema implements json.Marshaler for OpenAI's JSON Schema format.
// The alias type prevents infinite recursion during marshaling.
type JSONSchema struct {
	Properties           map[string]*JSONSchema `json:"properties,omitempty"`
	Items                *JSONSchema            `json:"items,omitempty"`
	Type                 string                 `json:"type"`
	Description          string                 `json:"description,omitempty"`
	Required             []string               `json:"required,omitempty"`
	Enum                 []string               `json:"enum,omitempty"`
	AdditionalProperties bool                   `json:"additionalProperties"`
}

// MarshalJSON implements json.Marshaler for JSONSchema.
// It uses a type alias to prevent infinite recursion.
func (s *JSONSchema) MarshalJSON() ([]byte, error) {
	type alias JSONSchema
	return json.Marshal((*alias)(s))
}

// ValidationError describes a single field-level schema violation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks raw arguments against the schema and returns the validated
// payload with numbers coerced (integer-valued floats stay float64; callers
// read them via helpers). Model output is an untrusted boundary: arguments
// must pass here before reaching a typed handler.
func (s *JSONSchema) Validate(raw map[string]any) (map[string]any, []*ValidationError) {
	var errs []*ValidationError

	if s.Type != "object" {
		errs = append(errs, &ValidationError{Field: "$", Message: "schema root must be an object"})
		return nil, errs
	}

	for _, required := range s.Required {
		if _, ok := raw[required]; !ok {
			errs = append(errs, &ValidationError{Field: required, Message: "required field is missing"})
		}
	}

	validated := make(map[string]any, len(raw))
	for key, value := range raw {
		prop, ok := s.Properties[key]
		if !ok {
			// Unknown fields from the model are dropped, not rejected: models
			// routinely add extra keys and the handlers must never see them.
			continue
		}
		coerced, fieldErrs := validateValue(key, prop, value)
		if len(fieldErrs) > 0 {
			errs = append(errs, fieldErrs...)
			continue
		}
		validated[key] = coerced
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return validated, nil
}

func validateValue(field string, schema *JSONSchema, value any) (any, []*ValidationError) {
	if value == nil {
		return nil, []*ValidationError{{Field: field, Message: "value is null"}}
	}

	switch schema.Type {
	case "string":
		str, ok := value.(string)
		if !ok {
			return nil, []*ValidationError{{Field: field, Message: fmt.Sprintf("expected string, got %T", value)}}
		}
		if len(schema.Enum) > 0 && !containsString(schema.Enum, str) {
			return nil, []*ValidationError{{
				Field:   field,
				Message: fmt.Sprintf("value %q is not one of [%s]", str, strings.Join(schema.Enum, ", ")),
			}}
		}
		return str, nil

	case "number":
		num, ok := toFloat64(value)
		if !ok {
			return nil, []*ValidationError{{Field: field, Message: fmt.Sprintf("expected number, got %T", value)}}
		}
		return num, nil

	case "integer":
		num, ok := toFloat64(value)
		if !ok || num != math.Trunc(num) {
			return nil, []*ValidationError{{Field: field, Message: fmt.Sprintf("expected integer, got %v", value)}}
		}
		return int(num), nil

	case "boolean":
		b, ok := value.(bool)
		if !ok {
			return nil, []*ValidationError{{Field: field, Message: fmt.Sprintf("expected boolean, got %T", value)}}
		}
		return b, nil

	case "array":
		items, ok := value.([]any)
		if !ok {
			return nil, []*ValidationError{{Field: field, Message: fmt.Sprintf("expected array, got %T", value)}}
		}
		if schema.Items == nil {
			return items, nil
		}
		var errs []*ValidationError
		validated := make([]any, 0, len(items))
		for i, item := range items {
			coerced, itemErrs := validateValue(fmt.Sprintf("%s[%d]", field, i), schema.Items, item)
			if len(itemErrs) > 0 {
				errs = append(errs, itemErrs...)
				continue
			}
			validated = append(validated, coerced)
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return validated, nil

	case "object":
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, []*ValidationError{{Field: field, Message: fmt.Sprintf("expected object, got %T", value)}}
		}
		validated, objErrs := schema.Validate(obj)
		if len(objErrs) > 0 {
			prefixed := make([]*ValidationError, len(objErrs))
			for i, e := range objErrs {
				prefixed[i] = &ValidationError{Field: field + "." + e.Field, Message: e.Message}
			}
			return nil, prefixed
		}
		return validated, nil

	default:
		return nil, []*ValidationError{{Field: field, Message: fmt.Sprintf("unsupported schema type %q", schema.Type)}}
	}
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
