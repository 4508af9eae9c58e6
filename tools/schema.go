package tools

import (
	"encoding/json"
	"fmt"
	"math"
)

// Schema helpers for building JSON Schema definitions.

// ObjectSchema creates an object schema with the given properties.
func ObjectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// StringProperty creates a string property with a description.
func StringProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// StringEnumProperty creates a string property with allowed values.
func StringEnumProperty(description string, values ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
		"enum":        values,
	}
}

// NumberProperty creates a number property with a description.
func NumberProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": description,
	}
}

// IntegerProperty creates an integer property with a description.
func IntegerProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// BooleanProperty creates a boolean property with a description.
func BooleanProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": description,
	}
}

// ArrayProperty creates an array property with the given item type.
func ArrayProperty(description string, itemType map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items":       itemType,
	}
}

// ValidateArguments checks a raw argument blob against an ObjectSchema-style
// schema: the blob must be a JSON object, every required field must be
// present, and every supplied field with a declared type must match it.
// Unknown fields pass through; models occasionally add extras and rejecting
// them buys nothing.
func ValidateArguments(schema map[string]interface{}, raw json.RawMessage) error {
	var args map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return fmt.Errorf("arguments are not a JSON object: %v", err)
		}
	}

	if required, ok := schema["required"]; ok {
		for _, name := range StringSlice(required) {
			if _, present := args[name]; !present {
				return fmt.Errorf("missing required field %q", name)
			}
		}
	}

	properties, _ := schema["properties"].(map[string]interface{})
	for name, value := range args {
		prop, ok := properties[name].(map[string]interface{})
		if !ok {
			continue
		}
		if err := checkType(name, prop, value); err != nil {
			return err
		}
	}
	return nil
}

func checkType(name string, prop map[string]interface{}, value interface{}) error {
	declared, _ := prop["type"].(string)
	if value == nil {
		return fmt.Errorf("field %q is null", name)
	}

	switch declared {
	case "string":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %q must be a string", name)
		}
		if enum, ok := prop["enum"]; ok {
			allowed := StringSlice(enum)
			for _, v := range allowed {
				if s == v {
					return nil
				}
			}
			return fmt.Errorf("field %q must be one of %v", name, allowed)
		}
	case "number":
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("field %q must be a number", name)
		}
	case "integer":
		f, ok := value.(float64)
		if !ok || f != math.Trunc(f) {
			return fmt.Errorf("field %q must be an integer", name)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("field %q must be a boolean", name)
		}
	case "array":
		if _, ok := value.([]interface{}); !ok {
			return fmt.Errorf("field %q must be an array", name)
		}
	case "object":
		if _, ok := value.(map[string]interface{}); !ok {
			return fmt.Errorf("field %q must be an object", name)
		}
	}
	return nil
}

// StringSlice coerces a schema list value to strings. Hand-built schemas
// carry []string, schemas round-tripped through JSON carry []interface{};
// both shapes appear in the same fields.
func StringSlice(v interface{}) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
