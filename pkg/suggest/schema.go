package suggest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Schema types, in the upper-case form the Gemini API uses.
const (
	TypeObject = "OBJECT"
	TypeNumber = "NUMBER"
	TypeString = "STRING"
)

// Schema is the subset of an OpenAPI schema used to constrain model output.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// OutputSchema describes a [LayoutSuggestion].
var OutputSchema = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"suggestedSpacing": {
			Type:        TypeNumber,
			Description: "The suggested spacing between letters.",
		},
		"layoutSuggestions": {
			Type:        TypeString,
			Description: "Suggestions for the text layout.",
		},
	},
	Required: []string{"suggestedSpacing", "layoutSuggestions"},
}

// InputSchema describes a [LayoutRequest].
var InputSchema = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"text":    {Type: TypeString, Description: "The text to be laid out."},
		"font":    {Type: TypeString, Description: "The name of the font to be used."},
		"spacing": {Type: TypeNumber, Description: "The current spacing between letters."},
	},
	Required: []string{"text", "font", "spacing"},
}

// Check validates a JSON document against an object schema: every required
// property must be present and every known property must have the declared
// type. Unknown properties are ignored.
func (s *Schema) Check(data []byte) error {
	if s.Type != TypeObject {
		return fmt.Errorf("schema: only object schemas can be checked")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("output is not a JSON object: %w", err)
	}
	for _, name := range s.Required {
		if _, ok := fields[name]; !ok {
			return fmt.Errorf("output is missing required field %q", name)
		}
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		if err := checkType(s.Properties[name].Type, raw); err != nil {
			return fmt.Errorf("output field %q: %w", name, err)
		}
	}
	return nil
}

func checkType(typ string, raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return fmt.Errorf("empty value")
	}
	switch typ {
	case TypeNumber:
		if raw[0] != '-' && (raw[0] < '0' || raw[0] > '9') {
			return fmt.Errorf("expected a number")
		}
		var f float64
		return json.Unmarshal(raw, &f)
	case TypeString:
		if raw[0] != '"' {
			return fmt.Errorf("expected a string")
		}
	case TypeObject:
		if raw[0] != '{' {
			return fmt.Errorf("expected an object")
		}
	}
	return nil
}
