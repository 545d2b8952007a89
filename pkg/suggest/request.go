package suggest

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/matzehuels/fontastic/pkg/design"
	"github.com/matzehuels/fontastic/pkg/errors"
)

// LayoutRequest is the input of one suggestion call.
type LayoutRequest struct {
	Text    string  `json:"text"`
	Font    string  `json:"font"`
	Spacing float64 `json:"spacing"`
}

// LayoutSuggestion is the structured answer of the model.
type LayoutSuggestion = design.Suggestion

// RequestFor builds the request the design surfaces send: the design's
// text and spacing with the logo font.
func RequestFor(d design.Design) LayoutRequest {
	return LayoutRequest{Text: d.Text, Font: design.FontName, Spacing: d.Spacing}
}

// Validate checks r and returns an INVALID_INPUT error listing one sentence
// per violated field, or nil. An accepted request is used unchanged.
func Validate(r LayoutRequest) error {
	return validate(r, nil)
}

// DecodeRequest reads a JSON request body on top of base: fields present in
// data replace base's. Each present field is checked against [InputSchema];
// a field of the wrong type is reported as a violation alongside the ones
// [Validate] finds, in a single INVALID_INPUT error. An empty body yields
// base. A body that is not a JSON object fails with INVALID_FORMAT.
func DecodeRequest(data []byte, base LayoutRequest) (LayoutRequest, error) {
	req := base
	if len(bytes.TrimSpace(data)) == 0 {
		return req, Validate(req)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return req, errors.New(errors.ErrCodeInvalidFormat, "Invalid request body: expected a JSON object.")
	}

	targets := map[string]any{"text": &req.Text, "font": &req.Font, "spacing": &req.Spacing}
	mistyped := make(map[string]bool)
	for name, prop := range InputSchema.Properties {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		if checkType(prop.Type, raw) != nil || json.Unmarshal(raw, targets[name]) != nil {
			mistyped[name] = true
		}
	}
	return req, validate(req, mistyped)
}

func validate(r LayoutRequest, mistyped map[string]bool) error {
	var v errors.Violations
	switch {
	case mistyped["text"]:
		v.Add("Text must be a string.")
	case r.Text == "":
		v.Add("Text cannot be empty.")
	}
	switch {
	case mistyped["font"]:
		v.Add("Font must be a string.")
	case r.Font == "":
		v.Add("Font cannot be empty.")
	}
	v.Check(!mistyped["spacing"] && !math.IsNaN(r.Spacing) && !math.IsInf(r.Spacing, 0), "Spacing must be a number.")
	return v.Err()
}
