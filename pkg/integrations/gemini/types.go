package gemini

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/fontastic/pkg/integrations"
	"github.com/matzehuels/fontastic/pkg/suggest"
)

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   *suggest.Schema `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates     []candidate     `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
}

type candidate struct {
	Content      *content `json:"content"`
	FinishReason string   `json:"finishReason"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason"`
}

// apiError is the error envelope returned by Google APIs.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// apiMessage extracts error.message from a status error body, falling back
// to the HTTP status text.
func apiMessage(se *integrations.StatusError) string {
	var body apiError
	if err := json.Unmarshal(se.Body, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	if text := http.StatusText(se.StatusCode); text != "" {
		return text
	}
	return se.Error()
}
