package gemini

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matzehuels/fontastic/pkg/errors"
	"github.com/matzehuels/fontastic/pkg/suggest"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc, opts ...Option) *Generator {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New("test-key", append([]Option{WithBaseURL(server.URL)}, opts...)...)
}

func TestGenerate(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v1beta/models/gemini-2.0-flash:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		contents := req["contents"].([]any)
		parts := contents[0].(map[string]any)["parts"].([]any)
		if text := parts[0].(map[string]any)["text"]; text != "hello" {
			t.Errorf("prompt = %v", text)
		}
		cfg := req["generationConfig"].(map[string]any)
		if cfg["responseMimeType"] != "application/json" {
			t.Errorf("responseMimeType = %v", cfg["responseMimeType"])
		}
		schema := cfg["responseSchema"].(map[string]any)
		if schema["type"] != "OBJECT" {
			t.Errorf("schema type = %v", schema["type"])
		}

		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"suggestedSpacing\":"},{"text":"2,\"layoutSuggestions\":\"ok\"}"}]},"finishReason":"STOP"}]}`))
	})

	got, err := gen.Generate(context.Background(), "hello", suggest.OutputSchema)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != `{"suggestedSpacing":2,"layoutSuggestions":"ok"}` {
		t.Errorf("Generate() = %q", got)
	}
}

func TestGenerateModelOption(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-1.5-pro:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"candidates":[]}`))
	}, WithModel("gemini-1.5-pro"))

	got, err := gen.Generate(context.Background(), "x", suggest.OutputSchema)
	if err != nil || got != "" {
		t.Errorf("Generate() = %q, %v; want empty answer", got, err)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode errors.Code
		wantMsg  string
	}{
		{"bad key", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid.","status":"INVALID_ARGUMENT"}}`, errors.ErrCodeService, "API key not valid."},
		{"unauthorized", http.StatusUnauthorized, `{}`, errors.ErrCodeUnauthorized, "Unauthorized"},
		{"forbidden", http.StatusForbidden, `{"error":{"message":"denied"}}`, errors.ErrCodeUnauthorized, "denied"},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"Resource has been exhausted"}}`, errors.ErrCodeRateLimited, "Resource has been exhausted"},
		{"server error", http.StatusInternalServerError, `oops`, errors.ErrCodeService, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := gen.Generate(context.Background(), "x", suggest.OutputSchema)
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q (err %v)", got, tt.wantCode, err)
			}
			if got := errors.UserMessage(err); got != tt.wantMsg {
				t.Errorf("message = %q, want %q", got, tt.wantMsg)
			}
			if calls != 1 {
				t.Errorf("server called %d times, want 1", calls)
			}
		})
	}
}

func TestGenerateRateLimitRetryAfter(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "12")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := gen.Generate(context.Background(), "x", suggest.OutputSchema)
	var rl *errors.RateLimitedError
	if !stderrors.As(err, &rl) {
		t.Fatalf("error = %v, want RateLimitedError in chain", err)
	}
	if rl.RetryAfter != 12 {
		t.Errorf("RetryAfter = %d, want 12", rl.RetryAfter)
	}
}

func TestGenerateBlockedPrompt(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	})

	_, err := gen.Generate(context.Background(), "x", suggest.OutputSchema)
	if !errors.Is(err, errors.ErrCodeService) {
		t.Errorf("error = %v, want SERVICE_ERROR", err)
	}
}

func TestGenerateTimeout(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}, WithTimeout(20*time.Millisecond))

	_, err := gen.Generate(context.Background(), "x", suggest.OutputSchema)
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("error = %v, want TIMEOUT", err)
	}
}

func TestGenerateNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	gen := New("key", WithBaseURL(server.URL))
	_, err := gen.Generate(context.Background(), "x", suggest.OutputSchema)
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("error = %v, want NETWORK_ERROR", err)
	}
}

func TestGenerateWithoutKey(t *testing.T) {
	_, err := New("").Generate(context.Background(), "x", suggest.OutputSchema)
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("error = %v, want UNAUTHORIZED", err)
	}
}

func TestEndpoint(t *testing.T) {
	gen := New("k", WithBaseURL("https://example.com/"), WithModel("m"))
	if got := gen.Endpoint(); got != "https://example.com/v1beta/models/m:generateContent" {
		t.Errorf("Endpoint() = %q", got)
	}
}

func TestGeneratorWithRequester(t *testing.T) {
	gen := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"suggestedSpacing\": 3.25, \"layoutSuggestions\": \"Try wider tracking.\"}"}]}}]}`))
	})

	s, err := suggest.NewRequester(gen, nil).Suggest(context.Background(), suggest.LayoutRequest{Text: "Logo", Font: "Montserrat", Spacing: 1})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if s.SuggestedSpacing != 3.25 || s.LayoutSuggestions != "Try wider tracking." {
		t.Errorf("Suggest() = %+v", s)
	}
}
