package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
)

func newTestAnthropic(t *testing.T, status int, body map[string]any) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	p, err := NewAnthropicProvider(
		AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(srv.URL),
		option.WithMaxRetries(0),
	)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func anthropicReply(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 80, "output_tokens": 25},
	}
}

func anthropicError(kind string) map[string]any {
	return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": kind}}
}

func TestAnthropicProvider_StructuredReply(t *testing.T) {
	p := newTestAnthropic(t, http.StatusOK, anthropicReply(`{"summary":"Calmer week","focus_areas":["sleep"]}`, "end_turn"))
	resp, err := p.Generate(context.Background(), Request{
		System:    "Summarise.",
		Messages:  []Message{{Role: RoleUser, Content: "stats"}},
		Schema:    narrativeSchema(),
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 105 || resp.StopReason != StopEnd || resp.Model != "claude-haiku-4-5" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestAnthropicProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   map[string]any
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, anthropicError("rate_limit_error"), func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{"overloaded", http.StatusServiceUnavailable, anthropicError("overloaded_error"), func(err error) bool {
			var u *ErrProviderUnavailable
			return errors.As(err, &u)
		}},
		{"truncated", http.StatusOK, anthropicReply(`{"summary":"Cal`, "max_tokens"), func(err error) bool {
			var m *ErrMaxTokensExceeded
			return errors.As(err, &m)
		}},
		{"schema mismatch", http.StatusOK, anthropicReply(`{"mood":"fine"}`, "end_turn"), func(err error) bool {
			var inv *ErrInvalidResponse
			return errors.As(err, &inv)
		}},
		{"bad request", http.StatusBadRequest, anthropicError("invalid_request_error"), func(err error) bool {
			return classify(err) == classFatal
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropic(t, tt.status, tt.body)
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "stats"}},
				Schema:    narrativeSchema(),
				MaxTokens: 64,
			})
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestAnthropicProvider_Identity(t *testing.T) {
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "claude-sonnet"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != "claude-sonnet-4-5" || p.Name() != ProviderAnthropic {
		t.Fatalf("identity = %s/%s", p.Name(), p.ModelID())
	}
	if _, err := NewAnthropicProvider(AnthropicConfig{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("missing key: got %v", err)
	}
}
