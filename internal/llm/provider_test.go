package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/AKakshat1729/AGI-119/internal/logger"
	"github.com/AKakshat1729/AGI-119/internal/store"
)

func TestMockProvider_ReplaysInOrder(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(`"first"`), Usage: Usage{InputTokens: 3}},
		MockResponse{Content: json.RawMessage(`"second"`)},
	)
	ctx := context.Background()

	r1, err := m.Generate(ctx, Request{System: "one"})
	if err != nil || string(r1.Content) != `"first"` || r1.Usage.InputTokens != 3 {
		t.Fatalf("first = %+v, %v", r1, err)
	}
	r2, _ := m.Generate(ctx, Request{System: "two"})
	if string(r2.Content) != `"second"` {
		t.Fatalf("second = %s", r2.Content)
	}

	_, err = m.Generate(ctx, Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("empty queue: got %v, want *ErrProviderUnavailable", err)
	}

	reqs := m.Requests()
	if len(reqs) != 3 || reqs[0].System != "one" || reqs[1].System != "two" {
		t.Fatalf("requests = %+v", reqs)
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	m := NewMockProvider(MockResponse{Content: json.RawMessage(`{"summary":"x"}`)})
	_, err := m.Generate(context.Background(), Request{Schema: narrativeSchema()})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("got %v, want *ErrInvalidResponse", err)
	}
}

func TestMockProvider_ConfiguredError(t *testing.T) {
	boom := errors.New("boom")
	m := NewMockProvider()
	m.Enqueue(MockResponse{Err: boom})
	if _, err := m.Generate(context.Background(), Request{}); !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	if m.ModelID() != "mock" || m.Name() != ProviderMock {
		t.Fatalf("identity = %s/%s", m.Name(), m.ModelID())
	}
}

func TestPurpose(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != "unknown" {
		t.Errorf("default purpose = %q", got)
	}
	ctx := WithPurpose(context.Background(), PurposeInsight)
	if got := PurposeFrom(ctx); got != PurposeInsight {
		t.Errorf("purpose = %q, want %q", got, PurposeInsight)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"nothing selected", func(c *Config) {}, "no LLM provider"},
		{"mock needs no key", func(c *Config) { c.Provider = ProviderMock }, ""},
		{"anthropic with key", func(c *Config) { c.Provider, c.Anthropic.APIKey = ProviderAnthropic, "k" }, ""},
		{"anthropic without key", func(c *Config) { c.Provider = ProviderAnthropic }, "AGI119_ANTHROPIC_API_KEY"},
		{"openrouter without key", func(c *Config) { c.Provider = ProviderOpenRouter }, "AGI119_OPENROUTER_API_KEY"},
		{"unknown", func(c *Config) { c.Provider = "llama" }, "unknown LLM provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func clearLLMEnv(t *testing.T) {
	t.Helper()
	cfg := DefaultConfig()
	for name := range cfg.envOverrides() {
		t.Setenv(name, "")
	}
	for _, k := range standardKeys {
		t.Setenv(k.env, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := ConfigFromEnv(); ok {
		t.Fatal("no variables set, want ok=false")
	}

	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("OPENAI_API_KEY", "oa-key")
	cfg, ok := ConfigFromEnv()
	if !ok || cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "oa-key" {
		t.Fatalf("discovery picked %q (%+v)", cfg.Provider, cfg.OpenAI)
	}

	t.Setenv("AGI119_LLM_PROVIDER", ProviderGemini)
	t.Setenv("AGI119_GEMINI_API_KEY", "g-key")
	t.Setenv("AGI119_GEMINI_MODEL", "gemini-pro")
	cfg, ok = ConfigFromEnv()
	if !ok || cfg.Provider != ProviderGemini || cfg.Gemini.APIKey != "g-key" || cfg.Gemini.Model != "gemini-pro" {
		t.Fatalf("explicit provider ignored: %+v", cfg)
	}
}

func TestPricing(t *testing.T) {
	cost, ok := EstimateCost("gpt-4o-mini", 1_000_000, 1_000_000)
	if !ok || cost != 0.75 {
		t.Fatalf("cost = %v, %v", cost, ok)
	}
	if _, ok := EstimateCost("mock", 10, 10); ok {
		t.Fatal("mock has no price")
	}
	if c := LookupCost(resolveModel("claude-haiku", anthropicAliases)); c == nil {
		t.Fatal("default anthropic alias must be priced")
	}
}

type memRecorder struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (m *memRecorder) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, d)
	return m.err
}

func TestRecordingProvider(t *testing.T) {
	rec := &memRecorder{}
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"summary":"ok","focus_areas":[]}`), Usage: Usage{InputTokens: 120, OutputTokens: 40}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithRecorder(mock, rec, logger.NewNop())
	ctx := WithPurpose(context.Background(), PurposeInsight)

	req := Request{
		System:   "Summarise progress.",
		Messages: []Message{{Role: RoleUser, Content: "tps=0.2"}},
		Schema:   narrativeSchema(),
	}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected the second call to fail")
	}

	if len(rec.events) != 2 {
		t.Fatalf("recorded %d events, want 2", len(rec.events))
	}
	ok, failed := rec.events[0], rec.events[1]
	if !ok.Success || ok.Purpose != PurposeInsight || ok.Provider != ProviderMock || ok.InputTokens != 120 {
		t.Errorf("success event = %+v", ok)
	}
	if !strings.Contains(ok.RequestBody, "[system]\nSummarise progress.") ||
		!strings.Contains(ok.RequestBody, "[user]\ntps=0.2") ||
		!strings.Contains(ok.RequestBody, "[schema: test-narrative]") {
		t.Errorf("request body = %q", ok.RequestBody)
	}
	if failed.Success || !strings.Contains(failed.ErrorMessage, "down") {
		t.Errorf("failure event = %+v", failed)
	}
}

func TestRecordingProvider_RecorderFailureIsSwallowed(t *testing.T) {
	rec := &memRecorder{err: errors.New("disk full")}
	p := WithRecorder(NewMockProvider(MockResponse{Content: json.RawMessage(`"x"`)}), rec, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("recorder failure leaked: %v", err)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, &memRecorder{}, logger.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != ProviderMock {
		t.Fatalf("name = %q", p.Name())
	}

	if _, err := NewProvider(context.Background(), DefaultConfig(), nil, nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("got %v, want ErrNotConfigured", err)
	}
}
