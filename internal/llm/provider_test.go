package llm

import (
	"context"
	"errors"
	"testing"
)

func TestMockProvider_ReturnsCanedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: `{"a":1}`, Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Text: `{"b":2}`},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Text != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Text)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp2.Text != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Text)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: `{}`},
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "lesson")
	if p := PurposeFrom(ctx); p != "lesson" {
		t.Fatalf("expected 'lesson', got %q", p)
	}

	if p := PurposeFrom(WithPurpose(ctx, "")); p != "lesson" {
		t.Fatalf("expected empty purpose to keep 'lesson', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "anthropic without key",
			cfg:     Config{Provider: "anthropic"},
			wantErr: true,
		},
		{
			name:    "anthropic with key",
			cfg:     Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "openai without key",
			cfg:     Config{Provider: "openai"},
			wantErr: true,
		},
		{
			name:    "openai with key",
			cfg:     Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}},
			wantErr: false,
		},
		{
			name:    "groq without key",
			cfg:     Config{Provider: "groq"},
			wantErr: true,
		},
		{
			name:    "groq with key",
			cfg:     Config{Provider: "groq", Groq: OpenAIConfig{APIKey: "gsk-test"}},
			wantErr: false,
		},
		{
			name:    "mock needs no key",
			cfg:     Config{Provider: "mock"},
			wantErr: false,
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateMissingKeyIsNoCredential(t *testing.T) {
	err := Config{Provider: "groq"}.Validate()
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
	err = Config{Provider: "unknown"}.Validate()
	if errors.Is(err, ErrNoCredential) {
		t.Fatal("unknown provider must not look like a missing credential")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LINGUO_LLM_PROVIDER", "")
	t.Setenv("LINGUO_GROQ_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "gsk-plain")
	t.Setenv("LINGUO_LLM_TIMEOUT", "5s")
	t.Setenv("LINGUO_LLM_RAW_FALLBACK", "false")

	cfg := ConfigFromEnv()
	if cfg.Provider != "groq" {
		t.Fatalf("expected default provider groq, got %q", cfg.Provider)
	}
	if cfg.Groq.APIKey != "gsk-plain" {
		t.Fatalf("expected GROQ_API_KEY to be used, got %q", cfg.Groq.APIKey)
	}
	if cfg.Groq.BaseURL != DefaultGroqBaseURL {
		t.Fatalf("expected default Groq base URL, got %q", cfg.Groq.BaseURL)
	}
	if cfg.Timeout.String() != "5s" {
		t.Fatalf("expected 5s timeout, got %s", cfg.Timeout)
	}
	if cfg.RawFallback {
		t.Fatal("expected raw fallback disabled")
	}

	t.Setenv("LINGUO_GROQ_API_KEY", "gsk-prefixed")
	if got := ConfigFromEnv().Groq.APIKey; got != "gsk-prefixed" {
		t.Fatalf("expected prefixed key to win, got %q", got)
	}
}

func TestRequestDefaults(t *testing.T) {
	r := Request{}.withDefaults()
	if r.MaxTokens != DefaultMaxTokens {
		t.Fatalf("expected %d max tokens, got %d", DefaultMaxTokens, r.MaxTokens)
	}
	if r.Temperature != DefaultTemperature {
		t.Fatalf("expected temperature %v, got %v", DefaultTemperature, r.Temperature)
	}

	r = Request{MaxTokens: 2048, Temperature: 0.4}.withDefaults()
	if r.MaxTokens != 2048 || r.Temperature != 0.4 {
		t.Fatalf("expected explicit values kept, got %d/%v", r.MaxTokens, r.Temperature)
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("llama-3.1-8b-instant")
	if c == nil {
		t.Fatal("expected Groq model to be priced")
	}
	got := c.Cost(1_000_000, 1_000_000)
	if got < 0.129 || got > 0.131 {
		t.Fatalf("expected cost 0.13, got %v", got)
	}
	if LookupCost("no-such-model") != nil {
		t.Fatal("expected nil for unknown model")
	}
}

func TestErrProviderUnavailable_Message(t *testing.T) {
	cases := []struct {
		err      *ErrProviderUnavailable
		expected string
	}{
		{&ErrProviderUnavailable{StatusCode: 503, Err: errors.New("overloaded")}, "LLM provider unavailable (status 503): overloaded"},
		{&ErrProviderUnavailable{Err: errors.New("dial tcp: refused")}, "LLM provider unavailable: dial tcp: refused"},
		{&ErrProviderUnavailable{StatusCode: 429}, "LLM provider unavailable (status 429)"},
		{&ErrProviderUnavailable{}, "LLM provider unavailable"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.expected {
			t.Errorf("expected %q, got %q", tc.expected, got)
		}
	}
}
