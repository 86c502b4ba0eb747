package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultGroqBaseURL   = "https://api.groq.com/openai/v1"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the primary transport.
	// Values: "groq", "openai", "anthropic", "gemini", "mock"
	Provider string

	Groq      OpenAIConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Gemini    GeminiConfig

	// RawFallback enables the secondary raw-HTTP transport for the
	// OpenAI-compatible providers (groq, openai). Default: true.
	RawFallback bool

	// Timeout bounds one Generate call across every transport. Default: 30s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Empty selects the SDK default.
}

// OpenAIConfig configures an OpenAI-compatible endpoint (OpenAI itself or Groq).
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string // Empty selects the SDK default.
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "groq",
		Groq: OpenAIConfig{
			Model:   "llama-3.1-8b-instant",
			BaseURL: DefaultGroqBaseURL,
		},
		OpenAI: OpenAIConfig{
			Model:   "gpt-4o-mini",
			BaseURL: DefaultOpenAIBaseURL,
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		RawFallback: true,
		Timeout:     30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("LINGUO_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	// GROQ_API_KEY is the conventional name; the prefixed one wins.
	if k := os.Getenv("GROQ_API_KEY"); k != "" {
		cfg.Groq.APIKey = k
	}
	if k := os.Getenv("LINGUO_GROQ_API_KEY"); k != "" {
		cfg.Groq.APIKey = k
	}
	if m := os.Getenv("LINGUO_GROQ_MODEL"); m != "" {
		cfg.Groq.Model = m
	}
	if u := os.Getenv("LINGUO_GROQ_BASE_URL"); u != "" {
		cfg.Groq.BaseURL = u
	}

	if k := os.Getenv("LINGUO_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("LINGUO_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("LINGUO_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if k := os.Getenv("LINGUO_ANTHROPIC_API_KEY"); k != "" {
		cfg.Anthropic.APIKey = k
	}
	if m := os.Getenv("LINGUO_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}
	if u := os.Getenv("LINGUO_ANTHROPIC_BASE_URL"); u != "" {
		cfg.Anthropic.BaseURL = u
	}

	if k := os.Getenv("LINGUO_GEMINI_API_KEY"); k != "" {
		cfg.Gemini.APIKey = k
	}
	if m := os.Getenv("LINGUO_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}
	if u := os.Getenv("LINGUO_GEMINI_BASE_URL"); u != "" {
		cfg.Gemini.BaseURL = u
	}

	if v := os.Getenv("LINGUO_LLM_RAW_FALLBACK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.RawFallback = b
		}
	}
	if v := os.Getenv("LINGUO_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// Validate checks the provider name and that it has a credential. A missing
// credential yields an error wrapping ErrNoCredential so callers can run
// with generation disabled instead of failing.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "groq":
		key, env = c.Groq.APIKey, "GROQ_API_KEY"
	case "openai":
		key, env = c.OpenAI.APIKey, "LINGUO_OPENAI_API_KEY"
	case "anthropic":
		key, env = c.Anthropic.APIKey, "LINGUO_ANTHROPIC_API_KEY"
	case "gemini":
		key, env = c.Gemini.APIKey, "LINGUO_GEMINI_API_KEY"
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider: %w", env, c.Provider, ErrNoCredential)
	}
	return nil
}
