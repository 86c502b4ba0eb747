package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/abhisek/linguo/internal/platform/logger"
	"github.com/abhisek/linguo/internal/store"
)

// Transport names used in logs and events.
const (
	TransportPrimary   = "primary"
	TransportSecondary = "secondary"
)

// NewProvider creates the transport chain from configuration. Each
// transport is wrapped with logging; OpenAI-compatible providers get the
// raw HTTP transport as secondary when cfg.RawFallback is set. eventRepo
// may be nil.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		primary   Provider
		secondary Provider
		err       error
	)

	switch cfg.Provider {
	case "groq", "openai":
		oc := cfg.Groq
		if cfg.Provider == "openai" {
			oc = cfg.OpenAI
		}
		primary, err = NewOpenAIProvider(oc)
		if err == nil && cfg.RawFallback {
			secondary, err = NewHTTPProvider(oc, &http.Client{Timeout: cfg.Timeout})
		}
	case "anthropic":
		primary, err = NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		primary, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		primary = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → fallback → logging → transport
	transports := []Transport{{
		Name:     TransportPrimary,
		Provider: WithLogging(primary, Labels{Provider: cfg.Provider, Transport: TransportPrimary}, eventRepo, log),
	}}
	if secondary != nil {
		transports = append(transports, Transport{
			Name:     TransportSecondary,
			Provider: WithLogging(secondary, Labels{Provider: cfg.Provider, Transport: TransportSecondary}, eventRepo, log),
		})
	}

	return WithFallback(log, transports...), nil
}

// NewClientFromConfig builds a Client. A missing credential is not an
// error: the client is returned disabled and the app serves offline
// content.
func NewClientFromConfig(ctx context.Context, cfg Config, eventRepo store.EventRepo, log *logger.Logger) (*Client, error) {
	log = logger.OrNop(log)

	p, err := NewProvider(ctx, cfg, eventRepo, log)
	if errors.Is(err, ErrNoCredential) {
		log.Warn("lesson generation disabled", "provider", cfg.Provider, "reason", err.Error())
		return NewClient(nil, cfg.Timeout, log), nil
	}
	if err != nil {
		return nil, err
	}

	log.Info("lesson generation enabled", "provider", cfg.Provider, "model", p.ModelID(), "raw_fallback", cfg.RawFallback)
	return NewClient(p, cfg.Timeout, log), nil
}
