package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/linguo/internal/platform/logger"
)

// Client is the generation entry point used by the rest of the app. It
// never returns an error: any failure collapses to ("", false) so callers
// fall back to offline content.
type Client struct {
	provider Provider
	timeout  time.Duration
	log      *logger.Logger
}

// NewClient wraps provider. A nil provider yields a disabled client that
// answers ("", false) without network I/O. A zero timeout means the
// caller's context is the only bound.
func NewClient(provider Provider, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{provider: provider, timeout: timeout, log: logger.OrNop(log)}
}

// Enabled reports whether a provider is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.provider != nil
}

// Generate asks the model for a reply to req.
func (c *Client) Generate(ctx context.Context, req Request) (text string, ok bool) {
	if !c.Enabled() {
		return "", false
	}

	req = req.withDefaults()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	purpose := PurposeFrom(ctx)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			c.log.Error("llm generate panicked", "purpose", purpose, "panic", fmt.Sprint(r))
			text, ok = "", false
		}
	}()

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		c.log.Warn("llm generation unavailable",
			"purpose", purpose,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return "", false
	}
	if resp == nil || resp.Text == "" {
		c.log.Warn("llm generation returned no text", "purpose", purpose)
		return "", false
	}

	c.log.Debug("llm generation ok",
		"purpose", purpose,
		"model", resp.Model,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp.Text, true
}
