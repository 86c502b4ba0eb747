package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/linguo/internal/platform/logger"
	"github.com/abhisek/linguo/internal/store"
)

// Labels name a transport in logs and recorded events.
type Labels struct {
	Provider  string // groq, openai, anthropic, gemini, mock
	Transport string // primary, secondary
}

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner     Provider
	labels    Labels
	eventRepo store.EventRepo
	log       *logger.Logger
}

// WithLogging wraps a Provider with event logging. A nil repo disables
// event recording; structured logs are always written.
func WithLogging(p Provider, labels Labels, repo store.EventRepo, log *logger.Logger) Provider {
	return &LoggingProvider{
		inner:     p,
		labels:    labels,
		eventRepo: repo,
		log:       logger.OrNop(log),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMRequestEventData{
		Provider:    l.labels.Provider,
		Transport:   l.labels.Transport,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = resp.Text
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("llm request failed",
			"provider", data.Provider,
			"transport", data.Transport,
			"model", data.Model,
			"purpose", purpose,
			"latency_ms", latencyMs,
			"error", err,
		)
	} else {
		l.log.Debug("llm request",
			"provider", data.Provider,
			"transport", data.Transport,
			"model", data.Model,
			"purpose", purpose,
			"latency_ms", latencyMs,
			"input_tokens", data.InputTokens,
			"output_tokens", data.OutputTokens,
		)
	}

	if l.eventRepo != nil {
		// Recording is best effort; the request outcome stands either way.
		// The caller's context may already be done, so use a detached one.
		recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		if logErr := l.eventRepo.AppendLLMRequest(recCtx, data); logErr != nil {
			l.log.Warn("failed to record llm request event", "error", logErr)
		}
		cancel()
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	return b.String()
}
