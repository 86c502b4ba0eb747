package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 2048

// HTTPProvider calls an OpenAI-compatible chat completions endpoint with
// plain net/http. It is the secondary transport behind the SDK one.
type HTTPProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewHTTPProvider creates a raw-HTTP provider for cfg. A nil client
// selects http.DefaultClient.
func NewHTTPProvider(cfg OpenAIConfig, client *http.Client) (*HTTPProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoCredential
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   resolveModel(cfg.Model, openaiModels),
		client:  client,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *HTTPProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	req = req.withDefaults()

	messages := make([]chatMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(msg)))
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, &ErrRateLimit{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")), Err: statusErr}
		}
		return nil, &ErrProviderUnavailable{StatusCode: resp.StatusCode, Err: statusErr}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("read body: %w", err)}
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ErrInvalidResponse{Body: truncate(string(raw), maxErrorBody), Err: fmt.Errorf("decode response: %w", err)}
	}
	if out.Error != nil {
		return nil, &ErrInvalidResponse{Body: truncate(string(raw), maxErrorBody), Err: errors.New(out.Error.Message)}
	}
	if len(out.Choices) == 0 {
		return nil, &ErrInvalidResponse{Body: truncate(string(raw), maxErrorBody), Err: errors.New("no choices in chat completion response")}
	}

	model := out.Model
	if model == "" {
		model = p.model
	}
	stop := "end"
	if out.Choices[0].FinishReason == "length" {
		stop = "max_tokens"
	}

	return &Response{
		Text: out.Choices[0].Message.Content,
		Usage: Usage{
			InputTokens:  out.Usage.PromptTokens,
			OutputTokens: out.Usage.CompletionTokens,
			TotalTokens:  out.Usage.TotalTokens,
		},
		Model:      model,
		StopReason: stop,
	}, nil
}

func (p *HTTPProvider) ModelID() string {
	return p.model
}

// parseRetryAfter reads a delay-seconds Retry-After header.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
