// Package speech converts lesson text to audio with the ElevenLabs API.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/abhisek/linguo/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://api.elevenlabs.io/v1"
	DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"
	DefaultModelID = "eleven_monolingual_v1"

	// MaxTextLength bounds a single synthesis request, in characters.
	MaxTextLength = 2500
)

var (
	// ErrUnavailable is returned when no API key is configured.
	ErrUnavailable = errors.New("speech synthesis not configured")

	// ErrEmptyText and ErrTextTooLong reject input before any request.
	ErrEmptyText   = errors.New("text is required")
	ErrTextTooLong = fmt.Errorf("text exceeds %d characters", MaxTextLength)
)

// UpstreamError is a failed ElevenLabs response.
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("elevenlabs: %v", e.Err)
	}
	return fmt.Sprintf("elevenlabs: status %d: %s", e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Config configures the ElevenLabs client.
type Config struct {
	APIKey  string
	BaseURL string
	VoiceID string
	ModelID string
	Timeout time.Duration
}

// ConfigFromEnv reads ELEVENLABS_API_KEY and optional LINGUO_TTS_* overrides.
func ConfigFromEnv() Config {
	cfg := Config{
		APIKey:  strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY")),
		BaseURL: DefaultBaseURL,
		VoiceID: DefaultVoiceID,
		ModelID: DefaultModelID,
		Timeout: 30 * time.Second,
	}
	if v := strings.TrimSpace(os.Getenv("LINGUO_TTS_BASE_URL")); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("LINGUO_TTS_VOICE_ID")); v != "" {
		cfg.VoiceID = v
	}
	if v := strings.TrimSpace(os.Getenv("LINGUO_TTS_MODEL_ID")); v != "" {
		cfg.ModelID = v
	}
	return cfg
}

// Client calls the text-to-speech endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *logger.Logger
}

// New creates a Client. A missing API key is not an error here; Synthesize
// reports ErrUnavailable instead.
func New(cfg Config, log *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.VoiceID == "" {
		cfg.VoiceID = DefaultVoiceID
	}
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultModelID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.OrNop(log).With("client", "ElevenLabs"),
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.APIKey != ""
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize returns MPEG audio for text.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if len([]rune(text)) > MaxTextLength {
		return nil, ErrTextTooLong
	}
	if !c.Enabled() {
		return nil, ErrUnavailable
	}

	body, err := json.Marshal(synthesizeRequest{
		Text:          text,
		ModelID:       c.cfg.ModelID,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.75},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.cfg.BaseURL + "/text-to-speech/" + c.cfg.VoiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("speech synthesis failed", "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(msg)}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Err: err}
	}
	c.log.Debug("speech synthesized", "chars", len(text), "bytes", len(audio), "duration_ms", time.Since(start).Milliseconds())
	return audio, nil
}
