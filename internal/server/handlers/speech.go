package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/linguo/internal/platform/logger"
	"github.com/abhisek/linguo/internal/server/response"
	"github.com/abhisek/linguo/internal/speech"
)

var errSpeechFailed = errors.New("Failed to generate speech")

type SpeechHandler struct {
	log    *logger.Logger
	client *speech.Client
}

func NewSpeechHandler(log *logger.Logger, client *speech.Client) *SpeechHandler {
	return &SpeechHandler{log: logger.OrNop(log).With("handler", "SpeechHandler"), client: client}
}

type speechRequest struct {
	Text string `json:"text"`
}

// POST /api/text-to-speech
func (h *SpeechHandler) TextToSpeech(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	var req speechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	audio, err := h.client.Synthesize(c.Request.Context(), req.Text)
	var upstream *speech.UpstreamError
	switch {
	case err == nil:
		c.Data(http.StatusOK, "audio/mpeg", audio)
	case errors.Is(err, speech.ErrEmptyText), errors.Is(err, speech.ErrTextTooLong):
		response.RespondError(c, http.StatusBadRequest, "invalid_text", err)
	case errors.Is(err, speech.ErrUnavailable):
		response.RespondError(c, http.StatusServiceUnavailable, "speech_unavailable", err)
	case errors.As(err, &upstream):
		h.log.Warn("text to speech failed", "error", err)
		response.RespondError(c, http.StatusBadGateway, "speech_failed", errSpeechFailed)
	default:
		response.RespondAPIError(c, err)
	}
}
