package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/linguo/internal/platform/logger"
	"github.com/abhisek/linguo/internal/server/response"
	"github.com/abhisek/linguo/internal/tutor"
)

type TutorHandler struct {
	log   *logger.Logger
	tutor *tutor.Tutor
}

func NewTutorHandler(log *logger.Logger, t *tutor.Tutor) *TutorHandler {
	return &TutorHandler{log: logger.OrNop(log).With("handler", "TutorHandler"), tutor: t}
}

// POST /api/ai-feedback
func (h *TutorHandler) Feedback(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	var in tutor.FeedbackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	response.RespondOK(c, gin.H{"feedback": h.tutor.Feedback(c.Request.Context(), in)})
}

type chatRequest struct {
	Messages []tutor.ChatMessage `json:"messages"`
	CourseID string              `json:"courseId"`
}

// POST /api/ai-chat
func (h *TutorHandler) Chat(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_messages", tutor.ErrInvalidMessages)
		return
	}
	reply, err := h.tutor.Chat(c.Request.Context(), req.Messages, req.CourseID)
	if errors.Is(err, tutor.ErrInvalidMessages) {
		response.RespondError(c, http.StatusBadRequest, "invalid_messages", err)
		return
	}
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": reply})
}
