package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/linguo/internal/lessoncache"
	"github.com/abhisek/linguo/internal/platform/apierr"
	"github.com/abhisek/linguo/internal/platform/logger"
	"github.com/abhisek/linguo/internal/progress"
	"github.com/abhisek/linguo/internal/server/response"
)

type ProgressHandler struct {
	log *logger.Logger
	svc *progress.Service
}

func NewProgressHandler(log *logger.Logger, svc *progress.Service) *ProgressHandler {
	return &ProgressHandler{log: logger.OrNop(log).With("handler", "ProgressHandler"), svc: svc}
}

type answerRequest struct {
	QuestionIndex *int   `json:"questionIndex"`
	Answer        string `json:"answer"`
}

// POST /api/lessons/:id/answers
func (h *ProgressHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.QuestionIndex == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("questionIndex is required"))
		return
	}

	out, err := h.svc.Submit(c.Request.Context(), userID, c.Param("id"), progress.Answer{
		QuestionIndex: *req.QuestionIndex,
		Answer:        req.Answer,
	})
	if err != nil {
		response.RespondAPIError(c, progressError(err))
		return
	}
	response.RespondOK(c, out)
}

type profileResponse struct {
	TotalXP          int        `json:"totalXP"`
	CurrentLevel     int        `json:"currentLevel"`
	DailyStreak      int        `json:"dailyStreak"`
	LastActivityDate *time.Time `json:"lastActivityDate"`
}

// GET /api/profile
func (h *ProgressHandler) Profile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	p, err := h.svc.Profile(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, profileResponse{
		TotalXP:          p.TotalXP,
		CurrentLevel:     p.CurrentLevel,
		DailyStreak:      p.DailyStreak,
		LastActivityDate: p.LastActivityDate,
	})
}

func progressError(err error) error {
	switch {
	case errors.Is(err, progress.ErrQuestionOutOfRange):
		return apierr.New(http.StatusBadRequest, "question_out_of_range", err)
	case errors.Is(err, progress.ErrForbidden):
		return apierr.New(http.StatusForbidden, "lesson_completed", err)
	case errors.Is(err, lessoncache.ErrLessonNotFound):
		return apierr.New(http.StatusNotFound, "not_found", err)
	default:
		return err
	}
}
