package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/linguo/internal/lessoncache"
	"github.com/abhisek/linguo/internal/lessons"
	"github.com/abhisek/linguo/internal/platform/apierr"
	"github.com/abhisek/linguo/internal/platform/logger"
	"github.com/abhisek/linguo/internal/server/response"
)

const (
	headerRecordID = "X-Lesson-Record-Id"
	headerCache    = "X-Lesson-Cache"
)

var errAssessmentCompleted = errors.New("Assessment already completed. You cannot repeat this lesson.")

type LessonHandler struct {
	log   *logger.Logger
	cache *lessoncache.Service
}

func NewLessonHandler(log *logger.Logger, cache *lessoncache.Service) *LessonHandler {
	return &LessonHandler{log: logger.OrNop(log).With("handler", "LessonHandler"), cache: cache}
}

// GET /api/personalized-lesson?type=<lessonType>
func (h *LessonHandler) PersonalizedLesson(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	raw := c.DefaultQuery("type", string(lessons.TypeGrammar))
	t, err := lessons.ParseType(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_lesson_type", err)
		return
	}

	served, err := h.cache.PersonalizedLesson(c.Request.Context(), userID, t)
	if err != nil {
		response.RespondAPIError(c, lessonError(err))
		return
	}
	writeLesson(c, served)
}

// GET /api/assessment-lesson
func (h *LessonHandler) AssessmentLesson(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	served, err := h.cache.AssessmentLesson(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, lessonError(err))
		return
	}
	writeLesson(c, served)
}

// GET /api/lesson-completion-status?type=<lessonType>
func (h *LessonHandler) CompletionStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	raw := strings.TrimSpace(c.Query("type"))
	if raw == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_lesson_type", errors.New("Lesson type required"))
		return
	}
	t, err := lessons.ParseType(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_lesson_type", err)
		return
	}

	status, err := h.cache.CompletionStatus(c.Request.Context(), userID, t)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, status)
}

// POST /api/lessons/:id/complete
func (h *LessonHandler) Complete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.cache.MarkCompleted(c.Request.Context(), userID, c.Param("id")); err != nil {
		response.RespondAPIError(c, lessonError(err))
		return
	}
	response.RespondOK(c, gin.H{"completed": true})
}

// writeLesson sends the stored lesson bytes unchanged.
func writeLesson(c *gin.Context, served lessoncache.Served) {
	cache := "miss"
	if served.Cached {
		cache = "hit"
	}
	if served.RecordID != "" {
		c.Header(headerRecordID, served.RecordID)
	}
	c.Header(headerCache, cache)
	c.Data(http.StatusOK, "application/json; charset=utf-8", served.Data)
}

func lessonError(err error) error {
	switch {
	case errors.Is(err, lessoncache.ErrAssessmentCompleted):
		return apierr.New(http.StatusForbidden, "assessment_completed", errAssessmentCompleted)
	case errors.Is(err, lessoncache.ErrLessonNotFound):
		return apierr.New(http.StatusNotFound, "not_found", err)
	default:
		return err
	}
}
