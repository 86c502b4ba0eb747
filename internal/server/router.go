// Package server exposes the HTTP API.
package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/abhisek/linguo/internal/platform/logger"
	httpH "github.com/abhisek/linguo/internal/server/handlers"
	httpMW "github.com/abhisek/linguo/internal/server/middleware"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string

	AuthMiddleware  *httpMW.AuthMiddleware
	LessonHandler   *httpH.LessonHandler
	ProgressHandler *httpH.ProgressHandler
	TutorHandler    *httpH.TutorHandler
	SpeechHandler   *httpH.SpeechHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "linguo"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(httpMW.CORS(cfg.AllowedOrigins))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Lessons
	if cfg.LessonHandler != nil {
		api.GET("/personalized-lesson", cfg.LessonHandler.PersonalizedLesson)
		api.GET("/assessment-lesson", cfg.LessonHandler.AssessmentLesson)
		api.GET("/lesson-completion-status", cfg.LessonHandler.CompletionStatus)
		api.POST("/lessons/:id/complete", cfg.LessonHandler.Complete)
	}

	// Progress
	if cfg.ProgressHandler != nil {
		api.POST("/lessons/:id/answers", cfg.ProgressHandler.SubmitAnswer)
		api.GET("/profile", cfg.ProgressHandler.Profile)
	}

	// Tutor
	if cfg.TutorHandler != nil {
		api.POST("/ai-feedback", cfg.TutorHandler.Feedback)
		api.POST("/ai-chat", cfg.TutorHandler.Chat)
	}

	// Speech
	if cfg.SpeechHandler != nil {
		api.POST("/text-to-speech", cfg.SpeechHandler.TextToSpeech)
	}

	return r
}
