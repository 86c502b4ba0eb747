package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/linguo/internal/server/response"
)

// Pinger reports whether a dependency is reachable. *store.Store satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler { return &HealthHandler{db: db} }

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			response.RespondError(c, http.StatusServiceUnavailable, "database_unavailable", err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
