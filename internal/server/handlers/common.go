package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/linguo/internal/auth"
	"github.com/abhisek/linguo/internal/server/response"
)

var errUnauthenticated = errors.New("missing or invalid token")

// currentUser returns the authenticated user id or writes a 401.
func currentUser(c *gin.Context) (string, bool) {
	id, ok := auth.UserIDFrom(c.Request.Context())
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errUnauthenticated)
		return "", false
	}
	return id, true
}
