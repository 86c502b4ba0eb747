package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/linguo/internal/auth"
	"github.com/abhisek/linguo/internal/platform/logger"
	"github.com/abhisek/linguo/internal/server/response"
)

type AuthMiddleware struct {
	log      *logger.Logger
	verifier *auth.Verifier
}

func NewAuthMiddleware(log *logger.Logger, verifier *auth.Verifier) *AuthMiddleware {
	return &AuthMiddleware{log: logger.OrNop(log).With("middleware", "AuthMiddleware"), verifier: verifier}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// user id on the request context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		claims, err := am.verifier.Verify(token)
		if err != nil {
			am.log.Debug("rejected request", "path", c.Request.URL.Path, "error", err)
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", auth.ErrInvalidToken)
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), claims.Subject))
		c.Set("user_id", claims.Subject)
		c.Next()
	}
}
