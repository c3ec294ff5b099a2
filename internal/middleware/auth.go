package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abexp/abexp-backend/internal/handlers"
	"github.com/abexp/abexp-backend/internal/pkg/logger"
)

var (
	errMissingToken = errors.New("missing authorization token")
	errInvalidToken = errors.New("invalid authorization token")
)

type AuthMiddleware struct {
	log       *logger.Logger
	authToken string
}

func NewAuthMiddleware(log *logger.Logger, authToken string) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authToken: authToken}
}

// RequireAuth guards mutating admin routes with the static service token.
// A missing Authorization header is unauthorized, a mismatching one is
// forbidden.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			handlers.RespondError(c, http.StatusUnauthorized, "unauthorized", errMissingToken)
			c.Abort()
			return
		}
		if token != am.authToken {
			am.log.Warn("Rejected request with invalid auth token", "path", c.FullPath())
			handlers.RespondError(c, http.StatusForbidden, "forbidden", errInvalidToken)
			c.Abort()
			return
		}
		c.Next()
	}
}
