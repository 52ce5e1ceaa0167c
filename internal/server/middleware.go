package server

import (
	"net/http"
	"strings"

	useruc "github.com/9yuq/nexus/internal/modules/user/usecase"
	"github.com/9yuq/nexus/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RequireAuth validates the bearer token and stores user_id and username
// on the request context for downstream handlers.
func RequireAuth(users *useruc.UserUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		userID, username, _, err := users.ValidateToken(c.Request.Context(), token)
		if err != nil {
			logger.Warn(c.Request.Context()).Err(err).Msg("Rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user_id", userID)
		c.Set("username", username)
		c.Next()
	}
}
