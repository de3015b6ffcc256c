package middleware

import (
	"net/http"
	"strings"

	"github.com/Ishaan583/foodshare/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Auth(tokens *auth.TokenManager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			return
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			log.Debug("rejected token", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(auth.ContextUserID, claims.UserID)
		c.Set(auth.ContextUserEmail, claims.Email)
		c.Set(auth.ContextUserRole, claims.Role)
		c.Next()
	}
}
