package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/Ishaan583/foodshare/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireRole must run after Auth. Callers without one of the given roles
// get 403.
func RequireRole(roles ...string) gin.HandlerFunc {
	denied := gin.H{"error": "requires role " + strings.Join(roles, " or ")}

	return func(c *gin.Context) {
		if !slices.Contains(roles, c.GetString(auth.ContextUserRole)) {
			c.AbortWithStatusJSON(http.StatusForbidden, denied)
			return
		}
		c.Next()
	}
}
