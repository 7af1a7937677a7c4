// Package middleware holds gin middleware for the HTTP API.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eduflow/course-booking/internal/service"
	"github.com/eduflow/course-booking/pkg/response"
)

// Auth validates the bearer token and loads the session into the request
// context under user_id / is_admin.
func Auth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}

		session, err := authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired session")
			c.Abort()
			return
		}

		c.Set("user_id", session.UserID)
		if session.User != nil {
			c.Set("is_admin", session.User.IsAdmin)
		}
		c.Next()
	}
}

// AdminOnly rejects requests from non-admin sessions. Must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("is_admin") {
			response.Forbidden(c, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return header
}
