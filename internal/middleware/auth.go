package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skillery/backend/internal/auth"
)

const (
	// userIDKey is the gin context key holding the authenticated user ID.
	userIDKey = "user_id"
	// emailKey is the gin context key holding the authenticated email.
	emailKey = "email"
)

// UserID extracts the authenticated user ID from the request context.
// Returns empty string if not set.
func UserID(c *gin.Context) string {
	id, _ := c.Get(userIDKey)
	s, _ := id.(string)
	return s
}

// Email extracts the authenticated user's email from the request context.
func Email(c *gin.Context) string {
	v, _ := c.Get(emailKey)
	s, _ := v.(string)
	return s
}

// RequireAuth validates the Bearer token and stores the caller identity in
// the request context. Requests without a valid token are rejected before
// any handler runs.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(emailKey, claims.Email)
		c.Next()
	}
}
