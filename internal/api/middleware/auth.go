package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/veloxevents/doorman/internal/models"
	"github.com/veloxevents/doorman/internal/services"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "doorman_token"

// ExtractToken pulls the session token from the cookie or, failing that,
// a bearer Authorization header.
func ExtractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// AuthMiddleware validates the session token and stores the claims in the
// request context. Missing and invalid tokens both end the request with 401.
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("name", claims.Name)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole is the role gate. Runs after AuthMiddleware.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if value.(models.Role) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}

// CurrentActor assembles the audit actor from the authenticated context.
func CurrentActor(c *gin.Context) services.Actor {
	actor := services.Actor{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if v, ok := c.Get("userID"); ok {
		actor.UserID = v.(uint)
	}
	if v, ok := c.Get("name"); ok {
		actor.Name = v.(string)
	}
	if v, ok := c.Get("role"); ok {
		actor.Role = v.(models.Role)
	}
	return actor
}
