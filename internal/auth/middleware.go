package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// validates JWT tokens and resolves the owner identity into the context.
// an unresolved identity never reaches a store or feed operation - requests
// are denied here.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := ValidateJWT(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("owner_id", claims.OwnerID)
		c.Set("owner_email", claims.Email)

		c.Next()
	}
}

// returns the resolved owner id after AuthMiddleware, and whether the
// identity has been resolved at all
func CurrentOwner(c *gin.Context) (string, bool) {
	ownerID, exists := c.Get("owner_id")

	if !exists {
		return "", false
	}

	return ownerID.(string), true
}
