package utils

import (
	"net/http"
	"strings"

	"DropDock/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthMiddleware verifies JWT and sets user context. Token issuance lives in
// the identity service; this side only verifies.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		claims, err := VerifyToken(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Set("username", claims.Username)
		c.Set("user_id", claims.UserId)
		c.Next()
	}
}

// SweepAuthMiddleware gates the cleanup trigger behind a shared secret. The
// configured value is a bcrypt hash; an empty hash disables the endpoint.
func SweepAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		hash := config.AppConfig.SweepSecretHash
		if hash == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "sweep endpoint disabled"})
			c.Abort()
			return
		}
		secret := c.GetHeader("X-Sweep-Secret")
		if secret == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
