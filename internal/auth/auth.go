package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/real-social-media/pillar/internal/models"
	"github.com/real-social-media/pillar/pkg/logging"
)

// callerKey is the gin context key holding the authenticated userId
const callerKey = "auth.callerId"

// UserProvisioner creates the user row on first authenticated login
type UserProvisioner interface {
	EnsureUser(ctx context.Context, id, username string) (*models.User, error)
}

// CallerID returns the authenticated userId set by the middleware
func CallerID(c *gin.Context) string {
	id, _ := c.Get(callerKey)
	s, _ := id.(string)
	return s
}

// Middleware validates the bearer token issued by the external
// identity provider and resolves it to a stable userId. The identity
// provider itself is out of scope; we only verify its HS256 signature.
func Middleware(secret string, users UserProvisioner) gin.HandlerFunc {
	logger := logging.WithComponent("auth")

	return func(c *gin.Context) {
		userID, username, err := parseBearer(c.GetHeader("Authorization"), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"errors": []gin.H{{"message": "Unauthorized: invalid or expired token"}},
			})
			return
		}

		// First authenticated login creates the user row
		if _, err := users.EnsureUser(c.Request.Context(), userID, username); err != nil {
			logger.Error("Failed to provision user",
				zap.String("userId", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"errors": []gin.H{{"message": "ServerError: internal failure"}},
			})
			return
		}

		c.Set(callerKey, userID)
		c.Next()
	}
}

func parseBearer(header, secret string) (userID, username string, err error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", "", fmt.Errorf("missing bearer token")
	}

	token, err := jwt.Parse(strings.TrimPrefix(header, prefix), func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("unexpected claims type")
	}
	userID, err = claims.GetSubject()
	if err != nil || userID == "" {
		return "", "", fmt.Errorf("token has no subject")
	}
	username, _ = claims["username"].(string)
	return userID, username, nil
}
