package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pankajbaid567/Fittlr-Backend/internal/api"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "user_email"
	ctxName   = "user_name"
	ctxRole   = "user_role"
)

func AuthMiddleware(accessTokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			api.Fail(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			api.Fail(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			api.Fail(c, http.StatusUnauthorized, "Token is empty")
			c.Abort()
			return
		}

		claims, err := ValidateToken(tokenString, accessTokenSecret)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				api.Fail(c, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, ErrInvalidTokenType):
				api.Fail(c, http.StatusUnauthorized, "Access token required")
			default:
				api.Fail(c, http.StatusUnauthorized, "Invalid or malformed token")
			}
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxName, claims.Name)
		c.Set(ctxRole, claims.Role)

		c.Next()
	}
}

func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			api.Fail(c, http.StatusUnauthorized, "User role not found")
			c.Abort()
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			api.Fail(c, http.StatusUnauthorized, "Invalid role type")
			c.Abort()
			return
		}

		if roleStr != requiredRole {
			api.Fail(c, http.StatusForbidden, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}

// GetIdentity returns everything AuthMiddleware stored about the caller.
func GetIdentity(c *gin.Context) (Identity, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return Identity{}, false
	}
	return Identity{
		UserID: id,
		Email:  c.GetString(ctxEmail),
		Name:   c.GetString(ctxName),
		Role:   c.GetString(ctxRole),
	}, true
}
