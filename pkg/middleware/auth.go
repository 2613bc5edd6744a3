package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/common"
)

const (
	// UserIDKey is the context key for the authenticated user ID
	UserIDKey = "user_id"
	// UserRoleKey is the context key for the authenticated user role
	UserRoleKey = "user_role"
)

// Claims represents the JWT claims issued by the auth service
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the Bearer token and stores user identity in the context
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			common.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header")
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			common.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole aborts the request unless the authenticated user has the given role
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(UserRoleKey) != role {
			common.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts the request unless the authenticated user is an admin
func RequireAdmin() gin.HandlerFunc {
	return RequireRole("admin")
}

// GetUserID extracts the authenticated user ID from the gin context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetString(UserIDKey)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("no authenticated user in context")
	}
	return uuid.Parse(raw)
}
