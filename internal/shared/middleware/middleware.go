package middleware

import (
	"strings"

	"ticketly/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// ContextSessionID is the gin context key for the client session token.
	ContextSessionID = "session_id"
	// ContextUserID is the gin context key for the optional authenticated user.
	ContextUserID = "user_id"

	headerSessionID = "X-Session-ID"
)

// Session resolves the opaque client-correlation token. Clients generate it
// themselves and persist it across reconnects; a request without one gets a
// fresh id echoed back so the client can adopt it.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(headerSessionID)
		if sessionID == "" {
			sessionID = uuid.New().String()
		}
		c.Set(ContextSessionID, sessionID)
		c.Header(headerSessionID, sessionID)
		c.Next()
	}
}

// SessionID returns the session token resolved by Session().
func SessionID(c *gin.Context) string {
	if v, ok := c.Get(ContextSessionID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// OptionalAuth extracts the user id from a bearer token when one is
// presented. Authentication itself is owned by an external service; an
// absent or invalid token just leaves the request anonymous.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") || cfg.JWT.Secret == "" {
			c.Next()
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		if sub, ok := claims["sub"].(string); ok && sub != "" {
			c.Set(ContextUserID, sub)
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, if any.
func UserID(c *gin.Context) *string {
	if v, ok := c.Get(ContextUserID); ok {
		if s, ok := v.(string); ok && s != "" {
			return &s
		}
	}
	return nil
}
