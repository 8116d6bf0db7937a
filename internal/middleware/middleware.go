package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"todo-api/pkg/logger"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userId"

type ctxKey struct{}

var userIDCtxKey = ctxKey{}

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

// AuthMiddleware admits requests carrying a valid bearer token and records the
// user id on both the gin context and the request context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		tokenStr, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Debug(ctx, "Missing or malformed Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access denied, token required"})
			return
		}
		userID, err := verifier.Verify(tokenStr)
		if err != nil {
			logger.Debug(ctx, "Token verification failed", "error", err)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Token verification failed, authorization denied"})
			return
		}
		c.Set(UserIDKey, userID)
		c.Request = c.Request.WithContext(WithUserID(ctx, userID))
		c.Next()
	}
}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserID returns the authenticated user id from a request context, or "".
func UserID(ctx context.Context) string {
	if s, ok := ctx.Value(userIDCtxKey).(string); ok {
		return s
	}
	return ""
}

// CORS allows any origin with a fixed method and header list, and answers preflights.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
