package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"taskboard/internal/backend"
	"taskboard/internal/session"
	"taskboard/internal/tokens"
	"taskboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Keys set on the gin context by the auth middlewares.
const (
	UserKey  = "user"
	TokenKey = "token"
)

// Verifier resolves an access token to a user id. With a JWT secret the token
// is checked locally; otherwise the backend is asked.
type Verifier struct {
	Secret string
	Auth   backend.Auth
}

// UserID returns the subject of token, or "" when the token is not valid.
func (v Verifier) UserID(ctx context.Context, token string) string {
	if token == "" {
		return ""
	}
	if v.Secret != "" {
		claims, err := tokens.Verify(v.Secret, token)
		if err != nil {
			logger.Debug(ctx, "JWT parse failed", "error", err)
			return ""
		}
		return claims.Subject
	}
	u, err := v.Auth.User(ctx, token)
	if err != nil {
		logger.Warn(ctx, "Backend user lookup failed", "error", err)
		return ""
	}
	if u == nil {
		return ""
	}
	return u.ID
}

// AuthMiddleware guards the JSON API with a Bearer token.
func AuthMiddleware(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		auth := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if auth == "" || !strings.HasPrefix(auth, prefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			logger.Debug(ctx, "Missing or invalid Authorization header")
			c.Abort()
			return
		}
		tokenStr := strings.TrimSpace(auth[len(prefix):])
		uid := v.UserID(ctx, tokenStr)
		if uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Set(UserKey, uid)
		c.Set(TokenKey, tokenStr)
		c.Next()
	}
}

// SessionMiddleware guards pages with the session cookie and sends strangers to /login.
func SessionMiddleware(v Verifier, cookies session.Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		token := cookies.Token(c.Request)
		uid := v.UserID(ctx, token)
		if uid == "" {
			if token != "" {
				cookies.Clear(c.Writer)
			}
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Set(UserKey, uid)
		c.Set(TokenKey, token)
		c.Next()
	}
}

// RequestLogger tags the request context with an id and logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		ctx := logger.WithRequestID(c.Request.Context(), rid)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", rid)

		c.Next()

		logger.Info(ctx, "HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"dur_ms", time.Since(start).Milliseconds())
	}
}

// Token returns the access token stored by the auth middlewares.
func Token(c *gin.Context) string {
	return c.GetString(TokenKey)
}
