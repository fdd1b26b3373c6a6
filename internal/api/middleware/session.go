package middleware

import (
	"net/http"
	"time"

	"github.com/example/storefront/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionCookie = "session"
	SessionHeader = "X-Session-Token"

	sessionContextKey = "session_id"
)

// ExtractToken extracts the session token from cookie or header
func ExtractToken(r *http.Request) string {
	// Try cookie first (for browser)
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	// Fall back to header (for API clients)
	return r.Header.Get(SessionHeader)
}

// Session attaches the browsing session to the request. A request without a
// valid token gets a new session, returned in both the cookie and the
// X-Session-Token response header.
func Session(tokens *session.TokenService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		if token := ExtractToken(c.Request); token != "" {
			sessionID, err := tokens.Validate(token)
			if err == nil {
				c.Set(sessionContextKey, sessionID)
				c.Next()
				return
			}
			logger.Debug("replacing session", zap.Error(err))
		}

		sessionID, token, expiresAt, err := tokens.New()
		if err != nil {
			logger.Error("failed to issue session token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, token, int(time.Until(expiresAt).Seconds()), "/", "", false, true)
		c.Header(SessionHeader, token)
		c.Set(sessionContextKey, sessionID)
		c.Next()
	}
}

// SessionID returns the session attached by Session
func SessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}

// RequestLogger logs one line per request
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Debug("request", fields...)
		}
	}
}
