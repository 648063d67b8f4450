package middleware

import (
	"net/http"
	"time"

	"upbolis-market/pkg/apperror"
	"upbolis-market/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// HeaderUserID carries the authenticated user's ID, set by the upstream
	// gateway that terminates authentication.
	HeaderUserID = "X-User-ID"

	// CtxUserID is the gin context key the identity middleware sets.
	CtxUserID = "user_id"
)

// Identity creates a middleware that extracts the caller's identity from the
// gateway-provided header. Requests without a valid user ID never reach a
// handler.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderUserID)
		if raw == "" {
			response.Error(c, apperror.ErrMissingIdentity())
			c.Abort()
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperror.ErrMissingIdentity())
			c.Abort()
			return
		}
		c.Set(CtxUserID, userID)
		c.Next()
	}
}

// UserID returns the authenticated user's ID from the gin context.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_001",
					"message":    "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// MaxBodySize returns middleware that limits the request body size. Reads
// past the limit fail, so an oversized body surfaces as a binding error in
// the handler.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
